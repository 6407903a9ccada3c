// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inventory reads, validates and atomically rewrites the
// storefront inventory JSON file.
package inventory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/pdiddy/storefront/pkg/types"
)

const indent = "    "

// ErrNotFound is returned by Load when the inventory file does not exist.
var ErrNotFound = errors.New("inventory file not found")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the whole inventory file. Entries given as bare URL strings
// are normalized to full entries.
func Load(path string) (*types.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("reading inventory: %w", err)
	}

	var inv types.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("parsing inventory %s: %w", path, err)
	}
	return &inv, nil
}

// Marshal renders inv with four-space indentation, sorted keys and a
// trailing newline. Output is stable for equal inventories.
func Marshal(inv *types.Inventory) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", indent)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(inv); err != nil {
		return nil, fmt.Errorf("encoding inventory: %w", err)
	}
	return buf.Bytes(), nil
}

// Save replaces the file at path with inv. The content is written to a
// temporary file in the same directory and renamed into place, so readers
// never observe a partial file.
func Save(path string, inv *types.Inventory) error {
	data, err := Marshal(inv)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".inventory-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing inventory: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Validate checks that every entry has a well-formed URL, that image URLs
// parse, and that URLs are unique within each list.
func Validate(inv *types.Inventory) error {
	if err := validate.Struct(inv); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return &ValidationError{Fields: verrs}
		}
		return err
	}
	return nil
}

// ValidationError lists the inventory fields that failed validation.
type ValidationError struct {
	Fields validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return "invalid inventory: " + describe(e.Fields[0])
	}
	return fmt.Sprintf("invalid inventory: %s (and %d more)", describe(e.Fields[0]), len(e.Fields)-1)
}

// Problems returns one line per failed field.
func (e *ValidationError) Problems() []string {
	out := make([]string, 0, len(e.Fields))
	for _, fe := range e.Fields {
		out = append(out, describe(fe))
	}
	return out
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "unique":
		return fmt.Sprintf("%s: duplicate url", fe.Namespace())
	case "required":
		return fmt.Sprintf("%s: missing", fe.Namespace())
	case "url":
		return fmt.Sprintf("%s: not a valid url: %v", fe.Namespace(), fe.Value())
	default:
		return fmt.Sprintf("%s: failed %s", fe.Namespace(), fe.Tag())
	}
}
