// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package inventory

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/storefront/pkg/types"
)

const mixedInventory = `{
  "title": "Store",
  "prints": [
    "https://square.link/u/bare",
    {"url": "https://square.link/u/full", "name": "Sunset Print", "price": 2500, "price_display": "$25.00", "icon": "star"}
  ],
  "services": [
    {"url": "https://square.link/u/svc", "image": "https://example.com/a.jpg"}
  ],
  "featured": {"slot": 1}
}`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_NormalizesEntries(t *testing.T) {
	inv, err := Load(writeFile(t, mixedInventory))
	require.NoError(t, err)

	require.Len(t, inv.Prints, 2)
	assert.Equal(t, types.InventoryEntry{URL: "https://square.link/u/bare"}, inv.Prints[0])

	full := inv.Prints[1]
	assert.Equal(t, "Sunset Print", full.Name)
	require.NotNil(t, full.Price)
	assert.Equal(t, int64(2500), *full.Price)
	assert.Equal(t, "star", full.Icon)

	require.Len(t, inv.Services, 1)
	assert.Equal(t, "https://example.com/a.jpg", inv.Services[0].Image)

	assert.Contains(t, inv.Extra, "title")
	assert.Contains(t, inv.Extra, "featured")
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := Load(writeFile(t, `{"prints": [`))
		assert.Error(t, err)
		assert.False(t, errors.Is(err, ErrNotFound))
	})

	t.Run("wrong entry shape", func(t *testing.T) {
		_, err := Load(writeFile(t, `{"prints": [42]}`))
		assert.ErrorContains(t, err, "prints")
	})
}

func TestSave_Format(t *testing.T) {
	price := int64(2500)
	inv := &types.Inventory{
		Prints: []types.InventoryEntry{{
			URL:          "https://square.link/u/a?x=1&y=2",
			Name:         "Sunset Print",
			Price:        &price,
			PriceDisplay: "$25.00",
		}},
	}
	path := filepath.Join(t.TempDir(), "nested", "inventory.json")
	require.NoError(t, Save(path, inv))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `{
    "prints": [
        {
            "url": "https://square.link/u/a?x=1&y=2",
            "name": "Sunset Print",
            "price": 2500,
            "price_display": "$25.00"
        }
    ],
    "services": []
}
`
	assert.Equal(t, want, string(data))

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), ".inventory-*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestSave_RoundTripIsStable(t *testing.T) {
	path := writeFile(t, mixedInventory)

	inv, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, Save(path, inv))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	inv, err = Load(path)
	require.NoError(t, err)
	require.NoError(t, Save(path, inv))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
	assert.True(t, strings.Index(string(first), `"featured"`) < strings.Index(string(first), `"prints"`))
	assert.Contains(t, string(first), `"slot": 1`)
	assert.Contains(t, string(first), `"url": "https://square.link/u/bare"`)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		inv     types.Inventory
		wantErr string
	}{
		{
			name: "valid",
			inv: types.Inventory{
				Prints:   []types.InventoryEntry{{URL: "https://square.link/u/a"}, {URL: "https://square.link/u/b"}},
				Services: []types.InventoryEntry{{URL: "https://square.link/u/a"}},
			},
		},
		{
			name:    "duplicate within a list",
			inv:     types.Inventory{Prints: []types.InventoryEntry{{URL: "https://square.link/u/a"}, {URL: "https://square.link/u/a"}}},
			wantErr: "duplicate url",
		},
		{
			name:    "missing url",
			inv:     types.Inventory{Services: []types.InventoryEntry{{Name: "no link"}}},
			wantErr: "missing",
		},
		{
			name:    "bad image url",
			inv:     types.Inventory{Prints: []types.InventoryEntry{{URL: "https://square.link/u/a", Image: "not a url"}}},
			wantErr: "not a valid url",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.inv)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.NotEmpty(t, verr.Problems())
		})
	}
}
