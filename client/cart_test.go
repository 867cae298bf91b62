package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartStoreOperations(t *testing.T) {
	cart, err := NewCartStore(&MemoryStorage{})
	require.NoError(t, err)

	require.NoError(t, cart.Add(" ice-van ", 2))
	require.NoError(t, cart.Add("ICE-VAN", 1))
	require.NoError(t, cart.Add("ICE-MNG", 4))
	assert.Equal(t, 7, cart.TotalQuantity())
	assert.Equal(t, []Line{{SKU: "ICE-MNG", Quantity: 4}, {SKU: "ICE-VAN", Quantity: 3}}, cart.Lines())

	require.NoError(t, cart.Set("ICE-MNG", 1))
	require.NoError(t, cart.Set("ICE-VAN", 0))
	assert.Equal(t, []Line{{SKU: "ICE-MNG", Quantity: 1}}, cart.Lines())

	require.NoError(t, cart.Remove("ice-mng"))
	assert.Empty(t, cart.Lines())

	assert.Error(t, cart.Add("", 1))
	assert.Error(t, cart.Add("ICE-VAN", 0))
	assert.Error(t, cart.Set("ICE-VAN", -1))
	assert.Zero(t, cart.TotalQuantity())
}

func TestCartStorePersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carts", "cart.json")
	storage := FileStorage{Path: path}

	cart, err := NewCartStore(storage)
	require.NoError(t, err)
	require.NoError(t, cart.Add("ICE-VAN", 2))
	require.NoError(t, cart.Add("ICE-MNG", 1))

	reopened, err := NewCartStore(storage)
	require.NoError(t, err)
	assert.Equal(t, cart.Lines(), reopened.Lines())

	require.NoError(t, reopened.Clear())
	again, err := NewCartStore(storage)
	require.NoError(t, err)
	assert.Empty(t, again.Lines())
}

func TestCartStoreDropsInvalidSavedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cart.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"ICE-VAN":2,"ICE-BAD":0,"ICE-NEG":-3}`), 0o600))

	cart, err := NewCartStore(FileStorage{Path: path})
	require.NoError(t, err)
	assert.Equal(t, []Line{{SKU: "ICE-VAN", Quantity: 2}}, cart.Lines())

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))
	_, err = NewCartStore(FileStorage{Path: path})
	assert.Error(t, err)
}
