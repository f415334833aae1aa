package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaStoreRoundtrip(t *testing.T) {
	dir := t.TempDir()
	store := NewMetaStore(dir)

	_, ok, err := store.Load()
	require.NoError(t, err)
	assert.False(t, ok, "no snapshot should exist yet")

	snap := MetaSnapshot{
		NextSymbolID: 42,
		Symbols: []SymbolRecord{
			{ID: 1, Kind: 0, Label: "Sun", CreatedAt: 100},
		},
		Equivalences: []Equivalence{{A: 1, B: 2}},
	}
	require.NoError(t, store.Save(snap))

	loaded, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(42), loaded.NextSymbolID)
	assert.Equal(t, "Sun", loaded.Symbols[0].Label)
	assert.Equal(t, uint64(2), loaded.Equivalences[0].B)
}

func TestMetaStoreAtomicWrite(t *testing.T) {
	dir := t.TempDir()
	store := NewMetaStore(dir)

	require.NoError(t, store.Save(MetaSnapshot{NextSymbolID: 1}))
	require.NoError(t, store.Save(MetaSnapshot{NextSymbolID: 2}))

	// The .tmp file must never linger after a successful save.
	matches, err := filepath.Glob(filepath.Join(dir, "meta", "*.tmp"))
	require.NoError(t, err)
	assert.Empty(t, matches)

	loaded, ok, err := store.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(2), loaded.NextSymbolID)
}
