package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestFileStore_SaveLoad(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	in := []testDoc{{Name: "红烧肉", Count: 2}, {Name: "奶茶", Count: 1}}
	require.NoError(t, s.Save(ctx, "orders", in))

	var out []testDoc
	require.NoError(t, s.Load(ctx, "orders", &out))
	assert.Equal(t, in, out)
}

func TestFileStore_LoadMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	var out []testDoc
	assert.ErrorIs(t, s.Load(context.Background(), "users", &out), ErrNotFound)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "users", []testDoc{{Name: "a"}, {Name: "b"}}))
	require.NoError(t, s.Save(ctx, "users", []testDoc{{Name: "c"}}))

	var out []testDoc
	require.NoError(t, s.Load(ctx, "users", &out))
	require.Len(t, out, 1)
	assert.Equal(t, "c", out[0].Name)
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "users", []testDoc{{Name: "a"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "users.json", entries[0].Name())
	assert.Equal(t, filepath.Ext(entries[0].Name()), ".json")
}

func TestFileStore_CanceledContext(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.Save(ctx, "users", []testDoc{}))
	var out []testDoc
	assert.Error(t, s.Load(ctx, "users", &out))
}

func TestMemStore_RoundTrip(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	var out []testDoc
	assert.ErrorIs(t, s.Load(ctx, "users", &out), ErrNotFound)

	in := []testDoc{{Name: "a", Count: 3}}
	require.NoError(t, s.Save(ctx, "users", in))
	require.NoError(t, s.Load(ctx, "users", &out))
	assert.Equal(t, in, out)

	// Stored documents are snapshots, not shared references.
	in[0].Count = 99
	var again []testDoc
	require.NoError(t, s.Load(ctx, "users", &again))
	assert.Equal(t, 3, again[0].Count)
}
