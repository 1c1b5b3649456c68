package prefs

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()

	_, ok := s.Get("oferta-vista")
	assert.False(t, ok)

	require.NoError(t, s.Set("oferta-vista", "list"))
	v, ok := s.Get("oferta-vista")
	assert.True(t, ok)
	assert.Equal(t, "list", v)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() { defer wg.Done(); _ = s.Set("k", "v") }()
		go func() { defer wg.Done(); s.Get("k") }()
	}
	wg.Wait()

	v, _ := s.Get("k")
	assert.Equal(t, "v", v)
}

func TestFileStore_PersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")

	s, err := OpenFileStore(path)
	require.NoError(t, err)
	_, ok := s.Get("oferta-vista")
	assert.False(t, ok)

	require.NoError(t, s.Set("oferta-vista", "list"))
	_, err = os.Stat(path)
	require.NoError(t, err)

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	v, ok := reopened.Get("oferta-vista")
	assert.True(t, ok)
	assert.Equal(t, "list", v)
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0o644))

	_, err := OpenFileStore(path)
	assert.Error(t, err)
}
