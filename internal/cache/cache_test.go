package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statewire/statewire/internal/pipeline"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "build.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestDigest(t *testing.T) {
	a := Digest([]byte("const x = 1;"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, Digest([]byte("const x = 1;")))
	assert.NotEqual(t, a, Digest([]byte("const x = 2;")))
}

func TestPutGetRoundTrip(t *testing.T) {
	c := openTemp(t)
	entry := Entry{
		Output: "transformed source",
		Registrations: []pipeline.Registration{
			{ScopeKey: "Counter_ab12cd34", Variable: "count", Default: []byte(`{"kind":1}`)},
		},
	}
	require.NoError(t, c.Put("src/Counter.js", "digest-1", entry))

	got, ok := c.Get("src/Counter.js", "digest-1")
	require.True(t, ok)
	assert.Equal(t, entry.Output, got.Output)
	require.Len(t, got.Registrations, 1)
	assert.Equal(t, "count", got.Registrations[0].Variable)
}

func TestGetMissesOnStaleDigest(t *testing.T) {
	c := openTemp(t)
	require.NoError(t, c.Put("src/Counter.js", "digest-1", Entry{Output: "old"}))

	_, ok := c.Get("src/Counter.js", "digest-2")
	assert.False(t, ok)
}

func TestGetMissesOnUnknownPath(t *testing.T) {
	c := openTemp(t)
	_, ok := c.Get("src/Nope.js", "whatever")
	assert.False(t, ok)
}

func TestPutReplacesExisting(t *testing.T) {
	c := openTemp(t)
	require.NoError(t, c.Put("src/App.js", "d1", Entry{Output: "v1"}))
	require.NoError(t, c.Put("src/App.js", "d2", Entry{Output: "v2"}))

	got, ok := c.Get("src/App.js", "d2")
	require.True(t, ok)
	assert.Equal(t, "v2", got.Output)
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "build.db")

	c, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, c.Put("src/App.js", "d1", Entry{Output: "persisted"}))
	require.NoError(t, c.Close())

	c, err = Open(path)
	require.NoError(t, err)
	defer c.Close()

	got, ok := c.Get("src/App.js", "d1")
	require.True(t, ok)
	assert.Equal(t, "persisted", got.Output)
}
