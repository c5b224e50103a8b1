package resultcache

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "cache.db")}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return s
}

func countingGenerator(payload []byte) (func() ([]byte, error), *int) {
	calls := 0
	return func() ([]byte, error) {
		calls++
		return payload, nil
	}, &calls
}

func TestDataGeneratesOnceForStableKey(t *testing.T) {
	s := newStore(t)
	gen, calls := countingGenerator([]byte(`{"species":[]}`))

	key := map[string]any{"version": "357.4", "mod": "ClassicFlyers"}

	payload, cached, err := s.Data("wiki/species", key, false, gen)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.JSONEq(t, `{"species":[]}`, string(payload))

	payload, cached, err = s.Data("wiki/species", key, false, gen)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.JSONEq(t, `{"species":[]}`, string(payload))
	assert.Equal(t, 1, *calls)
}

func TestDataRegeneratesWhenKeyChanges(t *testing.T) {
	s := newStore(t)
	gen, calls := countingGenerator([]byte("v2"))

	_, _, err := s.Data("wiki/species", map[string]string{"version": "357.4"}, false, gen)
	require.NoError(t, err)

	payload, cached, err := s.Data("wiki/species", map[string]string{"version": "358.0"}, false, gen)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, []byte("v2"), payload)
	assert.Equal(t, 2, *calls)
}

func TestDataForceBypassesCache(t *testing.T) {
	s := newStore(t)
	gen, calls := countingGenerator([]byte("x"))
	key := "stable"

	_, _, err := s.Data("item", key, false, gen)
	require.NoError(t, err)
	_, cached, err := s.Data("item", key, true, gen)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, *calls)
}

func TestDataGeneratorFailureIsNotStored(t *testing.T) {
	s := newStore(t)
	boom := errors.New("boom")

	_, _, err := s.Data("item", "k", false, func() ([]byte, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	n, err := s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestWipePrefix(t *testing.T) {
	s := newStore(t)
	gen := func() ([]byte, error) { return []byte("x"), nil }

	for _, name := range []string{"mods/ClassicFlyers/species", "mods/ClassicFlyers/items", "core/species"} {
		_, _, err := s.Data(name, "k", false, gen)
		require.NoError(t, err)
	}

	require.NoError(t, s.Wipe("mods/ClassicFlyers/"))
	n, err := s.Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, s.Wipe(""))
	n, err = s.Count()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHashKeyIsStable(t *testing.T) {
	a, err := HashKey(map[string]string{"v": "1"})
	require.NoError(t, err)
	b, err := HashKey(map[string]string{"v": "1"})
	require.NoError(t, err)
	c, err := HashKey(map[string]string{"v": "2"})
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "sha512:")
}
