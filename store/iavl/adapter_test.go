package iavl

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitStoreCacheWrap(t *testing.T) {
	s := NewMemCommitStore()
	require.NoError(t, s.LoadLatestVersion())

	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("deposit"), []byte("100")))
	require.NoError(t, cache.Set([]byte("fee"), []byte("1")))

	// nothing is visible until the cache is written
	val, err := s.Get([]byte("deposit"))
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, cache.Write())
	id, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(1), id.Version)
	assert.NotEmpty(t, id.Hash)

	val, err = s.Get([]byte("deposit"))
	require.NoError(t, err)
	assert.Equal(t, []byte("100"), val)

	// discarded changes never reach the tree
	cache = s.CacheWrap()
	require.NoError(t, cache.Delete([]byte("deposit")))
	cache.Discard()
	id2, err := s.Commit()
	require.NoError(t, err)
	assert.Equal(t, int64(2), id2.Version)
	assert.Equal(t, id.Hash, id2.Hash)

	it, err := s.CacheWrap().Iterator(nil, nil)
	require.NoError(t, err)
	defer it.Close()
	var keys []string
	for ; it.Valid(); require.NoError(t, it.Next()) {
		keys = append(keys, string(it.Key()))
	}
	assert.Equal(t, []string{"deposit", "fee"}, keys)
}

func TestCommitStorePersistence(t *testing.T) {
	dir, err := ioutil.TempDir("", "commitstore")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	s, err := NewCommitStore(dir, "ledger")
	require.NoError(t, err)
	require.NoError(t, s.LoadLatestVersion())
	cache := s.CacheWrap()
	require.NoError(t, cache.Set([]byte("key"), []byte("value")))
	require.NoError(t, cache.Write())
	want, err := s.Commit()
	require.NoError(t, err)
	s.Close()

	reopened, err := NewCommitStore(dir, "ledger")
	require.NoError(t, err)
	defer reopened.Close()
	require.NoError(t, reopened.LoadLatestVersion())

	got, err := reopened.LatestVersion()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	val, err := reopened.Get([]byte("key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)
}
