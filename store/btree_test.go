package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBTreeCacheGetSet does basic sanity checks on our cache
func TestBTreeCacheGetSet(t *testing.T) {
	// base is the root of our data, we can layer on top and
	// all queries should work
	base := MemStore()

	k, v := []byte("french"), []byte("fry")
	assertGet(t, base, k, nil)
	require.NoError(t, base.Set(k, v))
	assertGet(t, base, k, v)

	// now layer another btree on top and make sure that we get
	// base data
	cache := base.CacheWrap()
	assertGet(t, cache, k, v)

	// writing more data is only visible in the cache
	k2, v2 := []byte("LA"), []byte("Dodgers")
	require.NoError(t, cache.Set(k2, v2))
	assertGet(t, cache, k2, v2)
	assertGet(t, base, k2, nil)

	// we can write the cache to the base layer...
	require.NoError(t, cache.Write())
	assertGet(t, base, k, v)
	assertGet(t, base, k2, v2)

	// we can discard one
	k3, v3 := []byte("Bayern"), []byte("Munich")
	c2 := base.CacheWrap()
	require.NoError(t, c2.Set(k3, v3))
	c2.Discard()
	assertGet(t, base, k3, nil)

	// and commit another
	c3 := base.CacheWrap()
	require.NoError(t, c3.Delete(k))
	require.NoError(t, c3.Write())

	assertGet(t, base, k, nil)
	assertGet(t, base, k2, v2)
}

func TestBTreeCacheIterator(t *testing.T) {
	base := MemStore()
	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, base.Set([]byte(k), []byte(k+k)))
	}

	cache := base.CacheWrap()
	require.NoError(t, cache.Delete([]byte("b")))
	require.NoError(t, cache.Set([]byte("bb"), []byte("new")))
	require.NoError(t, cache.Set([]byte("c"), []byte("over")))

	cases := map[string]struct {
		start, end []byte
		reverse    bool
		wantKeys   []string
		wantValues []string
	}{
		"full ascending": {
			wantKeys:   []string{"a", "bb", "c", "d"},
			wantValues: []string{"aa", "new", "over", "dd"},
		},
		"full descending": {
			reverse:    true,
			wantKeys:   []string{"d", "c", "bb", "a"},
			wantValues: []string{"dd", "over", "new", "aa"},
		},
		"bounded ascending": {
			start:      []byte("b"),
			end:        []byte("d"),
			wantKeys:   []string{"bb", "c"},
			wantValues: []string{"new", "over"},
		},
		"bounded descending": {
			start:      []byte("b"),
			end:        []byte("d"),
			reverse:    true,
			wantKeys:   []string{"c", "bb"},
			wantValues: []string{"over", "new"},
		},
		"open end": {
			start:      []byte("c"),
			wantKeys:   []string{"c", "d"},
			wantValues: []string{"over", "dd"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var (
				it  Iterator
				err error
			)
			if tc.reverse {
				it, err = cache.ReverseIterator(tc.start, tc.end)
			} else {
				it, err = cache.Iterator(tc.start, tc.end)
			}
			require.NoError(t, err)
			defer it.Close()

			var keys, values []string
			for ; it.Valid(); require.NoError(t, it.Next()) {
				keys = append(keys, string(it.Key()))
				values = append(values, string(it.Value()))
			}
			assert.Equal(t, tc.wantKeys, keys)
			assert.Equal(t, tc.wantValues, values)
		})
	}
}

func assertGet(t testing.TB, db ReadOnlyKVStore, key, want []byte) {
	t.Helper()
	got, err := db.Get(key)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	has, err := db.Has(key)
	require.NoError(t, err)
	assert.Equal(t, want != nil, has)
}
