package app

import (
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
)

// CommitStore handles loading from a CommitKVStore, maintaining the
// deliver cache and returning useful state info.
type CommitStore struct {
	committed remittance.CommitKVStore
	deliver   remittance.KVCacheWrap
}

// NewCommitStore loads the latest committed version of the store.
func NewCommitStore(store remittance.CommitKVStore) (*CommitStore, error) {
	if err := store.LoadLatestVersion(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return &CommitStore{
		committed: store,
		deliver:   store.CacheWrap(),
	}, nil
}

// CommitInfo returns the current height and hash
func (cs *CommitStore) CommitInfo() (remittance.CommitID, error) {
	return cs.committed.LatestVersion()
}

// Commit will flush deliver to the underlying store and commit it
// to disk. It then regenerates a new deliver cache.
func (cs *CommitStore) Commit() (remittance.CommitID, error) {
	if err := cs.deliver.Write(); err != nil {
		return remittance.CommitID{}, err
	}
	res, err := cs.committed.Commit()
	if err != nil {
		return res, err
	}
	cs.deliver = cs.committed.CacheWrap()
	return res, nil
}

// Rollback drops all uncommitted changes.
func (cs *CommitStore) Rollback() {
	cs.deliver.Discard()
	cs.deliver = cs.committed.CacheWrap()
}

// CheckStore returns a fresh cache on top of the committed state. It must
// be discarded after use.
func (cs *CommitStore) CheckStore() remittance.KVCacheWrap {
	return cs.committed.CacheWrap()
}

// DeliverStore returns a store implementation that must be used during the
// delivery phase.
func (cs *CommitStore) DeliverStore() remittance.CacheableKVStore {
	return cs.deliver
}

//------- storing chainID ---------

// _rm: is a prefix for internal data
const chainIDKey = "_rm:chainID"

// loadChainID returns the chain id stored if any
func loadChainID(kv remittance.ReadOnlyKVStore) (string, error) {
	v, err := kv.Get([]byte(chainIDKey))
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(v), nil
}

// saveChainID stores a chain id in the kv store.
// Returns error if already set, or invalid name
func saveChainID(kv remittance.KVStore, chainID string) error {
	if !remittance.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	k := []byte(chainIDKey)
	exists, err := kv.Has(k)
	if err != nil {
		return errors.Wrap(err, "load chain id")
	}
	if exists {
		return errors.Wrap(errors.ErrUnauthorized, "can't modify chain id after genesis init")
	}
	if err := kv.Set(k, []byte(chainID)); err != nil {
		return errors.Wrap(err, "save chain id")
	}
	return nil
}
