package store

import "github.com/waynedobson/remittance"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = remittance.ReadOnlyKVStore
	SetDeleter       = remittance.SetDeleter
	KVStore          = remittance.KVStore
	Batch            = remittance.Batch
	Iterator         = remittance.Iterator
	CacheableKVStore = remittance.CacheableKVStore
	KVCacheWrap      = remittance.KVCacheWrap
	CommitKVStore    = remittance.CommitKVStore
	CommitID         = remittance.CommitID
	Model            = remittance.Model
)
