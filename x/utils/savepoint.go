package utils

import (
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error.
//
// Every ledger operation must be atomic, so a stack without a
// cacheable store is refused instead of silently writing through.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ remittance.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on Check
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on Deliver
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx, next remittance.Checker) (*remittance.CheckResult, error) {
	if !s.onCheck {
		return next.Check(ctx, store, tx)
	}
	var res *remittance.CheckResult
	err := savepoint(store, func(cache remittance.KVStore) error {
		var err error
		res, err = next.Check(ctx, cache, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx, next remittance.Deliverer) (*remittance.DeliverResult, error) {
	if !s.onDeliver {
		return next.Deliver(ctx, store, tx)
	}
	var res *remittance.DeliverResult
	err := savepoint(store, func(cache remittance.KVStore) error {
		var err error
		res, err = next.Deliver(ctx, cache, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// savepoint runs fn on a cache wrap of the store and writes the changes
// back only if fn succeeded.
func savepoint(store remittance.KVStore, fn func(remittance.KVStore) error) error {
	cstore, ok := store.(remittance.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrDatabase, "store %T cannot be cache wrapped", store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}
