package orm

import (
	"fmt"
	"regexp"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// ModelBucket stores models of a single type under a common prefix.
type ModelBucket interface {
	remittance.QueryHandler

	// One query the database for a single model instance. Lookup is done
	// by the primary key. Result is loaded into given destination model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	One(db remittance.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given key exists and ErrNotFound
	// otherwise.
	Has(db remittance.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database.
	Put(db remittance.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db remittance.KVStore, key []byte) error

	// ForEach loads every stored model into dest, in key order, and calls
	// fn with its primary key. Returning an error from fn stops the
	// iteration.
	ForEach(db remittance.ReadOnlyKVStore, dest Model, fn func(key []byte) error) error

	// Register registers this bucket for queries under the given path.
	// An empty name defaults to the bucket name.
	Register(name string, r remittance.QueryRouter)
}

// NewModelBucket returns a ModelBucket storing its entities under the
// "<name>:" prefix.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}
	return &modelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

type modelBucket struct {
	name   string
	prefix []byte
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix.
// A new slice is allocated so that consecutive calls do not share the
// prefix backing array.
func (b *modelBucket) dbKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

func (b *modelBucket) One(db remittance.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot load from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%T not in the store", dest)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal into %T", dest)
	}
	return nil
}

func (b *modelBucket) Has(db remittance.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(b.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.ErrNotFound
	}
	return nil
}

func (b *modelBucket) Put(db remittance.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrInput, "empty key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize")
	}
	if err := db.Set(b.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (b *modelBucket) Delete(db remittance.KVStore, key []byte) error {
	if err := b.Has(db, key); err != nil {
		return err
	}
	if err := db.Delete(b.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

func (b *modelBucket) ForEach(db remittance.ReadOnlyKVStore, dest Model, fn func(key []byte) error) error {
	start, end := prefixRange(b.prefix)
	it, err := db.Iterator(start, end)
	if err != nil {
		return errors.Wrap(err, "cannot create iterator")
	}
	defer it.Close()

	for it.Valid() {
		if err := dest.Unmarshal(it.Value()); err != nil {
			return errors.Wrapf(err, "cannot unmarshal into %T", dest)
		}
		if err := fn(it.Key()[len(b.prefix):]); err != nil {
			return err
		}
		if err := it.Next(); err != nil {
			return errors.Wrap(err, "iterator next")
		}
	}
	return nil
}

func (b *modelBucket) Register(name string, r remittance.QueryRouter) {
	if name == "" {
		name = b.name
	}
	r.Register("/"+name, b)
}

// Query handles queries from the QueryRouter
func (b *modelBucket) Query(db remittance.ReadOnlyKVStore, mod string, data []byte) ([]remittance.Model, error) {
	switch mod {
	case remittance.KeyQueryMod:
		key := b.dbKey(data)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		// return nothing on miss
		if value == nil {
			return nil, nil
		}
		return []remittance.Model{remittance.Pair(key, value)}, nil
	case remittance.PrefixQueryMod:
		return queryPrefix(db, b.dbKey(data))
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}
