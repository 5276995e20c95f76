package utils

import (
	"context"
	"testing"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/remittest"
	"github.com/waynedobson/remittance/remittest/assert"
	"github.com/waynedobson/remittance/store"
)

func TestSavepoint(t *testing.T) {
	var (
		key   = []byte("deposit")
		value = []byte("funded")
	)

	cases := map[string]struct {
		savepoint   Savepoint
		handlerErr  error
		check       bool
		wantErr     *errors.Error
		wantWritten bool
	}{
		"successful deliver is written": {
			savepoint:   NewSavepoint().OnDeliver(),
			wantWritten: true,
		},
		"failed deliver is rolled back": {
			savepoint:  NewSavepoint().OnDeliver(),
			handlerErr: errors.ErrAmount.New("insufficient value"),
			wantErr:    errors.ErrAmount,
		},
		"failed deliver without savepoint writes through": {
			savepoint:   NewSavepoint().OnCheck(),
			handlerErr:  errors.ErrAmount.New("insufficient value"),
			wantErr:     errors.ErrAmount,
			wantWritten: true,
		},
		"failed check is rolled back": {
			savepoint:  NewSavepoint().OnCheck(),
			check:      true,
			handlerErr: errors.ErrInput.New("delay required"),
			wantErr:    errors.ErrInput,
		},
		"successful check is written": {
			savepoint:   NewSavepoint().OnCheck().OnDeliver(),
			check:       true,
			wantWritten: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			h := remittest.Decorate(&remittest.WriteHandler{Key: key, Value: value, Err: tc.handlerErr}, tc.savepoint)

			var err error
			if tc.check {
				_, err = h.Check(context.Background(), db, &remittest.Tx{})
			} else {
				_, err = h.Deliver(context.Background(), db, &remittest.Tx{})
			}
			assert.IsErr(t, tc.wantErr, err)

			has, err := db.Has(key)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantWritten, has)
		})
	}
}

type plainStore struct {
	remittance.KVStore
}

func TestSavepointRequiresCacheableStore(t *testing.T) {
	h := remittest.Decorate(&remittest.Handler{}, NewSavepoint().OnDeliver())
	db := plainStore{KVStore: store.MemStore()}
	_, err := h.Deliver(context.Background(), db, &remittest.Tx{})
	assert.IsErr(t, errors.ErrDatabase, err)
}
