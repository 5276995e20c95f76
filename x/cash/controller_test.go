package cash

import (
	"math"
	"testing"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/remittest"
	"github.com/waynedobson/remittance/remittest/assert"
	"github.com/waynedobson/remittance/store"
)

func TestMoveCoins(t *testing.T) {
	alice := remittest.NewCondition().Address()
	bob := remittest.NewCondition().Address()

	cases := map[string]struct {
		issue     int64
		bobIssue  int64
		src, dest remittance.Address
		amount    int64
		wantErr   *errors.Error
		wantAlice int64
		wantBob   int64
	}{
		"move part of the balance": {
			issue: 100, src: alice, dest: bob, amount: 30,
			wantAlice: 70, wantBob: 30,
		},
		"move everything": {
			issue: 100, src: alice, dest: bob, amount: 100,
			wantAlice: 0, wantBob: 100,
		},
		"insufficient funds": {
			issue: 10, src: alice, dest: bob, amount: 11,
			wantErr: errors.ErrInsufficientAmount, wantAlice: 10,
		},
		"empty wallet": {
			src: alice, dest: bob, amount: 1,
			wantErr: errors.ErrInsufficientAmount,
		},
		"zero amount": {
			issue: 10, src: alice, dest: bob, amount: 0,
			wantErr: errors.ErrAmount, wantAlice: 10,
		},
		"negative amount": {
			issue: 10, src: alice, dest: bob, amount: -5,
			wantErr: errors.ErrAmount, wantAlice: 10,
		},
		"missing destination": {
			issue: 10, src: alice, amount: 5,
			wantErr: errors.ErrEmpty, wantAlice: 10,
		},
		"self transfer is a noop": {
			issue: 10, src: alice, dest: alice, amount: 5,
			wantAlice: 10,
		},
		"destination overflow": {
			issue: 10, bobIssue: math.MaxInt64, src: alice, dest: bob, amount: 5,
			wantErr: errors.ErrOverflow, wantAlice: 10, wantBob: math.MaxInt64,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			assert.Nil(t, ctrl.IssueCoins(db, alice, tc.issue))
			assert.Nil(t, ctrl.IssueCoins(db, bob, tc.bobIssue))

			err := ctrl.MoveCoins(db, tc.src, tc.dest, tc.amount)
			assert.IsErr(t, tc.wantErr, err)

			got, err := ctrl.Balance(db, alice)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantAlice, got)
			got, err = ctrl.Balance(db, bob)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantBob, got)
		})
	}
}

func TestEmptyWalletIsRemoved(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	alice := remittest.NewCondition().Address()
	bob := remittest.NewCondition().Address()

	assert.Nil(t, ctrl.IssueCoins(db, alice, 5))
	assert.Nil(t, NewBucket().Has(db, alice))
	assert.Nil(t, ctrl.MoveCoins(db, alice, bob, 5))
	assert.IsErr(t, errors.ErrNotFound, NewBucket().Has(db, alice))
}

func TestIssueCoins(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	alice := remittest.NewCondition().Address()

	assert.Nil(t, ctrl.IssueCoins(db, alice, math.MaxInt64-1))
	assert.IsErr(t, errors.ErrOverflow, ctrl.IssueCoins(db, alice, 2))
	assert.IsErr(t, errors.ErrAmount, ctrl.IssueCoins(db, alice, -1))
	assert.IsErr(t, errors.ErrInput, ctrl.IssueCoins(db, remittance.Address("short"), 1))

	got, err := ctrl.Balance(db, alice)
	assert.Nil(t, err)
	assert.Equal(t, int64(math.MaxInt64-1), got)
}
