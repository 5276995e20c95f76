package escrow

import (
	"testing"

	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/gconf"
	"github.com/waynedobson/remittance/remittest/assert"
	"github.com/waynedobson/remittance/store"
)

func TestDepositValidate(t *testing.T) {
	cases := map[string]struct {
		dep       Deposit
		wantField string
		wantErr   *errors.Error
	}{
		"valid": {
			dep: Deposit{Amount: 1, Depositor: alice, Expiry: now},
		},
		"zero amount": {
			dep:       Deposit{Depositor: alice, Expiry: now},
			wantField: "Amount",
			wantErr:   errors.ErrAmount,
		},
		"missing depositor": {
			dep:       Deposit{Amount: 1, Expiry: now},
			wantField: "Depositor",
			wantErr:   errors.ErrEmpty,
		},
		"negative expiry": {
			dep:       Deposit{Amount: 1, Depositor: alice, Expiry: -1},
			wantField: "Expiry",
			wantErr:   errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.dep.Validate()
			if tc.wantField == "" {
				assert.Nil(t, err)
				return
			}
			assert.FieldError(t, err, tc.wantField, tc.wantErr)
		})
	}
}

func TestFeeAccrualValidate(t *testing.T) {
	assert.Nil(t, (&FeeAccrual{Intermediary: broker, Amount: 1}).Validate())
	assert.FieldError(t, (&FeeAccrual{Intermediary: broker}).Validate(), "Amount", errors.ErrAmount)
	assert.FieldError(t, (&FeeAccrual{Amount: 1}).Validate(), "Intermediary", errors.ErrEmpty)
}

func TestConfigurationValidate(t *testing.T) {
	valid := Configuration{Owner: owner, Fee: 1000, DefaultIntermediary: house}
	assert.Nil(t, valid.Validate())

	neg := valid
	neg.Fee = -1
	assert.FieldError(t, neg.Validate(), "Fee", errors.ErrAmount)

	noHouse := valid
	noHouse.DefaultIntermediary = nil
	assert.FieldError(t, noHouse.Validate(), "DefaultIntermediary", errors.ErrEmpty)

	custodyHouse := valid
	custodyHouse.DefaultIntermediary = CustodyAddress()
	assert.FieldError(t, custodyHouse.Validate(), "DefaultIntermediary", errors.ErrInput)

	custodyOwner := valid
	custodyOwner.Owner = CustodyAddress()
	assert.FieldError(t, custodyOwner.Validate(), "Owner", errors.ErrInput)
}

func TestDepositBucket(t *testing.T) {
	db := store.MemStore()
	b := NewDepositBucket()
	key := ComputeClaimKey([]byte("x"), []byte("y"), broker)

	dep := Deposit{Amount: 5, Depositor: alice, Expiry: now}
	assert.Nil(t, b.Put(db, key, &dep))
	var got Deposit
	assert.Nil(t, b.One(db, key, &got))
	assert.Equal(t, dep, got)

	// Empty deposits are never stored.
	err := b.Put(db, key, &Deposit{Depositor: alice, Expiry: now})
	assert.IsErr(t, errors.ErrAmount, err)
}

func TestLoadConf(t *testing.T) {
	db := store.MemStore()
	_, err := LoadConfiguration(db)
	assert.IsErr(t, errors.ErrState, err)

	conf := Configuration{Owner: owner, Fee: 1000, DefaultIntermediary: house, MaxDelay: 60}
	assert.Nil(t, gconf.Save(db, packageName, &conf))
	got, err := LoadConfiguration(db)
	assert.Nil(t, err)
	assert.Equal(t, &conf, got)
}
