package cash

import (
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use remittance.Address, so address in hex, not base64
type GenesisAccount struct {
	Address remittance.Address `json:"address"`
	Balance int64              `json:"balance"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct {
	ctrl Controller
}

var _ remittance.Initializer = (*Initializer)(nil)

// NewInitializer returns an initializer issuing the genesis balances.
func NewInitializer(ctrl Controller) *Initializer {
	return &Initializer{ctrl: ctrl}
}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (i *Initializer) FromGenesis(opts remittance.Options, kv remittance.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrapf(errors.ErrInput, "cash genesis: %s", err)
	}
	for n, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
		if err := i.ctrl.IssueCoins(kv, acct.Address, acct.Balance); err != nil {
			return errors.Wrapf(err, "account %d", n)
		}
	}
	return nil
}
