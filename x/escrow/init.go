package escrow

import (
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/gconf"
)

// Initializer fulfils the Initializer interface to load the ledger
// configuration from the genesis file.
type Initializer struct{}

var _ remittance.Initializer = (*Initializer)(nil)

// FromGenesis stores the configuration found under conf.escrow.
func (*Initializer) FromGenesis(opts remittance.Options, db remittance.KVStore) error {
	var conf Configuration
	return gconf.InitConfig(db, opts, packageName, &conf)
}
