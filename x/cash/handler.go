package cash

import (
	"github.com/waynedobson/remittance"
)

// RegisterQuery will register the wallet bucket as "/wallets"
func RegisterQuery(qr remittance.QueryRouter) {
	NewBucket().Register("wallets", qr)
}
