package app

import (
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/x/auth"
)

// Tx is a transaction executed by the Node. The signer is trusted as
// declared, signature verification belongs to the submitting layer.
type Tx struct {
	Signer remittance.Condition
	Msg    remittance.Msg
}

var _ auth.SignedTx = (*Tx)(nil)

// GetMsg returns the single message of the transaction.
func (tx *Tx) GetMsg() (remittance.Msg, error) {
	return tx.Msg, nil
}

// GetSigner returns the declared author of the transaction.
func (tx *Tx) GetSigner() remittance.Condition {
	return tx.Signer
}
