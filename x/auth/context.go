/*
Package auth binds the identity of the transaction author to the request
context. The local node trusts the signer declared by the transaction, as
signature verification happens before a transaction reaches the ledger.
*/
package auth

import (
	"context"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/x"
)

type contextKey int // local to the auth module

const (
	contextKeySigners contextKey = iota
)

// withSigners is a private method, as only this module
// can add a signer
func withSigners(ctx remittance.Context, signers []remittance.Condition) remittance.Context {
	return context.WithValue(ctx, contextKeySigners, signers)
}

// Authenticate implements x.Authenticator and provides the
// conditions placed in the context by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns who signed the current Context.
// May be empty
func (Authenticate) GetConditions(ctx remittance.Context) []remittance.Condition {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeySigners).([]remittance.Condition)
	return val
}

// HasAddress returns true if the given address
// had signed in the current Context.
func (a Authenticate) HasAddress(ctx remittance.Context, addr remittance.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
