package remittest

import (
	"context"
	"fmt"

	"github.com/waynedobson/remittance"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// Signer and Signers are both considered, Signer is a shortcut for the
// common single signer case.
type Auth struct {
	Signer  remittance.Condition
	Signers []remittance.Condition
}

func (a *Auth) GetConditions(remittance.Context) []remittance.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx remittance.Context, addr remittance.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context. For
	// convenience only string type keys are allowed.
	Key string
}

func (a *CtxAuth) SetConditions(ctx remittance.Context, permissions ...remittance.Condition) remittance.Context {
	return context.WithValue(ctx, a.Key, permissions)
}

func (a *CtxAuth) GetConditions(ctx remittance.Context) []remittance.Condition {
	val := ctx.Value(a.Key)
	if val == nil {
		return nil
	}
	conds, ok := val.([]remittance.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []remittance.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx remittance.Context, addr remittance.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}
