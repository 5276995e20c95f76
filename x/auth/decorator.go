package auth

import (
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
)

// SignedTx is implemented by transactions that declare their author.
type SignedTx interface {
	remittance.Tx
	GetSigner() remittance.Condition
}

// Decorator places the transaction signer in the context so that every
// handler down the stack can authenticate it with Authenticate.
type Decorator struct{}

var _ remittance.Decorator = Decorator{}

// NewDecorator returns a default authentication decorator.
func NewDecorator() Decorator {
	return Decorator{}
}

// Check verifies the signer before calling down the stack
func (d Decorator) Check(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx, next remittance.Checker) (*remittance.CheckResult, error) {
	ctx, err := withTxSigner(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, store, tx)
}

// Deliver verifies the signer before calling down the stack
func (d Decorator) Deliver(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx, next remittance.Deliverer) (*remittance.DeliverResult, error) {
	ctx, err := withTxSigner(ctx, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, store, tx)
}

func withTxSigner(ctx remittance.Context, tx remittance.Tx) (remittance.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "unsigned transaction %T", tx)
	}
	signer := stx.GetSigner()
	if len(signer) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signer")
	}
	if err := signer.Validate(); err != nil {
		return nil, errors.Wrap(err, "signer")
	}
	return withSigners(ctx, []remittance.Condition{signer}), nil
}
