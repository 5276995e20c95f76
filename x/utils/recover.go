package utils

import (
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
)

// Recovery is a decorator to recover from panics in transactions. The
// panic is logged with the message path and returned as ErrPanic, which is
// redacted before leaving the node.
type Recovery struct{}

var _ remittance.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Check turns panics into normal errors
func (r Recovery) Check(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx, next remittance.Checker) (_ *remittance.CheckResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked(ctx, tx, p)
		}
	}()
	return next.Check(ctx, store, tx)
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx, next remittance.Deliverer) (_ *remittance.DeliverResult, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked(ctx, tx, p)
		}
	}()
	return next.Deliver(ctx, store, tx)
}

func panicked(ctx remittance.Context, tx remittance.Tx, p interface{}) error {
	remittance.GetLogger(ctx).Error("Transaction panicked", "path", remittance.GetPath(tx), "panic", p)
	return errors.Wrapf(errors.ErrPanic, "%v", p)
}
