package app

import (
	"reflect"

	"github.com/waynedobson/remittance"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []remittance.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

  app.ChainDecorators(
    utils.NewRecovery(),
    utils.NewLogging(),
    auth.NewDecorator(),
    utils.NewSavepoint().OnDeliver(),
  ).WithHandler(
    router,
  )
*/
func ChainDecorators(chain ...remittance.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...remittance.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := make([]remittance.Decorator, 0, len(d.chain)+len(chain))
	newChain = append(newChain, d.chain...)
	newChain = append(newChain, chain...)
	return Decorators{newChain}
}

// cutoffNil returns given slice without nil values, including typed nil
// pointers.
func cutoffNil(ds []remittance.Decorator) []remittance.Decorator {
	res := make([]remittance.Decorator, 0, len(ds))
	for _, d := range ds {
		if d == nil {
			continue
		}
		if v := reflect.ValueOf(d); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		res = append(res, d)
	}
	return res
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h remittance.Handler) remittance.Handler {
	// start wrapping the handler from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

// step captures one step executing a decorator around a
// specific Handler.
type step struct {
	d    remittance.Decorator
	next remittance.Handler
}

var _ remittance.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}
