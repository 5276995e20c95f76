package remittest

import "github.com/waynedobson/remittance"

// Decorator is a mock implementation of the remittance.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted.
type Decorator struct {
	checkCall   int
	CheckErr    error
	deliverCall int
	DeliverErr  error
}

var _ remittance.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx, next remittance.Checker) (*remittance.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx, next remittance.Deliverer) (*remittance.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate wraps the handler with a single decorator.
func Decorate(h remittance.Handler, d remittance.Decorator) remittance.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn remittance.Handler
	dc remittance.Decorator
}

var _ remittance.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	return d.dc.Check(ctx, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	return d.dc.Deliver(ctx, db, tx, d.hn)
}
