package remittest

import "github.com/waynedobson/remittance"

// Handler is a mock implementation of remittance.Handler that counts calls
// and returns the configured results.
type Handler struct {
	checkCall   int
	CheckResult remittance.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult remittance.DeliverResult
	DeliverErr    error
}

var _ remittance.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}

// WriteHandler writes the key/value pair to the store before returning
// Err. It is used to verify rollback behaviour.
type WriteHandler struct {
	Key   []byte
	Value []byte
	Err   error
}

var _ remittance.Handler = (*WriteHandler)(nil)

func (h *WriteHandler) Check(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &remittance.CheckResult{}, nil
}

func (h *WriteHandler) Deliver(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	if err := db.Set(h.Key, h.Value); err != nil {
		return nil, err
	}
	if h.Err != nil {
		return nil, h.Err
	}
	return &remittance.DeliverResult{}, nil
}

// PanicHandler panics on every call.
type PanicHandler struct {
	Msg string
}

var _ remittance.Handler = PanicHandler{}

func (p PanicHandler) Check(remittance.Context, remittance.KVStore, remittance.Tx) (*remittance.CheckResult, error) {
	panic(p.Msg)
}

func (p PanicHandler) Deliver(remittance.Context, remittance.KVStore, remittance.Tx) (*remittance.DeliverResult, error) {
	panic(p.Msg)
}
