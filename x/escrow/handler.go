package escrow

import (
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/gconf"
	"github.com/waynedobson/remittance/x"
)

// RegisterRoutes will instantiate and register all handlers in this
// package.
func RegisterRoutes(r remittance.Registry, auth x.Authenticator, ledger *Ledger) {
	r.Handle(&DepositMsg{}, DepositHandler{auth: auth, ledger: ledger})
	r.Handle(&WithdrawMsg{}, WithdrawHandler{auth: auth, ledger: ledger})
	r.Handle(&CancelMsg{}, CancelHandler{auth: auth, ledger: ledger})
	r.Handle(&WithdrawFeeMsg{}, WithdrawFeeHandler{auth: auth, ledger: ledger})
	r.Handle(&UpdateConfigurationMsg{}, gconf.NewUpdateConfigurationHandler(packageName, &Configuration{}, auth))
}

// RegisterQuery will register the deposit bucket as "/deposits" and the
// fee bucket as "/fees".
func RegisterQuery(qr remittance.QueryRouter) {
	NewDepositBucket().Register("deposits", qr)
	NewFeeBucket().Register("fees", qr)
}

// envFromContext returns the environment of the operation. The caller is
// the main signer of the transaction and the time is the block time.
func envFromContext(ctx remittance.Context, auth x.Authenticator) (Env, error) {
	signer := x.MainSigner(ctx, auth)
	if signer == nil {
		return Env{}, errors.Wrap(errors.ErrUnauthorized, "signature required")
	}
	now, err := remittance.BlockTime(ctx)
	if err != nil {
		return Env{}, errors.Wrap(err, "block time")
	}
	return Env{Caller: signer.Address(), Now: remittance.AsUnixTime(now)}, nil
}

// operation is the ledger call shared by Check and Deliver of a handler.
// Check runs the whole operation as well. Its writes are never committed
// but every rule of the ledger is verified.
type operation func(remittance.Context, remittance.KVStore, remittance.Tx) ([]byte, []remittance.Event, error)

func check(op operation, ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	data, _, err := op(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &remittance.CheckResult{Data: data}, nil
}

func deliver(op operation, ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	data, events, err := op(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return &remittance.DeliverResult{Data: data, Events: events}, nil
}

// DepositHandler locks value under a claim key.
type DepositHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ remittance.Handler = DepositHandler{}

func (h DepositHandler) Check(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	return check(h.run, ctx, db, tx)
}

// Deliver returns the claim key as the result data.
func (h DepositHandler) Deliver(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	return deliver(h.run, ctx, db, tx)
}

func (h DepositHandler) run(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) ([]byte, []remittance.Event, error) {
	var msg DepositMsg
	if err := remittance.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	env, err := envFromContext(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	events, err := h.ledger.Deposit(db, env, msg.ClaimKey, msg.Intermediary, msg.DelaySeconds, msg.Amount)
	if err != nil {
		return nil, nil, err
	}
	return msg.ClaimKey, events, nil
}

// WithdrawHandler pays a deposit to the holder of both secrets.
type WithdrawHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ remittance.Handler = WithdrawHandler{}

func (h WithdrawHandler) Check(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	return check(h.run, ctx, db, tx)
}

func (h WithdrawHandler) Deliver(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	return deliver(h.run, ctx, db, tx)
}

func (h WithdrawHandler) run(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) ([]byte, []remittance.Event, error) {
	var msg WithdrawMsg
	if err := remittance.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	env, err := envFromContext(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	events, err := h.ledger.Withdraw(db, env, msg.SecretA, msg.SecretB, msg.Intermediary)
	return nil, events, err
}

// CancelHandler returns an expired deposit to its depositor.
type CancelHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ remittance.Handler = CancelHandler{}

func (h CancelHandler) Check(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	return check(h.run, ctx, db, tx)
}

func (h CancelHandler) Deliver(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	return deliver(h.run, ctx, db, tx)
}

func (h CancelHandler) run(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) ([]byte, []remittance.Event, error) {
	var msg CancelMsg
	if err := remittance.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	env, err := envFromContext(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	events, err := h.ledger.Cancel(db, env, msg.ClaimKey)
	return nil, events, err
}

// WithdrawFeeHandler pays the accrued fee to its intermediary.
type WithdrawFeeHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ remittance.Handler = WithdrawFeeHandler{}

func (h WithdrawFeeHandler) Check(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	return check(h.run, ctx, db, tx)
}

func (h WithdrawFeeHandler) Deliver(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	return deliver(h.run, ctx, db, tx)
}

func (h WithdrawFeeHandler) run(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) ([]byte, []remittance.Event, error) {
	var msg WithdrawFeeMsg
	if err := remittance.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	env, err := envFromContext(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	events, err := h.ledger.WithdrawFee(db, env, msg.Intermediary)
	return nil, events, err
}
