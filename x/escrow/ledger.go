package escrow

import (
	"math"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/orm"
	"github.com/waynedobson/remittance/x/cash"
)

// Env is the execution environment of a single ledger operation: who is
// calling and what time it is. Both values come from the caller, the
// ledger never reads a clock.
type Env struct {
	Caller remittance.Address
	Now    remittance.UnixTime
}

func (e Env) validate() error {
	if err := e.Caller.Validate(); err != nil {
		return errors.Wrap(errors.ErrUnauthorized, "caller")
	}
	// custody moving coins to itself would mint value
	if e.Caller.Equals(CustodyAddress()) {
		return errors.Wrap(errors.ErrUnauthorized, "caller")
	}
	return e.Now.Validate()
}

// Ledger implements all escrow operations. Each operation either succeeds
// completely, or fails without changing any balance. The ledger relies on
// the store being wrapped in a savepoint only to undo its own writes when
// the database itself fails.
type Ledger struct {
	deposits orm.ModelBucket
	fees     orm.ModelBucket
	cash     cash.CoinMover
	custody  remittance.Address
}

// NewLedger returns a ledger keeping its custody in the wallets managed by
// given mover.
func NewLedger(cm cash.CoinMover) *Ledger {
	return &Ledger{
		deposits: NewDepositBucket(),
		fees:     NewFeeBucket(),
		cash:     cm,
		custody:  CustodyAddress(),
	}
}

// Deposit locks value taken from the caller under key. The fee is
// credited to intermediary, or to the configured default intermediary
// when none is given, and the rest becomes the deposit. The deposit can be
// cancelled delaySeconds after now.
func (l *Ledger) Deposit(
	db remittance.KVStore,
	env Env,
	key ClaimKey,
	intermediary remittance.Address,
	delaySeconds int64,
	value int64,
) ([]remittance.Event, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if value <= conf.Fee || value <= 0 {
		return nil, errors.Wrap(errors.ErrAmount, reasonInsufficientValue)
	}
	if delaySeconds <= 0 {
		return nil, errors.Wrap(errors.ErrInput, reasonDelayRequired)
	}
	if conf.MaxDelay > 0 && delaySeconds > conf.MaxDelay {
		return nil, errors.Wrap(errors.ErrInput, reasonDelayTooLong)
	}
	if int64(env.Now) > math.MaxInt64-delaySeconds {
		return nil, errors.Wrap(errors.ErrInput, reasonDelayTooLong)
	}
	if len(key) == 0 {
		return nil, errors.Wrap(errors.ErrInput, reasonKeyRequired)
	}
	if err := key.Validate(); err != nil {
		return nil, err
	}
	switch err := l.deposits.Has(db, key); {
	case err == nil:
		return nil, errors.Wrap(errors.ErrDuplicate, reasonKeyInUse)
	case !errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(err, "cannot check deposit")
	}

	if len(intermediary) == 0 {
		intermediary = conf.DefaultIntermediary
	}
	if err := intermediary.Validate(); err != nil {
		return nil, errors.Wrap(err, "intermediary")
	}
	if intermediary.Equals(l.custody) {
		return nil, errors.Wrap(errors.ErrInput, "intermediary")
	}
	accrued, err := l.AccruedFee(db, intermediary)
	if err != nil {
		return nil, err
	}
	if accrued > math.MaxInt64-conf.Fee {
		return nil, errors.Wrap(errors.ErrOverflow, "fee accrual")
	}

	// All checks passed, from now on only the database may fail.
	if err := l.cash.MoveCoins(db, env.Caller, l.custody, value); err != nil {
		return nil, errors.Wrap(err, "cannot take deposit value")
	}
	if conf.Fee > 0 {
		fee := FeeAccrual{Intermediary: intermediary, Amount: accrued + conf.Fee}
		if err := l.fees.Put(db, intermediary, &fee); err != nil {
			return nil, errors.Wrap(err, "cannot save fee accrual")
		}
	}
	dep := Deposit{
		Amount:    value - conf.Fee,
		Depositor: env.Caller,
		Expiry:    env.Now + remittance.UnixTime(delaySeconds),
	}
	if err := l.deposits.Put(db, key, &dep); err != nil {
		return nil, errors.Wrap(err, "cannot save deposit")
	}

	events := []remittance.Event{
		FeeAccrued{
			Depositor:    env.Caller,
			Intermediary: intermediary,
			Amount:       conf.Fee,
		},
		DepositCreated{
			Depositor:    env.Caller,
			Intermediary: intermediary,
			ClaimKey:     key,
			Amount:       dep.Amount,
			Expiry:       dep.Expiry,
		},
	}
	return events, nil
}

// Withdraw pays the deposit stored under the key derived from both secrets
// and intermediary to the caller. A wrong secret is indistinguishable from
// a missing deposit.
func (l *Ledger) Withdraw(
	db remittance.KVStore,
	env Env,
	secretA, secretB []byte,
	intermediary remittance.Address,
) ([]remittance.Event, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	if len(secretA) == 0 || len(secretB) == 0 {
		return nil, errors.Wrap(errors.ErrInput, reasonSecretRequired)
	}
	if len(intermediary) == 0 {
		conf, err := LoadConfiguration(db)
		if err != nil {
			return nil, err
		}
		intermediary = conf.DefaultIntermediary
	}
	key := ComputeClaimKey(secretA, secretB, intermediary)

	dep, err := l.loadDeposit(db, key)
	if err != nil {
		return nil, err
	}
	if err := l.release(db, key, dep.Amount, env.Caller); err != nil {
		return nil, err
	}
	events := []remittance.Event{
		Withdrawn{
			Claimant: env.Caller,
			ClaimKey: key,
			Amount:   dep.Amount,
		},
	}
	return events, nil
}

// Cancel returns an expired deposit to its depositor. Only the depositor
// may cancel.
func (l *Ledger) Cancel(db remittance.KVStore, env Env, key ClaimKey) ([]remittance.Event, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	dep, err := l.loadDeposit(db, key)
	if err != nil {
		return nil, err
	}
	if !dep.Depositor.Equals(env.Caller) {
		return nil, errors.ErrUnauthorized
	}
	if env.Now < dep.Expiry {
		return nil, errors.Wrap(errors.ErrState, reasonNotExpired)
	}
	if err := l.release(db, key, dep.Amount, dep.Depositor); err != nil {
		return nil, err
	}
	events := []remittance.Event{
		DepositCancelled{
			Depositor: dep.Depositor,
			ClaimKey:  key,
			Amount:    dep.Amount,
		},
	}
	return events, nil
}

// WithdrawFee pays the whole fee accrued by the intermediary. Only the
// intermediary itself may withdraw it, an empty intermediary means the
// caller.
func (l *Ledger) WithdrawFee(db remittance.KVStore, env Env, intermediary remittance.Address) ([]remittance.Event, error) {
	if err := env.validate(); err != nil {
		return nil, err
	}
	if len(intermediary) == 0 {
		intermediary = env.Caller
	}
	if !intermediary.Equals(env.Caller) {
		return nil, errors.ErrUnauthorized
	}
	amount, err := l.AccruedFee(db, intermediary)
	if err != nil {
		return nil, err
	}
	if amount == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, reasonNoFee)
	}
	if err := l.fees.Delete(db, intermediary); err != nil {
		return nil, errors.Wrap(err, "cannot delete fee accrual")
	}
	if err := l.cash.MoveCoins(db, l.custody, intermediary, amount); err != nil {
		return nil, errors.Wrap(err, "cannot pay fee")
	}
	events := []remittance.Event{
		FeeWithdrawn{
			Intermediary: intermediary,
			Amount:       amount,
		},
	}
	return events, nil
}

// Balance returns the value locked under key, zero if there is no deposit.
func (l *Ledger) Balance(db remittance.ReadOnlyKVStore, key ClaimKey) (int64, error) {
	dep, err := l.GetDeposit(db, key)
	switch {
	case err == nil:
		return dep.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// GetDeposit returns the deposit stored under key.
func (l *Ledger) GetDeposit(db remittance.ReadOnlyKVStore, key ClaimKey) (*Deposit, error) {
	return l.loadDeposit(db, key)
}

// AccruedFee returns the fee owed to the intermediary, zero if none.
func (l *Ledger) AccruedFee(db remittance.ReadOnlyKVStore, intermediary remittance.Address) (int64, error) {
	var f FeeAccrual
	switch err := l.fees.One(db, intermediary, &f); {
	case err == nil:
		return f.Amount, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "cannot load fee accrual")
	}
}

// AuditReport sums up all value held by the ledger.
type AuditReport struct {
	Deposits      int   `json:"deposits"`
	DepositAmount int64 `json:"deposit_amount"`
	Accruals      int   `json:"accruals"`
	FeeAmount     int64 `json:"fee_amount"`
	Custody       int64 `json:"custody"`
}

// Audit verifies that the custody wallet holds exactly the sum of all
// deposits and fee accruals. The report is returned together with the
// ErrState error when it does not.
func (l *Ledger) Audit(db remittance.ReadOnlyKVStore) (*AuditReport, error) {
	var (
		rep AuditReport
		dep Deposit
		fee FeeAccrual
	)
	err := l.deposits.ForEach(db, &dep, func([]byte) error {
		rep.Deposits++
		rep.DepositAmount += dep.Amount
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "deposits")
	}
	err = l.fees.ForEach(db, &fee, func([]byte) error {
		rep.Accruals++
		rep.FeeAmount += fee.Amount
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "fee accruals")
	}
	if rep.Custody, err = l.cash.Balance(db, l.custody); err != nil {
		return nil, errors.Wrap(err, "custody")
	}
	if rep.DepositAmount+rep.FeeAmount != rep.Custody {
		return &rep, errors.Wrapf(errors.ErrState,
			"custody holds %d, ledger owes %d", rep.Custody, rep.DepositAmount+rep.FeeAmount)
	}
	return &rep, nil
}

// loadDeposit returns the deposit under key, or ErrNotFound with the
// uniform reason whatever the cause of the miss.
func (l *Ledger) loadDeposit(db remittance.ReadOnlyKVStore, key ClaimKey) (*Deposit, error) {
	if len(key) == 0 {
		return nil, errors.Wrap(errors.ErrNotFound, reasonNoDeposit)
	}
	var dep Deposit
	switch err := l.deposits.One(db, key, &dep); {
	case err == nil:
		return &dep, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(errors.ErrNotFound, reasonNoDeposit)
	default:
		return nil, errors.Wrap(err, "cannot load deposit")
	}
}

// release removes the deposit and pays its value out of custody.
func (l *Ledger) release(db remittance.KVStore, key ClaimKey, amount int64, dest remittance.Address) error {
	if err := l.deposits.Delete(db, key); err != nil {
		return errors.Wrap(err, "cannot delete deposit")
	}
	if err := l.cash.MoveCoins(db, l.custody, dest, amount); err != nil {
		return errors.Wrap(err, "cannot pay deposit")
	}
	return nil
}
