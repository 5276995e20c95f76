package escrow

import (
	"context"
	"testing"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/remittest"
	"github.com/waynedobson/remittance/remittest/assert"
)

var (
	ownerCond  = remittest.SequenceCondition(1)
	aliceCond  = remittest.SequenceCondition(2)
	bobCond    = remittest.SequenceCondition(3)
	brokerCond = remittest.SequenceCondition(4)
)

// router is a minimal registry keeping handlers by message path.
type router struct {
	auth     *remittest.CtxAuth
	handlers map[string]remittance.Handler
}

func newRouter(l *Ledger) *router {
	r := &router{
		auth:     &remittest.CtxAuth{Key: "auth"},
		handlers: make(map[string]remittance.Handler),
	}
	RegisterRoutes(r, r.auth, l)
	return r
}

func (r *router) Handle(m remittance.Msg, h remittance.Handler) {
	r.handlers[m.Path()] = h
}

func (r *router) context(signer remittance.Condition, at remittance.UnixTime) remittance.Context {
	ctx := remittance.WithBlockTime(context.Background(), at.Time())
	if signer != nil {
		ctx = r.auth.SetConditions(ctx, signer)
	}
	return ctx
}

func (r *router) handler(t testing.TB, msg remittance.Msg) remittance.Handler {
	t.Helper()
	h, ok := r.handlers[msg.Path()]
	if !ok {
		t.Fatalf("no handler for %q", msg.Path())
	}
	return h
}

func (r *router) deliver(t testing.TB, db remittance.KVStore, signer remittance.Condition, at remittance.UnixTime, msg remittance.Msg) (*remittance.DeliverResult, error) {
	t.Helper()
	return r.handler(t, msg).Deliver(r.context(signer, at), db, &remittest.Tx{Msg: msg})
}

func (r *router) check(t testing.TB, db remittance.KVStore, signer remittance.Condition, at remittance.UnixTime, msg remittance.Msg) (*remittance.CheckResult, error) {
	t.Helper()
	return r.handler(t, msg).Check(r.context(signer, at), db, &remittest.Tx{Msg: msg})
}

func TestHandlersRemittanceFlow(t *testing.T) {
	f := newFixture(t, 10, 1000)
	r := newRouter(f.ledger)
	secretA, secretB := []byte("x"), []byte("y")
	key := ComputeClaimKey(secretA, secretB, broker)

	res, err := r.deliver(t, f.db, aliceCond, now, &DepositMsg{
		ClaimKey:     key,
		Intermediary: broker,
		DelaySeconds: 3600,
		Amount:       100,
	})
	assert.Nil(t, err)
	assert.Equal(t, []byte(key), res.Data)
	assert.Equal(t, 2, len(res.Events))
	assert.Equal(t, "FeeAccrued", res.Events[0].EventName())
	assert.Equal(t, "DepositCreated", res.Events[1].EventName())
	f.assertConserved(t)

	res, err = r.deliver(t, f.db, bobCond, now+1, &WithdrawMsg{
		SecretA:      secretA,
		SecretB:      secretB,
		Intermediary: broker,
	})
	assert.Nil(t, err)
	assert.Equal(t, []remittance.Event{Withdrawn{Claimant: bob, ClaimKey: key, Amount: 90}}, res.Events)
	assert.Equal(t, int64(90), f.balance(t, bob))

	res, err = r.deliver(t, f.db, brokerCond, now+2, &WithdrawFeeMsg{})
	assert.Nil(t, err)
	assert.Equal(t, []remittance.Event{FeeWithdrawn{Intermediary: broker, Amount: 10}}, res.Events)
	assert.Equal(t, int64(10), f.balance(t, broker))
	f.assertConserved(t)
}

func TestHandlerCancel(t *testing.T) {
	f := newFixture(t, 10, 1000)
	r := newRouter(f.ledger)
	key := ComputeClaimKey([]byte("x"), []byte("y"), broker)

	_, err := r.deliver(t, f.db, aliceCond, now, &DepositMsg{
		ClaimKey:     key,
		Intermediary: broker,
		DelaySeconds: 60,
		Amount:       100,
	})
	assert.Nil(t, err)

	_, err = r.deliver(t, f.db, aliceCond, now+59, &CancelMsg{ClaimKey: key})
	assert.IsErr(t, errors.ErrState, err)
	_, err = r.deliver(t, f.db, bobCond, now+60, &CancelMsg{ClaimKey: key})
	assert.IsErr(t, errors.ErrUnauthorized, err)

	res, err := r.deliver(t, f.db, aliceCond, now+60, &CancelMsg{ClaimKey: key})
	assert.Nil(t, err)
	assert.Equal(t, []remittance.Event{DepositCancelled{Depositor: alice, ClaimKey: key, Amount: 90}}, res.Events)
	assert.Equal(t, int64(990), f.balance(t, alice))
	f.assertConserved(t)
}

func TestHandlerCheck(t *testing.T) {
	key := ComputeClaimKey([]byte("x"), []byte("y"), broker)

	cases := map[string]struct {
		signer  remittance.Condition
		msg     remittance.Msg
		wantErr *errors.Error
	}{
		"valid deposit": {
			signer: aliceCond,
			msg:    &DepositMsg{ClaimKey: key, DelaySeconds: 60, Amount: 100},
		},
		"deposit without a signature": {
			msg:     &DepositMsg{ClaimKey: key, DelaySeconds: 60, Amount: 100},
			wantErr: errors.ErrUnauthorized,
		},
		"deposit without a delay": {
			signer:  aliceCond,
			msg:     &DepositMsg{ClaimKey: key, Amount: 100},
			wantErr: errors.ErrInput,
		},
		"deposit with a malformed key": {
			signer:  aliceCond,
			msg:     &DepositMsg{ClaimKey: []byte("short"), DelaySeconds: 60, Amount: 100},
			wantErr: errors.ErrInput,
		},
		"withdraw of nothing": {
			signer:  bobCond,
			msg:     &WithdrawMsg{SecretA: []byte("x"), SecretB: []byte("y"), Intermediary: broker},
			wantErr: errors.ErrNotFound,
		},
		"fee withdrawal of nothing": {
			signer:  brokerCond,
			msg:     &WithdrawFeeMsg{},
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, 10, 1000)
			r := newRouter(f.ledger)

			cache := f.db.CacheWrap()
			_, err := r.check(t, cache, tc.signer, now, tc.msg)
			assert.IsErr(t, tc.wantErr, err)
			cache.Discard()

			// Check never changes the committed state.
			assert.Equal(t, int64(1000), f.balance(t, alice))
			f.assertConserved(t)
		})
	}
}

func TestHandlerUpdateConfiguration(t *testing.T) {
	cases := map[string]struct {
		signer  remittance.Condition
		patch   *Configuration
		mask    []string
		wantErr *errors.Error
		wantFee int64
	}{
		"owner changes the fee": {
			signer:  ownerCond,
			patch:   &Configuration{Fee: 25},
			wantFee: 25,
		},
		"someone else": {
			signer:  aliceCond,
			patch:   &Configuration{Fee: 25},
			wantErr: errors.ErrUnauthorized,
			wantFee: 10,
		},
		"zero fee is ignored without a mask": {
			signer:  ownerCond,
			patch:   &Configuration{Fee: 0, MaxDelay: 60},
			wantFee: 10,
		},
		"owner resets the fee with a mask": {
			signer:  ownerCond,
			patch:   &Configuration{Fee: 0, MaxDelay: 60},
			mask:    []string{"Fee"},
			wantFee: 0,
		},
		"custody cannot become the default intermediary": {
			signer:  ownerCond,
			patch:   &Configuration{DefaultIntermediary: CustodyAddress()},
			wantErr: errors.ErrInput,
			wantFee: 10,
		},
		"missing patch": {
			signer:  ownerCond,
			wantErr: errors.ErrEmpty,
			wantFee: 10,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t, 10, 1000)
			r := newRouter(f.ledger)

			_, err := r.deliver(t, f.db, tc.signer, now, &UpdateConfigurationMsg{Patch: tc.patch, FieldMask: tc.mask})
			assert.IsErr(t, tc.wantErr, err)

			conf, err := LoadConfiguration(f.db)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantFee, conf.Fee)
			assert.Equal(t, house, conf.DefaultIntermediary)
		})
	}
}

func TestRegisterQuery(t *testing.T) {
	f := newFixture(t, 10, 1000)
	key := ComputeClaimKey([]byte("x"), []byte("y"), broker)
	_, err := f.ledger.Deposit(f.db, env(alice, now), key, broker, 60, 100)
	assert.Nil(t, err)

	qr := remittance.NewQueryRouter()
	RegisterQuery(qr)

	models, err := qr.Handler("/deposits").Query(f.db, "", key)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var dep Deposit
	assert.Nil(t, dep.Unmarshal(models[0].Value))
	assert.Equal(t, int64(90), dep.Amount)

	models, err = qr.Handler("/fees").Query(f.db, "", broker)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
}
