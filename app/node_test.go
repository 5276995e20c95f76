package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/eventlog"
	"github.com/waynedobson/remittance/remittest"
	"github.com/waynedobson/remittance/store/iavl"
	"github.com/waynedobson/remittance/x/auth"
	"github.com/waynedobson/remittance/x/utils"
)

type recordingPublisher struct {
	records []eventlog.Record
	err     error
}

func (p *recordingPublisher) Publish(_ context.Context, records ...eventlog.Record) error {
	p.records = append(p.records, records...)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

type namedEvent string

func (e namedEvent) EventName() string { return string(e) }

// signerHandler writes the signer address under the message path.
type signerHandler struct {
	events []remittance.Event
	err    error
}

func (h signerHandler) Check(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	_, err := h.write(ctx, db, tx)
	return &remittance.CheckResult{}, err
}

func (h signerHandler) Deliver(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	if _, err := h.write(ctx, db, tx); err != nil {
		return nil, err
	}
	return &remittance.DeliverResult{Events: h.events}, nil
}

func (h signerHandler) write(ctx remittance.Context, db remittance.KVStore, tx remittance.Tx) (remittance.Address, error) {
	conds := auth.Authenticate{}.GetConditions(ctx)
	if len(conds) == 0 {
		return nil, errors.ErrUnauthorized
	}
	if _, err := remittance.BlockTime(ctx); err != nil {
		return nil, err
	}
	if err := db.Set([]byte(remittance.GetPath(tx)), conds[0].Address()); err != nil {
		return nil, err
	}
	return conds[0].Address(), h.err
}

func newTestNode(t *testing.T, h remittance.Handler, pub eventlog.Publisher) *Node {
	t.Helper()
	stack := ChainDecorators(
		utils.NewRecovery(),
		auth.NewDecorator(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(h)
	qr := remittance.NewQueryRouter()
	qr.Register("/", rawQuery{})
	n, err := NewNode(iavl.NewMemCommitStore(), stack, qr, optInitializer{key: "test"}, WithPublisher(pub))
	require.NoError(t, err)
	return n
}

// rawQuery returns the value stored under the key.
type rawQuery struct{}

func (rawQuery) Query(db remittance.ReadOnlyKVStore, _ string, key []byte) ([]remittance.Model, error) {
	v, err := db.Get(key)
	if err != nil || v == nil {
		return nil, err
	}
	return []remittance.Model{remittance.Pair(key, v)}, nil
}

func TestNodeApply(t *testing.T) {
	pub := &recordingPublisher{}
	h := signerHandler{events: []remittance.Event{namedEvent("Done")}}
	n := newTestNode(t, h, pub)
	signer := remittest.NewCondition()
	msg := &remittest.Msg{RoutePath: "test/write"}
	now := time.Unix(1550000000, 0)

	_, err := n.Apply(context.Background(), &Tx{Signer: signer, Msg: msg}, now)
	assert.True(t, errors.ErrState.Is(err), "chain not initialized")

	require.NoError(t, n.InitChain(&Genesis{ChainID: "remit-test", AppState: remittance.Options{"test": []byte(`"hello"`)}}))
	assert.Equal(t, "remit-test", n.ChainID())
	height, err := n.Height()
	require.NoError(t, err)
	assert.Equal(t, int64(1), height)
	assert.True(t, errors.ErrState.Is(n.InitChain(&Genesis{ChainID: "remit-test"})))

	models, err := n.Query("/", []byte("test"))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, `"hello"`, string(models[0].Value))

	res, err := n.Apply(context.Background(), &Tx{Signer: signer, Msg: msg}, now)
	require.NoError(t, err)
	assert.Equal(t, []remittance.Event{namedEvent("Done")}, res.Events)

	height, err = n.Height()
	require.NoError(t, err)
	assert.Equal(t, int64(2), height)
	require.Len(t, pub.records, 1)
	assert.Equal(t, eventlog.Record{
		Height: 2,
		Time:   remittance.AsUnixTime(now),
		Path:   "test/write",
		Events: []remittance.Event{namedEvent("Done")},
	}, pub.records[0])

	models, err = n.Query("/", []byte("test/write"))
	require.NoError(t, err)
	require.Len(t, models, 1)
	assert.Equal(t, []byte(signer.Address()), models[0].Value)

	_, err = n.Query("/unknown", nil)
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestNodeFailedTransactionLeavesNoTrace(t *testing.T) {
	cases := map[string]struct {
		tx      remittance.Tx
		handler remittance.Handler
		wantErr *errors.Error
	}{
		"missing signer": {
			tx:      &Tx{Msg: &remittest.Msg{RoutePath: "test/write"}},
			handler: signerHandler{},
			wantErr: errors.ErrUnauthorized,
		},
		"handler failure": {
			tx:      &Tx{Signer: remittest.NewCondition(), Msg: &remittest.Msg{RoutePath: "test/write"}},
			handler: signerHandler{err: errors.ErrAmount},
			wantErr: errors.ErrAmount,
		},
		"handler panic": {
			tx:      &Tx{Signer: remittest.NewCondition(), Msg: &remittest.Msg{RoutePath: "test/write"}},
			handler: remittest.PanicHandler{Msg: "boom"},
			wantErr: errors.ErrPanic,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			pub := &recordingPublisher{}
			n := newTestNode(t, tc.handler, pub)
			require.NoError(t, n.InitChain(&Genesis{ChainID: "remit-test"}))

			_, err := n.Apply(context.Background(), tc.tx, time.Unix(1550000000, 0))
			assert.True(t, tc.wantErr.Is(err), "got %+v", err)

			height, err := n.Height()
			require.NoError(t, err)
			assert.Equal(t, int64(1), height)
			assert.Empty(t, pub.records)
			models, err := n.Query("/", []byte("test/write"))
			require.NoError(t, err)
			assert.Empty(t, models)
		})
	}
}

func TestNodePublishFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.ErrDatabase}
	n := newTestNode(t, signerHandler{}, pub)
	require.NoError(t, n.InitChain(&Genesis{ChainID: "remit-test"}))

	res, err := n.Apply(context.Background(), &Tx{Signer: remittest.NewCondition(), Msg: &remittest.Msg{RoutePath: "test/write"}}, time.Unix(1550000000, 0))
	assert.True(t, errors.ErrDatabase.Is(err))
	assert.NotNil(t, res)

	// The transaction is committed anyway.
	height, err := n.Height()
	require.NoError(t, err)
	assert.Equal(t, int64(2), height)
}
