package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tendermint/tendermint/libs/log"
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/eventlog"
)

// Node executes transactions one at a time, each in its own block. Every
// delivered transaction is committed to the store before the next one is
// accepted, and its events are published once committed.
type Node struct {
	mu sync.Mutex

	store     *CommitStore
	handler   remittance.Handler
	queries   remittance.QueryRouter
	init      remittance.Initializer
	publisher eventlog.Publisher
	logger    log.Logger
	chainID   string
}

// NodeOption configures optional parts of the node.
type NodeOption func(*Node)

// WithNodeLogger sets the logger passed to handlers.
func WithNodeLogger(logger log.Logger) NodeOption {
	return func(n *Node) {
		n.logger = logger
	}
}

// WithPublisher sets where the records of delivered transactions go.
func WithPublisher(p eventlog.Publisher) NodeOption {
	return func(n *Node) {
		n.publisher = p
	}
}

// NewNode returns a node on top of the latest committed version of kv.
func NewNode(
	kv remittance.CommitKVStore,
	handler remittance.Handler,
	queries remittance.QueryRouter,
	init remittance.Initializer,
	opts ...NodeOption,
) (*Node, error) {
	cs, err := NewCommitStore(kv)
	if err != nil {
		return nil, err
	}
	n := &Node{
		store:     cs,
		handler:   handler,
		queries:   queries,
		init:      init,
		publisher: eventlog.MultiPublisher(nil),
		logger:    log.NewNopLogger(),
	}
	for _, fn := range opts {
		fn(n)
	}
	if n.chainID, err = loadChainID(cs.DeliverStore()); err != nil {
		return nil, err
	}
	return n, nil
}

// ChainID returns the chain id set by genesis, empty before.
func (n *Node) ChainID() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.chainID
}

// Height returns the height of the last committed block.
func (n *Node) Height() (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	info, err := n.store.CommitInfo()
	return info.Version, err
}

// InitChain loads the genesis state and commits it as the first block.
// It fails if the chain was already initialized.
func (n *Node) InitChain(gen *Genesis) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.chainID != "" {
		return errors.Wrapf(errors.ErrState, "chain %q already initialized", n.chainID)
	}
	db := n.store.DeliverStore()
	if err := saveChainID(db, gen.ChainID); err != nil {
		n.store.Rollback()
		return err
	}
	if err := n.init.FromGenesis(gen.AppState, db); err != nil {
		n.store.Rollback()
		return errors.Wrap(err, "genesis")
	}
	info, err := n.store.Commit()
	if err != nil {
		return errors.Wrap(err, "commit genesis")
	}
	n.chainID = gen.ChainID
	n.logger.Info("Chain initialized", "chain_id", gen.ChainID, "height", info.Version)
	return nil
}

// Apply executes the transaction in a new block with given time. The
// transaction is checked against the committed state first and only then
// delivered. A failed transaction leaves no trace in the store.
//
// When publishing the events fails the result is returned together with
// the error, the transaction is committed regardless.
func (n *Node) Apply(ctx context.Context, tx remittance.Tx, now time.Time) (*remittance.DeliverResult, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.chainID == "" {
		return nil, errors.Wrap(errors.ErrState, "chain not initialized")
	}
	info, err := n.store.CommitInfo()
	if err != nil {
		return nil, err
	}
	height := info.Version + 1
	ctx = remittance.WithChainID(ctx, n.chainID)
	ctx = remittance.WithHeight(ctx, height)
	ctx = remittance.WithBlockTime(ctx, now)
	ctx = remittance.WithLogger(ctx, n.logger)

	check := n.store.CheckStore()
	_, err = n.handler.Check(remittance.WithLogInfo(ctx, "call", "check_tx"), check, tx)
	check.Discard()
	if err != nil {
		return nil, err
	}

	res, err := n.handler.Deliver(remittance.WithLogInfo(ctx, "call", "deliver_tx"), n.store.DeliverStore(), tx)
	if err != nil {
		n.store.Rollback()
		return nil, err
	}
	if _, err := n.store.Commit(); err != nil {
		n.store.Rollback()
		return nil, errors.Wrap(err, "commit")
	}

	rec := eventlog.Record{
		Height: height,
		Time:   remittance.AsUnixTime(now),
		Path:   remittance.GetPath(tx),
		Events: res.Events,
	}
	if err := n.publisher.Publish(ctx, rec); err != nil {
		n.logger.Error("Cannot publish events", "height", height, "err", err)
		return res, errors.Wrap(err, "publish events")
	}
	return res, nil
}

// Query runs a query against the committed state. The path may be followed
// by "?prefix" to make a prefix query.
func (n *Node) Query(path string, data []byte) ([]remittance.Model, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	path, mod := splitPath(path)
	qh := n.queries.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "unexpected query path %q, known paths: %s",
			path, strings.Join(n.queries.Paths(), ", "))
	}
	db := n.store.CheckStore()
	defer db.Discard()
	return qh.Query(db, mod, data)
}

// View calls fn with a read only view of the committed state.
func (n *Node) View(fn func(remittance.ReadOnlyKVStore) error) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	db := n.store.CheckStore()
	defer db.Discard()
	return fn(db)
}

// splitPath splits out the real path along with the query
// modifier (everything after the ?)
func splitPath(path string) (string, string) {
	var mod string
	chunks := strings.SplitN(path, "?", 2)
	if len(chunks) == 2 {
		path = chunks[0]
		mod = chunks[1]
	}
	return path, mod
}
