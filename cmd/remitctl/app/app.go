/*
Package app links together all the various components
to construct the remittance ledger node.
*/
package app

import (
	"os"
	"path/filepath"

	amino "github.com/tendermint/go-amino"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/app"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/eventlog"
	"github.com/waynedobson/remittance/store/iavl"
	"github.com/waynedobson/remittance/x"
	"github.com/waynedobson/remittance/x/auth"
	"github.com/waynedobson/remittance/x/cash"
	"github.com/waynedobson/remittance/x/escrow"
	"github.com/waynedobson/remittance/x/utils"
)

// Authenticator returns the authentication used by all handlers, the
// signer declared by the transaction.
func Authenticator() x.Authenticator {
	return x.ChainAuth(auth.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		auth.NewDecorator(),
		utils.NewTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		utils.NewSavepoint().OnDeliver(),
	)
}

// Ledger returns the escrow ledger moving coins between cash wallets.
func Ledger() *escrow.Ledger {
	return escrow.NewLedger(cash.NewController())
}

// Router returns a router dispatching all escrow messages.
func Router(authFn x.Authenticator, ledger *escrow.Ledger) *app.Router {
	r := app.NewRouter()
	escrow.RegisterRoutes(r, authFn, ledger)
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/deposits" and "/fees"
func QueryRouter() remittance.QueryRouter {
	r := remittance.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		escrow.RegisterQuery,
	)
	return r
}

// Initializers loads the genesis wallets and the ledger configuration.
func Initializers() remittance.Initializer {
	return app.ChainInitializers(
		cash.NewInitializer(cash.NewController()),
		&escrow.Initializer{},
	)
}

// Stack wires up a standard router with a standard decorator
// chain.
func Stack() remittance.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn, Ledger()))
}

// Codec returns the codec used to serialize published events.
func Codec() *amino.Codec {
	return eventlog.NewCodec(escrow.RegisterCodec)
}

// Config describes where the node keeps its data and where it publishes.
type Config struct {
	// Home is the directory holding the state and the journal.
	Home string
	// Logger defaults to a no-op logger.
	Logger log.Logger
	// Publishers receive every record written to the journal.
	Publishers []eventlog.Publisher
}

const (
	dbName      = "state"
	journalName = "events.log"
)

// JournalPath returns the path of the event journal inside home.
func JournalPath(home string) string {
	return filepath.Join(home, journalName)
}

// Node is a running ledger together with the resources it holds.
type Node struct {
	*app.Node
	kv        *iavl.CommitStore
	publisher eventlog.Publisher
}

// OpenNode opens, creating if needed, the node stored in cfg.Home.
func OpenNode(cfg Config) (*Node, error) {
	if cfg.Home == "" {
		return nil, errors.Wrap(errors.ErrInput, "home directory required")
	}
	if err := os.MkdirAll(cfg.Home, 0700); err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "create home: %s", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	kv, err := iavl.NewCommitStore(cfg.Home, dbName)
	if err != nil {
		return nil, err
	}
	journal, err := eventlog.OpenJournal(JournalPath(cfg.Home), Codec())
	if err != nil {
		kv.Close()
		return nil, err
	}
	pub := append(eventlog.MultiPublisher{journal}, cfg.Publishers...)

	n, err := app.NewNode(kv, Stack(), QueryRouter(), Initializers(),
		app.WithNodeLogger(logger),
		app.WithPublisher(pub),
	)
	if err != nil {
		pub.Close()
		kv.Close()
		return nil, err
	}
	return &Node{Node: n, kv: kv, publisher: pub}, nil
}

// Close releases the store and all publishers.
func (n *Node) Close() error {
	err := n.publisher.Close()
	n.kv.Close()
	return err
}
