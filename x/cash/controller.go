package cash

import (
	"math"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/orm"
)

// CoinMover is an interface for moving coins between wallets.
type CoinMover interface {
	// MoveCoins transfers amount from src to dest. It fails without
	// changing any balance if src does not hold enough.
	MoveCoins(store remittance.KVStore, src, dest remittance.Address, amount int64) error
	// Balance returns the balance of the wallet, zero if none exists.
	Balance(store remittance.ReadOnlyKVStore, addr remittance.Address) (int64, error)
}

// Controller is the functionality needed by the ledger and the genesis
// loader.
type Controller interface {
	CoinMover
	// IssueCoins creates amount of value in the dest wallet.
	IssueCoins(store remittance.KVStore, dest remittance.Address, amount int64) error
}

// BaseController is the default wallet controller.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller backed by the wallet bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the balance of the wallet, zero if none exists.
func (c BaseController) Balance(store remittance.ReadOnlyKVStore, addr remittance.Address) (int64, error) {
	var w Wallet
	switch err := c.bucket.One(store, addr, &w); {
	case err == nil:
		return w.Balance, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "cannot load wallet")
	}
}

// MoveCoins moves the given amount from src to dest.
// If src doesn't exist, or doesn't have sufficient
// coins, it fails.
func (c BaseController) MoveCoins(store remittance.KVStore, src, dest remittance.Address, amount int64) error {
	if amount <= 0 {
		return errors.Wrap(errors.ErrAmount, "non-positive amount")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	have, err := c.Balance(store, src)
	if err != nil {
		return err
	}
	if have < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "balance %d, required %d", have, amount)
	}
	if src.Equals(dest) {
		return nil
	}
	got, err := c.Balance(store, dest)
	if err != nil {
		return err
	}
	if got > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}

	if err := c.save(store, src, have-amount); err != nil {
		return err
	}
	return c.save(store, dest, got+amount)
}

// IssueCoins attempts to add the given amount of coins to
// the destination address. Fails if it overflows the wallet.
func (c BaseController) IssueCoins(store remittance.KVStore, dest remittance.Address, amount int64) error {
	if amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	got, err := c.Balance(store, dest)
	if err != nil {
		return err
	}
	if got > math.MaxInt64-amount {
		return errors.Wrap(errors.ErrOverflow, "destination balance")
	}
	return c.save(store, dest, got+amount)
}

// save writes the wallet, an empty wallet is removed from the store.
func (c BaseController) save(store remittance.KVStore, addr remittance.Address, balance int64) error {
	if balance == 0 {
		err := c.bucket.Delete(store, addr)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	return c.bucket.Put(store, addr, &Wallet{Balance: balance})
}
