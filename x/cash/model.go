package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/orm"
)

// BucketName is where we store the wallets
const BucketName = "cash"

// Wallet holds the balance of a single address.
type Wallet struct {
	Balance int64 `protobuf:"varint,1,opt,name=balance,proto3" json:"balance"`
}

var _ orm.Model = (*Wallet)(nil)

// Validate returns an error if the balance is negative.
func (w *Wallet) Validate() error {
	if w.Balance < 0 {
		return errors.Wrap(errors.ErrAmount, "negative balance")
	}
	return nil
}

func (w *Wallet) Marshal() ([]byte, error) {
	return orm.MarshalProto((*walletWire)(w))
}

func (w *Wallet) Unmarshal(raw []byte) error {
	return orm.UnmarshalProto(raw, (*walletWire)(w))
}

type walletWire Wallet

func (m *walletWire) Reset()         { *m = walletWire{} }
func (m *walletWire) String() string { return proto.CompactTextString(m) }
func (*walletWire) ProtoMessage()    {}

// NewBucket returns the bucket holding all wallets, keyed by address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName)
}
