package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/orm"
)

const (
	// DepositBucketName is where deposits are stored, keyed by claim key.
	DepositBucketName = "deposit"
	// FeeBucketName is where fee accruals are stored, keyed by the
	// intermediary address.
	FeeBucketName = "escrowfee"
)

// CustodyCondition owns the wallet holding all value locked in the ledger.
// Nobody can sign for it, value leaves it only through the ledger.
var CustodyCondition = remittance.NewCondition("escrow", "custody", []byte("ledger"))

// CustodyAddress returns the address of the custody wallet.
func CustodyAddress() remittance.Address {
	return CustodyCondition.Address()
}

// Deposit is the value locked under a claim key.
type Deposit struct {
	// Amount is the locked value, net of the fee.
	Amount int64 `protobuf:"varint,1,opt,name=amount,proto3" json:"amount"`
	// Depositor funded the deposit and may cancel it after expiry.
	Depositor remittance.Address `protobuf:"bytes,2,opt,name=depositor,proto3" json:"depositor"`
	// Expiry is the time from which the depositor may cancel.
	Expiry remittance.UnixTime `protobuf:"varint,3,opt,name=expiry,proto3" json:"expiry"`
}

var _ orm.Model = (*Deposit)(nil)

// Validate ensures the deposit is funded. An empty deposit is never
// stored.
func (d *Deposit) Validate() error {
	var errs error
	if d.Amount <= 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	errs = errors.AppendField(errs, "Depositor", d.Depositor.Validate())
	errs = errors.AppendField(errs, "Expiry", d.Expiry.Validate())
	return errs
}

func (d *Deposit) Marshal() ([]byte, error) {
	return orm.MarshalProto((*depositWire)(d))
}

func (d *Deposit) Unmarshal(raw []byte) error {
	return orm.UnmarshalProto(raw, (*depositWire)(d))
}

type depositWire Deposit

func (m *depositWire) Reset()         { *m = depositWire{} }
func (m *depositWire) String() string { return proto.CompactTextString(m) }
func (*depositWire) ProtoMessage()    {}

// FeeAccrual is the fee owed to a single intermediary.
type FeeAccrual struct {
	Intermediary remittance.Address `protobuf:"bytes,1,opt,name=intermediary,proto3" json:"intermediary"`
	Amount       int64              `protobuf:"varint,2,opt,name=amount,proto3" json:"amount"`
}

var _ orm.Model = (*FeeAccrual)(nil)

// Validate ensures the accrual is positive. A zero accrual is never
// stored.
func (f *FeeAccrual) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Intermediary", f.Intermediary.Validate())
	if f.Amount <= 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

func (f *FeeAccrual) Marshal() ([]byte, error) {
	return orm.MarshalProto((*feeAccrualWire)(f))
}

func (f *FeeAccrual) Unmarshal(raw []byte) error {
	return orm.UnmarshalProto(raw, (*feeAccrualWire)(f))
}

type feeAccrualWire FeeAccrual

func (m *feeAccrualWire) Reset()         { *m = feeAccrualWire{} }
func (m *feeAccrualWire) String() string { return proto.CompactTextString(m) }
func (*feeAccrualWire) ProtoMessage()    {}

// NewDepositBucket returns the bucket of all deposits.
func NewDepositBucket() orm.ModelBucket {
	return orm.NewModelBucket(DepositBucketName)
}

// NewFeeBucket returns the bucket of all fee accruals.
func NewFeeBucket() orm.ModelBucket {
	return orm.NewModelBucket(FeeBucketName)
}
