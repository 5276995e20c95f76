package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/gconf"
	"github.com/waynedobson/remittance/orm"
)

// packageName is used as the configuration key.
const packageName = "escrow"

// Configuration of the ledger, a singleton created from the genesis file.
type Configuration struct {
	// Owner may update the configuration.
	Owner remittance.Address `protobuf:"bytes,1,opt,name=owner,proto3" json:"owner"`
	// Fee is charged on every deposit and credited to its intermediary.
	Fee int64 `protobuf:"varint,2,opt,name=fee,proto3" json:"fee"`
	// DefaultIntermediary receives the fee of deposits that do not name an
	// intermediary.
	DefaultIntermediary remittance.Address `protobuf:"bytes,3,opt,name=default_intermediary,proto3" json:"default_intermediary"`
	// MaxDelay limits how far in the future a deposit may expire, in
	// seconds. Zero means no limit.
	MaxDelay int64 `protobuf:"varint,4,opt,name=max_delay,proto3" json:"max_delay"`
}

var _ gconf.OwnedConfig = (*Configuration)(nil)

// GetOwner returns the address allowed to update the configuration.
func (c *Configuration) GetOwner() remittance.Address {
	return c.Owner
}

func (c *Configuration) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Owner", c.Owner.Validate())
	if c.Owner.Equals(CustodyAddress()) {
		errs = errors.AppendField(errs, "Owner", errors.ErrInput)
	}
	if c.Fee < 0 {
		errs = errors.AppendField(errs, "Fee", errors.ErrAmount)
	}
	errs = errors.AppendField(errs, "DefaultIntermediary", c.DefaultIntermediary.Validate())
	if c.DefaultIntermediary.Equals(CustodyAddress()) {
		errs = errors.AppendField(errs, "DefaultIntermediary", errors.ErrInput)
	}
	if c.MaxDelay < 0 {
		errs = errors.AppendField(errs, "MaxDelay", errors.ErrInput)
	}
	return errs
}

func (c *Configuration) Marshal() ([]byte, error) {
	return orm.MarshalProto((*configurationWire)(c))
}

func (c *Configuration) Unmarshal(raw []byte) error {
	return orm.UnmarshalProto(raw, (*configurationWire)(c))
}

type configurationWire Configuration

func (m *configurationWire) Reset()         { *m = configurationWire{} }
func (m *configurationWire) String() string { return proto.CompactTextString(m) }
func (*configurationWire) ProtoMessage()    {}

// LoadConfiguration returns the current configuration. It fails with
// ErrState when the ledger was never configured.
func LoadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrap(errors.ErrState, "ledger is not configured")
		}
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
