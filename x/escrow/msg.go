package escrow

import (
	"github.com/gogo/protobuf/proto"
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/orm"
)

const (
	pathDepositMsg             = "escrow/deposit"
	pathWithdrawMsg            = "escrow/withdraw"
	pathCancelMsg              = "escrow/cancel"
	pathWithdrawFeeMsg         = "escrow/withdraw_fee"
	pathUpdateConfigurationMsg = "escrow/update_configuration"

	// maxSecretSize limits each of the two secrets in bytes.
	maxSecretSize = 256
)

var _ remittance.Msg = (*DepositMsg)(nil)
var _ remittance.Msg = (*WithdrawMsg)(nil)
var _ remittance.Msg = (*CancelMsg)(nil)
var _ remittance.Msg = (*WithdrawFeeMsg)(nil)
var _ remittance.Msg = (*UpdateConfigurationMsg)(nil)

// DepositMsg locks Amount taken from the signer under ClaimKey.
type DepositMsg struct {
	ClaimKey ClaimKey `protobuf:"bytes,1,opt,name=claim_key,proto3" json:"claim_key"`
	// Intermediary receives the fee. Empty means the configured default.
	Intermediary remittance.Address `protobuf:"bytes,2,opt,name=intermediary,proto3" json:"intermediary,omitempty"`
	DelaySeconds int64              `protobuf:"varint,3,opt,name=delay_seconds,proto3" json:"delay_seconds"`
	Amount       int64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount"`
}

func (DepositMsg) Path() string {
	return pathDepositMsg
}

// Validate rejects malformed values only. Missing values are reported by
// the ledger, so that each failure carries its own reason.
func (m *DepositMsg) Validate() error {
	if len(m.ClaimKey) != 0 {
		if err := m.ClaimKey.Validate(); err != nil {
			return errors.Wrap(err, "claim key")
		}
	}
	if len(m.Intermediary) != 0 {
		if err := m.Intermediary.Validate(); err != nil {
			return errors.Wrap(err, "intermediary")
		}
	}
	if m.Amount < 0 {
		return errors.Wrap(errors.ErrAmount, "negative amount")
	}
	if m.DelaySeconds < 0 {
		return errors.Wrap(errors.ErrInput, "negative delay")
	}
	return nil
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	return orm.MarshalProto((*depositMsgWire)(m))
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
	return orm.UnmarshalProto(raw, (*depositMsgWire)(m))
}

type depositMsgWire DepositMsg

func (m *depositMsgWire) Reset()         { *m = depositMsgWire{} }
func (m *depositMsgWire) String() string { return proto.CompactTextString(m) }
func (*depositMsgWire) ProtoMessage()    {}

// WithdrawMsg pays the deposit unlocked by both secrets to the signer.
type WithdrawMsg struct {
	SecretA      []byte             `protobuf:"bytes,1,opt,name=secret_a,proto3" json:"secret_a"`
	SecretB      []byte             `protobuf:"bytes,2,opt,name=secret_b,proto3" json:"secret_b"`
	Intermediary remittance.Address `protobuf:"bytes,3,opt,name=intermediary,proto3" json:"intermediary,omitempty"`
}

func (WithdrawMsg) Path() string {
	return pathWithdrawMsg
}

func (m *WithdrawMsg) Validate() error {
	if len(m.SecretA) > maxSecretSize || len(m.SecretB) > maxSecretSize {
		return errors.Wrapf(errors.ErrInput, "secret must not be longer than %d bytes", maxSecretSize)
	}
	if len(m.Intermediary) != 0 {
		if err := m.Intermediary.Validate(); err != nil {
			return errors.Wrap(err, "intermediary")
		}
	}
	return nil
}

func (m *WithdrawMsg) Marshal() ([]byte, error) {
	return orm.MarshalProto((*withdrawMsgWire)(m))
}

func (m *WithdrawMsg) Unmarshal(raw []byte) error {
	return orm.UnmarshalProto(raw, (*withdrawMsgWire)(m))
}

type withdrawMsgWire WithdrawMsg

func (m *withdrawMsgWire) Reset()         { *m = withdrawMsgWire{} }
func (m *withdrawMsgWire) String() string { return proto.CompactTextString(m) }
func (*withdrawMsgWire) ProtoMessage()    {}

// CancelMsg returns an expired deposit to the signer.
type CancelMsg struct {
	ClaimKey ClaimKey `protobuf:"bytes,1,opt,name=claim_key,proto3" json:"claim_key"`
}

func (CancelMsg) Path() string {
	return pathCancelMsg
}

func (m *CancelMsg) Validate() error {
	if len(m.ClaimKey) != 0 && len(m.ClaimKey) != ClaimKeyLength {
		return errors.Wrapf(errors.ErrInput, "claim key must be %d bytes", ClaimKeyLength)
	}
	return nil
}

func (m *CancelMsg) Marshal() ([]byte, error) {
	return orm.MarshalProto((*cancelMsgWire)(m))
}

func (m *CancelMsg) Unmarshal(raw []byte) error {
	return orm.UnmarshalProto(raw, (*cancelMsgWire)(m))
}

type cancelMsgWire CancelMsg

func (m *cancelMsgWire) Reset()         { *m = cancelMsgWire{} }
func (m *cancelMsgWire) String() string { return proto.CompactTextString(m) }
func (*cancelMsgWire) ProtoMessage()    {}

// WithdrawFeeMsg pays the fee accrued by the intermediary. Empty
// intermediary means the signer.
type WithdrawFeeMsg struct {
	Intermediary remittance.Address `protobuf:"bytes,1,opt,name=intermediary,proto3" json:"intermediary,omitempty"`
}

func (WithdrawFeeMsg) Path() string {
	return pathWithdrawFeeMsg
}

func (m *WithdrawFeeMsg) Validate() error {
	if len(m.Intermediary) != 0 {
		if err := m.Intermediary.Validate(); err != nil {
			return errors.Wrap(err, "intermediary")
		}
	}
	return nil
}

func (m *WithdrawFeeMsg) Marshal() ([]byte, error) {
	return orm.MarshalProto((*withdrawFeeMsgWire)(m))
}

func (m *WithdrawFeeMsg) Unmarshal(raw []byte) error {
	return orm.UnmarshalProto(raw, (*withdrawFeeMsgWire)(m))
}

type withdrawFeeMsgWire WithdrawFeeMsg

func (m *withdrawFeeMsgWire) Reset()         { *m = withdrawFeeMsgWire{} }
func (m *withdrawFeeMsgWire) String() string { return proto.CompactTextString(m) }
func (*withdrawFeeMsgWire) ProtoMessage()    {}

// UpdateConfigurationMsg changes the stored configuration. Without a
// FieldMask only the non zero fields of Patch are applied. With a FieldMask
// exactly the named fields are copied, zero values included. It must be
// signed by the configuration owner.
type UpdateConfigurationMsg struct {
	Patch     *Configuration `protobuf:"bytes,1,opt,name=patch,proto3" json:"patch"`
	FieldMask []string       `protobuf:"bytes,2,rep,name=field_mask,proto3" json:"field_mask,omitempty"`
}

// configurationFields lists the Configuration fields a FieldMask may name.
var configurationFields = map[string]bool{
	"Owner":               true,
	"Fee":                 true,
	"DefaultIntermediary": true,
	"MaxDelay":            true,
}

func (UpdateConfigurationMsg) Path() string {
	return pathUpdateConfigurationMsg
}

func (m *UpdateConfigurationMsg) Validate() error {
	if m.Patch == nil {
		return errors.Wrap(errors.ErrEmpty, "patch")
	}
	set := func(name string, zero bool) bool {
		if len(m.FieldMask) == 0 {
			return !zero
		}
		for _, f := range m.FieldMask {
			if f == name {
				return true
			}
		}
		return false
	}

	var errs error
	for _, f := range m.FieldMask {
		if !configurationFields[f] {
			errs = errors.Append(errs, errors.Field("FieldMask", errors.ErrInput, "unknown field %q", f))
		}
	}
	if set("Owner", len(m.Patch.Owner) == 0) {
		errs = errors.AppendField(errs, "Owner", m.Patch.Owner.Validate())
		if m.Patch.Owner.Equals(CustodyAddress()) {
			errs = errors.AppendField(errs, "Owner", errors.ErrInput)
		}
	}
	if m.Patch.Fee < 0 {
		errs = errors.AppendField(errs, "Fee", errors.ErrAmount)
	}
	if set("DefaultIntermediary", len(m.Patch.DefaultIntermediary) == 0) {
		errs = errors.AppendField(errs, "DefaultIntermediary", m.Patch.DefaultIntermediary.Validate())
		if m.Patch.DefaultIntermediary.Equals(CustodyAddress()) {
			errs = errors.AppendField(errs, "DefaultIntermediary", errors.ErrInput)
		}
	}
	if m.Patch.MaxDelay < 0 {
		errs = errors.AppendField(errs, "MaxDelay", errors.ErrInput)
	}
	return errs
}

func (m *UpdateConfigurationMsg) Marshal() ([]byte, error) {
	return orm.MarshalProto(&updateConfigurationMsgWire{
		Patch:     (*configurationWire)(m.Patch),
		FieldMask: m.FieldMask,
	})
}

func (m *UpdateConfigurationMsg) Unmarshal(raw []byte) error {
	var w updateConfigurationMsgWire
	if err := orm.UnmarshalProto(raw, &w); err != nil {
		return err
	}
	m.Patch = (*Configuration)(w.Patch)
	m.FieldMask = w.FieldMask
	return nil
}

type updateConfigurationMsgWire struct {
	Patch     *configurationWire `protobuf:"bytes,1,opt,name=patch,proto3"`
	FieldMask []string           `protobuf:"bytes,2,rep,name=field_mask,proto3"`
}

func (m *updateConfigurationMsgWire) Reset()         { *m = updateConfigurationMsgWire{} }
func (m *updateConfigurationMsgWire) String() string { return proto.CompactTextString(m) }
func (*updateConfigurationMsgWire) ProtoMessage()    {}
