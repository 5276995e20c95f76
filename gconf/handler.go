package gconf

import (
	"reflect"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"github.com/waynedobson/remittance/x"
)

// OwnedConfig must have an Owner field. A configuration update message must
// be signed by an owner in order to be authorized to apply the change.
type OwnedConfig interface {
	Configuration
	GetOwner() remittance.Address
}

// UpdateConfigurationHandler applies a configuration patch message.
type UpdateConfigurationHandler struct {
	pkg string
	// We require this type to load the data.
	config OwnedConfig
	auth   x.Authenticator
}

var _ remittance.Handler = (*UpdateConfigurationHandler)(nil)

// NewUpdateConfigurationHandler returns a message handler that process
// configuration patch message.
//
// To pass authentication step, each message must be signed by the current
// configuration owner. A configuration that does not exist cannot be
// updated, it must be created via genesis.
func NewUpdateConfigurationHandler(pkg string, config OwnedConfig, auth x.Authenticator) UpdateConfigurationHandler {
	return UpdateConfigurationHandler{
		pkg:    pkg,
		config: config,
		auth:   auth,
	}
}

func (h UpdateConfigurationHandler) Check(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx) (*remittance.CheckResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &remittance.CheckResult{}, nil
}

func (h UpdateConfigurationHandler) Deliver(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx) (*remittance.DeliverResult, error) {
	if err := h.applyTx(ctx, store, tx); err != nil {
		return nil, err
	}
	return &remittance.DeliverResult{}, nil
}

func (h UpdateConfigurationHandler) applyTx(ctx remittance.Context, store remittance.KVStore, tx remittance.Tx) error {
	if err := Load(store, h.pkg, h.config); err != nil {
		return errors.Wrap(err, "load current configuration")
	}
	owner := h.config.GetOwner()
	if owner == nil {
		return errors.Wrap(errors.ErrUnauthorized, "owner signature required")
	}
	if !h.auth.HasAddress(ctx, owner) {
		return errors.Wrap(errors.ErrUnauthorized, "owner did not sign transaction")
	}

	payload, mask, err := patchPayload(tx)
	if err != nil {
		return errors.Wrap(err, "cannot get message payload")
	}
	if err := patch(h.config, payload, mask); err != nil {
		return errors.Wrap(err, "cannot patch config with message payload")
	}

	if err := Save(store, h.pkg, h.config); err != nil {
		return errors.Wrap(err, "cannot save updated config")
	}
	return nil
}

// patch copies payload fields into config. With an empty mask only non
// zero fields are copied. Otherwise exactly the fields named by the mask
// are copied, zero values included.
func patch(config OwnedConfig, payload OwnedConfig, mask []string) error {
	pType := reflect.TypeOf(payload)
	cType := reflect.TypeOf(config)
	if pType != cType {
		return errors.Wrap(errors.ErrMsg, "config in message doesn't match store")
	}

	cval := reflect.ValueOf(config).Elem()
	pval := reflect.ValueOf(payload).Elem()

	if len(mask) > 0 {
		for _, name := range mask {
			dst := cval.FieldByName(name)
			if !dst.IsValid() || !dst.CanSet() {
				return errors.Field("FieldMask", errors.ErrInput, "unknown field %q", name)
			}
			dst.Set(pval.FieldByName(name))
		}
		return nil
	}

	for i := 0; i < cval.NumField(); i++ {
		got := pval.Field(i)

		// Zero values do not update the original configuration.
		if isZero(got) {
			continue
		}

		cval.Field(i).Set(got)
	}

	return nil
}

// isZero returns true if given value represents a zero value of a given type.
func isZero(val reflect.Value) bool {
	zero := reflect.Zero(val.Type()).Interface()
	return reflect.DeepEqual(val.Interface(), zero)
}

// patchPayload expects the transaction to have a message with "Patch" field of
// the same type as the configuration. Content of this field is extracted and
// returned together with the optional "FieldMask" list of field names.
func patchPayload(tx remittance.Tx) (OwnedConfig, []string, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, nil, err
	}
	if msg == nil {
		return nil, nil, errors.Wrap(errors.ErrInput, "nil message")
	}
	if err := msg.Validate(); err != nil {
		return nil, nil, err
	}

	pval := reflect.ValueOf(msg)
	if pval.Kind() != reflect.Ptr || pval.Elem().Kind() != reflect.Struct {
		return nil, nil, errors.Wrapf(errors.ErrInput, "invalid message container value: %T", msg)
	}
	field := pval.Elem().FieldByName("Patch")
	if !field.IsValid() || field.Kind() != reflect.Ptr {
		return nil, nil, errors.Wrap(errors.ErrInput, `"Patch" field is required`)
	}
	if field.IsNil() {
		return nil, nil, errors.Wrap(errors.ErrState, `"Patch" field is required`)
	}
	payload, ok := field.Interface().(OwnedConfig)
	if !ok {
		return nil, nil, errors.Wrap(errors.ErrInput, `"Patch" field is of a wrong type`)
	}

	var mask []string
	if f := pval.Elem().FieldByName("FieldMask"); f.IsValid() {
		if mask, ok = f.Interface().([]string); !ok {
			return nil, nil, errors.Wrap(errors.ErrInput, `"FieldMask" field is of a wrong type`)
		}
	}
	return payload, mask, nil
}
