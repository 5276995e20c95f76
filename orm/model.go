package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	remittance.Persistent
	Validate() error
}

// MarshalProto serializes a protobuf message using the reflection based
// table marshaler. Models call it from their Marshal method with a method
// free alias of themselves, so that the codec does not recurse back into
// Marshal.
func MarshalProto(msg proto.Message) ([]byte, error) {
	bz, err := proto.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "marshal %T: %s", msg, err)
	}
	return bz, nil
}

// UnmarshalProto is the counterpart of MarshalProto.
func UnmarshalProto(bz []byte, msg proto.Message) error {
	if err := proto.Unmarshal(bz, msg); err != nil {
		return errors.Wrapf(errors.ErrModel, "unmarshal %T: %s", msg, err)
	}
	return nil
}
