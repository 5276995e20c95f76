package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/waynedobson/remittance/errors"
)

// counter is a minimal model used to exercise buckets.
type counter struct {
	Name  string `protobuf:"bytes,1,opt,name=name,proto3"`
	Count int64  `protobuf:"varint,2,opt,name=count,proto3"`
}

func (c *counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrInput, "negative count")
	}
	return nil
}

func (c *counter) Marshal() ([]byte, error) {
	return MarshalProto((*counterWire)(c))
}

func (c *counter) Unmarshal(bz []byte) error {
	return UnmarshalProto(bz, (*counterWire)(c))
}

type counterWire counter

func (m *counterWire) Reset()         { *m = counterWire{} }
func (m *counterWire) String() string { return proto.CompactTextString(m) }
func (*counterWire) ProtoMessage()    {}
