package remittest

import "github.com/waynedobson/remittance"

// Tx represents a single message transaction.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg remittance.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ remittance.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (remittance.Msg, error) {
	return tx.Msg, tx.Err
}

// Msg is a message with a configurable route and validation result.
type Msg struct {
	// RoutePath is returned by the path method, consumed by the router.
	RoutePath string
	// Serialized represents the serialized form of this message.
	Serialized []byte
	// Err if set is returned by any method call.
	Err error
}

var _ remittance.Msg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) Unmarshal(b []byte) error {
	m.Serialized = b
	return m.Err
}

func (m *Msg) Marshal() ([]byte, error) {
	return m.Serialized, m.Err
}
