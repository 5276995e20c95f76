package remittest

import (
	"testing"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/crypto"
)

// NewCondition returns a condition of a freshly generated ed25519 key.
func NewCondition() remittance.Condition {
	key, err := crypto.GenPrivKeyEd25519()
	if err != nil {
		panic(err)
	}
	return key.PublicKey().Condition()
}

// SequenceCondition returns a deterministic condition, useful when a test
// requires a stable address.
func SequenceCondition(n int) remittance.Condition {
	return remittance.NewCondition("test", "seq", []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) remittance.Address {
	t.Helper()

	addr, err := remittance.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}
