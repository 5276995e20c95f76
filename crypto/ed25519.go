/*
Package crypto manages the ed25519 keys that identify ledger participants.
A public key is turned into a Condition and from there into the Address
used by every extension.
*/
package crypto

import (
	"bytes"
	"encoding/hex"
	"io/ioutil"
	"os"
	"strings"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the Conditions we build from public keys
const ExtensionName = "sigs"

// PublicKey is an ed25519 public key.
type PublicKey []byte

// Condition encodes the public key into a ledger permission
func (p PublicKey) Condition() remittance.Condition {
	if len(p) == 0 {
		return nil
	}
	return remittance.NewCondition(ExtensionName, "ed25519", p)
}

// Address returns the address derived from the public key condition.
func (p PublicKey) Address() remittance.Address {
	return p.Condition().Address()
}

// Equals checks if two public keys are the same
func (p PublicKey) Equals(o PublicKey) bool {
	return bytes.Equal(p, o)
}

// PrivateKey is an ed25519 private key.
type PrivateKey []byte

// PublicKey returns the corresponding PublicKey
func (p PrivateKey) PublicKey() PublicKey {
	pub := ed25519.PrivateKey(p).Public().(ed25519.PublicKey)
	return PublicKey(pub)
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() (PrivateKey, error) {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "generate key: %s", err)
	}
	return PrivateKey(priv), nil
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) (PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, errors.Wrapf(errors.ErrInput, "seed must be %d bytes", ed25519.SeedSize)
	}
	return PrivateKey(ed25519.NewKeyFromSeed(seed)), nil
}

// WriteKeyFile stores the hex encoded private key at path. The file must not
// exist yet.
func WriteKeyFile(path string, key PrivateKey) error {
	fd, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return errors.Wrapf(errors.ErrDuplicate, "create key file: %s", err)
	}
	defer fd.Close()
	if _, err := fd.WriteString(hex.EncodeToString(key) + "\n"); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write key file: %s", err)
	}
	return nil
}

// ReadKeyFile loads a private key written by WriteKeyFile.
func ReadKeyFile(path string) (PrivateKey, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "key file %s", path)
		}
		return nil, errors.Wrapf(errors.ErrDatabase, "read key file: %s", err)
	}
	key, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "malformed key file")
	}
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInput, "invalid key length %d", len(key))
	}
	return PrivateKey(key), nil
}
