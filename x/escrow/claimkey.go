package escrow

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/waynedobson/remittance"
	"github.com/waynedobson/remittance/errors"
	"golang.org/x/crypto/sha3"
)

// ClaimKeyLength is the size of every claim key.
const ClaimKeyLength = 32

// claimKeyDomain separates claim keys from any other keccak digest.
const claimKeyDomain = "escrow/claimkey"

// ClaimKey identifies a deposit slot. Knowledge of the secrets it was
// derived from is the only authorization needed to withdraw the deposit.
type ClaimKey []byte

// ComputeClaimKey derives the claim key of the two secrets bound to the
// intermediary. Every input is length prefixed, so no two distinct inputs
// share an encoding. The order of the secrets matters.
func ComputeClaimKey(secretA, secretB []byte, intermediary remittance.Address) ClaimKey {
	h := sha3.NewLegacyKeccak256()
	_, _ = h.Write([]byte(claimKeyDomain))
	for _, part := range [][]byte{secretA, secretB, intermediary} {
		var size [4]byte
		binary.BigEndian.PutUint32(size[:], uint32(len(part)))
		_, _ = h.Write(size[:])
		_, _ = h.Write(part)
	}
	return h.Sum(nil)
}

// Validate returns an error if the key is empty or malformed. A key of
// only zero bytes is the unset key and counts as empty.
func (k ClaimKey) Validate() error {
	if len(k) == 0 {
		return errors.Wrap(errors.ErrInput, reasonKeyRequired)
	}
	if len(k) != ClaimKeyLength {
		return errors.Wrapf(errors.ErrInput, "claim key must be %d bytes", ClaimKeyLength)
	}
	for _, b := range k {
		if b != 0 {
			return nil
		}
	}
	return errors.Wrap(errors.ErrInput, reasonKeyRequired)
}

// Equals checks if two keys are the same
func (k ClaimKey) Equals(o ClaimKey) bool {
	return string(k) == string(o)
}

func (k ClaimKey) String() string {
	return strings.ToUpper(hex.EncodeToString(k))
}

// MarshalJSON provides a hex representation for JSON.
func (k ClaimKey) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a hex representation.
func (k *ClaimKey) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrapf(errors.ErrInput, "claim key: %s", err)
	}
	key, err := ParseClaimKey(enc)
	if err != nil {
		return err
	}
	*k = key
	return nil
}

// ParseClaimKey decodes a hex encoded claim key. An empty string decodes
// to an empty key.
func ParseClaimKey(enc string) (ClaimKey, error) {
	if enc == "" {
		return nil, nil
	}
	raw, err := hex.DecodeString(enc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, "claim key is not hex encoded")
	}
	key := ClaimKey(raw)
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return key, nil
}
