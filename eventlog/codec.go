package eventlog

import (
	amino "github.com/tendermint/go-amino"
	"github.com/waynedobson/remittance"
)

// NewCodec returns a codec able to encode records carrying events of all
// given registrations.
func NewCodec(registers ...func(*amino.Codec)) *amino.Codec {
	cdc := amino.NewCodec()
	cdc.RegisterInterface((*remittance.Event)(nil), nil)
	for _, register := range registers {
		register(cdc)
	}
	cdc.Seal()
	return cdc
}

// Record is the outcome of a single delivered transaction.
type Record struct {
	Height int64               `json:"height"`
	Time   remittance.UnixTime `json:"time"`
	Path   string              `json:"path"`
	Events []remittance.Event  `json:"events"`
}
