package escrow

import (
	amino "github.com/tendermint/go-amino"
	"github.com/waynedobson/remittance"
)

// FeeAccrued is emitted when a deposit credits the fee to its
// intermediary. It always precedes the DepositCreated event of the same
// deposit.
type FeeAccrued struct {
	Depositor    remittance.Address `json:"depositor"`
	Intermediary remittance.Address `json:"intermediary"`
	Amount       int64              `json:"amount"`
}

// EventName implements remittance.Event
func (FeeAccrued) EventName() string { return "FeeAccrued" }

// DepositCreated is emitted when value is locked under a claim key.
type DepositCreated struct {
	Depositor    remittance.Address  `json:"depositor"`
	Intermediary remittance.Address  `json:"intermediary"`
	ClaimKey     ClaimKey            `json:"claim_key"`
	Amount       int64               `json:"amount"`
	Expiry       remittance.UnixTime `json:"expiry"`
}

// EventName implements remittance.Event
func (DepositCreated) EventName() string { return "DepositCreated" }

// Withdrawn is emitted when the claimant takes the deposit.
type Withdrawn struct {
	Claimant remittance.Address `json:"claimant"`
	ClaimKey ClaimKey           `json:"claim_key"`
	Amount   int64              `json:"amount"`
}

// EventName implements remittance.Event
func (Withdrawn) EventName() string { return "Withdrawn" }

// DepositCancelled is emitted when the depositor takes back an expired
// deposit.
type DepositCancelled struct {
	Depositor remittance.Address `json:"depositor"`
	ClaimKey  ClaimKey           `json:"claim_key"`
	Amount    int64              `json:"amount"`
}

// EventName implements remittance.Event
func (DepositCancelled) EventName() string { return "DepositCancelled" }

// FeeWithdrawn is emitted when an intermediary collects the accrued fee.
type FeeWithdrawn struct {
	Intermediary remittance.Address `json:"intermediary"`
	Amount       int64              `json:"amount"`
}

// EventName implements remittance.Event
func (FeeWithdrawn) EventName() string { return "FeeWithdrawn" }

var (
	_ remittance.Event = FeeAccrued{}
	_ remittance.Event = DepositCreated{}
	_ remittance.Event = Withdrawn{}
	_ remittance.Event = DepositCancelled{}
	_ remittance.Event = FeeWithdrawn{}
)

// RegisterCodec registers all ledger events as concrete implementations
// of remittance.Event. The interface itself must be registered by the
// caller.
func RegisterCodec(cdc *amino.Codec) {
	cdc.RegisterConcrete(FeeAccrued{}, "escrow/FeeAccrued", nil)
	cdc.RegisterConcrete(DepositCreated{}, "escrow/DepositCreated", nil)
	cdc.RegisterConcrete(Withdrawn{}, "escrow/Withdrawn", nil)
	cdc.RegisterConcrete(DepositCancelled{}, "escrow/DepositCancelled", nil)
	cdc.RegisterConcrete(FeeWithdrawn{}, "escrow/FeeWithdrawn", nil)
}
