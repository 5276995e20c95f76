package escrow

// Reasons reported together with the root error. Clients may rely on them,
// they are part of the ledger interface.
const (
	reasonInsufficientValue = "insufficient value"
	reasonDelayRequired     = "delay required"
	reasonDelayTooLong      = "delay too long"
	reasonKeyRequired       = "key required"
	reasonKeyInUse          = "key in use"
	reasonNoDeposit         = "no deposit at this key"
	reasonNotExpired        = "not yet expired"
	reasonNoFee             = "no fee accrued"
	reasonSecretRequired    = "secret required"
)
