package vault

import "errors"

// Operation failures. Every one of these leaves the ledger untouched; callers
// map them onto transport-level responses.
var (
	ErrInsufficientBalance   = errors.New("insufficient share balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrArithmeticOverflow    = errors.New("arithmetic overflow")
	ErrArithmeticUnderflow   = errors.New("arithmetic underflow")
	ErrInvalidRecipient      = errors.New("invalid recipient")
	ErrDepositLimitExceeded  = errors.New("deposit limit exceeded")
	ErrVaultShutdown         = errors.New("vault is shut down")
	ErrInsufficientLiquidity = errors.New("insufficient idle liquidity")
	ErrZeroShares            = errors.New("amount converts to zero shares")
	ErrNonceMismatch         = errors.New("permit nonce mismatch")
	ErrPermitExpired         = errors.New("permit expired")
	ErrInvalidSignature      = errors.New("invalid permit signature")
	ErrUnauthorized          = errors.New("caller is not the vault owner")
)
