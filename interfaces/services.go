package interfaces

import (
	"context"

	"github.com/cyphera/vault-ledger/internal/db"
	"github.com/cyphera/vault-ledger/types/api/params"
	"github.com/cyphera/vault-ledger/types/api/responses"
	"github.com/cyphera/vault-ledger/vault"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/holiman/uint256"
)

// VaultService exposes the share ledger operations
type VaultService interface {
	Deposit(ctx context.Context, sender, recipient common.Address, amount *uint256.Int) (*responses.DepositResponse, error)
	Withdraw(ctx context.Context, sender, recipient common.Address, shares *uint256.Int) (*responses.WithdrawResponse, error)
	Transfer(ctx context.Context, sender, recipient common.Address, shares *uint256.Int) (*responses.TransferResponse, error)
	TransferFrom(ctx context.Context, spender, owner, recipient common.Address, shares *uint256.Int) (*responses.TransferResponse, error)
	Approve(ctx context.Context, owner, spender common.Address, amount *uint256.Int) (*responses.ApprovalResponse, error)
	IncreaseAllowance(ctx context.Context, owner, spender common.Address, amount *uint256.Int) (*responses.ApprovalResponse, error)
	DecreaseAllowance(ctx context.Context, owner, spender common.Address, amount *uint256.Int) (*responses.ApprovalResponse, error)
	Permit(ctx context.Context, holder, spender common.Address, nonce, expiry uint64, allowed bool, sig vault.Signature) (*responses.PermitResponse, error)
	PermitDigest(ctx context.Context, holder, spender common.Address, nonce, expiry uint64, allowed bool) (*responses.PermitDigestResponse, error)
	SetDepositLimit(ctx context.Context, caller common.Address, limit *uint256.Int) (*responses.VaultStateResponse, error)
	SetEmergencyShutdown(ctx context.Context, caller common.Address, active bool) (*responses.VaultStateResponse, error)
	GetState(ctx context.Context) (*responses.VaultStateResponse, error)
	GetBalance(ctx context.Context, holder common.Address) (*responses.BalanceResponse, error)
	GetAllowance(ctx context.Context, owner, spender common.Address) (*responses.AllowanceResponse, error)
	GetPermitNonce(ctx context.Context, holder common.Address) (*responses.NonceResponse, error)
}

// EventService reads the archived ledger events
type EventService interface {
	ListEvents(ctx context.Context, listParams params.ListVaultEventsParams) (*responses.ListVaultEventsResponse, error)
}

// APIKeyService handles API key operations
type APIKeyService interface {
	CreateAPIKey(ctx context.Context, p params.CreateAPIKeyParams) (db.ApiKey, string, error)
	GetAPIKey(ctx context.Context, id uuid.UUID) (db.ApiKey, error)
	ListAPIKeys(ctx context.Context) ([]db.ApiKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID) error
}
