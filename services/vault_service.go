package services

import (
	"context"
	"sync"
	"time"

	"github.com/cyphera/vault-ledger/constants"
	"github.com/cyphera/vault-ledger/logger"
	"github.com/cyphera/vault-ledger/types/api/responses"
	"github.com/cyphera/vault-ledger/vault"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
	"go.uber.org/zap"
)

// VaultService serializes access to the share ledger and shapes outcomes for
// the API layer. The vault engine itself is single-threaded; every entry
// point takes the service lock, including reads, since the ledger mutates
// its maps in place.
type VaultService struct {
	mu     sync.Mutex
	vault  *vault.Vault
	logger *zap.Logger
	ops    *logger.StructuredLogger
}

// NewVaultService creates a new instance of VaultService around an
// initialized vault.
func NewVaultService(v *vault.Vault) *VaultService {
	return &VaultService{
		vault:  v,
		logger: logger.Log,
		ops:    logger.NewStructuredLogger(logger.ComponentVault),
	}
}

// Deposit pulls tokens from the sender and mints shares to the recipient.
// A nil amount deposits the sender's full token balance.
func (s *VaultService) Deposit(ctx context.Context, sender, recipient common.Address, amount *uint256.Int) (*responses.DepositResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	idleBefore := s.vault.TotalIdle()

	minted, err := s.vault.Deposit(ctx, sender, amount, recipient)
	s.ops.LogVaultOperation(constants.OpDeposit, sender.Hex(), err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	// The sentinel amount resolves inside the engine; the idle delta is the
	// amount actually pulled.
	pulled := new(uint256.Int).Sub(s.vault.TotalIdle(), idleBefore)

	return &responses.DepositResponse{
		Object:       "deposit",
		Sender:       sender.Hex(),
		Recipient:    recipient.Hex(),
		Amount:       pulled.Dec(),
		SharesMinted: minted.Dec(),
		TotalSupply:  s.vault.TotalSupply().Dec(),
		TotalAssets:  s.vault.TotalAssets().Dec(),
	}, nil
}

// Withdraw burns the sender's shares and pays out tokens to the recipient.
// A nil share count redeems the sender's full balance.
func (s *VaultService) Withdraw(ctx context.Context, sender, recipient common.Address, shares *uint256.Int) (*responses.WithdrawResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	balanceBefore := s.vault.BalanceOf(sender)

	amount, err := s.vault.Withdraw(ctx, sender, shares, recipient)
	s.ops.LogVaultOperation(constants.OpWithdraw, sender.Hex(), err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	burned := new(uint256.Int).Sub(balanceBefore, s.vault.BalanceOf(sender))

	return &responses.WithdrawResponse{
		Object:       "withdrawal",
		Sender:       sender.Hex(),
		Recipient:    recipient.Hex(),
		SharesBurned: burned.Dec(),
		Amount:       amount.Dec(),
		TotalSupply:  s.vault.TotalSupply().Dec(),
		TotalAssets:  s.vault.TotalAssets().Dec(),
	}, nil
}

// Transfer moves shares between holders without touching the token side.
func (s *VaultService) Transfer(ctx context.Context, sender, recipient common.Address, shares *uint256.Int) (*responses.TransferResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shares = orZero(shares)
	start := time.Now()
	err := s.vault.Transfer(sender, recipient, shares)
	s.ops.LogVaultOperation(constants.OpTransfer, sender.Hex(), err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	return &responses.TransferResponse{
		Object:      "transfer",
		From:        sender.Hex(),
		To:          recipient.Hex(),
		Shares:      shares.Dec(),
		FromBalance: s.vault.BalanceOf(sender).Dec(),
		ToBalance:   s.vault.BalanceOf(recipient).Dec(),
	}, nil
}

// TransferFrom moves shares from owner to recipient on the spender's
// allowance.
func (s *VaultService) TransferFrom(ctx context.Context, spender, owner, recipient common.Address, shares *uint256.Int) (*responses.TransferResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shares = orZero(shares)
	start := time.Now()
	err := s.vault.TransferFrom(spender, owner, recipient, shares)
	s.ops.LogVaultOperation(constants.OpTransferFrom, spender.Hex(), err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	return &responses.TransferResponse{
		Object:           "transfer",
		From:             owner.Hex(),
		To:               recipient.Hex(),
		Shares:           shares.Dec(),
		FromBalance:      s.vault.BalanceOf(owner).Dec(),
		ToBalance:        s.vault.BalanceOf(recipient).Dec(),
		SpenderAllowance: s.vault.Allowance(owner, spender).Dec(),
	}, nil
}

// Approve overwrites the spender's allowance.
func (s *VaultService) Approve(ctx context.Context, owner, spender common.Address, amount *uint256.Int) (*responses.ApprovalResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := s.vault.Approve(owner, spender, amount)
	s.ops.LogVaultOperation(constants.OpApprove, owner.Hex(), err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	return s.approvalResponse(owner, spender), nil
}

// IncreaseAllowance raises the spender's allowance by amount.
func (s *VaultService) IncreaseAllowance(ctx context.Context, owner, spender common.Address, amount *uint256.Int) (*responses.ApprovalResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	_, err := s.vault.IncreaseAllowance(owner, spender, amount)
	s.ops.LogVaultOperation(constants.OpIncreaseAllowance, owner.Hex(), err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	return s.approvalResponse(owner, spender), nil
}

// DecreaseAllowance lowers the spender's allowance by amount.
func (s *VaultService) DecreaseAllowance(ctx context.Context, owner, spender common.Address, amount *uint256.Int) (*responses.ApprovalResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	_, err := s.vault.DecreaseAllowance(owner, spender, amount)
	s.ops.LogVaultOperation(constants.OpDecreaseAllowance, owner.Hex(), err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	return s.approvalResponse(owner, spender), nil
}

// Permit applies a signed off-chain approval.
func (s *VaultService) Permit(ctx context.Context, holder, spender common.Address, nonce, expiry uint64, allowed bool, sig vault.Signature) (*responses.PermitResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := s.vault.Permit(holder, spender, nonce, expiry, allowed, sig)
	s.ops.LogVaultOperation(constants.OpPermit, holder.Hex(), err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	return &responses.PermitResponse{
		Object:    "permit",
		Holder:    holder.Hex(),
		Spender:   spender.Hex(),
		Allowed:   allowed,
		NextNonce: s.vault.PermitNonce(holder),
	}, nil
}

// PermitDigest computes the EIP-712 digest for the given permit parameters.
func (s *VaultService) PermitDigest(ctx context.Context, holder, spender common.Address, nonce, expiry uint64, allowed bool) (*responses.PermitDigestResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	digest, err := s.vault.PermitDigest(holder, spender, nonce, expiry, allowed)
	if err != nil {
		return nil, err
	}

	return &responses.PermitDigestResponse{
		Object: "permit_digest",
		Digest: hexutil.Encode(digest),
		Nonce:  nonce,
		Expiry: expiry,
	}, nil
}

// SetDepositLimit changes the deposit cap. Only the vault owner may call
// this; a nil limit removes the cap.
func (s *VaultService) SetDepositLimit(ctx context.Context, caller common.Address, limit *uint256.Int) (*responses.VaultStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := s.vault.SetDepositLimit(caller, limit)
	s.ops.LogVaultOperation(constants.OpSetDepositLimit, caller.Hex(), err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	return s.stateResponse()
}

// SetEmergencyShutdown toggles the deposit freeze. Only the vault owner may
// call this.
func (s *VaultService) SetEmergencyShutdown(ctx context.Context, caller common.Address, active bool) (*responses.VaultStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	err := s.vault.SetEmergencyShutdown(caller, active)
	s.ops.LogVaultOperation(constants.OpSetShutdown, caller.Hex(), err == nil, time.Since(start))
	if err != nil {
		return nil, err
	}

	return s.stateResponse()
}

// GetState reports the full public state of the ledger.
func (s *VaultService) GetState(ctx context.Context) (*responses.VaultStateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateResponse()
}

// GetBalance reports a holder's share balance.
func (s *VaultService) GetBalance(ctx context.Context, holder common.Address) (*responses.BalanceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &responses.BalanceResponse{
		Object: "balance",
		Holder: holder.Hex(),
		Shares: s.vault.BalanceOf(holder).Dec(),
	}, nil
}

// GetAllowance reports the spender's remaining allowance.
func (s *VaultService) GetAllowance(ctx context.Context, owner, spender common.Address) (*responses.AllowanceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := s.approvalResponse(owner, spender)
	return &responses.AllowanceResponse{
		Object:    "allowance",
		Owner:     resp.Owner,
		Spender:   resp.Spender,
		Remaining: resp.Remaining,
		Unlimited: resp.Unlimited,
	}, nil
}

// GetPermitNonce reports the next expected permit nonce for a holder.
func (s *VaultService) GetPermitNonce(ctx context.Context, holder common.Address) (*responses.NonceResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return &responses.NonceResponse{
		Object: "permit_nonce",
		Holder: holder.Hex(),
		Nonce:  s.vault.PermitNonce(holder),
	}, nil
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

func (s *VaultService) approvalResponse(owner, spender common.Address) *responses.ApprovalResponse {
	remaining := s.vault.Allowance(owner, spender)
	return &responses.ApprovalResponse{
		Object:    "approval",
		Owner:     owner.Hex(),
		Spender:   spender.Hex(),
		Remaining: remaining.Dec(),
		Unlimited: remaining.Eq(vault.MaxUint256()),
	}
}

func (s *VaultService) stateResponse() (*responses.VaultStateResponse, error) {
	pps, err := s.vault.PricePerShare()
	if err != nil {
		s.logger.Error("Failed to compute price per share", zap.Error(err))
		return nil, err
	}

	return &responses.VaultStateResponse{
		Object:             "vault",
		Name:               s.vault.Name(),
		Symbol:             s.vault.Symbol(),
		Decimals:           s.vault.Decimals(),
		APIVersion:         vault.APIVersion,
		Address:            s.vault.Address().Hex(),
		Owner:              s.vault.Owner().Hex(),
		ChainID:            s.vault.ChainID().String(),
		TotalSupply:        s.vault.TotalSupply().Dec(),
		TotalAssets:        s.vault.TotalAssets().Dec(),
		TotalIdle:          s.vault.TotalIdle().Dec(),
		TotalDebt:          s.vault.TotalDebt().Dec(),
		PricePerShare:      pps.Dec(),
		DepositLimit:       s.vault.DepositLimit().Dec(),
		MaxAvailableShares: s.vault.MaxAvailableShares().Dec(),
		EmergencyShutdown:  s.vault.EmergencyShutdown(),
	}, nil
}
