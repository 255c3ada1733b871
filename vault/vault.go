// Package vault implements a share-accounting ledger for an asset-pooling
// vault. Depositors hand the vault units of one underlying ERC-20 asset and
// receive shares priced at the moment of entry; shares redeem, transfer and
// delegate like any ERC-20 balance, including EIP-712 permits.
//
// A Vault is not safe for concurrent use. The hosting layer serializes every
// call, which is what the accounting invariants assume.
package vault

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// APIVersion is the accounting semantics version. It doubles as the EIP-712
// domain version, so bumping it invalidates outstanding permit signatures.
const APIVersion = "1.0.0"

const (
	// DefaultName and DefaultSymbol label the share token when the
	// deployment does not choose its own.
	DefaultName   = "Cyphera Vault"
	DefaultSymbol = "cyVLT"
)

// maxDecimals is the largest precision 10^decimals still fits in a uint256.
const maxDecimals = 77

var zeroAddress = common.Address{}

// Config carries everything a vault needs at construction.
type Config struct {
	// Name and Symbol label the share token. Defaults apply when empty.
	Name   string
	Symbol string

	// Address is the vault's own identity: the EIP-712 verifying contract,
	// the custody address for pulled assets and a banned share recipient.
	Address common.Address

	// Owner alone may change the deposit limit and toggle shutdown.
	Owner common.Address

	// ChainID scopes permit signatures to a single network.
	ChainID *big.Int

	// Token is the underlying asset.
	Token Token

	// DepositLimit caps total managed assets. Nil means unlimited.
	DepositLimit *uint256.Int

	// Recorder receives Transfer and Approval events. Nil discards them.
	Recorder EventRecorder

	// Now overrides the clock used for permit expiry. Nil means time.Now.
	Now func() time.Time
}

// Vault is the share ledger engine.
type Vault struct {
	name    string
	symbol  string
	address common.Address
	owner   common.Address
	chainID *big.Int
	token   Token

	// oneUnit is 10^decimals, the price of a share while the pool is 1:1.
	decimals uint8
	oneUnit  *uint256.Int

	shares     *shareLedger
	allowances *allowanceLedger
	nonces     map[common.Address]uint64

	totalIdle         *uint256.Int
	totalDebt         *uint256.Int
	depositLimit      *uint256.Int
	emergencyShutdown bool

	recorder EventRecorder
	now      func() time.Time
}

// New validates cfg, reads the asset's decimal precision and returns an
// empty vault ready for deposits.
func New(ctx context.Context, cfg Config) (*Vault, error) {
	if cfg.Token == nil {
		return nil, errors.New("vault: token is required")
	}
	if cfg.Address == zeroAddress {
		return nil, errors.New("vault: vault address is required")
	}
	if cfg.Owner == zeroAddress {
		return nil, errors.New("vault: owner address is required")
	}
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, errors.New("vault: positive chain id is required")
	}

	decimals, err := cfg.Token.Decimals(ctx)
	if err != nil {
		return nil, fmt.Errorf("vault: reading asset decimals: %w", err)
	}
	if decimals > maxDecimals {
		return nil, fmt.Errorf("vault: asset decimals %d exceed uint256 range", decimals)
	}

	name := cfg.Name
	if name == "" {
		name = DefaultName
	}
	symbol := cfg.Symbol
	if symbol == "" {
		symbol = DefaultSymbol
	}
	limit := MaxUint256()
	if cfg.DepositLimit != nil {
		limit = cfg.DepositLimit.Clone()
	}
	recorder := EventRecorder(NopRecorder{})
	if cfg.Recorder != nil {
		recorder = cfg.Recorder
	}
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}

	return &Vault{
		name:         name,
		symbol:       symbol,
		address:      cfg.Address,
		owner:        cfg.Owner,
		chainID:      new(big.Int).Set(cfg.ChainID),
		token:        cfg.Token,
		decimals:     decimals,
		oneUnit:      new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals))),
		shares:       newShareLedger(),
		allowances:   newAllowanceLedger(),
		nonces:       make(map[common.Address]uint64),
		totalIdle:    new(uint256.Int),
		totalDebt:    new(uint256.Int),
		depositLimit: limit,
		recorder:     recorder,
		now:          now,
	}, nil
}

// Deposit pulls amount of the underlying asset from sender and mints shares
// to recipient at the pre-deposit price. Passing nil or the max-uint256
// sentinel deposits sender's full asset balance, capped to the remaining
// deposit-limit headroom. Returns the shares minted.
func (v *Vault) Deposit(ctx context.Context, sender common.Address, amount *uint256.Int, recipient common.Address) (*uint256.Int, error) {
	if v.emergencyShutdown {
		return nil, ErrVaultShutdown
	}
	if recipient == zeroAddress || recipient == v.address {
		return nil, ErrInvalidRecipient
	}

	totalAssets := v.totalAssets()
	headroom := new(uint256.Int)
	if v.depositLimit.Gt(totalAssets) {
		headroom.Sub(v.depositLimit, totalAssets)
	}

	if amount == nil || isUnlimited(amount) {
		balance, err := v.token.BalanceOf(ctx, sender)
		if err != nil {
			return nil, fmt.Errorf("reading depositor balance: %w", err)
		}
		amount = balance
		if amount.Gt(headroom) {
			amount = headroom
		}
	} else {
		amount = amount.Clone()
		if amount.Gt(headroom) {
			return nil, ErrDepositLimitExceeded
		}
	}
	// zero after sentinel resolution means no capacity or no balance
	if amount.IsZero() {
		return nil, ErrDepositLimitExceeded
	}

	shares, err := sharesForAmount(amount, v.shares.totalSupply, totalAssets)
	if err != nil {
		return nil, err
	}
	if shares.IsZero() {
		return nil, ErrZeroShares
	}

	// all arithmetic is proven before the asset moves, so a successful pull
	// can only be followed by mutations that cannot fail
	if _, overflow := new(uint256.Int).AddOverflow(v.totalIdle, amount); overflow {
		return nil, ErrArithmeticOverflow
	}
	if _, overflow := new(uint256.Int).AddOverflow(v.shares.totalSupply, shares); overflow {
		return nil, ErrArithmeticOverflow
	}
	if _, overflow := new(uint256.Int).AddOverflow(v.shares.balanceOf(recipient), shares); overflow {
		return nil, ErrArithmeticOverflow
	}

	if err := v.token.TransferFrom(ctx, sender, v.address, amount); err != nil {
		return nil, fmt.Errorf("pulling deposit: %w", err)
	}
	if err := v.shares.mint(recipient, shares); err != nil {
		return nil, err
	}
	v.totalIdle.Add(v.totalIdle, amount)

	v.recorder.RecordTransfer(TransferEvent{From: zeroAddress, To: recipient, Shares: shares.Clone()})
	return shares, nil
}

// Withdraw burns maxShares from sender and pays the matching slice of vault
// assets out to recipient. Passing nil or the max-uint256 sentinel redeems
// sender's entire share balance. Withdrawals stay open during emergency
// shutdown. Returns the asset amount paid out.
func (v *Vault) Withdraw(ctx context.Context, sender common.Address, maxShares *uint256.Int, recipient common.Address) (*uint256.Int, error) {
	if recipient == zeroAddress || recipient == v.address {
		return nil, ErrInvalidRecipient
	}

	balance := v.shares.balanceOf(sender)
	var shares *uint256.Int
	if maxShares == nil || isUnlimited(maxShares) {
		shares = balance.Clone()
	} else {
		shares = maxShares.Clone()
		if balance.Lt(shares) {
			return nil, ErrInsufficientBalance
		}
	}

	amount, err := amountForShares(shares, v.shares.totalSupply, v.totalAssets())
	if err != nil {
		return nil, err
	}
	// assets routed to strategies sit in totalDebt and cannot back an
	// immediate exit
	if v.totalIdle.Lt(amount) {
		return nil, ErrInsufficientLiquidity
	}

	if err := v.shares.burn(sender, shares); err != nil {
		return nil, err
	}
	v.totalIdle.Sub(v.totalIdle, amount)

	if err := v.token.Transfer(ctx, recipient, amount); err != nil {
		// unwind the burn so a failed payout leaves the ledger untouched
		v.totalIdle.Add(v.totalIdle, amount)
		v.shares.restore(sender, shares)
		return nil, fmt.Errorf("paying out withdrawal: %w", err)
	}

	v.recorder.RecordTransfer(TransferEvent{From: sender, To: zeroAddress, Shares: shares.Clone()})
	return amount, nil
}

// Transfer moves shares from sender to another holder. The vault's own
// address and the zero address can never receive shares.
func (v *Vault) Transfer(sender, to common.Address, shares *uint256.Int) error {
	if err := v.checkRecipient(to); err != nil {
		return err
	}
	shares = orZero(shares)
	if err := v.shares.move(sender, to, shares); err != nil {
		return err
	}
	v.recorder.RecordTransfer(TransferEvent{From: sender, To: to, Shares: shares.Clone()})
	return nil
}

// TransferFrom moves shares out of from on the strength of an allowance
// granted to spender. The allowance gate is checked before the balance gate,
// and nothing mutates until both pass.
func (v *Vault) TransferFrom(spender, from, to common.Address, shares *uint256.Int) error {
	if err := v.checkRecipient(to); err != nil {
		return err
	}
	shares = orZero(shares)
	grant := v.allowances.allowance(from, spender)
	if !isUnlimited(grant) && grant.Lt(shares) {
		return ErrInsufficientAllowance
	}
	if v.shares.balanceOf(from).Lt(shares) {
		return ErrInsufficientBalance
	}
	if err := v.allowances.spend(from, spender, shares); err != nil {
		return err
	}
	if err := v.shares.move(from, to, shares); err != nil {
		return err
	}
	v.recorder.RecordTransfer(TransferEvent{From: from, To: to, Shares: shares.Clone()})
	return nil
}

// Approve overwrites spender's allowance over sender's shares. Approving the
// max-uint256 value grants an unlimited allowance that spends never reduce.
func (v *Vault) Approve(sender, spender common.Address, amount *uint256.Int) error {
	amount = orZero(amount)
	v.allowances.set(sender, spender, amount)
	v.recorder.RecordApproval(ApprovalEvent{Owner: sender, Spender: spender, Amount: amount.Clone()})
	return nil
}

// IncreaseAllowance raises spender's allowance by amount, failing on
// wraparound. Returns the resulting allowance.
func (v *Vault) IncreaseAllowance(sender, spender common.Address, amount *uint256.Int) (*uint256.Int, error) {
	next, err := v.allowances.increase(sender, spender, orZero(amount))
	if err != nil {
		return nil, err
	}
	v.recorder.RecordApproval(ApprovalEvent{Owner: sender, Spender: spender, Amount: next.Clone()})
	return next, nil
}

// DecreaseAllowance lowers spender's allowance by amount. Cutting below zero
// fails with ErrArithmeticUnderflow rather than clamping. Returns the
// resulting allowance.
func (v *Vault) DecreaseAllowance(sender, spender common.Address, amount *uint256.Int) (*uint256.Int, error) {
	next, err := v.allowances.decrease(sender, spender, orZero(amount))
	if err != nil {
		return nil, err
	}
	v.recorder.RecordApproval(ApprovalEvent{Owner: sender, Spender: spender, Amount: next.Clone()})
	return next, nil
}

// SetDepositLimit replaces the ceiling on total managed assets. Nil restores
// the unlimited default. Owner only.
func (v *Vault) SetDepositLimit(sender common.Address, limit *uint256.Int) error {
	if sender != v.owner {
		return ErrUnauthorized
	}
	if limit == nil {
		v.depositLimit = MaxUint256()
		return nil
	}
	v.depositLimit = limit.Clone()
	return nil
}

// SetEmergencyShutdown halts deposits while leaving every exit path open.
// Owner only.
func (v *Vault) SetEmergencyShutdown(sender common.Address, active bool) error {
	if sender != v.owner {
		return ErrUnauthorized
	}
	v.emergencyShutdown = active
	return nil
}

// BalanceOf reports holder's share balance.
func (v *Vault) BalanceOf(holder common.Address) *uint256.Int {
	return v.shares.balanceOf(holder).Clone()
}

// TotalSupply reports the outstanding share count.
func (v *Vault) TotalSupply() *uint256.Int {
	return v.shares.totalSupply.Clone()
}

// Allowance reports what spender may still move out of owner's balance.
func (v *Vault) Allowance(owner, spender common.Address) *uint256.Int {
	return v.allowances.allowance(owner, spender).Clone()
}

// PermitNonce reports the next permit nonce expected from holder.
func (v *Vault) PermitNonce(holder common.Address) uint64 {
	return v.nonces[holder]
}

// TotalAssets reports all assets the vault accounts for, idle plus deployed.
func (v *Vault) TotalAssets() *uint256.Int {
	return v.totalAssets()
}

// TotalIdle reports the assets sitting in the vault, available for
// withdrawal.
func (v *Vault) TotalIdle() *uint256.Int {
	return v.totalIdle.Clone()
}

// TotalDebt reports the assets deployed outside the vault's custody.
func (v *Vault) TotalDebt() *uint256.Int {
	return v.totalDebt.Clone()
}

// DepositLimit reports the current ceiling on total managed assets.
func (v *Vault) DepositLimit() *uint256.Int {
	return v.depositLimit.Clone()
}

// EmergencyShutdown reports whether deposits are halted.
func (v *Vault) EmergencyShutdown() bool {
	return v.emergencyShutdown
}

// PricePerShare reports the asset value of one whole share, scaled by the
// asset's decimals. An empty vault prices shares 1:1.
func (v *Vault) PricePerShare() (*uint256.Int, error) {
	totalAssets := v.totalAssets()
	if v.shares.totalSupply.IsZero() || totalAssets.IsZero() {
		return v.oneUnit.Clone(), nil
	}
	price, overflow := new(uint256.Int).MulDivOverflow(totalAssets, v.oneUnit, v.shares.totalSupply)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return price, nil
}

// MaxAvailableShares reports how many shares the idle assets can redeem in a
// single withdrawal right now.
func (v *Vault) MaxAvailableShares() *uint256.Int {
	shares, err := sharesForAmount(v.totalIdle, v.shares.totalSupply, v.totalAssets())
	if err != nil || shares.Gt(v.shares.totalSupply) {
		return v.shares.totalSupply.Clone()
	}
	return shares
}

// Name reports the share token name.
func (v *Vault) Name() string { return v.name }

// Symbol reports the share token symbol.
func (v *Vault) Symbol() string { return v.symbol }

// Decimals reports the share token precision, mirroring the underlying
// asset.
func (v *Vault) Decimals() uint8 { return v.decimals }

// Address reports the vault's own address.
func (v *Vault) Address() common.Address { return v.address }

// Owner reports the governance address.
func (v *Vault) Owner() common.Address { return v.owner }

// ChainID reports the network the vault's permits are scoped to.
func (v *Vault) ChainID() *big.Int {
	return new(big.Int).Set(v.chainID)
}

func (v *Vault) totalAssets() *uint256.Int {
	return new(uint256.Int).Add(v.totalIdle, v.totalDebt)
}

func (v *Vault) checkRecipient(to common.Address) error {
	if to == zeroAddress || to == v.address {
		return ErrInvalidRecipient
	}
	return nil
}
