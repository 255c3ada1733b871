package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// FakeToken is an in-memory stand-in for an ERC-20 asset contract. It
// enforces balances but not allowances; allowance failures are simulated
// through the injectable per-method errors instead.
type FakeToken struct {
	mu         sync.Mutex
	decimals   uint8
	balances   map[common.Address]*uint256.Int
	allowances map[common.Address]map[common.Address]*uint256.Int

	// Operator is the identity this handle acts as. Transfer debits its
	// balance and Approve grants from it, the way a bound contract client
	// acts as its transactor account.
	Operator common.Address

	// Failure injection, checked before any state change.
	BalanceOfErr    error
	TransferErr     error
	TransferFromErr error
	ApproveErr      error
	DecimalsErr     error
}

// NewFakeToken returns an empty token with the given decimal precision.
func NewFakeToken(decimals uint8) *FakeToken {
	return &FakeToken{
		decimals:   decimals,
		balances:   make(map[common.Address]*uint256.Int),
		allowances: make(map[common.Address]map[common.Address]*uint256.Int),
	}
}

// Mint credits amount to holder out of thin air.
func (t *FakeToken) Mint(holder common.Address, amount *uint256.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balances[holder] = new(uint256.Int).Add(t.balance(holder), amount)
}

// BalanceOf reports holder's balance.
func (t *FakeToken) BalanceOf(_ context.Context, holder common.Address) (*uint256.Int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.BalanceOfErr != nil {
		return nil, t.BalanceOfErr
	}
	return t.balance(holder).Clone(), nil
}

// Transfer moves amount from the operator's balance to recipient.
func (t *FakeToken) Transfer(_ context.Context, recipient common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.TransferErr != nil {
		return t.TransferErr
	}
	return t.move(t.Operator, recipient, amount)
}

// TransferFrom moves amount from sender to recipient.
func (t *FakeToken) TransferFrom(_ context.Context, sender, recipient common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.TransferFromErr != nil {
		return t.TransferFromErr
	}
	return t.move(sender, recipient, amount)
}

// Approve records a grant from the operator to spender.
func (t *FakeToken) Approve(_ context.Context, spender common.Address, amount *uint256.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ApproveErr != nil {
		return t.ApproveErr
	}
	row, ok := t.allowances[t.Operator]
	if !ok {
		row = make(map[common.Address]*uint256.Int)
		t.allowances[t.Operator] = row
	}
	row[spender] = amount.Clone()
	return nil
}

// Decimals reports the configured precision.
func (t *FakeToken) Decimals(_ context.Context) (uint8, error) {
	if t.DecimalsErr != nil {
		return 0, t.DecimalsErr
	}
	return t.decimals, nil
}

// Allowance reads back a grant recorded through Approve.
func (t *FakeToken) Allowance(owner, spender common.Address) *uint256.Int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if row, ok := t.allowances[owner]; ok {
		if grant, ok := row[spender]; ok {
			return grant.Clone()
		}
	}
	return new(uint256.Int)
}

func (t *FakeToken) balance(holder common.Address) *uint256.Int {
	if balance, ok := t.balances[holder]; ok {
		return balance
	}
	return new(uint256.Int)
}

func (t *FakeToken) move(from, to common.Address, amount *uint256.Int) error {
	balance := t.balance(from)
	if balance.Lt(amount) {
		return fmt.Errorf("transfer of %s exceeds balance %s", amount.Dec(), balance.Dec())
	}
	t.balances[from] = new(uint256.Int).Sub(balance, amount)
	t.balances[to] = new(uint256.Int).Add(t.balance(to), amount)
	return nil
}
