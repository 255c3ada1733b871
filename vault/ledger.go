package vault

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// shareLedger owns per-holder share balances and the supply counter. Every
// mutation keeps sum(balances) == totalSupply.
type shareLedger struct {
	balances    map[common.Address]*uint256.Int
	totalSupply *uint256.Int
}

func newShareLedger() *shareLedger {
	return &shareLedger{
		balances:    make(map[common.Address]*uint256.Int),
		totalSupply: new(uint256.Int),
	}
}

// balanceOf reads holder's balance. Callers must not mutate the result.
func (l *shareLedger) balanceOf(holder common.Address) *uint256.Int {
	if balance, ok := l.balances[holder]; ok {
		return balance
	}
	return new(uint256.Int)
}

// mint credits freshly issued shares to holder. Zero-share mints are refused
// so a rounding artifact can never create a phantom holder.
func (l *shareLedger) mint(holder common.Address, shares *uint256.Int) error {
	if shares.IsZero() {
		return ErrZeroShares
	}
	supply, overflow := new(uint256.Int).AddOverflow(l.totalSupply, shares)
	if overflow {
		return ErrArithmeticOverflow
	}
	balance, overflow := new(uint256.Int).AddOverflow(l.balanceOf(holder), shares)
	if overflow {
		return ErrArithmeticOverflow
	}
	l.totalSupply = supply
	l.balances[holder] = balance
	return nil
}

// burn destroys shares held by holder.
func (l *shareLedger) burn(holder common.Address, shares *uint256.Int) error {
	balance := l.balanceOf(holder)
	if balance.Lt(shares) {
		return ErrInsufficientBalance
	}
	l.balances[holder] = new(uint256.Int).Sub(balance, shares)
	l.totalSupply = new(uint256.Int).Sub(l.totalSupply, shares)
	return nil
}

// restore is the inverse of burn, used to unwind a burn whose follow-up
// asset payout failed. It reinstates previously held values and cannot fail.
func (l *shareLedger) restore(holder common.Address, shares *uint256.Int) {
	l.balances[holder] = new(uint256.Int).Add(l.balanceOf(holder), shares)
	l.totalSupply = new(uint256.Int).Add(l.totalSupply, shares)
}

// move re-assigns shares between holders. Self-transfers are valid whenever
// the balance covers the amount.
func (l *shareLedger) move(from, to common.Address, shares *uint256.Int) error {
	balance := l.balanceOf(from)
	if balance.Lt(shares) {
		return ErrInsufficientBalance
	}
	l.balances[from] = new(uint256.Int).Sub(balance, shares)
	credit, overflow := new(uint256.Int).AddOverflow(l.balanceOf(to), shares)
	if overflow {
		// put the debit back so a failed move changes nothing
		l.balances[from] = balance
		return ErrArithmeticOverflow
	}
	l.balances[to] = credit
	return nil
}
