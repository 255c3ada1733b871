package vault

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// allowanceLedger owns (owner, spender) spending grants. The max-uint256
// value is the unlimited sentinel and is never drawn down by spends.
type allowanceLedger struct {
	grants map[common.Address]map[common.Address]*uint256.Int
}

func newAllowanceLedger() *allowanceLedger {
	return &allowanceLedger{
		grants: make(map[common.Address]map[common.Address]*uint256.Int),
	}
}

// allowance reads the current grant. Callers must not mutate the result.
func (l *allowanceLedger) allowance(owner, spender common.Address) *uint256.Int {
	if row, ok := l.grants[owner]; ok {
		if grant, ok := row[spender]; ok {
			return grant
		}
	}
	return new(uint256.Int)
}

// set overwrites the grant unconditionally, ERC-20 approve semantics.
func (l *allowanceLedger) set(owner, spender common.Address, amount *uint256.Int) {
	row, ok := l.grants[owner]
	if !ok {
		row = make(map[common.Address]*uint256.Int)
		l.grants[owner] = row
	}
	row[spender] = amount.Clone()
}

// increase raises the grant, failing on wraparound.
func (l *allowanceLedger) increase(owner, spender common.Address, amount *uint256.Int) (*uint256.Int, error) {
	next, overflow := new(uint256.Int).AddOverflow(l.allowance(owner, spender), amount)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	l.set(owner, spender, next)
	return next, nil
}

// decrease lowers the grant. Cutting below zero fails rather than clamping,
// so callers learn their view of the allowance was stale.
func (l *allowanceLedger) decrease(owner, spender common.Address, amount *uint256.Int) (*uint256.Int, error) {
	current := l.allowance(owner, spender)
	if current.Lt(amount) {
		return nil, ErrArithmeticUnderflow
	}
	next := new(uint256.Int).Sub(current, amount)
	l.set(owner, spender, next)
	return next, nil
}

// spend draws down owner's grant toward spender. The unlimited sentinel
// stays untouched no matter how much is spent through it.
func (l *allowanceLedger) spend(owner, spender common.Address, amount *uint256.Int) error {
	current := l.allowance(owner, spender)
	if isUnlimited(current) {
		return nil
	}
	if current.Lt(amount) {
		return ErrInsufficientAllowance
	}
	l.set(owner, spender, new(uint256.Int).Sub(current, amount))
	return nil
}
