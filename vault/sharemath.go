package vault

import "github.com/holiman/uint256"

var maxUint256 = new(uint256.Int).SetAllOne()

// MaxUint256 returns the largest representable amount. It doubles as the
// "everything available" argument to Deposit and Withdraw and as the
// unlimited allowance value.
func MaxUint256() *uint256.Int {
	return new(uint256.Int).SetAllOne()
}

func isUnlimited(v *uint256.Int) bool {
	return v.Eq(maxUint256)
}

func orZero(v *uint256.Int) *uint256.Int {
	if v == nil {
		return new(uint256.Int)
	}
	return v
}

// sharesForAmount prices an asset amount in shares at the current totals.
// Floor division rounds against the depositor. While the vault holds no
// shares or no assets, one asset unit buys one share.
func sharesForAmount(amount, totalSupply, totalAssets *uint256.Int) (*uint256.Int, error) {
	if totalSupply.IsZero() || totalAssets.IsZero() {
		return amount.Clone(), nil
	}
	shares, overflow := new(uint256.Int).MulDivOverflow(amount, totalSupply, totalAssets)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return shares, nil
}

// amountForShares prices shares in asset units at the current totals, again
// rounding down.
func amountForShares(shares, totalSupply, totalAssets *uint256.Int) (*uint256.Int, error) {
	if totalSupply.IsZero() {
		return new(uint256.Int), nil
	}
	amount, overflow := new(uint256.Int).MulDivOverflow(shares, totalAssets, totalSupply)
	if overflow {
		return nil, ErrArithmeticOverflow
	}
	return amount, nil
}
