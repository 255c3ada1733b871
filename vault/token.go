package vault

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// Token is the slice of the underlying asset contract the vault depends on.
// Implementations translate the ERC-20 false-return convention into errors;
// a nil error means the movement happened in full.
//
// client/erc20 provides the RPC-backed implementation, testutil.FakeToken the
// in-memory one.
type Token interface {
	// BalanceOf reports holder's asset balance.
	BalanceOf(ctx context.Context, holder common.Address) (*uint256.Int, error)

	// Transfer moves amount from the vault's own holdings to recipient.
	Transfer(ctx context.Context, recipient common.Address, amount *uint256.Int) error

	// TransferFrom moves amount between third parties using an allowance
	// previously granted to the vault.
	TransferFrom(ctx context.Context, sender, recipient common.Address, amount *uint256.Int) error

	// Approve grants spender the right to move amount of the vault's assets.
	Approve(ctx context.Context, spender common.Address, amount *uint256.Int) error

	// Decimals reports the token's decimal precision.
	Decimals(ctx context.Context) (uint8, error)
}
