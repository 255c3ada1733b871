package vault_test

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyphera/vault-ledger/testutil"
	"github.com/cyphera/vault-ledger/vault"
)

var (
	vaultAddr = common.HexToAddress("0x000000000000000000000000000000000000Fa11")
	govAddr   = common.HexToAddress("0x0000000000000000000000000000000000000001")
	alice     = common.HexToAddress("0x00000000000000000000000000000000000000A1")
	bob       = common.HexToAddress("0x00000000000000000000000000000000000000B2")
	carol     = common.HexToAddress("0x00000000000000000000000000000000000000C3")
)

func amt(n uint64) *uint256.Int { return uint256.NewInt(n) }

// newTestVault builds a six-decimal vault with the fake asset bound to the
// vault address, the way the RPC client binds to the custody account.
func newTestVault(t *testing.T, opts ...func(*vault.Config)) (*vault.Vault, *testutil.FakeToken) {
	t.Helper()
	token := testutil.NewFakeToken(6)
	token.Operator = vaultAddr
	cfg := vault.Config{
		Name:    "Test Vault",
		Symbol:  "tVLT",
		Address: vaultAddr,
		Owner:   govAddr,
		ChainID: big.NewInt(1337),
		Token:   token,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	v, err := vault.New(context.Background(), cfg)
	require.NoError(t, err)
	return v, token
}

func TestNew_Validation(t *testing.T) {
	ctx := context.Background()
	token := testutil.NewFakeToken(6)

	tests := []struct {
		name      string
		cfg       vault.Config
		errorText string
	}{
		{
			name:      "missing token",
			cfg:       vault.Config{Address: vaultAddr, Owner: govAddr, ChainID: big.NewInt(1)},
			errorText: "token is required",
		},
		{
			name:      "missing vault address",
			cfg:       vault.Config{Token: token, Owner: govAddr, ChainID: big.NewInt(1)},
			errorText: "vault address is required",
		},
		{
			name:      "missing owner",
			cfg:       vault.Config{Token: token, Address: vaultAddr, ChainID: big.NewInt(1)},
			errorText: "owner address is required",
		},
		{
			name:      "missing chain id",
			cfg:       vault.Config{Token: token, Address: vaultAddr, Owner: govAddr},
			errorText: "chain id is required",
		},
		{
			name:      "negative chain id",
			cfg:       vault.Config{Token: token, Address: vaultAddr, Owner: govAddr, ChainID: big.NewInt(-5)},
			errorText: "chain id is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := vault.New(ctx, tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorText)
		})
	}

	t.Run("decimals read failure", func(t *testing.T) {
		broken := testutil.NewFakeToken(6)
		broken.DecimalsErr = errors.New("rpc: connection refused")
		_, err := vault.New(ctx, vault.Config{Token: broken, Address: vaultAddr, Owner: govAddr, ChainID: big.NewInt(1)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading asset decimals")
	})

	t.Run("decimals beyond uint256 range", func(t *testing.T) {
		wide := testutil.NewFakeToken(78)
		_, err := vault.New(ctx, vault.Config{Token: wide, Address: vaultAddr, Owner: govAddr, ChainID: big.NewInt(1)})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decimals")
	})
}

func TestVault_Metadata(t *testing.T) {
	v, _ := newTestVault(t)

	assert.Equal(t, "Test Vault", v.Name())
	assert.Equal(t, "tVLT", v.Symbol())
	assert.Equal(t, uint8(6), v.Decimals())
	assert.Equal(t, vaultAddr, v.Address())
	assert.Equal(t, govAddr, v.Owner())
	assert.Equal(t, int64(1337), v.ChainID().Int64())
	assert.True(t, v.TotalSupply().IsZero())
	assert.True(t, v.TotalAssets().IsZero())

	defaulted, _ := newTestVault(t, func(cfg *vault.Config) {
		cfg.Name = ""
		cfg.Symbol = ""
	})
	assert.Equal(t, vault.DefaultName, defaulted.Name())
	assert.Equal(t, vault.DefaultSymbol, defaulted.Symbol())
}

func TestDeposit_MintsSharesAtEntryPrice(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(10_000))

	shares, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)
	assert.Equal(t, amt(1_000), shares)

	assert.Equal(t, amt(1_000), v.BalanceOf(alice))
	assert.Equal(t, amt(1_000), v.TotalSupply())
	assert.Equal(t, amt(1_000), v.TotalAssets())
	assert.Equal(t, amt(1_000), v.TotalIdle())
	assert.True(t, v.TotalDebt().IsZero())

	held, err := token.BalanceOf(ctx, vaultAddr)
	require.NoError(t, err)
	assert.Equal(t, amt(1_000), held)
	left, err := token.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, amt(9_000), left)

	price, err := v.PricePerShare()
	require.NoError(t, err)
	assert.Equal(t, amt(1_000_000), price)
}

func TestDeposit_CreditsChosenRecipient(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))

	shares, err := v.Deposit(ctx, alice, amt(400), bob)
	require.NoError(t, err)
	assert.Equal(t, amt(400), shares)
	assert.Equal(t, amt(400), v.BalanceOf(bob))
	assert.True(t, v.BalanceOf(alice).IsZero())
}

func TestDeposit_SentinelDepositsFullBalance(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(2_500))

	shares, err := v.Deposit(ctx, alice, vault.MaxUint256(), alice)
	require.NoError(t, err)
	assert.Equal(t, amt(2_500), shares)
	left, err := token.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.True(t, left.IsZero())

	// nil behaves like the sentinel
	token.Mint(alice, amt(300))
	shares, err = v.Deposit(ctx, alice, nil, alice)
	require.NoError(t, err)
	assert.Equal(t, amt(300), shares)
}

func TestDeposit_RefusesZeroAmounts(t *testing.T) {
	ctx := context.Background()
	v, _ := newTestVault(t)

	// broke depositor asking for everything
	_, err := v.Deposit(ctx, alice, vault.MaxUint256(), alice)
	assert.ErrorIs(t, err, vault.ErrDepositLimitExceeded)

	// explicit zero
	_, err = v.Deposit(ctx, alice, amt(0), alice)
	assert.ErrorIs(t, err, vault.ErrDepositLimitExceeded)
	assert.True(t, v.TotalSupply().IsZero())
}

func TestDeposit_RecipientBans(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))

	_, err := v.Deposit(ctx, alice, amt(100), common.Address{})
	assert.ErrorIs(t, err, vault.ErrInvalidRecipient)

	_, err = v.Deposit(ctx, alice, amt(100), vaultAddr)
	assert.ErrorIs(t, err, vault.ErrInvalidRecipient)

	assert.True(t, v.TotalSupply().IsZero())
}

func TestDeposit_EnforcesDepositLimit(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t, func(cfg *vault.Config) {
		cfg.DepositLimit = amt(1_000)
	})
	token.Mint(alice, amt(5_000))

	_, err := v.Deposit(ctx, alice, amt(1_001), alice)
	assert.ErrorIs(t, err, vault.ErrDepositLimitExceeded)

	_, err = v.Deposit(ctx, alice, amt(600), alice)
	require.NoError(t, err)

	_, err = v.Deposit(ctx, alice, amt(401), alice)
	assert.ErrorIs(t, err, vault.ErrDepositLimitExceeded)

	_, err = v.Deposit(ctx, alice, amt(400), alice)
	require.NoError(t, err)
	assert.Equal(t, amt(1_000), v.TotalAssets())

	_, err = v.Deposit(ctx, alice, amt(1), alice)
	assert.ErrorIs(t, err, vault.ErrDepositLimitExceeded)

	// the sentinel reports the limit rather than minting nothing
	_, err = v.Deposit(ctx, alice, vault.MaxUint256(), alice)
	assert.ErrorIs(t, err, vault.ErrDepositLimitExceeded)
}

func TestDeposit_SentinelCapsAtHeadroom(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t, func(cfg *vault.Config) {
		cfg.DepositLimit = amt(1_000)
	})
	token.Mint(alice, amt(5_000))

	shares, err := v.Deposit(ctx, alice, vault.MaxUint256(), alice)
	require.NoError(t, err)
	assert.Equal(t, amt(1_000), shares)

	left, err := token.BalanceOf(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, amt(4_000), left)
}

func TestDeposit_LoweredLimitLocksNewDeposits(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(2_000))

	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)

	require.NoError(t, v.SetDepositLimit(govAddr, amt(0)))

	_, err = v.Deposit(ctx, alice, amt(1), alice)
	assert.ErrorIs(t, err, vault.ErrDepositLimitExceeded)
	_, err = v.Deposit(ctx, alice, vault.MaxUint256(), alice)
	assert.ErrorIs(t, err, vault.ErrDepositLimitExceeded)

	// holdings above the lowered limit still leave in full
	out, err := v.Withdraw(ctx, alice, vault.MaxUint256(), alice)
	require.NoError(t, err)
	assert.Equal(t, amt(1_000), out)
}

func TestDeposit_PullFailureLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))
	token.TransferFromErr = errors.New("execution reverted")

	_, err := v.Deposit(ctx, alice, amt(500), alice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pulling deposit")

	assert.True(t, v.TotalSupply().IsZero())
	assert.True(t, v.TotalAssets().IsZero())
	balance, berr := token.BalanceOf(ctx, alice)
	require.NoError(t, berr)
	assert.Equal(t, amt(1_000), balance)
}

func TestDeposit_MoreThanHeld(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))

	// passes the limit gate, dies on the pull
	_, err := v.Deposit(ctx, alice, amt(1_001), alice)
	require.Error(t, err)
	assert.True(t, v.TotalSupply().IsZero())
	assert.True(t, v.TotalIdle().IsZero())
}

func TestWithdraw_FullExit(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))
	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)

	out, err := v.Withdraw(ctx, alice, vault.MaxUint256(), alice)
	require.NoError(t, err)
	assert.Equal(t, amt(1_000), out)

	assert.True(t, v.BalanceOf(alice).IsZero())
	assert.True(t, v.TotalSupply().IsZero())
	assert.True(t, v.TotalAssets().IsZero())
	balance, berr := token.BalanceOf(ctx, alice)
	require.NoError(t, berr)
	assert.Equal(t, amt(1_000), balance)
}

func TestWithdraw_PartialAndToRecipient(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))
	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)

	out, err := v.Withdraw(ctx, alice, amt(400), bob)
	require.NoError(t, err)
	assert.Equal(t, amt(400), out)

	assert.Equal(t, amt(600), v.BalanceOf(alice))
	assert.Equal(t, amt(600), v.TotalSupply())
	assert.Equal(t, amt(600), v.TotalIdle())
	bobBalance, berr := token.BalanceOf(ctx, bob)
	require.NoError(t, berr)
	assert.Equal(t, amt(400), bobBalance)
}

func TestWithdraw_MoreThanHeld(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))
	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)

	_, err = v.Withdraw(ctx, alice, amt(1_001), alice)
	assert.ErrorIs(t, err, vault.ErrInsufficientBalance)
	assert.Equal(t, amt(1_000), v.BalanceOf(alice))
}

func TestWithdraw_RecipientBans(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))
	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)

	_, err = v.Withdraw(ctx, alice, amt(100), common.Address{})
	assert.ErrorIs(t, err, vault.ErrInvalidRecipient)
	_, err = v.Withdraw(ctx, alice, amt(100), vaultAddr)
	assert.ErrorIs(t, err, vault.ErrInvalidRecipient)
}

func TestWithdraw_PushFailureUnwinds(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))
	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)

	token.TransferErr = errors.New("execution reverted")
	_, err = v.Withdraw(ctx, alice, amt(500), alice)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paying out withdrawal")

	assert.Equal(t, amt(1_000), v.BalanceOf(alice))
	assert.Equal(t, amt(1_000), v.TotalSupply())
	assert.Equal(t, amt(1_000), v.TotalIdle())
}

func TestEmergencyShutdown_BlocksEntryKeepsExit(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(2_000))
	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)

	assert.ErrorIs(t, v.SetEmergencyShutdown(alice, true), vault.ErrUnauthorized)
	require.NoError(t, v.SetEmergencyShutdown(govAddr, true))
	assert.True(t, v.EmergencyShutdown())

	_, err = v.Deposit(ctx, alice, amt(100), alice)
	assert.ErrorIs(t, err, vault.ErrVaultShutdown)

	out, err := v.Withdraw(ctx, alice, amt(400), alice)
	require.NoError(t, err)
	assert.Equal(t, amt(400), out)

	require.NoError(t, v.SetEmergencyShutdown(govAddr, false))
	_, err = v.Deposit(ctx, alice, amt(100), alice)
	require.NoError(t, err)
}

func TestTransfer_MovesShares(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))
	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)

	require.NoError(t, v.Transfer(alice, bob, amt(300)))
	assert.Equal(t, amt(700), v.BalanceOf(alice))
	assert.Equal(t, amt(300), v.BalanceOf(bob))
	assert.Equal(t, amt(1_000), v.TotalSupply())

	// whole balance moves too
	require.NoError(t, v.Transfer(bob, carol, amt(300)))
	assert.True(t, v.BalanceOf(bob).IsZero())
	assert.Equal(t, amt(300), v.BalanceOf(carol))
}

func TestTransfer_SelfTransferIsANoOp(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(500))
	_, err := v.Deposit(ctx, alice, amt(500), alice)
	require.NoError(t, err)

	require.NoError(t, v.Transfer(alice, alice, amt(500)))
	assert.Equal(t, amt(500), v.BalanceOf(alice))
	assert.Equal(t, amt(500), v.TotalSupply())
}

func TestTransfer_InsufficientBalance(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(100))
	_, err := v.Deposit(ctx, alice, amt(100), alice)
	require.NoError(t, err)

	assert.ErrorIs(t, v.Transfer(alice, bob, amt(101)), vault.ErrInsufficientBalance)
	assert.ErrorIs(t, v.Transfer(bob, alice, amt(1)), vault.ErrInsufficientBalance)
}

func TestTransfer_ReservedRecipients(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(100))
	_, err := v.Deposit(ctx, alice, amt(100), alice)
	require.NoError(t, err)

	assert.ErrorIs(t, v.Transfer(alice, vaultAddr, amt(10)), vault.ErrInvalidRecipient)
	assert.ErrorIs(t, v.Transfer(alice, common.Address{}, amt(10)), vault.ErrInvalidRecipient)
	assert.Equal(t, amt(100), v.BalanceOf(alice))
}

func TestApprove_OverwritesGrant(t *testing.T) {
	v, _ := newTestVault(t)

	require.NoError(t, v.Approve(alice, bob, amt(500)))
	assert.Equal(t, amt(500), v.Allowance(alice, bob))

	require.NoError(t, v.Approve(alice, bob, amt(200)))
	assert.Equal(t, amt(200), v.Allowance(alice, bob))

	require.NoError(t, v.Approve(alice, bob, amt(0)))
	assert.True(t, v.Allowance(alice, bob).IsZero())
}

func TestIncreaseDecreaseAllowance(t *testing.T) {
	v, _ := newTestVault(t)

	next, err := v.IncreaseAllowance(alice, bob, amt(300))
	require.NoError(t, err)
	assert.Equal(t, amt(300), next)

	next, err = v.IncreaseAllowance(alice, bob, amt(200))
	require.NoError(t, err)
	assert.Equal(t, amt(500), next)

	next, err = v.DecreaseAllowance(alice, bob, amt(500))
	require.NoError(t, err)
	assert.True(t, next.IsZero())

	// stale view: cutting below zero fails instead of clamping
	require.NoError(t, v.Approve(alice, bob, amt(100)))
	_, err = v.DecreaseAllowance(alice, bob, amt(101))
	assert.ErrorIs(t, err, vault.ErrArithmeticUnderflow)
	assert.Equal(t, amt(100), v.Allowance(alice, bob))
}

func TestIncreaseAllowance_Wraparound(t *testing.T) {
	v, _ := newTestVault(t)

	nearMax := new(uint256.Int).Sub(vault.MaxUint256(), amt(1))
	require.NoError(t, v.Approve(alice, bob, nearMax))

	_, err := v.IncreaseAllowance(alice, bob, amt(2))
	assert.ErrorIs(t, err, vault.ErrArithmeticOverflow)
	assert.Equal(t, nearMax, v.Allowance(alice, bob))
}

func TestTransferFrom_SpendsAllowance(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))
	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)

	require.NoError(t, v.Approve(alice, bob, amt(500)))
	require.NoError(t, v.TransferFrom(bob, alice, carol, amt(200)))

	assert.Equal(t, amt(300), v.Allowance(alice, bob))
	assert.Equal(t, amt(800), v.BalanceOf(alice))
	assert.Equal(t, amt(200), v.BalanceOf(carol))

	assert.ErrorIs(t, v.TransferFrom(bob, alice, carol, amt(301)), vault.ErrInsufficientAllowance)
}

func TestTransferFrom_UnlimitedAllowanceNeverShrinks(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))
	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)

	require.NoError(t, v.Approve(alice, bob, vault.MaxUint256()))
	require.NoError(t, v.TransferFrom(bob, alice, carol, amt(600)))

	assert.Equal(t, vault.MaxUint256(), v.Allowance(alice, bob))
	assert.Equal(t, amt(400), v.BalanceOf(alice))
}

func TestTransferFrom_AllowanceGateBeforeBalanceGate(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(100))
	_, err := v.Deposit(ctx, alice, amt(100), alice)
	require.NoError(t, err)

	// covered by allowance, not by balance
	require.NoError(t, v.Approve(alice, bob, amt(1_000)))
	assert.ErrorIs(t, v.TransferFrom(bob, alice, carol, amt(101)), vault.ErrInsufficientBalance)
	assert.Equal(t, amt(1_000), v.Allowance(alice, bob))

	// covered by neither: the allowance error wins
	require.NoError(t, v.Approve(alice, bob, amt(10)))
	assert.ErrorIs(t, v.TransferFrom(bob, alice, carol, amt(50)), vault.ErrInsufficientAllowance)
	assert.Equal(t, amt(100), v.BalanceOf(alice))
}

func TestTransferFrom_ReservedRecipients(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(100))
	_, err := v.Deposit(ctx, alice, amt(100), alice)
	require.NoError(t, err)
	require.NoError(t, v.Approve(alice, bob, vault.MaxUint256()))

	assert.ErrorIs(t, v.TransferFrom(bob, alice, vaultAddr, amt(10)), vault.ErrInvalidRecipient)
	assert.ErrorIs(t, v.TransferFrom(bob, alice, common.Address{}, amt(10)), vault.ErrInvalidRecipient)
}

func TestSetDepositLimit_OwnerOnly(t *testing.T) {
	v, _ := newTestVault(t)

	assert.ErrorIs(t, v.SetDepositLimit(alice, amt(10)), vault.ErrUnauthorized)
	assert.Equal(t, vault.MaxUint256(), v.DepositLimit())

	require.NoError(t, v.SetDepositLimit(govAddr, amt(10)))
	assert.Equal(t, amt(10), v.DepositLimit())

	require.NoError(t, v.SetDepositLimit(govAddr, nil))
	assert.Equal(t, vault.MaxUint256(), v.DepositLimit())
}

func TestPricePerShare_EmptyVault(t *testing.T) {
	v, _ := newTestVault(t)
	price, err := v.PricePerShare()
	require.NoError(t, err)
	assert.Equal(t, amt(1_000_000), price)
}

func TestMaxAvailableShares_AllIdle(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(750))
	_, err := v.Deposit(ctx, alice, amt(750), alice)
	require.NoError(t, err)

	assert.Equal(t, amt(750), v.MaxAvailableShares())
}

func TestEvents_EmittedOnlyOnSuccess(t *testing.T) {
	ctx := context.Background()
	recorder := &vault.MemoryRecorder{}
	v, token := newTestVault(t, func(cfg *vault.Config) {
		cfg.Recorder = recorder
	})
	token.Mint(alice, amt(1_000))

	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)
	require.Len(t, recorder.Transfers, 1)
	assert.Equal(t, common.Address{}, recorder.Transfers[0].From)
	assert.Equal(t, alice, recorder.Transfers[0].To)
	assert.Equal(t, amt(1_000), recorder.Transfers[0].Shares)

	require.NoError(t, v.Transfer(alice, bob, amt(250)))
	require.Len(t, recorder.Transfers, 2)
	assert.Equal(t, alice, recorder.Transfers[1].From)
	assert.Equal(t, bob, recorder.Transfers[1].To)

	_, err = v.Withdraw(ctx, bob, amt(250), bob)
	require.NoError(t, err)
	require.Len(t, recorder.Transfers, 3)
	assert.Equal(t, bob, recorder.Transfers[2].From)
	assert.Equal(t, common.Address{}, recorder.Transfers[2].To)

	require.NoError(t, v.Approve(alice, bob, amt(99)))
	require.Len(t, recorder.Approvals, 1)
	assert.Equal(t, amt(99), recorder.Approvals[0].Amount)

	// failures leave the streams untouched
	assert.Error(t, v.Transfer(alice, vaultAddr, amt(1)))
	_, err = v.Withdraw(ctx, alice, vault.MaxUint256(), common.Address{})
	assert.Error(t, err)
	assert.Len(t, recorder.Transfers, 3)
	assert.Len(t, recorder.Approvals, 1)
}

func TestReadsDoNotAliasLedgerState(t *testing.T) {
	ctx := context.Background()
	v, token := newTestVault(t)
	token.Mint(alice, amt(1_000))
	_, err := v.Deposit(ctx, alice, amt(1_000), alice)
	require.NoError(t, err)

	v.BalanceOf(alice).SetUint64(7)
	v.TotalSupply().SetUint64(7)
	v.TotalIdle().SetUint64(7)
	v.DepositLimit().SetUint64(7)

	assert.Equal(t, amt(1_000), v.BalanceOf(alice))
	assert.Equal(t, amt(1_000), v.TotalSupply())
	assert.Equal(t, amt(1_000), v.TotalIdle())
}
