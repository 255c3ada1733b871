package erc20_test

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyphera/vault-ledger/client/erc20"
	"github.com/cyphera/vault-ledger/logger"
)

func init() {
	logger.InitLogger("test")
}

var tokenAddr = common.HexToAddress("0x00000000000000000000000000000000000070C1")

// Canonical ERC-20 method selectors.
const (
	selBalanceOf    = "70a08231"
	selDecimals     = "313ce567"
	selTransfer     = "a9059cbb"
	selTransferFrom = "23b872dd"
	selApprove      = "095ea7b3"
)

// fakeBackend scripts the RPC surface the client talks to.
type fakeBackend struct {
	mu            sync.Mutex
	balances      map[common.Address]*big.Int
	decimals      uint8
	failCalls     int
	callCount     int
	nonce         uint64
	sent          []*types.Transaction
	receiptStatus uint64
	receiptPolls  int
	polled        int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		balances:      make(map[common.Address]*big.Int),
		decimals:      6,
		receiptStatus: types.ReceiptStatusSuccessful,
	}
}

func (b *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.callCount++
	if b.failCalls > 0 {
		b.failCalls--
		return nil, fmt.Errorf("connection reset")
	}

	switch hex.EncodeToString(msg.Data[:4]) {
	case selBalanceOf:
		holder := common.BytesToAddress(msg.Data[16:36])
		balance := b.balances[holder]
		if balance == nil {
			balance = big.NewInt(0)
		}
		return common.LeftPadBytes(balance.Bytes(), 32), nil
	case selDecimals:
		return common.LeftPadBytes([]byte{b.decimals}, 32), nil
	}
	return nil, fmt.Errorf("unexpected call selector %x", msg.Data[:4])
}

func (b *fakeBackend) PendingNonceAt(_ context.Context, _ common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonce, nil
}

func (b *fakeBackend) SuggestGasPrice(_ context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *fakeBackend) EstimateGas(_ context.Context, _ ethereum.CallMsg) (uint64, error) {
	return 60_000, nil
}

func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	b.nonce++
	return nil
}

func (b *fakeBackend) TransactionReceipt(_ context.Context, txHash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.polled < b.receiptPolls {
		b.polled++
		return nil, ethereum.NotFound
	}
	for _, tx := range b.sent {
		if tx.Hash() == txHash {
			return &types.Receipt{Status: b.receiptStatus, TxHash: txHash}, nil
		}
	}
	return nil, ethereum.NotFound
}

func (b *fakeBackend) lastSent(t *testing.T) *types.Transaction {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	require.NotEmpty(t, b.sent, "no transaction was sent")
	return b.sent[len(b.sent)-1]
}

func fastRetry() *erc20.RetryConfig {
	return &erc20.RetryConfig{
		MaxRetries:      3,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
		MaxElapsedTime:  time.Second,
	}
}

func newTestClient(t *testing.T, backend *fakeBackend) (*erc20.Client, *ecdsa.PrivateKey) {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	client, err := erc20.New(erc20.Config{
		TokenAddress:   tokenAddr,
		OperatorKey:    key,
		ChainID:        big.NewInt(1337),
		Backend:        backend,
		Retry:          fastRetry(),
		ReceiptTimeout: time.Second,
		PollInterval:   time.Millisecond,
	})
	require.NoError(t, err)
	return client, key
}

func TestNew_Validation(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	backend := newFakeBackend()

	tests := []struct {
		name      string
		cfg       erc20.Config
		errorText string
	}{
		{
			name:      "missing backend",
			cfg:       erc20.Config{TokenAddress: tokenAddr, OperatorKey: key, ChainID: big.NewInt(1)},
			errorText: "backend is required",
		},
		{
			name:      "missing operator key",
			cfg:       erc20.Config{TokenAddress: tokenAddr, Backend: backend, ChainID: big.NewInt(1)},
			errorText: "operator key is required",
		},
		{
			name:      "missing chain id",
			cfg:       erc20.Config{TokenAddress: tokenAddr, OperatorKey: key, Backend: backend},
			errorText: "chain id is required",
		},
		{
			name:      "missing token address",
			cfg:       erc20.Config{OperatorKey: key, Backend: backend, ChainID: big.NewInt(1)},
			errorText: "token address is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := erc20.New(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorText)
		})
	}
}

func TestClient_BalanceOf(t *testing.T) {
	ctx := context.Background()
	holder := common.HexToAddress("0x00000000000000000000000000000000000000A1")

	t.Run("reads balance", func(t *testing.T) {
		backend := newFakeBackend()
		backend.balances[holder] = big.NewInt(1_500_000)
		client, _ := newTestClient(t, backend)

		balance, err := client.BalanceOf(ctx, holder)

		require.NoError(t, err)
		assert.Equal(t, uint256.NewInt(1_500_000), balance)
	})

	t.Run("zero for unknown holder", func(t *testing.T) {
		backend := newFakeBackend()
		client, _ := newTestClient(t, backend)

		balance, err := client.BalanceOf(ctx, holder)

		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("recovers from transient failures", func(t *testing.T) {
		backend := newFakeBackend()
		backend.balances[holder] = big.NewInt(42)
		backend.failCalls = 2
		client, _ := newTestClient(t, backend)

		balance, err := client.BalanceOf(ctx, holder)

		require.NoError(t, err)
		assert.Equal(t, uint256.NewInt(42), balance)
		assert.Equal(t, 3, backend.callCount)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		backend := newFakeBackend()
		backend.failCalls = 10
		client, _ := newTestClient(t, backend)

		_, err := client.BalanceOf(ctx, holder)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "calling balanceOf")
	})
}

func TestClient_Decimals(t *testing.T) {
	backend := newFakeBackend()
	backend.decimals = 18
	client, _ := newTestClient(t, backend)

	decimals, err := client.Decimals(context.Background())

	require.NoError(t, err)
	assert.Equal(t, uint8(18), decimals)
}

func TestClient_Transfer(t *testing.T) {
	ctx := context.Background()
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000B2")

	t.Run("signs and submits", func(t *testing.T) {
		backend := newFakeBackend()
		client, key := newTestClient(t, backend)

		err := client.Transfer(ctx, recipient, uint256.NewInt(250_000))
		require.NoError(t, err)

		tx := backend.lastSent(t)
		data := tx.Data()
		assert.Equal(t, selTransfer, hex.EncodeToString(data[:4]))
		assert.Equal(t, recipient, common.BytesToAddress(data[16:36]))
		assert.Equal(t, big.NewInt(250_000), new(big.Int).SetBytes(data[36:68]))
		assert.Equal(t, tokenAddr, *tx.To())

		sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(1337)), tx)
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), sender)
		assert.Equal(t, client.Operator(), sender)
	})

	t.Run("waits out receipt lag", func(t *testing.T) {
		backend := newFakeBackend()
		backend.receiptPolls = 3
		client, _ := newTestClient(t, backend)

		err := client.Transfer(ctx, recipient, uint256.NewInt(1))
		assert.NoError(t, err)
	})

	t.Run("reverted transaction surfaces as error", func(t *testing.T) {
		backend := newFakeBackend()
		backend.receiptStatus = types.ReceiptStatusFailed
		client, _ := newTestClient(t, backend)

		err := client.Transfer(ctx, recipient, uint256.NewInt(1))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reverted")
	})
}

func TestClient_TransferFrom(t *testing.T) {
	ctx := context.Background()
	sender := common.HexToAddress("0x00000000000000000000000000000000000000A1")
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000B2")

	backend := newFakeBackend()
	client, _ := newTestClient(t, backend)

	err := client.TransferFrom(ctx, sender, recipient, uint256.NewInt(777))
	require.NoError(t, err)

	data := backend.lastSent(t).Data()
	assert.Equal(t, selTransferFrom, hex.EncodeToString(data[:4]))
	assert.Equal(t, sender, common.BytesToAddress(data[16:36]))
	assert.Equal(t, recipient, common.BytesToAddress(data[48:68]))
	assert.Equal(t, big.NewInt(777), new(big.Int).SetBytes(data[68:100]))
}

func TestClient_Approve(t *testing.T) {
	ctx := context.Background()
	spender := common.HexToAddress("0x00000000000000000000000000000000000000C3")

	backend := newFakeBackend()
	client, _ := newTestClient(t, backend)

	err := client.Approve(ctx, spender, uint256.NewInt(9_000))
	require.NoError(t, err)

	data := backend.lastSent(t).Data()
	assert.Equal(t, selApprove, hex.EncodeToString(data[:4]))
	assert.Equal(t, spender, common.BytesToAddress(data[16:36]))
	assert.Equal(t, big.NewInt(9_000), new(big.Int).SetBytes(data[36:68]))
}

func TestClient_SequentialNonces(t *testing.T) {
	ctx := context.Background()
	recipient := common.HexToAddress("0x00000000000000000000000000000000000000B2")

	backend := newFakeBackend()
	client, _ := newTestClient(t, backend)

	require.NoError(t, client.Transfer(ctx, recipient, uint256.NewInt(1)))
	require.NoError(t, client.Transfer(ctx, recipient, uint256.NewInt(2)))
	require.NoError(t, client.Transfer(ctx, recipient, uint256.NewInt(3)))

	require.Len(t, backend.sent, 3)
	for i, tx := range backend.sent {
		assert.Equal(t, uint64(i), tx.Nonce())
	}
}
