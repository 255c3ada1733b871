package erc20

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/cyphera/vault-ledger/logger"
	"github.com/cyphera/vault-ledger/vault"
)

var _ vault.Token = (*Client)(nil)

// tokenABI is the fragment of the ERC-20 interface the ledger exercises.
const tokenABI = `[
	{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"constant":false,"inputs":[{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"sender","type":"address"},{"name":"recipient","type":"address"},{"name":"amount","type":"uint256"}],"name":"transferFrom","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"},
	{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"stateMutability":"nonpayable","type":"function"}
]`

// Backend is the slice of the Ethereum RPC surface the client needs. An
// *ethclient.Client satisfies it.
type Backend interface {
	CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// RetryConfig configures the retry behavior for read calls
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
}

// DefaultRetryConfig provides sensible defaults for retries
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		MaxElapsedTime:  20 * time.Second,
	}
}

// Config assembles a token client.
type Config struct {
	// TokenAddress is the deployed ERC-20 contract.
	TokenAddress common.Address

	// OperatorKey signs outgoing token transactions. Its derived address is
	// the account token payouts are drawn from, so it must match the custody
	// address the ledger was configured with.
	OperatorKey *ecdsa.PrivateKey

	// ChainID selects the transaction signer.
	ChainID *big.Int

	Backend Backend

	// Retry tunes read retries. Nil uses DefaultRetryConfig.
	Retry *RetryConfig

	// ReceiptTimeout bounds how long a write waits to be mined. Zero means
	// two minutes.
	ReceiptTimeout time.Duration

	// PollInterval is the receipt polling cadence. Zero means two seconds.
	PollInterval time.Duration
}

// Client talks to an ERC-20 contract over JSON-RPC. Reads retry with
// exponential backoff; writes are signed with the operator key and block
// until the transaction is mined.
type Client struct {
	token    common.Address
	operator common.Address
	key      *ecdsa.PrivateKey
	signer   types.Signer
	backend  Backend
	abi      abi.ABI
	retry    RetryConfig

	receiptTimeout time.Duration
	pollInterval   time.Duration
	logger         *zap.Logger

	// Nonces are assigned per transaction from pending state; writes are
	// serialized so concurrent callers cannot race the same nonce.
	txMu sync.Mutex
}

// New creates a token client from the config.
func New(cfg Config) (*Client, error) {
	if cfg.Backend == nil {
		return nil, errors.New("erc20: backend is required")
	}
	if cfg.OperatorKey == nil {
		return nil, errors.New("erc20: operator key is required")
	}
	if cfg.ChainID == nil || cfg.ChainID.Sign() <= 0 {
		return nil, errors.New("erc20: positive chain id is required")
	}
	zeroAddr := common.Address{}
	if cfg.TokenAddress == zeroAddr {
		return nil, errors.New("erc20: token address is required")
	}

	parsed, err := abi.JSON(strings.NewReader(tokenABI))
	if err != nil {
		return nil, errors.Wrap(err, "erc20: parsing token ABI")
	}

	retry := DefaultRetryConfig()
	if cfg.Retry != nil {
		retry = cfg.Retry
	}
	receiptTimeout := cfg.ReceiptTimeout
	if receiptTimeout == 0 {
		receiptTimeout = 2 * time.Minute
	}
	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = 2 * time.Second
	}

	return &Client{
		token:          cfg.TokenAddress,
		operator:       crypto.PubkeyToAddress(cfg.OperatorKey.PublicKey),
		key:            cfg.OperatorKey,
		signer:         types.LatestSignerForChainID(cfg.ChainID),
		backend:        cfg.Backend,
		abi:            parsed,
		retry:          *retry,
		receiptTimeout: receiptTimeout,
		pollInterval:   pollInterval,
		logger:         logger.Log,
	}, nil
}

// Operator returns the address token transactions are signed with.
func (c *Client) Operator() common.Address {
	return c.operator
}

// BalanceOf reads a holder's token balance.
func (c *Client) BalanceOf(ctx context.Context, holder common.Address) (*uint256.Int, error) {
	out, err := c.call(ctx, "balanceOf", holder)
	if err != nil {
		return nil, err
	}
	raw, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("erc20: unexpected balanceOf output type %T", out[0])
	}
	balance, overflow := uint256.FromBig(raw)
	if overflow {
		return nil, errors.New("erc20: balance exceeds uint256")
	}
	return balance, nil
}

// Decimals reads the token's decimal places.
func (c *Client) Decimals(ctx context.Context) (uint8, error) {
	out, err := c.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	decimals, ok := out[0].(uint8)
	if !ok {
		return 0, errors.Errorf("erc20: unexpected decimals output type %T", out[0])
	}
	return decimals, nil
}

// Transfer sends tokens from the operator account to the recipient.
func (c *Client) Transfer(ctx context.Context, recipient common.Address, amount *uint256.Int) error {
	return c.transact(ctx, "transfer", recipient, amount.ToBig())
}

// TransferFrom pulls tokens the sender approved to the operator account.
func (c *Client) TransferFrom(ctx context.Context, sender, recipient common.Address, amount *uint256.Int) error {
	return c.transact(ctx, "transferFrom", sender, recipient, amount.ToBig())
}

// Approve sets the spender's allowance over the operator's tokens.
func (c *Client) Approve(ctx context.Context, spender common.Address, amount *uint256.Int) error {
	return c.transact(ctx, "approve", spender, amount.ToBig())
}

// call performs a read with retries and unpacks the result.
func (c *Client) call(ctx context.Context, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "erc20: packing %s call", method)
	}

	msg := ethereum.CallMsg{To: &c.token, Data: data}

	var raw []byte
	operation := func() error {
		var callErr error
		raw, callErr = c.backend.CallContract(ctx, msg, nil)
		return callErr
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = c.retry.InitialInterval
	expBackoff.MaxInterval = c.retry.MaxInterval
	expBackoff.Multiplier = c.retry.Multiplier
	expBackoff.MaxElapsedTime = c.retry.MaxElapsedTime

	err = backoff.Retry(operation, backoff.WithContext(
		backoff.WithMaxRetries(expBackoff, uint64(c.retry.MaxRetries)), ctx))
	if err != nil {
		c.logger.Error("Token read failed after retries",
			zap.String("method", method),
			zap.String("token", c.token.Hex()),
			zap.Error(err),
		)
		return nil, errors.Wrapf(err, "erc20: calling %s", method)
	}

	out, err := c.abi.Unpack(method, raw)
	if err != nil {
		return nil, errors.Wrapf(err, "erc20: unpacking %s result", method)
	}
	if len(out) == 0 {
		return nil, errors.Errorf("erc20: %s returned no values", method)
	}
	return out, nil
}

// transact signs and submits a state-changing call, then waits for the
// receipt. A reverted transaction surfaces as an error so the ledger can
// unwind the operation that triggered it.
func (c *Client) transact(ctx context.Context, method string, args ...interface{}) error {
	c.txMu.Lock()
	defer c.txMu.Unlock()

	data, err := c.abi.Pack(method, args...)
	if err != nil {
		return errors.Wrapf(err, "erc20: packing %s transaction", method)
	}

	nonce, err := c.backend.PendingNonceAt(ctx, c.operator)
	if err != nil {
		return errors.Wrap(err, "erc20: reading operator nonce")
	}

	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return errors.Wrap(err, "erc20: suggesting gas price")
	}

	gasLimit, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From: c.operator,
		To:   &c.token,
		Data: data,
	})
	if err != nil {
		return errors.Wrapf(err, "erc20: estimating gas for %s", method)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.token,
		Gas:      gasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := types.SignTx(tx, c.signer, c.key)
	if err != nil {
		return errors.Wrapf(err, "erc20: signing %s transaction", method)
	}

	if err := c.backend.SendTransaction(ctx, signed); err != nil {
		return errors.Wrapf(err, "erc20: sending %s transaction", method)
	}

	c.logger.Debug("Token transaction submitted",
		zap.String("method", method),
		zap.String("tx_hash", signed.Hash().Hex()),
		zap.Uint64("nonce", nonce),
	)

	receipt, err := c.waitMined(ctx, signed.Hash())
	if err != nil {
		return errors.Wrapf(err, "erc20: waiting for %s receipt", method)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		c.logger.Error("Token transaction reverted",
			zap.String("method", method),
			zap.String("tx_hash", signed.Hash().Hex()),
		)
		return errors.Errorf("erc20: %s transaction %s reverted", method, signed.Hash().Hex())
	}

	return nil
}

// waitMined polls for the transaction receipt until it lands or the timeout
// elapses.
func (c *Client) waitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, c.receiptTimeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, txHash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if err != nil && !errors.Is(err, ethereum.NotFound) {
			c.logger.Debug("Receipt not available yet",
				zap.String("tx_hash", txHash.Hex()),
				zap.Error(err),
			)
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrapf(ctx.Err(), "transaction %s not mined", txHash.Hex())
		case <-ticker.C:
		}
	}
}
