// Package ledger talks to the EVM nodes hosting the pool contracts.
package ledger

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"

	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
)

// Client is the read access the decoding core needs.
type Client interface {
	Call(ctx context.Context, contract *abi.ABI, address common.Address, method string, args ...any) ([]any, error)
	FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// ReceiptReader looks up mined transactions.
type ReceiptReader interface {
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// TxSender is what signing and broadcasting needs from a node.
type TxSender interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
}

// RPCClient spreads calls over one or more ethclient endpoints with
// round-robin failover.
type RPCClient struct {
	clients []*ethclient.Client
	urls    []string
	index   uint64
	mu      sync.RWMutex
	logger  zerolog.Logger
}

var (
	_ Client        = (*RPCClient)(nil)
	_ ReceiptReader = (*RPCClient)(nil)
	_ TxSender      = (*RPCClient)(nil)
)

// NewRPCClient dials every URL and keeps the endpoints whose chain ID matches
// expectedChainID. A zero expectedChainID accepts any chain. The whole dial is
// retried up to dialRetries times while no endpoint is reachable.
func NewRPCClient(ctx context.Context, rpcURLs []string, expectedChainID int64, dialRetries int, logger zerolog.Logger) (*RPCClient, error) {
	if len(rpcURLs) == 0 {
		return nil, ledgererrors.NewConfigError("no web3 URLs provided")
	}

	log := logger.With().Str("component", "ledger_rpc_client").Logger()
	rc := &RPCClient{logger: log}

	backoff := ledgererrors.DialBackoff
	if dialRetries > 0 {
		backoff.Attempts = dialRetries
	}

	err := ledgererrors.Retry(ctx, backoff, func(attempt int) error {
		clients, urls := dialAll(ctx, rpcURLs, expectedChainID, log)
		if len(clients) == 0 {
			log.Warn().Int("attempt", attempt).Int("max_attempts", backoff.Attempts).Msg("no web3 endpoint reachable")
			return ledgererrors.NewRPCError("", "failed to connect to any valid web3 endpoint", nil)
		}
		rc.clients, rc.urls = clients, urls
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func dialAll(ctx context.Context, rpcURLs []string, expectedChainID int64, log zerolog.Logger) ([]*ethclient.Client, []string) {
	dialCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	clients := make([]*ethclient.Client, 0, len(rpcURLs))
	urls := make([]string, 0, len(rpcURLs))
	for _, url := range rpcURLs {
		client, err := ethclient.DialContext(dialCtx, url)
		if err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to connect to web3 endpoint, skipping")
			continue
		}

		chainID, err := client.ChainID(dialCtx)
		if err != nil {
			client.Close()
			log.Warn().Err(err).Str("url", url).Msg("web3 endpoint did not answer eth_chainId, skipping")
			continue
		}

		if expectedChainID != 0 && chainID.Int64() != expectedChainID {
			client.Close()
			log.Warn().
				Str("url", url).
				Int64("expected_chain_id", expectedChainID).
				Int64("actual_chain_id", chainID.Int64()).
				Msg("chain ID mismatch, closing client")
			continue
		}

		clients = append(clients, client)
		urls = append(urls, url)
		log.Info().Str("url", url).Int64("chain_id", chainID.Int64()).Msg("connected to web3 endpoint")
	}
	return clients, urls
}

// Endpoints returns the URLs of the connected nodes.
func (rc *RPCClient) Endpoints() []string {
	rc.mu.RLock()
	defer rc.mu.RUnlock()
	return append([]string(nil), rc.urls...)
}

// executeWithFailover executes a function with round-robin failover
func (rc *RPCClient) executeWithFailover(ctx context.Context, operation string, fn func(*ethclient.Client) error) error {
	rc.mu.RLock()
	clients := rc.clients
	rc.mu.RUnlock()

	if len(clients) == 0 {
		return ledgererrors.NewRPCError("", fmt.Sprintf("no web3 clients available for %s", operation), nil)
	}

	start := time.Now()
	var lastErr error
	maxAttempts := len(clients)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			observe(operation, start, ctx.Err())
			return ctx.Err()
		default:
		}

		index := atomic.AddUint64(&rc.index, 1) - 1
		client := clients[index%uint64(len(clients))]

		err := fn(client)
		if err == nil {
			observe(operation, start, nil)
			return nil
		}
		lastErr = err

		rc.logger.Warn().
			Str("operation", operation).
			Int("attempt", attempt+1).
			Err(err).
			Msg("operation failed, trying next endpoint")
	}

	observe(operation, start, lastErr)
	return fmt.Errorf("operation %s failed after trying %d endpoints: %w", operation, maxAttempts, lastErr)
}

// Call packs method with args, runs it as eth_call against address and
// unpacks the outputs. An empty result means there is no contract code
// answering at address.
func (rc *RPCClient) Call(ctx context.Context, contract *abi.ABI, address common.Address, method string, args ...any) ([]any, error) {
	input, err := contract.Pack(method, args...)
	if err != nil {
		return nil, ledgererrors.NewInternalError(fmt.Sprintf("failed to pack %s", method), err)
	}

	var output []byte
	msg := ethereum.CallMsg{To: &address, Data: input}
	err = rc.executeWithFailover(ctx, "call_"+method, func(client *ethclient.Client) error {
		var innerErr error
		output, innerErr = client.CallContract(ctx, msg, nil)
		return innerErr
	})
	if err != nil {
		return nil, ledgererrors.NewRPCError(address.Hex(), fmt.Sprintf("call %s failed", method), err)
	}
	if len(output) == 0 {
		return nil, ledgererrors.NewLedgerError(ledgererrors.ErrCodeInvalidContractAddress, address.Hex(),
			fmt.Sprintf("%s returned no data", method), nil)
	}

	values, err := contract.Unpack(method, output)
	if err != nil {
		return nil, ledgererrors.NewDecodeError(fmt.Sprintf("failed to unpack %s", method), err)
	}
	return values, nil
}

// FilterLogs fetches logs matching the filter query
func (rc *RPCClient) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error) {
	var logs []types.Log
	err := rc.executeWithFailover(ctx, "filter_logs", func(client *ethclient.Client) error {
		var innerErr error
		logs, innerErr = client.FilterLogs(ctx, query)
		return innerErr
	})
	if err != nil {
		return nil, ledgererrors.NewRPCError("", "eth_getLogs failed", err)
	}
	return logs, nil
}

// BlockNumber returns the latest block number
func (rc *RPCClient) BlockNumber(ctx context.Context) (uint64, error) {
	var blockNum uint64
	err := rc.executeWithFailover(ctx, "get_block_number", func(client *ethclient.Client) error {
		var innerErr error
		blockNum, innerErr = client.BlockNumber(ctx)
		return innerErr
	})
	return blockNum, err
}

// ChainID returns the chain ID reported by the nodes.
func (rc *RPCClient) ChainID(ctx context.Context) (*big.Int, error) {
	var id *big.Int
	err := rc.executeWithFailover(ctx, "get_chain_id", func(client *ethclient.Client) error {
		var innerErr error
		id, innerErr = client.ChainID(ctx)
		return innerErr
	})
	return id, err
}

// PendingNonceAt returns the next nonce for account.
func (rc *RPCClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	var nonce uint64
	err := rc.executeWithFailover(ctx, "get_nonce", func(client *ethclient.Client) error {
		var innerErr error
		nonce, innerErr = client.PendingNonceAt(ctx, account)
		return innerErr
	})
	return nonce, err
}

// SendTransaction broadcasts a signed transaction.
func (rc *RPCClient) SendTransaction(ctx context.Context, tx *types.Transaction) error {
	return rc.executeWithFailover(ctx, "broadcast_tx", func(client *ethclient.Client) error {
		return client.SendTransaction(ctx, tx)
	})
}

// TransactionReceipt fetches a transaction receipt. ethereum.NotFound is
// preserved in the error chain while the transaction is unmined.
func (rc *RPCClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := rc.executeWithFailover(ctx, "get_transaction_receipt", func(client *ethclient.Client) error {
		var innerErr error
		receipt, innerErr = client.TransactionReceipt(ctx, txHash)
		return innerErr
	})
	return receipt, err
}

// IsHealthy checks if any RPC in the pool is healthy by pinging it
func (rc *RPCClient) IsHealthy(ctx context.Context) bool {
	rc.mu.RLock()
	hasClients := len(rc.clients) > 0
	rc.mu.RUnlock()

	if !hasClients {
		return false
	}

	_, err := rc.BlockNumber(ctx)
	return err == nil
}

// Close closes all RPC connections
func (rc *RPCClient) Close() {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	for _, client := range rc.clients {
		if client != nil {
			client.Close()
		}
	}
	rc.clients = nil
	rc.urls = nil
}
