package ledger

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurepool/poolgate/ledgerapi/contracts"
	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// newRPCServer answers JSON-RPC calls through handler. A non-nil error is
// returned to the client as a JSON-RPC error object.
func newRPCServer(t *testing.T, handler func(method string) (any, error)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		result, err := handler(req.Method)
		if err != nil {
			resp["error"] = map[string]any{"code": -32000, "message": err.Error()}
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func chainHandler(chainID string, extra func(method string) (any, error)) func(string) (any, error) {
	return func(method string) (any, error) {
		if method == "eth_chainId" {
			return chainID, nil
		}
		if extra != nil {
			return extra(method)
		}
		return nil, errors.New("method not supported")
	}
}

func TestNewRPCClient(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := context.Background()

	t.Run("no urls", func(t *testing.T) {
		_, err := NewRPCClient(ctx, nil, 0, 1, logger)
		require.Error(t, err)
		assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeConfig))
	})

	t.Run("chain id mismatch", func(t *testing.T) {
		server := newRPCServer(t, chainHandler("0x1", nil))
		_, err := NewRPCClient(ctx, []string{server.URL}, 1337, 1, logger)
		require.Error(t, err)
		assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeRPC))
	})

	t.Run("keeps matching endpoints", func(t *testing.T) {
		good := newRPCServer(t, chainHandler("0x539", nil))
		wrong := newRPCServer(t, chainHandler("0x1", nil))

		rc, err := NewRPCClient(ctx, []string{wrong.URL, good.URL}, 1337, 1, logger)
		require.NoError(t, err)
		defer rc.Close()
		assert.Equal(t, []string{good.URL}, rc.Endpoints())
	})

	t.Run("zero chain id accepts any chain", func(t *testing.T) {
		server := newRPCServer(t, chainHandler("0x5", nil))
		rc, err := NewRPCClient(ctx, []string{server.URL}, 0, 1, logger)
		require.NoError(t, err)
		defer rc.Close()
		assert.Len(t, rc.Endpoints(), 1)
	})
}

func TestFailover(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := context.Background()

	var brokenHits, healthyHits atomic.Int32
	broken := newRPCServer(t, chainHandler("0x539", func(string) (any, error) {
		brokenHits.Add(1)
		return nil, errors.New("backend unavailable")
	}))
	healthy := newRPCServer(t, chainHandler("0x539", func(method string) (any, error) {
		healthyHits.Add(1)
		if method == "eth_blockNumber" {
			return "0x10", nil
		}
		return nil, errors.New("method not supported")
	}))

	rc, err := NewRPCClient(ctx, []string{broken.URL, healthy.URL}, 1337, 1, logger)
	require.NoError(t, err)
	defer rc.Close()

	for i := 0; i < 4; i++ {
		n, err := rc.BlockNumber(ctx)
		require.NoError(t, err)
		assert.Equal(t, uint64(16), n)
	}
	assert.Equal(t, int32(4), healthyHits.Load())
	assert.Equal(t, int32(4), brokenHits.Load())
	assert.True(t, rc.IsHealthy(ctx))

	rc.Close()
	assert.False(t, rc.IsHealthy(ctx))
}

func TestCall(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := context.Background()
	bond := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")

	packed, err := contracts.Bond.Methods["hashMap"].Outputs.Pack(big.NewInt(1), big.NewInt(11), big.NewInt(10))
	require.NoError(t, err)

	var result atomic.Value
	result.Store(hexutil.Encode(packed))
	server := newRPCServer(t, chainHandler("0x539", func(method string) (any, error) {
		if method == "eth_call" {
			return result.Load(), nil
		}
		return nil, errors.New("method not supported")
	}))

	rc, err := NewRPCClient(ctx, []string{server.URL}, 1337, 1, logger)
	require.NoError(t, err)
	defer rc.Close()

	out, err := rc.Call(ctx, contracts.Bond, bond, "hashMap")
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, int64(11), out[1].(*big.Int).Int64())

	t.Run("no code at address", func(t *testing.T) {
		result.Store("0x")
		_, err := rc.Call(ctx, contracts.Bond, bond, "hashMap")
		require.Error(t, err)
		assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeInvalidContractAddress))
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := rc.Call(ctx, contracts.Bond, bond, "doesNotExist")
		require.Error(t, err)
		assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeInternal))
	})
}

type fakeReceipts struct {
	pending int
	err     error
	calls   int
}

func (f *fakeReceipts) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.calls <= f.pending {
		return nil, ethereum.NotFound
	}
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(7)}, nil
}

func TestWaitForReceipt(t *testing.T) {
	saved := receiptPollInterval
	receiptPollInterval = 10 * time.Millisecond
	t.Cleanup(func() { receiptPollInterval = saved })

	ctx := context.Background()
	hash := common.HexToHash("0x01")

	t.Run("mined after a few polls", func(t *testing.T) {
		f := &fakeReceipts{pending: 2}
		r, err := WaitForReceipt(ctx, f, hash, time.Second)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), r.BlockNumber.Uint64())
		assert.Equal(t, 3, f.calls)
	})

	t.Run("deadline", func(t *testing.T) {
		f := &fakeReceipts{pending: 1000}
		_, err := WaitForReceipt(ctx, f, hash, 30*time.Millisecond)
		require.Error(t, err)
		assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeNotFound))
		assert.Equal(t, 4, f.calls)
	})

	t.Run("zero wait checks once", func(t *testing.T) {
		f := &fakeReceipts{pending: 1000}
		_, err := WaitForReceipt(ctx, f, hash, 0)
		assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeNotFound))
		assert.Equal(t, 1, f.calls)
	})

	t.Run("rpc failure", func(t *testing.T) {
		f := &fakeReceipts{err: errors.New("connection reset")}
		_, err := WaitForReceipt(ctx, f, hash, time.Second)
		assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeRPC))
	})
}

func TestSummarize(t *testing.T) {
	bond := common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	ref := common.HexToHash("0xabc")
	r := &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		BlockNumber: big.NewInt(12),
		GasUsed:     21000,
		Logs: []*types.Log{
			{Address: bond, Topics: []common.Hash{common.HexToHash("0x1"), ref}},
			{Address: bond, Topics: []common.Hash{common.HexToHash("0x1")}},
		},
	}

	s := Summarize(r)
	assert.True(t, s.Success)
	assert.Equal(t, uint64(12), s.BlockNumber)
	assert.Equal(t, 2, s.LogCount)
	assert.Equal(t, []string{bond.Hex(), bond.Hex()}, s.ContractReferenceAdr)
	assert.Equal(t, []string{ref.Hex(), ""}, s.ObjectReferenceHash)
	assert.Empty(t, s.ContractAddress)
}

type fakeSender struct {
	chainID *big.Int
	nonce   uint64
	sendErr error
	sent    []*types.Transaction
}

func (f *fakeSender) ChainID(context.Context) (*big.Int, error) { return f.chainID, nil }

func (f *fakeSender) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return f.nonce, nil
}

func (f *fakeSender) SendTransaction(_ context.Context, tx *types.Transaction) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	return nil
}

func TestSubmitter(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	ctx := context.Background()
	timer := common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	keyHex := hex.EncodeToString(crypto.FromECDSA(key))

	t.Run("signs and broadcasts", func(t *testing.T) {
		sender := &fakeSender{chainID: big.NewInt(1337), nonce: 9}
		s := NewSubmitter(sender, 20_000_000_000, 4_712_388, logger)

		hash, err := s.Submit(ctx, keyHex, contracts.Timer, timer, "ping")
		require.NoError(t, err)
		require.Len(t, sender.sent, 1)

		tx := sender.sent[0]
		assert.Equal(t, hash, tx.Hash())
		assert.Equal(t, uint64(9), tx.Nonce())
		assert.Equal(t, uint64(4_712_388), tx.Gas())
		assert.Equal(t, timer, *tx.To())
		assert.Equal(t, contracts.Timer.Methods["ping"].ID, tx.Data()[:4])

		from, err := types.Sender(types.NewEIP155Signer(big.NewInt(1337)), tx)
		require.NoError(t, err)
		assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), from)
	})

	t.Run("rejected", func(t *testing.T) {
		sender := &fakeSender{chainID: big.NewInt(1337), sendErr: errors.New("execution reverted")}
		s := NewSubmitter(sender, 1, 100_000, logger)
		_, err := s.Submit(ctx, keyHex, contracts.Timer, timer, "ping")
		require.Error(t, err)
		assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeTransactionRejected))
	})

	t.Run("bad key", func(t *testing.T) {
		s := NewSubmitter(&fakeSender{chainID: big.NewInt(1)}, 1, 100_000, logger)
		_, err := s.Submit(ctx, "not-a-key", contracts.Timer, timer, "ping")
		assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeValidation))
	})
}

// mempoolSender hands out the pending nonce the way a node does: one more
// than the transactions it has accepted.
type mempoolSender struct {
	mu   sync.Mutex
	sent []*types.Transaction
}

func (m *mempoolSender) ChainID(context.Context) (*big.Int, error) { return big.NewInt(1337), nil }

func (m *mempoolSender) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return uint64(len(m.sent)), nil
}

func (m *mempoolSender) SendTransaction(_ context.Context, tx *types.Transaction) error {
	time.Sleep(2 * time.Millisecond)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, tx)
	return nil
}

func TestSubmitterConcurrentNonces(t *testing.T) {
	sender := &mempoolSender{}
	s := NewSubmitter(sender, 1, 100_000, zerolog.New(zerolog.NewTestWriter(t)))
	timer := common.HexToAddress("0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512")
	key := "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

	const submissions = 10
	var wg sync.WaitGroup
	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Submit(context.Background(), key, contracts.Timer, timer, "ping")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	nonces := make(map[uint64]bool)
	for _, tx := range sender.sent {
		nonces[tx.Nonce()] = true
	}
	assert.Len(t, nonces, submissions)
}
