package cron

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/insurepool/poolgate/ledgerapi/db"
	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/store"
)

const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

var testTimer = common.HexToAddress("0x00000000000000000000000000000000000000a8")

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, signingKey string, contract *abi.ABI, to common.Address, method string, args ...any) (common.Hash, error) {
	ret := m.Called(signingKey, to, method)
	return ret.Get(0).(common.Hash), ret.Error(1)
}

// countingSubmitter counts submissions for the ticker tests.
type countingSubmitter struct {
	mu    sync.Mutex
	calls int
}

func (c *countingSubmitter) Submit(context.Context, string, *abi.ABI, common.Address, string, ...any) (common.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return common.HexToHash("0x01"), nil
}

func (c *countingSubmitter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// overlapSubmitter tracks how many submissions run at the same time.
type overlapSubmitter struct {
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (o *overlapSubmitter) Submit(context.Context, string, *abi.ABI, common.Address, string, ...any) (common.Hash, error) {
	n := o.inFlight.Add(1)
	defer o.inFlight.Add(-1)
	for {
		peak := o.peak.Load()
		if n <= peak || o.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return common.BigToHash(big.NewInt(int64(o.calls.Add(1)))), nil
}

func testLogger(t *testing.T) zerolog.Logger {
	return zerolog.New(zerolog.NewTestWriter(t))
}

func TestPingConfigValidate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     PingConfig
		wantErr bool
	}{
		{name: "valid", cfg: PingConfig{TimerAddress: testTimer, SigningKey: testKey, Interval: time.Minute}},
		{name: "disabled interval", cfg: PingConfig{TimerAddress: testTimer, SigningKey: testKey}},
		{name: "missing timer", cfg: PingConfig{SigningKey: testKey}, wantErr: true},
		{name: "prefixed key", cfg: PingConfig{TimerAddress: testTimer, SigningKey: "0x" + testKey}, wantErr: true},
		{name: "short key", cfg: PingConfig{TimerAddress: testTimer, SigningKey: "abcd"}, wantErr: true},
		{name: "negative interval", cfg: PingConfig{TimerAddress: testTimer, SigningKey: testKey, Interval: -time.Second}, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeValidation))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPingNow(t *testing.T) {
	ctx := context.Background()

	t.Run("unconfigured", func(t *testing.T) {
		job := NewPingJob(new(MockSubmitter), nil, time.Second, testLogger(t))
		_, err := job.PingNow(ctx)
		assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeValidation))
		assert.Zero(t, job.Interval())
		assert.Nil(t, job.Config())
	})

	t.Run("success is recorded", func(t *testing.T) {
		database, err := db.OpenInMemoryDB(true)
		require.NoError(t, err)
		defer database.Close()

		sub := new(MockSubmitter)
		txHash := common.HexToHash("0xfeed")
		sub.On("Submit", testKey, testTimer, "ping").Return(txHash, nil).Once()

		job := NewPingJob(sub, database, time.Second, testLogger(t))
		require.NoError(t, job.Configure(PingConfig{TimerAddress: testTimer, SigningKey: testKey}))

		got, err := job.PingNow(ctx)
		require.NoError(t, err)
		assert.Equal(t, txHash, got)
		sub.AssertExpectations(t)

		history, err := database.RecentPings(0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, store.PingSubmitted, history[0].Status)
		assert.Equal(t, txHash.Hex(), history[0].TxHash)
	})

	t.Run("failure is recorded and returned", func(t *testing.T) {
		database, err := db.OpenInMemoryDB(true)
		require.NoError(t, err)
		defer database.Close()

		rejected := ledgererrors.NewTransactionRejectedError(testTimer.Hex(), "rejected", errors.New("nonce too low"))
		sub := new(MockSubmitter)
		sub.On("Submit", testKey, testTimer, "ping").Return(common.Hash{}, rejected).Once()

		job := NewPingJob(sub, database, time.Second, testLogger(t))
		require.NoError(t, job.Configure(PingConfig{TimerAddress: testTimer, SigningKey: testKey}))

		_, err = job.PingNow(ctx)
		assert.True(t, ledgererrors.HasCode(err, ledgererrors.ErrCodeTransactionRejected))

		history, err := database.RecentPings(0)
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, store.PingFailed, history[0].Status)
		assert.Empty(t, history[0].TxHash)
		assert.NotEmpty(t, history[0].ErrorMsg)
	})
}

func TestPingJobLifecycle(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := &countingSubmitter{}
	job := NewPingJob(sub, nil, time.Second, testLogger(t))

	require.NoError(t, job.Start(ctx))
	require.NoError(t, job.Start(ctx))

	// Nothing is sent before a schedule exists.
	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, sub.count())

	require.NoError(t, job.Configure(PingConfig{TimerAddress: testTimer, SigningKey: testKey, Interval: 10 * time.Millisecond}))
	assert.Equal(t, 10*time.Millisecond, job.Interval())
	require.Eventually(t, func() bool { return sub.count() >= 3 }, 2*time.Second, 5*time.Millisecond)

	// Disabling stops further pings.
	require.NoError(t, job.Configure(PingConfig{TimerAddress: testTimer, SigningKey: testKey}))
	time.Sleep(30 * time.Millisecond)
	settled := sub.count()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, settled, sub.count())

	job.Stop()
	job.Stop()
}

func TestPingNowSerializesSubmissions(t *testing.T) {
	sub := &overlapSubmitter{}
	job := NewPingJob(sub, nil, time.Second, testLogger(t))
	require.NoError(t, job.Configure(PingConfig{TimerAddress: testTimer, SigningKey: testKey}))

	const callers = 8
	var wg sync.WaitGroup
	hashes := make([]common.Hash, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			hash, err := job.PingNow(context.Background())
			assert.NoError(t, err)
			hashes[i] = hash
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(callers), sub.calls.Load())
	assert.Equal(t, int32(1), sub.peak.Load())
	assert.Len(t, uniqueHashes(hashes), callers)
}

func uniqueHashes(hashes []common.Hash) map[common.Hash]struct{} {
	seen := make(map[common.Hash]struct{}, len(hashes))
	for _, h := range hashes {
		seen[h] = struct{}{}
	}
	return seen
}

func TestPingJobStartRequiresSubmitter(t *testing.T) {
	job := NewPingJob(nil, nil, 0, testLogger(t))
	assert.Equal(t, 30*time.Second, job.perPingTimeout)
	assert.Error(t, job.Start(context.Background()))
}

func TestConfigureRejectsInvalid(t *testing.T) {
	job := NewPingJob(new(MockSubmitter), nil, time.Second, testLogger(t))
	require.NoError(t, job.Configure(PingConfig{TimerAddress: testTimer, SigningKey: testKey, Interval: time.Minute}))

	err := job.Configure(PingConfig{TimerAddress: testTimer, SigningKey: "bad"})
	require.Error(t, err)
	assert.Equal(t, time.Minute, job.Interval())
}
