// Package cron runs the gateway's background jobs.
package cron

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/insurepool/poolgate/ledgerapi/contracts"
	ledgererrors "github.com/insurepool/poolgate/ledgerapi/errors"
	"github.com/insurepool/poolgate/ledgerapi/hexcodec"
	"github.com/insurepool/poolgate/ledgerapi/store"
)

var pingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "poolgate_timer_pings_total",
	Help: "Total number of timer ping submissions by outcome",
}, []string{"status"})

// Submitter broadcasts a signed contract call.
type Submitter interface {
	Submit(ctx context.Context, signingKey string, contract *abi.ABI, to common.Address, method string, args ...any) (common.Hash, error)
}

// Recorder persists ping outcomes.
type Recorder interface {
	RecordPing(timerAddress, txHash string, submitErr error) (*store.PingExecution, error)
}

// PingConfig is one immutable ping schedule. An Interval of zero disables
// the periodic ping.
type PingConfig struct {
	TimerAddress common.Address
	SigningKey   string
	Interval     time.Duration
}

// Validate checks the config before it is swapped in.
func (c PingConfig) Validate() error {
	if c.TimerAddress == (common.Address{}) {
		return ledgererrors.NewValidationError("timer address is required")
	}
	if !hexcodec.ValidPrivateKey(c.SigningKey, true) {
		return ledgererrors.NewValidationError("signing key must be 64 hex characters without prefix")
	}
	if c.Interval < 0 {
		return ledgererrors.NewValidationError("ping interval must not be negative")
	}
	return nil
}

// PingJob periodically calls ping() on a timer contract. The schedule is
// replaced as a whole through Configure and read lock-free on every tick.
type PingJob struct {
	submitter      Submitter
	recorder       Recorder
	perPingTimeout time.Duration
	logger         zerolog.Logger

	cfg atomic.Pointer[PingConfig]

	// pingMu keeps one ping in flight so the ticker and PUT /timer/ping
	// never read the same pending nonce.
	pingMu sync.Mutex

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	resetCh chan struct{}
	wg sync.WaitGroup
}

// NewPingJob creates an unconfigured job. recorder may be nil when ping
// history is not persisted.
func NewPingJob(submitter Submitter, recorder Recorder, perPingTimeout time.Duration, logger zerolog.Logger) *PingJob {
	if perPingTimeout <= 0 {
		perPingTimeout = 30 * time.Second
	}
	return &PingJob{
		submitter:      submitter,
		recorder:       recorder,
		perPingTimeout: perPingTimeout,
		logger:         logger.With().Str("component", "ping_cron").Logger(),
		resetCh:        make(chan struct{}, 1),
	}
}

// Configure validates cfg and makes it the current schedule. A running loop
// restarts its ticker with the new interval.
func (j *PingJob) Configure(cfg PingConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	j.cfg.Store(&cfg)

	select {
	case j.resetCh <- struct{}{}:
	default:
	}

	j.logger.Info().
		Str("timer", cfg.TimerAddress.Hex()).
		Dur("interval", cfg.Interval).
		Msg("ping schedule updated")
	return nil
}

// Config returns the current schedule, or nil when none was configured.
func (j *PingJob) Config() *PingConfig {
	return j.cfg.Load()
}

// Interval returns the current ping interval, zero when disabled.
func (j *PingJob) Interval() time.Duration {
	if cfg := j.cfg.Load(); cfg != nil {
		return cfg.Interval
	}
	return 0
}

// Start launches the background loop and returns immediately (non-blocking).
// Safe to call multiple times; subsequent calls are no-ops.
func (j *PingJob) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return nil
	}
	if j.submitter == nil {
		return errors.New("cron: submitter must be non-nil")
	}

	j.stopCh = make(chan struct{})
	j.running = true
	j.wg.Add(1)

	go j.run(ctx)
	return nil
}

// Stop signals the loop to exit and waits for it to finish.
// Safe to call multiple times.
func (j *PingJob) Stop() {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return
	}
	close(j.stopCh)
	j.running = false
	j.mu.Unlock()
	j.wg.Wait()
}

func (j *PingJob) run(parent context.Context) {
	defer j.wg.Done()

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	reset := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		if interval := j.Interval(); interval > 0 {
			ticker = time.NewTicker(interval)
			tick = ticker.C
		}
	}
	reset()
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-parent.Done():
			j.logger.Info().Msg("ping cron: context canceled; stopping")
			return
		case <-j.stopCh:
			j.logger.Info().Msg("ping cron: stop requested; stopping")
			return
		case <-j.resetCh:
			reset()
		case <-tick:
			if _, err := j.PingNow(parent); err != nil {
				j.logger.Warn().Err(err).Msg("scheduled ping failed; will retry on next tick")
			}
		}
	}
}

// PingNow submits one ping with the current schedule and records the
// outcome. It does not wait for the transaction to be mined. Concurrent
// calls are serialized.
func (j *PingJob) PingNow(parent context.Context) (common.Hash, error) {
	j.pingMu.Lock()
	defer j.pingMu.Unlock()

	cfg := j.cfg.Load()
	if cfg == nil {
		return common.Hash{}, ledgererrors.NewValidationError("ping is not configured")
	}

	ctx, cancel := context.WithTimeout(parent, j.perPingTimeout)
	defer cancel()

	hash, err := j.submitter.Submit(ctx, cfg.SigningKey, contracts.Timer, cfg.TimerAddress, "ping")
	if err != nil {
		pingsTotal.WithLabelValues(store.PingFailed).Inc()
	} else {
		pingsTotal.WithLabelValues(store.PingSubmitted).Inc()
	}

	if j.recorder != nil {
		txHash := ""
		if err == nil {
			txHash = hash.Hex()
		}
		if _, recErr := j.recorder.RecordPing(cfg.TimerAddress.Hex(), txHash, err); recErr != nil {
			j.logger.Error().Err(recErr).Msg("failed to record ping execution")
		}
	}

	if err != nil {
		return common.Hash{}, err
	}
	j.logger.Debug().
		Str("timer", cfg.TimerAddress.Hex()).
		Str("tx_hash", hash.Hex()).
		Msg("ping submitted")
	return hash, nil
}
