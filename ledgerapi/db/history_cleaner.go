package db

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultCleanupInterval is how often the ping history is pruned.
const DefaultCleanupInterval = time.Hour

// HistoryCleaner periodically prunes ping executions older than the
// retention period.
type HistoryCleaner struct {
	database        *DB
	cleanupInterval time.Duration
	retentionPeriod time.Duration
	logger          zerolog.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewHistoryCleaner creates a cleaner for database. A non-positive interval
// uses DefaultCleanupInterval.
func NewHistoryCleaner(database *DB, retention, interval time.Duration, logger zerolog.Logger) *HistoryCleaner {
	if interval <= 0 {
		interval = DefaultCleanupInterval
	}
	return &HistoryCleaner{
		database:        database,
		cleanupInterval: interval,
		retentionPeriod: retention,
		logger:          logger.With().Str("component", "history_cleaner").Logger(),
		stopCh:          make(chan struct{}),
	}
}

// Start prunes once and then keeps pruning on every interval until ctx is
// cancelled or Stop is called.
func (hc *HistoryCleaner) Start(ctx context.Context) {
	hc.logger.Info().
		Dur("cleanup_interval", hc.cleanupInterval).
		Dur("retention_period", hc.retentionPeriod).
		Msg("starting ping history cleaner")

	if err := hc.performCleanup(); err != nil {
		hc.logger.Error().Err(err).Msg("failed to perform initial cleanup")
	}

	ticker := time.NewTicker(hc.cleanupInterval)
	hc.wg.Add(1)
	go func() {
		defer hc.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				hc.logger.Info().Msg("context cancelled, stopping ping history cleaner")
				return
			case <-hc.stopCh:
				hc.logger.Info().Msg("stop signal received, stopping ping history cleaner")
				return
			case <-ticker.C:
				if err := hc.performCleanup(); err != nil {
					hc.logger.Error().Err(err).Msg("failed to perform scheduled cleanup")
				}
			}
		}
	}()
}

// Stop halts the cleaner and waits for the loop to exit. Safe to call more
// than once.
func (hc *HistoryCleaner) Stop() {
	hc.stopOnce.Do(func() { close(hc.stopCh) })
	hc.wg.Wait()
}

func (hc *HistoryCleaner) performCleanup() error {
	start := time.Now()
	deleted, err := hc.database.PrunePings(hc.retentionPeriod)
	if err != nil {
		return err
	}

	if deleted > 0 {
		hc.logger.Info().
			Int64("deleted_count", deleted).
			Dur("duration", time.Since(start)).
			Msg("ping history cleanup completed")
		hc.checkpointWAL()
		return nil
	}
	hc.logger.Debug().
		Dur("duration", time.Since(start)).
		Msg("ping history cleanup completed - nothing to delete")
	return nil
}

// checkpointWAL truncates the WAL file after a delete. In-memory databases
// have no WAL and report an error that is only logged.
func (hc *HistoryCleaner) checkpointWAL() {
	if err := hc.database.Client().Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error; err != nil {
		hc.logger.Warn().Err(err).Msg("failed to checkpoint WAL")
	}
}
