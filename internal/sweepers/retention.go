// Package sweepers runs periodic maintenance over the canonical store.
package sweepers

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// RetentionSweeper periodically prunes old import-run audit records so the
// table does not grow without bound. Orders and items are never touched.
type RetentionSweeper struct {
	pool      *pgxpool.Pool
	logger    *zerolog.Logger
	interval  time.Duration
	retention time.Duration
	stopChan  chan struct{}
}

// NewRetentionSweeper creates a sweeper that keeps import runs for the given
// retention window
func NewRetentionSweeper(pool *pgxpool.Pool, logger *zerolog.Logger, interval, retention time.Duration) *RetentionSweeper {
	return &RetentionSweeper{
		pool:      pool,
		logger:    logger,
		interval:  interval,
		retention: retention,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the periodic pruning sweep
func (s *RetentionSweeper) Start(ctx context.Context) {
	s.logger.Info().
		Dur("interval", s.interval).
		Dur("retention", s.retention).
		Msg("Starting retention sweeper")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Retention sweeper stopping (context cancelled)")
			return
		case <-s.stopChan:
			s.logger.Info().Msg("Retention sweeper stopping (stop signal)")
			return
		case <-ticker.C:
			if err := s.PruneImportRuns(ctx); err != nil {
				s.logger.Error().Err(err).Msg("Failed to prune import runs")
			}
		}
	}
}

// Stop signals the sweeper to stop
func (s *RetentionSweeper) Stop() {
	close(s.stopChan)
}

// PruneImportRuns deletes audit records older than the retention window
func (s *RetentionSweeper) PruneImportRuns(ctx context.Context) error {
	cutoff := time.Now().Add(-s.retention)

	tag, err := s.pool.Exec(ctx, `
		DELETE FROM import_runs WHERE created_at < $1
	`, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune import runs: %w", err)
	}

	if tag.RowsAffected() > 0 {
		s.logger.Info().
			Int64("pruned", tag.RowsAffected()).
			Time("cutoff", cutoff).
			Msg("Pruned import runs")
	}

	return nil
}
