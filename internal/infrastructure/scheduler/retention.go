// Package scheduler runs periodic maintenance jobs for stored exports.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Pruner removes stored files older than a given age
type Pruner interface {
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
}

// RetentionConfig holds the retention sweep settings
type RetentionConfig struct {
	Retention time.Duration
	Interval  time.Duration
	// SweepTimeout bounds a single CleanupOlderThan call
	SweepTimeout time.Duration
}

// DefaultRetentionConfig keeps exports for a day and sweeps hourly
func DefaultRetentionConfig() RetentionConfig {
	return RetentionConfig{
		Retention:    24 * time.Hour,
		Interval:     time.Hour,
		SweepTimeout: 5 * time.Minute,
	}
}

func (c RetentionConfig) validate() error {
	if c.Retention <= 0 || c.Interval <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// SweepStats summarizes the sweeps run so far
type SweepStats struct {
	Runs        int64     `json:"runs"`
	Removed     int64     `json:"removed"`
	Failures    int64     `json:"failures"`
	LastSweepAt time.Time `json:"last_sweep_at"`
}

// RetentionSweeper periodically deletes exports past their retention age
type RetentionSweeper struct {
	config RetentionConfig
	pruner Pruner
	logger *zap.Logger

	// mu guards cancel, done and isRunning
	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	isRunning bool
	sweeping  atomic.Bool

	statsMu sync.Mutex
	stats   SweepStats
}

// NewRetentionSweeper creates a sweeper. It does nothing until Start is called.
func NewRetentionSweeper(config RetentionConfig, pruner Pruner, logger *zap.Logger) (*RetentionSweeper, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.SweepTimeout <= 0 {
		config.SweepTimeout = DefaultRetentionConfig().SweepTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetentionSweeper{
		config: config,
		pruner: pruner,
		logger: logger,
	}, nil
}

// Start starts the sweep loop
func (s *RetentionSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	s.isRunning = true
	s.mu.Unlock()

	go s.runLoop(ctx, done)

	s.logger.Info("Retention sweeper started",
		zap.Duration("retention", s.config.Retention),
		zap.Duration("interval", s.config.Interval),
	)
	return nil
}

// Stop stops the sweep loop, waiting for an in-flight sweep until ctx is done
func (s *RetentionSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.isRunning = false
	s.mu.Unlock()

	cancel()

	select {
	case <-done:
		s.logger.Info("Retention sweeper stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Retention sweeper stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *RetentionSweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Stats returns a copy of the sweep counters
func (s *RetentionSweeper) Stats() SweepStats {
	s.statsMu.Lock()
	defer s.statsMu.Unlock()
	return s.stats
}

func (s *RetentionSweeper) runLoop(ctx context.Context, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("Retention sweep failed", zap.Error(err))
			}
		}
	}
}

// RunOnce performs a single sweep and returns the number of files removed
func (s *RetentionSweeper) RunOnce(ctx context.Context) (int, error) {
	if !s.sweeping.CompareAndSwap(false, true) {
		return 0, ErrSweeperRunning
	}
	defer s.sweeping.Store(false)

	sweepCtx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	removed, err := s.pruner.CleanupOlderThan(sweepCtx, s.config.Retention)

	s.statsMu.Lock()
	s.stats.Runs++
	s.stats.Removed += int64(removed)
	s.stats.LastSweepAt = time.Now()
	if err != nil {
		s.stats.Failures++
	}
	s.statsMu.Unlock()

	if err != nil {
		return removed, err
	}
	if removed > 0 {
		s.logger.Info("Expired exports removed",
			zap.Int("removed", removed),
			zap.Duration("retention", s.config.Retention),
		)
	}
	return removed, nil
}
