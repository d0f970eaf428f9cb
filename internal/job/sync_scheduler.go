// Package job provides background job schedulers.
package job

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"library-catalog-service/internal/app/service"
	"library-catalog-service/pkg/locker"
)

const (
	cooldownLockKey = "sync:cooldown"
	runningLockKey  = "sync:running"
)

// ErrSyncInProgress is returned by RunNow when any instance is already syncing.
var ErrSyncInProgress = errors.New("sync already in progress")

// Syncer is the part of the sync service the scheduler drives.
type Syncer interface {
	SyncAll(ctx context.Context) []service.SyncResult
}

// SyncScheduler runs periodic catalog ingestion. Two distributed locks
// coordinate instances: a cooldown lock held for one interval after a
// successful scheduled sync, and a running lock held while any sync executes.
type SyncScheduler struct {
	syncer   Syncer
	interval time.Duration
	timeout  time.Duration
	logger   *zap.Logger
	locker   locker.DistributedLocker

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// SyncConfig holds sync scheduler configuration.
type SyncConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// NewSyncScheduler creates a new SyncScheduler.
func NewSyncScheduler(syncer Syncer, cfg SyncConfig, logger *zap.Logger, l locker.DistributedLocker) *SyncScheduler {
	return &SyncScheduler{
		syncer:   syncer,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		logger:   logger,
		locker:   l,
	}
}

// Start begins the background sync loop.
func (s *SyncScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting sync scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop cancels a running sync and waits for the loop to exit.
func (s *SyncScheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.logger.Info("stopping sync scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("sync scheduler stopped")
}

func (s *SyncScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executeScheduled(s.ctx)
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeScheduled(s.ctx)
		}
	}
}

// RunNow syncs immediately, skipping the cooldown. It fails with
// ErrSyncInProgress when a sync is already running on any instance.
func (s *SyncScheduler) RunNow(ctx context.Context) ([]service.SyncResult, error) {
	results, ran, err := s.runExclusive(ctx)
	if err != nil {
		return nil, err
	}
	if !ran {
		return nil, ErrSyncInProgress
	}
	return results, nil
}

// executeScheduled runs one tick. The cooldown lock is held for a full interval
// after success and released right away after a failure so that another
// instance can retry.
func (s *SyncScheduler) executeScheduled(ctx context.Context) {
	acquired, err := s.locker.Acquire(ctx, cooldownLockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire distributed lock", zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("sync cooldown active on another instance, skipping")
		return
	}

	results, ran, err := s.runExclusive(ctx)
	if err != nil {
		s.logger.Error("sync failed", zap.Error(err))
	}

	failed := 0
	synced := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			s.logger.Warn("provider sync failed",
				zap.String("provider", r.Provider),
				zap.Error(r.Error),
			)
		} else {
			synced += r.Count
		}
	}

	if err != nil || !ran || failed > 0 {
		if relErr := s.locker.Release(context.WithoutCancel(ctx), cooldownLockKey); relErr != nil {
			s.logger.Error("failed to release cooldown lock", zap.Error(relErr))
		}
		s.logger.Info("sync incomplete, cooldown released for retry",
			zap.Bool("ran", ran),
			zap.Int("total_synced", synced),
			zap.Int("providers_failed", failed),
		)
		return
	}

	s.logger.Info("sync completed successfully, lock held for cooldown",
		zap.Int("total_synced", synced),
		zap.Duration("cooldown", s.interval),
	)
}

func (s *SyncScheduler) runExclusive(ctx context.Context) (results []service.SyncResult, ran bool, err error) {
	ran, err = locker.WithLock(ctx, s.locker, runningLockKey, s.timeout, func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		results = s.syncer.SyncAll(ctx)
		return nil
	})
	return results, ran, err
}
