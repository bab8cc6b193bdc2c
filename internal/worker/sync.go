package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/phillyfan-api/internal/config"
	"github.com/phillyfan-api/internal/domain"
	"github.com/phillyfan-api/internal/postgres"
	"github.com/phillyfan-api/internal/redis"
)

// SyncWorker periodically rebuilds the Redis leaderboard mirrors from the
// Postgres user records.
type SyncWorker struct {
	mirror  *redis.Mirror
	store   *postgres.Repository
	config  *config.WorkersConfig
	logger  *slog.Logger
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool
}

// NewSyncWorker creates a new sync worker
func NewSyncWorker(
	mirror *redis.Mirror,
	store *postgres.Repository,
	cfg *config.WorkersConfig,
	logger *slog.Logger,
) *SyncWorker {
	return &SyncWorker{
		mirror: mirror,
		store:  store,
		config: cfg,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins the background sync process
func (w *SyncWorker) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("leaderboard sync worker started", "interval", w.config.LeaderboardSyncInterval)

	go w.run(ctx)
	return nil
}

// Stop stops the background sync process
func (w *SyncWorker) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("leaderboard sync worker stopped")
	return nil
}

// run is the main worker loop
func (w *SyncWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.LeaderboardSyncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			if err := w.SyncBoards(ctx); err != nil {
				w.logger.Error("leaderboard sync cycle failed", "error", err)
			}
		}
	}
}

// SyncBoards rebuilds every mirrored board from the user table.
func (w *SyncWorker) SyncBoards(ctx context.Context) error {
	start := time.Now()

	users, err := w.store.ListUsersForMirror(ctx)
	if err != nil {
		return err
	}

	if err := w.mirror.ReplaceBoard(ctx, "coins", users, func(u domain.User) int64 {
		return u.CoinBalance
	}); err != nil {
		return err
	}
	if err := w.mirror.ReplaceBoard(ctx, "streak", users, func(u domain.User) int64 {
		return int64(u.DailyLoginStreak)
	}); err != nil {
		return err
	}

	w.logger.Info("leaderboard sync cycle completed",
		"duration", time.Since(start),
		"users", len(users),
	)
	return nil
}
