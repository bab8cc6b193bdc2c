// Package redis keeps sorted-set mirrors of the coin and streak leaderboards
// so hot reads skip the database. The mirror is refreshed by the sync worker
// and is safe to lose; reads fall back to Postgres when cold.
package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phillyfan-api/internal/config"
	"github.com/phillyfan-api/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Mirror provides Redis-based leaderboard reads and writes.
type Mirror struct {
	client *redis.Client
	logger *slog.Logger
}

// NewMirror creates a new Redis leaderboard mirror.
func NewMirror(cfg *config.RedisConfig, logger *slog.Logger) (*Mirror, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Test connection
	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	return &Mirror{
		client: client,
		logger: logger,
	}, nil
}

// Close closes the Redis connection
func (m *Mirror) Close() error {
	return m.client.Close()
}

func boardKey(board string) string {
	return fmt.Sprintf("leaderboard:%s", board)
}

func usernameKey(userID string) string {
	return fmt.Sprintf("user:%s:name", userID)
}

// ReplaceBoard atomically rebuilds a board from a full user snapshot.
func (m *Mirror) ReplaceBoard(ctx context.Context, board string, users []domain.User, score func(domain.User) int64) error {
	key := boardKey(board)
	staging := key + ":staging"

	pipe := m.client.Pipeline()
	pipe.Del(ctx, staging)
	for _, u := range users {
		pipe.ZAdd(ctx, staging, redis.Z{Score: float64(score(u)), Member: u.ID})
		pipe.Set(ctx, usernameKey(u.ID), u.Username, 0)
	}
	pipe.Rename(ctx, staging, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("replacing board %s: %w", board, err)
	}
	return nil
}

// TopN reads the top N members of a board with ranks and cached usernames.
func (m *Mirror) TopN(ctx context.Context, board string, n int) ([]domain.LeaderboardRow, error) {
	members, err := m.client.ZRevRangeWithScores(ctx, boardKey(board), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading board %s: %w", board, err)
	}

	rows := make([]domain.LeaderboardRow, 0, len(members))
	for i, member := range members {
		userID, _ := member.Member.(string)
		row := domain.LeaderboardRow{
			Rank:   i + 1,
			UserID: userID,
			Score:  int64(member.Score),
		}
		if name, err := m.client.Get(ctx, usernameKey(userID)).Result(); err == nil {
			row.Username = name
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Rank returns a user's rank and score on a board, or domain.ErrUserNotFound
// when they are absent.
func (m *Mirror) Rank(ctx context.Context, board, userID string) (*domain.LeaderboardRow, error) {
	key := boardKey(board)

	rank, err := m.client.ZRevRank(ctx, key, userID).Result()
	if err == redis.Nil {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading rank: %w", err)
	}

	score, err := m.client.ZScore(ctx, key, userID).Result()
	if err != nil {
		return nil, fmt.Errorf("reading score: %w", err)
	}

	row := &domain.LeaderboardRow{
		Rank:   int(rank) + 1,
		UserID: userID,
		Score:  int64(score),
	}
	if name, err := m.client.Get(ctx, usernameKey(userID)).Result(); err == nil {
		row.Username = name
	}
	return row, nil
}
