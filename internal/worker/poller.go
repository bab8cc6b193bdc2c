package worker

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/phillyfan-api/internal/config"
	"github.com/phillyfan-api/internal/domain"
	"github.com/phillyfan-api/internal/postgres"
	"github.com/phillyfan-api/internal/providers/espn"
	"github.com/phillyfan-api/internal/timeutil"
	"github.com/phillyfan-api/internal/websocket"
)

var polledSports = []domain.Sport{
	domain.SportNFL,
	domain.SportNBA,
	domain.SportMLB,
	domain.SportNHL,
	domain.SportMLS,
}

// ScorePoller fetches live scoreboards on an interval, persists game state,
// and pushes score changes to connected websocket clients.
type ScorePoller struct {
	espn    *espn.Client
	store   *postgres.Repository
	hub     *websocket.Hub
	config  *config.WorkersConfig
	logger  *slog.Logger
	now     func() time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
	mu      sync.Mutex
	running bool

	// last observed score per game id, used to suppress no-change broadcasts
	snapshot map[string]scoreKey
}

type scoreKey struct {
	home   int
	away   int
	status domain.GameStatus
}

// NewScorePoller creates a new score poller
func NewScorePoller(
	espnClient *espn.Client,
	store *postgres.Repository,
	hub *websocket.Hub,
	cfg *config.WorkersConfig,
	logger *slog.Logger,
) *ScorePoller {
	return &ScorePoller{
		espn:     espnClient,
		store:    store,
		hub:      hub,
		config:   cfg,
		logger:   logger,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		snapshot: make(map[string]scoreKey),
	}
}

// Start begins the background polling process
func (p *ScorePoller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = true
	p.mu.Unlock()

	p.logger.Info("score poller started", "interval", p.config.ScorePollInterval)

	go p.run(ctx)
	return nil
}

// Stop stops the background polling process
func (p *ScorePoller) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	close(p.stopCh)
	<-p.doneCh

	p.mu.Lock()
	p.running = false
	p.mu.Unlock()

	p.logger.Info("score poller stopped")
	return nil
}

func (p *ScorePoller) run(ctx context.Context) {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.config.ScorePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			if err := p.Poll(ctx); err != nil {
				p.logger.Error("score poll cycle failed", "error", err)
			}
		}
	}
}

// Poll runs one polling cycle across every tracked league.
func (p *ScorePoller) Poll(ctx context.Context) error {
	date := timeutil.DateET(p.now())

	var lastErr error
	for _, sport := range polledSports {
		games, err := p.espn.Scoreboard(ctx, sport, date)
		if err != nil {
			p.logger.Warn("scoreboard fetch failed", "sport", sport, "error", err)
			lastErr = err
			continue
		}
		for _, game := range games {
			if !involvesPhilly(game) {
				continue
			}
			p.observe(ctx, game)
		}
	}
	return lastErr
}

// observe persists the game and broadcasts when the score or status changed.
func (p *ScorePoller) observe(ctx context.Context, game domain.NormalizedGame) {
	current := scoreKey{
		home:   game.HomeTeam.Score,
		away:   game.AwayTeam.Score,
		status: game.Status,
	}
	prev, seen := p.snapshot[game.ID]
	if seen && prev == current {
		return
	}
	p.snapshot[game.ID] = current

	if err := p.store.UpsertGame(ctx, game); err != nil {
		p.logger.Error("game upsert failed", "game_id", game.ID, "error", err)
		return
	}

	// first sighting of a scheduled game is persistence only, no push
	if !seen && game.Status == domain.StatusScheduled {
		return
	}

	p.hub.BroadcastScoreUpdate(domain.ScoreUpdate{
		GameID:    game.ID,
		Sport:     game.Sport,
		HomeTeam:  game.HomeTeam.Name,
		AwayTeam:  game.AwayTeam.Name,
		HomeScore: game.HomeTeam.Score,
		AwayScore: game.AwayTeam.Score,
		Status:    game.Status,
		Timestamp: p.now().UTC(),
	})
}

func involvesPhilly(game domain.NormalizedGame) bool {
	return strings.EqualFold(game.HomeTeam.Abbr, "PHI") ||
		strings.EqualFold(game.AwayTeam.Abbr, "PHI")
}
