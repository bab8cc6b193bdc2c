package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phillyfan-api/internal/config"
	"github.com/phillyfan-api/internal/domain"
)

// LedgerStore is the persistence surface the gamification endpoints need.
type LedgerStore interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetGame(ctx context.Context, id string) (*domain.NormalizedGame, error)
	ListUpcomingGames(ctx context.Context, now time.Time, limit int) ([]domain.NormalizedGame, error)

	CreatePrediction(ctx context.Context, p domain.Prediction) (*domain.Prediction, error)
	ListUserPredictions(ctx context.Context, userID string) ([]domain.Prediction, error)
	ListSettledPredictions(ctx context.Context, userID string, limit int) ([]domain.Prediction, error)

	PredictionLeaderboard(ctx context.Context, minSettled, limit int) ([]domain.LeaderboardRow, error)
	CoinsLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)
	StreakLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardRow, error)

	CoinHistory(ctx context.Context, userID string, limit, offset int) ([]domain.CoinTransaction, int64, error)
	TipHistory(ctx context.Context, userID string, limit, offset int, direction string) ([]domain.CoinTransaction, int64, error)
	TipTotals(ctx context.Context, userID string) (domain.TipTotals, error)
	TransferCoins(ctx context.Context, fromUserID, toUserID string, amount int64) error

	SearchPhotos(ctx context.Context, query, team string, limit int) ([]domain.Photo, error)
}

// LeaderboardMirror is the Redis-backed fast path for sorted leaderboards.
type LeaderboardMirror interface {
	TopN(ctx context.Context, board string, n int) ([]domain.LeaderboardRow, error)
	Rank(ctx context.Context, board, userID string) (*domain.LeaderboardRow, error)
}

// LedgerService provides business logic for the gamification endpoints.
type LedgerService struct {
	store  LedgerStore
	mirror LeaderboardMirror
	cfg    *config.LedgerConfig
	logger *slog.Logger
	now    func() time.Time
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(store LedgerStore, mirror LeaderboardMirror, cfg *config.LedgerConfig, logger *slog.Logger) *LedgerService {
	return &LedgerService{
		store:  store,
		mirror: mirror,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// BalanceResponse is a user's balance record plus their coin board rank.
// CoinRank is zero when the mirror is cold or the user is not on the board.
type BalanceResponse struct {
	*domain.User
	CoinRank int `json:"coin_rank,omitempty"`
}

// Balance returns a user's coin balance record.
func (s *LedgerService) Balance(ctx context.Context, userID string) (*BalanceResponse, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := &BalanceResponse{User: user}
	if s.mirror != nil {
		if row, err := s.mirror.Rank(ctx, "coins", userID); err == nil {
			resp.CoinRank = row.Rank
		}
	}
	return resp, nil
}

// clampLimit applies the default and the hard ceiling to a requested limit.
func (s *LedgerService) clampLimit(limit int) int {
	if limit <= 0 {
		return s.cfg.DefaultLimit
	}
	if limit > s.cfg.MaxLimit {
		return s.cfg.MaxLimit
	}
	return limit
}

// CoinHistory returns a page of a user's coin ledger, newest first.
func (s *LedgerService) CoinHistory(ctx context.Context, userID string, limit, offset int) (domain.Page[domain.CoinTransaction], error) {
	limit = s.clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.store.CoinHistory(ctx, userID, limit, offset)
	if err != nil {
		return domain.Page[domain.CoinTransaction]{}, fmt.Errorf("loading coin history: %w", err)
	}
	return domain.NewPage(items, total, limit, offset), nil
}

// TipHistoryResponse is a tip history page with sent/received totals.
type TipHistoryResponse struct {
	domain.Page[domain.CoinTransaction]
	Totals domain.TipTotals `json:"totals"`
}

// TipHistory returns a page of tip transactions plus lifetime totals.
// direction is "sent", "received" or empty for both.
func (s *LedgerService) TipHistory(ctx context.Context, userID string, limit, offset int, direction string) (TipHistoryResponse, error) {
	switch direction {
	case "", "sent", "received":
	default:
		return TipHistoryResponse{}, fmt.Errorf("%w: type must be sent or received", domain.ErrInvalidRequest)
	}

	limit = s.clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.store.TipHistory(ctx, userID, limit, offset, direction)
	if err != nil {
		return TipHistoryResponse{}, fmt.Errorf("loading tip history: %w", err)
	}

	totals, err := s.store.TipTotals(ctx, userID)
	if err != nil {
		return TipHistoryResponse{}, fmt.Errorf("loading tip totals: %w", err)
	}

	return TipHistoryResponse{
		Page:   domain.NewPage(items, total, limit, offset),
		Totals: totals,
	}, nil
}

// SendTip transfers coins between two users atomically.
func (s *LedgerService) SendTip(ctx context.Context, fromUserID, toUserID string, amount int64) error {
	if toUserID == "" || amount <= 0 {
		return fmt.Errorf("%w: recipient and a positive amount are required", domain.ErrInvalidRequest)
	}
	if fromUserID == toUserID {
		return fmt.Errorf("%w: cannot tip yourself", domain.ErrInvalidRequest)
	}
	return s.store.TransferCoins(ctx, fromUserID, toUserID, amount)
}

// CreatePrediction validates and records a user's pick for a game. The store
// enforces one prediction per (user, game) with an atomic insert-if-absent.
func (s *LedgerService) CreatePrediction(ctx context.Context, userID string, req domain.PredictionRequest) (*domain.Prediction, error) {
	if req.GameID == "" || req.PredictedWinner == "" {
		return nil, fmt.Errorf("%w: game_id and predicted_winner are required", domain.ErrInvalidRequest)
	}

	game, err := s.store.GetGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	if !s.now().Before(game.DateTime) {
		return nil, domain.ErrGameStarted
	}

	if !matchesTeam(req.PredictedWinner, game.HomeTeam) && !matchesTeam(req.PredictedWinner, game.AwayTeam) {
		return nil, domain.ErrInvalidTeam
	}

	return s.store.CreatePrediction(ctx, domain.Prediction{
		UserID:          userID,
		GameID:          req.GameID,
		PredictedWinner: req.PredictedWinner,
		Status:          domain.PredictionPending,
		CreatedAt:       s.now(),
	})
}

func matchesTeam(pick string, side domain.TeamSide) bool {
	return strings.EqualFold(pick, side.Abbr) || strings.EqualFold(pick, side.Name)
}

// Predictions dispatches the three GET query shapes: upcoming games open for
// prediction, the user's own picks, and the user's settled results.
func (s *LedgerService) Predictions(ctx context.Context, queryType, userID string) (any, error) {
	switch queryType {
	case "", "upcoming":
		return s.store.ListUpcomingGames(ctx, s.now(), s.cfg.DefaultLimit)
	case "user":
		return s.store.ListUserPredictions(ctx, userID)
	case "results":
		return s.store.ListSettledPredictions(ctx, userID, s.cfg.MaxLimit)
	default:
		return nil, fmt.Errorf("%w: type must be upcoming, user or results", domain.ErrInvalidRequest)
	}
}

// Leaderboard returns the requested board. Coins and streak boards are served
// from the Redis mirror when warm, falling back to the store.
func (s *LedgerService) Leaderboard(ctx context.Context, boardType string, limit int) ([]domain.LeaderboardRow, error) {
	limit = s.clampLimit(limit)

	switch boardType {
	case "", "predictions":
		return s.store.PredictionLeaderboard(ctx, s.cfg.MinSettled, limit)
	case "coins":
		return s.mirroredBoard(ctx, "coins", limit, s.store.CoinsLeaderboard)
	case "streak":
		return s.mirroredBoard(ctx, "streak", limit, s.store.StreakLeaderboard)
	default:
		return nil, fmt.Errorf("%w: type must be predictions, coins or streak", domain.ErrInvalidRequest)
	}
}

func (s *LedgerService) mirroredBoard(ctx context.Context, board string, limit int, fallback func(context.Context, int) ([]domain.LeaderboardRow, error)) ([]domain.LeaderboardRow, error) {
	if s.mirror != nil {
		rows, err := s.mirror.TopN(ctx, board, limit)
		if err == nil && len(rows) > 0 {
			return rows, nil
		}
		if err != nil {
			s.logger.Warn("leaderboard mirror read failed, falling back", "board", board, "error", err)
		}
	}
	return fallback(ctx, limit)
}

// SearchPhotos looks up gallery photos by keyword and team.
func (s *LedgerService) SearchPhotos(ctx context.Context, query, team string, limit int) ([]domain.Photo, error) {
	if query == "" && team == "" {
		return nil, fmt.Errorf("%w: q or team is required", domain.ErrInvalidRequest)
	}
	return s.store.SearchPhotos(ctx, query, team, s.clampLimit(limit))
}
