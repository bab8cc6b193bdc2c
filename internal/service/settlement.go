package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/phillyfan-api/internal/config"
	"github.com/phillyfan-api/internal/domain"
)

// SettlementStore is the persistence surface settlement needs.
type SettlementStore interface {
	GetGame(ctx context.Context, id string) (*domain.NormalizedGame, error)
	SettleGame(ctx context.Context, s domain.GameSettlement, winCoins int64) (int, error)
}

// ScoreBroadcaster pushes score updates to subscribed clients.
type ScoreBroadcaster interface {
	BroadcastScoreUpdate(update domain.ScoreUpdate)
}

// SettlementService applies game settlement events: predictions transition
// to won or lost, winners are credited, and the final score is broadcast.
type SettlementService struct {
	store  SettlementStore
	hub    ScoreBroadcaster
	cfg    *config.LedgerConfig
	logger *slog.Logger
}

// NewSettlementService creates a new settlement service.
func NewSettlementService(store SettlementStore, hub ScoreBroadcaster, cfg *config.LedgerConfig, logger *slog.Logger) *SettlementService {
	return &SettlementService{
		store:  store,
		hub:    hub,
		cfg:    cfg,
		logger: logger,
	}
}

// SettleBatch applies a batch of settlement events. A failing event is logged
// and skipped so one bad message cannot stall the consumer.
func (s *SettlementService) SettleBatch(ctx context.Context, batch []domain.GameSettlement) error {
	for _, settlement := range batch {
		if err := s.settle(ctx, settlement); err != nil {
			s.logger.Error("failed to settle game",
				"game_id", settlement.GameID,
				"error", err,
			)
		}
	}
	return nil
}

func (s *SettlementService) settle(ctx context.Context, settlement domain.GameSettlement) error {
	settled, err := s.store.SettleGame(ctx, settlement, int64(s.cfg.PredictionWinCoins))
	if err != nil {
		return err
	}
	if settled == 0 {
		s.logger.Debug("no pending predictions to settle", "game_id", settlement.GameID)
	} else {
		s.logger.Info("settled game", "game_id", settlement.GameID, "predictions", settled)
	}

	if s.hub == nil {
		return nil
	}
	game, err := s.store.GetGame(ctx, settlement.GameID)
	if err != nil {
		return err
	}
	s.hub.BroadcastScoreUpdate(domain.ScoreUpdate{
		GameID:    game.ID,
		Sport:     game.Sport,
		HomeTeam:  game.HomeTeam.Abbr,
		AwayTeam:  game.AwayTeam.Abbr,
		HomeScore: settlement.HomeScore,
		AwayScore: settlement.AwayScore,
		Status:    game.Status,
		Timestamp: time.Now(),
	})
	return nil
}
