package domain

import "time"

// PredictionStatus represents the settlement state of a prediction.
type PredictionStatus string

const (
	PredictionPending PredictionStatus = "pending"
	PredictionWon     PredictionStatus = "won"
	PredictionLost    PredictionStatus = "lost"
	PredictionVoided  PredictionStatus = "voided"
)

// Prediction is a user's pick for a game. Immutable once created except for
// status/coins updates applied by settlement.
type Prediction struct {
	ID              int64            `json:"id"`
	UserID          string           `json:"user_id"`
	GameID          string           `json:"game_id"`
	PredictedWinner string           `json:"predicted_winner"`
	Status          PredictionStatus `json:"status"`
	CoinsWon        int64            `json:"coins_won"`
	CreatedAt       time.Time        `json:"created_at"`
}

// TransactionType classifies a coin ledger entry.
type TransactionType string

const (
	TxTipSent       TransactionType = "tip_sent"
	TxTipReceived   TransactionType = "tip_received"
	TxPredictionWin TransactionType = "prediction_win"
	TxDailyLogin    TransactionType = "daily_login"
	TxPurchase      TransactionType = "purchase"
)

// CoinTransaction is an append-only ledger entry.
type CoinTransaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        TransactionType `json:"type"`
	Amount      int64           `json:"amount"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PredictionStats is the denormalized per-user prediction record.
type PredictionStats struct {
	Total   int `json:"total"`
	Correct int `json:"correct"`
	Settled int `json:"settled"`
}

// User is the persisted account record read and incrementally updated by
// the ledger endpoints. Registration and profile management live elsewhere.
type User struct {
	ID               string          `json:"id"`
	Username         string          `json:"username"`
	CoinBalance      int64           `json:"coin_balance"`
	LifetimeCoins    int64           `json:"lifetime_coins"`
	DailyLoginStreak int             `json:"daily_login_streak"`
	Badges           []string        `json:"badges,omitempty"`
	PredictionStats  PredictionStats `json:"prediction_stats"`
	CreatedAt        time.Time       `json:"created_at"`
}

// PredictionRequest is the POST /api/predictions body.
type PredictionRequest struct {
	GameID          string `json:"game_id"`
	PredictedWinner string `json:"predicted_winner"`
}

// LeaderboardRow is one row of a gamification leaderboard.
type LeaderboardRow struct {
	Rank     int     `json:"rank"`
	UserID   string  `json:"user_id"`
	Username string  `json:"username"`
	Score    int64   `json:"score"`
	Accuracy float64 `json:"accuracy,omitempty"`
	Correct  int     `json:"correct,omitempty"`
	Settled  int     `json:"settled,omitempty"`
}

// GameSettlement is the settlement event consumed from Kafka for a finished
// game. Winner is the team abbreviation, or empty for a voided game.
type GameSettlement struct {
	GameID    string    `json:"game_id"`
	Winner    string    `json:"winner"`
	HomeScore int       `json:"home_score"`
	AwayScore int       `json:"away_score"`
	Timestamp time.Time `json:"timestamp"`
}

// TipTotals aggregates a user's tipping activity.
type TipTotals struct {
	Sent     int64 `json:"sent"`
	Received int64 `json:"received"`
}

// Page wraps a paginated ledger read.
type Page[T any] struct {
	Items   []T   `json:"items"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// NewPage computes the pagination envelope for a result slice.
func NewPage[T any](items []T, total int64, limit, offset int) Page[T] {
	return Page[T]{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+len(items)) < total,
	}
}
