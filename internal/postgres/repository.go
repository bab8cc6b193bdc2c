package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phillyfan-api/internal/config"
	"github.com/phillyfan-api/internal/domain"
)

// Repository provides PostgreSQL-based data access
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(cfg *config.PostgresConfig, logger *slog.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// RunMigrations executes database migrations
func (r *Repository) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			username VARCHAR(255) NOT NULL,
			coin_balance BIGINT NOT NULL DEFAULT 0,
			lifetime_coins BIGINT NOT NULL DEFAULT 0,
			daily_login_streak INT NOT NULL DEFAULT 0,
			badges TEXT[] NOT NULL DEFAULT '{}',
			predictions_total INT NOT NULL DEFAULT 0,
			predictions_correct INT NOT NULL DEFAULT 0,
			predictions_settled INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS games (
			id VARCHAR(64) PRIMARY KEY,
			sport VARCHAR(16) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			date_time TIMESTAMPTZ NOT NULL,
			venue VARCHAR(255),
			channel VARCHAR(64),
			home_abbr VARCHAR(16) NOT NULL,
			home_name VARCHAR(128) NOT NULL,
			home_score INT NOT NULL DEFAULT 0,
			away_abbr VARCHAR(16) NOT NULL,
			away_name VARCHAR(128) NOT NULL,
			away_score INT NOT NULL DEFAULT 0,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS predictions (
			id BIGSERIAL PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL REFERENCES users(id),
			game_id VARCHAR(64) NOT NULL REFERENCES games(id),
			predicted_winner VARCHAR(128) NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'pending',
			coins_won BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE(user_id, game_id)
		)`,
		`CREATE TABLE IF NOT EXISTS coin_transactions (
			id UUID PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL REFERENCES users(id),
			type VARCHAR(20) NOT NULL,
			amount BIGINT NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS photos (
			id UUID PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			team VARCHAR(64),
			keywords TEXT,
			url TEXT NOT NULL,
			relevance INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_games_date ON games(date_time)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_user ON predictions(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_predictions_game ON predictions(game_id) WHERE status = 'pending'`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user ON coin_transactions(user_id, created_at DESC)`,
	}

	for _, migration := range migrations {
		_, err := r.pool.Exec(ctx, migration)
		if err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	r.logger.Info("database migrations completed")
	return nil
}

// GetUser loads a user by ID.
func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, username, coin_balance, lifetime_coins, daily_login_streak,
		       badges, predictions_total, predictions_correct, predictions_settled, created_at
		FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Username, &u.CoinBalance, &u.LifetimeCoins, &u.DailyLoginStreak,
		&u.Badges, &u.PredictionStats.Total, &u.PredictionStats.Correct,
		&u.PredictionStats.Settled, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}
	return &u, nil
}

// GetGame loads a game by ID.
func (r *Repository) GetGame(ctx context.Context, id string) (*domain.NormalizedGame, error) {
	var g domain.NormalizedGame
	err := r.pool.QueryRow(ctx, `
		SELECT id, sport, status, date_time, COALESCE(venue, ''), COALESCE(channel, ''),
		       home_abbr, home_name, home_score, away_abbr, away_name, away_score
		FROM games WHERE id = $1`, id,
	).Scan(&g.ID, &g.Sport, &g.Status, &g.DateTime, &g.Venue, &g.Channel,
		&g.HomeTeam.Abbr, &g.HomeTeam.Name, &g.HomeTeam.Score,
		&g.AwayTeam.Abbr, &g.AwayTeam.Name, &g.AwayTeam.Score)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading game: %w", err)
	}
	return &g, nil
}

// UpsertGame records or refreshes a game from a provider feed.
func (r *Repository) UpsertGame(ctx context.Context, g domain.NormalizedGame) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO games (id, sport, status, date_time, venue, channel,
		                   home_abbr, home_name, home_score, away_abbr, away_name, away_score, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			date_time = EXCLUDED.date_time,
			home_score = EXCLUDED.home_score,
			away_score = EXCLUDED.away_score,
			updated_at = NOW()`,
		g.ID, g.Sport, g.Status, g.DateTime, g.Venue, g.Channel,
		g.HomeTeam.Abbr, g.HomeTeam.Name, g.HomeTeam.Score,
		g.AwayTeam.Abbr, g.AwayTeam.Name, g.AwayTeam.Score)
	if err != nil {
		return fmt.Errorf("upserting game: %w", err)
	}
	return nil
}

// ListUpcomingGames returns scheduled games that have not started yet.
func (r *Repository) ListUpcomingGames(ctx context.Context, now time.Time, limit int) ([]domain.NormalizedGame, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, sport, status, date_time, COALESCE(venue, ''), COALESCE(channel, ''),
		       home_abbr, home_name, home_score, away_abbr, away_name, away_score
		FROM games
		WHERE status = 'scheduled' AND date_time > $1
		ORDER BY date_time ASC
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("listing upcoming games: %w", err)
	}
	defer rows.Close()

	games := make([]domain.NormalizedGame, 0)
	for rows.Next() {
		var g domain.NormalizedGame
		if err := rows.Scan(&g.ID, &g.Sport, &g.Status, &g.DateTime, &g.Venue, &g.Channel,
			&g.HomeTeam.Abbr, &g.HomeTeam.Name, &g.HomeTeam.Score,
			&g.AwayTeam.Abbr, &g.AwayTeam.Name, &g.AwayTeam.Score); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// CreatePrediction inserts a prediction if the user has none for the game.
// Uniqueness is enforced by the store's unique index, not a read-then-write.
func (r *Repository) CreatePrediction(ctx context.Context, p domain.Prediction) (*domain.Prediction, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO predictions (user_id, game_id, predicted_winner, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, game_id) DO NOTHING
		RETURNING id, created_at`,
		p.UserID, p.GameID, p.PredictedWinner, domain.PredictionPending, p.CreatedAt,
	).Scan(&p.ID, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrDuplicatePrediction
	}
	if err != nil {
		return nil, fmt.Errorf("inserting prediction: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET predictions_total = predictions_total + 1 WHERE id = $1`,
		p.UserID); err != nil {
		return nil, fmt.Errorf("updating prediction stats: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing prediction: %w", err)
	}

	p.Status = domain.PredictionPending
	return &p, nil
}

// ListUserPredictions returns all of a user's predictions, newest first.
func (r *Repository) ListUserPredictions(ctx context.Context, userID string) ([]domain.Prediction, error) {
	return r.queryPredictions(ctx, `
		SELECT id, user_id, game_id, predicted_winner, status, coins_won, created_at
		FROM predictions WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
}

// ListSettledPredictions returns a user's settled predictions, newest first.
func (r *Repository) ListSettledPredictions(ctx context.Context, userID string, limit int) ([]domain.Prediction, error) {
	return r.queryPredictions(ctx, `
		SELECT id, user_id, game_id, predicted_winner, status, coins_won, created_at
		FROM predictions WHERE user_id = $1 AND status IN ('won', 'lost')
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit)
}

func (r *Repository) queryPredictions(ctx context.Context, sql string, args ...any) ([]domain.Prediction, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing predictions: %w", err)
	}
	defer rows.Close()

	predictions := make([]domain.Prediction, 0)
	for rows.Next() {
		var p domain.Prediction
		if err := rows.Scan(&p.ID, &p.UserID, &p.GameID, &p.PredictedWinner,
			&p.Status, &p.CoinsWon, &p.CreatedAt); err != nil {
			return nil, err
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

// PredictionLeaderboard ranks users by accuracy over settled predictions,
// excluding anyone below the minimum settled count.
func (r *Repository) PredictionLeaderboard(ctx context.Context, minSettled, limit int) ([]domain.LeaderboardRow, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT u.id, u.username,
		       COUNT(*) FILTER (WHERE p.status = 'won') AS correct,
		       COUNT(*) AS settled
		FROM predictions p
		JOIN users u ON u.id = p.user_id
		WHERE p.status IN ('won', 'lost')
		GROUP BY u.id, u.username
		HAVING COUNT(*) >= $1
		ORDER BY COUNT(*) FILTER (WHERE p.status = 'won')::FLOAT / COUNT(*) DESC,
		         COUNT(*) FILTER (WHERE p.status = 'won') DESC
		LIMIT $2`, minSettled, limit)
	if err != nil {
		return nil, fmt.Errorf("loading prediction leaderboard: %w", err)
	}
	defer rows.Close()

	board := make([]domain.LeaderboardRow, 0)
	for rows.Next() {
		var row domain.LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.Username, &row.Correct, &row.Settled); err != nil {
			return nil, err
		}
		row.Rank = len(board) + 1
		row.Accuracy = float64(row.Correct) / float64(row.Settled)
		row.Score = int64(row.Correct)
		board = append(board, row)
	}
	return board, rows.Err()
}

// CoinsLeaderboard ranks users by coin balance.
func (r *Repository) CoinsLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	return r.scalarLeaderboard(ctx, "coin_balance", limit)
}

// StreakLeaderboard ranks users by daily login streak.
func (r *Repository) StreakLeaderboard(ctx context.Context, limit int) ([]domain.LeaderboardRow, error) {
	return r.scalarLeaderboard(ctx, "daily_login_streak", limit)
}

func (r *Repository) scalarLeaderboard(ctx context.Context, column string, limit int) ([]domain.LeaderboardRow, error) {
	// column is one of two fixed identifiers, never user input.
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, username, %s FROM users
		ORDER BY %s DESC, username ASC
		LIMIT $1`, column, column), limit)
	if err != nil {
		return nil, fmt.Errorf("loading leaderboard: %w", err)
	}
	defer rows.Close()

	board := make([]domain.LeaderboardRow, 0)
	for rows.Next() {
		var row domain.LeaderboardRow
		if err := rows.Scan(&row.UserID, &row.Username, &row.Score); err != nil {
			return nil, err
		}
		row.Rank = len(board) + 1
		board = append(board, row)
	}
	return board, rows.Err()
}

// CoinHistory returns a page of a user's ledger entries plus the total count.
func (r *Repository) CoinHistory(ctx context.Context, userID string, limit, offset int) ([]domain.CoinTransaction, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM coin_transactions WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting transactions: %w", err)
	}

	items, err := r.queryTransactions(ctx, `
		SELECT id, user_id, type, amount, COALESCE(description, ''), created_at
		FROM coin_transactions WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	return items, total, err
}

// TipHistory returns a page of tip transactions for a user.
func (r *Repository) TipHistory(ctx context.Context, userID string, limit, offset int, direction string) ([]domain.CoinTransaction, int64, error) {
	types := []string{string(domain.TxTipSent), string(domain.TxTipReceived)}
	switch direction {
	case "sent":
		types = []string{string(domain.TxTipSent)}
	case "received":
		types = []string{string(domain.TxTipReceived)}
	}

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM coin_transactions WHERE user_id = $1 AND type = ANY($2)`,
		userID, types,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting tips: %w", err)
	}

	items, err := r.queryTransactions(ctx, `
		SELECT id, user_id, type, amount, COALESCE(description, ''), created_at
		FROM coin_transactions WHERE user_id = $1 AND type = ANY($2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`, userID, types, limit, offset)
	return items, total, err
}

func (r *Repository) queryTransactions(ctx context.Context, sql string, args ...any) ([]domain.CoinTransaction, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	items := make([]domain.CoinTransaction, 0)
	for rows.Next() {
		var t domain.CoinTransaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// TipTotals aggregates a user's lifetime tips sent and received.
func (r *Repository) TipTotals(ctx context.Context, userID string) (domain.TipTotals, error) {
	var totals domain.TipTotals
	err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount) FILTER (WHERE type = $2), 0),
		       COALESCE(SUM(amount) FILTER (WHERE type = $3), 0)
		FROM coin_transactions WHERE user_id = $1`,
		userID, domain.TxTipSent, domain.TxTipReceived,
	).Scan(&totals.Sent, &totals.Received)
	if err != nil {
		return domain.TipTotals{}, fmt.Errorf("aggregating tips: %w", err)
	}
	return totals, nil
}

// TransferCoins moves coins between users in one transaction. The sender's
// decrement is conditional on sufficient balance, so concurrent tips cannot
// overdraw.
func (r *Repository) TransferCoins(ctx context.Context, fromUserID, toUserID string, amount int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users SET coin_balance = coin_balance - $1
		WHERE id = $2 AND coin_balance >= $1`, amount, fromUserID)
	if err != nil {
		return fmt.Errorf("debiting sender: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientCoins
	}

	tag, err = tx.Exec(ctx, `
		UPDATE users SET coin_balance = coin_balance + $1, lifetime_coins = lifetime_coins + $1
		WHERE id = $2`, amount, toUserID)
	if err != nil {
		return fmt.Errorf("crediting recipient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}

	now := time.Now()
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO coin_transactions (id, user_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), fromUserID, domain.TxTipSent, -amount, "tip to "+toUserID, now)
	batch.Queue(`INSERT INTO coin_transactions (id, user_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New(), toUserID, domain.TxTipReceived, amount, "tip from "+fromUserID, now)
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("recording tip transactions: %w", err)
	}

	return tx.Commit(ctx)
}

// SearchPhotos matches gallery photos on keywords and team, sorted by the
// fixed relevance score then recency.
func (r *Repository) SearchPhotos(ctx context.Context, query, team string, limit int) ([]domain.Photo, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, COALESCE(team, ''), COALESCE(keywords, ''), url, relevance, created_at
		FROM photos
		WHERE ($1 = '' OR title ILIKE '%' || $1 || '%' OR keywords ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR team ILIKE $2)
		ORDER BY relevance DESC, created_at DESC
		LIMIT $3`, query, team, limit)
	if err != nil {
		return nil, fmt.Errorf("searching photos: %w", err)
	}
	defer rows.Close()

	photos := make([]domain.Photo, 0)
	for rows.Next() {
		var p domain.Photo
		if err := rows.Scan(&p.ID, &p.Title, &p.Team, &p.Keywords, &p.URL, &p.Relevance, &p.CreatedAt); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

// ListUsersForMirror streams the columns the leaderboard mirror needs.
func (r *Repository) ListUsersForMirror(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, coin_balance, daily_login_streak FROM users`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.CoinBalance, &u.DailyLoginStreak); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// SettleGame marks a game final and settles every pending prediction on it:
// winners get status won plus a coin credit, everyone else gets lost. An
// empty winner voids the game instead. A game already final or canceled is a
// no-op, making settlement idempotent at the game level.
func (r *Repository) SettleGame(ctx context.Context, s domain.GameSettlement, winCoins int64) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		status             domain.GameStatus
		homeAbbr, homeName string
		awayAbbr, awayName string
	)
	err = tx.QueryRow(ctx,
		`SELECT status, home_abbr, home_name, away_abbr, away_name
		 FROM games WHERE id = $1 FOR UPDATE`, s.GameID,
	).Scan(&status, &homeAbbr, &homeName, &awayAbbr, &awayName)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.ErrGameNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("locking game: %w", err)
	}
	if status == domain.StatusFinal || status == domain.StatusCanceled {
		return 0, nil
	}

	// An empty winner voids the game: pending predictions are voided rather
	// than settled, so they count toward neither accuracy nor coins.
	if s.Winner == "" {
		if _, err := tx.Exec(ctx, `
			UPDATE games SET status = 'canceled', updated_at = NOW()
			WHERE id = $1`, s.GameID); err != nil {
			return 0, fmt.Errorf("voiding game: %w", err)
		}
		tag, err := tx.Exec(ctx, `
			UPDATE predictions SET status = 'voided'
			WHERE game_id = $1 AND status = 'pending'`, s.GameID)
		if err != nil {
			return 0, fmt.Errorf("voiding predictions: %w", err)
		}
		if err := tx.Commit(ctx); err != nil {
			return 0, fmt.Errorf("committing void: %w", err)
		}
		return int(tag.RowsAffected()), nil
	}

	// Predictions may hold either the abbreviation or the full team name, and
	// so may the settlement event. Resolve the winning side to settle both.
	winnerAbbr, winnerName := s.Winner, s.Winner
	switch {
	case strings.EqualFold(s.Winner, homeAbbr) || strings.EqualFold(s.Winner, homeName):
		winnerAbbr, winnerName = homeAbbr, homeName
	case strings.EqualFold(s.Winner, awayAbbr) || strings.EqualFold(s.Winner, awayName):
		winnerAbbr, winnerName = awayAbbr, awayName
	}

	if _, err := tx.Exec(ctx, `
		UPDATE games SET status = 'final', home_score = $2, away_score = $3, updated_at = NOW()
		WHERE id = $1`, s.GameID, s.HomeScore, s.AwayScore); err != nil {
		return 0, fmt.Errorf("finalizing game: %w", err)
	}

	// Winners first: collect them so coin credits and ledger rows line up.
	rows, err := tx.Query(ctx, `
		UPDATE predictions SET status = 'won', coins_won = $4
		WHERE game_id = $1 AND status = 'pending'
		  AND (predicted_winner ILIKE $2 OR predicted_winner ILIKE $3)
		RETURNING user_id`, s.GameID, winnerAbbr, winnerName, winCoins)
	if err != nil {
		return 0, fmt.Errorf("settling winners: %w", err)
	}
	winners := make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			rows.Close()
			return 0, err
		}
		winners = append(winners, userID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE predictions SET status = 'lost'
		WHERE game_id = $1 AND status = 'pending'`, s.GameID)
	if err != nil {
		return 0, fmt.Errorf("settling losers: %w", err)
	}
	settled := len(winners) + int(tag.RowsAffected())

	if _, err := tx.Exec(ctx, `
		UPDATE users SET predictions_settled = predictions_settled + 1
		WHERE id IN (SELECT user_id FROM predictions WHERE game_id = $1)`, s.GameID); err != nil {
		return 0, fmt.Errorf("updating settled counts: %w", err)
	}

	if len(winners) > 0 {
		if _, err := tx.Exec(ctx, `
			UPDATE users SET predictions_correct = predictions_correct + 1,
			                 coin_balance = coin_balance + $2,
			                 lifetime_coins = lifetime_coins + $2
			WHERE id = ANY($1)`, winners, winCoins); err != nil {
			return 0, fmt.Errorf("crediting winners: %w", err)
		}

		batch := &pgx.Batch{}
		for _, userID := range winners {
			batch.Queue(`INSERT INTO coin_transactions (id, user_id, type, amount, description, created_at)
				VALUES ($1, $2, $3, $4, $5, NOW())`,
				uuid.New(), userID, domain.TxPredictionWin, winCoins,
				"correct prediction on game "+s.GameID)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("recording win transactions: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing settlement: %w", err)
	}
	return settled, nil
}
