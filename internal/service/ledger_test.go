package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phillyfan-api/internal/domain"
)

type fakeStore struct {
	getUser                func(id string) (*domain.User, error)
	getGame                func(id string) (*domain.NormalizedGame, error)
	listUpcomingGames      func(now time.Time, limit int) ([]domain.NormalizedGame, error)
	createPrediction       func(p domain.Prediction) (*domain.Prediction, error)
	listUserPredictions    func(userID string) ([]domain.Prediction, error)
	listSettledPredictions func(userID string, limit int) ([]domain.Prediction, error)
	predictionLeaderboard  func(minSettled, limit int) ([]domain.LeaderboardRow, error)
	coinsLeaderboard       func(limit int) ([]domain.LeaderboardRow, error)
	streakLeaderboard      func(limit int) ([]domain.LeaderboardRow, error)
	coinHistory            func(userID string, limit, offset int) ([]domain.CoinTransaction, int64, error)
	tipHistory             func(userID string, limit, offset int, direction string) ([]domain.CoinTransaction, int64, error)
	tipTotals              func(userID string) (domain.TipTotals, error)
	transferCoins          func(from, to string, amount int64) error
	searchPhotos           func(query, team string, limit int) ([]domain.Photo, error)
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*domain.User, error) {
	return f.getUser(id)
}

func (f *fakeStore) GetGame(_ context.Context, id string) (*domain.NormalizedGame, error) {
	return f.getGame(id)
}

func (f *fakeStore) ListUpcomingGames(_ context.Context, now time.Time, limit int) ([]domain.NormalizedGame, error) {
	return f.listUpcomingGames(now, limit)
}

func (f *fakeStore) CreatePrediction(_ context.Context, p domain.Prediction) (*domain.Prediction, error) {
	return f.createPrediction(p)
}

func (f *fakeStore) ListUserPredictions(_ context.Context, userID string) ([]domain.Prediction, error) {
	return f.listUserPredictions(userID)
}

func (f *fakeStore) ListSettledPredictions(_ context.Context, userID string, limit int) ([]domain.Prediction, error) {
	return f.listSettledPredictions(userID, limit)
}

func (f *fakeStore) PredictionLeaderboard(_ context.Context, minSettled, limit int) ([]domain.LeaderboardRow, error) {
	return f.predictionLeaderboard(minSettled, limit)
}

func (f *fakeStore) CoinsLeaderboard(_ context.Context, limit int) ([]domain.LeaderboardRow, error) {
	return f.coinsLeaderboard(limit)
}

func (f *fakeStore) StreakLeaderboard(_ context.Context, limit int) ([]domain.LeaderboardRow, error) {
	return f.streakLeaderboard(limit)
}

func (f *fakeStore) CoinHistory(_ context.Context, userID string, limit, offset int) ([]domain.CoinTransaction, int64, error) {
	return f.coinHistory(userID, limit, offset)
}

func (f *fakeStore) TipHistory(_ context.Context, userID string, limit, offset int, direction string) ([]domain.CoinTransaction, int64, error) {
	return f.tipHistory(userID, limit, offset, direction)
}

func (f *fakeStore) TipTotals(_ context.Context, userID string) (domain.TipTotals, error) {
	return f.tipTotals(userID)
}

func (f *fakeStore) TransferCoins(_ context.Context, from, to string, amount int64) error {
	return f.transferCoins(from, to, amount)
}

func (f *fakeStore) SearchPhotos(_ context.Context, query, team string, limit int) ([]domain.Photo, error) {
	return f.searchPhotos(query, team, limit)
}

type fakeMirror struct {
	topN func(board string, n int) ([]domain.LeaderboardRow, error)
	rank func(board, userID string) (*domain.LeaderboardRow, error)
}

func (f *fakeMirror) TopN(_ context.Context, board string, n int) ([]domain.LeaderboardRow, error) {
	return f.topN(board, n)
}

func (f *fakeMirror) Rank(_ context.Context, board, userID string) (*domain.LeaderboardRow, error) {
	if f.rank == nil {
		return nil, domain.ErrUserNotFound
	}
	return f.rank(board, userID)
}

func newTestLedgerService(store LedgerStore, mirror LeaderboardMirror, now time.Time) *LedgerService {
	svc := NewLedgerService(store, mirror, testLedgerConfig(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.now = func() time.Time { return now }
	return svc
}

func upcomingGame(start time.Time) *domain.NormalizedGame {
	return &domain.NormalizedGame{
		ID:       "game-1",
		Sport:    domain.SportNFL,
		Status:   domain.StatusScheduled,
		DateTime: start,
		HomeTeam: domain.TeamSide{Abbr: "PHI", Name: "Philadelphia Eagles"},
		AwayTeam: domain.TeamSide{Abbr: "DAL", Name: "Dallas Cowboys"},
	}
}

func TestCreatePredictionHappyPath(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	var inserted domain.Prediction
	store := &fakeStore{
		getGame: func(id string) (*domain.NormalizedGame, error) {
			return upcomingGame(now.Add(2 * time.Hour)), nil
		},
		createPrediction: func(p domain.Prediction) (*domain.Prediction, error) {
			inserted = p
			return &p, nil
		},
	}

	svc := newTestLedgerService(store, nil, now)
	prediction, err := svc.CreatePrediction(context.Background(), "user-1", domain.PredictionRequest{
		GameID:          "game-1",
		PredictedWinner: "Philadelphia Eagles",
	})
	require.NoError(t, err)
	require.NotNil(t, prediction)

	assert.Equal(t, "user-1", inserted.UserID)
	assert.Equal(t, domain.PredictionPending, inserted.Status)
	assert.Equal(t, now, inserted.CreatedAt)
}

func TestCreatePredictionRejectsStartedGame(t *testing.T) {
	start := time.Date(2025, 1, 1, 18, 0, 0, 0, time.UTC)
	store := &fakeStore{
		getGame: func(id string) (*domain.NormalizedGame, error) {
			return upcomingGame(start), nil
		},
	}

	// exactly at kickoff counts as started
	svc := newTestLedgerService(store, nil, start)
	_, err := svc.CreatePrediction(context.Background(), "user-1", domain.PredictionRequest{
		GameID:          "game-1",
		PredictedWinner: "PHI",
	})
	assert.ErrorIs(t, err, domain.ErrGameStarted)

	svc = newTestLedgerService(store, nil, start.Add(time.Hour))
	_, err = svc.CreatePrediction(context.Background(), "user-1", domain.PredictionRequest{
		GameID:          "game-1",
		PredictedWinner: "PHI",
	})
	assert.ErrorIs(t, err, domain.ErrGameStarted)
}

func TestCreatePredictionRejectsUnlistedTeam(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		getGame: func(id string) (*domain.NormalizedGame, error) {
			return upcomingGame(now.Add(time.Hour)), nil
		},
	}

	svc := newTestLedgerService(store, nil, now)
	_, err := svc.CreatePrediction(context.Background(), "user-1", domain.PredictionRequest{
		GameID:          "game-1",
		PredictedWinner: "New York Giants",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTeam)
}

func TestCreatePredictionAcceptsAbbreviationCaseInsensitive(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		getGame: func(id string) (*domain.NormalizedGame, error) {
			return upcomingGame(now.Add(time.Hour)), nil
		},
		createPrediction: func(p domain.Prediction) (*domain.Prediction, error) {
			return &p, nil
		},
	}

	svc := newTestLedgerService(store, nil, now)
	_, err := svc.CreatePrediction(context.Background(), "user-1", domain.PredictionRequest{
		GameID:          "game-1",
		PredictedWinner: "dal",
	})
	assert.NoError(t, err)
}

func TestCreatePredictionMissingFields(t *testing.T) {
	svc := newTestLedgerService(&fakeStore{}, nil, time.Now())
	_, err := svc.CreatePrediction(context.Background(), "user-1", domain.PredictionRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestCreatePredictionPropagatesDuplicate(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := &fakeStore{
		getGame: func(id string) (*domain.NormalizedGame, error) {
			return upcomingGame(now.Add(time.Hour)), nil
		},
		createPrediction: func(p domain.Prediction) (*domain.Prediction, error) {
			return nil, domain.ErrDuplicatePrediction
		},
	}

	svc := newTestLedgerService(store, nil, now)
	_, err := svc.CreatePrediction(context.Background(), "user-1", domain.PredictionRequest{
		GameID:          "game-1",
		PredictedWinner: "PHI",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicatePrediction)
}

func TestCoinHistoryClampsLimit(t *testing.T) {
	var gotLimit, gotOffset int
	store := &fakeStore{
		coinHistory: func(userID string, limit, offset int) ([]domain.CoinTransaction, int64, error) {
			gotLimit, gotOffset = limit, offset
			return nil, 0, nil
		},
	}
	svc := newTestLedgerService(store, nil, time.Now())

	_, err := svc.CoinHistory(context.Background(), "user-1", 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 20, gotLimit)
	assert.Equal(t, 0, gotOffset)

	_, err = svc.CoinHistory(context.Background(), "user-1", 500, 40)
	require.NoError(t, err)
	assert.Equal(t, 100, gotLimit)
	assert.Equal(t, 40, gotOffset)
}

func TestCoinHistoryPageHasMore(t *testing.T) {
	store := &fakeStore{
		coinHistory: func(userID string, limit, offset int) ([]domain.CoinTransaction, int64, error) {
			return make([]domain.CoinTransaction, 20), 45, nil
		},
	}
	svc := newTestLedgerService(store, nil, time.Now())

	page, err := svc.CoinHistory(context.Background(), "user-1", 20, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(45), page.Total)
	assert.True(t, page.HasMore)
}

func TestTipHistoryRejectsUnknownDirection(t *testing.T) {
	svc := newTestLedgerService(&fakeStore{}, nil, time.Now())
	_, err := svc.TipHistory(context.Background(), "user-1", 10, 0, "sideways")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestTipHistoryIncludesTotals(t *testing.T) {
	store := &fakeStore{
		tipHistory: func(userID string, limit, offset int, direction string) ([]domain.CoinTransaction, int64, error) {
			return []domain.CoinTransaction{{Type: domain.TxTipSent, Amount: 25}}, 1, nil
		},
		tipTotals: func(userID string) (domain.TipTotals, error) {
			return domain.TipTotals{Sent: 125, Received: 40}, nil
		},
	}
	svc := newTestLedgerService(store, nil, time.Now())

	resp, err := svc.TipHistory(context.Background(), "user-1", 10, 0, "sent")
	require.NoError(t, err)
	assert.Equal(t, int64(125), resp.Totals.Sent)
	assert.Equal(t, int64(40), resp.Totals.Received)
	assert.Len(t, resp.Items, 1)
}

func TestSendTipValidation(t *testing.T) {
	svc := newTestLedgerService(&fakeStore{}, nil, time.Now())

	assert.ErrorIs(t, svc.SendTip(context.Background(), "a", "", 10), domain.ErrInvalidRequest)
	assert.ErrorIs(t, svc.SendTip(context.Background(), "a", "b", 0), domain.ErrInvalidRequest)
	assert.ErrorIs(t, svc.SendTip(context.Background(), "a", "a", 10), domain.ErrInvalidRequest)
}

func TestSendTipTransfers(t *testing.T) {
	var from, to string
	var amount int64
	store := &fakeStore{
		transferCoins: func(f, t string, a int64) error {
			from, to, amount = f, t, a
			return nil
		},
	}
	svc := newTestLedgerService(store, nil, time.Now())

	require.NoError(t, svc.SendTip(context.Background(), "user-1", "user-2", 25))
	assert.Equal(t, "user-1", from)
	assert.Equal(t, "user-2", to)
	assert.Equal(t, int64(25), amount)
}

func TestLeaderboardDefaultsToPredictions(t *testing.T) {
	var gotMinSettled int
	store := &fakeStore{
		predictionLeaderboard: func(minSettled, limit int) ([]domain.LeaderboardRow, error) {
			gotMinSettled = minSettled
			return []domain.LeaderboardRow{{UserID: "user-1", Rank: 1}}, nil
		},
	}
	svc := newTestLedgerService(store, nil, time.Now())

	rows, err := svc.Leaderboard(context.Background(), "", 10)
	require.NoError(t, err)
	assert.Equal(t, 5, gotMinSettled)
	assert.Len(t, rows, 1)
}

func TestLeaderboardCoinsServedFromMirror(t *testing.T) {
	store := &fakeStore{
		coinsLeaderboard: func(limit int) ([]domain.LeaderboardRow, error) {
			t.Fatal("store should not be hit when the mirror is warm")
			return nil, nil
		},
	}
	mirror := &fakeMirror{
		topN: func(board string, n int) ([]domain.LeaderboardRow, error) {
			assert.Equal(t, "coins", board)
			return []domain.LeaderboardRow{{UserID: "user-1", Score: 900, Rank: 1}}, nil
		},
	}
	svc := newTestLedgerService(store, mirror, time.Now())

	rows, err := svc.Leaderboard(context.Background(), "coins", 10)
	require.NoError(t, err)
	assert.Equal(t, int64(900), rows[0].Score)
}

func TestBalanceIncludesCoinRankWhenMirrorWarm(t *testing.T) {
	store := &fakeStore{
		getUser: func(id string) (*domain.User, error) {
			return &domain.User{ID: id, Username: "birdsfan", CoinBalance: 750}, nil
		},
	}
	mirror := &fakeMirror{
		rank: func(board, userID string) (*domain.LeaderboardRow, error) {
			assert.Equal(t, "coins", board)
			return &domain.LeaderboardRow{Rank: 3, UserID: userID, Score: 750}, nil
		},
	}
	svc := newTestLedgerService(store, mirror, time.Now())

	resp, err := svc.Balance(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(750), resp.CoinBalance)
	assert.Equal(t, 3, resp.CoinRank)
}

func TestBalanceOmitsRankWithoutMirror(t *testing.T) {
	store := &fakeStore{
		getUser: func(id string) (*domain.User, error) {
			return &domain.User{ID: id, CoinBalance: 100}, nil
		},
	}
	svc := newTestLedgerService(store, nil, time.Now())

	resp, err := svc.Balance(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Zero(t, resp.CoinRank)
}

func TestLeaderboardFallsBackWhenMirrorCold(t *testing.T) {
	store := &fakeStore{
		streakLeaderboard: func(limit int) ([]domain.LeaderboardRow, error) {
			return []domain.LeaderboardRow{{UserID: "user-2", Rank: 1}}, nil
		},
	}
	mirror := &fakeMirror{
		topN: func(board string, n int) ([]domain.LeaderboardRow, error) {
			return nil, errors.New("redis down")
		},
	}
	svc := newTestLedgerService(store, mirror, time.Now())

	rows, err := svc.Leaderboard(context.Background(), "streak", 10)
	require.NoError(t, err)
	assert.Equal(t, "user-2", rows[0].UserID)
}

func TestLeaderboardUnknownType(t *testing.T) {
	svc := newTestLedgerService(&fakeStore{}, nil, time.Now())
	_, err := svc.Leaderboard(context.Background(), "karma", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestPredictionsDispatch(t *testing.T) {
	store := &fakeStore{
		listUpcomingGames: func(now time.Time, limit int) ([]domain.NormalizedGame, error) {
			return []domain.NormalizedGame{{ID: "game-1"}}, nil
		},
		listUserPredictions: func(userID string) ([]domain.Prediction, error) {
			return []domain.Prediction{{GameID: "game-1", UserID: userID}}, nil
		},
		listSettledPredictions: func(userID string, limit int) ([]domain.Prediction, error) {
			return []domain.Prediction{{GameID: "game-0", Status: domain.PredictionWon}}, nil
		},
	}
	svc := newTestLedgerService(store, nil, time.Now())

	games, err := svc.Predictions(context.Background(), "", "user-1")
	require.NoError(t, err)
	assert.Len(t, games, 1)

	picks, err := svc.Predictions(context.Background(), "user", "user-1")
	require.NoError(t, err)
	assert.Len(t, picks, 1)

	results, err := svc.Predictions(context.Background(), "results", "user-1")
	require.NoError(t, err)
	assert.Len(t, results, 1)

	_, err = svc.Predictions(context.Background(), "bogus", "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestSearchPhotosRequiresQueryOrTeam(t *testing.T) {
	svc := newTestLedgerService(&fakeStore{}, nil, time.Now())
	_, err := svc.SearchPhotos(context.Background(), "", "", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}
