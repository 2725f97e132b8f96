package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/betsim/internal/adapters/storage"
	"github.com/alejandrodnm/betsim/internal/domain"
)

func makeBet(id string) domain.Bet {
	point := -3.5
	return domain.Bet{
		ID:         id,
		PlacedAt:   time.Now().UTC().Truncate(time.Second),
		GameID:     "game-1",
		Sport:      "nba",
		Market:     domain.MarketSpread,
		Selection:  "Lakers",
		Odds:       -110,
		Stake:      110,
		Strategy:   "arbitrage",
		Sportsbook: "draftkings",
		LinePoint:  &point,
	}
}

func TestSQLite_FreshDatabaseLoadsNil(t *testing.T) {
	db, err := storage.NewSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	snap, err := db.Load(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestSQLite_SaveAndLoadRoundTrip(t *testing.T) {
	db, err := storage.NewSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	bet := makeBet("BET-000001")
	require.NoError(t, db.SaveBet(ctx, bet))

	bankroll := domain.Bankroll{Starting: 10000, Current: 9890, Peak: 10000}
	require.NoError(t, db.SaveMeta(ctx, bankroll, 1))

	snap, err := db.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.InDelta(t, 9890.0, snap.Bankroll.Current, 0.001)
	assert.InDelta(t, 10000.0, snap.Bankroll.Starting, 0.001)
	assert.InDelta(t, 10000.0, snap.Bankroll.Peak, 0.001)
	assert.Equal(t, 1, snap.BetCounter)

	require.Len(t, snap.Bets, 1)
	got := snap.Bets[0]
	assert.Equal(t, "BET-000001", got.ID)
	assert.Equal(t, domain.MarketSpread, got.Market)
	assert.Equal(t, -110, got.Odds)
	require.NotNil(t, got.LinePoint)
	assert.InDelta(t, -3.5, *got.LinePoint, 0.001)
	assert.Nil(t, got.Settlement)
}

func TestSQLite_UpdateBetSettlement(t *testing.T) {
	db, err := storage.NewSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	bet := makeBet("BET-000001")
	require.NoError(t, db.SaveBet(ctx, bet))
	require.NoError(t, db.SaveMeta(ctx, domain.Bankroll{Starting: 10000, Current: 9890, Peak: 10000}, 1))

	closing := -125
	clv := 3.2
	bet.Settlement = &domain.Settlement{
		Result:      domain.ResultWin,
		Profit:      100,
		ClosingOdds: &closing,
		CLV:         &clv,
		SettledAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, db.UpdateBet(ctx, bet))

	snap, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Bets, 1)

	got := snap.Bets[0]
	require.NotNil(t, got.Settlement)
	assert.Equal(t, domain.ResultWin, got.Settlement.Result)
	assert.InDelta(t, 100.0, got.Settlement.Profit, 0.001)
	require.NotNil(t, got.Settlement.ClosingOdds)
	assert.Equal(t, -125, *got.Settlement.ClosingOdds)
	require.NotNil(t, got.Settlement.CLV)
	assert.InDelta(t, 3.2, *got.Settlement.CLV, 0.001)
}

func TestSQLite_UpdateBet_RejectsPending(t *testing.T) {
	db, err := storage.NewSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()

	err = db.UpdateBet(context.Background(), makeBet("BET-000001"))
	assert.Error(t, err)
}

func TestSQLite_SaveMeta_Upserts(t *testing.T) {
	db, err := storage.NewSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	require.NoError(t, db.SaveMeta(ctx, domain.Bankroll{Starting: 10000, Current: 10000, Peak: 10000}, 0))
	require.NoError(t, db.SaveMeta(ctx, domain.Bankroll{Starting: 10000, Current: 10350, Peak: 10350}, 7))

	snap, err := db.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.InDelta(t, 10350.0, snap.Bankroll.Current, 0.001)
	assert.Equal(t, 7, snap.BetCounter)
}

func TestSQLite_LoadPreservesPlacementOrder(t *testing.T) {
	db, err := storage.NewSQLite(":memory:")
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	for _, id := range []string{"BET-000001", "BET-000002", "BET-000003"} {
		require.NoError(t, db.SaveBet(ctx, makeBet(id)))
	}
	require.NoError(t, db.SaveMeta(ctx, domain.Bankroll{Starting: 10000, Current: 9670, Peak: 10000}, 3))

	snap, err := db.Load(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Bets, 3)
	assert.Equal(t, "BET-000001", snap.Bets[0].ID)
	assert.Equal(t, "BET-000003", snap.Bets[2].ID)
}
