package services

import (
	"context"
	"testing"

	"github.com/dmarins/bingo-live/game"
	"github.com/dmarins/bingo-live/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTickLobbyCountsDown(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Tick(ctx, "driver-1"))
	assert.Equal(t, DefaultLobbyCountdownSec-1, currentRound(t, svc).Countdown)
}

func TestTickLobbyRearmsWithoutCards(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	forceCountdown(t, svc, 0)
	require.NoError(t, svc.Tick(ctx, "driver-1"))

	round := currentRound(t, svc)
	assert.Equal(t, models.RoundWaiting, round.Status, "no cards sold, lobby must re-arm")
	assert.Equal(t, round.LobbyCountdownSec, round.Countdown)
}

func TestTickImplicitStart(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := createUser(t, svc, "Ana", 100)
	_, err := svc.PurchaseCard(ctx, user.ID)
	require.NoError(t, err)

	forceCountdown(t, svc, 0)
	require.NoError(t, svc.Tick(ctx, "driver-1"))

	round := currentRound(t, svc)
	assert.Equal(t, models.RoundRunning, round.Status)
	assert.Equal(t, "driver-1", round.HostID)
	assert.Equal(t, round.DrawIntervalSec, round.Countdown)
}

func TestTickPausedIsNoop(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.StartRound(ctx, "admin-1", "Admin"))
	require.NoError(t, svc.Pause(ctx, "admin-1", "Admin", "maintenance"))

	notified := 0
	svc.OnChange(func() { notified++ })

	before := currentRound(t, svc)
	require.NoError(t, svc.Tick(ctx, "driver-1"))
	after := currentRound(t, svc)

	assert.Equal(t, before.Countdown, after.Countdown)
	assert.Equal(t, models.RoundPaused, after.Status)
	assert.Equal(t, before.Version, after.Version, "a no-op tick must not rewrite the round")
	assert.Equal(t, 0, notified, "a no-op tick must not wake subscribers")
}

func TestTickDrawsUniqueNumbers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := createUser(t, svc, "Ana", 100)
	_, err := svc.PurchaseCard(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.StartRound(ctx, "admin-1", "Admin"))

	prevLen := 0
	for i := 0; i < 30; i++ {
		forceCountdown(t, svc, 0)
		require.NoError(t, svc.Tick(ctx, "driver-1"))

		round := currentRound(t, svc)
		if round.Status != models.RoundRunning {
			break
		}
		drawn := round.Drawn()
		assert.Equal(t, prevLen+1, len(drawn), "each draw tick appends exactly one number")
		prevLen = len(drawn)

		seen := make(map[int]bool)
		for _, n := range drawn {
			assert.GreaterOrEqual(t, n, 1)
			assert.LessOrEqual(t, n, game.MaxNumber)
			assert.False(t, seen[n], "duplicate draw %d", n)
			seen[n] = true
		}
		assert.Equal(t, round.DrawIntervalSec, round.Countdown, "countdown reseeds after a draw")
	}
	assert.GreaterOrEqual(t, prevLen, 20)
}

func TestTickUpdatesPlayerProgress(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	user := createUser(t, svc, "Ana", 100)
	_, err := svc.PurchaseCard(ctx, user.ID)
	require.NoError(t, err)
	require.NoError(t, svc.StartRound(ctx, "admin-1", "Admin"))

	forceCountdown(t, svc, 0)
	require.NoError(t, svc.Tick(ctx, "driver-1"))

	entry := currentRound(t, svc).Players()[user.ID]
	require.NotNil(t, entry.NumbersToWin)
	// Lines through the free space have at most 4 unmarked cells.
	assert.LessOrEqual(t, *entry.NumbersToWin, 4)
	assert.GreaterOrEqual(t, *entry.NumbersToWin, 0)
}

func TestTickEndsRoundWhenPoolExhausted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.StartRound(ctx, "admin-1", "Admin"))

	all := make([]int, game.MaxNumber)
	for i := range all {
		all[i] = i + 1
	}
	err := svc.updateRound(ctx, func(tx *gorm.DB, round *models.Round) error {
		round.SetDrawn(all)
		round.Countdown = 0
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, svc.Tick(ctx, "driver-1"))
	round := currentRound(t, svc)
	assert.Equal(t, models.RoundEnded, round.Status)
	assert.Empty(t, round.Winners())
	assert.Equal(t, round.EndGameDelaySec, round.Countdown)
}

// Full round: two players, one card each, driver draws until a blackout.
func TestBlackoutEndsRoundAndSplitsPool(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	ana := createUser(t, svc, "Ana", 100)
	bruno := createUser(t, svc, "Bruno", 100)

	_, err := svc.PurchaseCard(ctx, ana.ID)
	require.NoError(t, err)
	_, err = svc.PurchaseCard(ctx, bruno.ID)
	require.NoError(t, err)

	round := currentRound(t, svc)
	require.EqualValues(t, 2*CardContribution, round.PrizePool)

	require.NoError(t, svc.StartRound(ctx, "admin-1", "Admin"))

	for i := 0; i < game.MaxNumber+1; i++ {
		forceCountdown(t, svc, 0)
		require.NoError(t, svc.Tick(ctx, "driver-1"))
		if currentRound(t, svc).Status == models.RoundEnded {
			break
		}
	}

	round = currentRound(t, svc)
	require.Equal(t, models.RoundEnded, round.Status, "a blackout must occur before the pool runs out")
	winners := round.Winners()
	require.NotEmpty(t, winners)
	assert.LessOrEqual(t, len(round.Drawn()), game.MaxNumber)

	pool := int64(2 * CardContribution)
	share := pool / int64(len(winners))
	balances := map[string]int64{ana.ID: 0, bruno.ID: 0}
	for _, w := range winners {
		assert.Equal(t, share, w.Payout, "even split with integer floor")
		require.Contains(t, balances, w.PlayerID)
		balances[w.PlayerID] = share
		assert.True(t, game.Blackout(w.Card, round.Drawn()), "winner card must be fully covered")
	}
	for id, payout := range balances {
		assert.EqualValues(t, 100-CardPrice+payout, getUser(t, svc, id).Balance)
	}
}

func TestTickEndedHostAutoResets(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	err := svc.updateRound(ctx, func(tx *gorm.DB, round *models.Round) error {
		round.Status = models.RoundEnded
		round.HostID = "driver-1"
		round.Countdown = 1
		return nil
	})
	require.NoError(t, err)
	oldToken := currentRound(t, svc).RoundToken

	require.NoError(t, svc.Tick(ctx, "driver-1"))
	assert.Equal(t, 0, currentRound(t, svc).Countdown)

	// A rival driver that does not hold host must not reset, and has
	// nothing to commit while it waits the host out.
	waiting := currentRound(t, svc)
	require.NoError(t, svc.Tick(ctx, "driver-2"))
	after := currentRound(t, svc)
	assert.Equal(t, models.RoundEnded, after.Status)
	assert.Equal(t, waiting.Version, after.Version)

	require.NoError(t, svc.Tick(ctx, "driver-1"))
	round := currentRound(t, svc)
	assert.Equal(t, models.RoundWaiting, round.Status)
	assert.NotEqual(t, oldToken, round.RoundToken)

	var history int64
	require.NoError(t, svc.db.Model(&models.RoundHistory{}).Where("round_token = ?", oldToken).Count(&history).Error)
	assert.EqualValues(t, 1, history)
}

func TestTickMissingRoundIsFatal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.db.Delete(&models.Round{}, models.RoundSingletonID).Error)

	err := svc.Tick(ctx, "driver-1")
	require.ErrorIs(t, err, ErrRoundMissing)

	// The driver never recreates the record.
	var count int64
	require.NoError(t, svc.db.Model(&models.Round{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
