package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmarins/bingo-live/config"
	"github.com/dmarins/bingo-live/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestService spins up an isolated in-memory database with the real
// schema and a bootstrapped round.
func newTestService(t *testing.T) *RoundService {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	svc := NewRoundService(db, zap.NewNop().Sugar())
	require.NoError(t, svc.EnsureRound(context.Background()))
	return svc
}

func createUser(t *testing.T, svc *RoundService, name string, balance int64) *models.User {
	t.Helper()
	user := &models.User{ID: uuid.NewString(), Name: name, Balance: balance}
	require.NoError(t, svc.db.Create(user).Error)
	return user
}

func getUser(t *testing.T, svc *RoundService, id string) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, svc.db.First(&user, "id = ?", id).Error)
	return &user
}

// forceCountdown pins the round countdown so the next tick acts instead
// of counting.
func forceCountdown(t *testing.T, svc *RoundService, value int) {
	t.Helper()
	err := svc.updateRound(context.Background(), func(tx *gorm.DB, round *models.Round) error {
		round.Countdown = value
		return nil
	})
	require.NoError(t, err)
}

func currentRound(t *testing.T, svc *RoundService) *models.Round {
	t.Helper()
	round, err := svc.GetRound(context.Background())
	require.NoError(t, err)
	return round
}
