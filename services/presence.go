package services

import (
	"context"
	"time"

	"github.com/dmarins/bingo-live/models"
)

// Heartbeat refreshes a player's liveness timestamp. Advisory only: it
// never gates round transitions, so a plain update is enough.
func (s *RoundService) Heartbeat(ctx context.Context, playerID string) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", playerID).
		Update("last_seen_at", time.Now())
	if res.Error != nil {
		return &TransientError{Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return validationf("not_found", "player %s is not registered", playerID)
	}
	return nil
}

// OnlinePlayers lists players whose heartbeat landed inside the presence
// window.
func (s *RoundService) OnlinePlayers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	cutoff := time.Now().Add(-models.PresenceWindow)
	if err := s.db.WithContext(ctx).Where("last_seen_at > ?", cutoff).Find(&users).Error; err != nil {
		return nil, &TransientError{Err: err}
	}
	return users, nil
}
