package services

import (
	"context"
	"errors"

	"github.com/dmarins/bingo-live/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterUser creates a player account with a starting balance of zero.
func (s *RoundService) RegisterUser(ctx context.Context, name, phone string) (*models.User, error) {
	if name == "" {
		return nil, validationf("bad_request", "name is required")
	}
	user := models.User{
		ID:    uuid.NewString(),
		Name:  name,
		Phone: phone,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, &TransientError{Err: err}
	}
	return &user, nil
}

// GetUser fetches a player by id.
func (s *RoundService) GetUser(ctx context.Context, playerID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationf("not_found", "player %s is not registered", playerID)
		}
		return nil, &TransientError{Err: err}
	}
	return &user, nil
}

// ListHistory returns archived rounds, newest first.
func (s *RoundService) ListHistory(ctx context.Context, limit int) ([]models.RoundHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var rows []models.RoundHistory
	if err := s.db.WithContext(ctx).Order("completed_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, &TransientError{Err: err}
	}
	return rows, nil
}

// ListAudit returns audit entries, newest first.
func (s *RoundService) ListAudit(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []models.AuditLog
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, &TransientError{Err: err}
	}
	return rows, nil
}
