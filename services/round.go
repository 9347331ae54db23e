package services

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/dmarins/bingo-live/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Default timing parameters, seeded into the round on bootstrap and
// tunable by admins afterwards.
const (
	DefaultLobbyCountdownSec = 30
	DefaultDrawIntervalSec   = 5
	DefaultEndGameDelaySec   = 10
)

// RoundService owns every mutation of the round document and the player
// card sets. All paths share the optimistic transaction discipline in
// txn.go, so redundant drivers and racing purchases stay consistent
// without explicit locks.
type RoundService struct {
	db  *gorm.DB
	log *zap.SugaredLogger

	rngMu sync.Mutex
	rng   *rand.Rand

	notifyMu sync.RWMutex
	notify   []func()
}

func NewRoundService(db *gorm.DB, log *zap.SugaredLogger) *RoundService {
	return &RoundService{
		db:  db,
		log: log,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// OnChange registers a callback fired after every committed mutation.
// The websocket hub uses it to push fresh state to subscribers.
func (s *RoundService) OnChange(fn func()) {
	s.notifyMu.Lock()
	s.notify = append(s.notify, fn)
	s.notifyMu.Unlock()
}

func (s *RoundService) changed() {
	s.notifyMu.RLock()
	fns := append([]func(){}, s.notify...)
	s.notifyMu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}

// EnsureRound creates the singleton round record if it does not exist.
// Startup-only bootstrap; the driver never recreates a vanished round.
func (s *RoundService) EnsureRound(ctx context.Context) error {
	var round models.Round
	err := s.db.WithContext(ctx).First(&round, models.RoundSingletonID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return &TransientError{Err: err}
	}

	round = models.Round{
		ID:                models.RoundSingletonID,
		Status:            models.RoundWaiting,
		RoundToken:        uuid.NewString(),
		Countdown:         DefaultLobbyCountdownSec,
		LobbyCountdownSec: DefaultLobbyCountdownSec,
		DrawIntervalSec:   DefaultDrawIntervalSec,
		EndGameDelaySec:   DefaultEndGameDelaySec,
	}
	round.SetDrawn([]int{})
	round.SetPlayers(map[string]models.PlayerEntry{})
	round.SetWinners([]models.Winner{})

	if err := s.db.WithContext(ctx).Create(&round).Error; err != nil {
		return &TransientError{Err: err}
	}
	s.log.Infow("round record bootstrapped", "roundToken", round.RoundToken)
	return nil
}

// GetRound returns the current round document.
func (s *RoundService) GetRound(ctx context.Context) (*models.Round, error) {
	var round models.Round
	if err := s.db.WithContext(ctx).First(&round, models.RoundSingletonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoundMissing
		}
		return nil, &TransientError{Err: err}
	}
	return &round, nil
}

// StartRound moves waiting -> running, claiming host for the actor and
// seeding the countdown from the current draw interval.
func (s *RoundService) StartRound(ctx context.Context, actorID, actorName string) error {
	return s.updateRound(ctx, func(tx *gorm.DB, round *models.Round) error {
		if round.Status != models.RoundWaiting {
			return validationf("wrong_status", "round cannot start while %s", round.Status)
		}
		round.Status = models.RoundRunning
		round.HostID = actorID
		round.Countdown = round.DrawIntervalSec
		return appendAudit(tx, &models.AuditLog{
			ActorID:     actorID,
			ActorName:   actorName,
			Action:      "round_start",
			DetailsJSON: auditDetails(map[string]interface{}{"roundToken": round.RoundToken}),
		})
	})
}

// Pause suspends a running round. A reason is mandatory and kept on the
// document while paused.
func (s *RoundService) Pause(ctx context.Context, actorID, actorName, reason string) error {
	if reason == "" {
		return validationf("missing_reason", "pause requires a reason")
	}
	return s.updateRound(ctx, func(tx *gorm.DB, round *models.Round) error {
		if round.Status != models.RoundRunning {
			return validationf("wrong_status", "only a running round can be paused")
		}
		round.Status = models.RoundPaused
		round.PauseReason = reason
		return appendAudit(tx, &models.AuditLog{
			ActorID:     actorID,
			ActorName:   actorName,
			Action:      "round_pause",
			DetailsJSON: auditDetails(map[string]interface{}{"roundToken": round.RoundToken, "reason": reason}),
		})
	})
}

// Resume moves paused -> running and reseeds the countdown.
func (s *RoundService) Resume(ctx context.Context, actorID, actorName string) error {
	return s.updateRound(ctx, func(tx *gorm.DB, round *models.Round) error {
		if round.Status != models.RoundPaused {
			return validationf("wrong_status", "only a paused round can be resumed")
		}
		round.Status = models.RoundRunning
		round.PauseReason = ""
		round.Countdown = round.DrawIntervalSec
		return appendAudit(tx, &models.AuditLog{
			ActorID:     actorID,
			ActorName:   actorName,
			Action:      "round_resume",
			DetailsJSON: auditDetails(map[string]interface{}{"roundToken": round.RoundToken}),
		})
	})
}

// UpdateSettings changes the timing knobs. The driver reads them fresh
// every tick, so edits take effect immediately.
func (s *RoundService) UpdateSettings(ctx context.Context, actorID, actorName string, lobby, draw, endDelay int) error {
	if lobby <= 0 || draw <= 0 || endDelay <= 0 {
		return validationf("bad_settings", "durations must be positive")
	}
	return s.updateRound(ctx, func(tx *gorm.DB, round *models.Round) error {
		round.LobbyCountdownSec = lobby
		round.DrawIntervalSec = draw
		round.EndGameDelaySec = endDelay
		return appendAudit(tx, &models.AuditLog{
			ActorID:   actorID,
			ActorName: actorName,
			Action:    "settings_update",
			DetailsJSON: auditDetails(map[string]interface{}{
				"lobbyCountdownSec": lobby,
				"drawIntervalSec":   draw,
				"endGameDelaySec":   endDelay,
			}),
		})
	})
}

// ForceReset wipes the round from any non-waiting state. Justification is
// mandatory; the terminal state is archived before anything is cleared.
func (s *RoundService) ForceReset(ctx context.Context, actorID, actorName, justification string) error {
	if justification == "" {
		return validationf("missing_justification", "forced reset requires a justification")
	}
	return s.updateRound(ctx, func(tx *gorm.DB, round *models.Round) error {
		if round.Status == models.RoundWaiting {
			return validationf("wrong_status", "round is already waiting")
		}
		resetToken := round.RoundToken
		if err := s.resetInTx(tx, round); err != nil {
			return err
		}
		return appendAudit(tx, &models.AuditLog{
			ActorID:       actorID,
			ActorName:     actorName,
			Action:        "force_reset",
			Justification: justification,
			DetailsJSON:   auditDetails(map[string]interface{}{"roundToken": resetToken}),
		})
	})
}

// autoReset is the host driver's reset after the end-game delay expires.
func (s *RoundService) autoReset(ctx context.Context) error {
	return s.updateRound(ctx, func(tx *gorm.DB, round *models.Round) error {
		if round.Status != models.RoundEnded {
			// A rival driver already reset; nothing to do.
			return nil
		}
		return s.resetInTx(tx, round)
	})
}

// resetInTx archives the terminal round into history, deletes every card
// set, clears the document and regenerates the round token. Runs inside
// an updateRound transaction; the caller's CAS commit makes it atomic.
func (s *RoundService) resetInTx(tx *gorm.DB, round *models.Round) error {
	history := models.RoundHistory{
		RoundToken:  round.RoundToken,
		WinnersJSON: round.WinnersJSON,
		DrawnJSON:   round.DrawnJSON,
		PrizePool:   round.PrizePool,
		CompletedAt: time.Now(),
	}
	if err := tx.Create(&history).Error; err != nil {
		return &TransientError{Err: err}
	}
	if err := tx.Where("round_token = ?", round.RoundToken).Delete(&models.PlayerCardSet{}).Error; err != nil {
		return &TransientError{Err: err}
	}

	prevToken := round.RoundToken
	round.Status = models.RoundWaiting
	round.RoundToken = uuid.NewString()
	round.HostID = ""
	round.Countdown = round.LobbyCountdownSec
	round.PauseReason = ""
	round.PrizePool = 0
	round.SetDrawn([]int{})
	round.SetPlayers(map[string]models.PlayerEntry{})
	round.SetWinners([]models.Winner{})

	s.log.Infow("round reset", "archivedToken", prevToken, "roundToken", round.RoundToken)
	return nil
}

// randInt returns a uniform int in [1, n] from the service RNG.
func (s *RoundService) randInt(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n) + 1
}

func (s *RoundService) newRand() *rand.Rand {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}

func auditDetails(details map[string]interface{}) datatypes.JSON {
	b, _ := json.Marshal(details)
	return datatypes.JSON(b)
}
