package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmarins/bingo-live/models"
	"gorm.io/gorm"
)

const (
	// txnAttempts bounds transparent retries on optimistic conflicts.
	txnAttempts   = 8
	txnRetryDelay = 25 * time.Millisecond
)

// errUnchanged lets a callback report that it left the round as it found
// it. The commit and the subscriber notification are both skipped, so
// no-op ticks (paused round, a non-host waiting out the end-game delay)
// neither churn the version nor wake every subscriber.
var errUnchanged = errors.New("round unchanged")

// updateRound runs fn as one all-or-nothing transaction against the
// singleton round record. The round is re-read inside the transaction so
// fn always validates against fresh state, never a cached snapshot. The
// commit is a compare-and-swap on the version column and is the last
// write of the transaction: if a rival mutation landed in between, zero
// rows match, the whole write set rolls back and the transaction is
// retried from the top. fn must therefore be side-effect free outside
// the tx handle.
func (s *RoundService) updateRound(ctx context.Context, fn func(tx *gorm.DB, round *models.Round) error) error {
	var err error
	for attempt := 0; attempt < txnAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(txnRetryDelay)
		}
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var round models.Round
			if ferr := tx.First(&round, models.RoundSingletonID).Error; ferr != nil {
				if errors.Is(ferr, gorm.ErrRecordNotFound) {
					return ErrRoundMissing
				}
				return &TransientError{Err: ferr}
			}

			prev := round.Version
			if ferr := fn(tx, &round); ferr != nil {
				return ferr
			}

			round.Version = prev + 1
			res := tx.Model(&models.Round{}).
				Where("id = ? AND version = ?", models.RoundSingletonID, prev).
				Select("*").Omit("id", "created_at").
				Updates(&round)
			if res.Error != nil {
				return &TransientError{Err: res.Error}
			}
			if res.RowsAffected == 0 {
				return ErrConflict
			}
			return nil
		})
		if !errors.Is(err, ErrConflict) {
			break
		}
		s.log.Debugw("round transaction conflict, retrying", "attempt", attempt+1)
	}
	if errors.Is(err, errUnchanged) {
		return nil
	}
	if err == nil {
		s.changed()
	}
	return err
}

// loadCardSet fetches a player's card set inside tx. A set left over from
// a previous round token is treated as empty; reset deletes sets, so this
// only matters if a reset and a read interleave.
func loadCardSet(tx *gorm.DB, playerID, roundToken string) (*models.PlayerCardSet, bool, error) {
	var set models.PlayerCardSet
	err := tx.Where("player_id = ?", playerID).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := &models.PlayerCardSet{PlayerID: playerID, RoundToken: roundToken}
		fresh.SetCards(nil)
		return fresh, false, nil
	}
	if err != nil {
		return nil, false, &TransientError{Err: err}
	}
	if set.RoundToken != roundToken {
		set.RoundToken = roundToken
		set.SetCards(nil)
	}
	return &set, true, nil
}

// saveCardSet persists a set created or mutated inside tx. Existing sets
// commit through the same version CAS as the round row, so a stale set
// read aborts the transaction and retries it from fresh state.
func saveCardSet(tx *gorm.DB, set *models.PlayerCardSet, existed bool) error {
	prev := set.Version
	set.Version = prev + 1
	if !existed {
		if err := tx.Create(set).Error; err != nil {
			return &TransientError{Err: err}
		}
		return nil
	}
	res := tx.Model(&models.PlayerCardSet{}).
		Where("player_id = ? AND version = ?", set.PlayerID, prev).
		Select("*").Omit("player_id", "created_at").
		Updates(set)
	if res.Error != nil {
		return &TransientError{Err: res.Error}
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}

// appendAudit writes one audit row inside tx.
func appendAudit(tx *gorm.DB, entry *models.AuditLog) error {
	if err := tx.Create(entry).Error; err != nil {
		return &TransientError{Err: err}
	}
	return nil
}
