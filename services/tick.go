package services

import (
	"context"
	"errors"

	"github.com/dmarins/bingo-live/game"
	"github.com/dmarins/bingo-live/models"
	"gorm.io/gorm"
)

// Tick advances the round by one second inside a single transaction.
// Safe to run from redundant drivers: a rival tick wins the version CAS
// and this one retries against the post-mutation state, where it either
// applies the next second or no-ops.
func (s *RoundService) Tick(ctx context.Context, hostID string) error {
	resetDue := false
	err := s.updateRound(ctx, func(tx *gorm.DB, round *models.Round) error {
		resetDue = false
		switch round.Status {
		case models.RoundWaiting:
			return s.tickLobby(round, hostID)
		case models.RoundRunning:
			return s.tickRunning(tx, round)
		case models.RoundEnded:
			if round.Countdown > 0 {
				round.Countdown--
				return nil
			}
			if round.HostID == "" || round.HostID == hostID {
				resetDue = true
			}
			return errUnchanged
		default: // paused
			return errUnchanged
		}
	})
	if errors.Is(err, ErrConflict) {
		// A rival driver advanced the round; drop this tick.
		s.log.Debugw("tick lost the commit race", "host", hostID)
		return nil
	}
	if err != nil {
		return err
	}
	if resetDue {
		return s.autoReset(ctx)
	}
	return nil
}

// tickLobby counts down the lobby. When the countdown expires the round
// starts implicitly if anyone bought a card, otherwise the lobby re-arms.
func (s *RoundService) tickLobby(round *models.Round, hostID string) error {
	if round.Countdown > 0 {
		round.Countdown--
		return nil
	}
	if len(round.Players()) == 0 {
		round.Countdown = round.LobbyCountdownSec
		return nil
	}
	round.Status = models.RoundRunning
	round.HostID = hostID
	round.Countdown = round.DrawIntervalSec
	s.log.Infow("round started by driver", "host", hostID, "roundToken", round.RoundToken)
	return nil
}

// tickRunning decrements the draw countdown and, when it expires, draws
// one unique number, re-evaluates every player's progress and settles any
// blackout winners.
func (s *RoundService) tickRunning(tx *gorm.DB, round *models.Round) error {
	if round.Countdown > 0 {
		round.Countdown--
		return nil
	}

	drawn := round.Drawn()
	if len(drawn) >= game.MaxNumber {
		return s.endRound(round, nil)
	}

	number := s.drawNumber(drawn)
	drawn = append(drawn, number)
	round.SetDrawn(drawn)
	round.Countdown = round.DrawIntervalSec

	players := round.Players()
	var winners []models.Winner
	for playerID, entry := range players {
		set, existed, err := loadCardSet(tx, playerID, round.RoundToken)
		if err != nil {
			return err
		}
		if !existed {
			continue
		}
		best := game.CardCells
		for _, card := range set.Cards() {
			progress := game.Evaluate(card.Numbers, drawn)
			if progress.NumbersToWin < best {
				best = progress.NumbersToWin
			}
			if game.Blackout(card.Numbers, drawn) {
				winners = append(winners, models.Winner{
					PlayerID: playerID,
					Name:     entry.Name,
					Card:     card.Numbers,
				})
			}
		}
		entry.NumbersToWin = &best
		players[playerID] = entry
	}
	round.SetPlayers(players)

	if len(winners) > 0 {
		if err := s.settleWinners(tx, round, winners); err != nil {
			return err
		}
		return s.endRound(round, winners)
	}
	if len(drawn) >= game.MaxNumber {
		return s.endRound(round, nil)
	}
	return nil
}

// settleWinners splits the pool evenly with integer floor division and
// credits each winner in the same transaction. The remainder of the
// division is dropped.
func (s *RoundService) settleWinners(tx *gorm.DB, round *models.Round, winners []models.Winner) error {
	share := round.PrizePool / int64(len(winners))
	for i := range winners {
		winners[i].Payout = share
		if err := tx.Model(&models.User{}).Where("id = ?", winners[i].PlayerID).
			Update("balance", gorm.Expr("balance + ?", share)).Error; err != nil {
			return &TransientError{Err: err}
		}
	}
	return nil
}

func (s *RoundService) endRound(round *models.Round, winners []models.Winner) error {
	round.Status = models.RoundEnded
	round.Countdown = round.EndGameDelaySec
	if winners != nil {
		round.SetWinners(winners)
	}
	s.log.Infow("round ended",
		"roundToken", round.RoundToken,
		"winners", len(winners),
		"drawn", len(round.Drawn()),
		"prizePool", round.PrizePool,
	)
	return nil
}

// drawNumber rejection-samples a number in [1, MaxNumber] not yet drawn.
// Callers must ensure the pool is not exhausted.
func (s *RoundService) drawNumber(drawn []int) int {
	taken := make(map[int]bool, len(drawn))
	for _, n := range drawn {
		taken[n] = true
	}
	for {
		n := s.randInt(game.MaxNumber)
		if !taken[n] {
			return n
		}
	}
}
