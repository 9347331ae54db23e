package services

import (
	"context"
	"errors"

	"github.com/dmarins/bingo-live/game"
	"github.com/dmarins/bingo-live/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Card pricing. Each purchase debits CardPrice from the player; the house
// keeps HouseCut and the rest accumulates in the prize pool.
const (
	CardPrice        = 10
	HouseCut         = 1
	CardContribution = CardPrice - HouseCut
)

// PurchaseCard buys one card for the player. Status, balance and the
// per-player card cap are all validated against freshly read state inside
// the transaction; a racing second purchase from the same player conflicts
// on the round version and re-validates against the updated count, so the
// cap can never be exceeded.
func (s *RoundService) PurchaseCard(ctx context.Context, playerID string) (*models.BingoCard, error) {
	var card models.BingoCard
	err := s.updateRound(ctx, func(tx *gorm.DB, round *models.Round) error {
		if round.Status != models.RoundWaiting {
			return validationf("wrong_status", "cards can only be bought before the round starts")
		}

		var user models.User
		if err := tx.First(&user, "id = ?", playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationf("not_found", "player %s is not registered", playerID)
			}
			return &TransientError{Err: err}
		}
		if user.Balance < CardPrice {
			return validationf("insufficient_balance", "balance %d is below the card price %d", user.Balance, CardPrice)
		}

		set, existed, err := loadCardSet(tx, playerID, round.RoundToken)
		if err != nil {
			return err
		}
		cards := set.Cards()
		if len(cards) >= models.MaxCardsPerPlayer {
			return validationf("card_limit", "player already holds %d cards", len(cards))
		}

		card = models.BingoCard{ID: uuid.NewString(), Numbers: game.NewCard(s.newRand())}
		cards = append(cards, card)
		set.SetCards(cards)
		if err := saveCardSet(tx, set, existed); err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", playerID).
			Update("balance", gorm.Expr("balance - ?", CardPrice)).Error; err != nil {
			return &TransientError{Err: err}
		}

		players := round.Players()
		entry, ok := players[playerID]
		if !ok {
			entry = models.PlayerEntry{Name: user.Name}
		}
		entry.CardCount = len(cards)
		players[playerID] = entry
		round.SetPlayers(players)
		round.PrizePool += CardContribution

		return appendAudit(tx, &models.AuditLog{
			ActorID:   playerID,
			ActorName: user.Name,
			Action:    "card_purchase",
			DetailsJSON: auditDetails(map[string]interface{}{
				"roundToken": round.RoundToken,
				"cardId":     card.ID,
				"price":      CardPrice,
			}),
		})
	})
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// GetCardSet returns a player's cards for the active round. A missing set
// is an empty set, not an error.
func (s *RoundService) GetCardSet(ctx context.Context, playerID string) ([]models.BingoCard, error) {
	var set models.PlayerCardSet
	err := s.db.WithContext(ctx).Where("player_id = ?", playerID).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, &TransientError{Err: err}
	}
	return set.Cards(), nil
}

// WipePlayerCards removes all of a player's cards, refunds the full card
// price per card and pulls the pool contributions back out. Destructive
// admin action: justification is mandatory.
func (s *RoundService) WipePlayerCards(ctx context.Context, actorID, actorName, playerID, justification string) error {
	if justification == "" {
		return validationf("missing_justification", "card wipe requires a justification")
	}
	return s.updateRound(ctx, func(tx *gorm.DB, round *models.Round) error {
		set, existed, err := loadCardSet(tx, playerID, round.RoundToken)
		if err != nil {
			return err
		}
		cards := set.Cards()
		if !existed || len(cards) == 0 {
			return validationf("not_found", "player %s holds no cards", playerID)
		}

		if err := tx.Where("player_id = ?", playerID).Delete(&models.PlayerCardSet{}).Error; err != nil {
			return &TransientError{Err: err}
		}
		if err := tx.Model(&models.User{}).Where("id = ?", playerID).
			Update("balance", gorm.Expr("balance + ?", int64(len(cards))*CardPrice)).Error; err != nil {
			return &TransientError{Err: err}
		}

		round.PrizePool -= int64(len(cards)) * CardContribution
		players := round.Players()
		delete(players, playerID)
		round.SetPlayers(players)

		return appendAudit(tx, &models.AuditLog{
			ActorID:       actorID,
			ActorName:     actorName,
			Action:        "cards_wiped",
			Justification: justification,
			DetailsJSON: auditDetails(map[string]interface{}{
				"roundToken": round.RoundToken,
				"playerId":   playerID,
				"cards":      len(cards),
			}),
		})
	})
}

// AdjustBalance applies an audited admin credit or debit to a player.
func (s *RoundService) AdjustBalance(ctx context.Context, actorID, actorName, playerID string, delta int64, justification string) error {
	if justification == "" {
		return validationf("missing_justification", "balance edit requires a justification")
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", playerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return validationf("not_found", "player %s is not registered", playerID)
			}
			return &TransientError{Err: err}
		}
		if user.Balance+delta < 0 {
			return validationf("insufficient_balance", "balance cannot go negative")
		}
		if err := tx.Model(&models.User{}).Where("id = ?", playerID).
			Update("balance", gorm.Expr("balance + ?", delta)).Error; err != nil {
			return &TransientError{Err: err}
		}
		return appendAudit(tx, &models.AuditLog{
			ActorID:       actorID,
			ActorName:     actorName,
			Action:        "balance_edit",
			Justification: justification,
			DetailsJSON: auditDetails(map[string]interface{}{
				"playerId": playerID,
				"delta":    delta,
			}),
		})
	})
	if err == nil {
		s.changed()
	}
	return err
}
