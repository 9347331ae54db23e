package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// MaxCardsPerPlayer caps how many cards one player may hold in a round.
const MaxCardsPerPlayer = 10

// BingoCard is immutable once generated; it is only appended to a
// player's set or removed wholesale with it.
type BingoCard struct {
	ID      string `json:"id"`
	Numbers []int  `json:"numbers"`
}

// PlayerCardSet holds one player's purchased cards for the round named by
// RoundToken. Created lazily on first purchase, deleted on every reset.
type PlayerCardSet struct {
	PlayerID   string         `gorm:"primaryKey" json:"playerId"`
	RoundToken string         `json:"roundToken"`
	CardsJSON  datatypes.JSON `gorm:"column:cards" json:"cards"`
	Version    int64          `json:"-"`
	CreatedAt  time.Time      `json:"-"`
	UpdatedAt  time.Time      `json:"-"`
}

func (s *PlayerCardSet) Cards() []BingoCard {
	var out []BingoCard
	_ = json.Unmarshal(s.CardsJSON, &out)
	return out
}

func (s *PlayerCardSet) SetCards(cards []BingoCard) {
	b, _ := json.Marshal(cards)
	s.CardsJSON = datatypes.JSON(b)
}
