package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// RoundSingletonID is the primary key of the one live round record. The
// round is reset in place, never deleted and recreated.
const RoundSingletonID = 1

type RoundStatus string

const (
	RoundWaiting RoundStatus = "waiting"
	RoundRunning RoundStatus = "running"
	RoundPaused  RoundStatus = "paused"
	RoundEnded   RoundStatus = "ended"
)

// PlayerEntry is one player's slot in the round's players map.
type PlayerEntry struct {
	Name      string `json:"name"`
	CardCount int    `json:"cardCount"`
	// NumbersToWin is the best (lowest) line progress across the player's
	// cards, absent until the first draw evaluates them.
	NumbersToWin *int `json:"numbersToWin,omitempty"`
}

// Winner is a snapshot of a winning player and card, frozen at detection.
type Winner struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Card     []int  `json:"card"`
	Payout   int64  `json:"payout"`
}

// Round is the single authoritative round document. Version backs the
// optimistic compare-and-swap every mutation commits through.
type Round struct {
	ID          uint        `gorm:"primaryKey" json:"-"`
	Status      RoundStatus `json:"status"`
	RoundToken  string      `json:"roundToken"`
	HostID      string      `json:"hostId"`
	Countdown   int         `json:"countdown"`
	PauseReason string      `json:"pauseReason"`
	PrizePool   int64       `json:"prizePool"`

	DrawnJSON   datatypes.JSON `gorm:"column:drawn_numbers" json:"drawnNumbers"`
	PlayersJSON datatypes.JSON `gorm:"column:players" json:"players"`
	WinnersJSON datatypes.JSON `gorm:"column:winners" json:"winners"`

	// Timing knobs, admin-tunable and read fresh on every tick.
	LobbyCountdownSec int `json:"lobbyCountdownSec"`
	DrawIntervalSec   int `json:"drawIntervalSec"`
	EndGameDelaySec   int `json:"endGameDelaySec"`

	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Round) Drawn() []int {
	var out []int
	_ = json.Unmarshal(r.DrawnJSON, &out)
	return out
}

func (r *Round) SetDrawn(nums []int) {
	b, _ := json.Marshal(nums)
	r.DrawnJSON = datatypes.JSON(b)
}

func (r *Round) Players() map[string]PlayerEntry {
	out := make(map[string]PlayerEntry)
	_ = json.Unmarshal(r.PlayersJSON, &out)
	return out
}

func (r *Round) SetPlayers(players map[string]PlayerEntry) {
	b, _ := json.Marshal(players)
	r.PlayersJSON = datatypes.JSON(b)
}

func (r *Round) Winners() []Winner {
	var out []Winner
	_ = json.Unmarshal(r.WinnersJSON, &out)
	return out
}

func (r *Round) SetWinners(winners []Winner) {
	b, _ := json.Marshal(winners)
	r.WinnersJSON = datatypes.JSON(b)
}
