package models

import (
	"time"

	"gorm.io/datatypes"
)

// RoundHistory archives one terminated round. Append-only: written once
// inside the reset transaction, never mutated after.
type RoundHistory struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	RoundToken  string         `json:"roundToken"`
	WinnersJSON datatypes.JSON `gorm:"column:winners" json:"winners"`
	DrawnJSON   datatypes.JSON `gorm:"column:drawn_numbers" json:"drawnNumbers"`
	PrizePool   int64          `json:"prizePool"`
	CompletedAt time.Time      `json:"completedAt"`
}

// AuditLog records every privileged mutation and every card purchase,
// tagged with the round token it applied to.
type AuditLog struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	ActorID       string         `json:"actorId"`
	ActorName     string         `json:"actorName"`
	Action        string         `json:"action"`
	DetailsJSON   datatypes.JSON `gorm:"column:details" json:"details"`
	Justification string         `json:"justification"`
	CreatedAt     time.Time      `json:"createdAt"`
}
