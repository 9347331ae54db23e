package models

import "time"

// PresenceWindow is how recently a player must have checked in to count
// as online. Advisory only; never gates round transitions.
const PresenceWindow = 30 * time.Second

type User struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Balance    int64     `json:"balance"`
	LastSeenAt time.Time `json:"lastSeenAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Online reports whether the player refreshed presence within the window.
func (u *User) Online(now time.Time) bool {
	return now.Sub(u.LastSeenAt) <= PresenceWindow
}
