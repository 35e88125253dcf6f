package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a player account. Usernames are unique (enforced by a
// unique index) and are the only credential players present.
//
// XP never goes negative. PendingXPSpend is XP reserved by unlocking a paid
// event but not yet deducted; it is paid down in full or not at all.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Username       string             `bson:"username" json:"username"`
	XP             int                `bson:"xp" json:"xp"`
	PendingXPSpend int                `bson:"pendingXpSpend" json:"pendingXpSpend"`
	UnlockedEvents map[string]bool    `bson:"unlockedEvents,omitempty" json:"unlockedEvents,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// HasUnlocked reports whether the user has unlocked the given paid event.
func (u *User) HasUnlocked(eventID string) bool {
	return u.UnlockedEvents[eventID]
}
