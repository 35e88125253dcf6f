package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SelectionMode determines how winners are picked once an event closes.
type SelectionMode string

const (
	SelectionModeRandom SelectionMode = "random"
	SelectionModeCustom SelectionMode = "custom"
)

// Registrant is a single entry in an event's registration list. The slice
// order on Event.RegisteredUsers is the registration order, which custom
// selection depends on.
type Registrant struct {
	ID       string `bson:"id" json:"id"`
	Username string `bson:"username" json:"username"`
}

// Event represents a time-boxed lucky-draw event. Timestamps are epoch
// milliseconds, matching what the web client renders.
//
// Winners is a pointer on purpose: a nil pointer means the event has not been
// settled yet, while a non-nil (possibly empty) slice marks it as settled.
// That presence check is the sole idempotency guard for winner determination.
type Event struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name              string             `bson:"name" json:"name" validate:"required"`
	StartTime         int64              `bson:"startTime" json:"startTime"`
	EndTime           int64              `bson:"endTime" json:"endTime"`
	ResultTime        int64              `bson:"resultTime" json:"resultTime"`
	Codes             []string           `bson:"codes" json:"codes"`
	SelectionMode     SelectionMode      `bson:"selectionMode" json:"selectionMode"`
	CustomWinnerSlots map[string]int     `bson:"customWinnerSlots,omitempty" json:"customWinnerSlots,omitempty"`
	// WinnerSlots is the legacy "first N registrants win" shape, superseded
	// by CustomWinnerSlots.
	WinnerSlots      int               `bson:"winnerSlots,omitempty" json:"winnerSlots,omitempty"`
	RegisteredUsers  []Registrant      `bson:"registeredUsers,omitempty" json:"registeredUsers,omitempty"`
	Winners          *[]string         `bson:"winners,omitempty" json:"winners,omitempty"`
	AssignedCodes    map[string]string `bson:"assignedCodes,omitempty" json:"assignedCodes,omitempty"`
	RequiredXP       int               `bson:"requiredXp,omitempty" json:"requiredXp,omitempty"`
	IsHighlighted    bool              `bson:"isHighlighted" json:"isHighlighted"`
	SendNotification bool              `bson:"sendNotification" json:"sendNotification"`
	CreatedAt        time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// IsSettled reports whether winners have already been determined.
func (e *Event) IsSettled() bool {
	return e.Winners != nil
}

// IsXPGated reports whether the event must be unlocked with XP first.
func (e *Event) IsXPGated() bool {
	return e.RequiredXP > 0
}

// IsRegistered reports whether the username already appears in the
// registration list.
func (e *Event) IsRegistered(username string) bool {
	for _, r := range e.RegisteredUsers {
		if r.Username == username {
			return true
		}
	}
	return false
}

// RegistrantIDs returns the registrant ids in registration order.
func (e *Event) RegistrantIDs() []string {
	ids := make([]string, 0, len(e.RegisteredUsers))
	for _, r := range e.RegisteredUsers {
		ids = append(ids, r.ID)
	}
	return ids
}
