package models

import (
	"time"

	"github.com/google/uuid"
)

// Trigger is a short-lived override instruction for a screen. Triggers are
// never updated in place; the resolver reads the newest row and compares
// expires_at against the current time.
type Trigger struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	ScreenID  int64      `json:"screen_id" db:"screen_id"`
	MediaID   string     `json:"media_id" db:"media_id"`
	RuleID    int64      `json:"rule_id" db:"rule_id"`
	Active    bool       `json:"active" db:"active"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	ExpiresAt *time.Time `json:"expires_at" db:"expires_at"` // nil = never expires
}

// Live reports whether the trigger should override the schedule at t.
func (tr *Trigger) Live(t time.Time) bool {
	if tr == nil || !tr.Active {
		return false
	}
	return tr.ExpiresAt == nil || tr.ExpiresAt.After(t)
}

// FaceTriggerHistory is the append-only cooldown ledger. For a given
// (face, screen, rule) the newest row's expires_at defines the cooldown
// boundary.
type FaceTriggerHistory struct {
	ID             uuid.UUID `json:"id" db:"id"`
	FaceExternalID string    `json:"face_external_id" db:"face_external_id"`
	ScreenID       int64     `json:"screen_id" db:"screen_id"`
	RuleID         int64     `json:"rule_id" db:"rule_id"`
	TriggeredAt    time.Time `json:"triggered_at" db:"triggered_at"`
	ExpiresAt      time.Time `json:"expires_at" db:"expires_at"`
}
