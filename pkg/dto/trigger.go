package dto

import "github.com/google/uuid"

type TriggerResponse struct {
	ID        uuid.UUID `json:"id"`
	ScreenID  int64     `json:"screen_id"`
	MediaID   string    `json:"media_id"`
	RuleID    int64     `json:"rule_id"`
	Active    bool      `json:"active"`
	CreatedAt string    `json:"created_at"`
	ExpiresAt *string   `json:"expires_at"`
}

type TriggerListResponse struct {
	Triggers []TriggerResponse `json:"triggers"`
	Total    int               `json:"total"`
}

// Resolution modes returned by /v1/resolve.
const (
	ModeTrigger   = "trigger"
	ModeScheduled = "scheduled"
	ModeFallback  = "fallback"
)

type PlaylistItem struct {
	MediaID string `json:"media_id"`
	Order   int    `json:"order"`
}

// TriggerEvent is published to NATS and broadcast over WebSocket when a
// trigger is created.
type TriggerEvent struct {
	Type     string          `json:"type"` // trigger_created
	ScreenID int64           `json:"screen_id"`
	Data     TriggerResponse `json:"data"`
}
