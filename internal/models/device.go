package models

import (
	"encoding/json"
	"time"
)

// Camera is an edge capture device attached to a screen. Owned by the
// management app; read-only here.
type Camera struct {
	ID        int64     `json:"id" db:"id"`
	ScreenID  int64     `json:"screen_id" db:"screen_id"`
	Name      string    `json:"name" db:"name"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// CVConfig holds the stored per-camera CV settings. Every field is
// optional; the config distributor fills documented defaults before
// anything reaches a device.
type CVConfig struct {
	CameraID              int64           `json:"camera_id" db:"camera_id"`
	FrameIntervalMS       *int            `json:"frame_interval_ms" db:"frame_interval_ms"`
	EnableAge             *bool           `json:"enable_age" db:"enable_age"`
	EnableGender          *bool           `json:"enable_gender" db:"enable_gender"`
	MinPeopleForDetection *int            `json:"min_people_for_detection" db:"min_people_for_detection"`
	MinDwellToTriggerSec  *float64        `json:"min_dwell_to_trigger_sec" db:"min_dwell_to_trigger_sec"`
	RearmCooldownSec      *int            `json:"rearm_cooldown_sec" db:"rearm_cooldown_sec"`
	ExtraConfig           json.RawMessage `json:"extra_config" db:"extra_config"`
}

// ScheduledItem is one entry of a screen's default playlist.
type ScheduledItem struct {
	MediaID      string `json:"media_id" db:"media_id"`
	DisplayOrder int    `json:"display_order" db:"display_order"`
}
