package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AudienceProfile is one observation snapshot reported by an edge camera.
// Rows are append-only: ingest inserts them and nothing ever updates or
// deletes them from the request path.
type AudienceProfile struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	ScreenID     int64           `json:"screen_id" db:"screen_id"`
	CameraID     int64           `json:"camera_id" db:"camera_id"`
	PeopleCount  int             `json:"people_count" db:"people_count"`
	MaleCount    int             `json:"male_count" db:"male_count"`
	FemaleCount  int             `json:"female_count" db:"female_count"`
	AvgAge       float64         `json:"avg_age" db:"avg_age"`
	MinAge       int             `json:"min_age" db:"min_age"`
	MaxAge       int             `json:"max_age" db:"max_age"`
	DwellTimeSec float64         `json:"dwell_time_sec" db:"dwell_time_sec"`
	RawPayload   json.RawMessage `json:"-" db:"raw_payload"`
	SnapshotKey  string          `json:"snapshot_key,omitempty" db:"snapshot_key"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// Face is one tracked face within an AudienceProfile. ExternalID is the
// tracker's stable id for the physical person; it is empty when the device
// reported none, in which case the face is persisted for audit but never
// considered for trigger cooldown.
type Face struct {
	ID           uuid.UUID `json:"id" db:"id"`
	ProfileID    uuid.UUID `json:"profile_id" db:"profile_id"`
	ExternalID   string    `json:"external_id,omitempty" db:"external_id"`
	Age          int       `json:"age" db:"age"`
	Gender       string    `json:"gender" db:"gender"`
	DwellTimeSec float64   `json:"dwell_time_sec" db:"dwell_time_sec"`
	IsNew        bool      `json:"is_new" db:"is_new"`
	Embedding    []float32 `json:"-" db:"embedding"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
