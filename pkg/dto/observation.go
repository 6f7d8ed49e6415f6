package dto

import "github.com/google/uuid"

// FaceObservation is one tracked face in an ingest payload. The tracker's
// stable id arrives in face_external_id; older firmware sends face_id.
type FaceObservation struct {
	FaceExternalID string    `json:"face_external_id,omitempty"`
	FaceID         string    `json:"face_id,omitempty"`
	Age            int       `json:"age"`
	Gender         string    `json:"gender"`
	DwellTimeSec   float64   `json:"dwell_time_sec"`
	IsNew          bool      `json:"is_new"`
	Embedding      []float32 `json:"embedding,omitempty"`
}

// ExternalID returns the normalized tracker id, or "" when the device
// reported none.
func (f FaceObservation) ExternalID() string {
	if f.FaceExternalID != "" {
		return f.FaceExternalID
	}
	return f.FaceID
}

type IngestRequest struct {
	ScreenID     *int64            `json:"screen_id"`
	CameraID     *int64            `json:"camera_id"`
	PeopleCount  int               `json:"people_count"`
	MaleCount    int               `json:"male_count"`
	FemaleCount  int               `json:"female_count"`
	AvgAge       float64           `json:"avg_age"`
	MinAge       int               `json:"min_age"`
	MaxAge       int               `json:"max_age"`
	DwellTimeSec float64           `json:"dwell_time_sec"`
	Faces        []FaceObservation `json:"faces"`
	SnapshotB64  string            `json:"snapshot_b64,omitempty"`
}

// Ingest statuses.
const (
	StatusNoMatch        = "no_match"
	StatusCooldownActive = "cooldown_active"
	StatusTriggerCreated = "trigger_created"
)

type IngestResponse struct {
	Status         string     `json:"status"`
	ProfileID      uuid.UUID  `json:"profile_id"`
	FacesStored    int        `json:"faces_stored"`
	FacesTotal     int        `json:"faces_total"`
	RuleID         *int64     `json:"rule_id,omitempty"`
	TriggerID      *uuid.UUID `json:"trigger_id,omitempty"`
	MediaID        string     `json:"media_id,omitempty"`
	ExpiresAt      string     `json:"expires_at,omitempty"`
	FaceExternalID string     `json:"face_external_id,omitempty"`
	CooldownUntil  string     `json:"cooldown_until,omitempty"`
}
