package dto

import "github.com/your-org/vigil/internal/rules"

// DeviceConfigResponse is the single contract edge devices rely on to
// self-configure. Every field is always present; bounds that are unset in
// the store are serialized as explicit nulls, never omitted.
type DeviceConfigResponse struct {
	APIVersion string         `json:"api_version"`
	Screen     ScreenInfo     `json:"screen"`
	Cameras    []CameraConfig `json:"cameras"`
	Rules      []RuleInfo     `json:"rules"`
	Timestamp  string         `json:"timestamp"`
}

type ScreenInfo struct {
	ID        int64 `json:"id"`
	CVEnabled bool  `json:"cv_enabled"`
}

type CameraConfig struct {
	ID        int64                 `json:"id"`
	Name      string                `json:"name"`
	CVEnabled bool                  `json:"cv_enabled"`
	Config    *rules.DeviceCVConfig `json:"config"` // null when cv_enabled is false
}

type RuleInfo struct {
	ID            int64    `json:"id"`
	ScreenID      *int64   `json:"screen_id"`
	Name          string   `json:"name"`
	Priority      int      `json:"priority"`
	MinPeople     *int     `json:"min_people"`
	MaxPeople     *int     `json:"max_people"`
	MinMales      *int     `json:"min_males"`
	MaxMales      *int     `json:"max_males"`
	MinFemales    *int     `json:"min_females"`
	MaxFemales    *int     `json:"max_females"`
	MinAvgAge     *float64 `json:"min_avg_age"`
	MaxAvgAge     *float64 `json:"max_avg_age"`
	MinDwellSec   *float64 `json:"min_dwell_sec"`
	MaxDwellSec   *float64 `json:"max_dwell_sec"`
	OutputMediaID string   `json:"output_media_id"`
}
