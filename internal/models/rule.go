package models

import "time"

// Rule is a prioritized predicate over an observation's aggregate counts.
// A nil bound means unconstrained. Rules are owned by the management app;
// this service only reads them.
type Rule struct {
	ID            int64     `json:"id" db:"id"`
	ScreenID      *int64    `json:"screen_id" db:"screen_id"` // nil = global
	Name          string    `json:"name" db:"name"`
	Priority      int       `json:"priority" db:"priority"`
	MinPeople     *int      `json:"min_people" db:"min_people"`
	MaxPeople     *int      `json:"max_people" db:"max_people"`
	MinMales      *int      `json:"min_males" db:"min_males"`
	MaxMales      *int      `json:"max_males" db:"max_males"`
	MinFemales    *int      `json:"min_females" db:"min_females"`
	MaxFemales    *int      `json:"max_females" db:"max_females"`
	MinAvgAge     *float64  `json:"min_avg_age" db:"min_avg_age"`
	MaxAvgAge     *float64  `json:"max_avg_age" db:"max_avg_age"`
	MinDwellSec   *float64  `json:"min_dwell_sec" db:"min_dwell_sec"`
	MaxDwellSec   *float64  `json:"max_dwell_sec" db:"max_dwell_sec"`
	OutputMediaID string    `json:"output_media_id" db:"output_media_id"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}
