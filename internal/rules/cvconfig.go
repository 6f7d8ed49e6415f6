package rules

import (
	"encoding/json"

	"github.com/your-org/vigil/internal/models"
)

// Documented defaults for device CV settings. Defaulting happens here on
// the server so every device observes identical values regardless of
// firmware version.
const (
	DefaultFrameIntervalMS       = 2000
	DefaultEnableAge             = true
	DefaultEnableGender          = true
	DefaultMinPeopleForDetection = 1
	DefaultMinDwellToTriggerSec  = 5
	DefaultRearmCooldownSec      = 600
)

// DeviceCVConfig is the total (every field populated) configuration shape
// sent to edge devices.
type DeviceCVConfig struct {
	FrameIntervalMS       int             `json:"frame_interval_ms"`
	EnableAge             bool            `json:"enable_age"`
	EnableGender          bool            `json:"enable_gender"`
	MinPeopleForDetection int             `json:"min_people_for_detection"`
	MinDwellToTriggerSec  float64         `json:"min_dwell_to_trigger_sec"`
	RearmCooldownSec      int             `json:"rearm_cooldown_sec"`
	ExtraConfig           json.RawMessage `json:"extra_config"`
}

// NormalizeCVConfig turns a partial stored config into a total one,
// filling every absent option with its documented default.
func NormalizeCVConfig(cfg *models.CVConfig) *DeviceCVConfig {
	out := &DeviceCVConfig{
		FrameIntervalMS:       DefaultFrameIntervalMS,
		EnableAge:             DefaultEnableAge,
		EnableGender:          DefaultEnableGender,
		MinPeopleForDetection: DefaultMinPeopleForDetection,
		MinDwellToTriggerSec:  DefaultMinDwellToTriggerSec,
		RearmCooldownSec:      DefaultRearmCooldownSec,
		ExtraConfig:           json.RawMessage("{}"),
	}
	if cfg == nil {
		return out
	}
	if cfg.FrameIntervalMS != nil {
		out.FrameIntervalMS = *cfg.FrameIntervalMS
	}
	if cfg.EnableAge != nil {
		out.EnableAge = *cfg.EnableAge
	}
	if cfg.EnableGender != nil {
		out.EnableGender = *cfg.EnableGender
	}
	if cfg.MinPeopleForDetection != nil {
		out.MinPeopleForDetection = *cfg.MinPeopleForDetection
	}
	if cfg.MinDwellToTriggerSec != nil {
		out.MinDwellToTriggerSec = *cfg.MinDwellToTriggerSec
	}
	if cfg.RearmCooldownSec != nil {
		out.RearmCooldownSec = *cfg.RearmCooldownSec
	}
	if len(cfg.ExtraConfig) > 0 {
		out.ExtraConfig = cfg.ExtraConfig
	}
	return out
}
