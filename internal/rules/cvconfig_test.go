package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/vigil/internal/models"
)

func bptr(v bool) *bool { return &v }

func TestNormalizeCVConfig(t *testing.T) {
	t.Run("empty config gets every documented default", func(t *testing.T) {
		got := NormalizeCVConfig(&models.CVConfig{})

		assert.Equal(t, 2000, got.FrameIntervalMS)
		assert.True(t, got.EnableAge)
		assert.True(t, got.EnableGender)
		assert.Equal(t, 1, got.MinPeopleForDetection)
		assert.Equal(t, float64(5), got.MinDwellToTriggerSec)
		assert.Equal(t, 600, got.RearmCooldownSec)
		assert.JSONEq(t, "{}", string(got.ExtraConfig))
	})

	t.Run("stored values survive normalization", func(t *testing.T) {
		got := NormalizeCVConfig(&models.CVConfig{
			FrameIntervalMS:      iptr(500),
			EnableAge:            bptr(false),
			MinDwellToTriggerSec: fptr(2.5),
			ExtraConfig:          json.RawMessage(`{"roi":"full"}`),
		})

		assert.Equal(t, 500, got.FrameIntervalMS)
		assert.False(t, got.EnableAge)
		assert.True(t, got.EnableGender, "unset option still defaults")
		assert.Equal(t, 2.5, got.MinDwellToTriggerSec)
		assert.Equal(t, 600, got.RearmCooldownSec)
		assert.JSONEq(t, `{"roi":"full"}`, string(got.ExtraConfig))
	})

	t.Run("nil config still yields a total shape", func(t *testing.T) {
		got := NormalizeCVConfig(nil)
		assert.Equal(t, 2000, got.FrameIntervalMS)
		assert.True(t, got.EnableGender)
	})

	t.Run("normalized shape serializes with no missing fields", func(t *testing.T) {
		data, err := json.Marshal(NormalizeCVConfig(&models.CVConfig{}))
		assert.NoError(t, err)

		var m map[string]any
		assert.NoError(t, json.Unmarshal(data, &m))
		for _, key := range []string{
			"frame_interval_ms", "enable_age", "enable_gender",
			"min_people_for_detection", "min_dwell_to_trigger_sec",
			"rearm_cooldown_sec", "extra_config",
		} {
			assert.Contains(t, m, key)
		}
	})
}
