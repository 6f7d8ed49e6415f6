package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/vigil/internal/models"
)

func resolveScreen(t *testing.T, fs *fakeStore, url string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/v1/resolve", NewResolveHandler(fs).Resolve)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	r.ServeHTTP(w, req)

	var body map[string]any
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func futureTrigger(screenID int64, in time.Duration) models.Trigger {
	exp := time.Now().Add(in)
	return models.Trigger{
		ScreenID:  screenID,
		MediaID:   "ad-1",
		RuleID:    42,
		Active:    true,
		CreatedAt: time.Now(),
		ExpiresAt: &exp,
	}
}

func TestResolveMissingScreenID(t *testing.T) {
	w, _ := resolveScreen(t, newFakeStore(), "/v1/resolve")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResolveTriggerMode(t *testing.T) {
	fs := newFakeStore()
	fs.triggers = []models.Trigger{futureTrigger(7, 10*time.Second)}
	fs.scheduled = []models.ScheduledItem{{MediaID: "m-1", DisplayOrder: 0}}

	_, body := resolveScreen(t, fs, "/v1/resolve?screen_id=7")

	assert.Equal(t, "trigger", body["mode"])
	assert.Equal(t, "ad-1", body["media_id"])
	assert.NotEmpty(t, body["expires_at"])
	assert.NotEmpty(t, body["reason"])
}

func TestResolveExpiredTriggerFallsThrough(t *testing.T) {
	fs := newFakeStore()
	fs.triggers = []models.Trigger{futureTrigger(7, -time.Second)}
	fs.scheduled = []models.ScheduledItem{
		{MediaID: "m-1", DisplayOrder: 0},
		{MediaID: "m-2", DisplayOrder: 1},
	}

	_, body := resolveScreen(t, fs, "/v1/resolve?screen_id=7")

	assert.Equal(t, "scheduled", body["mode"])
	playlist, ok := body["playlist"].([]any)
	require.True(t, ok)
	require.Len(t, playlist, 2)
	first := playlist[0].(map[string]any)
	assert.Equal(t, "m-1", first["media_id"])
	assert.Equal(t, float64(0), first["order"])
}

func TestResolveInactiveTriggerIgnored(t *testing.T) {
	fs := newFakeStore()
	tr := futureTrigger(7, time.Minute)
	tr.Active = false
	fs.triggers = []models.Trigger{tr}
	fs.scheduled = []models.ScheduledItem{{MediaID: "m-1", DisplayOrder: 0}}

	_, body := resolveScreen(t, fs, "/v1/resolve?screen_id=7")

	assert.Equal(t, "scheduled", body["mode"])
}

func TestResolveNilExpiryNeverExpires(t *testing.T) {
	fs := newFakeStore()
	tr := futureTrigger(7, time.Minute)
	tr.ExpiresAt = nil
	fs.triggers = []models.Trigger{tr}

	_, body := resolveScreen(t, fs, "/v1/resolve?screen_id=7")

	assert.Equal(t, "trigger", body["mode"])
	assert.Nil(t, body["expires_at"])
}

func TestResolveLatestTriggerWins(t *testing.T) {
	// An older live trigger followed by a newer stale one: relevance is
	// decided by the most recently created row only.
	fs := newFakeStore()
	fs.triggers = []models.Trigger{
		futureTrigger(7, time.Minute),
		futureTrigger(7, -time.Second),
	}
	fs.scheduled = []models.ScheduledItem{{MediaID: "m-1", DisplayOrder: 0}}

	_, body := resolveScreen(t, fs, "/v1/resolve?screen_id=7")

	assert.Equal(t, "scheduled", body["mode"])
}

func TestResolveFallbackMode(t *testing.T) {
	fs := newFakeStore()

	_, body := resolveScreen(t, fs, "/v1/resolve?screen_id=7")

	assert.Equal(t, "fallback", body["mode"])
	playlist, ok := body["playlist"].([]any)
	require.True(t, ok, "fallback still carries an explicit empty playlist")
	assert.Empty(t, playlist)
}

func TestResolveIsReadOnly(t *testing.T) {
	fs := newFakeStore()
	fs.triggers = []models.Trigger{futureTrigger(7, time.Minute)}

	for i := 0; i < 3; i++ {
		_, body := resolveScreen(t, fs, "/v1/resolve?screen_id=7")
		assert.Equal(t, "trigger", body["mode"])
	}
	assert.Len(t, fs.triggers, 1)
	assert.Empty(t, fs.profiles)
	assert.Empty(t, fs.history)
}
