package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/vigil/internal/models"
	"github.com/your-org/vigil/pkg/dto"
)

func i64ptr(v int64) *int64   { return &v }
func iptr(v int) *int         { return &v }
func fptr(v float64) *float64 { return &v }

func ingestRouter(fs *fakeStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewIngestHandler(fs, nil, nil, 30*time.Second)
	r.POST("/v1/observations", h.Ingest)
	return r
}

func postObservation(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, dto.IngestResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/observations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp dto.IngestResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestIngestValidation(t *testing.T) {
	r := ingestRouter(newFakeStore())

	tests := []struct {
		name string
		body string
	}{
		{"missing screen_id", `{"camera_id": 1, "people_count": 2}`},
		{"missing camera_id", `{"screen_id": 7, "people_count": 2}`},
		{"malformed json", `{"screen_id": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := postObservation(t, r, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}

func TestIngestNoMatch(t *testing.T) {
	fs := newFakeStore()
	fs.rules = []models.Rule{
		{ID: 1, Priority: 10, MinPeople: iptr(100), OutputMediaID: "ad-1", IsActive: true},
	}
	r := ingestRouter(fs)

	w, resp := postObservation(t, r, `{"screen_id": 7, "camera_id": 1, "people_count": 2}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.StatusNoMatch, resp.Status)
	require.Len(t, fs.profiles, 1, "profile persisted even without a match")
	assert.Equal(t, 2, fs.profiles[0].PeopleCount)
	assert.Empty(t, fs.triggers)
}

func TestIngestTriggerThenCooldown(t *testing.T) {
	fs := newFakeStore()
	fs.rules = []models.Rule{
		{ID: 42, Priority: 10, MinPeople: iptr(3), MinFemales: iptr(2), OutputMediaID: "ad-1", IsActive: true},
	}
	r := ingestRouter(fs)

	body := `{"screen_id": 7, "camera_id": 1, "people_count": 3, "female_count": 2, "male_count": 1,
		"faces": [{"face_id": "f1", "is_new": true}]}`

	w, resp := postObservation(t, r, body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.StatusTriggerCreated, resp.Status)
	require.NotNil(t, resp.RuleID)
	assert.Equal(t, int64(42), *resp.RuleID)
	assert.Equal(t, "ad-1", resp.MediaID)

	require.Len(t, fs.triggers, 1)
	tr := fs.triggers[0]
	assert.Equal(t, int64(7), tr.ScreenID)
	assert.Equal(t, "ad-1", tr.MediaID)
	assert.True(t, tr.Active)
	require.NotNil(t, tr.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), *tr.ExpiresAt, 2*time.Second)

	require.Len(t, fs.history, 1)
	assert.Equal(t, "f1", fs.history[0].FaceExternalID, "face_id fallback normalized to external id")

	// Same observation again: the face is now in cooldown.
	w, resp = postObservation(t, r, body)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.StatusCooldownActive, resp.Status)
	assert.Equal(t, "f1", resp.FaceExternalID)
	assert.NotEmpty(t, resp.CooldownUntil)
	assert.Len(t, fs.triggers, 1, "no second trigger while cooldown is active")

	// Both observations were persisted regardless of outcome.
	assert.Len(t, fs.profiles, 2)
}

func TestIngestExpiredCooldownRearms(t *testing.T) {
	fs := newFakeStore()
	fs.rules = []models.Rule{
		{ID: 5, Priority: 1, OutputMediaID: "ad-2", IsActive: true},
	}
	fs.history = []models.FaceTriggerHistory{
		{FaceExternalID: "f1", ScreenID: 7, RuleID: 5, ExpiresAt: time.Now().Add(-time.Second)},
	}
	r := ingestRouter(fs)

	_, resp := postObservation(t, r, `{"screen_id": 7, "camera_id": 1, "faces": [{"face_external_id": "f1"}]}`)

	assert.Equal(t, dto.StatusTriggerCreated, resp.Status)
	assert.Len(t, fs.triggers, 1)
}

func TestIngestNoTriggeringFace(t *testing.T) {
	fs := newFakeStore()
	fs.rules = []models.Rule{
		{ID: 9, Priority: 1, OutputMediaID: "ad-3", IsActive: true},
	}
	r := ingestRouter(fs)

	// Faces without external ids are persisted but never gate a trigger,
	// so no cooldown ledger row is written.
	_, resp := postObservation(t, r, `{"screen_id": 7, "camera_id": 1, "people_count": 1,
		"faces": [{"age": 30, "is_new": true}]}`)

	assert.Equal(t, dto.StatusTriggerCreated, resp.Status)
	assert.Len(t, fs.triggers, 1)
	assert.Empty(t, fs.history)
	assert.Len(t, fs.faces, 1)
	assert.Empty(t, fs.faces[0].ExternalID)
}

func TestIngestRulePriorityOrder(t *testing.T) {
	fs := newFakeStore()
	// Pre-sorted as the store returns them: priority desc, id asc.
	fs.rules = []models.Rule{
		{ID: 1, Priority: 20, MinPeople: iptr(50), OutputMediaID: "ad-hi", IsActive: true},
		{ID: 2, Priority: 10, OutputMediaID: "ad-mid", IsActive: true},
		{ID: 3, Priority: 5, OutputMediaID: "ad-lo", IsActive: true},
	}
	r := ingestRouter(fs)

	_, resp := postObservation(t, r, `{"screen_id": 7, "camera_id": 1, "people_count": 2}`)

	require.NotNil(t, resp.RuleID)
	assert.Equal(t, int64(2), *resp.RuleID, "first full match in priority order wins")
	assert.Equal(t, "ad-mid", resp.MediaID)
}

func TestIngestProfileFailureIsFatal(t *testing.T) {
	fs := newFakeStore()
	fs.profileErr = errors.New("connection reset")
	r := ingestRouter(fs)

	w, _ := postObservation(t, r, `{"screen_id": 7, "camera_id": 1}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, fs.triggers)
	assert.Empty(t, fs.history)
}

func TestIngestFaceFailureIsBestEffort(t *testing.T) {
	fs := newFakeStore()
	fs.faceErr = errors.New("disk full")
	fs.rules = []models.Rule{
		{ID: 1, Priority: 1, OutputMediaID: "ad-1", IsActive: true},
	}
	r := ingestRouter(fs)

	w, resp := postObservation(t, r, `{"screen_id": 7, "camera_id": 1,
		"faces": [{"face_external_id": "f1"}, {"face_external_id": "f2"}]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, resp.FacesStored)
	assert.Equal(t, 2, resp.FacesTotal)
	// Rule evaluation still ran on the observation.
	assert.Equal(t, dto.StatusTriggerCreated, resp.Status)
}

func TestIngestGlobalRuleApplies(t *testing.T) {
	fs := newFakeStore()
	fs.rules = []models.Rule{
		{ID: 1, ScreenID: nil, Priority: 1, OutputMediaID: "ad-global", IsActive: true},
	}
	r := ingestRouter(fs)

	_, resp := postObservation(t, r, `{"screen_id": 99, "camera_id": 1}`)

	assert.Equal(t, dto.StatusTriggerCreated, resp.Status)
	assert.Equal(t, "ad-global", resp.MediaID)
}
