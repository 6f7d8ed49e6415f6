package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/vigil/internal/models"
	"github.com/your-org/vigil/internal/observability"
	"github.com/your-org/vigil/internal/rules"
	"github.com/your-org/vigil/pkg/dto"
)

// IngestStore is the storage surface the ingest path needs. All writes
// are append-only inserts; correctness comes from insert ordering and
// timestamp comparison, never from row updates.
type IngestStore interface {
	CreateAudienceProfile(ctx context.Context, p *models.AudienceProfile) error
	CreateFace(ctx context.Context, f *models.Face) error
	ListActiveRules(ctx context.Context, screenID int64) ([]models.Rule, error)
	LatestFaceTrigger(ctx context.Context, faceExternalID string, screenID, ruleID int64) (*models.FaceTriggerHistory, error)
	CreateTriggerWithHistory(ctx context.Context, tr *models.Trigger, hist *models.FaceTriggerHistory) error
}

// TriggerPublisher publishes trigger events for dashboards. Publishing is
// best-effort; a failure never fails the ingest request.
type TriggerPublisher interface {
	PublishTrigger(ctx context.Context, screenID int64, data interface{}) error
}

// SnapshotStore stores optional audience snapshot images.
type SnapshotStore interface {
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
}

type IngestHandler struct {
	db         IngestStore
	snapshots  SnapshotStore
	publisher  TriggerPublisher
	triggerTTL time.Duration
}

func NewIngestHandler(db IngestStore, snapshots SnapshotStore, publisher TriggerPublisher, triggerTTL time.Duration) *IngestHandler {
	return &IngestHandler{
		db:         db,
		snapshots:  snapshots,
		publisher:  publisher,
		triggerTTL: triggerTTL,
	}
}

// Ingest accepts one audience observation, persists it, evaluates active
// rules and — subject to per-face cooldown — creates a time-limited
// trigger. The profile insert is fatal; face inserts are best-effort.
func (h *IngestHandler) Ingest(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read request body"})
		return
	}

	var req dto.IngestRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}
	if req.ScreenID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "screen_id is required"})
		return
	}
	if req.CameraID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "camera_id is required"})
		return
	}

	ctx := c.Request.Context()
	screenID := *req.ScreenID
	now := time.Now()

	profile := &models.AudienceProfile{
		ID:           uuid.New(),
		ScreenID:     screenID,
		CameraID:     *req.CameraID,
		PeopleCount:  req.PeopleCount,
		MaleCount:    req.MaleCount,
		FemaleCount:  req.FemaleCount,
		AvgAge:       req.AvgAge,
		MinAge:       req.MinAge,
		MaxAge:       req.MaxAge,
		DwellTimeSec: req.DwellTimeSec,
		RawPayload:   raw,
	}

	// Snapshot storage happens before the profile insert so the key lands
	// on the immutable row. Failures only lose the audit image.
	if req.SnapshotB64 != "" && h.snapshots != nil {
		if img, decErr := base64.StdEncoding.DecodeString(req.SnapshotB64); decErr == nil {
			key := "observations/" + profile.ID.String() + ".jpg"
			if putErr := h.snapshots.PutObject(ctx, key, img, "image/jpeg"); putErr != nil {
				slog.Warn("store audience snapshot", "profile_id", profile.ID, "error", putErr)
			} else {
				profile.SnapshotKey = key
			}
		} else {
			slog.Warn("decode audience snapshot", "error", decErr)
		}
	}

	if err := h.db.CreateAudienceProfile(ctx, profile); err != nil {
		slog.Error("persist audience profile", "screen_id", screenID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to persist observation"})
		return
	}
	observability.ObservationsIngested.WithLabelValues(strconv.FormatInt(screenID, 10)).Inc()

	// Persist every face, id or not. Failures are logged and swallowed so
	// one bad face row never fails the whole observation.
	faces := make([]models.Face, 0, len(req.Faces))
	stored := 0
	for _, fo := range req.Faces {
		f := models.Face{
			ProfileID:    profile.ID,
			ExternalID:   fo.ExternalID(),
			Age:          fo.Age,
			Gender:       fo.Gender,
			DwellTimeSec: fo.DwellTimeSec,
			IsNew:        fo.IsNew,
			Embedding:    fo.Embedding,
		}
		if err := h.db.CreateFace(ctx, &f); err != nil {
			slog.Warn("persist face", "profile_id", profile.ID, "external_id", f.ExternalID, "error", err)
		} else {
			stored++
		}
		faces = append(faces, f)
	}
	observability.FacesPersisted.WithLabelValues(strconv.FormatInt(screenID, 10)).Add(float64(stored))

	resp := dto.IngestResponse{
		ProfileID:   profile.ID,
		FacesStored: stored,
		FacesTotal:  len(req.Faces),
	}

	activeRules, err := h.db.ListActiveRules(ctx, screenID)
	if err != nil {
		slog.Error("load active rules", "screen_id", screenID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load rules"})
		return
	}

	matched := rules.FirstMatch(activeRules, profile)
	if matched == nil {
		observability.RuleNoMatch.WithLabelValues(strconv.FormatInt(screenID, 10)).Inc()
		resp.Status = dto.StatusNoMatch
		c.JSON(http.StatusOK, resp)
		return
	}

	triggering := rules.SelectTriggeringFace(faces)
	if triggering != nil {
		last, err := h.db.LatestFaceTrigger(ctx, triggering.ExternalID, screenID, matched.ID)
		if err != nil {
			slog.Error("cooldown lookup", "screen_id", screenID, "rule_id", matched.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check cooldown"})
			return
		}
		if last != nil && last.ExpiresAt.After(now) {
			observability.CooldownRejections.WithLabelValues(strconv.FormatInt(screenID, 10)).Inc()
			resp.Status = dto.StatusCooldownActive
			resp.FaceExternalID = triggering.ExternalID
			resp.CooldownUntil = last.ExpiresAt.Format(time.RFC3339)
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	expiresAt := now.Add(h.triggerTTL)
	trigger := &models.Trigger{
		ScreenID:  screenID,
		MediaID:   matched.OutputMediaID,
		RuleID:    matched.ID,
		Active:    true,
		ExpiresAt: &expiresAt,
	}

	var hist *models.FaceTriggerHistory
	if triggering != nil {
		hist = &models.FaceTriggerHistory{
			FaceExternalID: triggering.ExternalID,
			ScreenID:       screenID,
			RuleID:         matched.ID,
			ExpiresAt:      expiresAt,
		}
	}

	if err := h.db.CreateTriggerWithHistory(ctx, trigger, hist); err != nil {
		slog.Error("create trigger", "screen_id", screenID, "rule_id", matched.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create trigger"})
		return
	}

	observability.TriggersCreated.WithLabelValues(
		strconv.FormatInt(screenID, 10),
		strconv.FormatInt(matched.ID, 10),
	).Inc()

	if h.publisher != nil {
		event := &dto.TriggerEvent{
			Type:     dto.StatusTriggerCreated,
			ScreenID: screenID,
			Data:     triggerToResponse(trigger),
		}
		if err := h.publisher.PublishTrigger(ctx, screenID, event); err != nil {
			slog.Warn("publish trigger event", "screen_id", screenID, "error", err)
		}
	}

	expires := expiresAt.Format(time.RFC3339)
	resp.Status = dto.StatusTriggerCreated
	resp.RuleID = &matched.ID
	resp.TriggerID = &trigger.ID
	resp.MediaID = trigger.MediaID
	resp.ExpiresAt = expires
	c.JSON(http.StatusOK, resp)
}
