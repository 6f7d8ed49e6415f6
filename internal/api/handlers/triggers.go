package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/your-org/vigil/internal/models"
	"github.com/your-org/vigil/pkg/dto"
)

// AuditStore serves the audit read endpoints used by dashboards.
type AuditStore interface {
	ListTriggers(ctx context.Context, screenID int64, limit int) ([]models.Trigger, error)
	GetAudienceProfile(ctx context.Context, id uuid.UUID) (*models.AudienceProfile, error)
}

// ObjectStore reads stored snapshot images.
type ObjectStore interface {
	GetObject(ctx context.Context, key string) ([]byte, error)
}

type TriggerHandler struct {
	db      AuditStore
	objects ObjectStore
}

func NewTriggerHandler(db AuditStore, objects ObjectStore) *TriggerHandler {
	return &TriggerHandler{db: db, objects: objects}
}

// List returns recent trigger rows for a screen, newest first.
func (h *TriggerHandler) List(c *gin.Context) {
	screenID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid screen id"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	triggers, err := h.db.ListTriggers(c.Request.Context(), screenID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]dto.TriggerResponse, 0, len(triggers))
	for i := range triggers {
		resp = append(resp, triggerToResponse(&triggers[i]))
	}

	c.JSON(http.StatusOK, dto.TriggerListResponse{Triggers: resp, Total: len(resp)})
}

// Snapshot proxies the audience snapshot image stored for an observation.
func (h *TriggerHandler) Snapshot(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid observation id"})
		return
	}

	profile, err := h.db.GetAudienceProfile(c.Request.Context(), profileID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "observation not found"})
		return
	}
	if profile.SnapshotKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "observation has no snapshot"})
		return
	}

	data, err := h.objects.GetObject(c.Request.Context(), profile.SnapshotKey)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "snapshot not found"})
		return
	}

	c.Data(http.StatusOK, "image/jpeg", data)
}

func triggerToResponse(tr *models.Trigger) dto.TriggerResponse {
	resp := dto.TriggerResponse{
		ID:        tr.ID,
		ScreenID:  tr.ScreenID,
		MediaID:   tr.MediaID,
		RuleID:    tr.RuleID,
		Active:    tr.Active,
		CreatedAt: tr.CreatedAt.Format(time.RFC3339),
	}
	if tr.ExpiresAt != nil {
		s := tr.ExpiresAt.Format(time.RFC3339)
		resp.ExpiresAt = &s
	}
	return resp
}
