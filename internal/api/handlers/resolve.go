package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/vigil/internal/models"
	"github.com/your-org/vigil/internal/observability"
	"github.com/your-org/vigil/pkg/dto"
)

// ResolveStore is the read-only storage surface of the content resolver.
type ResolveStore interface {
	LatestTrigger(ctx context.Context, screenID int64) (*models.Trigger, error)
	ListScheduledMedia(ctx context.Context, screenID int64) ([]models.ScheduledItem, error)
}

type ResolveHandler struct {
	db ResolveStore
}

func NewResolveHandler(db ResolveStore) *ResolveHandler {
	return &ResolveHandler{db: db}
}

// Resolve decides what a screen should play right now: live trigger over
// scheduled playlist over empty fallback. It is a pure read evaluated on
// every call; stale triggers are ignored by timestamp comparison, never
// deleted here.
func (h *ResolveHandler) Resolve(c *gin.Context) {
	screenID, ok := screenIDParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	now := time.Now()

	trigger, err := h.db.LatestTrigger(ctx, screenID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if trigger.Live(now) {
		observability.ResolveDecisions.WithLabelValues(dto.ModeTrigger).Inc()
		resp := gin.H{
			"mode":       dto.ModeTrigger,
			"trigger_id": trigger.ID,
			"rule_id":    trigger.RuleID,
			"media_id":   trigger.MediaID,
			"reason":     "live trigger overrides schedule",
		}
		if trigger.ExpiresAt != nil {
			resp["expires_at"] = trigger.ExpiresAt.Format(time.RFC3339)
		} else {
			resp["expires_at"] = nil
		}
		c.JSON(http.StatusOK, resp)
		return
	}

	items, err := h.db.ListScheduledMedia(ctx, screenID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if len(items) > 0 {
		playlist := make([]dto.PlaylistItem, 0, len(items))
		for _, it := range items {
			playlist = append(playlist, dto.PlaylistItem{MediaID: it.MediaID, Order: it.DisplayOrder})
		}
		observability.ResolveDecisions.WithLabelValues(dto.ModeScheduled).Inc()
		c.JSON(http.StatusOK, gin.H{
			"mode":     dto.ModeScheduled,
			"playlist": playlist,
			"reason":   "no live trigger, scheduled playlist assigned",
		})
		return
	}

	observability.ResolveDecisions.WithLabelValues(dto.ModeFallback).Inc()
	c.JSON(http.StatusOK, gin.H{
		"mode":     dto.ModeFallback,
		"playlist": []dto.PlaylistItem{},
		"reason":   "no live trigger and no scheduled playlist",
	})
}
