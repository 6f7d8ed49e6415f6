package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/your-org/vigil/internal/models"
	"github.com/your-org/vigil/internal/rules"
	"github.com/your-org/vigil/pkg/dto"
)

// DeviceConfigStore is the read-only storage surface of the config
// distributor.
type DeviceConfigStore interface {
	ScreenExists(ctx context.Context, screenID int64) (bool, error)
	ListActiveCameras(ctx context.Context, screenID int64) ([]models.Camera, error)
	GetCVConfig(ctx context.Context, cameraID int64) (*models.CVConfig, error)
	ListActiveRules(ctx context.Context, screenID int64) ([]models.Rule, error)
}

type DeviceConfigHandler struct {
	db         DeviceConfigStore
	apiVersion string
}

func NewDeviceConfigHandler(db DeviceConfigStore, apiVersion string) *DeviceConfigHandler {
	return &DeviceConfigHandler{db: db, apiVersion: apiVersion}
}

// Get assembles the device-facing snapshot of camera CV settings and
// active rules for a screen. The response shape is total: every
// recognized option is filled with its documented default here, never on
// the device.
func (h *DeviceConfigHandler) Get(c *gin.Context) {
	screenID, ok := screenIDParam(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()

	exists, err := h.db.ScreenExists(ctx, screenID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown screen"})
		return
	}

	cameras, err := h.db.ListActiveCameras(ctx, screenID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	camConfigs := make([]dto.CameraConfig, 0, len(cameras))
	anyEnabled := false
	for _, cam := range cameras {
		cvCfg, err := h.db.GetCVConfig(ctx, cam.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		cc := dto.CameraConfig{
			ID:        cam.ID,
			Name:      cam.Name,
			CVEnabled: cvCfg != nil,
		}
		if cvCfg != nil {
			cc.Config = rules.NormalizeCVConfig(cvCfg)
			anyEnabled = true
		}
		camConfigs = append(camConfigs, cc)
	}

	activeRules, err := h.db.ListActiveRules(ctx, screenID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ruleInfos := make([]dto.RuleInfo, 0, len(activeRules))
	for _, r := range activeRules {
		ruleInfos = append(ruleInfos, dto.RuleInfo{
			ID:            r.ID,
			ScreenID:      r.ScreenID,
			Name:          r.Name,
			Priority:      r.Priority,
			MinPeople:     r.MinPeople,
			MaxPeople:     r.MaxPeople,
			MinMales:      r.MinMales,
			MaxMales:      r.MaxMales,
			MinFemales:    r.MinFemales,
			MaxFemales:    r.MaxFemales,
			MinAvgAge:     r.MinAvgAge,
			MaxAvgAge:     r.MaxAvgAge,
			MinDwellSec:   r.MinDwellSec,
			MaxDwellSec:   r.MaxDwellSec,
			OutputMediaID: r.OutputMediaID,
		})
	}

	c.JSON(http.StatusOK, dto.DeviceConfigResponse{
		APIVersion: h.apiVersion,
		Screen:     dto.ScreenInfo{ID: screenID, CVEnabled: anyEnabled},
		Cameras:    camConfigs,
		Rules:      ruleInfos,
		Timestamp:  time.Now().Format(time.RFC3339),
	})
}

// screenIDParam parses the screen_id query param, writing a 400 response
// when it is missing or malformed.
func screenIDParam(c *gin.Context) (int64, bool) {
	raw := c.Query("screen_id")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "screen_id is required"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid screen_id"})
		return 0, false
	}
	return id, true
}
