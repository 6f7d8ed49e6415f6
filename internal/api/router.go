package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/your-org/vigil/internal/api/handlers"
	"github.com/your-org/vigil/internal/api/ws"
	"github.com/your-org/vigil/internal/auth"
	"github.com/your-org/vigil/internal/queue"
	"github.com/your-org/vigil/internal/storage"
)

type RouterConfig struct {
	APIKey     string
	APIVersion string
	TriggerTTL time.Duration
	DB         *storage.PostgresStore
	MinIO      *storage.MinIOStore
	Producer   *queue.Producer
	Hub        *ws.Hub
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(LoggingMiddleware())
	// Open CORS: device-config and resolve are called from uncontrolled
	// edge devices and screens.
	r.Use(cors.Default())

	// System endpoints (no auth)
	systemH := handlers.NewSystemHandler(cfg.DB, cfg.MinIO, cfg.Producer)
	r.GET("/healthz", systemH.Healthz)
	r.GET("/readyz", systemH.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Device-facing reads (no auth, total responses)
	configH := handlers.NewDeviceConfigHandler(cfg.DB, cfg.APIVersion)
	resolveH := handlers.NewResolveHandler(cfg.DB)
	r.GET("/v1/device-config", configH.Get)
	r.GET("/v1/resolve", resolveH.Resolve)

	// Authenticated surface: telemetry writes and audit reads
	v1 := r.Group("/v1")
	v1.Use(auth.APIKeyMiddleware(cfg.APIKey))

	// WebSocket trigger feed
	v1.GET("/ws", cfg.Hub.HandleWS)

	ingestH := handlers.NewIngestHandler(cfg.DB, cfg.MinIO, cfg.Producer, cfg.TriggerTTL)
	v1.POST("/observations", ingestH.Ingest)

	triggerH := handlers.NewTriggerHandler(cfg.DB, cfg.MinIO)
	v1.GET("/screens/:id/triggers", triggerH.List)
	v1.GET("/observations/:id/snapshot", triggerH.Snapshot)

	return r
}
