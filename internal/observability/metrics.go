package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ObservationsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vigil",
		Name:      "observations_ingested_total",
		Help:      "Total number of audience observations ingested",
	}, []string{"screen_id"})

	FacesPersisted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vigil",
		Name:      "faces_persisted_total",
		Help:      "Total number of face rows persisted",
	}, []string{"screen_id"})

	TriggersCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vigil",
		Name:      "triggers_created_total",
		Help:      "Total number of override triggers created",
	}, []string{"screen_id", "rule_id"})

	CooldownRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vigil",
		Name:      "cooldown_rejections_total",
		Help:      "Ingest calls rejected because the triggering face was in cooldown",
	}, []string{"screen_id"})

	RuleNoMatch = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vigil",
		Name:      "rule_no_match_total",
		Help:      "Ingest calls where no active rule matched the observation",
	}, []string{"screen_id"})

	ResolveDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vigil",
		Name:      "resolve_decisions_total",
		Help:      "Content resolution outcomes by mode",
	}, []string{"mode"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vigil",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	WSConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "vigil",
		Name:      "ws_connections",
		Help:      "Number of active WebSocket connections",
	})
)
