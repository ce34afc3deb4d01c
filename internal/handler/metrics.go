package handler

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Metrics holds all Prometheus collectors. Registered once at startup.
var Metrics = struct {
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
	APIUnitsTotal    *prometheus.CounterVec
	DBOpenConns      prometheus.Gauge
	DBInUseConns     prometheus.Gauge
	DBIdleConns      prometheus.Gauge
}{}

// InitMetrics registers all collectors and starts the DB pool stats sampler.
func InitMetrics(db *sqlx.DB) {
	Metrics.RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method, endpoint and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	Metrics.RequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "HTTP requests currently being served.",
	})

	Metrics.APIUnitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "youtube_api_units_total",
		Help: "YouTube API quota units consumed, by upstream service.",
	}, []string{"service"})

	Metrics.DBOpenConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_open",
		Help: "Open database connections.",
	})
	Metrics.DBInUseConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_in_use",
		Help: "Database connections currently in use.",
	})
	Metrics.DBIdleConns = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "db_connections_idle",
		Help: "Idle database connections.",
	})

	go sampleDBStats(db)
}

func sampleDBStats(db *sqlx.DB) {
	ticker := time.NewTicker(15 * time.Second)
	for range ticker.C {
		stats := db.Stats()
		Metrics.DBOpenConns.Set(float64(stats.OpenConnections))
		Metrics.DBInUseConns.Set(float64(stats.InUse))
		Metrics.DBIdleConns.Set(float64(stats.Idle))
	}
}

// RecordAPIUnits is the quota tracker mirror target.
func RecordAPIUnits(service string, units int) {
	if Metrics.APIUnitsTotal != nil {
		Metrics.APIUnitsTotal.WithLabelValues(service).Add(float64(units))
	}
}

// MetricsMiddleware observes request duration and in-flight count. Endpoints
// are sanitized to route templates to keep label cardinality bounded.
func MetricsMiddleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		Metrics.RequestsInFlight.Inc()

		err := c.Next()

		Metrics.RequestsInFlight.Dec()
		Metrics.RequestDuration.WithLabelValues(
			c.Method(),
			sanitizeEndpoint(c.Route().Path),
			strconv.Itoa(c.Response().StatusCode()),
		).Observe(time.Since(start).Seconds())

		return err
	}
}

// sanitizeEndpoint collapses unmatched paths (static files, 404s) into one
// label value.
func sanitizeEndpoint(routePath string) string {
	if routePath == "" || routePath == "/*" || routePath == "/" {
		return "static"
	}
	return routePath
}

// MetricsHandler exposes the Prometheus scrape endpoint through Fiber.
func MetricsHandler() fiber.Handler {
	adapted := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	return func(c fiber.Ctx) error {
		adapted(c.Context())
		return nil
	}
}
