package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/jmoiron/sqlx"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/service"
)

// ReadinessHandler reports whether the service can actually serve traffic:
// the database must answer and, when configured, Redis must too.
type ReadinessHandler struct {
	db    *sqlx.DB
	cache *service.CacheService
}

func NewReadinessHandler(db *sqlx.DB, cache *service.CacheService) *ReadinessHandler {
	return &ReadinessHandler{db: db, cache: cache}
}

// Ready handles GET /api/system/health/ready
func (h *ReadinessHandler) Ready(c fiber.Ctx) error {
	checks := fiber.Map{}
	ready := true

	dbStatus := "ok"
	if err := h.db.PingContext(c.Context()); err != nil {
		dbStatus = "unreachable: " + err.Error()
		ready = false
	}
	checks["database"] = dbStatus

	if h.cache.Enabled() {
		redisStatus := "ok"
		if err := h.cache.Client().Ping(c.Context()).Err(); err != nil {
			redisStatus = "unreachable: " + err.Error()
			ready = false
		}
		checks["redis"] = redisStatus
	} else {
		checks["redis"] = "disabled"
	}

	status := fiber.StatusOK
	state := "ready"
	if !ready {
		status = fiber.StatusServiceUnavailable
		state = "not ready"
	}

	return c.Status(status).JSON(fiber.Map{
		"status":    state,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
