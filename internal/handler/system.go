package handler

import (
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/config"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/middleware"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/service"
)

// SystemHandler serves the operational endpoints: health, quota usage,
// effective configuration and live statistics.
type SystemHandler struct {
	cfg   *config.Config
	quota *service.QuotaTracker
	stats *service.StatsService
	cache *service.CacheService
}

func NewSystemHandler(cfg *config.Config, quota *service.QuotaTracker, stats *service.StatsService, cache *service.CacheService) *SystemHandler {
	return &SystemHandler{cfg: cfg, quota: quota, stats: stats, cache: cache}
}

// Health handles GET /api/health. Liveness only; it never fails.
func (h *SystemHandler) Health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// QuotaStatus handles GET /api/system/quota/status
func (h *SystemHandler) QuotaStatus(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"quota":   h.quota.Status(),
	})
}

// Config handles GET /api/system/config. Secrets stay out; only limits and
// feature switches are exposed.
func (h *SystemHandler) Config(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"config": fiber.Map{
			"environment":         h.cfg.Environment,
			"maxSearchResults":    h.cfg.MaxSearchResults,
			"maxVideosPerChannel": h.cfg.MaxVideosPerChannel,
			"defaultDateRange":    h.cfg.DefaultDateRange,
			"oauthEnabled":        h.cfg.OAuthConfigured(),
			"apiKeyConfigured":    h.cfg.YouTubeAPIKey != "",
			"cacheEnabled":        h.cache.Enabled(),
			"cacheTTL": fiber.Map{
				"channelInfoSeconds":  int(h.cfg.ChannelInfoTTL.Seconds()),
				"channelStatsSeconds": int(h.cfg.ChannelStatsTTL.Seconds()),
				"demographicsSeconds": int(h.cfg.DemographicsTTL.Seconds()),
				"videoListSeconds":    int(h.cfg.VideoListTTL.Seconds()),
			},
		},
	})
}

// Stats handles GET /api/system/stats
func (h *SystemHandler) Stats(c fiber.Ctx) error {
	stats, err := h.stats.Collect(c.Context())
	if err != nil {
		return middleware.ErrorResponseDetails(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to collect system statistics", err.Error())
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
