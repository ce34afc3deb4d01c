package handler

import (
	"database/sql"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/config"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/middleware"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/service"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/youtube"
)

// Default metrics and dimensions for the analytics report endpoint.
const (
	defaultMetrics    = "views,estimatedMinutesWatched,averageViewDuration,subscribersGained"
	defaultDimensions = "day"
)

// ChannelHandler serves channel lookups, video listings and the analytics
// endpoints that run under the caller's OAuth credentials.
type ChannelHandler struct {
	channels  *service.ChannelService
	analytics *service.AnalyticsService
	cfg       *config.Config
}

func NewChannelHandler(channels *service.ChannelService, analytics *service.AnalyticsService, cfg *config.Config) *ChannelHandler {
	return &ChannelHandler{channels: channels, analytics: analytics, cfg: cfg}
}

// Search handles GET /api/channel/search?q&maxResults
func (h *ChannelHandler) Search(c fiber.Ctx) error {
	query, msg := middleware.ValidateQuery(fiber.Query[string](c, "q"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", msg)
	}

	maxResults := middleware.ClampMaxResults(
		fiber.Query[int](c, "maxResults"), 10, h.cfg.MaxSearchResults)

	channels, err := h.channels.Search(c.Context(), query, int64(maxResults))
	if err != nil {
		return upstreamError(c, err, "Failed to search channels")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"query":    query,
		"count":    len(channels),
		"channels": channels,
	})
}

// Get handles GET /api/channel/:channelId
func (h *ChannelHandler) Get(c fiber.Ctx) error {
	channelID, msg := middleware.ValidateChannelID(c.Params("channelId"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", msg)
	}

	channel, err := h.channels.Lookup(c.Context(), channelID)
	if err != nil {
		return upstreamError(c, err, "Failed to fetch channel")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"channel": channel,
	})
}

// GetByUsername handles GET /api/channel/by-username/:username
func (h *ChannelHandler) GetByUsername(c fiber.Ctx) error {
	username, msg := middleware.ValidateUsername(c.Params("username"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", msg)
	}

	channel, err := h.channels.LookupByUsername(c.Context(), username)
	if err != nil {
		return upstreamError(c, err, "Failed to fetch channel by username")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"channel": channel,
	})
}

// Videos handles GET /api/channel/:channelId/videos?maxResults&order
func (h *ChannelHandler) Videos(c fiber.Ctx) error {
	channelID, msg := middleware.ValidateChannelID(c.Params("channelId"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", msg)
	}

	maxResults := middleware.ClampMaxResults(
		fiber.Query[int](c, "maxResults"), 10, h.cfg.MaxVideosPerChannel)
	order := youtube.NormalizeOrder(fiber.Query[string](c, "order"))

	videos, err := h.channels.Videos(c.Context(), channelID, int64(maxResults), order)
	if err != nil {
		return upstreamError(c, err, "Failed to fetch channel videos")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"channelId": channelID,
		"count":     len(videos),
		"order":     order,
		"videos":    videos,
	})
}

// History handles GET /api/channel/:channelId/history?days
func (h *ChannelHandler) History(c fiber.Ctx) error {
	channelID, msg := middleware.ValidateChannelID(c.Params("channelId"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", msg)
	}

	days := middleware.ClampMaxResults(
		fiber.Query[int](c, "days"), h.cfg.DefaultDateRange, middleware.MaxHistoryDays)

	history, err := h.channels.History(c.Context(), channelID, days)
	if err != nil {
		return middleware.ErrorResponseDetails(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch statistics history", err.Error())
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"channelId": channelID,
		"days":      days,
		"count":     len(history),
		"history":   history,
	})
}

// Analytics handles GET /api/channel/:channelId/analytics (authenticated).
func (h *ChannelHandler) Analytics(c fiber.Ctx) error {
	channelID, msg := middleware.ValidateChannelID(c.Params("channelId"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", msg)
	}

	startDate, endDate, msg := h.dateRange(c)
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", msg)
	}

	metrics := fiber.Query[string](c, "metrics")
	if metrics == "" {
		metrics = defaultMetrics
	}
	dimensions := fiber.Query[string](c, "dimensions")
	if dimensions == "" {
		dimensions = defaultDimensions
	}

	user := middleware.UserFromCtx(c)
	report, err := h.analytics.Query(c.Context(), user, channelID, startDate, endDate, metrics, dimensions)
	if err != nil {
		return analyticsError(c, err, "Failed to fetch channel analytics")
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"channelId": channelID,
		"startDate": startDate,
		"endDate":   endDate,
		"report":    report,
	})
}

// Demographics handles GET /api/channel/:channelId/demographics (authenticated).
func (h *ChannelHandler) Demographics(c fiber.Ctx) error {
	channelID, msg := middleware.ValidateChannelID(c.Params("channelId"))
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", msg)
	}

	startDate, endDate, msg := h.dateRange(c)
	if msg != "" {
		return middleware.ErrorResponse(c, fiber.StatusBadRequest, "MISSING_PARAMETERS", msg)
	}

	user := middleware.UserFromCtx(c)
	demographics, err := h.analytics.Demographics(c.Context(), user, channelID, startDate, endDate)
	if err != nil {
		return analyticsError(c, err, "Failed to fetch audience demographics")
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"channelId":    channelID,
		"startDate":    startDate,
		"endDate":      endDate,
		"demographics": demographics,
	})
}

// dateRange resolves startDate/endDate query params, defaulting to the
// configured trailing window ending yesterday.
func (h *ChannelHandler) dateRange(c fiber.Ctx) (string, string, string) {
	start := fiber.Query[string](c, "startDate")
	end := fiber.Query[string](c, "endDate")

	if start == "" && end == "" {
		yesterday := time.Now().UTC().AddDate(0, 0, -1)
		return yesterday.AddDate(0, 0, -h.cfg.DefaultDateRange).Format("2006-01-02"),
			yesterday.Format("2006-01-02"), ""
	}

	start, msg := middleware.ValidateDate(start, "startDate")
	if msg != "" {
		return "", "", msg
	}
	end, msg = middleware.ValidateDate(end, "endDate")
	if msg != "" {
		return "", "", msg
	}
	if end < start {
		return "", "", "endDate must not be before startDate"
	}
	return start, end, ""
}

// upstreamError maps Data API and storage failures onto the error envelope.
func upstreamError(c fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, youtube.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return middleware.ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Channel not found")
	case errors.Is(err, youtube.ErrNoCredentials):
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "API_NOT_CONFIGURED", "YouTube API key is not configured")
	default:
		return middleware.ErrorResponseDetails(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", message, err.Error())
	}
}

// analyticsError maps Analytics API failures, which additionally depend on
// the caller's OAuth grant.
func analyticsError(c fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, youtube.ErrOAuthNotConfigured):
		return middleware.ErrorResponse(c, fiber.StatusInternalServerError, "OAUTH_INIT_ERROR", "OAuth is not configured")
	case errors.Is(err, service.ErrNoOAuthTokens), errors.Is(err, youtube.ErrAnalyticsUnavailable):
		return middleware.ErrorResponse(c, fiber.StatusForbidden, "OAUTH_REQUIRED", "Google account authorization is required for analytics data")
	default:
		return upstreamError(c, err, message)
	}
}
