package router

import (
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/config"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/handler"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/middleware"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/repository"
)

// Deps carries everything the route table needs.
type Deps struct {
	Cfg *config.Config

	Auth      *handler.AuthHandler
	Channel   *handler.ChannelHandler
	System    *handler.SystemHandler
	Readiness *handler.ReadinessHandler
	Static    *handler.StaticHandler

	Users *repository.UserRepo
}

// Setup wires middleware and the full route table onto the app.
func Setup(app *fiber.App, d Deps) {
	app.Use(recoverer.New())
	app.Use(middleware.NewRequestLogger())
	app.Use(middleware.NewCORS(d.Cfg.CORSOrigins))
	app.Use(handler.MetricsMiddleware())

	requireAuth := middleware.NewAuth(d.Cfg.JWTSecret, d.Users)

	api := app.Group("/api", middleware.NewAPIRateLimiter().Handler())

	auth := api.Group("/auth", middleware.NewAuthRateLimiter().Handler())
	auth.Get("/login", d.Auth.Login)
	auth.Get("/callback", d.Auth.Callback)
	auth.Post("/logout", d.Auth.Logout, requireAuth)
	auth.Get("/me", d.Auth.Me, requireAuth)
	auth.Post("/refresh", d.Auth.Refresh, requireAuth)

	channel := api.Group("/channel")
	channel.Get("/search", d.Channel.Search)
	channel.Get("/by-username/:username", d.Channel.GetByUsername)
	channel.Get("/:channelId", d.Channel.Get)
	channel.Get("/:channelId/videos", d.Channel.Videos)
	channel.Get("/:channelId/history", d.Channel.History)
	channel.Get("/:channelId/analytics", d.Channel.Analytics, requireAuth)
	channel.Get("/:channelId/demographics", d.Channel.Demographics, requireAuth)

	system := api.Group("/system")
	system.Get("/health", d.System.Health)
	system.Get("/health/ready", d.Readiness.Ready)
	system.Get("/quota/status", d.System.QuotaStatus)
	system.Get("/config", d.System.Config)
	system.Get("/stats", d.System.Stats)

	app.Get("/metrics", handler.MetricsHandler())

	// SPA fallback, registered last so API routes win.
	app.Get("/*", d.Static.Serve)
}
