package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	ytv3 "google.golang.org/api/youtube/v3"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/config"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/db"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/handler"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/middleware"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/repository"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/router"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/service"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/youtube"
)

const stateTTL = 10 * time.Minute

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "youtube-channel-analyzer")
	log := middleware.Logger

	ctx := context.Background()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn); err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	cache := service.NewCacheService(cfg.RedisURL)
	defer cache.Close()

	handler.InitMetrics(conn)

	quota := service.NewQuotaTracker(cfg.QuotaDailyLimit)
	quota.Mirror(handler.RecordAPIUnits)

	channelRepo := repository.NewChannelRepo(conn)
	videoRepo := repository.NewVideoRepo(conn)
	userRepo := repository.NewUserRepo(conn)
	analyticsRepo := repository.NewAnalyticsRepo(conn)

	var dataAPI service.DataAPI
	if cfg.YouTubeAPIKey != "" {
		client, err := youtube.NewClient(ctx, cfg.YouTubeAPIKey, nil, quota)
		if err != nil {
			log.Fatal().Err(err).Msg("youtube client init failed")
		}
		dataAPI = client
	} else {
		log.Warn().Msg("YOUTUBE_API_KEY not set, channel endpoints will fail")
		dataAPI = apiUnavailable{}
	}

	var oauth *youtube.OAuth
	var authSvc *service.AuthService
	if cfg.OAuthConfigured() {
		oauth, err = youtube.NewOAuth(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURI)
		if err != nil {
			log.Fatal().Err(err).Msg("oauth init failed")
		}
		states := youtube.NewStateStore(stateTTL)
		authSvc = service.NewAuthService(oauth, userRepo, states, cfg.JWTSecret, cfg.JWTExpires)
	} else {
		log.Warn().Msg("Google OAuth not configured, auth endpoints disabled")
	}

	channelSvc := service.NewChannelService(dataAPI, channelRepo, videoRepo, analyticsRepo, cache, cfg.ChannelInfoTTL, cfg.VideoListTTL, cfg.ChannelStatsTTL)
	analyticsSvc := service.NewAnalyticsService(oauth, userRepo, analyticsRepo, quota, cfg.DemographicsTTL)
	statsSvc := service.NewStatsService(channelRepo, videoRepo, userRepo)

	app := fiber.New(fiber.Config{
		AppName: "youtube-channel-analyzer",
	})

	router.Setup(app, router.Deps{
		Cfg:       cfg,
		Auth:      handler.NewAuthHandler(authSvc),
		Channel:   handler.NewChannelHandler(channelSvc, analyticsSvc, cfg),
		System:    handler.NewSystemHandler(cfg, quota, statsSvc, cache),
		Readiness: handler.NewReadinessHandler(conn, cache),
		Static:    handler.NewStaticHandler(cfg.StaticDir),
		Users:     userRepo,
	})

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("environment", cfg.Environment).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}

// apiUnavailable stands in for the gateway when no API key is configured so
// the rest of the server (auth, history, system routes) still runs.
type apiUnavailable struct{}

func (apiUnavailable) SearchChannels(context.Context, string, int64) ([]*ytv3.Channel, error) {
	return nil, youtube.ErrNoCredentials
}

func (apiUnavailable) ChannelDetails(context.Context, string) (*ytv3.Channel, error) {
	return nil, youtube.ErrNoCredentials
}

func (apiUnavailable) ChannelByUsername(context.Context, string) (*ytv3.Channel, error) {
	return nil, youtube.ErrNoCredentials
}

func (apiUnavailable) ChannelVideos(context.Context, string, int64, string) ([]*ytv3.Video, error) {
	return nil, youtube.ErrNoCredentials
}
