package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string
	Environment string
	CORSOrigins string
	StaticDir   string

	YouTubeAPIKey      string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string

	JWTSecret  string
	JWTExpires time.Duration

	// Request limits exposed via /api/system/config.
	MaxSearchResults    int
	MaxVideosPerChannel int
	DefaultDateRange    int // days

	// Cache TTLs. ChannelInfoTTL and VideoListTTL also drive the DB
	// staleness checks: rows older than these are refetched from the API.
	// ChannelStatsTTL bounds cached history series, DemographicsTTL the
	// persisted demographics read path.
	ChannelInfoTTL  time.Duration
	ChannelStatsTTL time.Duration
	DemographicsTTL time.Duration
	VideoListTTL    time.Duration

	// Daily unit allowance granted by Google, used for quota reporting only.
	QuotaDailyLimit int
}

// Load reads configuration from the environment. A .env file is applied
// first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: getEnv("DATABASE_URL", "sqlite://app.db"),
		RedisURL:    getEnv("REDIS_URL", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		StaticDir:   getEnv("STATIC_DIR", "./static"),

		YouTubeAPIKey:      getEnv("YOUTUBE_API_KEY", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "http://localhost:8080/api/auth/callback"),

		JWTSecret:  getEnv("JWT_SECRET_KEY", "dev-secret-key-change-in-production"),
		JWTExpires: time.Duration(getEnvInt("JWT_ACCESS_TOKEN_EXPIRES", 3600)) * time.Second,

		MaxSearchResults:    getEnvInt("MAX_SEARCH_RESULTS", 50),
		MaxVideosPerChannel: getEnvInt("MAX_VIDEOS_PER_CHANNEL", 50),
		DefaultDateRange:    getEnvInt("DEFAULT_DATE_RANGE_DAYS", 30),

		ChannelInfoTTL:  time.Duration(getEnvInt("CACHE_CHANNEL_INFO_SECONDS", 3600)) * time.Second,
		ChannelStatsTTL: time.Duration(getEnvInt("CACHE_CHANNEL_STATS_SECONDS", 1800)) * time.Second,
		DemographicsTTL: time.Duration(getEnvInt("CACHE_DEMOGRAPHICS_SECONDS", 21600)) * time.Second,
		VideoListTTL:    time.Duration(getEnvInt("CACHE_VIDEO_LIST_SECONDS", 3600)) * time.Second,

		QuotaDailyLimit: getEnvInt("QUOTA_DAILY_LIMIT", 10000),
	}
}

// OAuthConfigured reports whether all Google OAuth settings are present.
func (c *Config) OAuthConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRedirectURI != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
