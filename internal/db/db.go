package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	maxRetries    = 5
	retryInterval = 2 * time.Second
)

func init() {
	// modernc's driver registers as "sqlite", which sqlx doesn't know.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Open connects to the database described by databaseURL. A "sqlite://path"
// URL (the default) opens an embedded single-file database; a "postgres://"
// URL connects through pgx. Postgres connections are retried because the
// server may still be coming up alongside us.
func Open(ctx context.Context, databaseURL string) (*sqlx.DB, error) {
	driver, dsn, err := parseURL(databaseURL)
	if err != nil {
		return nil, err
	}

	var conn *sqlx.DB
	for attempt := 1; attempt <= maxRetries; attempt++ {
		conn, err = sqlx.Open(driver, dsn)
		if err == nil {
			if pingErr := conn.PingContext(ctx); pingErr == nil {
				return conn, nil
			} else {
				conn.Close()
				err = pingErr
			}
		}

		if driver == "sqlite" {
			// No point retrying a local file open.
			break
		}
		if attempt < maxRetries {
			time.Sleep(retryInterval)
		}
	}

	return nil, fmt.Errorf("database connection failed: %w", err)
}

func parseURL(databaseURL string) (driver, dsn string, err error) {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return "sqlite", strings.TrimPrefix(databaseURL, "sqlite://"), nil
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return "pgx", databaseURL, nil
	default:
		return "", "", fmt.Errorf("unsupported database url %q", databaseURL)
	}
}

// schema uses only DDL that SQLite and Postgres both accept. Timestamps are
// written by the application, never by database defaults.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		google_id        TEXT PRIMARY KEY,
		email            TEXT NOT NULL,
		name             TEXT NOT NULL,
		picture_url      TEXT NOT NULL DEFAULT '',
		access_token     TEXT NOT NULL DEFAULT '',
		refresh_token    TEXT NOT NULL DEFAULT '',
		token_expires_at TIMESTAMP,
		created_at       TIMESTAMP NOT NULL,
		last_login       TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS channels (
		channel_id          TEXT PRIMARY KEY,
		title               TEXT NOT NULL,
		description         TEXT NOT NULL DEFAULT '',
		custom_url          TEXT NOT NULL DEFAULT '',
		published_at        TIMESTAMP,
		thumbnail_default   TEXT NOT NULL DEFAULT '',
		thumbnail_medium    TEXT NOT NULL DEFAULT '',
		thumbnail_high      TEXT NOT NULL DEFAULT '',
		country             TEXT NOT NULL DEFAULT '',
		view_count          BIGINT NOT NULL DEFAULT 0,
		subscriber_count    BIGINT NOT NULL DEFAULT 0,
		video_count         BIGINT NOT NULL DEFAULT 0,
		uploads_playlist_id TEXT NOT NULL DEFAULT '',
		last_updated        TIMESTAMP NOT NULL,
		created_at          TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_channels_last_updated ON channels (last_updated)`,
	`CREATE TABLE IF NOT EXISTS channel_statistics_history (
		channel_id                TEXT NOT NULL,
		date                      TEXT NOT NULL,
		view_count                BIGINT NOT NULL DEFAULT 0,
		subscriber_count          BIGINT NOT NULL DEFAULT 0,
		video_count               BIGINT NOT NULL DEFAULT 0,
		estimated_minutes_watched BIGINT NOT NULL DEFAULT 0,
		average_view_duration     BIGINT NOT NULL DEFAULT 0,
		created_at                TIMESTAMP NOT NULL,
		PRIMARY KEY (channel_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS audience_demographics (
		channel_id            TEXT NOT NULL,
		date_range_start      TEXT NOT NULL,
		date_range_end        TEXT NOT NULL,
		dimension_type        TEXT NOT NULL,
		dimension_value       TEXT NOT NULL,
		views_percentage      DOUBLE PRECISION NOT NULL DEFAULT 0,
		watch_time_percentage DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at            TIMESTAMP NOT NULL,
		PRIMARY KEY (channel_id, date_range_start, date_range_end, dimension_type, dimension_value)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_demographics_channel_type ON audience_demographics (channel_id, dimension_type)`,
	`CREATE TABLE IF NOT EXISTS videos (
		video_id          TEXT PRIMARY KEY,
		channel_id        TEXT NOT NULL,
		title             TEXT NOT NULL,
		description       TEXT NOT NULL DEFAULT '',
		published_at      TIMESTAMP,
		duration          TEXT NOT NULL DEFAULT '',
		thumbnail_default TEXT NOT NULL DEFAULT '',
		thumbnail_medium  TEXT NOT NULL DEFAULT '',
		thumbnail_high    TEXT NOT NULL DEFAULT '',
		view_count        BIGINT NOT NULL DEFAULT 0,
		like_count        BIGINT NOT NULL DEFAULT 0,
		comment_count     BIGINT NOT NULL DEFAULT 0,
		engagement_rate   DOUBLE PRECISION NOT NULL DEFAULT 0,
		last_updated      TIMESTAMP NOT NULL,
		created_at        TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_videos_channel ON videos (channel_id)`,
}

// Migrate creates all tables and indexes if they do not exist yet.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
