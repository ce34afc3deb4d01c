package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/model"
)

type ChannelRepo struct {
	db *sqlx.DB
}

func NewChannelRepo(db *sqlx.DB) *ChannelRepo {
	return &ChannelRepo{db: db}
}

// FindByChannelID returns a single channel row, or sql.ErrNoRows.
func (r *ChannelRepo) FindByChannelID(ctx context.Context, channelID string) (*model.Channel, error) {
	query := r.db.Rebind(`
		SELECT channel_id, title, description, custom_url, published_at,
		       thumbnail_default, thumbnail_medium, thumbnail_high, country,
		       view_count, subscriber_count, video_count, uploads_playlist_id,
		       last_updated, created_at
		FROM channels
		WHERE channel_id = ?`)

	var ch model.Channel
	if err := r.db.GetContext(ctx, &ch, query, channelID); err != nil {
		return nil, err
	}
	return &ch, nil
}

// Upsert inserts the channel or updates the existing row in place.
// created_at is preserved on update; last_updated always advances.
func (r *ChannelRepo) Upsert(ctx context.Context, ch *model.Channel) error {
	query := `
		INSERT INTO channels (
			channel_id, title, description, custom_url, published_at,
			thumbnail_default, thumbnail_medium, thumbnail_high, country,
			view_count, subscriber_count, video_count, uploads_playlist_id,
			last_updated, created_at
		) VALUES (
			:channel_id, :title, :description, :custom_url, :published_at,
			:thumbnail_default, :thumbnail_medium, :thumbnail_high, :country,
			:view_count, :subscriber_count, :video_count, :uploads_playlist_id,
			:last_updated, :created_at
		)
		ON CONFLICT (channel_id) DO UPDATE SET
			title = EXCLUDED.title,
			description = EXCLUDED.description,
			custom_url = EXCLUDED.custom_url,
			published_at = EXCLUDED.published_at,
			thumbnail_default = EXCLUDED.thumbnail_default,
			thumbnail_medium = EXCLUDED.thumbnail_medium,
			thumbnail_high = EXCLUDED.thumbnail_high,
			country = EXCLUDED.country,
			view_count = EXCLUDED.view_count,
			subscriber_count = EXCLUDED.subscriber_count,
			video_count = EXCLUDED.video_count,
			uploads_playlist_id = EXCLUDED.uploads_playlist_id,
			last_updated = EXCLUDED.last_updated`

	_, err := r.db.NamedExecContext(ctx, query, ch)
	return err
}

// Count returns the number of cached channels.
func (r *ChannelRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM channels`)
	return n, err
}

// Recent returns the most recently refreshed channels.
func (r *ChannelRepo) Recent(ctx context.Context, limit int) ([]model.Channel, error) {
	query := r.db.Rebind(`
		SELECT channel_id, title, description, custom_url, published_at,
		       thumbnail_default, thumbnail_medium, thumbnail_high, country,
		       view_count, subscriber_count, video_count, uploads_playlist_id,
		       last_updated, created_at
		FROM channels
		ORDER BY last_updated DESC
		LIMIT ?`)

	channels := []model.Channel{}
	if err := r.db.SelectContext(ctx, &channels, query, limit); err != nil {
		return nil, err
	}
	return channels, nil
}

// Fresh reports whether the cached row is newer than the given TTL.
func Fresh(ch *model.Channel, ttl time.Duration, now time.Time) bool {
	return now.Sub(ch.LastUpdated) < ttl
}
