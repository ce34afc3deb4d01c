package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/model"
)

type VideoRepo struct {
	db *sqlx.DB
}

func NewVideoRepo(db *sqlx.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

const videoUpsertQuery = `
	INSERT INTO videos (
		video_id, channel_id, title, description, published_at, duration,
		thumbnail_default, thumbnail_medium, thumbnail_high,
		view_count, like_count, comment_count, engagement_rate,
		last_updated, created_at
	) VALUES (
		:video_id, :channel_id, :title, :description, :published_at, :duration,
		:thumbnail_default, :thumbnail_medium, :thumbnail_high,
		:view_count, :like_count, :comment_count, :engagement_rate,
		:last_updated, :created_at
	)
	ON CONFLICT (video_id) DO UPDATE SET
		channel_id = EXCLUDED.channel_id,
		title = EXCLUDED.title,
		description = EXCLUDED.description,
		published_at = EXCLUDED.published_at,
		duration = EXCLUDED.duration,
		thumbnail_default = EXCLUDED.thumbnail_default,
		thumbnail_medium = EXCLUDED.thumbnail_medium,
		thumbnail_high = EXCLUDED.thumbnail_high,
		view_count = EXCLUDED.view_count,
		like_count = EXCLUDED.like_count,
		comment_count = EXCLUDED.comment_count,
		engagement_rate = EXCLUDED.engagement_rate,
		last_updated = EXCLUDED.last_updated`

// UpsertAll upserts a batch of videos inside one transaction.
func (r *VideoRepo) UpsertAll(ctx context.Context, videos []*model.Video) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, v := range videos {
		if _, err := tx.NamedExecContext(ctx, videoUpsertQuery, v); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FindByChannel returns persisted videos for a channel. Order "viewCount"
// sorts by views descending, anything else newest first.
func (r *VideoRepo) FindByChannel(ctx context.Context, channelID string, limit int, order string) ([]model.Video, error) {
	orderBy := "published_at DESC"
	if order == "viewCount" {
		orderBy = "view_count DESC"
	}

	query := r.db.Rebind(`
		SELECT video_id, channel_id, title, description, published_at, duration,
		       thumbnail_default, thumbnail_medium, thumbnail_high,
		       view_count, like_count, comment_count, engagement_rate,
		       last_updated, created_at
		FROM videos
		WHERE channel_id = ?
		ORDER BY ` + orderBy + `
		LIMIT ?`)

	videos := []model.Video{}
	if err := r.db.SelectContext(ctx, &videos, query, channelID, limit); err != nil {
		return nil, err
	}
	return videos, nil
}

// Count returns the number of cached videos.
func (r *VideoRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM videos`)
	return n, err
}
