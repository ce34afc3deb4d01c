package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/model"
)

type AnalyticsRepo struct {
	db *sqlx.DB
}

func NewAnalyticsRepo(db *sqlx.DB) *AnalyticsRepo {
	return &AnalyticsRepo{db: db}
}

// UpsertHistory writes one daily statistics snapshot. Repeated fetches on
// the same day overwrite that day's row.
func (r *AnalyticsRepo) UpsertHistory(ctx context.Context, h *model.ChannelStatisticsHistory) error {
	query := `
		INSERT INTO channel_statistics_history (
			channel_id, date, view_count, subscriber_count, video_count,
			estimated_minutes_watched, average_view_duration, created_at
		) VALUES (
			:channel_id, :date, :view_count, :subscriber_count, :video_count,
			:estimated_minutes_watched, :average_view_duration, :created_at
		)
		ON CONFLICT (channel_id, date) DO UPDATE SET
			view_count = EXCLUDED.view_count,
			subscriber_count = EXCLUDED.subscriber_count,
			video_count = EXCLUDED.video_count,
			estimated_minutes_watched = EXCLUDED.estimated_minutes_watched,
			average_view_duration = EXCLUDED.average_view_duration`

	_, err := r.db.NamedExecContext(ctx, query, h)
	return err
}

// History returns snapshots for a channel, oldest first, limited to the
// most recent days.
func (r *AnalyticsRepo) History(ctx context.Context, channelID string, days int) ([]model.ChannelStatisticsHistory, error) {
	query := r.db.Rebind(`
		SELECT channel_id, date, view_count, subscriber_count, video_count,
		       estimated_minutes_watched, average_view_duration, created_at
		FROM channel_statistics_history
		WHERE channel_id = ?
		ORDER BY date DESC
		LIMIT ?`)

	rows := []model.ChannelStatisticsHistory{}
	if err := r.db.SelectContext(ctx, &rows, query, channelID, days); err != nil {
		return nil, err
	}

	// Stored newest-first for the LIMIT; callers want chronological order.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

// UpsertDemographics replaces all slices for one (channel, range, dimension)
// panel inside a single transaction.
func (r *AnalyticsRepo) UpsertDemographics(ctx context.Context, slices []model.AudienceDemographic) error {
	if len(slices) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i := range slices {
		query := `
			INSERT INTO audience_demographics (
				channel_id, date_range_start, date_range_end, dimension_type,
				dimension_value, views_percentage, watch_time_percentage, created_at
			) VALUES (
				:channel_id, :date_range_start, :date_range_end, :dimension_type,
				:dimension_value, :views_percentage, :watch_time_percentage, :created_at
			)
			ON CONFLICT (channel_id, date_range_start, date_range_end, dimension_type, dimension_value)
			DO UPDATE SET
				views_percentage = EXCLUDED.views_percentage,
				watch_time_percentage = EXCLUDED.watch_time_percentage`
		if _, err := tx.NamedExecContext(ctx, query, &slices[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Demographics returns persisted slices for a channel and date range.
func (r *AnalyticsRepo) Demographics(ctx context.Context, channelID, start, end string) ([]model.AudienceDemographic, error) {
	query := r.db.Rebind(`
		SELECT channel_id, date_range_start, date_range_end, dimension_type,
		       dimension_value, views_percentage, watch_time_percentage, created_at
		FROM audience_demographics
		WHERE channel_id = ? AND date_range_start = ? AND date_range_end = ?
		ORDER BY dimension_type, dimension_value`)

	rows := []model.AudienceDemographic{}
	if err := r.db.SelectContext(ctx, &rows, query, channelID, start, end); err != nil {
		return nil, err
	}
	return rows, nil
}
