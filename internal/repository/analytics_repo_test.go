package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/model"
)

func TestUpsertHistorySameDayOverwrites(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewAnalyticsRepo(conn)

	snapshot := &model.ChannelStatisticsHistory{
		ChannelID: "UC1",
		Date:      "2024-06-01",
		ViewCount: 100,
		CreatedAt: time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO channel_statistics_history").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO channel_statistics_history").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpsertHistory(context.Background(), snapshot))
	snapshot.ViewCount = 150
	require.NoError(t, repo.UpsertHistory(context.Background(), snapshot))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryReversesToChronological(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewAnalyticsRepo(conn)

	rows := sqlmock.NewRows([]string{
		"channel_id", "date", "view_count", "subscriber_count", "video_count",
		"estimated_minutes_watched", "average_view_duration", "created_at",
	}).
		AddRow("UC1", "2024-06-02", 200, 20, 2, 0, 0, time.Now()).
		AddRow("UC1", "2024-06-01", 100, 10, 1, 0, 0, time.Now())
	mock.ExpectQuery("SELECT (.+) FROM channel_statistics_history").
		WithArgs("UC1", 30).
		WillReturnRows(rows)

	history, err := repo.History(context.Background(), "UC1", 30)
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, "2024-06-01", history[0].Date)
	assert.Equal(t, "2024-06-02", history[1].Date)
}

func TestUpsertDemographicsTransaction(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewAnalyticsRepo(conn)

	slices := []model.AudienceDemographic{
		{ChannelID: "UC1", DimensionType: "ageGroup", DimensionValue: "age18-24", ViewsPercentage: 30},
		{ChannelID: "UC1", DimensionType: "ageGroup", DimensionValue: "age25-34", ViewsPercentage: 70},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO audience_demographics").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO audience_demographics").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpsertDemographics(context.Background(), slices))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertDemographicsEmptyIsNoop(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewAnalyticsRepo(conn)

	require.NoError(t, repo.UpsertDemographics(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
