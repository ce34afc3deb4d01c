package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ytanalytics "google.golang.org/api/youtubeanalytics/v2"
)

func analyticsResponse(dims, metrics []string, rows [][]interface{}) *ytanalytics.QueryResponse {
	resp := &ytanalytics.QueryResponse{Rows: rows}
	for _, d := range dims {
		resp.ColumnHeaders = append(resp.ColumnHeaders, &ytanalytics.ResultTableColumnHeader{
			Name:       d,
			ColumnType: "DIMENSION",
		})
	}
	for _, m := range metrics {
		resp.ColumnHeaders = append(resp.ColumnHeaders, &ytanalytics.ResultTableColumnHeader{
			Name:       m,
			ColumnType: "METRIC",
		})
	}
	return resp
}

func TestParseReport(t *testing.T) {
	resp := analyticsResponse(
		[]string{"day"},
		[]string{"views", "estimatedMinutesWatched"},
		[][]interface{}{
			{"2024-06-01", float64(100), float64(400)},
			{"2024-06-02", float64(150), float64(600)},
		},
	)

	report, err := ParseReport(resp)
	require.NoError(t, err)

	assert.Equal(t, []string{"day"}, report.Dimensions)
	assert.Equal(t, []string{"views", "estimatedMinutesWatched"}, report.Metrics)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, []string{"2024-06-01"}, report.Rows[0].Dimensions)
	assert.Equal(t, []float64{100, 400}, report.Rows[0].Values)
}

func TestParseReportEmpty(t *testing.T) {
	report, err := ParseReport(analyticsResponse([]string{"day"}, []string{"views"}, nil))
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
}

func TestParseReportMalformed(t *testing.T) {
	t.Run("unknown column type", func(t *testing.T) {
		resp := &ytanalytics.QueryResponse{
			ColumnHeaders: []*ytanalytics.ResultTableColumnHeader{
				{Name: "views", ColumnType: "WEIRD"},
			},
		}
		_, err := ParseReport(resp)
		assert.Error(t, err)
	})

	t.Run("row length mismatch", func(t *testing.T) {
		resp := analyticsResponse([]string{"day"}, []string{"views"}, [][]interface{}{
			{"2024-06-01"},
		})
		_, err := ParseReport(resp)
		assert.Error(t, err)
	})

	t.Run("metric cell not numeric", func(t *testing.T) {
		resp := analyticsResponse([]string{"day"}, []string{"views"}, [][]interface{}{
			{"2024-06-01", "many"},
		})
		_, err := ParseReport(resp)
		assert.Error(t, err)
	})

	t.Run("dimension cell not string", func(t *testing.T) {
		resp := analyticsResponse([]string{"day"}, []string{"views"}, [][]interface{}{
			{float64(7), float64(100)},
		})
		_, err := ParseReport(resp)
		assert.Error(t, err)
	})
}

func TestDemographicsFromReport(t *testing.T) {
	now := time.Now().UTC()
	report := &AnalyticsReport{
		Dimensions: []string{"ageGroup"},
		Metrics:    []string{"views", "estimatedMinutesWatched"},
		Rows: []AnalyticsRow{
			{Dimensions: []string{"age18-24"}, Values: []float64{300, 900}},
			{Dimensions: []string{"age25-34"}, Values: []float64{700, 100}},
		},
	}

	slices, err := DemographicsFromReport("UCabc", "2024-05-01", "2024-05-31", "ageGroup", report, now)
	require.NoError(t, err)
	require.Len(t, slices, 2)

	assert.Equal(t, "UCabc", slices[0].ChannelID)
	assert.Equal(t, "ageGroup", slices[0].DimensionType)
	assert.Equal(t, "age18-24", slices[0].DimensionValue)
	assert.InDelta(t, 30.0, slices[0].ViewsPercentage, 0.01)
	assert.InDelta(t, 90.0, slices[0].WatchTimePercentage, 0.01)
	assert.InDelta(t, 70.0, slices[1].ViewsPercentage, 0.01)
	assert.InDelta(t, 10.0, slices[1].WatchTimePercentage, 0.01)
}

func TestDemographicsFromReportZeroTotals(t *testing.T) {
	report := &AnalyticsReport{
		Dimensions: []string{"gender"},
		Metrics:    []string{"views", "estimatedMinutesWatched"},
		Rows: []AnalyticsRow{
			{Dimensions: []string{"female"}, Values: []float64{0, 0}},
		},
	}

	slices, err := DemographicsFromReport("UCabc", "2024-05-01", "2024-05-31", "gender", report, time.Now())
	require.NoError(t, err)
	require.Len(t, slices, 1)
	assert.Zero(t, slices[0].ViewsPercentage)
	assert.Zero(t, slices[0].WatchTimePercentage)
}

func TestDemographicsFromReportRejectsShape(t *testing.T) {
	t.Run("two dimensions", func(t *testing.T) {
		report := &AnalyticsReport{Dimensions: []string{"ageGroup", "gender"}}
		_, err := DemographicsFromReport("UCabc", "a", "b", "ageGroup", report, time.Now())
		assert.Error(t, err)
	})

	t.Run("missing metric values", func(t *testing.T) {
		report := &AnalyticsReport{
			Dimensions: []string{"country"},
			Rows:       []AnalyticsRow{{Dimensions: []string{"US"}, Values: []float64{5}}},
		}
		_, err := DemographicsFromReport("UCabc", "a", "b", "country", report, time.Now())
		assert.Error(t, err)
	})
}

func TestHistoryResponse(t *testing.T) {
	h := &ChannelStatisticsHistory{
		ChannelID:       "UCabc",
		Date:            "2024-06-01",
		ViewCount:       100,
		SubscriberCount: 10,
		VideoCount:      3,
	}

	resp := h.Response()
	assert.Equal(t, "2024-06-01", resp.Date)
	assert.Equal(t, int64(100), resp.ViewCount)
}
