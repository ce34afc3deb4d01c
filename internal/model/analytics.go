package model

import (
	"fmt"
	"time"

	ytanalytics "google.golang.org/api/youtubeanalytics/v2"
)

// ChannelStatisticsHistory is one daily snapshot of a channel's counters.
// Append-only, unique per (channel_id, date).
type ChannelStatisticsHistory struct {
	ChannelID               string    `db:"channel_id"`
	Date                    string    `db:"date"` // YYYY-MM-DD
	ViewCount               int64     `db:"view_count"`
	SubscriberCount         int64     `db:"subscriber_count"`
	VideoCount              int64     `db:"video_count"`
	EstimatedMinutesWatched int64     `db:"estimated_minutes_watched"`
	AverageViewDuration     int64     `db:"average_view_duration"`
	CreatedAt               time.Time `db:"created_at"`
}

// HistoryResponse is the API projection of a history snapshot.
type HistoryResponse struct {
	ChannelID               string `json:"channelId"`
	Date                    string `json:"date"`
	ViewCount               int64  `json:"viewCount"`
	SubscriberCount         int64  `json:"subscriberCount"`
	VideoCount              int64  `json:"videoCount"`
	EstimatedMinutesWatched int64  `json:"estimatedMinutesWatched"`
	AverageViewDuration     int64  `json:"averageViewDuration"`
}

// Response converts the row to its API projection.
func (h *ChannelStatisticsHistory) Response() *HistoryResponse {
	return &HistoryResponse{
		ChannelID:               h.ChannelID,
		Date:                    h.Date,
		ViewCount:               h.ViewCount,
		SubscriberCount:         h.SubscriberCount,
		VideoCount:              h.VideoCount,
		EstimatedMinutesWatched: h.EstimatedMinutesWatched,
		AverageViewDuration:     h.AverageViewDuration,
	}
}

// AudienceDemographic is one dimension slice (age group, gender, country)
// of a channel's audience over a date range.
type AudienceDemographic struct {
	ChannelID           string    `db:"channel_id"`
	DateRangeStart      string    `db:"date_range_start"`
	DateRangeEnd        string    `db:"date_range_end"`
	DimensionType       string    `db:"dimension_type"`
	DimensionValue      string    `db:"dimension_value"`
	ViewsPercentage     float64   `db:"views_percentage"`
	WatchTimePercentage float64   `db:"watch_time_percentage"`
	CreatedAt           time.Time `db:"created_at"`
}

// DemographicResponse is the API projection of a demographics slice.
type DemographicResponse struct {
	ChannelID           string  `json:"channelId"`
	DateRangeStart      string  `json:"dateRangeStart"`
	DateRangeEnd        string  `json:"dateRangeEnd"`
	DimensionType       string  `json:"dimensionType"`
	DimensionValue      string  `json:"dimensionValue"`
	ViewsPercentage     float64 `json:"viewsPercentage"`
	WatchTimePercentage float64 `json:"watchTimePercentage"`
}

// Response converts the row to its API projection.
func (d *AudienceDemographic) Response() *DemographicResponse {
	return &DemographicResponse{
		ChannelID:           d.ChannelID,
		DateRangeStart:      d.DateRangeStart,
		DateRangeEnd:        d.DateRangeEnd,
		DimensionType:       d.DimensionType,
		DimensionValue:      d.DimensionValue,
		ViewsPercentage:     d.ViewsPercentage,
		WatchTimePercentage: d.WatchTimePercentage,
	}
}

// AnalyticsReport is the parsed form of an Analytics API query response.
// Raw responses carry rows as untyped cells; parsing rejects malformed
// payloads before they reach persistence.
type AnalyticsReport struct {
	Dimensions []string       `json:"dimensions"`
	Metrics    []string       `json:"metrics"`
	Rows       []AnalyticsRow `json:"rows"`
}

// AnalyticsRow is one report row: dimension values followed by metric values.
type AnalyticsRow struct {
	Dimensions []string  `json:"dimensions"`
	Values     []float64 `json:"values"`
}

// ParseReport converts a typed Analytics API response into an
// AnalyticsReport, validating every cell against its column header.
func ParseReport(resp *ytanalytics.QueryResponse) (*AnalyticsReport, error) {
	report := &AnalyticsReport{Rows: []AnalyticsRow{}}

	var dimCount int
	for _, col := range resp.ColumnHeaders {
		switch col.ColumnType {
		case "DIMENSION":
			report.Dimensions = append(report.Dimensions, col.Name)
			dimCount++
		case "METRIC":
			report.Metrics = append(report.Metrics, col.Name)
		default:
			return nil, fmt.Errorf("unknown column type %q for column %q", col.ColumnType, col.Name)
		}
	}

	for i, raw := range resp.Rows {
		if len(raw) != len(resp.ColumnHeaders) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(raw), len(resp.ColumnHeaders))
		}
		row := AnalyticsRow{}
		for j, cell := range raw {
			if j < dimCount {
				s, ok := cell.(string)
				if !ok {
					return nil, fmt.Errorf("row %d column %q: expected string dimension, got %T", i, resp.ColumnHeaders[j].Name, cell)
				}
				row.Dimensions = append(row.Dimensions, s)
				continue
			}
			f, ok := cell.(float64)
			if !ok {
				return nil, fmt.Errorf("row %d column %q: expected numeric metric, got %T", i, resp.ColumnHeaders[j].Name, cell)
			}
			row.Values = append(row.Values, f)
		}
		report.Rows = append(report.Rows, row)
	}

	return report, nil
}

// DemographicsFromReport flattens a single-dimension views/watch-time report
// into percentage slices. Percentages are shares of the report totals,
// rounded to two decimals; a report with zero total views yields zeros.
func DemographicsFromReport(channelID, start, end, dimensionType string, report *AnalyticsReport, now time.Time) ([]AudienceDemographic, error) {
	if len(report.Dimensions) != 1 {
		return nil, fmt.Errorf("demographics report must have exactly one dimension, got %d", len(report.Dimensions))
	}

	var totalViews, totalMinutes float64
	for _, row := range report.Rows {
		if len(row.Values) < 2 {
			return nil, fmt.Errorf("demographics row for %q missing metric values", row.Dimensions[0])
		}
		totalViews += row.Values[0]
		totalMinutes += row.Values[1]
	}

	out := make([]AudienceDemographic, 0, len(report.Rows))
	for _, row := range report.Rows {
		out = append(out, AudienceDemographic{
			ChannelID:           channelID,
			DateRangeStart:      start,
			DateRangeEnd:        end,
			DimensionType:       dimensionType,
			DimensionValue:      row.Dimensions[0],
			ViewsPercentage:     share(row.Values[0], totalViews),
			WatchTimePercentage: share(row.Values[1], totalMinutes),
			CreatedAt:           now,
		})
	}
	return out, nil
}

func share(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	pct := part / total * 100
	return float64(int(pct*100+0.5)) / 100
}
