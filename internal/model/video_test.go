package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ytv3 "google.golang.org/api/youtube/v3"
)

func TestEngagementRate(t *testing.T) {
	tests := []struct {
		name     string
		views    int64
		likes    int64
		comments int64
		want     float64
	}{
		{"zero views", 0, 50, 10, 0},
		{"negative views", -1, 50, 10, 0},
		{"no interactions", 1000, 0, 0, 0},
		{"typical", 1000, 40, 10, 5},
		{"all viewers engaged", 100, 80, 20, 100},
		{"more interactions than views", 10, 15, 5, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EngagementRate(tt.views, tt.likes, tt.comments), 1e-9)
		})
	}
}

func TestVideoFromYouTube(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	src := &ytv3.Video{
		Id: "vid123",
		Snippet: &ytv3.VideoSnippet{
			Title:       "My Video",
			Description: "desc",
			ChannelId:   "UCfallback",
			PublishedAt: "2024-01-15T10:00:00Z",
			Thumbnails: &ytv3.ThumbnailDetails{
				Default: &ytv3.Thumbnail{Url: "http://img/default.jpg"},
				High:    &ytv3.Thumbnail{Url: "http://img/high.jpg"},
			},
		},
		ContentDetails: &ytv3.VideoContentDetails{Duration: "PT4M13S"},
		Statistics: &ytv3.VideoStatistics{
			ViewCount:    1000,
			LikeCount:    40,
			CommentCount: 10,
		},
	}

	v := VideoFromYouTube(src, "UCowner", now)

	assert.Equal(t, "vid123", v.VideoID)
	assert.Equal(t, "UCowner", v.ChannelID)
	assert.Equal(t, "My Video", v.Title)
	assert.Equal(t, "PT4M13S", v.Duration)
	assert.Equal(t, "http://img/default.jpg", v.ThumbnailDefault)
	assert.Empty(t, v.ThumbnailMedium)
	assert.Equal(t, int64(1000), v.ViewCount)
	assert.InDelta(t, 5.0, v.EngagementRate, 1e-9)
	require.NotNil(t, v.PublishedAt)
	assert.Equal(t, 2024, v.PublishedAt.Year())
	assert.Equal(t, now, v.LastUpdated)
}

func TestVideoFromYouTubeChannelFallback(t *testing.T) {
	src := &ytv3.Video{
		Id:      "vid123",
		Snippet: &ytv3.VideoSnippet{ChannelId: "UCfallback"},
	}

	v := VideoFromYouTube(src, "", time.Now())
	assert.Equal(t, "UCfallback", v.ChannelID)
}

func TestVideoFromYouTubeSparse(t *testing.T) {
	v := VideoFromYouTube(&ytv3.Video{Id: "bare"}, "UCowner", time.Now())

	assert.Equal(t, "bare", v.VideoID)
	assert.Zero(t, v.ViewCount)
	assert.Zero(t, v.EngagementRate)
	assert.Nil(t, v.PublishedAt)
}

func TestVideoResponse(t *testing.T) {
	published := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	v := &Video{
		VideoID:        "vid123",
		ChannelID:      "UCowner",
		Title:          "My Video",
		PublishedAt:    &published,
		ViewCount:      1000,
		LikeCount:      40,
		CommentCount:   10,
		EngagementRate: 5,
		LastUpdated:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	resp := v.Response()
	assert.Equal(t, "2024-01-15T10:00:00Z", resp.PublishedAt)
	assert.Equal(t, "2024-06-01T12:00:00Z", resp.LastUpdated)
	assert.Equal(t, int64(1000), resp.Statistics.ViewCount)
	assert.InDelta(t, 5.0, resp.EngagementRate, 1e-9)
}
