package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ytv3 "google.golang.org/api/youtube/v3"
)

func TestChannelFromYouTube(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	src := &ytv3.Channel{
		Id: "UCabc",
		Snippet: &ytv3.ChannelSnippet{
			Title:       "Test Channel",
			Description: "about",
			CustomUrl:   "@testchannel",
			Country:     "US",
			PublishedAt: "2010-03-20T08:00:00Z",
			Thumbnails: &ytv3.ThumbnailDetails{
				Default: &ytv3.Thumbnail{Url: "http://img/d.jpg"},
				Medium:  &ytv3.Thumbnail{Url: "http://img/m.jpg"},
				High:    &ytv3.Thumbnail{Url: "http://img/h.jpg"},
			},
		},
		Statistics: &ytv3.ChannelStatistics{
			ViewCount:       123456,
			SubscriberCount: 1000,
			VideoCount:      42,
		},
		ContentDetails: &ytv3.ChannelContentDetails{
			RelatedPlaylists: &ytv3.ChannelContentDetailsRelatedPlaylists{
				Uploads: "UUabc",
			},
		},
	}

	ch := ChannelFromYouTube(src, now)

	assert.Equal(t, "UCabc", ch.ChannelID)
	assert.Equal(t, "Test Channel", ch.Title)
	assert.Equal(t, "@testchannel", ch.CustomURL)
	assert.Equal(t, "US", ch.Country)
	assert.Equal(t, int64(123456), ch.ViewCount)
	assert.Equal(t, int64(1000), ch.SubscriberCount)
	assert.Equal(t, int64(42), ch.VideoCount)
	assert.Equal(t, "UUabc", ch.UploadsPlaylistID)
	require.NotNil(t, ch.PublishedAt)
	assert.Equal(t, 2010, ch.PublishedAt.Year())
	assert.Equal(t, now, ch.LastUpdated)
	assert.Equal(t, now, ch.CreatedAt)
}

func TestChannelFromYouTubeSparse(t *testing.T) {
	ch := ChannelFromYouTube(&ytv3.Channel{Id: "UCbare"}, time.Now())

	assert.Equal(t, "UCbare", ch.ChannelID)
	assert.Empty(t, ch.Title)
	assert.Zero(t, ch.ViewCount)
	assert.Nil(t, ch.PublishedAt)
	assert.Empty(t, ch.UploadsPlaylistID)
}

func TestChannelResponse(t *testing.T) {
	published := time.Date(2010, 3, 20, 8, 0, 0, 0, time.UTC)
	ch := &Channel{
		ChannelID:         "UCabc",
		Title:             "Test Channel",
		PublishedAt:       &published,
		ThumbnailHigh:     "http://img/h.jpg",
		ViewCount:         123456,
		SubscriberCount:   1000,
		VideoCount:        42,
		UploadsPlaylistID: "UUabc",
		LastUpdated:       time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	resp := ch.Response()

	assert.Equal(t, "UCabc", resp.ChannelID)
	assert.Equal(t, "2010-03-20T08:00:00Z", resp.PublishedAt)
	assert.Equal(t, "http://img/h.jpg", resp.Thumbnails.High)
	assert.Equal(t, int64(123456), resp.Statistics.ViewCount)
	assert.Equal(t, "UUabc", resp.ContentDetails.UploadsPlaylistID)
	assert.Equal(t, "2024-06-01T12:00:00Z", resp.LastUpdated)
}

func TestParseTimestampInvalid(t *testing.T) {
	assert.Nil(t, parseTimestamp(""))
	assert.Nil(t, parseTimestamp("not-a-date"))
	assert.Empty(t, formatTimestamp(nil))
}
