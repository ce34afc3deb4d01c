package model

import (
	"time"

	ytv3 "google.golang.org/api/youtube/v3"
)

// Channel is a cached YouTube channel row, upserted by channel_id.
type Channel struct {
	ChannelID         string     `db:"channel_id"`
	Title             string     `db:"title"`
	Description       string     `db:"description"`
	CustomURL         string     `db:"custom_url"`
	PublishedAt       *time.Time `db:"published_at"`
	ThumbnailDefault  string     `db:"thumbnail_default"`
	ThumbnailMedium   string     `db:"thumbnail_medium"`
	ThumbnailHigh     string     `db:"thumbnail_high"`
	Country           string     `db:"country"`
	ViewCount         int64      `db:"view_count"`
	SubscriberCount   int64      `db:"subscriber_count"`
	VideoCount        int64      `db:"video_count"`
	UploadsPlaylistID string     `db:"uploads_playlist_id"`
	LastUpdated       time.Time  `db:"last_updated"`
	CreatedAt         time.Time  `db:"created_at"`
}

// Thumbnails is the camelCase thumbnail projection shared by channels and videos.
type Thumbnails struct {
	Default string `json:"default,omitempty"`
	Medium  string `json:"medium,omitempty"`
	High    string `json:"high,omitempty"`
}

// ChannelResponse is the API projection of a channel.
type ChannelResponse struct {
	ChannelID      string            `json:"channelId"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	CustomURL      string            `json:"customUrl,omitempty"`
	PublishedAt    string            `json:"publishedAt,omitempty"`
	Thumbnails     Thumbnails        `json:"thumbnails"`
	Country        string            `json:"country,omitempty"`
	Statistics     ChannelStatistics `json:"statistics"`
	ContentDetails ChannelContent    `json:"contentDetails"`
	LastUpdated    string            `json:"lastUpdated"`
}

type ChannelStatistics struct {
	ViewCount       int64 `json:"viewCount"`
	SubscriberCount int64 `json:"subscriberCount"`
	VideoCount      int64 `json:"videoCount"`
}

type ChannelContent struct {
	UploadsPlaylistID string `json:"uploadsPlaylistId,omitempty"`
}

// ChannelFromYouTube builds a Channel from the typed Data API struct.
// Missing optional sections default to zero values.
func ChannelFromYouTube(src *ytv3.Channel, now time.Time) *Channel {
	ch := &Channel{
		ChannelID:   src.Id,
		LastUpdated: now,
		CreatedAt:   now,
	}
	if sn := src.Snippet; sn != nil {
		ch.Title = sn.Title
		ch.Description = sn.Description
		ch.CustomURL = sn.CustomUrl
		ch.Country = sn.Country
		ch.PublishedAt = parseTimestamp(sn.PublishedAt)
		if th := sn.Thumbnails; th != nil {
			if th.Default != nil {
				ch.ThumbnailDefault = th.Default.Url
			}
			if th.Medium != nil {
				ch.ThumbnailMedium = th.Medium.Url
			}
			if th.High != nil {
				ch.ThumbnailHigh = th.High.Url
			}
		}
	}
	if st := src.Statistics; st != nil {
		ch.ViewCount = int64(st.ViewCount)
		ch.SubscriberCount = int64(st.SubscriberCount)
		ch.VideoCount = int64(st.VideoCount)
	}
	if cd := src.ContentDetails; cd != nil && cd.RelatedPlaylists != nil {
		ch.UploadsPlaylistID = cd.RelatedPlaylists.Uploads
	}
	return ch
}

// Response converts the row to its API projection.
func (c *Channel) Response() *ChannelResponse {
	return &ChannelResponse{
		ChannelID:   c.ChannelID,
		Title:       c.Title,
		Description: c.Description,
		CustomURL:   c.CustomURL,
		PublishedAt: formatTimestamp(c.PublishedAt),
		Thumbnails: Thumbnails{
			Default: c.ThumbnailDefault,
			Medium:  c.ThumbnailMedium,
			High:    c.ThumbnailHigh,
		},
		Country: c.Country,
		Statistics: ChannelStatistics{
			ViewCount:       c.ViewCount,
			SubscriberCount: c.SubscriberCount,
			VideoCount:      c.VideoCount,
		},
		ContentDetails: ChannelContent{UploadsPlaylistID: c.UploadsPlaylistID},
		LastUpdated:    c.LastUpdated.UTC().Format(time.RFC3339),
	}
}

func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
