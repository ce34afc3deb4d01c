package model

import (
	"time"

	ytv3 "google.golang.org/api/youtube/v3"
)

// Video is a cached video row, upserted by video_id.
type Video struct {
	VideoID          string     `db:"video_id"`
	ChannelID        string     `db:"channel_id"`
	Title            string     `db:"title"`
	Description      string     `db:"description"`
	PublishedAt      *time.Time `db:"published_at"`
	Duration         string     `db:"duration"` // ISO 8601
	ThumbnailDefault string     `db:"thumbnail_default"`
	ThumbnailMedium  string     `db:"thumbnail_medium"`
	ThumbnailHigh    string     `db:"thumbnail_high"`
	ViewCount        int64      `db:"view_count"`
	LikeCount        int64      `db:"like_count"`
	CommentCount     int64      `db:"comment_count"`
	EngagementRate   float64    `db:"engagement_rate"`
	LastUpdated      time.Time  `db:"last_updated"`
	CreatedAt        time.Time  `db:"created_at"`
}

// VideoResponse is the API projection of a video.
type VideoResponse struct {
	VideoID        string          `json:"videoId"`
	ChannelID      string          `json:"channelId"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	PublishedAt    string          `json:"publishedAt,omitempty"`
	Duration       string          `json:"duration,omitempty"`
	Thumbnails     Thumbnails      `json:"thumbnails"`
	Statistics     VideoStatistics `json:"statistics"`
	EngagementRate float64         `json:"engagementRate"`
	LastUpdated    string          `json:"lastUpdated"`
}

type VideoStatistics struct {
	ViewCount    int64 `json:"viewCount"`
	LikeCount    int64 `json:"likeCount"`
	CommentCount int64 `json:"commentCount"`
}

// EngagementRate returns (likes + comments) / views * 100, and 0 when the
// video has no views.
func EngagementRate(views, likes, comments int64) float64 {
	if views <= 0 {
		return 0
	}
	return float64(likes+comments) / float64(views) * 100
}

// VideoFromYouTube builds a Video from the typed Data API struct. The
// engagement rate is derived here, at ingest time.
func VideoFromYouTube(src *ytv3.Video, channelID string, now time.Time) *Video {
	v := &Video{
		VideoID:     src.Id,
		ChannelID:   channelID,
		LastUpdated: now,
		CreatedAt:   now,
	}
	if sn := src.Snippet; sn != nil {
		v.Title = sn.Title
		v.Description = sn.Description
		v.PublishedAt = parseTimestamp(sn.PublishedAt)
		if v.ChannelID == "" {
			v.ChannelID = sn.ChannelId
		}
		if th := sn.Thumbnails; th != nil {
			if th.Default != nil {
				v.ThumbnailDefault = th.Default.Url
			}
			if th.Medium != nil {
				v.ThumbnailMedium = th.Medium.Url
			}
			if th.High != nil {
				v.ThumbnailHigh = th.High.Url
			}
		}
	}
	if cd := src.ContentDetails; cd != nil {
		v.Duration = cd.Duration
	}
	if st := src.Statistics; st != nil {
		v.ViewCount = int64(st.ViewCount)
		v.LikeCount = int64(st.LikeCount)
		v.CommentCount = int64(st.CommentCount)
	}
	v.EngagementRate = EngagementRate(v.ViewCount, v.LikeCount, v.CommentCount)
	return v
}

// Response converts the row to its API projection.
func (v *Video) Response() *VideoResponse {
	return &VideoResponse{
		VideoID:     v.VideoID,
		ChannelID:   v.ChannelID,
		Title:       v.Title,
		Description: v.Description,
		PublishedAt: formatTimestamp(v.PublishedAt),
		Duration:    v.Duration,
		Thumbnails: Thumbnails{
			Default: v.ThumbnailDefault,
			Medium:  v.ThumbnailMedium,
			High:    v.ThumbnailHigh,
		},
		Statistics: VideoStatistics{
			ViewCount:    v.ViewCount,
			LikeCount:    v.LikeCount,
			CommentCount: v.CommentCount,
		},
		EngagementRate: v.EngagementRate,
		LastUpdated:    v.LastUpdated.UTC().Format(time.RFC3339),
	}
}
