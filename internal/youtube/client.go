package youtube

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	ytv3 "google.golang.org/api/youtube/v3"
	ytanalytics "google.golang.org/api/youtubeanalytics/v2"
)

// Unit costs charged by Google per call, counted against the daily quota.
const (
	costSearch = 100
	costList   = 1
)

// Service labels for quota accounting.
const (
	DataAPI      = "youtubeDataAPI"
	AnalyticsAPI = "youtubeAnalyticsAPI"
)

var (
	// ErrNoCredentials means neither an API key nor OAuth credentials
	// were supplied at construction.
	ErrNoCredentials = errors.New("youtube: an API key or OAuth credentials are required")

	// ErrAnalyticsUnavailable means an Analytics API call was attempted
	// without OAuth credentials.
	ErrAnalyticsUnavailable = errors.New("youtube: analytics requires OAuth credentials")

	// ErrNotFound means the channel does not exist upstream.
	ErrNotFound = errors.New("youtube: channel not found")
)

// UsageRecorder receives the unit cost of every upstream call.
type UsageRecorder interface {
	Record(service string, units int)
}

// Client wraps the YouTube Data and Analytics API services. Upstream errors
// are propagated unchanged; there is no retry or backoff here.
type Client struct {
	data      *ytv3.Service
	analytics *ytanalytics.Service
	usage     UsageRecorder
}

// NewClient builds a Client from an API key (public data only) or an OAuth
// token source (public data plus private analytics). The token source wins
// when both are present.
func NewClient(ctx context.Context, apiKey string, ts oauth2.TokenSource, usage UsageRecorder) (*Client, error) {
	c := &Client{usage: usage}

	switch {
	case ts != nil:
		data, err := ytv3.NewService(ctx, option.WithTokenSource(ts))
		if err != nil {
			return nil, fmt.Errorf("create youtube service: %w", err)
		}
		analytics, err := ytanalytics.NewService(ctx, option.WithTokenSource(ts))
		if err != nil {
			return nil, fmt.Errorf("create youtube analytics service: %w", err)
		}
		c.data = data
		c.analytics = analytics
	case apiKey != "":
		data, err := ytv3.NewService(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			return nil, fmt.Errorf("create youtube service: %w", err)
		}
		c.data = data
	default:
		return nil, ErrNoCredentials
	}

	return c, nil
}

func (c *Client) record(service string, units int) {
	if c.usage != nil {
		c.usage.Record(service, units)
	}
}

// SearchChannels searches channels by keyword and resolves full details
// (statistics, content details) for each hit.
func (c *Client) SearchChannels(ctx context.Context, query string, maxResults int64) ([]*ytv3.Channel, error) {
	resp, err := c.data.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(maxResults).
		Context(ctx).
		Do()
	c.record(DataAPI, costSearch)
	if err != nil {
		return nil, err
	}

	channels := make([]*ytv3.Channel, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.ChannelId == "" {
			continue
		}
		ch, err := c.ChannelDetails(ctx, item.Id.ChannelId)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// ChannelDetails fetches one channel with snippet, statistics, content
// details and branding settings.
func (c *Client) ChannelDetails(ctx context.Context, channelID string) (*ytv3.Channel, error) {
	resp, err := c.data.Channels.List([]string{"snippet", "statistics", "contentDetails", "brandingSettings"}).
		Id(channelID).
		Context(ctx).
		Do()
	c.record(DataAPI, costList)
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, ErrNotFound
	}
	return resp.Items[0], nil
}

// ChannelByUsername fetches a channel by its legacy username.
func (c *Client) ChannelByUsername(ctx context.Context, username string) (*ytv3.Channel, error) {
	resp, err := c.data.Channels.List([]string{"snippet", "statistics", "contentDetails", "brandingSettings"}).
		ForUsername(username).
		Context(ctx).
		Do()
	c.record(DataAPI, costList)
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, ErrNotFound
	}
	return resp.Items[0], nil
}

// ChannelVideos resolves the channel's uploads playlist, lists its items and
// batch-fetches video statistics. order "viewCount" sorts by views
// descending, "date" by publish time descending; any other value keeps the
// API order.
func (c *Client) ChannelVideos(ctx context.Context, channelID string, maxResults int64, order string) ([]*ytv3.Video, error) {
	ch, err := c.ChannelDetails(ctx, channelID)
	if err != nil {
		return nil, err
	}

	var uploads string
	if ch.ContentDetails != nil && ch.ContentDetails.RelatedPlaylists != nil {
		uploads = ch.ContentDetails.RelatedPlaylists.Uploads
	}
	if uploads == "" {
		return []*ytv3.Video{}, nil
	}

	items, err := c.data.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(uploads).
		MaxResults(maxResults).
		Context(ctx).
		Do()
	c.record(DataAPI, costList)
	if err != nil {
		return nil, err
	}

	var videoIDs []string
	for _, item := range items.Items {
		if item.Snippet != nil && item.Snippet.ResourceId != nil && item.Snippet.ResourceId.VideoId != "" {
			videoIDs = append(videoIDs, item.Snippet.ResourceId.VideoId)
		}
	}
	if len(videoIDs) == 0 {
		return []*ytv3.Video{}, nil
	}

	videosResp, err := c.data.Videos.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoIDs...).
		Context(ctx).
		Do()
	c.record(DataAPI, costList)
	if err != nil {
		return nil, err
	}

	videos := videosResp.Items
	SortVideos(videos, order)
	return videos, nil
}

// SortVideos orders videos in place: "viewCount" by views descending,
// "date" by publish time descending. Unknown orders are left untouched.
func SortVideos(videos []*ytv3.Video, order string) {
	switch order {
	case "viewCount":
		sort.SliceStable(videos, func(i, j int) bool {
			return videoViews(videos[i]) > videoViews(videos[j])
		})
	case "date":
		// RFC3339 timestamps compare correctly as strings.
		sort.SliceStable(videos, func(i, j int) bool {
			return videoPublished(videos[i]) > videoPublished(videos[j])
		})
	}
}

func videoViews(v *ytv3.Video) uint64 {
	if v.Statistics == nil {
		return 0
	}
	return v.Statistics.ViewCount
}

func videoPublished(v *ytv3.Video) string {
	if v.Snippet == nil {
		return ""
	}
	return v.Snippet.PublishedAt
}

// ChannelAnalytics runs a reports.query against the Analytics API.
// Fails fast without OAuth credentials.
func (c *Client) ChannelAnalytics(ctx context.Context, channelID, startDate, endDate, metrics, dimensions string) (*ytanalytics.QueryResponse, error) {
	if c.analytics == nil {
		return nil, ErrAnalyticsUnavailable
	}

	call := c.analytics.Reports.Query().
		Ids("channel==" + channelID).
		StartDate(startDate).
		EndDate(endDate).
		Metrics(metrics).
		Context(ctx)
	if dimensions != "" {
		call = call.Dimensions(dimensions)
	}

	resp, err := call.Do()
	c.record(AnalyticsAPI, costList)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Demographics holds one analytics report per audience dimension.
type Demographics struct {
	AgeGroups *ytanalytics.QueryResponse
	Gender    *ytanalytics.QueryResponse
	Countries *ytanalytics.QueryResponse
}

// AudienceDemographics fetches age group, gender and country panels for a
// channel over a date range.
func (c *Client) AudienceDemographics(ctx context.Context, channelID, startDate, endDate string) (*Demographics, error) {
	if c.analytics == nil {
		return nil, ErrAnalyticsUnavailable
	}

	const metrics = "views,estimatedMinutesWatched"

	out := &Demographics{}
	for _, panel := range []struct {
		dimension string
		dest      **ytanalytics.QueryResponse
	}{
		{"ageGroup", &out.AgeGroups},
		{"gender", &out.Gender},
		{"country", &out.Countries},
	} {
		resp, err := c.ChannelAnalytics(ctx, channelID, startDate, endDate, metrics, panel.dimension)
		if err != nil {
			return nil, fmt.Errorf("fetch %s demographics: %w", panel.dimension, err)
		}
		*panel.dest = resp
	}
	return out, nil
}

// HasAnalytics reports whether Analytics API calls are possible.
func (c *Client) HasAnalytics() bool {
	return c.analytics != nil
}

// NormalizeOrder validates a requested video ordering. Empty input falls
// back to viewCount like the original API contract.
func NormalizeOrder(order string) string {
	order = strings.TrimSpace(order)
	if order == "" {
		return "viewCount"
	}
	return order
}
