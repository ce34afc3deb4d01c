package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	ytv3 "google.golang.org/api/youtube/v3"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/model"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/repository"
)

// DataAPI is the slice of the gateway the channel service consumes.
type DataAPI interface {
	SearchChannels(ctx context.Context, query string, maxResults int64) ([]*ytv3.Channel, error)
	ChannelDetails(ctx context.Context, channelID string) (*ytv3.Channel, error)
	ChannelByUsername(ctx context.Context, username string) (*ytv3.Channel, error)
	ChannelVideos(ctx context.Context, channelID string, maxResults int64, order string) ([]*ytv3.Video, error)
}

type ChannelService struct {
	api       DataAPI
	channels  *repository.ChannelRepo
	videos    *repository.VideoRepo
	analytics *repository.AnalyticsRepo
	cache     *CacheService

	channelTTL time.Duration
	videoTTL   time.Duration
	statsTTL   time.Duration
}

func NewChannelService(
	api DataAPI,
	channels *repository.ChannelRepo,
	videos *repository.VideoRepo,
	analytics *repository.AnalyticsRepo,
	cache *CacheService,
	channelTTL, videoTTL, statsTTL time.Duration,
) *ChannelService {
	return &ChannelService{
		api:        api,
		channels:   channels,
		videos:     videos,
		analytics:  analytics,
		cache:      cache,
		channelTTL: channelTTL,
		videoTTL:   videoTTL,
		statsTTL:   statsTTL,
	}
}

// Search queries the Data API and persists every hit.
func (s *ChannelService) Search(ctx context.Context, query string, maxResults int64) ([]*model.ChannelResponse, error) {
	hits, err := s.api.SearchChannels(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]*model.ChannelResponse, 0, len(hits))
	for _, hit := range hits {
		ch := model.ChannelFromYouTube(hit, now)
		if err := s.channels.Upsert(ctx, ch); err != nil {
			return nil, err
		}
		out = append(out, ch.Response())
	}
	return out, nil
}

// Lookup returns a channel, serving the Redis entry or a fresh DB row
// before reaching for the API. API fetches refresh the row and record a
// daily statistics snapshot.
func (s *ChannelService) Lookup(ctx context.Context, channelID string) (*model.ChannelResponse, error) {
	if cached, err := s.cache.Get(ctx, ChannelKey(channelID)); err != nil {
		log.Printf("cache: channel get error: %v", err)
	} else if cached != nil {
		var resp model.ChannelResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
	}

	now := time.Now().UTC()
	if row, err := s.channels.FindByChannelID(ctx, channelID); err == nil && repository.Fresh(row, s.channelTTL, now) {
		resp := row.Response()
		s.fillCache(ctx, ChannelKey(channelID), resp, s.channelTTL)
		return resp, nil
	}

	return s.refresh(ctx, channelID)
}

// LookupByUsername resolves a channel through its legacy username.
func (s *ChannelService) LookupByUsername(ctx context.Context, username string) (*model.ChannelResponse, error) {
	data, err := s.api.ChannelByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.ingest(ctx, data)
}

// refresh fetches a channel from the API and persists it.
func (s *ChannelService) refresh(ctx context.Context, channelID string) (*model.ChannelResponse, error) {
	data, err := s.api.ChannelDetails(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return s.ingest(ctx, data)
}

// ingest upserts the channel, records today's statistics snapshot and
// populates the cache.
func (s *ChannelService) ingest(ctx context.Context, data *ytv3.Channel) (*model.ChannelResponse, error) {
	now := time.Now().UTC()
	ch := model.ChannelFromYouTube(data, now)

	if err := s.channels.Upsert(ctx, ch); err != nil {
		return nil, err
	}

	snapshot := &model.ChannelStatisticsHistory{
		ChannelID:       ch.ChannelID,
		Date:            now.Format("2006-01-02"),
		ViewCount:       ch.ViewCount,
		SubscriberCount: ch.SubscriberCount,
		VideoCount:      ch.VideoCount,
		CreatedAt:       now,
	}
	if err := s.analytics.UpsertHistory(ctx, snapshot); err != nil {
		// The lookup itself succeeded; losing one snapshot is not fatal.
		log.Printf("history: snapshot for %s failed: %v", ch.ChannelID, err)
	}

	resp := ch.Response()
	s.fillCache(ctx, ChannelKey(ch.ChannelID), resp, s.channelTTL)
	return resp, nil
}

// Videos returns a channel's uploads sorted per order. Like Lookup it is
// cache-aside: the Redis entry, then DB rows still inside the listing TTL,
// then an API fetch that persists the batch.
func (s *ChannelService) Videos(ctx context.Context, channelID string, maxResults int64, order string) ([]*model.VideoResponse, error) {
	key := VideosKey(channelID, order, maxResults)
	if cached, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("cache: videos get error: %v", err)
	} else if cached != nil {
		var resp []*model.VideoResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return resp, nil
		}
	}

	now := time.Now().UTC()
	if rows, err := s.videos.FindByChannel(ctx, channelID, int(maxResults), order); err == nil && videosFresh(rows, int(maxResults), s.videoTTL, now) {
		out := make([]*model.VideoResponse, 0, len(rows))
		for i := range rows {
			out = append(out, rows[i].Response())
		}
		s.fillCache(ctx, key, out, s.videoTTL)
		return out, nil
	}

	items, err := s.api.ChannelVideos(ctx, channelID, maxResults, order)
	if err != nil {
		return nil, err
	}

	rows := make([]*model.Video, 0, len(items))
	out := make([]*model.VideoResponse, 0, len(items))
	for _, item := range items {
		v := model.VideoFromYouTube(item, channelID, now)
		rows = append(rows, v)
		out = append(out, v.Response())
	}

	if err := s.videos.UpsertAll(ctx, rows); err != nil {
		return nil, err
	}

	s.fillCache(ctx, key, out, s.videoTTL)
	return out, nil
}

// History returns the persisted daily statistics series, oldest first.
// Series responses are cached under the statistics TTL; snapshots only
// change once per day so the window can be generous.
func (s *ChannelService) History(ctx context.Context, channelID string, days int) ([]*model.HistoryResponse, error) {
	key := HistoryKey(channelID, days)
	if cached, err := s.cache.Get(ctx, key); err != nil {
		log.Printf("cache: history get error: %v", err)
	} else if cached != nil {
		var resp []*model.HistoryResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return resp, nil
		}
	}

	rows, err := s.analytics.History(ctx, channelID, days)
	if err != nil {
		return nil, err
	}
	out := make([]*model.HistoryResponse, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].Response())
	}

	s.fillCache(ctx, key, out, s.statsTTL)
	return out, nil
}

// videosFresh reports whether stored rows can satisfy a listing request:
// the requested limit was reached and every row is inside the TTL. Short
// results fall through to the API so partial ingests never pin a listing.
func videosFresh(rows []model.Video, want int, ttl time.Duration, now time.Time) bool {
	if len(rows) < want {
		return false
	}
	for i := range rows {
		if now.Sub(rows[i].LastUpdated) >= ttl {
			return false
		}
	}
	return true
}

func (s *ChannelService) fillCache(ctx context.Context, key string, data interface{}, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, data, ttl); err != nil {
		log.Printf("cache: set %s error: %v", key, err)
	}
}
