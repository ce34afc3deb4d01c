package service

import (
	"context"
	"runtime"
	"time"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/repository"
)

// StatsService aggregates live system statistics: database row counts,
// recent refresh activity and process-level runtime info.
type StatsService struct {
	channels *repository.ChannelRepo
	videos   *repository.VideoRepo
	users    *repository.UserRepo
	startAt  time.Time
}

func NewStatsService(channels *repository.ChannelRepo, videos *repository.VideoRepo, users *repository.UserRepo) *StatsService {
	return &StatsService{
		channels: channels,
		videos:   videos,
		users:    users,
		startAt:  time.Now(),
	}
}

// SystemStats is the payload for /api/system/stats.
type SystemStats struct {
	Database       DatabaseStats  `json:"database"`
	RecentActivity RecentActivity `json:"recentActivity"`
	SystemInfo     SystemInfo     `json:"systemInfo"`
}

type DatabaseStats struct {
	TotalChannels int64 `json:"totalChannels"`
	TotalVideos   int64 `json:"totalVideos"`
	TotalUsers    int64 `json:"totalUsers"`
}

type RecentActivity struct {
	RecentChannels []RecentChannel `json:"recentChannels"`
}

type RecentChannel struct {
	ChannelID   string `json:"channelId"`
	Title       string `json:"title"`
	LastUpdated string `json:"lastUpdated"`
}

type SystemInfo struct {
	UptimeSeconds  int64  `json:"uptimeSeconds"`
	HeapAllocBytes uint64 `json:"heapAllocBytes"`
	NumGoroutine   int    `json:"numGoroutine"`
	GoVersion      string `json:"goVersion"`
}

// Collect gathers the full stats payload.
func (s *StatsService) Collect(ctx context.Context) (*SystemStats, error) {
	totalChannels, err := s.channels.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalVideos, err := s.videos.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.channels.Recent(ctx, 5)
	if err != nil {
		return nil, err
	}
	recentChannels := make([]RecentChannel, 0, len(recent))
	for _, ch := range recent {
		recentChannels = append(recentChannels, RecentChannel{
			ChannelID:   ch.ChannelID,
			Title:       ch.Title,
			LastUpdated: ch.LastUpdated.UTC().Format(time.RFC3339),
		})
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return &SystemStats{
		Database: DatabaseStats{
			TotalChannels: totalChannels,
			TotalVideos:   totalVideos,
			TotalUsers:    totalUsers,
		},
		RecentActivity: RecentActivity{RecentChannels: recentChannels},
		SystemInfo: SystemInfo{
			UptimeSeconds:  int64(time.Since(s.startAt).Seconds()),
			HeapAllocBytes: mem.HeapAlloc,
			NumGoroutine:   runtime.NumGoroutine(),
			GoVersion:      runtime.Version(),
		},
	}, nil
}
