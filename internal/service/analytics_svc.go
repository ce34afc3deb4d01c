package service

import (
	"context"
	"errors"
	"log"
	"time"

	ytanalytics "google.golang.org/api/youtubeanalytics/v2"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/model"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/repository"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/youtube"
)

// ErrNoOAuthTokens means the user has never linked a Google account or has
// logged out, so no Analytics API calls are possible for them.
var ErrNoOAuthTokens = errors.New("analytics: user has no OAuth tokens")

// AnalyticsService runs Analytics API queries with the caller's own OAuth
// credentials. A fresh gateway is built per request because credentials are
// per-user.
type AnalyticsService struct {
	oauth           *youtube.OAuth
	users           *repository.UserRepo
	repo            *repository.AnalyticsRepo
	quota           *QuotaTracker
	demographicsTTL time.Duration
}

func NewAnalyticsService(oauth *youtube.OAuth, users *repository.UserRepo, repo *repository.AnalyticsRepo, quota *QuotaTracker, demographicsTTL time.Duration) *AnalyticsService {
	return &AnalyticsService{oauth: oauth, users: users, repo: repo, quota: quota, demographicsTTL: demographicsTTL}
}

// DemographicsResponse groups persisted audience slices by dimension.
type DemographicsResponse struct {
	AgeGroups []*model.DemographicResponse `json:"ageGroups"`
	Gender    []*model.DemographicResponse `json:"gender"`
	Countries []*model.DemographicResponse `json:"countries"`
}

// Query runs one reports.query for the user's channel and returns the
// parsed report.
func (s *AnalyticsService) Query(ctx context.Context, user *model.User, channelID, startDate, endDate, metrics, dimensions string) (*model.AnalyticsReport, error) {
	client, err := s.client(ctx, user)
	if err != nil {
		return nil, err
	}

	resp, err := client.ChannelAnalytics(ctx, channelID, startDate, endDate, metrics, dimensions)
	if err != nil {
		return nil, err
	}
	return model.ParseReport(resp)
}

// Demographics returns the age group, gender and country panels for a
// channel and date range. Slices persisted inside the demographics TTL are
// served straight from the store; otherwise the panels are fetched with the
// caller's credentials, persisted and returned.
func (s *AnalyticsService) Demographics(ctx context.Context, user *model.User, channelID, startDate, endDate string) (*DemographicsResponse, error) {
	if rows, err := s.repo.Demographics(ctx, channelID, startDate, endDate); err == nil && demographicsFresh(rows, s.demographicsTTL, time.Now().UTC()) {
		return groupDemographics(rows), nil
	}

	client, err := s.client(ctx, user)
	if err != nil {
		return nil, err
	}

	raw, err := client.AudienceDemographics(ctx, channelID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := &DemographicsResponse{
		AgeGroups: []*model.DemographicResponse{},
		Gender:    []*model.DemographicResponse{},
		Countries: []*model.DemographicResponse{},
	}

	panels := []struct {
		dimension string
		resp      *ytanalytics.QueryResponse
		dest      *[]*model.DemographicResponse
	}{
		{"ageGroup", raw.AgeGroups, &out.AgeGroups},
		{"gender", raw.Gender, &out.Gender},
		{"country", raw.Countries, &out.Countries},
	}

	for _, panel := range panels {
		report, err := model.ParseReport(panel.resp)
		if err != nil {
			return nil, err
		}
		slices, err := model.DemographicsFromReport(channelID, startDate, endDate, panel.dimension, report, now)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpsertDemographics(ctx, slices); err != nil {
			return nil, err
		}
		for i := range slices {
			*panel.dest = append(*panel.dest, slices[i].Response())
		}
	}

	return out, nil
}

// demographicsFresh reports whether persisted slices are recent enough to
// serve without touching the Analytics API.
func demographicsFresh(rows []model.AudienceDemographic, ttl time.Duration, now time.Time) bool {
	if len(rows) == 0 {
		return false
	}
	for i := range rows {
		if now.Sub(rows[i].CreatedAt) >= ttl {
			return false
		}
	}
	return true
}

// groupDemographics rebuilds the panel response from persisted slices.
func groupDemographics(rows []model.AudienceDemographic) *DemographicsResponse {
	out := &DemographicsResponse{
		AgeGroups: []*model.DemographicResponse{},
		Gender:    []*model.DemographicResponse{},
		Countries: []*model.DemographicResponse{},
	}
	for i := range rows {
		switch rows[i].DimensionType {
		case "ageGroup":
			out.AgeGroups = append(out.AgeGroups, rows[i].Response())
		case "gender":
			out.Gender = append(out.Gender, rows[i].Response())
		case "country":
			out.Countries = append(out.Countries, rows[i].Response())
		}
	}
	return out
}

// client builds a per-user gateway, persisting any silently refreshed
// access token back to the user row.
func (s *AnalyticsService) client(ctx context.Context, user *model.User) (*youtube.Client, error) {
	if s.oauth == nil {
		return nil, youtube.ErrOAuthNotConfigured
	}
	if user.AccessToken == "" && user.RefreshToken == "" {
		return nil, ErrNoOAuthTokens
	}

	ts := s.oauth.TokenSource(ctx, oauthToken(user))

	// Force the source to produce a valid token now so credential errors
	// surface before any report query, and refreshed tokens get persisted.
	current, err := ts.Token()
	if err != nil {
		return nil, err
	}
	if current.AccessToken != user.AccessToken {
		if err := s.users.UpdateTokens(ctx, user.GoogleID, current.AccessToken, tokenExpiry(current)); err != nil {
			log.Printf("auth: persisting refreshed token for %s failed: %v", user.GoogleID, err)
		}
	}

	return youtube.NewClient(ctx, "", ts, s.quota)
}
