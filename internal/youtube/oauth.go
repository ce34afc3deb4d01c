package youtube

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Scopes requested during login: read-only channel data plus analytics.
var oauthScopes = []string{
	"https://www.googleapis.com/auth/youtube.readonly",
	"https://www.googleapis.com/auth/yt-analytics.readonly",
}

// ErrOAuthNotConfigured means client id, secret or redirect URI is missing.
var ErrOAuthNotConfigured = errors.New("youtube: missing Google OAuth configuration")

// Userinfo is the subset of the Google profile this service stores.
type Userinfo struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

// OAuth drives the Google authorization-code flow for the YouTube scopes.
type OAuth struct {
	cfg *oauth2.Config
}

// NewOAuth fails with a configuration error when any required setting is
// absent.
func NewOAuth(clientID, clientSecret, redirectURI string) (*OAuth, error) {
	if clientID == "" || clientSecret == "" || redirectURI == "" {
		return nil, ErrOAuthNotConfigured
	}
	return &OAuth{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       oauthScopes,
			Endpoint:     google.Endpoint,
		},
	}, nil
}

// AuthCodeURL builds the provider authorization URL with offline access so
// a refresh token is issued.
func (o *OAuth) AuthCodeURL(state string) string {
	return o.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("include_granted_scopes", "true"),
	)
}

// Exchange trades an authorization code for tokens.
func (o *OAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return o.cfg.Exchange(ctx, code)
}

// Refresh returns the token unchanged while it is still valid or when no
// refresh token is present; otherwise it performs a refresh.
func (o *OAuth) Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	if tok.Valid() || tok.RefreshToken == "" {
		return tok, nil
	}
	return o.cfg.TokenSource(ctx, tok).Token()
}

// TokenSource exposes a self-refreshing token source for API clients.
func (o *OAuth) TokenSource(ctx context.Context, tok *oauth2.Token) oauth2.TokenSource {
	return o.cfg.TokenSource(ctx, tok)
}

// UserInfo fetches the Google profile for an authenticated token.
func (o *OAuth) UserInfo(ctx context.Context, tok *oauth2.Token) (*Userinfo, error) {
	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(o.cfg.TokenSource(ctx, tok)))
	if err != nil {
		return nil, err
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return &Userinfo{
		ID:      info.Id,
		Email:   info.Email,
		Name:    info.Name,
		Picture: info.Picture,
	}, nil
}

// StateStore issues and validates single-use anti-forgery state tokens for
// the OAuth handshake. It is an explicit dependency of the auth handler,
// not ambient session state.
type StateStore struct {
	mu     sync.Mutex
	states map[string]time.Time
	ttl    time.Duration
}

// NewStateStore creates a store whose tokens expire after ttl.
func NewStateStore(ttl time.Duration) *StateStore {
	return &StateStore{
		states: make(map[string]time.Time),
		ttl:    ttl,
	}
}

// Issue creates a new state token.
func (s *StateStore) Issue() string {
	state := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Drop expired tokens while we hold the lock.
	now := time.Now()
	for k, exp := range s.states {
		if now.After(exp) {
			delete(s.states, k)
		}
	}

	s.states[state] = now.Add(s.ttl)
	return state
}

// Consume validates and removes a state token. A token can be consumed at
// most once; expired or unknown tokens fail.
func (s *StateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.states[state]
	if !ok {
		return false
	}
	delete(s.states, state)
	return time.Now().Before(exp)
}
