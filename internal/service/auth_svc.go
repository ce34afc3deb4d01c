package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/model"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/repository"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/youtube"
)

var (
	// ErrInvalidState means the callback state token did not match one
	// issued by this service. Token exchange is never attempted.
	ErrInvalidState = errors.New("auth: invalid oauth state")

	// ErrNoRefreshToken means the user has no stored refresh token.
	ErrNoRefreshToken = errors.New("auth: no refresh token available")
)

// OAuthBroker is the slice of the OAuth flow the auth service consumes.
type OAuthBroker interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error)
	UserInfo(ctx context.Context, tok *oauth2.Token) (*youtube.Userinfo, error)
}

type AuthService struct {
	broker OAuthBroker
	users  *repository.UserRepo
	states *youtube.StateStore

	jwtSecret []byte
	jwtTTL    time.Duration
}

func NewAuthService(broker OAuthBroker, users *repository.UserRepo, states *youtube.StateStore, jwtSecret string, jwtTTL time.Duration) *AuthService {
	return &AuthService{
		broker:    broker,
		users:     users,
		states:    states,
		jwtSecret: []byte(jwtSecret),
		jwtTTL:    jwtTTL,
	}
}

// Login issues a state token and builds the provider authorization URL.
func (s *AuthService) Login() (authorizationURL, state string) {
	state = s.states.Issue()
	return s.broker.AuthCodeURL(state), state
}

// Callback validates the anti-forgery state, exchanges the code, fetches
// the Google profile, upserts the user and mints a bearer token. The state
// check happens before any network call.
func (s *AuthService) Callback(ctx context.Context, code, state string) (accessToken string, user *model.User, err error) {
	if !s.states.Consume(state) {
		return "", nil, ErrInvalidState
	}

	tok, err := s.broker.Exchange(ctx, code)
	if err != nil {
		return "", nil, err
	}

	info, err := s.broker.UserInfo(ctx, tok)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user = &model.User{
		GoogleID:       info.ID,
		Email:          info.Email,
		Name:           info.Name,
		PictureURL:     info.Picture,
		AccessToken:    tok.AccessToken,
		RefreshToken:   tok.RefreshToken,
		TokenExpiresAt: tokenExpiry(tok),
		CreatedAt:      now,
		LastLogin:      now,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return "", nil, err
	}

	accessToken, err = s.MintToken(user.GoogleID)
	if err != nil {
		return "", nil, err
	}
	return accessToken, user, nil
}

// MintToken signs a bearer token identifying the user.
func (s *AuthService) MintToken(googleID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": googleID,
		"iat": now.Unix(),
		"exp": now.Add(s.jwtTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// Logout blanks the user's stored OAuth tokens.
func (s *AuthService) Logout(ctx context.Context, googleID string) error {
	return s.users.ClearTokens(ctx, googleID)
}

// RefreshOAuth refreshes the user's Google access token and persists the
// result. Fails when no refresh token is stored.
func (s *AuthService) RefreshOAuth(ctx context.Context, user *model.User) error {
	if user.RefreshToken == "" {
		return ErrNoRefreshToken
	}

	refreshed, err := s.broker.Refresh(ctx, oauthToken(user))
	if err != nil {
		return err
	}

	return s.users.UpdateTokens(ctx, user.GoogleID, refreshed.AccessToken, tokenExpiry(refreshed))
}

// oauthToken rebuilds an oauth2.Token from a stored user row.
func oauthToken(user *model.User) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  user.AccessToken,
		RefreshToken: user.RefreshToken,
	}
	if user.TokenExpiresAt != nil {
		tok.Expiry = *user.TokenExpiresAt
	} else if user.AccessToken != "" {
		// Unknown expiry: treat the token as expired so a refresh happens.
		tok.Expiry = time.Now().Add(-time.Minute)
	}
	return tok
}

func tokenExpiry(tok *oauth2.Token) *time.Time {
	if tok.Expiry.IsZero() {
		return nil
	}
	t := tok.Expiry.UTC()
	return &t
}
