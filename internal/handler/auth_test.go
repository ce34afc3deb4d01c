package handler

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v3"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/repository"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/service"
	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/youtube"
)

type stubBroker struct {
	tok  *oauth2.Token
	info *youtube.Userinfo
}

func (s *stubBroker) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + state
}

func (s *stubBroker) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return s.tok, nil
}

func (s *stubBroker) Refresh(ctx context.Context, tok *oauth2.Token) (*oauth2.Token, error) {
	return tok, nil
}

func (s *stubBroker) UserInfo(ctx context.Context, tok *oauth2.Token) (*youtube.Userinfo, error) {
	return s.info, nil
}

func newAuthApp(t *testing.T) (*fiber.App, *service.AuthService, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	broker := &stubBroker{
		tok: &oauth2.Token{
			AccessToken:  "ya29.token",
			RefreshToken: "1//refresh",
			Expiry:       time.Now().Add(time.Hour),
		},
		info: &youtube.Userinfo{
			ID:    "google-id-123",
			Email: "viewer@example.com",
			Name:  "Viewer",
		},
	}

	users := repository.NewUserRepo(sqlx.NewDb(mockDB, "sqlmock"))
	states := youtube.NewStateStore(time.Minute)
	svc := service.NewAuthService(broker, users, states, "test-secret", time.Hour)

	h := NewAuthHandler(svc)
	app := fiber.New()
	app.Get("/api/auth/login", h.Login)
	app.Get("/api/auth/callback", h.Callback)

	return app, svc, mock
}

func TestLoginReturnsAuthorizationURL(t *testing.T) {
	app, _, _ := newAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["state"])
	assert.Contains(t, body["authorizationUrl"], body["state"])
}

func TestCallbackHappyPath(t *testing.T) {
	app, svc, mock := newAuthApp(t)
	mock.ExpectExec("INSERT INTO users").WillReturnResult(sqlmock.NewResult(1, 1))

	_, state := svc.Login()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/callback?code=auth-code&state="+state, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["accessToken"])

	user := body["user"].(map[string]interface{})
	assert.Equal(t, "google-id-123", user["id"])
	assert.Equal(t, "viewer@example.com", user["email"])
	assert.NotContains(t, user, "accessToken", "OAuth material must not leak")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCallbackRejectsForgedState(t *testing.T) {
	app, _, mock := newAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/callback?code=auth-code&state=forged", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, false, body["success"])
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_STATE", errObj["code"])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCallbackMissingParameters(t *testing.T) {
	app, _, _ := newAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/callback", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "MISSING_PARAMETERS", errObj["code"])
}

func TestCallbackProviderError(t *testing.T) {
	app, _, _ := newAuthApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/callback?error=access_denied", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "OAUTH_ERROR", errObj["code"])
}

func TestAuthRoutesWithoutOAuthConfigured(t *testing.T) {
	h := NewAuthHandler(nil)
	app := fiber.New()
	app.Get("/api/auth/login", h.Login)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/auth/login", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	errObj := body["error"].(map[string]interface{})
	assert.Equal(t, "OAUTH_INIT_ERROR", errObj["code"])
}
