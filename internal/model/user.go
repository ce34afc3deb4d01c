package model

import "time"

// User holds one row per logged-in Google account. OAuth tokens are
// overwritten on re-login and blanked on logout.
type User struct {
	GoogleID       string     `db:"google_id"`
	Email          string     `db:"email"`
	Name           string     `db:"name"`
	PictureURL     string     `db:"picture_url"`
	AccessToken    string     `db:"access_token"`
	RefreshToken   string     `db:"refresh_token"`
	TokenExpiresAt *time.Time `db:"token_expires_at"`
	CreatedAt      time.Time  `db:"created_at"`
	LastLogin      time.Time  `db:"last_login"`
}

// UserResponse is the API projection of a user.
type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	PictureURL string `json:"pictureUrl,omitempty"`
}

// UserDetailResponse extends UserResponse for the /me endpoint.
type UserDetailResponse struct {
	UserResponse
	HasValidToken bool `json:"hasValidToken"`
}

// Response converts the row to its API projection.
func (u *User) Response() *UserResponse {
	return &UserResponse{
		ID:         u.GoogleID,
		Email:      u.Email,
		Name:       u.Name,
		PictureURL: u.PictureURL,
	}
}

// DetailResponse is the projection for /api/auth/me.
func (u *User) DetailResponse() *UserDetailResponse {
	return &UserDetailResponse{
		UserResponse:  *u.Response(),
		HasValidToken: u.AccessToken != "",
	}
}
