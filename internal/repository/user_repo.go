package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AaronYuan9527/youtube-channel-analyzer/internal/model"
)

type UserRepo struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// FindByGoogleID returns a single user row, or sql.ErrNoRows.
func (r *UserRepo) FindByGoogleID(ctx context.Context, googleID string) (*model.User, error) {
	query := r.db.Rebind(`
		SELECT google_id, email, name, picture_url, access_token, refresh_token,
		       token_expires_at, created_at, last_login
		FROM users
		WHERE google_id = ?`)

	var u model.User
	if err := r.db.GetContext(ctx, &u, query, googleID); err != nil {
		return nil, err
	}
	return &u, nil
}

// Upsert inserts the user or updates profile and tokens on re-login.
// created_at is preserved for existing rows.
func (r *UserRepo) Upsert(ctx context.Context, u *model.User) error {
	query := `
		INSERT INTO users (
			google_id, email, name, picture_url, access_token, refresh_token,
			token_expires_at, created_at, last_login
		) VALUES (
			:google_id, :email, :name, :picture_url, :access_token, :refresh_token,
			:token_expires_at, :created_at, :last_login
		)
		ON CONFLICT (google_id) DO UPDATE SET
			email = EXCLUDED.email,
			name = EXCLUDED.name,
			picture_url = EXCLUDED.picture_url,
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			token_expires_at = EXCLUDED.token_expires_at,
			last_login = EXCLUDED.last_login`

	_, err := r.db.NamedExecContext(ctx, query, u)
	return err
}

// UpdateTokens stores a fresh access token and expiry after a refresh.
func (r *UserRepo) UpdateTokens(ctx context.Context, googleID, accessToken string, expiresAt *time.Time) error {
	query := r.db.Rebind(`
		UPDATE users
		SET access_token = ?, token_expires_at = ?
		WHERE google_id = ?`)

	_, err := r.db.ExecContext(ctx, query, accessToken, expiresAt, googleID)
	return err
}

// ClearTokens blanks all OAuth material for a user on logout.
func (r *UserRepo) ClearTokens(ctx context.Context, googleID string) error {
	query := r.db.Rebind(`
		UPDATE users
		SET access_token = '', refresh_token = '', token_expires_at = NULL
		WHERE google_id = ?`)

	_, err := r.db.ExecContext(ctx, query, googleID)
	return err
}

// Count returns the number of registered users.
func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}
