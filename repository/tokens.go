package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"errors"
	"time"

	"github.com/emzola/bookshelf/data"
)

type tokens interface {
	CreateNewToken(userID int64, ttl time.Duration, scope string) (*data.Token, error)
	GetUserForToken(scope string, tokenPlaintext string) (*data.User, error)
	DeleteAllTokensForUser(scope string, userID int64) error
}

// CreateNewToken generates a token for a user and inserts its hash.
func (r *repository) CreateNewToken(userID int64, ttl time.Duration, scope string) (*data.Token, error) {
	token, err := data.GenerateToken(userID, ttl, scope)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO tokens (hash, user_id, expiry, scope)
		VALUES ($1, $2, $3, $4)`
	args := []interface{}{token.Hash, token.UserID, token.Expiry, token.Scope}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return token, nil
}

// GetUserForToken retrieves the user associated with an unexpired token.
func (r *repository) GetUserForToken(scope string, tokenPlaintext string) (*data.User, error) {
	tokenHash := sha256.Sum256([]byte(tokenPlaintext))
	query := `
		SELECT users.id, users.created_at, users.username, users.email, users.password_hash,
			users.first_name, users.last_name, users.bio, users.profile_picture_url, users.activated, users.version
		FROM users
		INNER JOIN tokens ON users.id = tokens.user_id
		WHERE tokens.hash = $1 AND tokens.scope = $2 AND tokens.expiry > $3`
	args := []interface{}{tokenHash[:], scope, time.Now()}
	var user data.User
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID,
		&user.CreatedAt,
		&user.Username,
		&user.Email,
		&user.Password.Hash,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.ProfilePictureURL,
		&user.Activated,
		&user.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &user, nil
}

// DeleteAllTokensForUser deletes all tokens with a specific scope for a user.
func (r *repository) DeleteAllTokensForUser(scope string, userID int64) error {
	query := `
		DELETE FROM tokens
		WHERE scope = $1 AND user_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, query, scope, userID)
	return err
}
