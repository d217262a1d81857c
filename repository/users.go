package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/emzola/bookshelf/data"
	"github.com/lib/pq"
)

type users interface {
	RegisterUser(user *data.User) error
	GetUserByID(userID int64) (*data.User, error)
	GetUserByEmail(email string) (*data.User, error)
	GetUserByUsername(username string) (*data.User, error)
	UpdateUser(user *data.User) error
	DeleteUser(userID int64) error
}

// RegisterUser inserts a new user record.
func (r *repository) RegisterUser(user *data.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, first_name, last_name, bio, profile_picture_url, activated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version`
	args := []interface{}{user.Username, user.Email, user.Password.Hash, user.FirstName, user.LastName, user.Bio, user.ProfilePictureURL, user.Activated}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.CreatedAt, &user.Version)
	if err != nil {
		var pqErr *pq.Error
		switch {
		case errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation":
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// GetUserByID retrieves a user record by its ID.
func (r *repository) GetUserByID(userID int64) (*data.User, error) {
	if userID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, created_at, username, email, password_hash, first_name, last_name, bio, profile_picture_url, activated, version
		FROM users
		WHERE id = $1`
	return r.getUser(query, userID)
}

// GetUserByEmail retrieves a user record by email address.
func (r *repository) GetUserByEmail(email string) (*data.User, error) {
	query := `
		SELECT id, created_at, username, email, password_hash, first_name, last_name, bio, profile_picture_url, activated, version
		FROM users
		WHERE email = $1`
	return r.getUser(query, email)
}

// GetUserByUsername retrieves a user record by username.
func (r *repository) GetUserByUsername(username string) (*data.User, error) {
	query := `
		SELECT id, created_at, username, email, password_hash, first_name, last_name, bio, profile_picture_url, activated, version
		FROM users
		WHERE username = $1`
	return r.getUser(query, username)
}

func (r *repository) getUser(query string, arg interface{}) (*data.User, error) {
	var user data.User
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
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

// UpdateUser updates a user record.
func (r *repository) UpdateUser(user *data.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, password_hash = $3, first_name = $4, last_name = $5,
			bio = $6, profile_picture_url = $7, activated = $8, version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version`
	args := []interface{}{
		user.Username,
		user.Email,
		user.Password.Hash,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.ProfilePictureURL,
		user.Activated,
		user.ID,
		user.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&user.Version)
	if err != nil {
		var pqErr *pq.Error
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		case errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation":
			return ErrDuplicateRecord
		default:
			return err
		}
	}
	return nil
}

// DeleteUser deletes a user record. Deletion is restricted while the user
// still has reviews.
func (r *repository) DeleteUser(userID int64) error {
	if userID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM users
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		var pqErr *pq.Error
		switch {
		case errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation":
			return ErrRestrictedRecord
		default:
			return err
		}
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
