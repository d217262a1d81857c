package data

import (
	"errors"
	"time"

	"github.com/emzola/bookshelf/internal/validator"
	"golang.org/x/crypto/bcrypt"
)

// AnonymousUser represents an unauthenticated request.
var AnonymousUser = &User{}

// User defines a user model.
type User struct {
	ID                int64     `json:"id"`
	CreatedAt         time.Time `json:"created_at"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	Password          password  `json:"-"`
	FirstName         string    `json:"first_name,omitempty"`
	LastName          string    `json:"last_name,omitempty"`
	Bio               string    `json:"bio,omitempty"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	Activated         bool      `json:"activated"`
	Version           int32     `json:"-"`
}

// IsAnonymous checks if a user instance is the anonymous user.
func (u *User) IsAnonymous() bool {
	return u == AnonymousUser
}

// password holds the plaintext and hashed versions of a user's password. The
// plaintext field is a *pointer* to a string to distinguish between a
// plaintext password not being present at all and one which is the empty
// string.
type password struct {
	Plaintext *string
	Hash      []byte
}

// Set calculates the bcrypt hash of a plaintext password.
func (p *password) Set(plaintextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintextPassword), 12)
	if err != nil {
		return err
	}
	p.Plaintext = &plaintextPassword
	p.Hash = hash
	return nil
}

// Matches checks whether the provided plaintext password matches the stored
// hash, returning true if it matches and false otherwise.
func (p *password) Matches(plaintextPassword string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.Hash, []byte(plaintextPassword))
	if err != nil {
		switch {
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

func ValidateEmail(v *validator.Validator, email string) {
	v.Check(email != "", "email", "must be provided")
	v.Check(validator.Matches(email, validator.EmailRX), "email", "must be a valid email address")
}

func ValidatePasswordPlaintext(v *validator.Validator, password string) {
	v.Check(password != "", "password", "must be provided")
	v.Check(len(password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(password) <= 72, "password", "must not be more than 72 bytes long")
}

func ValidateUser(v *validator.Validator, user *User) {
	v.Check(user.Username != "", "username", "must be provided")
	v.Check(len(user.Username) <= 100, "username", "must not be more than 100 bytes long")
	ValidateEmail(v, user.Email)
	v.Check(len(user.Bio) <= 2000, "bio", "must not be more than 2000 bytes long")
	if user.Password.Plaintext != nil {
		ValidatePasswordPlaintext(v, *user.Password.Plaintext)
	}
	if user.Password.Hash == nil {
		panic("missing password hash for user")
	}
}
