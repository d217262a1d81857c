package data

import (
	"time"

	"github.com/emzola/bookshelf/internal/validator"
)

// Bookshelf defines a named collection of books belonging to a user. Every
// user gets a default shelf at registration; books are linked many-to-many.
type Bookshelf struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	BookCount int64     `json:"book_count"`
	CreatedAt time.Time `json:"created_at"`
	Version   int32     `json:"-"`
}

func ValidateBookshelf(v *validator.Validator, shelf *Bookshelf) {
	v.Check(shelf.Name != "", "name", "must be provided")
	v.Check(len(shelf.Name) <= 200, "name", "must not be more than 200 bytes long")
}
