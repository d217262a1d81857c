package data

import (
	"time"

	"github.com/emzola/bookshelf/internal/validator"
)

// Book defines a book model.
type Book struct {
	ID            int64     `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn,omitempty"`
	Description   string    `json:"description,omitempty"`
	PageCount     int32     `json:"page_count"`
	PublishedDate time.Time `json:"published_date,omitempty"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	Publisher     string    `json:"publisher,omitempty"`
	Version       int32     `json:"-"`
}

func ValidateBook(v *validator.Validator, book *Book) {
	v.Check(book.Title != "", "title", "must be provided")
	v.Check(len(book.Title) <= 500, "title", "must not be more than 500 bytes long")
	v.Check(book.Author != "", "author", "must be provided")
	v.Check(len(book.Author) <= 500, "author", "must not be more than 500 bytes long")
	v.Check(len(book.Description) <= 5000, "description", "must not be more than 5000 bytes long")
	v.Check(len(book.ISBN) <= 17, "isbn", "must not be more than 17 characters")
	v.Check(book.PageCount > 0, "page_count", "must be greater than zero")
	v.Check(book.PublishedDate.Before(time.Now().Add(24*time.Hour)), "published_date", "must not be in the future")
}
