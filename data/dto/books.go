package dto

import (
	"time"

	"github.com/emzola/bookshelf/data"
)

// CreateBookRequestBody defines a request body for CreateBook service.
type CreateBookRequestBody struct {
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn"`
	Description   string    `json:"description"`
	PageCount     int32     `json:"page_count"`
	PublishedDate time.Time `json:"published_date"`
	CoverImageURL string    `json:"cover_image_url"`
	Publisher     string    `json:"publisher"`
}

// UpdateBookRequestBody defines a request body for UpdateBook service. The
// fields are pointer types to allow partial updates based on whether the
// value is nil.
type UpdateBookRequestBody struct {
	Title         *string    `json:"title"`
	Author        *string    `json:"author"`
	ISBN          *string    `json:"isbn"`
	Description   *string    `json:"description"`
	PageCount     *int32     `json:"page_count"`
	PublishedDate *time.Time `json:"published_date"`
	CoverImageURL *string    `json:"cover_image_url"`
	Publisher     *string    `json:"publisher"`
}

// The OpenLibraryBook struct contains the expected JSON data that has been
// decoded into a Go type from the openlibrary API.
type OpenLibraryBook struct {
	Title         string   `json:"title"`
	Publishers    []string `json:"publishers"`
	NumberOfPages int32    `json:"number_of_pages"`
	PublishDate   string   `json:"publish_date"`
}

// QsListBooks defines the query strings used for listing books.
type QsListBooks struct {
	Search  string
	Filters data.Filters
}
