package dto

import "github.com/emzola/bookshelf/data"

// CreateBookshelfRequestBody defines a request body for CreateBookshelf service.
type CreateBookshelfRequestBody struct {
	Name string `json:"name"`
}

// UpdateBookshelfRequestBody defines a request body for UpdateBookshelf service.
type UpdateBookshelfRequestBody struct {
	Name *string `json:"name"`
}

// QsListShelfBooks defines the query strings used for listing the books on a shelf.
type QsListShelfBooks struct {
	Filters data.Filters
}
