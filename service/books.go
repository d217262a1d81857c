package service

import (
	"encoding/json"
	"errors"
	"mime/multipart"

	"github.com/emzola/bookshelf/clients"
	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/data/dto"
	"github.com/emzola/bookshelf/internal/validator"
	"github.com/emzola/bookshelf/repository"
)

type books interface {
	CreateBook(body dto.CreateBookRequestBody) (*data.Book, error)
	GetBook(bookID int64) (*data.Book, error)
	UpdateBook(bookID int64, body dto.UpdateBookRequestBody) (*data.Book, error)
	DeleteBook(bookID int64) error
	ListBooks(search string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	UploadBookCover(bookID int64, file multipart.File, fileHeader *multipart.FileHeader) (*data.Book, error)
	LookupBookByISBN(isbn string) (*data.Book, error)
	ListTopRatedBooks(limit int) ([]*data.Book, error)
	ListRecommendedBooks(userID int64, limit int) ([]*data.Book, error)
}

// CreateBook service adds a new book to the catalog.
func (s *service) CreateBook(body dto.CreateBookRequestBody) (*data.Book, error) {
	book := &data.Book{
		Title:         body.Title,
		Author:        body.Author,
		ISBN:          body.ISBN,
		Description:   body.Description,
		PageCount:     body.PageCount,
		PublishedDate: body.PublishedDate,
		CoverImageURL: body.CoverImageURL,
		Publisher:     body.Publisher,
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err := s.repo.CreateBook(book)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// GetBook service retrieves a book's details.
func (s *service) GetBook(bookID int64) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// UpdateBook service updates a book's details.
func (s *service) UpdateBook(bookID int64, body dto.UpdateBookRequestBody) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if body.Title != nil {
		book.Title = *body.Title
	}
	if body.Author != nil {
		book.Author = *body.Author
	}
	if body.ISBN != nil {
		book.ISBN = *body.ISBN
	}
	if body.Description != nil {
		book.Description = *body.Description
	}
	if body.PageCount != nil {
		book.PageCount = *body.PageCount
	}
	if body.PublishedDate != nil {
		book.PublishedDate = *body.PublishedDate
	}
	if body.CoverImageURL != nil {
		book.CoverImageURL = *body.CoverImageURL
	}
	if body.Publisher != nil {
		book.Publisher = *body.Publisher
	}
	v := validator.New()
	if data.ValidateBook(v, book); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return book, nil
}

// DeleteBook service removes a book from the catalog.
func (s *service) DeleteBook(bookID int64) error {
	err := s.repo.DeleteBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// ListBooks service retrieves a paginated list of books. A non-empty search
// term matches the title, author or ISBN.
func (s *service) ListBooks(search string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	books, metadata, err := s.repo.GetAllBooks(search, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return books, metadata, nil
}

// UploadBookCover service uploads a cover image to object storage and records
// its URL on the book.
func (s *service) UploadBookCover(bookID int64, file multipart.File, fileHeader *multipart.FileHeader) (*data.Book, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	buffer, mtype, err := s.detectMimeType(file, fileHeader)
	if err != nil {
		return nil, err
	}
	if !validator.Mime(mtype, "image/jpeg", "image/png", "image/webp") {
		return nil, ErrUnsupportedMediaType
	}
	s3Client, err := clients.NewS3Client(s.config)
	if err != nil {
		return nil, err
	}
	url, err := s.uploadFileToS3(s3Client, buffer, mtype, fileHeader, "bookcovers")
	if err != nil {
		return nil, err
	}
	book.CoverImageURL = url
	err = s.repo.UpdateBook(book)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return book, nil
}

// LookupBookByISBN service fetches book metadata from the openlibrary API.
// The result is not persisted; it prefills a catalog entry for review.
func (s *service) LookupBookByISBN(isbn string) (*data.Book, error) {
	v := validator.New()
	v.Check(isbn != "", "isbn", "must be provided")
	v.Check(validator.Matches(isbn, validator.IsbnRX), "isbn", "must be a valid ISBN-10 or ISBN-13")
	if !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	remote := &dto.OpenLibraryBook{}
	url := "https://openlibrary.org/isbn/" + isbn + ".json"
	client := clients.NewHTTPClient()
	bytes, err := s.fetchRemoteResource(client, url)
	if err != nil {
		return nil, err
	}
	err = json.Unmarshal(bytes, remote)
	if err != nil {
		return nil, ErrBadRequest
	}
	book := &data.Book{
		Title:     remote.Title,
		ISBN:      isbn,
		PageCount: remote.NumberOfPages,
	}
	if len(remote.Publishers) > 0 {
		book.Publisher = remote.Publishers[0]
	}
	return book, nil
}

// ListTopRatedBooks service retrieves the highest rated books in the catalog.
func (s *service) ListTopRatedBooks(limit int) ([]*data.Book, error) {
	v := validator.New()
	v.Check(limit > 0, "limit", "must be greater than zero")
	v.Check(limit <= 100, "limit", "must be a maximum of 100")
	if !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	return s.repo.GetTopRatedBooks(limit)
}

// ListRecommendedBooks service retrieves highly rated books which are not on
// any of the user's shelves yet.
func (s *service) ListRecommendedBooks(userID int64, limit int) ([]*data.Book, error) {
	v := validator.New()
	v.Check(limit > 0, "limit", "must be greater than zero")
	v.Check(limit <= 100, "limit", "must be a maximum of 100")
	if !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	return s.repo.GetRecommendedBooks(userID, limit)
}
