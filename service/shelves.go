package service

import (
	"errors"

	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/internal/validator"
	"github.com/emzola/bookshelf/repository"
)

type shelves interface {
	CreateBookshelf(userID int64, name string) (*data.Bookshelf, error)
	GetBookshelf(shelfID int64, userID int64) (*data.Bookshelf, error)
	UpdateBookshelf(shelfID int64, userID int64, name string) (*data.Bookshelf, error)
	DeleteBookshelf(shelfID int64, userID int64) error
	ListBookshelves(userID int64) ([]*data.Bookshelf, error)
	AddBookToShelf(shelfID int64, userID int64, bookID int64) error
	RemoveBookFromShelf(shelfID int64, userID int64, bookID int64) error
	ListShelfBooks(shelfID int64, userID int64, filters data.Filters) ([]*data.Book, data.Metadata, error)
}

// CreateBookshelf service creates a named shelf for a user.
func (s *service) CreateBookshelf(userID int64, name string) (*data.Bookshelf, error) {
	shelf := &data.Bookshelf{
		UserID: userID,
		Name:   name,
	}
	v := validator.New()
	if data.ValidateBookshelf(v, shelf); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err := s.repo.CreateBookshelf(shelf)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			v.AddError("name", "a shelf with this name already exists")
			return nil, s.failedValidation(v.Errors)
		default:
			return nil, err
		}
	}
	return shelf, nil
}

// GetBookshelf service retrieves a shelf. Shelves are private to their owner.
func (s *service) GetBookshelf(shelfID int64, userID int64) (*data.Bookshelf, error) {
	shelf, err := s.repo.GetBookshelf(shelfID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if shelf.UserID != userID {
		return nil, ErrNotPermitted
	}
	return shelf, nil
}

// UpdateBookshelf service renames a shelf. The default shelf keeps its name.
func (s *service) UpdateBookshelf(shelfID int64, userID int64, name string) (*data.Bookshelf, error) {
	shelf, err := s.GetBookshelf(shelfID, userID)
	if err != nil {
		return nil, err
	}
	if shelf.IsDefault {
		return nil, ErrNotPermitted
	}
	shelf.Name = name
	v := validator.New()
	if data.ValidateBookshelf(v, shelf); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateBookshelf(shelf)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return shelf, nil
}

// DeleteBookshelf service deletes a shelf. The default shelf cannot be
// deleted.
func (s *service) DeleteBookshelf(shelfID int64, userID int64) error {
	shelf, err := s.GetBookshelf(shelfID, userID)
	if err != nil {
		return err
	}
	if shelf.IsDefault {
		return ErrNotPermitted
	}
	err = s.repo.DeleteBookshelf(shelfID)
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

// ListBookshelves service retrieves a user's shelves, default first.
func (s *service) ListBookshelves(userID int64) ([]*data.Bookshelf, error) {
	return s.repo.GetAllBookshelvesForUser(userID)
}

// AddBookToShelf service puts a book on one of the user's shelves. A book
// appears on a shelf at most once.
func (s *service) AddBookToShelf(shelfID int64, userID int64, bookID int64) error {
	if _, err := s.GetBookshelf(shelfID, userID); err != nil {
		return err
	}
	if _, err := s.repo.GetBook(bookID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	err := s.repo.AddBookToShelf(shelfID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateRecord):
			return ErrDuplicateRecord
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// RemoveBookFromShelf service takes a book off one of the user's shelves.
func (s *service) RemoveBookFromShelf(shelfID int64, userID int64, bookID int64) error {
	if _, err := s.GetBookshelf(shelfID, userID); err != nil {
		return err
	}
	err := s.repo.RemoveBookFromShelf(shelfID, bookID)
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

// ListShelfBooks service retrieves a paginated list of the books on one of
// the user's shelves.
func (s *service) ListShelfBooks(shelfID int64, userID int64, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	if _, err := s.GetBookshelf(shelfID, userID); err != nil {
		return nil, data.Metadata{}, err
	}
	books, metadata, err := s.repo.GetBooksOnShelf(shelfID, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return books, metadata, nil
}
