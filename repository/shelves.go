package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/bookshelf/data"
	"github.com/lib/pq"
)

type shelves interface {
	CreateBookshelf(shelf *data.Bookshelf) error
	GetBookshelf(shelfID int64) (*data.Bookshelf, error)
	UpdateBookshelf(shelf *data.Bookshelf) error
	DeleteBookshelf(shelfID int64) error
	GetAllBookshelvesForUser(userID int64) ([]*data.Bookshelf, error)
	AddBookToShelf(shelfID int64, bookID int64) error
	RemoveBookFromShelf(shelfID int64, bookID int64) error
	GetBooksOnShelf(shelfID int64, filters data.Filters) ([]*data.Book, data.Metadata, error)
	BookOnAnyShelf(userID int64, bookID int64) (bool, error)
}

const shelfSelectColumns = `bookshelves.id, bookshelves.user_id, bookshelves.name, bookshelves.is_default,
	(SELECT count(*) FROM bookshelf_books WHERE bookshelf_books.bookshelf_id = bookshelves.id),
	bookshelves.created_at, bookshelves.version`

// CreateBookshelf creates a bookshelf record.
func (r *repository) CreateBookshelf(shelf *data.Bookshelf) error {
	query := `
		INSERT INTO bookshelves (user_id, name, is_default)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version`
	args := []interface{}{shelf.UserID, shelf.Name, shelf.IsDefault}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&shelf.ID, &shelf.CreatedAt, &shelf.Version)
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

// GetBookshelf retrieves a bookshelf record along with its book count.
func (r *repository) GetBookshelf(shelfID int64) (*data.Bookshelf, error) {
	if shelfID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT ` + shelfSelectColumns + `
		FROM bookshelves
		WHERE bookshelves.id = $1`
	var shelf data.Bookshelf
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, shelfID).Scan(
		&shelf.ID,
		&shelf.UserID,
		&shelf.Name,
		&shelf.IsDefault,
		&shelf.BookCount,
		&shelf.CreatedAt,
		&shelf.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &shelf, nil
}

// UpdateBookshelf updates a bookshelf record.
func (r *repository) UpdateBookshelf(shelf *data.Bookshelf) error {
	query := `
		UPDATE bookshelves
		SET name = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version`
	args := []interface{}{shelf.Name, shelf.ID, shelf.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&shelf.Version)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrEditConflict
		default:
			return err
		}
	}
	return nil
}

// DeleteBookshelf deletes a bookshelf record. The schema cascades the delete
// to the shelf's book links.
func (r *repository) DeleteBookshelf(shelfID int64) error {
	if shelfID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM bookshelves
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, shelfID)
	if err != nil {
		return err
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

// GetAllBookshelvesForUser retrieves all of a user's shelves, default first.
func (r *repository) GetAllBookshelvesForUser(userID int64) ([]*data.Bookshelf, error) {
	query := `
		SELECT ` + shelfSelectColumns + `
		FROM bookshelves
		WHERE bookshelves.user_id = $1
		ORDER BY bookshelves.is_default DESC, bookshelves.created_at ASC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shelves := []*data.Bookshelf{}
	for rows.Next() {
		var shelf data.Bookshelf
		err := rows.Scan(
			&shelf.ID,
			&shelf.UserID,
			&shelf.Name,
			&shelf.IsDefault,
			&shelf.BookCount,
			&shelf.CreatedAt,
			&shelf.Version,
		)
		if err != nil {
			return nil, err
		}
		shelves = append(shelves, &shelf)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return shelves, nil
}

// AddBookToShelf links a book to a shelf. A unique constraint on the
// (shelf, book) pair rejects duplicates.
func (r *repository) AddBookToShelf(shelfID int64, bookID int64) error {
	query := `
		INSERT INTO bookshelf_books (bookshelf_id, book_id)
		VALUES ($1, $2)`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := r.db.ExecContext(ctx, query, shelfID, bookID)
	if err != nil {
		var pqErr *pq.Error
		switch {
		case errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation":
			return ErrDuplicateRecord
		case errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation":
			return ErrRecordNotFound
		default:
			return err
		}
	}
	return nil
}

// RemoveBookFromShelf unlinks a book from a shelf.
func (r *repository) RemoveBookFromShelf(shelfID int64, bookID int64) error {
	query := `
		DELETE FROM bookshelf_books
		WHERE bookshelf_id = $1 AND book_id = $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, shelfID, bookID)
	if err != nil {
		return err
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

// GetBooksOnShelf retrieves a paginated list of the books on a shelf.
func (r *repository) GetBooksOnShelf(shelfID int64, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), books.id, books.created_at, books.title, books.author, books.isbn,
			books.description, books.page_count, books.published_date, books.cover_image_url, books.publisher, books.version
		FROM books
		INNER JOIN bookshelf_books ON bookshelf_books.book_id = books.id
		WHERE bookshelf_books.bookshelf_id = $1
		ORDER BY %s %s, books.id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection())
	args := []interface{}{shelfID, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	books := []*data.Book{}
	for rows.Next() {
		var book data.Book
		err := rows.Scan(
			&totalRecords,
			&book.ID,
			&book.CreatedAt,
			&book.Title,
			&book.Author,
			&book.ISBN,
			&book.Description,
			&book.PageCount,
			&book.PublishedDate,
			&book.CoverImageURL,
			&book.Publisher,
			&book.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return books, metadata, nil
}

// BookOnAnyShelf reports whether the book sits on any of the user's shelves.
func (r *repository) BookOnAnyShelf(userID int64, bookID int64) (bool, error) {
	query := `
		SELECT exists (
			SELECT 1
			FROM bookshelf_books
			INNER JOIN bookshelves ON bookshelves.id = bookshelf_books.bookshelf_id
			WHERE bookshelves.user_id = $1 AND bookshelf_books.book_id = $2
		)`
	var onShelf bool
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, userID, bookID).Scan(&onShelf)
	if err != nil {
		return false, err
	}
	return onShelf, nil
}
