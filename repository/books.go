package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/emzola/bookshelf/data"
)

type books interface {
	CreateBook(book *data.Book) error
	GetBook(bookID int64) (*data.Book, error)
	UpdateBook(book *data.Book) error
	DeleteBook(bookID int64) error
	GetAllBooks(search string, filters data.Filters) ([]*data.Book, data.Metadata, error)
	GetRecommendedBooks(userID int64, limit int) ([]*data.Book, error)
}

// CreateBook creates a book record.
func (r *repository) CreateBook(book *data.Book) error {
	query := `
		INSERT INTO books (title, author, isbn, description, page_count, published_date, cover_image_url, publisher)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, version`
	args := []interface{}{book.Title, book.Author, book.ISBN, book.Description, book.PageCount, book.PublishedDate, book.CoverImageURL, book.Publisher}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&book.ID, &book.CreatedAt, &book.Version)
}

// GetBook retrieves a book record.
func (r *repository) GetBook(bookID int64) (*data.Book, error) {
	if bookID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, created_at, title, author, isbn, description, page_count, published_date, cover_image_url, publisher, version
		FROM books
		WHERE id = $1`
	var book data.Book
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, bookID).Scan(
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
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &book, nil
}

// UpdateBook updates a book record.
func (r *repository) UpdateBook(book *data.Book) error {
	query := `
		UPDATE books
		SET title = $1, author = $2, isbn = $3, description = $4, page_count = $5,
			published_date = $6, cover_image_url = $7, publisher = $8, version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version`
	args := []interface{}{
		book.Title,
		book.Author,
		book.ISBN,
		book.Description,
		book.PageCount,
		book.PublishedDate,
		book.CoverImageURL,
		book.Publisher,
		book.ID,
		book.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&book.Version)
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

// DeleteBook deletes a book record. The schema cascades the delete to the
// book's reviews and reading progress rows.
func (r *repository) DeleteBook(bookID int64) error {
	if bookID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM books
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, bookID)
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

// GetAllBooks retrieves a paginated list of book records. A non-empty search
// term matches against title, author and ISBN.
func (r *repository) GetAllBooks(search string, filters data.Filters) ([]*data.Book, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), id, created_at, title, author, isbn, description, page_count, published_date, cover_image_url, publisher, version
		FROM books
		WHERE ($1 = '' OR title ILIKE '%%' || $1 || '%%' OR author ILIKE '%%' || $1 || '%%' OR isbn = $1)
		ORDER BY %s %s, id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection())
	args := []interface{}{search, filters.Limit(), filters.Offset()}
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

// GetRecommendedBooks retrieves books rated 4 or higher by other users which
// are not already on any of the user's shelves, ordered by mean rating.
func (r *repository) GetRecommendedBooks(userID int64, limit int) ([]*data.Book, error) {
	query := `
		SELECT books.id, books.created_at, books.title, books.author, books.isbn, books.description,
			books.page_count, books.published_date, books.cover_image_url, books.publisher, books.version
		FROM books
		INNER JOIN (
			SELECT book_id, avg(rating) AS avg_rating
			FROM reviews
			WHERE rating >= 4
			GROUP BY book_id
		) rated ON rated.book_id = books.id
		WHERE books.id NOT IN (
			SELECT bookshelf_books.book_id
			FROM bookshelf_books
			INNER JOIN bookshelves ON bookshelves.id = bookshelf_books.bookshelf_id
			WHERE bookshelves.user_id = $1
		)
		ORDER BY rated.avg_rating DESC, books.id ASC
		LIMIT $2`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	books := []*data.Book{}
	for rows.Next() {
		var book data.Book
		err := rows.Scan(
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
			return nil, err
		}
		books = append(books, &book)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}
