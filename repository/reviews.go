package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/emzola/bookshelf/data"
)

type reviews interface {
	CreateReview(review *data.Review) error
	GetReview(reviewID int64) (*data.Review, error)
	UpdateReview(review *data.Review) error
	DeleteReview(reviewID int64) error
	ReviewExistsForUser(userID int64, bookID int64) bool
	GetBookRating(bookID int64) (data.Rating, error)
	GetAllReviewsForBook(bookID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	GetAllReviewsForUser(userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	GetTopRatedBooks(limit int) ([]*data.Book, error)
}

// CreateReview creates a review record for a book.
func (r *repository) CreateReview(review *data.Review) error {
	query := `
		INSERT INTO reviews (book_id, user_id, rating, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version`
	args := []interface{}{review.BookID, review.UserID, review.Rating, review.Content}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&review.ID, &review.CreatedAt, &review.Version)
}

// ReviewExistsForUser checks whether a user has already reviewed a book.
func (r *repository) ReviewExistsForUser(userID int64, bookID int64) bool {
	query := `
		SELECT id
		FROM reviews
		WHERE user_id = $1 AND book_id = $2`
	var id int64
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, userID, bookID).Scan(&id)
	return !errors.Is(err, sql.ErrNoRows)
}

// GetReview retrieves a review record along with the reviewer's username and
// the book title.
func (r *repository) GetReview(reviewID int64) (*data.Review, error) {
	if reviewID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT reviews.id, reviews.book_id, reviews.user_id, users.username, books.title,
			reviews.rating, reviews.content, reviews.created_at, reviews.updated_at, reviews.version
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		INNER JOIN books ON reviews.book_id = books.id
		WHERE reviews.id = $1`
	var review data.Review
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, reviewID).Scan(
		&review.ID,
		&review.BookID,
		&review.UserID,
		&review.Username,
		&review.BookTitle,
		&review.Rating,
		&review.Content,
		&review.CreatedAt,
		&review.UpdatedAt,
		&review.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &review, nil
}

// UpdateReview updates a review record and stamps updated_at.
func (r *repository) UpdateReview(review *data.Review) error {
	query := `
		UPDATE reviews
		SET rating = $1, content = $2, updated_at = now(), version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING updated_at, version`
	args := []interface{}{review.Rating, review.Content, review.ID, review.Version}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&review.UpdatedAt, &review.Version)
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

// DeleteReview deletes a review record.
func (r *repository) DeleteReview(reviewID int64) error {
	if reviewID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM reviews
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, reviewID)
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

// GetBookRating retrieves the rating aggregate for a book: per-star bucket
// counts, the arithmetic mean and the review total. All buckets are present
// even when zero, and a book with no reviews reports a zero average.
func (r *repository) GetBookRating(bookID int64) (data.Rating, error) {
	query := `
		SELECT rating
		FROM reviews
		WHERE book_id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return data.Rating{}, err
	}
	defer rows.Close()
	rating := data.Rating{}
	sumRatings := int64(0)
	for rows.Next() {
		var value int8
		if err := rows.Scan(&value); err != nil {
			return data.Rating{}, err
		}
		rating.Add(value)
		sumRatings += int64(value)
	}
	if err = rows.Err(); err != nil {
		return data.Rating{}, err
	}
	if rating.Total > 0 {
		avg := float64(sumRatings) / float64(rating.Total)
		// Round to one decimal place for presentation, guarding against NaN
		// so that JSON encoding never fails.
		avg = math.Round(avg*10) / 10
		if !math.IsNaN(avg) {
			rating.Average = avg
		}
	}
	return rating, nil
}

// GetAllReviewsForBook retrieves a paginated list of reviews for a book.
func (r *repository) GetAllReviewsForBook(bookID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), reviews.id, reviews.book_id, reviews.user_id, users.username, books.title,
			reviews.rating, reviews.content, reviews.created_at, reviews.updated_at, reviews.version
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		INNER JOIN books ON reviews.book_id = books.id
		WHERE reviews.book_id = $1
		ORDER BY %s %s, reviews.id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection())
	return r.getAllReviews(query, bookID, filters)
}

// GetAllReviewsForUser retrieves a paginated list of a user's reviews.
func (r *repository) GetAllReviewsForUser(userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	query := fmt.Sprintf(`
		SELECT count(*) OVER(), reviews.id, reviews.book_id, reviews.user_id, users.username, books.title,
			reviews.rating, reviews.content, reviews.created_at, reviews.updated_at, reviews.version
		FROM reviews
		INNER JOIN users ON reviews.user_id = users.id
		INNER JOIN books ON reviews.book_id = books.id
		WHERE reviews.user_id = $1
		ORDER BY %s %s, reviews.id ASC
		LIMIT $2 OFFSET $3`,
		filters.SortColumn(), filters.SortDirection())
	return r.getAllReviews(query, userID, filters)
}

func (r *repository) getAllReviews(query string, id int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	args := []interface{}{id, filters.Limit(), filters.Offset()}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	defer rows.Close()
	totalRecords := 0
	reviews := []*data.Review{}
	for rows.Next() {
		var review data.Review
		err := rows.Scan(
			&totalRecords,
			&review.ID,
			&review.BookID,
			&review.UserID,
			&review.Username,
			&review.BookTitle,
			&review.Rating,
			&review.Content,
			&review.CreatedAt,
			&review.UpdatedAt,
			&review.Version,
		)
		if err != nil {
			return nil, data.Metadata{}, err
		}
		reviews = append(reviews, &review)
	}
	if err = rows.Err(); err != nil {
		return nil, data.Metadata{}, err
	}
	metadata := data.CalculateMetadata(totalRecords, filters.Page, filters.PageSize)
	return reviews, metadata, nil
}

// GetTopRatedBooks retrieves the books with the highest mean review rating.
// Ties on the mean are broken by review count, descending. Ratings are
// deliberately unweighted: a single 5-star review outranks a long history of
// 4.9 averages.
func (r *repository) GetTopRatedBooks(limit int) ([]*data.Book, error) {
	query := `
		SELECT books.id, books.created_at, books.title, books.author, books.isbn, books.description,
			books.page_count, books.published_date, books.cover_image_url, books.publisher, books.version
		FROM books
		INNER JOIN (
			SELECT book_id, avg(rating) AS avg_rating, count(*) AS review_count
			FROM reviews
			GROUP BY book_id
		) rated ON rated.book_id = books.id
		ORDER BY rated.avg_rating DESC, rated.review_count DESC, books.id ASC
		LIMIT $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, limit)
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
