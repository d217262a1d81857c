package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/emzola/bookshelf/data"
)

type progress interface {
	CreateReadingProgress(progress *data.ReadingProgress) error
	GetReadingProgress(userID int64, bookID int64) (*data.ReadingProgress, error)
	UpdateReadingProgress(progress *data.ReadingProgress) error
	GetAllProgressForUser(userID int64, status data.ReadingStatus) ([]*data.ReadingProgress, error)
	CountCompletedInWindow(userID int64, from, to time.Time) (int32, error)
	SumPagesReadInWindow(userID int64, from, to time.Time) (int32, error)
	GetProgressUpdatedInWindow(userID int64, from, to time.Time) ([]*data.ReadingProgress, error)
}

// CreateReadingProgress creates a reading progress record.
func (r *repository) CreateReadingProgress(progress *data.ReadingProgress) error {
	query := `
		INSERT INTO reading_progress (user_id, book_id, status, current_page, total_pages,
			completion_percentage, pages_read_today, start_date, finish_date, completed_date, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, version`
	args := []interface{}{
		progress.UserID,
		progress.BookID,
		progress.Status,
		progress.CurrentPage,
		progress.TotalPages,
		progress.CompletionPercentage,
		progress.PagesReadToday,
		progress.StartDate,
		progress.FinishDate,
		progress.CompletedDate,
		progress.LastUpdated,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&progress.ID, &progress.Version)
}

// GetReadingProgress retrieves the reading progress record for a user and book.
func (r *repository) GetReadingProgress(userID int64, bookID int64) (*data.ReadingProgress, error) {
	query := `
		SELECT reading_progress.id, reading_progress.user_id, reading_progress.book_id, books.title,
			reading_progress.status, reading_progress.current_page, reading_progress.total_pages,
			reading_progress.completion_percentage, reading_progress.pages_read_today,
			reading_progress.start_date, reading_progress.finish_date, reading_progress.completed_date,
			reading_progress.last_updated, reading_progress.version
		FROM reading_progress
		INNER JOIN books ON reading_progress.book_id = books.id
		WHERE reading_progress.user_id = $1 AND reading_progress.book_id = $2`
	var p data.ReadingProgress
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, userID, bookID).Scan(
		&p.ID,
		&p.UserID,
		&p.BookID,
		&p.BookTitle,
		&p.Status,
		&p.CurrentPage,
		&p.TotalPages,
		&p.CompletionPercentage,
		&p.PagesReadToday,
		&p.StartDate,
		&p.FinishDate,
		&p.CompletedDate,
		&p.LastUpdated,
		&p.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &p, nil
}

// UpdateReadingProgress updates a reading progress record.
func (r *repository) UpdateReadingProgress(progress *data.ReadingProgress) error {
	query := `
		UPDATE reading_progress
		SET status = $1, current_page = $2, completion_percentage = $3, pages_read_today = $4,
			start_date = $5, finish_date = $6, completed_date = $7, last_updated = $8, version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version`
	args := []interface{}{
		progress.Status,
		progress.CurrentPage,
		progress.CompletionPercentage,
		progress.PagesReadToday,
		progress.StartDate,
		progress.FinishDate,
		progress.CompletedDate,
		progress.LastUpdated,
		progress.ID,
		progress.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&progress.Version)
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

// GetAllProgressForUser retrieves a user's reading progress records. An empty
// status retrieves the full history.
func (r *repository) GetAllProgressForUser(userID int64, status data.ReadingStatus) ([]*data.ReadingProgress, error) {
	query := `
		SELECT reading_progress.id, reading_progress.user_id, reading_progress.book_id, books.title,
			reading_progress.status, reading_progress.current_page, reading_progress.total_pages,
			reading_progress.completion_percentage, reading_progress.pages_read_today,
			reading_progress.start_date, reading_progress.finish_date, reading_progress.completed_date,
			reading_progress.last_updated, reading_progress.version
		FROM reading_progress
		INNER JOIN books ON reading_progress.book_id = books.id
		WHERE reading_progress.user_id = $1 AND ($2 = '' OR reading_progress.status = $2)
		ORDER BY reading_progress.last_updated DESC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, userID, string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProgressRows(rows)
}

// CountCompletedInWindow counts the user's progress records completed within
// the inclusive date window.
func (r *repository) CountCompletedInWindow(userID int64, from, to time.Time) (int32, error) {
	query := `
		SELECT count(*)
		FROM reading_progress
		WHERE user_id = $1 AND status = $2 AND completed_date >= $3 AND completed_date <= $4`
	var count int32
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, userID, data.StatusCompleted, from, to).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SumPagesReadInWindow sums current pages across the user's progress records
// whose last update or completion date falls within the inclusive window.
func (r *repository) SumPagesReadInWindow(userID int64, from, to time.Time) (int32, error) {
	query := `
		SELECT coalesce(sum(current_page), 0)
		FROM reading_progress
		WHERE user_id = $1
			AND ((last_updated >= $2 AND last_updated <= $3)
				OR (completed_date >= $2 AND completed_date <= $3))`
	var sum int32
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, userID, from, to).Scan(&sum)
	if err != nil {
		return 0, err
	}
	return sum, nil
}

// GetProgressUpdatedInWindow retrieves the user's progress records whose last
// update falls within the inclusive window.
func (r *repository) GetProgressUpdatedInWindow(userID int64, from, to time.Time) ([]*data.ReadingProgress, error) {
	query := `
		SELECT reading_progress.id, reading_progress.user_id, reading_progress.book_id, books.title,
			reading_progress.status, reading_progress.current_page, reading_progress.total_pages,
			reading_progress.completion_percentage, reading_progress.pages_read_today,
			reading_progress.start_date, reading_progress.finish_date, reading_progress.completed_date,
			reading_progress.last_updated, reading_progress.version
		FROM reading_progress
		INNER JOIN books ON reading_progress.book_id = books.id
		WHERE reading_progress.user_id = $1 AND reading_progress.last_updated >= $2 AND reading_progress.last_updated <= $3`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProgressRows(rows)
}

func scanProgressRows(rows *sql.Rows) ([]*data.ReadingProgress, error) {
	records := []*data.ReadingProgress{}
	for rows.Next() {
		var p data.ReadingProgress
		err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.BookID,
			&p.BookTitle,
			&p.Status,
			&p.CurrentPage,
			&p.TotalPages,
			&p.CompletionPercentage,
			&p.PagesReadToday,
			&p.StartDate,
			&p.FinishDate,
			&p.CompletedDate,
			&p.LastUpdated,
			&p.Version,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
