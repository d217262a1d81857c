package data

import (
	"time"

	"github.com/emzola/bookshelf/internal/validator"
)

// ReadingStatus represents the state of a reading session.
type ReadingStatus string

const (
	StatusNotStarted ReadingStatus = "not_started"
	StatusInProgress ReadingStatus = "in_progress"
	StatusCompleted  ReadingStatus = "completed"
	StatusOnHold     ReadingStatus = "on_hold"
	StatusAbandoned  ReadingStatus = "abandoned"
)

// ReadingStatusSafeList enumerates the accepted reading statuses.
var ReadingStatusSafeList = []string{
	string(StatusNotStarted),
	string(StatusInProgress),
	string(StatusCompleted),
	string(StatusOnHold),
	string(StatusAbandoned),
}

// ReadingProgress tracks a user's reading session for a single book. The
// total page count is denormalized from the book so that completion can be
// derived without a join.
type ReadingProgress struct {
	ID                   int64         `json:"id"`
	UserID               int64         `json:"user_id"`
	BookID               int64         `json:"book_id"`
	BookTitle            string        `json:"book_title,omitempty"`
	Status               ReadingStatus `json:"status"`
	CurrentPage          int32         `json:"current_page"`
	TotalPages           int32         `json:"total_pages"`
	CompletionPercentage float64       `json:"completion_percentage"`
	PagesReadToday       int32         `json:"pages_read_today"`
	StartDate            time.Time     `json:"start_date"`
	FinishDate           *time.Time    `json:"finish_date,omitempty"`
	CompletedDate        *time.Time    `json:"completed_date,omitempty"`
	LastUpdated          time.Time     `json:"last_updated"`
	Version              int32         `json:"-"`
}

// Percentage derives the completion percentage for a page position, bounded
// to the range [0, 100]. A zero total page count yields 0.
func Percentage(currentPage, totalPages int32) float64 {
	if totalPages <= 0 {
		return 0
	}
	pct := float64(currentPage) / float64(totalPages) * 100
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

func ValidateReadingProgress(v *validator.Validator, progress *ReadingProgress) {
	v.Check(progress.CurrentPage >= 0, "current_page", "must not be negative")
	v.Check(progress.PagesReadToday >= 0, "pages_read_today", "must not be negative")
}

// ReadingStats summarises a user's reading activity over a date range.
type ReadingStats struct {
	BooksCompleted     int   `json:"books_completed"`
	BooksStarted       int   `json:"books_started"`
	TotalPagesRead     int64 `json:"total_pages_read"`
	AveragePagesPerDay int64 `json:"average_pages_per_day"`
}
