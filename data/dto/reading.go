package dto

import (
	"time"

	"github.com/emzola/bookshelf/data"
)

// UpdateReadingProgressRequestBody defines a request body for UpdateReadingProgress service.
type UpdateReadingProgressRequestBody struct {
	CurrentPage    int32 `json:"current_page"`
	PagesReadToday int32 `json:"pages_read_today"`
}

// UpdateReadingStatusRequestBody defines a request body for SetReadingStatus service.
type UpdateReadingStatusRequestBody struct {
	Status data.ReadingStatus `json:"status"`
}

// CreateReadingGoalRequestBody defines a request body for CreateReadingGoal service.
type CreateReadingGoalRequestBody struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Type        data.GoalType `json:"type"`
	Target      int32         `json:"target"`
	Current     int32         `json:"current"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     time.Time     `json:"end_date"`
}

// UpdateReadingGoalRequestBody defines a request body for UpdateReadingGoal service.
type UpdateReadingGoalRequestBody struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Target      *int32     `json:"target"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

// IncrementReadingGoalRequestBody defines a request body for IncrementReadingGoalProgress service.
type IncrementReadingGoalRequestBody struct {
	Amount int32 `json:"amount"`
}

// QsReadingStats defines the query strings used for reading stats.
type QsReadingStats struct {
	FromDate time.Time
	ToDate   time.Time
}
