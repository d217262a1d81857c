package service

import (
	"errors"
	"math"
	"time"

	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/data/dto"
	"github.com/emzola/bookshelf/internal/validator"
	"github.com/emzola/bookshelf/repository"
)

type reading interface {
	StartReading(userID int64, bookID int64) (*data.ReadingProgress, error)
	UpdateReadingProgress(userID int64, bookID int64, currentPage int32, pagesReadToday int32) (*data.ReadingProgress, error)
	FinishReading(userID int64, bookID int64) (*data.ReadingProgress, error)
	SetReadingStatus(userID int64, bookID int64, status data.ReadingStatus) (*data.ReadingProgress, error)
	GetReadingProgress(userID int64, bookID int64) (*data.ReadingProgress, error)
	ListCurrentlyReading(userID int64) ([]*data.ReadingProgress, error)
	ListReadingHistory(userID int64, status data.ReadingStatus) ([]*data.ReadingProgress, error)
	GetReadingStats(userID int64, from time.Time, to time.Time) (data.ReadingStats, error)
	CreateReadingGoal(userID int64, body dto.CreateReadingGoalRequestBody) (*data.ReadingGoal, error)
	GetReadingGoal(goalID int64, userID int64) (*data.ReadingGoal, error)
	UpdateReadingGoal(goalID int64, userID int64, body dto.UpdateReadingGoalRequestBody) (*data.ReadingGoal, error)
	ListReadingGoals(userID int64) ([]*data.ReadingGoal, error)
	IncrementReadingGoal(goalID int64, userID int64, amount int32) (*data.ReadingGoal, error)
	DeleteReadingGoal(goalID int64, userID int64) error
}

// StartReading service starts a reading session for a book. Starting a book
// already in progress is a no-op; starting a completed book begins a fresh
// session; any other state resumes where the reader left off.
func (s *service) StartReading(userID int64, bookID int64) (*data.ReadingProgress, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	now := time.Now()
	progress, err := s.repo.GetReadingProgress(userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			progress = &data.ReadingProgress{
				UserID:      userID,
				BookID:      book.ID,
				BookTitle:   book.Title,
				Status:      data.StatusInProgress,
				TotalPages:  book.PageCount,
				StartDate:   now,
				LastUpdated: now,
			}
			err = s.repo.CreateReadingProgress(progress)
			if err != nil {
				return nil, err
			}
			return progress, nil
		default:
			return nil, err
		}
	}
	switch progress.Status {
	case data.StatusInProgress:
		return progress, nil
	case data.StatusCompleted:
		progress.CurrentPage = 0
		progress.CompletionPercentage = 0
		progress.PagesReadToday = 0
		progress.StartDate = now
		progress.FinishDate = nil
		progress.CompletedDate = nil
	}
	progress.Status = data.StatusInProgress
	progress.LastUpdated = now
	err = s.repo.UpdateReadingProgress(progress)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return progress, nil
}

// UpdateReadingProgress service records a new page position. Today's page
// count accumulates across updates. Reaching the book's last page completes
// the session and stamps the completion date. Active reading goals are
// recomputed afterwards in the background.
func (s *service) UpdateReadingProgress(userID int64, bookID int64, currentPage int32, pagesReadToday int32) (*data.ReadingProgress, error) {
	progress, err := s.repo.GetReadingProgress(userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	progress.CurrentPage = currentPage
	v := validator.New()
	v.Check(pagesReadToday >= 0, "pages_read_today", "must not be negative")
	if data.ValidateReadingProgress(v, progress); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	progress.PagesReadToday += pagesReadToday
	now := time.Now()
	if progress.TotalPages > 0 && currentPage >= progress.TotalPages {
		progress.CurrentPage = progress.TotalPages
		progress.Status = data.StatusCompleted
		progress.CompletionPercentage = 100
		progress.FinishDate = &now
		progress.CompletedDate = &now
	} else {
		progress.Status = data.StatusInProgress
		progress.CompletionPercentage = data.Percentage(progress.CurrentPage, progress.TotalPages)
	}
	progress.LastUpdated = now
	err = s.repo.UpdateReadingProgress(progress)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	s.background(func() {
		s.recomputeGoalsForUser(userID)
	})
	return progress, nil
}

// FinishReading service force-completes a reading session regardless of the
// recorded page position.
func (s *service) FinishReading(userID int64, bookID int64) (*data.ReadingProgress, error) {
	progress, err := s.repo.GetReadingProgress(userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	now := time.Now()
	progress.CurrentPage = progress.TotalPages
	progress.Status = data.StatusCompleted
	progress.CompletionPercentage = 100
	progress.FinishDate = &now
	progress.CompletedDate = &now
	progress.LastUpdated = now
	err = s.repo.UpdateReadingProgress(progress)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	s.background(func() {
		s.recomputeGoalsForUser(userID)
	})
	return progress, nil
}

// SetReadingStatus service moves a session to on hold or abandoned. Other
// transitions go through StartReading, UpdateReadingProgress or FinishReading.
func (s *service) SetReadingStatus(userID int64, bookID int64, status data.ReadingStatus) (*data.ReadingProgress, error) {
	v := validator.New()
	if v.Check(status == data.StatusOnHold || status == data.StatusAbandoned, "status", "must be on_hold or abandoned"); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	progress, err := s.repo.GetReadingProgress(userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	progress.Status = status
	progress.LastUpdated = time.Now()
	err = s.repo.UpdateReadingProgress(progress)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return progress, nil
}

// GetReadingProgress service retrieves the reading session for a book.
func (s *service) GetReadingProgress(userID int64, bookID int64) (*data.ReadingProgress, error) {
	progress, err := s.repo.GetReadingProgress(userID, bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return progress, nil
}

// ListCurrentlyReading service retrieves the user's in-progress sessions.
func (s *service) ListCurrentlyReading(userID int64) ([]*data.ReadingProgress, error) {
	return s.repo.GetAllProgressForUser(userID, data.StatusInProgress)
}

// ListReadingHistory service retrieves the user's reading sessions. An empty
// status retrieves the full history.
func (s *service) ListReadingHistory(userID int64, status data.ReadingStatus) ([]*data.ReadingProgress, error) {
	v := validator.New()
	if status != "" {
		v.Check(validator.In(string(status), data.ReadingStatusSafeList...), "status", "invalid reading status")
	}
	if !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	return s.repo.GetAllProgressForUser(userID, status)
}

// GetReadingStats service summarises the user's reading activity over an
// inclusive date window.
func (s *service) GetReadingStats(userID int64, from time.Time, to time.Time) (data.ReadingStats, error) {
	v := validator.New()
	v.Check(!from.IsZero(), "from", "must be provided")
	v.Check(!to.IsZero(), "to", "must be provided")
	v.Check(to.After(from), "to", "must be after from")
	if !v.Valid() {
		return data.ReadingStats{}, s.failedValidation(v.Errors)
	}
	completed, err := s.repo.CountCompletedInWindow(userID, from, to)
	if err != nil {
		return data.ReadingStats{}, err
	}
	pagesRead, err := s.repo.SumPagesReadInWindow(userID, from, to)
	if err != nil {
		return data.ReadingStats{}, err
	}
	updated, err := s.repo.GetProgressUpdatedInWindow(userID, from, to)
	if err != nil {
		return data.ReadingStats{}, err
	}
	started := 0
	for _, p := range updated {
		if !p.StartDate.Before(from) && !p.StartDate.After(to) {
			started++
		}
	}
	// Partial days count as whole days so a short window is never understated.
	days := int64(math.Ceil(to.Sub(from).Hours() / 24))
	if days < 1 {
		days = 1
	}
	stats := data.ReadingStats{
		BooksCompleted: int(completed),
		BooksStarted:   started,
		TotalPagesRead: int64(pagesRead),
	}
	stats.AveragePagesPerDay = stats.TotalPagesRead / days
	return stats, nil
}

// CreateReadingGoal service creates a reading goal.
func (s *service) CreateReadingGoal(userID int64, body dto.CreateReadingGoalRequestBody) (*data.ReadingGoal, error) {
	goal := &data.ReadingGoal{
		UserID:      userID,
		Name:        body.Name,
		Description: body.Description,
		Type:        body.Type,
		Target:      body.Target,
		Current:     body.Current,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
	}
	// A non-positive target is clamped rather than rejected.
	if goal.Target < 1 {
		goal.Target = 1
	}
	v := validator.New()
	v.Check(goal.Current >= 0, "current", "must not be negative")
	if data.ValidateReadingGoal(v, goal); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	goal.Recalculate()
	err := s.repo.CreateReadingGoal(goal)
	if err != nil {
		return nil, err
	}
	return goal, nil
}

// GetReadingGoal service retrieves a reading goal. Goals are private to the
// user who set them.
func (s *service) GetReadingGoal(goalID int64, userID int64) (*data.ReadingGoal, error) {
	goal, err := s.repo.GetReadingGoal(goalID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if goal.UserID != userID {
		return nil, ErrNotPermitted
	}
	return goal, nil
}

// UpdateReadingGoal service updates a reading goal's details.
func (s *service) UpdateReadingGoal(goalID int64, userID int64, body dto.UpdateReadingGoalRequestBody) (*data.ReadingGoal, error) {
	goal, err := s.repo.GetReadingGoal(goalID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if goal.UserID != userID {
		return nil, ErrNotPermitted
	}
	if body.Name != nil {
		goal.Name = *body.Name
	}
	if body.Description != nil {
		goal.Description = *body.Description
	}
	if body.Target != nil {
		goal.Target = *body.Target
	}
	if body.StartDate != nil {
		goal.StartDate = *body.StartDate
	}
	if body.EndDate != nil {
		goal.EndDate = *body.EndDate
	}
	if goal.Target < 1 {
		goal.Target = 1
	}
	v := validator.New()
	if data.ValidateReadingGoal(v, goal); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	goal.Recalculate()
	err = s.repo.UpdateReadingGoal(goal)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return goal, nil
}

// ListReadingGoals service retrieves all of the user's reading goals.
func (s *service) ListReadingGoals(userID int64) ([]*data.ReadingGoal, error) {
	return s.repo.GetAllGoalsForUser(userID)
}

// IncrementReadingGoal service adds to a goal's progress. The increment is
// additive and serializes in the store, so concurrent increments never lose
// updates.
func (s *service) IncrementReadingGoal(goalID int64, userID int64, amount int32) (*data.ReadingGoal, error) {
	v := validator.New()
	if v.Check(amount > 0, "amount", "must be greater than zero"); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	goal, err := s.repo.GetReadingGoal(goalID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if goal.UserID != userID {
		return nil, ErrNotPermitted
	}
	goal, err = s.repo.IncrementReadingGoal(goalID, amount)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	goal.Recalculate()
	err = s.repo.UpdateReadingGoal(goal)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return goal, nil
}

// DeleteReadingGoal service deletes a reading goal.
func (s *service) DeleteReadingGoal(goalID int64, userID int64) error {
	goal, err := s.repo.GetReadingGoal(goalID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if goal.UserID != userID {
		return ErrNotPermitted
	}
	err = s.repo.DeleteReadingGoal(goalID)
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

// recomputeGoalsForUser rederives the progress of the user's active goals
// from their reading records. Only completed-book and page totals are
// recomputed; calendar quota goals change through explicit increments alone,
// so an increment to them is never clobbered here. The recomputed value wins
// over any concurrent manual increment for the derivable types.
func (s *service) recomputeGoalsForUser(userID int64) {
	now := time.Now()
	goals, err := s.repo.GetActiveGoalsForUser(userID, now)
	if err != nil {
		s.logger.PrintError(err, map[string]string{"operation": "recompute goals"})
		return
	}
	for _, goal := range goals {
		switch goal.Type {
		case data.GoalBooksCompleted:
			completed, err := s.repo.CountCompletedInWindow(userID, goal.StartDate, goal.EndDate)
			if err != nil {
				s.logger.PrintError(err, map[string]string{"operation": "recompute goals"})
				continue
			}
			goal.Current = completed
		case data.GoalPagesRead:
			pages, err := s.repo.SumPagesReadInWindow(userID, goal.StartDate, goal.EndDate)
			if err != nil {
				s.logger.PrintError(err, map[string]string{"operation": "recompute goals"})
				continue
			}
			goal.Current = pages
		default:
			continue
		}
		goal.Recalculate()
		err = s.repo.UpdateReadingGoal(goal)
		if err != nil && !errors.Is(err, repository.ErrEditConflict) {
			s.logger.PrintError(err, map[string]string{"operation": "recompute goals"})
		}
	}
}
