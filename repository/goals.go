package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/emzola/bookshelf/data"
)

type goals interface {
	CreateReadingGoal(goal *data.ReadingGoal) error
	GetReadingGoal(goalID int64) (*data.ReadingGoal, error)
	UpdateReadingGoal(goal *data.ReadingGoal) error
	DeleteReadingGoal(goalID int64) error
	GetActiveGoalsForUser(userID int64, now time.Time) ([]*data.ReadingGoal, error)
	GetAllGoalsForUser(userID int64) ([]*data.ReadingGoal, error)
	IncrementReadingGoal(goalID int64, amount int32) (*data.ReadingGoal, error)
}

// CreateReadingGoal creates a reading goal record.
func (r *repository) CreateReadingGoal(goal *data.ReadingGoal) error {
	query := `
		INSERT INTO reading_goals (user_id, name, description, type, target, current,
			progress_percentage, start_date, end_date, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, version`
	args := []interface{}{
		goal.UserID,
		goal.Name,
		goal.Description,
		goal.Type,
		goal.Target,
		goal.Current,
		goal.ProgressPercentage,
		goal.StartDate,
		goal.EndDate,
		goal.IsCompleted,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return r.db.QueryRowContext(ctx, query, args...).Scan(&goal.ID, &goal.CreatedAt, &goal.Version)
}

// GetReadingGoal retrieves a reading goal record.
func (r *repository) GetReadingGoal(goalID int64) (*data.ReadingGoal, error) {
	if goalID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		SELECT id, user_id, name, description, type, target, current, progress_percentage,
			start_date, end_date, is_completed, created_at, version
		FROM reading_goals
		WHERE id = $1`
	var goal data.ReadingGoal
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, goalID).Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.Description,
		&goal.Type,
		&goal.Target,
		&goal.Current,
		&goal.ProgressPercentage,
		&goal.StartDate,
		&goal.EndDate,
		&goal.IsCompleted,
		&goal.CreatedAt,
		&goal.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &goal, nil
}

// UpdateReadingGoal updates a reading goal record.
func (r *repository) UpdateReadingGoal(goal *data.ReadingGoal) error {
	query := `
		UPDATE reading_goals
		SET name = $1, description = $2, target = $3, current = $4, progress_percentage = $5,
			start_date = $6, end_date = $7, is_completed = $8, version = version + 1
		WHERE id = $9 AND version = $10
		RETURNING version`
	args := []interface{}{
		goal.Name,
		goal.Description,
		goal.Target,
		goal.Current,
		goal.ProgressPercentage,
		goal.StartDate,
		goal.EndDate,
		goal.IsCompleted,
		goal.ID,
		goal.Version,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&goal.Version)
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

// DeleteReadingGoal deletes a reading goal record.
func (r *repository) DeleteReadingGoal(goalID int64) error {
	if goalID < 1 {
		return ErrRecordNotFound
	}
	query := `
		DELETE FROM reading_goals
		WHERE id = $1`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	result, err := r.db.ExecContext(ctx, query, goalID)
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

// GetActiveGoalsForUser retrieves the user's goals whose window contains now
// and which have not been completed.
func (r *repository) GetActiveGoalsForUser(userID int64, now time.Time) ([]*data.ReadingGoal, error) {
	query := `
		SELECT id, user_id, name, description, type, target, current, progress_percentage,
			start_date, end_date, is_completed, created_at, version
		FROM reading_goals
		WHERE user_id = $1 AND start_date <= $2 AND end_date >= $2 AND is_completed = false
		ORDER BY created_at ASC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGoalRows(rows)
}

// GetAllGoalsForUser retrieves all goals belonging to a user.
func (r *repository) GetAllGoalsForUser(userID int64) ([]*data.ReadingGoal, error) {
	query := `
		SELECT id, user_id, name, description, type, target, current, progress_percentage,
			start_date, end_date, is_completed, created_at, version
		FROM reading_goals
		WHERE user_id = $1
		ORDER BY created_at ASC`
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGoalRows(rows)
}

// IncrementReadingGoal adds amount to a goal's current progress in a single
// statement so that concurrent increments serialize in the store, and returns
// the updated record.
func (r *repository) IncrementReadingGoal(goalID int64, amount int32) (*data.ReadingGoal, error) {
	if goalID < 1 {
		return nil, ErrRecordNotFound
	}
	query := `
		UPDATE reading_goals
		SET current = current + $1, version = version + 1
		WHERE id = $2
		RETURNING id, user_id, name, description, type, target, current, progress_percentage,
			start_date, end_date, is_completed, created_at, version`
	var goal data.ReadingGoal
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := r.db.QueryRowContext(ctx, query, amount, goalID).Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.Description,
		&goal.Type,
		&goal.Target,
		&goal.Current,
		&goal.ProgressPercentage,
		&goal.StartDate,
		&goal.EndDate,
		&goal.IsCompleted,
		&goal.CreatedAt,
		&goal.Version,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &goal, nil
}

func scanGoalRows(rows *sql.Rows) ([]*data.ReadingGoal, error) {
	goals := []*data.ReadingGoal{}
	for rows.Next() {
		var goal data.ReadingGoal
		err := rows.Scan(
			&goal.ID,
			&goal.UserID,
			&goal.Name,
			&goal.Description,
			&goal.Type,
			&goal.Target,
			&goal.Current,
			&goal.ProgressPercentage,
			&goal.StartDate,
			&goal.EndDate,
			&goal.IsCompleted,
			&goal.CreatedAt,
			&goal.Version,
		)
		if err != nil {
			return nil, err
		}
		goals = append(goals, &goal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return goals, nil
}
