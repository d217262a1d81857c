package data

import (
	"time"

	"github.com/emzola/bookshelf/internal/validator"
)

// GoalType identifies what a reading goal counts.
type GoalType string

const (
	GoalPagesPerDay    GoalType = "pages_per_day"
	GoalBooksPerMonth  GoalType = "books_per_month"
	GoalBooksPerYear   GoalType = "books_per_year"
	GoalBooksCompleted GoalType = "books_completed"
	GoalPagesRead      GoalType = "pages_read"
)

// GoalTypeSafeList enumerates the accepted goal types.
var GoalTypeSafeList = []string{
	string(GoalPagesPerDay),
	string(GoalBooksPerMonth),
	string(GoalBooksPerYear),
	string(GoalBooksCompleted),
	string(GoalPagesRead),
}

// ReadingGoal defines a user's reading goal over a date window. Current and
// ProgressPercentage are derived values; they change only through recompute
// or an explicit increment.
type ReadingGoal struct {
	ID                 int64     `json:"id"`
	UserID             int64     `json:"user_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description,omitempty"`
	Type               GoalType  `json:"type"`
	Target             int32     `json:"target"`
	Current            int32     `json:"current"`
	ProgressPercentage int32     `json:"progress_percentage"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	IsCompleted        bool      `json:"is_completed"`
	CreatedAt          time.Time `json:"created_at"`
	Version            int32     `json:"-"`
}

// Recalculate derives the progress percentage and completion flag from the
// goal's current and target values. A completed goal always reports 100%.
func (g *ReadingGoal) Recalculate() {
	if g.Target > 0 {
		pct := int32(float64(g.Current) / float64(g.Target) * 100)
		if pct > 100 {
			pct = 100
		}
		g.ProgressPercentage = pct
	} else {
		g.ProgressPercentage = 0
	}
	if g.Current >= g.Target && g.Target > 0 {
		g.IsCompleted = true
		g.ProgressPercentage = 100
	}
}

// ActiveAt reports whether the goal window contains t and the goal has not
// been completed yet.
func (g *ReadingGoal) ActiveAt(t time.Time) bool {
	return !g.IsCompleted && !t.Before(g.StartDate) && !t.After(g.EndDate)
}

func ValidateReadingGoal(v *validator.Validator, goal *ReadingGoal) {
	v.Check(goal.Name != "", "name", "must be provided")
	v.Check(len(goal.Name) <= 200, "name", "must not be more than 200 bytes long")
	v.Check(validator.In(string(goal.Type), GoalTypeSafeList...), "type", "invalid goal type")
	v.Check(!goal.StartDate.IsZero(), "start_date", "must be provided")
	v.Check(!goal.EndDate.IsZero(), "end_date", "must be provided")
	v.Check(goal.EndDate.After(goal.StartDate), "end_date", "must be after start date")
}
