package data

import (
	"testing"
	"time"
)

func TestReadingGoalRecalculate(t *testing.T) {
	tests := []struct {
		name          string
		current       int32
		target        int32
		wantPct       int32
		wantCompleted bool
	}{
		{"no progress", 0, 12, 0, false},
		{"partial progress", 3, 12, 25, false},
		{"rounds down", 5, 12, 41, false},
		{"exactly met", 12, 12, 100, true},
		{"overshot clamps to 100", 20, 12, 100, true},
		{"zero target", 5, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			goal := &ReadingGoal{Current: tt.current, Target: tt.target}
			goal.Recalculate()
			if goal.ProgressPercentage != tt.wantPct {
				t.Errorf("ProgressPercentage = %d; want %d", goal.ProgressPercentage, tt.wantPct)
			}
			if goal.IsCompleted != tt.wantCompleted {
				t.Errorf("IsCompleted = %v; want %v", goal.IsCompleted, tt.wantCompleted)
			}
		})
	}
}

func TestReadingGoalActiveAt(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)
	goal := &ReadingGoal{StartDate: start, EndDate: end}

	t.Run("inside window", func(t *testing.T) {
		if !goal.ActiveAt(time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)) {
			t.Error("expected goal to be active inside its window")
		}
	})

	t.Run("window boundaries are inclusive", func(t *testing.T) {
		if !goal.ActiveAt(start) {
			t.Error("expected goal to be active on its start date")
		}
		if !goal.ActiveAt(end) {
			t.Error("expected goal to be active on its end date")
		}
	})

	t.Run("outside window", func(t *testing.T) {
		if goal.ActiveAt(start.AddDate(0, 0, -1)) {
			t.Error("did not expect goal to be active before its window")
		}
		if goal.ActiveAt(end.AddDate(0, 0, 1)) {
			t.Error("did not expect goal to be active after its window")
		}
	})

	t.Run("completed goal is never active", func(t *testing.T) {
		completed := &ReadingGoal{StartDate: start, EndDate: end, IsCompleted: true}
		if completed.ActiveAt(start.AddDate(0, 6, 0)) {
			t.Error("did not expect a completed goal to be active")
		}
	})
}
