package service

import (
	"errors"
	"testing"
	"time"

	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/data/dto"
	"github.com/emzola/bookshelf/repository"
)

func TestStartReading(t *testing.T) {
	book := &data.Book{ID: 7, Title: "The Trial", PageCount: 304}

	t.Run("creates a fresh session for an unread book", func(t *testing.T) {
		var created *data.ReadingProgress
		repo := &testRepo{
			getBook: func(bookID int64) (*data.Book, error) { return book, nil },
			getReadingProgress: func(userID, bookID int64) (*data.ReadingProgress, error) {
				return nil, repository.ErrRecordNotFound
			},
			createReadingProgress: func(progress *data.ReadingProgress) error {
				created = progress
				return nil
			},
		}
		s, _ := newTestService(t, repo)
		progress, err := s.StartReading(1, 7)
		if err != nil {
			t.Fatal(err)
		}
		if created == nil {
			t.Fatal("expected a session to be created")
		}
		if progress.Status != data.StatusInProgress {
			t.Errorf("Status = %q; want %q", progress.Status, data.StatusInProgress)
		}
		if progress.TotalPages != book.PageCount {
			t.Errorf("TotalPages = %d; want %d", progress.TotalPages, book.PageCount)
		}
	})

	t.Run("starting a book already in progress is a no-op", func(t *testing.T) {
		existing := &data.ReadingProgress{Status: data.StatusInProgress, CurrentPage: 120}
		repo := &testRepo{
			getBook: func(bookID int64) (*data.Book, error) { return book, nil },
			getReadingProgress: func(userID, bookID int64) (*data.ReadingProgress, error) {
				return existing, nil
			},
			updateReadingProgress: func(progress *data.ReadingProgress) error {
				t.Error("did not expect the session to be written")
				return nil
			},
		}
		s, _ := newTestService(t, repo)
		progress, err := s.StartReading(1, 7)
		if err != nil {
			t.Fatal(err)
		}
		if progress.CurrentPage != 120 {
			t.Errorf("CurrentPage = %d; want 120", progress.CurrentPage)
		}
	})

	t.Run("restarting a completed book begins a fresh session", func(t *testing.T) {
		finished := time.Now().Add(-24 * time.Hour)
		existing := &data.ReadingProgress{
			Status:               data.StatusCompleted,
			CurrentPage:          304,
			TotalPages:           304,
			CompletionPercentage: 100,
			FinishDate:           &finished,
			CompletedDate:        &finished,
		}
		repo := &testRepo{
			getBook: func(bookID int64) (*data.Book, error) { return book, nil },
			getReadingProgress: func(userID, bookID int64) (*data.ReadingProgress, error) {
				return existing, nil
			},
			updateReadingProgress: func(progress *data.ReadingProgress) error { return nil },
		}
		s, _ := newTestService(t, repo)
		progress, err := s.StartReading(1, 7)
		if err != nil {
			t.Fatal(err)
		}
		if progress.Status != data.StatusInProgress {
			t.Errorf("Status = %q; want %q", progress.Status, data.StatusInProgress)
		}
		if progress.CurrentPage != 0 || progress.CompletionPercentage != 0 {
			t.Errorf("expected a reset session; got page %d at %.0f%%", progress.CurrentPage, progress.CompletionPercentage)
		}
		if progress.FinishDate != nil || progress.CompletedDate != nil {
			t.Error("expected finish and completion dates to be cleared")
		}
	})

	t.Run("resuming an on-hold book keeps the page position", func(t *testing.T) {
		existing := &data.ReadingProgress{Status: data.StatusOnHold, CurrentPage: 88, TotalPages: 304}
		repo := &testRepo{
			getBook: func(bookID int64) (*data.Book, error) { return book, nil },
			getReadingProgress: func(userID, bookID int64) (*data.ReadingProgress, error) {
				return existing, nil
			},
			updateReadingProgress: func(progress *data.ReadingProgress) error { return nil },
		}
		s, _ := newTestService(t, repo)
		progress, err := s.StartReading(1, 7)
		if err != nil {
			t.Fatal(err)
		}
		if progress.Status != data.StatusInProgress {
			t.Errorf("Status = %q; want %q", progress.Status, data.StatusInProgress)
		}
		if progress.CurrentPage != 88 {
			t.Errorf("CurrentPage = %d; want 88", progress.CurrentPage)
		}
	})
}

func TestUpdateReadingProgress(t *testing.T) {
	t.Run("reaching the last page completes the session", func(t *testing.T) {
		existing := &data.ReadingProgress{Status: data.StatusInProgress, CurrentPage: 250, TotalPages: 300}
		repo := &testRepo{
			getReadingProgress: func(userID, bookID int64) (*data.ReadingProgress, error) {
				return existing, nil
			},
			updateReadingProgress: func(progress *data.ReadingProgress) error { return nil },
		}
		s, wg := newTestService(t, repo)
		progress, err := s.UpdateReadingProgress(1, 7, 310, 60)
		if err != nil {
			t.Fatal(err)
		}
		wg.Wait()
		if progress.Status != data.StatusCompleted {
			t.Errorf("Status = %q; want %q", progress.Status, data.StatusCompleted)
		}
		if progress.CurrentPage != 300 {
			t.Errorf("CurrentPage = %d; want the page position clamped to 300", progress.CurrentPage)
		}
		if progress.CompletionPercentage != 100 {
			t.Errorf("CompletionPercentage = %v; want 100", progress.CompletionPercentage)
		}
		if progress.FinishDate == nil || progress.CompletedDate == nil {
			t.Error("expected finish and completion dates to be stamped")
		}
	})

	t.Run("mid-book update stays in progress", func(t *testing.T) {
		existing := &data.ReadingProgress{Status: data.StatusOnHold, CurrentPage: 10, TotalPages: 300}
		repo := &testRepo{
			getReadingProgress: func(userID, bookID int64) (*data.ReadingProgress, error) {
				return existing, nil
			},
			updateReadingProgress: func(progress *data.ReadingProgress) error { return nil },
		}
		s, wg := newTestService(t, repo)
		progress, err := s.UpdateReadingProgress(1, 7, 150, 30)
		if err != nil {
			t.Fatal(err)
		}
		wg.Wait()
		if progress.Status != data.StatusInProgress {
			t.Errorf("Status = %q; want %q", progress.Status, data.StatusInProgress)
		}
		if progress.CompletionPercentage != 50 {
			t.Errorf("CompletionPercentage = %v; want 50", progress.CompletionPercentage)
		}
	})

	t.Run("today's pages accumulate across updates", func(t *testing.T) {
		existing := &data.ReadingProgress{Status: data.StatusInProgress, CurrentPage: 100, TotalPages: 300, PagesReadToday: 40}
		repo := &testRepo{
			getReadingProgress: func(userID, bookID int64) (*data.ReadingProgress, error) {
				return existing, nil
			},
			updateReadingProgress: func(progress *data.ReadingProgress) error { return nil },
		}
		s, wg := newTestService(t, repo)
		progress, err := s.UpdateReadingProgress(1, 7, 110, 10)
		if err != nil {
			t.Fatal(err)
		}
		wg.Wait()
		if progress.PagesReadToday != 50 {
			t.Errorf("PagesReadToday = %d; want 50 (40 accumulated + 10)", progress.PagesReadToday)
		}
	})

	t.Run("negative daily pages fail validation", func(t *testing.T) {
		existing := &data.ReadingProgress{Status: data.StatusInProgress, CurrentPage: 100, TotalPages: 300, PagesReadToday: 40}
		repo := &testRepo{
			getReadingProgress: func(userID, bookID int64) (*data.ReadingProgress, error) {
				return existing, nil
			},
		}
		s, _ := newTestService(t, repo)
		_, err := s.UpdateReadingProgress(1, 7, 110, -10)
		if !errors.Is(err, ErrFailedValidation) {
			t.Errorf("expected ErrFailedValidation; got %v", err)
		}
	})

	t.Run("negative page fails validation", func(t *testing.T) {
		existing := &data.ReadingProgress{Status: data.StatusInProgress, TotalPages: 300}
		repo := &testRepo{
			getReadingProgress: func(userID, bookID int64) (*data.ReadingProgress, error) {
				return existing, nil
			},
		}
		s, _ := newTestService(t, repo)
		_, err := s.UpdateReadingProgress(1, 7, -1, 0)
		if !errors.Is(err, ErrFailedValidation) {
			t.Errorf("expected ErrFailedValidation; got %v", err)
		}
	})
}

func TestSetReadingStatus(t *testing.T) {
	t.Run("rejects statuses other than on_hold and abandoned", func(t *testing.T) {
		s, _ := newTestService(t, &testRepo{})
		for _, status := range []data.ReadingStatus{data.StatusInProgress, data.StatusCompleted, data.StatusNotStarted, "bogus"} {
			_, err := s.SetReadingStatus(1, 7, status)
			if !errors.Is(err, ErrFailedValidation) {
				t.Errorf("SetReadingStatus(%q): expected ErrFailedValidation; got %v", status, err)
			}
		}
	})

	t.Run("puts a session on hold", func(t *testing.T) {
		existing := &data.ReadingProgress{Status: data.StatusInProgress, CurrentPage: 42, TotalPages: 300}
		repo := &testRepo{
			getReadingProgress: func(userID, bookID int64) (*data.ReadingProgress, error) {
				return existing, nil
			},
			updateReadingProgress: func(progress *data.ReadingProgress) error { return nil },
		}
		s, _ := newTestService(t, repo)
		progress, err := s.SetReadingStatus(1, 7, data.StatusOnHold)
		if err != nil {
			t.Fatal(err)
		}
		if progress.Status != data.StatusOnHold {
			t.Errorf("Status = %q; want %q", progress.Status, data.StatusOnHold)
		}
	})
}

func TestCreateReadingGoal(t *testing.T) {
	window := func() (time.Time, time.Time) {
		start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0)
	}

	t.Run("a non-positive target is clamped to one", func(t *testing.T) {
		repo := &testRepo{
			createReadingGoal: func(goal *data.ReadingGoal) error { return nil },
		}
		s, _ := newTestService(t, repo)
		start, end := window()
		for _, target := range []int32{0, -5} {
			goal, err := s.CreateReadingGoal(1, dto.CreateReadingGoalRequestBody{
				Name:      "Yearly books",
				Type:      data.GoalBooksCompleted,
				Target:    target,
				StartDate: start,
				EndDate:   end,
			})
			if err != nil {
				t.Fatal(err)
			}
			if goal.Target != 1 {
				t.Errorf("CreateReadingGoal target %d: Target = %d; want 1", target, goal.Target)
			}
		}
	})

	t.Run("clamps the target on update too", func(t *testing.T) {
		start, end := window()
		repo := &testRepo{
			getReadingGoal: func(goalID int64) (*data.ReadingGoal, error) {
				return &data.ReadingGoal{ID: goalID, UserID: 1, Name: "Yearly books", Type: data.GoalBooksCompleted, Target: 12, StartDate: start, EndDate: end}, nil
			},
			updateReadingGoal: func(goal *data.ReadingGoal) error { return nil },
		}
		s, _ := newTestService(t, repo)
		target := int32(-3)
		goal, err := s.UpdateReadingGoal(3, 1, dto.UpdateReadingGoalRequestBody{Target: &target})
		if err != nil {
			t.Fatal(err)
		}
		if goal.Target != 1 {
			t.Errorf("Target = %d; want 1", goal.Target)
		}
	})
}

func TestIncrementReadingGoal(t *testing.T) {
	t.Run("rejects a non-positive amount", func(t *testing.T) {
		s, _ := newTestService(t, &testRepo{})
		_, err := s.IncrementReadingGoal(3, 1, 0)
		if !errors.Is(err, ErrFailedValidation) {
			t.Errorf("expected ErrFailedValidation; got %v", err)
		}
	})

	t.Run("rejects another user's goal", func(t *testing.T) {
		repo := &testRepo{
			getReadingGoal: func(goalID int64) (*data.ReadingGoal, error) {
				return &data.ReadingGoal{ID: goalID, UserID: 99}, nil
			},
		}
		s, _ := newTestService(t, repo)
		_, err := s.IncrementReadingGoal(3, 1, 5)
		if !errors.Is(err, ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted; got %v", err)
		}
	})

	t.Run("recalculates progress after the increment", func(t *testing.T) {
		goal := &data.ReadingGoal{ID: 3, UserID: 1, Type: data.GoalPagesRead, Target: 100, Current: 90}
		repo := &testRepo{
			getReadingGoal: func(goalID int64) (*data.ReadingGoal, error) { return goal, nil },
			incrementReadingGoal: func(goalID int64, amount int32) (*data.ReadingGoal, error) {
				incremented := *goal
				incremented.Current += amount
				return &incremented, nil
			},
			updateReadingGoal: func(g *data.ReadingGoal) error { return nil },
		}
		s, _ := newTestService(t, repo)
		got, err := s.IncrementReadingGoal(3, 1, 15)
		if err != nil {
			t.Fatal(err)
		}
		if got.Current != 105 {
			t.Errorf("Current = %d; want 105", got.Current)
		}
		if !got.IsCompleted || got.ProgressPercentage != 100 {
			t.Errorf("expected a completed goal at 100%%; got %+v", got)
		}
	})
}

func TestGetReadingStats(t *testing.T) {
	t.Run("rejects an inverted window", func(t *testing.T) {
		s, _ := newTestService(t, &testRepo{})
		from := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
		_, err := s.GetReadingStats(1, from, from.AddDate(0, -1, 0))
		if !errors.Is(err, ErrFailedValidation) {
			t.Errorf("expected ErrFailedValidation; got %v", err)
		}
	})

	t.Run("a partial day counts as a whole day", func(t *testing.T) {
		repo := &testRepo{
			countCompletedInWindow: func(userID int64, from, to time.Time) (int32, error) { return 1, nil },
			sumPagesReadInWindow:   func(userID int64, from, to time.Time) (int32, error) { return 72, nil },
			getProgressUpdatedInWindow: func(userID int64, from, to time.Time) ([]*data.ReadingProgress, error) {
				return nil, nil
			},
		}
		s, _ := newTestService(t, repo)
		from := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
		stats, err := s.GetReadingStats(1, from, from.Add(36*time.Hour))
		if err != nil {
			t.Fatal(err)
		}
		if stats.AveragePagesPerDay != 36 {
			t.Errorf("AveragePagesPerDay = %d; want 36 (72 pages over a 36 hour window spanning 2 days)", stats.AveragePagesPerDay)
		}
	})
}

func TestRecomputeGoals(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(1, 0, 0)

	t.Run("rederives book and page totals only", func(t *testing.T) {
		goals := []*data.ReadingGoal{
			{ID: 1, UserID: 1, Type: data.GoalBooksCompleted, Target: 12, Current: 1, StartDate: start, EndDate: end},
			{ID: 2, UserID: 1, Type: data.GoalPagesRead, Target: 5000, Current: 100, StartDate: start, EndDate: end},
			{ID: 3, UserID: 1, Type: data.GoalBooksPerMonth, Target: 4, Current: 2, StartDate: start, EndDate: end},
		}
		updated := map[int64]*data.ReadingGoal{}
		repo := &testRepo{
			getActiveGoalsForUser: func(userID int64, now time.Time) ([]*data.ReadingGoal, error) {
				return goals, nil
			},
			countCompletedInWindow: func(userID int64, from, to time.Time) (int32, error) { return 3, nil },
			sumPagesReadInWindow:   func(userID int64, from, to time.Time) (int32, error) { return 640, nil },
			updateReadingGoal: func(goal *data.ReadingGoal) error {
				updated[goal.ID] = goal
				return nil
			},
		}
		s, _ := newTestService(t, repo)
		s.recomputeGoalsForUser(1)
		if got := updated[1]; got == nil || got.Current != 3 {
			t.Errorf("books completed goal: got %+v; want Current 3", got)
		}
		if got := updated[2]; got == nil || got.Current != 640 {
			t.Errorf("pages read goal: got %+v; want Current 640", got)
		}
		if _, ok := updated[3]; ok {
			t.Error("books per month goal must only change through explicit increments")
		}
		if goals[2].Current != 2 {
			t.Errorf("books per month Current = %d; want the incremented value 2 left intact", goals[2].Current)
		}
	})
}
