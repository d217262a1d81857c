package service

import (
	"errors"
	"testing"

	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/data/dto"
	"github.com/emzola/bookshelf/repository"
)

func TestCreateReview(t *testing.T) {
	book := &data.Book{ID: 7, Title: "The Trial"}

	t.Run("creates a review", func(t *testing.T) {
		repo := &testRepo{
			getBook:             func(bookID int64) (*data.Book, error) { return book, nil },
			reviewExistsForUser: func(userID, bookID int64) bool { return false },
			createReview:        func(review *data.Review) error { return nil },
		}
		s, _ := newTestService(t, repo)
		review, err := s.CreateReview(1, 7, 4, "A bleak, brilliant read.")
		if err != nil {
			t.Fatal(err)
		}
		if review.UserID != 1 || review.BookID != 7 || review.Rating != 4 {
			t.Errorf("unexpected review: %+v", review)
		}
	})

	t.Run("a user may only review a book once", func(t *testing.T) {
		repo := &testRepo{
			getBook:             func(bookID int64) (*data.Book, error) { return book, nil },
			reviewExistsForUser: func(userID, bookID int64) bool { return true },
		}
		s, _ := newTestService(t, repo)
		_, err := s.CreateReview(1, 7, 4, "Read it again.")
		if !errors.Is(err, ErrDuplicateRecord) {
			t.Errorf("expected ErrDuplicateRecord; got %v", err)
		}
	})

	t.Run("rating must be between 1 and 5", func(t *testing.T) {
		repo := &testRepo{
			getBook: func(bookID int64) (*data.Book, error) { return book, nil },
		}
		s, _ := newTestService(t, repo)
		for _, rating := range []int8{0, 6, -1} {
			_, err := s.CreateReview(1, 7, rating, "")
			if !errors.Is(err, ErrFailedValidation) {
				t.Errorf("CreateReview rating %d: expected ErrFailedValidation; got %v", rating, err)
			}
		}
	})

	t.Run("unknown book", func(t *testing.T) {
		repo := &testRepo{
			getBook: func(bookID int64) (*data.Book, error) { return nil, repository.ErrRecordNotFound },
		}
		s, _ := newTestService(t, repo)
		_, err := s.CreateReview(1, 404, 4, "")
		if !errors.Is(err, ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound; got %v", err)
		}
	})
}

func TestUpdateReview(t *testing.T) {
	t.Run("only the author may edit", func(t *testing.T) {
		repo := &testRepo{
			getReview: func(reviewID int64) (*data.Review, error) {
				return &data.Review{ID: reviewID, UserID: 99, Rating: 3}, nil
			},
		}
		s, _ := newTestService(t, repo)
		_, err := s.UpdateReview(12, 1, dto.UpdateReviewRequestBody{})
		if !errors.Is(err, ErrNotPermitted) {
			t.Errorf("expected ErrNotPermitted; got %v", err)
		}
	})

	t.Run("applies partial updates", func(t *testing.T) {
		repo := &testRepo{
			getReview: func(reviewID int64) (*data.Review, error) {
				return &data.Review{ID: reviewID, BookID: 7, UserID: 1, Rating: 3, Content: "Fine."}, nil
			},
			updateReview: func(review *data.Review) error { return nil },
		}
		s, _ := newTestService(t, repo)
		rating := int8(5)
		review, err := s.UpdateReview(12, 1, dto.UpdateReviewRequestBody{Rating: &rating})
		if err != nil {
			t.Fatal(err)
		}
		if review.Rating != 5 {
			t.Errorf("Rating = %d; want 5", review.Rating)
		}
		if review.Content != "Fine." {
			t.Errorf("Content = %q; want it untouched", review.Content)
		}
	})

	t.Run("surfaces edit conflicts", func(t *testing.T) {
		repo := &testRepo{
			getReview: func(reviewID int64) (*data.Review, error) {
				return &data.Review{ID: reviewID, UserID: 1, Rating: 3}, nil
			},
			updateReview: func(review *data.Review) error { return repository.ErrEditConflict },
		}
		s, _ := newTestService(t, repo)
		_, err := s.UpdateReview(12, 1, dto.UpdateReviewRequestBody{})
		if !errors.Is(err, ErrEditConflict) {
			t.Errorf("expected ErrEditConflict; got %v", err)
		}
	})
}
