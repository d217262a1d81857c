package service

import (
	"errors"

	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/data/dto"
	"github.com/emzola/bookshelf/internal/validator"
	"github.com/emzola/bookshelf/repository"
)

type reviews interface {
	CreateReview(userID int64, bookID int64, rating int8, content string) (*data.Review, error)
	GetReview(reviewID int64) (*data.Review, error)
	UpdateReview(reviewID int64, userID int64, body dto.UpdateReviewRequestBody) (*data.Review, error)
	DeleteReview(reviewID int64, userID int64) error
	ListBookReviews(bookID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	ListUserReviews(userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error)
	GetBookRating(bookID int64) (data.Rating, error)
}

// CreateReview service creates a review for a book. A user may review a book
// once.
func (s *service) CreateReview(userID int64, bookID int64, rating int8, content string) (*data.Review, error) {
	book, err := s.repo.GetBook(bookID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	review := &data.Review{
		BookID:  book.ID,
		UserID:  userID,
		Rating:  rating,
		Content: content,
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	if s.repo.ReviewExistsForUser(userID, bookID) {
		return nil, ErrDuplicateRecord
	}
	err = s.repo.CreateReview(review)
	if err != nil {
		return nil, err
	}
	return review, nil
}

// GetReview service retrieves a review.
func (s *service) GetReview(reviewID int64) (*data.Review, error) {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return review, nil
}

// UpdateReview service updates a review. Only the review's author may edit it.
func (s *service) UpdateReview(reviewID int64, userID int64, body dto.UpdateReviewRequestBody) (*data.Review, error) {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	if review.UserID != userID {
		return nil, ErrNotPermitted
	}
	if body.Rating != nil {
		review.Rating = *body.Rating
	}
	if body.Content != nil {
		review.Content = *body.Content
	}
	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		return nil, s.failedValidation(v.Errors)
	}
	err = s.repo.UpdateReview(review)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEditConflict):
			return nil, ErrEditConflict
		default:
			return nil, err
		}
	}
	return review, nil
}

// DeleteReview service deletes a review. Only the review's author may delete
// it.
func (s *service) DeleteReview(reviewID int64, userID int64) error {
	review, err := s.repo.GetReview(reviewID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return ErrRecordNotFound
		default:
			return err
		}
	}
	if review.UserID != userID {
		return ErrNotPermitted
	}
	err = s.repo.DeleteReview(reviewID)
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

// ListBookReviews service retrieves a paginated list of a book's reviews.
func (s *service) ListBookReviews(bookID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	if _, err := s.repo.GetBook(bookID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return nil, data.Metadata{}, ErrRecordNotFound
		default:
			return nil, data.Metadata{}, err
		}
	}
	reviews, metadata, err := s.repo.GetAllReviewsForBook(bookID, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return reviews, metadata, nil
}

// ListUserReviews service retrieves a paginated list of a user's reviews.
func (s *service) ListUserReviews(userID int64, filters data.Filters) ([]*data.Review, data.Metadata, error) {
	v := validator.New()
	if data.ValidateFilters(v, filters); !v.Valid() {
		return nil, data.Metadata{}, s.failedValidation(v.Errors)
	}
	reviews, metadata, err := s.repo.GetAllReviewsForUser(userID, filters)
	if err != nil {
		return nil, data.Metadata{}, err
	}
	return reviews, metadata, nil
}

// GetBookRating service retrieves the rating aggregate for a book. A book
// with no reviews reports a zero average and all-zero buckets.
func (s *service) GetBookRating(bookID int64) (data.Rating, error) {
	if _, err := s.repo.GetBook(bookID); err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			return data.Rating{}, ErrRecordNotFound
		default:
			return data.Rating{}, err
		}
	}
	rating, err := s.repo.GetBookRating(bookID)
	if err != nil {
		return data.Rating{}, err
	}
	return rating, nil
}
