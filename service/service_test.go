package service

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/emzola/bookshelf/config"
	"github.com/emzola/bookshelf/data"
	"github.com/emzola/bookshelf/internal/jsonlog"
	"github.com/emzola/bookshelf/repository"
)

// testRepo stubs out the repository layer. Tests assign only the methods the
// code under test touches; calling anything else panics through the embedded
// nil interface, which surfaces unexpected repository access immediately.
type testRepo struct {
	repository.Repository
	getBook                    func(bookID int64) (*data.Book, error)
	getReadingProgress         func(userID, bookID int64) (*data.ReadingProgress, error)
	createReadingProgress      func(progress *data.ReadingProgress) error
	updateReadingProgress      func(progress *data.ReadingProgress) error
	getActiveGoalsForUser      func(userID int64, now time.Time) ([]*data.ReadingGoal, error)
	reviewExistsForUser        func(userID, bookID int64) bool
	createReview               func(review *data.Review) error
	getReview                  func(reviewID int64) (*data.Review, error)
	updateReview               func(review *data.Review) error
	getBookClub                func(clubID int64) (*data.BookClub, error)
	addBookClubMember          func(membership *data.BookClubMembership) error
	getBookClubMembership      func(clubID, userID int64) (*data.BookClubMembership, error)
	removeBookClubMember       func(clubID, userID int64) error
	getReadingGoal             func(goalID int64) (*data.ReadingGoal, error)
	createReadingGoal          func(goal *data.ReadingGoal) error
	incrementReadingGoal       func(goalID int64, amount int32) (*data.ReadingGoal, error)
	updateReadingGoal          func(goal *data.ReadingGoal) error
	countCompletedInWindow     func(userID int64, from, to time.Time) (int32, error)
	sumPagesReadInWindow       func(userID int64, from, to time.Time) (int32, error)
	getProgressUpdatedInWindow func(userID int64, from, to time.Time) ([]*data.ReadingProgress, error)
}

func (r *testRepo) GetBook(bookID int64) (*data.Book, error) {
	return r.getBook(bookID)
}

func (r *testRepo) GetReadingProgress(userID, bookID int64) (*data.ReadingProgress, error) {
	return r.getReadingProgress(userID, bookID)
}

func (r *testRepo) CreateReadingProgress(progress *data.ReadingProgress) error {
	return r.createReadingProgress(progress)
}

func (r *testRepo) UpdateReadingProgress(progress *data.ReadingProgress) error {
	return r.updateReadingProgress(progress)
}

func (r *testRepo) GetActiveGoalsForUser(userID int64, now time.Time) ([]*data.ReadingGoal, error) {
	if r.getActiveGoalsForUser != nil {
		return r.getActiveGoalsForUser(userID, now)
	}
	return nil, nil
}

func (r *testRepo) ReviewExistsForUser(userID, bookID int64) bool {
	return r.reviewExistsForUser(userID, bookID)
}

func (r *testRepo) CreateReview(review *data.Review) error {
	return r.createReview(review)
}

func (r *testRepo) GetReview(reviewID int64) (*data.Review, error) {
	return r.getReview(reviewID)
}

func (r *testRepo) UpdateReview(review *data.Review) error {
	return r.updateReview(review)
}

func (r *testRepo) GetBookClub(clubID int64) (*data.BookClub, error) {
	return r.getBookClub(clubID)
}

func (r *testRepo) AddBookClubMember(membership *data.BookClubMembership) error {
	return r.addBookClubMember(membership)
}

func (r *testRepo) GetBookClubMembership(clubID, userID int64) (*data.BookClubMembership, error) {
	return r.getBookClubMembership(clubID, userID)
}

func (r *testRepo) RemoveBookClubMember(clubID, userID int64) error {
	return r.removeBookClubMember(clubID, userID)
}

func (r *testRepo) GetReadingGoal(goalID int64) (*data.ReadingGoal, error) {
	return r.getReadingGoal(goalID)
}

func (r *testRepo) CreateReadingGoal(goal *data.ReadingGoal) error {
	return r.createReadingGoal(goal)
}

func (r *testRepo) CountCompletedInWindow(userID int64, from, to time.Time) (int32, error) {
	return r.countCompletedInWindow(userID, from, to)
}

func (r *testRepo) SumPagesReadInWindow(userID int64, from, to time.Time) (int32, error) {
	return r.sumPagesReadInWindow(userID, from, to)
}

func (r *testRepo) GetProgressUpdatedInWindow(userID int64, from, to time.Time) ([]*data.ReadingProgress, error) {
	return r.getProgressUpdatedInWindow(userID, from, to)
}

func (r *testRepo) IncrementReadingGoal(goalID int64, amount int32) (*data.ReadingGoal, error) {
	return r.incrementReadingGoal(goalID, amount)
}

func (r *testRepo) UpdateReadingGoal(goal *data.ReadingGoal) error {
	return r.updateReadingGoal(goal)
}

func newTestService(t *testing.T, repo repository.Repository) (*service, *sync.WaitGroup) {
	t.Helper()
	var wg sync.WaitGroup
	logger := jsonlog.New(io.Discard, jsonlog.LevelOff)
	return New(config.Config{}, &wg, logger, repo), &wg
}
