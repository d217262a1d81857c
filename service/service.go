package service

import (
	"sync"

	"github.com/emzola/bookshelf/config"
	"github.com/emzola/bookshelf/internal/jsonlog"
	"github.com/emzola/bookshelf/repository"
)

type Service interface {
	users
	tokens
	books
	reviews
	reading
	clubs
	shelves
	failedValidation(map[string]string) error
}

// service defines the app's service layer.
type service struct {
	config config.Config
	wg     *sync.WaitGroup
	logger *jsonlog.Logger
	repo   repository.Repository
}

// New creates a new instance of Service. The waitgroup is shared with the
// server so that shutdown waits for background tasks to complete.
func New(cfg config.Config, wg *sync.WaitGroup, logger *jsonlog.Logger, repo repository.Repository) *service {
	return &service{
		config: cfg,
		wg:     wg,
		logger: logger,
		repo:   repo,
	}
}
