package main

import (
	"flag"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/emzola/bookshelf/config"
	"github.com/emzola/bookshelf/handler"
	"github.com/emzola/bookshelf/internal/jsonlog"
	"github.com/emzola/bookshelf/repository"
	"github.com/emzola/bookshelf/repository/postgres"
	"github.com/emzola/bookshelf/service"
	"github.com/jellydator/ttlcache/v3"
)

// app defines the application's layers and shared resources.
type app struct {
	config  config.Config
	repo    repository.Repository
	service service.Service
	handler *handler.Handler
}

func main() {
	logger := jsonlog.New(os.Stdout, jsonlog.LevelInfo)

	// Load configuration from an optional YAML file and the environment, then
	// let command line flags override individual values.
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "API server port")
	env := flag.String("env", "", "Environment(development|staging|production)")
	dsn := flag.String("db-dsn", "", "PostgreSQL DSN")
	corsTrustedOrigins := flag.String("cors-trusted-origins", "", "Trusted CORS origins (space separated)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *env != "" {
		cfg.Server.Env = *env
	}
	if *dsn != "" {
		cfg.Database.DSN = *dsn
	}
	if *corsTrustedOrigins != "" {
		cfg.Cors.TrustedOrigins = strings.Fields(*corsTrustedOrigins)
	}

	// Initialize database connection
	db, err := postgres.OpenDBConn(cfg)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
	defer db.Close()
	logger.PrintInfo("database connection pool established", nil)

	// Other shared resources: waitgroup and in-memory cache
	var wg sync.WaitGroup
	cache := ttlcache.New(ttlcache.WithTTL[string, int64](30 * time.Minute))
	go cache.Start()

	// Application layers
	repo := repository.New(db)
	service := service.New(cfg, &wg, logger, repo)
	handler := handler.New(cfg, logger, cache, service)

	// Instantiate application
	app := &app{
		config:  cfg,
		repo:    repo,
		service: service,
		handler: handler,
	}

	// Start HTTP server
	err = app.serve(&wg, logger)
	if err != nil {
		logger.PrintFatal(err, nil)
	}
}
