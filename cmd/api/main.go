// @title AdBoard API
// @version 1.0
// @description Outdoor advertising listings: public catalogue, map and search, and the admin back office.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"adboard/internal/config"
	"adboard/internal/db"
	"adboard/internal/db/migrations"
	"adboard/internal/interfaces"
	"adboard/internal/logger"
	"adboard/internal/monitor"
	"adboard/internal/repository"
	"adboard/internal/routes"
	"adboard/internal/scheduler"
	"adboard/internal/search"
	"adboard/internal/services"
	"adboard/internal/snapshot"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "adboard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Environment == "development",
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	created, err := db.CreateDatabaseIfNotExists(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("ensure database exists: %w", err)
	}
	if created {
		log.Info("database created")
	}

	database, err := db.New(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	applied, err := migrations.RunMigrations(database.DB)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	for _, name := range applied {
		log.Info("migration applied", logger.String("name", name))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mon := monitor.New(log, reg)

	ctx := context.Background()

	var cache snapshot.Cache
	if cfg.Redis.Addr != "" {
		client, err := snapshot.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		cache = snapshot.NewRedisCache(client, cfg.Redis.SnapshotTTL)
		log.Info("snapshot cache enabled", logger.String("addr", cfg.Redis.Addr))
	}
	snapshots := snapshot.NewStore(
		repository.NewAdRepository(database.DB),
		repository.NewCategoryRepository(database.DB),
		repository.NewDistrictRepository(database.DB),
		cache,
		mon,
		log,
	)

	var index interfaces.SearchIndex
	if cfg.Meilisearch.Host != "" {
		client := search.NewClient(cfg.Meilisearch.Host, cfg.Meilisearch.APIKey, cfg.Meilisearch.Index)
		if err := client.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("prepare search index: %w", err)
		}
		index = client
		log.Info("search index enabled", logger.String("host", cfg.Meilisearch.Host))
	}

	s3Config, err := config.NewS3Config(ctx, cfg.S3)
	if err != nil {
		return fmt.Errorf("configure s3: %w", err)
	}
	store := services.NewS3ObjectStore(s3Config)

	bootstrapped, err := services.EnsureAdmin(ctx, repository.NewUserRepository(database.DB), cfg.Admin)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if bootstrapped {
		log.Info("admin account created", logger.String("email", cfg.Admin.Email))
	}

	if cfg.Scheduler.Enabled {
		jobs := scheduler.New(cfg.Scheduler.ReindexCron, snapshots, index, log)
		if err := jobs.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer jobs.Stop()
	}

	router := routes.SetupRoutes(routes.Deps{
		DB:        database.DB,
		Config:    cfg,
		Log:       log,
		Monitor:   mon,
		Gatherer:  reg,
		Snapshots: snapshots,
		Index:     index,
		Store:     store,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server starting", logger.String("port", cfg.Port), logger.String("environment", cfg.Environment))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return fmt.Errorf("serve: %w", err)
	case sig := <-quit:
		log.Info("shutting down server", logger.String("signal", sig.String()))
	}

	// give in-flight requests 5 seconds to finish
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}
