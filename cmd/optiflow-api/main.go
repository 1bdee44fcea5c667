package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/optiflow/optiflow/internal/api"
	"github.com/optiflow/optiflow/internal/archive"
	s3store "github.com/optiflow/optiflow/internal/archive/s3"
	"github.com/optiflow/optiflow/internal/assist"
	"github.com/optiflow/optiflow/internal/auth"
	"github.com/optiflow/optiflow/internal/config"
	"github.com/optiflow/optiflow/internal/dashboard"
	"github.com/optiflow/optiflow/internal/nl2sql"
	"github.com/optiflow/optiflow/internal/observability"
	"github.com/optiflow/optiflow/internal/query/sqldb"
	"github.com/optiflow/optiflow/internal/store/postgres"
	"github.com/optiflow/optiflow/internal/store/sqlite"
)

func main() {
	cfg, err := config.LoadFromEnv("optiflow-api")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg, os.Stdout)
	ctx := context.Background()

	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open hr database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	engine, err := sqldb.NewEngine(db, cfg.Database.Driver)
	if err != nil {
		logger.Error("failed to initialize query engine", slog.Any("error", err))
		os.Exit(1)
	}

	generator, err := nl2sql.NewOpenAIGenerator(nl2sql.OpenAIConfig{
		BaseURL:     cfg.AI.BaseURL,
		APIKey:      cfg.AI.APIKey,
		Model:       cfg.AI.Model,
		Temperature: cfg.AI.Temperature,
		Timeout:     cfg.AI.Timeout,
	})
	if err != nil {
		logger.Error("failed to initialize sql generator", slog.Any("error", err))
		os.Exit(1)
	}

	var recorder *archive.Recorder
	if cfg.Archive.Enabled {
		objectStore, err := s3store.New(ctx, s3store.Config{
			Endpoint:         cfg.Archive.Endpoint,
			Region:           cfg.Archive.Region,
			Bucket:           cfg.Archive.Bucket,
			AccessKeyID:      cfg.Archive.AccessKeyID,
			SecretAccessKey:  cfg.Archive.SecretAccessKey,
			UseSSL:           cfg.Archive.UseSSL,
			Prefix:           cfg.Archive.Prefix,
			AutoCreateBucket: cfg.Archive.AutoCreateBucket,
		})
		if err != nil {
			logger.Error("failed to initialize run archive", slog.Any("error", err))
			os.Exit(1)
		}
		recorder = archive.NewRecorder(objectStore, time.Now)
	}

	pipeline := &dashboard.Service{
		Synthesizer: nl2sql.NewSynthesizer(generator, time.Now),
		Engine:      engine,
		Generator:   generator,
		Recorder:    recorder,
		Logger:      logger,
	}

	deps := api.Dependencies{
		Logger:            logger,
		Readiness:         func(ctx context.Context) error { return db.PingContext(ctx) },
		DependencyTimeout: time.Second,
		Dashboard:         pipeline,
		Assist:            &assist.Service{Pipeline: pipeline, Generator: generator},
		Engine:            engine,
	}
	if cfg.Auth.Required {
		validator, err := auth.NewStaticAPIKeyValidator(cfg.Auth.StaticKeys)
		if err != nil {
			logger.Error("failed to parse static auth keys", slog.Any("error", err))
			os.Exit(1)
		}
		deps.AuthMiddleware = auth.Middleware(logger, validator)
	}

	handler := api.NewHandler(cfg, deps)
	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("starting api server", slog.String("addr", cfg.HTTP.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-runCtx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down api server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("error", err))
		_ = server.Close()
		os.Exit(1)
	}
}

func openDatabase(ctx context.Context, cfg config.Config, logger *slog.Logger) (*sql.DB, error) {
	switch cfg.Database.Driver {
	case sqldb.DriverPostgres:
		return postgres.Open(ctx, postgres.DBConfig{
			DSN:             cfg.Database.DSN,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
	default:
		db, err := sqlite.Open(ctx, cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		if cfg.Database.Bootstrap {
			ready, err := sqlite.Bootstrapped(ctx, db)
			if err != nil {
				_ = db.Close()
				return nil, err
			}
			if !ready {
				logger.Info("bootstrapping hr database", slog.String("path", cfg.Database.Path))
				if err := sqlite.Bootstrap(ctx, db); err != nil {
					_ = db.Close()
					return nil, err
				}
				if cfg.Database.Seed {
					if err := sqlite.Seed(ctx, db, time.Now); err != nil {
						_ = db.Close()
						return nil, err
					}
				}
			}
		}
		return db, nil
	}
}
