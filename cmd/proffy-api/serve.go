package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/proffy-io/proffy-api/internal/handler"
	"github.com/proffy-io/proffy-api/internal/repository"
	"github.com/proffy-io/proffy-api/internal/service"
	"github.com/proffy-io/proffy-api/pkg/cache"
	"github.com/proffy-io/proffy-api/pkg/config"
)

const shutdownTimeout = 10 * time.Second

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := a.cfg
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := a.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		m, err := a.migrator(db)
		if err != nil {
			return err
		}
		if err := m.Quiet().Up(ctx); err != nil {
			return err
		}
		a.logger.Info("schema migrated")
	}

	var metricsSvc *service.MetricsService
	if cfg.Metrics.Enabled {
		metricsSvc = service.NewMetricsService()
	}

	redisClient := a.connectRedis()
	var cacheSvc *service.CacheService
	if redisClient != nil {
		defer redisClient.Close()
		cacheSvc = service.NewCacheService(repository.NewCacheRepository(redisClient), metricsSvc, cfg.Search.CacheTTL, a.logger, true)
	}

	validate := validator.New()
	tutors := repository.NewTutorRepository(db)
	classSvc := service.NewClassService(
		repository.NewClassRepository(db),
		repository.NewClassScheduleRepository(db),
		repository.NewSQLTxManager(db),
		cacheSvc,
		metricsSvc,
		validate,
		a.logger,
		service.ClassServiceConfig{CacheTTL: cfg.Search.CacheTTL},
	)
	connectionSvc := service.NewConnectionService(repository.NewConnectionRepository(db), tutors, metricsSvc, validate, a.logger)

	router := handler.Router{
		Classes:     handler.NewClassHandler(classSvc),
		Connections: handler.NewConnectionHandler(connectionSvc),
		Metrics:     handler.NewMetricsHandler(metricsSvc, db),
	}
	engine := router.Engine(handler.RouterOptions{
		APIPrefix:      cfg.APIPrefix,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		EnableMetrics:  cfg.Metrics.Enabled,
		EnableDocs:     cfg.Env != config.EnvProduction,
	}, a.logger, metricsSvc)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.Env),
			zap.String("db_driver", cfg.Database.Driver),
			zap.Bool("search_cache", cacheSvc.Enabled()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// connectRedis returns nil when the search cache is disabled or Redis is
// unreachable; searches then always hit the database.
func (a *app) connectRedis() *redis.Client {
	if !a.cfg.Search.CacheEnabled {
		return nil
	}
	client, err := cache.NewRedis(a.cfg.Redis)
	if err != nil {
		a.logger.Warn("search cache disabled", zap.Error(err))
		return nil
	}
	return client
}
