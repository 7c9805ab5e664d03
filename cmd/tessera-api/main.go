package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/tessera-api/internal/handler"
	"github.com/noah-isme/tessera-api/internal/repository"
	"github.com/noah-isme/tessera-api/internal/server"
	"github.com/noah-isme/tessera-api/internal/service"
	"github.com/noah-isme/tessera-api/pkg/cache"
	"github.com/noah-isme/tessera-api/pkg/config"
	"github.com/noah-isme/tessera-api/pkg/database"
	"github.com/noah-isme/tessera-api/pkg/logger"
)

// @title Tessera API
// @version 1.0.0
// @description Course catalog and weekly schedule generation
// @BasePath /api/v1
// @schemes http

const cacheKeyPrefix = "tessera:"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, schedule cache disabled", zap.Error(err))
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, cacheKeyPrefix, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Scheduler.CacheTTL, logr, cfg.Scheduler.CacheEnabled && redisClient != nil)

	courseRepo := repository.NewCourseRepository(db)
	sectionRepo := repository.NewSectionRepository(db)

	engine, err := service.NewEngine(cfg.Scheduler)
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}
	schedules := service.NewScheduleService(sectionRepo, engine, cacheSvc, metrics, validate, logr, service.ScheduleConfig{
		Timeout:            cfg.Scheduler.Timeout,
		MaxSelectedCourses: cfg.Scheduler.MaxSelectedCourses,
		CacheTTL:           cfg.Scheduler.CacheTTL,
	})
	exports := service.NewExportService(schedules, service.ExportConfig{
		Enabled:  cfg.Exports.Enabled,
		PDFTitle: cfg.Exports.PDFTitle,
	}, logr, nil, nil)
	catalog := service.NewCatalogService(courseRepo, sectionRepo, cacheSvc, validate, logr)

	router := server.NewRouter(server.Deps{
		Config:   cfg,
		Logger:   logr,
		Metrics:  metrics,
		Schedule: handler.NewScheduleHandler(schedules, exports),
		Courses:  handler.NewCourseHandler(catalog),
		Sections: handler.NewSectionHandler(catalog),
		DB:       db,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
