package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/tutor-api/api/swagger"
	"github.com/noah-isme/tutor-api/internal/app"
	"github.com/noah-isme/tutor-api/internal/handler"
	"github.com/noah-isme/tutor-api/internal/middleware"
	"github.com/noah-isme/tutor-api/internal/repository"
	"github.com/noah-isme/tutor-api/internal/service"
	"github.com/noah-isme/tutor-api/pkg/cache"
	"github.com/noah-isme/tutor-api/pkg/config"
	"github.com/noah-isme/tutor-api/pkg/database"
	"github.com/noah-isme/tutor-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/tutor-api/pkg/middleware/cors"
	"github.com/noah-isme/tutor-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/noah-isme/tutor-api/pkg/middleware/requestid"
)

// @title Tutor API
// @version 1.0.0
// @description Teachers and their courses.
// @BasePath /
// @schemes http

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	state := app.NewState(cfg.Server.HealthMessage, db)
	metrics := service.NewMetricsService()

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Cache)
		if err != nil {
			logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		} else {
			defer client.Close()
			cacheRepo = repository.NewCacheRepository(client)
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cacheRepo != nil)

	validate := service.NewValidator()
	teacherSvc := service.NewTeacherService(repository.NewTeacherRepository(state.DB), cacheSvc, metrics, validate, logr)
	courseSvc := service.NewCourseService(repository.NewCourseRepository(state.DB), cacheSvc, metrics, validate, logr)
	exportSvc := service.NewExportService(teacherSvc, courseSvc, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Recovery())
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))
	if cfg.RateLimit.RPS > 0 {
		r.Use(ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Handler())
	}

	handler.RegisterRoutes(r, handler.Handlers{
		Health:   handler.NewHealthHandler(state),
		Teachers: handler.NewTeacherHandler(teacherSvc),
		Courses:  handler.NewCourseHandler(courseSvc, exportSvc),
		Metrics:  handler.NewMetricsHandler(metrics),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	serve(ctx, logr, cfg, r)
}

func serve(ctx context.Context, logr *zap.Logger, cfg *config.Config, h http.Handler) {
	srv := &http.Server{
		Addr:              cfg.HostPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", cfg.HostPort), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logr.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
	}

	logr.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
