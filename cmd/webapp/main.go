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
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-api/internal/app"
	"github.com/noah-isme/tutor-api/internal/middleware"
	"github.com/noah-isme/tutor-api/internal/repository"
	"github.com/noah-isme/tutor-api/internal/service"
	"github.com/noah-isme/tutor-api/internal/web"
	"github.com/noah-isme/tutor-api/pkg/config"
	"github.com/noah-isme/tutor-api/pkg/database"
	"github.com/noah-isme/tutor-api/pkg/logger"
	reqidmiddleware "github.com/noah-isme/tutor-api/pkg/middleware/requestid"
)

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

	tmpl, err := web.LoadTemplates(cfg.Web.TemplatesDir)
	if err != nil {
		logr.Fatal("failed to parse templates", zap.String("dir", cfg.Web.TemplatesDir), zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	state := app.NewState(cfg.Server.HealthMessage, db)
	teacherSvc := service.NewTeacherService(repository.NewTeacherRepository(state.DB), nil, nil, nil, logr)
	courseSvc := service.NewCourseService(repository.NewCourseRepository(state.DB), nil, nil, nil, logr)
	exportSvc := service.NewExportService(teacherSvc, courseSvc, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	web.NewPages(tmpl, teacherSvc, courseSvc, exportSvc, state).RegisterRoutes(r)

	srv := &http.Server{
		Addr:              cfg.HostPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("webapp listening", zap.String("addr", cfg.HostPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("webapp failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
