// Package app wires configuration, storage, the scraping pipeline, and the
// HTTP read surface into one runnable application.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ecoulson/perdue/internal/buildinfo"
	"github.com/ecoulson/perdue/internal/config"
	"github.com/ecoulson/perdue/internal/ctxutil"
	"github.com/ecoulson/perdue/internal/directory"
	"github.com/ecoulson/perdue/internal/logger"
	"github.com/ecoulson/perdue/internal/metrics"
	"github.com/ecoulson/perdue/internal/pipeline"
	"github.com/ecoulson/perdue/internal/salary"
	"github.com/ecoulson/perdue/internal/scraper"
	"github.com/ecoulson/perdue/internal/scraper/purdue"
	internalsentry "github.com/ecoulson/perdue/internal/sentry"
	"github.com/ecoulson/perdue/internal/snapshot"
	"github.com/ecoulson/perdue/internal/storage"
)

// Application holds every long-lived component.
type Application struct {
	cfg          *config.Config
	log          *logger.Logger
	metrics      *metrics.Metrics
	db           *storage.DB
	orchestrator *pipeline.Orchestrator
	uploader     *snapshot.Uploader
	server       *http.Server
	pipelineDone chan struct{}
}

// Initialize builds the application from configuration.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stderr, logger.Options{
		BetterStackToken:    betterStackToken(cfg),
		BetterStackEndpoint: cfg.BetterStackEndpoint,
		Version:             buildinfo.Version,
	})
	logger.SetDefault(log)

	if cfg.IsSentryEnabled() {
		if err := internalsentry.Initialize(internalsentry.Config{
			DSN:         cfg.SentryDSN,
			Environment: cfg.Environment,
			Release:     buildinfo.Version,
			SampleRate:  cfg.SentrySampleRate,
		}); err != nil {
			return nil, fmt.Errorf("initialize sentry: %w", err)
		}
	}

	m := metrics.New()

	db, err := storage.New(ctx, cfg.DatabasePath(), cfg.DatabaseMaxConns)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMetrics(m)

	client := scraper.NewClient(cfg.ScraperTimeout, cfg.ScraperMaxRetries)
	sites := purdue.Sites(client)

	if err := db.SeedColleges(ctx, purdue.Colleges(sites)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("seed colleges: %w", err)
	}

	salaries := salary.NewProcessor(db, cfg.SalariesPath, log, m)
	orchestrator := pipeline.NewOrchestrator(sites, db, salaries, log, m)

	var uploader *snapshot.Uploader
	if cfg.IsR2Enabled() {
		uploader, err = snapshot.New(ctx, snapshot.Config{
			Endpoint:    cfg.R2Endpoint,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			SnapshotKey: cfg.R2SnapshotKey,
		}, log)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configure snapshot uploader: %w", err)
		}
	}

	app := &Application{
		cfg:          cfg,
		log:          log,
		metrics:      m,
		db:           db,
		orchestrator: orchestrator,
		uploader:     uploader,
		pipelineDone: make(chan struct{}),
	}
	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.buildRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return app, nil
}

func betterStackToken(cfg *config.Config) string {
	if !cfg.IsBetterStackEnabled() {
		return ""
	}
	return cfg.BetterStackToken
}

func (a *Application) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Sentry middleware must be first to capture panics before gin.Recovery()
	if internalsentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{
			Repanic: true,
		}))
	}
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggingMiddleware(a.log))

	router.GET("/livez", a.livenessCheck)
	router.GET("/readyz", a.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.metrics.Registry(), promhttp.HandlerOpts{})))

	api := router.Group("/api")
	directory.NewHandler(a.db, a.log).Register(api)

	return router
}

func (a *Application) livenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (a *Application) readinessCheck(c *gin.Context) {
	if err := a.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}

	count, err := a.db.CountStudents(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "students": count})
}

// Run starts the pipeline in the background, serves HTTP, and blocks until
// a shutdown signal arrives.
func (a *Application) Run() error {
	rootCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.runPipeline(rootCtx)

	serverErr := make(chan error, 1)
	go func() {
		a.log.Info("HTTP server listening", "addr", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		a.log.Info("Shutting down", "signal", sig.String())
	}

	cancel()
	return a.shutdown()
}

// runPipeline executes one full pipeline run and, when configured, uploads a
// database snapshot afterwards.
func (a *Application) runPipeline(ctx context.Context) {
	defer close(a.pipelineDone)

	ctx = ctxutil.WithRunID(ctx, uuid.NewString())

	if err := a.orchestrator.Run(ctx); err != nil {
		a.log.WithError(err).ErrorContext(ctx, "Pipeline run failed")
		return
	}

	if a.uploader != nil {
		if err := a.uploader.Upload(ctx, a.db, a.cfg.DataDir); err != nil {
			a.log.WithError(err).ErrorContext(ctx, "Snapshot upload failed")
		}
	}
}

func (a *Application) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.server.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown http server: %w", err))
	}

	// Let an in-flight pipeline run wind down before closing the database.
	select {
	case <-a.pipelineDone:
	case <-ctx.Done():
	}

	if err := a.db.Close(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
