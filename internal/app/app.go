// Package app provides application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/ready4uni/advisor-go/internal/agent"
	"github.com/ready4uni/advisor-go/internal/buildinfo"
	"github.com/ready4uni/advisor-go/internal/chat"
	"github.com/ready4uni/advisor-go/internal/config"
	"github.com/ready4uni/advisor-go/internal/dataset"
	"github.com/ready4uni/advisor-go/internal/extract"
	"github.com/ready4uni/advisor-go/internal/llm"
	"github.com/ready4uni/advisor-go/internal/logger"
	"github.com/ready4uni/advisor-go/internal/metrics"
	"github.com/ready4uni/advisor-go/internal/ratelimit"
	"github.com/ready4uni/advisor-go/internal/resources"
	"github.com/ready4uni/advisor-go/internal/router"
	"github.com/ready4uni/advisor-go/internal/sentry"
	"github.com/ready4uni/advisor-go/internal/storage"
	"github.com/ready4uni/advisor-go/internal/tools"
	"github.com/ready4uni/advisor-go/internal/transcript"
)

// sessionRetention is how long inactive sessions are kept before the daily
// prune removes them.
const sessionRetention = 30 * 24 * time.Hour

// sessionPruneInterval is how often the prune job runs.
const sessionPruneInterval = 24 * time.Hour

// Application manages the application lifecycle and dependencies.
type Application struct {
	cfg      *config.Config
	logger   *logger.Logger
	db       *storage.DB
	metrics  *metrics.Metrics
	registry *prometheus.Registry
	llm      *llm.FallbackClient
	chat     *chat.Service
	limiter  *ratelimit.KeyedLimiter
	majors   int
	server   *http.Server
}

// Initialize creates and initializes a new application with all dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})

	log = log.WithField("service", "advisor-go")
	if host, err := os.Hostname(); err == nil && host != "" {
		log = log.WithField("instance_id", host)
	}

	// Set as default logger so context values (session_id, user_id,
	// request_id) flow into package-level slog calls.
	slog.SetDefault(log.Logger)

	log.Info("Initializing application...")
	if cfg.BetterStackToken != "" {
		log.WithField("endpoint", cfg.BetterStackEndpoint).Info("Better Stack logging enabled")
	}

	release := cfg.SentryRelease
	if release == "" {
		release = buildinfo.Version
	}
	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     release,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error tracking enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	// Persistence is best effort: without a database the service still
	// answers, it just cannot replay history across requests.
	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).WithField("path", cfg.SQLitePath()).
			Warn("Session store unavailable, running without persistence")
		db = nil
	} else {
		log.WithField("path", cfg.SQLitePath()).Info("Session store connected")
	}

	client, err := llm.NewFromConfig(ctx, cfg, log, m)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("llm: %w", err)
	}
	log.WithField("provider", client.Provider()).Info("LLM client ready")

	catalog, err := dataset.LoadCatalog(ctx, cfg.Dataset, log)
	if err != nil {
		_ = client.Close()
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("majors catalog: %w", err)
	}
	log.WithField("majors", catalog.Len()).Info("Majors catalog loaded")

	registryTools := tools.NewDefaultRegistry(tools.Deps{
		LLM:       client,
		Catalog:   catalog,
		Engine:    transcript.NewEngine(catalog),
		Resources: resources.NewService(client, log),
		Extractor: extract.NewFileExtractor(cfg.UploadDir),
	}, log, m)

	rt := router.New(client, log, m)
	orch := agent.New(client, rt, registryTools, cfg.Agent, log, m)

	var store chat.Store
	if db != nil {
		store = db
	}
	chatService := chat.New(orch, store, log, m)

	limiter := ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
		Name:       "chat",
		Burst:      cfg.ChatRateBurst,
		RefillRate: cfg.ChatRateRefill,
		Metrics:    m,
	})

	app := &Application{
		cfg:      cfg,
		logger:   log,
		db:       db,
		metrics:  m,
		registry: registry,
		llm:      client,
		chat:     chatService,
		limiter:  limiter,
		majors:   catalog.Len(),
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	engine.Use(securityHeadersMiddleware())
	engine.Use(loggingMiddleware(log))

	engine.GET("/", app.serviceInfo)
	engine.GET("/healthz", app.livenessCheck)
	engine.HEAD("/healthz", app.livenessCheck)
	engine.GET("/ready", app.readinessCheck)
	engine.HEAD("/ready", app.readinessCheck)
	engine.POST("/api/chat", app.rateLimitMiddleware(), app.handleChat)
	engine.POST("/api/upload", app.handleUpload)
	engine.GET("/metrics",
		metricsAuthMiddleware(cfg.MetricsUsername, cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	app.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: config.ServerHTTPRead,
		ReadTimeout:       config.ServerHTTPRead,
		WriteTimeout:      config.ServerHTTPWrite,
		IdleTimeout:       config.ServerHTTPIdle,
	}

	log.Info("Initialization complete")
	return app, nil
}

// Run starts the HTTP server and background jobs, then blocks until a
// shutdown signal arrives and everything has stopped.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		a.sessionPruneLoop(ctx)
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		a.logger.Info("Shutting down...")
		return a.shutdown()
	})

	return g.Wait()
}

// shutdown stops the HTTP server, then closes resources in dependency order.
func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
	}

	if err := a.llm.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "llm").Error("Component close error")
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.WithError(err).WithField("component", "database").Error("Component close error")
		}
	}

	a.limiter.Stop()

	if sentry.IsEnabled() {
		sentry.Flush(2 * time.Second)
	}

	a.logger.Info("Shutdown complete")
	return nil
}

// sessionPruneLoop removes stale sessions once a day. Exits on context
// cancellation.
func (a *Application) sessionPruneLoop(ctx context.Context) {
	if a.db == nil {
		return
	}

	a.pruneSessions(ctx)

	ticker := time.NewTicker(sessionPruneInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.pruneSessions(ctx)
		}
	}
}

func (a *Application) pruneSessions(ctx context.Context) {
	pruneCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-sessionRetention)
	removed, err := a.db.PruneSessions(pruneCtx, cutoff)
	if err != nil {
		a.logger.WithError(err).Warn("Session prune failed")
		return
	}
	if removed > 0 {
		a.logger.WithField("removed", removed).Info("Pruned stale sessions")
	}
}
