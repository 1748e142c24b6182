package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appidentity "github.com/easm/dashboard/internal/application/identity"
	appinventory "github.com/easm/dashboard/internal/application/inventory"
	"github.com/easm/dashboard/internal/domain/identity"
	"github.com/easm/dashboard/internal/domain/inventory"
	"github.com/easm/dashboard/internal/infrastructure/apiclient"
	"github.com/easm/dashboard/internal/infrastructure/cache"
	"github.com/easm/dashboard/internal/infrastructure/config"
	"github.com/easm/dashboard/internal/infrastructure/flight"
	"github.com/easm/dashboard/internal/infrastructure/logger"
	"github.com/easm/dashboard/internal/infrastructure/metrics"
	"github.com/easm/dashboard/internal/infrastructure/sessionstore"
	"github.com/easm/dashboard/internal/infrastructure/telemetry"
	"github.com/easm/dashboard/internal/interfaces/http/handler"
	"github.com/easm/dashboard/internal/interfaces/http/middleware"
	"github.com/easm/dashboard/internal/interfaces/http/router"
)

//	@title			EASM Dashboard API
//	@version		1.0
//	@description	Backend for the asset inventory dashboard. Guarded routes use the server-side session.

//	@BasePath	/api/v1

// Version is set at build time
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting EASM dashboard",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("upstream", cfg.Upstream.BaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    Version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	collector := metrics.NewCollector(metrics.Config{Namespace: cfg.Metrics.Namespace})

	store, err := sessionstore.Open(cfg, log)
	if err != nil {
		log.Fatal("Failed to open session store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Error closing session store", zap.Error(err))
		}
	}()

	client, err := apiclient.NewClient(apiclient.Config{
		BaseURL:   cfg.Upstream.BaseURL,
		Timeout:   cfg.Upstream.Timeout,
		RateLimit: cfg.Upstream.RateLimit,
		RateBurst: cfg.Upstream.RateBurst,
		UserAgent: cfg.Upstream.UserAgent,
	},
		apiclient.WithStore(store),
		apiclient.WithMetrics(collector),
		apiclient.WithLogger(log),
	)
	if err != nil {
		log.Fatal("Failed to create upstream client", zap.Error(err))
	}

	// Session
	sessions := appidentity.NewSessionService(client, log, appidentity.WithTransitionRecorder(collector))
	client.OnUnauthorized(sessions.HandleUnauthorized)
	sessions.OnNavigate(func(path string) {
		log.Debug("Session navigation", zap.String("path", path))
	})

	// View caches
	cacheOpts := []cache.Option{
		cache.WithTTL(cfg.Cache.TTL),
		cache.WithLogger(log),
		cache.WithObserver(collector.RecordCacheLookup),
	}
	simpleCache := cache.New[string, []inventory.Asset]("simple_table", cacheOpts...)
	trendCache := cache.New[inventory.TrendPeriod, *inventory.AssetTrends]("trends", cacheOpts...)
	detailCache := cache.New[string, *inventory.Asset]("asset_detail", cacheOpts...)

	// Application services
	stats := appinventory.NewStatsAccessor(client,
		flight.WithLogger(log),
		flight.WithSharedObserver(func(shared bool) {
			collector.RecordSingleFlight(appinventory.StatsResource, shared)
		}),
	)
	table := appinventory.NewAssetsController(client,
		appinventory.WithPageSize(cfg.Inventory.DefaultPageSize),
		appinventory.WithServerSideSort(cfg.Inventory.ServerSideSort),
		appinventory.WithAssetsLogger(log),
	)
	simple := appinventory.NewSimpleTable(client, simpleCache, cfg.Inventory.SimpleTableLimit, log)
	trends := appinventory.NewTrendWidget(client, trendCache, time.Now, log)
	detail := appinventory.NewDetailService(client, detailCache)
	search := appinventory.NewSearchService(client)
	network := appinventory.NewNetworkService(client)
	orgs := appinventory.NewOrganizationService(client, stats, log)

	// Handlers
	assetsHandler := handler.NewAssetsHandler(table, simple, detail)
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(sessions),
		Assets:       assetsHandler,
		Overview:     handler.NewOverviewHandler(stats, trends),
		Explore:      handler.NewExploreHandler(search, network),
		Organization: handler.NewOrganizationHandler(orgs),
		Health:       handler.NewHealthHandler(sessions, Version),
	}

	// Views belong to one user; drop them when the session ends.
	unsubscribe := sessions.Subscribe(func(s identity.Session) {
		if s.State != identity.StateAnonymous {
			return
		}
		assetsHandler.Reset()
		simpleCache.Purge()
		trendCache.Purge()
		detailCache.Purge()
		stats.Invalidate()
	})
	defer unsubscribe()

	restored := sessions.Resolve(ctx)
	log.Info("Session resolved", zap.String("state", string(restored.State)))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := router.Options{
		Logger:    log,
		BodyLimit: int64(cfg.HTTP.MaxBodyBytes),
		CORS: middleware.CORSConfig{
			AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
			AllowMethods:     cfg.HTTP.CORSAllowMethods,
			AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		},
		Tracing: middleware.TracingConfig{
			Enabled:     cfg.Telemetry.Enabled,
			ServiceName: cfg.Telemetry.ServiceName,
		},
	}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		opts.RateLimiter = limiter
	}
	if cfg.Metrics.Enabled {
		opts.MetricsPath = cfg.Metrics.Path
		opts.MetricsHandler = collector.Handler()
		opts.Requests = collector
	}
	engine := router.New(handlers, sessions, opts)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           engine,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited")
}
