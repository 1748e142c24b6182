package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appidentity "github.com/easm/dashboard/internal/application/identity"
	"github.com/easm/dashboard/internal/infrastructure/logger"
	"github.com/easm/dashboard/internal/interfaces/http/handler"
	"github.com/easm/dashboard/internal/interfaces/http/middleware"
)

// Handlers are the API handlers wired into the engine
type Handlers struct {
	Auth         *handler.AuthHandler
	Assets       *handler.AssetsHandler
	Overview     *handler.OverviewHandler
	Explore      *handler.ExploreHandler
	Organization *handler.OrganizationHandler
	Health       *handler.HealthHandler
}

// Options configure the engine middleware
type Options struct {
	Logger      *zap.Logger
	CORS        middleware.CORSConfig
	Tracing     middleware.TracingConfig
	RateLimiter *middleware.RateLimiter
	// BodyLimit defaults to middleware.DefaultBodyLimit.
	BodyLimit int64
	// Requests records served requests when set.
	Requests middleware.RequestRecorder
	// MetricsPath serves MetricsHandler when both are set.
	MetricsPath    string
	MetricsHandler http.Handler
}

// New builds the engine: global middleware, /health, metrics and the
// /api/v1 routes. Everything but auth is behind the session guard.
func New(h Handlers, sessions middleware.SessionReader, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	middleware.SetupValidator()

	bodyLimit := opts.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = middleware.DefaultBodyLimit
	}

	engine := gin.New()
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		middleware.TracingWithConfig(opts.Tracing),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		middleware.CORSWithConfig(opts.CORS),
		middleware.BodyLimit(bodyLimit),
	)
	if opts.Requests != nil {
		engine.Use(middleware.HTTPMetrics(opts.Requests))
	}
	if opts.RateLimiter != nil {
		engine.Use(middleware.RateLimit(opts.RateLimiter))
	}

	engine.GET("/health", h.Health.Health)
	if opts.MetricsPath != "" && opts.MetricsHandler != nil {
		engine.GET(opts.MetricsPath, gin.WrapH(opts.MetricsHandler))
	}

	guard := middleware.RouteGuard(sessions, appidentity.LoginPath)

	auth := NewDomainGroup("auth", "/auth").
		POST("/login", h.Auth.Login).
		POST("/register", h.Auth.Register).
		POST("/logout", h.Auth.Logout).
		GET("/session", h.Auth.Session)

	assets := NewDomainGroup("assets", "/assets").Use(guard).
		GET("/table", h.Assets.Table).
		POST("/table/pagination", h.Assets.ChangePagination).
		POST("/table/page-size", h.Assets.ChangePageSize).
		POST("/table/filters", h.Assets.ChangeFilters).
		POST("/table/sorting", h.Assets.ChangeSorting).
		POST("/table/sorting/toggle", h.Assets.ToggleSorting).
		POST("/table/column-filters", h.Assets.ChangeColumnFilters).
		POST("/table/retry", h.Assets.Retry).
		POST("/table/selection", h.Assets.Select).
		DELETE("/table/selection", h.Assets.ClearSelection).
		POST("/table/visibility", h.Assets.SetColumnVisibility).
		GET("/simple", h.Assets.Simple).
		GET("/:type/:id", h.Assets.Detail)

	overview := NewDomainGroup("overview", "/overview").Use(guard).
		GET("/stats", h.Overview.Stats).
		POST("/stats/refetch", h.Overview.Refetch).
		GET("/cards", h.Overview.Cards)

	explore := NewDomainGroup("explore", "").Use(guard).
		GET("/trends", h.Overview.Trends).
		GET("/search", h.Explore.Search).
		GET("/network", h.Explore.Network).
		GET("/network/:assetId", h.Explore.Network)

	organization := NewDomainGroup("organization", "/organization").Use(guard).
		GET("", h.Organization.Get).
		PUT("", h.Organization.Update).
		POST("/apex-domains", h.Organization.AddApexDomain).
		DELETE("/apex-domains/:domain", h.Organization.RemoveApexDomain)

	NewRouter(engine).
		Register(auth).
		Register(assets).
		Register(overview).
		Register(explore).
		Register(organization).
		Setup()

	return engine
}
