// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// caller identity, CORS, security headers, idempotency, and rate limiting.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/config"
	"github.com/tbourn/bible-study-backend/internal/docs"
	"github.com/tbourn/bible-study-backend/internal/http/handlers"
	"github.com/tbourn/bible-study-backend/internal/http/middleware"
	"github.com/tbourn/bible-study-backend/internal/repo"
)

// widgetPath is served to any origin regardless of the CORS allowlist.
const widgetPath = "/widget/devotional"

// idemStoreShim adapts the repository free functions to
// middleware.IdempotencyStore.
type idemStoreShim struct {
	db  *gorm.DB
	ttl time.Duration
}

// Lookup proxies repo.GetIdempotency; a miss is not an error.
func (s idemStoreShim) Lookup(ctx context.Context, userID, scope, key string, now time.Time) (*middleware.StoredResponse, error) {
	rec, err := repo.GetIdempotency(ctx, s.db, repo.IdemKey{UserID: userID, Scope: scope, Key: key}, now)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &middleware.StoredResponse{Status: rec.Status, Body: rec.Body}, nil
}

// Save proxies repo.CreateIdempotency; the first stored response wins.
func (s idemStoreShim) Save(ctx context.Context, userID, scope, key string, resp middleware.StoredResponse) error {
	_, err := repo.CreateIdempotency(ctx, s.db, repo.IdemKey{UserID: userID, Scope: scope, Key: key}, resp.Status, resp.Body, time.Now(), s.ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Identity (bearer JWT or X-User-ID)
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and security headers
//  11. gzip
func RegisterRoutes(r *gin.Engine, db *gorm.DB, svc handlers.Services, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{"X-User-ID"},
	}))
	r.Use(middleware.Recovery())
	r.Use(limitBody(1 << 20))

	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.Use(middleware.Identity(cfg.JWTSecret))

	idem := middleware.NewIdempotency(idemStoreShim{db: db, ttl: cfg.IdempotencyTTL}, middleware.IdempotencyOptions{MaxLen: 200})
	r.Use(idem.Validator())

	rl := middleware.NewRateLimiter(middleware.RateLimitOptions{
		RPS:       cfg.RateRPS,
		Burst:     cfg.RateBurst,
		Key:       middleware.KeyByUserOrIP,
		SkipPaths: []string{"/health", "/metrics"},
	})
	r.Use(rl.Handler())

	useCORS(r, cfg.CORS.AllowedOrigins, widgetPath)

	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = cfg.APIBasePath
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(svc)
	api := groupWithPrefix(r, cfg.APIBasePath)

	if svc.Search != nil {
		api.GET("/search", h.Search)
	}

	if svc.Devotionals != nil {
		r.GET(widgetPath, h.WidgetDevotional)

		api.GET("/devotionals", h.ListDevotionals)
		api.GET("/devotionals/today", h.TodayDevotional)
		api.GET("/devotionals/:date", h.DevotionalByDate)
		api.POST("/devotionals/fetch", idem.Replay(), h.FetchDevotional)
	}

	if svc.Saved != nil {
		saved := api.Group("/saved", middleware.PrivateCache())
		{
			saved.GET("/devotionals", h.ListSavedDevotionals)
			saved.GET("/devotionals/:id", h.IsDevotionalSaved)
			saved.POST("/devotionals/:id", idem.Replay(), h.SaveDevotional)
			saved.DELETE("/devotionals/:id", h.UnsaveDevotional)

			saved.GET("/verses", h.ListSavedVerses)
			saved.GET("/verses/check", h.IsVerseSaved)
			saved.POST("/verses", idem.Replay(), h.SaveVerse)
			saved.DELETE("/verses", h.UnsaveVerse)
		}
	}

	if svc.Logins != nil {
		logins := api.Group("/logins", middleware.PrivateCache())
		{
			logins.POST("", idem.Replay(), h.RecordLogin)
			logins.GET("", h.ListLogins)
			logins.GET("/today", h.LoginToday)
			logins.GET("/weekly", h.WeeklyLogins)
			logins.GET("/stats", h.LoginStats)
			logins.GET("/comparison", h.LoginComparison)
		}
	}

	if svc.Summaries != nil {
		api.POST("/verses/summary", h.SummarizeVerse)
	}

	if svc.Jobs != nil {
		api.GET("/jobs", h.ListJobs)
		api.GET("/jobs/:name", h.GetJob)
		api.POST("/jobs/:name/run", h.RunJob)
	}
}

// useCORS installs gin-contrib/cors. With no allowlist every origin is
// accepted and ACAO: * is set even without an Origin header; otherwise the
// request Origin is echoed when allowed. Routes in open bypass the allowlist.
func useCORS(r *gin.Engine, origins []string, open ...string) {
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", "X-User-ID", "If-None-Match", middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", "ETag", "Retry-After", middleware.HeaderIdempotencyReplayed}
	methods := []string{"GET", "POST", "DELETE", "OPTIONS"}

	if len(origins) == 0 {
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     methods,
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
		return
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	skip := make(map[string]struct{}, len(open))
	for _, p := range open {
		skip[p] = struct{}{}
	}
	strict := cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     methods,
		AllowHeaders:     allowHeaders,
		ExposeHeaders:    exposeHeaders,
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	})
	r.Use(func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}
		if origin := c.GetHeader("Origin"); origin != "" {
			if _, ok := allowed[origin]; ok {
				h := c.Writer.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Add("Vary", "Origin")
			}
		}
		strict(c)
	})
}

// limitBody caps the request body size to maxBytes using
// http.MaxBytesReader. Requests exceeding the cap cause downstream body reads
// to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
