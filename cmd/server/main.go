// Command server runs the Bible-study HTTP API and its background jobs.
//
// @title        Bible Study API
// @version      1.0
// @description  Bible search with a persistent result cache, daily devotionals with translation and summaries, saved items and daily login tracking.
// @BasePath     /api/v1
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/ai"
	"github.com/tbourn/bible-study-backend/internal/bibleapi"
	"github.com/tbourn/bible-study-backend/internal/config"
	"github.com/tbourn/bible-study-backend/internal/feed"
	httpapi "github.com/tbourn/bible-study-backend/internal/http"
	"github.com/tbourn/bible-study-backend/internal/http/handlers"
	"github.com/tbourn/bible-study-backend/internal/lock"
	"github.com/tbourn/bible-study-backend/internal/observability"
	"github.com/tbourn/bible-study-backend/internal/repo"
	"github.com/tbourn/bible-study-backend/internal/retry"
	"github.com/tbourn/bible-study-backend/internal/scheduler"
	"github.com/tbourn/bible-study-backend/internal/services"
	"github.com/tbourn/bible-study-backend/internal/sysutil"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg := config.MustLoad()
	version := sysutil.Version(os.Getenv("APP_VERSION"))
	log.Logger = sysutil.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}

	db, err := repo.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database failed")
	}
	if err := repo.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	search, devos := buildServices(ctx, cfg, db)

	jobs := scheduler.New()
	hour, minute, err := config.ParseClock(cfg.Devotional.ScheduleUTC)
	if err != nil {
		log.Fatal().Err(err).Str("value", cfg.Devotional.ScheduleUTC).Msg("invalid DEVOTIONAL_SCHEDULE_UTC")
	}
	jobs.Register(services.DevotionalJob(devos, scheduler.DailyAt{Hour: hour, Minute: minute}))
	jobs.Register(services.MaintenanceJob(search, devos, max(cfg.SearchCache.SweepInterval, time.Minute)))
	if cfg.SchedulerEnabled {
		jobs.Start(ctx)
	}

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, handlers.Services{
		Search:      search,
		Devotionals: devos,
		Saved:       &services.SavedService{DB: db},
		Logins:      &services.LoginService{DB: db, Now: time.Now},
		Jobs:        jobs,
		Summaries:   devos.Summarizer,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	jobs.Wait()
	if err := shutdownOTel(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("otel shutdown failed")
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info().Msg("server exited")
}

// buildServices wires the upstream clients, the AI model and the lease
// backend into the search and devotional services.
func buildServices(ctx context.Context, cfg config.Config, db *gorm.DB) (*services.SearchService, *services.DevotionalService) {
	search := services.NewSearchService(db, bibleapi.New(cfg.BibleAPI), cfg.SearchCache.TTL, cfg.SearchCache.MaxEntries)

	var locker lock.Locker = lock.NewDB(db)
	if cfg.RedisURL != "" {
		rdb, err := lock.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("redis unavailable")
		}
		locker = lock.NewRedis(rdb)
		log.Info().Msg("devotional lease backed by redis")
	}

	model := ai.NewOpenAI(cfg.AI)
	if model == nil {
		log.Warn().Msg("AI_API_KEY not set, devotionals will be stored without translation or summary")
	}
	policy := func(name string) retry.Policy {
		return retry.Policy{MaxRetries: cfg.AI.MaxRetries, BaseDelay: cfg.AI.RetryBase, Name: name}
	}

	devos := &services.DevotionalService{
		DB:         db,
		Feed:       feed.New(cfg.Devotional.FeedURL, cfg.Devotional.FeedTimeout),
		Translator: &ai.Translator{Model: model, Retry: policy("translate")},
		Summarizer: &ai.Summarizer{Model: model, Retry: policy("summarize")},
		Locker:     locker,
		LeaseTTL:   cfg.Devotional.LeaseTTL,
		Retention:  cfg.Devotional.Retention,
		Now:        time.Now,
	}
	return search, devos
}
