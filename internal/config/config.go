// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, persistence, upstream providers (Bible search, devotional feed,
// AI model), background jobs, rate limiting, identity and observability.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "bible-study-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// BibleAPIConfig configures the upstream Bible search provider.
type BibleAPIConfig struct {
	BaseURL  string            // BIBLE_API_BASE_URL
	APIKey   string            // BIBLE_API_KEY
	BibleIDs map[string]string // language -> bible id (BIBLE_API_BIBLE_ID_PT / _EN)
	Timeout  time.Duration     // BIBLE_API_TIMEOUT
	RPS      float64           // BIBLE_API_RPS, 0 disables the client-side throttle
}

// AIConfig configures the generative model used for translation and summaries.
type AIConfig struct {
	APIKey     string        // AI_API_KEY
	BaseURL    string        // AI_BASE_URL (OpenAI-compatible)
	Model      string        // AI_MODEL
	MaxRetries int           // AI_MAX_RETRIES
	RetryBase  time.Duration // AI_RETRY_BASE_DELAY
	Timeout    time.Duration // AI_TIMEOUT
}

// DevotionalConfig configures the daily devotional pipeline.
type DevotionalConfig struct {
	FeedURL     string        // DEVOTIONAL_FEED_URL
	FeedTimeout time.Duration // DEVOTIONAL_FEED_TIMEOUT
	ScheduleUTC string        // DEVOTIONAL_SCHEDULE_UTC, "HH:MM"
	LeaseTTL    time.Duration // DEVOTIONAL_LEASE_TTL
	Retention   time.Duration // DEVOTIONAL_RETENTION, 0 keeps everything
}

// SearchCacheConfig bounds the persisted search cache.
type SearchCacheConfig struct {
	TTL           time.Duration // SEARCH_CACHE_TTL, 0 disables age eviction
	MaxEntries    int           // SEARCH_CACHE_MAX_ENTRIES, 0 disables size eviction
	SweepInterval time.Duration // SEARCH_CACHE_SWEEP_INTERVAL
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Persistence
	DBPath   string // SQLite path
	RedisURL string // optional; enables the Redis lease for the devotional pipeline

	// Upstreams
	BibleAPI   BibleAPIConfig
	AI         AIConfig
	Devotional DevotionalConfig

	// Search cache
	SearchCache SearchCacheConfig

	// Background jobs
	SchedulerEnabled bool

	// Identity
	JWTSecret string // empty = trust X-User-ID (development)

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Idempotency
	IdempotencyTTL time.Duration // how long a given Idempotency-Key is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// Persistence
		DBPath:   getenv("DB_PATH", "app.db"),
		RedisURL: getenv("REDIS_URL", ""),

		// Upstreams
		BibleAPI: BibleAPIConfig{
			BaseURL: strings.TrimRight(getenv("BIBLE_API_BASE_URL", "https://rest.api.bible/v1"), "/"),
			APIKey:  getenv("BIBLE_API_KEY", ""),
			BibleIDs: map[string]string{
				"pt": getenv("BIBLE_API_BIBLE_ID_PT", ""),
				"en": getenv("BIBLE_API_BIBLE_ID_EN", ""),
			},
			Timeout: getdur("BIBLE_API_TIMEOUT", 10*time.Second),
			RPS:     getfloat("BIBLE_API_RPS", 5.0),
		},
		AI: AIConfig{
			APIKey:     getenv("AI_API_KEY", ""),
			BaseURL:    getenv("AI_BASE_URL", ""),
			Model:      getenv("AI_MODEL", "gpt-4o-mini"),
			MaxRetries: getint("AI_MAX_RETRIES", 2),
			RetryBase:  getdur("AI_RETRY_BASE_DELAY", 2*time.Second),
			Timeout:    getdur("AI_TIMEOUT", 45*time.Second),
		},
		Devotional: DevotionalConfig{
			FeedURL:     getenv("DEVOTIONAL_FEED_URL", "https://discoverybiblestudy.org/daily/api/"),
			FeedTimeout: getdur("DEVOTIONAL_FEED_TIMEOUT", 15*time.Second),
			ScheduleUTC: strings.TrimSpace(getenv("DEVOTIONAL_SCHEDULE_UTC", "00:00")),
			LeaseTTL:    getdur("DEVOTIONAL_LEASE_TTL", 2*time.Minute),
			Retention:   getdur("DEVOTIONAL_RETENTION", 0),
		},

		// Search cache
		SearchCache: SearchCacheConfig{
			TTL:           getdur("SEARCH_CACHE_TTL", 30*24*time.Hour),
			MaxEntries:    getint("SEARCH_CACHE_MAX_ENTRIES", 5000),
			SweepInterval: getdur("SEARCH_CACHE_SWEEP_INTERVAL", time.Hour),
		},

		SchedulerEnabled: getbool("SCHEDULER_ENABLED", true),
		JWTSecret:        getenv("JWT_SECRET", ""),

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Idempotency
		IdempotencyTTL: getdur("IDEMPOTENCY_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "bible-study-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.BibleAPI.Timeout <= 0 || cfg.AI.Timeout <= 0 || cfg.Devotional.FeedTimeout <= 0 {
		return cfg, errors.New("upstream timeouts must be positive durations")
	}
	if cfg.BibleAPI.RPS < 0 {
		return cfg, errors.New("BIBLE_API_RPS must be >= 0")
	}
	if cfg.AI.MaxRetries < 0 {
		return cfg, errors.New("AI_MAX_RETRIES must be >= 0")
	}
	if cfg.AI.RetryBase < 0 {
		return cfg, errors.New("AI_RETRY_BASE_DELAY must be >= 0")
	}
	if _, _, err := ParseClock(cfg.Devotional.ScheduleUTC); err != nil {
		return cfg, errors.New("DEVOTIONAL_SCHEDULE_UTC must be HH:MM (UTC)")
	}
	if cfg.Devotional.LeaseTTL <= 0 {
		return cfg, errors.New("DEVOTIONAL_LEASE_TTL must be > 0")
	}
	if cfg.Devotional.Retention < 0 {
		return cfg, errors.New("DEVOTIONAL_RETENTION must be >= 0")
	}
	if cfg.SearchCache.TTL < 0 || cfg.SearchCache.MaxEntries < 0 {
		return cfg, errors.New("SEARCH_CACHE_TTL and SEARCH_CACHE_MAX_ENTRIES must be >= 0")
	}
	if cfg.SearchCache.SweepInterval <= 0 {
		return cfg, errors.New("SEARCH_CACHE_SWEEP_INTERVAL must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.IdempotencyTTL <= 0 {
		return cfg, errors.New("IDEMPOTENCY_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ParseClock parses an "HH:MM" wall-clock time.
func ParseClock(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, 0, err
	}
	return t.Hour(), t.Minute(), nil
}

// parsed returns parse(v) for a set, non-empty variable k, or def when the
// variable is unset or does not parse.
func parsed[T any](k string, def T, parse func(string) (T, error)) T {
	v, ok := os.LookupEnv(k)
	if !ok || v == "" {
		return def
	}
	out, err := parse(v)
	if err != nil {
		return def
	}
	return out
}

func getenv(k, def string) string {
	return parsed(k, def, func(v string) (string, error) { return v, nil })
}

func getfloat(k string, def float64) float64 {
	return parsed(k, def, func(v string) (float64, error) { return strconv.ParseFloat(v, 64) })
}

func getint(k string, def int) int { return parsed(k, def, strconv.Atoi) }

func getdur(k string, def time.Duration) time.Duration { return parsed(k, def, time.ParseDuration) }

var errNotBool = errors.New("not a boolean")

func getbool(k string, def bool) bool {
	return parsed(k, def, func(v string) (bool, error) {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true, nil
		case "0", "false", "no", "n", "off":
			return false, nil
		}
		return false, errNotBool
	})
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if trimmed := strings.TrimRight(p, "/"); trimmed != "" {
		return trimmed
	}
	return "/"
}
