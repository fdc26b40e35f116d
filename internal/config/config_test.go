package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Clear all env that might affect defaults. t.Setenv isolates per test.
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// Persistence / upstreams
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("BIBLE_API_BASE_URL", "https://bible.example/v1/")
	t.Setenv("BIBLE_API_KEY", "k1")
	t.Setenv("BIBLE_API_BIBLE_ID_PT", "pt-id")
	t.Setenv("BIBLE_API_BIBLE_ID_EN", "en-id")
	t.Setenv("AI_API_KEY", "ai-key")
	t.Setenv("AI_MODEL", "m1")
	t.Setenv("AI_MAX_RETRIES", "3")
	t.Setenv("AI_RETRY_BASE_DELAY", "500ms")
	t.Setenv("DEVOTIONAL_SCHEDULE_UTC", "06:30")
	t.Setenv("SEARCH_CACHE_TTL", "1h")
	t.Setenv("SEARCH_CACHE_MAX_ENTRIES", "10")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SCHEDULER_ENABLED", "off")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// Idempotency
	t.Setenv("IDEMPOTENCY_TTL", "48h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}

	// Persistence / upstreams
	if cfg.DBPath != "db.sqlite" || cfg.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("persistence fields unexpected: %+v", cfg)
	}
	if cfg.BibleAPI.BaseURL != "https://bible.example/v1" || cfg.BibleAPI.APIKey != "k1" ||
		cfg.BibleAPI.BibleIDs["pt"] != "pt-id" || cfg.BibleAPI.BibleIDs["en"] != "en-id" {
		t.Fatalf("bible api unexpected: %+v", cfg.BibleAPI)
	}
	if cfg.AI.APIKey != "ai-key" || cfg.AI.Model != "m1" || cfg.AI.MaxRetries != 3 || cfg.AI.RetryBase != 500*time.Millisecond {
		t.Fatalf("ai unexpected: %+v", cfg.AI)
	}
	if cfg.Devotional.ScheduleUTC != "06:30" || cfg.Devotional.LeaseTTL != 2*time.Minute {
		t.Fatalf("devotional unexpected: %+v", cfg.Devotional)
	}
	if cfg.SearchCache.TTL != time.Hour || cfg.SearchCache.MaxEntries != 10 {
		t.Fatalf("search cache unexpected: %+v", cfg.SearchCache)
	}
	if cfg.JWTSecret != "s3cret" || cfg.SchedulerEnabled {
		t.Fatalf("identity/scheduler unexpected: %+v", cfg)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	// Idempotency
	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("idempotency ttl unexpected: %v", cfg.IdempotencyTTL)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		env, value string
		want       string
	}{
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"PORT", "   ", "PORT must not be empty"},
		{"READ_TIMEOUT", "0s", "timeouts must be positive"},
		{"MAX_HEADER_BYTES", "0", "MAX_HEADER_BYTES"},
		{"DB_PATH", "   ", "DB_PATH must not be empty"},
		{"DEVOTIONAL_SCHEDULE_UTC", "25:99", "DEVOTIONAL_SCHEDULE_UTC"},
		{"DEVOTIONAL_LEASE_TTL", "0s", "DEVOTIONAL_LEASE_TTL"},
		{"AI_MAX_RETRIES", "-1", "AI_MAX_RETRIES"},
		{"SEARCH_CACHE_MAX_ENTRIES", "-5", "SEARCH_CACHE_MAX_ENTRIES"},
		{"RATE_RPS", "-1", "RATE_RPS"},
		{"RATE_BURST", "0", "RATE_BURST"},
		{"HSTS_MAX_AGE", "-1s", "HSTS_MAX_AGE"},
		{"IDEMPOTENCY_TTL", "0s", "IDEMPOTENCY_TTL"},
		{"OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.env, func(t *testing.T) {
			t.Setenv(tc.env, tc.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("%s=%q: expected error containing %q, got %v", tc.env, tc.value, tc.want, err)
			}
		})
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("T_EMPTY", "")
	t.Setenv("T_STR", "val")
	t.Setenv("T_FLOAT", "3.14")
	t.Setenv("T_INT", "42")
	t.Setenv("T_DUR", "150ms")
	t.Setenv("T_BAD", "zzz")

	if getenv("T_EMPTY", "d") != "d" || getenv("T_STR", "d") != "val" {
		t.Fatal("getenv")
	}
	if getfloat("T_FLOAT", 0) != 3.14 || getfloat("T_BAD", 1.5) != 1.5 {
		t.Fatal("getfloat")
	}
	if getint("T_INT", 0) != 42 || getint("T_BAD", 7) != 7 {
		t.Fatal("getint")
	}
	if getdur("T_DUR", time.Second) != 150*time.Millisecond || getdur("T_BAD", 2*time.Second) != 2*time.Second {
		t.Fatal("getdur")
	}
}

func TestEnvHelpers_getbool(t *testing.T) {
	cases := []struct {
		value string
		def   bool
		want  bool
	}{
		{"1", false, true},
		{" yes ", false, true},
		{"On", false, true},
		{"Y", false, true},
		{"0", true, false},
		{"FALSE", true, false},
		{" n ", true, false},
		{"off", true, false},
		{"", true, true},
		{"maybe", false, false},
	}
	for _, tc := range cases {
		t.Setenv("T_BOOL", tc.value)
		if got := getbool("T_BOOL", tc.def); got != tc.want {
			t.Errorf("getbool(%q, %v) = %v", tc.value, tc.def, got)
		}
	}
}

func TestSplitCSVAndBasePath(t *testing.T) {
	if splitCSV("") != nil {
		t.Fatal("splitCSV(\"\") should be nil")
	}
	if got := splitCSV(" a, ,b ,  c  ,"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("splitCSV = %#v", got)
	}
	for in, want := range map[string]string{"": "/", "v1": "/v1", "/v1/": "/v1", " / ": "/"} {
		if got := normalizeBasePath(in); got != want {
			t.Errorf("normalizeBasePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMain(m *testing.M) {
	os.Unsetenv("PORT")
	os.Exit(m.Run())
}

func TestLoad_Defaults_APIBasePathDefault_And_UpstreamDefaults(t *testing.T) {
	t.Setenv("DB_PATH", "db.sqlite")
	// Intentionally leave API_BASE_PATH and the upstream vars unset

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	// default per code is "/api/v1"
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("API_BASE_PATH default expected '/api/v1', got %q", cfg.APIBasePath)
	}
	if cfg.BibleAPI.BaseURL != "https://rest.api.bible/v1" {
		t.Fatalf("unexpected bible api default %q", cfg.BibleAPI.BaseURL)
	}
	if cfg.Devotional.ScheduleUTC != "00:00" || cfg.AI.MaxRetries != 2 || cfg.AI.RetryBase != 2*time.Second {
		t.Fatalf("unexpected pipeline defaults: %+v %+v", cfg.Devotional, cfg.AI)
	}
	if !cfg.SchedulerEnabled {
		t.Fatalf("scheduler should default to enabled")
	}
}

func TestParseClock(t *testing.T) {
	h, m, err := ParseClock(" 07:05 ")
	if err != nil || h != 7 || m != 5 {
		t.Fatalf("ParseClock = %d %d %v", h, m, err)
	}
	if _, _, err := ParseClock("7pm"); err == nil {
		t.Fatalf("expected error for 7pm")
	}
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	// No special env needed; defaults are valid.
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.APIBasePath == "" {
		t.Fatalf("unexpected empty config from MustLoad")
	}
}
