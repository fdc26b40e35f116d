package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestKeyByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.RemoteAddr = "203.0.113.7:1234"

	if got := KeyByUserOrIP(c); got != "ip:203.0.113.7" {
		t.Fatalf("anonymous key = %q", got)
	}
	c.Set(userIDKey, "u1")
	if got := KeyByUserOrIP(c); got != "user:u1" {
		t.Fatalf("user key = %q", got)
	}
}

func TestRateLimiter_BucketReuseAndSweep(t *testing.T) {
	rl := NewRateLimiter(RateLimitOptions{RPS: 1, IdleTTL: time.Minute})
	if rl.burst != 1 {
		t.Fatalf("burst should be coerced to 1, got %d", rl.burst)
	}
	now := time.Now()
	a := rl.limiter("a", now)
	if rl.limiter("a", now) != a {
		t.Fatalf("bucket should be reused")
	}

	rl.sweepN = sweepEvery - 1
	rl.limiter("b", now.Add(2*time.Minute))
	if _, ok := rl.buckets["a"]; ok {
		t.Fatalf("idle bucket should be swept")
	}
	if _, ok := rl.buckets["b"]; !ok {
		t.Fatalf("requested bucket must survive the sweep")
	}
}

func TestRateLimiter_Handler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(RateLimitOptions{RPS: 0.5, Burst: 1, SkipPaths: []string{"/health"}})

	r := gin.New()
	r.Use(RequestID(), Identity(""), rl.Handler())
	r.GET("/search", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	get := func(path, user string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if user != "" {
			req.Header.Set("X-User-ID", user)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	if w := get("/search", "u1"); w.Code != http.StatusOK {
		t.Fatalf("first request: %d", w.Code)
	}
	w := get("/search", "u1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited: %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "2" {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
	if w := get("/search", "u2"); w.Code != http.StatusOK {
		t.Fatalf("other users have their own bucket: %d", w.Code)
	}
	for i := 0; i < 3; i++ {
		if w := get("/health", "u1"); w.Code != http.StatusOK {
			t.Fatalf("skipped path limited: %d", w.Code)
		}
	}
}
