package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type memStore struct {
	mu      sync.Mutex
	items   map[string]StoredResponse
	lookups int
	failGet bool
}

func newMemStore() *memStore { return &memStore{items: map[string]StoredResponse{}} }

func (m *memStore) Lookup(_ context.Context, userID, scope, key string, _ time.Time) (*StoredResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.failGet {
		return nil, errors.New("db down")
	}
	if r, ok := m.items[userID+"|"+scope+"|"+key]; ok {
		return &r, nil
	}
	return nil, nil
}

func (m *memStore) Save(_ context.Context, userID, scope, key string, resp StoredResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[userID+"|"+scope+"|"+key] = resp
	return nil
}

func idemEngine(idem *Idempotency, calls *int, status int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Identity(""), idem.Validator())
	r.POST("/saved/verses", idem.Replay(), func(c *gin.Context) {
		*calls++
		c.JSON(status, gin.H{"n": *calls})
	})
	return r
}

func post(r http.Handler, path, user, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_ReplaysStoredResult(t *testing.T) {
	store := newMemStore()
	calls := 0
	r := idemEngine(NewIdempotency(store, IdempotencyOptions{}), &calls, http.StatusOK)

	first := post(r, "/saved/verses", "u1", "k-1")
	second := post(r, "/saved/verses", "u1", "k-1")

	if calls != 1 {
		t.Fatalf("handler should run once, ran %d", calls)
	}
	if second.Header().Get(HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("missing replay header")
	}
	if first.Body.String() != second.Body.String() || second.Code != http.StatusOK {
		t.Fatalf("replay mismatch: %q vs %q", first.Body.String(), second.Body.String())
	}

	post(r, "/saved/verses", "u2", "k-1")
	if calls != 2 {
		t.Fatalf("keys are scoped per user")
	}
	post(r, "/saved/verses", "u1", "")
	if calls != 3 {
		t.Fatalf("requests without a key always run")
	}
}

func TestIdempotency_FailuresAreNotStored(t *testing.T) {
	store := newMemStore()
	calls := 0
	r := idemEngine(NewIdempotency(store, IdempotencyOptions{}), &calls, http.StatusInternalServerError)

	post(r, "/saved/verses", "u1", "k-2")
	post(r, "/saved/verses", "u1", "k-2")
	if calls != 2 {
		t.Fatalf("5xx must not be replayed, handler ran %d times", calls)
	}
}

func TestIdempotency_InvalidKeys(t *testing.T) {
	calls := 0
	short := idemEngine(NewIdempotency(newMemStore(), IdempotencyOptions{MaxLen: 5}), &calls, 200)
	if w := post(short, "/saved/verses", "u1", "abcdef"); w.Code != http.StatusBadRequest {
		t.Fatalf("too long key: %d", w.Code)
	}
	digits := idemEngine(NewIdempotency(newMemStore(), IdempotencyOptions{Pattern: regexp.MustCompile(`^[0-9]+$`)}), &calls, 200)
	if w := post(digits, "/saved/verses", "u1", "abc"); w.Code != http.StatusBadRequest {
		t.Fatalf("pattern mismatch: %d", w.Code)
	}
	if calls != 0 {
		t.Fatalf("handler must not run for invalid keys")
	}
}

func TestIdempotency_LookupErrorFallsThrough(t *testing.T) {
	store := newMemStore()
	store.failGet = true
	calls := 0
	r := idemEngine(NewIdempotency(store, IdempotencyOptions{}), &calls, 200)

	if w := post(r, "/saved/verses", "u1", "k-3"); w.Code != http.StatusOK || calls != 1 {
		t.Fatalf("lookup failure should not block: %d calls=%d", w.Code, calls)
	}
}

func TestIdempotency_ReplayBypassesRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newMemStore()
	idem := NewIdempotency(store, IdempotencyOptions{})
	rl := NewRateLimiter(RateLimitOptions{RPS: 0.001, Burst: 1})

	r := gin.New()
	r.Use(Identity(""), idem.Validator(), rl.Handler())
	r.POST("/devotionals/fetch", idem.Replay(), func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	if w := post(r, "/devotionals/fetch", "u1", "k-4"); w.Code != 200 {
		t.Fatalf("first: %d", w.Code)
	}
	if w := post(r, "/devotionals/fetch", "u1", "k-5"); w.Code != http.StatusTooManyRequests {
		t.Fatalf("a fresh key should be limited, got %d", w.Code)
	}
	w := post(r, "/devotionals/fetch", "u1", "k-4")
	if w.Code != 200 || w.Header().Get(HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("replay should bypass the limiter, got %d", w.Code)
	}
}
