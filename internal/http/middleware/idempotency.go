package middleware

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderIdempotencyKey carries the client's idempotency key on unsafe calls.
const HeaderIdempotencyKey = "Idempotency-Key"

// HeaderIdempotencyReplayed is set on responses served from a stored result.
const HeaderIdempotencyReplayed = "Idempotency-Replayed"

const (
	ctxKeyIdemKey    = "idem.key"
	ctxKeyIdemStored = "idem.stored"
	ctxKeyRateBypass = "rate.bypass"
)

var defaultKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)

// StoredResponse is a completed response kept for replay.
type StoredResponse struct {
	Status int
	Body   []byte
}

// IdempotencyStore persists completed responses keyed by (user, scope, key).
// Lookup returns nil without error on a miss or an expired record.
type IdempotencyStore interface {
	Lookup(ctx context.Context, userID, scope, key string, now time.Time) (*StoredResponse, error)
	Save(ctx context.Context, userID, scope, key string, resp StoredResponse) error
}

// IdempotencyOptions configures key validation. MaxLen <= 0 means 200; a nil
// Pattern allows token characters plus ._~-:
type IdempotencyOptions struct {
	MaxLen  int
	Pattern *regexp.Regexp
}

// Idempotency validates Idempotency-Key headers and replays stored results.
//
// Validator runs globally before the rate limiter: it rejects malformed keys
// and, when a stored result exists, marks the request so the limiter lets it
// through. Replay is mounted on the individual routes: it serves the stored
// result without running the handler, or records a 2xx result for later.
type Idempotency struct {
	store  IdempotencyStore
	maxLen int
	re     *regexp.Regexp
	now    func() time.Time
}

// NewIdempotency returns an Idempotency backed by store.
func NewIdempotency(store IdempotencyStore, opts IdempotencyOptions) *Idempotency {
	i := &Idempotency{store: store, maxLen: opts.MaxLen, re: opts.Pattern, now: time.Now}
	if i.maxLen <= 0 {
		i.maxLen = 200
	}
	if i.re == nil {
		i.re = defaultKeyPattern
	}
	return i
}

// GetIdempotencyKey returns the validated key of the request.
func GetIdempotencyKey(c *gin.Context) (string, bool) {
	s := c.GetString(ctxKeyIdemKey)
	return s, s != ""
}

// IsReplay reports whether a stored result exists for the request.
func IsReplay(c *gin.Context) bool {
	_, ok := c.Get(ctxKeyIdemStored)
	return ok
}

func idemScope(c *gin.Context) string {
	return c.Request.Method + " " + c.Request.URL.Path
}

// Validator checks the header and looks up a stored result. Lookup failures
// are logged and the request is processed normally.
func (i *Idempotency) Validator() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(HeaderIdempotencyKey)
		if key == "" {
			c.Next()
			return
		}
		if len(key) > i.maxLen || !i.re.MatchString(key) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"request_id": RequestIDFrom(c),
				"code":       "bad_idempotency_key",
				"message":    "invalid Idempotency-Key",
			})
			return
		}
		c.Set(ctxKeyIdemKey, key)

		if i.store != nil {
			stored, err := i.store.Lookup(c.Request.Context(), UserID(c), idemScope(c), key, i.now().UTC())
			switch {
			case err != nil:
				LoggerFrom(c).Warn().Err(err).Msg("idempotency lookup failed")
			case stored != nil:
				c.Set(ctxKeyIdemStored, stored)
				c.Set(ctxKeyRateBypass, true)
			}
		}
		c.Next()
	}
}

// Replay serves a stored result or records the handler's 2xx result.
func (i *Idempotency) Replay() gin.HandlerFunc {
	return func(c *gin.Context) {
		key, ok := GetIdempotencyKey(c)
		if !ok || i.store == nil {
			c.Next()
			return
		}
		if v, ok := c.Get(ctxKeyIdemStored); ok {
			stored := v.(*StoredResponse)
			c.Header(HeaderIdempotencyReplayed, "true")
			c.Data(stored.Status, "application/json; charset=utf-8", stored.Body)
			c.Abort()
			return
		}

		cw := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = cw
		c.Next()

		status := cw.Status()
		if status < 200 || status >= 300 {
			return
		}
		resp := StoredResponse{Status: status, Body: cw.buf.Bytes()}
		if err := i.store.Save(c.Request.Context(), UserID(c), idemScope(c), key, resp); err != nil {
			LoggerFrom(c).Warn().Err(err).Msg("idempotency save failed")
		}
	}
}

// captureWriter tees the response body.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
