// Package retry provides the bounded retry-with-backoff executor that wraps
// every call to the generative model.
//
// Delay rules, per failed attempt n (0-based):
//   - rate-limited errors (HTTP 429) honor a provider supplied retry-after,
//     read from structured RetryInfo details or a "Please retry in Ns" message;
//   - otherwise the delay is BaseDelay * 2^n.
//
// After MaxRetries additional attempts the last error is returned unchanged.
package retry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	retrygo "github.com/avast/retry-go"
	"github.com/rs/zerolog/log"
)

// Defaults applied when a Policy field is zero.
const (
	DefaultMaxRetries = 2
	DefaultBaseDelay  = 2 * time.Second
)

// Policy configures Do.
type Policy struct {
	// MaxRetries is the number of additional attempts after the first one.
	// Negative disables retries.
	MaxRetries int
	BaseDelay  time.Duration

	// Name labels log lines (e.g. "translate").
	Name string

	// OnRetry, when set, is called before sleeping for a retry.
	OnRetry func(attempt uint, delay time.Duration, err error)

	// sleepless is used by tests to skip waiting.
	sleepless bool
}

// HTTPError is an upstream failure carrying its HTTP status and raw body.
// Clients convert their SDK-specific errors into it so the executor can
// recognise rate limiting without knowing the SDK.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("upstream status %d", e.StatusCode)
}

// IsRateLimited reports whether err signals upstream rate limiting.
func IsRateLimited(err error) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		if he.StatusCode == 429 {
			return true
		}
		return bodyErrorCode(he.Body) == 429
	}
	return false
}

var retryInMsg = regexp.MustCompile(`Please retry in ([\d.]+)s`)

// RetryAfter extracts a provider supplied retry delay from err, if any.
func RetryAfter(err error) (time.Duration, bool) {
	if err == nil {
		return 0, false
	}
	var he *HTTPError
	if errors.As(err, &he) {
		if d, ok := retryInfoDelay(he.Body); ok {
			return d, true
		}
		if d, ok := retryInMessage(he.Message); ok {
			return d, true
		}
	}
	return retryInMessage(err.Error())
}

// Delay returns the wait before retrying after failed attempt n (0-based).
func Delay(n uint, err error, base time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultBaseDelay
	}
	if IsRateLimited(err) {
		if d, ok := RetryAfter(err); ok {
			return d
		}
	}
	return time.Duration(float64(base) * math.Pow(2, float64(n)))
}

// Do runs fn until it succeeds or the policy is exhausted.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	retries := p.MaxRetries
	if retries < 0 {
		retries = 0
	}
	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}

	return retrygo.Do(
		func() error { return fn(ctx) },
		retrygo.Context(ctx),
		retrygo.Attempts(uint(retries)+1),
		retrygo.LastErrorOnly(true),
		retrygo.DelayType(func(n uint, err error, _ *retrygo.Config) time.Duration {
			if p.sleepless {
				return 0
			}
			return Delay(n, err, base)
		}),
		retrygo.OnRetry(func(n uint, err error) {
			if int(n) >= retries {
				return
			}
			d := Delay(n, err, base)
			log.Warn().
				Err(err).
				Str("op", p.Name).
				Uint("attempt", n+1).
				Int("max_attempts", retries+1).
				Bool("rate_limited", IsRateLimited(err)).
				Dur("delay", d).
				Msg("upstream call failed, retrying")
			if p.OnRetry != nil {
				p.OnRetry(n, d, err)
			}
		}),
	)
}

// Value is Do for operations that produce a result.
func Value[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var out T
	err := Do(ctx, p, func(ctx context.Context) error {
		v, err := fn(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	return out, err
}

func retryInMessage(msg string) (time.Duration, bool) {
	m := retryInMsg.FindStringSubmatch(msg)
	if m == nil {
		return 0, false
	}
	return seconds(m[1])
}

type errorEnvelope struct {
	Error struct {
		Code    int `json:"code"`
		Details []struct {
			Type       string `json:"@type"`
			RetryDelay string `json:"retryDelay"`
		} `json:"details"`
	} `json:"error"`
}

func bodyErrorCode(body []byte) int {
	if len(body) == 0 {
		return 0
	}
	var env errorEnvelope
	if json.Unmarshal(body, &env) != nil {
		return 0
	}
	return env.Error.Code
}

func retryInfoDelay(body []byte) (time.Duration, bool) {
	if len(body) == 0 {
		return 0, false
	}
	var env errorEnvelope
	if json.Unmarshal(body, &env) != nil {
		return 0, false
	}
	for _, d := range env.Error.Details {
		if strings.HasSuffix(d.Type, "google.rpc.RetryInfo") && d.RetryDelay != "" {
			return seconds(strings.TrimSuffix(strings.TrimSpace(d.RetryDelay), "s"))
		}
	}
	return 0, false
}

func seconds(s string) (time.Duration, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return time.Duration(f * float64(time.Second)), true
}
