// Package bibleapi is the client for the upstream Bible search provider
// (API.Bible compatible):
//
//	GET {base}/bibles/{bibleId}/search?query=&limit=&offset=
//
// The response is expected to carry a result array under data.verses,
// data.passages or data.searchResult (first present wins) and optionally
// data.total. Any non-2xx status is a hard failure; calls are not retried.
package bibleapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/tbourn/bible-study-backend/internal/config"
)

var (
	// ErrMissingAPIKey is returned when no provider key is configured.
	ErrMissingAPIKey = errors.New("bible api key not configured")
	// ErrMissingBibleID is returned when no bible id is configured for the language.
	ErrMissingBibleID = errors.New("bible id not configured for language")
	// ErrUpstream wraps non-2xx provider responses.
	ErrUpstream = errors.New("bible api upstream error")
)

// resultKeys are probed in order for the result array.
var resultKeys = []string{"data.verses", "data.passages", "data.searchResult"}

// StatusError is a non-2xx response from the provider.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("bible api: status %d: %s", e.StatusCode, truncate(e.Body, 200))
}

// Is makes errors.Is(err, ErrUpstream) hold for every StatusError.
func (e *StatusError) Is(target error) bool { return target == ErrUpstream }

// Page is one upstream page of search results.
type Page struct {
	Items []json.RawMessage
	Total *int
}

// Client searches the provider. It is safe for concurrent use.
type Client struct {
	http     *resty.Client
	apiKey   string
	bibleIDs map[string]string
	limiter  *rate.Limiter
}

// New builds a Client from configuration. A positive RPS installs a
// client-side token bucket toward the provider.
func New(cfg config.BibleAPIConfig) *Client {
	hc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json")
	if cfg.Timeout > 0 {
		hc.SetTimeout(cfg.Timeout)
	}
	if cfg.APIKey != "" {
		hc.SetHeader("api-key", cfg.APIKey)
	}

	c := &Client{http: hc, apiKey: cfg.APIKey, bibleIDs: map[string]string{}}
	for lang, id := range cfg.BibleIDs {
		if id = strings.TrimSpace(id); id != "" {
			c.bibleIDs[lang] = id
		}
	}
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return c
}

// Ready reports whether a search in language could be issued.
func (c *Client) Ready(language string) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	if c.bibleIDs[language] == "" {
		return fmt.Errorf("%w: %s", ErrMissingBibleID, language)
	}
	return nil
}

// Search fetches up to limit results for query starting at the provider
// offset. query is sent verbatim.
func (c *Client) Search(ctx context.Context, query, language string, limit, offset int) (*Page, error) {
	if err := c.Ready(language); err != nil {
		return nil, err
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("bibleId", c.bibleIDs[language]).
		SetQueryParams(map[string]string{
			"query":  query,
			"limit":  strconv.Itoa(limit),
			"offset": strconv.Itoa(offset),
		}).
		Get("/bibles/{bibleId}/search")
	if err != nil {
		return nil, fmt.Errorf("bible api: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &StatusError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	return ParsePage(resp.Body())
}

// ParsePage extracts the result array and optional total from a provider
// response body.
func ParsePage(body []byte) (*Page, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json body", ErrUpstream)
	}
	p := &Page{Items: []json.RawMessage{}}
	for _, key := range resultKeys {
		r := gjson.GetBytes(body, key)
		if !r.Exists() || r.Type == gjson.Null {
			continue
		}
		if r.IsArray() {
			for _, it := range r.Array() {
				p.Items = append(p.Items, json.RawMessage(it.Raw))
			}
		}
		break
	}
	if t := gjson.GetBytes(body, "data.total"); t.Type == gjson.Number {
		n := int(t.Int())
		p.Total = &n
	}
	return p, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
