// Package feed fetches and parses the daily devotional content feed.
//
// The feed is a single JSON object whose field names vary; each logical
// field is read from the first non-empty alias. The optional date is parsed
// best-effort into YYYY-MM-DD (UTC) and falls back to the current day.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoVerse is returned when the feed carries no verse text.
var ErrNoVerse = errors.New("no verse in feed")

var (
	verseKeys     = []string{"text", "verse", "Verse", "scripture"}
	referenceKeys = []string{"ref", "reference", "Reference", "scriptureReference"}
	titleKeys     = []string{"title", "Title", "titleText"}
	contentKeys   = []string{"content", "Content", "body"}
	dateKeys      = []string{"date", "Date"}
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"Jan 2, 2006",
	"Monday, January 2, 2006",
	"01/02/2006",
	time.RFC1123,
	time.RFC1123Z,
}

// Entry is one parsed feed document.
type Entry struct {
	Date      string
	Title     string
	Content   string
	Verse     string
	Reference string
	Raw       json.RawMessage
}

// Client fetches the feed.
type Client struct {
	http *resty.Client
	url  string
	now  func() time.Time
}

// New returns a Client for url.
func New(url string, timeout time.Duration) *Client {
	hc := resty.New().SetHeader("Accept", "application/json")
	if timeout > 0 {
		hc.SetTimeout(timeout)
	}
	return &Client{http: hc, url: url, now: time.Now}
}

// Fetch downloads and parses today's entry. Non-2xx responses and bodies
// without a verse are errors.
func (c *Client) Fetch(ctx context.Context) (*Entry, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("feed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("feed: status %d", resp.StatusCode())
	}
	return Parse(resp.Body(), c.now())
}

// Parse maps a raw feed body to an Entry. now supplies the fallback date.
func Parse(body []byte, now time.Time) (*Entry, error) {
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("feed: decode: %w", err)
	}
	e := &Entry{
		Title:     first(m, titleKeys),
		Content:   first(m, contentKeys),
		Verse:     first(m, verseKeys),
		Reference: first(m, referenceKeys),
		Date:      ParseDate(first(m, dateKeys), now),
		Raw:       json.RawMessage(body),
	}
	if e.Verse == "" {
		return nil, ErrNoVerse
	}
	return e, nil
}

// ParseDate returns s as YYYY-MM-DD in UTC, or now's UTC date when s is
// empty or unparseable.
func ParseDate(s string, now time.Time) string {
	s = strings.TrimSpace(s)
	if s != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC().Format("2006-01-02")
			}
		}
	}
	return now.UTC().Format("2006-01-02")
}

func first(m map[string]any, keys []string) string {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch x := v.(type) {
		case string:
			s = x
		case float64, bool:
			s = fmt.Sprint(x)
		default:
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
