// Package handlers implements the HTTP endpoints of the Bible-study API.
//
// Handlers are transport-thin: they parse and validate input, resolve the
// caller and content language, delegate to a service and map its errors onto
// the standard envelope (see response.go and errors.go).
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/tbourn/bible-study-backend/internal/ai"
	"github.com/tbourn/bible-study-backend/internal/domain"
	"github.com/tbourn/bible-study-backend/internal/http/middleware"
	"github.com/tbourn/bible-study-backend/internal/scheduler"
	"github.com/tbourn/bible-study-backend/internal/services"
)

//
// Service contracts
//

// SearchService resolves search pages.
type SearchService interface {
	Search(ctx context.Context, req services.SearchRequest) (*services.SearchPage, error)
}

// DevotionalService runs the daily pipeline and serves devotionals.
type DevotionalService interface {
	Run(ctx context.Context) services.Result
	Today(ctx context.Context, language string) (*domain.Devotional, error)
	ByDate(ctx context.Context, date, language string) (*domain.Devotional, error)
	List(ctx context.Context, limit int, language string) ([]domain.Devotional, error)
}

// SavedService manages a user's bookmarks.
type SavedService interface {
	IsDevotionalSaved(ctx context.Context, userID, devotionalID string) (bool, error)
	SaveDevotional(ctx context.Context, userID, devotionalID string) (*services.SaveResult, error)
	UnsaveDevotional(ctx context.Context, userID, devotionalID string) (*services.SaveResult, error)
	ListDevotionals(ctx context.Context, userID, language string) ([]services.SavedDevotional, error)
	DevotionalsStats(ctx context.Context, userID string) (int64, *time.Time, error)

	IsVerseSaved(ctx context.Context, userID, reference, text string) (bool, error)
	SaveVerse(ctx context.Context, userID, reference, text, language string, raw json.RawMessage) (*services.SaveResult, error)
	UnsaveVerse(ctx context.Context, userID, reference, text string) (*services.SaveResult, error)
	ListVerses(ctx context.Context, userID string) ([]domain.SavedVerse, error)
	VersesStats(ctx context.Context, userID string) (int64, *time.Time, error)
}

// LoginService tracks daily logins.
type LoginService interface {
	Record(ctx context.Context, userID string) (*services.LoginRecord, error)
	List(ctx context.Context, userID string) ([]domain.DailyLogin, error)
	HasLoggedInToday(ctx context.Context, userID string) (bool, error)
	Weekly(ctx context.Context, userID string) ([]services.WeekDay, error)
	Stats(ctx context.Context, userID string) (*services.LoginStats, error)
	Comparison(ctx context.Context, userID string) (*services.WeeklyComparison, error)
}

// JobRunner exposes background jobs.
type JobRunner interface {
	List() []scheduler.Info
	Get(name string) (*scheduler.Info, error)
	Run(ctx context.Context, name string) error
}

// VerseSummarizer generates on-demand verse summaries.
type VerseSummarizer interface {
	Summarize(ctx context.Context, verse, reference, language string) ai.Summary
}

// Services bundles the dependencies of Handlers. Nil members leave their
// endpoints unmounted by the router.
type Services struct {
	Search      SearchService
	Devotionals DevotionalService
	Saved       SavedService
	Logins      LoginService
	Jobs        JobRunner
	Summaries   VerseSummarizer
}

// Handlers groups all endpoints.
type Handlers struct {
	search    SearchService
	devos     DevotionalService
	saved     SavedService
	logins    LoginService
	jobs      JobRunner
	summaries VerseSummarizer
	matcher   language.Matcher
}

// New binds Handlers to svc.
func New(svc Services) *Handlers {
	return &Handlers{
		search:    svc.Search,
		devos:     svc.Devotionals,
		saved:     svc.Saved,
		logins:    svc.Logins,
		jobs:      svc.Jobs,
		summaries: svc.Summaries,
		matcher:   language.NewMatcher([]language.Tag{language.Portuguese, language.English}),
	}
}

//
// Helpers
//

// userID returns the caller resolved by the identity middleware, or "".
func userID(c *gin.Context) string { return middleware.UserID(c) }

// contentLanguage resolves the content language: an explicit ?language=
// must be pt or en; otherwise Accept-Language is matched, defaulting to pt.
func (h *Handlers) contentLanguage(c *gin.Context) (string, error) {
	if q := c.Query("language"); q != "" {
		return services.ResolveLanguage(q, domain.LangPT)
	}
	tags, _, err := language.ParseAcceptLanguage(c.GetHeader("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return domain.LangPT, nil
	}
	_, idx, conf := h.matcher.Match(tags...)
	if conf == language.No || idx != 1 {
		return domain.LangPT, nil
	}
	return domain.LangEN, nil
}

// notModified sets a weak ETag for the user's list and reports whether the
// client copy is current.
func notModified(c *gin.Context, kind, uid string, count int64, last *time.Time) bool {
	var ts int64
	if last != nil {
		ts = last.UnixNano()
	}
	etag := fmt.Sprintf(`W/"%s:%s:%d:%d"`, kind, uid, count, ts)
	c.Header("ETag", etag)
	for _, inm := range strings.Split(c.GetHeader("If-None-Match"), ",") {
		if strings.TrimSpace(inm) == etag {
			c.Status(http.StatusNotModified)
			return true
		}
	}
	return false
}
