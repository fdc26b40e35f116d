// Package services – SearchService
//
// This file implements the Search Orchestrator: it serves a page of Bible
// search results from the persisted cache and calls the upstream provider
// only for the remainder, appending what it fetched to the cache.
//
// Two independent offsets are involved. The client cursor indexes into the
// cumulative cached results for (term, language); the upstream offset
// (next_offset) indexes into the provider's own pagination.
//
// Observability: Search and Evict are OpenTelemetry-instrumented and feed
// the bible_search_* and search_cache_evictions_total counters.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/bibleapi"
	"github.com/tbourn/bible-study-backend/internal/domain"
	"github.com/tbourn/bible-study-backend/internal/observability"
	"github.com/tbourn/bible-study-backend/internal/repo"
	"github.com/tbourn/bible-study-backend/internal/search"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Page size bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// SearchProvider is the upstream search contract used by SearchService.
type SearchProvider interface {
	// Ready reports whether a search in language could be issued.
	Ready(language string) error
	// Search fetches up to limit results starting at the provider offset.
	Search(ctx context.Context, query, language string, limit, offset int) (*bibleapi.Page, error)
}

// SearchRequest is one page request.
type SearchRequest struct {
	Query    string
	Language string
	Cursor   int
	PageSize int
	// Dedupe drops duplicates (reference + text prefix) from the page.
	Dedupe bool
}

// SearchPage is the response envelope of a search.
type SearchPage struct {
	Query     string            `json:"query"`
	Language  string            `json:"language"`
	Results   []json.RawMessage `json:"results"`
	Cursor    int               `json:"cursor"`
	Total     *int              `json:"total,omitempty"`
	FromCache int               `json:"fromCache"`
	FromAPI   int               `json:"fromApi"`
	HasMore   bool              `json:"hasMore"`
	QueryKind search.QueryKind  `json:"queryKind"`
}

// SearchService resolves search pages blending cache and upstream.
type SearchService struct {
	DB       *gorm.DB
	Provider SearchProvider

	// Eviction bounds; zero disables the respective rule.
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Now is overridable in tests.
	Now func() time.Time
}

// NewSearchService constructs a SearchService.
func NewSearchService(db *gorm.DB, p SearchProvider, ttl time.Duration, maxEntries int) *SearchService {
	return &SearchService{DB: db, Provider: p, CacheTTL: ttl, CacheMaxEntries: maxEntries, Now: time.Now}
}

func (s *SearchService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Search returns one page for req.
//
// Semantics:
//   - the cache key is the normalized term; the provider receives req.Query
//     unmodified so reference queries like "João 3:16" reach it intact;
//   - at most one upstream call, for the shortfall, at the cached next_offset;
//   - upstream or cache failures abort the request, no partial page;
//   - the cache write is a compare-and-swap on next_offset; losing the race
//     keeps the page but skips the write.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*SearchPage, error) {
	tr := otel.Tracer("services/SearchService")
	ctx, span := tr.Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("search.language", req.Language),
			attribute.Int("search.cursor", req.Cursor),
			attribute.Int("search.page_size", req.PageSize),
		),
	)
	defer span.End()

	term := search.NormalizeTerm(req.Query)
	if term == "" {
		return nil, ErrEmptyQuery
	}
	if !domain.ValidLanguage(req.Language) {
		return nil, ErrInvalidLanguage
	}
	cursor := req.Cursor
	if cursor < 0 {
		cursor = 0
	}
	pageSize := clampPageSize(req.PageSize)

	entry, err := repo.GetSearchCache(ctx, s.DB, term, req.Language)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		entry = nil
	case err != nil:
		span.RecordError(err)
		return nil, err
	default:
		if err := repo.TouchSearchCache(ctx, s.DB, entry.ID, s.now()); err != nil {
			span.RecordError(err)
			return nil, err
		}
	}

	var (
		cached     []json.RawMessage
		total      *int
		nextOffset int
	)
	if entry != nil {
		cached = entry.Results
		total = entry.Total
		nextOffset = entry.NextOffset
	}

	take := min(max(len(cached)-cursor, 0), pageSize)
	results := make([]json.RawMessage, 0, pageSize)
	if take > 0 {
		results = append(results, cached[cursor:cursor+take]...)
	}

	fetched := 0
	if still := pageSize - len(results); still > 0 {
		page, err := s.Provider.Search(ctx, req.Query, req.Language, still, nextOffset)
		if err != nil {
			span.RecordError(err)
			log.Error().Err(err).Str("term", term).Str("language", req.Language).Msg("upstream search failed")
			return nil, err
		}
		fetched = len(page.Items)
		if fetched > 0 {
			results = append(results, page.Items...)

			merged := make([]json.RawMessage, 0, len(cached)+fetched)
			merged = append(append(merged, cached...), page.Items...)
			total = mergeTotal(total, page.Total)
			if err := s.persist(ctx, entry, term, req.Language, merged, total, nextOffset, nextOffset+fetched); err != nil {
				span.RecordError(err)
				return nil, err
			}
			cached = merged
		}
	}

	newCursor := cursor + len(results)
	out := &SearchPage{
		Query:     req.Query,
		Language:  req.Language,
		Results:   results,
		Cursor:    newCursor,
		Total:     total,
		FromCache: len(results) - fetched,
		FromAPI:   fetched,
		HasMore:   hasMore(newCursor, len(cached), total, fetched),
		QueryKind: search.ParseReference(req.Query).Kind,
	}
	if req.Dedupe {
		out.Results = search.Dedupe(out.Results)
	}

	observability.ObserveSearch(out.FromCache, out.FromAPI)
	span.SetAttributes(
		attribute.Int("search.from_cache", out.FromCache),
		attribute.Int("search.from_api", out.FromAPI),
	)
	return out, nil
}

// persist writes the grown entry. A concurrent writer winning the race is
// logged and ignored since the caller's page is still valid; any other
// failure is returned.
func (s *SearchService) persist(ctx context.Context, entry *domain.SearchCacheEntry, term, language string, results []json.RawMessage, total *int, prevOffset, nextOffset int) error {
	var err error
	if entry == nil {
		_, err = repo.InsertSearchCache(ctx, s.DB, term, language, results, total, nextOffset, s.now())
	} else {
		err = repo.UpdateSearchCache(ctx, s.DB, entry.ID, prevOffset, results, total, nextOffset, s.now())
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrStale), errors.Is(err, repo.ErrDuplicate):
		log.Warn().Str("term", term).Str("language", language).Msg("search cache changed concurrently, write skipped")
		return nil
	}
	log.Error().Err(err).Str("term", term).Str("language", language).Msg("search cache write failed")
	return fmt.Errorf("persist search cache: %w", err)
}

// Evict applies the TTL and size bounds to the search cache and returns the
// number of entries removed.
func (s *SearchService) Evict(ctx context.Context) (int64, error) {
	tr := otel.Tracer("services/SearchService")
	ctx, span := tr.Start(ctx, "Evict")
	defer span.End()

	var cutoff time.Time
	if s.CacheTTL > 0 {
		cutoff = s.now().Add(-s.CacheTTL)
	}
	n, err := repo.EvictSearchCache(ctx, s.DB, cutoff, s.CacheMaxEntries)
	if err != nil {
		span.RecordError(err)
		return n, err
	}
	observability.ObserveEvictions(n)
	span.SetAttributes(attribute.Int64("search.evicted", n))
	return n, nil
}

// mergeTotal never lets a known total shrink or disappear.
func mergeTotal(cached, reported *int) *int {
	if reported == nil {
		return cached
	}
	if cached != nil && *reported < *cached {
		return cached
	}
	v := *reported
	return &v
}

// hasMore is authoritative when the total is known. Otherwise more is
// assumed if cached results remain past the cursor or the provider just
// returned items.
func hasMore(cursor, cachedLen int, total *int, fetched int) bool {
	if total != nil {
		return cursor < *total
	}
	return cursor < cachedLen || fetched > 0
}

func clampPageSize(n int) int {
	switch {
	case n <= 0:
		return DefaultPageSize
	case n > MaxPageSize:
		return MaxPageSize
	}
	return n
}

// ResolveLanguage validates an explicit language or, when empty, falls back
// to def.
func ResolveLanguage(lang, def string) (string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return def, nil
	}
	if !domain.ValidLanguage(lang) {
		return "", ErrInvalidLanguage
	}
	return lang, nil
}
