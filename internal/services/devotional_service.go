// Package services – DevotionalService
//
// This file implements the daily devotional pipeline and its read queries.
//
// The pipeline makes sure one complete record (translation, summary and
// related verses) exists per day while calling the AI model at most once per
// distinct verse. Runs may race (scheduler, manual trigger); they are
// serialized by a lease on "devotional:<date>" and the record is re-read
// before every expensive step so a run reuses what a previous one stored.
//
// Failures never escape Run: they are reported in Result.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/bible-study-backend/internal/ai"
	"github.com/tbourn/bible-study-backend/internal/domain"
	"github.com/tbourn/bible-study-backend/internal/feed"
	"github.com/tbourn/bible-study-backend/internal/lock"
	"github.com/tbourn/bible-study-backend/internal/observability"
	"github.com/tbourn/bible-study-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Skip reasons reported in Result.Reason.
const (
	ReasonComplete   = "complete"
	ReasonInProgress = "in_progress"
)

// List bounds.
const (
	DefaultDevotionalLimit = 30
	MaxDevotionalLimit     = 100
)

const dateLayout = "2006-01-02"

// ContentFetcher returns the current devotional feed entry.
type ContentFetcher interface {
	Fetch(ctx context.Context) (*feed.Entry, error)
}

// Translator translates a verse and its reference; it never fails.
type Translator interface {
	Translate(ctx context.Context, verse, reference string) ai.Translation
}

// Summarizer generates a summary with related verses; it never fails.
type Summarizer interface {
	Summarize(ctx context.Context, verse, reference, language string) ai.Summary
}

// Result reports the outcome of one pipeline run.
type Result struct {
	Success bool   `json:"success"`
	Skipped bool   `json:"skipped,omitempty"`
	Action  string `json:"action,omitempty"`
	Date    string `json:"date,omitempty"`
	Reason  string `json:"reason,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DevotionalService runs the pipeline and serves devotional queries.
type DevotionalService struct {
	DB         *gorm.DB
	Feed       ContentFetcher
	Translator Translator
	Summarizer Summarizer

	// Locker serializes runs per date; nil disables locking.
	Locker   lock.Locker
	LeaseTTL time.Duration

	// Retention deletes devotionals older than now-Retention in Prune; zero
	// keeps everything.
	Retention time.Duration

	// Now is overridable in tests.
	Now func() time.Time
}

func (s *DevotionalService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Run executes the pipeline once.
//
// Steps:
//  1. today's record complete → skipped;
//  2. take the lease (held elsewhere → skipped, in_progress);
//  3. fetch the feed entry;
//  4. re-read the record for the entry date; verse changed re-arms both AI
//     steps, otherwise only missing fields are generated;
//  5. re-read before each AI call and reuse a field stored meanwhile;
//  6. re-read before persisting; complete for this verse → skipped;
//  7. upsert, preserving fields not recomputed.
func (s *DevotionalService) Run(ctx context.Context) (res Result) {
	tr := otel.Tracer("services/DevotionalService")
	ctx, span := tr.Start(ctx, "Run")
	defer span.End()

	today := s.now().Format(dateLayout)
	res.Date = today
	defer func() {
		observability.ObservePipelineRun(outcome(res))
		span.SetAttributes(
			attribute.Bool("devotional.success", res.Success),
			attribute.Bool("devotional.skipped", res.Skipped),
			attribute.String("devotional.date", res.Date),
		)
		ev := log.Info()
		if !res.Success {
			ev = log.Error()
		}
		ev.Str("job", "daily-devotional").
			Str("date", res.Date).
			Bool("skipped", res.Skipped).
			Str("action", res.Action).
			Str("reason", res.Reason).
			Str("error", res.Error).
			Msg("devotional pipeline finished")
	}()

	// check 1
	existing, err := s.byDate(ctx, today)
	if err != nil {
		return failed(today, err)
	}
	if existing.IsComplete() {
		return Result{Success: true, Skipped: true, Date: today, Reason: ReasonComplete}
	}

	if s.Locker != nil {
		lease, err := s.Locker.Acquire(ctx, "devotional:"+today, s.leaseTTL())
		if errors.Is(err, lock.ErrNotAcquired) {
			return Result{Success: true, Skipped: true, Date: today, Reason: ReasonInProgress}
		}
		if err != nil {
			return failed(today, fmt.Errorf("acquire lease: %w", err))
		}
		defer func() {
			// detached: a cancelled run must still free the lease
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				log.Warn().Err(err).Str("date", today).Msg("lease release failed")
			}
		}()
	}

	entry, err := s.Feed.Fetch(ctx)
	if err != nil {
		span.RecordError(err)
		return failed(today, err)
	}
	date := entry.Date
	span.SetAttributes(attribute.String("devotional.feed_date", date))

	// check 2
	existing, err = s.byDate(ctx, date)
	if err != nil {
		return failed(date, err)
	}
	changed := verseChanged(existing, entry)
	if !changed && existing.IsComplete() {
		return Result{Success: true, Skipped: true, Date: date, Reason: ReasonComplete}
	}
	needTranslation := changed || !hasTranslation(existing)
	needSummary := changed || !hasSummary(existing)

	var trans ai.Translation
	if needTranslation {
		cur, err := s.byDate(ctx, date)
		if err != nil {
			return failed(date, err)
		}
		if !verseChanged(cur, entry) && hasTranslation(cur) {
			trans = ai.Translation{VerseTranslated: cur.VerseTranslated, ReferenceTranslated: cur.ReferenceTranslated}
		} else {
			trans = s.Translator.Translate(ctx, entry.Verse, entry.Reference)
		}
	} else {
		trans = ai.Translation{VerseTranslated: existing.VerseTranslated, ReferenceTranslated: existing.ReferenceTranslated}
	}

	var sum ai.Summary
	if needSummary {
		cur, err := s.byDate(ctx, date)
		if err != nil {
			return failed(date, err)
		}
		if !verseChanged(cur, entry) && hasSummary(cur) {
			sum = ai.Summary{Success: true, Summary: cur.Summary, RelatedVerses: cur.RelatedVerses}
		} else {
			verse, ref := entry.Verse, entry.Reference
			if trans.VerseTranslated != nil {
				verse = *trans.VerseTranslated
			}
			if trans.ReferenceTranslated != nil {
				ref = *trans.ReferenceTranslated
			}
			sum = s.Summarizer.Summarize(ctx, verse, ref, domain.LangPT)
		}
	} else {
		sum = ai.Summary{Success: true, Summary: existing.Summary, RelatedVerses: existing.RelatedVerses}
	}

	// check 3
	cur, err := s.byDate(ctx, date)
	if err != nil {
		return failed(date, err)
	}
	if !verseChanged(cur, entry) && cur.IsComplete() {
		return Result{Success: true, Skipped: true, Date: date, Reason: ReasonComplete}
	}

	rec := merge(cur, entry, trans, sum)
	action, err := repo.UpsertDevotional(ctx, s.DB, rec)
	if err != nil {
		span.RecordError(err)
		return failed(date, err)
	}
	return Result{Success: true, Action: action, Date: date}
}

// merge builds the record to persist. Fields this run did not produce are
// kept from cur when the verse is unchanged.
func merge(cur *domain.Devotional, e *feed.Entry, t ai.Translation, sum ai.Summary) *domain.Devotional {
	rec := &domain.Devotional{}
	if cur != nil && !verseChanged(cur, e) {
		cp := *cur
		rec = &cp
	}
	rec.Date = e.Date
	rec.Title = e.Title
	rec.Content = e.Content
	rec.Verse = e.Verse
	rec.Reference = e.Reference
	if len(e.Raw) > 0 {
		rec.RawData = datatypes.JSON(e.Raw)
	}
	if t.VerseTranslated != nil {
		rec.VerseTranslated = t.VerseTranslated
		rec.ReferenceTranslated = t.ReferenceTranslated
	}
	if sum.Success && sum.Summary != nil {
		rec.Summary = sum.Summary
		if len(sum.RelatedVerses) > 0 {
			rec.RelatedVerses = sum.RelatedVerses
		}
	}
	return rec
}

func (s *DevotionalService) byDate(ctx context.Context, date string) (*domain.Devotional, error) {
	d, err := repo.GetDevotionalByDate(ctx, s.DB, date)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	return d, err
}

func (s *DevotionalService) leaseTTL() time.Duration {
	if s.LeaseTTL > 0 {
		return s.LeaseTTL
	}
	return 2 * time.Minute
}

// verseChanged reports whether e carries a different verse or reference
// than d; a missing record counts as changed.
func verseChanged(d *domain.Devotional, e *feed.Entry) bool {
	return d == nil || d.Verse != e.Verse || d.Reference != e.Reference
}

func hasTranslation(d *domain.Devotional) bool {
	return d != nil && d.VerseTranslated != nil && *d.VerseTranslated != ""
}

func hasSummary(d *domain.Devotional) bool {
	return d != nil && d.Summary != nil && *d.Summary != "" && len(d.RelatedVerses) > 0
}

func failed(date string, err error) Result {
	return Result{Success: false, Date: date, Error: err.Error()}
}

func outcome(r Result) string {
	switch {
	case !r.Success:
		return "error"
	case r.Skipped:
		return "skipped_" + r.Reason
	default:
		return r.Action
	}
}

// Today returns today's devotional (UTC), falling back to the most recently
// created one. For pt the translated verse and reference are swapped in.
func (s *DevotionalService) Today(ctx context.Context, language string) (*domain.Devotional, error) {
	tr := otel.Tracer("services/DevotionalService")
	ctx, span := tr.Start(ctx, "Today", trace.WithAttributes(attribute.String("language", language)))
	defer span.End()

	d, err := repo.GetDevotionalByDate(ctx, s.DB, s.now().Format(dateLayout))
	if errors.Is(err, repo.ErrNotFound) {
		d, err = repo.LatestDevotional(ctx, s.DB)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDevotionalNotFound
	}
	if err != nil {
		return nil, err
	}
	return Localize(d, language), nil
}

// ByDate returns the devotional for a YYYY-MM-DD date.
func (s *DevotionalService) ByDate(ctx context.Context, date, language string) (*domain.Devotional, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}
	d, err := repo.GetDevotionalByDate(ctx, s.DB, date)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDevotionalNotFound
	}
	if err != nil {
		return nil, err
	}
	return Localize(d, language), nil
}

// List returns the most recently created devotionals.
func (s *DevotionalService) List(ctx context.Context, limit int, language string) ([]domain.Devotional, error) {
	if limit <= 0 {
		limit = DefaultDevotionalLimit
	}
	if limit > MaxDevotionalLimit {
		limit = MaxDevotionalLimit
	}
	items, err := repo.ListDevotionals(ctx, s.DB, limit)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = *Localize(&items[i], language)
	}
	return items, nil
}

// Prune deletes devotionals older than the retention window.
func (s *DevotionalService) Prune(ctx context.Context) (int64, error) {
	if s.Retention <= 0 {
		return 0, nil
	}
	cutoff := s.now().Add(-s.Retention).Format(dateLayout)
	return repo.DeleteDevotionalsBefore(ctx, s.DB, cutoff)
}

// Localize returns a copy of d with the pt translation swapped in when the
// requested language is pt and a translation exists.
func Localize(d *domain.Devotional, language string) *domain.Devotional {
	if d == nil {
		return nil
	}
	out := *d
	if language == domain.LangPT && hasTranslation(d) {
		out.Verse = *d.VerseTranslated
		if d.ReferenceTranslated != nil && *d.ReferenceTranslated != "" {
			out.Reference = *d.ReferenceTranslated
		}
	}
	return &out
}
