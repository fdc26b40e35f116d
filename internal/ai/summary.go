package ai

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/bible-study-backend/internal/domain"
	"github.com/tbourn/bible-study-backend/internal/observability"
	"github.com/tbourn/bible-study-backend/internal/retry"
)

// Summary bounds.
const (
	minSummaryRunes   = 10
	minRelated        = 3
	maxRelated        = 5
	minReferenceRunes = 3
	minTextRunes      = 5
)

// ErrModelUnavailable is reported when no model is configured.
var ErrModelUnavailable = errors.New("ai model not configured")

// Summary is the outcome of a summary generation. Success with an empty
// RelatedVerses means only the summary could be recovered.
type Summary struct {
	Success       bool
	Summary       *string
	RelatedVerses []domain.RelatedVerse
	Err           error
}

// Summarizer produces a short devotional summary plus related verses.
type Summarizer struct {
	Model Completer
	Retry retry.Policy
}

type summaryPayload struct {
	Summary       string                `json:"summary"`
	RelatedVerses []domain.RelatedVerse `json:"relatedVerses"`
}

// Summarize asks the model for {summary, relatedVerses} and validates the
// answer. Invalid answers go through Recover; transport failures after
// retries produce Success=false. It never panics or returns an error value
// directly.
func (s *Summarizer) Summarize(ctx context.Context, verse, reference, language string) Summary {
	if s == nil || s.Model == nil {
		log.Warn().Msg("ai model not configured, skipping summary")
		return Summary{Err: ErrModelUnavailable}
	}
	if language != domain.LangEN {
		language = domain.LangPT
	}

	raw, err := s.complete(ctx, "summary", Request{
		Prompt:      summaryPrompt(verse, reference, language),
		Temperature: 0.5,
		MaxTokens:   2000,
	})
	if err != nil {
		log.Error().Err(err).Str("reference", reference).Msg("summary generation failed")
		return Summary{Err: err}
	}

	var p summaryPayload
	verr := decodeFragment(raw, &p)
	if verr == nil {
		verr = validateSummary(p)
	}
	if verr == nil {
		observability.ObserveAICall("summary", "ok")
		sum := p.Summary
		return Summary{Success: true, Summary: &sum, RelatedVerses: p.RelatedVerses}
	}
	observability.ObserveAICall("summary", "invalid")
	log.Warn().Err(verr).Msg("summary failed validation, attempting recovery")

	rec := Recover(raw)
	if rec.NeedsVerses && rec.Summary != "" {
		verses, err := s.relatedVerses(ctx, verse, reference, language)
		if err != nil {
			log.Warn().Err(err).Msg("related verses retry failed, keeping summary only")
		}
		rec.Verses = verses
	}
	if rec.Summary == "" && len(rec.Verses) == 0 {
		return Summary{Err: fmt.Errorf("unrecoverable summary output")}
	}

	out := Summary{Success: true, RelatedVerses: rec.Verses}
	if rec.Summary != "" {
		sum := rec.Summary
		out.Summary = &sum
	}
	if out.RelatedVerses == nil {
		out.RelatedVerses = []domain.RelatedVerse{}
	}
	return out
}

// relatedVerses is the narrower second call used when the first answer had
// a usable summary but no usable verse objects.
func (s *Summarizer) relatedVerses(ctx context.Context, verse, reference, language string) ([]domain.RelatedVerse, error) {
	p := s.Retry
	p.Name = "related_verses"
	return retry.Value(ctx, p, func(ctx context.Context) ([]domain.RelatedVerse, error) {
		raw, err := s.Model.Complete(ctx, Request{
			Prompt:      relatedVersesPrompt(verse, reference, language),
			Temperature: 0.5,
			MaxTokens:   1500,
		})
		if err != nil {
			observability.ObserveAICall("related_verses", "error")
			return nil, err
		}
		var vs []domain.RelatedVerse
		if err := decodeFragment(raw, &vs); err != nil {
			observability.ObserveAICall("related_verses", "invalid")
			return nil, err
		}
		if len(vs) < minRelated || len(vs) > maxRelated {
			observability.ObserveAICall("related_verses", "invalid")
			return nil, fmt.Errorf("expected %d-%d related verses, got %d", minRelated, maxRelated, len(vs))
		}
		observability.ObserveAICall("related_verses", "ok")
		return vs, nil
	})
}

func (s *Summarizer) complete(ctx context.Context, op string, req Request) (string, error) {
	p := s.Retry
	p.Name = op
	return retry.Value(ctx, p, func(ctx context.Context) (string, error) {
		raw, err := s.Model.Complete(ctx, req)
		if err != nil {
			observability.ObserveAICall(op, "error")
		}
		return raw, err
	})
}

func validateSummary(p summaryPayload) error {
	if utf8.RuneCountInString(p.Summary) < minSummaryRunes {
		return fmt.Errorf("summary shorter than %d characters", minSummaryRunes)
	}
	if n := len(p.RelatedVerses); n < minRelated || n > maxRelated {
		return fmt.Errorf("expected %d-%d related verses, got %d", minRelated, maxRelated, n)
	}
	for i, v := range p.RelatedVerses {
		if utf8.RuneCountInString(v.Reference) < minReferenceRunes {
			return fmt.Errorf("related verse %d: reference too short", i)
		}
		if utf8.RuneCountInString(v.Text) < minTextRunes {
			return fmt.Errorf("related verse %d: text too short", i)
		}
	}
	return nil
}
