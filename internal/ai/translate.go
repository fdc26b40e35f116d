package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/bible-study-backend/internal/observability"
	"github.com/tbourn/bible-study-backend/internal/retry"
)

var (
	errEmptyTranslation = errors.New("empty translation")
	errReferenceEcho    = errors.New("translation starts with a bible reference")
)

// Translation is the pt-BR rendering of a verse and its reference. Both are
// nil when translation is unavailable.
type Translation struct {
	VerseTranslated     *string
	ReferenceTranslated *string
}

// Translator translates verses to Brazilian Portuguese.
type Translator struct {
	Model Completer
	Retry retry.Policy
}

// Translate returns the translated verse and reference. It never fails: a
// missing model or an exhausted retry budget yields an empty Translation.
func (t *Translator) Translate(ctx context.Context, verse, reference string) Translation {
	if t == nil || t.Model == nil {
		log.Warn().Msg("ai model not configured, skipping translation")
		return Translation{}
	}

	verseOut, err := t.call(ctx, "translate_verse", Request{
		System:      translationSystem,
		Prompt:      translateVersePrompt(verse, reference),
		Temperature: 0.3,
		MaxTokens:   500,
	}, true)
	if err != nil {
		log.Error().Err(err).Str("reference", reference).Msg("verse translation failed")
		return Translation{}
	}

	out := Translation{VerseTranslated: &verseOut}
	if reference == "" {
		return out
	}

	refOut, err := t.call(ctx, "translate_reference", Request{
		System:      translationSystem,
		Prompt:      translateReferencePrompt(reference),
		Temperature: 0.2,
		MaxTokens:   50,
	}, false)
	if err != nil {
		log.Error().Err(err).Str("reference", reference).Msg("reference translation failed")
		return Translation{}
	}
	out.ReferenceTranslated = &refOut
	return out
}

// call runs one retried completion and returns the cleaned translation.
// Output that fails validation counts as a failed attempt. Verse output is
// checked for a reference echo and cleaned; reference output is only
// unquoted.
func (t *Translator) call(ctx context.Context, op string, req Request, isVerse bool) (string, error) {
	p := t.Retry
	p.Name = op
	res, err := retry.Value(ctx, p, func(ctx context.Context) (string, error) {
		raw, err := t.Model.Complete(ctx, req)
		if err != nil {
			observability.ObserveAICall(op, "error")
			return "", err
		}
		text := parseTranslation(raw)
		if text == "" {
			observability.ObserveAICall(op, "invalid")
			return "", errEmptyTranslation
		}
		if isVerse && startsWithReference(text) {
			observability.ObserveAICall(op, "invalid")
			return "", errReferenceEcho
		}
		observability.ObserveAICall(op, "ok")
		return text, nil
	})
	if err != nil {
		return "", err
	}
	cleaned := strings.TrimSpace(strings.Trim(res, `"'`))
	if isVerse {
		cleaned = CleanTranslation(res)
	}
	if cleaned == "" {
		return "", errEmptyTranslation
	}
	return cleaned, nil
}

// parseTranslation reads {"translation": "..."}; plain-text answers are
// accepted as the translation itself.
func parseTranslation(raw string) string {
	var v struct {
		Translation string `json:"translation"`
	}
	if err := decodeFragment(raw, &v); err == nil {
		return strings.TrimSpace(v.Translation)
	}
	return strings.TrimSpace(raw)
}
