// Package services defines the business logic for Bible search, the daily
// devotional pipeline, saved items and daily logins. This file centralizes
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import (
	"errors"

	"github.com/tbourn/bible-study-backend/internal/bibleapi"
)

var (
	// ErrNotAuthenticated is returned by mutations called without a user id.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrMissingAPIKey is returned when a search needs the provider but no
	// key is configured.
	ErrMissingAPIKey = bibleapi.ErrMissingAPIKey

	// ErrMissingBibleID is returned when no bible id is configured for the
	// requested language.
	ErrMissingBibleID = bibleapi.ErrMissingBibleID

	// ErrInvalidLanguage is returned for languages other than pt and en.
	ErrInvalidLanguage = errors.New("language must be pt or en")

	// ErrEmptyQuery is returned for a blank search query.
	ErrEmptyQuery = errors.New("query is empty")

	// ErrDevotionalNotFound indicates that no devotional exists for the
	// requested id or date.
	ErrDevotionalNotFound = errors.New("devotional not found")

	// ErrInvalidDate is returned for dates not in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

	// ErrInvalidVerse is returned when a verse reference or text is blank.
	ErrInvalidVerse = errors.New("reference and text are required")
)
