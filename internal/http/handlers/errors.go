// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case. Generic codes mirror HTTP status semantics;
// domain codes name the operation that failed. Clients branch on the code,
// never on the message.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/bible-study-backend/internal/bibleapi"
	"github.com/tbourn/bible-study-backend/internal/scheduler"
	"github.com/tbourn/bible-study-backend/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeInvalidLanguage    = "invalid_language"
	ErrCodeSearchUnavailable  = "search_unavailable"
	ErrCodeSummaryUnavailable = "summary_unavailable"
	ErrCodeUpstreamFailed     = "upstream_failed"
	ErrCodePipelineFailed     = "pipeline_failed"
	ErrCodeSaveFailed         = "save_failed"
	ErrCodeListFailed         = "list_failed"
)

// failErr maps a service error onto the envelope. Unknown errors become a
// 500 with fallbackCode.
func failErr(c *gin.Context, err error, fallbackCode string) {
	switch {
	case errors.Is(err, services.ErrEmptyQuery),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidVerse):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidLanguage):
		fail(c, http.StatusBadRequest, ErrCodeInvalidLanguage, err.Error())
	case errors.Is(err, services.ErrNotAuthenticated):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, services.ErrDevotionalNotFound),
		errors.Is(err, scheduler.ErrJobNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrMissingAPIKey),
		errors.Is(err, services.ErrMissingBibleID):
		fail(c, http.StatusServiceUnavailable, ErrCodeSearchUnavailable, "search provider not configured")
	case errors.Is(err, bibleapi.ErrUpstream):
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, "search provider failed")
	default:
		fail(c, http.StatusInternalServerError, fallbackCode, err.Error())
	}
}
