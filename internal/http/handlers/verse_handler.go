package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/bible-study-backend/internal/ai"
	"github.com/tbourn/bible-study-backend/internal/domain"
	"github.com/tbourn/bible-study-backend/internal/services"
)

// VerseSummaryRequest is the body of POST /verses/summary.
type VerseSummaryRequest struct {
	Verse     string `json:"verse"     binding:"required" example:"Porque Deus amou o mundo de tal maneira..."`
	Reference string `json:"reference"                    example:"João 3:16"`
	Language  string `json:"language"                     example:"pt"`
}

// VerseSummary is a generated summary with related verses.
type VerseSummary struct {
	Success       bool                  `json:"success"`
	Summary       *string               `json:"summary"`
	RelatedVerses []domain.RelatedVerse `json:"relatedVerses"`
}

// SummarizeVerse godoc
// @Summary      Summarize any verse
// @Description  Generates a short summary plus 3-5 related verses on demand. Nothing is stored.
// @Tags         verses
// @Accept       json
// @Produce      json
// @Param        body  body      VerseSummaryRequest  true  "Verse"
// @Success      200   {object}  VerseSummary
// @Failure      400   {object}  ErrorResponse
// @Failure      502   {object}  ErrorResponse
// @Failure      503   {object}  ErrorResponse
// @Router       /verses/summary [post]
func (h *Handlers) SummarizeVerse(c *gin.Context) {
	var body VerseSummaryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "verse is required")
		return
	}
	lang, err := services.ResolveLanguage(body.Language, domain.LangPT)
	if err != nil {
		failErr(c, err, ErrCodeBadRequest)
		return
	}

	sum := h.summaries.Summarize(c.Request.Context(), body.Verse, body.Reference, lang)
	switch {
	case errors.Is(sum.Err, ai.ErrModelUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeSummaryUnavailable, "summary model not configured")
		return
	case !sum.Success:
		fail(c, http.StatusBadGateway, ErrCodeUpstreamFailed, "summary generation failed")
		return
	}
	related := sum.RelatedVerses
	if related == nil {
		related = []domain.RelatedVerse{}
	}
	ok(c, http.StatusOK, VerseSummary{Success: true, Summary: sum.Summary, RelatedVerses: related})
}
