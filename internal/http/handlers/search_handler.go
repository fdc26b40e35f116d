package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/bible-study-backend/internal/services"
	"github.com/tbourn/bible-study-backend/internal/utils"
)

// Search godoc
// @Summary      Search the Bible
// @Description  Returns one page of results for q, blending the result cache with at most one upstream fetch. Continue with cursor from the previous page.
// @Tags         search
// @Produce      json
// @Param        q            query     string  true   "Search query, e.g. \"amor\" or \"João 3:16\""
// @Param        language     query     string  false  "pt or en (default from Accept-Language, then pt)"
// @Param        cursor       query     int     false  "Offset into the cached results"  default(0)
// @Param        pageSize     query     int     false  "Page size (1..100)"              default(20)
// @Param        dedupe       query     bool    false  "Drop duplicates by reference and text prefix"
// @Success      200          {object}  services.SearchPage
// @Failure      400          {object}  ErrorResponse
// @Failure      429          {object}  ErrorResponse
// @Failure      502          {object}  ErrorResponse
// @Failure      503          {object}  ErrorResponse
// @Router       /search [get]
func (h *Handlers) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "q is required")
		return
	}
	lang, err := h.contentLanguage(c)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}

	page, err := h.search.Search(c.Request.Context(), services.SearchRequest{
		Query:    q,
		Language: lang,
		Cursor:   max(utils.AtoiDefault(c.Query("cursor"), 0), 0),
		PageSize: utils.AtoiDefault(c.Query("pageSize"), services.DefaultPageSize),
		Dedupe:   utils.BoolDefault(c.Query("dedupe"), false),
	})
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, page)
}
