package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/bible-study-backend/internal/domain"
	"github.com/tbourn/bible-study-backend/internal/http/middleware"
	"github.com/tbourn/bible-study-backend/internal/services"
	"github.com/tbourn/bible-study-backend/internal/utils"
)

// TodayDevotional godoc
// @Summary      Today's devotional
// @Description  Returns today's devotional (UTC), or the most recent one when today's has not been generated yet. For pt the translated verse and reference are returned.
// @Tags         devotionals
// @Produce      json
// @Param        language  query     string  false  "pt or en"
// @Success      200       {object}  domain.Devotional
// @Failure      400       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /devotionals/today [get]
func (h *Handlers) TodayDevotional(c *gin.Context) {
	lang, err := h.contentLanguage(c)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	d, err := h.devos.Today(c.Request.Context(), lang)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, d)
}

// ListDevotionals godoc
// @Summary      List devotionals
// @Description  Most recently created devotionals first.
// @Tags         devotionals
// @Produce      json
// @Param        limit     query     int     false  "Max items (1..100)"  default(30)
// @Param        language  query     string  false  "pt or en"
// @Success      200       {array}   domain.Devotional
// @Failure      400       {object}  ErrorResponse
// @Router       /devotionals [get]
func (h *Handlers) ListDevotionals(c *gin.Context) {
	lang, err := h.contentLanguage(c)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	limit := utils.Clamp(
		utils.AtoiDefault(c.Query("limit"), services.DefaultDevotionalLimit),
		1, services.MaxDevotionalLimit,
	)
	items, err := h.devos.List(c.Request.Context(), limit, lang)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// DevotionalByDate godoc
// @Summary      Devotional by date
// @Tags         devotionals
// @Produce      json
// @Param        date      path      string  true   "YYYY-MM-DD"
// @Param        language  query     string  false  "pt or en"
// @Success      200       {object}  domain.Devotional
// @Failure      400       {object}  ErrorResponse
// @Failure      404       {object}  ErrorResponse
// @Router       /devotionals/{date} [get]
func (h *Handlers) DevotionalByDate(c *gin.Context) {
	lang, err := h.contentLanguage(c)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	d, err := h.devos.ByDate(c.Request.Context(), c.Param("date"), lang)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, d)
}

// FetchDevotional godoc
// @Summary      Run the devotional pipeline
// @Description  Runs the daily pipeline synchronously. Safe to call at any time: a complete devotional or a run in progress yields skipped=true.
// @Tags         devotionals
// @Produce      json
// @Param        Idempotency-Key  header    string  false  "Replay protection key"
// @Success      200              {object}  services.Result
// @Failure      502              {object}  ErrorResponse
// @Router       /devotionals/fetch [post]
func (h *Handlers) FetchDevotional(c *gin.Context) {
	// The run outlives a disconnecting client so the lease is always released.
	res := h.devos.Run(context.WithoutCancel(c.Request.Context()))
	if !res.Success {
		fail(c, http.StatusBadGateway, ErrCodePipelineFailed, res.Error)
		return
	}
	ok(c, http.StatusOK, res)
}

// WidgetDevotional godoc
// @Summary      Devotional for home-screen widgets
// @Description  Open to any origin. Errors use a minimal {error} body.
// @Tags         widget
// @Produce      json
// @Param        language  query     string  false  "pt (default) or en"
// @Success      200       {object}  domain.Devotional
// @Failure      404       {object}  WidgetError
// @Failure      500       {object}  WidgetError
// @Router       /widget/devotional [get]
func (h *Handlers) WidgetDevotional(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")

	lang := domain.LangPT
	if q := c.Query("language"); q != "" && q != domain.LangPT {
		lang = domain.LangEN
	}
	d, err := h.devos.Today(c.Request.Context(), lang)
	switch {
	case errors.Is(err, services.ErrDevotionalNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, WidgetError{Error: "no devotional available"})
	case err != nil:
		middleware.LoggerFrom(c).Error().Err(err).Msg("widget devotional")
		c.AbortWithStatusJSON(http.StatusInternalServerError, WidgetError{Error: "failed to load devotional"})
	default:
		ok(c, http.StatusOK, d)
	}
}
