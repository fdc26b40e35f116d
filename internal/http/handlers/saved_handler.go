package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SaveVerseRequest is the body of POST /saved/verses.
type SaveVerseRequest struct {
	Reference string          `json:"reference" binding:"required" example:"João 3:16"`
	Text      string          `json:"text"      binding:"required" example:"Porque Deus amou o mundo de tal maneira..."`
	Language  string          `json:"language"                     example:"pt"`
	RawData   json.RawMessage `json:"rawData,omitempty"            swaggertype:"object"`
}

// VerseKey identifies a saved verse.
type VerseKey struct {
	Reference string `json:"reference" binding:"required" example:"João 3:16"`
	Text      string `json:"text"      binding:"required" example:"Porque Deus amou o mundo de tal maneira..."`
}

// SavedStatus answers an is-saved query.
type SavedStatus struct {
	Saved bool `json:"saved"`
}

// ListSavedDevotionals godoc
// @Summary      List saved devotionals
// @Description  Newest save first. Anonymous callers get an empty list. Supports If-None-Match.
// @Tags         saved
// @Produce      json
// @Param        language  query     string  false  "pt or en"
// @Success      200       {array}   services.SavedDevotional
// @Success      304       "Not Modified"
// @Failure      400       {object}  ErrorResponse
// @Router       /saved/devotionals [get]
func (h *Handlers) ListSavedDevotionals(c *gin.Context) {
	lang, err := h.contentLanguage(c)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	uid := userID(c)
	ctx := c.Request.Context()
	if uid != "" {
		count, last, err := h.saved.DevotionalsStats(ctx, uid)
		if err != nil {
			failErr(c, err, ErrCodeListFailed)
			return
		}
		if notModified(c, "saved-devotionals-"+lang, uid, count, last) {
			return
		}
	}
	items, err := h.saved.ListDevotionals(ctx, uid, lang)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// IsDevotionalSaved godoc
// @Summary      Is a devotional saved
// @Tags         saved
// @Produce      json
// @Param        id   path      string  true  "Devotional ID"
// @Success      200  {object}  SavedStatus
// @Router       /saved/devotionals/{id} [get]
func (h *Handlers) IsDevotionalSaved(c *gin.Context) {
	saved, err := h.saved.IsDevotionalSaved(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, SavedStatus{Saved: saved})
}

// SaveDevotional godoc
// @Summary      Save a devotional
// @Description  Idempotent: saving twice reports "already saved".
// @Tags         saved
// @Produce      json
// @Param        id               path      string  true   "Devotional ID"
// @Param        Idempotency-Key  header    string  false  "Replay protection key"
// @Success      200              {object}  services.SaveResult
// @Failure      401              {object}  ErrorResponse
// @Failure      404              {object}  ErrorResponse
// @Router       /saved/devotionals/{id} [post]
func (h *Handlers) SaveDevotional(c *gin.Context) {
	res, err := h.saved.SaveDevotional(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// UnsaveDevotional godoc
// @Summary      Remove a saved devotional
// @Description  A missing bookmark yields success=false, message "not saved".
// @Tags         saved
// @Produce      json
// @Param        id   path      string  true  "Devotional ID"
// @Success      200  {object}  services.SaveResult
// @Failure      401  {object}  ErrorResponse
// @Router       /saved/devotionals/{id} [delete]
func (h *Handlers) UnsaveDevotional(c *gin.Context) {
	res, err := h.saved.UnsaveDevotional(c.Request.Context(), userID(c), c.Param("id"))
	if err != nil {
		failErr(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// ListSavedVerses godoc
// @Summary      List saved verses
// @Description  Newest save first. Anonymous callers get an empty list. Supports If-None-Match.
// @Tags         saved
// @Produce      json
// @Success      200  {array}   domain.SavedVerse
// @Success      304  "Not Modified"
// @Router       /saved/verses [get]
func (h *Handlers) ListSavedVerses(c *gin.Context) {
	uid := userID(c)
	ctx := c.Request.Context()
	if uid != "" {
		count, last, err := h.saved.VersesStats(ctx, uid)
		if err != nil {
			failErr(c, err, ErrCodeListFailed)
			return
		}
		if notModified(c, "saved-verses", uid, count, last) {
			return
		}
	}
	items, err := h.saved.ListVerses(ctx, uid)
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// IsVerseSaved godoc
// @Summary      Is a verse saved
// @Tags         saved
// @Produce      json
// @Param        reference  query     string  true  "Verse reference"
// @Param        text       query     string  true  "Verse text"
// @Success      200        {object}  SavedStatus
// @Failure      400        {object}  ErrorResponse
// @Router       /saved/verses/check [get]
func (h *Handlers) IsVerseSaved(c *gin.Context) {
	ref, text := c.Query("reference"), c.Query("text")
	if strings.TrimSpace(ref) == "" || strings.TrimSpace(text) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reference and text are required")
		return
	}
	saved, err := h.saved.IsVerseSaved(c.Request.Context(), userID(c), ref, text)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, SavedStatus{Saved: saved})
}

// SaveVerse godoc
// @Summary      Save a verse
// @Description  Idempotent per (reference, text).
// @Tags         saved
// @Accept       json
// @Produce      json
// @Param        body             body      SaveVerseRequest  true   "Verse"
// @Param        Idempotency-Key  header    string            false  "Replay protection key"
// @Success      200              {object}  services.SaveResult
// @Failure      400              {object}  ErrorResponse
// @Failure      401              {object}  ErrorResponse
// @Router       /saved/verses [post]
func (h *Handlers) SaveVerse(c *gin.Context) {
	var body SaveVerseRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid body")
		return
	}
	res, err := h.saved.SaveVerse(c.Request.Context(), userID(c), body.Reference, body.Text, body.Language, body.RawData)
	if err != nil {
		failErr(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// UnsaveVerse godoc
// @Summary      Remove a saved verse
// @Tags         saved
// @Accept       json
// @Produce      json
// @Param        body  body      VerseKey  true  "Verse"
// @Success      200   {object}  services.SaveResult
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /saved/verses [delete]
func (h *Handlers) UnsaveVerse(c *gin.Context) {
	var body VerseKey
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid body")
		return
	}
	res, err := h.saved.UnsaveVerse(c.Request.Context(), userID(c), body.Reference, body.Text)
	if err != nil {
		failErr(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, res)
}
