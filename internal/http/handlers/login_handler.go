package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoggedInToday answers GET /logins/today.
type LoggedInToday struct {
	LoggedIn bool `json:"loggedIn"`
}

// RecordLogin godoc
// @Summary      Record today's login
// @Tags         logins
// @Produce      json
// @Param        Idempotency-Key  header    string  false  "Replay protection key"
// @Success      200              {object}  services.LoginRecord
// @Failure      401              {object}  ErrorResponse
// @Router       /logins [post]
func (h *Handlers) RecordLogin(c *gin.Context) {
	rec, err := h.logins.Record(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeSaveFailed)
		return
	}
	ok(c, http.StatusOK, rec)
}

// ListLogins godoc
// @Summary      List logins
// @Tags         logins
// @Produce      json
// @Success      200  {array}  domain.DailyLogin
// @Router       /logins [get]
func (h *Handlers) ListLogins(c *gin.Context) {
	items, err := h.logins.List(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, items)
}

// LoginToday godoc
// @Summary      Has the caller logged in today
// @Tags         logins
// @Produce      json
// @Success      200  {object}  LoggedInToday
// @Router       /logins/today [get]
func (h *Handlers) LoginToday(c *gin.Context) {
	in, err := h.logins.HasLoggedInToday(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, LoggedInToday{LoggedIn: in})
}

// WeeklyLogins godoc
// @Summary      Current week plan
// @Description  Sunday to Saturday of the current UTC week.
// @Tags         logins
// @Produce      json
// @Success      200  {array}  services.WeekDay
// @Router       /logins/weekly [get]
func (h *Handlers) WeeklyLogins(c *gin.Context) {
	days, err := h.logins.Weekly(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, days)
}

// LoginStats godoc
// @Summary      Login statistics
// @Tags         logins
// @Produce      json
// @Success      200  {object}  services.LoginStats
// @Router       /logins/stats [get]
func (h *Handlers) LoginStats(c *gin.Context) {
	st, err := h.logins.Stats(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, st)
}

// LoginComparison godoc
// @Summary      This week versus last week
// @Tags         logins
// @Produce      json
// @Success      200  {object}  services.WeeklyComparison
// @Router       /logins/comparison [get]
func (h *Handlers) LoginComparison(c *gin.Context) {
	cmp, err := h.logins.Comparison(c.Request.Context(), userID(c))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, cmp)
}
