package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListJobs godoc
// @Summary      List background jobs
// @Tags         jobs
// @Produce      json
// @Success      200  {array}  scheduler.Info
// @Router       /jobs [get]
func (h *Handlers) ListJobs(c *gin.Context) {
	ok(c, http.StatusOK, h.jobs.List())
}

// GetJob godoc
// @Summary      Job status
// @Tags         jobs
// @Produce      json
// @Param        name  path      string  true  "Job name"
// @Success      200   {object}  scheduler.Info
// @Failure      404   {object}  ErrorResponse
// @Router       /jobs/{name} [get]
func (h *Handlers) GetJob(c *gin.Context) {
	info, err := h.jobs.Get(c.Param("name"))
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, info)
}

// RunJob godoc
// @Summary      Trigger a job
// @Description  Starts the job in the background; poll GET /jobs/{name} for the outcome.
// @Tags         jobs
// @Produce      json
// @Param        name  path      string  true  "Job name"
// @Success      202   {object}  scheduler.Info
// @Failure      404   {object}  ErrorResponse
// @Router       /jobs/{name}/run [post]
func (h *Handlers) RunJob(c *gin.Context) {
	name := c.Param("name")
	if err := h.jobs.Run(c.Request.Context(), name); err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	info, err := h.jobs.Get(name)
	if err != nil {
		failErr(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusAccepted, info)
}
