package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleStartReport queues report generation over the current draft.
func (h *Handler) HandleStartReport(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Title == "" {
		req.Title = state.Editor.Title()
	}
	if req.Title == "" {
		req.Title = "dashboard"
	}

	job := h.reports.StartJob(state.Token, req.Title, state.Editor.Snapshot())
	return c.JSON(http.StatusAccepted, job)
}

// HandleReportStatus returns the state of one report job.
func (h *Handler) HandleReportStatus(c echo.Context) error {
	if _, err := h.requireSession(c); err != nil {
		return err
	}

	id := c.Param("id")
	job, ok := h.reports.GetJob(id)
	if !ok {
		return NewNotFoundError("report job", id)
	}
	return c.JSON(http.StatusOK, job)
}

// HandleReportDownload streams the CSV artifact of a completed job.
func (h *Handler) HandleReportDownload(c echo.Context) error {
	if _, err := h.requireSession(c); err != nil {
		return err
	}

	id := c.Param("id")
	path, ok := h.reports.ArtifactPath(id)
	if !ok {
		return NewNotFoundError("report artifact", id)
	}
	job, _ := h.reports.GetJob(id)
	return c.Attachment(path, job.FileName)
}
