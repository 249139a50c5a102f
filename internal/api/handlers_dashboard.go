package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waterwatch/dashboard/internal/dashboard"
	"github.com/waterwatch/dashboard/internal/models"
)

// editorState is the full editor view returned to the frontend.
type editorState struct {
	UID   string                     `json:"uid"`
	Title string                     `json:"title"`
	Mode  dashboard.Mode             `json:"mode"`
	Draft models.LayoutConfiguration `json:"draft"`
}

func (h *Handler) editorStateOf(ed *dashboard.Editor) editorState {
	return editorState{
		UID:   ed.UID(),
		Title: ed.Title(),
		Mode:  ed.Mode(),
		Draft: ed.Snapshot(),
	}
}

// HandleListDashboards returns the caller's stored dashboards.
func (h *Handler) HandleListDashboards(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	list, err := h.adapter.List(c.Request().Context(), state.Token, state.UserID)
	if err != nil {
		return NewRemoteError(err)
	}
	if list == nil {
		list = []models.DashboardMeta{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"dashboards": list})
}

// HandleLoadDashboard fetches a stored dashboard into the session editor,
// replacing whatever draft was in memory, and returns the hydrated state.
func (h *Handler) HandleLoadDashboard(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	uid := c.Param("uid")
	if uid == "" {
		return NewValidationError("uid")
	}

	// Pollers bound to the previous draft are stopped before it is replaced.
	state.CloseBinders()

	if err := h.adapter.Load(c.Request().Context(), state.Token, state.Editor, uid, state.UserID); err != nil {
		return NewRemoteError(err)
	}
	return c.JSON(http.StatusOK, h.editorStateOf(state.Editor))
}

// HandleSaveDashboard pushes the draft to the remote store. Without a uid a
// new dashboard is created (version 1) and the draft is cleared; with one,
// the dashboard is overwritten and the version advances.
func (h *Handler) HandleSaveDashboard(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	var req struct {
		UID             string           `json:"uid"`
		Title           string           `json:"title"`
		IntervalSeconds int              `json:"intervalSeconds"`
		TimeRange       models.TimeRange `json:"timeRange"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Title == "" {
		return NewValidationError("title")
	}

	uid, err := h.adapter.Save(c.Request().Context(), state.Token, state.Editor, req.UID, req.Title, req.IntervalSeconds, req.TimeRange, state.UserID)
	if err != nil {
		return NewRemoteError(err)
	}

	created := req.UID == ""
	if created {
		// The draft was cleared; its pollers go with it.
		state.CloseBinders()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"uid":     uid,
		"created": created,
	})
}

// HandleDeleteDashboard removes a stored dashboard. The confirmation dialog
// lives in the frontend; this endpoint deletes unconditionally.
func (h *Handler) HandleDeleteDashboard(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	uid := c.Param("uid")
	if uid == "" {
		return NewValidationError("uid")
	}
	if err := h.adapter.Delete(c.Request().Context(), state.Token, uid); err != nil {
		return NewRemoteError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleGetEditor returns the current draft state.
func (h *Handler) HandleGetEditor(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, h.editorStateOf(state.Editor))
}

// HandleResetEditor discards the draft and stops its pollers.
func (h *Handler) HandleResetEditor(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}
	state.CloseBinders()
	state.Editor.Reset()
	return c.NoContent(http.StatusNoContent)
}

// HandleSetMode toggles between edit and view mode.
func (h *Handler) HandleSetMode(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	var req struct {
		Mode dashboard.Mode `json:"mode"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Mode != dashboard.ModeEdit && req.Mode != dashboard.ModeView {
		return NewValidationError("mode")
	}

	state.Editor.SetMode(req.Mode)
	return c.JSON(http.StatusOK, map[string]string{"mode": string(req.Mode)})
}

// HandleAddPanel adds an empty panel placed by the grid allocator.
func (h *Handler) HandleAddPanel(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	var req struct {
		W int `json:"w"`
		H int `json:"h"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	panel := state.Editor.AddPanel(req.W, req.H)
	return c.JSON(http.StatusCreated, panel)
}

// HandleSavePanel applies a panel configuration dialog result: replace by
// id when the panel exists, append otherwise. Targets are replaced
// atomically.
func (h *Handler) HandleSavePanel(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	var panel models.Panel
	if err := c.Bind(&panel); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if panel.ID == "" {
		return NewValidationError("id")
	}
	if panel.Title == "" {
		panel.Title = dashboard.DefaultPanelTitle
	}

	state.Editor.SavePanel(panel)
	return c.JSON(http.StatusOK, panel)
}

// HandleDeletePanel removes a panel from the draft and stops its poller.
func (h *Handler) HandleDeletePanel(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if !state.Editor.RemovePanel(id) {
		return NewNotFoundError("panel", id)
	}
	state.DropBinder(id)
	return c.NoContent(http.StatusNoContent)
}

// HandleGridLayout applies drag/resize placements. Placements sent while
// the editor is in view mode are dropped by the editor guard.
func (h *Handler) HandleGridLayout(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	var req struct {
		Placements []dashboard.PanelPlacement `json:"placements"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	state.Editor.ApplyGridLayout(req.Placements)
	return c.JSON(http.StatusOK, h.editorStateOf(state.Editor))
}

// HandleRefreshPanel rotates the panel's refresh token and forces its
// binder to re-fetch immediately ("reload now").
func (h *Handler) HandleRefreshPanel(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	if !state.Editor.Touch(id) {
		return NewNotFoundError("panel", id)
	}
	if binder := state.Binder(id); binder != nil {
		binder.Refresh()
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleSetTime updates the dashboard window.
func (h *Handler) HandleSetTime(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	var req struct {
		TimeRange models.TimeRange `json:"timeRange"`
		Label     string           `json:"label"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.TimeRange.From == "" || req.TimeRange.To == "" {
		return NewValidationError("timeRange")
	}

	state.Editor.SetTimeRange(req.TimeRange, req.Label)
	return c.NoContent(http.StatusNoContent)
}

// HandleSetRefresh updates the auto-refresh interval.
func (h *Handler) HandleSetRefresh(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	var req struct {
		Seconds int `json:"seconds"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	state.Editor.SetRefresh(req.Seconds)
	return c.NoContent(http.StatusNoContent)
}

// HandleSetOptions replaces the forecast/anomaly options. Unknown option
// keys are rejected by the strict decoder on DashboardOptions.
func (h *Handler) HandleSetOptions(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	var req struct {
		Options models.DashboardOptions `json:"options"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid options", err)
	}

	state.Editor.SetOptions(req.Options)
	return c.NoContent(http.StatusNoContent)
}
