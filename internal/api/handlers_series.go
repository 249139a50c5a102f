package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/waterwatch/dashboard/internal/chart"
	"github.com/waterwatch/dashboard/internal/models"
)

// seriesQueryRequest is the chart-data binding request for one panel.
type seriesQueryRequest struct {
	Panel           models.Panel            `json:"panel"`
	TimeRange       models.TimeRange        `json:"timeRange"`
	IntervalSeconds int                     `json:"intervalSeconds"`
	Options         models.DashboardOptions `json:"options"`
}

// seriesQueryResponse carries chart-ready datasets, or the unsupported-type
// placeholder when the panel has no working renderer.
type seriesQueryResponse struct {
	Datasets    []models.Dataset `json:"datasets"`
	Loading     bool             `json:"loading"`
	Unsupported bool             `json:"unsupported,omitempty"`
	Message     string           `json:"message,omitempty"`
}

// HandleQuerySeries binds a panel's targets to chart datasets and, for a
// positive interval, keeps a server-side poller re-fetching on that period.
// Rebinding the same panel replaces its poller, so a settings change never
// leaves a stale timer running.
func (h *Handler) HandleQuerySeries(c echo.Context) error {
	resp, err := h.bindPanel(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

// HandleQuerySeriesMsgpack is HandleQuerySeries with a msgpack body, for
// large windows where JSON framing dominates transfer size.
func (h *Handler) HandleQuerySeriesMsgpack(c echo.Context) error {
	resp, err := h.bindPanel(c)
	if err != nil {
		return err
	}
	encoded, encErr := msgpack.Marshal(resp)
	if encErr != nil {
		return NewInternalError("failed to encode datasets", encErr)
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", encoded)
}

func (h *Handler) bindPanel(c echo.Context) (*seriesQueryResponse, error) {
	state, err := h.requireSession(c)
	if err != nil {
		return nil, err
	}

	var req seriesQueryRequest
	if err := c.Bind(&req); err != nil {
		return nil, NewBadRequestError("invalid request body", err)
	}
	if req.Panel.ID == "" {
		return nil, NewValidationError("panel.id")
	}

	if !req.Panel.Type.Supported() {
		// Intentional fallback, not an error: unsupported chart types render
		// a clear placeholder instead of failing.
		return &seriesQueryResponse{
			Datasets:    []models.Dataset{},
			Unsupported: true,
			Message:     "chart type \"" + string(req.Panel.Type) + "\" has no renderer",
		}, nil
	}

	binder := chart.NewBinder(h.api, state.Token)
	binder.Bind(req.Panel, req.TimeRange, req.IntervalSeconds, req.Options)
	state.PutBinder(req.Panel.ID, binder)

	if err := binder.LastError(); err != nil {
		return nil, NewRemoteError(err)
	}

	datasets, loading := binder.Datasets()
	if datasets == nil {
		datasets = []models.Dataset{}
	}
	return &seriesQueryResponse{Datasets: datasets, Loading: loading}, nil
}

// HandlePanelData returns the latest datasets of a panel's live binder.
// Clients poll this between full rebinds while auto-refresh is active.
func (h *Handler) HandlePanelData(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	panelID := c.Param("id")
	binder := state.Binder(panelID)
	if binder == nil {
		return NewNotFoundError("panel binding", panelID)
	}

	datasets, loading := binder.Datasets()
	if datasets == nil {
		datasets = []models.Dataset{}
	}
	return c.JSON(http.StatusOK, seriesQueryResponse{Datasets: datasets, Loading: loading})
}
