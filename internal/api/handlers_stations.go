package api

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waterwatch/dashboard/internal/models"
	"github.com/waterwatch/dashboard/internal/resolver"
)

// HandleListStations proxies the station catalog from the remote API.
func (h *Handler) HandleListStations(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	stations, err := h.api.ListStations(c.Request().Context(), state.Token)
	if err != nil {
		return NewRemoteError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"stations": stations})
}

// HandleStationParameters resolves the merged parameter list for a station
// selection. A parameter measured at several selected stations appears once.
func (h *Handler) HandleStationParameters(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}

	var req struct {
		StationIDs []int64 `json:"stationIds"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if len(req.StationIDs) == 0 {
		return NewValidationError("stationIds")
	}

	params, err := h.resolver.AvailableParameters(c.Request().Context(), state.Token, req.StationIDs)
	if err != nil {
		return NewRemoteError(err)
	}
	if params == nil {
		params = []models.Parameter{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"parameters": params})
}

// HandleBuildTargets constructs color-assigned series descriptors for the
// station x parameter cross product chosen in the panel dialog.
func (h *Handler) HandleBuildTargets(c echo.Context) error {
	if _, err := h.requireSession(c); err != nil {
		return err
	}

	var req struct {
		Stations   []models.Station   `json:"stations"`
		Parameters []models.Parameter `json:"parameters"`
		ColorMap   map[string]string  `json:"colorMap"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if len(req.Stations) == 0 {
		return NewValidationError("stations")
	}
	if len(req.Parameters) == 0 {
		return NewValidationError("parameters")
	}

	targets := resolver.BuildTargets(req.Stations, req.Parameters, req.ColorMap)
	return c.JSON(http.StatusOK, map[string]interface{}{"targets": targets})
}

// HandleValidateContact checks a notification contact configuration against
// its declared channel type before it is submitted to the remote API.
// Unknown channel types and unknown settings keys are rejected.
func (h *Handler) HandleValidateContact(c echo.Context) error {
	if _, err := h.requireSession(c); err != nil {
		return err
	}

	var req struct {
		Type          models.ContactType `json:"type"`
		Configuration json.RawMessage    `json:"configuration"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}

	cfg, err := models.NewContactConfig(req.Type, req.Configuration)
	if err != nil {
		return NewBadRequestError("invalid contact configuration", err)
	}
	return c.JSON(http.StatusOK, cfg)
}
