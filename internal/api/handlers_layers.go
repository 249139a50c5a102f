package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleListLayers returns the available GeoJSON map overlays.
func (h *Handler) HandleListLayers(c echo.Context) error {
	if _, err := h.requireSession(c); err != nil {
		return err
	}

	list, err := h.layers.List()
	if err != nil {
		return NewInternalError("failed to list layers", err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"layers": list})
}

// HandleGetLayer serves one raw GeoJSON layer. Repeat requests hit the
// in-memory cache.
func (h *Handler) HandleGetLayer(c echo.Context) error {
	if _, err := h.requireSession(c); err != nil {
		return err
	}

	id := c.Param("id")
	raw, err := h.layers.Get(id)
	if err != nil {
		return NewNotFoundError("layer", id)
	}
	return c.Blob(http.StatusOK, "application/geo+json", raw)
}
