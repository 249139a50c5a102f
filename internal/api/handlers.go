package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/waterwatch/dashboard/internal/backend"
	"github.com/waterwatch/dashboard/internal/dashboard"
	"github.com/waterwatch/dashboard/internal/layers"
	"github.com/waterwatch/dashboard/internal/report"
	"github.com/waterwatch/dashboard/internal/resolver"
	"github.com/waterwatch/dashboard/internal/session"
)

// SessionCookie is the name of the session id cookie. The X-Session-ID
// header is honored as well for non-browser clients.
const SessionCookie = "ww_session"

// Handler handles API requests.
type Handler struct {
	api      backend.API
	sessions *session.Manager
	resolver *resolver.Resolver
	adapter  *dashboard.Adapter
	layers   *layers.Store
	reports  *report.Manager
}

// NewHandler creates a new API handler.
func NewHandler(api backend.API, sessions *session.Manager, layerStore *layers.Store, reports *report.Manager) *Handler {
	return &Handler{
		api:      api,
		sessions: sessions,
		resolver: resolver.New(api),
		adapter:  dashboard.NewAdapter(api),
		layers:   layerStore,
		reports:  reports,
	}
}

// requireSession resolves the caller's session from cookie or header.
func (h *Handler) requireSession(c echo.Context) (*session.State, error) {
	id := c.Request().Header.Get("X-Session-ID")
	if id == "" {
		if cookie, err := c.Cookie(SessionCookie); err == nil {
			id = cookie.Value
		}
	}
	if id == "" {
		return nil, NewUnauthorizedError("no session")
	}
	state, ok := h.sessions.Get(id)
	if !ok {
		return nil, NewUnauthorizedError("session expired")
	}
	return state, nil
}

// HandleHealth returns server health status.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"sessions":     h.sessions.Count(),
		"cachedLayers": h.layers.CachedCount(),
	})
}
