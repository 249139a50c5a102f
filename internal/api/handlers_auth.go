package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HandleLogin forwards credentials to the remote API and opens a local
// session around the returned bearer token. The token itself is opaque to
// this service.
func (h *Handler) HandleLogin(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if req.Email == "" {
		return NewValidationError("email")
	}
	if req.Password == "" {
		return NewValidationError("password")
	}

	result, err := h.api.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return NewUnauthorizedError(err.Error())
	}

	state := h.sessions.Start(result.Token, result.UserID, result.Name)

	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    state.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sessionId": state.ID,
		"userId":    result.UserID,
		"name":      result.Name,
	})
}

// HandleLogout ends the session and stops its chart pollers.
func (h *Handler) HandleLogout(c echo.Context) error {
	state, err := h.requireSession(c)
	if err != nil {
		return err
	}
	h.sessions.End(state.ID)
	return c.NoContent(http.StatusNoContent)
}
