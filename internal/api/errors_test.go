package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"api error passes through", NewNotFoundError("panel", "p1"), http.StatusNotFound, "NOT_FOUND"},
		{"remote error", NewRemoteError(errors.New("upstream said no")), http.StatusBadGateway, "REMOTE_ERROR"},
		{"echo error wrapped", echo.NewHTTPError(http.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "HTTP_ERROR"},
		{"unknown error masked", errors.New("boom"), http.StatusInternalServerError, "UNKNOWN_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			ErrorHandler(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp APIError
			decodeJSON(t, rec, &resp)
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestErrorHandler_UnknownErrorHidesMessage(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ErrorHandler(errors.New("secret internal detail"), c)

	var resp APIError
	decodeJSON(t, rec, &resp)
	assert.Equal(t, "An unexpected error occurred", resp.Message)
	assert.Equal(t, "secret internal detail", resp.Details)
}
