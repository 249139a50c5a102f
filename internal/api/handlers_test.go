// handlers_test.go - Shared fixtures for handler tests
package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/waterwatch/dashboard/internal/layers"
	"github.com/waterwatch/dashboard/internal/report"
	"github.com/waterwatch/dashboard/internal/session"
	"github.com/waterwatch/dashboard/internal/testutil"
)

// testEnv bundles a handler with its collaborators and one live session.
type testEnv struct {
	handler  *Handler
	mock     *testutil.MockBackend
	sessions *session.Manager
	state    *session.State
	echo     *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mock := testutil.NewMockBackend()
	sessions := session.NewManager()

	layerStore, err := layers.NewStore(t.TempDir())
	require.NoError(t, err)
	reports, err := report.NewManager(t.TempDir(), mock)
	require.NoError(t, err)

	env := &testEnv{
		handler:  NewHandler(mock, sessions, layerStore, reports),
		mock:     mock,
		sessions: sessions,
		state:    sessions.Start("test-token", 42, "Test User"),
		echo:     echo.New(),
	}
	env.echo.HTTPErrorHandler = ErrorHandler
	t.Cleanup(env.state.CloseBinders)
	return env
}

// newContext builds an echo context carrying the test session. A nil body
// sends an empty request.
func (env *testEnv) newContext(method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", env.state.ID)
	rec := httptest.NewRecorder()
	return env.echo.NewContext(req, rec), rec
}

// anonContext builds a context without a session.
func (env *testEnv) anonContext(method, target string, body interface{}) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := env.newContext(method, target, body)
	c.Request().Header.Del("X-Session-ID")
	return c, rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func requireAPIError(t *testing.T, err error, status int, code string) {
	t.Helper()
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok, "expected *APIError, got %T", err)
	require.Equal(t, status, apiErr.Status)
	require.Equal(t, code, apiErr.Code)
}
