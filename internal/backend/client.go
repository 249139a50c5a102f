// Package backend is the HTTP client for the remote monitoring API. The
// dashboard service implements no storage or data processing of its own;
// stations, parameters, metric series and stored dashboards all live behind
// this client.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/waterwatch/dashboard/internal/models"
)

// API is the collaborator surface the rest of the service depends on.
// Defined as an interface so handlers and adapters can be tested against a
// mock.
type API interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	ListStations(ctx context.Context, token string) ([]models.Station, error)
	ParametersByTarget(ctx context.Context, token string, stationID int64) ([]models.Parameter, error)
	QuerySeries(ctx context.Context, token string, req *SeriesRequest) (*SeriesResponse, error)
	ListDashboards(ctx context.Context, token string, createdBy int64) ([]models.DashboardMeta, error)
	GetDashboard(ctx context.Context, token, uid string, createdBy int64) (*DashboardDocument, error)
	CreateDashboard(ctx context.Context, token string, req *SaveDashboardRequest) (*DashboardDocument, error)
	UpdateDashboard(ctx context.Context, token, uid string, req *SaveDashboardRequest) (*DashboardDocument, error)
	DeleteDashboard(ctx context.Context, token, uid string) error
}

// Client talks to the remote monitoring API with a bearer token per call.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the given base URL. A zero timeout
// defaults to 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do executes one request and decodes the JSON response into out (when out
// is non-nil). Any non-2xx status surfaces the remote error message
// verbatim; there is no retry.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.remoteError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", path, err)
	}
	return nil
}

// remoteError extracts the remote error message so callers can show it to
// the user unchanged.
func (c *Client) remoteError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	var envelope errorResponse
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if envelope.Message != "" {
			return fmt.Errorf("%s", envelope.Message)
		}
		if envelope.Error != "" {
			return fmt.Errorf("%s", envelope.Error)
		}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("%s", msg)
}

// Login exchanges credentials for an opaque bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, http.MethodPost, "/auth/login", "", &loginRequest{Email: email, Password: password}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListStations returns the monitoring station catalog.
func (c *Client) ListStations(ctx context.Context, token string) ([]models.Station, error) {
	var resp stationsResponse
	if err := c.do(ctx, http.MethodGet, "/stations", token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Stations, nil
}

// ParametersByTarget returns the parameters measured at one station.
func (c *Client) ParametersByTarget(ctx context.Context, token string, stationID int64) ([]models.Parameter, error) {
	req := parametersByTargetRequest{TargetType: "STATION", TargetID: stationID}
	var resp parametersByTargetResponse
	if err := c.do(ctx, http.MethodPost, "/station_parameters/by_target", token, &req, &resp); err != nil {
		return nil, err
	}
	return resp.Data.Parameters, nil
}

// QuerySeries fetches time series for the requested targets.
func (c *Client) QuerySeries(ctx context.Context, token string, req *SeriesRequest) (*SeriesResponse, error) {
	var resp SeriesResponse
	if err := c.do(ctx, http.MethodPost, "/metric_series", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListDashboards returns the dashboards owned by a user.
func (c *Client) ListDashboards(ctx context.Context, token string, createdBy int64) ([]models.DashboardMeta, error) {
	path := fmt.Sprintf("/dashboards?created_by=%d", createdBy)
	var resp dashboardListResponse
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetDashboard fetches one stored dashboard scoped by owner.
func (c *Client) GetDashboard(ctx context.Context, token, uid string, createdBy int64) (*DashboardDocument, error) {
	path := fmt.Sprintf("/dashboards/%s?created_by=%d", url.PathEscape(uid), createdBy)
	var resp dashboardResponse
	if err := c.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// CreateDashboard stores a brand-new dashboard.
func (c *Client) CreateDashboard(ctx context.Context, token string, req *SaveDashboardRequest) (*DashboardDocument, error) {
	var resp dashboardResponse
	if err := c.do(ctx, http.MethodPost, "/dashboards", token, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// UpdateDashboard overwrites an existing dashboard. The version in the
// payload is not compared against the stored version by the remote API;
// last writer wins.
func (c *Client) UpdateDashboard(ctx context.Context, token, uid string, req *SaveDashboardRequest) (*DashboardDocument, error) {
	path := "/dashboards/" + url.PathEscape(uid)
	var resp dashboardResponse
	if err := c.do(ctx, http.MethodPut, path, token, req, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

// DeleteDashboard removes a stored dashboard.
func (c *Client) DeleteDashboard(ctx context.Context, token, uid string) error {
	return c.do(ctx, http.MethodDelete, "/dashboards/"+url.PathEscape(uid), token, nil, nil)
}
