package backend

import (
	"encoding/json"

	"github.com/waterwatch/dashboard/internal/models"
)

// Wire shapes for the remote monitoring API. Field names follow the remote
// contract, not Go conventions.

type stationsResponse struct {
	Stations []models.Station `json:"stations"`
}

type parametersByTargetRequest struct {
	TargetType string `json:"target_type"` // always "STATION"
	TargetID   int64  `json:"target_id"`
}

type parametersByTargetResponse struct {
	Data struct {
		Parameters []models.Parameter `json:"parameters"`
	} `json:"data"`
}

// SeriesTarget is one requested series in a metric-series query.
type SeriesTarget struct {
	RefID      string `json:"ref_id"`
	TargetType int    `json:"target_type"` // 1 = station
	TargetID   int64  `json:"target_id"`
	MetricID   int64  `json:"metric_id"`
}

// SeriesTimeRange carries resolved absolute bounds in ISO-8601.
type SeriesTimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SeriesForecast mirrors the dashboard forecast options on the wire.
type SeriesForecast struct {
	Enabled  bool `json:"enabled"`
	TimeStep int  `json:"time_step"`
	Horizon  int  `json:"horizon"`
}

// SeriesAnomaly carries the anomaly settings with the threshold already
// normalized from a percentage to a fraction.
type SeriesAnomaly struct {
	Enabled             bool    `json:"enabled"`
	LocalErrorThreshold float64 `json:"local_error_threshold"`
}

// SeriesRequest is the metric-series query body.
type SeriesRequest struct {
	ChartType   string          `json:"chart_type"`
	TimeRange   SeriesTimeRange `json:"time_range"`
	StepSeconds int             `json:"step_seconds"`
	Forecast    SeriesForecast  `json:"forecast"`
	Anomaly     SeriesAnomaly   `json:"anomaly"`
	Series      []SeriesTarget  `json:"series"`
}

// SeriesPoint is one raw sample in a metric-series result.
type SeriesPoint struct {
	Datetime     string  `json:"datetime"`
	Value        float64 `json:"value"`
	TrendAnomaly bool    `json:"trendAnomaly"`
	PointAnomaly bool    `json:"pointAnomaly"`
}

// SeriesResult is the response entry for one requested refId.
type SeriesResult struct {
	RefID    string        `json:"refId"`
	Series   []SeriesPoint `json:"series"`
	Forecast []SeriesPoint `json:"forecast"`
}

// SeriesResponse is the metric-series response envelope.
type SeriesResponse struct {
	Results []SeriesResult `json:"results"`
}

// PersistedTimeRange is the stored dashboard time block.
type PersistedTimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PersistedPanel is the stored panel shape inside layout_configuration.
// Panel IDs are numeric in the persisted form; string IDs from older blobs
// are tolerated on read.
type PersistedPanel struct {
	ID      json.RawMessage         `json:"id"`
	Title   string                  `json:"title"`
	Type    string                  `json:"type"`
	GridPos models.GridPos          `json:"gridPos"`
	Targets []models.Target         `json:"targets"`
	Options *models.DashboardOptions `json:"options,omitempty"`
}

// PersistedLayout is the layout_configuration JSON blob.
type PersistedLayout struct {
	Time    PersistedTimeRange `json:"time"`
	Refresh string             `json:"refresh"` // "<int>s"
	Panels  []PersistedPanel   `json:"panels"`
	Options *models.DashboardOptions `json:"options,omitempty"`
}

// DashboardDocument is the stored dashboard returned by the remote API.
type DashboardDocument struct {
	UID                 string          `json:"uid"`
	Name                string          `json:"name"`
	Description         string          `json:"description,omitempty"`
	LayoutConfiguration PersistedLayout `json:"layoutConfiguration"`
	Version             int             `json:"version"`
	CreatedBy           int64           `json:"created_by"`
	Status              string          `json:"status,omitempty"`
}

type dashboardResponse struct {
	Data DashboardDocument `json:"data"`
}

type dashboardListResponse struct {
	Data []models.DashboardMeta `json:"data"`
}

// SaveDashboardRequest is the create/update body sent to the remote store.
type SaveDashboardRequest struct {
	Dashboard SaveDashboardPayload `json:"dashboard"`
}

// SaveDashboardPayload embeds the full layout blob plus identity fields.
type SaveDashboardPayload struct {
	Name                string          `json:"name"`
	Description         string          `json:"description,omitempty"`
	LayoutConfiguration PersistedLayout `json:"layout_configuration"`
	CreatedBy           int64           `json:"created_by"`
	Version             int             `json:"version"`
	Status              string          `json:"status"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the token envelope returned on successful authentication.
// The token is opaque to this service; it is stored and forwarded verbatim.
type LoginResult struct {
	Token  string `json:"token"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
