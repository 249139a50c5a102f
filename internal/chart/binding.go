package chart

import (
	"fmt"
	"time"

	"github.com/waterwatch/dashboard/internal/backend"
	"github.com/waterwatch/dashboard/internal/layout"
	"github.com/waterwatch/dashboard/internal/models"
)

// BuildSeriesRequest converts a panel's target list, the dashboard time
// range and the chart options into a metric-series query. Relative time
// bounds are resolved against the supplied instant, so a trailing window
// like "now-1h".."now" shifts with every fetch. The anomaly threshold is
// normalized from a percentage (0-100) to a fraction (0-1) here; everywhere
// else it stays a percentage.
func BuildSeriesRequest(panel *models.Panel, tr models.TimeRange, stepSeconds int, opts models.DashboardOptions, now time.Time) (*backend.SeriesRequest, error) {
	if tr.From == "" || tr.To == "" {
		return nil, fmt.Errorf("time range is incomplete: from=%q to=%q", tr.From, tr.To)
	}

	from, to := layout.ResolveTimeRange(tr, now)

	targets := make([]backend.SeriesTarget, 0, len(panel.Targets))
	for _, t := range panel.Targets {
		targets = append(targets, backend.SeriesTarget{
			RefID:      t.RefID,
			TargetType: 1,
			TargetID:   t.TargetID,
			MetricID:   t.MetricID,
		})
	}

	return &backend.SeriesRequest{
		ChartType: string(panel.Type),
		TimeRange: backend.SeriesTimeRange{
			From: from.UTC().Format(time.RFC3339),
			To:   to.UTC().Format(time.RFC3339),
		},
		StepSeconds: stepSeconds,
		Forecast: backend.SeriesForecast{
			Enabled:  opts.Forecast.Enabled,
			TimeStep: opts.Forecast.TimeStep,
			Horizon:  opts.Forecast.Horizon,
		},
		Anomaly: backend.SeriesAnomaly{
			Enabled:             opts.Anomaly.Enabled,
			LocalErrorThreshold: opts.Anomaly.LocalErrorThreshold / 100,
		},
		Series: targets,
	}, nil
}

// BindResponse maps a metric-series response onto the panel's targets. Each
// target is matched to the result with the same refId; a target without a
// match binds to empty actual and forecast arrays rather than failing, so
// partial data renders as missing series instead of an error.
func BindResponse(panel *models.Panel, resp *backend.SeriesResponse) []models.Dataset {
	byRef := make(map[string]*backend.SeriesResult, len(resp.Results))
	for i := range resp.Results {
		byRef[resp.Results[i].RefID] = &resp.Results[i]
	}

	datasets := make([]models.Dataset, 0, len(panel.Targets))
	for _, target := range panel.Targets {
		ds := models.Dataset{
			Label:    target.DisplayName,
			Color:    target.Color,
			Actual:   []models.ChartPoint{},
			Forecast: []models.ChartPoint{},
		}
		if result, ok := byRef[target.RefID]; ok {
			ds.Actual = bindPoints(result.Series, target, false)
			ds.Forecast = bindPoints(result.Forecast, target, true)
		}
		datasets = append(datasets, ds)
	}
	return datasets
}

func bindPoints(points []backend.SeriesPoint, target models.Target, forecast bool) []models.ChartPoint {
	out := make([]models.ChartPoint, 0, len(points))
	for _, p := range points {
		ts, err := time.Parse(time.RFC3339, p.Datetime)
		if err != nil {
			continue
		}
		out = append(out, models.ChartPoint{
			Timestamp: ts,
			Value:     p.Value,
			Anomaly:   p.TrendAnomaly || p.PointAnomaly,
			Forecast:  forecast,
			Label:     target.DisplayName,
			Color:     target.Color,
		})
	}
	return out
}
