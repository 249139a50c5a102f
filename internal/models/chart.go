package models

import "time"

// ChartPoint is a single rendered sample. Ephemeral: rebuilt on every fetch,
// never persisted.
type ChartPoint struct {
	Timestamp time.Time `json:"timestamp" msgpack:"t"`
	Value     float64   `json:"value" msgpack:"v"`
	Anomaly   bool      `json:"anomaly" msgpack:"a"`
	Forecast  bool      `json:"forecast" msgpack:"f"`
	Label     string    `json:"label,omitempty" msgpack:"l,omitempty"`
	Color     string    `json:"color,omitempty" msgpack:"c,omitempty"`
}

// Dataset groups the points of one target into chart-ready actual and
// forecast series.
type Dataset struct {
	Label    string       `json:"label" msgpack:"label"`
	Color    string       `json:"color" msgpack:"color"`
	Actual   []ChartPoint `json:"actual" msgpack:"actual"`
	Forecast []ChartPoint `json:"forecast" msgpack:"forecast"`
}
