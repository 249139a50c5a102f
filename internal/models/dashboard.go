package models

// PanelType identifies the renderer for a panel. Only line charts have a
// working renderer; other types must degrade to an explicit "unsupported"
// placeholder rather than fail.
type PanelType string

const (
	PanelTypeLineChart PanelType = "line_chart"
	PanelTypeBoxPlot   PanelType = "box_plot"
	PanelTypeBarChart  PanelType = "bar_chart"
)

// Supported reports whether a working renderer exists for the panel type.
func (t PanelType) Supported() bool {
	return t == PanelTypeLineChart
}

// GridPos is a panel rectangle in the 12-column dashboard grid, in cell
// coordinates.
type GridPos struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Overlaps reports whether two rectangles intersect, using open-interval
// comparison on both axes.
func (g GridPos) Overlaps(o GridPos) bool {
	return g.X < o.X+o.W && g.X+g.W > o.X && g.Y < o.Y+o.H && g.Y+g.H > o.Y
}

// Target is one series within a panel: a (station, metric) reference plus
// display attributes.
type Target struct {
	RefID       string `json:"refId"`
	TargetType  string `json:"target_type"` // currently always "station"
	TargetID    int64  `json:"target_id"`
	MetricID    int64  `json:"metric_id"`
	DisplayName string `json:"display_name"`
	Color       string `json:"color"`
}

// Panel is one chart widget on a dashboard.
type Panel struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Type    PanelType `json:"type"`
	GridPos GridPos  `json:"gridPos"`
	Targets []Target `json:"targets"`
	// RefreshToken is an opaque value; changing it forces the chart binding
	// to re-fetch even when the other inputs are unchanged.
	RefreshToken string `json:"refreshToken,omitempty"`
	// Interval and TimeRange are copied down from the dashboard on load.
	// The persisted form stores the schedule only at dashboard level.
	Interval  int       `json:"interval,omitempty"`
	TimeRange TimeRange `json:"timeRange"`
}

// TimeRange holds the from/to bounds of a dashboard window. Each bound is
// either an absolute ISO-8601 timestamp or a relative expression ("now",
// "now-6h").
type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// LayoutConfiguration is the serializable root describing a dashboard draft:
// global time range, refresh interval, forecast/anomaly options and the
// ordered panel list. Panel order is display order only.
type LayoutConfiguration struct {
	Panels    []Panel          `json:"panels"`
	Refresh   int              `json:"refresh"` // seconds, 0 = no auto-refresh
	TimeRange TimeRange        `json:"timeRange"`
	TimeLabel string           `json:"timeLabel,omitempty"`
	Options   DashboardOptions `json:"options"`
	// Version increments on every successful save of an existing dashboard
	// and resets to 1 for a new one. It is written but never verified
	// against the server's stored version before overwrite.
	Version int `json:"version"`
}

// PanelByID returns a pointer to the panel with the given id, or nil.
func (lc *LayoutConfiguration) PanelByID(id string) *Panel {
	for i := range lc.Panels {
		if lc.Panels[i].ID == id {
			return &lc.Panels[i]
		}
	}
	return nil
}

// DashboardMeta is the listing/identity envelope around a stored dashboard.
type DashboardMeta struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CreatedBy   int64  `json:"created_by"`
	Version     int    `json:"version"`
	Status      string `json:"status,omitempty"`
}
