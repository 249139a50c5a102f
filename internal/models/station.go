package models

// Station represents a water-quality monitoring station as reported by the
// remote monitoring API.
type Station struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Long        float64 `json:"long"`
	Status      string  `json:"status"`      // "active", "inactive", "maintenance"
	StationType string  `json:"stationType"` // "river", "lake", "coastal", ...
	Country     string  `json:"country"`
	BasinName   string  `json:"basinName,omitempty"`
}

// Parameter is one measurable water-quality parameter (pH, turbidity, ...).
type Parameter struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Unit           string `json:"unit"`
	ParameterGroup string `json:"parameterGroup,omitempty"`
}
