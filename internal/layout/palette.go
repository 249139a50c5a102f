package layout

import "fmt"

// DefaultColors is the fixed series palette. Assignment is deterministic in
// creation order so the same target set always gets the same colors.
var DefaultColors = []string{
	"#7EB26D", // green
	"#EAB839", // yellow
	"#6ED0E0", // light blue
	"#EF843C", // orange
	"#E24D42", // red
	"#1F78C1", // blue
	"#BA43A9", // purple
	"#705DA0", // violet
	"#508642", // dark green
	"#CCA300", // dark yellow
}

// ColorKey is the per-target override map key for a (station, parameter)
// pair.
func ColorKey(stationID, paramID int64) string {
	return fmt.Sprintf("%d-%d", stationID, paramID)
}

// ColorFor picks the color for a series: an existing override in the color
// map always wins, otherwise the palette is indexed by the creation-order
// indices of the station and parameter.
func ColorFor(stationIdx, paramIdx int, overrides map[string]string, key string) string {
	if c, ok := overrides[key]; ok && c != "" {
		return c
	}
	return DefaultColors[(stationIdx+paramIdx)%len(DefaultColors)]
}
