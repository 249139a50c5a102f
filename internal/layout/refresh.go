package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultRefreshSeconds is used when a stored refresh string cannot be
// parsed.
const DefaultRefreshSeconds = 300

// FormatRefresh renders a refresh interval for the persisted form, e.g.
// 300 -> "300s". Zero (no auto-refresh) renders as "0s".
func FormatRefresh(seconds int) string {
	return fmt.Sprintf("%ds", seconds)
}

// ParseRefresh parses a persisted refresh string back to whole seconds by
// stripping the trailing "s". Malformed or empty input yields the default.
func ParseRefresh(s string) int {
	trimmed := strings.TrimSuffix(s, "s")
	if trimmed == s || trimmed == "" {
		return DefaultRefreshSeconds
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil || n < 0 {
		return DefaultRefreshSeconds
	}
	return n
}
