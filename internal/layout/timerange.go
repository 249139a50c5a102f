package layout

import (
	"regexp"
	"strconv"
	"time"

	"github.com/waterwatch/dashboard/internal/models"
)

var relativeTimeRe = regexp.MustCompile(`^now-(\d+)([smhdMy])$`)

// ResolveTimeSpec turns one bound of a time range into an absolute time.
// "now" and "now-<N><unit>" expressions are resolved against the supplied
// wall-clock instant; absolute values are parsed as RFC 3339. Anything
// malformed falls back to the current time unchanged, so a bad expression
// degrades to a zero-width window instead of an error.
//
// Relative bounds are resolved at fetch time, not at configuration time:
// two fetches issued seconds apart compute slightly different absolute
// windows. That is the intended "live trailing window" behavior.
func ResolveTimeSpec(spec string, now time.Time) time.Time {
	if spec == "now" {
		return now
	}
	if m := relativeTimeRe.FindStringSubmatch(spec); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return now
		}
		switch m[2] {
		case "s":
			return now.Add(-time.Duration(n) * time.Second)
		case "m":
			return now.Add(-time.Duration(n) * time.Minute)
		case "h":
			return now.Add(-time.Duration(n) * time.Hour)
		case "d":
			return now.AddDate(0, 0, -n)
		case "M":
			return now.AddDate(0, -n, 0)
		case "y":
			return now.AddDate(-n, 0, 0)
		}
		return now
	}
	if t, err := time.Parse(time.RFC3339, spec); err == nil {
		return t
	}
	return now
}

// ResolveTimeRange resolves both bounds of a range against the same instant.
func ResolveTimeRange(tr models.TimeRange, now time.Time) (from, to time.Time) {
	return ResolveTimeSpec(tr.From, now), ResolveTimeSpec(tr.To, now)
}

// IsRelative reports whether a bound is a relative expression rather than an
// absolute timestamp.
func IsRelative(spec string) bool {
	return spec == "now" || relativeTimeRe.MatchString(spec)
}
