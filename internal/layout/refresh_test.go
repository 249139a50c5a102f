package layout

import "testing"

func TestParseRefresh(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{"standard", "300s", 300},
		{"one minute", "60s", 60},
		{"disabled", "0s", 0},
		{"empty", "", DefaultRefreshSeconds},
		{"missing suffix", "300", DefaultRefreshSeconds},
		{"bare suffix", "s", DefaultRefreshSeconds},
		{"non numeric", "abcs", DefaultRefreshSeconds},
		{"negative", "-5s", DefaultRefreshSeconds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRefresh(tt.in); got != tt.want {
				t.Errorf("ParseRefresh(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatRefresh_RoundTrip(t *testing.T) {
	for _, seconds := range []int{0, 30, 60, 300, 3600} {
		if got := ParseRefresh(FormatRefresh(seconds)); got != seconds {
			t.Errorf("round trip of %d produced %d", seconds, got)
		}
	}
}
