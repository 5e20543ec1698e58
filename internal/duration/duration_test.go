package duration

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"PT1H2M3S", 3723},
		{"PT45S", 45},
		{"PT10M", 600},
		{"PT2H", 7200},
		{"PT1H30S", 3630},
		{"P1DT2H", 93600},
		{"P0D", 0},
		{"PT", 0},
		{"", 0},
		{"1:02:03", 0},
		{"PT1.5S", 0},
		{"garbage", 0},
		{"pt1h", 0},
		{"PT9223372036854775807S", 9223372036854775807},
		{"PT9223372036854775807H", 0},
		{"P106751991167301D", 0},
		{"P106751991167300DT86400S", 0},
		{"PT99999999999999999999S", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := Parse(tt.raw); got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{3723, "1:02:03"},
		{45, "0:45"},
		{0, "0:00"},
		{600, "10:00"},
		{3600, "1:00:00"},
		{36005, "10:00:05"},
		{-5, "0:00"},
	}
	for _, tt := range tests {
		if got := Format(tt.seconds); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormat_RoundTripsParsedTokens(t *testing.T) {
	if got := Format(Parse("PT1H2M3S")); got != "1:02:03" {
		t.Errorf("user should see 1:02:03 for PT1H2M3S, got %q", got)
	}
}

func TestMinutes_RoundsDown(t *testing.T) {
	tests := []struct {
		seconds int64
		want    int64
	}{
		{0, 0},
		{59, 0},
		{60, 1},
		{119, 1},
		{900, 15},
		{-30, 0},
	}
	for _, tt := range tests {
		if got := Minutes(tt.seconds); got != tt.want {
			t.Errorf("Minutes(%d) = %d, want %d", tt.seconds, got, tt.want)
		}
	}
}
