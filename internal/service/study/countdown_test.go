package study

import (
	"testing"
	"time"
)

func TestCountdownTo(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	str := func(s string) *string { return &s }

	tests := []struct {
		name   string
		target *string
		want   string
		past   bool
	}{
		{"unset", nil, "pick a target date", false},
		{"blank", str("  "), "pick a target date", false},
		{"garbage", str("next blue moon"), "invalid date", false},
		{"same moment", str("2026-01-01T12:00:00Z"), "0 days left", false},
		{"under a day", str("2026-01-02T11:00:00Z"), "0 days left", false},
		{"one day", str("2026-01-02T12:00:00Z"), "1 day left", false},
		{"days only", str("2026-01-21T12:00:00Z"), "20 days left", false},
		{"exactly a month", str("2026-01-31T12:00:00Z"), "1 month 0 days left", false},
		{"months and days", str("2026-03-17T12:00:00Z"), "2 months 15 days left", false},
		{"past", str("2025-12-01T12:00:00Z"), "1 month 1 day ago", true},
		{"plain date", str("2026-01-11"), "9 days left", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountdownTo(tt.target, now)
			if got.Label != tt.want {
				t.Errorf("label = %q, want %q", got.Label, tt.want)
			}
			if got.Past != tt.past {
				t.Errorf("past = %v, want %v", got.Past, tt.past)
			}
		})
	}
}

func TestCountdownToFlags(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bad := "nope"
	if c := CountdownTo(&bad, now); !c.Set || c.Valid {
		t.Errorf("invalid date: set=%v valid=%v", c.Set, c.Valid)
	}
	if c := CountdownTo(nil, now); c.Set || c.Valid {
		t.Errorf("unset: set=%v valid=%v", c.Set, c.Valid)
	}
	good := "2026-04-11T00:00:00Z"
	c := CountdownTo(&good, now)
	if !c.Valid || c.Months != 3 || c.Days != 10 {
		t.Errorf("got %+v, want 3 months 10 days", c)
	}
}
