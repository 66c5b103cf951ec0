package study

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const (
	day          = 24 * time.Hour
	daysPerMonth = 30

	labelNoTarget    = "pick a target date"
	labelInvalidDate = "invalid date"
)

// Countdown is the distance from now to a plan's target date.
type Countdown struct {
	Set    bool   `json:"set"`
	Valid  bool   `json:"valid"`
	Past   bool   `json:"past"`
	Months int    `json:"months"`
	Days   int    `json:"days"`
	Label  string `json:"label"`
}

// CountdownTo computes the countdown toward targetDate. Whole days are
// counted by truncation and split into 30-day months; the months part is
// left out of the label when it is zero.
func CountdownTo(targetDate *string, now time.Time) Countdown {
	if targetDate == nil || strings.TrimSpace(*targetDate) == "" {
		return Countdown{Label: labelNoTarget}
	}
	target, err := dateparse.ParseIn(strings.TrimSpace(*targetDate), time.UTC)
	if err != nil {
		return Countdown{Set: true, Label: labelInvalidDate}
	}

	diff := target.Sub(now)
	c := Countdown{Set: true, Valid: true, Past: diff < 0}
	if c.Past {
		diff = -diff
	}
	total := int(diff / day)
	c.Months = total / daysPerMonth
	c.Days = total % daysPerMonth

	parts := make([]string, 0, 2)
	if c.Months > 0 {
		parts = append(parts, plural(c.Months, "month"))
	}
	parts = append(parts, plural(c.Days, "day"))
	suffix := "left"
	if c.Past {
		suffix = "ago"
	}
	c.Label = strings.Join(parts, " ") + " " + suffix
	return c
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
