package render

import (
	"fmt"
	"time"
)

// absoluteLayout is used once an instant is 30 days or more in the past.
const absoluteLayout = "Jan 2, 2006"

// RelativeTime renders t relative to now: minutes under an hour, hours under
// a day, days under 30 days, otherwise an absolute date.
func RelativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Hour:
		return ago(int(d/time.Minute), "minute")
	case d < 24*time.Hour:
		return ago(int(d/time.Hour), "hour")
	case d < 30*24*time.Hour:
		return ago(int(d/(24*time.Hour)), "day")
	default:
		return t.Format(absoluteLayout)
	}
}

func ago(n int, unit string) string {
	if n < 0 {
		n = 0
	}
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
