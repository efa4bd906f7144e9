package models

import (
	"fmt"
	"strings"
	"time"
)

// FormatRemaining renders a countdown using the two largest non-zero units
// among days, hours, minutes and seconds.
func FormatRemaining(d time.Duration) string {
	total := int64(d / time.Second)
	if total <= 0 {
		return "0 seconds"
	}

	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	units := []struct {
		n    int64
		name string
	}{
		{days, "day"},
		{hours, "hour"},
		{minutes, "minute"},
		{seconds, "second"},
	}

	parts := make([]string, 0, 2)
	for _, u := range units {
		if u.n > 0 && len(parts) < 2 {
			parts = append(parts, plural(u.n, u.name))
		}
	}

	return strings.Join(parts, " ")
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
