package lock

import (
	"fmt"
	"time"
)

// Humanize renders a remaining duration as "2 minutes 5 seconds",
// "1 minute" or "45 seconds".
func Humanize(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	totalSeconds := int(remaining / time.Second)
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60

	if minutes > 0 {
		out := fmt.Sprintf("%d minute%s", minutes, plural(minutes))
		if seconds != 0 {
			out += fmt.Sprintf(" %d second%s", seconds, plural(seconds))
		}
		return out
	}
	return fmt.Sprintf("%d second%s", seconds, plural(seconds))
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
