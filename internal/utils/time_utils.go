// package utils provides utility functions to support various operations within the application.
package utils

import (
	"fmt"
	"time"
)

// TimeAgo renders the age of a timestamp the way the forum UI displays it:
// minutes below an hour, hours below a day, days otherwise.
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
}
