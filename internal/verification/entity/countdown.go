package entity

import "fmt"

// ExpiringThreshold is the remaining time, in seconds, below which the countdown is highlighted.
const ExpiringThreshold = 60

// FormatCountdown renders seconds as M:SS. Negative input renders as 0:00.
func FormatCountdown(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// IsExpiring reports whether the countdown display should be highlighted.
func IsExpiring(seconds int) bool {
	return seconds < ExpiringThreshold
}
