package download

import (
	"fmt"
	"math"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count with one decimal in 1024-based units.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	return fmt.Sprintf("%.1f %s", float64(bytes)/math.Pow(1024, float64(i)), sizeUnits[i])
}

// FormatSpeed renders a bytes-per-second rate.
func FormatSpeed(bytesPerSecond float64) string {
	return FormatSize(int64(bytesPerSecond)) + "/s"
}

// FormatETA renders a remaining duration in seconds, or "unknown" when it cannot be estimated.
func FormatETA(seconds float64) string {
	if math.IsInf(seconds, 0) || math.IsNaN(seconds) || seconds < 0 {
		return "unknown"
	}
	mins := int(seconds / 60)
	secs := int(math.Mod(seconds, 60))
	switch {
	case mins >= 60:
		return fmt.Sprintf("%dh %dm", mins/60, mins%60)
	case mins > 0:
		return fmt.Sprintf("%dm %ds", mins, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}

// ETASeconds estimates the remaining time at the given rate.
// Returns +Inf when the total is unknown or nothing is moving.
func ETASeconds(received, total int64, bytesPerSecond float64) float64 {
	if total <= 0 || bytesPerSecond <= 0 {
		return math.Inf(1)
	}
	remaining := total - received
	if remaining < 0 {
		remaining = 0
	}
	return float64(remaining) / bytesPerSecond
}
