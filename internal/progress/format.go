package progress

import (
	"fmt"
)

// Byte unit thresholds
const (
	kilobyte = 1024
	megabyte = 1024 * 1024
	gigabyte = 1024 * 1024 * 1024
)

// FormatBytes renders a byte count in human units: B, KB, MB or GB with one
// decimal place.
func FormatBytes(n int64) string {
	v := float64(n)
	switch {
	case v < kilobyte:
		return fmt.Sprintf("%.1f B", v)
	case v < megabyte:
		return fmt.Sprintf("%.1f KB", v/kilobyte)
	case v < gigabyte:
		return fmt.Sprintf("%.1f MB", v/megabyte)
	default:
		return fmt.Sprintf("%.1f GB", v/gigabyte)
	}
}

// FormatSpeed renders a transfer rate in human units per second.
func FormatSpeed(bytesPerSec float64) string {
	switch {
	case bytesPerSec < kilobyte:
		return fmt.Sprintf("%.1f B/s", bytesPerSec)
	case bytesPerSec < megabyte:
		return fmt.Sprintf("%.1f KB/s", bytesPerSec/kilobyte)
	default:
		return fmt.Sprintf("%.1f MB/s", bytesPerSec/megabyte)
	}
}

// FormatSeconds renders a duration as M:SS, switching to H:MM:SS at one hour.
func FormatSeconds(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatETA renders an ETA as "Xm Ys", or "--" when the estimate is
// unavailable.
func FormatETA(etaSeconds int) string {
	if etaSeconds < 0 {
		return "--"
	}
	return fmt.Sprintf("%dm %ds", etaSeconds/60, etaSeconds%60)
}
