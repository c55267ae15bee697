package progress

// Package progress converts raw transfer samples into smoothed speed and ETA
// figures, maps transcoder timestamps to completion fractions, and formats
// bytes and durations for display.
