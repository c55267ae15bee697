package progress

import (
	"time"
)

// Smoothing and pacing constants
const (
	// SpeedSmoothingWeight is the exponential-smoothing weight given to the
	// newest instantaneous speed sample.
	SpeedSmoothingWeight = 0.3

	// MinSampleInterval caps how often the tracker emits transfer updates.
	MinSampleInterval = time.Second

	// ETAUnknownSeconds marks an ETA that cannot be computed.
	ETAUnknownSeconds = -1

	// FractionIndeterminate marks progress whose total size is unknown.
	FractionIndeterminate = -1.0
)

// Update is one emitted transfer estimate.
type Update struct {
	BytesTransferred int64
	BytesTotal       int64 // 0 when unknown
	Fraction         float64
	SpeedBytesPerSec float64
	ETASeconds       int
}

// Tracker smooths a stream of (timestamp, bytes) samples into human-facing
// speed and ETA estimates. Not safe for concurrent use; each run owns one.
type Tracker struct {
	lastTime    time.Time
	lastBytes   int64
	smoothed    float64
	hasSmoothed bool
	hasEmitted  bool
}

// NewTracker creates a tracker for one transfer.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Sample records one (now, transferred, total) observation. It returns an
// Update no more often than MinSampleInterval; the bool reports whether an
// update was emitted.
func (t *Tracker) Sample(now time.Time, transferred, total int64) (Update, bool) {
	if !t.hasEmitted {
		t.lastTime = now
		t.lastBytes = transferred
		t.hasEmitted = true
		return Update{
			BytesTransferred: capToTotal(transferred, total),
			BytesTotal:       total,
			Fraction:         fraction(transferred, total),
			ETASeconds:       ETAUnknownSeconds,
		}, true
	}

	elapsed := now.Sub(t.lastTime)
	if elapsed < MinSampleInterval {
		return Update{}, false
	}

	instant := float64(transferred-t.lastBytes) / elapsed.Seconds()
	if instant < 0 {
		instant = -instant
	}
	if t.hasSmoothed {
		t.smoothed = SpeedSmoothingWeight*instant + (1-SpeedSmoothingWeight)*t.smoothed
	} else {
		t.smoothed = instant
		t.hasSmoothed = true
	}

	eta := ETAUnknownSeconds
	if total > 0 && t.smoothed > 1 {
		remaining := float64(total - transferred)
		if remaining < 0 {
			remaining = 0
		}
		eta = int(remaining / t.smoothed)
	}

	t.lastTime = now
	t.lastBytes = transferred

	return Update{
		BytesTransferred: capToTotal(transferred, total),
		BytesTotal:       total,
		Fraction:         fraction(transferred, total),
		SpeedBytesPerSec: t.smoothed,
		ETASeconds:       eta,
	}, true
}

// capToTotal keeps the reported counter within a known total; some sources
// report an estimated total smaller than what actually arrives.
func capToTotal(transferred, total int64) int64 {
	if total > 0 && transferred > total {
		return total
	}
	return transferred
}

// Speed returns the current smoothed speed in bytes per second.
func (t *Tracker) Speed() float64 {
	return t.smoothed
}

func fraction(transferred, total int64) float64 {
	if total <= 0 {
		return FractionIndeterminate
	}
	f := float64(transferred) / float64(total)
	return clamp01(f)
}

// ConversionFraction maps the transcoder's self-reported elapsed seconds to a
// completion fraction of the probed total duration, clamped to [0,1].
func ConversionFraction(elapsedSeconds, totalSeconds float64) float64 {
	if totalSeconds <= 0 {
		return 0
	}
	return clamp01(elapsedSeconds / totalSeconds)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
