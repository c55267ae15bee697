package model

import (
	"strconv"
	"strings"
)

// Platform identifies the source platform a URL was classified into.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformFacebook  Platform = "facebook"
	PlatformPinterest Platform = "pinterest"

	// PlatformUnknown means no classification rule matched.
	PlatformUnknown Platform = ""
)

// String returns the string representation of Platform.
func (p Platform) String() string {
	return string(p)
}

// QualityOriginal is the pseudo-quality surfaced for still images that have
// no video stream and therefore no height tiers.
const QualityOriginal = "Original"

// ContentRecord is the immutable result of a metadata probe. A new fetch
// supersedes the previous record; records are never mutated after creation.
type ContentRecord struct {
	Platform        Platform
	URL             string
	Title           string
	Uploader        string
	DurationSeconds float64 // 0 when the engine reported no duration
	DurationDisplay string  // pre-formatted, e.g. "2:05" or "1:02:03"
	ThumbnailURL    string
	IsPlayableVideo bool
	// AvailableQualities holds distinct height tiers like "1080p", sorted
	// descending, or just QualityOriginal for non-playable stills.
	AvailableQualities []string
	SourceExtension    string
}

// DefaultQuality picks the tier pre-selected for the user: 1080p when
// available, otherwise the smallest tier above 1080, otherwise the highest
// tier offered. Returns "" for an empty list.
func DefaultQuality(tiers []string) string {
	var heights []int
	for _, t := range tiers {
		h, err := strconv.Atoi(strings.TrimSuffix(t, "p"))
		if err != nil {
			continue
		}
		heights = append(heights, h)
	}
	if len(heights) == 0 {
		if len(tiers) > 0 {
			return tiers[0]
		}
		return ""
	}

	best := 0
	aboveTarget := 0
	for _, h := range heights {
		if h == 1080 {
			return "1080p"
		}
		if h > best {
			best = h
		}
		if h > 1080 && (aboveTarget == 0 || h < aboveTarget) {
			aboveTarget = h
		}
	}
	if aboveTarget != 0 {
		return strconv.Itoa(aboveTarget) + "p"
	}
	return strconv.Itoa(best) + "p"
}
