package fetch

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rudra-mondal/youtube-downloader/internal/model"
	"github.com/rudra-mondal/youtube-downloader/internal/platform"
	"github.com/rudra-mondal/youtube-downloader/internal/progress"
)

// Default values
const (
	DefaultDuration = "Unknown"

	// PreferredContainer is the container tier extraction favors before
	// falling back to any container at the same height.
	PreferredContainer = "mp4"
)

// rawRecord is the subset of the engine's JSON probe output the normalizer
// consumes. The engine emits many more fields; they are ignored.
type rawRecord struct {
	Title          string      `json:"title"`
	Uploader       string      `json:"uploader"`
	Thumbnail      string      `json:"thumbnail"`
	Duration       float64     `json:"duration"`
	DurationString string      `json:"duration_string"`
	Ext            string      `json:"ext"`
	VCodec         *string     `json:"vcodec"`
	Formats        []rawFormat `json:"formats"`
}

type rawFormat struct {
	Height *float64 `json:"height"`
	VCodec *string  `json:"vcodec"`
	Ext    string   `json:"ext"`
}

// hasVideo reports whether a codec field names a real video codec. The
// engine uses the literal string "none" for audio-only and still entries.
func hasVideo(codec *string) bool {
	return codec != nil && *codec != "" && *codec != "none"
}

// normalizeRecord turns the engine's raw JSON probe output into a canonical
// ContentRecord.
func normalizeRecord(raw []byte, url string, pf model.Platform) (*model.ContentRecord, error) {
	var rec rawRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, model.E(model.KindProbeParse, "could not interpret engine metadata", err)
	}
	if rec.Title == "" && rec.Ext == "" && len(rec.Formats) == 0 {
		return nil, model.E(model.KindProbeParse, "engine metadata is missing required fields",
			fmt.Errorf("empty record for %s", url))
	}

	title := rec.Title
	if pf == model.PlatformFacebook {
		title = platform.StripCountPrefix(title)
	}
	title = platform.CleanTitle(title)

	tiers := extractQualityTiers(rec.Formats)
	playable := len(tiers) > 0 || hasVideo(rec.VCodec)
	if !playable {
		tiers = []string{model.QualityOriginal}
	}

	return &model.ContentRecord{
		Platform:           pf,
		URL:                url,
		Title:              title,
		Uploader:           rec.Uploader,
		DurationSeconds:    rec.Duration,
		DurationDisplay:    durationDisplay(rec),
		ThumbnailURL:       rec.Thumbnail,
		IsPlayableVideo:    playable,
		AvailableQualities: tiers,
		SourceExtension:    rec.Ext,
	}, nil
}

// durationDisplay prefers the engine's pre-formatted duration string and
// derives one from raw seconds when it is absent.
func durationDisplay(rec rawRecord) string {
	if rec.DurationString != "" {
		return rec.DurationString
	}
	if rec.Duration > 0 {
		return progress.FormatSeconds(rec.Duration)
	}
	return DefaultDuration
}

// extractQualityTiers scans the engine's format list for height-labeled
// video tiers. Entries in the preferred container win; when that pass finds
// nothing, any container counts. Heights are deduplicated and sorted
// descending.
func extractQualityTiers(formats []rawFormat) []string {
	heights := tierHeights(formats, true)
	if len(heights) == 0 {
		heights = tierHeights(formats, false)
	}
	if len(heights) == 0 {
		return nil
	}

	sort.Sort(sort.Reverse(sort.IntSlice(heights)))
	tiers := make([]string, 0, len(heights))
	for _, h := range heights {
		tiers = append(tiers, fmt.Sprintf("%dp", h))
	}
	return tiers
}

func tierHeights(formats []rawFormat, preferredOnly bool) []int {
	seen := make(map[int]bool)
	var heights []int
	for _, f := range formats {
		if !hasVideo(f.VCodec) || f.Height == nil || *f.Height <= 0 {
			continue
		}
		if preferredOnly && f.Ext != PreferredContainer {
			continue
		}
		h := int(*f.Height)
		if !seen[h] {
			seen[h] = true
			heights = append(heights, h)
		}
	}
	return heights
}
