package download

import (
	"fmt"
	"strings"

	"github.com/rudra-mondal/youtube-downloader/internal/model"
)

// MergeContainer is the container split video/audio streams are merged into.
const MergeContainer = "mp4"

// formatSelector builds the engine's format-selection expression for one
// request, and the merge container when split streams must be joined.
//
// Video targets ask for the best video at or below the chosen height tier
// merged with best audio, then fall back progressively: any video at that
// height with any audio, then best overall. Audio targets always take the
// best audio-only stream. Stills take the single best stream with no merge.
func formatSelector(req model.DownloadRequest, still bool) (selector, merge string) {
	if still {
		return "best", ""
	}
	if req.TargetFormat == model.TargetAudio {
		return "bestaudio/best", ""
	}

	height := strings.TrimSuffix(req.Quality, "p")
	return fmt.Sprintf(
		"bestvideo[height<=%s][ext=mp4]+bestaudio[ext=m4a]/bestvideo[height<=%s]+bestaudio/best[height<=%s]/best",
		height, height, height,
	), MergeContainer
}
