package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lrstanley/go-ytdlp"
)

// ProgressInterval is how often the engine reports acquisition samples.
const ProgressInterval = 500 * time.Millisecond

// YTDLP drives the yt-dlp binary through github.com/lrstanley/go-ytdlp.
// It implements Prober and Acquirer.
type YTDLP struct{}

// NewYTDLP creates the production engine.
func NewYTDLP() *YTDLP {
	return &YTDLP{}
}

// Probe runs yt-dlp in metadata-only mode and returns the raw single-JSON
// record from its stdout.
func (e *YTDLP) Probe(ctx context.Context, spec ProbeSpec) ([]byte, error) {
	dl := ytdlp.New().
		Quiet().
		SkipDownload().
		NoPlaylist().
		DumpSingleJSON()
	if spec.CookiesFile != "" {
		dl = dl.Cookies(spec.CookiesFile)
	}

	slog.Debug("probing url", "url", spec.URL)
	result, err := dl.Run(ctx, spec.URL)
	if err != nil {
		return nil, fmt.Errorf("engine probe failed: %w%s", err, stderrTail(result))
	}
	return []byte(result.Stdout), nil
}

// Acquire downloads media per spec, forwarding periodic byte-count samples.
func (e *YTDLP) Acquire(ctx context.Context, spec AcquireSpec, onProgress func(ProgressSample)) (AcquireResult, error) {
	dl := ytdlp.New().
		ForceOverwrites().
		NoPlaylist().
		Format(spec.FormatSelector).
		Output(spec.OutputTemplate)
	if spec.MergeContainer != "" {
		dl = dl.MergeOutputFormat(spec.MergeContainer)
	}
	if spec.CookiesFile != "" {
		dl = dl.Cookies(spec.CookiesFile)
	}

	if onProgress != nil {
		dl.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
			onProgress(ProgressSample{
				DownloadedBytes: int64(update.DownloadedBytes),
				TotalBytes:      int64(update.TotalBytes),
			})
		})
	}

	slog.Debug("starting acquisition", "url", spec.URL, "format", spec.FormatSelector)
	result, err := dl.Run(ctx, spec.URL)
	if err != nil {
		return AcquireResult{}, fmt.Errorf("engine download failed: %w%s", err, stderrTail(result))
	}

	var res AcquireResult
	if info, infoErr := result.GetExtractedInfo(); infoErr == nil && len(info) > 0 {
		if info[0].Filename != nil {
			res.Filename = *info[0].Filename
		}
	}
	return res, nil
}

// stderrTail extracts a short diagnostic suffix from a failed run.
func stderrTail(result *ytdlp.Result) string {
	if result == nil {
		return ""
	}
	s := strings.TrimSpace(result.Stderr)
	if s == "" {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return ": " + strings.Join(lines, "; ")
}
