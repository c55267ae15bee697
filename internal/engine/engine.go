// Package engine wraps the external extraction engine (yt-dlp) behind small
// interfaces so the fetcher and orchestrator can be exercised against fakes.
package engine

import (
	"context"
)

// ProbeSpec configures a metadata-only probe. No media bytes are retrieved.
type ProbeSpec struct {
	URL string

	// CookiesFile is an optional credential file passed through only when
	// it exists on disk; absence is not an error.
	CookiesFile string
}

// AcquireSpec configures one media acquisition.
type AcquireSpec struct {
	URL string

	// FormatSelector is the engine's format-selection expression.
	FormatSelector string

	// OutputTemplate is the engine output template, e.g.
	// "/downloads/title.%(ext)s".
	OutputTemplate string

	// MergeContainer asks the engine to merge split streams into the given
	// container; empty means no merge.
	MergeContainer string

	CookiesFile string
}

// ProgressSample is one periodic acquisition progress observation.
type ProgressSample struct {
	DownloadedBytes int64
	TotalBytes      int64 // 0 when the engine reports no total or estimate
}

// AcquireResult reports what an acquisition produced.
type AcquireResult struct {
	// Filename is the engine-reported output path; may be empty when the
	// engine did not echo one back.
	Filename string
}

// Prober runs metadata-only probes and returns the engine's raw JSON record.
type Prober interface {
	Probe(ctx context.Context, spec ProbeSpec) ([]byte, error)
}

// Acquirer downloads media bytes, reporting progress through the callback.
type Acquirer interface {
	Acquire(ctx context.Context, spec AcquireSpec, onProgress func(ProgressSample)) (AcquireResult, error)
}
