package model

import (
	"fmt"
	"path/filepath"

	"github.com/go-playground/validator/v10"
)

// TargetFormat selects what the download should produce.
type TargetFormat string

const (
	// TargetVideo downloads video+audio and re-encodes to MP4/H.264.
	TargetVideo TargetFormat = "video"

	// TargetAudio downloads best audio and re-encodes to MP3.
	TargetAudio TargetFormat = "audio"

	// TargetOriginalStill downloads a still image as-is, no conversion.
	TargetOriginalStill TargetFormat = "original"
)

// DownloadRequest is the user-declared intent for one orchestration run.
// It is constructed at download start and immutable for the run's duration.
type DownloadRequest struct {
	// Quality is a height tier from ContentRecord.AvailableQualities, e.g.
	// "720p". Ignored for audio targets (audio is always best available)
	// and for stills (which only offer QualityOriginal).
	Quality string `validate:"required_if=TargetFormat video"`

	TargetFormat TargetFormat `validate:"required,oneof=video audio original"`

	// DestinationDir is where output files are written. Created if absent.
	DestinationDir string `validate:"required"`
}

var validate = validator.New()

// Validate checks the request for missing or inconsistent fields.
func (r DownloadRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid download request: %w", err)
	}
	if !filepath.IsAbs(r.DestinationDir) {
		return fmt.Errorf("invalid download request: destination directory must be absolute: %s", r.DestinationDir)
	}
	return nil
}
