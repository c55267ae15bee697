// Package convert invokes the external transcoder (ffmpeg) to re-encode a
// downloaded file to MP3 or H.264 MP4, parsing the transcoder's streaming
// progress output into completion fractions.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rudra-mondal/youtube-downloader/internal/model"
	"github.com/rudra-mondal/youtube-downloader/internal/progress"
	"github.com/rudra-mondal/youtube-downloader/internal/subproc"
)

// FFmpeg encoding settings
const (
	VideoCodec   = "libx264"
	VideoPreset  = "fast"
	VideoCRF     = "23"
	AudioCodec   = "aac"
	AudioBitrate = "192k"

	AudioSampleRate = "44100"
	AudioChannels   = "2"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:1"

	OutputExtensionMP3 = ".mp3"
	OutputExtensionMP4 = ".mp4"
)

// FallbackDurationSeconds is assumed when the source duration cannot be
// probed. Percentage progress becomes unreliable but conversion still runs
// instead of dividing by zero.
const FallbackDurationSeconds = 1.0

// fractionEmitInterval throttles progress callbacks to roughly 4 per second
// so the presentation layer is not saturated.
const fractionEmitInterval = 250 * time.Millisecond

// Request describes one conversion.
type Request struct {
	InputPath string
	Target    model.TargetFormat

	// Quality tags the video output filename, e.g. "720p". Unused for audio.
	Quality string
}

// Service handles media conversion operations.
type Service struct {
	ffmpegPath  string
	ffprobePath string
}

// NewService creates a conversion service. Empty paths fall back to looking
// the tools up on PATH.
func NewService(ffmpegPath, ffprobePath string) *Service {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	if ffprobePath == "" {
		ffprobePath = FFprobeCommand
	}
	return &Service{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// CheckTools verifies the external binaries are present.
func (s *Service) CheckTools() error {
	for _, tool := range []string{s.ffmpegPath, s.ffprobePath} {
		if _, err := exec.LookPath(tool); err != nil {
			return model.E(model.KindToolMissing,
				fmt.Sprintf("required conversion tool not found: %s", tool), err)
		}
	}
	return nil
}

// OutputPath computes the sibling file a conversion writes: "<stem>.mp3" for
// audio, "<stem>_<quality>.mp4" for video.
func OutputPath(inputPath string, target model.TargetFormat, quality string) string {
	stem := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	if target == model.TargetAudio {
		return stem + OutputExtensionMP3
	}
	return stem + "_" + quality + OutputExtensionMP4
}

// Convert re-encodes the input per req, reporting clamped completion
// fractions through onFraction. On success the pre-conversion input file is
// deleted and the converted path returned; on failure the input is preserved
// and the error carries the captured transcoder output.
func (s *Service) Convert(ctx context.Context, req Request, onFraction func(float64)) (string, error) {
	if err := s.CheckTools(); err != nil {
		return "", err
	}

	duration, err := s.ProbeDuration(ctx, req.InputPath)
	if err != nil {
		slog.Warn("could not probe source duration, progress will be unreliable",
			"input", req.InputPath, "error", err)
		duration = FallbackDurationSeconds
	}

	outputPath := OutputPath(req.InputPath, req.Target, req.Quality)
	args := buildFFmpegArgs(req, outputPath)

	slog.Info("starting conversion", "input", req.InputPath, "output", outputPath,
		"target", req.Target)
	handle, err := subproc.Start(ctx, s.ffmpegPath, args...)
	if err != nil {
		return "", model.E(model.KindConversion, "failed to start transcoder", err)
	}

	s.monitorProgress(handle, duration, onFraction)

	waitErr := handle.Wait()
	if waitErr != nil {
		return "", model.E(model.KindConversion,
			fmt.Sprintf("transcoder exited with code %d: %s",
				handle.ExitCode(), tail(handle.Output())), waitErr)
	}
	if _, err := os.Stat(outputPath); err != nil {
		return "", model.E(model.KindConversion,
			fmt.Sprintf("transcoder reported success but wrote no output: %s", tail(handle.Output())), err)
	}

	if err := os.Remove(req.InputPath); err != nil {
		slog.Warn("could not remove pre-conversion file", "path", req.InputPath, "error", err)
	}
	return outputPath, nil
}

// ProbeDuration returns the source file duration in seconds via ffprobe.
func (s *Service) ProbeDuration(ctx context.Context, filePath string) (float64, error) {
	out, err := subproc.RunOutput(ctx, s.ffprobePath,
		"-v", FFprobeLogLevel,
		"-show_entries", FFprobeShowEntries,
		"-of", FFprobeOutputFormat,
		filePath)
	if err != nil {
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration %q: %w", out, err)
	}
	return duration, nil
}

// monitorProgress consumes the transcoder's key=value progress lines until
// the stream ends, emitting throttled fractions.
func (s *Service) monitorProgress(handle *subproc.Handle, totalDuration float64, onFraction func(float64)) {
	var lastEmit time.Time
	for {
		line, ok := handle.NextLine()
		if !ok {
			return
		}
		elapsed, ok := parseProgressSeconds(line)
		if !ok {
			continue
		}
		if onFraction == nil || time.Since(lastEmit) < fractionEmitInterval {
			continue
		}
		lastEmit = time.Now()
		onFraction(progress.ConversionFraction(elapsed, totalDuration))
	}
}

// buildFFmpegArgs builds the transcoder command line for req.
func buildFFmpegArgs(req Request, outputPath string) []string {
	args := []string{"-y", "-i", req.InputPath}
	if req.Target == model.TargetAudio {
		args = append(args,
			"-vn",
			"-ar", AudioSampleRate,
			"-ac", AudioChannels,
			"-b:a", AudioBitrate,
		)
	} else {
		args = append(args,
			"-c:v", VideoCodec,
			"-preset", VideoPreset,
			"-crf", VideoCRF,
			"-c:a", AudioCodec,
			"-b:a", AudioBitrate,
		)
	}
	return append(args, "-progress", ProgressPipeTarget, "-nostats", outputPath)
}

// parseProgressSeconds extracts elapsed transcode time from one progress
// line. ffmpeg emits either out_time=HH:MM:SS.frac or a microsecond counter
// out_time_us=N depending on build.
func parseProgressSeconds(line string) (float64, bool) {
	line = strings.TrimSpace(line)

	if value, found := strings.CutPrefix(line, "out_time_us="); found {
		us, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil || us < 0 {
			return 0, false
		}
		return float64(us) / 1e6, true
	}

	if value, found := strings.CutPrefix(line, "out_time="); found {
		return parseClockTime(strings.TrimSpace(value))
	}

	return 0, false
}

// parseClockTime converts "HH:MM:SS.frac" into seconds.
func parseClockTime(value string) (float64, bool) {
	value, _, _ = strings.Cut(value, ".")
	parts := strings.Split(value, ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, false
	}

	var seconds float64
	for _, part := range parts {
		n, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, false
		}
		seconds = seconds*60 + n
	}
	if seconds < 0 {
		return 0, false
	}
	return seconds, true
}

// tail keeps the last few lines of captured output for error messages.
func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > 8 {
		lines = lines[len(lines)-8:]
	}
	return strings.Join(lines, "; ")
}
