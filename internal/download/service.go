package download

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rudra-mondal/youtube-downloader/internal/convert"
	"github.com/rudra-mondal/youtube-downloader/internal/engine"
	"github.com/rudra-mondal/youtube-downloader/internal/model"
	"github.com/rudra-mondal/youtube-downloader/internal/platform"
	"github.com/rudra-mondal/youtube-downloader/internal/progress"
)

// Fetcher is the metadata probe the orchestrator delegates to.
type Fetcher interface {
	Probe(ctx context.Context, url string) (*model.ContentRecord, error)
}

// Converter re-encodes an acquired file, reporting completion fractions.
type Converter interface {
	Convert(ctx context.Context, req convert.Request, onFraction func(float64)) (string, error)
}

// Service is the download/convert orchestrator. It owns exactly one
// TransferState per run and is its sole writer; consumers receive copies
// through the update callback or Snapshot.
type Service struct {
	fetcher     Fetcher
	acquirer    engine.Acquirer
	converter   Converter
	cookiesFile string

	mu       sync.Mutex
	state    model.TransferState
	onUpdate func(model.TransferState)
}

// NewService creates the orchestrator. cookiesFile is optional and passed
// through to the engine as-is (the fetcher has already vetted existence for
// probes; acquisition re-checks nothing and simply omits an empty path).
func NewService(fetcher Fetcher, acquirer engine.Acquirer, converter Converter, cookiesFile string) *Service {
	return &Service{
		fetcher:     fetcher,
		acquirer:    acquirer,
		converter:   converter,
		cookiesFile: cookiesFile,
		state:       model.TransferState{Phase: model.PhaseIdle},
	}
}

// SetUpdateCallback sets the callback receiving state snapshots. The
// callback runs on the orchestrator's goroutine; keep it cheap.
func (s *Service) SetUpdateCallback(callback func(model.TransferState)) {
	s.mu.Lock()
	s.onUpdate = callback
	s.mu.Unlock()
}

// Snapshot returns a copy of the current transfer state for polling
// consumers.
func (s *Service) Snapshot() model.TransferState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Fetch runs a metadata probe as a tracked run: Fetching, then
// ReadyToDownload or Failed. A new Fetch begins a fresh run regardless of
// how the previous one ended.
func (s *Service) Fetch(ctx context.Context, url string) (*model.ContentRecord, error) {
	s.beginRun(model.PhaseFetching)

	rec, err := s.fetcher.Probe(ctx, url)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.setPhase(model.PhaseReady)
	return rec, nil
}

// Run executes one acquisition and, unless the content is a still image,
// one conversion. It returns the final output path. Callers must not start
// a second Run while one is active; the triggering control is expected to
// be disabled for the duration.
func (s *Service) Run(ctx context.Context, rec *model.ContentRecord, req model.DownloadRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	if err := validateQuality(rec, req); err != nil {
		return "", err
	}
	if err := platform.CreateDirectoryIfNotExists(req.DestinationDir); err != nil {
		return "", fmt.Errorf("could not create destination directory: %w", err)
	}

	still := !rec.IsPlayableVideo || req.TargetFormat == model.TargetOriginalStill
	started := time.Now()
	s.beginRun(model.PhaseAcquiring)

	acquired, err := s.acquire(ctx, rec, req, still)
	if err != nil {
		s.fail(err)
		return "", err
	}

	result := acquired
	if !still {
		s.setPhase(model.PhaseConverting)
		result, err = s.converter.Convert(ctx, convert.Request{
			InputPath: acquired,
			Target:    req.TargetFormat,
			Quality:   req.Quality,
		}, s.applyConversionFraction)
		if err != nil {
			s.fail(err)
			return "", err
		}
	}

	s.succeed(result)
	slog.Info("run completed", "output", result,
		"elapsed", progress.FormatSeconds(time.Since(started).Seconds()))
	return result, nil
}

// acquire drives the engine download phase and resolves the produced file.
func (s *Service) acquire(ctx context.Context, rec *model.ContentRecord, req model.DownloadRequest, still bool) (string, error) {
	selector, merge := formatSelector(req, still)
	stem := platform.SanitizeFilename(rec.Title)
	template := filepath.Join(req.DestinationDir, stem+".%(ext)s")

	tracker := progress.NewTracker()
	result, err := s.acquirer.Acquire(ctx, engine.AcquireSpec{
		URL:            rec.URL,
		FormatSelector: selector,
		OutputTemplate: template,
		MergeContainer: merge,
		CookiesFile:    s.cookiesFile,
	}, func(sample engine.ProgressSample) {
		if update, ok := tracker.Sample(time.Now(), sample.DownloadedBytes, sample.TotalBytes); ok {
			s.applyTransferUpdate(update)
		}
	})
	if err != nil {
		return "", engine.ClassifyError(err, "download failed", model.KindAcquisition)
	}

	reported := result.Filename
	if reported == "" {
		reported = filepath.Join(req.DestinationDir, stem+"."+rec.SourceExtension)
	}
	found, err := platform.FindOutputFile(reported)
	if err != nil {
		return "", model.E(model.KindOutputMissing,
			"download reported success but no output file materialized", err)
	}
	return found, nil
}

// validateQuality checks the chosen tier against what the probe offered.
func validateQuality(rec *model.ContentRecord, req model.DownloadRequest) error {
	if req.TargetFormat != model.TargetVideo || !rec.IsPlayableVideo {
		return nil
	}
	for _, tier := range rec.AvailableQualities {
		if tier == req.Quality {
			return nil
		}
	}
	return fmt.Errorf("quality %q is not offered for this video (available: %v)",
		req.Quality, rec.AvailableQualities)
}

// beginRun resets the state for a fresh run in the given phase.
func (s *Service) beginRun(phase model.Phase) {
	s.mu.Lock()
	s.state = model.TransferState{
		RunID:      generateRunID(),
		Phase:      phase,
		ETASeconds: model.ETAUnknown,
	}
	s.notifyLocked()
	s.mu.Unlock()
}

// generateRunID generates a unique run ID using UUID v7 for time ordering.
func generateRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return "run-" + id.String()
}

// setPhase transitions the current run, resetting per-phase progress fields.
func (s *Service) setPhase(phase model.Phase) {
	s.mu.Lock()
	s.state.Phase = phase
	s.state.Fraction = 0
	s.state.BytesTransferred = 0
	s.state.BytesTotal = 0
	s.state.SpeedBytesPerSec = 0
	s.state.ETASeconds = model.ETAUnknown
	s.notifyLocked()
	s.mu.Unlock()
}

// applyTransferUpdate folds an acquisition estimate into the state.
// Fractions never go backwards within a phase.
func (s *Service) applyTransferUpdate(u progress.Update) {
	s.mu.Lock()
	s.state.BytesTransferred = u.BytesTransferred
	s.state.BytesTotal = u.BytesTotal
	s.state.SpeedBytesPerSec = u.SpeedBytesPerSec
	s.state.ETASeconds = u.ETASeconds
	if u.Fraction == progress.FractionIndeterminate {
		s.state.Fraction = model.FractionIndeterminate
	} else if u.Fraction >= s.state.Fraction {
		s.state.Fraction = u.Fraction
	}
	s.notifyLocked()
	s.mu.Unlock()
}

// applyConversionFraction folds a transcode fraction into the state.
func (s *Service) applyConversionFraction(f float64) {
	s.mu.Lock()
	if f >= s.state.Fraction {
		s.state.Fraction = f
		s.notifyLocked()
	}
	s.mu.Unlock()
}

// fail moves the run to its terminal failed state.
func (s *Service) fail(err error) {
	slog.Error("run failed", "kind", model.KindOf(err), "error", err)
	s.mu.Lock()
	s.state.Phase = model.PhaseFailed
	s.state.ErrorDetail = err.Error()
	s.notifyLocked()
	s.mu.Unlock()
}

// succeed moves the run to its terminal succeeded state.
func (s *Service) succeed(outputPath string) {
	s.mu.Lock()
	s.state.Phase = model.PhaseSucceeded
	s.state.Fraction = 1.0
	s.state.OutputPath = outputPath
	s.notifyLocked()
	s.mu.Unlock()
}

// notifyLocked hands a snapshot to the callback. Callers hold s.mu.
func (s *Service) notifyLocked() {
	if s.onUpdate != nil {
		s.onUpdate(s.state)
	}
}
