package fetch

import (
	"context"
	"log/slog"
	"os"

	"github.com/rudra-mondal/youtube-downloader/internal/engine"
	"github.com/rudra-mondal/youtube-downloader/internal/model"
	"github.com/rudra-mondal/youtube-downloader/internal/platform"
)

// Service handles metadata probe operations.
type Service struct {
	prober      engine.Prober
	cookiesFile string
}

// NewService creates a metadata fetcher. cookiesFile is optional; it is
// passed through to the engine only when the file actually exists on disk.
func NewService(prober engine.Prober, cookiesFile string) *Service {
	return &Service{prober: prober, cookiesFile: cookiesFile}
}

// Probe classifies the URL and runs a metadata-only engine probe, returning
// the normalized record. Unsupported URLs are rejected locally without any
// network call. All failures come back classified.
func (s *Service) Probe(ctx context.Context, url string) (*model.ContentRecord, error) {
	pf := platform.Classify(url)
	if pf == model.PlatformUnknown {
		return nil, model.E(model.KindInvalidURL, "unsupported video platform or invalid URL", nil)
	}

	slog.Info("fetching metadata", "platform", pf, "url", url)
	raw, err := s.prober.Probe(ctx, engine.ProbeSpec{
		URL:         url,
		CookiesFile: s.usableCookiesFile(),
	})
	if err != nil {
		return nil, engine.ClassifyError(err, "could not fetch video information", model.KindUnavailable)
	}

	rec, err := normalizeRecord(raw, url, pf)
	if err != nil {
		return nil, err
	}

	slog.Info("metadata fetched", "title", rec.Title, "qualities", rec.AvailableQualities,
		"playable", rec.IsPlayableVideo)
	return rec, nil
}

// usableCookiesFile returns the configured cookies path when present on
// disk; a missing file is not an error, just unused.
func (s *Service) usableCookiesFile() string {
	if s.cookiesFile == "" {
		return ""
	}
	if _, err := os.Stat(s.cookiesFile); err != nil {
		return ""
	}
	return s.cookiesFile
}
