package download

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudra-mondal/youtube-downloader/internal/convert"
	"github.com/rudra-mondal/youtube-downloader/internal/engine"
	"github.com/rudra-mondal/youtube-downloader/internal/model"
)

type fakeFetcher struct {
	rec *model.ContentRecord
	err error
}

func (f *fakeFetcher) Probe(ctx context.Context, url string) (*model.ContentRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rec, nil
}

// fakeAcquirer optionally materializes a file named after the output template
// stem so output resolution has something real to stat.
type fakeAcquirer struct {
	err       error
	filename  string
	writeExt  string
	samples   []engine.ProgressSample
	gotSpec   engine.AcquireSpec
	callCount int
}

func (f *fakeAcquirer) Acquire(ctx context.Context, spec engine.AcquireSpec, onProgress func(engine.ProgressSample)) (engine.AcquireResult, error) {
	f.callCount++
	f.gotSpec = spec
	for _, sample := range f.samples {
		onProgress(sample)
	}
	if f.err != nil {
		return engine.AcquireResult{}, f.err
	}
	filename := f.filename
	if f.writeExt != "" {
		base := spec.OutputTemplate
		base = base[:len(base)-len(".%(ext)s")]
		filename = base + "." + f.writeExt
		if err := os.WriteFile(filename, []byte("media"), 0o644); err != nil {
			return engine.AcquireResult{}, err
		}
	}
	return engine.AcquireResult{Filename: filename}, nil
}

type fakeConverter struct {
	out       string
	err       error
	fractions []float64
	gotReq    convert.Request
	callCount int
}

func (f *fakeConverter) Convert(ctx context.Context, req convert.Request, onFraction func(float64)) (string, error) {
	f.callCount++
	f.gotReq = req
	for _, fraction := range f.fractions {
		onFraction(fraction)
	}
	if f.err != nil {
		return "", f.err
	}
	if f.out != "" {
		return f.out, nil
	}
	return req.InputPath, nil
}

func sampleRecord() *model.ContentRecord {
	return &model.ContentRecord{
		Platform:           model.PlatformYouTube,
		URL:                "https://www.youtube.com/watch?v=abc123",
		Title:              "Sample Video",
		IsPlayableVideo:    true,
		AvailableQualities: []string{"1080p", "720p", "360p"},
		SourceExtension:    "webm",
	}
}

func videoRequest(dir string) model.DownloadRequest {
	return model.DownloadRequest{
		Quality:        "720p",
		TargetFormat:   model.TargetVideo,
		DestinationDir: dir,
	}
}

func TestRunVideoSuccess(t *testing.T) {
	dir := t.TempDir()
	acquirer := &fakeAcquirer{
		writeExt: "mp4",
		samples: []engine.ProgressSample{
			{DownloadedBytes: 512, TotalBytes: 2048},
		},
	}
	converter := &fakeConverter{
		out:       filepath.Join(dir, "Sample_Video_720p.mp4"),
		fractions: []float64{0.25, 0.75, 1.0},
	}
	service := NewService(&fakeFetcher{}, acquirer, converter, "")

	var states []model.TransferState
	service.SetUpdateCallback(func(state model.TransferState) {
		states = append(states, state)
	})

	out, err := service.Run(context.Background(), sampleRecord(), videoRequest(dir))
	require.NoError(t, err)
	assert.Equal(t, converter.out, out)

	require.NotEmpty(t, states)
	assert.Equal(t, model.PhaseAcquiring, states[0].Phase)
	assert.NotEmpty(t, states[0].RunID)

	final := states[len(states)-1]
	assert.Equal(t, model.PhaseSucceeded, final.Phase)
	assert.Equal(t, 1.0, final.Fraction)
	assert.Equal(t, converter.out, final.OutputPath)

	// During acquisition the byte counters are live; the transition into
	// conversion resets them along with the fraction.
	var sawBytes, sawReset bool
	for i, state := range states {
		if state.Phase == model.PhaseAcquiring && state.BytesTransferred == 512 {
			sawBytes = true
		}
		if state.Phase == model.PhaseConverting && i > 0 && states[i-1].Phase == model.PhaseAcquiring {
			sawReset = true
			assert.Zero(t, state.Fraction)
			assert.Zero(t, state.BytesTransferred)
			assert.Zero(t, state.BytesTotal)
			assert.Equal(t, model.ETAUnknown, state.ETASeconds)
		}
	}
	assert.True(t, sawBytes, "expected a live acquisition update")
	assert.True(t, sawReset, "expected a reset on entering conversion")

	assert.Equal(t, 1, converter.callCount)
	assert.Equal(t, model.TargetVideo, converter.gotReq.Target)
	assert.Equal(t, "720p", converter.gotReq.Quality)
}

func TestRunConversionFractionsMonotone(t *testing.T) {
	dir := t.TempDir()
	acquirer := &fakeAcquirer{writeExt: "mp4"}
	converter := &fakeConverter{fractions: []float64{0.6, 0.3, 0.9}}
	service := NewService(&fakeFetcher{}, acquirer, converter, "")

	var fractions []float64
	service.SetUpdateCallback(func(state model.TransferState) {
		if state.Phase == model.PhaseConverting {
			fractions = append(fractions, state.Fraction)
		}
	})

	_, err := service.Run(context.Background(), sampleRecord(), videoRequest(dir))
	require.NoError(t, err)

	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1])
	}
	assert.NotContains(t, fractions, 0.3)
}

func TestRunStillSkipsConversion(t *testing.T) {
	dir := t.TempDir()
	rec := &model.ContentRecord{
		Platform:           model.PlatformPinterest,
		URL:                "https://www.pinterest.com/pin/12345/",
		Title:              "Nice Pin",
		IsPlayableVideo:    false,
		AvailableQualities: []string{model.QualityOriginal},
		SourceExtension:    "jpg",
	}
	acquirer := &fakeAcquirer{writeExt: "jpg"}
	converter := &fakeConverter{}
	service := NewService(&fakeFetcher{}, acquirer, converter, "")

	out, err := service.Run(context.Background(), rec, model.DownloadRequest{
		TargetFormat:   model.TargetOriginalStill,
		DestinationDir: dir,
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "Nice_Pin.jpg"), out)
	assert.Zero(t, converter.callCount)
	assert.Equal(t, "best", acquirer.gotSpec.FormatSelector)
	assert.Empty(t, acquirer.gotSpec.MergeContainer)

	state := service.Snapshot()
	assert.Equal(t, model.PhaseSucceeded, state.Phase)
	assert.Equal(t, out, state.OutputPath)
}

func TestRunUnplayableRecordNeverConverts(t *testing.T) {
	dir := t.TempDir()
	rec := sampleRecord()
	rec.IsPlayableVideo = false
	rec.AvailableQualities = []string{model.QualityOriginal}

	acquirer := &fakeAcquirer{writeExt: "jpg"}
	converter := &fakeConverter{}
	service := NewService(&fakeFetcher{}, acquirer, converter, "")

	// Even a video target request falls back to an as-is grab when the
	// probe said there is nothing playable.
	_, err := service.Run(context.Background(), rec, model.DownloadRequest{
		TargetFormat:   model.TargetAudio,
		DestinationDir: dir,
	})
	require.NoError(t, err)
	assert.Zero(t, converter.callCount)
	assert.Equal(t, "best", acquirer.gotSpec.FormatSelector)
}

func TestRunOutputFileMissing(t *testing.T) {
	dir := t.TempDir()
	acquirer := &fakeAcquirer{filename: filepath.Join(dir, "never_written.mp4")}
	converter := &fakeConverter{}
	service := NewService(&fakeFetcher{}, acquirer, converter, "")

	_, err := service.Run(context.Background(), sampleRecord(), videoRequest(dir))
	require.Error(t, err)
	assert.Equal(t, model.KindOutputMissing, model.KindOf(err))
	assert.Zero(t, converter.callCount, "conversion must not start without an input file")

	state := service.Snapshot()
	assert.Equal(t, model.PhaseFailed, state.Phase)
	assert.NotEmpty(t, state.ErrorDetail)
}

func TestRunConversionFailurePreservesInput(t *testing.T) {
	dir := t.TempDir()
	acquirer := &fakeAcquirer{writeExt: "mp4"}
	converter := &fakeConverter{
		err: model.E(model.KindConversion, "ffmpeg exited with code 1", nil),
	}
	service := NewService(&fakeFetcher{}, acquirer, converter, "")

	_, err := service.Run(context.Background(), sampleRecord(), videoRequest(dir))
	require.Error(t, err)
	assert.Equal(t, model.KindConversion, model.KindOf(err))
	assert.Equal(t, model.PhaseFailed, service.Snapshot().Phase)

	// The converter owns input cleanup and skips it on failure, so the
	// acquired file must still exist.
	_, statErr := os.Stat(filepath.Join(dir, "Sample_Video.mp4"))
	assert.NoError(t, statErr)
}

func TestRunAcquisitionErrorClassified(t *testing.T) {
	dir := t.TempDir()
	acquirer := &fakeAcquirer{err: errors.New("ERROR: connection refused")}
	service := NewService(&fakeFetcher{}, acquirer, &fakeConverter{}, "")

	_, err := service.Run(context.Background(), sampleRecord(), videoRequest(dir))
	require.Error(t, err)
	assert.Equal(t, model.KindNetwork, model.KindOf(err))
	assert.Equal(t, model.PhaseFailed, service.Snapshot().Phase)
}

func TestRunAcquisitionErrorFallsBack(t *testing.T) {
	dir := t.TempDir()
	acquirer := &fakeAcquirer{err: errors.New("something odd happened")}
	service := NewService(&fakeFetcher{}, acquirer, &fakeConverter{}, "")

	_, err := service.Run(context.Background(), sampleRecord(), videoRequest(dir))
	require.Error(t, err)
	assert.Equal(t, model.KindAcquisition, model.KindOf(err))
}

func TestRunRejectsUnofferedQuality(t *testing.T) {
	dir := t.TempDir()
	acquirer := &fakeAcquirer{}
	service := NewService(&fakeFetcher{}, acquirer, &fakeConverter{}, "")

	req := videoRequest(dir)
	req.Quality = "4320p"

	_, err := service.Run(context.Background(), sampleRecord(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "4320p")
	assert.Zero(t, acquirer.callCount)

	// Rejection happens before the run starts, so no state was touched.
	assert.Equal(t, model.PhaseIdle, service.Snapshot().Phase)
}

func TestRunRejectsInvalidRequest(t *testing.T) {
	acquirer := &fakeAcquirer{}
	service := NewService(&fakeFetcher{}, acquirer, &fakeConverter{}, "")

	_, err := service.Run(context.Background(), sampleRecord(), model.DownloadRequest{
		TargetFormat: model.TargetVideo,
		Quality:      "720p",
	})
	require.Error(t, err)
	assert.Zero(t, acquirer.callCount)
}

func TestRunPassesCookiesFile(t *testing.T) {
	dir := t.TempDir()
	acquirer := &fakeAcquirer{writeExt: "mp4"}
	service := NewService(&fakeFetcher{}, acquirer, &fakeConverter{}, "/tmp/cookies.txt")

	_, err := service.Run(context.Background(), sampleRecord(), videoRequest(dir))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cookies.txt", acquirer.gotSpec.CookiesFile)
}

func TestRunFallsBackToSourceExtension(t *testing.T) {
	dir := t.TempDir()
	rec := sampleRecord()
	rec.SourceExtension = "mkv"

	// Engine reports no filename; the orchestrator reconstructs it from
	// the sanitized stem and the probed source extension.
	path := filepath.Join(dir, "Sample_Video.mkv")
	require.NoError(t, os.WriteFile(path, []byte("media"), 0o644))

	acquirer := &fakeAcquirer{}
	converter := &fakeConverter{}
	_, err := NewService(&fakeFetcher{}, acquirer, converter, "").
		Run(context.Background(), rec, videoRequest(dir))
	require.NoError(t, err)
	assert.Equal(t, path, converter.gotReq.InputPath)
}

func TestFetchSuccess(t *testing.T) {
	service := NewService(&fakeFetcher{rec: sampleRecord()}, &fakeAcquirer{}, &fakeConverter{}, "")

	var phases []model.Phase
	service.SetUpdateCallback(func(state model.TransferState) {
		phases = append(phases, state.Phase)
	})

	rec, err := service.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc123")
	require.NoError(t, err)
	assert.Equal(t, "Sample Video", rec.Title)
	assert.Equal(t, []model.Phase{model.PhaseFetching, model.PhaseReady}, phases)
}

func TestFetchFailure(t *testing.T) {
	fetchErr := model.E(model.KindInvalidURL, "this link is not supported", nil)
	service := NewService(&fakeFetcher{err: fetchErr}, &fakeAcquirer{}, &fakeConverter{}, "")

	_, err := service.Fetch(context.Background(), "https://example.com/nope")
	require.Error(t, err)
	assert.Equal(t, model.KindInvalidURL, model.KindOf(err))
	assert.Equal(t, model.PhaseFailed, service.Snapshot().Phase)
}

func TestFetchStartsFreshRun(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	service := NewService(fetcher, &fakeAcquirer{}, &fakeConverter{}, "")

	_, _ = service.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc123")
	failedID := service.Snapshot().RunID
	require.NotEmpty(t, failedID)

	fetcher.err = nil
	fetcher.rec = sampleRecord()
	_, err := service.Fetch(context.Background(), "https://www.youtube.com/watch?v=abc123")
	require.NoError(t, err)

	state := service.Snapshot()
	assert.Equal(t, model.PhaseReady, state.Phase)
	assert.NotEqual(t, failedID, state.RunID)
	assert.Empty(t, state.ErrorDetail)
}
