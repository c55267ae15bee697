package fetch

import (
	"context"
	"image"
	"image/color"
	"log/slog"
	"net/http"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

// Thumbnail preview box
const (
	ThumbnailWidth  = 320
	ThumbnailHeight = 180

	thumbnailFetchTimeout = 10 * time.Second
)

// ThumbnailResolver fetches and downscales preview images. Failures never
// propagate; a neutral placeholder is substituted instead.
type ThumbnailResolver struct {
	client *http.Client
}

// NewThumbnailResolver creates a resolver with a bounded fetch timeout.
func NewThumbnailResolver() *ThumbnailResolver {
	return &ThumbnailResolver{
		client: &http.Client{Timeout: thumbnailFetchTimeout},
	}
}

// Resolve fetches the thumbnail URL, decodes it and downscales it into the
// preview box, preserving aspect ratio. Any fetch or decode failure yields
// the placeholder image.
func (r *ThumbnailResolver) Resolve(ctx context.Context, url string) image.Image {
	if url == "" {
		return PlaceholderThumbnail()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Debug("thumbnail request build failed", "url", url, "error", err)
		return PlaceholderThumbnail()
	}

	resp, err := r.client.Do(req)
	if err != nil {
		slog.Debug("thumbnail fetch failed", "url", url, "error", err)
		return PlaceholderThumbnail()
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("thumbnail fetch returned non-OK status", "url", url, "status", resp.StatusCode)
		return PlaceholderThumbnail()
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		slog.Debug("thumbnail decode failed", "url", url, "error", err)
		return PlaceholderThumbnail()
	}

	return resize.Thumbnail(ThumbnailWidth, ThumbnailHeight, img, resize.Lanczos3)
}

// PlaceholderThumbnail returns the neutral preview shown when no real
// thumbnail could be resolved.
func PlaceholderThumbnail() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, ThumbnailWidth, ThumbnailHeight))
	grey := color.RGBA{R: 0x3a, G: 0x3a, B: 0x3a, A: 0xff}
	for y := 0; y < ThumbnailHeight; y++ {
		for x := 0; x < ThumbnailWidth; x++ {
			img.SetRGBA(x, y, grey)
		}
	}
	return img
}
