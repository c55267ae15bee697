package main

import (
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rudra-mondal/youtube-downloader/internal/fetch"
)

var infoCmd = &cobra.Command{
	Use:   "info <url>",
	Short: "Fetch and print metadata for a link",
	Long: `Fetch and print metadata for a link without downloading anything.

Examples:
  youtube-downloader info "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  youtube-downloader info --save-thumbnail preview.png "https://youtu.be/dQw4w9WgXcQ"
  youtube-downloader info --cookies cookies.txt "https://www.facebook.com/watch?v=123"`,
	Args: cobra.ExactArgs(1),
	RunE: runInfoCmd,
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.Flags().String("save-thumbnail", "", "Write the 320x180 preview image to this PNG file")
}

func runInfoCmd(cmd *cobra.Command, args []string) error {
	rec, err := newFetchService().Probe(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Title:     %s\n", rec.Title)
	if rec.Uploader != "" {
		fmt.Printf("Uploader:  %s\n", rec.Uploader)
	}
	fmt.Printf("Platform:  %s\n", rec.Platform)
	fmt.Printf("Duration:  %s\n", rec.DurationDisplay)
	if rec.IsPlayableVideo {
		fmt.Printf("Qualities: %s\n", strings.Join(rec.AvailableQualities, ", "))
	} else {
		fmt.Println("Type:      still image (downloaded as-is)")
	}
	if rec.ThumbnailURL != "" {
		fmt.Printf("Thumbnail: %s\n", rec.ThumbnailURL)
	}

	if path, _ := cmd.Flags().GetString("save-thumbnail"); path != "" {
		return saveThumbnail(cmd, rec.ThumbnailURL, path)
	}
	return nil
}

// saveThumbnail writes the downscaled preview (or the placeholder when the
// thumbnail cannot be fetched) as a PNG.
func saveThumbnail(cmd *cobra.Command, url, path string) error {
	img := fetch.NewThumbnailResolver().Resolve(cmd.Context(), url)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create thumbnail file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("could not encode thumbnail: %w", err)
	}
	fmt.Printf("Preview:   saved to %s\n", path)
	return nil
}
