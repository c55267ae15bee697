package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rudra-mondal/youtube-downloader/internal/convert"
	"github.com/rudra-mondal/youtube-downloader/internal/model"
	"github.com/rudra-mondal/youtube-downloader/internal/progress"
)

var getCmd = &cobra.Command{
	Use:   "get [flags] <url>",
	Short: "Download a link and convert it to MP4 or MP3",
	Long: `Download a link and convert it to MP4 (H.264) or MP3.

Still images from Pinterest are saved in their original format.

Examples:
  youtube-downloader get "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  youtube-downloader get --quality 720p "https://youtu.be/dQw4w9WgXcQ"
  youtube-downloader get --format audio "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
  youtube-downloader get --dir ~/Videos "https://fb.watch/abc123/"`,
	Args: cobra.ExactArgs(1),
	RunE: runGetCmd,
}

func init() {
	rootCmd.AddCommand(getCmd)
	getCmd.Flags().StringP("format", "f", "video", "Output format: video, audio, or original")
	getCmd.Flags().StringP("quality", "q", "", "Video quality tier, e.g. 1080p (default: best at or below 1080p)")
	getCmd.Flags().StringP("dir", "d", "", "Destination directory (default: from config)")
}

func runGetCmd(cmd *cobra.Command, args []string) error {
	url := args[0]
	format, _ := cmd.Flags().GetString("format")
	quality, _ := cmd.Flags().GetString("quality")
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = cfg.Downloads.Directory
	}

	target := model.TargetFormat(format)
	converter := convert.NewService(cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	if target != model.TargetOriginalStill {
		if err := converter.CheckTools(); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := newOrchestrator(converter)
	updates := make(chan model.TransferState, 64)
	service.SetUpdateCallback(func(state model.TransferState) {
		// Drop rather than block: the callback runs on the download path.
		select {
		case updates <- state:
		default:
		}
	})

	var outputPath string
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer close(updates)

		rec, err := service.Fetch(ctx, url)
		if err != nil {
			return err
		}
		fmt.Printf("Title: %s (%s)\n", rec.Title, rec.DurationDisplay)

		req := model.DownloadRequest{
			Quality:        quality,
			TargetFormat:   target,
			DestinationDir: dir,
		}
		if !rec.IsPlayableVideo {
			req.TargetFormat = model.TargetOriginalStill
			req.Quality = ""
		} else if req.TargetFormat == model.TargetVideo && req.Quality == "" {
			req.Quality = model.DefaultQuality(rec.AvailableQualities)
		}

		outputPath, err = service.Run(ctx, rec, req)
		return err
	})
	group.Go(func() error {
		renderUpdates(updates)
		return nil
	})
	if err := group.Wait(); err != nil {
		return err
	}

	fmt.Printf("Saved: %s\n", outputPath)
	return nil
}

// renderUpdates draws a single-line progress display, starting a new line
// whenever the run changes phase.
func renderUpdates(updates <-chan model.TransferState) {
	var lastPhase model.Phase
	endLine := func() {
		if lastPhase == model.PhaseAcquiring || lastPhase == model.PhaseConverting {
			fmt.Println()
		}
	}

	for state := range updates {
		if state.Phase != lastPhase {
			endLine()
			lastPhase = state.Phase
		}

		switch state.Phase {
		case model.PhaseAcquiring:
			if state.Fraction == model.FractionIndeterminate {
				fmt.Printf("\rDownloading  %s  %s          ",
					progress.FormatBytes(state.BytesTransferred),
					progress.FormatSpeed(state.SpeedBytesPerSec))
			} else {
				fmt.Printf("\rDownloading  %3.0f%%  %s  ETA %s          ",
					state.Fraction*100,
					progress.FormatSpeed(state.SpeedBytesPerSec),
					progress.FormatETA(state.ETASeconds))
			}
		case model.PhaseConverting:
			fmt.Printf("\rConverting   %3.0f%%          ", state.Fraction*100)
		}
	}
	endLine()
}
