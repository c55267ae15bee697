package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rudra-mondal/youtube-downloader/internal/config"
	"github.com/rudra-mondal/youtube-downloader/internal/download"
	"github.com/rudra-mondal/youtube-downloader/internal/engine"
	"github.com/rudra-mondal/youtube-downloader/internal/fetch"
)

var version = "dev"

var (
	configPath  string
	cookiesFile string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "youtube-downloader",
	Short: "Download and convert videos from YouTube, Facebook, and Pinterest",
	Long: `youtube-downloader - download and convert online media

Fetches video metadata, downloads the chosen quality, and re-encodes
to MP4 (H.264) or MP3. Still images are saved as-is. Requires yt-dlp,
ffmpeg, and ffprobe on the PATH (or paths set in the config file).`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: auto-discover)")
	rootCmd.PersistentFlags().StringVar(&cookiesFile, "cookies", "", "Browser cookie export for login-walled content")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("youtube-downloader {{.Version}}\n")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if errs := cfg.Validate(); len(errs) > 0 {
			return fmt.Errorf("config %s: %s", configPath, strings.Join(errs, "; "))
		}
	} else {
		cfg, err = config.LoadDiscovered()
		if err != nil {
			return err
		}
	}

	if cookiesFile != "" {
		cfg.Downloads.CookiesFile = cookiesFile
	}

	config.SetupLogger(cfg.Logging)
	return nil
}

// newFetchService wires the metadata fetcher against the real engine.
func newFetchService() *fetch.Service {
	return fetch.NewService(engine.NewYTDLP(), cfg.Downloads.CookiesFile)
}

// newOrchestrator wires the full download/convert pipeline.
func newOrchestrator(converter download.Converter) *download.Service {
	return download.NewService(newFetchService(), engine.NewYTDLP(), converter, cfg.Downloads.CookiesFile)
}
