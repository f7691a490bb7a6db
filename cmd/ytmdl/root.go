package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/ytmdl/internal/config"
	"github.com/ytget/ytmdl/internal/download"
	"github.com/ytget/ytmdl/internal/extractor"
	"github.com/ytget/ytmdl/internal/logger"
	"github.com/ytget/ytmdl/internal/pipeline"
	"github.com/ytget/ytmdl/internal/platform"
	"github.com/ytget/ytmdl/internal/ytmusic"
)

var debug bool

var rootCmd = &cobra.Command{
	Use:           "ytmdl",
	Short:         "Download songs and playlists from YouTube Music",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "verbose logging")
}

// deps is the wiring shared by the download-facing commands.
type deps struct {
	settings   *config.Settings
	log        *zap.Logger
	client     *ytmusic.Client
	extractor  *extractor.Extractor
	downloader *download.Downloader
}

// catalog satisfies extractor.Catalog: public playlist listing comes from
// yt-dlp, everything needing the music API from the web client.
type catalog struct {
	*platform.PlaylistLister
	*ytmusic.Client
}

// buildDeps wires collaborators for a download into dir.
func buildDeps(dir string) (*deps, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(settings.LogLevel, debug)
	if err != nil {
		return nil, err
	}

	var opts []ytmusic.Option
	if len(settings.AuthHeaders) > 0 {
		opts = append(opts, ytmusic.WithAuthHeaders(settings.AuthHeaders))
	}
	client := ytmusic.NewClient(log, opts...)

	cat := &catalog{
		PlaylistLister: platform.NewPlaylistLister(log),
		Client:         client,
	}

	p := pipeline.New(
		platform.NewYTDLPFetcher(dir, log),
		client,
		platform.NewMP4Tagger(log),
		log,
	)

	return &deps{
		settings:   settings,
		log:        log,
		client:     client,
		extractor:  extractor.New(cat, log),
		downloader: download.New(p, log),
	}, nil
}

// stopOnInterrupt translates process signals into the downloader's
// cooperative stop, letting in-flight tracks finish cleanly.
func stopOnInterrupt(stopper interface{ Stop() }, log *zap.Logger) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-sigs; ok {
			log.Info("interrupt received, finishing in-flight tracks")
			stopper.Stop()
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(sigs)
	}
}
