package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ytget/ytmdl/internal/model"
)

var dlFlags struct {
	dir       string
	videos    []string
	playlists []string
	channels  []string
	limit     int
}

var dlCmd = &cobra.Command{
	Use:   "dl",
	Short: "Download the given songs, playlists, and channels",
	Long: `Download tracks without touching the dedup cache.

Pass the VIDEO param of a song page (-v), the LIST param of a playlist page
(-l), or the CHANNEL param of an artist page (-c); each flag repeats.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		req := model.ExtractionRequest{
			Videos:    dlFlags.videos,
			Playlists: dlFlags.playlists,
			Channels:  dlFlags.channels,
			Limit:     dlFlags.limit,
		}
		if req.IsEmpty() {
			return fmt.Errorf("nothing to download: pass -v, -l, or -c")
		}

		if err := os.MkdirAll(dlFlags.dir, 0o755); err != nil {
			return fmt.Errorf("create download dir: %w", err)
		}

		d, err := buildDeps(dlFlags.dir)
		if err != nil {
			return err
		}
		defer d.log.Sync()
		defer stopOnInterrupt(d.downloader, d.log)()

		ctx := cmd.Context()
		videoIDs := d.extractor.Extract(ctx, req)
		downloaded := d.downloader.Download(ctx, videoIDs, nil, nil)

		fmt.Printf("downloaded %d tracks\n", len(downloaded))
		return nil
	},
}

func init() {
	dlCmd.Flags().StringVarP(&dlFlags.dir, "dir", "o", "", "output directory")
	dlCmd.Flags().StringSliceVarP(&dlFlags.videos, "video", "v", nil, "video IDs")
	dlCmd.Flags().StringSliceVarP(&dlFlags.playlists, "list", "l", nil, "playlist IDs")
	dlCmd.Flags().StringSliceVarP(&dlFlags.channels, "channel", "c", nil, "channel IDs")
	dlCmd.Flags().IntVarP(&dlFlags.limit, "limit", "n", model.DefaultPerSourceLimit,
		"max tracks per playlist or channel")
	dlCmd.MarkFlagRequired("dir")

	rootCmd.AddCommand(dlCmd)
}
