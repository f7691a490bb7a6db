package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/ytmdl/internal/cache"
	"github.com/ytget/ytmdl/internal/config"
	"github.com/ytget/ytmdl/internal/download"
	"github.com/ytget/ytmdl/internal/library"
)

var libFlags struct {
	dir   string
	limit int
}

var libCmd = &cobra.Command{
	Use:   "lib",
	Short: "Manage a library directory",
}

var libUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Download fresh tracks from the personalised home feed",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := os.MkdirAll(libFlags.dir, 0o755); err != nil {
			return fmt.Errorf("create download dir: %w", err)
		}

		d, err := buildDeps(libFlags.dir)
		if err != nil {
			return err
		}
		defer d.log.Sync()
		defer stopOnInterrupt(d.downloader, d.log)()

		store, err := openStore(libFlags.dir, d.settings.BatchSize, d)
		if err != nil {
			return err
		}
		defer store.Close()

		cached := download.NewCached(d.downloader, store, d.log)
		updater := library.NewUpdater(d.client, d.extractor, cached, d.log)

		downloaded, err := updater.Update(cmd.Context(), libFlags.limit)
		if err != nil {
			return err
		}
		fmt.Printf("downloaded %d new tracks\n", len(downloaded))
		return nil
	},
}

var libFixCmd = &cobra.Command{
	Use:   "fix",
	Short: "Repair the cache's downloaded column from the files on disk",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := buildDeps(libFlags.dir)
		if err != nil {
			return err
		}
		defer d.log.Sync()

		store, err := openStore(libFlags.dir, 0, d)
		if err != nil {
			return err
		}
		defer store.Close()

		res, err := library.Fix(cmd.Context(), libFlags.dir, store, d.log)
		if err != nil {
			return err
		}

		fmt.Printf("downloaded column fixed: %d tracks on disk\n", len(res.OnDisk))
		if len(res.Uncached) > 0 {
			fmt.Printf("warning: %d tracks on disk are missing from the cache:\n%s\n",
				len(res.Uncached), strings.Join(res.Uncached, "\n"))
		}
		return nil
	},
}

// openStore opens the download dir's sqlite cache.
func openStore(dir string, batchSize int, d *deps) (*cache.SqliteCache, error) {
	path, err := config.CachePath(dir)
	if err != nil {
		return nil, err
	}
	return cache.OpenSqliteCache(path, batchSize, d.log)
}

func init() {
	libCmd.PersistentFlags().StringVarP(&libFlags.dir, "dir", "o", "", "library directory")
	libCmd.MarkPersistentFlagRequired("dir")
	libUpdateCmd.Flags().IntVarP(&libFlags.limit, "limit", "n", config.DefaultLimit,
		"max tracks per playlist or channel")

	libCmd.AddCommand(libUpdateCmd)
	libCmd.AddCommand(libFixCmd)
	rootCmd.AddCommand(libCmd)
}
