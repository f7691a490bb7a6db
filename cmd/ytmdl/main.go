// Command ytmdl downloads songs and playlists from YouTube Music, keeping a
// per-directory record of what it already has.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
