package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/ytmdl/internal/config"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Store music.youtube.com request headers for authenticated access",
	Long: `Reads raw request headers from stdin, one "Name: value" pair per line,
and stores them for later commands. Copy them from an authenticated
music.youtube.com request in the browser's network inspector. End the
input with EOF (Ctrl-D).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		headers, err := parseRawHeaders(cmd.InOrStdin())
		if err != nil {
			return err
		}
		if len(headers) == 0 {
			return fmt.Errorf("no headers given")
		}

		path, err := config.SaveAuthHeaders(headers)
		if err != nil {
			return err
		}
		fmt.Printf("saved %d headers to %s\n", len(headers), path)
		return nil
	},
}

// parseRawHeaders parses "Name: value" lines as copied from a browser's
// network inspector. Blank lines and the HTTP/2 pseudo-headers that some
// browsers include are skipped.
func parseRawHeaders(r io.Reader) (map[string]string, error) {
	headers := make(map[string]string)
	scanner := bufio.NewScanner(bufio.NewReader(r))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed header line %q", line)
		}
		headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read headers: %w", err)
	}
	return headers, nil
}

func init() {
	rootCmd.AddCommand(authCmd)
}
