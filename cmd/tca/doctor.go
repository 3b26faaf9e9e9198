package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/avrtt/telegram-chat-analyzer/internal/config"
	"github.com/avrtt/telegram-chat-analyzer/internal/ingest"
	"github.com/avrtt/telegram-chat-analyzer/internal/session"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor [file|dir]...",
		Short: "Self-check: verify config, the record store, and probe export files",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// check config
			fmt.Println("=== Config ===")
			home, err := os.UserHomeDir()
			if err == nil {
				cfgPath := filepath.Join(home, ".config", "tca", "config.toml")
				if _, err := os.Stat(cfgPath); err == nil {
					fmt.Printf("  Path: %s (OK)\n", cfgPath)
				} else {
					fmt.Printf("  Path: %s (not present, using defaults)\n", cfgPath)
				}
			}
			cfg, err := config.Load()
			if err != nil {
				fmt.Printf("  Status: FAILED (%v)\n", err)
				return nil
			}
			fmt.Printf("  Media marker:   %q\n", cfg.MediaMarker)
			fmt.Printf("  Split quantile: %.2f\n", cfg.SplitQuantile)
			fmt.Printf("  Merge quantile: %.2f\n", cfg.MergeQuantile)
			fmt.Printf("  Geocoder:       %s\n", cfg.GeocoderURL)

			// check in-memory store
			fmt.Println("\n=== Record Store ===")
			store, err := session.Open()
			if err != nil {
				fmt.Printf("  Status: FAILED (%v)\n", err)
			} else {
				if _, err := store.Summarize(); err != nil {
					fmt.Printf("  Status: FAILED (%v)\n", err)
				} else {
					fmt.Println("  Status: OK (in-memory SQLite)")
				}
				store.Close()
			}

			if len(args) == 0 {
				return nil
			}

			// probe export files without loading them
			fmt.Println("\n=== Export Files ===")
			paths, err := ingest.ExpandPaths(args)
			if err != nil {
				fmt.Printf("  scan error: %v\n", err)
				return nil
			}
			if len(paths) == 0 {
				fmt.Println("  No export files found.")
				return nil
			}
			for _, path := range paths {
				fr := ingest.ProbeFile(path)
				if fr.Err != nil {
					fmt.Printf("  %s: FAILED (%v)\n", path, fr.Err)
					continue
				}
				fmt.Printf("  %s: %s, %d messages, %d dropped\n",
					path, fr.Format, fr.Messages, fr.Dropped)
			}
			return nil
		},
	}
}
