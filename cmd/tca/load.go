package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avrtt/telegram-chat-analyzer/internal/config"
	"github.com/avrtt/telegram-chat-analyzer/internal/ingest"
	"github.com/avrtt/telegram-chat-analyzer/internal/session"
)

func loadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "load <file|dir>...",
		Short: "Parse chat export files and report the normalized result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, result, err := runBatch(args)
			if err != nil {
				return err
			}
			defer store.Close()

			printFailures(result)
			fmt.Fprintf(os.Stderr, "Done. %s\n", result)
			return nil
		},
	}
}

func printFailures(result *ingest.Result) {
	for _, fr := range result.Files {
		if fr.Err != nil {
			fmt.Fprintf(os.Stderr, "  FAILED %s: %v\n", fr.Path, fr.Err)
		}
	}
}

// runBatch runs the whole upload pipeline for a command invocation and
// returns the populated store. Callers own the store and must close it.
func runBatch(args []string) (*session.Store, *ingest.Result, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log := newLogger(cfg)

	paths, err := ingest.ExpandPaths(args)
	if err != nil {
		return nil, nil, err
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no export files found")
	}

	store, err := session.Open()
	if err != nil {
		return nil, nil, err
	}

	loader := ingest.NewLoader(store, enrichOptions(cfg), log)
	lastFile := ""
	result, err := loader.LoadFiles(paths, func(p ingest.Progress) {
		if p.CurrentFile == lastFile {
			return
		}
		lastFile = p.CurrentFile
		fmt.Fprintf(os.Stderr, "  [%d/%d] %s\n", p.ProcessedCount+1, p.TotalFiles, p.CurrentFile)
	})
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return store, result, nil
}
