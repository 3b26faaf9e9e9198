package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/avrtt/telegram-chat-analyzer/internal/config"
	"github.com/avrtt/telegram-chat-analyzer/internal/enrich"
)

var version = "dev"

var logLevelFlag string

func main() {
	rootCmd := &cobra.Command{
		Use:     "tca",
		Short:   "Chat export analyzer - normalize and analyze WhatsApp and Telegram exports",
		Version: version,
	}
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(loadCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(locationsCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := cfg.LogLevel
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}

func enrichOptions(cfg *config.Config) enrich.Options {
	opts := enrich.DefaultOptions()
	if cfg.MediaMarker != "" {
		opts.MediaMarker = cfg.MediaMarker
	}
	if cfg.SplitQuantile > 0 && cfg.SplitQuantile <= 1 {
		opts.SplitQuantile = cfg.SplitQuantile
	}
	if cfg.MergeQuantile > 0 && cfg.MergeQuantile <= 1 {
		opts.MergeQuantile = cfg.MergeQuantile
	}
	return opts
}
