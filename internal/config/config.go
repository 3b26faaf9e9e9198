package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	MediaMarker       string  `toml:"media_marker"`
	SplitQuantile     float64 `toml:"split_quantile"`
	MergeQuantile     float64 `toml:"merge_quantile"`
	GeocoderURL       string  `toml:"geocoder_url"`
	GeocoderUserAgent string  `toml:"geocoder_user_agent"`
	LogLevel          string  `toml:"log_level"`
}

// Load returns the defaults overlaid with ~/.config/tca/config.toml when
// that file exists.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		MediaMarker:   "<Media omitted>",
		SplitQuantile: 0.9,
		MergeQuantile: 0.8,
		GeocoderURL:   "https://nominatim.openstreetmap.org",
		LogLevel:      "info",
	}

	cfgPath := filepath.Join(home, ".config", "tca", "config.toml")
	if _, err := os.Stat(cfgPath); err == nil {
		if _, err := toml.DecodeFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
	}

	return cfg, nil
}
