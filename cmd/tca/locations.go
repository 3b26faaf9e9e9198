package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/avrtt/telegram-chat-analyzer/internal/config"
	"github.com/avrtt/telegram-chat-analyzer/internal/geo"
)

func locationsCmd() *cobra.Command {
	var resolve bool

	cmd := &cobra.Command{
		Use:   "locations <file|dir>...",
		Short: "Extract shared map locations from the loaded chat",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := runBatch(args)
			if err != nil {
				return err
			}
			defer store.Close()

			rows, err := store.LocationCandidates()
			if err != nil {
				return err
			}
			markers := geo.Markers(rows)
			if len(markers) == 0 {
				fmt.Fprintln(os.Stderr, "No shared locations found.")
				return nil
			}

			if !resolve {
				for _, m := range markers {
					fmt.Printf("%s  %9.5f,%9.5f  %s  %s\n",
						m.Timestamp.Format("2006-01-02 15:04"),
						m.Lat, m.Lon, m.Geohash, m.Username)
				}
				return nil
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			coder := geo.NewGeocoder(cfg.GeocoderURL, cfg.GeocoderUserAgent, newLogger(cfg))

			resolved, err := coder.ResolveMarkers(cmd.Context(), markers, func(done, total int) {
				fmt.Fprintf(os.Stderr, "\r  resolving %d/%d", done, total)
			})
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return err
			}

			for _, r := range resolved {
				fmt.Printf("%s  %9.5f,%9.5f  %s  %s  %s\n",
					r.Timestamp.Format("2006-01-02 15:04"),
					r.Lat, r.Lon, r.Geohash, r.Username,
					formatAddress(r.Address))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&resolve, "resolve", false, "Reverse geocode markers to addresses")

	return cmd
}

func formatAddress(addr *geo.Address) string {
	if addr == nil {
		return "(unresolved)"
	}
	var parts []string
	for _, p := range []string{addr.Road, addr.City, addr.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "(unresolved)"
	}
	return strings.Join(parts, ", ")
}
