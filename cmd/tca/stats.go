package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avrtt/telegram-chat-analyzer/internal/render"
)

func statsCmd() *cobra.Command {
	var topUsers int

	cmd := &cobra.Command{
		Use:   "stats <file|dir>...",
		Short: "Load chat exports and print summary statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, result, err := runBatch(args)
			if err != nil {
				return err
			}
			defer store.Close()
			printFailures(result)

			sum, err := store.Summarize()
			if err != nil {
				return fmt.Errorf("summarize: %w", err)
			}
			fmt.Println(render.RenderSummary(store.Name(), sum))

			users, err := store.MessagesByUser(topUsers)
			if err != nil {
				return err
			}
			fmt.Println(render.RenderBuckets("Messages by user", users))

			days, err := store.DayOfWeekActivity()
			if err != nil {
				return err
			}
			fmt.Println(render.RenderBuckets("Activity by weekday", days))

			hours, err := store.HourlyActivity()
			if err != nil {
				return err
			}
			fmt.Println(render.RenderBuckets("Activity by hour", hours))
			return nil
		},
	}

	cmd.Flags().IntVar(&topUsers, "top", 10, "Max users in the per-user chart (0 = all)")

	return cmd
}
