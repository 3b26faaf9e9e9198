package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/avrtt/telegram-chat-analyzer/internal/render"
)

func showCmd() *cobra.Command {
	var conversationID int
	var width int

	cmd := &cobra.Command{
		Use:   "show <file|dir>...",
		Short: "List conversation segments, or print one as a transcript",
		Long: `Without --conversation, lists every conversation segment of the loaded
chat. With --conversation N, prints that segment's full transcript.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, err := runBatch(args)
			if err != nil {
				return err
			}
			defer store.Close()

			if !cmd.Flags().Changed("conversation") {
				convs, err := store.Conversations()
				if err != nil {
					return err
				}
				if len(convs) == 0 {
					fmt.Fprintln(os.Stderr, "No conversations found.")
					return nil
				}
				for _, c := range convs {
					fmt.Printf("%5d  %s - %s  %5d messages  %d users\n",
						c.ID,
						c.Start.Format("2006-01-02 15:04"),
						c.End.Format("2006-01-02 15:04"),
						c.Messages,
						c.Users)
				}
				return nil
			}

			w := width
			if w == 0 && term.IsTerminal(int(os.Stdout.Fd())) {
				if tw, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
					w = tw
				}
			}

			out, err := render.RenderConversation(store, conversationID, render.Options{Width: w})
			if err != nil {
				return err
			}
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVarP(&conversationID, "conversation", "c", 0, "Conversation id to print")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = terminal width)")

	return cmd
}
