package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"chat-frontend/pkg/models"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print chat changes as they happen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			// The first output failure ends the stream.
			var writeErr error
			err := a.client.Watch(ctx, func(evt models.ChatEvent) {
				if writeErr != nil {
					return
				}
				if a.jsonOut {
					writeErr = a.printJSON(evt)
				} else {
					writeErr = a.printEvent(evt)
				}
				if writeErr != nil {
					cancel()
				}
			})
			if writeErr != nil {
				return errors.Wrap(writeErr, "failed to print chat event")
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

func (a *app) printEvent(evt models.ChatEvent) error {
	var err error
	switch {
	case evt.Chat != nil:
		_, err = fmt.Fprintf(a.out, "%s\t#%d\t%s: %s\n", evt.Type, evt.ChatID, author(*evt.Chat), truncate(evt.Chat.Contents, maxContentsWidth))
	default:
		_, err = fmt.Fprintf(a.out, "%s\t#%d\n", evt.Type, evt.ChatID)
	}
	return err
}
