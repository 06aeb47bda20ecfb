package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"chat-frontend/pkg/models"
)

type userSummary struct {
	User      models.User `json:"user"`
	ChatCount int         `json:"chatCount"`
}

func newOverviewCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show every user with their number of chats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				users []models.User
				chats []models.Chat
			)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				users, err = a.client.ListUsers(ctx)
				return errors.Wrap(err, "failed to list users")
			})
			g.Go(func() error {
				var err error
				chats, err = a.client.ListChats(ctx)
				return errors.Wrap(err, "failed to list chats")
			})
			if err := g.Wait(); err != nil {
				return err
			}

			summaries := summarize(users, chats)
			if a.jsonOut {
				return a.printJSON(summaries)
			}

			tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tCHATS")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%d\t%s\t%d\n", s.User.ID, s.User.Username, s.ChatCount)
			}
			return tw.Flush()
		},
	}
}

func summarize(users []models.User, chats []models.Chat) []userSummary {
	counts := make(map[int]int, len(users))
	for _, c := range chats {
		counts[c.UserID]++
	}

	out := make([]userSummary, 0, len(users))
	for _, u := range users {
		out = append(out, userSummary{User: u, ChatCount: counts[u.ID]})
	}
	return out
}
