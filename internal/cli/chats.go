package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"chat-frontend/pkg/models"
)

const maxContentsWidth = 60

func newChatsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chats",
		Short: "List, show, create, edit and delete chats",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all chats",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				chats, err := a.client.ListChats(cmd.Context())
				if err != nil {
					return errors.Wrap(err, "failed to list chats")
				}
				return a.printChats(chats)
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show a single chat",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				chat, err := a.client.GetChat(cmd.Context(), id)
				if err != nil {
					return errors.Wrapf(err, "failed to get chat %d", id)
				}
				if chat == nil {
					return errors.Errorf("chat %d not found", id)
				}
				return a.printChats([]models.Chat{*chat})
			},
		},
		newChatCreateCommand(a),
		newChatUpdateCommand(a),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a chat",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				ok, err := a.client.DeleteChat(cmd.Context(), id)
				if err != nil {
					return errors.Wrapf(err, "failed to delete chat %d", id)
				}
				if !ok {
					return errors.Errorf("chat %d was not deleted", id)
				}
				fmt.Fprintf(a.out, "deleted chat %d\n", id)
				return nil
			},
		},
	)
	return cmd
}

func newChatCreateCommand(a *app) *cobra.Command {
	var (
		userID   int
		contents string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Post a new chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := models.ChatCreateRequest{UserID: userID}
			if cmd.Flags().Changed("contents") {
				req.Contents = models.StringPtr(contents)
			}

			chat, err := a.client.CreateChat(cmd.Context(), req)
			if err != nil {
				return errors.Wrap(err, "failed to create chat")
			}
			if chat == nil {
				return errors.New("chat was not created")
			}
			return a.printChats([]models.Chat{*chat})
		},
	}
	cmd.Flags().IntVar(&userID, "user", 0, "author user ID")
	cmd.Flags().StringVar(&contents, "contents", "", "chat text")
	cmd.MarkFlagRequired("user")
	return cmd
}

func newChatUpdateCommand(a *app) *cobra.Command {
	var contents string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace a chat's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			ok, err := a.client.UpdateChat(cmd.Context(), id, models.ChatUpdateRequest{Contents: models.StringPtr(contents)})
			if err != nil {
				return errors.Wrapf(err, "failed to update chat %d", id)
			}
			if !ok {
				return errors.Errorf("chat %d was not updated", id)
			}
			fmt.Fprintf(a.out, "updated chat %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&contents, "contents", "", "new chat text")
	cmd.MarkFlagRequired("contents")
	return cmd
}

func (a *app) printChats(chats []models.Chat) error {
	if a.jsonOut {
		return a.printJSON(chats)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tTIMESTAMP\tCONTENTS")
	for _, c := range chats {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, author(c), formatTimestamp(c.Timestamp), truncate(c.Contents, maxContentsWidth))
	}
	return tw.Flush()
}

func author(c models.Chat) string {
	if name := c.DisplayName(); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", c.UserID)
}

func formatTimestamp(ts models.Timestamp) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format(time.DateTime)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
