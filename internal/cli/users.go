package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"chat-frontend/pkg/models"
)

func newUsersCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List, show and create users",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all users",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				users, err := a.client.ListUsers(cmd.Context())
				if err != nil {
					return errors.Wrap(err, "failed to list users")
				}
				return a.printUsers(users)
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show a single user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				user, err := a.client.GetUser(cmd.Context(), id)
				if err != nil {
					return errors.Wrapf(err, "failed to get user %d", id)
				}
				if user == nil {
					return errors.Errorf("user %d not found", id)
				}
				return a.printUsers([]models.User{*user})
			},
		},
		&cobra.Command{
			Use:   "create USERNAME",
			Short: "Create a user",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				user, err := a.client.CreateUser(cmd.Context(), models.User{Username: args[0]})
				if err != nil {
					return errors.Wrap(err, "failed to create user")
				}
				if user == nil {
					return errors.New("user was not created")
				}
				return a.printUsers([]models.User{*user})
			},
		},
	)
	return cmd
}

func (a *app) printUsers(users []models.User) error {
	if a.jsonOut {
		return a.printJSON(users)
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\n", u.ID, u.Username)
	}
	return tw.Flush()
}
