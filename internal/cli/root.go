package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"chat-frontend/internal/config"
	"chat-frontend/internal/logging"
	"chat-frontend/pkg/chatapi"
)

type app struct {
	client  *chatapi.Client
	out     io.Writer
	jsonOut bool
}

// NewRootCommand builds the chatctl command tree. Output goes to out,
// logs to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out}

	root := &cobra.Command{
		Use:           "chatctl",
		Short:         "Browse and edit users and chats through the chat API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}

			logger := logging.New(logging.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}, errOut)
			a.client = chatapi.New(cfg.API.BaseURL,
				chatapi.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
				chatapi.WithLogger(logger),
			)
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.String("api-base-url", "", "API base URL (env API_BASE_URL)")
	pf.Duration("api-timeout", 0, "per-request timeout, 0 for none (env API_TIMEOUT)")
	pf.String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	pf.Bool("log-pretty", false, "human readable logs (env LOG_PRETTY)")
	pf.BoolVar(&a.jsonOut, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newUsersCommand(a),
		newChatsCommand(a),
		newOverviewCommand(a),
		newWatchCommand(a),
	)
	return root
}

func (a *app) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid id %q", s)
	}
	return id, nil
}
