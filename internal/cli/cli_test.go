package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-frontend/internal/handlers"
	"chat-frontend/internal/middleware"
	"chat-frontend/internal/repository"
	"chat-frontend/internal/router"
	"chat-frontend/internal/websocket"
	"chat-frontend/pkg/chatapi"
	"chat-frontend/pkg/models"
)

func newTestServer(t *testing.T) string {
	t.Helper()

	store := repository.NewMemoryStore()
	hub := websocket.NewHub(nil, zerolog.Nop())
	srv := httptest.NewServer(router.New(
		zerolog.Nop(),
		handlers.NewUserHandler(store.Users()),
		handlers.NewChatHandler(store.Chats(), hub),
		hub,
		middleware.NewRateLimiter(1000, time.Minute),
		"*",
	))
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})
	return srv.URL
}

func run(t *testing.T, baseURL string, args ...string) (string, error) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs(append([]string{"--api-base-url", baseURL, "--log-level", "disabled"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestUsersCommands(t *testing.T) {
	url := newTestServer(t)

	out, err := run(t, url, "users", "create", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "USERNAME")
	assert.Contains(t, out, "alice")

	_, err = run(t, url, "users", "create", "bob")
	require.NoError(t, err)

	out, err = run(t, url, "--json", "users", "list")
	require.NoError(t, err)
	var users []models.User
	require.NoError(t, json.Unmarshal([]byte(out), &users))
	assert.Equal(t, []models.User{{ID: 1, Username: "alice"}, {ID: 2, Username: "bob"}}, users)

	out, err = run(t, url, "users", "get", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "bob")

	_, err = run(t, url, "users", "get", "42")
	assert.ErrorIs(t, err, chatapi.ErrNotFound)

	_, err = run(t, url, "users", "get", "abc")
	assert.EqualError(t, err, `invalid id "abc"`)
}

func TestUsersCreate_EmptyUsername(t *testing.T) {
	url := newTestServer(t)

	_, err := run(t, url, "users", "create", "")
	assert.ErrorIs(t, err, chatapi.ErrUsernameRequired)
}

func TestChatsCommands(t *testing.T) {
	url := newTestServer(t)

	_, err := run(t, url, "users", "create", "alice")
	require.NoError(t, err)

	out, err := run(t, url, "--json", "chats", "create", "--user", "1", "--contents", "hello")
	require.NoError(t, err)
	var created []models.Chat
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.Len(t, created, 1)
	assert.Equal(t, "hello", created[0].Contents)
	assert.Equal(t, "alice", created[0].DisplayName())

	_, err = run(t, url, "chats", "create", "--user", "9")
	assert.EqualError(t, err, "chat was not created")

	out, err = run(t, url, "chats", "update", "1", "--contents", "edited")
	require.NoError(t, err)
	assert.Equal(t, "updated chat 1\n", out)

	out, err = run(t, url, "chats", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "edited")
	assert.Contains(t, out, "alice")

	out, err = run(t, url, "chats", "delete", "1")
	require.NoError(t, err)
	assert.Equal(t, "deleted chat 1\n", out)

	_, err = run(t, url, "chats", "get", "1")
	assert.EqualError(t, err, "chat 1 not found")

	_, err = run(t, url, "chats", "delete", "1")
	assert.EqualError(t, err, "chat 1 was not deleted")
}

func TestOverviewCommand(t *testing.T) {
	url := newTestServer(t)

	for _, name := range []string{"alice", "bob"} {
		_, err := run(t, url, "users", "create", name)
		require.NoError(t, err)
	}
	for i := 0; i < 3; i++ {
		_, err := run(t, url, "chats", "create", "--user", "2", "--contents", "hi")
		require.NoError(t, err)
	}

	out, err := run(t, url, "--json", "overview")
	require.NoError(t, err)

	var got []userSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []userSummary{
		{User: models.User{ID: 1, Username: "alice"}, ChatCount: 0},
		{User: models.User{ID: 2, Username: "bob"}, ChatCount: 3},
	}, got)
}

func TestOverviewCommand_ServerDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	_, err := run(t, url, "overview")
	assert.Error(t, err)
}

func TestSummarize_IgnoresChatsOfUnknownUsers(t *testing.T) {
	users := []models.User{{ID: 1, Username: "alice"}}
	chats := []models.Chat{{ID: 1, UserID: 1}, {ID: 2, UserID: 5}, {ID: 3, UserID: 1}}

	assert.Equal(t, []userSummary{{User: users[0], ChatCount: 2}}, summarize(users, chats))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "two lines", truncate("two\nlines", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "héll…", truncate("héllo wörld", 5))
}

func TestAuthor(t *testing.T) {
	assert.Equal(t, "#4", author(models.Chat{UserID: 4}))
	assert.Equal(t, "carol", author(models.Chat{UserID: 4, Username: models.StringPtr("carol")}))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("stdout closed")
}

func TestWatchCommand_StopsWhenOutputFails(t *testing.T) {
	upgrader := gorillaws.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		conn.WriteJSON(models.ChatEvent{Type: models.ChatEventDeleted, ChatID: 1})
		conn.WriteJSON(models.ChatEvent{Type: models.ChatEventDeleted, ChatID: 2})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	for _, args := range [][]string{{"watch"}, {"--json", "watch"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			cmd := NewRootCommand(failingWriter{}, io.Discard)
			cmd.SetArgs(append([]string{"--api-base-url", srv.URL, "--log-level", "disabled"}, args...))

			err := cmd.ExecuteContext(ctx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "stdout closed")
			assert.NoError(t, ctx.Err(), "watch should stop on its own")
		})
	}
}
