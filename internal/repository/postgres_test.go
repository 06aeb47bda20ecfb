package repository

import (
	"context"
	"math"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-frontend/internal/database"
	"chat-frontend/pkg/models"
)

// newTestPool connects to DATABASE_URL and applies migrations, skipping the
// test when no database is configured.
func newTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.RunMigrations(ctx, pool, zerolog.Nop()))
	return pool
}

func TestChatRepo_CreateWithUnknownUser(t *testing.T) {
	pool := newTestPool(t)

	err := NewChatRepo(pool).Create(context.Background(), &models.Chat{UserID: math.MaxInt32, Contents: "orphan"})
	assert.ErrorIs(t, err, ErrUnknownUser)
}

func TestPostgresRepos_ChatLifecycle(t *testing.T) {
	ctx := context.Background()
	pool := newTestPool(t)
	users := NewUserRepo(pool)
	chats := NewChatRepo(pool)

	alice := &models.User{Username: "alice"}
	require.NoError(t, users.Create(ctx, alice))
	require.NotZero(t, alice.ID)

	got, err := users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, *alice, *got)

	chat := &models.Chat{UserID: alice.ID, Contents: "hello"}
	require.NoError(t, chats.Create(ctx, chat))
	require.NotZero(t, chat.ID)
	assert.False(t, chat.Timestamp.IsZero())
	assert.Equal(t, "alice", chat.DisplayName())

	require.NoError(t, chats.UpdateContents(ctx, chat.ID, models.StringPtr("edited")))
	require.NoError(t, chats.UpdateContents(ctx, chat.ID, nil))

	fetched, err := chats.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", fetched.Contents)
	require.NotNil(t, fetched.User)
	assert.Equal(t, alice.ID, fetched.User.ID)

	require.NoError(t, chats.Delete(ctx, chat.ID))
	_, err = chats.GetByID(ctx, chat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, chats.Delete(ctx, chat.ID), ErrNotFound)
	assert.ErrorIs(t, chats.UpdateContents(ctx, chat.ID, nil), ErrNotFound)

	_, err = users.GetByID(ctx, math.MaxInt32)
	assert.ErrorIs(t, err, ErrNotFound)
}
