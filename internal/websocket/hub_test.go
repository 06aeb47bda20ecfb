package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-frontend/pkg/models"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 1 }, time.Second, 10*time.Millisecond)
	return conn
}

func TestHub_PublishWithoutRedisBroadcastsLocally(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	conn := dialHub(t, hub)

	evt := models.ChatEvent{Type: models.ChatEventUpdated, ChatID: 3, Chat: &models.Chat{ID: 3, Contents: "edited"}}
	require.NoError(t, hub.Publish(context.Background(), evt))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.ChatEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, models.ChatEventUpdated, got.Type)
	assert.Equal(t, 3, got.ChatID)
	require.NotNil(t, got.Chat)
	assert.Equal(t, "edited", got.Chat.Contents)
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	conn := dialHub(t, hub)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ConnectionCount() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	conn := dialHub(t, hub)

	hub.Close()
	assert.Equal(t, 0, hub.ConnectionCount())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestHub_RunWithoutRedisReturnsOnCancel(t *testing.T) {
	hub := NewHub(nil, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestHub_RedisRelayReachesOtherReplicas(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	publisher := NewHub(rdb, zerolog.Nop())
	subscriber := NewHub(rdb, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan struct{})
	go func() {
		subscriber.Run(ctx)
		close(runDone)
	}()
	t.Cleanup(func() {
		cancel()
		<-runDone
	})

	conn := dialHub(t, subscriber)
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(ChatUpdatesChannel)[ChatUpdatesChannel] == 1
	}, time.Second, 10*time.Millisecond)

	evt := models.ChatEvent{Type: models.ChatEventCreated, ChatID: 7, Chat: &models.Chat{ID: 7, Contents: "from replica a"}}
	require.NoError(t, publisher.Publish(context.Background(), evt))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got models.ChatEvent
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, models.ChatEventCreated, got.Type)
	assert.Equal(t, 7, got.ChatID)
	require.NotNil(t, got.Chat)
	assert.Equal(t, "from replica a", got.Chat.Contents)
}

func TestHub_PublishFailsWhenRedisIsDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	hub := NewHub(rdb, zerolog.Nop())
	assert.Error(t, hub.Publish(context.Background(), models.ChatEvent{Type: models.ChatEventDeleted, ChatID: 1}))
}
