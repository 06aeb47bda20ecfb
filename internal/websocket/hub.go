package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"chat-frontend/pkg/models"
)

// ChatUpdatesChannel is the redis channel chat events travel on between replicas.
const ChatUpdatesChannel = "chat_updates"

const writeTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub fans chat events out to every connected websocket client. With a
// redis client, events are published to ChatUpdatesChannel and delivered
// by Run so that all replicas see them; without one they are delivered
// in-process.
type Hub struct {
	mu          sync.Mutex
	connections map[*websocket.Conn]struct{}
	redisClient *redis.Client
	logger      zerolog.Logger
}

func NewHub(redisClient *redis.Client, logger zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[*websocket.Conn]struct{}),
		redisClient: redisClient,
		logger:      logger,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.register(conn)

	// Keep connection alive and handle disconnect
	go func() {
		defer h.unregister(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Publish delivers evt to subscribers.
func (h *Hub) Publish(ctx context.Context, evt models.ChatEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	if h.redisClient != nil {
		return h.redisClient.Publish(ctx, ChatUpdatesChannel, data).Err()
	}

	h.broadcast(data)
	return nil
}

// Run relays redis messages to local connections until ctx is done.
// Without redis it only waits for ctx.
func (h *Hub) Run(ctx context.Context) {
	if h.redisClient == nil {
		<-ctx.Done()
		return
	}

	pubsub := h.redisClient.Subscribe(ctx, ChatUpdatesChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) ConnectionCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.connections)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.connections {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(h.connections, conn)
	}
}

func (h *Hub) register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.connections[conn] = struct{}{}
	h.logger.Debug().Int("total", len(h.connections)).Msg("WebSocket connected")
}

func (h *Hub) unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conn.Close()
	if _, ok := h.connections[conn]; !ok {
		return
	}
	delete(h.connections, conn)
	h.logger.Debug().Int("total", len(h.connections)).Msg("WebSocket disconnected")
}

// broadcast holds the lock while writing: gorilla connections allow one
// concurrent writer.
func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.connections {
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug().Err(err).Msg("dropping websocket client")
			conn.Close()
			delete(h.connections, conn)
		}
	}
}
