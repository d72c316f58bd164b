package preview

import (
	"context"
	"log"
	"net/http"
	"tablo-backend/internal/env"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	upgrader    websocket.Upgrader
	redisClient *redis.Client
)

func init() {
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	redisClient = redis.NewClient(&redis.Options{
		Addr:     env.Get(env.EventsRedisURL),
		Password: env.Get(env.EventsRedisPass),
		DB:       0,
	})
}

type Handler struct {
	hub         *Hub
	redisClient *redis.Client
}

func NewHandler(h *Hub) *Handler {
	return &Handler{
		hub:         h,
		redisClient: redisClient,
	}
}

// subscribeToSession relays every event published for a correlation id
// into the hub until the session closes.
func (h *Handler) subscribeToSession(session *Session) {
	subscriber := h.redisClient.Subscribe(context.Background(), eventsChannel(session.CorrelationID))
	defer subscriber.Close()

	ch := subscriber.Channel()
	for {
		select {
		case <-session.done:
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.hub.Broadcast <- &WSMessage{
				Content:       msg.Payload,
				CorrelationID: session.CorrelationID,
				Timestamp:     time.Now().Unix(),
			}
		}
	}
}

// StreamPreview upgrades the dashboard connection and attaches it to
// the session for the requested correlation id, creating the session
// and its event subscription on first use.
func (h *Handler) StreamPreview(w http.ResponseWriter, r *http.Request, correlationID string) {
	if correlationID == "" {
		http.Error(w, "cid is required", http.StatusBadRequest)
		return
	}

	session, created := h.hub.EnsureSession(correlationID)
	if created {
		go h.subscribeToSession(session)
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cl := &WSClient{
		Conn:          conn,
		Message:       make(chan *WSMessage, 10),
		ID:            uuid.NewString(),
		CorrelationID: correlationID,
		done:          make(chan struct{}),
		isClosed:      false,
	}

	h.hub.Register <- cl

	go cl.keepAlive()
	go cl.writeMessage()
	go cl.readMessage(h.hub)

	log.Printf("Preview client %s joined session %s", cl.ID, correlationID)
}
