package preview

import (
	"log"
	"sync"
)

type Hub struct {
	mu       sync.Mutex
	Sessions map[string]*Session

	Register   chan *WSClient
	Unregister chan *WSClient
	Broadcast  chan *WSMessage
}

func NewHub() *Hub {
	return &Hub{
		Sessions:   make(map[string]*Session),
		Register:   make(chan *WSClient),
		Unregister: make(chan *WSClient),
		Broadcast:  make(chan *WSMessage),
	}
}

// EnsureSession creates the session for a correlation id if it does not
// exist yet. Reports whether it was created, so the caller knows to
// start the event subscription exactly once.
func (h *Hub) EnsureSession(correlationID string) (*Session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if session, ok := h.Sessions[correlationID]; ok {
		return session, false
	}

	session := &Session{
		CorrelationID: correlationID,
		Clients:       make(map[string]*WSClient),
		done:          make(chan struct{}),
	}
	h.Sessions[correlationID] = session
	setSessions(len(h.Sessions))
	return session, true
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mu.Lock()
			session, ok := h.Sessions[client.CorrelationID]
			if !ok {
				h.mu.Unlock()
				log.Printf("preview: no session %s for client %s", client.CorrelationID, client.ID)
				continue
			}
			session.Clients[client.ID] = client
			h.mu.Unlock()
			incConnections()

		case client := <-h.Unregister:
			h.mu.Lock()
			session, ok := h.Sessions[client.CorrelationID]
			if !ok {
				h.mu.Unlock()
				continue
			}
			if _, ok := session.Clients[client.ID]; ok {
				delete(session.Clients, client.ID)
				close(client.Message)
				decConnections()
			}
			if len(session.Clients) == 0 {
				close(session.done)
				delete(h.Sessions, client.CorrelationID)
				setSessions(len(h.Sessions))
			}
			h.mu.Unlock()

		case message := <-h.Broadcast:
			h.mu.Lock()
			session, ok := h.Sessions[message.CorrelationID]
			if !ok {
				h.mu.Unlock()
				continue
			}
			delivered := 0
			for _, client := range session.Clients {
				select {
				case client.Message <- message:
					delivered++
				default:
					close(client.Message)
					delete(session.Clients, client.ID)
					decConnections()
				}
			}
			h.mu.Unlock()
			if delivered > 0 {
				addDelivered(delivered)
			}
		}
	}
}
