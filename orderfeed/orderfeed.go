package orderfeed

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"tokri/models"
	"tokri/mq"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans Redis order events out to connected dashboard sockets.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]bool)}
}

// Run consumes the event channel until ctx is cancelled. Call it from a
// goroutine at startup.
func (h *Hub) Run(ctx context.Context) {
	for event := range mq.Subscribe(ctx) {
		h.broadcast(event)
	}
}

func (h *Hub) broadcast(event models.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("orderfeed: failed to marshal event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// HandleWS upgrades the dashboard connection and holds it open until the
// client goes away. Auth runs in middleware before this is reached.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		log.Printf("orderfeed: upgrade failed: %v", err)
		return
	}

	h.mu.Lock()
	h.conns[conn] = true
	h.mu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	conn.Close()
}
