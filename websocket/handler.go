package websocket

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"service-connect-server/types"
)

// Handler upgrades authenticated HTTP requests into notification connections
type Handler struct {
	registry *Registry
	upgrader websocket.Upgrader
}

// NewHandler creates a handler that accepts the given browser origins. A "*"
// entry accepts any origin; requests without an Origin header are always
// accepted.
func NewHandler(registry *Registry, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Handler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
	}
}

// Serve upgrades the connection for actor and starts its pumps
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request, actor types.Actor) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	client := newClient(h.registry, conn, actor)
	if welcome, err := encode("connected", map[string]any{"connection_id": client.ID}); err == nil {
		client.send <- welcome
	}
	if !h.registry.Register(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
