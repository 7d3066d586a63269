package debugpanel

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// hub fans the current params out to every connected panel page.
// Writes to a connection happen under mu only.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	log     *zap.Logger
}

func newHub(log *zap.Logger) *hub {
	return &hub{clients: make(map[*websocket.Conn]bool), log: log}
}

// add registers conn and sends it p.
func (h *hub) add(conn *websocket.Conn, p Params) {
	data, _ := json.Marshal(p)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = true
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.log.Debug("websocket initial write failed", zap.Error(err))
	}
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[conn] {
		delete(h.clients, conn)
		conn.Close()
	}
}

// broadcast sends p to all clients, dropping the ones that fail.
func (h *hub) broadcast(p Params) {
	data, err := json.Marshal(p)
	if err != nil {
		h.log.Error("marshal params", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.log.Debug("websocket write failed", zap.Error(err))
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "panel stopped"))
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
