package debug

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// dashboardConn is the connection slice the hub needs.
type dashboardConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// WebSocketHub manages the debug dashboard's websocket connections.
type WebSocketHub struct {
	clients    map[dashboardConn]bool
	broadcast  chan []byte
	register   chan dashboardConn
	unregister chan dashboardConn
	mu         sync.RWMutex
}

var (
	Hub *WebSocketHub
)

func init() {
	Hub = newHub()
	go Hub.run()
}

func newHub() *WebSocketHub {
	return &WebSocketHub{
		broadcast:  make(chan []byte, 256),
		register:   make(chan dashboardConn),
		unregister: make(chan dashboardConn),
		clients:    make(map[dashboardConn]bool),
	}
}

func (h *WebSocketHub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *WebSocketHub) run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("🔌 Dashboard connected. Clients: %d", h.clientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.Close()
			}
			h.mu.Unlock()
			log.Printf("🔌 Dashboard disconnected. Clients: %d", h.clientCount())

		case message := <-h.broadcast:
			// Full lock: failed clients get dropped mid-sweep.
			h.mu.Lock()
			for client := range h.clients {
				err := client.WriteMessage(websocket.TextMessage, message)
				if err != nil {
					log.Printf("Error writing to dashboard client: %v", err)
					client.Close()
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// HandleWebSocketFiber handles one dashboard websocket connection.
func HandleWebSocketFiber(conn *websocket.Conn) {
	Hub.register <- conn

	defer func() {
		Hub.unregister <- conn
	}()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}

// LogMessage is one structured log entry for the dashboard.
type LogMessage struct {
	Type     string                 `json:"type"`
	Source   string                 `json:"source"`
	Level    string                 `json:"level"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// SendLog broadcasts a log entry to connected dashboard clients.
func SendLog(source, level, message string, metadata map[string]interface{}) {
	if Hub == nil || Hub.clientCount() == 0 {
		return
	}

	msg := LogMessage{
		Type:     "log",
		Source:   source,
		Level:    level,
		Message:  message,
		Metadata: metadata,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error serializing dashboard log: %v", err)
		return
	}

	select {
	case Hub.broadcast <- data:
	default:
		// Channel full, drop the message.
	}
}

// ProviderStatusMessage wraps the external providers' status.
type ProviderStatusMessage struct {
	Type   string         `json:"type"`
	Uptime int64          `json:"uptime"`
	Status ProviderStatus `json:"status"`
}

// ProviderStatus reports both external providers.
type ProviderStatus struct {
	Transit struct {
		LastRun int64  `json:"lastRun"`
		Status  string `json:"status"`
		Errors  int    `json:"errors"`
	} `json:"transit"`
	Directions struct {
		Status string `json:"status"`
		Errors int    `json:"errors"`
	} `json:"directions"`
}

var startTime = time.Now()

// SendProviderStatus broadcasts provider status to dashboard clients.
func SendProviderStatus(status ProviderStatus) {
	if Hub == nil || Hub.clientCount() == 0 {
		return
	}

	msg := ProviderStatusMessage{
		Type:   "provider_status",
		Uptime: int64(time.Since(startTime).Seconds()),
		Status: status,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error serializing provider status: %v", err)
		return
	}

	select {
	case Hub.broadcast <- data:
	default:
	}
}
