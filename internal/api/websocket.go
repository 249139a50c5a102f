package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/waterwatch/dashboard/internal/report"
)

// WebSocketHandler pushes report job progress to connected clients.
// Dashboard data itself is never pushed; charts poll on their refresh
// interval.
type WebSocketHandler struct {
	handler  *Handler
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

// progressMessage is the frame sent on every job update.
type progressMessage struct {
	Type string     `json:"type"` // always "report_progress"
	Job  report.Job `json:"job"`
}

// NewWebSocketHandler creates the progress channel and subscribes it to the
// report manager.
func NewWebSocketHandler(h *Handler) *WebSocketHandler {
	ws := &WebSocketHandler{
		handler: h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]bool),
	}
	h.reports.Subscribe(ws.broadcast)
	return ws
}

// HandleWebSocket upgrades the connection and keeps it registered until the
// client goes away.
func (ws *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	if _, err := ws.handler.requireSession(c); err != nil {
		return err
	}

	conn, err := ws.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return fmt.Errorf("upgrading websocket: %w", err)
	}

	ws.mu.Lock()
	ws.conns[conn] = true
	ws.mu.Unlock()

	// Drain incoming frames so pings are answered; drop the connection on
	// the first read error.
	go func() {
		defer ws.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}

func (ws *WebSocketHandler) drop(conn *websocket.Conn) {
	ws.mu.Lock()
	delete(ws.conns, conn)
	ws.mu.Unlock()
	conn.Close()
}

// broadcast sends a job snapshot to every connected client.
func (ws *WebSocketHandler) broadcast(job report.Job) {
	frame, err := json.Marshal(progressMessage{Type: "report_progress", Job: job})
	if err != nil {
		return
	}

	ws.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(ws.conns))
	for conn := range ws.conns {
		conns = append(conns, conn)
	}
	ws.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			ws.drop(conn)
		}
	}
}
