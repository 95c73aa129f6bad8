package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"stayBack/internal/models"
)

const (
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second
	readDeadline  = 120 * time.Second
)

type wsEvent struct {
	userID int
	event  models.PaymentEvent
}

type unreg struct {
	userID int
	conn   *websocket.Conn
}

// WebSocketManager pushes payment status events to connected clients. All
// access to the clients map happens on the Run goroutine.
type WebSocketManager struct {
	clients    map[int]*websocket.Conn
	events     chan wsEvent
	register   chan Client
	unregister chan unreg
}

type Client struct {
	ID     int
	Socket *websocket.Conn
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:    make(map[int]*websocket.Conn),
		events:     make(chan wsEvent, 16),
		register:   make(chan Client),
		unregister: make(chan unreg),
	}
}

// PushPaymentEvent queues an event for delivery. Dropping an event when the
// queue is full is fine; the websocket channel is advisory.
func (ws *WebSocketManager) PushPaymentEvent(userID int, event models.PaymentEvent) {
	select {
	case ws.events <- wsEvent{userID: userID, event: event}:
	default:
	}
}

func (ws *WebSocketManager) Run() {
	for {
		select {
		case client := <-ws.register:
			if old, ok := ws.clients[client.ID]; ok && old != nil && old != client.Socket {
				_ = old.Close()
			}
			ws.clients[client.ID] = client.Socket
		case u := <-ws.unregister:
			if conn, ok := ws.clients[u.userID]; ok && conn == u.conn {
				_ = conn.Close()
				delete(ws.clients, u.userID)
			}
		case e := <-ws.events:
			conn, ok := ws.clients[e.userID]
			if !ok {
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteJSON(e.event); err != nil {
				log.Println("Error sending payment event:", err)
				_ = conn.Close()
				delete(ws.clients, e.userID)
			}
		}
	}
}

func (app *application) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("user_id").(int)
	if !ok || userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}

	app.wsManager.register <- Client{ID: userID, Socket: conn}
	go app.keepAlive(userID, conn)
}

// keepAlive drains client frames and pings periodically; the client never
// sends application data on this socket.
func (app *application) keepAlive(userID int, conn *websocket.Conn) {
	defer func() {
		app.wsManager.unregister <- unreg{userID: userID, conn: conn}
	}()

	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readDeadline))
	})
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
