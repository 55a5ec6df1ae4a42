package websocket

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	wsClient "github.com/formworks/submission-service/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin for development
		// In production, you should check the origin properly
		return true
	},
}

// WebSocketHandler upgrades the connection and registers the peer as a
// submission-event listener
func WebSocketHandler(hub *wsClient.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Error("Failed to upgrade WebSocket connection", slog.String("error", err.Error()))
			return
		}

		client := wsClient.NewClient(conn, hub)
		hub.RegisterClient(client)

		client.Start()

		slog.Info("WebSocket connection established", slog.String("remote", r.RemoteAddr))
	}
}
