package handlers

import (
	"log/slog"
	"net/http"

	"inkwell/internal/ws"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Browsers cannot set Authorization on websocket upgrades, so
		// the CORS layer never sees these. Origin filtering happens in
		// the reverse proxy.
		return true
	},
}

// HandleWebSocket upgrades the connection and registers it for live
// activity events. The credential arrives as a query parameter since
// browsers cannot set headers on upgrade requests.
func (s *Server) HandleWebSocket() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			http.Error(w, "Missing authentication token", http.StatusUnauthorized)
			return
		}

		profile, err := s.Identity.Resolve(r.Context(), tokenString)
		if err != nil {
			s.writeError(w, err)
			return
		}
		if profile == nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "profile", profile.ID, "error", err)
			return
		}

		client := &ws.Client{
			Hub:       s.Hub,
			ProfileID: profile.ID,
			Conn:      conn,
			Send:      make(chan []byte, 256),
		}
		client.Hub.Register <- client

		slog.Info("websocket client connected", "profile", profile.ID)

		go client.WritePump()
		go client.ReadPump()
	}
}
