package handler

import (
	"net/http"

	ws "github.com/gorilla/websocket"
	"github.com/karobar/karobar-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub            *websocket.Hub
	allowedOrigins map[string]bool
	upgrader       ws.Upgrader
}

// NewWebSocketHandler creates a new WebSocketHandler
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	originMap := make(map[string]bool)
	for _, origin := range allowedOrigins {
		originMap[origin] = true
	}

	h := &WebSocketHandler{
		hub:            hub,
		allowedOrigins: originMap,
	}

	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin validates the request origin against allowed origins
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Allow requests with no Origin header (e.g., same-origin or non-browser clients)
		return true
	}

	if h.allowedOrigins[origin] {
		return true
	}

	log.Warn().
		Str("origin", origin).
		Msg("WebSocket connection rejected: origin not allowed")
	return false
}

// HandleWS handles WebSocket connection requests at GET /ws
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return err
	}

	client := websocket.NewClient(conn, h.hub)
	h.hub.Register(client)

	log.Info().
		Str("client_id", client.ID()).
		Msg("WebSocket client connected")

	go client.WritePump()
	go client.ReadPump()

	return nil
}
