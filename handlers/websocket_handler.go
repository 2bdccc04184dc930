package handlers

import (
	"log/slog"
	"net/http"

	"github.com/courtside/padel-system/brackets"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// TODO: restrict Origin to the configured frontend host before exposing
	// the feed beyond the club dashboard.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WebSocketHandler struct {
	hub    *brackets.Hub
	logger *slog.Logger
}

func NewWebSocketHandler(hub *brackets.Hub, logger *slog.Logger) *WebSocketHandler {
	return &WebSocketHandler{hub: hub, logger: logger}
}

// ServeDrawFeed upgrades the connection and subscribes it to the modality's
// draw update feed.
func (h *WebSocketHandler) ServeDrawFeed(w http.ResponseWriter, r *http.Request) {
	modalityID, err := getIDFromURL(r, "modalityID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.logger.Warn("websocket upgrade failed",
			slog.Int("modality", modalityID), slog.Any("error", err))
		return
	}

	client := h.hub.Subscribe(conn, modalityID)
	h.logger.Debug("draw feed client connected",
		slog.Int("modality", modalityID), slog.String("client", client.ID.String()))
}
