package stream

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/Garsondee/maze-pursuit/internal/game"
)

type HandlerConfig struct {
	Logger *log.Logger
}

// Handler upgrades viewer connections and attaches them to a Hub.
type Handler struct {
	hub      *Hub
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	return &Handler{
		hub:      hub,
		logger:   logger,
		upgrader: upgrader,
	}
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	id, err := h.hub.Subscribe(conn)
	if err != nil {
		h.logger.Printf("failed to send last frame to %s: %v", r.RemoteAddr, err)
		return
	}

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.hub.Disconnect(id)
			return
		}

		var msg steerMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", id, err)
			continue
		}
		if msg.Type != "steer" || msg.Dir == game.None {
			h.logger.Printf("discarding %q message from %s", msg.Type, id)
			continue
		}
		if !h.hub.enqueue(msg.Dir) {
			h.logger.Printf("request queue full, dropping %s from %s", msg.Dir, id)
		}
	}
}
