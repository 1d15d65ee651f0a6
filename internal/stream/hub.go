// Package stream broadcasts simulation frames to remote viewers over
// websockets and collects their steering requests.
package stream

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Garsondee/maze-pursuit/internal/game"
)

const writeWait = 2 * time.Second

// frameMessage is the wire envelope for one tick.
type frameMessage struct {
	Type  string     `json:"type"`
	Run   string     `json:"run,omitempty"`
	Frame game.Frame `json:"frame"`
}

// steerMessage is what a viewer sends to steer the controlled agent.
type steerMessage struct {
	Type string         `json:"type"`
	Dir  game.Direction `json:"dir"`
}

type subscriber struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// HubConfig tunes a Hub. Zero values pick defaults.
type HubConfig struct {
	Logger *log.Logger
	// RequestBuffer bounds queued steering requests; extra requests are
	// dropped until the driver drains the queue.
	RequestBuffer int
}

// Hub fans frames out to every connected viewer. It never touches a Sim:
// the driver publishes frames and drains requests on its own goroutine.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]*subscriber
	last        []byte // most recent frame, sent to late joiners
	run         string

	requests chan game.Direction
	logger   *log.Logger
}

// NewHub creates a hub with no viewers.
func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	buf := cfg.RequestBuffer
	if buf <= 0 {
		buf = 16
	}
	return &Hub{
		subscribers: make(map[string]*subscriber),
		requests:    make(chan game.Direction, buf),
		logger:      logger,
	}
}

// SetRun labels subsequent frames with a run ID.
func (h *Hub) SetRun(id string) {
	h.mu.Lock()
	h.run = id
	h.mu.Unlock()
}

// Subscribe registers conn and sends it the latest frame, if any. The
// subscriber's write lock is held from registration until that frame is out,
// so a concurrent Publish cannot overtake it.
func (h *Hub) Subscribe(conn *websocket.Conn) (string, error) {
	id := uuid.NewString()
	sub := &subscriber{conn: conn}
	sub.mu.Lock()

	h.mu.Lock()
	h.subscribers[id] = sub
	last := h.last
	h.mu.Unlock()

	var err error
	if last != nil {
		err = sub.writeLocked(last)
	}
	sub.mu.Unlock()
	if err != nil {
		h.Disconnect(id)
		return "", err
	}
	return id, nil
}

// Disconnect removes a viewer and closes its connection.
func (h *Hub) Disconnect(id string) {
	h.mu.Lock()
	sub, ok := h.subscribers[id]
	if ok {
		delete(h.subscribers, id)
	}
	h.mu.Unlock()

	if ok {
		sub.conn.Close()
	}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Publish encodes f and sends it to every viewer. Viewers whose write fails
// are disconnected.
func (h *Hub) Publish(f game.Frame) error {
	h.mu.Lock()
	data, err := json.Marshal(frameMessage{Type: "frame", Run: h.run, Frame: f})
	if err != nil {
		h.mu.Unlock()
		return err
	}
	h.last = data
	subs := make(map[string]*subscriber, len(h.subscribers))
	for id, sub := range h.subscribers {
		subs[id] = sub
	}
	h.mu.Unlock()

	for id, sub := range subs {
		if err := sub.write(data); err != nil {
			h.logger.Printf("failed to send frame to %s: %v", id, err)
			h.Disconnect(id)
		}
	}
	return nil
}

// Requests is the queue of steering requests from viewers, in arrival order.
func (h *Hub) Requests() <-chan game.Direction { return h.requests }

// Drain applies every queued request to s without blocking.
func (h *Hub) Drain(s *game.Sim) int {
	n := 0
	for {
		select {
		case d := <-h.requests:
			s.RequestDirection(d)
			n++
		default:
			return n
		}
	}
}

func (h *Hub) enqueue(d game.Direction) bool {
	select {
	case h.requests <- d:
		return true
	default:
		return false
	}
}

// Close disconnects every viewer.
func (h *Hub) Close() {
	h.mu.Lock()
	ids := make([]string, 0, len(h.subscribers))
	for id := range h.subscribers {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	for _, id := range ids {
		h.Disconnect(id)
	}
}

func (s *subscriber) write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(data)
}

func (s *subscriber) writeLocked(data []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteMessage(websocket.TextMessage, data)
}
