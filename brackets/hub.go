package brackets

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Draw event types pushed to rendering clients.
const (
	EventDrawGenerated   = "DRAW_GENERATED"
	EventMatchDecided    = "MATCH_DECIDED"
	EventScheduleUpdated = "SCHEDULE_UPDATED"
)

// DrawEvent is the envelope broadcast to every client watching a modality.
type DrawEvent struct {
	Type       string      `json:"type"`
	ModalityID int         `json:"modality_id"`
	Payload    interface{} `json:"payload,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// Client is one websocket subscriber, pinned to a single modality room.
type Client struct {
	ID   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	room int
}

// Hub fans draw events out to per-modality rooms. Writes from the services
// go through PublishDrawEvent; clients never send anything meaningful back.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan DrawEvent

	rooms  map[int]map[*Client]struct{}
	logger *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan DrawEvent, 16),
		rooms:      make(map[int]map[*Client]struct{}),
		logger:     logger,
	}
}

// Run owns the room map; all membership changes funnel through here, so no
// locking is needed.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			if h.rooms[c.room] == nil {
				h.rooms[c.room] = make(map[*Client]struct{})
			}
			h.rooms[c.room][c] = struct{}{}
			h.logger.Debug("draw client registered",
				slog.String("client", c.ID.String()), slog.Int("modality", c.room))

		case c := <-h.unregister:
			if room, ok := h.rooms[c.room]; ok {
				if _, member := room[c]; member {
					delete(room, c)
					close(c.send)
					if len(room) == 0 {
						delete(h.rooms, c.room)
					}
				}
			}

		case event := <-h.broadcast:
			room, ok := h.rooms[event.ModalityID]
			if !ok {
				continue
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("failed to marshal draw event", slog.Any("error", err))
				continue
			}
			for c := range room {
				select {
				case c.send <- payload:
				default:
					// Slow consumer; drop the event rather than block the hub.
					h.logger.Warn("dropping draw event for slow client",
						slog.String("client", c.ID.String()))
				}
			}
		}
	}
}

// PublishDrawEvent queues an event for every client watching the modality.
// Safe to call from any goroutine; never blocks the caller.
func (h *Hub) PublishDrawEvent(event DrawEvent) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("draw event queue full, event dropped",
			slog.Int("modality", event.ModalityID), slog.String("type", event.Type))
	}
}

// Subscribe attaches an upgraded connection to a modality room and starts
// its pumps.
func (h *Hub) Subscribe(conn *websocket.Conn, modalityID int) *Client {
	c := &Client{
		ID:   uuid.New(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, 64),
		room: modalityID,
	}
	h.register <- c
	go c.writePump()
	go c.readPump()
	return c
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Inbound messages are ignored; the read loop only detects closes.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
