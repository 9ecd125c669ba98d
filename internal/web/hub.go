package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second
	sendDepth = 8
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Same-origin page; cors handles the API surface.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// hub fans scene payloads out to connected websocket clients.
type hub struct {
	log        *zap.Logger
	register   chan *client
	unregister chan *client
	payloads   chan []byte
	// done is closed when run exits so pending register/unregister
	// sends do not block forever during shutdown.
	done chan struct{}
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func newHub(log *zap.Logger) *hub {
	return &hub{
		log:        log,
		register:   make(chan *client),
		unregister: make(chan *client),
		payloads:   make(chan []byte, sendDepth),
		done:       make(chan struct{}),
	}
}

func (h *hub) run(ctx context.Context) {
	clients := make(map[*client]struct{})

	for {
		select {
		case <-ctx.Done():
			for c := range clients {
				close(c.send)
			}
			close(h.done)
			return
		case c := <-h.register:
			clients[c] = struct{}{}
			h.log.Debug("websocket client connected", zap.Int("clients", len(clients)))
		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
			}
		case payload := <-h.payloads:
			for c := range clients {
				select {
				case c.send <- payload:
				default:
					// Slow consumer; drop it rather than stall.
					delete(clients, c)
					close(c.send)
				}
			}
		}
	}
}

func (h *hub) broadcast(payload []byte) {
	select {
	case h.payloads <- payload:
	default:
		h.log.Warn("dropping scene broadcast, hub backlog full")
	}
}

func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendDepth)}
	select {
	case s.hub.register <- c:
	case <-s.hub.done:
		conn.Close()
		return
	}

	// Push the current scene so new clients render immediately.
	s.mu.Lock()
	payload, perr := s.scenePayload(r.Context())
	s.mu.Unlock()
	if perr == nil {
		c.send <- payload
	}

	go c.writeLoop()
	go c.readLoop(s.hub)
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readLoop drains client frames; the browser only listens, but reading
// is what surfaces disconnects.
func (c *client) readLoop(h *hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
