package api

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/anragu/poolpal/internal/middleware"
	"github.com/anragu/poolpal/internal/pairing"
	"github.com/anragu/poolpal/internal/realtime"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Token auth already gates the route; same-origin checks do not apply
	// to non-browser clients.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsCommand is a client control frame: subscribe to or unsubscribe from a
// topic.
type wsCommand struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

type wsHandler struct {
	hub *realtime.Hub
}

// canSubscribe enforces topic ownership: a session may only watch its own
// user record and the pools and chats it is a party of.
func canSubscribe(uid, topic string) bool {
	switch {
	case strings.HasPrefix(topic, "users/"):
		return strings.TrimPrefix(topic, "users/") == uid
	case strings.HasPrefix(topic, "pools/"):
		return pairing.Contains(strings.TrimPrefix(topic, "pools/"), uid)
	case strings.HasPrefix(topic, "chats/"):
		return pairing.Contains(strings.TrimPrefix(topic, "chats/"), uid)
	}
	return false
}

func (h *wsHandler) serve(c *gin.Context) {
	uid := middleware.GetUID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "uid", uid, "error", err)
		return
	}

	session := &wsSession{
		uid:  uid,
		hub:  h.hub,
		conn: conn,
		out:  make(chan realtime.Event, subscriberFanIn),
		done: make(chan struct{}),
		subs: make(map[string]*realtime.Subscription),
	}
	go session.writeLoop()
	session.readLoop()
}

// subscriberFanIn buffers events from all of a connection's subscriptions
// before they reach the socket writer.
const subscriberFanIn = 64

type wsSession struct {
	uid  string
	hub  *realtime.Hub
	conn *websocket.Conn
	out  chan realtime.Event

	mu   sync.Mutex
	subs map[string]*realtime.Subscription
	done chan struct{}
}

// readLoop consumes control frames until the connection drops, then tears
// down every subscription.
func (s *wsSession) readLoop() {
	defer s.teardown()

	s.conn.SetReadLimit(4096)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd wsCommand
		if err := s.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("websocket closed unexpectedly", "uid", s.uid, "error", err)
			}
			return
		}

		switch cmd.Action {
		case "subscribe":
			s.subscribe(cmd.Topic)
		case "unsubscribe":
			s.unsubscribe(cmd.Topic)
		default:
			slog.Debug("unknown websocket action", "uid", s.uid, "action", cmd.Action)
		}
	}
}

func (s *wsSession) subscribe(topic string) {
	if !canSubscribe(s.uid, topic) {
		slog.Warn("websocket subscription denied", "uid", s.uid, "topic", topic)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.subs[topic]; exists {
		return
	}
	sub := s.hub.Subscribe(topic)
	s.subs[topic] = sub

	go func() {
		for ev := range sub.C {
			select {
			case s.out <- ev:
			case <-s.done:
				return
			}
		}
	}()
}

func (s *wsSession) unsubscribe(topic string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub, ok := s.subs[topic]; ok {
		sub.Cancel()
		delete(s.subs, topic)
	}
}

// writeLoop serializes all socket writes: snapshot events and keepalive
// pings.
func (s *wsSession) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case ev := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

func (s *wsSession) teardown() {
	s.mu.Lock()
	for topic, sub := range s.subs {
		sub.Cancel()
		delete(s.subs, topic)
	}
	s.mu.Unlock()
	close(s.done)
	s.conn.Close()
}
