package mockfeed

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

func newSubscriber(conn *websocket.Conn) *subscriber {
	s := &subscriber{
		conn: conn,
		send: make(chan []byte, 64),
	}
	go s.writePump()
	return s
}

func (s *subscriber) writePump() {
	defer s.conn.Close()
	for msg := range s.send {
		if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// Broadcaster fans messages out to every connected subscriber. Subscribers
// that fall behind are disconnected.
type Broadcaster struct {
	mu       sync.RWMutex
	subs     map[*subscriber]bool
	greeting func() any
	log      *zap.Logger
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster(log *zap.Logger) *Broadcaster {
	if log == nil {
		log = zap.NewNop()
	}
	return &Broadcaster{
		subs: make(map[*subscriber]bool),
		log:  log,
	}
}

// SetGreeting sets the message sent to each new subscriber before any
// broadcast. Must be called before the first Add.
func (b *Broadcaster) SetGreeting(fn func() any) {
	b.greeting = fn
}

// Add registers conn and queues the greeting for it.
func (b *Broadcaster) Add(conn *websocket.Conn) *subscriber {
	s := newSubscriber(conn)

	// Greeting and registration happen under one lock so no broadcast can
	// slip in between them.
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.greeting != nil {
		if data, err := json.Marshal(b.greeting()); err == nil {
			s.send <- data
		} else {
			b.log.Error("marshal greeting", zap.Error(err))
		}
	}
	b.subs[s] = true
	return s
}

// Remove unregisters s and closes its connection.
func (b *Broadcaster) Remove(s *subscriber) {
	b.mu.Lock()
	if b.subs[s] {
		delete(b.subs, s)
		close(s.send)
	}
	b.mu.Unlock()
}

// Publish sends msg as JSON to every subscriber.
func (b *Broadcaster) Publish(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		b.log.Error("marshal broadcast", zap.Error(err))
		return
	}

	// Sends happen under the read lock so Remove cannot close a channel
	// mid-send.
	var slow []*subscriber
	b.mu.RLock()
	for s := range b.subs {
		select {
		case s.send <- data:
		default:
			slow = append(slow, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range slow {
		b.log.Warn("subscriber too slow, disconnecting", zap.String("remote", s.conn.RemoteAddr().String()))
		b.Remove(s)
	}
}

// ClientCount returns the number of connected subscribers.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
