package mockfeed

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/urfd-dashboard/tui/internal/client"
	"go.uber.org/zap"
)

// Version is reported by /api/config and the greeting's Configure map.
const Version = "mock-1.0"

// Server exposes the generator over HTTP and WebSocket.
type Server struct {
	gen  *Generator
	feed *Broadcaster
	info client.ReflectorInfo
	log  *zap.Logger
}

// NewServer wires gen's greeting into feed and returns a server for both.
func NewServer(gen *Generator, feed *Broadcaster, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	feed.SetGreeting(gen.Greeting)
	return &Server{
		gen:  gen,
		feed: feed,
		info: client.ReflectorInfo{
			Name:        reflectorCallsign,
			Description: "Simulated reflector feed",
			Version:     Version,
		},
		log: log,
	}
}

// Handler returns the routes: /ws, /api/history and /api/config.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/config", s.handleConfig)
	return mux
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("ws upgrade", zap.Error(err))
		return
	}

	s.log.Info("subscriber connected", zap.String("remote", r.RemoteAddr))
	sub := s.feed.Add(conn)

	// The feed is one-way; reading only detects the close.
	go func() {
		defer func() {
			s.feed.Remove(sub)
			s.log.Info("subscriber disconnected", zap.String("remote", r.RemoteAddr))
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.gen.History())
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.info)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// checkOrigin accepts non-browser clients, same-host pages and loopback.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	if parsed.Host == r.Host {
		return true
	}
	host := parsed.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1" || strings.HasSuffix(host, ".localhost")
}
