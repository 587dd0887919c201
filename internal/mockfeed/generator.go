// Package mockfeed serves a scripted reflector feed: the WebSocket event
// stream plus the /api/history and /api/config endpoints, driven by a set of
// simulated stations keying up and down.
package mockfeed

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/urfd-dashboard/tui/internal/client"
	"go.uber.org/zap"
)

const (
	// stateEvery is the number of ticks between full-state broadcasts.
	stateEvery = 10

	defaultHistoryCapacity = 200
	reflectorCallsign      = "URF000"
)

// Publisher receives every message the generator produces.
type Publisher interface {
	Publish(msg any)
}

// Options tunes the generator.
type Options struct {
	Seed int64
	// DropCloseRate is the probability that a transmission ends without a
	// closing event, leaving the session for the client's staleness sweep.
	DropCloseRate float64
	// HandoverRate is the probability that a station re-keys under a new
	// session id without closing the old one.
	HandoverRate    float64
	HistoryCapacity int
}

type station struct {
	callsign string
	repeater string
	module   string
	protocol string

	onAir   bool
	id      int64
	started time.Time
	heard   time.Time
	wait    int // ticks until the next key change
}

// Generator advances the simulated stations one tick at a time.
type Generator struct {
	pub  Publisher
	log  *zap.Logger
	opts Options
	now  func() time.Time

	mu       sync.Mutex
	rng      *rand.Rand
	nextID   int64
	tick     int
	booted   time.Time
	stations []*station
	peers    []client.Peer
	history  []client.HearingRecord
}

// NewGenerator creates a generator publishing to pub.
func NewGenerator(pub Publisher, opts Options, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.HistoryCapacity <= 0 {
		opts.HistoryCapacity = defaultHistoryCapacity
	}
	g := &Generator{
		pub:  pub,
		log:  log,
		opts: opts,
		now:  time.Now,
		rng:  rand.New(rand.NewSource(opts.Seed)),
	}
	g.booted = g.now()
	g.stations = []*station{
		{callsign: "W1AW", repeater: "W1AW   B", module: "A", protocol: "DMR"},
		{callsign: "K1ABC", repeater: "K1ABC  M", module: "A", protocol: "M17"},
		{callsign: "N0CALL", repeater: "N0CALL C", module: "B", protocol: "YSF"},
		{callsign: "DL1XYZ", repeater: "DB0XYZ B", module: "B", protocol: "DStar"},
		{callsign: "VK2ABC", repeater: "VK2RAA A", module: "C", protocol: "P25"},
		{callsign: "G4XYZ", repeater: "GB7XYZ N", module: "D", protocol: "NXDN"},
	}
	for _, s := range g.stations {
		s.wait = g.rng.Intn(6)
	}
	g.peers = []client.Peer{
		{Callsign: "XLX001", Protocol: "XLX", ConnectTime: g.booted},
		{Callsign: "URF123", Protocol: "URF", ConnectTime: g.booted},
	}
	return g
}

// Start steps the generator every interval until ctx is done.
func (g *Generator) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				g.Step()
			}
		}
	}()
}

// Step advances every station by one tick and publishes the resulting
// messages.
func (g *Generator) Step() {
	g.mu.Lock()
	now := g.now()
	g.tick++
	var out []any
	for _, s := range g.stations {
		if s.wait > 0 {
			s.wait--
			continue
		}
		if s.onAir {
			out = append(out, g.keyDown(s, now)...)
		} else {
			out = append(out, g.keyUp(s, now))
		}
	}
	if g.tick%stateEvery == 0 {
		out = append(out, g.stateLocked(false))
	}
	g.mu.Unlock()

	for _, msg := range out {
		g.pub.Publish(msg)
	}
}

func (g *Generator) keyUp(s *station, now time.Time) any {
	g.nextID++
	s.id = g.nextID
	s.onAir = true
	s.started = now
	s.heard = now
	s.wait = 2 + g.rng.Intn(8)

	rec := client.HearingRecord{
		ID:          s.id,
		Source:      s.callsign,
		Destination: client.BroadcastCallsign,
		Repeater1:   s.repeater,
		Repeater2:   reflectorCallsign + " " + s.module,
		Module:      s.module,
		Protocol:    s.protocol,
		CreatedAt:   now,
		Status:      client.StatusActive,
	}
	g.history = append([]client.HearingRecord{rec}, g.history...)
	if len(g.history) > g.opts.HistoryCapacity {
		g.history = g.history[:g.opts.HistoryCapacity]
	}
	g.log.Debug("key up", zap.String("callsign", s.callsign), zap.Int64("id", s.id))
	return hearingMessage{Type: string(client.KindHearing), HearingRecord: rec}
}

func (g *Generator) keyDown(s *station, now time.Time) []any {
	duration := now.Sub(s.started).Seconds()
	id := s.id
	g.finish(id, duration)
	s.onAir = false
	s.heard = now

	r := g.rng.Float64()
	switch {
	case r < g.opts.HandoverRate:
		g.log.Debug("handover", zap.String("callsign", s.callsign), zap.Int64("id", id))
		return []any{g.keyUp(s, now)}
	case r < g.opts.HandoverRate+g.opts.DropCloseRate:
		g.log.Debug("dropped close", zap.String("callsign", s.callsign), zap.Int64("id", id))
		s.wait = 3 + g.rng.Intn(12)
		return nil
	default:
		s.wait = 3 + g.rng.Intn(12)
		return []any{closingMessage{Type: string(client.KindClosing), ID: id, Duration: duration, Protocol: s.protocol}}
	}
}

func (g *Generator) finish(id int64, duration float64) {
	for i := range g.history {
		if g.history[i].ID == id {
			g.history[i].Duration = duration
			g.history[i].Status = client.StatusEnded
			return
		}
	}
}

// stateLocked builds a full-state message. Callers hold g.mu.
func (g *Generator) stateLocked(withConfig bool) stateMessage {
	msg := stateMessage{
		Type:    string(client.KindState),
		Clients: make([]client.Client, 0, len(g.stations)),
		Users:   make([]client.User, 0, len(g.stations)),
		Peers:   append([]client.Peer(nil), g.peers...),
	}
	if msg.Peers == nil {
		msg.Peers = []client.Peer{}
	}
	for _, s := range g.stations {
		msg.Clients = append(msg.Clients, client.Client{
			Callsign:    s.repeater,
			Protocol:    s.protocol,
			OnModule:    s.module,
			ConnectTime: g.booted,
		})
		if !s.heard.IsZero() {
			msg.Users = append(msg.Users, client.User{
				Callsign:  s.callsign,
				Repeater:  s.repeater,
				OnModule:  s.module,
				LastHeard: s.heard,
			})
		}
	}
	if withConfig {
		msg.Configure = map[string]any{
			"Callsign": reflectorCallsign,
			"Modules":  "ABCD",
			"Version":  Version,
		}
	}
	return msg
}

// Greeting returns the full-state message sent to a new subscriber.
func (g *Generator) Greeting() any {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked(true)
}

// History returns the hearing history, newest first.
func (g *Generator) History() []client.HearingRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]client.HearingRecord(nil), g.history...)
}

// OnAir returns the session ids currently on air.
func (g *Generator) OnAir() []int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	var ids []int64
	for _, s := range g.stations {
		if s.onAir {
			ids = append(ids, s.id)
		}
	}
	return ids
}
