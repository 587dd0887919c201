// Package reflector mirrors the backend's view of connected clients, users,
// peers and configuration.
package reflector

import (
	"maps"
	"slices"
	"sort"

	"github.com/urfd-dashboard/tui/internal/client"
)

// Mirror holds the latest full-state snapshot. Like live.Reconciler it is
// driven from a single goroutine and does no locking.
type Mirror struct {
	clients []client.Client
	users   []client.User
	peers   []client.Peer
	config  map[string]any
}

// NewMirror creates an empty mirror.
func NewMirror() *Mirror {
	return &Mirror{config: make(map[string]any)}
}

// ApplyFullState replaces each collection present in s. Absent (nil)
// collections keep their stored value.
func (m *Mirror) ApplyFullState(s client.StateEvent) {
	if s.Clients != nil {
		m.clients = s.Clients
	}
	if s.Users != nil {
		m.users = s.Users
	}
	if s.Peers != nil {
		m.peers = s.Peers
	}
	if s.Configure != nil {
		m.config = s.Configure
	}
}

// Route applies full-state events and reports whether ev was one.
// Incremental client connect/disconnect events are not handled.
func (m *Mirror) Route(ev client.Event) bool {
	s, ok := ev.(client.StateEvent)
	if !ok {
		return false
	}
	m.ApplyFullState(s)
	return true
}

// Clients returns a copy of the connected clients.
func (m *Mirror) Clients() []client.Client { return slices.Clone(m.clients) }

// Users returns a copy of the recently heard users.
func (m *Mirror) Users() []client.User { return slices.Clone(m.users) }

// Peers returns a copy of the linked peers.
func (m *Mirror) Peers() []client.Peer { return slices.Clone(m.peers) }

// Config returns a copy of the reflector configuration mapping.
func (m *Mirror) Config() map[string]any { return maps.Clone(m.config) }

// Modules returns the distinct module letters clients and users are on,
// sorted.
func (m *Mirror) Modules() []string {
	seen := make(map[string]bool)
	for _, c := range m.clients {
		if c.OnModule != "" {
			seen[c.OnModule] = true
		}
	}
	for _, u := range m.users {
		if u.OnModule != "" {
			seen[u.OnModule] = true
		}
	}
	out := make([]string, 0, len(seen))
	for mod := range seen {
		out = append(out, mod)
	}
	sort.Strings(out)
	return out
}
