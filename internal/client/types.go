// Package client provides WebSocket and HTTP clients for the urfd dashboard
// backend. Types mirror the backend wire protocol without importing backend
// packages.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// BroadcastCallsign is the destination used when a hearing carries none.
const BroadcastCallsign = "CQCQCQ"

// EventKind identifies the kind of streamed event.
type EventKind string

const (
	KindHearing EventKind = "hearing"
	KindClosing EventKind = "closing"
	KindEnd     EventKind = "end"
	KindState   EventKind = "state"
)

// HearingStatus is the lifecycle state of a hearing.
type HearingStatus string

const (
	StatusActive HearingStatus = "active"
	StatusEnded  HearingStatus = "ended"
)

// ErrDecode is returned by Decode for payloads that are not a usable event.
var ErrDecode = errors.New("decode event")

// HearingRecord is one transmission session heard by the reflector. It is the
// shape served by /api/history and kept in the live history.
type HearingRecord struct {
	ID          int64         `json:"id"`
	Source      string        `json:"my"`
	Destination string        `json:"ur"`
	Repeater1   string        `json:"rpt1"`
	Repeater2   string        `json:"rpt2"`
	Module      string        `json:"module"`
	Protocol    string        `json:"protocol"`
	CreatedAt   time.Time     `json:"created_at"`
	Duration    float64       `json:"duration"`
	Status      HearingStatus `json:"status,omitempty"`
}

// Client is a node connected to the reflector.
type Client struct {
	Callsign    string    `json:"Callsign"`
	Protocol    string    `json:"Protocol"`
	OnModule    string    `json:"OnModule"`
	ConnectTime time.Time `json:"ConnectTime"`
}

// User is a station recently heard through the reflector.
type User struct {
	Callsign  string    `json:"Callsign"`
	Repeater  string    `json:"Repeater"`
	OnModule  string    `json:"OnModule"`
	ViaPeer   string    `json:"ViaPeer"`
	LastHeard time.Time `json:"LastHeard"`
}

// Peer is another reflector linked to this one.
type Peer struct {
	Callsign    string    `json:"Callsign"`
	Protocol    string    `json:"Protocol"`
	ConnectTime time.Time `json:"ConnectTime"`
}

// ReflectorInfo is the display configuration returned by /api/config.
type ReflectorInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// --- Streamed events ---

// Event is one decoded streamed message. The concrete type is one of
// HearingEvent, ClosingEvent, StateEvent or UnknownEvent.
type Event interface {
	Kind() EventKind
}

// HearingEvent reports a transmission starting, continuing, or (with
// Status == StatusEnded) finishing.
type HearingEvent struct {
	ID          int64
	Source      string
	Destination string
	Repeater1   string
	Repeater2   string
	Module      string
	Protocol    string
	CreatedAt   time.Time
	Duration    float64
	Status      HearingStatus
}

func (HearingEvent) Kind() EventKind { return KindHearing }

// ClosingEvent reports the end of a transmission.
type ClosingEvent struct {
	ID       int64
	Duration float64
	Protocol string
}

func (ClosingEvent) Kind() EventKind { return KindClosing }

// StateEvent carries a full reflector snapshot. A nil collection means the
// key was absent from the payload; a present empty array decodes as a
// non-nil empty slice.
type StateEvent struct {
	Clients   []Client
	Users     []User
	Peers     []Peer
	Configure map[string]any
}

func (StateEvent) Kind() EventKind { return KindState }

// UnknownEvent is any event whose kind this client does not handle.
type UnknownEvent struct {
	Type string
	Raw  json.RawMessage
}

func (e UnknownEvent) Kind() EventKind { return EventKind(e.Type) }

// wireEvent is the flat JSON shape the backend broadcasts for every kind.
type wireEvent struct {
	Type      string  `json:"type"`
	KindAlias string  `json:"kind"`
	ID        int64   `json:"id"`
	Status    string  `json:"status"`
	Duration  float64 `json:"duration"`
	CreatedAt string  `json:"created_at"`
	Module    string  `json:"module"`
	Protocol  string  `json:"protocol"`

	My   string `json:"my"`
	Ur   string `json:"ur"`
	Rpt1 string `json:"rpt1"`
	Rpt2 string `json:"rpt2"`

	Clients   []Client       `json:"Clients"`
	Users     []User         `json:"Users"`
	Peers     []Peer         `json:"Peers"`
	Configure map[string]any `json:"Configure"`
}

// Decode parses a single JSON object into a typed Event. Errors wrap
// ErrDecode.
func Decode(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	kind := w.Type
	if kind == "" {
		kind = w.KindAlias
	}

	switch EventKind(kind) {
	case "":
		return nil, fmt.Errorf("%w: missing event type", ErrDecode)
	case KindHearing:
		return HearingEvent{
			ID:          w.ID,
			Source:      w.My,
			Destination: w.Ur,
			Repeater1:   w.Rpt1,
			Repeater2:   w.Rpt2,
			Module:      w.Module,
			Protocol:    w.Protocol,
			CreatedAt:   parseTime(w.CreatedAt),
			Duration:    w.Duration,
			Status:      HearingStatus(w.Status),
		}, nil
	case KindClosing, KindEnd:
		return ClosingEvent{
			ID:       w.ID,
			Duration: w.Duration,
			Protocol: w.Protocol,
		}, nil
	case KindState:
		return StateEvent{
			Clients:   w.Clients,
			Users:     w.Users,
			Peers:     w.Peers,
			Configure: w.Configure,
		}, nil
	default:
		return UnknownEvent{Type: kind, Raw: json.RawMessage(data)}, nil
	}
}

// parseTime accepts RFC 3339 timestamps. Anything else, including the
// backend's zero time, is treated as absent.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil || t.IsZero() {
		return time.Time{}
	}
	return t
}
