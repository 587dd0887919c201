package mockfeed

import "github.com/urfd-dashboard/tui/internal/client"

// hearingMessage announces or corrects a transmission session.
type hearingMessage struct {
	Type string `json:"type"`
	client.HearingRecord
}

// closingMessage ends a transmission session.
type closingMessage struct {
	Type     string  `json:"type"`
	ID       int64   `json:"id"`
	Duration float64 `json:"duration"`
	Protocol string  `json:"protocol,omitempty"`
}

// stateMessage carries the reflector's full node lists. Collections are always
// present; Configure only on the greeting sent to a new subscriber.
type stateMessage struct {
	Type      string          `json:"type"`
	Clients   []client.Client `json:"Clients"`
	Users     []client.User   `json:"Users"`
	Peers     []client.Peer   `json:"Peers"`
	Configure map[string]any  `json:"Configure,omitempty"`
}
