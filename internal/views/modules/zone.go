package modules

import (
	"time"

	"github.com/urfd-dashboard/tui/internal/client"
)

// Activity classifies a module lane by its latest hearing.
type Activity int

const (
	ActivityOnAir Activity = iota
	ActivityRecent
	ActivityQuiet
)

// RecentWindow is how long after its start an ended hearing keeps its lane
// in the recent group.
const RecentWindow = 5 * time.Minute

// Classify returns the activity for a lane whose latest hearing is h.
func Classify(h *client.HearingRecord, onAir bool, now time.Time) Activity {
	switch {
	case h == nil:
		return ActivityQuiet
	case onAir:
		return ActivityOnAir
	case !h.CreatedAt.IsZero() && now.Sub(h.CreatedAt) < RecentWindow:
		return ActivityRecent
	default:
		return ActivityQuiet
	}
}

// Name returns a display label.
func (a Activity) Name() string {
	switch a {
	case ActivityOnAir:
		return "ON AIR"
	case ActivityRecent:
		return "RECENT"
	case ActivityQuiet:
		return "QUIET"
	default:
		return "?"
	}
}
