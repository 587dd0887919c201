// Package live reconciles the streamed hearing events into a bounded
// last-heard history and a set of sessions currently believed to be on air.
package live

import (
	"sort"
	"time"

	"github.com/urfd-dashboard/tui/internal/client"
)

const (
	// DefaultCapacity bounds the history length.
	DefaultCapacity = 200

	// DefaultStaleAfter is how long an active session may go without any
	// event before the sweep retires it. It only covers lost closing events,
	// so it sits well above the backend heartbeat interval.
	DefaultStaleAfter = 45 * time.Second

	// DefaultSweepInterval is the cadence callers should run Sweep at.
	DefaultSweepInterval = time.Second
)

// Reconciler owns the last-heard history and the active-session index.
//
// A Reconciler is not safe for concurrent use. The dashboard drives it from
// the Bubble Tea update loop, which serialises events, sweeps and reads.
type Reconciler struct {
	history    []client.HearingRecord // most recent first
	active     map[int64]time.Time    // session id -> last seen
	capacity   int
	staleAfter time.Duration
	now        func() time.Time
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithCapacity bounds the history length. Non-positive values are ignored.
func WithCapacity(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// WithStaleAfter sets the staleness threshold used by Sweep. Non-positive
// values are ignored.
func WithStaleAfter(d time.Duration) Option {
	return func(r *Reconciler) {
		if d > 0 {
			r.staleAfter = d
		}
	}
}

// WithClock replaces time.Now for liveness stamps and default creation
// times.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// NewReconciler creates an empty reconciler with DefaultCapacity and
// DefaultStaleAfter unless overridden.
func NewReconciler(opts ...Option) *Reconciler {
	r := &Reconciler{
		active:     make(map[int64]time.Time),
		capacity:   DefaultCapacity,
		staleAfter: DefaultStaleAfter,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ingest applies one event. It reports false for events that are neither
// hearings nor closings so the caller can route them elsewhere.
func (r *Reconciler) Ingest(ev client.Event) bool {
	switch e := ev.(type) {
	case client.ClosingEvent:
		if e.ID != 0 {
			r.terminate(e.ID, e.Duration, e.Protocol)
		}
		return true
	case client.HearingEvent:
		if e.Status == client.StatusEnded && e.ID != 0 {
			r.terminate(e.ID, e.Duration, e.Protocol)
			return true
		}
		if e.ID != 0 {
			r.touch(e.ID, e.Source)
		}
		r.reconcile(e)
		return true
	default:
		return false
	}
}

// IsActive reports whether the session is currently on air. A zero id is
// never active.
func (r *Reconciler) IsActive(id int64) bool {
	if id == 0 {
		return false
	}
	_, ok := r.active[id]
	return ok
}

// ActiveCount returns the number of sessions currently on air.
func (r *Reconciler) ActiveCount() int {
	return len(r.active)
}

// Snapshot returns a copy of the history, most recent first.
func (r *Reconciler) Snapshot() []client.HearingRecord {
	out := make([]client.HearingRecord, len(r.history))
	copy(out, r.history)
	return out
}

// Sweep retires every active session last seen more than the staleness
// threshold before now, and returns the retired ids in ascending order.
// History records are left as they are.
func (r *Reconciler) Sweep(now time.Time) []int64 {
	var evicted []int64
	for id, seen := range r.active {
		if now.Sub(seen) > r.staleAfter {
			delete(r.active, id)
			evicted = append(evicted, id)
		}
	}
	sort.Slice(evicted, func(i, j int) bool { return evicted[i] < evicted[j] })
	return evicted
}

// Seed merges a fetched history into the current one. Records already held
// keep their streamed corrections, except that a fetched copy showing the
// transmission finished (ended status or a recorded duration) closes the
// held record and retires its session, covering closing events lost while
// disconnected. Fetched records lacking an id or source are dropped, and the
// first of several fetched copies of one id wins. The merged history is
// ordered by creation time, newest first, and cut to capacity.
func (r *Reconciler) Seed(records []client.HearingRecord) {
	pos := make(map[int64]int, len(r.history)+len(records))
	merged := make([]client.HearingRecord, 0, len(r.history)+len(records))
	for _, h := range r.history {
		pos[h.ID] = len(merged)
		merged = append(merged, h)
	}
	held := len(merged)
	for _, rec := range records {
		if rec.ID == 0 || rec.Source == "" {
			continue
		}
		if i, ok := pos[rec.ID]; ok {
			if i < held && finished(rec) {
				h := &merged[i]
				h.Status = client.StatusEnded
				h.Duration = rec.Duration
				if rec.Protocol != "" {
					h.Protocol = rec.Protocol
				}
				delete(r.active, rec.ID)
			}
			continue
		}
		pos[rec.ID] = len(merged)
		merged = append(merged, r.sanitize(client.HearingEvent{
			ID:          rec.ID,
			Source:      rec.Source,
			Destination: rec.Destination,
			Repeater1:   rec.Repeater1,
			Repeater2:   rec.Repeater2,
			Module:      rec.Module,
			Protocol:    rec.Protocol,
			CreatedAt:   rec.CreatedAt,
			Duration:    rec.Duration,
			Status:      rec.Status,
		}))
	}
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	if len(merged) > r.capacity {
		merged = merged[:r.capacity]
	}
	r.history = merged
}

func finished(rec client.HearingRecord) bool {
	return rec.Status == client.StatusEnded || rec.Duration > 0
}

func (r *Reconciler) terminate(id int64, duration float64, protocol string) {
	delete(r.active, id)
	i := r.indexOf(id)
	if i < 0 {
		return
	}
	h := &r.history[i]
	h.Duration = duration
	h.Status = client.StatusEnded
	if protocol != "" {
		h.Protocol = protocol
	}
}

// touch marks id as live. Any other live session whose record belongs to
// the same source is dropped first, so one station never shows two rows
// on air when a new session id replaces an old one.
func (r *Reconciler) touch(id int64, source string) {
	if source != "" {
		for other := range r.active {
			if other == id {
				continue
			}
			if i := r.indexOf(other); i >= 0 && r.history[i].Source == source {
				delete(r.active, other)
			}
		}
	}
	r.active[id] = r.now()
}

func (r *Reconciler) reconcile(e client.HearingEvent) {
	if e.ID == 0 {
		return
	}
	if i := r.indexOf(e.ID); i >= 0 {
		h := &r.history[i]
		if e.Module != "" && e.Module != h.Module {
			h.Module = e.Module
		}
		if e.Protocol != "" && e.Protocol != h.Protocol {
			h.Protocol = e.Protocol
		}
		if h.Destination == "" && e.Destination != "" {
			h.Destination = e.Destination
		}
		if h.Repeater2 == "" && e.Repeater2 != "" {
			h.Repeater2 = e.Repeater2
		}
		if h.CreatedAt.IsZero() && !e.CreatedAt.IsZero() {
			h.CreatedAt = e.CreatedAt
		}
		return
	}
	if e.Source == "" {
		return
	}

	r.history = append(r.history, client.HearingRecord{})
	copy(r.history[1:], r.history)
	r.history[0] = r.sanitize(e)
	if len(r.history) > r.capacity {
		r.history = r.history[:r.capacity]
	}
}

// sanitize builds a record field by field so nothing beyond the known
// shape reaches the history.
func (r *Reconciler) sanitize(e client.HearingEvent) client.HearingRecord {
	h := client.HearingRecord{
		ID:          e.ID,
		Source:      e.Source,
		Destination: e.Destination,
		Repeater1:   e.Repeater1,
		Repeater2:   e.Repeater2,
		Module:      e.Module,
		Protocol:    e.Protocol,
		CreatedAt:   e.CreatedAt,
		Duration:    e.Duration,
		Status:      client.StatusEnded,
	}
	if h.Destination == "" {
		h.Destination = client.BroadcastCallsign
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = r.now()
	}
	if e.Status == client.StatusActive {
		h.Status = client.StatusActive
	}
	return h
}

func (r *Reconciler) indexOf(id int64) int {
	for i := range r.history {
		if r.history[i].ID == id {
			return i
		}
	}
	return -1
}
