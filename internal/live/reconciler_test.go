package live

import (
	"fmt"
	"testing"
	"time"

	"github.com/urfd-dashboard/tui/internal/client"
)

// newTestReconciler returns a reconciler whose clock is controlled by the
// returned pointer.
func newTestReconciler(capacity int) (*Reconciler, *time.Time) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	r := NewReconciler(WithCapacity(capacity), WithClock(func() time.Time { return now }))
	return r, &now
}

func hearing(id int64, source string) client.HearingEvent {
	return client.HearingEvent{
		ID:       id,
		Source:   source,
		Module:   "A",
		Protocol: "DMR",
		Status:   client.StatusActive,
	}
}

func TestNewReconcilerDefaults(t *testing.T) {
	r := NewReconciler(WithCapacity(0), WithStaleAfter(-time.Second), WithClock(nil))
	if r.now == nil {
		t.Error("nil clock replaced time.Now")
	}
	if r.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", r.capacity, DefaultCapacity)
	}
	if r.staleAfter != DefaultStaleAfter {
		t.Errorf("staleAfter = %v, want %v", r.staleAfter, DefaultStaleAfter)
	}
	if got := len(r.Snapshot()); got != 0 {
		t.Errorf("new reconciler has %d records, want 0", got)
	}
}

func TestIngestNewHearing(t *testing.T) {
	r, now := newTestReconciler(0)
	r.Ingest(client.HearingEvent{
		ID:        5,
		Source:    "W1AW",
		Repeater1: "XLX000 A",
		Module:    "A",
		Protocol:  "DMR",
		Status:    client.StatusActive,
	})

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 record, got %d", len(snap))
	}
	h := snap[0]
	if h.ID != 5 || h.Source != "W1AW" {
		t.Errorf("unexpected identity: %+v", h)
	}
	if h.Destination != client.BroadcastCallsign {
		t.Errorf("Destination = %q, want %q", h.Destination, client.BroadcastCallsign)
	}
	if !h.CreatedAt.Equal(*now) {
		t.Errorf("CreatedAt = %v, want %v", h.CreatedAt, *now)
	}
	if h.Status != client.StatusActive {
		t.Errorf("Status = %q, want active", h.Status)
	}
	if h.Repeater1 != "XLX000 A" || h.Repeater2 != "" {
		t.Errorf("unexpected repeaters: %q %q", h.Repeater1, h.Repeater2)
	}
	if !r.IsActive(5) {
		t.Error("IsActive(5) = false after hearing")
	}
}

func TestIngestStatusDefaultsToEnded(t *testing.T) {
	r, _ := newTestReconciler(0)
	ev := hearing(9, "K1ABC")
	ev.Status = ""
	r.Ingest(ev)

	if got := r.Snapshot()[0].Status; got != client.StatusEnded {
		t.Errorf("Status = %q, want ended when not explicitly active", got)
	}
}

func TestIngestSameIDKeepsOneRecord(t *testing.T) {
	r, _ := newTestReconciler(0)
	first := hearing(5, "W1AW")
	r.Ingest(first)

	for i := 0; i < 10; i++ {
		ev := hearing(5, "IMPOSTER")
		ev.Module = "B"
		r.Ingest(ev)
	}

	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 record, got %d", len(snap))
	}
	if snap[0].ID != 5 || snap[0].Source != "W1AW" {
		t.Errorf("identity changed: %+v", snap[0])
	}
	if snap[0].Module != "B" {
		t.Errorf("Module = %q, want corrected to B", snap[0].Module)
	}
}

func TestIngestCorrectiveMerge(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start client.HearingRecord
		event client.HearingEvent
		want  client.HearingRecord
	}{
		{
			name:  "module and protocol corrected",
			start: client.HearingRecord{ID: 1, Source: "A", Module: "A", Protocol: "DMR", Destination: "CQCQCQ", CreatedAt: created},
			event: client.HearingEvent{ID: 1, Source: "A", Module: "C", Protocol: "M17"},
			want:  client.HearingRecord{ID: 1, Source: "A", Module: "C", Protocol: "M17", Destination: "CQCQCQ", CreatedAt: created},
		},
		{
			name:  "empty values never clear",
			start: client.HearingRecord{ID: 1, Source: "A", Module: "A", Protocol: "DMR", Destination: "CQCQCQ", Repeater2: "GW", CreatedAt: created},
			event: client.HearingEvent{ID: 1},
			want:  client.HearingRecord{ID: 1, Source: "A", Module: "A", Protocol: "DMR", Destination: "CQCQCQ", Repeater2: "GW", CreatedAt: created},
		},
		{
			name:  "fill-only fields are not overwritten",
			start: client.HearingRecord{ID: 1, Source: "A", Destination: "CQCQCQ", Repeater2: "GW", CreatedAt: created},
			event: client.HearingEvent{ID: 1, Destination: "OTHER", Repeater2: "GW2", CreatedAt: created.Add(time.Hour)},
			want:  client.HearingRecord{ID: 1, Source: "A", Destination: "CQCQCQ", Repeater2: "GW", CreatedAt: created},
		},
		{
			name:  "fill-only fields fill blanks",
			start: client.HearingRecord{ID: 1, Source: "A"},
			event: client.HearingEvent{ID: 1, Destination: "DEST", Repeater2: "GW", CreatedAt: created},
			want:  client.HearingRecord{ID: 1, Source: "A", Destination: "DEST", Repeater2: "GW", CreatedAt: created},
		},
		{
			name:  "repeater1 and source are never touched",
			start: client.HearingRecord{ID: 1, Source: "A", Repeater1: "R1", Destination: "D", CreatedAt: created},
			event: client.HearingEvent{ID: 1, Source: "B", Repeater1: "R9"},
			want:  client.HearingRecord{ID: 1, Source: "A", Repeater1: "R1", Destination: "D", CreatedAt: created},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestReconciler(0)
			r.history = []client.HearingRecord{tt.start}
			r.Ingest(tt.event)
			got := r.Snapshot()[0]
			if got != tt.want {
				t.Errorf("got  %+v\nwant %+v", got, tt.want)
			}
		})
	}
}

func TestIngestClosingEndsSession(t *testing.T) {
	r, _ := newTestReconciler(0)
	r.Ingest(hearing(5, "A"))
	r.Ingest(client.ClosingEvent{ID: 5, Duration: 42})

	if r.IsActive(5) {
		t.Error("IsActive(5) = true after closing")
	}
	h := r.Snapshot()[0]
	if h.Status != client.StatusEnded {
		t.Errorf("Status = %q, want ended", h.Status)
	}
	if h.Duration != 42 {
		t.Errorf("Duration = %v, want 42", h.Duration)
	}
	if h.Protocol != "DMR" {
		t.Errorf("Protocol = %q, want unchanged DMR", h.Protocol)
	}
}

func TestIngestEndedHearingEndsSession(t *testing.T) {
	r, _ := newTestReconciler(0)
	r.Ingest(hearing(5, "A"))
	r.Ingest(client.HearingEvent{ID: 5, Status: client.StatusEnded, Duration: 3.5, Protocol: "YSF"})

	if r.IsActive(5) {
		t.Error("IsActive(5) = true after ended hearing")
	}
	snap := r.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 record, got %d", len(snap))
	}
	if snap[0].Duration != 3.5 || snap[0].Status != client.StatusEnded || snap[0].Protocol != "YSF" {
		t.Errorf("unexpected record after end: %+v", snap[0])
	}
}

func TestIngestClosingUnknownIDCreatesNothing(t *testing.T) {
	r, _ := newTestReconciler(0)
	r.Ingest(client.ClosingEvent{ID: 77, Duration: 1})
	r.Ingest(client.HearingEvent{ID: 78, Source: "A", Status: client.StatusEnded})

	if got := len(r.Snapshot()); got != 0 {
		t.Errorf("expected empty history, got %d records", got)
	}
	if r.ActiveCount() != 0 {
		t.Errorf("ActiveCount() = %d, want 0", r.ActiveCount())
	}
}

func TestIngestSameSourceNewIDEvictsOld(t *testing.T) {
	r, _ := newTestReconciler(0)
	r.Ingest(hearing(5, "W1AW"))
	r.Ingest(hearing(6, "K1ABC"))
	r.Ingest(hearing(7, "W1AW"))

	if r.IsActive(5) {
		t.Error("IsActive(5) = true, want evicted by session 7 of the same source")
	}
	if !r.IsActive(7) {
		t.Error("IsActive(7) = false")
	}
	if !r.IsActive(6) {
		t.Error("IsActive(6) = false, other sources must be untouched")
	}
	if got := len(r.Snapshot()); got != 3 {
		t.Errorf("history length = %d, want 3", got)
	}
}

func TestIngestMissingFieldsIgnored(t *testing.T) {
	r, _ := newTestReconciler(0)
	r.Ingest(client.HearingEvent{Source: "NOID", Status: client.StatusActive})
	r.Ingest(client.HearingEvent{ID: 3, Status: client.StatusActive})
	r.Ingest(client.ClosingEvent{})

	if got := len(r.Snapshot()); got != 0 {
		t.Errorf("expected no records, got %d", got)
	}
	// Liveness still runs for an id without a source.
	if !r.IsActive(3) {
		t.Error("IsActive(3) = false, want liveness refreshed")
	}
}

func TestIngestForwardsOtherKinds(t *testing.T) {
	r, _ := newTestReconciler(0)
	if r.Ingest(client.StateEvent{}) {
		t.Error("Ingest(StateEvent) = true, want false")
	}
	if r.Ingest(client.UnknownEvent{Type: "client_connect"}) {
		t.Error("Ingest(UnknownEvent) = true, want false")
	}
	if !r.Ingest(client.ClosingEvent{ID: 1}) {
		t.Error("Ingest(ClosingEvent) = false, want true")
	}
}

func TestIsActiveZeroID(t *testing.T) {
	r, _ := newTestReconciler(0)
	r.active[0] = time.Now()
	if r.IsActive(0) {
		t.Error("IsActive(0) = true")
	}
}

func TestHistoryCapacity(t *testing.T) {
	r, _ := newTestReconciler(0)
	for i := 1; i <= DefaultCapacity; i++ {
		r.Ingest(hearing(int64(i), fmt.Sprintf("CALL%d", i)))
	}
	if got := len(r.Snapshot()); got != DefaultCapacity {
		t.Fatalf("history length = %d, want %d", got, DefaultCapacity)
	}

	r.Ingest(hearing(DefaultCapacity+1, "NEWEST"))

	snap := r.Snapshot()
	if len(snap) != DefaultCapacity {
		t.Fatalf("history length = %d, want %d", len(snap), DefaultCapacity)
	}
	if snap[0].ID != DefaultCapacity+1 {
		t.Errorf("head id = %d, want %d", snap[0].ID, DefaultCapacity+1)
	}
	if last := snap[len(snap)-1].ID; last != 2 {
		t.Errorf("tail id = %d, want 2 (only id 1 evicted)", last)
	}
}

func TestSweepEvictsStaleOnly(t *testing.T) {
	r, now := newTestReconciler(0)
	r.Ingest(hearing(1, "OLD"))
	*now = now.Add(30 * time.Second)
	r.Ingest(hearing(2, "FRESH"))

	evicted := r.Sweep(now.Add(16 * time.Second))
	if len(evicted) != 1 || evicted[0] != 1 {
		t.Fatalf("Sweep evicted %v, want [1]", evicted)
	}
	if r.IsActive(1) {
		t.Error("IsActive(1) = true after sweep")
	}
	if !r.IsActive(2) {
		t.Error("IsActive(2) = false, should still be fresh")
	}

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("history length = %d, want 2", len(snap))
	}
	if snap[1].Status != client.StatusActive {
		t.Errorf("sweep touched history: status = %q", snap[1].Status)
	}
}

func TestSweepAtThresholdKeeps(t *testing.T) {
	r, now := newTestReconciler(0)
	r.Ingest(hearing(1, "A"))
	if got := r.Sweep(now.Add(DefaultStaleAfter)); len(got) != 0 {
		t.Errorf("Sweep at exactly the threshold evicted %v", got)
	}
}

func TestSnapshotReturnsCopy(t *testing.T) {
	r, _ := newTestReconciler(0)
	r.Ingest(hearing(1, "A"))

	snap := r.Snapshot()
	snap[0].Source = "mutated"

	if r.Snapshot()[0].Source != "A" {
		t.Error("Snapshot did not return a copy; mutation leaked into history")
	}
}

func TestSeed(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	r, _ := newTestReconciler(3)

	r.Seed([]client.HearingRecord{
		{ID: 1, Source: "A", CreatedAt: base.Add(1 * time.Minute), Duration: 4},
		{ID: 2, Source: "B", CreatedAt: base.Add(3 * time.Minute)},
		{ID: 2, Source: "DUP", CreatedAt: base.Add(5 * time.Minute)},
		{ID: 0, Source: "NOID", CreatedAt: base},
		{ID: 3, Source: "", CreatedAt: base},
		{ID: 4, Source: "D", CreatedAt: base.Add(2 * time.Minute)},
		{ID: 5, Source: "E", CreatedAt: base},
	})

	snap := r.Snapshot()
	var ids []int64
	for _, h := range snap {
		ids = append(ids, h.ID)
	}
	want := []int64{2, 4, 1}
	if fmt.Sprint(ids) != fmt.Sprint(want) {
		t.Fatalf("seeded ids = %v, want %v", ids, want)
	}
	if snap[0].Source != "B" {
		t.Errorf("duplicate id replaced first record: %+v", snap[0])
	}
	if snap[0].Destination != client.BroadcastCallsign {
		t.Errorf("seeded Destination = %q, want default", snap[0].Destination)
	}
	if snap[2].Status != client.StatusEnded {
		t.Errorf("seeded Status = %q, want ended", snap[2].Status)
	}
}

func TestSeedKeepsStreamedRecords(t *testing.T) {
	r, now := newTestReconciler(0)
	ev := hearing(10, "LIVE")
	ev.Module = "C"
	r.Ingest(ev)

	r.Seed([]client.HearingRecord{
		{ID: 10, Source: "LIVE", Module: "A", CreatedAt: now.Add(-time.Second)},
		{ID: 9, Source: "PAST", CreatedAt: now.Add(-time.Minute)},
	})

	snap := r.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("history length = %d, want 2", len(snap))
	}
	if snap[0].ID != 10 || snap[0].Module != "C" || snap[0].Status != client.StatusActive {
		t.Errorf("streamed record not preserved: %+v", snap[0])
	}
	if snap[1].ID != 9 {
		t.Errorf("second record id = %d, want 9", snap[1].ID)
	}
	if !r.IsActive(10) {
		t.Error("Seed retired a session the fetched history shows in progress")
	}
}

func TestSeedAppliesMissedClose(t *testing.T) {
	tests := []struct {
		name    string
		fetched client.HearingRecord
	}{
		{"ended status", client.HearingRecord{ID: 5, Source: "A", Status: client.StatusEnded, Duration: 12, Protocol: "M17"}},
		{"duration only", client.HearingRecord{ID: 5, Source: "A", Duration: 12, Protocol: "M17"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, now := newTestReconciler(0)
			r.Ingest(hearing(5, "A"))
			tt.fetched.CreatedAt = *now

			r.Seed([]client.HearingRecord{tt.fetched})
			r.Sweep(now.Add(time.Minute))

			snap := r.Snapshot()
			if len(snap) != 1 {
				t.Fatalf("history length = %d, want 1", len(snap))
			}
			h := snap[0]
			if h.Status != client.StatusEnded || h.Duration != 12 || h.Protocol != "M17" {
				t.Errorf("record after reseed = %+v, want ended with duration 12 on M17", h)
			}
			if r.IsActive(5) {
				t.Error("session still active after reseed showed it closed")
			}
		})
	}
}
