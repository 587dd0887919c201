package detail

import (
	"strings"
	"testing"
	"time"

	"github.com/urfd-dashboard/tui/internal/client"
)

func testRows(now time.Time) []client.HearingRecord {
	return []client.HearingRecord{
		{ID: 7, Source: "W1AW", Destination: "CQCQCQ", Repeater1: "W1AW-B", Module: "A", Protocol: "DMR", CreatedAt: now.Add(-12 * time.Second), Status: client.StatusActive},
		{ID: 5, Source: "K1ABC", Destination: "CQCQCQ", Module: "B", Protocol: "M17", CreatedAt: now.Add(-time.Minute), Duration: 8.3, Status: client.StatusEnded},
	}
}

func TestViewOnAir(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m := New(7)
	m.now = func() time.Time { return now }
	m.Sync(testRows(now), func(id int64) bool { return id == 7 })

	if !m.Found() {
		t.Fatal("hearing 7 not found")
	}
	v := m.View()
	for _, want := range []string{"Hearing: W1AW", "Session:", "7", "CQCQCQ", "W1AW-B", "DMR", "on air", "12s"} {
		if !strings.Contains(v, want) {
			t.Errorf("view missing %q:\n%s", want, v)
		}
	}
	if !strings.Contains(v, "Gateway:") || !strings.Contains(v, "-") {
		t.Errorf("blank gateway should render as a dash:\n%s", v)
	}
}

func TestViewEnded(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m := New(5)
	m.Sync(testRows(now), func(int64) bool { return false })

	v := m.View()
	if !strings.Contains(v, "ended") || !strings.Contains(v, "8.3s") {
		t.Errorf("ended hearing rendered wrong:\n%s", v)
	}
	if strings.Contains(v, "on air") {
		t.Errorf("ended hearing marked on air:\n%s", v)
	}
}

func TestSyncFollowsHistory(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	rows := testRows(now)
	m := New(7)
	m.Sync(rows, func(int64) bool { return true })
	if !m.onAir {
		t.Fatal("expected on air")
	}

	rows[0].Duration = 14
	rows[0].Status = client.StatusEnded
	m.Sync(rows, func(int64) bool { return false })
	if m.onAir || m.hearing.Duration != 14 {
		t.Errorf("sync did not pick up the close: %+v", m.hearing)
	}

	m.Sync(rows[1:], func(int64) bool { return false })
	if m.Found() || m.View() != "" {
		t.Error("evicted hearing should render nothing")
	}
}
