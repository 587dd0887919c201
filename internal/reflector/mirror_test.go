package reflector

import (
	"testing"

	"github.com/urfd-dashboard/tui/internal/client"
)

func fullState() client.StateEvent {
	return client.StateEvent{
		Clients:   []client.Client{{Callsign: "W1AW", Protocol: "DMR", OnModule: "A"}},
		Users:     []client.User{{Callsign: "K1ABC", OnModule: "B"}},
		Peers:     []client.Peer{{Callsign: "XLX001", Protocol: "XLX"}},
		Configure: map[string]any{"Modules": "ABC"},
	}
}

func TestNewMirrorEmpty(t *testing.T) {
	m := NewMirror()
	if len(m.Clients()) != 0 || len(m.Users()) != 0 || len(m.Peers()) != 0 || len(m.Config()) != 0 {
		t.Error("new mirror should be empty")
	}
}

func TestApplyFullState(t *testing.T) {
	m := NewMirror()
	m.ApplyFullState(fullState())

	if got := m.Clients(); len(got) != 1 || got[0].Callsign != "W1AW" {
		t.Errorf("Clients() = %+v", got)
	}
	if got := m.Users(); len(got) != 1 || got[0].Callsign != "K1ABC" {
		t.Errorf("Users() = %+v", got)
	}
	if got := m.Peers(); len(got) != 1 || got[0].Callsign != "XLX001" {
		t.Errorf("Peers() = %+v", got)
	}
	if got := m.Config()["Modules"]; got != "ABC" {
		t.Errorf("Config()[Modules] = %v", got)
	}
}

func TestApplyPartialStateKeepsOthers(t *testing.T) {
	m := NewMirror()
	m.ApplyFullState(fullState())

	m.ApplyFullState(client.StateEvent{
		Users: []client.User{{Callsign: "N0CALL"}, {Callsign: "N1CALL"}},
	})

	if got := m.Users(); len(got) != 2 || got[0].Callsign != "N0CALL" {
		t.Errorf("Users() = %+v, want replaced", got)
	}
	if got := m.Clients(); len(got) != 1 || got[0].Callsign != "W1AW" {
		t.Errorf("Clients() = %+v, want untouched", got)
	}
	if got := m.Peers(); len(got) != 1 {
		t.Errorf("Peers() = %+v, want untouched", got)
	}
	if got := m.Config(); len(got) != 1 {
		t.Errorf("Config() = %+v, want untouched", got)
	}
}

func TestApplyEmptyCollectionReplaces(t *testing.T) {
	m := NewMirror()
	m.ApplyFullState(fullState())

	m.ApplyFullState(client.StateEvent{Clients: []client.Client{}})

	if got := m.Clients(); len(got) != 0 {
		t.Errorf("Clients() = %+v, want emptied by present empty list", got)
	}
	if got := m.Users(); len(got) != 1 {
		t.Errorf("Users() = %+v, want untouched", got)
	}
}

func TestRoute(t *testing.T) {
	m := NewMirror()

	if m.Route(client.UnknownEvent{Type: "client_connect"}) {
		t.Error("Route(client_connect) = true, want no-op")
	}
	if m.Route(client.HearingEvent{ID: 1}) {
		t.Error("Route(hearing) = true, want no-op")
	}
	if !m.Route(fullState()) {
		t.Fatal("Route(state) = false")
	}
	if len(m.Clients()) != 1 {
		t.Error("Route(state) did not apply the snapshot")
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	m := NewMirror()
	m.ApplyFullState(fullState())

	m.Clients()[0].Callsign = "mutated"
	m.Config()["Modules"] = "mutated"

	if m.Clients()[0].Callsign != "W1AW" {
		t.Error("Clients() leaked internal slice")
	}
	if m.Config()["Modules"] != "ABC" {
		t.Error("Config() leaked internal map")
	}
}

func TestModules(t *testing.T) {
	m := NewMirror()
	m.ApplyFullState(client.StateEvent{
		Clients: []client.Client{{OnModule: "C"}, {OnModule: "A"}, {OnModule: ""}},
		Users:   []client.User{{OnModule: "A"}, {OnModule: "B"}},
	})

	got := m.Modules()
	want := []string{"A", "B", "C"}
	if len(got) != len(want) {
		t.Fatalf("Modules() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Modules()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
