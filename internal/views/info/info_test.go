package info

import (
	"strings"
	"testing"

	"github.com/urfd-dashboard/tui/internal/client"
)

func TestMarkdownWithoutInfo(t *testing.T) {
	m := New()
	md := m.markdown()
	if !strings.Contains(md, "# Reflector") || !strings.Contains(md, "not available") {
		t.Errorf("unexpected markdown:\n%s", md)
	}
}

func TestMarkdownWithInfoAndConfig(t *testing.T) {
	m := New()
	m.SetInfo(&client.ReflectorInfo{Name: "URF000", Description: "Test reflector", Version: "1.2.3"})
	m.SetConfig(map[string]any{"Modules": "ABC", "Callsign": "URF000"})

	md := m.markdown()
	for _, want := range []string{"# URF000", "Test reflector", "**1.2.3**", "| Callsign | URF000 |", "| Modules | ABC |"} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if strings.Index(md, "Callsign") > strings.Index(md, "Modules") {
		t.Error("config keys not sorted")
	}
}

func TestViewRenders(t *testing.T) {
	m := New()
	m.Style = "notty"
	m.SetSize(60, 30)
	m.SetInfo(&client.ReflectorInfo{Name: "URF000", Version: "1.2.3"})

	v := m.View()
	if !strings.Contains(v, "URF000") || !strings.Contains(v, "1.2.3") {
		t.Errorf("rendered view missing content:\n%s", v)
	}

	m.Scroll(1)
	m.Scroll(-5)
	if m.viewport.YOffset != 0 {
		t.Errorf("YOffset = %d, want 0 after scrolling back", m.viewport.YOffset)
	}
}
