package app

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/urfd-dashboard/tui/internal/client"
	"github.com/urfd-dashboard/tui/internal/live"
	"github.com/urfd-dashboard/tui/internal/reflector"
	"github.com/urfd-dashboard/tui/internal/theme"
	"github.com/urfd-dashboard/tui/internal/views/dashboard"
	"github.com/urfd-dashboard/tui/internal/views/debug"
	"github.com/urfd-dashboard/tui/internal/views/detail"
	"github.com/urfd-dashboard/tui/internal/views/info"
	"github.com/urfd-dashboard/tui/internal/views/lastheard"
	"github.com/urfd-dashboard/tui/internal/views/modules"
	"github.com/urfd-dashboard/tui/internal/views/nodes"
	"github.com/urfd-dashboard/tui/internal/views/status"
	"go.uber.org/zap"
)

// View identifies the main panel.
type View int

const (
	ViewLastHeard View = iota
	ViewClients
	ViewUsers
	ViewPeers
	ViewModules
	ViewInfo
	viewCount
)

// Name returns the tab label.
func (v View) Name() string {
	switch v {
	case ViewLastHeard:
		return "Last Heard"
	case ViewClients:
		return "Clients"
	case ViewUsers:
		return "Users"
	case ViewPeers:
		return "Peers"
	case ViewModules:
		return "Modules"
	case ViewInfo:
		return "Info"
	default:
		return "?"
	}
}

// Overlay identifies which modal is active.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayDebug
	OverlayDetail
)

// chrome is the number of lines taken by the status bar, tabs and help.
const chrome = 6

// Options tunes the live-state layer.
type Options struct {
	HistoryCapacity int
	StaleAfter      time.Duration
	SweepInterval   time.Duration
	Logger          *zap.Logger
}

// sweepMsg fires on every sweep tick.
type sweepMsg time.Time

// historyMsg carries the result of the history fetch.
type historyMsg struct {
	records []client.HearingRecord
	err     error
}

// infoMsg carries the result of the display-config fetch.
type infoMsg struct {
	info *client.ReflectorInfo
	err  error
}

// Model is the root Bubble Tea model. Every mutation of the hearing history
// and reflector mirror happens inside Update, so both are only ever touched
// from one goroutine.
type Model struct {
	ws     *client.WSClient
	http   *client.HTTPClient
	log    *zap.Logger
	ctx    context.Context
	cancel context.CancelFunc

	keys          KeyMap
	width         int
	height        int
	sweepInterval time.Duration

	// Live state.
	hearings *live.Reconciler
	mirror   *reflector.Mirror

	// Navigation.
	view    View
	overlay Overlay
	module  string

	// Sub-views.
	statusBar status.Model
	lastHeard lastheard.Model
	nodes     nodes.Model
	modules   modules.Model
	dashboard dashboard.Model
	info      *info.Model
	debug     debug.Model
	detail    detail.Model

	// Connection state.
	connected bool
}

// New creates the root model.
func New(ws *client.WSClient, http *client.HTTPClient, opts Options) Model {
	ctx, cancel := context.WithCancel(context.Background())
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = live.DefaultSweepInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	panel := info.New()
	return Model{
		ws:            ws,
		http:          http,
		log:           opts.Logger,
		ctx:           ctx,
		cancel:        cancel,
		keys:          DefaultKeyMap(),
		sweepInterval: opts.SweepInterval,
		hearings:      live.NewReconciler(live.WithCapacity(opts.HistoryCapacity), live.WithStaleAfter(opts.StaleAfter)),
		mirror:        reflector.NewMirror(),
		statusBar:     status.New(),
		lastHeard:     lastheard.New(),
		nodes:         nodes.New(),
		modules:       modules.New(),
		dashboard:     dashboard.New(),
		info:          &panel,
		debug:         debug.New(),
	}
}

// Init starts the WebSocket connection, the info fetch and the sweep.
func (m Model) Init() tea.Cmd {
	var connect tea.Cmd
	if m.ws != nil {
		connect = m.ws.Listen(m.ctx, 0)
	}
	return tea.Batch(connect, m.fetchInfo(), m.sweepTick())
}

// Shutdown cancels pending reconnects and the sweep, and closes the
// connection.
func (m Model) Shutdown() {
	m.cancel()
	if m.ws != nil {
		if err := m.ws.Close(); err != nil {
			m.log.Debug("ws close", zap.Error(err))
		}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.statusBar.Width = msg.Width
		m.lastHeard.Width = msg.Width
		m.lastHeard.Height = msg.Height - chrome
		m.modules.Width = msg.Width
		m.dashboard.Width = msg.Width
		m.info.SetSize(msg.Width, msg.Height-chrome)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case client.WSConnectedMsg:
		m.connected = true
		m.statusBar.Connected = true
		m.debug.Add("ws", "connected")
		return m, tea.Batch(m.readNext(), m.fetchHistory())

	case client.WSDisconnectedMsg:
		m.connected = false
		m.statusBar.Connected = false
		if msg.Err != nil {
			m.debug.Addf("ws", "disconnected: %v", msg.Err)
		}
		if m.ws == nil {
			return m, nil
		}
		return m, m.ws.Listen(m.ctx, m.ws.ReconnectDelay())

	case client.WSEventMsg:
		m.handleEvent(msg.Event)
		return m, m.readNext()

	case client.WSDecodeErrorMsg:
		m.debug.Addf("err", "%v", msg.Err)
		return m, m.readNext()

	case historyMsg:
		if msg.err != nil {
			m.log.Warn("history fetch failed", zap.Error(msg.err))
			m.debug.Addf("err", "history: %v", msg.err)
			return m, nil
		}
		m.hearings.Seed(msg.records)
		m.debug.Addf("http", "history: %d records", len(msg.records))
		m.refresh()
		return m, nil

	case infoMsg:
		if msg.err != nil {
			m.log.Info("display config unavailable", zap.Error(msg.err))
			m.debug.Addf("http", "config: %v", msg.err)
			return m, nil
		}
		m.info.SetInfo(msg.info)
		m.statusBar.Reflector = msg.info.Name
		return m, nil

	case sweepMsg:
		if evicted := m.hearings.Sweep(time.Time(msg)); len(evicted) > 0 {
			m.debug.Addf("swp", "retired stale sessions %v", evicted)
			m.refresh()
		}
		return m, m.sweepTick()
	}

	return m, nil
}

// handleEvent routes one streamed event to the reconciler or the mirror.
func (m *Model) handleEvent(ev client.Event) {
	switch {
	case m.hearings.Ingest(ev):
	case m.mirror.Route(ev):
		m.info.SetConfig(m.mirror.Config())
	default:
		m.debug.Addf("evt", "ignored %q event", ev.Kind())
		return
	}
	m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay == OverlayDetail {
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Select):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Quit):
			m.Shutdown()
			return m, tea.Quit
		}
		return m, nil
	}
	if m.overlay != OverlayNone {
		switch {
		case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Debug):
			m.overlay = OverlayNone
		case key.Matches(msg, m.keys.Up):
			m.debug.ScrollUp(1)
		case key.Matches(msg, m.keys.Down):
			m.debug.ScrollDown(1)
		case key.Matches(msg, m.keys.Quit):
			m.Shutdown()
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		m.scroll(1)
	case key.Matches(msg, m.keys.Up):
		m.scroll(-1)
	case key.Matches(msg, m.keys.PageDown):
		m.scroll(m.page())
	case key.Matches(msg, m.keys.PageUp):
		m.scroll(-m.page())

	case key.Matches(msg, m.keys.Tab):
		m.setView((m.view + 1) % viewCount)
	case key.Matches(msg, m.keys.LastHeard):
		m.setView(ViewLastHeard)
	case key.Matches(msg, m.keys.Clients):
		m.setView(ViewClients)
	case key.Matches(msg, m.keys.Users):
		m.setView(ViewUsers)
	case key.Matches(msg, m.keys.Peers):
		m.setView(ViewPeers)
	case key.Matches(msg, m.keys.Modules):
		m.setView(ViewModules)
	case key.Matches(msg, m.keys.Info):
		m.setView(ViewInfo)

	case key.Matches(msg, m.keys.Module):
		m.module = nextModule(m.mirror.Modules(), m.module)
		m.nodes.Module = m.module

	case key.Matches(msg, m.keys.Debug):
		m.overlay = OverlayDebug

	case key.Matches(msg, m.keys.Select):
		if m.view != ViewLastHeard {
			break
		}
		if h, ok := m.lastHeard.Selected(); ok {
			m.detail = detail.New(h.ID)
			m.detail.Sync(m.hearings.Snapshot(), m.hearings.IsActive)
			m.overlay = OverlayDetail
		}
	}

	return m, nil
}

func (m *Model) setView(v View) {
	m.view = v
	switch v {
	case ViewClients:
		m.nodes.Section = nodes.SectionClients
	case ViewUsers:
		m.nodes.Section = nodes.SectionUsers
	case ViewPeers:
		m.nodes.Section = nodes.SectionPeers
	}
}

func (m *Model) scroll(n int) {
	switch m.view {
	case ViewLastHeard:
		if n > 0 {
			m.lastHeard.ScrollDown(n)
		} else {
			m.lastHeard.ScrollUp(-n)
		}
	case ViewInfo:
		m.info.Scroll(n)
	}
}

func (m Model) page() int {
	if p := m.height - chrome; p > 1 {
		return p
	}
	return 1
}

// nextModule cycles "" → first module → ... → last module → "".
func nextModule(modules []string, current string) string {
	if current == "" {
		if len(modules) == 0 {
			return ""
		}
		return modules[0]
	}
	for i, mod := range modules {
		if mod == current && i+1 < len(modules) {
			return modules[i+1]
		}
	}
	return ""
}

// refresh pushes the live state into the sub-views.
func (m *Model) refresh() {
	snapshot := m.hearings.Snapshot()
	m.lastHeard.SetHearings(snapshot, m.hearings.IsActive)
	m.dashboard.SetHearings(snapshot, m.hearings.IsActive)
	if m.overlay == OverlayDetail {
		m.detail.Sync(snapshot, m.hearings.IsActive)
		if !m.detail.Found() {
			m.overlay = OverlayNone
		}
	}
	clients, users, peers := m.mirror.Clients(), m.mirror.Users(), m.mirror.Peers()
	m.nodes.SetState(clients, users, peers)
	m.modules.SetState(snapshot, m.hearings.IsActive, clients, users)
	m.statusBar.SetCounts(m.hearings.ActiveCount(), len(clients), len(users), len(peers))
}

// --- Commands ---

func (m Model) readNext() tea.Cmd {
	if m.ws == nil {
		return nil
	}
	return m.ws.ReadLoop(m.ctx)
}

func (m Model) fetchHistory() tea.Cmd {
	if m.http == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		records, err := m.http.GetHistory(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return historyMsg{records: records, err: err}
	}
}

func (m Model) fetchInfo() tea.Cmd {
	if m.http == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg {
		info, err := m.http.GetInfo(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return infoMsg{info: info, err: err}
	}
}

func (m Model) sweepTick() tea.Cmd {
	ctx := m.ctx
	return tea.Tick(m.sweepInterval, func(t time.Time) tea.Msg {
		if ctx.Err() != nil {
			return nil
		}
		return sweepMsg(t)
	})
}

// --- Rendering ---

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}

	body := m.renderBody()
	switch m.overlay {
	case OverlayDebug:
		body = m.debug.View(m.width, m.height-chrome+2)
	case OverlayDetail:
		body = lipgloss.Place(m.width, m.height-chrome, lipgloss.Center, lipgloss.Center, m.detail.View())
	}

	sections := []string{
		m.statusBar.View(),
		m.renderTabs(),
		body,
		theme.StyleDimmed.Render("  tab/1-6:view  j/k:scroll  enter:details  m:module  d:event log  q:quit"),
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderBody() string {
	switch m.view {
	case ViewClients, ViewUsers, ViewPeers:
		return m.nodes.View()
	case ViewModules:
		return lipgloss.JoinVertical(lipgloss.Left, m.modules.View(), "", m.dashboard.View())
	case ViewInfo:
		return m.info.View()
	default:
		return m.lastHeard.View()
	}
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, viewCount)
	for v := ViewLastHeard; v < viewCount; v++ {
		style := theme.StyleTab
		if v == m.view {
			style = theme.StyleTabActive
		}
		tabs = append(tabs, style.Render(v.Name()))
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	if m.module != "" {
		line += theme.StyleDimmed.Render("  module " + m.module)
	}
	return line
}
