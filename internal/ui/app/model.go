package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "timeanchor/internal/modules/session/dto"
	"timeanchor/internal/ui/components"
	"timeanchor/internal/ui/theme"
	dashboardview "timeanchor/internal/ui/views/dashboard"
	goalsview "timeanchor/internal/ui/views/goals"
	simulatorview "timeanchor/internal/ui/views/simulator"
	socialview "timeanchor/internal/ui/views/social"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type enginePort interface {
	simulatorview.Port
	goalsview.Port
	socialview.Port
	Dashboard(ctx context.Context) (sessiondto.DashboardOutput, error)
	Resolve(ctx context.Context, input sessiondto.ResolveInput) (sessiondto.ResolveOutput, error)
	SetAccelerated(ctx context.Context, enabled bool) (sessiondto.DashboardOutput, error)
	Reset(ctx context.Context) (sessiondto.DashboardOutput, error)
	Changes() <-chan struct{}
}

// ─── tab index ───────────────────────────────────────────────────────────────

type tabID int

const (
	tabDashboard tabID = iota
	tabSimulator
	tabGoals
	tabSocial
	tabCount
)

var tabLabels = [tabCount]string{
	"Dashboard", "Simulator", "Goals", "Social",
}

// hints must stay in sync with the switch in executePalette.
var paletteHints = []string{
	"start",
	"stop",
	"accept",
	"snooze",
	"break",
	"limit <minutes>",
	"category <social|video|news|messaging|work>",
	"boredom <0-100>",
	"autoplay <on|off>",
	"intention <text>",
	"accelerated <on|off>",
	"reset",
}

// ─── async messages ───────────────────────────────────────────────────────────

type dashboardMsg struct {
	out sessiondto.DashboardOutput
	err error
}

// changedMsg arrives whenever the engine state moved.
type changedMsg struct{}

type resolvedMsg struct {
	out sessiondto.ResolveOutput
	err error
}

type actionMsg struct {
	status string
	err    error
}

// ─── key bindings ─────────────────────────────────────────────────────────────

type keyMap struct {
	Tab     key.Binding
	Help    key.Binding
	Palette key.Binding
	Quit    key.Binding
	Speed   key.Binding
	Accept  key.Binding
	Snooze  key.Binding
	Break   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab/1-4", "switch tab")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "palette")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Speed:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "accelerated time")),
		Accept:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accept nudge")),
		Snooze:  key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "snooze nudge")),
		Break:   key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "mindful break")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Help, k.Palette, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.Speed},
		{k.Accept, k.Snooze, k.Break},
		{k.Help, k.Palette, k.Quit},
	}
}

// ─── model ───────────────────────────────────────────────────────────────────

// Model is the root Bubble Tea model. It owns tab routing, the nudge and
// break overlays, and the command palette. Engine state is re-read whenever
// the engine signals a change.
type Model struct {
	engine enginePort

	dashView dashboardview.Model
	simView  simulatorview.Model
	goalView goalsview.Model
	socView  socialview.Model

	data      sessiondto.DashboardOutput
	activeTab tabID
	keys      keyMap
	help      help.Model
	showHelp  bool
	palette   components.Palette
	breakBar  progress.Model
	status    string
	width     int
	height    int
}

// ─── constructor ─────────────────────────────────────────────────────────────

func NewModel(engine enginePort) Model {
	return Model{
		engine:    engine,
		dashView:  dashboardview.New(),
		simView:   simulatorview.New(engine),
		goalView:  goalsview.New(engine),
		socView:   socialview.New(engine),
		activeTab: tabDashboard,
		keys:      defaultKeys(),
		help:      help.New(),
		palette:   components.NewPalette(paletteHints),
		breakBar:  progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Green)), progress.WithoutPercentage()),
		status:    "ready",
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadDashboardCmd(),
		m.goalView.Init(),
		m.socView.Init(),
		m.waitForChangeCmd(),
	)
}

// ─── update ───────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// The palette intercepts all input while open.
	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.palette.SetWidth(min(m.width-4, 80))
		m.help.Width = m.width
		m.breakBar.Width = max(10, min(m.width-20, 50))
		m.propagateSize()
		return m, nil

	case changedMsg:
		return m, tea.Batch(m.loadDashboardCmd(), m.goalView.Refresh(), m.waitForChangeCmd())

	case dashboardMsg:
		if msg.err != nil {
			m.status = "dashboard: " + msg.err.Error()
			return m, nil
		}
		m.data = msg.out
		m.dashView.SetData(msg.out)
		m.simView.SetData(msg.out)
		return m, nil

	case resolvedMsg:
		if msg.err != nil {
			m.status = "nudge: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("nudge %s: %s (points %d)", msg.out.Resolution, msg.out.Kind, msg.out.Points)
		}
		return m, nil

	case actionMsg:
		m.status = statusFor(msg.status, msg.err)
		return m, nil

	case simulatorview.ResultMsg:
		m.status = statusFor(msg.Status, msg.Err)
		return m, nil

	case goalsview.LimitSetMsg:
		m.status = statusFor(fmt.Sprintf("daily limit %d min", msg.Minutes), msg.Err)
		return m, nil

	case goalsview.LoadedMsg:
		m.goalView, _ = m.goalView.Update(msg)
		return m, nil

	case socialview.LoadedMsg:
		m.socView, _ = m.socView.Update(msg)
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		m.status = "ready"
		return m, nil

	case tea.KeyMsg:
		if m.showHelp {
			if msg.String() == "?" || msg.String() == "esc" {
				m.showHelp = false
			}
			return m, nil
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		// Yield to the simulator while its text field is focused.
		if m.activeTab == tabSimulator && m.simView.Editing() {
			break
		}
		if m.data.Nudge.Active {
			switch msg.String() {
			case "a":
				return m, m.resolveCmd("accept")
			case "z":
				return m, m.resolveCmd("snooze")
			case "b":
				return m, m.resolveCmd("break")
			case "q":
				return m, tea.Quit
			}
			return m, nil
		}
		if m.data.BreakSecondsLeft > 0 {
			if msg.String() == "q" {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.activeTab = (m.activeTab + tabCount - 1) % tabCount
			return m, nil
		case "1", "2", "3", "4":
			m.activeTab = tabID(msg.String()[0] - '1')
			return m, nil
		case "?":
			m.showHelp = true
			return m, nil
		case ":":
			return m, m.palette.Open()
		case "p":
			return m, m.setAcceleratedCmd(!m.data.Accelerated)
		}
	}

	// Propagate the message to the active tab's sub-view.
	var tabCmd tea.Cmd
	switch m.activeTab {
	case tabDashboard:
		m.dashView, tabCmd = m.dashView.Update(msg)
	case tabSimulator:
		m.simView, tabCmd = m.simView.Update(msg)
	case tabGoals:
		m.goalView, tabCmd = m.goalView.Update(msg)
	case tabSocial:
		m.socView, tabCmd = m.socView.Update(msg)
	}
	cmds = append(cmds, tabCmd)

	return m, tea.Batch(cmds...)
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	tabBar := m.renderTabBar()
	statusBar := m.renderStatusBar()
	contentH := max(1, m.height-lipgloss.Height(tabBar)-lipgloss.Height(statusBar))

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(contentH).Render(m.help.View(m.keys))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.palette.View())
	case m.data.Nudge.Active:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.renderNudge())
	case m.data.BreakSecondsLeft > 0:
		content = lipgloss.Place(m.width, contentH, lipgloss.Center, lipgloss.Center, m.renderBreak())
	default:
		content = m.activeView()
	}

	return lipgloss.JoinVertical(lipgloss.Left, tabBar, content, statusBar)
}

func (m Model) activeView() string {
	switch m.activeTab {
	case tabDashboard:
		return m.dashView.View()
	case tabSimulator:
		return m.simView.View()
	case tabGoals:
		return m.goalView.View()
	case tabSocial:
		return m.socView.View()
	}
	return ""
}

func (m Model) renderNudge() string {
	d := m.data
	var sb strings.Builder
	sb.WriteString(theme.Hot.Render("⚓ Time to check in") + "\n\n")
	sb.WriteString(d.Nudge.Message + "\n\n")
	sb.WriteString(theme.Muted.Render(fmt.Sprintf("session %.1f min  ·  today %.0f/%d min", d.Session.DurationMinutes, d.Today.ScreenTimeMinutes, d.DailyLimitMinutes)) + "\n\n")
	sb.WriteString(theme.Good.Render("[a] put the phone down (+10)") + "\n")
	sb.WriteString(theme.Title.Render("[b] take a 2 minute break") + "\n")
	if d.SnoozesLeft > 0 {
		sb.WriteString(theme.Muted.Render(fmt.Sprintf("[z] snooze (-5, %d left today)", d.SnoozesLeft)))
	} else {
		sb.WriteString(theme.Muted.Render("no snoozes left today"))
	}
	return theme.Overlay.Render(sb.String())
}

func (m Model) renderBreak() string {
	left := m.data.BreakSecondsLeft
	done := 1 - float64(left)/120
	body := theme.Title.Render("Mindful break") + "\n\n" +
		fmt.Sprintf("Breathe. %d:%02d left", left/60, left%60) + "\n\n" +
		m.breakBar.ViewAs(done)
	return theme.Overlay.Render(body)
}

func (m Model) renderTabBar() string {
	parts := make([]string, tabCount)
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf(" %d %s ", i+1, tabLabels[i])
		if i == m.activeTab {
			parts[i] = theme.Hot.Render(label)
		} else {
			parts[i] = theme.Muted.Render(label)
		}
	}
	sep := theme.Muted.Render(" │ ")
	bar := "⚓ time anchor  " + strings.Join(parts, sep)
	return lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar) + "\n"
}

func (m Model) renderStatusBar() string {
	left := m.status
	if m.data.Session.Active {
		left = theme.Hot.Render(fmt.Sprintf("● %s %.1fm", m.data.Session.Category, m.data.Session.DurationMinutes)) + "  " + left
	}
	if m.data.Accelerated {
		left = theme.Bad.Render("»") + " " + left
	}
	right := theme.Muted.Render(fmt.Sprintf("%d pts  ?:help  :::palette  q:quit", m.data.Points))
	gap := max(1, m.width-lipgloss.Width(left)-lipgloss.Width(right))
	bar := left + strings.Repeat(" ", gap) + right
	return "\n" + lipgloss.NewStyle().Background(theme.Mantle).Width(m.width).Render(bar)
}

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	arg := strings.TrimSpace(strings.TrimPrefix(input, parts[0]))

	switch parts[0] {
	case "start":
		return m, m.actionCmd("session started", func(ctx context.Context) error {
			_, err := m.engine.Start(ctx)
			return err
		})
	case "stop":
		return m, m.actionCmd("session stopped", func(ctx context.Context) error {
			_, err := m.engine.Stop(ctx)
			return err
		})
	case "accept", "snooze", "break":
		return m, m.resolveCmd(parts[0])
	case "limit":
		minutes, err := strconv.Atoi(arg)
		if err != nil {
			m.status = "usage: limit <minutes>"
			return m, nil
		}
		return m, m.actionCmd(fmt.Sprintf("daily limit %d min", minutes), func(ctx context.Context) error {
			_, err := m.engine.SetDailyLimit(ctx, minutes)
			return err
		})
	case "category":
		return m, m.configureCmd("category: "+arg, sessiondto.ConfigureInput{Category: &arg})
	case "boredom":
		level, err := strconv.Atoi(arg)
		if err != nil {
			m.status = "usage: boredom <0-100>"
			return m, nil
		}
		return m, m.configureCmd(fmt.Sprintf("boredom: %d", level), sessiondto.ConfigureInput{Boredom: &level})
	case "autoplay":
		on, ok := parseOnOff(arg)
		if !ok {
			m.status = "usage: autoplay <on|off>"
			return m, nil
		}
		return m, m.configureCmd("autoplay: "+arg, sessiondto.ConfigureInput{Autoplay: &on})
	case "intention":
		return m, m.configureCmd("intention saved", sessiondto.ConfigureInput{Intention: &arg})
	case "accelerated":
		on, ok := parseOnOff(arg)
		if !ok {
			m.status = "usage: accelerated <on|off>"
			return m, nil
		}
		return m, m.setAcceleratedCmd(on)
	case "reset":
		return m, m.actionCmd("reset to defaults", func(ctx context.Context) error {
			_, err := m.engine.Reset(ctx)
			return err
		})
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── helpers ─────────────────────────────────────────────────────────────────

func (m *Model) propagateSize() {
	sz := tea.WindowSizeMsg{Width: m.width, Height: m.height - 3}
	m.dashView, _ = m.dashView.Update(sz)
	m.simView, _ = m.simView.Update(sz)
	m.goalView, _ = m.goalView.Update(sz)
	m.socView, _ = m.socView.Update(sz)
}

func statusFor(ok string, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return ok
}

func parseOnOff(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "on", "true", "yes":
		return true, true
	case "off", "false", "no":
		return false, true
	}
	return false, false
}

// ─── async commands ───────────────────────────────────────────────────────────

func (m Model) waitForChangeCmd() tea.Cmd {
	changes := m.engine.Changes()
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (m Model) loadDashboardCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.engine.Dashboard(context.Background())
		return dashboardMsg{out: out, err: err}
	}
}

func (m Model) resolveCmd(resolution string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.engine.Resolve(context.Background(), sessiondto.ResolveInput{Resolution: resolution})
		return resolvedMsg{out: out, err: err}
	}
}

func (m Model) setAcceleratedCmd(on bool) tea.Cmd {
	return func() tea.Msg {
		out, err := m.engine.SetAccelerated(context.Background(), on)
		return actionMsg{status: "profile: " + out.Profile, err: err}
	}
}

func (m Model) configureCmd(status string, input sessiondto.ConfigureInput) tea.Cmd {
	return m.actionCmd(status, func(ctx context.Context) error {
		_, err := m.engine.Configure(ctx, input)
		return err
	})
}

func (m Model) actionCmd(status string, fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionMsg{status: status, err: fn(context.Background())}
	}
}
