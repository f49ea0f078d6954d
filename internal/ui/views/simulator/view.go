package simulator

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	sessiondto "timeanchor/internal/modules/session/dto"
	"timeanchor/internal/ui/theme"
)

const (
	boredomStep = 10
	boredomMax  = 100
)

type Port interface {
	Start(ctx context.Context) (sessiondto.SessionOutput, error)
	Stop(ctx context.Context) (sessiondto.SessionOutput, error)
	Configure(ctx context.Context, input sessiondto.ConfigureInput) (sessiondto.SessionOutput, error)
}

// ResultMsg reports the outcome of an action started from this view.
type ResultMsg struct {
	Status string
	Err    error
}

// Model drives the simulated phone: category, autoplay, boredom and the
// session itself.
type Model struct {
	port      Port
	data      sessiondto.DashboardOutput
	intention textinput.Model
	editing   bool
	width     int
}

func New(port Port) Model {
	ti := textinput.New()
	ti.Placeholder = "why are you picking up the phone?"
	ti.CharLimit = 120
	return Model{port: port, intention: ti}
}

func (m *Model) SetData(d sessiondto.DashboardOutput) {
	m.data = d
}

// Editing reports whether the intention field has focus, in which case the
// app must route every key here.
func (m Model) Editing() bool { return m.editing }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.intention.Width = max(20, msg.Width-12)
	case tea.KeyMsg:
		if m.editing {
			switch msg.String() {
			case "enter":
				m.editing = false
				m.intention.Blur()
				text := m.intention.Value()
				return m, m.configureCmd(sessiondto.ConfigureInput{Intention: &text}, "intention saved")
			case "esc":
				m.editing = false
				m.intention.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.intention, cmd = m.intention.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "s", " ":
			return m, m.toggleSessionCmd()
		case "c":
			next := nextCategory(m.data.Categories, m.data.Session.Category)
			return m, m.configureCmd(sessiondto.ConfigureInput{Category: &next}, "category: "+next)
		case "a":
			on := !m.data.Session.Autoplay
			return m, m.configureCmd(sessiondto.ConfigureInput{Autoplay: &on}, fmt.Sprintf("autoplay: %t", on))
		case "right", "l":
			b := min(boredomMax, m.data.Session.Boredom+boredomStep)
			return m, m.configureCmd(sessiondto.ConfigureInput{Boredom: &b}, fmt.Sprintf("boredom: %d", b))
		case "left", "h":
			b := max(0, m.data.Session.Boredom-boredomStep)
			return m, m.configureCmd(sessiondto.ConfigureInput{Boredom: &b}, fmt.Sprintf("boredom: %d", b))
		case "i":
			m.editing = true
			m.intention.SetValue(m.data.Intention)
			m.intention.CursorEnd()
			return m, m.intention.Focus()
		}
	}
	return m, nil
}

func (m Model) View() string {
	d := m.data
	var sb strings.Builder
	sb.WriteString(theme.Title.Render("Phone simulator") + "  " + theme.Muted.Render(d.Profile) + "\n\n")

	state := theme.Muted.Render("idle")
	if d.Session.Active {
		state = theme.Hot.Render(fmt.Sprintf("in use  %.1f min", d.Session.DurationMinutes))
	}
	fmt.Fprintf(&sb, "Session   %s\n", state)
	fmt.Fprintf(&sb, "Category  %s\n", categoryRow(d.Categories, d.Session.Category))
	fmt.Fprintf(&sb, "Autoplay  %s\n", onOff(d.Session.Autoplay))
	fmt.Fprintf(&sb, "Boredom   %s %d\n", meter(d.Session.Boredom), d.Session.Boredom)
	if m.editing {
		fmt.Fprintf(&sb, "Intention %s\n", m.intention.View())
	} else if d.Intention != "" {
		fmt.Fprintf(&sb, "Intention %s\n", d.Intention)
	}
	sb.WriteString("\n" + theme.Muted.Render("s start/stop  c category  a autoplay  ←/→ boredom  i intention"))
	return theme.Pane.Width(max(40, m.width-4)).Render(sb.String())
}

func (m Model) toggleSessionCmd() tea.Cmd {
	active := m.data.Session.Active
	return func() tea.Msg {
		if active {
			_, err := m.port.Stop(context.Background())
			return ResultMsg{Status: "session stopped", Err: err}
		}
		_, err := m.port.Start(context.Background())
		return ResultMsg{Status: "session started", Err: err}
	}
}

func (m Model) configureCmd(input sessiondto.ConfigureInput, status string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.port.Configure(context.Background(), input)
		return ResultMsg{Status: status, Err: err}
	}
}

func nextCategory(categories []string, current string) string {
	if len(categories) == 0 {
		return current
	}
	for i, c := range categories {
		if c == current {
			return categories[(i+1)%len(categories)]
		}
	}
	return categories[0]
}

func categoryRow(categories []string, selected string) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		if c == selected {
			parts[i] = theme.Hot.Render("[" + c + "]")
		} else {
			parts[i] = theme.Muted.Render(c)
		}
	}
	return strings.Join(parts, " ")
}

func onOff(on bool) string {
	if on {
		return theme.Bad.Render("on")
	}
	return theme.Good.Render("off")
}

func meter(level int) string {
	filled := level / boredomStep
	return strings.Repeat("■", filled) + theme.Muted.Render(strings.Repeat("□", boredomMax/boredomStep-filled))
}
