package goals

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "timeanchor/internal/modules/session/dto"
	"timeanchor/internal/ui/theme"
)

const (
	limitStep = 15
	minLimit  = 30
	maxLimit  = 480
	barWidth  = 30
)

type Port interface {
	History(ctx context.Context) (sessiondto.HistoryOutput, error)
	Achievements(ctx context.Context) ([]sessiondto.AchievementOutput, error)
	SetDailyLimit(ctx context.Context, minutes int) (sessiondto.DashboardOutput, error)
}

type LoadedMsg struct {
	History      sessiondto.HistoryOutput
	Achievements []sessiondto.AchievementOutput
	Err          error
}

type LimitSetMsg struct {
	Minutes int
	Err     error
}

// Model shows the weekly trend, the daily limit and achievements.
type Model struct {
	port         Port
	history      sessiondto.HistoryOutput
	achievements []sessiondto.AchievementOutput
	err          error
	width        int
}

func New(port Port) Model {
	return Model{port: port}
}

func (m Model) Init() tea.Cmd {
	return m.Refresh()
}

// Refresh reloads history and achievements.
func (m Model) Refresh() tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		history, err := m.port.History(ctx)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		achievements, err := m.port.Achievements(ctx)
		return LoadedMsg{History: history, Achievements: achievements, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case LoadedMsg:
		m.err = msg.Err
		if msg.Err == nil {
			m.history = msg.History
			m.achievements = msg.Achievements
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "+", "=", "up":
			return m, m.setLimitCmd(min(maxLimit, m.history.DailyLimitMinutes+limitStep))
		case "-", "down":
			return m, m.setLimitCmd(max(minLimit, m.history.DailyLimitMinutes-limitStep))
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Bad.Render("goals: " + m.err.Error())
	}
	var trend strings.Builder
	trend.WriteString(theme.Title.Render("Last 7 days") + "\n\n")
	for _, e := range m.history.Entries {
		trend.WriteString(historyRow(e, m.history.DailyLimitMinutes) + "\n")
	}
	fmt.Fprintf(&trend, "\nLimit %s  %s\n", theme.Hot.Render(fmt.Sprintf("%d min", m.history.DailyLimitMinutes)), theme.Muted.Render("(+/- to adjust)"))
	fmt.Fprintf(&trend, "Streak %d days   Saved this week %d min\n", m.history.Streak, m.history.WeeklySavings)

	var badges strings.Builder
	badges.WriteString(theme.Title.Render("Achievements") + "\n\n")
	for _, a := range m.achievements {
		name := theme.Muted.Render(a.Name)
		icon := "🔒"
		if a.Unlocked {
			name = theme.Good.Render(a.Name)
			icon = a.Icon
		}
		fmt.Fprintf(&badges, "%s %s\n   %s\n", icon, name, theme.Muted.Render(a.Description))
	}

	half := max(30, m.width/2-2)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Pane.Width(half).Render(trend.String()),
		theme.Pane.Width(half).Render(badges.String()),
	)
}

func historyRow(e sessiondto.HistoryEntryOutput, limit int) string {
	scale := float64(max(limit, 1)) * 1.5
	n := int(e.ScreenTimeMinutes / scale * barWidth)
	n = max(0, min(barWidth, n))
	style := theme.Good
	if !e.UnderLimit {
		style = theme.Bad
	}
	label := e.Date[5:]
	if e.Today {
		label = "today"
	}
	return fmt.Sprintf("%-5s %s %s", label, style.Render(strings.Repeat("█", n)), theme.Muted.Render(fmt.Sprintf("%.0f", e.ScreenTimeMinutes)))
}

func (m Model) setLimitCmd(minutes int) tea.Cmd {
	return func() tea.Msg {
		_, err := m.port.SetDailyLimit(context.Background(), minutes)
		return LimitSetMsg{Minutes: minutes, Err: err}
	}
}
