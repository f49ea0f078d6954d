package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "timeanchor/internal/modules/session/dto"
	"timeanchor/internal/ui/theme"
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// Model renders the engine snapshot. It owns no data source; the app pushes
// every new snapshot through SetData.
type Model struct {
	data   sessiondto.DashboardOutput
	risk   progress.Model
	usage  progress.Model
	width  int
	height int
}

func New() Model {
	return Model{
		risk:  progress.New(progress.WithSolidFill(string(theme.Green)), progress.WithoutPercentage()),
		usage: progress.New(progress.WithGradient(string(theme.Sapphire), string(theme.Peach))),
	}
}

func (m *Model) SetData(d sessiondto.DashboardOutput) {
	m.data = d
	m.risk.FullColor = string(theme.RiskColor(d.Risk))
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = size.Width
		m.height = size.Height
		bar := max(10, size.Width/2-8)
		m.risk.Width = bar
		m.usage.Width = bar
	}
	return m, nil
}

func (m Model) View() string {
	d := m.data
	left := strings.Join([]string{
		theme.Title.Render("Current risk"),
		fmt.Sprintf("%s %s", lipgloss.NewStyle().Foreground(theme.RiskColor(d.Risk)).Bold(true).Render(fmt.Sprintf("%3.0f", d.Risk)), theme.Muted.Render(theme.RiskLabel(d.Risk))),
		m.risk.ViewAs(d.Risk / 100),
		theme.Muted.Render("recent ") + Sparkline(d.RiskSamples),
		"",
		theme.Title.Render("Today"),
		fmt.Sprintf("%.0f / %d min   %s", d.Today.ScreenTimeMinutes, d.DailyLimitMinutes, theme.Muted.Render(fmt.Sprintf("%.0f min left", d.RemainingMinutes))),
		m.usage.ViewAs(usageRatio(d)),
	}, "\n")

	right := strings.Join([]string{
		theme.Title.Render("Progress"),
		fmt.Sprintf("Points        %s", theme.Hot.Render(fmt.Sprint(d.Points))),
		fmt.Sprintf("Streak        %d days", d.Streak),
		fmt.Sprintf("Saved / week  %d min", d.WeeklySavings),
		fmt.Sprintf("Snoozes left  %d", d.SnoozesLeft),
		"",
		theme.Title.Render("Nudges today"),
		fmt.Sprintf("Accepted %s   Snoozed %d", theme.Good.Render(fmt.Sprint(d.Today.NudgesAccepted)), d.Today.NudgesSnoozed),
		"",
		sessionLine(d),
	}, "\n")

	half := max(20, m.width/2-2)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		theme.Pane.Width(half).Render(left),
		theme.Pane.Width(half).Render(right),
	)
}

func sessionLine(d sessiondto.DashboardOutput) string {
	if !d.Session.Active {
		return theme.Muted.Render("No session running")
	}
	return theme.Hot.Render(fmt.Sprintf("● %s %.1f min", d.Session.Category, d.Session.DurationMinutes))
}

func usageRatio(d sessiondto.DashboardOutput) float64 {
	if d.DailyLimitMinutes <= 0 {
		return 0
	}
	return min(1, d.Today.ScreenTimeMinutes/float64(d.DailyLimitMinutes))
}

// Sparkline draws risk samples on a 0-100 scale, one rune per sample.
func Sparkline(samples []float64) string {
	if len(samples) == 0 {
		return theme.Muted.Render("–")
	}
	var sb strings.Builder
	for _, s := range samples {
		idx := int(s / 100 * float64(len(sparkRunes)-1))
		idx = max(0, min(idx, len(sparkRunes)-1))
		sb.WriteString(lipgloss.NewStyle().Foreground(theme.RiskColor(s)).Render(string(sparkRunes[idx])))
	}
	return sb.String()
}
