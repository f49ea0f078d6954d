package social

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	sessiondto "timeanchor/internal/modules/session/dto"
	"timeanchor/internal/ui/theme"
)

type Port interface {
	Leaderboard(ctx context.Context) ([]sessiondto.PeerOutput, error)
}

type LoadedMsg struct {
	Peers []sessiondto.PeerOutput
	Err   error
}

// Model is the friends leaderboard.
type Model struct {
	port  Port
	table table.Model
	err   error
}

func New(port Port) Model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Friend", Width: 16},
			{Title: "Saved", Width: 10},
			{Title: "Streak", Width: 8},
		}),
		table.WithHeight(8),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Surface1).
		BorderBottom(true).
		Foreground(theme.Sapphire).
		Bold(true)
	styles.Selected = styles.Selected.Foreground(theme.Base).Background(theme.Peach)
	t.SetStyles(styles)
	return Model{port: port, table: t}
}

func (m Model) Init() tea.Cmd {
	return func() tea.Msg {
		peers, err := m.port.Leaderboard(context.Background())
		return LoadedMsg{Peers: peers, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		rows := make([]table.Row, len(msg.Peers))
		user := 0
		for i, p := range msg.Peers {
			name := p.Name
			if p.IsUser {
				name += " ★"
				user = i
			}
			rows[i] = table.Row{fmt.Sprint(p.Rank), name, fmt.Sprintf("%d min", p.SavedMinutes), fmt.Sprintf("%dd", p.Streak)}
		}
		m.table.SetRows(rows)
		m.table.SetCursor(user)
		return m, nil
	case tea.KeyMsg:
		m.table.Focus()
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.err != nil {
		return theme.Bad.Render("leaderboard: " + m.err.Error())
	}
	return theme.Pane.Render(theme.Title.Render("Friends this week") + "\n\n" + m.table.View())
}
