package components_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"timeanchor/internal/ui/components"
)

var hints = []string{"start", "stop", "limit <minutes>", "snooze"}

func typeText(p components.Palette, text string) components.Palette {
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return p
}

func TestPaletteFiltersByCommandWord(t *testing.T) {
	t.Parallel()
	p := components.NewPalette(hints)
	p.Open()
	if got := len(p.Matching()); got != len(hints) {
		t.Fatalf("empty input should match every hint, got %d", got)
	}

	p = typeText(p, "st")
	got := p.Matching()
	if len(got) != 2 || got[0] != "start" || got[1] != "stop" {
		t.Fatalf("unexpected matches: %v", got)
	}
}

func TestPaletteTabCompletesAndEnterSubmits(t *testing.T) {
	t.Parallel()
	p := components.NewPalette(hints)
	p.Open()
	p = typeText(p, "li")
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p = typeText(p, "90")

	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() {
		t.Fatalf("palette should close on enter")
	}
	msg, ok := cmd().(components.PaletteSubmitMsg)
	if !ok {
		t.Fatalf("expected submit message")
	}
	if msg.Input != "limit 90" {
		t.Fatalf("unexpected input %q", msg.Input)
	}
}

func TestPaletteEscCancels(t *testing.T) {
	t.Parallel()
	p := components.NewPalette(hints)
	p.Open()
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if p.Visible() {
		t.Fatalf("palette should close on esc")
	}
	if _, ok := cmd().(components.PaletteCancelMsg); !ok {
		t.Fatalf("expected cancel message")
	}
}

func TestClosedPaletteIgnoresInput(t *testing.T) {
	t.Parallel()
	p := components.NewPalette(hints)
	p = typeText(p, "stop")
	if p.Visible() || len(p.Matching()) != len(hints) {
		t.Fatalf("closed palette should not take input")
	}
}
