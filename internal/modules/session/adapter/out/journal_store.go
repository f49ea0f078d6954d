package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"timeanchor/internal/modules/session/domain"
	sessionout "timeanchor/internal/modules/session/port/out"
	"timeanchor/internal/platform/markdown"
	"timeanchor/internal/platform/slug"
)

const (
	dailyBlock = "daily-summary"
	shortIDLen = 8
)

// VaultJournalStore writes one markdown note per ended session and keeps a
// generated summary block in the matching daily note.
type VaultJournalStore struct {
	root string
}

func NewVaultJournalStore(root string) sessionout.Journal {
	return &VaultJournalStore{root: root}
}

func (s *VaultJournalStore) Record(_ context.Context, summary domain.Summary, day domain.DailyRecord) (string, error) {
	// Filed under the end day, which is the day the record describes.
	date := summary.EndedAt.UTC()
	dir := filepath.Join(s.root, date.Format("2006"), date.Format("01"), date.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	name := noteName(date, summary)
	path := filepath.Join(dir, name+".md")

	note := markdown.Note{
		Meta: map[string]any{
			"schema_version":   domain.SchemaVersion,
			"id":               summary.ID,
			"category":         string(summary.Category),
			"autoplay":         summary.Autoplay,
			"boredom":          summary.Boredom,
			"started_at":       summary.StartedAt.Format(time.RFC3339),
			"ended_at":         summary.EndedAt.Format(time.RFC3339),
			"duration_minutes": round2(summary.DurationMinutes),
			"peak_risk":        round2(summary.PeakRisk),
			"ended_by":         string(summary.EndedBy),
		},
		Body: sessionBody(summary),
	}
	if summary.Intention != "" {
		note.Meta["intention"] = summary.Intention
	}
	rendered, err := note.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	if err := s.updateDaily(date, day, name, summary); err != nil {
		return path, err
	}
	return path, nil
}

func (s *VaultJournalStore) updateDaily(date time.Time, day domain.DailyRecord, sessionNote string, summary domain.Summary) error {
	path := filepath.Join(s.root, "daily", date.Format("2006-01-02")+".md")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create daily dir: %w", err)
	}

	note := markdown.Note{Meta: map[string]any{}, Body: fmt.Sprintf("# %s\n", date.Format("Monday, 2 January 2006"))}
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		note, err = markdown.Parse(string(existing))
		if err != nil {
			return fmt.Errorf("parse daily note: %w", err)
		}
	case !os.IsNotExist(err):
		return fmt.Errorf("read daily note: %w", err)
	}

	note.Meta["date"] = date.Format("2006-01-02")
	note.Meta["screen_time_minutes"] = round2(day.ScreenTimeMinutes)
	note.Meta["nudges_accepted"] = day.NudgesAccepted
	note.Meta["nudges_snoozed"] = day.NudgesSnoozed

	generated := fmt.Sprintf("- Screen time: %.1f min\n- Nudges accepted: %d\n- Nudges snoozed: %d", day.ScreenTimeMinutes, day.NudgesAccepted, day.NudgesSnoozed)
	note.Body = markdown.UpsertBlock(note.Body, dailyBlock, generated)
	note.Body = strings.TrimRight(note.Body, "\n") + fmt.Sprintf("\n- [[%s]] %s, %.1f min, %s\n", sessionNote, summary.Category, summary.DurationMinutes, summary.EndedBy)

	rendered, err := note.Render()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return fmt.Errorf("write daily note: %w", err)
	}
	return nil
}

func sessionBody(summary domain.Summary) string {
	b := strings.Builder{}
	fmt.Fprintf(&b, "# Session %s\n\n", summary.ID)
	fmt.Fprintf(&b, "- Category: %s\n", summary.Category)
	fmt.Fprintf(&b, "- Duration: %.1f minutes\n", summary.DurationMinutes)
	fmt.Fprintf(&b, "- Peak risk: %.0f\n", summary.PeakRisk)
	fmt.Fprintf(&b, "- Ended by: %s\n", summary.EndedBy)
	if summary.Intention != "" {
		fmt.Fprintf(&b, "\n## Intention\n\n%s\n", summary.Intention)
	}
	return b.String()
}

// noteName is unique per session: sessions ending in the same second differ
// by id.
func noteName(ended time.Time, summary domain.Summary) string {
	short := summary.ID
	if len(short) > shortIDLen {
		short = short[:shortIDLen]
	}
	return ended.Format("150405") + "-" + slug.Make(string(summary.Category)+" "+short)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
