package out_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"timeanchor/internal/modules/session/adapter/out"
	"timeanchor/internal/modules/session/domain"
	"timeanchor/internal/platform/markdown"
)

func TestVaultJournalStoreWritesSessionAndDailyNotes(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	journal := out.NewVaultJournalStore(root)
	ctx := context.Background()

	first := domain.Summary{
		ID:              "sess-1",
		Category:        domain.CategoryVideo,
		Autoplay:        true,
		Boredom:         70,
		StartedAt:       day0,
		EndedAt:         day0.Add(25 * time.Minute),
		DurationMinutes: 25,
		PeakRisk:        83,
		EndedBy:         domain.EndedByAccept,
		Intention:       "one episode",
	}
	path, err := journal.Record(ctx, first, domain.DailyRecord{Date: "2026-02-25", ScreenTimeMinutes: 25, NudgesAccepted: 1})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if want := filepath.Join(root, "2026", "02", "25", "102500-video-sess-1.md"); path != want {
		t.Fatalf("unexpected path %s, want %s", path, want)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read session note: %v", err)
	}
	note, err := markdown.Parse(string(raw))
	if err != nil {
		t.Fatalf("parse session note: %v", err)
	}
	if note.Meta["ended_by"] != "nudge_accepted" || note.Meta["intention"] != "one episode" {
		t.Fatalf("unexpected frontmatter: %#v", note.Meta)
	}
	if !strings.Contains(note.Body, "## Intention") || !strings.Contains(note.Body, "Peak risk: 83") {
		t.Fatalf("intention section missing: %q", note.Body)
	}

	dailyPath := filepath.Join(root, "daily", "2026-02-25.md")
	if err := os.WriteFile(dailyPath, []byte(strings.Replace(readFile(t, dailyPath), "February 2026\n", "February 2026\n\nmy own words\n", 1)), 0o644); err != nil {
		t.Fatalf("edit daily note: %v", err)
	}

	// Same category, same second: a distinct note per session.
	second := first
	second.ID = "7f3c9a12-5b6d-4e2f-9a8b-0c1d2e3f4a5b"
	second.StartedAt = first.EndedAt
	second.EndedBy = domain.EndedByUser
	second.Intention = ""
	secondPath, err := journal.Record(ctx, second, domain.DailyRecord{Date: "2026-02-25", ScreenTimeMinutes: 50, NudgesAccepted: 1})
	if err != nil {
		t.Fatalf("record second: %v", err)
	}
	if want := filepath.Join(root, "2026", "02", "25", "102500-video-7f3c9a12.md"); secondPath != want {
		t.Fatalf("unexpected path %s, want %s", secondPath, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("first note overwritten or removed: %v", err)
	}

	daily := readFile(t, dailyPath)
	if !strings.Contains(daily, "my own words") {
		t.Fatalf("user text lost: %q", daily)
	}
	if strings.Count(daily, "timeanchor:daily-summary:start") != 1 || !strings.Contains(daily, "Screen time: 50.0 min") || strings.Contains(daily, "Screen time: 25.0 min") {
		t.Fatalf("summary block not refreshed: %q", daily)
	}
	if !strings.Contains(daily, "[[102500-video-sess-1]]") || !strings.Contains(daily, "[[102500-video-7f3c9a12]]") {
		t.Fatalf("session links missing: %q", daily)
	}
}

func TestVaultJournalStoreFilesSessionUnderEndDay(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	journal := out.NewVaultJournalStore(root)

	late := time.Date(2026, 2, 25, 23, 50, 0, 0, time.UTC)
	summary := domain.Summary{
		ID:              "sess-9",
		Category:        domain.CategorySocial,
		StartedAt:       late,
		EndedAt:         late.Add(20 * time.Minute),
		DurationMinutes: 20,
		EndedBy:         domain.EndedByUser,
	}
	path, err := journal.Record(context.Background(), summary, domain.DailyRecord{Date: "2026-02-26", ScreenTimeMinutes: 10})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if want := filepath.Join(root, "2026", "02", "26", "001000-social-sess-9.md"); path != want {
		t.Fatalf("unexpected path %s, want %s", path, want)
	}
	if _, err := os.Stat(filepath.Join(root, "daily", "2026-02-25.md")); !os.IsNotExist(err) {
		t.Fatalf("start day note should not be written, stat err %v", err)
	}
	daily := readFile(t, filepath.Join(root, "daily", "2026-02-26.md"))
	if !strings.Contains(daily, "date: \"2026-02-26\"") && !strings.Contains(daily, "date: 2026-02-26") {
		t.Fatalf("daily note keyed on the wrong day: %q", daily)
	}
	if !strings.Contains(daily, "Screen time: 10.0 min") {
		t.Fatalf("end day counters missing: %q", daily)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(raw)
}
