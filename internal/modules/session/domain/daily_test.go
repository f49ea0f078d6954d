package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeanchor/internal/modules/session/domain"
)

var day0 = time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)

func historyOf(minutes ...float64) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, len(minutes))
	for i, m := range minutes {
		out[i] = domain.HistoryEntry{Date: day0.AddDate(0, 0, i).Format("2006-01-02"), ScreenTimeMinutes: m}
	}
	return out
}

func todayEntry(t *testing.T, s domain.State, day string) domain.HistoryEntry {
	t.Helper()
	for _, e := range s.History {
		if e.Date == day {
			return e
		}
	}
	t.Fatalf("no history entry for %s", day)
	return domain.HistoryEntry{}
}

func TestAccrueSumsAndMirrorsHistory(t *testing.T) {
	t.Parallel()
	s := domain.Default(day0)
	s.DailyLimitMinutes = 30
	day := "2026-02-25"

	for i := 1; i <= 45; i++ {
		s.Accrue(day, 1)
		rec := s.Today(day)
		require.InDelta(t, float64(i), rec.ScreenTimeMinutes, 1e-9)
		entry := todayEntry(t, s, day)
		require.Equal(t, rec.ScreenTimeMinutes, entry.ScreenTimeMinutes)
		require.Equal(t, rec.ScreenTimeMinutes < 30, entry.UnderLimit, "tick %d", i)
	}
	assert.Len(t, s.History, domain.HistoryDays)
}

func TestAccrueFractionalIncrements(t *testing.T) {
	t.Parallel()
	s := domain.Default(day0)
	for i := 0; i < 120; i++ {
		s.Accrue("2026-02-25", 1.0/60)
	}
	assert.InDelta(t, 2.0, s.Today("2026-02-25").ScreenTimeMinutes, 1e-9)
}

func TestAccrueOnNewDayRollsHistoryAndStreak(t *testing.T) {
	t.Parallel()
	s := domain.Default(day0)
	require.Equal(t, domain.DefaultStreak, s.Ledger.CurrentStreak)

	s.Accrue("2026-02-26", 1)
	require.Len(t, s.History, domain.HistoryDays)
	assert.Equal(t, "2026-02-26", s.History[len(s.History)-1].Date)
	assert.Equal(t, domain.DefaultStreak+1, s.Ledger.CurrentStreak, "yesterday was under the limit")
	assert.Equal(t, 1.0, s.Today("2026-02-26").ScreenTimeMinutes)

	s.Accrue("2026-02-26", 200)
	s.Accrue("2026-02-27", 1)
	assert.Equal(t, 0, s.Ledger.CurrentStreak, "an over-limit day breaks the streak")
}

func TestSetDailyLimitReprojectsToday(t *testing.T) {
	t.Parallel()
	s := domain.Default(day0)
	s.Accrue("2026-02-25", 100)
	require.True(t, todayEntry(t, s, "2026-02-25").UnderLimit)

	s.SetDailyLimit("2026-02-25", 60)
	assert.False(t, todayEntry(t, s, "2026-02-25").UnderLimit)
	assert.Equal(t, 60, s.DailyLimitMinutes)
}

func TestWeeklySavings(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 60, domain.WeeklySavings(historyOf(100, 100, 100, 100, 40, 40, 40)))
	assert.Equal(t, 0, domain.WeeklySavings(historyOf(40, 40, 40, 100, 100, 100, 100)))
	assert.Equal(t, 0, domain.WeeklySavings(historyOf(100, 100, 100)))
	// Only the trailing week counts.
	assert.Equal(t, 60, domain.WeeklySavings(historyOf(0, 0, 100, 100, 100, 100, 40, 40, 40)))
	// 45.5 rounds up.
	assert.Equal(t, 46, domain.WeeklySavings(historyOf(100, 100, 100, 0, 54.5, 54.5, 54.5)))
}

func TestDefaultState(t *testing.T) {
	t.Parallel()
	s := domain.Default(day0)
	require.NoError(t, s.Validate())
	assert.Equal(t, 120, s.DailyLimitMinutes)
	assert.Equal(t, 85, s.Ledger.TotalPoints)
	assert.Equal(t, 3, s.Ledger.CurrentStreak)
	assert.Equal(t, []domain.AchievementID{domain.AchievementFirstSave}, s.Ledger.Achievements)
	require.Len(t, s.History, 7)
	assert.Equal(t, "2026-02-19", s.History[0].Date)
	assert.Equal(t, "2026-02-25", s.History[6].Date)
	assert.Equal(t, 0.0, s.History[6].ScreenTimeMinutes)
	for i, e := range s.History {
		assert.Equal(t, i != 3, e.UnderLimit, "entry %d", i)
	}
	assert.Equal(t, domain.DailyRecord{Date: "2026-02-25"}, s.Today("2026-02-25"))
	assert.Less(t, domain.WeeklySavings(s.History), domain.WeeklySavingGoal)
	assert.Equal(t, domain.Default(day0), s, "defaults are deterministic")
}

func TestValidateRejectsBrokenSnapshots(t *testing.T) {
	t.Parallel()
	s := domain.Default(day0)
	s.DailyLimitMinutes = 10
	assert.Error(t, s.Validate())

	s = domain.Default(day0)
	s.SchemaVersion = 99
	assert.Error(t, s.Validate())

	s = domain.Default(day0)
	s.Nudge = domain.Nudge{Active: true, Kind: "bogus"}
	assert.Error(t, s.Validate())

	s = domain.Default(day0)
	s.Daily["2026-02-24"] = domain.DailyRecord{Date: "2026-02-25", ScreenTimeMinutes: 30}
	assert.Error(t, s.Validate(), "record filed under another day")

	s = domain.Default(day0)
	s.History = append(s.History, domain.HistoryEntry{Date: "2026-02-26"})
	assert.Error(t, s.Validate(), "more than a week of history")
}

func TestResumeClosesOpenSession(t *testing.T) {
	t.Parallel()
	s := domain.Default(day0)
	s.Session.Start(day0)
	s.Session.DurationMinutes = 12
	for i := 0; i < 5; i++ {
		s.StartLog = append(s.StartLog, day0.Add(time.Duration(i)*time.Minute))
	}
	s.Daily = nil

	s.Resume()
	assert.False(t, s.Session.Active)
	assert.Zero(t, s.Session.DurationMinutes)
	assert.Len(t, s.StartLog, domain.ImpulsiveStarts)
	assert.NotNil(t, s.Daily)
}

func TestLeaderboardSortedBySaved(t *testing.T) {
	t.Parallel()
	board := domain.Default(day0).Leaderboard()
	require.NotEmpty(t, board)
	for i := 1; i < len(board); i++ {
		assert.GreaterOrEqual(t, board[i-1].SavedMinutes, board[i].SavedMinutes)
	}
	assert.Equal(t, "Sarah Chen", board[0].Name)
}
