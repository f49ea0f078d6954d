package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeanchor/internal/modules/session/domain"
)

func TestEvaluateAchievements(t *testing.T) {
	t.Parallel()
	s := domain.Default(day0)
	unlocked := s.EvaluateAchievements()
	assert.Equal(t, []domain.AchievementID{domain.AchievementThreeDayStreak}, unlocked)
	assert.Empty(t, s.EvaluateAchievements(), "evaluation is idempotent")

	s.History = historyOf(100, 100, 100, 100, 40, 40, 40)
	assert.Equal(t, []domain.AchievementID{domain.AchievementSaved45}, s.EvaluateAchievements())
}

func TestAchievementsAreMonotonic(t *testing.T) {
	t.Parallel()
	s := domain.Default(day0)
	s.EvaluateAchievements()
	require.True(t, s.Ledger.Has(domain.AchievementThreeDayStreak))

	s.Ledger.CurrentStreak = 0
	s.History = historyOf(0, 0, 0, 0, 0, 0, 0)
	s.EvaluateAchievements()
	s.Accrue("2026-03-09", 500)
	s.Accrue("2026-03-10", 1)
	s.EvaluateAchievements()

	assert.Less(t, s.Ledger.CurrentStreak, domain.StreakGoal)
	assert.True(t, s.Ledger.Has(domain.AchievementThreeDayStreak))
	assert.True(t, s.Ledger.Has(domain.AchievementFirstSave))
}

func TestUnlockIsIdempotent(t *testing.T) {
	t.Parallel()
	var l domain.Ledger
	assert.True(t, l.Unlock(domain.AchievementNoSnooze))
	assert.False(t, l.Unlock(domain.AchievementNoSnooze))
	assert.Len(t, l.Achievements, 1)
	assert.Len(t, domain.Catalog, 4)
}
