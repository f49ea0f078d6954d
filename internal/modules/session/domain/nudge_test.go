package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeanchor/internal/modules/session/domain"
	apperrors "timeanchor/internal/platform/errors"
)

const today = "2026-02-25"

func starts(offsets ...time.Duration) []time.Time {
	out := make([]time.Time, len(offsets))
	for i, o := range offsets {
		out[i] = day0.Add(o)
	}
	return out
}

func TestEvaluateTriggerPriority(t *testing.T) {
	t.Parallel()
	impulsive := starts(0, 2*time.Minute, 4*time.Minute)
	now := day0.Add(5 * time.Minute)

	kind, ok := domain.EvaluateTrigger(domain.TriggerInput{Risk: 80, SessionMinutes: 1, TodayMinutes: 500, DailyLimitMinutes: 120, Starts: impulsive, Now: now})
	require.True(t, ok)
	assert.Equal(t, domain.NudgeHighRisk, kind, "high risk wins over every other rule")

	kind, ok = domain.EvaluateTrigger(domain.TriggerInput{Risk: 80, SessionMinutes: 0.1, TodayMinutes: 500, DailyLimitMinutes: 120, Starts: impulsive, Now: now})
	require.True(t, ok)
	assert.Equal(t, domain.NudgeLimitExceeded, kind, "high risk needs a third of a minute")

	kind, ok = domain.EvaluateTrigger(domain.TriggerInput{Risk: 70, SessionMinutes: 5, TodayMinutes: 120, DailyLimitMinutes: 120, Starts: impulsive, Now: now})
	require.True(t, ok)
	assert.Equal(t, domain.NudgeImpulsive, kind, "risk must exceed 70 and usage must exceed the limit")

	_, ok = domain.EvaluateTrigger(domain.TriggerInput{Risk: 50, SessionMinutes: 5, TodayMinutes: 10, DailyLimitMinutes: 120})
	assert.False(t, ok)
}

func TestHighRiskThresholdIsInclusiveOnDuration(t *testing.T) {
	t.Parallel()
	kind, ok := domain.EvaluateTrigger(domain.TriggerInput{Risk: 71, SessionMinutes: domain.HighRiskMinMinutes, DailyLimitMinutes: 120})
	require.True(t, ok)
	assert.Equal(t, domain.NudgeHighRisk, kind)
}

func TestImpulsiveWindow(t *testing.T) {
	t.Parallel()
	at := func(d time.Duration) time.Time { return day0.Add(d) }
	assert.True(t, domain.Impulsive(starts(0, 4*time.Minute, 9*time.Minute), at(9*time.Minute)))
	assert.False(t, domain.Impulsive(starts(0, 7*time.Minute, 15*time.Minute), at(15*time.Minute)))
	assert.False(t, domain.Impulsive(starts(0, time.Minute), at(time.Minute)))
	assert.False(t, domain.Impulsive(starts(0, 5*time.Minute, 10*time.Minute), at(10*time.Minute)), "the window is exclusive")
	assert.True(t, domain.Impulsive(starts(0, 20*time.Minute, 21*time.Minute, 22*time.Minute), at(22*time.Minute)), "only the last three count")
}

func TestImpulsiveExpiresAfterWindow(t *testing.T) {
	t.Parallel()
	burst := starts(0, time.Minute, 2*time.Minute)
	assert.True(t, domain.Impulsive(burst, day0.Add(9*time.Minute+59*time.Second)))
	assert.False(t, domain.Impulsive(burst, day0.Add(10*time.Minute)))
	assert.False(t, domain.Impulsive(burst, day0.Add(time.Hour)))

	_, ok := domain.EvaluateTrigger(domain.TriggerInput{Risk: 50, SessionMinutes: 58, TodayMinutes: 58, DailyLimitMinutes: 120, Starts: burst, Now: day0.Add(time.Hour)})
	assert.False(t, ok, "a stale burst of starts no longer triggers")
}

func TestNudgeRaiseIsExclusive(t *testing.T) {
	t.Parallel()
	var n domain.Nudge
	n, ok := n.Raise(domain.NudgeLimitExceeded)
	require.True(t, ok)
	next, ok := n.Raise(domain.NudgeHighRisk)
	assert.False(t, ok)
	assert.Equal(t, n, next)
	assert.Equal(t, domain.NudgeLimitExceeded, next.Kind)
}

func triggered(kind domain.NudgeKind) domain.State {
	s := domain.Default(day0)
	s.Session.Start(day0)
	s.Session.DurationMinutes = 3
	s.Nudge, _ = s.Nudge.Raise(kind)
	return s
}

func TestAccept(t *testing.T) {
	t.Parallel()
	s := triggered(domain.NudgeHighRisk)

	kind, err := s.Accept(today)
	require.NoError(t, err)
	assert.Equal(t, domain.NudgeHighRisk, kind)
	assert.False(t, s.Nudge.Active)
	assert.False(t, s.Session.Active)
	assert.Zero(t, s.Session.DurationMinutes)
	assert.Equal(t, domain.DefaultPoints+10, s.Ledger.TotalPoints)
	assert.Equal(t, 1, s.Today(today).NudgesAccepted)
	assert.True(t, s.Ledger.Has(domain.AchievementNoSnooze))
}

func TestAcceptAfterSnoozeDoesNotUnlockNoSnooze(t *testing.T) {
	t.Parallel()
	s := triggered(domain.NudgeHighRisk)
	_, err := s.Snooze(today)
	require.NoError(t, err)
	s.Nudge, _ = s.Nudge.Raise(domain.NudgeHighRisk)
	_, err = s.Accept(today)
	require.NoError(t, err)
	assert.False(t, s.Ledger.Has(domain.AchievementNoSnooze))
	assert.Equal(t, domain.DefaultPoints-5+10, s.Ledger.TotalPoints)
}

func TestSnoozeQuota(t *testing.T) {
	t.Parallel()
	s := triggered(domain.NudgeImpulsive)
	for i := 0; i < domain.MaxSnoozesPerDay; i++ {
		_, err := s.Snooze(today)
		require.NoError(t, err)
		assert.True(t, s.Session.Active, "snooze keeps the session running")
		s.Nudge, _ = s.Nudge.Raise(domain.NudgeImpulsive)
	}
	before := s.Clone()

	_, err := s.Snooze(today)
	require.ErrorIs(t, err, apperrors.ErrSnoozeQuotaExhausted)
	assert.Equal(t, before, s, "a rejected snooze changes nothing")
	assert.Equal(t, 2, s.Today(today).NudgesSnoozed)
	assert.Equal(t, 2, s.Today(today).SnoozesUsed)
	assert.Equal(t, domain.DefaultPoints-10, s.Ledger.TotalPoints)
	assert.Equal(t, 0, s.SnoozesLeft(today))
	assert.True(t, s.Nudge.Active, "caller must still accept or break")
}

func TestTakeBreak(t *testing.T) {
	t.Parallel()
	s := triggered(domain.NudgeLimitExceeded)
	kind, err := s.TakeBreak()
	require.NoError(t, err)
	assert.Equal(t, domain.NudgeLimitExceeded, kind)
	assert.False(t, s.Session.Active)
	assert.False(t, s.Nudge.Active)
	assert.Equal(t, domain.DefaultPoints, s.Ledger.TotalPoints)
	assert.Equal(t, domain.DailyRecord{Date: today}, s.Today(today))
}

func TestResolveWithoutNudgeIsRejected(t *testing.T) {
	t.Parallel()
	s := domain.Default(day0)
	before := s.Clone()
	_, err := s.Accept(today)
	assert.ErrorIs(t, err, apperrors.ErrNoActiveNudge)
	_, err = s.Snooze(today)
	assert.ErrorIs(t, err, apperrors.ErrNoActiveNudge)
	_, err = s.TakeBreak()
	assert.ErrorIs(t, err, apperrors.ErrNoActiveNudge)
	assert.Equal(t, before, s)
}

func TestNudgeMessages(t *testing.T) {
	t.Parallel()
	assert.Contains(t, domain.NudgeHighRisk.Message(), "Mindless scrolling")
	assert.Contains(t, domain.NudgeLimitExceeded.Message(), "Daily limit")
	assert.Contains(t, domain.NudgeImpulsive.Message(), "3 times")
	assert.Error(t, domain.Resolution("later").Validate())
}
