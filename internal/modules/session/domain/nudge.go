package domain

import (
	"fmt"
	"time"

	apperrors "timeanchor/internal/platform/errors"
)

type NudgeKind string

const (
	NudgeHighRisk      NudgeKind = "high_risk"
	NudgeLimitExceeded NudgeKind = "limit_exceeded"
	NudgeImpulsive     NudgeKind = "impulsive"
)

func (k NudgeKind) Validate() error {
	switch k {
	case NudgeHighRisk, NudgeLimitExceeded, NudgeImpulsive:
		return nil
	default:
		return fmt.Errorf("unsupported nudge kind %q", string(k))
	}
}

func (k NudgeKind) Message() string {
	switch k {
	case NudgeHighRisk:
		return "Mindless scrolling detected. Time to pause?"
	case NudgeLimitExceeded:
		return "Daily limit reached. Take a break?"
	case NudgeImpulsive:
		return "You've opened your phone 3 times recently. Everything okay?"
	default:
		return "Time for a mindful pause?"
	}
}

const (
	HighRiskThreshold  = 70.0
	HighRiskMinMinutes = 1.0 / 3
	ImpulsiveStarts    = 3
	ImpulsiveWindow    = 10 * time.Minute
)

// TriggerInput is what the evaluator reads from the engine on each check.
type TriggerInput struct {
	Risk              float64
	SessionMinutes    float64
	TodayMinutes      float64
	DailyLimitMinutes int
	Starts            []time.Time
	Now               time.Time
}

// EvaluateTrigger applies the rules in priority order and reports the first
// that matches.
func EvaluateTrigger(in TriggerInput) (NudgeKind, bool) {
	switch {
	case in.Risk > HighRiskThreshold && in.SessionMinutes >= HighRiskMinMinutes:
		return NudgeHighRisk, true
	case in.TodayMinutes > float64(in.DailyLimitMinutes):
		return NudgeLimitExceeded, true
	case Impulsive(in.Starts, in.Now):
		return NudgeImpulsive, true
	}
	return "", false
}

// Impulsive reports whether the oldest of the last three starts is less than
// the window before now. The condition expires once that start ages out.
func Impulsive(starts []time.Time, now time.Time) bool {
	if len(starts) < ImpulsiveStarts {
		return false
	}
	oldest := starts[len(starts)-ImpulsiveStarts]
	return now.Sub(oldest) < ImpulsiveWindow
}

// Nudge is Idle when Active is false and Triggered otherwise. Raise and
// resolve are the only transitions.
type Nudge struct {
	Active bool      `json:"active"`
	Kind   NudgeKind `json:"kind,omitempty"`
}

// Raise moves Idle to Triggered. A Triggered nudge is returned unchanged.
func (n Nudge) Raise(kind NudgeKind) (Nudge, bool) {
	if n.Active {
		return n, false
	}
	return Nudge{Active: true, Kind: kind}, true
}

func (n Nudge) resolve() (Nudge, NudgeKind, error) {
	if !n.Active {
		return n, "", apperrors.ErrNoActiveNudge
	}
	return Nudge{}, n.Kind, nil
}

type Resolution string

const (
	ResolveAccept Resolution = "accept"
	ResolveSnooze Resolution = "snooze"
	ResolveBreak  Resolution = "break"
)

func (r Resolution) Validate() error {
	switch r {
	case ResolveAccept, ResolveSnooze, ResolveBreak:
		return nil
	default:
		return fmt.Errorf("unsupported resolution %q", string(r))
	}
}

const (
	AcceptReward     = 10
	SnoozePenalty    = 5
	MaxSnoozesPerDay = 2
	BreakSeconds     = 120
)

// SnoozesLeft is how many snoozes day still allows.
func (s State) SnoozesLeft(day string) int {
	left := MaxSnoozesPerDay - s.Today(day).SnoozesUsed
	if left < 0 {
		return 0
	}
	return left
}

// Accept resolves the nudge by ending the session and rewarding the user.
func (s *State) Accept(day string) (NudgeKind, error) {
	next, kind, err := s.Nudge.resolve()
	if err != nil {
		return "", err
	}
	s.Nudge = next
	s.Session.Stop()
	s.mutateDay(day, func(rec *DailyRecord) {
		rec.NudgesAccepted++
	})
	s.Ledger.TotalPoints += AcceptReward
	rec := s.Today(day)
	if rec.NudgesSnoozed == 0 && rec.NudgesAccepted > 0 {
		s.Ledger.Unlock(AchievementNoSnooze)
	}
	return kind, nil
}

// Snooze resolves the nudge without touching the session. It is rejected,
// leaving the state as it was, once the day's quota is spent.
func (s *State) Snooze(day string) (NudgeKind, error) {
	if !s.Nudge.Active {
		return "", apperrors.ErrNoActiveNudge
	}
	if s.SnoozesLeft(day) == 0 {
		return "", apperrors.ErrSnoozeQuotaExhausted
	}
	next, kind, err := s.Nudge.resolve()
	if err != nil {
		return "", err
	}
	s.Nudge = next
	s.mutateDay(day, func(rec *DailyRecord) {
		rec.NudgesSnoozed++
		rec.SnoozesUsed++
	})
	s.Ledger.TotalPoints -= SnoozePenalty
	return kind, nil
}

// TakeBreak resolves the nudge by ending the session. The countdown itself
// belongs to the caller.
func (s *State) TakeBreak() (NudgeKind, error) {
	next, kind, err := s.Nudge.resolve()
	if err != nil {
		return "", err
	}
	s.Nudge = next
	s.Session.Stop()
	return kind, nil
}
