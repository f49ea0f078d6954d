package domain

import (
	"fmt"
	"time"
)

const (
	DefaultDailyLimit = 120
	MinDailyLimit     = 30
	MaxDailyLimit     = 480
)

type DailyRecord struct {
	Date              string  `json:"date"`
	ScreenTimeMinutes float64 `json:"screen_time_minutes"`
	NudgesAccepted    int     `json:"nudges_accepted"`
	NudgesSnoozed     int     `json:"nudges_snoozed"`
	SnoozesUsed       int     `json:"snoozes_used"`
}

type HistoryEntry struct {
	Date              string  `json:"date"`
	ScreenTimeMinutes float64 `json:"screen_time_minutes"`
	UnderLimit        bool    `json:"under_limit"`
}

type Ledger struct {
	TotalPoints   int             `json:"total_points"`
	CurrentStreak int             `json:"current_streak"`
	Achievements  []AchievementID `json:"achievements"`
}

// Peer is a leaderboard row. The roster is fixed and never mutated.
type Peer struct {
	Name         string `json:"name"`
	SavedMinutes int    `json:"saved_minutes"`
	Streak       int    `json:"streak"`
}

// State is everything the engine owns. It is also the snapshot document.
type State struct {
	SchemaVersion     int                    `json:"schema_version"`
	DailyLimitMinutes int                    `json:"daily_limit_minutes"`
	Daily             map[string]DailyRecord `json:"daily"`
	History           []HistoryEntry         `json:"history"`
	Session           Session                `json:"session"`
	StartLog          []time.Time            `json:"start_log"`
	Nudge             Nudge                  `json:"nudge"`
	Ledger            Ledger                 `json:"ledger"`
	Peers             []Peer                 `json:"peers"`
}

func ValidateDailyLimit(minutes int) error {
	if minutes < MinDailyLimit || minutes > MaxDailyLimit {
		return fmt.Errorf("daily limit must be between %d and %d minutes, got %d", MinDailyLimit, MaxDailyLimit, minutes)
	}
	return nil
}

func ValidateBoredom(level int) error {
	if level < MinBoredom || level > MaxBoredom {
		return fmt.Errorf("boredom must be between %d and %d, got %d", MinBoredom, MaxBoredom, level)
	}
	return nil
}

// Validate rejects snapshots the engine cannot safely resume from.
func (s State) Validate() error {
	if s.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported schema version %d", s.SchemaVersion)
	}
	if err := ValidateDailyLimit(s.DailyLimitMinutes); err != nil {
		return err
	}
	if err := s.Session.Category.Validate(); err != nil {
		return err
	}
	if err := ValidateBoredom(s.Session.Boredom); err != nil {
		return err
	}
	if s.Nudge.Active {
		if err := s.Nudge.Kind.Validate(); err != nil {
			return err
		}
	}
	if len(s.History) > HistoryDays {
		return fmt.Errorf("history holds %d days, at most %d allowed", len(s.History), HistoryDays)
	}
	for day, rec := range s.Daily {
		if rec.Date != day {
			return fmt.Errorf("daily record %q filed under %q", rec.Date, day)
		}
		if rec.ScreenTimeMinutes < 0 || rec.NudgesAccepted < 0 || rec.NudgesSnoozed < 0 || rec.SnoozesUsed < 0 {
			return fmt.Errorf("daily record %s has negative counters", rec.Date)
		}
	}
	if s.Ledger.CurrentStreak < 0 {
		return fmt.Errorf("streak must be non-negative")
	}
	return nil
}

// Resume prepares a loaded snapshot for a new process. No ticks ran while the
// process was down, so a session that was open is closed rather than resumed.
func (s *State) Resume() {
	if s.Daily == nil {
		s.Daily = map[string]DailyRecord{}
	}
	s.Session.Stop()
	if len(s.StartLog) > ImpulsiveStarts {
		s.StartLog = append([]time.Time(nil), s.StartLog[len(s.StartLog)-ImpulsiveStarts:]...)
	}
}

// Today returns the day's record, or a zero record when none exists yet.
func (s State) Today(day string) DailyRecord {
	if rec, ok := s.Daily[day]; ok {
		return rec
	}
	return DailyRecord{Date: day}
}

// LogStart appends a session start, keeping only what the impulsive rule reads.
func (s *State) LogStart(at time.Time) {
	s.StartLog = append(s.StartLog, at)
	if len(s.StartLog) > ImpulsiveStarts {
		s.StartLog = s.StartLog[len(s.StartLog)-ImpulsiveStarts:]
	}
}

// Clone returns a deep copy safe to hand to readers.
func (s State) Clone() State {
	out := s
	out.Daily = make(map[string]DailyRecord, len(s.Daily))
	for k, v := range s.Daily {
		out.Daily[k] = v
	}
	out.History = append([]HistoryEntry(nil), s.History...)
	out.StartLog = append([]time.Time(nil), s.StartLog...)
	out.Ledger.Achievements = append([]AchievementID(nil), s.Ledger.Achievements...)
	out.Peers = append([]Peer(nil), s.Peers...)
	if s.Session.StartedAt != nil {
		at := *s.Session.StartedAt
		out.Session.StartedAt = &at
	}
	return out
}
