package dto

import "time"

type SessionOutput struct {
	Active          bool
	Category        string
	Autoplay        bool
	Boredom         int
	DurationMinutes float64
	StartedAt       *time.Time
}

type NudgeOutput struct {
	Active  bool
	Kind    string
	Message string
}

type DayOutput struct {
	Date              string
	ScreenTimeMinutes float64
	NudgesAccepted    int
	NudgesSnoozed     int
	SnoozesUsed       int
}

type DashboardOutput struct {
	Day               string
	Profile           string
	Accelerated       bool
	Categories        []string
	Session           SessionOutput
	Risk              float64
	RiskSamples       []float64
	Today             DayOutput
	DailyLimitMinutes int
	RemainingMinutes  float64
	Nudge             NudgeOutput
	BreakSecondsLeft  int
	Points            int
	Streak            int
	WeeklySavings     int
	SnoozesLeft       int
	Intention         string
}

// ConfigureInput carries a partial update; nil fields are left alone.
type ConfigureInput struct {
	Category  *string
	Autoplay  *bool
	Boredom   *int
	Intention *string
}

type ResolveInput struct {
	Resolution string
}

type ResolveOutput struct {
	Kind             string
	Resolution       string
	Points           int
	SnoozesLeft      int
	BreakSecondsLeft int
}

type HistoryEntryOutput struct {
	Date              string
	ScreenTimeMinutes float64
	UnderLimit        bool
	Today             bool
}

type HistoryOutput struct {
	Entries           []HistoryEntryOutput
	DailyLimitMinutes int
	WeeklySavings     int
	Streak            int
}

type AchievementOutput struct {
	ID          string
	Icon        string
	Name        string
	Description string
	Unlocked    bool
}

type PeerOutput struct {
	Rank         int
	Name         string
	SavedMinutes int
	Streak       int
	IsUser       bool
}

type SimulateInput struct {
	Configure  ConfigureInput
	Resolution string
}

type SimulateOutput struct {
	Nudge          NudgeOutput
	SessionMinutes float64
	TodayMinutes   float64
	Resolve        ResolveOutput
}
