package domain

import (
	"fmt"
	"time"
)

const SchemaVersion = 1

type Category string

const (
	CategorySocial    Category = "social"
	CategoryVideo     Category = "video"
	CategoryNews      Category = "news"
	CategoryMessaging Category = "messaging"
	CategoryWork      Category = "work"
)

var Categories = []Category{CategorySocial, CategoryVideo, CategoryNews, CategoryMessaging, CategoryWork}

func (c Category) Validate() error {
	switch c {
	case CategorySocial, CategoryVideo, CategoryNews, CategoryMessaging, CategoryWork:
		return nil
	default:
		return fmt.Errorf("unsupported category %q", string(c))
	}
}

const (
	MinBoredom = 0
	MaxBoredom = 100
)

// Session is the simulated usage span. Category, autoplay and boredom are the
// user's knobs and survive a stop; the rest resets.
type Session struct {
	Active          bool       `json:"active"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	DurationMinutes float64    `json:"duration_minutes"`
	Category        Category   `json:"category"`
	Autoplay        bool       `json:"autoplay"`
	Boredom         int        `json:"boredom"`
}

func (s *Session) Start(now time.Time) {
	s.Active = true
	s.StartedAt = &now
	s.DurationMinutes = 0
}

func (s *Session) Stop() {
	s.Active = false
	s.StartedAt = nil
	s.DurationMinutes = 0
}

// EndReason records how a session ended in the journal.
type EndReason string

const (
	EndedByUser   EndReason = "stopped"
	EndedByAccept EndReason = "nudge_accepted"
	EndedByBreak  EndReason = "mindful_break"
	EndedByReset  EndReason = "reset"
)

// Summary is the journal entry written when a session ends.
type Summary struct {
	ID              string
	Category        Category
	Autoplay        bool
	Boredom         int
	StartedAt       time.Time
	EndedAt         time.Time
	DurationMinutes float64
	PeakRisk        float64
	EndedBy         EndReason
	Intention       string
}
