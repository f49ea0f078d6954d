package domain

import "math"

const HistoryDays = 7

// Project derives the history entry for a daily record.
func Project(rec DailyRecord, dailyLimit int) HistoryEntry {
	return HistoryEntry{
		Date:              rec.Date,
		ScreenTimeMinutes: rec.ScreenTimeMinutes,
		UnderLimit:        rec.ScreenTimeMinutes < float64(dailyLimit),
	}
}

// Accrue adds minutes of usage to day and re-projects its history entry.
func (s *State) Accrue(day string, minutes float64) {
	s.mutateDay(day, func(rec *DailyRecord) {
		rec.ScreenTimeMinutes += minutes
	})
	s.projectDay(day, true)
}

// SetDailyLimit changes the limit and re-projects day's entry if it exists.
func (s *State) SetDailyLimit(day string, minutes int) {
	s.DailyLimitMinutes = minutes
	s.projectDay(day, false)
}

func (s *State) mutateDay(day string, fn func(*DailyRecord)) {
	if s.Daily == nil {
		s.Daily = map[string]DailyRecord{}
	}
	rec, ok := s.Daily[day]
	if !ok {
		rec = DailyRecord{Date: day}
	}
	fn(&rec)
	s.Daily[day] = rec
}

func (s *State) projectDay(day string, create bool) {
	entry := Project(s.Today(day), s.DailyLimitMinutes)
	for i := range s.History {
		if s.History[i].Date == day {
			s.History[i] = entry
			return
		}
	}
	if !create {
		return
	}
	s.rollover()
	s.History = append(s.History, entry)
	if len(s.History) > HistoryDays {
		s.History = append([]HistoryEntry(nil), s.History[len(s.History)-HistoryDays:]...)
	}
}

// rollover closes the most recent day before a new one is appended: a day
// spent under the limit extends the streak, anything else breaks it.
func (s *State) rollover() {
	if len(s.History) == 0 {
		return
	}
	if s.History[len(s.History)-1].UnderLimit {
		s.Ledger.CurrentStreak++
		return
	}
	s.Ledger.CurrentStreak = 0
}

// WeeklySavings compares the first three days of the trailing week with the
// last three, in whole minutes rounded half up. The middle day is ignored.
func WeeklySavings(history []HistoryEntry) int {
	if len(history) < HistoryDays {
		return 0
	}
	week := history[len(history)-HistoryDays:]
	saved := average(week[0:3]) - average(week[4:7])
	if saved <= 0 {
		return 0
	}
	return int(math.Floor(saved + 0.5))
}

func average(entries []HistoryEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.ScreenTimeMinutes
	}
	return sum / float64(len(entries))
}
