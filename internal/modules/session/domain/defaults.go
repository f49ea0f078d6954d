package domain

import (
	"sort"
	"time"

	"timeanchor/internal/platform/clock"
)

const (
	DefaultPoints  = 85
	DefaultStreak  = 3
	DefaultBoredom = 50
)

// syntheticTrend seeds the six days before today on a fresh install. Day 3
// sits over the default limit so the chart shows one miss.
var syntheticTrend = [HistoryDays - 1]float64{104, 96, 110, 131, 101, 94}

var defaultPeers = []Peer{
	{Name: "Sarah Chen", SavedMinutes: 142, Streak: 5},
	{Name: "Mike Torres", SavedMinutes: 98, Streak: 3},
	{Name: "You", SavedMinutes: 67, Streak: 3},
	{Name: "Emma Wilson", SavedMinutes: 54, Streak: 2},
	{Name: "Jordan Lee", SavedMinutes: 45, Streak: 7},
	{Name: "Alex Kumar", SavedMinutes: 38, Streak: 1},
}

// Default is the state materialised when no usable snapshot exists.
func Default(now time.Time) State {
	today := clock.DayKey(now)
	history := make([]HistoryEntry, 0, HistoryDays)
	for i, minutes := range syntheticTrend {
		day := clock.DayKey(now.AddDate(0, 0, i-(HistoryDays-1)))
		history = append(history, Project(DailyRecord{Date: day, ScreenTimeMinutes: minutes}, DefaultDailyLimit))
	}
	history = append(history, Project(DailyRecord{Date: today}, DefaultDailyLimit))

	return State{
		SchemaVersion:     SchemaVersion,
		DailyLimitMinutes: DefaultDailyLimit,
		Daily:             map[string]DailyRecord{today: {Date: today}},
		History:           history,
		Session: Session{
			Category: CategorySocial,
			Boredom:  DefaultBoredom,
		},
		Ledger: Ledger{
			TotalPoints:   DefaultPoints,
			CurrentStreak: DefaultStreak,
			Achievements:  []AchievementID{AchievementFirstSave},
		},
		Peers: append([]Peer(nil), defaultPeers...),
	}
}

// Leaderboard returns the peers ordered by minutes saved, highest first.
func (s State) Leaderboard() []Peer {
	out := append([]Peer(nil), s.Peers...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SavedMinutes > out[j].SavedMinutes
	})
	return out
}

// UserPeerName marks the local user's row in the roster.
const UserPeerName = "You"
