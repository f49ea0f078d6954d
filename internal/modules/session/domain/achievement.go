package domain

type AchievementID string

const (
	AchievementFirstSave      AchievementID = "first_save"
	AchievementThreeDayStreak AchievementID = "three_day_streak"
	AchievementNoSnooze       AchievementID = "no_snooze"
	AchievementSaved45        AchievementID = "saved_45"
)

const (
	StreakGoal       = 3
	WeeklySavingGoal = 45
)

type Achievement struct {
	ID          AchievementID
	Icon        string
	Name        string
	Description string
}

var Catalog = []Achievement{
	{ID: AchievementFirstSave, Icon: "🌱", Name: "First Save", Description: "Reduced 10 min from yesterday"},
	{ID: AchievementThreeDayStreak, Icon: "🔥", Name: "3-Day Streak", Description: "Under limit for 3 days"},
	{ID: AchievementNoSnooze, Icon: "💪", Name: "No Snooze Day", Description: "Accepted all nudges"},
	{ID: AchievementSaved45, Icon: "⭐", Name: "45 Min Saved", Description: "Saved 45+ minutes in a week"},
}

func (l Ledger) Has(id AchievementID) bool {
	for _, a := range l.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

// Unlock adds id once. The set never shrinks.
func (l *Ledger) Unlock(id AchievementID) bool {
	if l.Has(id) {
		return false
	}
	l.Achievements = append(l.Achievements, id)
	return true
}

// EvaluateAchievements unlocks the streak and savings badges and returns the
// ones that are new.
func (s *State) EvaluateAchievements() []AchievementID {
	var unlocked []AchievementID
	if s.Ledger.CurrentStreak >= StreakGoal && s.Ledger.Unlock(AchievementThreeDayStreak) {
		unlocked = append(unlocked, AchievementThreeDayStreak)
	}
	if WeeklySavings(s.History) >= WeeklySavingGoal && s.Ledger.Unlock(AchievementSaved45) {
		unlocked = append(unlocked, AchievementSaved45)
	}
	return unlocked
}
