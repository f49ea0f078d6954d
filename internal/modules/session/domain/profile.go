package domain

import "time"

// Profile sets how fast simulated time runs. Thresholds are expressed in
// simulated minutes, so they follow the profile without further scaling.
type Profile struct {
	Name           string
	TickInterval   time.Duration
	MinutesPerTick float64
	CheckInterval  time.Duration
}

var (
	RealTime    = Profile{Name: "real-time", TickInterval: time.Second, MinutesPerTick: 1.0 / 60, CheckInterval: 5 * time.Second}
	Accelerated = Profile{Name: "accelerated", TickInterval: 100 * time.Millisecond, MinutesPerTick: 1, CheckInterval: 500 * time.Millisecond}
)

func ProfileFor(accelerated bool) Profile {
	if accelerated {
		return Accelerated
	}
	return RealTime
}

// BreakTickInterval paces the mindful-break countdown in real seconds
// regardless of profile.
const BreakTickInterval = time.Second
