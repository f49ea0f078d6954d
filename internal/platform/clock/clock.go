package clock

import "time"

// Clock abstracts time to keep the engine deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// DayKey is the calendar day a timestamp belongs to, in UTC.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
