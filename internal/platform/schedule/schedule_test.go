package schedule_test

import (
	"sync/atomic"
	"testing"
	"time"

	"timeanchor/internal/platform/schedule"
)

func TestManualFiresInDueOrder(t *testing.T) {
	t.Parallel()
	m := schedule.NewManual(time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC))
	var order []string
	m.Every(time.Second, func() { order = append(order, "tick") })
	m.Every(2*time.Second, func() { order = append(order, "check") })

	m.Advance(2 * time.Second)

	want := []string{"tick", "tick", "check"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
	if got := m.Now(); !got.Equal(time.Date(2026, 2, 25, 10, 0, 2, 0, time.UTC)) {
		t.Fatalf("unexpected clock after advance: %s", got)
	}
}

func TestManualCancelFromInsideTask(t *testing.T) {
	t.Parallel()
	m := schedule.NewManual(time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC))
	fired := 0
	var cancel schedule.Cancel
	cancel = m.Every(time.Second, func() {
		fired++
		if fired == 3 {
			cancel()
		}
	})
	m.Advance(10 * time.Second)
	if fired != 3 {
		t.Fatalf("expected self-cancel after 3 firings, got %d", fired)
	}
	if m.Pending() != 0 {
		t.Fatalf("expected no pending tasks, got %d", m.Pending())
	}
}

func TestTickerSchedulerStopsAfterCancel(t *testing.T) {
	t.Parallel()
	var fired atomic.Int64
	cancel := schedule.TickerScheduler{}.Every(5*time.Millisecond, func() { fired.Add(1) })
	deadline := time.Now().Add(2 * time.Second)
	for fired.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if fired.Load() == 0 {
		t.Fatalf("ticker task never fired")
	}
	cancel()
	cancel()
	time.Sleep(20 * time.Millisecond)
	after := fired.Load()
	time.Sleep(50 * time.Millisecond)
	if fired.Load() != after {
		t.Fatalf("task kept firing after cancel: %d -> %d", after, fired.Load())
	}
}
