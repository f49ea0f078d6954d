// Package schedule runs periodic work for the engine.
//
// Cancelling a task stops future firings but cannot interrupt a firing that is
// already executing; owners that need "no effect after stop" must invalidate
// stale callbacks themselves (the session engine does this with an epoch).
package schedule

import (
	"sync"
	"time"
)

// Task is a unit of periodic work.
type Task func()

// Cancel stops a registered task. It is idempotent and never blocks.
type Cancel func()

// Scheduler registers periodic tasks.
type Scheduler interface {
	Every(interval time.Duration, task Task) Cancel
}

// TickerScheduler runs each task on its own time.Ticker goroutine.
type TickerScheduler struct{}

func (TickerScheduler) Every(interval time.Duration, task Task) Cancel {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				task()
			case <-done:
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}
