package schedule

import (
	"sync"
	"time"
)

// Manual is a deterministic Scheduler and clock. Time only moves when Advance
// is called, and due tasks fire synchronously on the caller's goroutine.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	tasks []*manualTask
}

type manualTask struct {
	interval  time.Duration
	next      time.Time
	task      Task
	cancelled bool
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start.UTC()}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Every(interval time.Duration, task Task) Cancel {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTask{interval: interval, next: m.now.Add(interval), task: task}
	m.tasks = append(m.tasks, t)
	return func() {
		m.mu.Lock()
		t.cancelled = true
		m.mu.Unlock()
	}
}

// Advance moves time forward by d. Tasks fire in due-time order; ties fire in
// registration order. A task may register or cancel tasks while firing.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		var due *manualTask
		for _, t := range m.tasks {
			if t.cancelled || t.next.After(target) {
				continue
			}
			if due == nil || t.next.Before(due.next) {
				due = t
			}
		}
		if due == nil {
			m.now = target
			m.prune()
			m.mu.Unlock()
			return
		}
		m.now = due.next
		due.next = due.next.Add(due.interval)
		m.mu.Unlock()

		due.task()
	}
}

// Pending reports how many tasks are still registered.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prune()
	return len(m.tasks)
}

func (m *Manual) prune() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.cancelled {
			live = append(live, t)
		}
	}
	m.tasks = live
}
