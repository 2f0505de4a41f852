package engine

import (
	"sort"
	"time"
)

// Task is a cancellable scheduled callback.
type Task struct {
	when      time.Time
	fn        func()
	cancelled bool
	done      bool
}

// Cancel prevents the task from running. Cancelling a finished task is a
// no-op.
func (t *Task) Cancel() {
	t.cancelled = true
}

// Pending reports whether the task is still waiting to run.
func (t *Task) Pending() bool {
	return !t.cancelled && !t.done
}

// Scheduler runs deferred callbacks cooperatively on a single thread. There
// are no ambient global timers: the host pumps the scheduler by calling
// Advance with the current time, and tests drive it with a fake clock.
type Scheduler struct {
	// Now supplies the current time; defaults to time.Now.
	Now   func() time.Time
	tasks []*Task
}

// NewScheduler creates a scheduler on the real clock.
func NewScheduler() *Scheduler {
	return &Scheduler{Now: time.Now}
}

// After schedules fn to run once the given delay has elapsed, and returns a
// handle that can cancel it.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	t := &Task{when: s.Now().Add(d), fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance runs every task due at or before now, in schedule order.
func (s *Scheduler) Advance(now time.Time) {
	due := make([]*Task, 0, len(s.tasks))
	remaining := s.tasks[:0]
	for _, t := range s.tasks {
		if t.cancelled {
			continue
		}
		if !t.when.After(now) {
			due = append(due, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	s.tasks = remaining

	sort.SliceStable(due, func(i, j int) bool { return due[i].when.Before(due[j].when) })
	for _, t := range due {
		if t.cancelled {
			continue
		}
		t.done = true
		t.fn()
	}
}

// PendingCount returns the number of tasks still scheduled.
func (s *Scheduler) PendingCount() int {
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}
