package engine

import (
	"testing"
	"time"
)

// fakeClock drives a scheduler deterministically.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestScheduler() (*Scheduler, *fakeClock) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	s := NewScheduler()
	s.Now = clock.Now
	return s, clock
}

func TestSchedulerRunsDueTasks(t *testing.T) {
	s, clock := newTestScheduler()
	ran := false
	s.After(100*time.Millisecond, func() { ran = true })

	s.Advance(clock.now.Add(50 * time.Millisecond))
	if ran {
		t.Fatal("task ran early")
	}
	s.Advance(clock.now.Add(100 * time.Millisecond))
	if !ran {
		t.Fatal("due task did not run")
	}
	if s.PendingCount() != 0 {
		t.Errorf("pending = %d after completion", s.PendingCount())
	}
}

func TestSchedulerCancel(t *testing.T) {
	s, clock := newTestScheduler()
	ran := false
	task := s.After(100*time.Millisecond, func() { ran = true })
	task.Cancel()

	s.Advance(clock.now.Add(time.Second))
	if ran {
		t.Fatal("cancelled task ran")
	}
	if task.Pending() {
		t.Error("cancelled task still pending")
	}
}

func TestSchedulerOrder(t *testing.T) {
	s, clock := newTestScheduler()
	var order []int
	s.After(200*time.Millisecond, func() { order = append(order, 2) })
	s.After(100*time.Millisecond, func() { order = append(order, 1) })

	s.Advance(clock.now.Add(time.Second))
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Errorf("tasks ran out of schedule order: %v", order)
	}
}

func TestSchedulerTaskReschedulesItself(t *testing.T) {
	s, clock := newTestScheduler()
	count := 0
	var tick func()
	tick = func() {
		count++
		if count < 3 {
			s.After(10*time.Millisecond, tick)
		}
	}
	s.After(10*time.Millisecond, tick)

	for i := 0; i < 5; i++ {
		clock.now = clock.now.Add(20 * time.Millisecond)
		s.Advance(clock.now)
	}
	if count != 3 {
		t.Errorf("self-rescheduling task ran %d times, want 3", count)
	}
}
