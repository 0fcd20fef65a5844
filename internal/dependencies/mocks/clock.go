package mocks

import (
	"sort"
	"time"

	"github.com/mcoot/snatchgame-go/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing. Timers
// scheduled with AfterFunc fire synchronously from Advance, in deadline
// order, on the caller's goroutine.
type MockClock struct {
	CurrentTime time.Time

	timers []*mockTimer
	nextID int
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	return c.CurrentTime
}

// AfterFunc registers f to fire when the clock advances past d from now
func (c *MockClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	c.nextID++
	t := &mockTimer{
		clock:    c,
		id:       c.nextID,
		deadline: c.CurrentTime.Add(d),
		fn:       f,
	}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every due timer in
// deadline order. Callbacks may schedule further timers; those fire too
// if they come due within the same advance.
func (c *MockClock) Advance(d time.Duration) {
	target := c.CurrentTime.Add(d)
	for {
		t := c.nextDue(target)
		if t == nil {
			break
		}
		if t.deadline.After(c.CurrentTime) {
			c.CurrentTime = t.deadline
		}
		c.remove(t.id)
		t.fn()
	}
	c.CurrentTime = target
}

// Set sets the clock to the given time without firing timers
func (c *MockClock) Set(t time.Time) {
	c.CurrentTime = t
}

// PendingTimers returns the number of unfired, unstopped timers
func (c *MockClock) PendingTimers() int {
	return len(c.timers)
}

func (c *MockClock) nextDue(target time.Time) *mockTimer {
	due := make([]*mockTimer, 0, len(c.timers))
	for _, t := range c.timers {
		if !t.deadline.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].id < due[j].id
		}
		return due[i].deadline.Before(due[j].deadline)
	})
	return due[0]
}

func (c *MockClock) remove(id int) bool {
	for i, t := range c.timers {
		if t.id == id {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}

type mockTimer struct {
	clock    *MockClock
	id       int
	deadline time.Time
	fn       func()
}

func (t *mockTimer) Stop() bool {
	return t.clock.remove(t.id)
}
