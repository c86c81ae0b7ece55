// Package testutil provides fakes shared by tests across packages.
package testutil

import (
	"fmt"
	"sync"
	"time"
)

// StubClock returns a fixed time that tests can advance explicitly.
type StubClock struct {
	mu  sync.Mutex
	now time.Time
}

// FixedTime is the default instant StubClock starts at.
var FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

func NewStubClock() *StubClock {
	return &StubClock{now: FixedTime}
}

func NewStubClockAt(t time.Time) *StubClock {
	return &StubClock{now: t}
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// StubIDGenerator hands out "id-1", "id-2", ... in order.
type StubIDGenerator struct {
	mu   sync.Mutex
	next int
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%d", g.next)
}
