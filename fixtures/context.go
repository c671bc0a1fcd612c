package fixtures

import (
	"sync"
	"sync/atomic"
)

// Counter is a shared handler context with its own synchronised API.
type Counter struct {
	value atomic.Int64
}

// NewCounter creates a Counter starting at start.
func NewCounter(start int64) *Counter {
	c := &Counter{}
	c.value.Store(start)
	return c
}

// Increment adds one and returns the new value.
func (c *Counter) Increment() int64 { return c.value.Add(1) }

// Value returns the current value.
func (c *Counter) Value() int64 { return c.value.Load() }

// ExclusionProbe records how many callers are inside a critical section at
// once. Handlers call Enter on entry and Exit on return.
type ExclusionProbe struct {
	mu      sync.Mutex
	current int
	max     int
}

// Enter marks one more caller inside.
func (p *ExclusionProbe) Enter() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	if p.current > p.max {
		p.max = p.current
	}
}

// Exit marks one caller leaving.
func (p *ExclusionProbe) Exit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current--
}

// Max returns the highest number of simultaneous callers observed.
func (p *ExclusionProbe) Max() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.max
}
