// Package clock provides the millisecond wall-clock source used to stamp
// behavioral events, with a fake implementation for deterministic tests.
package clock

import (
	"sync"
	"time"
)

// Clock yields wall-clock milliseconds. Implementations must be safe for
// use from the hook callback thread.
type Clock interface {
	NowMillis() int64
}

// System is the production clock.
type System struct{}

// NowMillis returns the current time in milliseconds since the Unix epoch.
func (System) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Fake is a manually advanced clock for tests.
type Fake struct {
	mu sync.Mutex
	ms int64
}

// NewFake returns a fake clock starting at startMs.
func NewFake(startMs int64) *Fake {
	return &Fake{ms: startMs}
}

// NowMillis returns the fake's current reading.
func (f *Fake) NowMillis() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ms
}

// Advance moves the fake forward by d milliseconds.
func (f *Fake) Advance(d int64) {
	f.mu.Lock()
	f.ms += d
	f.mu.Unlock()
}

// Set moves the fake to an absolute reading.
func (f *Fake) Set(ms int64) {
	f.mu.Lock()
	f.ms = ms
	f.mu.Unlock()
}
