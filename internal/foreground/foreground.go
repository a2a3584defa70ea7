// Package foreground maintains a cached snapshot of foreground-application
// and process-load context.
//
// Foreground lookup and process-table enumeration cost milliseconds, which
// is far too slow for the input-hook callback. A dedicated sampler refreshes
// a single shared snapshot cell on a timer; the hot path only ever reads the
// cell under a briefly held lock. This split is load-bearing, not an
// optimization: probing per event makes the hook unusable under sustained
// input.
package foreground

import (
	"context"
	"errors"
	"sync"
	"time"

	"behaviord/internal/clock"
	"behaviord/internal/event"
	"behaviord/internal/logging"
)

// DefaultInterval is the default sampler period.
const DefaultInterval = 500 * time.Millisecond

// ErrAlreadyRunning is returned when Start is called on a running sampler.
var ErrAlreadyRunning = errors.New("sampler already running")

// Snapshot is one observation of ambient context. Fields are read and
// written whole-struct.
type Snapshot struct {
	// ActiveApp is the foreground application name, or event.UnknownApp.
	ActiveApp string

	// BackgroundApps is the live process count excluding this process.
	BackgroundApps int

	// UpdatedAtMs is when the sampler produced this snapshot.
	UpdatedAtMs int64
}

// Prober answers the two OS questions the sampler asks. Implementations
// live in the platform files; probe failures are returned as errors and
// degrade to sentinel values, never propagating to the hot path.
type Prober interface {
	// ForegroundApp returns the name of the application owning input focus.
	ForegroundApp() (string, error)

	// ProcessCount returns the number of live processes excluding the
	// calling process, identified by pid.
	ProcessCount() (int, error)
}

// NewProber returns the prober for the current platform.
func NewProber() Prober {
	return newPlatformProber()
}

// Cell is the single-slot shared snapshot: one writer (the sampler), many
// readers (the hook callback).
type Cell struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewCell returns a cell primed with sentinel values so events recorded
// before the first sample still carry well-formed context.
func NewCell() *Cell {
	return &Cell{snap: Snapshot{ActiveApp: event.UnknownApp}}
}

// Load returns the current snapshot.
func (c *Cell) Load() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Store overwrites the snapshot.
func (c *Cell) Store(s Snapshot) {
	c.mu.Lock()
	c.snap = s
	c.mu.Unlock()
}

// Sampler periodically refreshes a Cell from a Prober.
type Sampler struct {
	mu       sync.Mutex
	cell     *Cell
	prober   Prober
	clk      clock.Clock
	interval time.Duration
	cancel   context.CancelFunc
	done     chan struct{}
	running  bool
}

// NewSampler builds a sampler over the given cell. A nil clock uses the
// system clock; a non-positive interval uses DefaultInterval.
func NewSampler(cell *Cell, prober Prober, clk clock.Clock, interval time.Duration) *Sampler {
	if clk == nil {
		clk = clock.System{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Sampler{cell: cell, prober: prober, clk: clk, interval: interval}
}

// Start takes one immediate sample, then launches the background loop.
func (s *Sampler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	s.sample()
	go s.loop(ctx)
	return nil
}

// Stop signals the loop to terminate and waits for it to exit. Idempotent.
func (s *Sampler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	cancel, done := s.cancel, s.done
	s.mu.Unlock()

	cancel()
	<-done
}

func (s *Sampler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

// sample probes the OS and overwrites the cell. Probe failures substitute
// sentinels; they are logged at debug level and never surfaced further.
func (s *Sampler) sample() {
	app, err := s.prober.ForegroundApp()
	if err != nil {
		logging.Debug("foreground probe failed", "error", err)
	}
	if err != nil || app == "" {
		app = event.UnknownApp
	}
	count, err := s.prober.ProcessCount()
	if err != nil {
		logging.Debug("process count probe failed", "error", err)
	}
	if err != nil || count < 0 {
		count = 0
	}
	s.cell.Store(Snapshot{
		ActiveApp:      event.SanitizeApp(app),
		BackgroundApps: count,
		UpdatedAtMs:    s.clk.NowMillis(),
	})
}
