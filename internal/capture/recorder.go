// Package capture runs a recording session: it installs the global input
// hooks, enriches each raw event with timing, kinematic, and ambient
// context, and hands the finished records to the ring and the CSV sink.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"behaviord/internal/clock"
	"behaviord/internal/event"
	"behaviord/internal/features"
	"behaviord/internal/foreground"
	"behaviord/internal/hook"
	"behaviord/internal/logging"
	"behaviord/internal/ring"
	"behaviord/internal/sink"
	"behaviord/internal/summary"
)

// DefaultMoveSampleEvery keeps one of every N raw pointer moves.
const DefaultMoveSampleEvery = 3

// State is the recorder lifecycle phase.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateRunning
	StateStopping
)

var (
	// ErrAlreadyRunning is returned when a session is already active, in
	// this recorder or any other. At most one session may hold the global
	// hooks at a time.
	ErrAlreadyRunning = errors.New("capture session already running")
)

// At most one recorder may be recording per process: the hooks are
// process-global resources.
var (
	activeMu sync.Mutex
	active   *Recorder
)

// Options configures a recording session. Zero fields take defaults;
// Provider, Clock, and Prober exist so tests can substitute fakes.
type Options struct {
	// OutputPath is the CSV file, opened in append mode.
	OutputPath string

	// MoveSampleEvery keeps one of every N distinct pointer moves.
	MoveSampleEvery int

	// FlushLines is the sink flush threshold.
	FlushLines int

	// SamplerInterval is the context-probe period.
	SamplerInterval time.Duration

	// RingCapacity bounds the in-memory tail.
	RingCapacity int

	Provider hook.Provider
	Clock    clock.Clock
	Prober   foreground.Prober
}

// Recorder owns one capture session end to end.
type Recorder struct {
	mu    sync.Mutex
	state State
	opts  Options

	provider hook.Provider
	clk      clock.Clock
	prober   foreground.Prober

	out     *sink.Sink
	buf     *ring.Buffer
	cell    *foreground.Cell
	sampler *foreground.Sampler

	pointerHook hook.Handle
	keyHook     hook.Handle

	startedMs int64
	endedMs   int64

	// Session state below is written only from the hook dispatch thread
	// while running, and read only after Stop uninstalls the hooks.
	emitted      bool
	lastEventMs  int64
	haveMove     bool
	lastMoveMs   int64
	lastMoveX    int
	lastMoveY    int
	movesSeen    int
	totalEmitted int64
}

// New builds a recorder from opts, filling in platform defaults.
func New(opts Options) *Recorder {
	if opts.MoveSampleEvery < 1 {
		opts.MoveSampleEvery = DefaultMoveSampleEvery
	}
	r := &Recorder{
		opts:     opts,
		provider: opts.Provider,
		clk:      opts.Clock,
		prober:   opts.Prober,
	}
	if r.provider == nil {
		r.provider = hook.NewProvider()
	}
	if r.clk == nil {
		r.clk = clock.System{}
	}
	if r.prober == nil {
		r.prober = foreground.NewProber()
	}
	return r
}

// State returns the current lifecycle phase.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start opens the output, starts the context sampler, and installs both
// hooks. On any failure everything already acquired is torn down and the
// recorder returns to idle, so a failed Start never leaves a partial hook
// installed.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateIdle {
		return ErrAlreadyRunning
	}

	activeMu.Lock()
	if active != nil {
		activeMu.Unlock()
		return ErrAlreadyRunning
	}
	active = r
	activeMu.Unlock()

	r.state = StateStarting

	// All capture state is per-session; a recorder may be restarted after
	// Stop and must not carry timing, dedup, or counter state across.
	r.emitted = false
	r.lastEventMs = 0
	r.haveMove = false
	r.lastMoveMs = 0
	r.lastMoveX, r.lastMoveY = 0, 0
	r.movesSeen = 0
	r.totalEmitted = 0
	r.endedMs = 0

	fail := func(err error) error {
		r.state = StateIdle
		activeMu.Lock()
		active = nil
		activeMu.Unlock()
		return err
	}

	out, err := sink.Open(r.opts.OutputPath, r.opts.FlushLines)
	if err != nil {
		return fail(err)
	}

	r.buf = ring.New(r.opts.RingCapacity)
	r.cell = foreground.NewCell()
	r.sampler = foreground.NewSampler(r.cell, r.prober, r.clk, r.opts.SamplerInterval)
	if err := r.sampler.Start(ctx); err != nil {
		out.Close()
		return fail(fmt.Errorf("start context sampler: %w", err))
	}

	ph, err := r.provider.InstallPointerHook(r.onPointer)
	if err != nil {
		r.sampler.Stop()
		out.Close()
		return fail(fmt.Errorf("install pointer hook: %w", err))
	}
	kh, err := r.provider.InstallKeyHook(r.onKey)
	if err != nil {
		ph.Uninstall()
		r.sampler.Stop()
		out.Close()
		return fail(fmt.Errorf("install key hook: %w", err))
	}

	r.out = out
	r.pointerHook = ph
	r.keyHook = kh
	r.startedMs = r.clk.NowMillis()
	r.state = StateRunning
	logging.Info("capture session started",
		"output", out.Path(),
		"move_sample_every", r.opts.MoveSampleEvery)
	return nil
}

// Stop tears the session down: hooks first so no callback runs against a
// closing sink, then the sampler, then a final flush and close. Calling
// Stop on a recorder that is not running is a no-op.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if r.state != StateRunning {
		r.mu.Unlock()
		return nil
	}
	r.state = StateStopping
	r.mu.Unlock()

	r.pointerHook.Uninstall()
	r.keyHook.Uninstall()
	r.sampler.Stop()
	r.endedMs = r.clk.NowMillis()
	err := r.out.Close()

	activeMu.Lock()
	active = nil
	activeMu.Unlock()

	r.mu.Lock()
	r.state = StateIdle
	r.mu.Unlock()

	logging.Info("capture session stopped",
		"events", r.totalEmitted,
		"dropped_lines", r.out.Dropped(),
		"ring_trims", r.buf.Trims())
	return err
}

// RunUntilQuit pumps OS hook messages until q is pressed, the context is
// cancelled, or the OS posts a quit message. It must run on the goroutine
// that called Start; on Windows the hooks are bound to that thread.
func (r *Recorder) RunUntilQuit(ctx context.Context) {
	w := newQuitWatcher()
	w.Start()
	defer w.Stop()

	for {
		if !r.provider.Pump() {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-w.Quit():
			return
		case <-time.After(10 * time.Millisecond):
		}
	}
}

// Summary aggregates the session. Valid only after Stop has returned.
func (r *Recorder) Summary() summary.Summary {
	s := summary.Compute(r.buf.Snapshot())
	s.TotalEvents = r.totalEmitted
	s.StartedAtMs = r.startedMs
	s.EndedAtMs = r.endedMs
	s.DroppedLines = int64(r.out.Dropped())
	s.RingTrims = int64(r.buf.Trims())
	return s
}

// onPointer runs on the hook dispatch thread for every raw pointer event.
func (r *Recorder) onPointer(ev hook.PointerEvent) {
	now := r.clk.NowMillis()
	rec := event.Record{TimestampMs: now, X: ev.X, Y: ev.Y}

	switch ev.Kind {
	case hook.PointerMove:
		r.movesSeen++
		if (r.movesSeen-1)%r.opts.MoveSampleEvery != 0 {
			return
		}
		// The OS re-reports identical coordinates after focus changes;
		// such moves carry no kinematic signal and are dropped.
		if r.haveMove && ev.X == r.lastMoveX && ev.Y == r.lastMoveY {
			return
		}
		rec.Kind = event.PointerMove
		if r.haveMove {
			dt := features.DeltaTime(now, r.lastMoveMs)
			d := features.Displacement(r.lastMoveX, r.lastMoveY, ev.X, ev.Y)
			rec.SpeedPxPerSec = features.Speed(d, dt)
		}
		r.lastMoveX, r.lastMoveY, r.lastMoveMs, r.haveMove = ev.X, ev.Y, now, true
	case hook.PointerLeftDown:
		rec.Kind = event.PointerLeftDown
	case hook.PointerLeftUp:
		rec.Kind = event.PointerLeftUp
	case hook.PointerRightDown:
		rec.Kind = event.PointerRightDown
	case hook.PointerRightUp:
		rec.Kind = event.PointerRightUp
	case hook.PointerWheel:
		rec.Kind = event.PointerWheel
		rec.WheelDelta = ev.WheelDelta
	default:
		return
	}

	r.emit(&rec, now)
}

// onKey runs on the hook dispatch thread for every raw key event.
func (r *Recorder) onKey(ev hook.KeyEvent) {
	now := r.clk.NowMillis()
	rec := event.Record{TimestampMs: now, KeyCode: ev.Code}
	if ev.Action == hook.KeyPress {
		rec.Kind = event.KeyDown
	} else {
		rec.Kind = event.KeyUp
	}
	r.emit(&rec, now)
}

// emit finishes the record and hands it to the ring and the sink. Only
// records that reach emit advance the inter-event timer, so suppressed
// moves never shrink the gap seen by the next record.
func (r *Recorder) emit(rec *event.Record, now int64) {
	if r.emitted {
		rec.TimeSinceLastMs = features.DeltaTime(now, r.lastEventMs)
	}
	snap := r.cell.Load()
	rec.ActiveApp = snap.ActiveApp
	rec.BackgroundApps = snap.BackgroundApps

	r.lastEventMs = now
	r.emitted = true
	r.totalEmitted++
	r.buf.Append(*rec)
	// The sink sheds internally when the file stalls; a write error here
	// must never stall the dispatch thread.
	_ = r.out.Write(rec.CSV())
}
