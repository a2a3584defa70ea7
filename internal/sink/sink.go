// Package sink implements the buffered line writer that persists event
// records. All writers share one mutex; flushes happen in-lock so the
// on-disk byte order is exactly the submission order.
package sink

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"behaviord/internal/event"
	"behaviord/internal/logging"
)

// DefaultFlushLines is the buffered-line count that triggers a flush.
const DefaultFlushLines = 100

// maxBufferedMultiple bounds buffer growth while the file is unwritable:
// beyond flushEvery*maxBufferedMultiple lines the oldest are dropped.
const maxBufferedMultiple = 10

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("sink closed")

// Sink is a thread-safe, line-oriented buffered writer over an append-only
// file. The zero value is not usable; call Open.
type Sink struct {
	mu         sync.Mutex
	file       *os.File
	path       string
	pending    []string
	flushEvery int
	closed     bool
	dropped    uint64
	failLogged bool
}

// Open opens (creating if needed) the output file in append mode and writes
// the canonical header when the file is empty. flushEvery <= 0 falls back
// to DefaultFlushLines.
func Open(path string, flushEvery int) (*Sink, error) {
	if flushEvery <= 0 {
		flushEvery = DefaultFlushLines
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat output %s: %w", path, err)
	}
	if info.Size() == 0 {
		if _, err := f.WriteString(event.Header + "\n"); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	return &Sink{
		file:       f,
		path:       path,
		pending:    make([]string, 0, flushEvery),
		flushEvery: flushEvery,
	}, nil
}

// Write buffers one record line. When the buffer reaches the flush
// threshold it is flushed in-lock, so the latency seen by a caller is
// bounded by flushEvery lines. Lines are never reordered.
func (s *Sink) Write(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if len(s.pending) >= s.flushEvery*maxBufferedMultiple {
		// File is stalled and the buffer is saturated. The OS input chain
		// cannot be back-pressured, so shed the oldest line instead of
		// blocking the caller.
		copy(s.pending, s.pending[1:])
		s.pending = s.pending[:len(s.pending)-1]
		s.dropped++
	}
	s.pending = append(s.pending, line)
	if len(s.pending) >= s.flushEvery {
		s.flushLocked()
	}
	return nil
}

// Flush writes all pending lines to the file.
func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.flushLocked()
}

// flushLocked drains the buffer in submission order. On a write error the
// undrained remainder stays buffered for the next attempt.
func (s *Sink) flushLocked() error {
	for i, line := range s.pending {
		if _, err := s.file.WriteString(line + "\n"); err != nil {
			s.pending = s.pending[:copy(s.pending, s.pending[i:])]
			if !s.failLogged {
				logging.Error("output became unwritable, buffering and shedding oldest lines",
					"path", s.path, "error", err)
				s.failLogged = true
			}
			return fmt.Errorf("write %s: %w", s.path, err)
		}
	}
	s.pending = s.pending[:0]
	return nil
}

// Close flushes pending lines and releases the file. Idempotent.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	flushErr := s.flushLocked()
	closeErr := s.file.Close()
	s.closed = true
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Dropped returns how many buffered lines were shed due to a stalled file.
func (s *Sink) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropped
}

// Pending returns the number of buffered, unflushed lines.
func (s *Sink) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Path returns the output file path.
func (s *Sink) Path() string {
	return s.path
}
