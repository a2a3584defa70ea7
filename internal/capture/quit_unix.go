//go:build !windows

package capture

import (
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"behaviord/internal/logging"
)

// quitWatcher reads single keystrokes from a raw-mode terminal and fires
// once q (or Ctrl-C, which raw mode swallows) is seen. When stdin is not a
// terminal the watcher stays silent and shutdown relies on signals.
type quitWatcher struct {
	quit    chan struct{}
	done    chan struct{}
	once    sync.Once
	in      *os.File
	restore func()
}

func newQuitWatcher() *quitWatcher {
	return &quitWatcher{
		quit: make(chan struct{}),
		done: make(chan struct{}),
		in:   os.Stdin,
	}
}

func (w *quitWatcher) Start() {
	fd := int(w.in.Fd())
	if !term.IsTerminal(fd) {
		logging.Debug("stdin is not a terminal, press-q-to-quit disabled")
		close(w.done)
		return
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		logging.Debug("raw mode unavailable, press-q-to-quit disabled", "error", err)
		close(w.done)
		return
	}
	w.restore = func() { term.Restore(fd, old) }

	go w.watch()
}

// watch consumes one byte at a time until the quit key or a read error.
func (w *quitWatcher) watch() {
	defer close(w.done)
	buf := make([]byte, 1)
	for {
		n, err := w.in.Read(buf)
		if err != nil {
			return
		}
		if n == 1 && (buf[0] == 'q' || buf[0] == 'Q' || buf[0] == 0x03) {
			w.once.Do(func() { close(w.quit) })
			return
		}
	}
}

// Stop unblocks the pending read with an immediate deadline, joins the
// reader, then restores the terminal. Without the deadline the goroutine
// would sit in Read past the session and swallow the next keystroke.
func (w *quitWatcher) Stop() {
	_ = w.in.SetReadDeadline(time.Now())
	<-w.done
	_ = w.in.SetReadDeadline(time.Time{})
	if w.restore != nil {
		w.restore()
		w.restore = nil
	}
}

func (w *quitWatcher) Quit() <-chan struct{} {
	return w.quit
}
