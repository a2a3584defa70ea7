//go:build !windows

package capture

import (
	"os"
	"testing"
	"time"
)

func pipeWatcher(t *testing.T) (*quitWatcher, *os.File) {
	t.Helper()
	r, wr, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	t.Cleanup(func() {
		r.Close()
		wr.Close()
	})
	w := newQuitWatcher()
	w.in = r
	return w, wr
}

func TestQuitWatcherFiresOnQ(t *testing.T) {
	w, wr := pipeWatcher(t)
	go w.watch()

	if _, err := wr.Write([]byte("xq")); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-w.Quit():
	case <-time.After(2 * time.Second):
		t.Fatal("quit never fired after q")
	}
}

func TestQuitWatcherStopJoinsReader(t *testing.T) {
	w, _ := pipeWatcher(t)
	go w.watch()

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not unblock the pending read")
	}

	select {
	case <-w.Quit():
		t.Error("quit fired without a quit key")
	default:
	}
}

func TestQuitWatcherStopWithoutStart(t *testing.T) {
	w := newQuitWatcher()
	close(w.done)
	doneCh := make(chan struct{})
	go func() {
		w.Stop()
		close(doneCh)
	}()
	select {
	case <-doneCh:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop blocked with no reader running")
	}
}
