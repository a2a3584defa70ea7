//go:build windows

package capture

import (
	"sync"
	"time"

	"golang.org/x/sys/windows"
)

var (
	captureUser32        = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState = captureUser32.NewProc("GetAsyncKeyState")
)

const vkQ = 0x51

// quitWatcher polls the async key state of Q. The high bit of the returned
// state is set while the key is physically down.
type quitWatcher struct {
	quit chan struct{}
	stop chan struct{}
	once sync.Once
}

func newQuitWatcher() *quitWatcher {
	return &quitWatcher{
		quit: make(chan struct{}),
		stop: make(chan struct{}),
	}
}

func (w *quitWatcher) Start() {
	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-w.stop:
				return
			case <-ticker.C:
				state, _, _ := procGetAsyncKeyState.Call(uintptr(vkQ))
				if state&0x8000 != 0 {
					close(w.quit)
					return
				}
			}
		}
	}()
}

func (w *quitWatcher) Stop() {
	w.once.Do(func() { close(w.stop) })
}

func (w *quitWatcher) Quit() <-chan struct{} {
	return w.quit
}
