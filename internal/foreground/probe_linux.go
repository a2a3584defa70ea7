//go:build linux

package foreground

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/godbus/dbus/v5"
)

// linuxProber asks GNOME Shell over the session bus for the focused
// window's WM_CLASS. Desktops without that interface simply degrade to the
// Unknown sentinel via the returned error.
type linuxProber struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

func newPlatformProber() Prober {
	return &linuxProber{}
}

// focusedWindowExpr evaluates to the WM_CLASS of the focused window, or an
// empty string when nothing has focus.
const focusedWindowExpr = `global.display.focus_window ? global.display.focus_window.get_wm_class() : ""`

func (p *linuxProber) bus() (*dbus.Conn, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		return p.conn, nil
	}
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, err
	}
	p.conn = conn
	return conn, nil
}

func (p *linuxProber) ForegroundApp() (string, error) {
	conn, err := p.bus()
	if err != nil {
		return "", err
	}
	obj := conn.Object("org.gnome.Shell", "/org/gnome/Shell")
	var ok bool
	var raw string
	if err := obj.Call("org.gnome.Shell.Eval", 0, focusedWindowExpr).Store(&ok, &raw); err != nil {
		return "", err
	}
	if !ok {
		return "", errors.New("shell eval rejected")
	}
	// Eval returns its result JSON-encoded.
	var name string
	if err := json.Unmarshal([]byte(raw), &name); err != nil {
		return "", err
	}
	if name == "" {
		return "", errors.New("no focused window")
	}
	return name, nil
}

func (p *linuxProber) ProcessCount() (int, error) {
	return countProcessesExcludingSelf()
}
