//go:build windows

package foreground

import (
	"errors"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/windows"
)

// windowsProber resolves the foreground window's owning process name via
// user32 and the process table.
type windowsProber struct{}

func newPlatformProber() Prober {
	return &windowsProber{}
}

func (windowsProber) ForegroundApp() (string, error) {
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return "", errors.New("no foreground window")
	}
	var pid uint32
	windows.GetWindowThreadProcessId(hwnd, &pid)
	if pid == 0 {
		return "", errors.New("foreground window has no process")
	}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", err
	}
	name, err := proc.Name()
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(name, ".exe"), nil
}

func (windowsProber) ProcessCount() (int, error) {
	return countProcessesExcludingSelf()
}
