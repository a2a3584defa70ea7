//go:build !windows && !linux

package foreground

import "errors"

// fallbackProber serves platforms without a foreground-window facility.
// The process count still works everywhere gopsutil does.
type fallbackProber struct{}

func newPlatformProber() Prober {
	return fallbackProber{}
}

func (fallbackProber) ForegroundApp() (string, error) {
	return "", errors.New("foreground lookup not supported on this platform")
}

func (fallbackProber) ProcessCount() (int, error) {
	return countProcessesExcludingSelf()
}
