//go:build !windows

package hook

// unsupportedProvider reports ErrNotSupported for both installs. Capture on
// non-Windows hosts runs only against the Simulated provider (tests, event
// replay).
type unsupportedProvider struct{}

func newPlatformProvider() Provider {
	return unsupportedProvider{}
}

func (unsupportedProvider) InstallPointerHook(PointerFunc) (Handle, error) {
	return nil, ErrNotSupported
}

func (unsupportedProvider) InstallKeyHook(KeyFunc) (Handle, error) {
	return nil, ErrNotSupported
}

func (unsupportedProvider) Pump() bool {
	return true
}
