// Package hook abstracts the OS global input-hook facility.
//
// A Provider installs system-wide pointer and key hooks and delivers raw
// payloads to callbacks running on the OS dispatch thread. Callbacks must
// return quickly and must never block: the provider forwards every event to
// the next hook in the OS chain regardless of what the callback did with it.
//
// Platform support:
//   - Windows: SetWindowsHookEx(WH_MOUSE_LL / WH_KEYBOARD_LL), no cgo.
//   - Others: no global-hook facility is wired; ErrNotSupported.
//
// The Simulated provider drives the same callbacks from tests.
package hook

import "errors"

// Errors returned by providers.
var (
	// ErrNotSupported means this platform has no hook facility wired.
	ErrNotSupported = errors.New("global input hooks not supported on this platform")

	// ErrAlreadyInstalled means a hook of that class is already installed.
	ErrAlreadyInstalled = errors.New("hook already installed")
)

// PointerKind discriminates raw pointer payloads.
type PointerKind int

const (
	PointerMove PointerKind = iota
	PointerLeftDown
	PointerLeftUp
	PointerRightDown
	PointerRightUp
	PointerWheel
)

// KeyAction discriminates raw key payloads. System-key variants (Alt
// combinations on Windows) are normalized into these two actions by the
// provider.
type KeyAction int

const (
	KeyPress KeyAction = iota
	KeyRelease
)

// PointerEvent is the raw pointer payload handed to the callback.
type PointerEvent struct {
	Kind       PointerKind
	X, Y       int
	WheelDelta int
}

// KeyEvent is the raw key payload handed to the callback.
type KeyEvent struct {
	Action KeyAction
	Code   int
}

// PointerFunc and KeyFunc run on the OS dispatch thread.
type (
	PointerFunc func(PointerEvent)
	KeyFunc     func(KeyEvent)
)

// Handle represents one installed hook.
type Handle interface {
	// Uninstall removes the hook; no callbacks are delivered after it
	// returns. Idempotent.
	Uninstall()
}

// Provider is the OS hook facility.
type Provider interface {
	// InstallPointerHook registers the pointer callback system-wide.
	InstallPointerHook(fn PointerFunc) (Handle, error)

	// InstallKeyHook registers the key callback system-wide.
	InstallKeyHook(fn KeyFunc) (Handle, error)

	// Pump processes pending OS messages for the installing thread. It
	// returns false once the OS delivered a quit message. Platforms
	// without a message queue return true immediately. Pump must be
	// called from the same goroutine that installed the hooks.
	Pump() bool
}

// NewProvider returns the hook provider for the current platform.
func NewProvider() Provider {
	return newPlatformProvider()
}
