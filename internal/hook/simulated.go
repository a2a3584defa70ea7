package hook

import "sync"

// Simulated is a Provider for tests: injected events invoke the registered
// callbacks synchronously on the caller's goroutine, mirroring how the OS
// invokes hooks on its dispatch thread.
type Simulated struct {
	mu        sync.Mutex
	pointerFn PointerFunc
	keyFn     KeyFunc

	// FailPointer and FailKey make the corresponding install call fail,
	// for exercising partial-install teardown.
	FailPointer bool
	FailKey     bool
}

// NewSimulated returns an empty simulated provider.
func NewSimulated() *Simulated {
	return &Simulated{}
}

type simulatedHandle struct {
	release func()
	once    sync.Once
}

func (h *simulatedHandle) Uninstall() {
	h.once.Do(h.release)
}

// InstallPointerHook registers the pointer callback.
func (s *Simulated) InstallPointerHook(fn PointerFunc) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailPointer {
		return nil, ErrNotSupported
	}
	if s.pointerFn != nil {
		return nil, ErrAlreadyInstalled
	}
	s.pointerFn = fn
	return &simulatedHandle{release: func() {
		s.mu.Lock()
		s.pointerFn = nil
		s.mu.Unlock()
	}}, nil
}

// InstallKeyHook registers the key callback.
func (s *Simulated) InstallKeyHook(fn KeyFunc) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailKey {
		return nil, ErrNotSupported
	}
	if s.keyFn != nil {
		return nil, ErrAlreadyInstalled
	}
	s.keyFn = fn
	return &simulatedHandle{release: func() {
		s.mu.Lock()
		s.keyFn = nil
		s.mu.Unlock()
	}}, nil
}

// Pump is a no-op for the simulated provider.
func (s *Simulated) Pump() bool {
	return true
}

// InjectPointer delivers a raw pointer event to the installed callback, if
// any, and reports whether one was installed.
func (s *Simulated) InjectPointer(ev PointerEvent) bool {
	s.mu.Lock()
	fn := s.pointerFn
	s.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(ev)
	return true
}

// InjectKey delivers a raw key event to the installed callback, if any.
func (s *Simulated) InjectKey(ev KeyEvent) bool {
	s.mu.Lock()
	fn := s.keyFn
	s.mu.Unlock()
	if fn == nil {
		return false
	}
	fn(ev)
	return true
}

// PointerInstalled reports whether a pointer hook is registered.
func (s *Simulated) PointerInstalled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointerFn != nil
}

// KeyInstalled reports whether a key hook is registered.
func (s *Simulated) KeyInstalled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyFn != nil
}
