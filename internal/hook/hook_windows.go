//go:build windows

package hook

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32                  = windows.NewLazySystemDLL("user32.dll")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procTranslateMessage    = user32.NewProc("TranslateMessage")
	procDispatchMessageW    = user32.NewProc("DispatchMessageW")
)

const (
	whKeyboardLL = 13
	whMouseLL    = 14

	hcAction = 0

	wmMouseMove   = 0x0200
	wmLButtonDown = 0x0201
	wmLButtonUp   = 0x0202
	wmRButtonDown = 0x0204
	wmRButtonUp   = 0x0205
	wmMouseWheel  = 0x020A

	wmKeyDown    = 0x0100
	wmKeyUp      = 0x0101
	wmSysKeyDown = 0x0104
	wmSysKeyUp   = 0x0105

	wmQuit   = 0x0012
	pmRemove = 0x0001
)

// msllHookStruct mirrors MSLLHOOKSTRUCT.
type msllHookStruct struct {
	Pt        windows.Point
	MouseData uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// kbdllHookStruct mirrors KBDLLHOOKSTRUCT.
type kbdllHookStruct struct {
	VkCode    uint32
	ScanCode  uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

// msg mirrors MSG.
type msg struct {
	Hwnd     windows.Handle
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       windows.Point
	Private  uint32
}

// windowsProvider installs WH_MOUSE_LL / WH_KEYBOARD_LL hooks. Low-level
// hooks are dispatched on the thread that installed them, so the installing
// goroutine is locked to its OS thread and must also run Pump.
type windowsProvider struct {
	mu        sync.Mutex
	pointerFn PointerFunc
	keyFn     KeyFunc
	locked    bool
}

func newPlatformProvider() Provider {
	return &windowsProvider{}
}

type windowsHandle struct {
	hhook   uintptr
	release func()
	once    sync.Once
}

func (h *windowsHandle) Uninstall() {
	h.once.Do(func() {
		procUnhookWindowsHookEx.Call(h.hhook)
		h.release()
	})
}

func (p *windowsProvider) lockThread() {
	if !p.locked {
		runtime.LockOSThread()
		p.locked = true
	}
}

func (p *windowsProvider) InstallPointerHook(fn PointerFunc) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pointerFn != nil {
		return nil, ErrAlreadyInstalled
	}
	p.lockThread()
	p.pointerFn = fn

	cb := syscall.NewCallback(func(nCode, wParam, lParam uintptr) uintptr {
		if int32(nCode) == hcAction && lParam != 0 {
			p.dispatchPointer(wParam, lParam)
		}
		next, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
		return next
	})
	hhook, _, callErr := procSetWindowsHookExW.Call(whMouseLL, cb, 0, 0)
	if hhook == 0 {
		p.pointerFn = nil
		return nil, fmt.Errorf("SetWindowsHookEx(WH_MOUSE_LL): %w", callErr)
	}
	return &windowsHandle{hhook: hhook, release: func() {
		p.mu.Lock()
		p.pointerFn = nil
		p.mu.Unlock()
	}}, nil
}

func (p *windowsProvider) InstallKeyHook(fn KeyFunc) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.keyFn != nil {
		return nil, ErrAlreadyInstalled
	}
	p.lockThread()
	p.keyFn = fn

	cb := syscall.NewCallback(func(nCode, wParam, lParam uintptr) uintptr {
		if int32(nCode) == hcAction && lParam != 0 {
			p.dispatchKey(wParam, lParam)
		}
		next, _, _ := procCallNextHookEx.Call(0, nCode, wParam, lParam)
		return next
	})
	hhook, _, callErr := procSetWindowsHookExW.Call(whKeyboardLL, cb, 0, 0)
	if hhook == 0 {
		p.keyFn = nil
		return nil, fmt.Errorf("SetWindowsHookEx(WH_KEYBOARD_LL): %w", callErr)
	}
	return &windowsHandle{hhook: hhook, release: func() {
		p.mu.Lock()
		p.keyFn = nil
		p.mu.Unlock()
	}}, nil
}

func (p *windowsProvider) dispatchPointer(wParam, lParam uintptr) {
	p.mu.Lock()
	fn := p.pointerFn
	p.mu.Unlock()
	if fn == nil {
		return
	}

	ms := (*msllHookStruct)(unsafe.Pointer(lParam))
	ev := PointerEvent{X: int(ms.Pt.X), Y: int(ms.Pt.Y)}
	switch wParam {
	case wmMouseMove:
		ev.Kind = PointerMove
	case wmLButtonDown:
		ev.Kind = PointerLeftDown
	case wmLButtonUp:
		ev.Kind = PointerLeftUp
	case wmRButtonDown:
		ev.Kind = PointerRightDown
	case wmRButtonUp:
		ev.Kind = PointerRightUp
	case wmMouseWheel:
		ev.Kind = PointerWheel
		// GET_WHEEL_DELTA_WPARAM: signed high word of mouseData.
		ev.WheelDelta = int(int16(ms.MouseData >> 16))
	default:
		// Unrecognized pointer message: drop, the chain continues.
		return
	}
	fn(ev)
}

func (p *windowsProvider) dispatchKey(wParam, lParam uintptr) {
	p.mu.Lock()
	fn := p.keyFn
	p.mu.Unlock()
	if fn == nil {
		return
	}

	kb := (*kbdllHookStruct)(unsafe.Pointer(lParam))
	ev := KeyEvent{Code: int(kb.VkCode)}
	switch wParam {
	case wmKeyDown, wmSysKeyDown:
		ev.Action = KeyPress
	case wmKeyUp, wmSysKeyUp:
		ev.Action = KeyRelease
	default:
		return
	}
	fn(ev)
}

// Pump drains pending messages for the installing thread. Low-level hook
// callbacks are dispatched from inside PeekMessage.
func (p *windowsProvider) Pump() bool {
	var m msg
	for {
		ret, _, _ := procPeekMessageW.Call(
			uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
		if ret == 0 {
			return true
		}
		if m.Message == wmQuit {
			return false
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessageW.Call(uintptr(unsafe.Pointer(&m)))
	}
}
