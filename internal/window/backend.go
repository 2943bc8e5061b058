package window

import (
	"errors"
	"fmt"
)

// Handle is the opaque native identifier of one on-screen window.
type Handle uintptr

func (h Handle) String() string {
	return fmt.Sprintf("%#x", uintptr(h))
}

var (
	ErrRegisterClass = errors.New("register window class")
	ErrCreateWindow  = errors.New("create window")
	ErrUnsupported   = errors.New("no native windowing backend for this platform")
)

// EventKind identifies the native notifications the dispatch path understands.
type EventKind int

const (
	EventOther EventKind = iota
	// EventDestroy is delivered when the native window is being destroyed.
	EventDestroy
	// EventKeyDown is delivered when a key is pressed while the window has focus.
	EventKeyDown
	// EventCloseRequest is delivered when the user asks the window manager to
	// close the window. Default handling destroys the window.
	EventCloseRequest
)

func (k EventKind) String() string {
	switch k {
	case EventDestroy:
		return "destroy"
	case EventKeyDown:
		return "keydown"
	case EventCloseRequest:
		return "close-request"
	default:
		return "other"
	}
}

// Event is one native notification after translation.
type Event struct {
	Kind EventKind
	Key  Key

	// Code, WParam and LParam carry the untranslated native message so
	// handlers can look past the translated fields.
	Code   uint32
	WParam uintptr
	LParam uintptr
}

// Dispatcher receives every event for every window class a backend registers.
type Dispatcher interface {
	// Dispatch reports whether the event was consumed. Unconsumed events get
	// default platform handling.
	Dispatch(h Handle, ev Event) bool
}

// Backend is the native windowing environment.
//
// All methods are called from the goroutine that owns the System. Backends
// route every event for their registered classes through the bound
// Dispatcher, including events raised synchronously inside CreateWindow or
// Destroy.
type Backend interface {
	Bind(d Dispatcher)

	// ScreenSize returns the primary display resolution.
	ScreenSize() (width, height int)

	RegisterClass(name string) error
	UnregisterClass(name string) error

	// CreateWindow creates a window of a registered class. userData is passed
	// through to the native creation parameters.
	CreateWindow(class, title string, width, height int, userData uintptr) (Handle, error)
	Show(h Handle)
	Destroy(h Handle)
	SetTitle(h Handle, title string)
	ClientSize(h Handle) (width, height int)

	// EnterFullscreen switches the display to width x height at depth bits
	// per pixel and turns h into a borderless topmost window covering it.
	EnterFullscreen(h Handle, width, height, depth int)
	// LeaveFullscreen restores the default display mode and decorations and
	// resizes h to width x height.
	LeaveFullscreen(h Handle, width, height int)

	// Pump drains pending native events through the Dispatcher. It returns
	// false once the platform has asked the application to quit.
	Pump() bool

	// Close releases the connection to the windowing environment.
	Close() error
}
