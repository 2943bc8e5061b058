package window

import (
	"fmt"
	"log/slog"
)

const (
	classNameBase = "PikoWindow"

	// fullscreenDepth is the colour depth requested when switching the
	// display mode for fullscreen.
	fullscreenDepth = 32
)

// Window owns one native window and the window class it was created from.
type Window struct {
	sys     *System
	handler Handler
	log     *slog.Logger

	id        uintptr
	className string
	handle    Handle

	title     string
	width     int
	height    int
	maxWidth  int
	maxHeight int

	closed     bool
	fullscreen bool
	released   bool
}

type options struct {
	width   int
	height  int
	handler Handler
}

type Option func(*options)

// WithSize sets the windowed-mode size. Non-positive values fall back to half
// the primary display resolution.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = width
		o.height = height
	}
}

// WithHandler installs the hooks that receive this window's events. The
// default is DefaultHandler.
func WithHandler(h Handler) Option {
	return func(o *options) {
		o.handler = h
	}
}

// New registers a window class unique to the new Window, creates the native
// window from it and records the window in sys.
//
// On failure nothing is left registered in sys and the returned error wraps
// ErrRegisterClass or ErrCreateWindow.
func New(sys *System, title string, opts ...Option) (*Window, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	maxWidth, maxHeight := sys.backend.ScreenSize()

	w := &Window{
		sys:       sys,
		handler:   o.handler,
		log:       sys.log,
		id:        sys.newID(),
		title:     title,
		width:     o.width,
		height:    o.height,
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
	}
	if w.handler == nil {
		w.handler = DefaultHandler{}
	}
	if w.width <= 0 {
		w.width = maxWidth / 2
	}
	if w.height <= 0 {
		w.height = maxHeight / 2
	}
	w.className = fmt.Sprintf("%s%p", classNameBase, w)

	w.log.Debug("register window class", "class", w.className)
	if err := sys.backend.RegisterClass(w.className); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRegisterClass, err)
	}

	h, err := sys.backend.CreateWindow(w.className, w.title, w.width, w.height, w.id)
	if err != nil {
		if uerr := sys.backend.UnregisterClass(w.className); uerr != nil {
			w.log.Warn("could not unregister window class", "class", w.className, "error", uerr)
		}
		return nil, fmt.Errorf("%w: %w", ErrCreateWindow, err)
	}
	w.handle = h
	sys.register(w)

	w.log.Info("window created",
		"title", w.title,
		"handle", w.handle,
		"width", w.width,
		"height", w.height,
	)
	return w, nil
}

// Show makes the window visible.
func (w *Window) Show() {
	if w.closed {
		return
	}
	w.sys.backend.Show(w.handle)
}

// Close requests destruction of the native window. Only the first call has
// any effect; the destroy notification it provokes finds the window already
// closed and does not re-enter.
func (w *Window) Close() {
	if w.closed {
		return
	}

	// The display mode is global, so leave it the way we found it.
	if w.fullscreen {
		w.SetFullscreen(false)
	}

	w.log.Info("close window", "handle", w.handle)
	w.closed = true
	w.sys.backend.Destroy(w.handle)
}

func (w *Window) IsClosed() bool {
	return w.closed
}

func (w *Window) Handle() Handle {
	return w.handle
}

func (w *Window) Title() string {
	return w.title
}

// SetTitle updates the cached title and pushes it to the native window.
func (w *Window) SetTitle(title string) {
	w.title = title
	if w.closed {
		return
	}
	w.sys.backend.SetTitle(w.handle, title)
}

func (w *Window) IsFullscreen() bool {
	return w.fullscreen
}

// SetFullscreen switches between windowed and fullscreen mode. Requesting the
// current mode, or any mode on a closed window, does nothing.
func (w *Window) SetFullscreen(enabled bool) {
	if w.fullscreen == enabled || w.closed {
		return
	}

	if enabled {
		w.log.Debug("enter fullscreen", "handle", w.handle, "width", w.maxWidth, "height", w.maxHeight)
		w.sys.backend.EnterFullscreen(w.handle, w.maxWidth, w.maxHeight, fullscreenDepth)
	} else {
		w.log.Debug("leave fullscreen", "handle", w.handle, "width", w.width, "height", w.height)
		w.sys.backend.LeaveFullscreen(w.handle, w.width, w.height)
	}
	w.fullscreen = enabled
}

// Size returns the windowed-mode size requested at construction.
func (w *Window) Size() (width, height int) {
	return w.width, w.height
}

// MaxSize returns the primary display resolution cached at construction.
func (w *Window) MaxSize() (width, height int) {
	return w.maxWidth, w.maxHeight
}

// ClientSize returns the current drawable area of the window.
func (w *Window) ClientSize() (width, height int) {
	if w.closed {
		return 0, 0
	}
	return w.sys.backend.ClientSize(w.handle)
}

func (w *Window) ClassName() string {
	return w.className
}

// Release closes the window if needed, removes it from the registry and
// unregisters its window class. Failures are logged; Release never fails and
// may be called more than once.
func (w *Window) Release() {
	if w.released {
		return
	}
	w.released = true

	w.Close()
	w.sys.unregister(w)

	if err := w.sys.backend.UnregisterClass(w.className); err != nil {
		w.log.Warn("could not unregister window class", "class", w.className, "error", err)
	}
}

func (w *Window) handleEvent(ev Event) bool {
	return w.handler.HandleEvent(w, ev)
}
