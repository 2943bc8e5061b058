package window

import (
	"log/slog"
	"runtime"
)

// System owns the connection to the native windowing environment and the
// registry mapping native handles back to the Window that owns them.
//
// A System is not safe for concurrent use. Window construction, event pumping
// and every Window method must run on the goroutine that created the System;
// NewPlatformSystem locks that goroutine to its OS thread because native
// windows are bound to the thread that created them.
type System struct {
	backend Backend
	log     *slog.Logger

	windows map[Handle]*Window
	nextID  uintptr

	lockedThread bool
	closed       bool
}

type SystemOption func(*System)

// WithLogger sets the logger used by the System and every Window created on it.
func WithLogger(log *slog.Logger) SystemOption {
	return func(s *System) {
		if log != nil {
			s.log = log
		}
	}
}

// NewSystem binds a System to backend. The backend's events are routed
// through s.Dispatch from then on.
func NewSystem(backend Backend, opts ...SystemOption) *System {
	s := &System{
		backend: backend,
		log:     slog.Default(),
		windows: make(map[Handle]*Window),
	}
	for _, opt := range opts {
		opt(s)
	}
	if lb, ok := backend.(interface{ SetLogger(*slog.Logger) }); ok {
		lb.SetLogger(s.log)
	}
	backend.Bind(s)
	return s
}

// NewPlatformSystem opens the native backend for the running OS and locks the
// calling goroutine to its thread until Close.
func NewPlatformSystem(opts ...SystemOption) (*System, error) {
	runtime.LockOSThread()

	backend, err := newNativeBackend()
	if err != nil {
		runtime.UnlockOSThread()
		return nil, err
	}

	s := NewSystem(backend, opts...)
	s.lockedThread = true
	return s, nil
}

func (s *System) Backend() Backend {
	return s.backend
}

// Dispatch routes ev to the Window owning h. It reports false, leaving the
// event to default platform handling, when no Window owns h or the owner did
// not consume it.
func (s *System) Dispatch(h Handle, ev Event) bool {
	w, ok := s.windows[h]
	if !ok {
		return false
	}
	return w.handleEvent(ev)
}

// Lookup returns the live Window owning h.
func (s *System) Lookup(h Handle) (*Window, bool) {
	w, ok := s.windows[h]
	return w, ok
}

// Len returns the number of registered windows.
func (s *System) Len() int {
	return len(s.windows)
}

// Poll drains pending native events and reports whether any registered window
// is still open.
func (s *System) Poll() bool {
	if s.closed {
		return false
	}
	if !s.backend.Pump() {
		return false
	}
	for _, w := range s.windows {
		if !w.closed {
			return true
		}
	}
	return false
}

// Close releases every registered window and the backend. It is safe to call
// more than once.
func (s *System) Close() {
	if s.closed {
		return
	}

	for _, w := range s.windows {
		w.Release()
	}
	if err := s.backend.Close(); err != nil {
		s.log.Warn("close windowing backend", "error", err)
	}
	s.closed = true

	if s.lockedThread {
		s.lockedThread = false
		runtime.UnlockOSThread()
	}
}

func (s *System) register(w *Window) {
	s.windows[w.handle] = w
}

func (s *System) unregister(w *Window) {
	if cur, ok := s.windows[w.handle]; ok && cur == w {
		delete(s.windows, w.handle)
	}
}

func (s *System) newID() uintptr {
	s.nextID++
	return s.nextID
}
