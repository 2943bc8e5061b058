package window

// Handler receives the events dispatched to one Window.
//
// HandleEvent sees every event and reports whether it was consumed.
// DefaultHandler.HandleEvent forwards key presses to the Window's installed
// Handler, so a Handler that embeds DefaultHandler and overrides only
// HandleKeyDown still gets its override called.
type Handler interface {
	HandleEvent(w *Window, ev Event) bool
	HandleKeyDown(w *Window, key Key) bool
}

// DefaultHandler closes the window on destroy notifications, toggles
// fullscreen on F1 and closes on Escape.
type DefaultHandler struct{}

func (DefaultHandler) HandleEvent(w *Window, ev Event) bool {
	switch ev.Kind {
	case EventDestroy:
		if !w.IsClosed() {
			w.Close()
		}
		return true
	case EventKeyDown:
		return w.handler.HandleKeyDown(w, ev.Key)
	default:
		return false
	}
}

func (DefaultHandler) HandleKeyDown(w *Window, key Key) bool {
	switch key {
	case KeyF1:
		w.SetFullscreen(!w.IsFullscreen())
		return true
	case KeyEscape:
		w.Close()
		return true
	default:
		return false
	}
}

// KeyHook adds key bindings on top of DefaultHandler. Keys the hook does not
// consume get the default bindings.
type KeyHook func(w *Window, key Key) bool

func (f KeyHook) HandleEvent(w *Window, ev Event) bool {
	return DefaultHandler{}.HandleEvent(w, ev)
}

func (f KeyHook) HandleKeyDown(w *Window, key Key) bool {
	if f(w, key) {
		return true
	}
	return DefaultHandler{}.HandleKeyDown(w, key)
}
