package window

// Native message and key translation is plain data, so the Win32 and X11
// tables both live here and are testable on every OS.

const (
	wmDestroy = 0x0002
	wmClose   = 0x0010
	wmKeyDown = 0x0100
)

// translateMessage converts a Win32 window message.
func translateMessage(msg uint32, wParam, lParam uintptr) Event {
	ev := Event{Code: msg, WParam: wParam, LParam: lParam}
	switch msg {
	case wmDestroy:
		ev.Kind = EventDestroy
	case wmClose:
		ev.Kind = EventCloseRequest
	case wmKeyDown:
		ev.Kind = EventKeyDown
		ev.Key = keyFromVirtualKey(uint32(wParam))
	}
	return ev
}

const (
	xKeyPress      = 2
	xDestroyNotify = 17
	xClientMessage = 33
)

// translateXEvent converts an X11 event type. keysym is only consulted for
// key presses; isDelete reports a WM_DELETE_WINDOW client message.
func translateXEvent(etype int32, keysym uint64, isDelete bool) Event {
	ev := Event{Code: uint32(etype)}
	switch etype {
	case xDestroyNotify:
		ev.Kind = EventDestroy
	case xKeyPress:
		ev.Kind = EventKeyDown
		ev.Key = keyFromKeysym(keysym)
		ev.WParam = uintptr(keysym)
	case xClientMessage:
		if isDelete {
			ev.Kind = EventCloseRequest
		}
	}
	return ev
}

const (
	vkBack   = 0x08
	vkTab    = 0x09
	vkReturn = 0x0D
	vkEscape = 0x1B
	vkSpace  = 0x20
	vkLeft   = 0x25
	vkUp     = 0x26
	vkRight  = 0x27
	vkDown   = 0x28
	vkF1     = 0x70
	vkF12    = 0x7B
)

// keyFromVirtualKey converts a Windows virtual-key code.
func keyFromVirtualKey(vk uint32) Key {
	switch {
	case vk >= 'A' && vk <= 'Z':
		return KeyA + Key(vk-'A')
	case vk >= '0' && vk <= '9':
		return Key0 + Key(vk-'0')
	case vk >= vkF1 && vk <= vkF12:
		return KeyF1 + Key(vk-vkF1)
	}
	switch vk {
	case vkBack:
		return KeyBackspace
	case vkTab:
		return KeyTab
	case vkReturn:
		return KeyEnter
	case vkEscape:
		return KeyEscape
	case vkSpace:
		return KeySpace
	case vkLeft:
		return KeyLeft
	case vkUp:
		return KeyUp
	case vkRight:
		return KeyRight
	case vkDown:
		return KeyDown
	}
	return KeyUnknown
}

const (
	xkBackSpace = 0xff08
	xkTab       = 0xff09
	xkReturn    = 0xff0d
	xkEscape    = 0xff1b
	xkLeft      = 0xff51
	xkUp        = 0xff52
	xkRight     = 0xff53
	xkDown      = 0xff54
	xkF1        = 0xffbe
	xkF12       = 0xffc9
)

// keyFromKeysym converts an X11 keysym.
func keyFromKeysym(sym uint64) Key {
	switch {
	case sym >= 'a' && sym <= 'z':
		return KeyA + Key(sym-'a')
	case sym >= 'A' && sym <= 'Z':
		return KeyA + Key(sym-'A')
	case sym >= '0' && sym <= '9':
		return Key0 + Key(sym-'0')
	case sym >= xkF1 && sym <= xkF12:
		return KeyF1 + Key(sym-xkF1)
	}
	switch sym {
	case ' ':
		return KeySpace
	case xkBackSpace:
		return KeyBackspace
	case xkTab:
		return KeyTab
	case xkReturn:
		return KeyEnter
	case xkEscape:
		return KeyEscape
	case xkLeft:
		return KeyLeft
	case xkUp:
		return KeyUp
	case xkRight:
		return KeyRight
	case xkDown:
		return KeyDown
	}
	return KeyUnknown
}
