//go:build linux

package window

import (
	"errors"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
	"github.com/ebitengine/purego"

	"github.com/tinyrange/piko/internal/diag"
)

const (
	glxRGBA         = 4
	glxDoubleBuffer = 5
	glxRedSize      = 8
	glxGreenSize    = 9
	glxBlueSize     = 10
	glxDepthSize    = 12
	glxNone         = 0

	inputOutput = 1
	allocNone   = 0

	exposureMask        = 1 << 15
	structureNotifyMask = 1 << 17
	keyPressMask        = 1 << 0
	keyReleaseMask      = 1 << 1
	buttonPressMask     = 1 << 2
	buttonReleaseMask   = 1 << 3
	pointerMotionMask   = 1 << 6

	cwBorderPixel = 1 << 3
	cwEventMask   = 1 << 11
	cwColormap    = 1 << 13

	// X protocol error codes, recorded as the last error for failures that
	// happen on our side of the connection.
	xBadValue  = 2
	xBadAccess = 10
	xBadAlloc  = 11
)

// The visual windows are created with must match the format the GL surface
// later negotiates: RGBA, double buffered, 8 bits per channel, 16-bit depth.
var visualAttribs = []int32{
	glxRGBA,
	glxDoubleBuffer,
	glxRedSize, 8,
	glxGreenSize, 8,
	glxBlueSize, 8,
	glxDepthSize, 16,
	glxNone,
}

type xVisualInfo struct {
	Visual       uintptr
	VisualID     uint
	Screen       int32
	Depth        int32
	Class        int32
	RedMask      uint64
	GreenMask    uint64
	BlueMask     uint64
	ColormapSize int32
	BitsPerRGB   int32
}

// XAnyEvent prefix shared by every event we look at.
type xAnyEvent struct {
	Type      int32
	Serial    uint64
	SendEvent int32
	Display   uintptr
	Window    uintptr
}

type xDestroyWindowEvent struct {
	xAnyEvent
	Target uintptr
}

type xClientMessageEvent struct {
	xAnyEvent
	MessageType uintptr
	Format      int32
	Data        [5]uint64
}

type xSetWindowAttributes struct {
	BackgroundPixmap uintptr
	BackgroundPixel  uint64
	BorderPixmap     uint64
	BorderPixel      uint64
	BitGravity       int32
	WinGravity       int32
	BackingStore     int32
	BackingPlanes    uint64
	BackingPixel     uint64
	SaveUnder        int32
	EventMask        int64
	DoNotPropagate   int64
	OverrideRedirect int32
	Colormap         uintptr
	Cursor           uintptr
}

var (
	x11lib uintptr
	gllib  uintptr

	xOpenDisplay     func(*byte) uintptr
	xCloseDisplay    func(uintptr) int32
	xDefaultScreen   func(uintptr) int32
	xRootWindow      func(uintptr, int32) uintptr
	xCreateColormap  func(uintptr, uintptr, uintptr, int32) uintptr
	xCreateWindow    func(uintptr, uintptr, int32, int32, uint32, uint32, uint32, int32, uint32, uintptr, uint64, unsafe.Pointer) uintptr
	xDestroyWindow   func(uintptr, uintptr) int32
	xMapWindow       func(uintptr, uintptr) int32
	xInternAtom      func(uintptr, *byte, int32) uintptr
	xSetWMProtocols  func(uintptr, uintptr, *uintptr, int32) int32
	xPending         func(uintptr) int32
	xNextEvent       func(uintptr, unsafe.Pointer)
	xLookupKeysym    func(unsafe.Pointer, int32) uint64
	xFlush           func(uintptr) int32
	xFree            func(unsafe.Pointer) int32
	xSetErrorHandler func(uintptr) uintptr

	glxChooseVisual func(uintptr, int32, *int32) *xVisualInfo
)

func ensureLibs() error {
	var err error
	if x11lib == 0 {
		x11lib, err = purego.Dlopen("libX11.so.6", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			return fmt.Errorf("load libX11: %w", err)
		}
		registerX11()
	}
	if gllib == 0 {
		gllib, err = purego.Dlopen("libGL.so.1", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			return fmt.Errorf("load libGL: %w", err)
		}
		purego.RegisterLibFunc(&glxChooseVisual, gllib, "glXChooseVisual")
	}
	return nil
}

func registerX11() {
	purego.RegisterLibFunc(&xOpenDisplay, x11lib, "XOpenDisplay")
	purego.RegisterLibFunc(&xCloseDisplay, x11lib, "XCloseDisplay")
	purego.RegisterLibFunc(&xDefaultScreen, x11lib, "XDefaultScreen")
	purego.RegisterLibFunc(&xRootWindow, x11lib, "XRootWindow")
	purego.RegisterLibFunc(&xCreateColormap, x11lib, "XCreateColormap")
	purego.RegisterLibFunc(&xCreateWindow, x11lib, "XCreateWindow")
	purego.RegisterLibFunc(&xDestroyWindow, x11lib, "XDestroyWindow")
	purego.RegisterLibFunc(&xMapWindow, x11lib, "XMapWindow")
	purego.RegisterLibFunc(&xInternAtom, x11lib, "XInternAtom")
	purego.RegisterLibFunc(&xSetWMProtocols, x11lib, "XSetWMProtocols")
	purego.RegisterLibFunc(&xPending, x11lib, "XPending")
	purego.RegisterLibFunc(&xNextEvent, x11lib, "XNextEvent")
	purego.RegisterLibFunc(&xLookupKeysym, x11lib, "XLookupKeysym")
	purego.RegisterLibFunc(&xFlush, x11lib, "XFlush")
	purego.RegisterLibFunc(&xFree, x11lib, "XFree")
	purego.RegisterLibFunc(&xSetErrorHandler, x11lib, "XSetErrorHandler")
}

// activeX11 is the open backend. The GL surface binds its contexts to the
// same Xlib display connection.
var activeX11 *x11Backend

// XDisplay returns the Xlib display pointer of the open backend, or 0.
func XDisplay() uintptr {
	if activeX11 == nil {
		return 0
	}
	return activeX11.display
}

// x11Backend creates windows through Xlib, because GLX contexts can only bind
// to Xlib drawables, and drives window-manager state (fullscreen, title,
// class) through an xgbutil connection to the same server.
type x11Backend struct {
	display  uintptr
	screen   int32
	root     uintptr
	wmDelete uintptr

	xu  *xgbutil.XUtil
	log *slog.Logger

	dispatcher Dispatcher

	// X11 has no window classes. Registrations are tracked here so the
	// uniqueness and lifetime rules match other platforms, and the class
	// name is published as WM_CLASS.
	classes map[string]bool
	live    map[Handle]string
}

func newNativeBackend() (Backend, error) {
	if activeX11 != nil {
		return nil, errors.New("a native windowing backend is already open in this process")
	}
	if err := ensureLibs(); err != nil {
		return nil, err
	}
	installErrorHandler()

	dpy := xOpenDisplay(nil)
	if dpy == 0 {
		return nil, diag.New("Could not open X display.")
	}

	xu, err := xgbutil.NewConn()
	if err != nil {
		xCloseDisplay(dpy)
		return nil, fmt.Errorf("connect to X server: %w", err)
	}

	screen := xDefaultScreen(dpy)
	b := &x11Backend{
		display:  dpy,
		screen:   screen,
		root:     xRootWindow(dpy, screen),
		wmDelete: xInternAtom(dpy, cString("WM_DELETE_WINDOW"), 0),
		xu:       xu,
		log:      slog.Default(),
		classes:  make(map[string]bool),
		live:     make(map[Handle]string),
	}
	activeX11 = b
	return b, nil
}

func (b *x11Backend) Bind(d Dispatcher) {
	b.dispatcher = d
}

func (b *x11Backend) SetLogger(log *slog.Logger) {
	b.log = log
}

// warn records a window-manager request the server rejected. These requests
// are advisory, so callers carry on.
func (b *x11Backend) warn(msg string, h Handle, err error) {
	if err != nil {
		b.log.Warn(msg, "handle", h, "error", err)
	}
}

func (b *x11Backend) moveResize(h Handle, width, height int) {
	id := xproto.Window(h)
	if err := ewmh.MoveresizeWindow(b.xu, id, 0, 0, width, height); err != nil {
		b.log.Debug("ewmh moveresize failed, configuring directly", "handle", h, "error", err)
		xwindow.New(b.xu, id).MoveResize(0, 0, width, height)
	}
}

func (b *x11Backend) ScreenSize() (int, int) {
	s := b.xu.Screen()
	return int(s.WidthInPixels), int(s.HeightInPixels)
}

func (b *x11Backend) RegisterClass(name string) error {
	if b.classes[name] {
		return fail("Could not register window class.", xBadAccess)
	}
	b.classes[name] = true
	return nil
}

func (b *x11Backend) UnregisterClass(name string) error {
	if !b.classes[name] {
		return fail("Could not unregister window class.", xBadValue)
	}
	for _, class := range b.live {
		if class == name {
			return fail("Could not unregister window class.", xBadAccess)
		}
	}
	delete(b.classes, name)
	return nil
}

func (b *x11Backend) CreateWindow(class, title string, width, height int, userData uintptr) (Handle, error) {
	if !b.classes[class] {
		return 0, fail("Could not create window.", xBadValue)
	}

	visual := glxChooseVisual(b.display, b.screen, &visualAttribs[0])
	if visual == nil {
		return 0, fail("Could not choose a GLX visual.", xBadValue)
	}
	defer xFree(unsafe.Pointer(visual))

	var swa xSetWindowAttributes
	swa.Colormap = xCreateColormap(b.display, b.root, visual.Visual, allocNone)
	swa.EventMask = exposureMask | structureNotifyMask | keyPressMask | keyReleaseMask |
		buttonPressMask | buttonReleaseMask | pointerMotionMask

	win := xCreateWindow(
		b.display, b.root,
		0, 0,
		uint32(width), uint32(height),
		0,
		visual.Depth,
		inputOutput,
		visual.Visual,
		cwBorderPixel|cwColormap|cwEventMask,
		unsafe.Pointer(&swa),
	)
	if win == 0 {
		return 0, diag.New("Could not create window.")
	}
	xSetWMProtocols(b.display, win, &b.wmDelete, 1)
	// The xgb connection below must see the window.
	xFlush(b.display)

	h := Handle(win)
	id := xproto.Window(win)
	if err := icccm.WmClassSet(b.xu, id, &icccm.WmClass{Instance: class, Class: classNameBase}); err != nil {
		xDestroyWindow(b.display, win)
		xFlush(b.display)
		return 0, fmt.Errorf("set WM_CLASS: %w", err)
	}
	if err := xprop.ChangeProp32(b.xu, id, "_PIKO_WINDOW_ID", "CARDINAL", uint(userData)); err != nil {
		xDestroyWindow(b.display, win)
		xFlush(b.display)
		return 0, fmt.Errorf("set _PIKO_WINDOW_ID: %w", err)
	}
	b.live[h] = class
	b.SetTitle(h, title)
	return h, nil
}

func (b *x11Backend) Show(h Handle) {
	xMapWindow(b.display, uintptr(h))
	xFlush(b.display)
}

// Destroy is asynchronous on X11: the DestroyNotify arrives through Pump.
func (b *x11Backend) Destroy(h Handle) {
	if _, ok := b.live[h]; !ok {
		return
	}
	delete(b.live, h)
	xDestroyWindow(b.display, uintptr(h))
	xFlush(b.display)
}

func (b *x11Backend) SetTitle(h Handle, title string) {
	id := xproto.Window(h)
	b.warn("set _NET_WM_NAME", h, ewmh.WmNameSet(b.xu, id, title))
	b.warn("set WM_NAME", h, icccm.WmNameSet(b.xu, id, title))
}

func (b *x11Backend) ClientSize(h Handle) (int, int) {
	geom, err := xwindow.New(b.xu, xproto.Window(h)).Geometry()
	if err != nil {
		return 0, 0
	}
	return geom.Width(), geom.Height()
}

// EnterFullscreen asks the window manager for a borderless, above-all,
// screen-sized window. X11 window managers own the display mode, so depth is
// not applied.
func (b *x11Backend) EnterFullscreen(h Handle, width, height, depth int) {
	id := xproto.Window(h)
	b.warn("remove decorations", h, motif.WmHintsSet(b.xu, id, &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: motif.DecorationNone,
	}))
	b.warn("request fullscreen state", h,
		ewmh.WmStateReqExtra(b.xu, id, ewmh.StateAdd, "_NET_WM_STATE_FULLSCREEN", "_NET_WM_STATE_ABOVE", 1))
	b.moveResize(h, width, height)
	b.warn("request maximized state", h,
		ewmh.WmStateReqExtra(b.xu, id, ewmh.StateAdd, "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", 1))
}

func (b *x11Backend) LeaveFullscreen(h Handle, width, height int) {
	id := xproto.Window(h)
	b.warn("restore decorations", h, motif.WmHintsSet(b.xu, id, &motif.Hints{
		Flags:      motif.HintDecorations,
		Decoration: motif.DecorationAll,
	}))
	b.warn("clear fullscreen state", h,
		ewmh.WmStateReqExtra(b.xu, id, ewmh.StateRemove, "_NET_WM_STATE_FULLSCREEN", "_NET_WM_STATE_ABOVE", 1))
	b.warn("clear maximized state", h,
		ewmh.WmStateReqExtra(b.xu, id, ewmh.StateRemove, "_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", 1))
	b.moveResize(h, width, height)
}

func (b *x11Backend) Pump() bool {
	for xPending(b.display) > 0 {
		var raw [192]byte
		xNextEvent(b.display, unsafe.Pointer(&raw[0]))

		hdr := (*xAnyEvent)(unsafe.Pointer(&raw[0]))
		target := hdr.Window
		var keysym uint64
		var isDelete bool

		switch hdr.Type {
		case xDestroyNotify:
			target = (*xDestroyWindowEvent)(unsafe.Pointer(&raw[0])).Target
		case xKeyPress:
			keysym = xLookupKeysym(unsafe.Pointer(&raw[0]), 0)
		case xClientMessage:
			cm := (*xClientMessageEvent)(unsafe.Pointer(&raw[0]))
			isDelete = cm.Format == 32 && cm.Data[0] == uint64(b.wmDelete)
		}

		h := Handle(target)
		ev := translateXEvent(hdr.Type, keysym, isDelete)
		if b.dispatcher != nil && b.dispatcher.Dispatch(h, ev) {
			continue
		}
		b.defaultHandling(h, ev)
	}
	return true
}

func (b *x11Backend) defaultHandling(h Handle, ev Event) {
	if ev.Kind == EventCloseRequest {
		b.Destroy(h)
	}
}

func (b *x11Backend) Close() error {
	if activeX11 == b {
		activeX11 = nil
	}
	b.dispatcher = nil
	b.xu.Conn().Close()
	if xCloseDisplay(b.display) != 0 {
		return fail("Could not close X display.", xBadAlloc)
	}
	return nil
}

func fail(msg string, code int) error {
	diag.SetLastError(code)
	return diag.System(msg, code)
}

func cString(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}
