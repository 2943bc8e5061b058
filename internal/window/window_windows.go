//go:build windows

package window

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/tinyrange/piko/internal/diag"
)

const (
	csOwnDC   = 0x0020
	csHRedraw = 0x0002
	csVRedraw = 0x0001

	wsOverlappedWindow = 0x00CF0000
	wsClipSiblings     = 0x04000000
	wsClipChildren     = 0x02000000
	wsPopup            = 0x80000000
	wsVisible          = 0x10000000

	wsExTopmost    = 0x00000008
	wsExWindowEdge = 0x00000100
	wsExAppWindow  = 0x00040000

	swShow     = 5
	swMaximize = 3
	swRestore  = 9

	swpFrameChanged = 0x0020
	swpShowWindow   = 0x0040

	gwlStyle   = -16
	gwlExStyle = -20

	hwndTopmost   = -1
	hwndNoTopmost = -2

	smCxScreen = 0
	smCyScreen = 1

	dmBitsPerPel        = 0x00040000
	dmPelsWidth         = 0x00080000
	dmPelsHeight        = 0x00100000
	enumCurrentSettings = 0xFFFFFFFF
	cdsFullscreen       = 0x00000004

	wmQuit   = 0x0012
	pmRemove = 0x0001

	idcArrow       = 32512
	idiApplication = 32512

	errorCannotFindWndClass = 1407
)

const (
	windowExStyle = wsExAppWindow | wsExWindowEdge
	windowStyle   = wsClipSiblings | wsClipChildren | wsOverlappedWindow
)

type wndClassEx struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     windows.Handle
	hIcon         windows.Handle
	hCursor       windows.Handle
	hbrBackground windows.Handle
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       windows.Handle
}

type msg struct {
	hwnd     uintptr
	message  uint32
	wParam   uintptr
	lParam   uintptr
	time     uint32
	pt       point
	lPrivate uint32
}

type point struct {
	x int32
	y int32
}

type rect struct {
	left   int32
	top    int32
	right  int32
	bottom int32
}

// Mirrors DEVMODEW with the display half of its unions (must be 220 bytes).
type devMode struct {
	deviceName         [32]uint16
	specVersion        uint16
	driverVersion      uint16
	size               uint16
	driverExtra        uint16
	fields             uint32
	position           point
	displayOrientation uint32
	displayFixedOutput uint32
	color              int16
	duplex             int16
	yResolution        int16
	ttOption           int16
	collate            int16
	formName           [32]uint16
	logPixels          uint16
	bitsPerPel         uint32
	pelsWidth          uint32
	pelsHeight         uint32
	displayFlags       uint32
	displayFrequency   uint32
	icmMethod          uint32
	icmIntent          uint32
	mediaType          uint32
	ditherType         uint32
	reserved1          uint32
	reserved2          uint32
	panningWidth       uint32
	panningHeight      uint32
}

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterClassEx       = user32.NewProc("RegisterClassExW")
	procUnregisterClass       = user32.NewProc("UnregisterClassW")
	procCreateWindowEx        = user32.NewProc("CreateWindowExW")
	procDefWindowProc         = user32.NewProc("DefWindowProcW")
	procDestroyWindow         = user32.NewProc("DestroyWindow")
	procShowWindow            = user32.NewProc("ShowWindow")
	procUpdateWindow          = user32.NewProc("UpdateWindow")
	procSetWindowText         = user32.NewProc("SetWindowTextW")
	procSetWindowPos          = user32.NewProc("SetWindowPos")
	procSetWindowLong         = user32.NewProc(setWindowLongName())
	procGetClientRect         = user32.NewProc("GetClientRect")
	procGetSystemMetrics      = user32.NewProc("GetSystemMetrics")
	procEnumDisplaySettings   = user32.NewProc("EnumDisplaySettingsW")
	procChangeDisplaySettings = user32.NewProc("ChangeDisplaySettingsW")
	procPeekMessage           = user32.NewProc("PeekMessageW")
	procTranslateMessage      = user32.NewProc("TranslateMessage")
	procDispatchMessage       = user32.NewProc("DispatchMessageW")
	procLoadCursor            = user32.NewProc("LoadCursorW")
	procLoadIcon              = user32.NewProc("LoadIconW")
	procGetModuleHandle       = kernel32.NewProc("GetModuleHandleW")
	procSetLastError          = kernel32.NewProc("SetLastError")

	requiredProcs = []*windows.LazyProc{
		procRegisterClassEx,
		procUnregisterClass,
		procCreateWindowEx,
		procDefWindowProc,
		procDestroyWindow,
		procSetWindowLong,
		procEnumDisplaySettings,
		procChangeDisplaySettings,
	}
)

// SetWindowLongPtrW only exists in 64-bit user32.
func setWindowLongName() string {
	if unsafe.Sizeof(uintptr(0)) == 8 {
		return "SetWindowLongPtrW"
	}
	return "SetWindowLongW"
}

func validateProcs() error {
	for _, p := range requiredProcs {
		if err := p.Find(); err != nil {
			return fmt.Errorf("missing procedure %q: %w", p.Name, err)
		}
	}
	return nil
}

// Every class this process registers shares one window procedure. Native
// callbacks are a finite resource, so it is created once and routes to the
// open backend.
var (
	wndProcCallback = windows.NewCallback(wndProc)
	activeBackend   *win32Backend
)

func wndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	b := activeBackend
	if b != nil && b.dispatcher != nil {
		ev := translateMessage(uint32(message), wParam, lParam)
		if b.dispatcher.Dispatch(Handle(hwnd), ev) {
			return 0
		}
	}
	ret, _, _ := procDefWindowProc.Call(hwnd, message, wParam, lParam)
	return ret
}

type win32Backend struct {
	instance   windows.Handle
	dispatcher Dispatcher
	classes    map[string]*uint16
	quit       bool
}

func newNativeBackend() (Backend, error) {
	if unsafe.Sizeof(devMode{}) != 220 {
		return nil, fmt.Errorf("DEVMODEW size mismatch: got %d, want 220", unsafe.Sizeof(devMode{}))
	}
	if err := validateProcs(); err != nil {
		return nil, err
	}
	if activeBackend != nil {
		return nil, errors.New("a native windowing backend is already open in this process")
	}

	b := &win32Backend{
		instance: moduleHandle(),
		classes:  make(map[string]*uint16),
	}
	activeBackend = b
	return b, nil
}

func (b *win32Backend) Bind(d Dispatcher) {
	b.dispatcher = d
}

func (b *win32Backend) ScreenSize() (int, int) {
	cx, _, _ := procGetSystemMetrics.Call(smCxScreen)
	cy, _, _ := procGetSystemMetrics.Call(smCyScreen)
	return int(int32(cx)), int(int32(cy))
}

func (b *win32Backend) RegisterClass(name string) error {
	namePtr, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}

	icon := loadIcon()
	wc := wndClassEx{
		cbSize:        uint32(unsafe.Sizeof(wndClassEx{})),
		style:         csHRedraw | csVRedraw | csOwnDC,
		lpfnWndProc:   wndProcCallback,
		hInstance:     b.instance,
		hIcon:         icon,
		hCursor:       loadCursor(),
		lpszClassName: namePtr,
		hIconSm:       icon,
	}

	ret, _, callErr := procRegisterClassEx.Call(uintptr(unsafe.Pointer(&wc)))
	if ret == 0 {
		return diag.FromErr("Could not register window class.", callErr)
	}
	b.classes[name] = namePtr
	return nil
}

func (b *win32Backend) UnregisterClass(name string) error {
	namePtr, ok := b.classes[name]
	if !ok {
		return diag.System("Could not unregister window class.", errorCannotFindWndClass)
	}
	ret, _, callErr := procUnregisterClass.Call(uintptr(unsafe.Pointer(namePtr)), uintptr(b.instance))
	if ret == 0 {
		return diag.FromErr("Could not unregister window class.", callErr)
	}
	delete(b.classes, name)
	return nil
}

func (b *win32Backend) CreateWindow(class, title string, width, height int, userData uintptr) (Handle, error) {
	classPtr, ok := b.classes[class]
	if !ok {
		return 0, diag.System("Could not create window.", errorCannotFindWndClass)
	}
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return 0, err
	}

	procSetLastError.Call(0)
	ret, _, callErr := procCreateWindowEx.Call(
		windowExStyle,
		uintptr(unsafe.Pointer(classPtr)),
		uintptr(unsafe.Pointer(titlePtr)),
		windowStyle,
		0,
		0,
		uintptr(width),
		uintptr(height),
		0,
		0,
		uintptr(b.instance),
		userData,
	)
	if ret == 0 {
		return 0, diag.FromErr("Could not create window.", callErr)
	}
	return Handle(ret), nil
}

func (b *win32Backend) Show(h Handle) {
	procShowWindow.Call(uintptr(h), swShow)
	procUpdateWindow.Call(uintptr(h))
}

func (b *win32Backend) Destroy(h Handle) {
	procDestroyWindow.Call(uintptr(h))
}

func (b *win32Backend) SetTitle(h Handle, title string) {
	titlePtr, err := windows.UTF16PtrFromString(title)
	if err != nil {
		return
	}
	procSetWindowText.Call(uintptr(h), uintptr(unsafe.Pointer(titlePtr)))
}

func (b *win32Backend) ClientSize(h Handle) (int, int) {
	var r rect
	procGetClientRect.Call(uintptr(h), uintptr(unsafe.Pointer(&r)))
	return int(r.right - r.left), int(r.bottom - r.top)
}

func (b *win32Backend) EnterFullscreen(h Handle, width, height, depth int) {
	dm := devMode{size: uint16(unsafe.Sizeof(devMode{}))}
	procEnumDisplaySettings.Call(0, enumCurrentSettings, uintptr(unsafe.Pointer(&dm)))
	dm.pelsWidth = uint32(width)
	dm.pelsHeight = uint32(height)
	dm.bitsPerPel = uint32(depth)
	dm.fields = dmPelsWidth | dmPelsHeight | dmBitsPerPel
	procChangeDisplaySettings.Call(uintptr(unsafe.Pointer(&dm)), cdsFullscreen)

	setWindowLong(h, gwlExStyle, wsExAppWindow|wsExTopmost)
	setWindowLong(h, gwlStyle, wsPopup|wsVisible)
	setWindowPos(h, hwndTopmost, width, height)
	procShowWindow.Call(uintptr(h), swMaximize)
}

func (b *win32Backend) LeaveFullscreen(h Handle, width, height int) {
	setWindowLong(h, gwlExStyle, windowExStyle)
	setWindowLong(h, gwlStyle, windowStyle|wsVisible)
	procChangeDisplaySettings.Call(0, 0)
	setWindowPos(h, hwndNoTopmost, width, height)
	procShowWindow.Call(uintptr(h), swRestore)
}

func (b *win32Backend) Pump() bool {
	if b.quit {
		return false
	}

	var m msg
	for {
		ret, _, _ := procPeekMessage.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
		if ret == 0 {
			break
		}
		if m.message == wmQuit {
			b.quit = true
			break
		}
		procTranslateMessage.Call(uintptr(unsafe.Pointer(&m)))
		procDispatchMessage.Call(uintptr(unsafe.Pointer(&m)))
	}
	return !b.quit
}

func (b *win32Backend) Close() error {
	if activeBackend == b {
		activeBackend = nil
	}
	b.dispatcher = nil
	return nil
}

// signed passes a negative index or sentinel handle through a uintptr
// argument with the sign extension the callee expects.
func signed(v int32) uintptr {
	return uintptr(v)
}

func setWindowLong(h Handle, index int32, value uint32) {
	procSetWindowLong.Call(uintptr(h), signed(index), uintptr(value))
}

func setWindowPos(h Handle, insertAfter int32, width, height int) {
	procSetWindowPos.Call(
		uintptr(h),
		signed(insertAfter),
		0,
		0,
		uintptr(width),
		uintptr(height),
		swpShowWindow|swpFrameChanged,
	)
}

func loadCursor() windows.Handle {
	ret, _, _ := procLoadCursor.Call(0, idcArrow)
	return windows.Handle(ret)
}

func loadIcon() windows.Handle {
	ret, _, _ := procLoadIcon.Call(0, idiApplication)
	return windows.Handle(ret)
}

func moduleHandle() windows.Handle {
	h, _, _ := procGetModuleHandle.Call(0)
	return windows.Handle(h)
}
