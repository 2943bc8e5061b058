//go:build linux

package gl

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/tinyrange/piko/internal/diag"
	"github.com/tinyrange/piko/internal/window"
)

const (
	glxRGBA         = 4
	glxDoubleBuffer = 5
	glxRedSize      = 8
	glxGreenSize    = 9
	glxBlueSize     = 10
	glxDepthSize    = 12
	glxStencilSize  = 13
	glxNone         = 0

	xBadMatch  = 8
	xBadAccess = 10
)

// Leading fields of XVisualInfo.
type xVisualInfo struct {
	Visual   uintptr
	VisualID uint64
	Screen   int32
	Depth    int32
}

var (
	glxChooseVisual   func(uintptr, int32, *int32) *xVisualInfo
	glxCreateContext  func(uintptr, *xVisualInfo, uintptr, int32) uintptr
	glxMakeCurrent    func(uintptr, uintptr, uintptr) int32
	glxDestroyContext func(uintptr, uintptr)
	glxSwapBuffers    func(uintptr, uintptr)
	xDefaultScreen    func(uintptr) int32
	xFree             func(unsafe.Pointer) int32
	xSync             func(uintptr, int32) int32
)

var loadGLX = sync.OnceValue(func() error {
	gl, err := libGL()
	if err != nil {
		return err
	}
	x11, err := purego.Dlopen("libX11.so.6", purego.RTLD_LAZY|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("load libX11: %w", err)
	}
	if err := bind(gl, []binding{
		{&glxChooseVisual, "glXChooseVisual"},
		{&glxCreateContext, "glXCreateContext"},
		{&glxMakeCurrent, "glXMakeCurrent"},
		{&glxDestroyContext, "glXDestroyContext"},
		{&glxSwapBuffers, "glXSwapBuffers"},
	}); err != nil {
		return err
	}
	return bind(x11, []binding{
		{&xDefaultScreen, "XDefaultScreen"},
		{&xFree, "XFree"},
		{&xSync, "XSync"},
	})
})

func glxAttribs(pf PixelFormat) []int32 {
	var attrs []int32
	if pf.RGBA {
		attrs = append(attrs, glxRGBA)
	}
	if pf.DoubleBuffer {
		attrs = append(attrs, glxDoubleBuffer)
	}
	channel := int32(pf.ColorBits / 3)
	attrs = append(attrs,
		glxRedSize, channel,
		glxGreenSize, channel,
		glxBlueSize, channel,
		glxDepthSize, int32(pf.DepthBits),
	)
	if pf.StencilBits > 0 {
		attrs = append(attrs, glxStencilSize, int32(pf.StencilBits))
	}
	return append(attrs, glxNone)
}

// drawable is what a DeviceContext stands for under X11: the window plus the
// visual negotiated for it.
type drawable struct {
	window    uintptr
	visual    *xVisualInfo
	committed bool
}

// glxSurface binds contexts through GLX on the display the window backend
// opened. X has no device contexts, so DeviceContext values index drawables.
type glxSurface struct {
	drawables map[DeviceContext]*drawable
	next      DeviceContext
}

func newNativeSurface() Surface {
	return &glxSurface{drawables: make(map[DeviceContext]*drawable)}
}

func (s *glxSurface) display() (uintptr, error) {
	if err := loadGLX(); err != nil {
		return 0, err
	}
	dpy := window.XDisplay()
	if dpy == 0 {
		diag.SetLastError(xBadAccess)
		return 0, diag.New("X display is not open.")
	}
	return dpy, nil
}

func (s *glxSurface) lookup(dc DeviceContext) (*drawable, error) {
	d, ok := s.drawables[dc]
	if !ok {
		return nil, diag.System(fmt.Sprintf("Unknown device context %#x.", uintptr(dc)), xBadMatch)
	}
	return d, nil
}

func (s *glxSurface) GetDC(w window.Handle) (DeviceContext, error) {
	if _, err := s.display(); err != nil {
		return 0, err
	}
	if w == 0 {
		diag.SetLastError(xBadMatch)
		return 0, diag.New("Could not retrieve device context.")
	}
	s.next++
	s.drawables[s.next] = &drawable{window: uintptr(w)}
	return s.next, nil
}

func (s *glxSurface) ChoosePixelFormat(dc DeviceContext, pf PixelFormat) (int, error) {
	d, err := s.lookup(dc)
	if err != nil {
		return 0, err
	}
	dpy, err := s.display()
	if err != nil {
		return 0, err
	}
	attrs := glxAttribs(pf)
	vi := glxChooseVisual(dpy, xDefaultScreen(dpy), &attrs[0])
	if vi == nil {
		diag.SetLastError(xBadMatch)
		return 0, diag.New("Could not choose pixel format.")
	}
	if d.visual != nil {
		xFree(unsafe.Pointer(d.visual))
	}
	d.visual = vi
	return int(vi.VisualID), nil
}

// SetPixelFormat commits the chosen visual. The X window was created with a
// matching visual, so nothing changes server side; a second commit is
// rejected like on Windows.
func (s *glxSurface) SetPixelFormat(dc DeviceContext, format int, pf PixelFormat) error {
	d, err := s.lookup(dc)
	if err != nil {
		return err
	}
	if d.visual == nil || int(d.visual.VisualID) != format {
		diag.SetLastError(xBadMatch)
		return diag.New("Could not set pixel format.")
	}
	if d.committed {
		diag.SetLastError(xBadAccess)
		return diag.New("Pixel format already set.")
	}
	d.committed = true
	return nil
}

func (s *glxSurface) CreateContext(dc DeviceContext) (RenderingContext, error) {
	d, err := s.lookup(dc)
	if err != nil {
		return 0, err
	}
	dpy, err := s.display()
	if err != nil {
		return 0, err
	}
	rc := glxCreateContext(dpy, d.visual, 0, 1)
	if rc == 0 {
		return 0, diag.New("Could not create rendering context.")
	}
	return RenderingContext(rc), nil
}

func (s *glxSurface) MakeCurrent(dc DeviceContext, rc RenderingContext) error {
	d, err := s.lookup(dc)
	if err != nil {
		return err
	}
	dpy, err := s.display()
	if err != nil {
		return err
	}
	diag.SetLastError(0)
	ok := glxMakeCurrent(dpy, d.window, uintptr(rc))
	// BadMatch and friends arrive asynchronously through the error handler.
	xSync(dpy, 0)
	if ok == 0 || diag.LastError() != 0 {
		return diag.New("Could not activate rendering context.")
	}
	return nil
}

func (s *glxSurface) ClearCurrent() error {
	dpy, err := s.display()
	if err != nil {
		return err
	}
	if glxMakeCurrent(dpy, 0, 0) == 0 {
		return diag.New("Could not release current rendering context.")
	}
	return nil
}

func (s *glxSurface) DeleteContext(rc RenderingContext) error {
	dpy, err := s.display()
	if err != nil {
		return err
	}
	glxDestroyContext(dpy, uintptr(rc))
	return nil
}

func (s *glxSurface) ReleaseDC(w window.Handle, dc DeviceContext) error {
	d, err := s.lookup(dc)
	if err != nil {
		return err
	}
	if d.window != uintptr(w) {
		return diag.System("Device context belongs to another window.", xBadMatch)
	}
	if d.visual != nil {
		xFree(unsafe.Pointer(d.visual))
	}
	delete(s.drawables, dc)
	return nil
}

func (s *glxSurface) SwapBuffers(dc DeviceContext) error {
	d, err := s.lookup(dc)
	if err != nil {
		return err
	}
	dpy, err := s.display()
	if err != nil {
		return err
	}
	glxSwapBuffers(dpy, d.window)
	return nil
}

func (s *glxSurface) Load() (OpenGL, error) {
	return Load()
}
