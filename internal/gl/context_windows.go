//go:build windows

package gl

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/tinyrange/piko/internal/diag"
	"github.com/tinyrange/piko/internal/window"
)

const (
	pfdDoubleBuffer  = 0x00000001
	pfdDrawToWindow  = 0x00000004
	pfdSupportOpenGL = 0x00000020
	pfdTypeRGBA      = 0
	pfdTypeColorIdx  = 1
	pfdMainPlane     = 0
)

// Mirrors PIXELFORMATDESCRIPTOR (40 bytes).
type pixelFormatDescriptor struct {
	nSize           uint16
	nVersion        uint16
	dwFlags         uint32
	iPixelType      byte
	cColorBits      byte
	cRedBits        byte
	cRedShift       byte
	cGreenBits      byte
	cGreenShift     byte
	cBlueBits       byte
	cBlueShift      byte
	cAlphaBits      byte
	cAlphaShift     byte
	cAccumBits      byte
	cAccumRedBits   byte
	cAccumGreenBits byte
	cAccumBlueBits  byte
	cAccumAlphaBits byte
	cDepthBits      byte
	cStencilBits    byte
	cAuxBuffers     byte
	iLayerType      byte
	bReserved       byte
	dwLayerMask     uint32
	dwVisibleMask   uint32
	dwDamageMask    uint32
}

var (
	user32 = windows.NewLazySystemDLL("user32.dll")
	gdi32  = windows.NewLazySystemDLL("gdi32.dll")

	procGetDC             = user32.NewProc("GetDC")
	procReleaseDC         = user32.NewProc("ReleaseDC")
	procChoosePixelFormat = gdi32.NewProc("ChoosePixelFormat")
	procSetPixelFormat    = gdi32.NewProc("SetPixelFormat")
	procSwapBuffers       = gdi32.NewProc("SwapBuffers")
	procWglCreateContext  = opengl32.NewProc("wglCreateContext")
	procWglMakeCurrent    = opengl32.NewProc("wglMakeCurrent")
	procWglDeleteContext  = opengl32.NewProc("wglDeleteContext")
)

func descriptorFor(pf PixelFormat) pixelFormatDescriptor {
	pfd := pixelFormatDescriptor{
		nSize:        uint16(unsafe.Sizeof(pixelFormatDescriptor{})),
		nVersion:     1,
		iPixelType:   pfdTypeColorIdx,
		cColorBits:   pf.ColorBits,
		cDepthBits:   pf.DepthBits,
		cStencilBits: pf.StencilBits,
		iLayerType:   pfdMainPlane,
	}
	if pf.DoubleBuffer {
		pfd.dwFlags |= pfdDoubleBuffer
	}
	if pf.DrawToWindow {
		pfd.dwFlags |= pfdDrawToWindow
	}
	if pf.Accelerated {
		pfd.dwFlags |= pfdSupportOpenGL
	}
	if pf.RGBA {
		pfd.iPixelType = pfdTypeRGBA
	}
	return pfd
}

// wglSurface binds contexts through WGL on the window's private DC.
type wglSurface struct{}

func newNativeSurface() Surface {
	return wglSurface{}
}

func (wglSurface) GetDC(w window.Handle) (DeviceContext, error) {
	r, _, err := procGetDC.Call(uintptr(w))
	if r == 0 {
		return 0, diag.FromErr("Could not retrieve device context.", err)
	}
	return DeviceContext(r), nil
}

func (wglSurface) ChoosePixelFormat(dc DeviceContext, pf PixelFormat) (int, error) {
	if size := unsafe.Sizeof(pixelFormatDescriptor{}); size != 40 {
		return 0, fmt.Errorf("PIXELFORMATDESCRIPTOR size mismatch: got %d, want 40", size)
	}
	pfd := descriptorFor(pf)
	r, _, err := procChoosePixelFormat.Call(uintptr(dc), uintptr(unsafe.Pointer(&pfd)))
	if r == 0 {
		return 0, diag.FromErr("Could not choose pixel format.", err)
	}
	return int(r), nil
}

func (wglSurface) SetPixelFormat(dc DeviceContext, format int, pf PixelFormat) error {
	pfd := descriptorFor(pf)
	r, _, err := procSetPixelFormat.Call(uintptr(dc), uintptr(format), uintptr(unsafe.Pointer(&pfd)))
	if r == 0 {
		return diag.FromErr("Could not set pixel format.", err)
	}
	return nil
}

func (wglSurface) CreateContext(dc DeviceContext) (RenderingContext, error) {
	r, _, err := procWglCreateContext.Call(uintptr(dc))
	if r == 0 {
		return 0, diag.FromErr("Could not create rendering context.", err)
	}
	return RenderingContext(r), nil
}

func (wglSurface) MakeCurrent(dc DeviceContext, rc RenderingContext) error {
	r, _, err := procWglMakeCurrent.Call(uintptr(dc), uintptr(rc))
	if r == 0 {
		return diag.FromErr("Could not activate rendering context.", err)
	}
	return nil
}

func (wglSurface) ClearCurrent() error {
	r, _, err := procWglMakeCurrent.Call(0, 0)
	if r == 0 {
		return diag.FromErr("Could not release current rendering context.", err)
	}
	return nil
}

func (wglSurface) DeleteContext(rc RenderingContext) error {
	r, _, err := procWglDeleteContext.Call(uintptr(rc))
	if r == 0 {
		return diag.FromErr("Could not delete rendering context.", err)
	}
	return nil
}

func (wglSurface) ReleaseDC(w window.Handle, dc DeviceContext) error {
	r, _, err := procReleaseDC.Call(uintptr(w), uintptr(dc))
	if r == 0 {
		return diag.FromErr("Could not release device context.", err)
	}
	return nil
}

func (wglSurface) SwapBuffers(dc DeviceContext) error {
	r, _, err := procSwapBuffers.Call(uintptr(dc))
	if r == 0 {
		return diag.FromErr("Could not swap buffers.", err)
	}
	return nil
}

func (wglSurface) Load() (OpenGL, error) {
	return Load()
}
