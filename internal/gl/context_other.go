//go:build !windows && !linux

package gl

import "github.com/tinyrange/piko/internal/window"

type unsupportedSurface struct{}

func newNativeSurface() Surface {
	return unsupportedSurface{}
}

func (unsupportedSurface) GetDC(window.Handle) (DeviceContext, error) {
	return 0, window.ErrUnsupported
}

func (unsupportedSurface) ChoosePixelFormat(DeviceContext, PixelFormat) (int, error) {
	return 0, window.ErrUnsupported
}

func (unsupportedSurface) SetPixelFormat(DeviceContext, int, PixelFormat) error {
	return window.ErrUnsupported
}

func (unsupportedSurface) CreateContext(DeviceContext) (RenderingContext, error) {
	return 0, window.ErrUnsupported
}

func (unsupportedSurface) MakeCurrent(DeviceContext, RenderingContext) error {
	return window.ErrUnsupported
}

func (unsupportedSurface) ClearCurrent() error                          { return nil }
func (unsupportedSurface) DeleteContext(RenderingContext) error         { return nil }
func (unsupportedSurface) ReleaseDC(window.Handle, DeviceContext) error { return nil }
func (unsupportedSurface) SwapBuffers(DeviceContext) error              { return window.ErrUnsupported }
func (unsupportedSurface) Load() (OpenGL, error)                        { return Load() }

func Load() (OpenGL, error) {
	return nil, window.ErrUnsupported
}
