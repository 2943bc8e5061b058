package gl

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tinyrange/piko/internal/window"
)

var (
	ErrSurface       = errors.New("acquire drawing surface")
	ErrChooseFormat  = errors.New("choose pixel format")
	ErrSetFormat     = errors.New("set pixel format")
	ErrCreateContext = errors.New("create rendering context")
	ErrMakeCurrent   = errors.New("activate rendering context")

	// ErrActive is returned by Init when the Context still holds resources
	// from an earlier Init. Dispose first.
	ErrActive = errors.New("rendering context already initialized")
	// ErrInactive is returned by calls that need a current context.
	ErrInactive = errors.New("rendering context not active")
)

// DeviceContext identifies the drawing surface of one window.
type DeviceContext uintptr

// RenderingContext identifies a native GL context.
type RenderingContext uintptr

// PixelFormat describes the surface format requested from the platform.
type PixelFormat struct {
	DoubleBuffer bool
	DrawToWindow bool
	// Accelerated asks for a format the GL driver can render to.
	Accelerated bool
	RGBA        bool

	ColorBits   uint8
	DepthBits   uint8
	StencilBits uint8
}

var DefaultPixelFormat = PixelFormat{
	DoubleBuffer: true,
	DrawToWindow: true,
	Accelerated:  true,
	RGBA:         true,
	ColorBits:    24,
	DepthBits:    16,
}

// Surface is the native half of a Context. Each method maps to one platform
// call; failures carry a *diag.Error describing it.
type Surface interface {
	GetDC(w window.Handle) (DeviceContext, error)
	ChoosePixelFormat(dc DeviceContext, pf PixelFormat) (int, error)
	SetPixelFormat(dc DeviceContext, format int, pf PixelFormat) error
	CreateContext(dc DeviceContext) (RenderingContext, error)
	MakeCurrent(dc DeviceContext, rc RenderingContext) error
	ClearCurrent() error
	DeleteContext(rc RenderingContext) error
	ReleaseDC(w window.Handle, dc DeviceContext) error
	SwapBuffers(dc DeviceContext) error
	Load() (OpenGL, error)
}

// Context owns a drawing surface and the rendering context bound to it.
//
// The zero handles mean "not acquired". A Context must be used from the
// thread that created the window it is bound to.
type Context struct {
	surface Surface
	log     *slog.Logger
	format  PixelFormat

	window  window.Handle
	dc      DeviceContext
	rc      RenderingContext
	current bool

	funcs OpenGL
}

type Option func(*Context)

func WithLogger(log *slog.Logger) Option {
	return func(c *Context) {
		if log != nil {
			c.log = log
		}
	}
}

// WithPixelFormat overrides DefaultPixelFormat.
func WithPixelFormat(pf PixelFormat) Option {
	return func(c *Context) {
		c.format = pf
	}
}

// NewContext returns an uninitialized Context for the running platform.
func NewContext(opts ...Option) *Context {
	return NewContextWithSurface(newNativeSurface(), opts...)
}

func NewContextWithSurface(surface Surface, opts ...Option) *Context {
	c := &Context{
		surface: surface,
		log:     slog.Default(),
		format:  DefaultPixelFormat,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init acquires the drawing surface of w, negotiates the pixel format, and
// creates and activates a rendering context on it.
//
// Handles are recorded as they are acquired, so after a failure Dispose
// releases whatever was obtained. The format committed to w cannot be changed
// afterwards; binding a second Context to the same window is not supported.
func (c *Context) Init(w window.Handle) error {
	if c.window != 0 || c.dc != 0 || c.rc != 0 {
		return ErrActive
	}

	c.log.Info("initialize rendering context", "window", w)
	c.window = w

	dc, err := c.surface.GetDC(w)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSurface, err)
	}
	c.dc = dc

	format, err := c.surface.ChoosePixelFormat(dc, c.format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrChooseFormat, err)
	}
	if err := c.surface.SetPixelFormat(dc, format, c.format); err != nil {
		return fmt.Errorf("%w: %w", ErrSetFormat, err)
	}
	c.log.Debug("pixel format set", "format", format)

	rc, err := c.surface.CreateContext(dc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreateContext, err)
	}
	c.rc = rc

	if err := c.surface.MakeCurrent(dc, rc); err != nil {
		return fmt.Errorf("%w: %w", ErrMakeCurrent, err)
	}
	c.current = true
	return nil
}

// Dispose unbinds and deletes the rendering context and releases the drawing
// surface. It never fails and may be called in any state; platform errors are
// logged.
func (c *Context) Dispose() {
	if c.window == 0 && c.dc == 0 && c.rc == 0 {
		return
	}
	c.log.Info("dispose rendering context", "window", c.window)

	if c.rc != 0 {
		if err := c.surface.ClearCurrent(); err != nil {
			c.log.Warn("clear current rendering context", "error", err)
		}
		if err := c.surface.DeleteContext(c.rc); err != nil {
			c.log.Warn("delete rendering context", "error", err)
		}
	}
	if c.window != 0 && c.dc != 0 {
		if err := c.surface.ReleaseDC(c.window, c.dc); err != nil {
			c.log.Warn("release drawing surface", "error", err)
		}
	}

	c.window = 0
	c.dc = 0
	c.rc = 0
	c.current = false
	c.funcs = nil
}

// DeviceContext returns the drawing surface, or 0 when none is held.
func (c *Context) DeviceContext() DeviceContext {
	return c.dc
}

func (c *Context) RenderingContext() RenderingContext {
	return c.rc
}

func (c *Context) Window() window.Handle {
	return c.window
}

// Active reports whether Init completed and the context is current.
func (c *Context) Active() bool {
	return c.current
}

// Swap presents the back buffer.
func (c *Context) Swap() error {
	if !c.current {
		return ErrInactive
	}
	return c.surface.SwapBuffers(c.dc)
}

// Functions loads the GL entry points for the current context. The result is
// cached until Dispose.
func (c *Context) Functions() (OpenGL, error) {
	if !c.current {
		return nil, ErrInactive
	}
	if c.funcs == nil {
		funcs, err := c.surface.Load()
		if err != nil {
			return nil, fmt.Errorf("load GL functions: %w", err)
		}
		c.funcs = funcs
	}
	return c.funcs, nil
}
