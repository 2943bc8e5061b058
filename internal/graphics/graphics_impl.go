package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"math"
	"time"
	"unsafe"

	glpkg "github.com/tinyrange/piko/internal/gl"
	"github.com/tinyrange/piko/internal/window"
)

const (
	defaultFrameRate   = 60
	defaultFieldOfView = 60
	nearPlane          = 0.1
	farPlane           = 100
)

// Window is a native window with a current rendering context.
type Window struct {
	sys *window.System
	win *window.Window
	ctx *glpkg.Context
	gl  glpkg.OpenGL
	log *slog.Logger

	ownsSystem bool
	closed     bool

	clearEnabled bool
	clearColor   Color
	frameRate    int
	fieldOfView  float64

	textures []*Texture
}

type Texture struct {
	id uint32
	w  int
	h  int
}

func (t *Texture) Size() (int, int) {
	return t.w, t.h
}

// New opens the platform windowing system, creates a window on it and binds
// a rendering context. Close releases all three.
func New(opts Options) (*Window, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	sys, err := window.NewPlatformSystem(window.WithLogger(log))
	if err != nil {
		return nil, err
	}
	w, err := Open(sys, glpkg.NewContext(glpkg.WithLogger(log)), opts)
	if err != nil {
		sys.Close()
		return nil, err
	}
	w.ownsSystem = true
	return w, nil
}

// Open creates a window on sys and binds ctx to it. The caller keeps
// ownership of sys.
func Open(sys *window.System, ctx *glpkg.Context, opts Options) (w *Window, err error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	// Non-positive dimensions default to half the display one at a time.
	winOpts := []window.Option{window.WithSize(opts.Width, opts.Height)}
	if opts.Handler != nil {
		winOpts = append(winOpts, window.WithHandler(opts.Handler))
	}

	win, err := window.New(sys, opts.Title, winOpts...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			ctx.Dispose()
			win.Release()
		}
	}()

	win.Show()
	if err := ctx.Init(win.Handle()); err != nil {
		return nil, err
	}
	gl, err := ctx.Functions()
	if err != nil {
		return nil, err
	}
	log.Info("rendering context ready",
		"vendor", gl.GetString(glpkg.Vendor),
		"renderer", gl.GetString(glpkg.Renderer),
		"version", gl.GetString(glpkg.Version))

	gl.Enable(glpkg.Blend)
	gl.BlendFunc(glpkg.SrcAlpha, glpkg.OneMinusSrcAlpha)
	gl.ClearDepth(1)

	if opts.Fullscreen {
		win.SetFullscreen(true)
	}

	w = &Window{
		sys:          sys,
		win:          win,
		ctx:          ctx,
		gl:           gl,
		log:          log,
		clearEnabled: true,
		clearColor:   ColorBlack,
		frameRate:    opts.FrameRate,
		fieldOfView:  opts.FieldOfView,
	}
	if w.frameRate <= 0 {
		w.frameRate = defaultFrameRate
	}
	if w.fieldOfView <= 0 {
		w.fieldOfView = defaultFieldOfView
	}
	return w, nil
}

func (w *Window) PlatformWindow() *window.Window {
	return w.win
}

func (w *Window) Context() *glpkg.Context {
	return w.ctx
}

func (w *Window) SetClear(enabled bool) {
	w.clearEnabled = enabled
}

func (w *Window) SetClearColor(c Color) {
	w.clearColor = c
}

func (w *Window) NewTexture(img image.Image) (*Texture, error) {
	if w.closed {
		return nil, errors.New("graphics window is closed")
	}
	nrgba := image.NewNRGBA(img.Bounds())
	draw.Draw(nrgba, nrgba.Bounds(), img, img.Bounds().Min, draw.Src)

	var id uint32
	w.gl.GenTextures(1, &id)
	w.gl.BindTexture(glpkg.Texture2D, id)
	w.gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMinFilter, glpkg.Nearest)
	w.gl.TexParameteri(glpkg.Texture2D, glpkg.TextureMagFilter, glpkg.Nearest)
	w.gl.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapS, glpkg.ClampToEdge)
	w.gl.TexParameteri(glpkg.Texture2D, glpkg.TextureWrapT, glpkg.ClampToEdge)

	if len(nrgba.Pix) > 0 {
		w.gl.PixelStorei(glpkg.UnpackAlignment, 1)
		w.gl.TexImage2D(
			glpkg.Texture2D,
			0,
			int32(glpkg.RGBA),
			int32(nrgba.Rect.Dx()),
			int32(nrgba.Rect.Dy()),
			0,
			glpkg.RGBA,
			glpkg.UnsignedByte,
			unsafe.Pointer(&nrgba.Pix[0]),
		)
	}
	if code := w.gl.GetError(); code != glpkg.NoError {
		w.gl.DeleteTextures(1, &id)
		return nil, fmt.Errorf("upload texture: GL error %#x", code)
	}

	tex := &Texture{id: id, w: nrgba.Rect.Dx(), h: nrgba.Rect.Dy()}
	w.textures = append(w.textures, tex)
	return tex, nil
}

// Loop calls step once per frame until the window closes or step returns an
// error. The window, its context and, for windows from New, the windowing
// system are released before Loop returns.
func (w *Window) Loop(step func(f Frame) error) error {
	defer w.Close()

	interval := time.Second / time.Duration(w.frameRate)
	last := time.Now()
	for w.sys.Poll() && !w.win.IsClosed() {
		start := time.Now()
		frame := &glFrame{w: w, delta: start.Sub(last)}
		last = start

		w.prepareFrame()
		if err := step(frame); err != nil {
			if errors.Is(err, ErrStop) {
				return nil
			}
			return err
		}
		if w.win.IsClosed() {
			break
		}
		if err := w.ctx.Swap(); err != nil {
			return fmt.Errorf("swap buffers: %w", err)
		}

		if wait := interval - time.Since(start); wait > 0 {
			time.Sleep(wait)
		}
	}
	return nil
}

// Close deletes textures, disposes the context and releases the window. It is
// safe to call more than once.
func (w *Window) Close() {
	if w.closed {
		return
	}
	w.closed = true

	if w.ctx.Active() {
		for _, t := range w.textures {
			w.gl.DeleteTextures(1, &t.id)
		}
	}
	w.textures = nil

	w.ctx.Dispose()
	w.win.Release()
	if w.ownsSystem {
		w.sys.Close()
	}
}

func (w *Window) prepareFrame() {
	bw, bh := w.win.ClientSize()

	w.gl.Viewport(0, 0, int32(bw), int32(bh))
	w.gl.MatrixMode(glpkg.Projection)
	w.gl.LoadIdentity()
	w.gl.Ortho(0, float64(bw), float64(bh), 0, -1, 1)
	w.gl.MatrixMode(glpkg.ModelView)
	w.gl.LoadIdentity()
	w.gl.Disable(glpkg.DepthTest)

	if w.clearEnabled {
		c := w.clearColor
		w.gl.ClearColor(c[0], c[1], c[2], c[3])
		w.gl.Clear(glpkg.ColorBufferBit | glpkg.DepthBufferBit)
	}
}

type glFrame struct {
	w     *Window
	delta time.Duration
}

func (f *glFrame) WindowSize() (int, int) {
	return f.w.win.ClientSize()
}

func (f *glFrame) Delta() time.Duration {
	return f.delta
}

func (f *glFrame) Window() *window.Window {
	return f.w.win
}

func (f *glFrame) RenderQuad(x, y, width, height float32, tex *Texture, color Color) {
	gl := f.w.gl
	if tex != nil {
		gl.Enable(glpkg.Texture2D)
		gl.BindTexture(glpkg.Texture2D, tex.id)
	} else {
		gl.Disable(glpkg.Texture2D)
	}

	gl.Begin(glpkg.TriangleStrip)
	gl.Color4f(color[0], color[1], color[2], color[3])
	gl.TexCoord2f(0, 0)
	gl.Vertex2f(x, y)
	gl.TexCoord2f(1, 0)
	gl.Vertex2f(x+width, y)
	gl.TexCoord2f(0, 1)
	gl.Vertex2f(x, y+height)
	gl.TexCoord2f(1, 1)
	gl.Vertex2f(x+width, y+height)
	gl.End()
}

func (f *glFrame) RenderTriangles(vertices []Vertex, t Transform) {
	gl := f.w.gl
	bw, bh := f.w.win.ClientSize()
	aspect := 1.0
	if bh > 0 {
		aspect = float64(bw) / float64(bh)
	}
	top := nearPlane * math.Tan(f.w.fieldOfView*math.Pi/360)

	gl.MatrixMode(glpkg.Projection)
	gl.PushMatrix()
	gl.LoadIdentity()
	gl.Frustum(-top*aspect, top*aspect, -top, top, nearPlane, farPlane)

	gl.MatrixMode(glpkg.ModelView)
	gl.PushMatrix()
	gl.LoadIdentity()
	gl.Translatef(t.Position.X, t.Position.Y, t.Position.Z)
	gl.Rotatef(t.RotationY, 0, 1, 0)

	gl.Disable(glpkg.Texture2D)
	gl.Enable(glpkg.DepthTest)
	gl.DepthFunc(glpkg.Lequal)

	gl.Begin(glpkg.Triangles)
	for _, v := range vertices[:len(vertices)/3*3] {
		gl.Color4f(v.Color[0], v.Color[1], v.Color[2], v.Color[3])
		gl.Vertex3f(v.Pos.X, v.Pos.Y, v.Pos.Z)
	}
	gl.End()

	gl.Disable(glpkg.DepthTest)
	gl.PopMatrix()
	gl.MatrixMode(glpkg.Projection)
	gl.PopMatrix()
	gl.MatrixMode(glpkg.ModelView)
}

func (f *glFrame) Screenshot() (image.Image, error) {
	bw, bh := f.w.win.ClientSize()
	if bw <= 0 || bh <= 0 {
		return nil, fmt.Errorf("screenshot: empty drawable %dx%d", bw, bh)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bw, bh))
	f.w.gl.PixelStorei(glpkg.PackAlignment, 1)
	f.w.gl.ReadPixels(0, 0, int32(bw), int32(bh), glpkg.RGBA, glpkg.UnsignedByte, unsafe.Pointer(&rgba.Pix[0]))
	if code := f.w.gl.GetError(); code != glpkg.NoError {
		return nil, fmt.Errorf("screenshot: GL error %#x", code)
	}

	// GL rows run bottom to top.
	flipped := image.NewRGBA(rgba.Rect)
	for y := 0; y < bh; y++ {
		src := rgba.Pix[y*rgba.Stride : (y+1)*rgba.Stride]
		dst := (bh - 1 - y) * flipped.Stride
		copy(flipped.Pix[dst:dst+flipped.Stride], src)
	}
	return flipped, nil
}
