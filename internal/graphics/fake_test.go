package graphics

import (
	"io"
	"log/slog"
	"testing"
	"unsafe"

	glpkg "github.com/tinyrange/piko/internal/gl"
	"github.com/tinyrange/piko/internal/window"
)

type fakeBackend struct {
	d       window.Dispatcher
	next    window.Handle
	alive   map[window.Handle]bool
	classes map[string]bool
	width   int
	height  int
	pumps   int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		next:    0x100,
		alive:   make(map[window.Handle]bool),
		classes: make(map[string]bool),
		width:   4,
		height:  3,
	}
}

func (f *fakeBackend) Bind(d window.Dispatcher) { f.d = d }
func (f *fakeBackend) ScreenSize() (int, int)   { return 1024, 768 }

func (f *fakeBackend) RegisterClass(n string) error {
	f.classes[n] = true
	return nil
}

func (f *fakeBackend) UnregisterClass(n string) error {
	delete(f.classes, n)
	return nil
}

func (f *fakeBackend) CreateWindow(class, title string, width, height int, userData uintptr) (window.Handle, error) {
	f.next++
	f.alive[f.next] = true
	return f.next, nil
}

func (f *fakeBackend) ClientSize(window.Handle) (int, int) {
	return f.width, f.height
}

func (f *fakeBackend) Show(window.Handle)                           {}
func (f *fakeBackend) SetTitle(window.Handle, string)               {}
func (f *fakeBackend) EnterFullscreen(window.Handle, int, int, int) {}
func (f *fakeBackend) LeaveFullscreen(window.Handle, int, int)      {}
func (f *fakeBackend) Close() error                                 { return nil }

func (f *fakeBackend) Destroy(h window.Handle) {
	if !f.alive[h] {
		return
	}
	f.alive[h] = false
	f.d.Dispatch(h, window.Event{Kind: window.EventDestroy})
}

func (f *fakeBackend) Pump() bool {
	f.pumps++
	return true
}

// press delivers a key the way a native pump would.
func (f *fakeBackend) press(h window.Handle, key window.Key) {
	f.d.Dispatch(h, window.Event{Kind: window.EventKeyDown, Key: key})
}

type fakeSurface struct {
	gl       *recordingGL
	failInit bool
	swaps    int
	released int
	deleted  int
}

func (s *fakeSurface) GetDC(window.Handle) (glpkg.DeviceContext, error) { return 1, nil }

func (s *fakeSurface) ChoosePixelFormat(glpkg.DeviceContext, glpkg.PixelFormat) (int, error) {
	return 1, nil
}

func (s *fakeSurface) SetPixelFormat(glpkg.DeviceContext, int, glpkg.PixelFormat) error {
	return nil
}

func (s *fakeSurface) CreateContext(glpkg.DeviceContext) (glpkg.RenderingContext, error) {
	return 2, nil
}

func (s *fakeSurface) MakeCurrent(glpkg.DeviceContext, glpkg.RenderingContext) error {
	if s.failInit {
		return io.ErrUnexpectedEOF
	}
	return nil
}

func (s *fakeSurface) ClearCurrent() error { return nil }

func (s *fakeSurface) DeleteContext(glpkg.RenderingContext) error {
	s.deleted++
	return nil
}

func (s *fakeSurface) ReleaseDC(window.Handle, glpkg.DeviceContext) error {
	s.released++
	return nil
}

func (s *fakeSurface) SwapBuffers(glpkg.DeviceContext) error {
	s.swaps++
	return nil
}

func (s *fakeSurface) Load() (glpkg.OpenGL, error) { return s.gl, nil }

// recordingGL counts calls by name. ReadPixels fills row y of the
// framebuffer with the byte value y.
type recordingGL struct {
	calls    map[string]int
	textures uint32
	vertices [][3]float32
	errCode  uint32
}

func newRecordingGL() *recordingGL {
	return &recordingGL{calls: make(map[string]int)}
}

func (g *recordingGL) record(name string) { g.calls[name]++ }

func (g *recordingGL) ClearColor(r, gg, b, a float32)      { g.record("ClearColor") }
func (g *recordingGL) ClearDepth(float64)                  { g.record("ClearDepth") }
func (g *recordingGL) Clear(uint32)                        { g.record("Clear") }
func (g *recordingGL) Viewport(x, y, w, h int32)           { g.record("Viewport") }
func (g *recordingGL) Enable(uint32)                       { g.record("Enable") }
func (g *recordingGL) Disable(uint32)                      { g.record("Disable") }
func (g *recordingGL) DepthFunc(uint32)                    { g.record("DepthFunc") }
func (g *recordingGL) BlendFunc(uint32, uint32)            { g.record("BlendFunc") }
func (g *recordingGL) DeleteTextures(n int32, t *uint32)   { g.record("DeleteTextures") }
func (g *recordingGL) BindTexture(uint32, uint32)          { g.record("BindTexture") }
func (g *recordingGL) TexParameteri(uint32, uint32, int32) { g.record("TexParameteri") }
func (g *recordingGL) PixelStorei(uint32, int32)           { g.record("PixelStorei") }

func (g *recordingGL) GenTextures(n int32, t *uint32) {
	g.record("GenTextures")
	g.textures++
	*t = g.textures
}

func (g *recordingGL) TexImage2D(uint32, int32, int32, int32, int32, int32, uint32, uint32, unsafe.Pointer) {
	g.record("TexImage2D")
}

func (g *recordingGL) TexSubImage2D(uint32, int32, int32, int32, int32, int32, uint32, uint32, unsafe.Pointer) {
	g.record("TexSubImage2D")
}

func (g *recordingGL) Begin(uint32)                     { g.record("Begin") }
func (g *recordingGL) End()                             { g.record("End") }
func (g *recordingGL) Color3f(r, gg, b float32)         { g.record("Color3f") }
func (g *recordingGL) Color4f(r, gg, b, a float32)      { g.record("Color4f") }
func (g *recordingGL) TexCoord2f(s, t float32)          { g.record("TexCoord2f") }
func (g *recordingGL) Vertex2f(x, y float32)            { g.record("Vertex2f") }
func (g *recordingGL) MatrixMode(uint32)                { g.record("MatrixMode") }
func (g *recordingGL) LoadIdentity()                    { g.record("LoadIdentity") }
func (g *recordingGL) PushMatrix()                      { g.record("PushMatrix") }
func (g *recordingGL) PopMatrix()                       { g.record("PopMatrix") }
func (g *recordingGL) Translatef(x, y, z float32)       { g.record("Translatef") }
func (g *recordingGL) Rotatef(angle, x, y, z float32)   { g.record("Rotatef") }
func (g *recordingGL) Ortho(l, r, b, t, n, f float64)   { g.record("Ortho") }
func (g *recordingGL) Frustum(l, r, b, t, n, f float64) { g.record("Frustum") }
func (g *recordingGL) Finish()                          { g.record("Finish") }
func (g *recordingGL) GetString(uint32) string          { return "fake" }
func (g *recordingGL) GetError() uint32                 { return g.errCode }

func (g *recordingGL) Vertex3f(x, y, z float32) {
	g.record("Vertex3f")
	g.vertices = append(g.vertices, [3]float32{x, y, z})
}

func (g *recordingGL) ReadPixels(x, y, width, height int32, format, xtype uint32, pixels unsafe.Pointer) {
	g.record("ReadPixels")
	buf := unsafe.Slice((*byte)(pixels), int(width)*int(height)*4)
	for row := 0; row < int(height); row++ {
		for i := 0; i < int(width)*4; i++ {
			buf[row*int(width)*4+i] = byte(row)
		}
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type harness struct {
	sys     *window.System
	backend *fakeBackend
	surface *fakeSurface
	gl      *recordingGL
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		backend: newFakeBackend(),
		gl:      newRecordingGL(),
	}
	h.surface = &fakeSurface{gl: h.gl}
	h.sys = window.NewSystem(h.backend, window.WithLogger(quietLogger()))
	t.Cleanup(h.sys.Close)
	return h
}

func (h *harness) open(t *testing.T, opts Options) *Window {
	t.Helper()
	opts.Logger = quietLogger()
	if opts.FrameRate == 0 {
		opts.FrameRate = 1000
	}
	ctx := glpkg.NewContextWithSurface(h.surface, glpkg.WithLogger(quietLogger()))
	w, err := Open(h.sys, ctx, opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return w
}
