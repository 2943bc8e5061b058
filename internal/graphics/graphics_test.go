package graphics

import (
	"errors"
	"image"
	"testing"

	glpkg "github.com/tinyrange/piko/internal/gl"
	"github.com/tinyrange/piko/internal/vecmath"
	"github.com/tinyrange/piko/internal/window"
)

func TestLoopRunsUntilWindowCloses(t *testing.T) {
	h := newHarness(t)
	w := h.open(t, Options{Title: "loop"})
	handle := w.PlatformWindow().Handle()

	frames := 0
	err := w.Loop(func(f Frame) error {
		frames++
		if frames == 3 {
			h.backend.press(handle, window.KeyEscape)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Loop: %v", err)
	}
	if frames != 3 {
		t.Fatalf("frames = %d, want 3", frames)
	}
	if h.surface.swaps != 2 {
		t.Fatalf("swaps = %d, want 2 (no swap after the window closed)", h.surface.swaps)
	}
	if h.surface.deleted != 1 || h.surface.released != 1 {
		t.Fatalf("context not disposed: deleted=%d released=%d", h.surface.deleted, h.surface.released)
	}
	if h.sys.Len() != 0 || len(h.backend.classes) != 0 {
		t.Fatalf("window not released")
	}
}

func TestLoopStop(t *testing.T) {
	h := newHarness(t)
	w := h.open(t, Options{})

	err := w.Loop(func(f Frame) error { return ErrStop })
	if err != nil {
		t.Fatalf("Loop returned %v for ErrStop", err)
	}
	if !w.PlatformWindow().IsClosed() || w.Context().Active() {
		t.Fatalf("resources left open after Loop")
	}
}

func TestLoopPropagatesErrors(t *testing.T) {
	h := newHarness(t)
	w := h.open(t, Options{})
	boom := errors.New("boom")

	if err := w.Loop(func(f Frame) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Loop = %v, want %v", err, boom)
	}
	if h.surface.released != 1 {
		t.Fatalf("context not disposed after an error")
	}

	w.Close()
	if h.surface.released != 1 {
		t.Fatalf("second Close released again")
	}
}

func TestFrameSetsUpOrthographicProjection(t *testing.T) {
	h := newHarness(t)
	w := h.open(t, Options{})

	w.Loop(func(f Frame) error {
		if width, height := f.WindowSize(); width != 4 || height != 3 {
			t.Fatalf("WindowSize = %dx%d", width, height)
		}
		f.RenderQuad(0, 0, 2, 2, nil, ColorWhite)
		return ErrStop
	})

	for _, name := range []string{"Viewport", "Ortho", "Clear", "Begin", "End"} {
		if h.gl.calls[name] == 0 {
			t.Fatalf("%s not called", name)
		}
	}
	if h.gl.calls["Vertex2f"] != 4 {
		t.Fatalf("quad emitted %d vertices", h.gl.calls["Vertex2f"])
	}
}

func TestSetClearDisablesClearing(t *testing.T) {
	h := newHarness(t)
	w := h.open(t, Options{})
	w.SetClear(false)

	w.Loop(func(f Frame) error { return ErrStop })

	if h.gl.calls["Clear"] != 0 {
		t.Fatalf("Clear called with clearing disabled")
	}
}

func TestRenderTrianglesUsesDepthAndRestoresMatrices(t *testing.T) {
	h := newHarness(t)
	w := h.open(t, Options{})
	mesh := Tetrahedron(1, [4]Color{ColorWhite, ColorWhite, ColorWhite, ColorWhite})

	w.Loop(func(f Frame) error {
		// A trailing partial triangle is ignored.
		f.RenderTriangles(append(mesh, mesh[0]), Transform{
			Position:  vecmath.V3[float32](0, 0, -4),
			RotationY: 30,
		})
		return ErrStop
	})

	if len(h.gl.vertices) != 12 {
		t.Fatalf("emitted %d vertices, want 12", len(h.gl.vertices))
	}
	if h.gl.calls["Frustum"] != 1 || h.gl.calls["DepthFunc"] != 1 {
		t.Fatalf("perspective/depth not set up: %v", h.gl.calls)
	}
	if h.gl.calls["PushMatrix"] != h.gl.calls["PopMatrix"] {
		t.Fatalf("unbalanced matrix stack: push=%d pop=%d", h.gl.calls["PushMatrix"], h.gl.calls["PopMatrix"])
	}
}

func TestScreenshotFlipsRows(t *testing.T) {
	h := newHarness(t)
	w := h.open(t, Options{})

	var img image.Image
	w.Loop(func(f Frame) error {
		var err error
		img, err = f.Screenshot()
		if err != nil {
			t.Fatalf("Screenshot: %v", err)
		}
		return ErrStop
	})

	rgba := img.(*image.RGBA)
	if rgba.Rect.Dx() != 4 || rgba.Rect.Dy() != 3 {
		t.Fatalf("screenshot size %v", rgba.Rect)
	}
	// Framebuffer row 0 is the bottom of the window.
	for y := 0; y < 3; y++ {
		want := byte(2 - y)
		if got := rgba.Pix[y*rgba.Stride]; got != want {
			t.Fatalf("row %d = %d, want %d", y, got, want)
		}
	}
}

func TestScreenshotReportsGLError(t *testing.T) {
	h := newHarness(t)
	w := h.open(t, Options{})
	h.gl.errCode = 0x0502

	w.Loop(func(f Frame) error {
		if _, err := f.Screenshot(); err == nil {
			t.Fatalf("expected GL error")
		}
		return ErrStop
	})
}

func TestNewTextureTracksAndDeletes(t *testing.T) {
	h := newHarness(t)
	w := h.open(t, Options{})

	tex, err := w.NewTexture(image.NewNRGBA(image.Rect(0, 0, 4, 2)))
	if err != nil {
		t.Fatalf("NewTexture: %v", err)
	}
	if width, height := tex.Size(); width != 4 || height != 2 {
		t.Fatalf("Size = %dx%d", width, height)
	}

	w.Close()
	if h.gl.calls["DeleteTextures"] != 1 {
		t.Fatalf("texture not deleted on Close")
	}
	if _, err := w.NewTexture(image.NewNRGBA(image.Rect(0, 0, 1, 1))); err == nil {
		t.Fatalf("NewTexture on a closed window succeeded")
	}
}

func TestOpenReleasesWindowWhenContextFails(t *testing.T) {
	h := newHarness(t)
	h.surface.failInit = true
	ctx := glpkg.NewContextWithSurface(h.surface, glpkg.WithLogger(quietLogger()))

	_, err := Open(h.sys, ctx, Options{Logger: quietLogger()})
	if !errors.Is(err, glpkg.ErrMakeCurrent) {
		t.Fatalf("Open = %v, want ErrMakeCurrent", err)
	}
	if h.sys.Len() != 0 || len(h.backend.classes) != 0 {
		t.Fatalf("window left registered after a failed Open")
	}
	if h.surface.released != 1 || h.surface.deleted != 1 {
		t.Fatalf("partial context not disposed: released=%d deleted=%d", h.surface.released, h.surface.deleted)
	}
}

func TestOpenSizeDefaultsPerDimension(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantW, wantH  int
	}{
		{"both", 800, 600, 800, 600},
		{"width only", 800, 0, 800, 384},
		{"height only", 0, 600, 512, 600},
		{"neither", 0, 0, 512, 384},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			w := h.open(t, Options{Width: tt.width, Height: tt.height})
			defer w.Close()

			gotW, gotH := w.PlatformWindow().Size()
			if gotW != tt.wantW || gotH != tt.wantH {
				t.Fatalf("Size() = %dx%d, want %dx%d", gotW, gotH, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestShade(t *testing.T) {
	red := Color{1, 0, 0, 1}
	// Counter-clockwise seen from +Z, so the normal points at +Z.
	tri := []Vertex{
		{Pos: vecmath.V3[float32](0, 0, 0), Color: red},
		{Pos: vecmath.V3[float32](1, 0, 0), Color: red},
		{Pos: vecmath.V3[float32](0, 1, 0), Color: red},
	}

	lit := Shade(tri, vecmath.V3[float32](0, 0, 5), 0.2)
	if !nearColor(lit[0].Color, red) {
		t.Fatalf("face towards the light = %v, want %v", lit[0].Color, red)
	}

	dark := Shade(tri, vecmath.V3[float32](0, 0, -1), 0.2)
	if !nearColor(dark[1].Color, Color{0.2, 0, 0, 1}) {
		t.Fatalf("face away from the light = %v", dark[1].Color)
	}
	if tri[0].Color != red {
		t.Fatalf("Shade modified its input")
	}
}

func nearColor(a, b Color) bool {
	for i := range a {
		if d := a[i] - b[i]; d < -1e-5 || d > 1e-5 {
			return false
		}
	}
	return true
}

func TestShadeSkipsDegenerateFaces(t *testing.T) {
	c := Color{0.5, 0.5, 0.5, 1}
	p := vecmath.V3[float32](1, 2, 3)
	flat := []Vertex{{Pos: p, Color: c}, {Pos: p, Color: c}, {Pos: p, Color: c}}

	out := Shade(flat, vecmath.V3[float32](0, 1, 0), 0)
	for i, v := range out {
		if v.Color != c {
			t.Fatalf("vertex %d recoloured to %v", i, v.Color)
		}
	}
	if out := Shade(flat, vecmath.Vec3[float32]{}, 0); out[0].Color != c {
		t.Fatalf("zero light direction recoloured")
	}
}

func TestTetrahedronFacesPointOutward(t *testing.T) {
	mesh := Tetrahedron(2, [4]Color{})
	if len(mesh) != 12 {
		t.Fatalf("len = %d", len(mesh))
	}
	for i := 0; i < len(mesh); i += 3 {
		a, b, c := mesh[i].Pos, mesh[i+1].Pos, mesh[i+2].Pos
		normal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c)
		if normal.Dot(centroid) <= 0 {
			t.Fatalf("face %d winds inward", i/3)
		}
		for _, v := range []vecmath.Vec3[float32]{a, b, c} {
			if l := v.Length(); l < 1.999 || l > 2.001 {
				t.Fatalf("vertex %v at radius %v", v, l)
			}
		}
	}
}
