// Package graphics runs a frame loop on a window with a bound GL context and
// draws textured quads and shaded triangles with the fixed-function pipeline.
package graphics

import (
	"errors"
	"image"
	"log/slog"
	"time"

	"github.com/tinyrange/piko/internal/vecmath"
	"github.com/tinyrange/piko/internal/window"
)

// ErrStop ends Loop without an error when returned from a frame callback.
var ErrStop = errors.New("stop frame loop")

type Color [4]float32

var (
	ColorWhite = Color{1, 1, 1, 1}
	ColorBlack = Color{0, 0, 0, 1}
)

// Vertex is a coloured point in model space.
type Vertex struct {
	Pos   vecmath.Vec3[float32]
	Color Color
}

// Transform places a mesh in front of the camera. The camera sits at the
// origin looking down -Z.
type Transform struct {
	Position vecmath.Vec3[float32]
	// RotationY in degrees.
	RotationY float32
}

type Frame interface {
	// WindowSize returns the drawable size in pixels.
	WindowSize() (width, height int)

	// Delta is the time since the previous frame started.
	Delta() time.Duration

	Window() *window.Window

	// RenderQuad draws in pixel coordinates with the origin at the top left.
	// A nil texture draws a solid quad.
	RenderQuad(x, y, width, height float32, tex *Texture, color Color)

	// RenderTriangles draws every three vertices as a depth-tested triangle
	// under a perspective projection.
	RenderTriangles(vertices []Vertex, t Transform)

	Screenshot() (image.Image, error)
}

type Options struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool

	// Handler receives the window's events; nil means window.DefaultHandler.
	Handler window.Handler

	// FrameRate caps the loop. Defaults to 60.
	FrameRate int

	// FieldOfView is the vertical field of view in degrees. Defaults to 60.
	FieldOfView float64

	Logger *slog.Logger
}
