// Package vecmath provides the small amount of 3D vector arithmetic the
// renderer needs.
package vecmath

import (
	"errors"
	"fmt"
	"math"

	"github.com/tinyrange/piko/internal/diag"
)

// CodeDivideByZero is the user code carried by division errors.
const CodeDivideByZero = 1

var ErrDivideByZero = errors.New("vecmath: divide by zero")

type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Vec3 is a value type; every operation returns a new vector.
type Vec3[T Number] struct {
	X, Y, Z T
}

func V3[T Number](x, y, z T) Vec3[T] {
	return Vec3[T]{X: x, Y: y, Z: z}
}

func (v Vec3[T]) Add(o Vec3[T]) Vec3[T] {
	return Vec3[T]{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3[T]) Sub(o Vec3[T]) Vec3[T] {
	return Vec3[T]{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Dot returns the scalar product.
func (v Vec3[T]) Dot(o Vec3[T]) T {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3[T]) Scale(s T) Vec3[T] {
	return Vec3[T]{v.X * s, v.Y * s, v.Z * s}
}

// Div divides every component by s. Integer vectors truncate.
func (v Vec3[T]) Div(s T) (Vec3[T], error) {
	if s == 0 {
		return v, divideByZero("Could not divide vector by zero.")
	}
	return Vec3[T]{v.X / s, v.Y / s, v.Z / s}, nil
}

// Cross returns the vector product v × o.
func (v Vec3[T]) Cross(o Vec3[T]) Vec3[T] {
	return Vec3[T]{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3[T]) Length() float64 {
	return math.Sqrt(float64(v.Dot(v)))
}

// Normalize returns v scaled to unit length. The zero vector has no
// direction and is returned unchanged with an error.
func (v Vec3[T]) Normalize() (Vec3[T], error) {
	l := v.Length()
	if l == 0 {
		return v, divideByZero("Could not normalize zero-length vector.")
	}
	return Vec3[T]{
		X: T(float64(v.X) / l),
		Y: T(float64(v.Y) / l),
		Z: T(float64(v.Z) / l),
	}, nil
}

// RotateY rotates v around the Y axis by angle radians, counter-clockwise
// when looking down the axis towards the origin.
func (v Vec3[T]) RotateY(angle float64) Vec3[T] {
	sin, cos := math.Sincos(angle)
	x, z := float64(v.X), float64(v.Z)
	return Vec3[T]{
		X: T(x*cos + z*sin),
		Y: v.Y,
		Z: T(-x*sin + z*cos),
	}
}

func (v Vec3[T]) String() string {
	return fmt.Sprintf("(%v,%v,%v)", v.X, v.Y, v.Z)
}

func divideByZero(msg string) error {
	return fmt.Errorf("%w: %w", ErrDivideByZero, diag.WithCode(msg, CodeDivideByZero))
}
