package graphics

import "github.com/tinyrange/piko/internal/vecmath"

// Shade applies flat diffuse lighting to a triangle list. Each face is
// darkened by the angle between its normal (counter-clockwise winding) and the
// direction towards the light, keeping ambient of its base colour.
// Degenerate faces have no normal and keep their colour.
func Shade(vertices []Vertex, light vecmath.Vec3[float32], ambient float32) []Vertex {
	out := make([]Vertex, len(vertices))
	copy(out, vertices)

	dir, err := light.Normalize()
	if err != nil {
		return out
	}

	for i := 0; i+2 < len(out); i += 3 {
		a, b, c := out[i].Pos, out[i+1].Pos, out[i+2].Pos
		normal, err := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if err != nil {
			continue
		}
		k := ambient + (1-ambient)*max(0, normal.Dot(dir))
		for j := i; j < i+3; j++ {
			col := out[j].Color
			out[j].Color = Color{col[0] * k, col[1] * k, col[2] * k, col[3]}
		}
	}
	return out
}

// Tetrahedron returns a regular tetrahedron of the given radius centred on the
// origin, one colour per face.
func Tetrahedron(radius float32, faces [4]Color) []Vertex {
	p := [4]vecmath.Vec3[float32]{
		vecmath.V3[float32](1, 1, 1),
		vecmath.V3[float32](1, -1, -1),
		vecmath.V3[float32](-1, 1, -1),
		vecmath.V3[float32](-1, -1, 1),
	}
	for i := range p {
		// |(±1,±1,±1)| is √3 for every corner.
		n, _ := p[i].Normalize()
		p[i] = n.Scale(radius)
	}

	idx := [4][3]int{{0, 1, 2}, {0, 3, 1}, {0, 2, 3}, {1, 3, 2}}
	out := make([]Vertex, 0, 12)
	for f, tri := range idx {
		for _, k := range tri {
			out = append(out, Vertex{Pos: p[k], Color: faces[f]})
		}
	}
	return out
}
