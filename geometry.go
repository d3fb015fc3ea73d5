package gputemplate

import "math"

// DefaultTriangleScale is the demo triangle's distance from the origin to
// each corner, in clip-space units.
const DefaultTriangleScale = 0.8

// TriangleVertices builds the demo geometry: a triangle with red, green and
// blue corners spaced 120° apart, starting at (0, -scale). Drawn as a
// three-vertex strip.
func TriangleVertices(scale float32) []Vertex {
	rot := RotationZ(2 * math.Pi / 3)
	p0 := Vec4{0, -scale, 0, 1}
	p1 := rot.MulVec4(p0)
	p2 := rot.MulVec4(p1)

	return []Vertex{
		{Color: RGBA(1, 0, 0, 1), Position: Vec2{p0[0], p0[1]}},
		{Color: RGBA(0, 1, 0, 1), Position: Vec2{p1[0], p1[1]}},
		{Color: RGBA(0, 0, 1, 1), Position: Vec2{p2[0], p2[1]}},
	}
}
