package gputemplate

import "golang.org/x/image/math/f32"

// Vec2 is a 2-component float32 vector. Vertex positions use Vec2; the
// geometry is planar and gains z=0, w=1 when lifted into clip space.
type Vec2 = f32.Vec2

// Vec4 is a 4-component float32 vector, used for RGBA colors and
// homogeneous clip-space positions.
type Vec4 = f32.Vec4

// V2 is a convenience constructor for a Vec2.
func V2(x, y float32) Vec2 {
	return Vec2{x, y}
}

// V4 is a convenience constructor for a Vec4.
func V4(x, y, z, w float32) Vec4 {
	return Vec4{x, y, z, w}
}

// RGBA builds a color vector from its channels. Channels are in the 0..1
// range by convention, but no clamping is performed: the pipeline passes
// color values through untouched.
func RGBA(r, g, b, a float32) Vec4 {
	return Vec4{r, g, b, a}
}
