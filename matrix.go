package gputemplate

import (
	"math"

	"golang.org/x/image/math/f32"
)

// Mat4 represents a 4x4 transformation matrix in row-major order:
// element (r, c) is stored at index 4*r + c, following the
// [golang.org/x/image/math/f32.Mat4] convention.
//
// Transforms compose right to left: (A.Mul(B)).MulVec4(v) applies B first,
// then A. WGSL uniform blocks expect column-major storage; use
// [DrawUniforms.Bytes] when uploading, which transposes at the boundary.
type Mat4 f32.Mat4

// Identity returns the identity transformation matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation creates a translation matrix.
func Translation(x, y, z float32) Mat4 {
	return Mat4{
		1, 0, 0, x,
		0, 1, 0, y,
		0, 0, 1, z,
		0, 0, 0, 1,
	}
}

// Scaling creates a scaling matrix.
func Scaling(x, y, z float32) Mat4 {
	return Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// RotationZ creates a rotation matrix about the z axis (angle in radians,
// counter-clockwise). RotationZ(π/2) maps (1, 0) to (0, 1).
func RotationZ(angle float32) Mat4 {
	sin, cos := math.Sincos(float64(angle))
	s := float32(sin)
	c := float32(cos)
	return Mat4{
		c, -s, 0, 0,
		s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Orthographic creates a right-handed orthographic projection matrix with a
// 0..1 clip-space depth range. Input z values between near and far map into
// the canonical depth range; x and y map the given extents to -1..1.
func Orthographic(left, right, bottom, top, near, far float32) Mat4 {
	rcpWidth := 1 / (right - left)
	rcpHeight := 1 / (top - bottom)
	rcpDepth := 1 / (near - far)
	return Mat4{
		2 * rcpWidth, 0, 0, -(right + left) * rcpWidth,
		0, 2 * rcpHeight, 0, -(top + bottom) * rcpHeight,
		0, 0, rcpDepth, near * rcpDepth,
		0, 0, 0, 1,
	}
}

// Mul multiplies two matrices (m * n). The combined transform applies n
// first, then m.
func (m Mat4) Mul(n Mat4) Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			var sum float32
			for k := 0; k < 4; k++ {
				sum += m[4*r+k] * n[4*k+c]
			}
			out[4*r+c] = sum
		}
	}
	return out
}

// MulVec4 applies the transformation to a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	var out Vec4
	for r := 0; r < 4; r++ {
		out[r] = m[4*r+0]*v[0] + m[4*r+1]*v[1] + m[4*r+2]*v[2] + m[4*r+3]*v[3]
	}
	return out
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var out Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[4*c+r] = m[4*r+c]
		}
	}
	return out
}

// IsIdentity returns true if the matrix is exactly the identity matrix.
func (m Mat4) IsIdentity() bool {
	return m == Identity()
}
