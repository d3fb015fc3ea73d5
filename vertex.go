package gputemplate

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// VertexStride is the byte stride per vertex in the GPU vertex buffer.
// Layout per vertex:
//
//	color    (vec4<f32>) = 16 bytes (location 0)
//	position (vec2<f32>) = 8 bytes  (location 1)
//	padding              = 8 bytes
//
// Total = 32 bytes per vertex. The trailing padding keeps the stride a
// multiple of 16 so the layout matches a host-side struct with vec4
// alignment.
const VertexStride = 32

// vertexPositionOffset is the byte offset of the position attribute.
const vertexPositionOffset = 16

// DrawUniformsSize is the byte size of the per-draw uniform block:
// one mat4x4<f32>.
const DrawUniformsSize = 64

// Vertex is a single vertex of the transform stage: an RGBA color and a 2D
// position. Vertices are immutable per draw call; the stage never writes
// back into the vertex buffer.
type Vertex struct {
	// Color is the RGBA color at attribute location 0. It is passed through
	// the pipeline unchanged.
	Color Vec4

	// Position is the 2D position at attribute location 1. The z component
	// is fixed at 0 when the position is lifted into clip space.
	Position Vec2
}

// DrawUniforms is the per-draw constant block bound at
// @group(0) @binding(0). It is written once per draw and read-only for
// every vertex invocation within that draw.
type DrawUniforms struct {
	// MVP is the combined model-view-projection matrix.
	MVP Mat4
}

// VertexLayout returns the vertex buffer layout for the transform stage:
// float32x4 color at location 0, float32x2 position at location 1.
func VertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: VertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x4, Offset: 0, ShaderLocation: 0},                    // color
				{Format: gputypes.VertexFormatFloat32x2, Offset: vertexPositionOffset, ShaderLocation: 1}, // position
			},
		},
	}
}

// VertexBytes packs vertices into the little-endian GPU buffer layout
// described by VertexLayout.
func VertexBytes(vertices []Vertex) []byte {
	buf := make([]byte, len(vertices)*VertexStride)
	offset := 0
	for i := range vertices {
		writeVertex(buf[offset:], &vertices[i])
		offset += VertexStride
	}
	return buf
}

// writeVertex writes a single vertex into the buffer.
// Layout: color (vec4<f32>) + position (vec2<f32>) + 8 bytes padding.
func writeVertex(buf []byte, v *Vertex) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.Color[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Color[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Color[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.Color[3]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(v.Position[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(v.Position[1]))
	binary.LittleEndian.PutUint32(buf[24:28], 0)
	binary.LittleEndian.PutUint32(buf[28:32], 0)
}

// Bytes packs the uniform block into the little-endian layout of a WGSL
// mat4x4<f32>. WGSL matrices are column-major, while Mat4 is row-major, so
// the matrix is transposed at this boundary.
func (u DrawUniforms) Bytes() []byte {
	buf := make([]byte, DrawUniformsSize)
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			binary.LittleEndian.PutUint32(buf[(c*4+r)*4:], math.Float32bits(u.MVP[4*r+c]))
		}
	}
	return buf
}
