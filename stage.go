package gputemplate

// This file is the CPU reference of the GPU transform-and-shade stage in
// internal/gpu/shaders/passthrough.wgsl. The two must stay in sync: tests
// verify the contract here, and the WGSL program implements the same
// arithmetic per vertex and per fragment on the device.

// FragmentInput is the value produced by the transform stage and consumed by
// the shading stage after rasterization. Hardware interpolates it linearly
// across a primitive's covered fragments; neither stage owns or mutates it.
type FragmentInput struct {
	// ClipPosition is the homogeneous clip-space position.
	ClipPosition Vec4

	// Color is the vertex color, carried through unchanged.
	Color Vec4
}

// TransformVertex is the vertex processing stage: it lifts the 2D position
// into clip space as mvp * [x, y, 0, 1] and copies the color through
// unmodified.
//
// The stage is a pure function with no retained state across invocations.
// It performs no validation: singular or otherwise malformed matrices are
// the caller's responsibility, and NaN/Inf propagate per IEEE-754.
func TransformVertex(mvp Mat4, v Vertex) FragmentInput {
	return FragmentInput{
		ClipPosition: mvp.MulVec4(Vec4{v.Position[0], v.Position[1], 0, 1}),
		Color:        v.Color,
	}
}

// ShadeFragment is the fragment processing stage: the interpolated color is
// emitted directly as the final per-pixel color. There is no discard logic,
// no alpha test, and no texture sampling.
func ShadeFragment(in FragmentInput) Vec4 {
	return in.Color
}

// InterpolateFragment linearly interpolates three vertex outputs with the
// given barycentric weights, mirroring the interpolation hardware performs
// across a triangle. Weights are expected to sum to 1 for points inside the
// primitive; no normalization is applied.
func InterpolateFragment(a, b, c FragmentInput, wa, wb, wc float32) FragmentInput {
	var out FragmentInput
	for i := 0; i < 4; i++ {
		out.ClipPosition[i] = wa*a.ClipPosition[i] + wb*b.ClipPosition[i] + wc*c.ClipPosition[i]
		out.Color[i] = wa*a.Color[i] + wb*b.Color[i] + wc*c.Color[i]
	}
	return out
}
