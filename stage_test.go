package gputemplate

import (
	"math"
	"testing"
)

func TestTransformVertexIdentity(t *testing.T) {
	// With the identity matrix, clip xy equals the input position,
	// z = 0 and w = 1.
	tests := []struct {
		name string
		pos  Vec2
	}{
		{"origin", V2(0, 0)},
		{"unit x", V2(1, 0)},
		{"unit y", V2(0, 1)},
		{"negative quadrant", V2(-0.75, -0.25)},
		{"outside clip volume", V2(10, -42)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := TransformVertex(Identity(), Vertex{Position: tt.pos})
			want := Vec4{tt.pos[0], tt.pos[1], 0, 1}
			if out.ClipPosition != want {
				t.Errorf("ClipPosition = %v, want %v", out.ClipPosition, want)
			}
		})
	}
}

func TestTransformVertexScenarioIdentityRed(t *testing.T) {
	v := Vertex{Color: RGBA(1, 0, 0, 1), Position: V2(1, 0)}
	out := TransformVertex(Identity(), v)

	if out.ClipPosition != (Vec4{1, 0, 0, 1}) {
		t.Errorf("ClipPosition = %v, want (1, 0, 0, 1)", out.ClipPosition)
	}
	if got := ShadeFragment(out); got != RGBA(1, 0, 0, 1) {
		t.Errorf("ShadeFragment = %v, want (1, 0, 0, 1)", got)
	}
}

func TestTransformVertexScaleFixesOrigin(t *testing.T) {
	out := TransformVertex(Scaling(2, 2, 2), Vertex{Position: V2(0, 0)})
	if out.ClipPosition != (Vec4{0, 0, 0, 1}) {
		t.Errorf("ClipPosition = %v, want (0, 0, 0, 1)", out.ClipPosition)
	}
}

func TestTransformVertexRotation(t *testing.T) {
	out := TransformVertex(RotationZ(math.Pi/2), Vertex{Position: V2(1, 0)})
	want := Vec4{0, 1, 0, 1}
	if !vec4AlmostEqual(out.ClipPosition, want, matrixEpsilon) {
		t.Errorf("ClipPosition = %v, want %v", out.ClipPosition, want)
	}
}

func TestColorPassThrough(t *testing.T) {
	// The color reaches the fragment output bit-identical for any matrix.
	matrices := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"rotation", RotationZ(1.1)},
		{"projection", Orthographic(-1.5, 1.5, 1, -1, -1, 1)},
		{"singular", Mat4{}},
	}
	colors := []Vec4{
		RGBA(1, 0, 0, 1),
		RGBA(0.25, 0.5, 0.75, 0.125),
		RGBA(0, 0, 0, 0),
		RGBA(2, -1, 0.5, 3), // out-of-range values pass through too
	}

	for _, tm := range matrices {
		t.Run(tm.name, func(t *testing.T) {
			for _, c := range colors {
				out := TransformVertex(tm.m, Vertex{Color: c, Position: V2(0.3, 0.6)})
				if out.Color != c {
					t.Errorf("transform changed color: got %v, want %v", out.Color, c)
				}
				if got := ShadeFragment(out); got != c {
					t.Errorf("ShadeFragment = %v, want %v", got, c)
				}
			}
		})
	}
}

func TestTransformComposition(t *testing.T) {
	// Transforming with A then B equals one transform with B·A: the stage
	// keeps no hidden per-invocation state.
	a := RotationZ(0.7)
	b := Orthographic(-2, 2, 1.5, -1.5, -1, 1)
	v := Vertex{Color: RGBA(0.1, 0.2, 0.3, 1), Position: V2(0.9, -0.4)}

	first := TransformVertex(a, v)
	second := b.MulVec4(first.ClipPosition)

	combined := TransformVertex(b.Mul(a), v)
	if !vec4AlmostEqual(second, combined.ClipPosition, matrixEpsilon) {
		t.Errorf("sequential = %v, combined = %v", second, combined.ClipPosition)
	}
}

func TestTransformVertexStateless(t *testing.T) {
	m := RotationZ(0.4)
	v := Vertex{Color: RGBA(0.5, 0.5, 0.5, 1), Position: V2(0.2, 0.8)}

	first := TransformVertex(m, v)
	for i := 0; i < 10; i++ {
		if got := TransformVertex(m, v); got != first {
			t.Fatalf("invocation %d = %v, want %v", i, got, first)
		}
	}
}

func TestTransformVertexNaNPropagates(t *testing.T) {
	// No special handling: NaN flows through the matrix multiply.
	nan := float32(math.NaN())
	m := Identity()
	m[0] = nan

	out := TransformVertex(m, Vertex{Position: V2(1, 0)})
	if !math.IsNaN(float64(out.ClipPosition[0])) {
		t.Errorf("ClipPosition x = %v, want NaN", out.ClipPosition[0])
	}
	// Untouched components stay finite.
	if math.IsNaN(float64(out.ClipPosition[1])) {
		t.Error("ClipPosition y is NaN, want finite")
	}
}

func TestInterpolateFragment(t *testing.T) {
	a := FragmentInput{ClipPosition: Vec4{0, 0, 0, 1}, Color: RGBA(1, 0, 0, 1)}
	b := FragmentInput{ClipPosition: Vec4{1, 0, 0, 1}, Color: RGBA(0, 1, 0, 1)}
	c := FragmentInput{ClipPosition: Vec4{0, 1, 0, 1}, Color: RGBA(0, 0, 1, 1)}

	tests := []struct {
		name       string
		wa, wb, wc float32
		wantColor  Vec4
	}{
		{"vertex a", 1, 0, 0, RGBA(1, 0, 0, 1)},
		{"vertex b", 0, 1, 0, RGBA(0, 1, 0, 1)},
		{"vertex c", 0, 0, 1, RGBA(0, 0, 1, 1)},
		{"centroid", 1.0 / 3, 1.0 / 3, 1.0 / 3, RGBA(1.0/3, 1.0/3, 1.0/3, 1)},
		{"edge midpoint", 0.5, 0.5, 0, RGBA(0.5, 0.5, 0, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterpolateFragment(a, b, c, tt.wa, tt.wb, tt.wc)
			if !vec4AlmostEqual(got.Color, tt.wantColor, matrixEpsilon) {
				t.Errorf("Color = %v, want %v", got.Color, tt.wantColor)
			}
			if got.ClipPosition[3] != 1 {
				t.Errorf("w = %v, want 1", got.ClipPosition[3])
			}
		})
	}
}
