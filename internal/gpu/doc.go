// Package gpu holds the GPU-side half of the pass-through render stage:
// the embedded WGSL shader, the render pipeline, and a renderer that
// encodes one frame per call against the gogpu/wgpu HAL.
package gpu
