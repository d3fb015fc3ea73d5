// Package gputemplate provides the core data model and reference pipeline
// stages for a minimal GPU-accelerated application template.
//
// # Overview
//
// gputemplate is a Go starter for wgpu-style rendering on the GoGPU stack.
// It ships a single transform-and-shade pipeline: per-vertex 2D positions and
// RGBA colors are transformed by a per-draw model-view-projection matrix and
// rasterized with the interpolated color passed through unchanged.
//
// The repository is organized into:
//   - Root package: vectors, 4x4 matrices, vertex/uniform GPU layouts, and a
//     pure CPU reference of the shader stages.
//   - internal/gpu: the wgpu HAL rendering backend (pipeline, buffers, frame
//     encoding, offscreen readback).
//   - render: the host-facing engine that windowed applications drive.
//   - settings: the persisted window/graphics configuration file.
//   - cmd/gputemplate: the windowed demo host.
//
// # Coordinate System
//
// Geometry is 2D, embedded in clip space as [x, y, 0, 1] before the MVP
// transform. Angles are in radians and rotate counter-clockwise.
//
// # Logging
//
// The package produces no log output by default. Call [SetLogger] to enable
// structured logging across all sub-packages.
package gputemplate

// Version information
const (
	// Version is the current version of the template.
	Version = "0.1.0"

	// VersionMajor is the major version.
	VersionMajor = 0

	// VersionMinor is the minor version.
	VersionMinor = 1

	// VersionPatch is the patch version.
	VersionPatch = 0
)
