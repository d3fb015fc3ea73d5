package render

import (
	"strings"

	"github.com/gogpu/gputypes"

	"github.com/xorbits/gputemplate/settings"
)

// AdapterOptions translates the graphics settings into adapter selection
// options for the gogpu backend.
func AdapterOptions(g settings.Graphics) *gputypes.RequestAdapterOptions {
	opts := &gputypes.RequestAdapterOptions{}
	if g.GPUPreference == settings.PreferenceHighPerformance && !g.ForceSoftwareRendering {
		opts.PowerPreference = gputypes.PowerPreferenceHighPerformance
	}
	return opts
}

// BackendAllowed reports whether the backend reported by the GPU context is
// allowed by the settings. Unknown backend names are allowed: refusing to
// render on a backend the settings file predates would be worse than
// ignoring the filter.
func BackendAllowed(b settings.Backends, name string) bool {
	switch strings.ToLower(name) {
	case "vulkan":
		return b.Vulkan
	case "metal":
		return b.Metal
	case "dx12", "d3d12":
		return b.DX12
	case "webgpu":
		return b.WebGPU
	case "gl", "gles", "opengl":
		return b.GL
	default:
		return true
	}
}
