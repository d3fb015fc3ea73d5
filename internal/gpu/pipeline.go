package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/xorbits/gputemplate"
)

// sampleCount is the MSAA sample count for the pass-through pipeline.
// The demo renders a single triangle; multisampling buys nothing here.
const sampleCount = 1

// Pipeline owns the shader module, layouts, and render pipeline for the
// pass-through stage. The MVP matrix lives in a uniform buffer at
// @group(0) @binding(0), visible to both shader stages.
type Pipeline struct {
	device hal.Device

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
}

// NewPipeline compiles the pass-through shader and builds the render
// pipeline targeting the given color format.
func NewPipeline(device hal.Device, format gputypes.TextureFormat) (*Pipeline, error) {
	if passthroughShaderSource == "" {
		return nil, ErrEmptyShader
	}

	p := &Pipeline{device: device}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "passthrough_shader",
		Source: hal.ShaderSource{WGSL: passthroughShaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("compile passthrough shader: %w", err)
	}
	p.shader = shader

	uniformLayout, err := device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "passthrough_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create passthrough uniform layout: %w", err)
	}
	p.uniformLayout = uniformLayout

	pipeLayout, err := device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "passthrough_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create passthrough pipeline layout: %w", err)
	}
	p.pipeLayout = pipeLayout

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "passthrough_pipeline",
		Layout: p.pipeLayout,
		Vertex: hal.VertexState{
			Module:     p.shader,
			EntryPoint: "vs_main",
			Buffers:    gputemplate.VertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     p.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					Blend:     &premulBlend,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleStrip,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: sampleCount,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		p.Destroy()
		return nil, fmt.Errorf("create passthrough pipeline: %w", err)
	}
	p.pipeline = pipeline

	return p, nil
}

// UniformLayout returns the bind group layout for the uniform buffer at
// binding 0.
func (p *Pipeline) UniformLayout() hal.BindGroupLayout {
	return p.uniformLayout
}

// Destroy releases all pipeline resources in reverse creation order. Safe
// to call multiple times or on a partially constructed pipeline.
func (p *Pipeline) Destroy() {
	if p.device == nil {
		return
	}
	if p.pipeline != nil {
		p.device.DestroyRenderPipeline(p.pipeline)
		p.pipeline = nil
	}
	if p.pipeLayout != nil {
		p.device.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		p.device.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.shader != nil {
		p.device.DestroyShaderModule(p.shader)
		p.shader = nil
	}
}
