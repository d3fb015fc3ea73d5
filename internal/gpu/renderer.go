package gpu

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/xorbits/gputemplate"
)

// gpuTimeout bounds how long RenderFrame waits for the GPU fence.
const gpuTimeout = 5 * time.Second

// Renderer encodes one pass-through frame per RenderFrame call: upload the
// MVP matrix, clear the target, draw the vertex buffer.
//
// The vertex buffer is uploaded once at construction. Only the uniform
// buffer changes between frames.
type Renderer struct {
	device hal.Device
	queue  hal.Queue
	log    *slog.Logger

	pipeline *Pipeline

	vertexBuf   hal.Buffer
	uniformBuf  hal.Buffer
	bindGroup   hal.BindGroup
	vertexCount uint32

	// Offscreen target, created on demand by EnsureTarget. Unused when
	// frames render to a caller-provided surface view.
	targetTex  hal.Texture
	targetView hal.TextureView
	width      uint32
	height     uint32
}

// NewRenderer builds the pipeline and uploads the given vertices. The
// format must match the texture views later passed to RenderFrame.
func NewRenderer(device hal.Device, queue hal.Queue, format gputypes.TextureFormat, vertices []gputemplate.Vertex) (*Renderer, error) {
	pipeline, err := NewPipeline(device, format)
	if err != nil {
		return nil, err
	}

	r := &Renderer{
		device:   device,
		queue:    queue,
		log:      gputemplate.Logger(),
		pipeline: pipeline,
		vertexCount: uint32(len(vertices)), //nolint:gosec // vertex count fits uint32
	}

	vertexData := gputemplate.VertexBytes(vertices)
	vertexBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "passthrough_verts",
		Size:  uint64(len(vertexData)),
		Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}
	r.vertexBuf = vertexBuf
	queue.WriteBuffer(vertexBuf, 0, vertexData)

	uniformBuf, err := device.CreateBuffer(&hal.BufferDescriptor{
		Label: "passthrough_uniforms",
		Size:  gputemplate.DrawUniformsSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("create uniform buffer: %w", err)
	}
	r.uniformBuf = uniformBuf

	bindGroup, err := device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "passthrough_bind",
		Layout: pipeline.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: gputemplate.DrawUniformsSize,
			}},
		},
	})
	if err != nil {
		r.Destroy()
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	r.bindGroup = bindGroup

	return r, nil
}

// SetLogger replaces the renderer's logger. A nil logger silences it.
func (r *Renderer) SetLogger(log *slog.Logger) {
	if log == nil {
		log = gputemplate.Logger()
	}
	r.log = log
}

// VertexCount returns the number of vertices drawn per frame.
func (r *Renderer) VertexCount() uint32 {
	return r.vertexCount
}

// EnsureTarget creates or recreates the offscreen render target if the
// requested dimensions differ from the current size. A no-op when the
// target already matches.
func (r *Renderer) EnsureTarget(w, h uint32) error {
	if r.width == w && r.height == h && r.targetTex != nil {
		return nil
	}
	r.destroyTarget()

	tex, err := r.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "passthrough_target",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   sampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatBGRA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	r.targetTex = tex

	view, err := r.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: "passthrough_target_view",
	})
	if err != nil {
		r.destroyTarget()
		return fmt.Errorf("create target view: %w", err)
	}
	r.targetView = view
	r.width = w
	r.height = h

	r.log.Debug("offscreen target created", "width", w, "height", h)
	return nil
}

// TargetView returns the offscreen target view, or nil before the first
// EnsureTarget call.
func (r *Renderer) TargetView() hal.TextureView {
	return r.targetView
}

// RenderFrame encodes and submits one frame to the given view: upload the
// MVP matrix, clear to clearColor, draw the vertex strip. Blocks until the
// GPU signals completion.
func (r *Renderer) RenderFrame(view hal.TextureView, mvp gputemplate.Mat4, clearColor gputypes.Color) error {
	uniforms := gputemplate.DrawUniforms{MVP: mvp}
	r.queue.WriteBuffer(r.uniformBuf, 0, uniforms.Bytes())

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "passthrough_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("passthrough_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "passthrough_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       view,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clearColor,
		}},
	})

	if r.vertexCount > 0 {
		rp.SetPipeline(r.pipeline.pipeline)
		rp.SetBindGroup(0, r.bindGroup, nil)
		rp.SetVertexBuffer(0, r.vertexBuf, 0)
		rp.Draw(r.vertexCount, 1, 0, 0)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !fenceOK {
		return fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

// RenderOffscreen renders one frame into the internal offscreen target.
// EnsureTarget must have been called first.
func (r *Renderer) RenderOffscreen(mvp gputemplate.Mat4, clearColor gputypes.Color) error {
	if r.targetView == nil {
		return fmt.Errorf("no offscreen target, call EnsureTarget first")
	}
	return r.RenderFrame(r.targetView, mvp, clearColor)
}

// ReadPixels copies the offscreen target into CPU memory and returns
// tightly packed BGRA rows (width*height*4 bytes).
func (r *Renderer) ReadPixels() ([]byte, error) {
	if r.targetTex == nil {
		return nil, fmt.Errorf("no offscreen target, call EnsureTarget first")
	}

	// WebGPU and DX12 require BytesPerRow aligned to 256 bytes.
	bytesPerRow := r.width * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	stagingSize := uint64(alignedBytesPerRow) * uint64(r.height)

	stagingBuf, err := r.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "passthrough_staging",
		Size:  stagingSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	defer r.device.DestroyBuffer(stagingBuf)

	encoder, err := r.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "passthrough_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("passthrough_readback"); err != nil {
		return nil, fmt.Errorf("begin encoding: %w", err)
	}

	// The target sits in attachment layout after rendering; the copy needs
	// transfer-source. No-op on backends without explicit layouts.
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.targetTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})

	encoder.CopyTextureToBuffer(r.targetTex, stagingBuf, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: r.height},
		TextureBase:  hal.ImageCopyTexture{Texture: r.targetTex, MipLevel: 0},
		Size:         hal.Extent3D{Width: r.width, Height: r.height, DepthOrArrayLayers: 1},
	}})

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: r.targetTex,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("end encoding: %w", err)
	}
	defer r.device.FreeCommandBuffer(cmdBuf)

	fence, err := r.device.CreateFence()
	if err != nil {
		return nil, fmt.Errorf("create fence: %w", err)
	}
	defer r.device.DestroyFence(fence)

	if err := r.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	fenceOK, err := r.device.Wait(fence, 1, gpuTimeout)
	if err != nil || !fenceOK {
		return nil, fmt.Errorf("wait for GPU: ok=%v err=%w", fenceOK, err)
	}

	readback := make([]byte, stagingSize)
	if err := r.queue.ReadBuffer(stagingBuf, 0, readback); err != nil {
		return nil, fmt.Errorf("readback: %w", err)
	}

	if alignedBytesPerRow == bytesPerRow {
		return readback[:uint64(bytesPerRow)*uint64(r.height)], nil
	}
	tight := make([]byte, uint64(bytesPerRow)*uint64(r.height))
	for row := uint32(0); row < r.height; row++ {
		srcOff := int(row) * int(alignedBytesPerRow)
		dstOff := int(row) * int(bytesPerRow)
		copy(tight[dstOff:dstOff+int(bytesPerRow)], readback[srcOff:srcOff+int(bytesPerRow)])
	}
	return tight, nil
}

// Destroy releases all GPU resources held by the renderer. Safe to call
// multiple times or on a partially constructed renderer.
func (r *Renderer) Destroy() {
	if r.device == nil {
		return
	}
	r.destroyTarget()
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
		r.bindGroup = nil
	}
	if r.uniformBuf != nil {
		r.device.DestroyBuffer(r.uniformBuf)
		r.uniformBuf = nil
	}
	if r.vertexBuf != nil {
		r.device.DestroyBuffer(r.vertexBuf)
		r.vertexBuf = nil
	}
	if r.pipeline != nil {
		r.pipeline.Destroy()
		r.pipeline = nil
	}
}

func (r *Renderer) destroyTarget() {
	if r.targetView != nil {
		r.device.DestroyTextureView(r.targetView)
		r.targetView = nil
	}
	if r.targetTex != nil {
		r.device.DestroyTexture(r.targetTex)
		r.targetTex = nil
	}
	r.width = 0
	r.height = 0
}
