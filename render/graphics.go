// Package render drives the demo scene: a spinning RGB triangle under an
// aspect-correct orthographic projection, cleared to a scroll-controlled
// background alpha.
package render

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/xorbits/gputemplate"
	"github.com/xorbits/gputemplate/internal/gpu"
	"github.com/xorbits/gputemplate/settings"
)

var (
	// ErrNotAttached is returned by Frame before a device is attached.
	ErrNotAttached = errors.New("render: no device attached")

	// ErrBadProvider is returned by Attach when the provider does not
	// expose HAL device handles.
	ErrBadProvider = errors.New("render: provider does not expose HAL handles")
)

// maxScrollValue caps the scroll accumulator; value/maxScrollValue becomes
// the clear alpha.
const maxScrollValue = 10

// halProvider is what Attach expects: gogpu's GPU context provider exposes
// the underlying HAL handles through these untyped accessors.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// Graphics owns the demo's render state. Construct with New, hand it a
// device via Attach or AttachDevice, then call Frame once per draw.
//
// All methods are safe for concurrent use.
type Graphics struct {
	mu  sync.Mutex
	log *slog.Logger

	cfg      settings.Settings
	renderer *gpu.Renderer

	// Animation clock. boot restarts on resume; pausedAt accumulates
	// elapsed time across pauses.
	now      func() time.Time
	boot     time.Time
	pausedAt time.Duration
	paused   bool

	// Scroll accumulator, clamped to [0, maxScrollValue] at frame time.
	value float32

	width  int
	height int
}

// New creates a Graphics with no device attached. The window size from the
// settings seeds the aspect ratio until the first Resized call.
func New(cfg settings.Settings) *Graphics {
	return &Graphics{
		log:    gputemplate.Logger(),
		cfg:    cfg,
		now:    time.Now,
		boot:   time.Now(),
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
	}
}

// SetLogger replaces the logger. A nil logger silences it. Propagates to
// the renderer if one is attached.
func (g *Graphics) SetLogger(log *slog.Logger) {
	if log == nil {
		log = gputemplate.Logger()
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.log = log
	if g.renderer != nil {
		g.renderer.SetLogger(log)
	}
}

// Attach extracts the HAL device and queue from a gogpu GPU context
// provider and attaches them.
func (g *Graphics) Attach(provider any) error {
	p, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("%w: %T", ErrBadProvider, provider)
	}
	device, ok := p.HalDevice().(hal.Device)
	if !ok {
		return fmt.Errorf("%w: no hal.Device", ErrBadProvider)
	}
	queue, ok := p.HalQueue().(hal.Queue)
	if !ok {
		return fmt.Errorf("%w: no hal.Queue", ErrBadProvider)
	}
	return g.AttachDevice(device, queue)
}

// AttachDevice builds the pipeline and uploads the triangle geometry.
// Attaching twice replaces the previous renderer.
func (g *Graphics) AttachDevice(device hal.Device, queue hal.Queue) error {
	renderer, err := gpu.NewRenderer(device, queue, gputypes.TextureFormatBGRA8Unorm,
		gputemplate.TriangleVertices(gputemplate.DefaultTriangleScale))
	if err != nil {
		return fmt.Errorf("render: create renderer: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.renderer != nil {
		g.renderer.Destroy()
	}
	g.renderer = renderer
	g.renderer.SetLogger(g.log)
	g.log.Info("device attached", "vertices", renderer.VertexCount())
	return nil
}

// Attached reports whether a device has been attached.
func (g *Graphics) Attached() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.renderer != nil
}

// Scrolled accumulates scroll wheel movement into the background alpha
// control value.
func (g *Graphics) Scrolled(dx, dy float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value += dx + dy
	g.log.Debug("scrolled", "value", g.value)
}

// Value returns the scroll accumulator clamped to its valid range.
func (g *Graphics) Value() float32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return clampValue(g.value)
}

// Resized records the new drawable size for the aspect-ratio correction.
func (g *Graphics) Resized(width, height int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.width = width
	g.height = height
	g.log.Debug("resized", "width", width, "height", height)
}

// TogglePause stops or resumes the rotation clock and returns the new
// paused state. While paused the triangle holds its current angle.
func (g *Graphics) TogglePause() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		g.boot = g.now()
		g.paused = false
	} else {
		g.pausedAt += g.now().Sub(g.boot)
		g.paused = true
	}
	g.log.Debug("pause toggled", "paused", g.paused)
	return g.paused
}

// Paused reports whether the rotation clock is stopped.
func (g *Graphics) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Elapsed returns the animation time: seconds since boot, excluding time
// spent paused.
func (g *Graphics) Elapsed() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.elapsedLocked().Seconds()
}

func (g *Graphics) elapsedLocked() time.Duration {
	if g.paused {
		return g.pausedAt
	}
	return g.pausedAt + g.now().Sub(g.boot)
}

// MVP returns the current frame's matrix: an aspect-correct orthographic
// projection (y down) composed with the elapsed-time rotation.
func (g *Graphics) MVP() gputemplate.Mat4 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mvpLocked()
}

func (g *Graphics) mvpLocked() gputemplate.Mat4 {
	aspect := float32(1)
	if g.width > 0 && g.height > 0 {
		aspect = float32(g.width) / float32(g.height)
	}
	angle := float32(g.elapsedLocked().Seconds())
	return gputemplate.Orthographic(-aspect, aspect, 1, -1, -1, 1).
		Mul(gputemplate.RotationZ(angle))
}

// ClearColor returns the frame's background: black with the scroll value
// mapped to alpha.
func (g *Graphics) ClearColor() gputypes.Color {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clearColorLocked()
}

func (g *Graphics) clearColorLocked() gputypes.Color {
	g.value = clampValue(g.value)
	return gputypes.Color{A: float64(g.value) / maxScrollValue}
}

// Frame renders one frame of the demo scene to the given surface view.
func (g *Graphics) Frame(view hal.TextureView) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.renderer == nil {
		return ErrNotAttached
	}
	return g.renderer.RenderFrame(view, g.mvpLocked(), g.clearColorLocked())
}

// FrameOffscreen renders one frame into an internal texture of the given
// size and returns the tightly packed BGRA pixels. Used for headless
// smoke rendering.
func (g *Graphics) FrameOffscreen(width, height uint32) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.renderer == nil {
		return nil, ErrNotAttached
	}
	if err := g.renderer.EnsureTarget(width, height); err != nil {
		return nil, err
	}
	if err := g.renderer.RenderOffscreen(g.mvpLocked(), g.clearColorLocked()); err != nil {
		return nil, err
	}
	return g.renderer.ReadPixels()
}

// Close releases the renderer's GPU resources. Safe to call multiple
// times; the device itself stays with its owner.
func (g *Graphics) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.renderer != nil {
		g.renderer.Destroy()
		g.renderer = nil
		g.log.Info("graphics closed")
	}
}

func clampValue(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > maxScrollValue {
		return maxScrollValue
	}
	return v
}
