// Command gputemplate opens a window and renders a spinning RGB triangle
// through a pass-through shader stage.
//
// Space pauses the rotation. The settings file (settings.yml under the
// user config directory) controls the window and graphics setup.
//
// Flags:
//
//	-config PATH  load settings from PATH instead of the default location
//	-validate     print the settings and compile the shader, then exit
//	-smoke        render one frame headless and exit (no window)
//	-verbose      enable debug logging
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/xorbits/gputemplate"
	"github.com/xorbits/gputemplate/internal/gpu"
	"github.com/xorbits/gputemplate/render"
	"github.com/xorbits/gputemplate/settings"
)

func main() {
	configPath := flag.String("config", "", "settings file path (default: user config dir)")
	validate := flag.Bool("validate", false, "print settings and compile the shader, then exit")
	smoke := flag.Bool("smoke", false, "render one frame headless, then exit")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	gputemplate.SetLogger(log)

	if err := run(log, *configPath, *validate, *smoke); err != nil {
		log.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, configPath string, validate, smoke bool) error {
	var cfg settings.Settings
	var err error
	if configPath != "" {
		cfg, err = settings.LoadFrom(configPath)
	} else {
		cfg, err = settings.Load()
	}
	if err != nil {
		// Defaults still came back; the demo can run without a config file.
		log.Warn("failed to load settings, using defaults", "error", err)
	}

	if validate {
		return runValidate(cfg)
	}

	if !cfg.Graphics.Backends.Any() {
		return fmt.Errorf("settings allow no graphics backends")
	}

	if smoke {
		return runSmoke(log, cfg)
	}
	return runWindowed(log, cfg)
}

// runValidate prints the effective settings and compiles the shader
// through naga, so a CI job can catch shader regressions without a GPU.
func runValidate(cfg settings.Settings) error {
	fmt.Printf("window:   %dx%d %q\n", cfg.Window.Width, cfg.Window.Height, cfg.Window.Title)
	fmt.Printf("backends: vulkan=%v metal=%v dx12=%v webgpu=%v gl=%v\n",
		cfg.Graphics.Backends.Vulkan, cfg.Graphics.Backends.Metal,
		cfg.Graphics.Backends.DX12, cfg.Graphics.Backends.WebGPU,
		cfg.Graphics.Backends.GL)
	fmt.Printf("gpu:      preference=%s software=%v vsync=%v\n",
		cfg.Graphics.GPUPreference, cfg.Graphics.ForceSoftwareRendering,
		cfg.Graphics.VSync)

	words, err := gpu.CompileSPIRV()
	if err != nil {
		return fmt.Errorf("shader validation: %w", err)
	}
	fmt.Printf("shader:   ok (%d SPIR-V words)\n", len(words))
	return nil
}

// runSmoke renders a single frame against the noop HAL backend and reads
// the pixels back. Exercises the whole pipeline without a window or a
// physical GPU.
func runSmoke(log *slog.Logger, cfg settings.Settings) error {
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	defer instance.Destroy()

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no adapters")
	}
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open adapter: %w", err)
	}
	defer openDev.Device.Destroy()

	g := render.New(cfg)
	defer g.Close()
	if err := g.AttachDevice(openDev.Device, openDev.Queue); err != nil {
		return err
	}

	w, h := uint32(cfg.Window.Width), uint32(cfg.Window.Height) //nolint:gosec // window dimensions fit uint32
	pixels, err := g.FrameOffscreen(w, h)
	if err != nil {
		return err
	}
	log.Info("smoke frame rendered", "width", w, "height", h, "bytes", len(pixels))
	return nil
}

func runWindowed(log *slog.Logger, cfg settings.Settings) error {
	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(cfg.Window.Title).
		WithSize(cfg.Window.Width, cfg.Window.Height).
		WithContinuousRender(true))

	g := render.New(cfg)

	var frame int
	app.OnDraw(func(dc *gogpu.Context) {
		w, h := dc.Width(), dc.Height()
		if w <= 0 || h <= 0 {
			return
		}

		if !g.Attached() {
			provider := app.GPUContextProvider()
			if provider == nil {
				return
			}
			if err := g.Attach(provider); err != nil {
				log.Error("attach failed", "error", err)
				return
			}
			backend := fmt.Sprint(dc.Backend())
			log.Info("rendering", "backend", backend,
				"options", render.AdapterOptions(cfg.Graphics))
			if !render.BackendAllowed(cfg.Graphics.Backends, backend) {
				log.Warn("active backend not in allowed_backends", "backend", backend)
			}
		}

		g.Resized(w, h)

		view, ok := asHalView(dc.SurfaceView())
		if !ok {
			log.Error("surface view is not a HAL texture view")
			return
		}
		if err := g.Frame(view); err != nil {
			log.Error("frame failed", "frame", frame, "error", err)
		}
		frame++
	})

	app.EventSource().OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if key != gpucontext.KeySpace {
			return
		}
		if g.TogglePause() {
			log.Info("paused")
		} else {
			log.Info("resumed")
		}
	})

	app.OnClose(func() {
		g.Close()
	})

	return app.Run()
}

// asHalView narrows whatever the draw context hands out to a HAL texture
// view.
func asHalView(sv any) (hal.TextureView, bool) {
	view, ok := sv.(hal.TextureView)
	return view, ok
}
