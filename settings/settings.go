// Package settings loads and persists the application configuration.
//
// Settings live in a YAML file under the user config directory
// (settings.yml inside a gputemplate subdirectory). A missing file is not an
// error: Load writes the defaults back so users have something to edit.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/xorbits/gputemplate"
)

const (
	appDirName = "gputemplate"
	fileName   = "settings.yml"

	// maxFileSize caps how much config we are willing to parse.
	maxFileSize = 1024 * 1024
)

var (
	// ErrWorldWritable is returned when the settings file is writable by
	// anyone. Loading it would let another local user reconfigure the app.
	ErrWorldWritable = errors.New("settings: file is world-writable, refusing to load")

	// ErrTooLarge is returned when the settings file exceeds maxFileSize.
	ErrTooLarge = errors.New("settings: file too large")
)

// Preference selects which adapter the app asks the instance for.
type Preference string

const (
	PreferenceHighPerformance Preference = "high-performance"
	PreferenceLowPower        Preference = "low-power"
)

// UnmarshalYAML validates the preference string; an empty value keeps the
// default.
func (p *Preference) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	switch Preference(s) {
	case PreferenceHighPerformance, PreferenceLowPower:
		*p = Preference(s)
	case "":
		*p = PreferenceHighPerformance
	default:
		return fmt.Errorf("settings: unknown gpu_preference %q", s)
	}
	return nil
}

// Window configures the application window.
type Window struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`

	// ForceWayland and ForceX11 are Linux-only hints. When both are set
	// they conflict and Load clears both.
	ForceWayland bool `yaml:"force_wayland"`
	ForceX11     bool `yaml:"force_x11"`
}

// Backends lists which GPU backends the app may use. All modern backends are
// allowed by default; GL is opt-in.
type Backends struct {
	Vulkan bool `yaml:"vulkan"`
	Metal  bool `yaml:"metal"`
	DX12   bool `yaml:"dx12"`
	WebGPU bool `yaml:"webgpu"`
	GL     bool `yaml:"gl"`
}

// Any reports whether at least one backend is allowed.
func (b Backends) Any() bool {
	return b.Vulkan || b.Metal || b.DX12 || b.WebGPU || b.GL
}

// Graphics configures adapter selection and presentation.
type Graphics struct {
	Backends               Backends   `yaml:"allowed_backends"`
	GPUPreference          Preference `yaml:"gpu_preference"`
	ForceSoftwareRendering bool       `yaml:"force_software_rendering"`
	VSync                  bool       `yaml:"vsync"`
}

// Settings is the full persisted configuration.
type Settings struct {
	Window   Window   `yaml:"window"`
	Graphics Graphics `yaml:"graphics"`
}

// Default returns the configuration used when no settings file exists.
func Default() Settings {
	return Settings{
		Window: Window{
			Width:  1280,
			Height: 720,
			Title:  "GPU Template",
		},
		Graphics: Graphics{
			Backends: Backends{
				Vulkan: true,
				Metal:  true,
				DX12:   true,
				WebGPU: true,
			},
			GPUPreference: PreferenceHighPerformance,
			VSync:         true,
		},
	}
}

// Path returns the location of the settings file under the user config
// directory.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("settings: resolve config dir: %w", err)
	}
	return filepath.Join(dir, appDirName, fileName), nil
}

// Load reads the settings file from the user config directory. A missing file
// yields the defaults and writes them back so the user has a file to edit.
// Any other failure also yields the defaults; the error says why.
func Load() (Settings, error) {
	path, err := Path()
	if err != nil {
		return Default(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads settings from an explicit path. See Load.
func LoadFrom(path string) (Settings, error) {
	log := gputemplate.Logger()

	info, err := os.Stat(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Default(), fmt.Errorf("settings: stat %s: %w", path, err)
		}
		s := Default()
		if err := SaveTo(path, s); err != nil {
			return s, err
		}
		log.Info("wrote default settings", "path", path)
		return s, nil
	}

	// A world-writable config lets any local user reconfigure the app.
	// Permission bits mean nothing on Windows, skip the check there.
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o002 != 0 {
		return Default(), fmt.Errorf("%w: %s", ErrWorldWritable, path)
	}
	if info.Size() > maxFileSize {
		return Default(), fmt.Errorf("%w: %s (%d bytes)", ErrTooLarge, path, info.Size())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("settings: read %s: %w", path, err)
	}

	s := Default()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Default(), fmt.Errorf("settings: parse %s: %w", path, err)
	}

	if s.Window.ForceWayland && s.Window.ForceX11 {
		log.Warn("both wayland and x11 were forced, ignoring both")
		s.Window.ForceWayland = false
		s.Window.ForceX11 = false
	}

	return s, nil
}

// Save writes the settings to the user config directory.
func Save(s Settings) error {
	path, err := Path()
	if err != nil {
		return err
	}
	return SaveTo(path, s)
}

// SaveTo writes the settings to an explicit path, creating parent
// directories as needed.
func SaveTo(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("settings: create config dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	return nil
}
