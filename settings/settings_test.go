package settings

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.Window.Width != 1280 || s.Window.Height != 720 {
		t.Errorf("default resolution = %dx%d, want 1280x720", s.Window.Width, s.Window.Height)
	}
	if s.Window.Title == "" {
		t.Error("default title is empty")
	}
	if !s.Graphics.VSync {
		t.Error("vsync should default to on")
	}
	if s.Graphics.GPUPreference != PreferenceHighPerformance {
		t.Errorf("gpu_preference = %q, want high-performance", s.Graphics.GPUPreference)
	}
	if !s.Graphics.Backends.Vulkan || !s.Graphics.Backends.Metal || !s.Graphics.Backends.DX12 || !s.Graphics.Backends.WebGPU {
		t.Errorf("modern backends should default to allowed: %+v", s.Graphics.Backends)
	}
	if s.Graphics.Backends.GL {
		t.Error("GL should default to disallowed")
	}
}

func TestLoadFromMissingWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "settings.yml")

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if s != Default() {
		t.Errorf("LoadFrom(missing) = %+v, want defaults", s)
	}

	// The defaults must now exist on disk.
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("defaults were not written back: %v", err)
	}
	again, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("second LoadFrom() error: %v", err)
	}
	if again != s {
		t.Errorf("reloaded settings = %+v, want %+v", again, s)
	}
}

func TestLoadFromRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")

	want := Default()
	want.Window.Width = 800
	want.Window.Height = 600
	want.Window.Title = "custom"
	want.Graphics.VSync = false
	want.Graphics.GPUPreference = PreferenceLowPower
	want.Graphics.Backends.GL = true

	if err := SaveTo(path, want); err != nil {
		t.Fatalf("SaveTo() error: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if got != want {
		t.Errorf("round trip = %+v, want %+v", got, want)
	}
}

func TestLoadFromPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	partial := "window:\n  title: only a title\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if s.Window.Title != "only a title" {
		t.Errorf("title = %q, want %q", s.Window.Title, "only a title")
	}
	// Everything the file omits stays at the default.
	if s.Window.Width != 1280 || s.Window.Height != 720 {
		t.Errorf("resolution = %dx%d, want defaults", s.Window.Width, s.Window.Height)
	}
	if !s.Graphics.VSync {
		t.Error("vsync should stay at the default")
	}
}

func TestLoadFromConflictingDisplayServers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	conflict := "window:\n  force_wayland: true\n  force_x11: true\n"
	if err := os.WriteFile(path, []byte(conflict), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom() error: %v", err)
	}
	if s.Window.ForceWayland || s.Window.ForceX11 {
		t.Errorf("conflicting force flags not cleared: wayland=%v x11=%v",
			s.Window.ForceWayland, s.Window.ForceX11)
	}
}

func TestLoadFromInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	if err := os.WriteFile(path, []byte("window: [not a mapping"), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFrom(path)
	if err == nil {
		t.Fatal("LoadFrom() succeeded on invalid YAML")
	}
	if s != Default() {
		t.Errorf("LoadFrom(invalid) = %+v, want defaults", s)
	}
}

func TestLoadFromUnknownPreference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	if err := os.WriteFile(path, []byte("graphics:\n  gpu_preference: fastest\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Fatal("LoadFrom() accepted unknown gpu_preference")
	} else if !strings.Contains(err.Error(), "gpu_preference") {
		t.Errorf("error = %v, want mention of gpu_preference", err)
	}
}

func TestLoadFromWorldWritable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	path := filepath.Join(t.TempDir(), "settings.yml")
	if err := os.WriteFile(path, []byte("window:\n  title: x\n"), 0o666); err != nil {
		t.Fatal(err)
	}
	// WriteFile permissions pass through the umask; force the bits.
	if err := os.Chmod(path, 0o666); err != nil {
		t.Fatal(err)
	}

	s, err := LoadFrom(path)
	if !errors.Is(err, ErrWorldWritable) {
		t.Fatalf("LoadFrom() error = %v, want ErrWorldWritable", err)
	}
	if s != Default() {
		t.Errorf("LoadFrom(world-writable) = %+v, want defaults", s)
	}
}

func TestLoadFromTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yml")
	big := make([]byte, maxFileSize+1)
	for i := range big {
		big[i] = '#'
	}
	if err := os.WriteFile(path, big, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("LoadFrom() error = %v, want ErrTooLarge", err)
	}
}

func TestBackendsAny(t *testing.T) {
	if (Backends{}).Any() {
		t.Error("empty Backends.Any() = true, want false")
	}
	if !(Backends{GL: true}).Any() {
		t.Error("Backends{GL}.Any() = false, want true")
	}
	if !Default().Graphics.Backends.Any() {
		t.Error("default Backends.Any() = false, want true")
	}
}
