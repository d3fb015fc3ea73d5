package gpu

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/passthrough.wgsl
var passthroughShaderSource string

// ErrEmptyShader indicates the embedded shader source is missing, which
// means the build itself is broken.
var ErrEmptyShader = errors.New("gpu: passthrough shader source is empty")

// PassthroughWGSL returns the WGSL source for the pass-through pipeline.
func PassthroughWGSL() string {
	return passthroughShaderSource
}

// CompileSPIRV compiles the pass-through shader to SPIR-V words. Backends
// that consume WGSL directly never need this; Vulkan-family backends do.
func CompileSPIRV() ([]uint32, error) {
	if passthroughShaderSource == "" {
		return nil, ErrEmptyShader
	}
	spirvBytes, err := naga.Compile(passthroughShaderSource)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile passthrough shader: %w", err)
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
