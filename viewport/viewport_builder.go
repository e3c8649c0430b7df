package viewport

import (
	"github.com/Carmen-Shannon/particleview/viewport/camera"
	"github.com/Carmen-Shannon/particleview/viewport/light"
)

// viewportConfig collects creation-time settings before the pipeline exists.
type viewportConfig struct {
	camera    camera.OrbitCamera
	light     light.Light
	profiling bool
}

// ViewportOption defines a function type for configuring a viewport during creation.
// Options are applied in order during NewViewport.
type ViewportOption func(*viewportConfig)

// WithCamera sets the orbit camera used by the viewport. When omitted a
// camera with default settings is created.
//
// Parameters:
//   - cam: the camera to use
//
// Returns:
//   - ViewportOption: option function to set the camera
func WithCamera(cam camera.OrbitCamera) ViewportOption {
	return func(cfg *viewportConfig) {
		cfg.camera = cam
	}
}

// WithLight sets the light used by the shading passes. When omitted a light
// at the default position is created.
//
// Parameters:
//   - l: the light to use
//
// Returns:
//   - ViewportOption: option function to set the light
func WithLight(l light.Light) ViewportOption {
	return func(cfg *viewportConfig) {
		cfg.light = l
	}
}

// WithProfiling enables per-second frame statistics logging.
//
// Parameters:
//   - enabled: whether the profiler runs
//
// Returns:
//   - ViewportOption: option function to toggle profiling
func WithProfiling(enabled bool) ViewportOption {
	return func(cfg *viewportConfig) {
		cfg.profiling = enabled
	}
}
