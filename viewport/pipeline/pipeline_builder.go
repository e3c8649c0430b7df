package pipeline

import (
	"github.com/Carmen-Shannon/particleview/viewport/camera"
	"github.com/Carmen-Shannon/particleview/viewport/light"
)

// RenderPipelineOption defines a function type for configuring a render pipeline during creation.
// Options are applied in order during NewRenderPipeline.
type RenderPipelineOption func(*renderPipelineImpl)

// WithCamera sets the orbit camera driving the pipeline's view transform.
// When omitted a camera with default settings is created.
//
// Parameters:
//   - cam: the camera to use
//
// Returns:
//   - RenderPipelineOption: option function to set the camera
func WithCamera(cam camera.OrbitCamera) RenderPipelineOption {
	return func(p *renderPipelineImpl) {
		p.camera = cam
	}
}

// WithLight sets the light consumed by the shading passes. When omitted a
// light at the default position is created.
//
// Parameters:
//   - l: the light to use
//
// Returns:
//   - RenderPipelineOption: option function to set the light
func WithLight(l light.Light) RenderPipelineOption {
	return func(p *renderPipelineImpl) {
		p.light = l
	}
}
