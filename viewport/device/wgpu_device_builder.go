package device

import "github.com/cogentcore/webgpu/wgpu"

// WGPUDeviceOption defines a function type for configuring a WebGPU device during creation.
// Options are applied in order during NewWGPUDevice.
type WGPUDeviceOption func(*wgpuDeviceImpl)

// WithPresentMode sets how frames are presented to the display surface.
//
// Parameters:
//   - mode: the presentation mode (PresentModeVSync or PresentModeUncapped)
//
// Returns:
//   - WGPUDeviceOption: option function to set the present mode
func WithPresentMode(mode PresentMode) WGPUDeviceOption {
	return func(d *wgpuDeviceImpl) {
		switch mode {
		case PresentModeVSync:
			d.presentMode = wgpu.PresentModeFifo
		case PresentModeUncapped:
			d.presentMode = wgpu.PresentModeImmediate
		}
	}
}

// WithMSAA sets the multisample anti-aliasing sample count. The default is MSAA4x.
//
// Parameters:
//   - samples: the MSAA sample count (MSAAOff or MSAA4x)
//
// Returns:
//   - WGPUDeviceOption: option function to set the MSAA sample count
func WithMSAA(samples MSAASampleCount) WGPUDeviceOption {
	return func(d *wgpuDeviceImpl) {
		d.sampleCount = samples
	}
}

// WithClearColor sets the color the frame is cleared to at the start of each
// render pass. The default is fully transparent black.
//
// Parameters:
//   - r: red component in the range [0, 1]
//   - g: green component in the range [0, 1]
//   - b: blue component in the range [0, 1]
//   - a: alpha component in the range [0, 1]
//
// Returns:
//   - WGPUDeviceOption: option function to set the clear color
func WithClearColor(r, g, b, a float64) WGPUDeviceOption {
	return func(d *wgpuDeviceImpl) {
		d.clearColor = wgpu.Color{R: r, G: g, B: b, A: a}
	}
}
