package pipeline

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/particleview/viewport/camera"
	"github.com/Carmen-Shannon/particleview/viewport/device"
	"github.com/Carmen-Shannon/particleview/viewport/layer"
	"github.com/Carmen-Shannon/particleview/viewport/light"
	"github.com/Carmen-Shannon/particleview/viewport/loader"
)

// LayerID identifies a visibility-toggleable layer. The particle layer has no
// visibility toggle; it draws whenever it is ready and has points.
type LayerID int

const (
	// LayerGround is the textured ground plane.
	LayerGround LayerID = iota

	// LayerSkybox is the surrounding cubemap skybox.
	LayerSkybox
)

// renderPipelineImpl is the implementation of the RenderPipeline interface.
type renderPipelineImpl struct {
	mu *sync.Mutex

	device device.Device
	camera camera.OrbitCamera
	light  light.Light

	ground    layer.Layer
	skybox    layer.Layer
	particles layer.ParticleLayer

	groundVisible bool
	skyboxVisible bool
}

// RenderPipeline orchestrates the per-frame clear and the fixed-order draw of
// the three viewport layers. Ground and skybox are opaque backdrops drawn
// before the blended particle sprites, so the order Ground, Skybox, Particles
// is fixed. Each draw is gated by the layer's visibility flag and readiness.
type RenderPipeline interface {
	// Initialize creates the GPU resources of every layer. A layer that fails
	// is logged and permanently skipped for the rest of the run; the other
	// layers continue unaffected.
	//
	// Parameters:
	//   - ldr: the resource loader textures and programs are obtained from
	Initialize(ldr loader.ResourceLoader)

	// SetVisibility toggles a layer's visibility flag. The flag affects only
	// drawing, never the layer's resources or readiness.
	//
	// Parameters:
	//   - id: the layer to toggle
	//   - visible: whether the layer should be drawn
	SetVisibility(id LayerID, visible bool)

	// SetLimitCamera toggles the orbit camera's spatial limits.
	//
	// Parameters:
	//   - enabled: whether camera limits are enforced
	SetLimitCamera(enabled bool)

	// RenderFrame clears color and depth, draws the visible and ready layers
	// in fixed order, and presents the result.
	//
	// Returns:
	//   - error: error if the frame's surface could not be acquired
	RenderFrame() error

	// ParticleCount returns the particle layer's current primitive count.
	//
	// Returns:
	//   - int: the number of points uploaded to the particle layer
	ParticleCount() int

	// Camera returns the orbit camera driving the view transform.
	//
	// Returns:
	//   - camera.OrbitCamera: the pipeline's camera
	Camera() camera.OrbitCamera

	// Light returns the light consumed by the shading passes.
	//
	// Returns:
	//   - light.Light: the pipeline's light
	Light() light.Light

	// Particles returns the particle layer, used to wire the scene data
	// bridge.
	//
	// Returns:
	//   - layer.ParticleLayer: the particle layer
	Particles() layer.ParticleLayer

	// Teardown releases every layer's GPU resources. Safe to call when some
	// layers failed or were never initialized.
	Teardown()
}

// Compile-time interface compliance check
var _ RenderPipeline = &renderPipelineImpl{}

// NewRenderPipeline creates a pipeline with its three layers on the given
// device. A default camera and light are created unless options provide them.
// Ground and skybox start visible.
//
// Parameters:
//   - dev: the device all layers render to
//   - options: functional options to configure the pipeline
//
// Returns:
//   - RenderPipeline: the newly created pipeline
func NewRenderPipeline(dev device.Device, options ...RenderPipelineOption) RenderPipeline {
	p := &renderPipelineImpl{
		mu:            &sync.Mutex{},
		device:        dev,
		groundVisible: true,
		skyboxVisible: true,
	}

	for _, option := range options {
		option(p)
	}

	if p.camera == nil {
		p.camera = camera.NewOrbitCamera()
	}
	if p.light == nil {
		p.light = light.NewLight()
	}

	p.ground = layer.NewGroundLayer(dev)
	p.skybox = layer.NewSkyboxLayer(dev)
	p.particles = layer.NewParticleLayer(dev)

	return p
}

func (p *renderPipelineImpl) Initialize(ldr loader.ResourceLoader) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, l := range []layer.Layer{p.ground, p.skybox, p.particles} {
		if err := l.Initialize(ldr); err != nil {
			log.Printf("failed to initialize %s layer, it will not be drawn: %v", l.Name(), err)
		}
	}
}

func (p *renderPipelineImpl) SetVisibility(id LayerID, visible bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch id {
	case LayerGround:
		p.groundVisible = visible
	case LayerSkybox:
		p.skyboxVisible = visible
	}
}

func (p *renderPipelineImpl) SetLimitCamera(enabled bool) {
	p.camera.SetLimitEnabled(enabled)
}

func (p *renderPipelineImpl) RenderFrame() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.device.BeginFrame(); err != nil {
		return err
	}

	view := layer.View{
		ViewProjection: p.camera.ViewProjection(),
		CameraPosition: p.camera.Position(),
		LightPosition:  p.light.Position(),
	}

	if p.groundVisible && p.ground.Ready() {
		p.ground.Draw(view)
	}
	if p.skyboxVisible && p.skybox.Ready() {
		p.skybox.Draw(view)
	}
	p.particles.Draw(view)

	p.device.EndFrame()
	p.device.Present()
	return nil
}

func (p *renderPipelineImpl) ParticleCount() int {
	return p.particles.Count()
}

func (p *renderPipelineImpl) Camera() camera.OrbitCamera {
	return p.camera
}

func (p *renderPipelineImpl) Light() light.Light {
	return p.light
}

func (p *renderPipelineImpl) Particles() layer.ParticleLayer {
	return p.particles
}

func (p *renderPipelineImpl) Teardown() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.particles.Teardown()
	p.skybox.Teardown()
	p.ground.Teardown()
}
