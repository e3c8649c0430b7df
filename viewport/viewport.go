// package viewport is the real-time 3D viewport core: a mouse-driven orbit
// camera over a ground plane, a cubemap skybox, and a point cloud of
// externally simulated particles. The host application adapts its native
// window and input events to the Viewport command surface; the particle
// simulation itself stays outside and hands its position buffer over through
// BindParticleData.
package viewport

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/particleview/common"
	"github.com/Carmen-Shannon/particleview/viewport/bridge"
	"github.com/Carmen-Shannon/particleview/viewport/camera"
	"github.com/Carmen-Shannon/particleview/viewport/device"
	"github.com/Carmen-Shannon/particleview/viewport/loader"
	"github.com/Carmen-Shannon/particleview/viewport/pipeline"
	"github.com/Carmen-Shannon/particleview/viewport/profiler"

	"github.com/go-gl/mathgl/mgl32"
)

// viewportImpl is the implementation of the Viewport interface.
type viewportImpl struct {
	mu *sync.Mutex

	device   device.Device
	pipeline pipeline.RenderPipeline
	bridge   bridge.SceneDataBridge
	profiler *profiler.Profiler
}

// Viewport is the command surface the host application drives. All calls are
// expected from a single thread: pointer events, ticks, and resizes never
// overlap, and every GPU interaction happens synchronously inside the call.
type Viewport interface {
	// PointerDown records the pointer position as the reference for the next
	// drag.
	//
	// Parameters:
	//   - x: window-space horizontal coordinate
	//   - y: window-space vertical coordinate
	PointerDown(x, y float64)

	// PointerDrag applies a drag to the orbit camera. The primary button
	// rotates, the secondary button zooms.
	//
	// Parameters:
	//   - x: window-space horizontal coordinate
	//   - y: window-space vertical coordinate
	//   - buttons: the pointer buttons held during the drag
	PointerDrag(x, y float64, buttons common.ButtonMask)

	// Resize updates the drawing surface and the camera projection for a new
	// window size.
	//
	// Parameters:
	//   - width: new width in pixels
	//   - height: new height in pixels
	Resize(width, height int)

	// Tick advances one frame: the particle buffer is refreshed from the
	// bound reference and the frame is rendered and presented.
	//
	// Parameters:
	//   - deltaSeconds: wall-clock time since the previous tick
	//
	// Returns:
	//   - int: the current particle count, for external display
	Tick(deltaSeconds float64) int

	// SetGroundVisible toggles drawing of the ground plane.
	//
	// Parameters:
	//   - visible: whether the ground is drawn
	SetGroundVisible(visible bool)

	// SetSkyboxVisible toggles drawing of the skybox.
	//
	// Parameters:
	//   - visible: whether the skybox is drawn
	SetSkyboxVisible(visible bool)

	// SetLimitCamera toggles the orbit camera's spatial limits.
	//
	// Parameters:
	//   - enabled: whether camera limits are enforced
	SetLimitCamera(enabled bool)

	// SetLightPosition moves the light consumed by the shading passes.
	//
	// Parameters:
	//   - position: the new world-space light position
	SetLightPosition(position mgl32.Vec3)

	// BindParticleData points the viewport at an externally owned particle
	// position buffer. The buffer is read once per tick; it is never copied
	// or retained beyond that read. Passing nil detaches the buffer.
	//
	// Parameters:
	//   - reference: pointer to the externally owned position slice
	BindParticleData(reference *[]mgl32.Vec3)

	// ParticleCount returns the number of particles currently uploaded.
	//
	// Returns:
	//   - int: the current particle count
	ParticleCount() int

	// Camera returns the orbit camera, for hosts that need to read view
	// state.
	//
	// Returns:
	//   - camera.OrbitCamera: the viewport's camera
	Camera() camera.OrbitCamera

	// Close releases every GPU resource and shuts the device down.
	//
	// Returns:
	//   - error: error if the device failed to close cleanly
	Close() error
}

// Compile-time interface compliance check
var _ Viewport = &viewportImpl{}

// NewViewport creates the viewport on the given device, initializes all
// render layers through the loader, and wires the scene data bridge. Layers
// whose resources fail to load are logged and skipped for the rest of the
// run; the viewport itself still comes up.
//
// Parameters:
//   - dev: the device frames are rendered to
//   - ldr: the resource loader layer assets are obtained from
//   - options: functional options to configure the viewport
//
// Returns:
//   - Viewport: the newly created viewport
func NewViewport(dev device.Device, ldr loader.ResourceLoader, options ...ViewportOption) Viewport {
	v := &viewportImpl{
		mu:     &sync.Mutex{},
		device: dev,
	}

	cfg := &viewportConfig{}
	for _, option := range options {
		option(cfg)
	}

	pipelineOptions := []pipeline.RenderPipelineOption{}
	if cfg.camera != nil {
		pipelineOptions = append(pipelineOptions, pipeline.WithCamera(cfg.camera))
	}
	if cfg.light != nil {
		pipelineOptions = append(pipelineOptions, pipeline.WithLight(cfg.light))
	}

	v.pipeline = pipeline.NewRenderPipeline(dev, pipelineOptions...)
	v.pipeline.Initialize(ldr)
	v.bridge = bridge.NewSceneDataBridge(v.pipeline.Particles())

	if cfg.profiling {
		v.profiler = profiler.NewProfiler()
	}

	return v
}

func (v *viewportImpl) PointerDown(x, y float64) {
	v.pipeline.Camera().PointerDown(x, y)
}

func (v *viewportImpl) PointerDrag(x, y float64, buttons common.ButtonMask) {
	v.pipeline.Camera().PointerDrag(x, y, buttons)
}

func (v *viewportImpl) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.device.Resize(width, height)
	v.pipeline.Camera().Resize(width, height)
}

func (v *viewportImpl) Tick(_ float64) int {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.bridge.Refresh()
	if err := v.pipeline.RenderFrame(); err != nil {
		log.Printf("frame skipped: %v", err)
	}

	count := v.pipeline.ParticleCount()
	if v.profiler != nil {
		v.profiler.Tick(count)
	}
	return count
}

func (v *viewportImpl) SetGroundVisible(visible bool) {
	v.pipeline.SetVisibility(pipeline.LayerGround, visible)
}

func (v *viewportImpl) SetSkyboxVisible(visible bool) {
	v.pipeline.SetVisibility(pipeline.LayerSkybox, visible)
}

func (v *viewportImpl) SetLimitCamera(enabled bool) {
	v.pipeline.SetLimitCamera(enabled)
}

func (v *viewportImpl) SetLightPosition(position mgl32.Vec3) {
	v.pipeline.Light().SetPosition(position)
}

func (v *viewportImpl) BindParticleData(reference *[]mgl32.Vec3) {
	v.bridge.Bind(reference)
}

func (v *viewportImpl) ParticleCount() int {
	return v.pipeline.ParticleCount()
}

func (v *viewportImpl) Camera() camera.OrbitCamera {
	return v.pipeline.Camera()
}

func (v *viewportImpl) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.pipeline.Teardown()
	return v.device.Close()
}
