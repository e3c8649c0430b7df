// package layer contains the three visual layers of the viewport (ground,
// skybox, particles). Each layer owns its GPU objects exclusively and tracks
// a readiness state: a layer is drawn only when every sub-resource it needs
// was created successfully, and a single failed sub-resource marks the whole
// layer failed for the remainder of the run.
package layer

import (
	"github.com/Carmen-Shannon/particleview/viewport/loader"

	"github.com/go-gl/mathgl/mgl32"
)

// worldSize is the half-extent of the skybox cube and the ground plane.
const worldSize = 5.0

// State tracks a layer's resource lifecycle.
type State int

const (
	// StateUninitialized means Initialize has not been called yet.
	StateUninitialized State = iota

	// StateInitializing means resource creation is in progress.
	StateInitializing

	// StateReady means every required sub-resource was created and the layer
	// can be drawn.
	StateReady

	// StateFailed means a sub-resource failed to create. Failed is terminal
	// for the process run; the layer is never retried and never drawn.
	StateFailed
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// View carries the per-frame shading inputs read by every layer's draw.
type View struct {
	ViewProjection mgl32.Mat4
	CameraPosition mgl32.Vec3
	LightPosition  mgl32.Vec3
}

// Layer defines the shared interface of the viewport's visual layers.
type Layer interface {
	// Name returns the layer's descriptive name, used for resource labels
	// and log messages.
	//
	// Returns:
	//   - string: the layer name
	Name() string

	// State returns the layer's current lifecycle state.
	//
	// Returns:
	//   - State: the lifecycle state
	State() State

	// Ready reports whether every sub-resource the layer needs was created
	// successfully.
	//
	// Returns:
	//   - bool: true if the layer can be drawn
	Ready() bool

	// Initialize creates the layer's GPU resources: its geometry buffer
	// directly on the device, and its textures and shader program through the
	// loader. The layer becomes ready only if every sub-resource succeeded;
	// on any failure previously created sub-resources are released, the layer
	// is marked failed, and the error is returned.
	//
	// Parameters:
	//   - ldr: the resource loader textures and programs are obtained from
	//
	// Returns:
	//   - error: error if any sub-resource failed to create
	Initialize(ldr loader.ResourceLoader) error

	// Draw submits the layer's draw command for the current frame. A layer
	// that is not ready issues no device calls at all.
	//
	// Parameters:
	//   - view: the per-frame shading inputs
	Draw(view View)

	// Teardown releases the layer's GPU objects in dependency order, textures
	// and program before the geometry buffer. Safe to call on a layer that
	// never reached ready.
	Teardown()
}

// ParticleLayer extends Layer with the dynamic geometry surface used by the
// scene data bridge.
type ParticleLayer interface {
	Layer

	// RefreshGeometry resizes and re-uploads the point buffer from the given
	// positions and stores the new primitive count. A nil or empty slice sets
	// the count to zero without error.
	//
	// Parameters:
	//   - points: the particle positions to upload
	RefreshGeometry(points []mgl32.Vec3)

	// Count returns the number of point primitives currently uploaded.
	//
	// Returns:
	//   - int: the current primitive count
	Count() int
}
