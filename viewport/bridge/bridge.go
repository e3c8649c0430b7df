package bridge

import (
	"sync"

	"github.com/Carmen-Shannon/particleview/viewport/layer"

	"github.com/go-gl/mathgl/mgl32"
)

// sceneDataBridgeImpl is the implementation of the SceneDataBridge interface.
type sceneDataBridgeImpl struct {
	mu *sync.Mutex

	particles layer.ParticleLayer
	reference *[]mgl32.Vec3
}

// SceneDataBridge connects an externally simulated particle position buffer
// to the particle layer's GPU buffer. The bridge never owns or copies the
// data: it holds a reference and forwards the current contents to the layer
// on each refresh. The referenced slice only needs to stay valid for the
// duration of a single Refresh call.
type SceneDataBridge interface {
	// Bind stores a reference to the external position buffer. Passing nil
	// detaches the bridge; the next refresh uploads zero points.
	//
	// Parameters:
	//   - reference: pointer to the externally owned position slice
	Bind(reference *[]mgl32.Vec3)

	// Refresh reads the current contents of the bound reference and forwards
	// them to the particle layer. An absent or empty reference degrades to
	// zero particles without error.
	Refresh()
}

// Compile-time interface compliance check
var _ SceneDataBridge = &sceneDataBridgeImpl{}

// NewSceneDataBridge creates a bridge feeding the given particle layer.
//
// Parameters:
//   - particles: the layer refreshed positions are uploaded to
//
// Returns:
//   - SceneDataBridge: the newly created bridge
func NewSceneDataBridge(particles layer.ParticleLayer) SceneDataBridge {
	return &sceneDataBridgeImpl{
		mu:        &sync.Mutex{},
		particles: particles,
	}
}

func (b *sceneDataBridgeImpl) Bind(reference *[]mgl32.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.reference = reference
}

func (b *sceneDataBridgeImpl) Refresh() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.reference == nil {
		b.particles.RefreshGeometry(nil)
		return
	}
	b.particles.RefreshGeometry(*b.reference)
}
