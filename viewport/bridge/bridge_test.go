package bridge

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/particleview/viewport/layer"
	"github.com/Carmen-Shannon/particleview/viewport/loader"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

// recordingParticleLayer captures RefreshGeometry calls without a device.
type recordingParticleLayer struct {
	mu       sync.Mutex
	uploads  [][]mgl32.Vec3
	count    int
	refreshN int
}

var _ layer.ParticleLayer = &recordingParticleLayer{}

func (r *recordingParticleLayer) Name() string                             { return "particles" }
func (r *recordingParticleLayer) State() layer.State                       { return layer.StateReady }
func (r *recordingParticleLayer) Ready() bool                              { return true }
func (r *recordingParticleLayer) Initialize(_ loader.ResourceLoader) error { return nil }
func (r *recordingParticleLayer) Draw(_ layer.View)                        {}
func (r *recordingParticleLayer) Teardown()                                {}

func (r *recordingParticleLayer) RefreshGeometry(points []mgl32.Vec3) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.uploads = append(r.uploads, points)
	r.count = len(points)
	r.refreshN++
}

func (r *recordingParticleLayer) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

func TestRefreshForwardsBoundReference(t *testing.T) {
	rec := &recordingParticleLayer{}
	b := NewSceneDataBridge(rec)

	positions := []mgl32.Vec3{{0, 0, 1}, {1, 1, 1}}
	b.Bind(&positions)
	b.Refresh()

	assert.Equal(t, 2, rec.Count())
}

func TestRefreshSeesExternalMutation(t *testing.T) {
	rec := &recordingParticleLayer{}
	b := NewSceneDataBridge(rec)

	positions := []mgl32.Vec3{{0, 0, 1}}
	b.Bind(&positions)
	b.Refresh()
	assert.Equal(t, 1, rec.Count())

	// The bridge holds a reference, not a copy: growth on the simulation side
	// is visible on the next refresh without rebinding.
	positions = append(positions, mgl32.Vec3{1, 0, 1}, mgl32.Vec3{0, 1, 1})
	b.Refresh()
	assert.Equal(t, 3, rec.Count())
}

func TestRefreshUnbound(t *testing.T) {
	rec := &recordingParticleLayer{}
	b := NewSceneDataBridge(rec)

	b.Refresh()
	assert.Zero(t, rec.Count())
	assert.Equal(t, 1, rec.refreshN)
}

func TestBindNilDetaches(t *testing.T) {
	rec := &recordingParticleLayer{}
	b := NewSceneDataBridge(rec)

	positions := []mgl32.Vec3{{0, 0, 1}}
	b.Bind(&positions)
	b.Refresh()
	assert.Equal(t, 1, rec.Count())

	b.Bind(nil)
	b.Refresh()
	assert.Zero(t, rec.Count())
}
