package light

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
}

// Light defines the interface for the viewport's single point light.
//
// The light position is consumed by the ground and particle shading passes
// each frame. It has no lifecycle of its own beyond the layers reading it.
type Light interface {
	// Position returns the world-space position of the light.
	//
	// Returns:
	//   - mgl32.Vec3: the light position
	Position() mgl32.Vec3

	// SetPosition moves the light to a new world-space position. The change
	// takes effect on the next rendered frame.
	//
	// Parameters:
	//   - position: the new light position
	SetPosition(position mgl32.Vec3)
}

// Compile-time interface compliance check
var _ Light = &lightImpl{}

// NewLight creates a light at the default position with any options applied.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(options ...LightOption) Light {
	l := &lightImpl{
		mu:       &sync.Mutex{},
		position: mgl32.Vec3{0, 2, 10},
	}

	for _, option := range options {
		option(l)
	}

	return l
}

func (l *lightImpl) Position() mgl32.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.position
}

func (l *lightImpl) SetPosition(position mgl32.Vec3) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.position = position
}
