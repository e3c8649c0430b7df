package light

import "github.com/go-gl/mathgl/mgl32"

// LightOption defines a function type for configuring a light during creation.
// Options are applied in order during NewLight.
type LightOption func(*lightImpl)

// WithPosition sets the initial world-space position of the light.
//
// Parameters:
//   - position: the light position
//
// Returns:
//   - LightOption: option function to set the position
func WithPosition(position mgl32.Vec3) LightOption {
	return func(l *lightImpl) {
		l.position = position
	}
}
