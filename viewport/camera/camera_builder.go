package camera

import "github.com/go-gl/mathgl/mgl32"

// OrbitCameraOption defines a function type for configuring an orbit camera during creation.
// Options are applied in order during NewOrbitCamera.
type OrbitCameraOption func(*orbitCameraImpl)

// WithPosition sets the initial camera position.
//
// Parameters:
//   - position: the camera position in world space
//
// Returns:
//   - OrbitCameraOption: option function to set the position
func WithPosition(position mgl32.Vec3) OrbitCameraOption {
	return func(c *orbitCameraImpl) {
		c.position = position
	}
}

// WithFocus sets the orbit focus point.
//
// Parameters:
//   - focus: the focus point in world space
//
// Returns:
//   - OrbitCameraOption: option function to set the focus
func WithFocus(focus mgl32.Vec3) OrbitCameraOption {
	return func(c *orbitCameraImpl) {
		c.focus = focus
	}
}

// WithUp sets the fixed up vector used as the azimuth rotation axis. The
// vector is constant for the camera's lifetime.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - OrbitCameraOption: option function to set the up vector
func WithUp(up mgl32.Vec3) OrbitCameraOption {
	return func(c *orbitCameraImpl) {
		c.up = up
	}
}

// WithFieldOfView sets the vertical field of view.
//
// Parameters:
//   - degrees: the vertical field of view in degrees
//
// Returns:
//   - OrbitCameraOption: option function to set the field of view
func WithFieldOfView(degrees float32) OrbitCameraOption {
	return func(c *orbitCameraImpl) {
		c.fieldOfView = degrees
	}
}

// WithClipPlanes sets the near and far projection clip planes.
//
// Parameters:
//   - near: the near clip plane distance
//   - far: the far clip plane distance
//
// Returns:
//   - OrbitCameraOption: option function to set the clip planes
func WithClipPlanes(near, far float32) OrbitCameraOption {
	return func(c *orbitCameraImpl) {
		c.nearPlane = near
		c.farPlane = far
	}
}

// WithViewportSize sets the initial viewport dimensions used for pointer
// normalization and the projection aspect ratio.
//
// Parameters:
//   - width: viewport width in pixels
//   - height: viewport height in pixels
//
// Returns:
//   - OrbitCameraOption: option function to set the viewport size
func WithViewportSize(width, height int) OrbitCameraOption {
	return func(c *orbitCameraImpl) {
		c.width = width
		c.height = height
	}
}

// WithLimitEnabled sets the initial state of the spatial limits (height floor
// and distance band around the focus).
//
// Parameters:
//   - enabled: whether limits start enforced
//
// Returns:
//   - OrbitCameraOption: option function to set the limit flag
func WithLimitEnabled(enabled bool) OrbitCameraOption {
	return func(c *orbitCameraImpl) {
		c.limitEnabled = enabled
	}
}

// WithDistanceLimits sets the distance band enforced around the focus when
// limits are enabled.
//
// Parameters:
//   - minimum: the closest allowed distance from the focus
//   - maximum: the farthest allowed distance from the focus
//
// Returns:
//   - OrbitCameraOption: option function to set the distance limits
func WithDistanceLimits(minimum, maximum float32) OrbitCameraOption {
	return func(c *orbitCameraImpl) {
		c.minimumDistance = minimum
		c.maximumDistance = maximum
	}
}
