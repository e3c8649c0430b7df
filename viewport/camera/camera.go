package camera

import (
	"sync"

	"github.com/Carmen-Shannon/particleview/common"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// rotationalFactor scales normalized pointer deltas into rotation input.
	rotationalFactor = 60.0

	// minimumHeight is the ground clearance enforced when limits are enabled.
	minimumHeight = 0.1

	// minimumTilt and maximumTilt bound the polar angle between the up axis
	// and the camera position, keeping rotation away from the singular poles.
	// These apply unconditionally, independent of the limit flag.
	minimumTilt = 0.1
	maximumTilt = math32.Pi - 0.1
)

// orbitCameraImpl is the single implementation of OrbitCamera.
type orbitCameraImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	focus    mgl32.Vec3
	up       mgl32.Vec3

	fieldOfView float32 // vertical FOV in degrees
	nearPlane   float32
	farPlane    float32

	width  int
	height int

	limitEnabled    bool
	minimumDistance float32
	maximumDistance float32

	track    mgl32.Vec2
	tracking bool

	viewProjection mgl32.Mat4
}

// OrbitCamera maintains a viewpoint orbiting a fixed focus point and derives
// the combined view-projection transform from pointer input and viewport size.
//
// The up vector is constant for the camera's lifetime and serves as the
// unchanging azimuth rotation axis. Dragging with the primary button rotates
// and tilts the position around the focus; dragging with the secondary button
// zooms along the radial direction. When limits are enabled the position is
// additionally clamped to a height floor and a distance band around the focus.
type OrbitCamera interface {
	// PointerDown records the pointer position as the reference for the next
	// drag delta. The camera itself is not mutated.
	//
	// Parameters:
	//   - x: window-space horizontal coordinate
	//   - y: window-space vertical coordinate
	PointerDown(x, y float64)

	// PointerDrag applies a drag from the last tracked pointer position to the
	// given one. With only the primary button held the camera rotates and
	// tilts; with only the secondary button held it zooms. A drag that lands
	// on the exact tracked coordinate is a no-op. The tracked coordinate is
	// updated to the new position whether or not the camera moved.
	//
	// Parameters:
	//   - x: window-space horizontal coordinate
	//   - y: window-space vertical coordinate
	//   - buttons: the pointer buttons held during the drag
	PointerDrag(x, y float64, buttons common.ButtonMask)

	// Resize updates the viewport dimensions used for pointer normalization
	// and the projection aspect ratio. Camera position and orientation are
	// untouched.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	Resize(width, height int)

	// SetLimitEnabled toggles the spatial limits (height floor and distance
	// band). The tilt guard is always active regardless of this flag.
	//
	// Parameters:
	//   - enabled: whether limits are enforced
	SetLimitEnabled(enabled bool)

	// LimitEnabled reports whether spatial limits are currently enforced.
	//
	// Returns:
	//   - bool: true if limits are enforced
	LimitEnabled() bool

	// Position returns the current camera position.
	//
	// Returns:
	//   - mgl32.Vec3: the camera position in world space
	Position() mgl32.Vec3

	// Focus returns the orbit focus point.
	//
	// Returns:
	//   - mgl32.Vec3: the focus point in world space
	Focus() mgl32.Vec3

	// Up returns the fixed up vector.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// ViewProjection returns the cached combined view-projection matrix for
	// the current camera state and viewport size.
	//
	// Returns:
	//   - mgl32.Mat4: the view-projection matrix
	ViewProjection() mgl32.Mat4
}

// Compile-time interface compliance check
var _ OrbitCamera = &orbitCameraImpl{}

// NewOrbitCamera creates an orbit camera with the default viewpoint and any
// options applied, and computes the initial view-projection.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - OrbitCamera: the newly created camera
func NewOrbitCamera(options ...OrbitCameraOption) OrbitCamera {
	c := &orbitCameraImpl{
		mu:       &sync.Mutex{},
		position: mgl32.Vec3{-1, 0, 1},
		focus:    mgl32.Vec3{0, 0, 0},
		up:       mgl32.Vec3{0, 0, 1},

		fieldOfView: 45.0,
		nearPlane:   0.1,
		farPlane:    500.0,

		width:  800,
		height: 600,

		minimumDistance: 0.25,
		maximumDistance: 4.9,
	}

	for _, option := range options {
		option(c)
	}

	c.updateViewProjection()
	return c
}

func (c *orbitCameraImpl) PointerDown(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.track = c.normalize(x, y)
	c.tracking = true
}

func (c *orbitCameraImpl) PointerDrag(x, y float64, buttons common.ButtonMask) {
	c.mu.Lock()
	defer c.mu.Unlock()

	coord := c.normalize(x, y)
	if !c.tracking {
		c.track = coord
		c.tracking = true
		return
	}
	// Zero-length deltas would feed NaN into the trigonometric steps.
	if coord == c.track {
		return
	}

	switch buttons {
	case common.ButtonPrimary:
		c.rotate(coord)
	case common.ButtonSecondary:
		c.zoom(coord)
	}

	// The tracked coordinate advances even when the drag was rejected or the
	// button mask matched neither gesture.
	c.track = coord
}

// rotate applies an azimuth rotation about the up axis and a tilt rotation
// about the axis perpendicular to up and position. When the tilt would push
// the camera past a pole the entire event is rejected, azimuth included.
// Caller must hold the mutex.
func (c *orbitCameraImpl) rotate(coord mgl32.Vec2) {
	delta := c.track.Sub(coord).Mul(rotationalFactor)
	phiX := 2 * math32.Asin(clamp(delta.X(), -1, 1))
	phiY := 2 * math32.Asin(clamp(delta.Y(), -1, 1))

	azimuth := mgl32.QuatRotate(phiX, c.up)

	currentTilt := math32.Acos(clamp(c.up.Normalize().Dot(c.position.Normalize()), -1, 1))
	if (currentTilt < minimumTilt && phiY < 0) || (currentTilt > maximumTilt && phiY > 0) {
		return
	}

	tiltAxis := c.up.Cross(c.position).Normalize()
	tilt := mgl32.QuatRotate(phiY, tiltAxis)

	c.position = tilt.Mul(azimuth).Rotate(c.position)

	if c.limitEnabled && c.position.Z() < minimumHeight {
		c.position[2] = minimumHeight
	}

	c.updateViewProjection()
}

// zoom scales the radial vector from focus to position by (1 + t) where t is
// the vertical pointer delta. Without limits the position may pass through or
// invert across the focus. Caller must hold the mutex.
func (c *orbitCameraImpl) zoom(coord mgl32.Vec2) {
	t := coord.Y() - c.track.Y()

	radial := c.position.Sub(c.focus)
	c.position = c.focus.Add(radial.Mul(1 + t))

	if c.limitEnabled {
		if dir := radial.Normalize(); !math32.IsNaN(dir.X()) {
			if c.position.Sub(c.focus).Len() > c.maximumDistance {
				c.position = c.focus.Add(dir.Mul(c.maximumDistance))
			}
			if c.position.Sub(c.focus).Len() < c.minimumDistance {
				c.position = c.focus.Add(dir.Mul(c.minimumDistance))
			}
		}
		if c.position.Z() < minimumHeight {
			c.position[2] = minimumHeight
		}
	}

	c.updateViewProjection()
}

func (c *orbitCameraImpl) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.width = width
	c.height = height
	c.updateViewProjection()
}

func (c *orbitCameraImpl) SetLimitEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limitEnabled = enabled
}

func (c *orbitCameraImpl) LimitEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.limitEnabled
}

func (c *orbitCameraImpl) Position() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *orbitCameraImpl) Focus() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focus
}

func (c *orbitCameraImpl) Up() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *orbitCameraImpl) ViewProjection() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjection
}

// normalize converts window-space coordinates to the [-1, 1] pointer domain.
// The vertical axis divides by height-1 while the horizontal divides by
// width, matching the observed behavior this camera reproduces.
// Caller must hold the mutex.
func (c *orbitCameraImpl) normalize(x, y float64) mgl32.Vec2 {
	nx := 2*float32(x)/float32(c.width) - 1
	ny := 2*float32(y)/float32(c.height-1) - 1
	return mgl32.Vec2{nx, ny}
}

// updateViewProjection recomputes the cached view-projection matrix from the
// current position, focus, up vector, and viewport aspect. Caller must hold
// the mutex.
func (c *orbitCameraImpl) updateViewProjection() {
	aspect := float32(c.width) / float32(c.height)
	projection := mgl32.Perspective(mgl32.DegToRad(c.fieldOfView), aspect, c.nearPlane, c.farPlane)
	view := mgl32.LookAtV(c.position, c.focus, c.up)
	c.viewProjection = projection.Mul4(view)
}

func clamp(v, low, high float32) float32 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
