package camera

import (
	"testing"

	"github.com/Carmen-Shannon/particleview/common"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tiltOf(c OrbitCamera) float32 {
	up := c.Up().Normalize()
	pos := c.Position().Normalize()
	dot := up.Dot(pos)
	if dot > 1 {
		dot = 1
	} else if dot < -1 {
		dot = -1
	}
	return math32.Acos(dot)
}

func TestDefaults(t *testing.T) {
	c := NewOrbitCamera()

	assert.Equal(t, mgl32.Vec3{-1, 0, 1}, c.Position())
	assert.Equal(t, mgl32.Vec3{0, 0, 0}, c.Focus())
	assert.Equal(t, mgl32.Vec3{0, 0, 1}, c.Up())
	assert.False(t, c.LimitEnabled())
}

func TestNoOpDrag(t *testing.T) {
	c := NewOrbitCamera(WithViewportSize(800, 600))

	c.PointerDown(400, 300)
	before := c.Position()

	c.PointerDrag(400, 300, common.ButtonPrimary)

	// Exact equality: a zero-length delta must not touch the position at all.
	assert.Equal(t, before, c.Position())
}

func TestDragWithoutDownIsNoOp(t *testing.T) {
	c := NewOrbitCamera(WithViewportSize(800, 600))
	before := c.Position()

	c.PointerDrag(410, 310, common.ButtonPrimary)

	assert.Equal(t, before, c.Position())
}

func TestAzimuthRotationPreservesRadiusAndHeight(t *testing.T) {
	c := NewOrbitCamera(WithViewportSize(800, 600))

	initial := c.Position()
	c.PointerDown(400, 300)
	// One pixel left: positive horizontal delta, no vertical component.
	c.PointerDrag(399, 300, common.ButtonPrimary)

	got := c.Position()
	require.NotEqual(t, initial, got)

	// delta.x = (0 - (-1/400)) * 60 = 0.15, phi = 2*asin(0.15)
	phi := 2 * math32.Asin(0.15)
	want := mgl32.QuatRotate(phi, mgl32.Vec3{0, 0, 1}).Rotate(initial)

	assert.InDelta(t, want.X(), got.X(), 1e-5)
	assert.InDelta(t, want.Y(), got.Y(), 1e-5)
	assert.InDelta(t, want.Z(), got.Z(), 1e-5)

	assert.InDelta(t, initial.Len(), got.Len(), 1e-5)
	assert.InDelta(t, initial.Z(), got.Z(), 1e-5)
}

func TestTiltBound(t *testing.T) {
	const epsilon = 0.05

	for name, step := range map[string]float64{"toward pole": -0.05, "away from pole": 0.05} {
		t.Run(name, func(t *testing.T) {
			c := NewOrbitCamera(WithViewportSize(800, 600))

			y := 300.0
			c.PointerDown(400, y)
			for i := 0; i < 400; i++ {
				y += step
				c.PointerDrag(400, y, common.ButtonPrimary)

				tilt := tiltOf(c)
				if tilt < minimumTilt-epsilon || tilt > maximumTilt+epsilon {
					t.Fatalf("tilt %v escaped [%v, %v] after %d events", tilt, float32(minimumTilt), float32(maximumTilt), i+1)
				}
			}
		})
	}
}

func TestTiltGuardRejectsWholeEvent(t *testing.T) {
	c := NewOrbitCamera(WithViewportSize(800, 600))

	// Drive the tilt to the guard band with small vertical drags.
	y := 300.0
	c.PointerDown(400, y)
	for i := 0; i < 400; i++ {
		y += 0.05
		c.PointerDrag(400, y, common.ButtonPrimary)
	}
	before := c.Position()

	// A drag with both azimuth and a pole-ward tilt component is rejected
	// entirely: the azimuth part must not be applied either.
	c.PointerDrag(390, y-10, common.ButtonPrimary)
	assert.Equal(t, before, c.Position())
}

func TestRotateHeightClampWhenLimited(t *testing.T) {
	c := NewOrbitCamera(WithViewportSize(800, 600), WithLimitEnabled(true))

	y := 300.0
	c.PointerDown(400, y)
	for i := 0; i < 400; i++ {
		y -= 0.05
		c.PointerDrag(400, y, common.ButtonPrimary)

		if z := c.Position().Z(); z < minimumHeight-1e-6 {
			t.Fatalf("height %v fell below clearance after %d events", z, i+1)
		}
	}
}

func TestZoomOut(t *testing.T) {
	c := NewOrbitCamera(WithViewportSize(800, 600))

	before := c.Position().Len()
	c.PointerDown(400, 300)
	c.PointerDrag(400, 330, common.ButtonSecondary)

	// t = 2*30/599, position scales by (1 + t).
	scale := 1 + 2*float32(30)/599
	assert.InDelta(t, before*scale, c.Position().Len(), 1e-5)
}

func TestZoomDistanceBoundWhenLimited(t *testing.T) {
	c := NewOrbitCamera(WithViewportSize(800, 600), WithLimitEnabled(true))

	c.PointerDown(400, 300)
	c.PointerDrag(400, 3000, common.ButtonSecondary)
	assert.InDelta(t, 4.9, c.Position().Sub(c.Focus()).Len(), 1e-5)

	c.PointerDown(400, 300)
	c.PointerDrag(400, 40, common.ButtonSecondary)
	assert.InDelta(t, 0.25, c.Position().Sub(c.Focus()).Len(), 1e-5)
}

func TestZoomUnboundedWhenNotLimited(t *testing.T) {
	c := NewOrbitCamera(WithViewportSize(800, 600))

	// Shrink the radial vector well below the limited minimum distance.
	c.PointerDown(400, 300)
	c.PointerDrag(400, 40, common.ButtonSecondary)

	assert.Less(t, c.Position().Sub(c.Focus()).Len(), float32(0.25))
}

func TestZoomRelativeToFocus(t *testing.T) {
	focus := mgl32.Vec3{2, 3, 0}
	c := NewOrbitCamera(
		WithViewportSize(800, 600),
		WithFocus(focus),
		WithPosition(focus.Add(mgl32.Vec3{-1, 0, 1})),
	)

	before := c.Position().Sub(focus).Len()
	c.PointerDown(400, 300)
	c.PointerDrag(400, 330, common.ButtonSecondary)

	scale := 1 + 2*float32(30)/599
	assert.InDelta(t, before*scale, c.Position().Sub(focus).Len(), 1e-5)
}

func TestZoomDoesNotRotate(t *testing.T) {
	c := NewOrbitCamera(WithViewportSize(800, 600))

	before := c.Position().Normalize()
	c.PointerDown(400, 300)
	c.PointerDrag(400, 330, common.ButtonSecondary)

	after := c.Position().Normalize()
	assert.InDelta(t, 1.0, before.Dot(after), 1e-6)
}

func TestBothButtonsHeldIsNoGesture(t *testing.T) {
	c := NewOrbitCamera(WithViewportSize(800, 600))

	before := c.Position()
	c.PointerDown(400, 300)
	c.PointerDrag(410, 310, common.ButtonPrimary|common.ButtonSecondary)

	assert.Equal(t, before, c.Position())
}

func TestResizeUpdatesProjectionOnly(t *testing.T) {
	c := NewOrbitCamera(WithViewportSize(800, 600))
	position := c.Position()

	c.Resize(1024, 256)

	assert.Equal(t, position, c.Position())

	projection := mgl32.Perspective(mgl32.DegToRad(45), 1024.0/256.0, 0.1, 500)
	view := mgl32.LookAtV(c.Position(), c.Focus(), c.Up())
	want := projection.Mul4(view)

	got := c.ViewProjection()
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-5)
	}
}
