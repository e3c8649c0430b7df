package common

// ButtonMask is a bitmask of pointer buttons held during a drag event.
// The host window adapter builds the mask from its native button events;
// the camera inspects it to decide between rotation and zoom.
type ButtonMask uint8

const (
	// ButtonPrimary is the primary pointer button (usually the left mouse button).
	// Dragging with only this button held rotates and tilts the orbit camera.
	ButtonPrimary ButtonMask = 1 << iota

	// ButtonSecondary is the secondary pointer button (usually the right mouse button).
	// Dragging with only this button held zooms the orbit camera.
	ButtonSecondary
)
