package window

import (
	"fmt"
	"runtime"

	"github.com/Carmen-Shannon/particleview/common"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling for the
// viewport. It adapts native mouse events into the pointer-down/pointer-drag
// command surface the orbit camera consumes.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetPointerDownCallback sets the callback for a pointer button press.
	// Called once per press with the cursor position at press time.
	//
	// Parameters:
	//   - callback: function receiving the window-space cursor position
	SetPointerDownCallback(callback func(x, y float64))

	// SetPointerDragCallback sets the callback for cursor movement while at
	// least one pointer button is held.
	//
	// Parameters:
	//   - callback: function receiving the cursor position and held buttons
	SetPointerDragCallback(callback func(x, y float64, buttons common.ButtonMask))

	// SetKeyDownCallback sets the callback for key press events. Escape is
	// handled internally and closes the window.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls the update callback each iteration.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// viewportWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type viewportWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// width is the current window client area width in pixels.
	width int

	// height is the current window client area height in pixels.
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// buttons is the mask of pointer buttons currently held.
	buttons common.ButtonMask

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the window is resized.
	onResize func(width, height int)

	// onPointerDown is called when a pointer button is pressed.
	onPointerDown func(x, y float64)

	// onPointerDrag is called when the cursor moves with a button held.
	onPointerDrag func(x, y float64, buttons common.ButtonMask)

	// onKeyDown is called when a key is pressed.
	onKeyDown func(keyCode uint32)
}

var _ Window = &viewportWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
//   - error: error if the platform window could not be created
func NewWindow(options ...WindowOption) (Window, error) {
	w := &viewportWindow{
		title:  "Particle Viewport",
		width:  1280,
		height: 720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *viewportWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *viewportWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *viewportWindow) SetPointerDownCallback(callback func(x, y float64)) {
	w.onPointerDown = callback
}

func (w *viewportWindow) SetPointerDragCallback(callback func(x, y float64, buttons common.ButtonMask)) {
	w.onPointerDrag = callback
}

func (w *viewportWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *viewportWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *viewportWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *viewportWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *viewportWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *viewportWindow) Width() int {
	return w.width
}

func (w *viewportWindow) Height() int {
	return w.height
}
