package device

import "github.com/go-gl/mathgl/mgl32"

// BufferUsage is a hint describing how often the contents of a vertex buffer
// will be rewritten after creation.
type BufferUsage int

const (
	// BufferUsageStatic marks a buffer whose contents are uploaded once and never change.
	BufferUsageStatic BufferUsage = iota

	// BufferUsageStream marks a buffer whose contents are rewritten frequently,
	// typically once per frame. The backend keeps it writable and regrows it as needed.
	BufferUsageStream
)

// Topology identifies the primitive type a program draws.
type Topology int

const (
	// TopologyQuads draws independent four-vertex quads. Modern GPU APIs have no
	// native quad primitive, so the backend renders quads as triangle pairs
	// through an internally generated index buffer.
	TopologyQuads Topology = iota

	// TopologyPoints draws one point primitive per vertex.
	TopologyPoints
)

// TextureKind identifies the sampling dimensionality of a texture binding.
type TextureKind int

const (
	// TextureKind2D is a standard two-dimensional texture.
	TextureKind2D TextureKind = iota

	// TextureKindCube is a six-faced cubemap, addressed by direction.
	TextureKindCube
)

// Buffer is an opaque handle to a GPU vertex or index buffer owned by the Device.
// The zero value is the invalid handle and is always safe to destroy.
type Buffer uint64

// Texture is an opaque handle to a GPU texture (2D or cubemap) owned by the Device.
// The zero value is the invalid handle and is always safe to destroy.
type Texture uint64

// Program is an opaque handle to a compiled and linked shader program together
// with its render pipeline state. The zero value is the invalid handle.
type Program uint64

// Image holds decoded RGBA pixel data pending GPU upload. Pixels must be in
// RGBA format with 4 bytes per pixel, row-major, Width*Height*4 bytes long.
type Image struct {
	Pixels []byte
	Width  uint32
	Height uint32
}

// ProgramDescriptor describes everything the backend needs to compile a shader
// program and build its render pipeline state.
type ProgramDescriptor struct {
	// VertexSource and FragmentSource are complete WGSL shader sources.
	VertexSource   string
	FragmentSource string

	// Topology selects the primitive type this program draws.
	Topology Topology

	// Textures lists the texture bindings the fragment shader samples, in
	// binding order. Each draw call must supply exactly this many textures.
	Textures []TextureKind

	// Blend enables standard source-alpha blending for this program.
	// Used by the particle sprites that composite on top of the backdrop.
	Blend bool
}

// Uniforms carries the per-draw shading inputs shared by every layer program.
type Uniforms struct {
	ViewProjection mgl32.Mat4
	CameraPosition mgl32.Vec3
	LightPosition  mgl32.Vec3
}

// DrawCommand is a single self-contained draw. Commands carry every binding
// they need; the backend leaves no residual state between commands.
type DrawCommand struct {
	Program  Program
	Vertices Buffer

	// Indices is the optional index buffer; the zero handle draws non-indexed.
	Indices Buffer

	// Textures are bound to sequential units matching the program's descriptor.
	Textures []Texture

	Uniforms Uniforms

	// Count is the number of vertices (non-indexed), indices (indexed), or
	// points to draw, depending on the program's topology.
	Count int
}

// Device is the GPU backend consumed by the render layers. It owns every GPU
// object it creates, keyed by opaque handles, and releases them deterministically
// on the Destroy* calls — handle pairing replaces manual create/delete bookkeeping.
//
// All methods must be called from the thread that created the device; the
// viewport is single-threaded and frame-driven, so no call overlaps another.
type Device interface {
	// CreateVertexBuffer creates a vertex buffer and uploads the initial data.
	// Stream buffers may be created empty and filled later via UploadVertexBuffer.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - data: initial contents, may be nil for an empty stream buffer
	//   - usage: static or stream usage hint
	//
	// Returns:
	//   - Buffer: handle to the created buffer
	//   - error: an error if buffer creation fails
	CreateVertexBuffer(label string, data []byte, usage BufferUsage) (Buffer, error)

	// UploadVertexBuffer replaces the contents of a stream vertex buffer,
	// regrowing the underlying GPU allocation when the data outgrows it.
	//
	// Parameters:
	//   - buf: handle returned by CreateVertexBuffer
	//   - data: new contents
	//
	// Returns:
	//   - error: an error if the handle is unknown or the upload fails
	UploadVertexBuffer(buf Buffer, data []byte) error

	// CreateIndexBuffer creates an index buffer from 16-bit indices.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - indices: index data
	//
	// Returns:
	//   - Buffer: handle to the created buffer
	//   - error: an error if buffer creation fails
	CreateIndexBuffer(label string, indices []uint16) (Buffer, error)

	// CreateTexture creates a 2D texture from decoded RGBA pixel data.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - img: staged pixel data
	//
	// Returns:
	//   - Texture: handle to the created texture
	//   - error: an error if texture creation fails
	CreateTexture(label string, img Image) (Texture, error)

	// CreateCubemap creates a cubemap from six face images in the order
	// +X, -X, +Y, -Y, +Z, -Z. All faces must share the same dimensions;
	// on any error no partial resource is retained.
	//
	// Parameters:
	//   - label: debug label for the cubemap
	//   - faces: the six face images
	//
	// Returns:
	//   - Texture: handle to the created cubemap
	//   - error: an error if creation fails
	CreateCubemap(label string, faces [6]Image) (Texture, error)

	// CreateProgram compiles the vertex and fragment shaders and builds the
	// render pipeline state described by the descriptor. A compile or link
	// failure returns an error with no resource retained.
	//
	// Parameters:
	//   - label: debug label for the program
	//   - desc: shader sources and pipeline configuration
	//
	// Returns:
	//   - Program: handle to the created program
	//   - error: an error if compilation or pipeline creation fails
	CreateProgram(label string, desc ProgramDescriptor) (Program, error)

	// DestroyBuffer releases a buffer. Unknown and zero handles are no-ops.
	DestroyBuffer(buf Buffer)

	// DestroyTexture releases a texture or cubemap. Unknown and zero handles are no-ops.
	DestroyTexture(tex Texture)

	// DestroyProgram releases a program and its pipeline state. Unknown and zero
	// handles are no-ops.
	DestroyProgram(prog Program)

	// Resize reconfigures the presentation surface for a new pixel size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// BeginFrame acquires the next swapchain image and begins the frame's render
	// pass, clearing the color and depth targets. Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain image could not be acquired
	BeginFrame() error

	// Draw encodes a single draw command within the current frame.
	// Multiple Draw invocations can be made between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - cmd: the draw command to encode
	Draw(cmd DrawCommand)

	// EndFrame ends the render pass and submits the frame to the GPU queue.
	EndFrame()

	// Present presents the finished frame to the display surface.
	// Must be called once per frame after EndFrame.
	Present()

	// Close releases every live GPU object and the device itself.
	//
	// Returns:
	//   - error: an error if release fails
	Close() error
}
