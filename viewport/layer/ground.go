package layer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/particleview/common"
	"github.com/Carmen-Shannon/particleview/viewport/device"
	"github.com/Carmen-Shannon/particleview/viewport/loader"
)

// Asset identifiers for the ground layer.
const (
	groundColorTextureID  = "textures/dirt_color.png"
	groundNormalTextureID = "textures/dirt_normal.png"
	groundVertexShaderID  = "shaders/ground_vert.wgsl"
	groundFragShaderID    = "shaders/ground_frag.wgsl"
)

// groundLayer renders a single textured quad at height zero spanning the
// skybox footprint.
type groundLayer struct {
	mu *sync.Mutex

	device device.Device
	state  State

	vertices      device.Buffer
	colorTexture  device.Texture
	normalTexture device.Texture
	program       device.Program
}

var _ Layer = &groundLayer{}

// NewGroundLayer creates the ground layer in the uninitialized state.
//
// Parameters:
//   - dev: the device the layer's GPU objects are created on
//
// Returns:
//   - Layer: the newly created layer
func NewGroundLayer(dev device.Device) Layer {
	return &groundLayer{
		mu:     &sync.Mutex{},
		device: dev,
	}
}

func (g *groundLayer) Name() string {
	return "ground"
}

func (g *groundLayer) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *groundLayer) Ready() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == StateReady
}

func (g *groundLayer) Initialize(ldr loader.ResourceLoader) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateUninitialized {
		return fmt.Errorf("ground layer is %s, cannot initialize", g.state)
	}
	g.state = StateInitializing

	quad := []float32{
		-worldSize, -worldSize, 0,
		worldSize, -worldSize, 0,
		worldSize, worldSize, 0,
		-worldSize, worldSize, 0,
	}
	vertices, err := g.device.CreateVertexBuffer(g.Name(), common.SliceToBytes(quad), device.BufferUsageStatic)
	if err != nil {
		return g.fail(fmt.Errorf("ground geometry: %w", err))
	}
	g.vertices = vertices

	if g.colorTexture, err = ldr.LoadTexture(groundColorTextureID); err != nil {
		return g.fail(fmt.Errorf("ground color texture: %w", err))
	}
	if g.normalTexture, err = ldr.LoadTexture(groundNormalTextureID); err != nil {
		return g.fail(fmt.Errorf("ground normal texture: %w", err))
	}

	g.program, err = ldr.LoadShaderProgram(g.Name(), groundVertexShaderID, groundFragShaderID, device.ProgramDescriptor{
		Topology: device.TopologyQuads,
		Textures: []device.TextureKind{device.TextureKind2D, device.TextureKind2D},
	})
	if err != nil {
		return g.fail(fmt.Errorf("ground program: %w", err))
	}

	g.state = StateReady
	return nil
}

// fail releases everything created so far in reverse creation order, marks
// the layer failed, and passes the error through. Caller must hold the mutex.
func (g *groundLayer) fail(err error) error {
	g.release()
	g.state = StateFailed
	return err
}

// release frees the layer's live GPU objects, textures and program before the
// geometry buffer. Caller must hold the mutex.
func (g *groundLayer) release() {
	if g.program != 0 {
		g.device.DestroyProgram(g.program)
		g.program = 0
	}
	if g.normalTexture != 0 {
		g.device.DestroyTexture(g.normalTexture)
		g.normalTexture = 0
	}
	if g.colorTexture != 0 {
		g.device.DestroyTexture(g.colorTexture)
		g.colorTexture = 0
	}
	if g.vertices != 0 {
		g.device.DestroyBuffer(g.vertices)
		g.vertices = 0
	}
}

func (g *groundLayer) Draw(view View) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != StateReady {
		return
	}

	g.device.Draw(device.DrawCommand{
		Program:  g.program,
		Vertices: g.vertices,
		Textures: []device.Texture{g.colorTexture, g.normalTexture},
		Uniforms: device.Uniforms{
			ViewProjection: view.ViewProjection,
			CameraPosition: view.CameraPosition,
			LightPosition:  view.LightPosition,
		},
		Count: 4,
	})
}

func (g *groundLayer) Teardown() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.release()
}
