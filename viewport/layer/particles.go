package layer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/particleview/common"
	"github.com/Carmen-Shannon/particleview/viewport/device"
	"github.com/Carmen-Shannon/particleview/viewport/loader"

	"github.com/go-gl/mathgl/mgl32"
)

// Asset identifiers for the particle layer.
const (
	particleTextureID      = "textures/particle.png"
	particleVertexShaderID = "shaders/particle_vert.wgsl"
	particleFragShaderID   = "shaders/particle_frag.wgsl"
)

// particleLayer renders externally simulated particle positions as blended
// point sprites. The point buffer is created empty and resized on upload;
// a ready layer with zero uploaded points simply draws nothing.
type particleLayer struct {
	mu *sync.Mutex

	device device.Device
	state  State

	vertices device.Buffer
	texture  device.Texture
	program  device.Program

	count int
}

var _ ParticleLayer = &particleLayer{}

// NewParticleLayer creates the particle layer in the uninitialized state.
//
// Parameters:
//   - dev: the device the layer's GPU objects are created on
//
// Returns:
//   - ParticleLayer: the newly created layer
func NewParticleLayer(dev device.Device) ParticleLayer {
	return &particleLayer{
		mu:     &sync.Mutex{},
		device: dev,
	}
}

func (p *particleLayer) Name() string {
	return "particles"
}

func (p *particleLayer) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *particleLayer) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StateReady
}

func (p *particleLayer) Initialize(ldr loader.ResourceLoader) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateUninitialized {
		return fmt.Errorf("particle layer is %s, cannot initialize", p.state)
	}
	p.state = StateInitializing

	vertices, err := p.device.CreateVertexBuffer(p.Name(), nil, device.BufferUsageStream)
	if err != nil {
		return p.fail(fmt.Errorf("particle geometry: %w", err))
	}
	p.vertices = vertices

	if p.texture, err = ldr.LoadTexture(particleTextureID); err != nil {
		return p.fail(fmt.Errorf("particle texture: %w", err))
	}

	p.program, err = ldr.LoadShaderProgram(p.Name(), particleVertexShaderID, particleFragShaderID, device.ProgramDescriptor{
		Topology: device.TopologyPoints,
		Textures: []device.TextureKind{device.TextureKind2D},
		Blend:    true,
	})
	if err != nil {
		return p.fail(fmt.Errorf("particle program: %w", err))
	}

	p.state = StateReady
	return nil
}

// fail releases everything created so far in reverse creation order, marks
// the layer failed, and passes the error through. Caller must hold the mutex.
func (p *particleLayer) fail(err error) error {
	p.release()
	p.state = StateFailed
	return err
}

// release frees the layer's live GPU objects, texture and program before the
// geometry buffer. Caller must hold the mutex.
func (p *particleLayer) release() {
	if p.program != 0 {
		p.device.DestroyProgram(p.program)
		p.program = 0
	}
	if p.texture != 0 {
		p.device.DestroyTexture(p.texture)
		p.texture = 0
	}
	if p.vertices != 0 {
		p.device.DestroyBuffer(p.vertices)
		p.vertices = 0
	}
	p.count = 0
}

func (p *particleLayer) RefreshGeometry(points []mgl32.Vec3) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateReady {
		return
	}

	if len(points) == 0 {
		p.count = 0
		return
	}

	if err := p.device.UploadVertexBuffer(p.vertices, common.SliceToBytes(points)); err != nil {
		p.count = 0
		return
	}
	p.count = len(points)
}

func (p *particleLayer) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

func (p *particleLayer) Draw(view View) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StateReady || p.count == 0 {
		return
	}

	p.device.Draw(device.DrawCommand{
		Program:  p.program,
		Vertices: p.vertices,
		Textures: []device.Texture{p.texture},
		Uniforms: device.Uniforms{
			ViewProjection: view.ViewProjection,
			CameraPosition: view.CameraPosition,
			LightPosition:  view.LightPosition,
		},
		Count: p.count,
	})
}

func (p *particleLayer) Teardown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.release()
}
