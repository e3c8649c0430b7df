package layer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/particleview/common"
	"github.com/Carmen-Shannon/particleview/viewport/device"
	"github.com/Carmen-Shannon/particleview/viewport/loader"
)

// Asset identifiers for the skybox layer. The face order matches the cubemap
// layer order expected by the device: +X, -X, +Y, -Y, +Z, -Z.
var skyboxFaceIDs = [6]string{
	"textures/sky_px.png",
	"textures/sky_nx.png",
	"textures/sky_py.png",
	"textures/sky_ny.png",
	"textures/sky_pz.png",
	"textures/sky_nz.png",
}

const (
	skyboxVertexShaderID = "shaders/skybox_vert.wgsl"
	skyboxFragShaderID   = "shaders/skybox_frag.wgsl"
)

// skyboxLayer renders the inside of a cube around the scene, sampling a
// cubemap by direction. The cube reuses 8 corner vertices across 6 quad
// faces via an index buffer.
type skyboxLayer struct {
	mu *sync.Mutex

	device device.Device
	state  State

	vertices device.Buffer
	indices  device.Buffer
	cubemap  device.Texture
	program  device.Program
}

var _ Layer = &skyboxLayer{}

// NewSkyboxLayer creates the skybox layer in the uninitialized state.
//
// Parameters:
//   - dev: the device the layer's GPU objects are created on
//
// Returns:
//   - Layer: the newly created layer
func NewSkyboxLayer(dev device.Device) Layer {
	return &skyboxLayer{
		mu:     &sync.Mutex{},
		device: dev,
	}
}

func (s *skyboxLayer) Name() string {
	return "skybox"
}

func (s *skyboxLayer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *skyboxLayer) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateReady
}

func (s *skyboxLayer) Initialize(ldr loader.ResourceLoader) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUninitialized {
		return fmt.Errorf("skybox layer is %s, cannot initialize", s.state)
	}
	s.state = StateInitializing

	//         0---------3
	//        /|        /|
	//       / |       / |
	//      1--+------2  |              z
	//      |  4------+--7              |  y
	//      | /       | /               | /
	//      |/        |/                |/
	//      5---------6                 o----->x
	corners := []float32{
		-worldSize, worldSize, worldSize, // 0
		-worldSize, -worldSize, worldSize, // 1
		worldSize, -worldSize, worldSize, // 2
		worldSize, worldSize, worldSize, // 3
		-worldSize, worldSize, -worldSize, // 4
		-worldSize, -worldSize, -worldSize, // 5
		worldSize, -worldSize, -worldSize, // 6
		worldSize, worldSize, -worldSize, // 7
	}
	vertices, err := s.device.CreateVertexBuffer(s.Name(), common.SliceToBytes(corners), device.BufferUsageStatic)
	if err != nil {
		return s.fail(fmt.Errorf("skybox geometry: %w", err))
	}
	s.vertices = vertices

	faces := []uint16{
		0, 1, 2, 3, // top
		3, 2, 6, 7, // right
		7, 6, 5, 4, // bottom
		4, 5, 1, 0, // left
		0, 3, 7, 4, // back
		1, 2, 6, 5, // front
	}
	if s.indices, err = s.device.CreateIndexBuffer(s.Name(), faces); err != nil {
		return s.fail(fmt.Errorf("skybox indices: %w", err))
	}

	// All six faces or nothing: a single missing face abandons the cubemap.
	if s.cubemap, err = ldr.LoadCubemap(skyboxFaceIDs); err != nil {
		return s.fail(fmt.Errorf("skybox cubemap: %w", err))
	}

	s.program, err = ldr.LoadShaderProgram(s.Name(), skyboxVertexShaderID, skyboxFragShaderID, device.ProgramDescriptor{
		Topology: device.TopologyQuads,
		Textures: []device.TextureKind{device.TextureKindCube},
	})
	if err != nil {
		return s.fail(fmt.Errorf("skybox program: %w", err))
	}

	s.state = StateReady
	return nil
}

// fail releases everything created so far in reverse creation order, marks
// the layer failed, and passes the error through. Caller must hold the mutex.
func (s *skyboxLayer) fail(err error) error {
	s.release()
	s.state = StateFailed
	return err
}

// release frees the layer's live GPU objects, cubemap and program before the
// geometry buffers. Caller must hold the mutex.
func (s *skyboxLayer) release() {
	if s.program != 0 {
		s.device.DestroyProgram(s.program)
		s.program = 0
	}
	if s.cubemap != 0 {
		s.device.DestroyTexture(s.cubemap)
		s.cubemap = 0
	}
	if s.indices != 0 {
		s.device.DestroyBuffer(s.indices)
		s.indices = 0
	}
	if s.vertices != 0 {
		s.device.DestroyBuffer(s.vertices)
		s.vertices = 0
	}
}

func (s *skyboxLayer) Draw(view View) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return
	}

	s.device.Draw(device.DrawCommand{
		Program:  s.program,
		Vertices: s.vertices,
		Indices:  s.indices,
		Textures: []device.Texture{s.cubemap},
		Uniforms: device.Uniforms{
			ViewProjection: view.ViewProjection,
			CameraPosition: view.CameraPosition,
			LightPosition:  view.LightPosition,
		},
		Count: 24,
	})
}

func (s *skyboxLayer) Teardown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release()
}
