package device

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/particleview/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, capping frame rate
	// to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// Only specific power-of-two values are valid for GPU hardware. WebGPU guarantees support for
// 1 (off) and 4; higher values are adapter-dependent and may not be available.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// gpuUniforms is the std140-compatible GPU mirror of Uniforms. Vectors are
// padded to 16 bytes; total size 96 bytes.
type gpuUniforms struct {
	ViewProjection [16]float32
	CameraPosition [4]float32
	LightPosition  [4]float32
}

// bufferEntry tracks one GPU buffer in the device's handle pool.
// For index buffers the source indices are retained CPU-side so quad
// topologies can be triangulated lazily on first draw.
type bufferEntry struct {
	buf   *wgpu.Buffer
	size  uint64
	usage BufferUsage
	label string

	indices []uint16

	// Triangulated index buffer derived for quad topology draws, built on
	// first use and rebuilt when the primitive count changes.
	quadIndexBuf   *wgpu.Buffer
	quadIndexCount int
}

type textureEntry struct {
	tex  *wgpu.Texture
	view *wgpu.TextureView
	kind TextureKind
}

type programEntry struct {
	pipeline   *wgpu.RenderPipeline
	layout     *wgpu.BindGroupLayout
	uniformBuf *wgpu.Buffer
	sampler    *wgpu.Sampler
	desc       ProgramDescriptor
}

// wgpuDeviceImpl is the WebGPU implementation of the Device interface.
type wgpuDeviceImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat        *wgpu.TextureFormat
	msaaTextureView      *wgpu.TextureView
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode wgpu.PresentMode
	sampleCount MSAASampleCount
	clearColor  wgpu.Color

	nextHandle uint64
	buffers    map[Buffer]*bufferEntry
	textures   map[Texture]*textureEntry
	programs   map[Program]*programEntry

	// Frame state for batched rendering across multiple draw calls
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	// Bind groups created during the current frame, released after submit.
	frameGroups []*wgpu.BindGroup
}

var _ Device = &wgpuDeviceImpl{}

// NewWGPUDevice creates a Device backed by WebGPU, rendering to the surface
// described by surfaceDescriptor (typically obtained from the host window).
//
// A missing adapter or an adapter that cannot satisfy the baseline device
// limits is a capability failure: there is no degraded path, and the returned
// error means the viewport cannot run.
//
// Parameters:
//   - surfaceDescriptor: the platform-specific surface descriptor
//   - width: initial surface width in pixels
//   - height: initial surface height in pixels
//   - options: functional options to configure the device
//
// Returns:
//   - Device: the newly created device
//   - error: an error if no suitable GPU adapter or device is available
func NewWGPUDevice(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...WGPUDeviceOption) (Device, error) {
	runtime.LockOSThread()
	d := &wgpuDeviceImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: MSAA4x,
		clearColor:  wgpu.Color{R: 0, G: 0, B: 0, A: 0},
		buffers:     make(map[Buffer]*bufferEntry),
		textures:    make(map[Texture]*textureEntry),
		programs:    make(map[Program]*programEntry),
	}
	for _, option := range options {
		option(d)
	}

	d.surface = d.instance.CreateSurface(surfaceDescriptor)

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("no compatible GPU adapter: %w", err)
	}
	d.adapter = adapter

	limits := wgpu.DefaultLimits()
	dev, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Viewport Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: limits,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("GPU device does not meet baseline requirements: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	d.configureSurface(width, height)
	return d, nil
}

func (d *wgpuDeviceImpl) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.configureSurface(width, height)
}

// configureSurface (re)configures the swapchain and rebuilds the MSAA and depth
// attachments plus the cached render pass descriptor. Caller must hold the mutex
// (or be the constructor).
func (d *wgpuDeviceImpl) configureSurface(width, height int) {
	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surfaceFormat = &capabilities.Formats[0]

	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *d.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: d.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	count := uint32(d.sampleCount)
	msaaEnabled := count > 1

	if msaaEnabled {
		// The render pass draws into the MSAA texture; the resolved result is
		// written to the swapchain view as the ResolveTarget.
		msaaTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        *d.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		d.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	} else {
		d.msaaTextureView = nil
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	d.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	storeOp := wgpu.StoreOpStore
	if msaaEnabled {
		storeOp = wgpu.StoreOpDiscard // Don't store MSAA data, just resolve
	}
	d.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          d.msaaTextureView, // nil when MSAA is off; set in BeginFrame
				ResolveTarget: nil,               // set per-frame when MSAA is on
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       storeOp,
				ClearValue:    d.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (d *wgpuDeviceImpl) CreateVertexBuffer(label string, data []byte, usage BufferUsage) (Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Empty stream buffers get a minimal allocation and are regrown on the
	// first upload.
	size := common.Coalesce(uint64(len(data)), 4)

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Vertex Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create vertex buffer %q: %w", label, err)
	}
	if len(data) > 0 {
		d.queue.WriteBuffer(buf, 0, data)
	}

	handle := Buffer(d.newHandle())
	d.buffers[handle] = &bufferEntry{buf: buf, size: size, usage: usage, label: label}
	return handle, nil
}

func (d *wgpuDeviceImpl) UploadVertexBuffer(buf Buffer, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.buffers[buf]
	if !ok {
		return fmt.Errorf("unknown vertex buffer handle %d", buf)
	}

	if uint64(len(data)) > entry.size {
		// Outgrown — replace the GPU allocation.
		newBuf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: entry.label + " Vertex Buffer",
			Size:  uint64(len(data)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to grow vertex buffer %q: %w", entry.label, err)
		}
		entry.buf.Release()
		entry.buf = newBuf
		entry.size = uint64(len(data))
	}

	if len(data) > 0 {
		d.queue.WriteBuffer(entry.buf, 0, data)
	}
	return nil
}

func (d *wgpuDeviceImpl) CreateIndexBuffer(label string, indices []uint16) (Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data := common.SliceToBytes(indices)
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Index Buffer",
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create index buffer %q: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)

	handle := Buffer(d.newHandle())
	d.buffers[handle] = &bufferEntry{
		buf:     buf,
		size:    uint64(len(data)),
		usage:   BufferUsageStatic,
		label:   label,
		indices: append([]uint16(nil), indices...),
	}
	return handle, nil
}

func (d *wgpuDeviceImpl) CreateTexture(label string, img Image) (Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	tex, view, err := d.createTexture2D(label, img)
	if err != nil {
		return 0, err
	}

	handle := Texture(d.newHandle())
	d.textures[handle] = &textureEntry{tex: tex, view: view, kind: TextureKind2D}
	return handle, nil
}

// createTexture2D creates and uploads a single RGBA texture. Caller must hold the mutex.
func (d *wgpuDeviceImpl) createTexture2D(label string, img Image) (*wgpu.Texture, *wgpu.TextureView, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Texture",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              img.Width,
			Height:             img.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create texture %q: %w", label, err)
	}

	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		img.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  img.Width * 4,
			RowsPerImage: img.Height,
		},
		&wgpu.Extent3D{
			Width:              img.Width,
			Height:             img.Height,
			DepthOrArrayLayers: 1,
		},
	)

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, nil, fmt.Errorf("failed to create texture view %q: %w", label, err)
	}
	return tex, view, nil
}

func (d *wgpuDeviceImpl) CreateCubemap(label string, faces [6]Image) (Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	width, height := faces[0].Width, faces[0].Height
	for i, face := range faces {
		if face.Width != width || face.Height != height {
			return 0, fmt.Errorf("cubemap %q face %d is %dx%d, want %dx%d", label, i, face.Width, face.Height, width, height)
		}
	}

	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label + " Cubemap",
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              width,
			Height:             height,
			DepthOrArrayLayers: 6,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create cubemap %q: %w", label, err)
	}

	for i, face := range faces {
		d.queue.WriteTexture(
			&wgpu.ImageCopyTexture{
				Texture:  tex,
				MipLevel: 0,
				Origin:   wgpu.Origin3D{Z: uint32(i)},
				Aspect:   wgpu.TextureAspectAll,
			},
			face.Pixels,
			&wgpu.TextureDataLayout{
				Offset:       0,
				BytesPerRow:  width * 4,
				RowsPerImage: height,
			},
			&wgpu.Extent3D{
				Width:              width,
				Height:             height,
				DepthOrArrayLayers: 1,
			},
		)
	}

	view, err := tex.CreateView(&wgpu.TextureViewDescriptor{
		Label:           label + " Cubemap View",
		Format:          wgpu.TextureFormatRGBA8UnormSrgb,
		Dimension:       wgpu.TextureViewDimensionCube,
		MipLevelCount:   1,
		ArrayLayerCount: 6,
	})
	if err != nil {
		tex.Release()
		return 0, fmt.Errorf("failed to create cubemap view %q: %w", label, err)
	}

	handle := Texture(d.newHandle())
	d.textures[handle] = &textureEntry{tex: tex, view: view, kind: TextureKindCube}
	return handle, nil
}

func (d *wgpuDeviceImpl) CreateProgram(label string, desc ProgramDescriptor) (Program, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	vs, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label + " Vertex Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.VertexSource,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to compile vertex shader %q: %w", label, err)
	}
	fs, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: label + " Fragment Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: desc.FragmentSource,
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to compile fragment shader %q: %w", label, err)
	}

	layout, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   label + " Bind Group Layout",
		Entries: programLayoutEntries(desc),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bind group layout %q: %w", label, err)
	}

	pipelineLayout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            label,
		BindGroupLayouts: []*wgpu.BindGroupLayout{layout},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create pipeline layout %q: %w", label, err)
	}

	topology := wgpu.PrimitiveTopologyTriangleList
	if desc.Topology == TopologyPoints {
		topology = wgpu.PrimitiveTopologyPointList
	}

	target := wgpu.ColorTargetState{
		Format:    *d.surfaceFormat,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if desc.Blend {
		target.Blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				Operation: wgpu.BlendOperationAdd,
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			},
			Alpha: wgpu.BlendComponent{
				Operation: wgpu.BlendOperationAdd,
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			},
		}
	}

	pipeline, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  label + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: 3 * 4,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							ShaderLocation: 0,
							Offset:         0,
							Format:         wgpu.VertexFormatFloat32x3,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: "fs_main",
			Targets:    []wgpu.ColorTargetState{target},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  topology,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: uint32(d.sampleCount),
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: !desc.Blend,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to link program %q: %w", label, err)
	}

	uniformBuf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Uniform Buffer",
		Size:  uint64(96),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create uniform buffer %q: %w", label, err)
	}

	sampler, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label + " Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create sampler %q: %w", label, err)
	}

	handle := Program(d.newHandle())
	d.programs[handle] = &programEntry{
		pipeline:   pipeline,
		layout:     layout,
		uniformBuf: uniformBuf,
		sampler:    sampler,
		desc:       desc,
	}
	return handle, nil
}

// programLayoutEntries builds the single bind group layout shared by every
// layer program: uniforms at binding 0, a sampler at binding 1 when textures
// are present, then one texture entry per descriptor binding.
func programLayoutEntries(desc ProgramDescriptor) []wgpu.BindGroupLayoutEntry {
	uniforms := wgpu.BindGroupLayoutEntry{
		Binding:    0,
		Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
	}
	uniforms.Buffer.Type = wgpu.BufferBindingTypeUniform
	uniforms.Buffer.MinBindingSize = 96
	entries := []wgpu.BindGroupLayoutEntry{uniforms}

	if len(desc.Textures) > 0 {
		sampler := wgpu.BindGroupLayoutEntry{
			Binding:    1,
			Visibility: wgpu.ShaderStageFragment,
		}
		sampler.Sampler.Type = wgpu.SamplerBindingTypeFiltering
		entries = append(entries, sampler)
	}

	for i, kind := range desc.Textures {
		texture := wgpu.BindGroupLayoutEntry{
			Binding:    uint32(2 + i),
			Visibility: wgpu.ShaderStageFragment,
		}
		texture.Texture.SampleType = wgpu.TextureSampleTypeFloat
		texture.Texture.ViewDimension = wgpu.TextureViewDimension2D
		if kind == TextureKindCube {
			texture.Texture.ViewDimension = wgpu.TextureViewDimensionCube
		}
		entries = append(entries, texture)
	}
	return entries
}

func (d *wgpuDeviceImpl) DestroyBuffer(buf Buffer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.buffers[buf]
	if !ok {
		return
	}
	if entry.quadIndexBuf != nil {
		entry.quadIndexBuf.Release()
	}
	entry.buf.Release()
	delete(d.buffers, buf)
}

func (d *wgpuDeviceImpl) DestroyTexture(tex Texture) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.textures[tex]
	if !ok {
		return
	}
	entry.view.Release()
	entry.tex.Release()
	delete(d.textures, tex)
}

func (d *wgpuDeviceImpl) DestroyProgram(prog Program) {
	d.mu.Lock()
	defer d.mu.Unlock()

	entry, ok := d.programs[prog]
	if !ok {
		return
	}
	entry.sampler.Release()
	entry.uniformBuf.Release()
	entry.pipeline.Release()
	entry.layout.Release()
	delete(d.programs, prog)
}

func (d *wgpuDeviceImpl) BeginFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Defensive: if a previous frame's surface texture is still held, avoid
	// attempting to acquire another one. This prevents wgpu-native validation
	// errors like "Surface image is already acquired" when frames overlap.
	if d.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	// When MSAA is enabled, the MSAA texture is the color attachment View and
	// the swapchain view is the ResolveTarget. When MSAA is off, the swapchain
	// view is the color attachment View directly and ResolveTarget is nil.
	if d.sampleCount > 1 {
		d.renderPassDescriptor.ColorAttachments[0].ResolveTarget = view
	} else {
		d.renderPassDescriptor.ColorAttachments[0].View = view
	}
	pass := encoder.BeginRenderPass(d.renderPassDescriptor)

	d.frameEncoder = encoder
	d.framePass = pass
	d.frameSurface = surfaceTexture
	d.frameView = view

	return nil
}

func (d *wgpuDeviceImpl) Draw(cmd DrawCommand) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.framePass == nil {
		return
	}

	program, ok := d.programs[cmd.Program]
	if !ok {
		return
	}
	vertices, ok := d.buffers[cmd.Vertices]
	if !ok {
		return
	}

	uniforms := gpuUniforms{
		ViewProjection: cmd.Uniforms.ViewProjection,
		CameraPosition: [4]float32{cmd.Uniforms.CameraPosition[0], cmd.Uniforms.CameraPosition[1], cmd.Uniforms.CameraPosition[2], 1},
		LightPosition:  [4]float32{cmd.Uniforms.LightPosition[0], cmd.Uniforms.LightPosition[1], cmd.Uniforms.LightPosition[2], 1},
	}
	d.queue.WriteBuffer(program.uniformBuf, 0, common.StructToBytes(&uniforms))

	entries := []wgpu.BindGroupEntry{
		{
			Binding: 0,
			Buffer:  program.uniformBuf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		},
	}
	if len(cmd.Textures) > 0 {
		entries = append(entries, wgpu.BindGroupEntry{
			Binding: 1,
			Sampler: program.sampler,
		})
	}
	for i, tex := range cmd.Textures {
		entry, texOK := d.textures[tex]
		if !texOK {
			return
		}
		entries = append(entries, wgpu.BindGroupEntry{
			Binding:     uint32(2 + i),
			TextureView: entry.view,
		})
	}

	bindGroup, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   "Frame Bind Group",
		Layout:  program.layout,
		Entries: entries,
	})
	if err != nil {
		return
	}
	d.frameGroups = append(d.frameGroups, bindGroup)

	d.framePass.SetPipeline(program.pipeline)
	d.framePass.SetBindGroup(0, bindGroup, nil)
	d.framePass.SetVertexBuffer(0, vertices.buf, 0, wgpu.WholeSize)

	switch program.desc.Topology {
	case TopologyPoints:
		d.framePass.Draw(uint32(cmd.Count), 1, 0, 0)
	case TopologyQuads:
		indexBuf, indexCount := d.quadIndices(cmd, vertices)
		if indexBuf == nil {
			return
		}
		d.framePass.SetIndexBuffer(indexBuf, wgpu.IndexFormatUint16, 0, wgpu.WholeSize)
		d.framePass.DrawIndexed(uint32(indexCount), 1, 0, 0, 0)
	}
}

// quadIndices resolves the triangulated index buffer for a quad draw. Indexed
// draws triangulate the command's quad indices; non-indexed draws synthesize
// sequential quad indices over the vertex count. The result is cached on the
// source buffer entry and rebuilt when the primitive count changes.
// Caller must hold the mutex.
func (d *wgpuDeviceImpl) quadIndices(cmd DrawCommand, vertices *bufferEntry) (*wgpu.Buffer, int) {
	source := vertices
	var quads []uint16
	if cmd.Indices != 0 {
		entry, ok := d.buffers[cmd.Indices]
		if !ok {
			return nil, 0
		}
		source = entry
		if cmd.Count > len(entry.indices) {
			return nil, 0
		}
		quads = entry.indices[:cmd.Count]
	} else {
		quads = sequentialQuadIndices(cmd.Count)
	}

	triangulated := triangulateQuads(quads)
	if source.quadIndexBuf == nil || source.quadIndexCount != len(triangulated) {
		if source.quadIndexBuf != nil {
			source.quadIndexBuf.Release()
		}
		buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: source.label + " Quad Index Buffer",
			Size:  uint64(len(triangulated) * 2),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return nil, 0
		}
		d.queue.WriteBuffer(buf, 0, common.SliceToBytes(triangulated))
		source.quadIndexBuf = buf
		source.quadIndexCount = len(triangulated)
	}
	return source.quadIndexBuf, source.quadIndexCount
}

// triangulateQuads converts quad indices (four per face) into triangle list
// indices (six per face): a,b,c,d becomes a,b,c a,c,d.
func triangulateQuads(quads []uint16) []uint16 {
	out := make([]uint16, 0, len(quads)/4*6)
	for i := 0; i+3 < len(quads); i += 4 {
		a, b, c, q := quads[i], quads[i+1], quads[i+2], quads[i+3]
		out = append(out, a, b, c, a, c, q)
	}
	return out
}

// sequentialQuadIndices returns the identity quad indices 0..count-1 for
// non-indexed quad draws.
func sequentialQuadIndices(count int) []uint16 {
	out := make([]uint16, count)
	for i := range out {
		out[i] = uint16(i)
	}
	return out
}

func (d *wgpuDeviceImpl) EndFrame() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.framePass == nil {
		return
	}

	d.framePass.End()

	commandBuffer, err := d.frameEncoder.Finish(nil)
	if err == nil {
		d.queue.Submit(commandBuffer)
		commandBuffer.Release()
	}

	for _, group := range d.frameGroups {
		group.Release()
	}
	d.frameGroups = d.frameGroups[:0]

	d.frameEncoder.Release()
	d.frameEncoder = nil
	d.framePass = nil
}

func (d *wgpuDeviceImpl) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameSurface == nil {
		return
	}

	d.surface.Present()

	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	d.frameSurface.Release()
	d.frameSurface = nil
}

func (d *wgpuDeviceImpl) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for handle, entry := range d.buffers {
		if entry.quadIndexBuf != nil {
			entry.quadIndexBuf.Release()
		}
		entry.buf.Release()
		delete(d.buffers, handle)
	}
	for handle, entry := range d.textures {
		entry.view.Release()
		entry.tex.Release()
		delete(d.textures, handle)
	}
	for handle, entry := range d.programs {
		entry.sampler.Release()
		entry.uniformBuf.Release()
		entry.pipeline.Release()
		entry.layout.Release()
		delete(d.programs, handle)
	}

	d.device.Release()
	d.adapter.Release()
	d.surface.Release()
	d.instance.Release()
	return nil
}

// newHandle issues the next opaque handle id. Caller must hold the mutex.
func (d *wgpuDeviceImpl) newHandle() uint64 {
	d.nextHandle++
	return d.nextHandle
}
