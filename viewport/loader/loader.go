package loader

import (
	"fmt"
	"image"
	"image/draw"
	"io/fs"
	"sync"

	"github.com/Carmen-Shannon/particleview/viewport/device"

	_ "image/jpeg"
	_ "image/png"
)

// assetLoader is the implementation of the ResourceLoader interface.
type assetLoader struct {
	mu sync.Mutex

	device device.Device
	fsys   fs.FS

	textureCache map[string]device.Texture
}

// ResourceLoader defines the public-facing interface for loading render layer
// assets (textures, cubemaps, shader programs) from an asset filesystem onto
// a device. Textures are cached by asset id so layers sharing an image do not
// reupload it.
type ResourceLoader interface {
	// LoadTexture decodes the image asset at the given id and uploads it as a
	// 2D texture. Repeated loads of the same id return the cached texture.
	//
	// Parameters:
	//   - id: the asset path of the image file (PNG or JPEG)
	//
	// Returns:
	//   - device.Texture: the uploaded texture handle
	//   - error: error if the asset is missing, undecodable, or upload fails
	LoadTexture(id string) (device.Texture, error)

	// LoadCubemap decodes six image assets and uploads them as a single
	// cubemap texture. The load is all-or-nothing: any missing or undecodable
	// face fails the whole cubemap and nothing is uploaded. Cubemaps are not
	// cached.
	//
	// Parameters:
	//   - faceIDs: asset paths for the six faces in +X, -X, +Y, -Y, +Z, -Z order
	//
	// Returns:
	//   - device.Texture: the uploaded cubemap handle
	//   - error: error if any face fails to load or upload fails
	LoadCubemap(faceIDs [6]string) (device.Texture, error)

	// LoadShaderProgram reads vertex and fragment shader source assets and
	// compiles them into a program using the provided descriptor for topology,
	// texture bindings, and blend state. The descriptor's source fields are
	// overwritten from the assets.
	//
	// Parameters:
	//   - label: a descriptive name used for the GPU program
	//   - vertexID: the asset path of the vertex shader source
	//   - fragmentID: the asset path of the fragment shader source
	//   - desc: the program descriptor (topology, textures, blend)
	//
	// Returns:
	//   - device.Program: the compiled program handle
	//   - error: error if a source asset is missing or compilation fails
	LoadShaderProgram(label, vertexID, fragmentID string, desc device.ProgramDescriptor) (device.Program, error)
}

var _ ResourceLoader = &assetLoader{}

// NewAssetLoader creates a ResourceLoader reading assets from fsys and
// uploading them to dev.
//
// Parameters:
//   - dev: the device resources are uploaded to
//   - fsys: the filesystem asset ids are resolved against
//
// Returns:
//   - ResourceLoader: the newly created loader
func NewAssetLoader(dev device.Device, fsys fs.FS) ResourceLoader {
	return &assetLoader{
		device:       dev,
		fsys:         fsys,
		textureCache: make(map[string]device.Texture),
	}
}

func (l *assetLoader) LoadTexture(id string) (device.Texture, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if tex, ok := l.textureCache[id]; ok {
		return tex, nil
	}

	img, err := l.decodeImage(id)
	if err != nil {
		return 0, err
	}

	tex, err := l.device.CreateTexture(id, img)
	if err != nil {
		return 0, err
	}
	l.textureCache[id] = tex
	return tex, nil
}

func (l *assetLoader) LoadCubemap(faceIDs [6]string) (device.Texture, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var faces [6]device.Image
	for i, id := range faceIDs {
		img, err := l.decodeImage(id)
		if err != nil {
			return 0, fmt.Errorf("cubemap face %d: %w", i, err)
		}
		faces[i] = img
	}

	return l.device.CreateCubemap(faceIDs[0], faces)
}

func (l *assetLoader) LoadShaderProgram(label, vertexID, fragmentID string, desc device.ProgramDescriptor) (device.Program, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	vertexSource, err := fs.ReadFile(l.fsys, vertexID)
	if err != nil {
		return 0, fmt.Errorf("failed to read vertex shader %q: %w", vertexID, err)
	}
	fragmentSource, err := fs.ReadFile(l.fsys, fragmentID)
	if err != nil {
		return 0, fmt.Errorf("failed to read fragment shader %q: %w", fragmentID, err)
	}

	desc.VertexSource = string(vertexSource)
	desc.FragmentSource = string(fragmentSource)
	return l.device.CreateProgram(label, desc)
}

// decodeImage reads and decodes an image asset into tightly packed RGBA
// pixels. Caller must hold the mutex.
func (l *assetLoader) decodeImage(id string) (device.Image, error) {
	f, err := l.fsys.Open(id)
	if err != nil {
		return device.Image{}, fmt.Errorf("failed to open image %q: %w", id, err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return device.Image{}, fmt.Errorf("failed to decode image %q: %w", id, err)
	}

	bounds := src.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	return device.Image{
		Pixels: rgba.Pix,
		Width:  uint32(bounds.Dx()),
		Height: uint32(bounds.Dy()),
	}, nil
}
