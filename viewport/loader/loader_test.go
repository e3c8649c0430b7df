package loader

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/particleview/viewport/device"
	"github.com/Carmen-Shannon/particleview/viewport/device/devicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLoadTexture(t *testing.T) {
	dev := devicetest.New()
	fsys := fstest.MapFS{
		"textures/dirt.png": &fstest.MapFile{Data: pngBytes(t, 2, 2, color.RGBA{R: 120, G: 80, B: 40, A: 255})},
	}
	l := NewAssetLoader(dev, fsys)

	tex, err := l.LoadTexture("textures/dirt.png")
	require.NoError(t, err)
	assert.NotZero(t, tex)
	assert.Equal(t, []string{"textures/dirt.png"}, dev.LiveTextures())
}

func TestLoadTextureCached(t *testing.T) {
	dev := devicetest.New()
	fsys := fstest.MapFS{
		"textures/dirt.png": &fstest.MapFile{Data: pngBytes(t, 2, 2, color.RGBA{A: 255})},
	}
	l := NewAssetLoader(dev, fsys)

	first, err := l.LoadTexture("textures/dirt.png")
	require.NoError(t, err)
	second, err := l.LoadTexture("textures/dirt.png")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, dev.LiveTextures(), 1)
}

func TestLoadTextureMissing(t *testing.T) {
	dev := devicetest.New()
	l := NewAssetLoader(dev, fstest.MapFS{})

	_, err := l.LoadTexture("textures/missing.png")
	assert.Error(t, err)
	assert.Zero(t, dev.LiveResourceCount())
}

func TestLoadTextureUndecodable(t *testing.T) {
	dev := devicetest.New()
	fsys := fstest.MapFS{
		"textures/bad.png": &fstest.MapFile{Data: []byte("not an image")},
	}
	l := NewAssetLoader(dev, fsys)

	_, err := l.LoadTexture("textures/bad.png")
	assert.Error(t, err)
	assert.Zero(t, dev.LiveResourceCount())
}

func TestLoadCubemap(t *testing.T) {
	dev := devicetest.New()
	fsys := fstest.MapFS{}
	var faces [6]string
	for i, name := range []string{"px", "nx", "py", "ny", "pz", "nz"} {
		id := "textures/sky_" + name + ".png"
		fsys[id] = &fstest.MapFile{Data: pngBytes(t, 4, 4, color.RGBA{B: 200, A: 255})}
		faces[i] = id
	}
	l := NewAssetLoader(dev, fsys)

	tex, err := l.LoadCubemap(faces)
	require.NoError(t, err)
	assert.NotZero(t, tex)
	assert.Len(t, dev.LiveTextures(), 1)
}

func TestLoadCubemapMissingFaceFailsWhole(t *testing.T) {
	dev := devicetest.New()
	fsys := fstest.MapFS{}
	var faces [6]string
	for i, name := range []string{"px", "nx", "py", "ny", "pz", "nz"} {
		id := "textures/sky_" + name + ".png"
		if name != "ny" {
			fsys[id] = &fstest.MapFile{Data: pngBytes(t, 4, 4, color.RGBA{A: 255})}
		}
		faces[i] = id
	}
	l := NewAssetLoader(dev, fsys)

	_, err := l.LoadCubemap(faces)
	assert.Error(t, err)
	// No partial cubemap upload should have happened.
	assert.Zero(t, dev.LiveResourceCount())
}

func TestLoadShaderProgram(t *testing.T) {
	dev := devicetest.New()
	fsys := fstest.MapFS{
		"shaders/ground_vert.wgsl": &fstest.MapFile{Data: []byte("// vertex")},
		"shaders/ground_frag.wgsl": &fstest.MapFile{Data: []byte("// fragment")},
	}
	l := NewAssetLoader(dev, fsys)

	prog, err := l.LoadShaderProgram("ground", "shaders/ground_vert.wgsl", "shaders/ground_frag.wgsl", device.ProgramDescriptor{
		Topology: device.TopologyQuads,
		Textures: []device.TextureKind{device.TextureKind2D},
	})
	require.NoError(t, err)
	assert.NotZero(t, prog)
	assert.Equal(t, []string{"ground"}, dev.LivePrograms())
}

func TestLoadShaderProgramMissingSource(t *testing.T) {
	dev := devicetest.New()
	fsys := fstest.MapFS{
		"shaders/ground_vert.wgsl": &fstest.MapFile{Data: []byte("// vertex")},
	}
	l := NewAssetLoader(dev, fsys)

	_, err := l.LoadShaderProgram("ground", "shaders/ground_vert.wgsl", "shaders/ground_frag.wgsl", device.ProgramDescriptor{})
	assert.Error(t, err)
	assert.Zero(t, dev.LiveResourceCount())
}

func TestLoadShaderProgramCompileFailure(t *testing.T) {
	dev := devicetest.New()
	dev.FailCreate["ground"] = errors.New("compile error")
	fsys := fstest.MapFS{
		"shaders/ground_vert.wgsl": &fstest.MapFile{Data: []byte("// vertex")},
		"shaders/ground_frag.wgsl": &fstest.MapFile{Data: []byte("// fragment")},
	}
	l := NewAssetLoader(dev, fsys)

	_, err := l.LoadShaderProgram("ground", "shaders/ground_vert.wgsl", "shaders/ground_frag.wgsl", device.ProgramDescriptor{})
	assert.Error(t, err)
}
