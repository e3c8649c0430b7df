package viewport

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/particleview/common"
	"github.com/Carmen-Shannon/particleview/viewport/camera"
	"github.com/Carmen-Shannon/particleview/viewport/device/devicetest"
	"github.com/Carmen-Shannon/particleview/viewport/loader"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func assetFS(t *testing.T) fstest.MapFS {
	t.Helper()
	img := testImage(t)
	fsys := fstest.MapFS{
		"textures/dirt_color.png":  &fstest.MapFile{Data: img},
		"textures/dirt_normal.png": &fstest.MapFile{Data: img},
		"textures/particle.png":    &fstest.MapFile{Data: img},
	}
	for _, face := range []string{"px", "nx", "py", "ny", "pz", "nz"} {
		fsys["textures/sky_"+face+".png"] = &fstest.MapFile{Data: img}
	}
	for _, name := range []string{"ground", "skybox", "particle"} {
		fsys["shaders/"+name+"_vert.wgsl"] = &fstest.MapFile{Data: []byte("// vertex")}
		fsys["shaders/"+name+"_frag.wgsl"] = &fstest.MapFile{Data: []byte("// fragment")}
	}
	return fsys
}

func newTestViewport(t *testing.T, options ...ViewportOption) (*devicetest.Device, Viewport) {
	t.Helper()
	dev := devicetest.New()
	v := NewViewport(dev, loader.NewAssetLoader(dev, assetFS(t)), options...)
	return dev, v
}

func TestTickRefreshesAndRenders(t *testing.T) {
	dev, v := newTestViewport(t)

	positions := []mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {0, 1, 2}}
	v.BindParticleData(&positions)

	count := v.Tick(0.016)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, dev.Frames())

	draws := dev.Draws()
	require.Len(t, draws, 3)
	assert.Equal(t, 3, draws[2].Count)
}

func TestTickWithoutBoundDataDrawsZeroParticles(t *testing.T) {
	dev, v := newTestViewport(t)

	count := v.Tick(0.016)
	assert.Zero(t, count)

	// Ground and skybox still render.
	assert.Len(t, dev.Draws(), 2)
}

func TestParticleBufferGrowthVisibleNextTick(t *testing.T) {
	_, v := newTestViewport(t)

	positions := []mgl32.Vec3{{0, 0, 1}}
	v.BindParticleData(&positions)
	assert.Equal(t, 1, v.Tick(0.016))

	positions = append(positions, mgl32.Vec3{1, 1, 1})
	assert.Equal(t, 2, v.Tick(0.016))
}

func TestVisibilityToggles(t *testing.T) {
	dev, v := newTestViewport(t)

	v.SetGroundVisible(false)
	v.SetSkyboxVisible(false)
	v.Tick(0.016)
	assert.Empty(t, dev.Draws())
}

func TestResizeForwardsToDeviceAndCamera(t *testing.T) {
	dev, v := newTestViewport(t)

	before := v.Camera().ViewProjection()
	v.Resize(1024, 256)

	assert.Contains(t, dev.Calls(), "Resize(1024,256)")
	assert.NotEqual(t, before, v.Camera().ViewProjection())
}

func TestPointerEventsDriveCamera(t *testing.T) {
	_, v := newTestViewport(t, WithCamera(camera.NewOrbitCamera(camera.WithViewportSize(800, 600))))

	before := v.Camera().Position()
	v.PointerDown(400, 300)
	v.PointerDrag(399, 300, common.ButtonPrimary)

	assert.NotEqual(t, before, v.Camera().Position())
}

func TestSetLimitCamera(t *testing.T) {
	_, v := newTestViewport(t)

	v.SetLimitCamera(true)
	assert.True(t, v.Camera().LimitEnabled())
}

func TestClose(t *testing.T) {
	dev, v := newTestViewport(t)

	require.NoError(t, v.Close())
	assert.True(t, dev.Closed())
	assert.Zero(t, dev.LiveResourceCount())
}
