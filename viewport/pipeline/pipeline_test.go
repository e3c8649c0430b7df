package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/Carmen-Shannon/particleview/viewport/device/devicetest"
	"github.com/Carmen-Shannon/particleview/viewport/loader"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
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

func TestRenderFrameDrawOrder(t *testing.T) {
	dev := devicetest.New()
	p := NewRenderPipeline(dev)
	p.Initialize(loader.NewAssetLoader(dev, assetFS(t)))

	positions := []mgl32.Vec3{{0, 0, 1}, {1, 0, 1}}
	p.Particles().RefreshGeometry(positions)

	require.NoError(t, p.RenderFrame())

	draws := dev.Draws()
	require.Len(t, draws, 3)
	// Ground (4 quad vertices), then skybox (24 indices), then points.
	assert.Equal(t, 4, draws[0].Count)
	assert.Equal(t, 24, draws[1].Count)
	assert.Equal(t, 2, draws[2].Count)
	assert.Equal(t, 1, dev.Frames())
}

func TestVisibilityTogglesSkipDraws(t *testing.T) {
	dev := devicetest.New()
	p := NewRenderPipeline(dev)
	p.Initialize(loader.NewAssetLoader(dev, assetFS(t)))

	p.SetVisibility(LayerGround, false)
	p.SetVisibility(LayerSkybox, false)

	require.NoError(t, p.RenderFrame())
	assert.Empty(t, dev.Draws())

	// Toggling back on requires no re-initialization.
	p.SetVisibility(LayerGround, true)
	require.NoError(t, p.RenderFrame())
	draws := dev.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, 4, draws[0].Count)
}

func TestFailedLayerIsSkippedOthersContinue(t *testing.T) {
	dev := devicetest.New()
	fsys := assetFS(t)
	delete(fsys, "textures/sky_pz.png")
	p := NewRenderPipeline(dev)
	p.Initialize(loader.NewAssetLoader(dev, fsys))

	require.NoError(t, p.RenderFrame())

	draws := dev.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, 4, draws[0].Count)
}

func TestParticleSync(t *testing.T) {
	dev := devicetest.New()
	p := NewRenderPipeline(dev)
	p.Initialize(loader.NewAssetLoader(dev, assetFS(t)))

	positions := make([]mgl32.Vec3, 5)
	p.Particles().RefreshGeometry(positions)
	assert.Equal(t, 5, p.ParticleCount())

	require.NoError(t, p.RenderFrame())
	draws := dev.Draws()
	require.Len(t, draws, 3)
	assert.Equal(t, 5, draws[2].Count)

	p.Particles().RefreshGeometry(nil)
	assert.Zero(t, p.ParticleCount())
}

func TestSetLimitCameraForwards(t *testing.T) {
	dev := devicetest.New()
	p := NewRenderPipeline(dev)

	require.False(t, p.Camera().LimitEnabled())
	p.SetLimitCamera(true)
	assert.True(t, p.Camera().LimitEnabled())
	p.SetLimitCamera(false)
	assert.False(t, p.Camera().LimitEnabled())
}

func TestRenderFrameUsesCurrentCameraAndLight(t *testing.T) {
	dev := devicetest.New()
	p := NewRenderPipeline(dev)
	p.Initialize(loader.NewAssetLoader(dev, assetFS(t)))

	p.Light().SetPosition(mgl32.Vec3{3, 4, 5})
	require.NoError(t, p.RenderFrame())

	draws := dev.Draws()
	require.NotEmpty(t, draws)
	assert.Equal(t, mgl32.Vec3{3, 4, 5}, draws[0].Uniforms.LightPosition)
	assert.Equal(t, p.Camera().Position(), draws[0].Uniforms.CameraPosition)
	assert.Equal(t, p.Camera().ViewProjection(), draws[0].Uniforms.ViewProjection)
}

func TestTeardown(t *testing.T) {
	dev := devicetest.New()
	p := NewRenderPipeline(dev)
	p.Initialize(loader.NewAssetLoader(dev, assetFS(t)))
	require.NotZero(t, dev.LiveResourceCount())

	p.Teardown()
	assert.Zero(t, dev.LiveResourceCount())
}
