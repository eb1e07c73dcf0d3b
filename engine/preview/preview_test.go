package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/keyframe"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boxes() model.MeshSet {
	box := func(name string, lo, hi [3]float32) model.Model {
		return model.NewModel(model.WithName(name), model.WithMesh(model.Box(name, lo, hi)))
	}
	return model.MeshSet{
		rig.MeshBody:     box("body", [3]float32{-0.6, -0.25, -0.8}, [3]float32{0.6, 0.25, 0.8}),
		rig.MeshHead:     box("head", [3]float32{-0.25, -0.25, -0.25}, [3]float32{0.25, 0.25, 0.25}),
		rig.MeshUpperLeg: box("upper_leg", [3]float32{-0.12, 0.6, -0.12}, [3]float32{0.12, 1.15, 0.12}),
		rig.MeshLowerLeg: box("lower_leg", [3]float32{-0.1, 0.45, -0.1}, [3]float32{0.1, 0.7, 0.1}),
	}
}

func frontCamera() camera.Camera {
	return camera.NewCamera(camera.WithController(camera.NewCameraController(
		camera.WithTarget(common.Vec3{0, 1, 0}),
		camera.WithRadius(10),
		camera.WithAzimuth(0),
		camera.WithElevation(0),
	)))
}

func options() Options {
	return Options{
		Evaluator: scene.NewEvaluator(scene.WithSampler(keyframe.NewStore())),
		Meshes:    boxes(),
		Camera:    frontCamera(),
		Width:     80,
		Height:    60,
		Selected:  rig.None,
	}
}

func TestRenderLitSupersampled(t *testing.T) {
	opts := options()
	opts.Supersample = 2
	img, err := Render(opts)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 60), img.Bounds())

	corner := img.NRGBAAt(0, 0)
	assert.InDelta(t, Background[0], corner.R, 1)
	assert.InDelta(t, Background[2], corner.B, 1)

	center := img.NRGBAAt(40, 30)
	assert.Equal(t, uint8(255), center.A)
	assert.NotEqual(t, color.NRGBA{Background[0], Background[1], Background[2], Background[3]}, center)
}

func TestRenderIdentifiersIgnoresSupersample(t *testing.T) {
	opts := options()
	opts.Identifiers = true
	opts.Supersample = 4
	img, err := Render(opts)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 80, 60), img.Bounds())

	part, ok := rig.PartFromPickID(img.NRGBAAt(40, 30).R)
	require.True(t, ok)
	assert.Equal(t, rig.Body, part)
	assert.Equal(t, uint8(0), img.NRGBAAt(0, 0).R)
}

func TestRenderRejectsBadOptions(t *testing.T) {
	_, err := Render(Options{Width: 10, Height: 10})
	assert.Error(t, err)

	opts := options()
	opts.Height = 0
	_, err = Render(opts)
	assert.Error(t, err)
}

func TestDownsampleKeepsTransparentEdgesClean(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 4; x++ {
			src.SetNRGBA(x, y, color.NRGBA{200, 40, 40, 255})
		}
	}

	out := Downsample(src, 4, 4)
	require.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	left := out.NRGBAAt(0, 2)
	assert.InDelta(t, 200, left.R, 2)
	assert.Equal(t, uint8(255), left.A)
	assert.Equal(t, uint8(0), out.NRGBAAt(3, 2).A)

	// partially covered pixels keep the straight color instead of darkening
	for x := 0; x < 4; x++ {
		if p := out.NRGBAAt(x, 2); p.A > 16 {
			assert.InDelta(t, 200, p.R, 12, "x=%d", x)
		}
	}

	assert.Same(t, src, Downsample(src, 8, 8))
}

func TestThumbnailKeepsAspect(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	assert.Equal(t, image.Rect(0, 0, 64, 32), Thumbnail(img, 64).Bounds())

	tall := image.NewNRGBA(image.Rect(0, 0, 50, 100))
	assert.Equal(t, image.Rect(0, 0, 32, 64), Thumbnail(tall, 64).Bounds())
}

func TestEncodeFormats(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, "png"))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	buf.Reset()
	require.NoError(t, Encode(&buf, img, "webp"))
	assert.Equal(t, "RIFF", string(buf.Bytes()[:4]))

	assert.ErrorIs(t, Encode(&buf, img, "gif"), ErrUnknownFormat)
}
