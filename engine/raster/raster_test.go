package raster

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/keyframe"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(z, half float32) model.ImportedMesh {
	n := [3]float32{0, 0, 1}
	return model.ImportedMesh{
		Vertices: []model.Vertex{
			{Position: [3]float32{-half, -half, z}, Normal: n},
			{Position: [3]float32{half, -half, z}, Normal: n},
			{Position: [3]float32{half, half, z}, Normal: n},
			{Position: [3]float32{-half, half, z}, Normal: n},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
}

func camera() (common.Mat4, common.Mat4) {
	view := common.LookAt(common.Vec3{0, 0, 5}, common.Vec3{}, common.Vec3{0, 1, 0})
	proj := common.Perspective(0.785398, 1, 0.1, 100)
	return view, proj
}

func TestDrawFlatCoversCenterOnly(t *testing.T) {
	fb := NewFrameBuffer(64, 64)
	view, proj := camera()
	mesh := square(0, 0.5)
	fb.DrawFlat(&mesh, proj.Mul4(view), [4]uint8{7, 0, 0, 255})

	assert.Equal(t, [4]uint8{7, 0, 0, 255}, fb.Pixel(32, 32))
	assert.Equal(t, [4]uint8{}, fb.Pixel(1, 1))
	assert.Equal(t, [4]uint8{}, fb.Pixel(100, 100))
}

func TestDepthTestKeepsNearest(t *testing.T) {
	fb := NewFrameBuffer(32, 32)
	view, proj := camera()
	vp := proj.Mul4(view)
	near := square(1, 0.5)
	far := square(-1, 2)

	fb.DrawFlat(&near, vp, [4]uint8{1, 0, 0, 255})
	fb.DrawFlat(&far, vp, [4]uint8{2, 0, 0, 255})
	assert.Equal(t, uint8(1), fb.Pixel(16, 16)[0])
	// outside the near square only the far one shows
	assert.Equal(t, uint8(2), fb.Pixel(3, 16)[0])
}

func TestDrawLitShadesAndTints(t *testing.T) {
	fb := NewFrameBuffer(32, 32)
	view, proj := camera()
	mesh := square(0, 1)
	lc := DefaultLightConfig()
	lc.CameraPosition = common.Vec3{0, 0, 5}

	fb.DrawLit(&mesh, common.Identity(), proj.Mul4(view), Surface{BaseColor: DefaultBaseColor}, &lc)
	plain := fb.Pixel(16, 16)
	assert.Equal(t, plain[0], plain[1])
	assert.NotZero(t, plain[0])

	fb.Clear([4]uint8{})
	fb.DrawLit(&mesh, common.Identity(), proj.Mul4(view), Surface{BaseColor: DefaultBaseColor, Tint: SelectedTint, TintAmount: 0.5}, &lc)
	tinted := fb.Pixel(16, 16)
	assert.Greater(t, tinted[0], tinted[1])
}

func TestResizeAndImage(t *testing.T) {
	fb := NewFrameBuffer(4, 4)
	fb.Clear([4]uint8{1, 2, 3, 4})
	fb.Resize(2, 3)
	assert.Equal(t, [4]uint8{}, fb.Pixel(1, 2))
	img := fb.Image()
	assert.Equal(t, 2, img.Bounds().Dx())
	assert.Equal(t, 3, img.Bounds().Dy())
}

// recordingEvaluator remembers the base of every walk.
type recordingEvaluator struct {
	scene.Evaluator
	bases []common.Mat4
}

func (r *recordingEvaluator) Walk(base common.Mat4, t float32, draw scene.DrawFunc) {
	r.bases = append(r.bases, base)
	r.Evaluator.Walk(base, t, draw)
}

func robotPass() (Pass, *recordingEvaluator) {
	box := func(name string, lo, hi [3]float32) model.Model {
		return model.NewModel(model.WithName(name), model.WithMesh(model.Box(name, lo, hi)))
	}
	rec := &recordingEvaluator{Evaluator: scene.NewEvaluator(scene.WithSampler(keyframe.NewStore()))}
	view := common.LookAt(common.Vec3{0, 1, 10}, common.Vec3{0, 1, 0}, common.Vec3{0, 1, 0})
	return Pass{
		Evaluator: rec,
		Meshes: model.MeshSet{
			rig.MeshBody:     box("body", [3]float32{-0.6, -0.25, -0.8}, [3]float32{0.6, 0.25, 0.8}),
			rig.MeshHead:     box("head", [3]float32{-0.25, -0.25, -0.25}, [3]float32{0.25, 0.25, 0.25}),
			rig.MeshUpperLeg: box("upper_leg", [3]float32{-0.12, 0.6, -0.12}, [3]float32{0.12, 1.15, 0.12}),
			rig.MeshLowerLeg: box("lower_leg", [3]float32{-0.1, 0.45, -0.1}, [3]float32{0.1, 0.7, 0.1}),
		},
		View: view,
		Proj: common.Perspective(0.785398, 1, 0.1, 100),
	}, rec
}

func TestPassesWalkFromIdentity(t *testing.T) {
	p, rec := robotPass()
	ids := NewFrameBuffer(64, 64)
	ids.RenderIdentifiers(p)
	lit := NewFrameBuffer(64, 64)
	bg := [4]uint8{0, 0, 0, 0}
	lc := DefaultLightConfig()
	lit.RenderLit(p, rig.None, &lc, bg)

	require.Len(t, rec.bases, 2)
	assert.Equal(t, common.Identity(), rec.bases[0])
	assert.Equal(t, common.Identity(), rec.bases[1])

	// both passes cover exactly the same pixels
	covered := 0
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			hit := ids.Pixel(x, y)[3] != 0
			assert.Equal(t, hit, lit.Pixel(x, y) != bg, "x=%d y=%d", x, y)
			if hit {
				covered++
			}
		}
	}
	assert.Positive(t, covered)
}
