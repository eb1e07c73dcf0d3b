package picking

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeshes() model.MeshSet {
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

func testFrame() Frame {
	const w, h = 200, 150
	return Frame{
		Evaluator: scene.NewEvaluator(),
		View:      common.LookAt(common.Vec3{0, 1, 10}, common.Vec3{0, 1, 0}, common.Vec3{0, 1, 0}),
		Proj:      common.Perspective(0.785398, float32(w)/float32(h), 0.1, 1000),
		Width:     w,
		Height:    h,
	}
}

func TestPickInsideSilhouette(t *testing.T) {
	r := NewResolver(NewSoftwareTarget(testMeshes()))
	f := testFrame()

	part, ok, err := r.Pick(f, f.Width/2, f.Height/2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rig.Body, part)

	// the head sits above the body, which is a smaller y on screen
	x, y, visible := common.ProjectToScreen(f.View, f.Proj, common.Vec3{0, 1.8, 0.6}, float32(f.Width), float32(f.Height))
	require.True(t, visible)
	part, ok, err = r.Pick(f, int(x), int(y))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rig.Head, part)
}

func TestPickBackgroundAndOutOfBounds(t *testing.T) {
	r := NewResolver(NewSoftwareTarget(testMeshes()))
	f := testFrame()

	_, ok, err := r.Pick(f, 2, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	part, ok, err := r.Pick(f, -1, 10)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, rig.None, part)

	_, ok, _ = r.Pick(f, f.Width, 0)
	assert.False(t, ok)
}

func TestPickWithoutTarget(t *testing.T) {
	_, _, err := NewResolver(nil).Pick(testFrame(), 1, 1)
	assert.True(t, errors.Is(err, ErrNoTarget))
}

type stubTarget struct {
	lastX, lastY int
	value        [4]uint8
}

func (s *stubTarget) Render(Frame) error { return nil }

func (s *stubTarget) ReadPixel(x, y int) ([4]uint8, error) {
	s.lastX, s.lastY = x, y
	return s.value, nil
}

func TestPickFlipsY(t *testing.T) {
	stub := &stubTarget{value: [4]uint8{rig.LowerLegBR.PickID(), 0, 0, 255}}
	r := NewResolver(stub)
	f := testFrame()

	part, ok, err := r.Pick(f, 12, 30)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rig.LowerLegBR, part)
	assert.Equal(t, 12, stub.lastX)
	assert.Equal(t, f.Height-30-1, stub.lastY)
}
