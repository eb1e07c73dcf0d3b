package gizmo

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewport(eye common.Vec3) Viewport {
	return Viewport{
		View:   common.LookAt(eye, common.Vec3{}, common.Vec3{0, 1, 0}),
		Proj:   common.Perspective(math32.Pi/4, 1, 0.1, 1000),
		Width:  800,
		Height: 800,
	}
}

func TestBeginRequiresVisibleAndNearAnchor(t *testing.T) {
	c := NewController()
	vp := viewport(common.Vec3{3, 4, 10})
	assert.False(t, c.Begin(vp, 400, 400))

	c.Show(common.Vec3{})
	assert.False(t, c.Begin(vp, 10, 10))
	assert.False(t, c.Dragging())

	assert.True(t, c.Begin(vp, 400, 400))
	assert.True(t, c.Dragging())
	assert.Equal(t, AxisX, c.Axis(), "a press on the anchor falls back to x")

	c.End()
	assert.False(t, c.Dragging())
	assert.Equal(t, AxisNone, c.Axis())
}

func TestBeginEngagesEveryAxis(t *testing.T) {
	vp := viewport(common.Vec3{6, 5, 8})
	anchor := common.Vec3{}
	ax, ay, ok := common.ProjectToScreen(vp.View, vp.Proj, anchor, vp.Width, vp.Height)
	require.True(t, ok)

	for i, want := range []Axis{AxisX, AxisY, AxisZ} {
		c := NewController()
		c.Show(anchor)

		tip := anchor.Add(axisDirections[i].Mul(Size * 0.5))
		tx, ty, ok := common.ProjectToScreen(vp.View, vp.Proj, tip, vp.Width, vp.Height)
		require.True(t, ok)
		require.Less(t, math32.Hypot(tx-ax, ty-ay), HitRadius)

		require.True(t, c.Begin(vp, tx, ty))
		assert.Equal(t, want, c.Axis())
	}
}

func TestTranslateDragOnX(t *testing.T) {
	c := NewController()
	vp := viewport(common.Vec3{0, 0, 10})
	c.Show(common.Vec3{})
	require.True(t, c.Begin(vp, 400, 400))
	require.Equal(t, AxisX, c.Axis())

	start := rig.Pose{Translation: common.Vec3{1, 2, 3}, Rotation: common.Vec3{0.1, 0.2, 0.3}}
	got, ok := c.Drag(410, 400, start)
	require.True(t, ok)
	assert.InDelta(t, 1+10*TranslateSensitivity, got.Translation[0], 1e-6)
	assert.Equal(t, start.Translation[1], got.Translation[1])
	assert.Equal(t, start.Translation[2], got.Translation[2])
	assert.Equal(t, start.Rotation, got.Rotation)

	// deltas are relative to the previous event
	got, _ = c.Drag(410, 400, got)
	assert.InDelta(t, 1.1, got.Translation[0], 1e-6)
}

func TestRotateDrag(t *testing.T) {
	c := NewController()
	c.SetMode(Rotate)
	vp := viewport(common.Vec3{0, 0, 10})
	c.Show(common.Vec3{})
	require.True(t, c.Begin(vp, 400, 400))

	got, ok := c.Drag(403, 404, rig.Pose{})
	require.True(t, ok)
	assert.InDelta(t, 5*RotateSensitivity, got.Rotation[0], 1e-6)

	got, _ = c.Drag(400, 400, got)
	assert.InDelta(t, 0, got.Rotation[0], 1e-6)
}

func TestDragWithoutEngagement(t *testing.T) {
	c := NewController()
	pose := rig.Pose{Translation: common.Vec3{1, 1, 1}}
	got, ok := c.Drag(5, 5, pose)
	assert.False(t, ok)
	assert.Equal(t, pose, got)
}

func TestModeToggleAndHide(t *testing.T) {
	c := NewController()
	assert.Equal(t, Translate, c.Mode())
	c.ToggleMode()
	assert.Equal(t, Rotate, c.Mode())
	c.ToggleMode()
	assert.Equal(t, Translate, c.Mode())

	c.Show(common.Vec3{1, 2, 3})
	require.True(t, c.Visible())
	c.Hide()
	assert.False(t, c.Visible())
	assert.False(t, c.Dragging())
}

func TestGeometry(t *testing.T) {
	translate := Geometry(Translate)
	assert.Len(t, translate, 3*(2+2*arrowSegments))
	rotate := Geometry(Rotate)
	assert.Len(t, rotate, len(translate)+3*2*ringSegments)

	// the x arrow ends at Size along x
	assert.Equal(t, [3]float32{Size, 0, 0}, translate[1].Position)
	assert.Equal(t, axisColors[0], translate[1].Color)
	assert.Equal(t, common.Vec3{1, 2, 3}, common.Position(ModelMatrix(common.Vec3{1, 2, 3})))
}
