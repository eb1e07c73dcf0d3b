package editor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/gizmo"
	"github.com/Carmen-Shannon/oxy-rig/engine/keyframe"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/picking"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWidth, testHeight = 200, 150

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

// newTestEditor looks at the body head-on from 10 units along +Z.
func newTestEditor(options ...EditorBuilderOption) *Editor {
	ctrl := camera.NewCameraController(
		camera.WithTarget(common.Vec3{0, 1, 0}),
		camera.WithRadius(10),
		camera.WithAzimuth(0),
		camera.WithElevation(0),
	)
	opts := []EditorBuilderOption{
		WithCamera(camera.NewCamera(camera.WithController(ctrl))),
		WithViewport(testWidth, testHeight),
		WithResolver(picking.NewResolver(picking.NewSoftwareTarget(testMeshes()))),
	}
	return NewEditor(append(opts, options...)...)
}

func screenOf(t *testing.T, e *Editor, p common.Vec3) (float32, float32) {
	t.Helper()
	x, y, ok := common.ProjectToScreen(e.Camera().ViewMatrix(), e.Camera().ProjectionMatrix(), p, testWidth, testHeight)
	require.True(t, ok)
	return x, y
}

func click(e *Editor, x, y float32, mods uint32) {
	e.Apply(PointerDown(common.MouseButtonLeft, x, y, mods))
	e.Apply(PointerUp(common.MouseButtonLeft, x, y, mods))
}

func TestAddKeyframeSamplesAndSelects(t *testing.T) {
	e := newTestEditor()

	i, created := e.AddKeyframe(rig.Head, 0.25)
	require.True(t, created)
	assert.Equal(t, 0, i)

	k, ok := e.Store().Get(rig.Head, 0)
	require.True(t, ok)
	assert.Equal(t, rig.Head.RestPose(), k.Pose())
	assert.Equal(t, k.Translation, k.InitialTranslation)

	sel, ok := e.Selection()
	require.True(t, ok)
	assert.Equal(t, Selection{Part: rig.Head, Index: 0}, sel)
	assert.Equal(t, float32(0.25), e.Clock().Time())

	require.True(t, e.Gizmo().Visible())
	anchor := e.Gizmo().Anchor()
	assert.InDeltaSlice(t, []float32{0, 1.8, 0.6}, anchor[:], 1e-6)
}

func TestAddKeyframeWithinThresholdSelectsExisting(t *testing.T) {
	e := newTestEditor()

	_, created := e.AddKeyframe(rig.Body, 0.50)
	require.True(t, created)
	i, created := e.AddKeyframe(rig.Body, 0.503)
	assert.False(t, created)
	assert.Equal(t, 0, i)
	assert.Equal(t, 1, e.Store().Len(rig.Body))
	assert.Equal(t, float32(0.5), e.Clock().Time(), "selecting seeks to the existing keyframe")
}

func TestDeleteClearsSelectionAndHidesGizmo(t *testing.T) {
	e := newTestEditor()
	e.AddKeyframe(rig.UpperLegFR, 0.1)

	assert.True(t, e.DeleteSelected())
	assert.Equal(t, 0, e.Store().Len(rig.UpperLegFR))
	_, ok := e.Selection()
	assert.False(t, ok)
	assert.False(t, e.Gizmo().Visible())

	assert.False(t, e.DeleteSelected(), "no selection is a silent no-op")
}

func TestEditsLockedWhilePlaying(t *testing.T) {
	e := newTestEditor()
	e.AddKeyframe(rig.Body, 0)
	e.Play()

	_, created := e.AddKeyframe(rig.Head, 0.5)
	assert.False(t, created)
	assert.False(t, e.DeleteSelected())
	assert.False(t, e.UpdateKeyframeValue(keyframe.Translation, 0, 3))
	assert.False(t, e.ResetTransform(keyframe.Rotation))
	assert.False(t, e.SelectKeyframe(rig.Body, 0))
	assert.Equal(t, 1, e.Store().Len(rig.Body))
	assert.Equal(t, 0, e.Store().Len(rig.Head))

	require.True(t, e.Gizmo().Visible())
	for _, key := range []uint32{common.KeyG, common.KeyR} {
		e.Apply(KeyDown(key))
		e.Apply(KeyUp(key))
		assert.Equal(t, gizmo.Translate, e.Gizmo().Mode(), "key %d changed the mode while playing", key)
	}
	e.Gizmo().SetMode(gizmo.Rotate)
	e.Apply(KeyDown(common.KeyT))
	assert.Equal(t, gizmo.Rotate, e.Gizmo().Mode())

	e.Pause()
	e.Apply(KeyDown(common.KeyG))
	assert.Equal(t, gizmo.Translate, e.Gizmo().Mode())
}

func TestUpdateAndResetTransform(t *testing.T) {
	e := newTestEditor()
	e.AddKeyframe(rig.Body, 0)

	require.True(t, e.UpdateKeyframeValue(keyframe.Translation, 1, 2))
	require.True(t, e.UpdateKeyframeValue(keyframe.Rotation, 2, 0.5))
	assert.False(t, e.UpdateKeyframeValue(keyframe.Rotation, 3, 0.5))
	anchor := e.Gizmo().Anchor()
	assert.InDeltaSlice(t, []float32{0, 2, 0}, anchor[:], 1e-6, "the gizmo follows the edit")

	require.True(t, e.ResetTransform(keyframe.Translation))
	k, _ := e.Store().Get(rig.Body, 0)
	assert.Equal(t, common.Vec3{0, 1, 0}, k.Translation)
	assert.Equal(t, float32(0.5), k.Rotation[2], "only translation is reset")

	require.True(t, e.ResetTransform(keyframe.Rotation))
	k, _ = e.Store().Get(rig.Body, 0)
	assert.Equal(t, common.Vec3{}, k.Rotation)
}

func TestClickPicksPart(t *testing.T) {
	e := newTestEditor()

	click(e, testWidth/2, testHeight/2, 0)
	sel, ok := e.Selection()
	require.True(t, ok)
	assert.Equal(t, rig.Body, sel.Part)
	assert.Equal(t, 1, e.Store().Len(rig.Body))
	assert.True(t, e.Gizmo().Visible())

	// the background leaves the selection alone
	click(e, 2, 2, 0)
	sel, ok = e.Selection()
	require.True(t, ok)
	assert.Equal(t, rig.Body, sel.Part)
}

func TestDragSuppressesClick(t *testing.T) {
	e := newTestEditor()
	azimuth := e.Camera().Controller().Azimuth()

	e.Apply(PointerDown(common.MouseButtonLeft, 100, 75, 0))
	e.Apply(PointerMove(105, 75))
	e.Apply(PointerUp(common.MouseButtonLeft, 105, 75, 0))

	_, ok := e.Selection()
	assert.False(t, ok, "an orbit drag is not a click")
	assert.InDelta(t, azimuth+5*camera.DefaultMouseSensitivity, e.Camera().Controller().Azimuth(), 1e-6)
}

func TestShiftDragPans(t *testing.T) {
	e := newTestEditor()
	target := e.Camera().Controller().Target()

	e.Apply(PointerDown(common.MouseButtonLeft, 10, 10, common.ModShift))
	e.Apply(PointerMove(10, 30))
	e.Apply(PointerUp(common.MouseButtonLeft, 10, 30, common.ModShift))

	assert.NotEqual(t, target, e.Camera().Controller().Target())
	_, ok := e.Selection()
	assert.False(t, ok)
}

func TestShiftClickTogglesGizmoMode(t *testing.T) {
	e := newTestEditor()
	e.AddKeyframe(rig.Body, 0)
	require.Equal(t, gizmo.Translate, e.Gizmo().Mode())

	click(e, 2, 2, common.ModShift)
	assert.Equal(t, gizmo.Rotate, e.Gizmo().Mode())
	assert.Equal(t, 1, e.Store().Len(rig.Body))
}

func TestTranslateDragOnX(t *testing.T) {
	e := newTestEditor()
	e.AddKeyframe(rig.Body, 0)
	ax, ay := screenOf(t, e, e.Gizmo().Anchor())

	e.Apply(PointerDown(common.MouseButtonLeft, ax, ay, 0))
	require.True(t, e.Gizmo().Dragging())
	require.Equal(t, gizmo.AxisX, e.Gizmo().Axis())

	e.Apply(PointerMove(ax+10, ay))
	e.Apply(PointerUp(common.MouseButtonLeft, ax+10, ay, 0))

	k, _ := e.Store().Get(rig.Body, 0)
	assert.InDelta(t, 10*gizmo.TranslateSensitivity, k.Translation[0], 1e-5)
	assert.Equal(t, float32(1), k.Translation[1])
	assert.Equal(t, common.Vec3{0, 1, 0}, k.InitialTranslation, "drags leave the snapshot alone")
	assert.False(t, e.Gizmo().Dragging())
	assert.Equal(t, 1, e.Store().Len(rig.Body), "releasing a drag does not pick")
}

func TestKeyboard(t *testing.T) {
	e := newTestEditor()
	e.AddKeyframe(rig.Head, 0.2)
	e.AddKeyframe(rig.Head, 0.6)

	e.Apply(KeyDown(common.KeyComma))
	sel, _ := e.Selection()
	assert.Equal(t, 0, sel.Index)
	e.Apply(KeyDown(common.KeyComma))
	sel, _ = e.Selection()
	assert.Equal(t, 1, sel.Index, "previous wraps to the last keyframe")
	e.Apply(KeyDown(common.KeyPeriod))
	sel, _ = e.Selection()
	assert.Equal(t, 0, sel.Index)
	assert.Equal(t, float32(0.2), e.Clock().Time())

	e.Apply(KeyDown(common.KeyRight))
	assert.InDelta(t, 0.21, e.Clock().Time(), 1e-6)
	e.Apply(KeyDown(common.KeyLeftShift))
	e.Apply(KeyDown(common.KeyRight))
	assert.InDelta(t, 0.31, e.Clock().Time(), 1e-6)
	e.Apply(KeyUp(common.KeyLeftShift))
	e.Apply(KeyDown(common.KeyLeft))
	assert.InDelta(t, 0.30, e.Clock().Time(), 1e-6)

	e.Apply(KeyDown(common.KeyR))
	assert.Equal(t, gizmo.Rotate, e.Gizmo().Mode())
	e.Apply(KeyDown(common.KeyG))
	assert.Equal(t, gizmo.Translate, e.Gizmo().Mode())
	e.Apply(KeyDown(common.KeyR))
	e.Apply(KeyDown(common.KeyT))
	assert.Equal(t, gizmo.Translate, e.Gizmo().Mode())

	e.Apply(KeyDown(common.KeyP))
	assert.True(t, e.Clock().Playing())
	e.Apply(KeyDown(common.KeyDelete))
	assert.Equal(t, 2, e.Store().Len(rig.Head), "delete is locked while playing")
	e.Apply(KeyDown(common.KeyHome))
	assert.False(t, e.Clock().Playing())
	assert.Equal(t, float32(0), e.Clock().Time())

	e.Apply(KeyDown(common.KeyBackspace))
	assert.Equal(t, 1, e.Store().Len(rig.Head))
	assert.False(t, e.Gizmo().Visible())
}

func TestDrainAppliesInOrder(t *testing.T) {
	e := newTestEditor()
	e.Enqueue(KeyDown(common.KeyP))
	e.Enqueue(Tick(time.Second))
	e.Enqueue(KeyDown(common.KeyP))
	e.Enqueue(Tick(time.Second))
	require.True(t, e.TryEnqueue(Resize(400, 300)))

	assert.Equal(t, 5, e.Drain())
	assert.InDelta(t, 0.2, e.Clock().Time(), 1e-6, "only the tick while playing advances")
	w, h := e.Size()
	assert.Equal(t, 400, w)
	assert.Equal(t, 300, h)
	assert.InDelta(t, 400.0/300.0, e.Camera().Aspect(), 1e-6)
	assert.Contains(t, e.Title(), "paused")
}

func TestEnqueueWhenFull(t *testing.T) {
	e := newTestEditor(WithQueueSize(1))
	require.True(t, e.TryEnqueue(Tick(time.Millisecond)))
	assert.False(t, e.TryEnqueue(Tick(time.Millisecond)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, e.Send(ctx, Tick(time.Millisecond)), context.Canceled)
	assert.Equal(t, 1, e.Drain())
}

func TestScrollZooms(t *testing.T) {
	e := newTestEditor()
	e.Apply(Scroll(-1))
	assert.InDelta(t, 11, e.Camera().Controller().Radius(), 1e-5, "wheel down moves away")
	e.Apply(Scroll(1))
	assert.InDelta(t, 9.9, e.Camera().Controller().Radius(), 1e-5)
}

func TestSaveAndLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.json")
	e := newTestEditor(WithDocumentPath(path))
	e.AddKeyframe(rig.Body, 0.25)
	e.UpdateKeyframeValue(keyframe.Translation, 1, 1.5)
	e.AddKeyframe(rig.LowerLegBL, 0.75)
	e.UpdateKeyframeValue(keyframe.Rotation, 0, -0.3)
	require.True(t, e.SetDuration(2*time.Second))

	e.Apply(KeyDown(common.KeyLeftControl))
	e.Apply(KeyDown(common.KeyS))
	e.Apply(KeyUp(common.KeyLeftControl))
	require.FileExists(t, path)

	other := newTestEditor(WithDocumentPath(path))
	require.NoError(t, other.LoadDocument(""))
	assert.Equal(t, 2*time.Second, other.Clock().Duration())
	_, ok := other.Selection()
	assert.False(t, ok)

	for _, part := range []rig.Part{rig.Body, rig.LowerLegBL} {
		want := e.Store().Keyframes(part)
		got := other.Store().Keyframes(part)
		require.Len(t, got, len(want))
		for i := range want {
			assert.Equal(t, want[i].Time, got[i].Time)
			assert.Equal(t, want[i].Translation, got[i].Translation)
			assert.Equal(t, want[i].Rotation, got[i].Rotation)
		}
	}
}

func TestLoadDocumentErrorsLeaveState(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`[1, 2, 3]`), 0o644))

	e := newTestEditor()
	e.AddKeyframe(rig.Head, 0.5)

	assert.ErrorIs(t, e.LoadDocument(""), ErrNoDocumentPath)
	assert.Error(t, e.LoadDocument(bad))
	assert.Error(t, e.LoadDocument(filepath.Join(dir, "missing.json")))
	assert.Equal(t, 1, e.Store().Len(rig.Head))
	_, ok := e.Selection()
	assert.True(t, ok)

	assert.True(t, errors.Is(e.SaveDocument(""), ErrNoDocumentPath))
}

func TestWatchDocumentReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "anim.json")
	e := newTestEditor(WithDocumentPath(path))
	require.NoError(t, e.SaveDocument(""))
	require.NoError(t, e.WatchDocument())
	defer e.Close()

	doc := `{"duration": 2, "keyframes": {"Head": [{"time": 0.5, "translation": [0, 1, 0], "rotation": [0, 0, 0]}]}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	assert.Eventually(t, func() bool {
		e.Drain()
		return e.Store().Len(rig.Head) == 1
	}, 5*time.Second, 20*time.Millisecond)
	assert.Equal(t, 2*time.Second, e.Clock().Duration())
}
