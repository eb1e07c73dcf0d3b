package camera

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerDefaults(t *testing.T) {
	cc := NewCameraController()

	assert.Equal(t, float32(15), cc.Radius())
	assert.Equal(t, float32(0.5), cc.Azimuth())
	assert.Equal(t, float32(0.5), cc.Elevation())
	assert.Equal(t, common.Vec3{}, cc.Target())

	pos := cc.Position()
	cosE := math32.Cos(0.5)
	assert.InDelta(t, 15*cosE*math32.Sin(0.5), pos[0], 1e-4)
	assert.InDelta(t, 15*math32.Sin(0.5), pos[1], 1e-4)
	assert.InDelta(t, 15*cosE*math32.Cos(0.5), pos[2], 1e-4)
	assert.InDelta(t, 15, pos.Len(), 1e-4)
}

func TestOrbitClampsElevation(t *testing.T) {
	cc := NewCameraController()

	cc.Orbit(100, 0)
	assert.InDelta(t, 1.5, cc.Azimuth(), 1e-5)

	cc.Orbit(0, 10000)
	assert.InDelta(t, math32.Pi/2-0.1, cc.Elevation(), 1e-5)

	cc.Orbit(0, -20000)
	assert.InDelta(t, -(math32.Pi/2 - 0.1), cc.Elevation(), 1e-5)
}

func TestZoomSteps(t *testing.T) {
	cc := NewCameraController()

	cc.Zoom(1)
	assert.InDelta(t, 16.5, cc.Radius(), 1e-4)

	cc.Zoom(-1)
	assert.InDelta(t, 14.85, cc.Radius(), 1e-4)

	for range 100 {
		cc.Zoom(1)
	}
	assert.Equal(t, float32(50), cc.Radius())

	for range 100 {
		cc.Zoom(-3)
	}
	assert.Equal(t, float32(2), cc.Radius())
}

func TestPanMovesTargetAndKeepsOffset(t *testing.T) {
	cc := NewCameraController(WithAzimuth(0), WithElevation(0), WithRadius(10))
	// camera on +Z looking at the origin, so right is +X
	before := cc.Position().Sub(cc.Target())

	cc.Pan(100, 50)

	target := cc.Target()
	assert.InDelta(t, -1, target[0], 1e-5)
	assert.InDelta(t, 0.5, target[1], 1e-5)
	assert.InDelta(t, 0, target[2], 1e-5)

	after := cc.Position().Sub(cc.Target())
	assert.InDelta(t, before[0], after[0], 1e-5)
	assert.InDelta(t, before[1], after[1], 1e-5)
	assert.InDelta(t, before[2], after[2], 1e-5)
}

func TestResetRestoresInitialState(t *testing.T) {
	cc := NewCameraController(WithTarget(common.Vec3{1, 2, 3}))
	cc.Orbit(40, 20)
	cc.Pan(5, 5)
	cc.Zoom(1)

	cc.Reset()

	assert.Equal(t, common.Vec3{1, 2, 3}, cc.Target())
	assert.Equal(t, DefaultRadius, cc.Radius())
	assert.Equal(t, DefaultAzimuth, cc.Azimuth())
}

func TestCameraViewLooksAtTarget(t *testing.T) {
	cc := NewCameraController()
	cam := NewCamera(WithController(cc), WithAspect(16.0/9.0))

	// the target sits on the view-space -Z axis at the orbit distance
	p := cam.ViewMatrix().Mul4x1(cc.Target().Vec4(1))
	assert.InDelta(t, 0, p[0], 1e-4)
	assert.InDelta(t, 0, p[1], 1e-4)
	assert.InDelta(t, -15, p[2], 1e-3)

	sx, sy, ok := common.ProjectToScreen(cam.ViewMatrix(), cam.ProjectionMatrix(), cc.Target(), 800, 450)
	require.True(t, ok)
	assert.InDelta(t, 400, sx, 1e-2)
	assert.InDelta(t, 225, sy, 1e-2)
}

func TestCameraUpdateFollowsController(t *testing.T) {
	cc := NewCameraController()
	cam := NewCamera(WithController(cc))
	before := cam.ViewMatrix()

	cc.Orbit(30, 0)
	assert.Equal(t, before, cam.ViewMatrix())

	cam.Update()
	assert.NotEqual(t, before, cam.ViewMatrix())
	assert.Equal(t, cam.ProjectionMatrix().Mul4(cam.ViewMatrix()), cam.ViewProjectionMatrix())
}

func TestCameraUniformLayout(t *testing.T) {
	cam := NewCamera(WithController(NewCameraController()))
	u := cam.Uniform()

	assert.Equal(t, 144, u.Size())
	buf := u.Marshal()
	require.Len(t, buf, 144)
	assert.Equal(t, cam.ViewMatrix(), u.View)
	assert.Equal(t, cam.ProjectionMatrix(), u.Projection)
	assert.Equal(t, cam.Controller().Position(), u.CameraPosition)
}

func TestSetAspectIgnoresDegenerate(t *testing.T) {
	cam := NewCamera()
	cam.SetAspect(2)
	cam.SetAspect(0)
	assert.Equal(t, float32(2), cam.Aspect())
}
