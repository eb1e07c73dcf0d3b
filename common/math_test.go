package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-5

func assertVec3(t *testing.T, want, got Vec3) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "component %d", i)
	}
}

func TestComposeOrder(t *testing.T) {
	// Rz(90) takes +X to +Y, then the translation moves it.
	m := Compose(Vec3{1, 2, 3}, Vec3{0, 0, math32.Pi / 2})
	p := m.Mul4x1(Vec4{1, 0, 0, 1}).Vec3()
	assertVec3(t, Vec3{1, 3, 3}, p)

	// X applied after Y after Z: Rx(90) * Ry(90) * +Z.
	m = Compose(Vec3{}, Vec3{math32.Pi / 2, math32.Pi / 2, 0})
	p = m.Mul4x1(Vec4{0, 0, 1, 1}).Vec3()
	assertVec3(t, Vec3{1, 0, 0}, p)
}

func TestMul4AppliesRightFirst(t *testing.T) {
	m := Mul4(Translate(Vec3{5, 0, 0}), RotateZ(math32.Pi/2))
	p := m.Mul4x1(Vec4{1, 0, 0, 1}).Vec3()
	assertVec3(t, Vec3{5, 1, 0}, p)
}

func TestInvert4(t *testing.T) {
	m := Compose(Vec3{3, -1, 2}, Vec3{0.4, 1.3, -0.2})
	inv, ok := Invert4(m)
	require.True(t, ok)

	id := m.Mul4(inv)
	want := Identity()
	for i := range want {
		assert.InDelta(t, want[i], id[i], tol)
	}

	singular, ok := Invert4(Mat4{})
	assert.False(t, ok)
	assert.Equal(t, Identity(), singular)
}

func TestLookAtMapsEyeToOrigin(t *testing.T) {
	eye := Vec3{0, 0, 10}
	view := LookAt(eye, Vec3{}, Vec3{0, 1, 0})
	assertVec3(t, Vec3{}, view.Mul4x1(eye.Vec4(1)).Vec3())
	// The target lies straight down -Z in view space.
	assertVec3(t, Vec3{0, 0, -10}, view.Mul4x1(Vec4{0, 0, 0, 1}).Vec3())
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(math32.Pi/4, 1, 0.1, 1000)

	near := proj.Mul4x1(Vec4{0, 0, -0.1, 1})
	far := proj.Mul4x1(Vec4{0, 0, -1000, 1})
	assert.InDelta(t, 0, near[2]/near[3], tol)
	assert.InDelta(t, 1, far[2]/far[3], 1e-3)
}

func TestProjectToScreen(t *testing.T) {
	view := LookAt(Vec3{0, 0, 10}, Vec3{}, Vec3{0, 1, 0})
	proj := Perspective(math32.Pi/4, 2, 0.1, 1000)

	x, y, ok := ProjectToScreen(view, proj, Vec3{}, 800, 400)
	require.True(t, ok)
	assert.InDelta(t, 400, x, 1e-3)
	assert.InDelta(t, 200, y, 1e-3)

	// Points above the target appear higher on screen, which is a smaller y.
	_, yUp, ok := ProjectToScreen(view, proj, Vec3{0, 1, 0}, 800, 400)
	require.True(t, ok)
	assert.Less(t, yUp, y)

	_, _, ok = ProjectToScreen(view, proj, Vec3{0, 0, 20}, 800, 400)
	assert.False(t, ok)
}

func TestLerp3(t *testing.T) {
	assertVec3(t, Vec3{0.5, 1, -1}, Lerp3(Vec3{0, 0, 0}, Vec3{1, 2, -2}, 0.5))
	assert.Equal(t, Vec3{1, 2, 3}, Lerp3(Vec3{1, 2, 3}, Vec3{4, 5, 6}, 0))
}

func TestFrustumIntersectsSphere(t *testing.T) {
	view := LookAt(Vec3{0, 0, 10}, Vec3{}, Vec3{0, 1, 0})
	proj := Perspective(math32.Pi/4, 1, 0.1, 100)
	f := ExtractFrustum(proj.Mul4(view))

	assert.True(t, f.IntersectsSphere(Vec3{}, 1))
	assert.False(t, f.IntersectsSphere(Vec3{0, 0, 20}, 1))
	assert.False(t, f.IntersectsSphere(Vec3{100, 0, 0}, 1))
}

func TestSign(t *testing.T) {
	assert.Equal(t, float32(1), Sign(3))
	assert.Equal(t, float32(-1), Sign(-0.2))
	assert.Equal(t, float32(0), Sign(0))
}
