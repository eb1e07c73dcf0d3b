package light

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShadeFacingAndAway(t *testing.T) {
	l := NewLight(WithDirection(0, -1, 0), WithSpecular(32, 0))

	up := l.Shade(common.Vec3{0, 1, 0}, common.Vec3{}, common.Vec3{0, 5, 0})
	assert.InDelta(t, 1.3, up, 1e-5)

	down := l.Shade(common.Vec3{0, -2, 0}, common.Vec3{}, common.Vec3{0, 5, 0})
	assert.InDelta(t, 0.3, down, 1e-5, "only ambient reaches faces turned away")
}

func TestShadeSpecularTowardsEye(t *testing.T) {
	l := NewLight(WithDirection(0, -1, 0))
	n := common.Vec3{0, 1, 0}

	mirrored := l.Shade(n, common.Vec3{}, common.Vec3{0, 3, 0})
	grazing := l.Shade(n, common.Vec3{}, common.Vec3{3, 0.01, 0})
	assert.InDelta(t, 1.8, mirrored, 1e-4)
	assert.Less(t, grazing, mirrored)
}

func TestBuilderIgnoresInvalidValues(t *testing.T) {
	def := NewLight()
	l := NewLight(WithDirection(0, 0, 0), WithSpecular(-1, 4), WithAmbient(2))

	assert.Equal(t, def.Direction(), l.Direction())
	power, intensity := l.Specular()
	assert.Equal(t, float32(32), power)
	assert.Equal(t, float32(0.5), intensity)
	assert.Equal(t, float32(1), l.Ambient())
	assert.InDelta(t, 1, def.Direction().Len(), 1e-6)
}

func TestInjectWritesFloatLiterals(t *testing.T) {
	l := NewLight(WithDirection(0, -1, 0), WithAmbient(0.25), WithSpecular(16, 1))
	src := "a\n" + Placeholder + "\nb"

	out, err := l.Inject(src)
	require.NoError(t, err)
	assert.Contains(t, out, "const LIGHT_DIR = vec3<f32>(0.0, -1.0, 0.0);")
	assert.Contains(t, out, "const AMBIENT = 0.25;")
	assert.Contains(t, out, "const SPEC_POWER = 16.0;")
	assert.Contains(t, out, "const SPEC_INTENSITY = 1.0;")
	assert.NotContains(t, out, Placeholder)

	_, err = l.Inject("no marker")
	assert.Error(t, err)
}
