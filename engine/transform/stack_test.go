package transform

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/stretchr/testify/assert"
)

func TestPushApplyPopRestoresTop(t *testing.T) {
	base := common.Compose(common.Vec3{1, 2, 3}, common.Vec3{0.1, 0.2, 0.3})
	s := NewStack(base)

	s.Push()
	s.Apply(common.Vec3{4, 5, 6}, common.Vec3{1, -1, 0.5})
	assert.NotEqual(t, base, s.Top())
	s.Pop()

	assert.Equal(t, base, s.Top())
	assert.Equal(t, 1, s.Depth())
}

func TestEmptyStack(t *testing.T) {
	var s Stack
	assert.Equal(t, common.Identity(), s.Top())

	s.Pop()
	assert.Equal(t, 0, s.Depth())

	s.Push()
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, common.Identity(), s.Top())
}

func TestApplyAccumulates(t *testing.T) {
	s := NewStack(common.Identity())
	s.Apply(common.Vec3{0, 1, 0}, common.Vec3{})
	s.Push()
	s.Apply(common.Vec3{0.5, -1.4, 0.5}, common.Vec3{})

	assert.InDelta(t, 0.5, s.Top()[12], 1e-6)
	assert.InDelta(t, -0.4, s.Top()[13], 1e-6)
	assert.InDelta(t, 0.5, s.Top()[14], 1e-6)
}
