package rig

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHierarchy(t *testing.T) {
	assert.Equal(t, None, Body.Parent())
	assert.Equal(t, []Part{Head, UpperLegFL, UpperLegFR, UpperLegBL, UpperLegBR}, Body.Children())

	tests := []struct {
		lower, upper Part
	}{
		{LowerLegFL, UpperLegFL},
		{LowerLegFR, UpperLegFR},
		{LowerLegBL, UpperLegBL},
		{LowerLegBR, UpperLegBR},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.upper, tt.lower.Parent(), tt.lower.String())
		assert.Equal(t, []Part{tt.lower}, tt.upper.Children())
		assert.Empty(t, tt.lower.Children())
	}
}

func TestPickIDsAreInjective(t *testing.T) {
	seen := map[uint8]Part{}
	for _, p := range Parts() {
		id := p.PickID()
		require.NotZero(t, id)
		_, dup := seen[id]
		require.False(t, dup, "duplicate id %d", id)
		seen[id] = p

		back, ok := PartFromPickID(id)
		require.True(t, ok)
		assert.Equal(t, p, back)
	}
	assert.Equal(t, uint8(1), Body.PickID())
	assert.Equal(t, uint8(10), LowerLegBR.PickID())

	_, ok := PartFromPickID(0)
	assert.False(t, ok)
	_, ok = PartFromPickID(11)
	assert.False(t, ok)
}

func TestParsePart(t *testing.T) {
	for _, p := range Parts() {
		got, err := ParsePart(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePart("upperlegfl")
	assert.Error(t, err)
}

func TestRestPoseAndMesh(t *testing.T) {
	assert.Equal(t, common.Vec3{0, 1, 0}, Body.RestPose().Translation)
	assert.Equal(t, common.Vec3{0.5, -1.4, -0.5}, UpperLegBR.RestPose().Translation)
	assert.Equal(t, common.Vec3{}, Head.RestPose().Rotation)
	assert.Equal(t, MeshUpperLeg, UpperLegBL.Mesh())
	assert.Equal(t, MeshLowerLeg, LowerLegFR.Mesh())
}
