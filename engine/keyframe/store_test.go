package keyframe

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pose(tx float32) rig.Pose {
	return rig.Pose{Translation: common.Vec3{tx, 0, 0}, Rotation: common.Vec3{0, tx, 0}}
}

func TestSampleRestPoseWithoutKeyframes(t *testing.T) {
	s := NewStore()
	for _, p := range rig.Parts() {
		assert.Equal(t, p.RestPose(), s.Sample(p, 0.37), p.String())
	}
}

func TestSampleSingleKeyframeIsConstant(t *testing.T) {
	s := NewStore()
	s.Insert(rig.Head, 0.4, pose(2))
	for _, tm := range []float32{0, 0.1, 0.4, 0.41, 0.99} {
		assert.Equal(t, pose(2), s.Sample(rig.Head, tm), "t=%v", tm)
	}
}

func TestSampleMidpointAndEndpoints(t *testing.T) {
	s := NewStore()
	s.Insert(rig.Body, 0.2, pose(0))
	s.Insert(rig.Body, 0.8, pose(10))

	assert.InDelta(t, 5, s.Sample(rig.Body, 0.5).Translation[0], 1e-5)
	assert.Equal(t, pose(0), s.Sample(rig.Body, 0.2))
	assert.InDelta(t, 10, s.Sample(rig.Body, 0.8).Translation[0], 1e-5)
}

func TestSampleWrapAround(t *testing.T) {
	s := NewStore()
	s.Insert(rig.Body, 0.2, pose(0))
	s.Insert(rig.Body, 0.8, pose(10))

	// span = 1 - 0.8 + 0.2 = 0.4
	tests := []struct {
		t    float32
		want float32
	}{
		{0.9, 7.5},
		{0.0, 5},
		{0.1, 2.5},
	}
	for _, tt := range tests {
		got := s.Sample(rig.Body, tt.t).Translation[0]
		assert.InDelta(t, tt.want, got, 1e-4, "t=%v", tt.t)
		assert.Greater(t, got, float32(0))
		assert.Less(t, got, float32(10))
	}

	// continuous across the seam
	before := s.Sample(rig.Body, 0.99999).Translation[0]
	after := s.Sample(rig.Body, 0).Translation[0]
	assert.InDelta(t, before, after, 1e-3)
}

func TestInsertDedupSelectsExisting(t *testing.T) {
	s := NewStore()
	i, created := s.Insert(rig.UpperLegFL, 0.5, pose(1))
	require.True(t, created)
	require.Equal(t, 0, i)

	i, created = s.Insert(rig.UpperLegFL, 0.503, pose(9))
	assert.False(t, created)
	assert.Equal(t, 0, i)
	assert.Equal(t, 1, s.Len(rig.UpperLegFL))

	i, created = s.Insert(rig.UpperLegFL, 0.3, pose(3))
	assert.True(t, created)
	assert.Equal(t, 0, i)

	kfs := s.Keyframes(rig.UpperLegFL)
	require.Len(t, kfs, 2)
	assert.Less(t, kfs[0].Time, kfs[1].Time)
}

func TestEditAndReset(t *testing.T) {
	s := NewStore()
	s.Insert(rig.Head, 0.5, pose(1))

	require.True(t, s.SetValue(rig.Head, 0, Translation, 1, 4))
	require.True(t, s.SetValue(rig.Head, 0, Rotation, 2, -1))
	assert.False(t, s.SetValue(rig.Head, 0, Rotation, 3, 1))
	assert.False(t, s.SetValue(rig.Head, 1, Rotation, 0, 1))

	k, _ := s.Get(rig.Head, 0)
	assert.Equal(t, common.Vec3{1, 4, 0}, k.Translation)
	assert.Equal(t, common.Vec3{0, 1, -1}, k.Rotation)
	assert.Equal(t, common.Vec3{1, 0, 0}, k.InitialTranslation)

	s.Reset(rig.Head, 0, Translation)
	k, _ = s.Get(rig.Head, 0)
	assert.Equal(t, common.Vec3{1, 0, 0}, k.Translation)
	assert.Equal(t, common.Vec3{0, 1, -1}, k.Rotation)

	s.Reset(rig.Head, 0, Rotation)
	k, _ = s.Get(rig.Head, 0)
	assert.Equal(t, common.Vec3{0, 1, 0}, k.Rotation)
}

func TestDeleteAndReplace(t *testing.T) {
	s := NewStore()
	s.Insert(rig.Body, 0.1, pose(1))
	s.Insert(rig.Body, 0.6, pose(2))

	assert.False(t, s.Delete(rig.Body, 5))
	assert.True(t, s.Delete(rig.Body, 0))
	k, ok := s.Get(rig.Body, 0)
	require.True(t, ok)
	assert.Equal(t, float32(0.6), k.Time)

	s.Replace(map[rig.Part][]Keyframe{
		rig.Head: {New(0.9, pose(3)), New(0.2, pose(4))},
	})
	assert.Equal(t, 0, s.Len(rig.Body))
	kfs := s.Keyframes(rig.Head)
	require.Len(t, kfs, 2)
	assert.Equal(t, float32(0.2), kfs[0].Time)

	snap := s.Snapshot()
	assert.Len(t, snap, 1)
	snap[rig.Head][0].Time = 0.5
	k, _ = s.Get(rig.Head, 0)
	assert.Equal(t, float32(0.2), k.Time)
}
