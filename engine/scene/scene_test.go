package scene

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/keyframe"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkVisitsEveryPartParentFirst(t *testing.T) {
	e := NewEvaluator()
	var order []rig.Part
	e.Walk(common.Identity(), 0, func(part rig.Part, _ common.Mat4) {
		order = append(order, part)
	})

	require.Len(t, order, rig.Count)
	seen := map[rig.Part]int{}
	for i, p := range order {
		seen[p] = i
	}
	for _, p := range rig.Parts() {
		if parent := p.Parent(); parent != rig.None {
			assert.Less(t, seen[parent], seen[p], p.String())
		}
	}
}

func TestRestPoseWorldPositions(t *testing.T) {
	e := NewEvaluator()
	m := e.Matrices(common.Identity(), 0)

	assert.InDelta(t, 1.0, m[rig.Body][13], 1e-6)
	assert.InDelta(t, 1.8, m[rig.Head][13], 1e-6)

	fl := common.Position(m[rig.LowerLegFL])
	assert.InDelta(t, -0.5, fl[0], 1e-6)
	assert.InDelta(t, -0.45, fl[1], 1e-6)
	assert.InDelta(t, 0.5, fl[2], 1e-6)
}

func TestPassesShareIdenticalMatrices(t *testing.T) {
	store := keyframe.NewStore()
	store.Insert(rig.Body, 0.1, rig.Pose{Translation: common.Vec3{0, 1, 0}, Rotation: common.Vec3{0.2, 0.4, 0}})
	store.Insert(rig.UpperLegFR, 0.6, rig.Pose{Translation: common.Vec3{0.5, -1.4, 0.5}, Rotation: common.Vec3{0.7, 0, 0.1}})
	e := NewEvaluator(WithSampler(store))

	view := common.LookAt(common.Vec3{3, 4, 10}, common.Vec3{}, common.Vec3{0, 1, 0})

	var lit, ids [rig.Count]common.Mat4
	e.Walk(view, 0.35, func(p rig.Part, m common.Mat4) { lit[p] = m })
	e.Walk(view, 0.35, func(p rig.Part, m common.Mat4) { ids[p] = m })
	assert.Equal(t, lit, ids)
}

func TestWorldMatrixMatchesWalk(t *testing.T) {
	store := keyframe.NewStore()
	store.Insert(rig.Body, 0, rig.Pose{Translation: common.Vec3{1, 2, 3}, Rotation: common.Vec3{0, 1, 0}})
	store.Insert(rig.UpperLegBL, 0, rig.Pose{Translation: common.Vec3{-0.5, -1.4, -0.5}, Rotation: common.Vec3{0.5, 0, 0}})
	e := NewEvaluator(WithSampler(store))

	all := e.Matrices(common.Identity(), 0.5)
	for _, p := range rig.Parts() {
		assert.Equal(t, all[p], e.WorldMatrix(p, 0.5), p.String())
	}
}
