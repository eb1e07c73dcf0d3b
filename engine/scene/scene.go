// Package scene evaluates the robot's skeleton at a point in time. A single walk over the
// rig hierarchy accumulates transforms on a stack and hands each part's model matrix to an
// injected draw strategy, so the lit pass, the identifier pass and the gizmo anchor all see
// exactly the same chain of matrices.
package scene

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/transform"
)

// Sampler yields the local pose of a part at a normalized time.
// *keyframe.Store satisfies it.
type Sampler interface {
	Sample(part rig.Part, t float32) rig.Pose
}

// DrawFunc is the per-part strategy called during a walk with the part's accumulated model matrix.
type DrawFunc func(part rig.Part, model common.Mat4)

// Evaluator walks the skeleton and produces accumulated model matrices.
type Evaluator interface {
	// Walk visits every part parent-first, starting from base, and calls draw with each part's
	// accumulated matrix. The same base and t always produce bit-identical matrices.
	//
	// Parameters:
	//   - base: the matrix the root is attached to, identity for world space
	//   - t: normalized animation time
	//   - draw: the strategy invoked per part
	Walk(base common.Mat4, t float32, draw DrawFunc)

	// Matrices returns every part's accumulated matrix from one walk.
	//
	// Parameters:
	//   - base: the matrix the root is attached to
	//   - t: normalized animation time
	//
	// Returns:
	//   - [rig.Count]common.Mat4: matrices indexed by part
	Matrices(base common.Mat4, t float32) [rig.Count]common.Mat4

	// WorldMatrix returns one part's accumulated matrix starting from identity.
	//
	// Parameters:
	//   - part: the part to resolve
	//   - t: normalized animation time
	//
	// Returns:
	//   - common.Mat4: the world transform of the part
	WorldMatrix(part rig.Part, t float32) common.Mat4

	// Sampler returns the pose source the evaluator reads.
	Sampler() Sampler

	// SetSampler replaces the pose source.
	SetSampler(s Sampler)
}

type evaluator struct {
	sampler Sampler
}

var _ Evaluator = &evaluator{}

// NewEvaluator creates a new Evaluator. Without WithSampler every part holds its rest pose.
//
// Parameters:
//   - options: functional options to configure the evaluator
//
// Returns:
//   - Evaluator: the new evaluator
func NewEvaluator(options ...EvaluatorBuilderOption) Evaluator {
	e := &evaluator{
		sampler: restSampler{},
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

func (e *evaluator) Walk(base common.Mat4, t float32, draw DrawFunc) {
	stack := transform.NewStack(base)
	e.visit(stack, rig.Root, t, draw)
}

func (e *evaluator) Matrices(base common.Mat4, t float32) [rig.Count]common.Mat4 {
	var out [rig.Count]common.Mat4
	e.Walk(base, t, func(part rig.Part, model common.Mat4) {
		out[part] = model
	})
	return out
}

func (e *evaluator) WorldMatrix(part rig.Part, t float32) common.Mat4 {
	if !part.Valid() {
		return common.Identity()
	}

	// Climb to the root, then apply the chain top-down.
	var chain []rig.Part
	for p := part; p != rig.None; p = p.Parent() {
		chain = append(chain, p)
	}
	stack := transform.NewStack(common.Identity())
	for i := len(chain) - 1; i >= 0; i-- {
		pose := e.sampler.Sample(chain[i], t)
		stack.Apply(pose.Translation, pose.Rotation)
	}
	return stack.Top()
}

func (e *evaluator) Sampler() Sampler {
	return e.sampler
}

func (e *evaluator) SetSampler(s Sampler) {
	if s == nil {
		s = restSampler{}
	}
	e.sampler = s
}

// --- internal helpers ---

func (e *evaluator) visit(stack *transform.Stack, part rig.Part, t float32, draw DrawFunc) {
	stack.Push()
	pose := e.sampler.Sample(part, t)
	stack.Apply(pose.Translation, pose.Rotation)
	if draw != nil {
		draw(part, stack.Top())
	}
	for _, child := range part.Children() {
		e.visit(stack, child, t, draw)
	}
	stack.Pop()
}

type restSampler struct{}

func (restSampler) Sample(part rig.Part, _ float32) rig.Pose {
	return part.RestPose()
}
