// Package transform provides the matrix stack used to accumulate parent-to-child transforms
// while walking the skeleton.
package transform

import "github.com/Carmen-Shannon/oxy-rig/common"

// Stack is a LIFO of accumulated model matrices. The zero value is an empty stack whose top is identity.
type Stack struct {
	items []common.Mat4
}

// NewStack returns a stack holding a single base matrix.
func NewStack(base common.Mat4) *Stack {
	s := &Stack{items: make([]common.Mat4, 1, 8)}
	s.items[0] = base
	return s
}

// Push duplicates the current top. On an empty stack it pushes identity.
func (s *Stack) Push() {
	s.items = append(s.items, s.Top())
}

// Pop discards the top. Popping an empty stack does nothing.
func (s *Stack) Pop() {
	if len(s.items) == 0 {
		return
	}
	s.items = s.items[:len(s.items)-1]
}

// Top returns the current accumulated matrix, or identity when the stack is empty.
func (s *Stack) Top() common.Mat4 {
	if len(s.items) == 0 {
		return common.Identity()
	}
	return s.items[len(s.items)-1]
}

// Apply post-multiplies the top by T * Rx * Ry * Rz built from the local pose.
//
// Parameters:
//   - translation: local offset from the parent
//   - rotation: local Euler rotation in radians
func (s *Stack) Apply(translation, rotation common.Vec3) {
	if len(s.items) == 0 {
		s.items = append(s.items, common.Identity())
	}
	top := len(s.items) - 1
	s.items[top] = common.Mul4(s.items[top], common.Compose(translation, rotation))
}

// Depth returns the number of matrices on the stack.
func (s *Stack) Depth() int {
	return len(s.items)
}
