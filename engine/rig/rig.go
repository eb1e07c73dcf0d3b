// Package rig describes the fixed skeleton of the robot: its ten parts, who parents whom,
// the rest pose of each joint, the mesh each part draws and the identifier used by picking.
//
// Everything here is static data indexed by Part, so lookups are array reads rather than
// string comparisons. Part names only matter at the document boundary.
package rig

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

// Part identifies one rigid piece of the robot.
type Part uint8

const (
	Body Part = iota
	Head
	UpperLegFL
	LowerLegFL
	UpperLegFR
	LowerLegFR
	UpperLegBL
	LowerLegBL
	UpperLegBR
	LowerLegBR

	// Count is the number of parts in the skeleton.
	Count = int(LowerLegBR) + 1
)

// None is returned by lookups that found no part.
const None Part = 0xFF

// Root is the top of the hierarchy.
const Root = Body

// Mesh names the geometry a part is drawn with. Several parts can share a mesh.
type Mesh string

const (
	MeshBody     Mesh = "body"
	MeshHead     Mesh = "head"
	MeshUpperLeg Mesh = "upper_leg"
	MeshLowerLeg Mesh = "lower_leg"
)

// Meshes lists every distinct mesh used by the skeleton.
var Meshes = []Mesh{MeshBody, MeshHead, MeshUpperLeg, MeshLowerLeg}

// Pose is a local translation and Euler rotation (radians, X then Y then Z).
type Pose struct {
	Translation common.Vec3
	Rotation    common.Vec3
}

type partInfo struct {
	name     string
	parent   Part
	mesh     Mesh
	restPose Pose
}

var parts = [Count]partInfo{
	Body:       {"Body", None, MeshBody, Pose{Translation: common.Vec3{0, 1, 0}}},
	Head:       {"Head", Body, MeshHead, Pose{Translation: common.Vec3{0, 0.8, 0.6}}},
	UpperLegFL: {"UpperLegFL", Body, MeshUpperLeg, Pose{Translation: common.Vec3{-0.5, -1.4, 0.5}}},
	LowerLegFL: {"LowerLegFL", UpperLegFL, MeshLowerLeg, Pose{Translation: common.Vec3{0, -0.05, 0}}},
	UpperLegFR: {"UpperLegFR", Body, MeshUpperLeg, Pose{Translation: common.Vec3{0.5, -1.4, 0.5}}},
	LowerLegFR: {"LowerLegFR", UpperLegFR, MeshLowerLeg, Pose{Translation: common.Vec3{0, -0.05, 0}}},
	UpperLegBL: {"UpperLegBL", Body, MeshUpperLeg, Pose{Translation: common.Vec3{-0.5, -1.4, -0.5}}},
	LowerLegBL: {"LowerLegBL", UpperLegBL, MeshLowerLeg, Pose{Translation: common.Vec3{0, -0.05, 0}}},
	UpperLegBR: {"UpperLegBR", Body, MeshUpperLeg, Pose{Translation: common.Vec3{0.5, -1.4, -0.5}}},
	LowerLegBR: {"LowerLegBR", UpperLegBR, MeshLowerLeg, Pose{Translation: common.Vec3{0, -0.05, 0}}},
}

// children is derived from the parent table once so the walk never searches.
var children [Count][]Part

func init() {
	for _, p := range Parts() {
		if parent := parts[p].parent; parent != None {
			children[parent] = append(children[parent], p)
		}
	}
}

// Parts returns every part in declaration order.
func Parts() []Part {
	out := make([]Part, Count)
	for i := range out {
		out[i] = Part(i)
	}
	return out
}

// Valid reports whether p names a real part.
func (p Part) Valid() bool {
	return int(p) < Count
}

// String returns the document name of the part, e.g. "UpperLegFL".
func (p Part) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Part(%d)", uint8(p))
	}
	return parts[p].name
}

// Parent returns the parent part, or None for the root.
func (p Part) Parent() Part {
	if !p.Valid() {
		return None
	}
	return parts[p].parent
}

// Children returns the direct children of p in declaration order. The slice must not be modified.
func (p Part) Children() []Part {
	if !p.Valid() {
		return nil
	}
	return children[p]
}

// Mesh returns the mesh p is drawn with.
func (p Part) Mesh() Mesh {
	if !p.Valid() {
		return ""
	}
	return parts[p].mesh
}

// RestPose returns the local transform used when p has no keyframes.
func (p Part) RestPose() Pose {
	if !p.Valid() {
		return Pose{}
	}
	return parts[p].restPose
}

// PickID returns the identifier written into the red channel of the identifier pass.
// Identifiers start at 1; 0 is the cleared background.
func (p Part) PickID() uint8 {
	if !p.Valid() {
		return 0
	}
	return uint8(p) + 1
}

// PickColor returns the identifier as a normalized RGBA color for shaders.
func (p Part) PickColor() [4]float32 {
	return [4]float32{float32(p.PickID()) / 255, 0, 0, 1}
}

// PartFromPickID maps an identifier back to its part.
//
// Parameters:
//   - id: the red channel value read from the identifier target
//
// Returns:
//   - Part: the matching part, or None
//   - bool: false for the background (0) or any value outside the table
func PartFromPickID(id uint8) (Part, bool) {
	if id == 0 || int(id) > Count {
		return None, false
	}
	return Part(id - 1), true
}

// ParsePart resolves a document name to a part.
//
// Parameters:
//   - name: the exact part name, case sensitive
//
// Returns:
//   - Part: the matching part
//   - error: non-nil when the name is unknown
func ParsePart(name string) (Part, error) {
	for i := range parts {
		if parts[i].name == name {
			return Part(i), nil
		}
	}
	return None, fmt.Errorf("unknown part %q", name)
}
