// Package keyframe stores per-part keyframes on the normalized [0, 1) animation cycle and
// samples them with linear interpolation that wraps from the last keyframe back to the first.
package keyframe

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
)

// DedupThreshold is the minimum time distance between two keyframes of the same part.
// Inserting closer than this selects the existing keyframe instead.
const DedupThreshold = 0.01

// Kind selects which half of a pose an edit targets.
type Kind uint8

const (
	Translation Kind = iota
	Rotation
)

func (k Kind) String() string {
	if k == Rotation {
		return "rotation"
	}
	return "translation"
}

// Keyframe is one sample of a part's local pose.
// The initial pose is captured when the keyframe is created and is the target of Reset.
type Keyframe struct {
	Time        float32
	Translation common.Vec3
	Rotation    common.Vec3

	InitialTranslation common.Vec3
	InitialRotation    common.Vec3
}

// New creates a keyframe whose initial snapshot equals the given pose.
func New(t float32, pose rig.Pose) Keyframe {
	return Keyframe{
		Time:               t,
		Translation:        pose.Translation,
		Rotation:           pose.Rotation,
		InitialTranslation: pose.Translation,
		InitialRotation:    pose.Rotation,
	}
}

// Pose returns the keyframe's current local pose.
func (k Keyframe) Pose() rig.Pose {
	return rig.Pose{Translation: k.Translation, Rotation: k.Rotation}
}

// Lerp interpolates two poses component-wise.
func Lerp(a, b rig.Pose, u float32) rig.Pose {
	return rig.Pose{
		Translation: common.Lerp3(a.Translation, b.Translation, u),
		Rotation:    common.Lerp3(a.Rotation, b.Rotation, u),
	}
}
