package keyframe

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/go-gl/mathgl/mgl32"
)

// Store holds the time-sorted keyframes of every part. It is not safe for concurrent use;
// the editor owns it from a single goroutine.
type Store struct {
	frames [rig.Count][]Keyframe
}

// NewStore returns an empty store. Every part samples its rest pose until keyframed.
func NewStore() *Store {
	return &Store{}
}

// Sample evaluates a part's local pose at time t.
//
// With no keyframes the rest pose is returned. Otherwise k1 is the keyframe with the greatest
// time <= t (the last one when t precedes them all) and k2 the one with the smallest time > t
// (the first one when t is past them all). When k1 is later than k2 the segment wraps through 1.0.
//
// Parameters:
//   - part: the part to sample
//   - t: normalized time in [0, 1)
//
// Returns:
//   - rig.Pose: a fresh pose value
func (s *Store) Sample(part rig.Part, t float32) rig.Pose {
	if !part.Valid() {
		return rig.Pose{}
	}
	kfs := s.frames[part]
	if len(kfs) == 0 {
		return part.RestPose()
	}

	// first index with time > t
	next := slices.IndexFunc(kfs, func(k Keyframe) bool { return k.Time > t })
	var k1, k2 Keyframe
	switch next {
	case -1, 0:
		k1, k2 = kfs[len(kfs)-1], kfs[0]
	default:
		k1, k2 = kfs[next-1], kfs[next]
	}

	switch {
	case k1.Time == k2.Time:
		return k1.Pose()
	case k1.Time < k2.Time:
		u := (t - k1.Time) / (k2.Time - k1.Time)
		return Lerp(k1.Pose(), k2.Pose(), mgl32.Clamp(u, 0, 1))
	}

	span := 1 - k1.Time + k2.Time
	var u float32
	if t >= k1.Time {
		u = (t - k1.Time) / span
	} else {
		u = (t + 1 - k1.Time) / span
	}
	return Lerp(k1.Pose(), k2.Pose(), mgl32.Clamp(u, 0, 1))
}

// Insert adds a keyframe at time t holding pose, keeping the part's keyframes sorted.
// If a keyframe already exists within DedupThreshold of t nothing is added.
//
// Parameters:
//   - part: the part to keyframe
//   - t: normalized time in [0, 1)
//   - pose: the pose to store; it also becomes the initial snapshot
//
// Returns:
//   - int: index of the new or the existing keyframe
//   - bool: true when a keyframe was created
func (s *Store) Insert(part rig.Part, t float32, pose rig.Pose) (int, bool) {
	if !part.Valid() {
		return -1, false
	}
	if i := s.Find(part, t); i >= 0 {
		return i, false
	}
	kfs := s.frames[part]
	at, _ := slices.BinarySearchFunc(kfs, t, func(k Keyframe, t float32) int {
		switch {
		case k.Time < t:
			return -1
		case k.Time > t:
			return 1
		}
		return 0
	})
	s.frames[part] = slices.Insert(kfs, at, New(t, pose))
	return at, true
}

// Find returns the index of a keyframe within DedupThreshold of t, or -1.
func (s *Store) Find(part rig.Part, t float32) int {
	if !part.Valid() {
		return -1
	}
	return slices.IndexFunc(s.frames[part], func(k Keyframe) bool {
		return mgl32.Abs(k.Time-t) < DedupThreshold
	})
}

// Delete removes the keyframe at index i. It reports false when the index is out of range.
func (s *Store) Delete(part rig.Part, i int) bool {
	if !s.inRange(part, i) {
		return false
	}
	s.frames[part] = slices.Delete(s.frames[part], i, i+1)
	return true
}

// Get returns a copy of the keyframe at index i.
func (s *Store) Get(part rig.Part, i int) (Keyframe, bool) {
	if !s.inRange(part, i) {
		return Keyframe{}, false
	}
	return s.frames[part][i], true
}

// Len returns the number of keyframes of a part.
func (s *Store) Len(part rig.Part) int {
	if !part.Valid() {
		return 0
	}
	return len(s.frames[part])
}

// Keyframes returns a copy of a part's keyframes in time order.
func (s *Store) Keyframes(part rig.Part) []Keyframe {
	if !part.Valid() {
		return nil
	}
	return slices.Clone(s.frames[part])
}

// SetPose overwrites the current pose of a keyframe. The initial snapshot is untouched.
func (s *Store) SetPose(part rig.Part, i int, pose rig.Pose) bool {
	if !s.inRange(part, i) {
		return false
	}
	k := &s.frames[part][i]
	k.Translation = pose.Translation
	k.Rotation = pose.Rotation
	return true
}

// SetValue sets one component of a keyframe's translation or rotation.
//
// Parameters:
//   - part, i: the keyframe to edit
//   - kind: Translation or Rotation
//   - axis: 0, 1 or 2 for x, y, z
//   - v: the new value
//
// Returns:
//   - bool: false when the keyframe or axis does not exist
func (s *Store) SetValue(part rig.Part, i int, kind Kind, axis int, v float32) bool {
	if !s.inRange(part, i) || axis < 0 || axis > 2 {
		return false
	}
	k := &s.frames[part][i]
	if kind == Rotation {
		k.Rotation[axis] = v
	} else {
		k.Translation[axis] = v
	}
	return true
}

// Reset restores the translation or rotation of a keyframe to its initial snapshot.
func (s *Store) Reset(part rig.Part, i int, kind Kind) bool {
	if !s.inRange(part, i) {
		return false
	}
	k := &s.frames[part][i]
	if kind == Rotation {
		k.Rotation = k.InitialRotation
	} else {
		k.Translation = k.InitialTranslation
	}
	return true
}

// Replace discards every keyframe and installs the given sets. Each set is copied and sorted by time.
func (s *Store) Replace(sets map[rig.Part][]Keyframe) {
	s.frames = [rig.Count][]Keyframe{}
	for part, kfs := range sets {
		if !part.Valid() || len(kfs) == 0 {
			continue
		}
		c := slices.Clone(kfs)
		slices.SortStableFunc(c, func(a, b Keyframe) int {
			switch {
			case a.Time < b.Time:
				return -1
			case a.Time > b.Time:
				return 1
			}
			return 0
		})
		s.frames[part] = c
	}
}

// Snapshot returns a deep copy of every non-empty keyframe set.
func (s *Store) Snapshot() map[rig.Part][]Keyframe {
	out := make(map[rig.Part][]Keyframe)
	for i, kfs := range s.frames {
		if len(kfs) > 0 {
			out[rig.Part(i)] = slices.Clone(kfs)
		}
	}
	return out
}

func (s *Store) inRange(part rig.Part, i int) bool {
	return part.Valid() && i >= 0 && i < len(s.frames[part])
}
