package gizmo

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/chewxy/math32"
)

const (
	arrowSegments = 8
	ringSegments  = 32
	ringScale     = 1.2
	tipLengthFrac = 0.15
	tipRadiusFrac = 0.05
)

var (
	axisColors = [3][4]float32{{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}}
	ringColors = [3][4]float32{{1, 0.5, 0.5, 0.6}, {0.5, 1, 0.5, 0.6}, {0.5, 0.5, 1, 0.6}}
)

// Geometry returns the widget as a line list in anchor-local space: three arrows, plus three
// rings in rotate mode. Draw it with ModelMatrix and the depth test disabled.
//
// Parameters:
//   - mode: the current manipulation mode
//
// Returns:
//   - []model.LineVertex: pairs of line endpoints
func Geometry(mode Mode) []model.LineVertex {
	var out []model.LineVertex
	for i, dir := range axisDirections {
		out = append(out, arrow(dir, Size, axisColors[i])...)
	}
	if mode == Rotate {
		for i := range axisDirections {
			out = append(out, ring(i, Size*ringScale, ringColors[i])...)
		}
	}
	return out
}

// ModelMatrix places the widget at the anchor. It never rotates with the part.
func ModelMatrix(anchor common.Vec3) common.Mat4 {
	return common.Translate(anchor)
}

func arrow(dir common.Vec3, length float32, color [4]float32) []model.LineVertex {
	tipLen := length * tipLengthFrac
	tipRadius := length * tipRadiusFrac
	apex := dir.Mul(length)
	base := dir.Mul(length - tipLen)

	// two unit vectors perpendicular to dir span the cone's base circle
	up := common.Vec3{0, 1, 0}
	if math32.Abs(dir.Dot(up)) > 0.9 {
		up = common.Vec3{0, 0, 1}
	}
	u := dir.Cross(up).Normalize()
	v := dir.Cross(u).Normalize()

	out := []model.LineVertex{line(common.Vec3{}, color), line(apex, color)}
	for i := 0; i < arrowSegments; i++ {
		angle := float32(i) / arrowSegments * 2 * math32.Pi
		rim := base.Add(u.Mul(tipRadius * math32.Cos(angle))).Add(v.Mul(tipRadius * math32.Sin(angle)))
		out = append(out, line(rim, color), line(apex, color))
	}
	return out
}

func ring(axis int, radius float32, color [4]float32) []model.LineVertex {
	point := func(i int) common.Vec3 {
		angle := float32(i) / ringSegments * 2 * math32.Pi
		c, s := math32.Cos(angle)*radius, math32.Sin(angle)*radius
		switch axis {
		case 0:
			return common.Vec3{0, c, s}
		case 1:
			return common.Vec3{c, 0, s}
		}
		return common.Vec3{c, s, 0}
	}
	out := make([]model.LineVertex, 0, ringSegments*2)
	for i := 0; i < ringSegments; i++ {
		out = append(out, line(point(i), color), line(point(i+1), color))
	}
	return out
}

func line(p common.Vec3, color [4]float32) model.LineVertex {
	return model.LineVertex{Position: [3]float32(p), Color: color}
}
