// Package gizmo implements the transform widget drawn at the selected part: screen-space
// hit testing, axis engagement and converting pointer drags into keyframe edits.
package gizmo

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/chewxy/math32"
)

const (
	// Size is the arrow length in world units.
	Size float32 = 0.5
	// HitRadius is the pixel distance from the projected anchor that engages the gizmo.
	HitRadius float32 = 50
	// TranslateSensitivity converts pixels to world units.
	TranslateSensitivity float32 = 0.01
	// RotateSensitivity converts pixels to radians.
	RotateSensitivity float32 = 0.02
)

// Mode selects what a drag edits.
type Mode uint8

const (
	Translate Mode = iota
	Rotate
)

func (m Mode) String() string {
	if m == Rotate {
		return "rotate"
	}
	return "translate"
}

// Axis is the engaged manipulation axis.
type Axis int8

const (
	AxisNone Axis = iota - 1
	AxisX
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	}
	return "none"
}

// Viewport is the camera state hit testing projects through.
type Viewport struct {
	View   common.Mat4
	Proj   common.Mat4
	Width  float32
	Height float32
}

// Controller is the gizmo state machine: hidden, visible and idle, or engaged on an axis
// while dragging. Pointer-up always returns it to idle.
type Controller interface {
	// Show makes the gizmo visible at anchor.
	//
	// Parameters:
	//   - anchor: world position of the selected part
	Show(anchor common.Vec3)

	// Hide hides the gizmo and ends any drag.
	Hide()

	// Visible reports whether the gizmo is shown.
	Visible() bool

	// Anchor returns the world position the gizmo is drawn at.
	Anchor() common.Vec3

	// SetAnchor moves the gizmo without changing visibility.
	SetAnchor(anchor common.Vec3)

	// Mode returns the current manipulation mode.
	Mode() Mode

	// SetMode selects translate or rotate.
	SetMode(m Mode)

	// ToggleMode flips between translate and rotate.
	ToggleMode()

	// Axis returns the engaged axis, or AxisNone.
	Axis() Axis

	// Dragging reports whether an axis is engaged.
	Dragging() bool

	// Begin hit tests a pointer press. On a hit the axis whose projected direction best matches
	// the pointer offset from the anchor is engaged.
	//
	// Parameters:
	//   - vp: the current camera
	//   - x, y: pointer position in pixels, origin at the top-left
	//
	// Returns:
	//   - bool: true when the press engaged the gizmo
	Begin(vp Viewport, x, y float32) bool

	// Drag applies pointer motion since the previous event to pose along the engaged axis.
	//
	// Parameters:
	//   - x, y: pointer position in pixels
	//   - pose: the selected keyframe's current pose
	//
	// Returns:
	//   - rig.Pose: the edited pose
	//   - bool: false when no axis is engaged
	Drag(x, y float32, pose rig.Pose) (rig.Pose, bool)

	// End releases the engaged axis.
	End()
}

type controller struct {
	visible  bool
	anchor   common.Vec3
	mode     Mode
	axis     Axis
	dragging bool
	lastX    float32
	lastY    float32
}

var _ Controller = &controller{}

// NewController creates a hidden controller in translate mode.
func NewController() Controller {
	return &controller{axis: AxisNone}
}

func (c *controller) Show(anchor common.Vec3) {
	c.visible = true
	c.anchor = anchor
}

func (c *controller) Hide() {
	c.visible = false
	c.End()
}

func (c *controller) Visible() bool {
	return c.visible
}

func (c *controller) Anchor() common.Vec3 {
	return c.anchor
}

func (c *controller) SetAnchor(anchor common.Vec3) {
	c.anchor = anchor
}

func (c *controller) Mode() Mode {
	return c.mode
}

func (c *controller) SetMode(m Mode) {
	c.mode = m
}

func (c *controller) ToggleMode() {
	if c.mode == Translate {
		c.mode = Rotate
	} else {
		c.mode = Translate
	}
}

func (c *controller) Axis() Axis {
	return c.axis
}

func (c *controller) Dragging() bool {
	return c.dragging
}

func (c *controller) Begin(vp Viewport, x, y float32) bool {
	if !c.visible {
		return false
	}
	ax, ay, ok := common.ProjectToScreen(vp.View, vp.Proj, c.anchor, vp.Width, vp.Height)
	if !ok {
		return false
	}
	dx, dy := x-ax, y-ay
	if math32.Sqrt(dx*dx+dy*dy) >= HitRadius {
		return false
	}

	c.axis = c.pickAxis(vp, ax, ay, dx, dy)
	c.dragging = true
	c.lastX, c.lastY = x, y
	return true
}

func (c *controller) Drag(x, y float32, pose rig.Pose) (rig.Pose, bool) {
	if !c.dragging || c.axis == AxisNone {
		return pose, false
	}
	dx, dy := x-c.lastX, y-c.lastY
	c.lastX, c.lastY = x, y

	if c.mode == Translate {
		switch c.axis {
		case AxisX:
			pose.Translation[0] += dx * TranslateSensitivity
		case AxisY:
			pose.Translation[1] -= dy * TranslateSensitivity
		case AxisZ:
			pose.Translation[2] += dx * TranslateSensitivity
		}
		return pose, true
	}

	movement := math32.Sqrt(dx*dx+dy*dy) * common.Sign(dx+dy)
	pose.Rotation[c.axis] += movement * RotateSensitivity
	return pose, true
}

func (c *controller) End() {
	c.dragging = false
	c.axis = AxisNone
}

// --- internal helpers ---

// pickAxis compares the pointer offset against each axis projected to the screen.
// A press right on the anchor, or an anchor with no usable projection, engages X.
func (c *controller) pickAxis(vp Viewport, ax, ay, dx, dy float32) Axis {
	offLen := math32.Sqrt(dx*dx + dy*dy)
	if offLen < 1e-3 {
		return AxisX
	}

	best, bestScore := AxisX, float32(-1)
	for i, dir := range axisDirections {
		tip := c.anchor.Add(dir.Mul(Size))
		tx, ty, ok := common.ProjectToScreen(vp.View, vp.Proj, tip, vp.Width, vp.Height)
		if !ok {
			continue
		}
		sx, sy := tx-ax, ty-ay
		l := math32.Sqrt(sx*sx + sy*sy)
		if l < 1e-3 {
			continue
		}
		score := math32.Abs((sx*dx + sy*dy) / (l * offLen))
		if score > bestScore {
			best, bestScore = Axis(i), score
		}
	}
	return best
}

var axisDirections = [3]common.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
