package camera

import "github.com/Carmen-Shannon/oxy-rig/common"

// CameraController drives an orbit camera around a target point.
// Mouse deltas are in pixels; the controller scales them by its sensitivity settings.
type CameraController interface {
	orbitCameraController
	planarCameraController

	// Position returns the world-space camera position.
	Position() common.Vec3

	// Target returns the point the camera orbits and looks at.
	Target() common.Vec3

	// SetTarget moves the orbit target and recomputes the position.
	//
	// Parameters:
	//   - target: new world-space target
	SetTarget(target common.Vec3)

	// Zoom scales the orbit distance by one wheel step.
	// A positive delta multiplies the distance by 1+step, anything else by 1-step.
	//
	// Parameters:
	//   - delta: vertical wheel delta
	Zoom(delta float32)

	// Reset restores the initial radius, angles and target.
	Reset()
}

type orbitCameraController interface {
	// Orbit rotates around the target by a mouse drag.
	//
	// Parameters:
	//   - dx: horizontal drag in pixels, added to the azimuth
	//   - dy: vertical drag in pixels, added to the elevation
	Orbit(dx, dy float32)

	Radius() float32

	// SetRadius sets the orbit distance, clamped to [MinRadius, MaxRadius].
	SetRadius(radius float32)

	MinRadius() float32

	MaxRadius() float32

	Azimuth() float32

	SetAzimuth(azimuth float32)

	Elevation() float32

	// SetElevation sets the vertical angle, clamped to the elevation bounds.
	SetElevation(elevation float32)

	MinElevation() float32

	MaxElevation() float32

	MouseSensitivity() float32

	ZoomStep() float32
}

type planarCameraController interface {
	// Pan slides the target by a mouse drag.
	// Horizontal motion follows the camera's right vector, vertical motion moves along world Y.
	//
	// Parameters:
	//   - dx: horizontal drag in pixels
	//   - dy: vertical drag in pixels
	Pan(dx, dy float32)

	PanSpeed() float32
}
