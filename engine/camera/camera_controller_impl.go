package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/chewxy/math32"
)

const (
	DefaultRadius           float32 = 15
	DefaultAzimuth          float32 = 0.5
	DefaultElevation        float32 = 0.5
	DefaultMinRadius        float32 = 2
	DefaultMaxRadius        float32 = 50
	DefaultMouseSensitivity float32 = 0.01
	DefaultPanSpeed         float32 = 0.01
	DefaultZoomStep         float32 = 0.1
)

// cameraControllerImpl is the single implementation of CameraController.
// The position is always derived from target + spherical offset.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position common.Vec3
	target   common.Vec3

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // around Y, 0 = +Z
	elevation float32 // from the horizontal plane

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	mouseSensitivity float32
	zoomStep         float32
	panSpeed         float32

	initial struct {
		target                     common.Vec3
		radius, azimuth, elevation float32
	}
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an orbit controller with the editor defaults:
// distance 15, azimuth 0.5, elevation 0.5, looking at the origin.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},

		radius:    DefaultRadius,
		azimuth:   DefaultAzimuth,
		elevation: DefaultElevation,

		minRadius:    DefaultMinRadius,
		maxRadius:    DefaultMaxRadius,
		minElevation: -(math32.Pi/2 - 0.1),
		maxElevation: math32.Pi/2 - 0.1,

		mouseSensitivity: DefaultMouseSensitivity,
		zoomStep:         DefaultZoomStep,
		panSpeed:         DefaultPanSpeed,
	}

	for _, option := range options {
		option(cc)
	}

	cc.radius = clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.elevation = clamp(cc.elevation, cc.minElevation, cc.maxElevation)
	cc.initial.target = cc.target
	cc.initial.radius = cc.radius
	cc.initial.azimuth = cc.azimuth
	cc.initial.elevation = cc.elevation

	cc.updatePosition()
	return cc
}

func (cc *cameraControllerImpl) Position() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) Target() common.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(target common.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = target
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if delta > 0 {
		cc.radius *= 1 + cc.zoomStep
	} else {
		cc.radius *= 1 - cc.zoomStep
	}
	cc.radius = clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = cc.initial.target
	cc.radius = cc.initial.radius
	cc.azimuth = cc.initial.azimuth
	cc.elevation = cc.initial.elevation
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Orbit(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth += dx * cc.mouseSensitivity
	cc.elevation = clamp(cc.elevation+dy*cc.mouseSensitivity, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}

func (cc *cameraControllerImpl) SetRadius(radius float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.radius = clamp(radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minRadius
}

func (cc *cameraControllerImpl) MaxRadius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxRadius
}

func (cc *cameraControllerImpl) Azimuth() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.azimuth
}

func (cc *cameraControllerImpl) SetAzimuth(azimuth float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.azimuth = azimuth
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Elevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.elevation
}

func (cc *cameraControllerImpl) SetElevation(elevation float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.elevation = clamp(elevation, cc.minElevation, cc.maxElevation)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) MinElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.minElevation
}

func (cc *cameraControllerImpl) MaxElevation() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.maxElevation
}

func (cc *cameraControllerImpl) MouseSensitivity() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mouseSensitivity
}

func (cc *cameraControllerImpl) ZoomStep() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomStep
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	right, _, _ := cc.localAxes()
	cc.target = cc.target.Sub(right.Mul(dx * cc.panSpeed))
	cc.target[1] += dy * cc.panSpeed
	cc.updatePosition()
}

func (cc *cameraControllerImpl) PanSpeed() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.panSpeed
}

// --- internal helpers ---

// updatePosition recomputes the camera position from the target and spherical coordinates.
// Caller must hold cc.mu.
func (cc *cameraControllerImpl) updatePosition() {
	cosE := math32.Cos(cc.elevation)
	cc.position = common.Vec3{
		cc.target[0] + cc.radius*cosE*math32.Sin(cc.azimuth),
		cc.target[1] + cc.radius*math32.Sin(cc.elevation),
		cc.target[2] + cc.radius*cosE*math32.Cos(cc.azimuth),
	}
}

// localAxes returns the camera's right, up and forward unit vectors.
// Right is normalize(cross(worldUp, position - target)). Caller must hold cc.mu.
func (cc *cameraControllerImpl) localAxes() (right, up, forward common.Vec3) {
	back := cc.position.Sub(cc.target)
	if l := back.Len(); l > 0 {
		back = back.Mul(1 / l)
	}
	right = common.Vec3{0, 1, 0}.Cross(back)
	if l := right.Len(); l > 0 {
		right = right.Mul(1 / l)
	} else {
		right = common.Vec3{1, 0, 0}
	}
	up = back.Cross(right)
	forward = back.Mul(-1)
	return right, up, forward
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
