package raster

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/light"
)

// LightConfig pairs the editor light with the eye position of the pass.
type LightConfig struct {
	Light light.Light
	// CameraPosition is the eye position in the same space as the shaded surface.
	CameraPosition common.Vec3
}

// DefaultLightConfig returns the editor's single directional light.
func DefaultLightConfig() LightConfig {
	return LightConfig{Light: light.NewLight()}
}

// Shade returns the lighting multiplier for a surface point.
func (lc *LightConfig) Shade(normal, position common.Vec3) float32 {
	return lc.Light.Shade(normal, position, lc.CameraPosition)
}

// Surface describes how a lit mesh is colored.
type Surface struct {
	// BaseColor is used when Texture is nil.
	BaseColor common.Vec3
	// Texture is sampled with the interpolated UV when set.
	Texture *common.TextureStagingData
	// Tint is mixed into the base color by TintAmount (0 disables it).
	Tint       common.Vec3
	TintAmount float32
}

// SelectedTint is the red highlight applied to the selected part.
var SelectedTint = common.Vec3{1, 0, 0}

// DefaultBaseColor is the grey used for untextured parts.
var DefaultBaseColor = common.Vec3{0.7, 0.7, 0.7}
