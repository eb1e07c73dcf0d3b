package light

import "github.com/Carmen-Shannon/oxy-rig/common"

// LightBuilderOption is a function that configures a Light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection sets the direction the light travels. The direction is normalized before
// storing; a zero vector is ignored.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a lightImpl
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		d := common.Vec3{x, y, z}
		if d.Len() == 0 {
			return
		}
		l.direction = d.Normalize()
	}
}

// WithAmbient sets the constant term.
//
// Parameters:
//   - ambient: the ambient factor, clamped to [0, 1]
//
// Returns:
//   - LightBuilderOption: a function that applies the ambient option to a lightImpl
func WithAmbient(ambient float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.ambient = min(max(ambient, 0), 1)
	}
}

// WithSpecular sets the Phong exponent and highlight strength. A non-positive power is ignored.
//
// Parameters:
//   - power: the exponent
//   - intensity: the highlight multiplier
//
// Returns:
//   - LightBuilderOption: a function that applies the specular option to a lightImpl
func WithSpecular(power, intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		if power <= 0 {
			return
		}
		l.specPower = power
		l.specIntensity = max(intensity, 0)
	}
}
