// Package light describes the editor's single directional light. The software rasterizer shades
// with it directly and the GPU lit shader receives it as WGSL constants, so both passes agree.
package light

import (
	"fmt"
	"strings"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/chewxy/math32"
)

// Placeholder is the line in a shader source that Inject replaces with the light constants.
const Placeholder = "//@oxy:light"

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	direction     common.Vec3
	ambient       float32
	specPower     float32
	specIntensity float32
}

// Light is a directional Phong light with an ambient term.
type Light interface {
	// Direction returns the normalized direction the light travels, not the direction towards it.
	//
	// Returns:
	//   - common.Vec3: the unit direction
	Direction() common.Vec3

	// Ambient returns the constant term added to every fragment.
	//
	// Returns:
	//   - float32: the ambient factor
	Ambient() float32

	// Specular returns the Phong exponent and the highlight strength.
	//
	// Returns:
	//   - power: the exponent
	//   - intensity: the highlight multiplier
	Specular() (power, intensity float32)

	// Shade returns the lighting multiplier for a surface point.
	//
	// Parameters:
	//   - normal: the surface normal, need not be unit length
	//   - position: the surface point
	//   - eye: the camera position in the same space as position
	//
	// Returns:
	//   - float32: ambient + diffuse + specular
	Shade(normal, position, eye common.Vec3) float32

	// WGSL returns the light as the constant block the lit shader expects.
	//
	// Returns:
	//   - string: LIGHT_DIR, AMBIENT, SPEC_POWER and SPEC_INTENSITY declarations
	WGSL() string

	// Inject replaces the Placeholder line of a shader source with WGSL.
	//
	// Parameters:
	//   - source: the shader source
	//
	// Returns:
	//   - string: the source with the constants in place
	//   - error: a source without the placeholder
	Inject(source string) (string, error)
}

var _ Light = &lightImpl{}

// NewLight creates the editor light. Without options it points down and slightly forward with
// ambient 0.3 and a specular exponent of 32 at half strength.
//
// Parameters:
//   - options: variadic list of LightBuilderOption functions
//
// Returns:
//   - Light: the configured light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		direction:     common.Vec3{0.5, -1, 0.5}.Normalize(),
		ambient:       0.3,
		specPower:     32,
		specIntensity: 0.5,
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() common.Vec3 {
	return l.direction
}

func (l *lightImpl) Ambient() float32 {
	return l.ambient
}

func (l *lightImpl) Specular() (float32, float32) {
	return l.specPower, l.specIntensity
}

func (l *lightImpl) Shade(normal, position, eye common.Vec3) float32 {
	n := normal.Normalize()
	toLight := l.direction.Mul(-1)
	diff := max(n.Dot(toLight), 0)

	view := eye.Sub(position).Normalize()
	// reflect(-l, n) = -l - 2*dot(n, -l)*n
	r := l.direction.Sub(n.Mul(2 * n.Dot(l.direction)))
	spec := math32.Pow(max(view.Dot(r), 0), l.specPower) * l.specIntensity

	return l.ambient + diff + spec
}

func (l *lightImpl) WGSL() string {
	d := l.direction
	return fmt.Sprintf("const LIGHT_DIR = vec3<f32>(%s, %s, %s);\nconst AMBIENT = %s;\nconst SPEC_POWER = %s;\nconst SPEC_INTENSITY = %s;",
		wgslFloat(d[0]), wgslFloat(d[1]), wgslFloat(d[2]),
		wgslFloat(l.ambient), wgslFloat(l.specPower), wgslFloat(l.specIntensity))
}

func (l *lightImpl) Inject(source string) (string, error) {
	if !strings.Contains(source, Placeholder) {
		return "", fmt.Errorf("shader has no %s line", Placeholder)
	}
	return strings.Replace(source, Placeholder, l.WGSL(), 1), nil
}

// wgslFloat formats v so WGSL reads it as an f32 literal rather than an abstract int.
func wgslFloat(v float32) string {
	s := fmt.Sprintf("%g", v)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}
