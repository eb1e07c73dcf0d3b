// Package picking resolves a pointer position to the rig part under it by rendering an
// identifier pass offscreen and reading back a single pixel.
package picking

import (
	"errors"
	"fmt"
	"log"

	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
)

// ErrNoTarget is returned when the resolver has no identifier target attached.
var ErrNoTarget = errors.New("picking: no identifier target")

// Frame is the state one identifier pass is rendered from.
type Frame struct {
	Evaluator scene.Evaluator
	Time      float32
	View      common.Mat4
	Proj      common.Mat4
	Width     int
	Height    int
}

// IdentifierTarget renders the identifier pass and reads single pixels back from it.
// Implementations clear to (0,0,0,0), depth test, never blend and never multisample.
type IdentifierTarget interface {
	// Render draws every part in its identifier color at the frame's viewport size.
	//
	// Parameters:
	//   - f: the frame to render
	//
	// Returns:
	//   - error: a render or resize failure
	Render(f Frame) error

	// ReadPixel returns the RGBA value at (x, y) where y counts up from the bottom row.
	//
	// Parameters:
	//   - x: column from the left edge
	//   - y: row from the bottom edge
	//
	// Returns:
	//   - [4]uint8: the pixel value
	//   - error: a readback failure
	ReadPixel(x, y int) ([4]uint8, error)
}

// Resolver maps pointer coordinates to parts.
type Resolver interface {
	// Pick renders the identifier pass for f and returns the part at (x, y).
	//
	// Parameters:
	//   - f: the frame to render
	//   - x, y: pointer position in pixels, origin at the top-left
	//
	// Returns:
	//   - rig.Part: the hit part, or rig.None
	//   - bool: true when a part was hit
	//   - error: target failures; a miss is not an error
	Pick(f Frame, x, y int) (rig.Part, bool, error)

	// Target returns the identifier target in use.
	Target() IdentifierTarget
}

type resolver struct {
	target IdentifierTarget
}

var _ Resolver = &resolver{}

// NewResolver creates a resolver over an identifier target.
//
// Parameters:
//   - target: the offscreen target to render into
//
// Returns:
//   - Resolver: the resolver
func NewResolver(target IdentifierTarget) Resolver {
	return &resolver{target: target}
}

func (r *resolver) Pick(f Frame, x, y int) (rig.Part, bool, error) {
	if r.target == nil {
		return rig.None, false, ErrNoTarget
	}
	if x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return rig.None, false, nil
	}
	if err := r.target.Render(f); err != nil {
		return rig.None, false, fmt.Errorf("failed to render identifier pass: %w", err)
	}

	px, err := r.target.ReadPixel(x, f.Height-y-1)
	if err != nil {
		return rig.None, false, fmt.Errorf("failed to read identifier pixel: %w", err)
	}

	part, ok := rig.PartFromPickID(px[0])
	if !ok && px[0] != 0 {
		log.Printf("[Picking] unknown identifier %d at (%d, %d)", px[0], x, y)
	}
	return part, ok, nil
}

func (r *resolver) Target() IdentifierTarget {
	return r.target
}
