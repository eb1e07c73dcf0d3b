// Package preview renders a pose of the robot to an image without a GPU, for thumbnails and
// for checking documents in scripts.
package preview

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/Carmen-Shannon/oxy-rig/engine/camera"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/Carmen-Shannon/oxy-rig/engine/raster"
	"github.com/Carmen-Shannon/oxy-rig/engine/rig"
	"github.com/Carmen-Shannon/oxy-rig/engine/scene"
	"github.com/HugoSmits86/nativewebp"
	"github.com/anthonynsimon/bild/transform"
	"golang.org/x/image/draw"
)

// Background is the lit pass clear color, matching the editor viewport.
var Background = [4]uint8{166, 166, 179, 255}

// ErrUnknownFormat is returned by Encode for anything but "png" and "webp".
var ErrUnknownFormat = errors.New("preview: unknown image format")

// Options describes one preview image.
type Options struct {
	Evaluator scene.Evaluator
	Meshes    model.MeshSet
	Time      float32

	// Camera defaults to the editor's initial orbit view.
	Camera camera.Camera

	Width, Height int
	// Supersample renders at this multiple of the size and filters down. Values < 2 disable it.
	Supersample int

	// Selected is tinted like the editor selection; rig.None for none.
	Selected rig.Part

	// Identifiers renders the picking pass instead of the lit pass. It is never supersampled
	// since filtering would blend identifier values.
	Identifiers bool
}

// Render draws one frame with the software rasterizer.
//
// Parameters:
//   - opts: what to draw
//
// Returns:
//   - *image.NRGBA: the image at opts.Width x opts.Height
//   - error: a missing evaluator or a non-positive size
func Render(opts Options) (*image.NRGBA, error) {
	if opts.Evaluator == nil {
		return nil, errors.New("preview: no evaluator")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("preview: invalid size %dx%d", opts.Width, opts.Height)
	}

	ss := max(opts.Supersample, 1)
	if opts.Identifiers {
		ss = 1
	}
	w, h := opts.Width*ss, opts.Height*ss

	cam := opts.Camera
	if cam == nil {
		cam = camera.NewCamera(camera.WithController(camera.NewCameraController()))
	}
	cam.SetAspect(float32(w) / float32(h))
	cam.Update()

	pass := raster.Pass{
		Evaluator: opts.Evaluator,
		Time:      opts.Time,
		Meshes:    opts.Meshes,
		View:      cam.ViewMatrix(),
		Proj:      cam.ProjectionMatrix(),
	}
	fb := raster.NewFrameBuffer(w, h)
	if opts.Identifiers {
		fb.RenderIdentifiers(pass)
		return fb.Image(), nil
	}

	lc := raster.DefaultLightConfig()
	if ctrl := cam.Controller(); ctrl != nil {
		lc.CameraPosition = ctrl.Position()
	}
	fb.RenderLit(pass, opts.Selected, &lc, Background)

	img := fb.Image()
	if ss == 1 {
		return img, nil
	}
	return Downsample(img, opts.Width, opts.Height), nil
}

// Downsample scales img to width x height with CatmullRom filtering in premultiplied alpha, so
// transparent edges do not pick up dark fringes.
//
// Parameters:
//   - img: the source image
//   - width, height: the target size
//
// Returns:
//   - *image.NRGBA: the scaled image, or img itself when it is not larger than the target
func Downsample(img *image.NRGBA, width, height int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= width && b.Dy() <= height {
		return img
	}

	// Premultiplied values are stored at half scale. CatmullRom overshoots next to hard edges and
	// the scaler clips every channel at full scale, which would clip alpha but not color.
	premul := image.NewRGBA64(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			si := img.PixOffset(x, y)
			a := float64(img.Pix[si+3]) / 255.0
			premul.SetRGBA64(x, y, color.RGBA64{
				R: toHalf(float64(img.Pix[si]) / 255.0 * a),
				G: toHalf(float64(img.Pix[si+1]) / 255.0 * a),
				B: toHalf(float64(img.Pix[si+2]) / 255.0 * a),
				A: toHalf(a),
			})
		}
	}

	dst := image.NewRGBA64(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	out := image.NewNRGBA(dst.Bounds())
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := dst.RGBA64At(x, y)
			di := out.PixOffset(x, y)
			alpha := clamp8(float64(c.A) / halfScale * 255)
			if alpha > 0 {
				inv := 255.0 / float64(c.A)
				out.Pix[di] = clamp8(float64(min(c.R, c.A)) * inv)
				out.Pix[di+1] = clamp8(float64(min(c.G, c.A)) * inv)
				out.Pix[di+2] = clamp8(float64(min(c.B, c.A)) * inv)
			}
			out.Pix[di+3] = alpha
		}
	}
	return out
}

// Thumbnail scales img so its longer side is size pixels.
func Thumbnail(img image.Image, size int) *image.RGBA {
	b := img.Bounds()
	w, h := size, size
	if b.Dx() > b.Dy() {
		h = max(1, size*b.Dy()/b.Dx())
	} else if b.Dy() > b.Dx() {
		w = max(1, size*b.Dx()/b.Dy())
	}
	return transform.Resize(img, w, h, transform.Linear)
}

// Encode writes img as "png" or "webp".
//
// Parameters:
//   - w: the destination
//   - img: the image
//   - format: "png" or "webp"
//
// Returns:
//   - error: ErrUnknownFormat or an encoder failure
func Encode(w io.Writer, img image.Image, format string) error {
	switch format {
	case "png":
		if err := png.Encode(w, img); err != nil {
			return fmt.Errorf("failed to encode png: %w", err)
		}
	case "webp":
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("failed to encode webp: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

// halfScale is 1.0 in the premultiplied buffer of Downsample.
const halfScale = 0x7fff

func toHalf(v float64) uint16 {
	return uint16(v*halfScale + 0.5)
}

func clamp8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
