// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/ftrvxmtrx/tga"
	"github.com/h2non/filetype"
	_ "golang.org/x/image/bmp"
)

// TextureStagingData holds RGBA pixel data for a texture binding pending GPU upload.
type TextureStagingData struct {
	// Pixels is the byte slice representing the actual pixel data for the texture. It should be in RGBA format, with 4 bytes per pixel.
	Pixels []byte
	// Width is the width of the texture in pixels.
	Width uint32
	// Height is the height of the texture in pixels.
	Height uint32
}

// PlaceholderTexture returns a 1x1 opaque white texture, substituted whenever a material's texture cannot be decoded.
func PlaceholderTexture() TextureStagingData {
	return TextureStagingData{Pixels: []byte{255, 255, 255, 255}, Width: 1, Height: 1}
}

// ImportedMaterial represents material properties from an imported mesh file.
type ImportedMaterial struct {
	// Name is the material identifier.
	Name string

	// BaseColor is the albedo/diffuse color (RGBA).
	BaseColor [4]float32

	// SpecularExponent is the Phong exponent (MTL Ns). Zero means the renderer default.
	SpecularExponent float32

	// DiffuseTexture holds the albedo texture, embedded or on disk. Nil when the material is untextured.
	DiffuseTexture *ImportedTexture
}

// ImportedTexture represents texture data extracted from a mesh or material file.
// For embedded textures (GLB), the Data field contains raw image bytes.
// For external textures, the Path field contains the file path.
type ImportedTexture struct {
	// Name is an identifier for this texture (e.g., "diffuse").
	Name string

	// Path is the file path for external textures (empty for embedded).
	Path string

	// Data contains raw image bytes for embedded textures.
	Data []byte

	// MimeType indicates the image format (e.g., "image/png"). Populated by Decode when empty.
	MimeType string

	// Width is the texture width in pixels (populated after Decode).
	Width int

	// Height is the texture height in pixels (populated after Decode).
	Height int
}

// Decode decodes the texture to raw RGBA pixel data.
// Uses either embedded Data bytes or loads from Path on disk.
// Supports PNG, JPEG, BMP and TGA. The format is sniffed from the leading bytes; TGA has no
// magic number and is recognized by extension.
//
// Returns:
//   - TextureStagingData: raw RGBA pixel data (4 bytes per pixel, row-major order) with its size
//   - error: error if decoding fails
func (t *ImportedTexture) Decode() (TextureStagingData, error) {
	if t == nil {
		return TextureStagingData{}, fmt.Errorf("texture is nil")
	}

	raw := t.Data
	if len(raw) == 0 {
		if t.Path == "" {
			return TextureStagingData{}, fmt.Errorf("texture has neither data nor path")
		}
		b, err := os.ReadFile(t.Path)
		if err != nil {
			return TextureStagingData{}, fmt.Errorf("failed to open texture file %s: %w", t.Path, err)
		}
		raw = b
	}

	if t.MimeType == "" {
		kind, _ := filetype.Match(raw)
		switch {
		case kind != filetype.Unknown:
			t.MimeType = kind.MIME.Value
		case strings.EqualFold(filepath.Ext(t.Path), ".tga"):
			t.MimeType = "image/x-tga"
		}
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return TextureStagingData{}, fmt.Errorf("failed to decode texture %q (%s): %w", Coalesce(t.Path, t.Name), t.MimeType, err)
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	t.Width = bounds.Dx()
	t.Height = bounds.Dy()

	return TextureStagingData{Pixels: rgba.Pix, Width: uint32(t.Width), Height: uint32(t.Height)}, nil
}
