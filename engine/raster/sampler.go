package raster

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
)

// SampleTexture performs bilinear filtering with UV wrapping and returns normalized RGB.
func SampleTexture(tex *common.TextureStagingData, u, v float32) common.Vec3 {
	w, h := int(tex.Width), int(tex.Height)
	if w == 0 || h == 0 || len(tex.Pixels) < w*h*4 {
		return DefaultBaseColor
	}

	// Wrap UVs
	u = u - float32(int(u))
	if u < 0 {
		u += 1.0
	}
	v = v - float32(int(v))
	if v < 0 {
		v += 1.0
	}

	fx := u * float32(w-1)
	fy := v * float32(h-1)
	x0 := int(fx)
	y0 := int(fy)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h
	dx := fx - float32(x0)
	dy := fy - float32(y0)

	stride := w * 4
	pix := tex.Pixels

	i00 := y0*stride + x0*4
	i10 := y0*stride + x1*4
	i01 := y1*stride + x0*4
	i11 := y1*stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	var out common.Vec3
	for c := 0; c < 3; c++ {
		out[c] = (float32(pix[i00+c])*w00 + float32(pix[i10+c])*w10 + float32(pix[i01+c])*w01 + float32(pix[i11+c])*w11) / 255
	}
	return out
}
