package raster

import (
	"github.com/Carmen-Shannon/oxy-rig/common"
	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// screenVertex is a vertex after projection: pixel position, NDC depth and 1/w for
// perspective-correct attribute interpolation.
type screenVertex struct {
	x, y, z float32
	invW    float32
	ok      bool
}

// fragmentFunc returns the color for a covered pixel given perspective-correct barycentrics.
type fragmentFunc func(b0, b1, b2 float32) [4]uint8

// DrawFlat rasterizes a mesh in a single unlit color with depth testing and no blending.
// This is the identifier pass: every covered pixel receives exactly c.
//
// Parameters:
//   - mesh: the triangles to draw
//   - mvp: projection * view * model
//   - c: the RGBA value written per pixel
func (fb *FrameBuffer) DrawFlat(mesh *model.ImportedMesh, mvp common.Mat4, c [4]uint8) {
	verts := fb.projectAll(mesh, mvp)
	frag := func(_, _, _ float32) [4]uint8 { return c }
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		i0, i1, i2 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if int(max(i0, i1, i2)) >= len(verts) {
			continue
		}
		fb.rasterize(verts[i0], verts[i1], verts[i2], frag)
	}
}

// DrawLit rasterizes a mesh with per-pixel Phong lighting in world space.
//
// Parameters:
//   - mesh: the triangles to draw
//   - modelM: the part's world transform
//   - viewProj: projection * view
//   - s: the surface coloring
//   - lc: the light, with CameraPosition in world space
func (fb *FrameBuffer) DrawLit(mesh *model.ImportedMesh, modelM, viewProj common.Mat4, s Surface, lc *LightConfig) {
	verts := fb.projectAll(mesh, viewProj.Mul4(modelM))
	normalM := modelM.Mat3().Inv().Transpose()

	world := make([]common.Vec3, len(mesh.Vertices))
	normals := make([]common.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		world[i] = modelM.Mul4x1(mgl32.Vec4{v.Position[0], v.Position[1], v.Position[2], 1}).Vec3()
		normals[i] = normalM.Mul3x1(common.Vec3(v.Normal))
	}

	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		i0, i1, i2 := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if int(max(i0, i1, i2)) >= len(verts) {
			continue
		}
		v0, v1, v2 := mesh.Vertices[i0], mesh.Vertices[i1], mesh.Vertices[i2]

		// Degenerate normals fall back to the face normal.
		n0, n1, n2 := normals[i0], normals[i1], normals[i2]
		if n0.Len() < 1e-6 || n1.Len() < 1e-6 || n2.Len() < 1e-6 {
			face := world[i1].Sub(world[i0]).Cross(world[i2].Sub(world[i0]))
			n0, n1, n2 = face, face, face
		}

		frag := func(b0, b1, b2 float32) [4]uint8 {
			pos := world[i0].Mul(b0).Add(world[i1].Mul(b1)).Add(world[i2].Mul(b2))
			n := n0.Mul(b0).Add(n1.Mul(b1)).Add(n2.Mul(b2))

			base := s.BaseColor
			if s.Texture != nil {
				u := v0.TexCoord[0]*b0 + v1.TexCoord[0]*b1 + v2.TexCoord[0]*b2
				v := v0.TexCoord[1]*b0 + v1.TexCoord[1]*b1 + v2.TexCoord[1]*b2
				base = SampleTexture(s.Texture, u, v)
			}
			if s.TintAmount > 0 {
				base = common.Lerp3(base, s.Tint, s.TintAmount)
			}
			lit := base.Mul(lc.Shade(n, pos))
			return [4]uint8{toByte(lit[0]), toByte(lit[1]), toByte(lit[2]), 255}
		}
		fb.rasterize(verts[i0], verts[i1], verts[i2], frag)
	}
}

// --- internal helpers ---

func (fb *FrameBuffer) projectAll(mesh *model.ImportedMesh, mvp common.Mat4) []screenVertex {
	out := make([]screenVertex, len(mesh.Vertices))
	w, h := float32(fb.Width), float32(fb.Height)
	for i, v := range mesh.Vertices {
		clip := mvp.Mul4x1(mgl32.Vec4{v.Position[0], v.Position[1], v.Position[2], 1})
		if clip[3] <= 1e-6 {
			continue
		}
		invW := 1 / clip[3]
		out[i] = screenVertex{
			x:    (clip[0]*invW + 1) * 0.5 * w,
			y:    (1 - clip[1]*invW) * 0.5 * h,
			z:    clip[2] * invW,
			invW: invW,
			ok:   true,
		}
	}
	return out
}

// rasterize fills one triangle, sampling pixel centers, with a less-than depth test.
// Triangles crossing the camera plane are dropped.
func (fb *FrameBuffer) rasterize(a, b, c screenVertex, frag fragmentFunc) {
	if !a.ok || !b.ok || !c.ok {
		return
	}

	det := (b.y-c.y)*(a.x-c.x) + (c.x-b.x)*(a.y-c.y)
	if math32.Abs(det) < 1e-9 {
		return
	}
	invDet := 1 / det

	minX := max(int(math32.Floor(min(a.x, b.x, c.x))), 0)
	maxX := min(int(math32.Ceil(max(a.x, b.x, c.x))), fb.Width-1)
	minY := max(int(math32.Floor(min(a.y, b.y, c.y))), 0)
	maxY := min(int(math32.Ceil(max(a.y, b.y, c.y))), fb.Height-1)
	if minX > maxX || minY > maxY {
		return
	}

	dy12 := b.y - c.y
	dx21 := c.x - b.x
	dy20 := c.y - a.y
	dx02 := a.x - c.x

	for sy := minY; sy <= maxY; sy++ {
		py := float32(sy) + 0.5 - c.y
		row := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			px := float32(sx) + 0.5 - c.x
			w0 := (dy12*px + dx21*py) * invDet
			w1 := (dy20*px + dx02*py) * invDet
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*a.z + w1*b.z + w2*c.z
			idx := row + sx
			if z < 0 || z > 1 || z >= fb.Depth[idx] {
				continue
			}

			// perspective-correct weights for attributes
			p0, p1, p2 := w0*a.invW, w1*b.invW, w2*c.invW
			sum := p0 + p1 + p2
			col := frag(p0/sum, p1/sum, p2/sum)

			fb.Depth[idx] = z
			copy(fb.Color[idx*4:idx*4+4], col[:])
		}
	}
}

func toByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
