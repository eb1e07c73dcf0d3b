package model

// Box builds an axis-aligned box between lo and hi with per-face normals and UVs.
func Box(name string, lo, hi [3]float32) ImportedMesh {
	type face struct {
		normal  [3]float32
		corners [4][3]float32
	}
	x0, y0, z0 := lo[0], lo[1], lo[2]
	x1, y1, z1 := hi[0], hi[1], hi[2]
	faces := []face{
		{[3]float32{0, 0, 1}, [4][3]float32{{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{x1, y0, z0}, {x0, y0, z0}, {x0, y1, z0}, {x1, y1, z0}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{x1, y0, z1}, {x1, y0, z0}, {x1, y1, z0}, {x1, y1, z1}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{x0, y0, z0}, {x0, y0, z1}, {x0, y1, z1}, {x0, y1, z0}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{x0, y1, z1}, {x1, y1, z1}, {x1, y1, z0}, {x0, y1, z0}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{x0, y0, z0}, {x1, y0, z0}, {x1, y0, z1}, {x0, y0, z1}}},
	}
	uvs := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	mesh := ImportedMesh{Name: name, MaterialIndex: -1}
	for _, f := range faces {
		base := uint32(len(mesh.Vertices))
		for i, c := range f.corners {
			mesh.Vertices = append(mesh.Vertices, Vertex{Position: c, Normal: f.normal, TexCoord: uvs[i]})
		}
		mesh.Indices = append(mesh.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	mesh.ComputeBounds()
	return mesh
}

// LineVertex is one end of a colored line segment, used by the gizmo and the ground grid.
type LineVertex struct {
	Position [3]float32
	Color    [4]float32
}

// GridLines builds a square grid on the y = 0 plane spanning [-size*step, size*step] on X and Z.
// Lines fade towards the edges.
func GridLines(size int, step float32) []LineVertex {
	out := make([]LineVertex, 0, (2*size+1)*4)
	extent := float32(size) * step
	for i := -size; i <= size; i++ {
		t := float32(max(i, -i)) / float32(size)
		c := [4]float32{0.3, 0.3, 0.3, 1 - t*0.8}
		p := float32(i) * step
		out = append(out,
			LineVertex{Position: [3]float32{-extent, 0, p}, Color: c},
			LineVertex{Position: [3]float32{extent, 0, p}, Color: c},
			LineVertex{Position: [3]float32{p, 0, -extent}, Color: c},
			LineVertex{Position: [3]float32{p, 0, extent}, Color: c},
		)
	}
	return out
}

// MarshalLines packs line vertices (28 bytes each) for a vertex buffer upload.
func MarshalLines(lines []LineVertex) []byte {
	buf := make([]byte, 0, 28*len(lines))
	for _, l := range lines {
		buf = appendFloats(buf, l.Position[:]...)
		buf = appendFloats(buf, l.Color[:]...)
	}
	return buf
}
