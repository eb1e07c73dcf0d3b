package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-rig/engine/model"
	"github.com/chewxy/math32"
)

// objGroup is the geometry emitted under one usemtl statement.
type objGroup struct {
	material   string
	vertices   []model.Vertex
	indices    []uint32
	hasNormals bool

	// dedup maps a v/vt/vn reference triple to its vertex index.
	dedup map[[3]int]uint32
}

type objFile struct {
	mtllibs []string
	groups  []*objGroup
}

type mtlMaterial struct {
	name       string
	diffuse    [3]float32
	alpha      float32
	shininess  float32
	diffuseMap string
}

// parseOBJ reads positions, texture coordinates, normals and faces. Polygons are fan
// triangulated; negative indices count back from the latest element. V is flipped so that
// texture rows grow downward.
func parseOBJ(r io.Reader) (*objFile, error) {
	var (
		positions [][3]float32
		uvs       [][2]float32
		normals   [][3]float32
		out       = &objFile{}
		cur       *objGroup
	)
	group := func(material string) *objGroup {
		g := &objGroup{material: material, dedup: make(map[[3]int]uint32), hasNormals: true}
		out.groups = append(out.groups, g)
		return g
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		switch fields[0] {
		case "v":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			positions = append(positions, [3]float32{p[0], p[1], p[2]})
		case "vt":
			p, err := parseFloats(fields[1:], 2)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			uvs = append(uvs, [2]float32{p[0], 1 - p[1]})
		case "vn":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			normals = append(normals, [3]float32{p[0], p[1], p[2]})
		case "usemtl":
			name := strings.TrimSpace(strings.TrimPrefix(text, "usemtl"))
			if cur != nil && len(cur.indices) == 0 {
				cur.material = name
				continue
			}
			cur = group(name)
		case "mtllib":
			out.mtllibs = append(out.mtllibs, strings.TrimSpace(strings.TrimPrefix(text, "mtllib")))
		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", line)
			}
			if cur == nil {
				cur = group("")
			}
			face := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				key, err := resolveRef(ref, len(positions), len(uvs), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				idx, ok := cur.dedup[key]
				if !ok {
					v := model.Vertex{Position: positions[key[0]]}
					if key[1] >= 0 {
						v.TexCoord = uvs[key[1]]
					}
					if key[2] >= 0 {
						v.Normal = normals[key[2]]
					} else {
						cur.hasNormals = false
					}
					idx = uint32(len(cur.vertices))
					cur.vertices = append(cur.vertices, v)
					cur.dedup[key] = idx
				}
				face = append(face, idx)
			}
			for i := 1; i+1 < len(face); i++ {
				cur.indices = append(cur.indices, face[0], face[i], face[i+1])
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read OBJ: %w", err)
	}

	groups := out.groups[:0]
	for _, g := range out.groups {
		if len(g.indices) > 0 {
			groups = append(groups, g)
		}
	}
	out.groups = groups
	if len(out.groups) == 0 {
		return nil, fmt.Errorf("OBJ has no faces")
	}
	return out, nil
}

// loadMTL reads a material library. map_Kd paths resolve against the library's directory.
func loadMTL(path string) ([]mtlMaterial, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open material library %s: %w", path, err)
	}
	defer f.Close()

	mats, err := parseMTL(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return mats, nil
}

func parseMTL(r io.Reader, dir string) ([]mtlMaterial, error) {
	var mats []mtlMaterial
	var cur *mtlMaterial

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}
		fields := strings.Fields(text)
		if fields[0] == "newmtl" {
			mats = append(mats, mtlMaterial{
				name:    strings.TrimSpace(strings.TrimPrefix(text, "newmtl")),
				diffuse: [3]float32{1, 1, 1},
				alpha:   1,
			})
			cur = &mats[len(mats)-1]
			continue
		}
		if cur == nil {
			continue
		}
		switch fields[0] {
		case "Kd":
			p, err := parseFloats(fields[1:], 3)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			cur.diffuse = [3]float32{p[0], p[1], p[2]}
		case "d":
			p, err := parseFloats(fields[1:], 1)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			cur.alpha = p[0]
		case "Tr":
			p, err := parseFloats(fields[1:], 1)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			cur.alpha = 1 - p[0]
		case "Ns":
			p, err := parseFloats(fields[1:], 1)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			cur.shininess = p[0]
		case "map_Kd":
			// Options such as -s or -o are not supported; the last field is the file.
			rel := fields[len(fields)-1]
			cur.diffuseMap = filepath.Join(dir, filepath.FromSlash(rel))
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read MTL: %w", err)
	}
	return mats, nil
}

// --- internal helpers ---

func parseFloats(fields []string, n int) ([]float32, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("expected %d values, got %d", n, len(fields))
	}
	out := make([]float32, n)
	for i := range n {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", fields[i])
		}
		out[i] = float32(f)
	}
	return out, nil
}

// resolveRef converts a v, v/vt, v//vn or v/vt/vn reference into zero-based indices, -1 for absent.
func resolveRef(ref string, nPos, nUV, nNorm int) ([3]int, error) {
	key := [3]int{-1, -1, -1}
	parts := strings.Split(ref, "/")
	if len(parts) > 3 {
		return key, fmt.Errorf("invalid face reference %q", ref)
	}
	counts := [3]int{nPos, nUV, nNorm}
	for i, s := range parts {
		if s == "" {
			if i == 0 {
				return key, fmt.Errorf("face reference %q has no position", ref)
			}
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return key, fmt.Errorf("invalid face reference %q", ref)
		}
		switch {
		case n > 0:
			n--
		case n < 0:
			n += counts[i]
		default:
			return key, fmt.Errorf("face reference %q uses index 0", ref)
		}
		if n < 0 || n >= counts[i] {
			return key, fmt.Errorf("face reference %q out of range", ref)
		}
		key[i] = n
	}
	return key, nil
}

// computeNormals assigns area weighted vertex normals from the triangles.
func computeNormals(mesh *model.ImportedMesh) {
	acc := make([][3]float32, len(mesh.Vertices))
	for i := 0; i+2 < len(mesh.Indices); i += 3 {
		a, b, c := mesh.Indices[i], mesh.Indices[i+1], mesh.Indices[i+2]
		if int(max(a, b, c)) >= len(mesh.Vertices) {
			continue
		}
		pa, pb, pc := mesh.Vertices[a].Position, mesh.Vertices[b].Position, mesh.Vertices[c].Position
		e1 := [3]float32{pb[0] - pa[0], pb[1] - pa[1], pb[2] - pa[2]}
		e2 := [3]float32{pc[0] - pa[0], pc[1] - pa[1], pc[2] - pa[2]}
		n := [3]float32{
			e1[1]*e2[2] - e1[2]*e2[1],
			e1[2]*e2[0] - e1[0]*e2[2],
			e1[0]*e2[1] - e1[1]*e2[0],
		}
		for _, idx := range []uint32{a, b, c} {
			for k := range 3 {
				acc[idx][k] += n[k]
			}
		}
	}
	for i, n := range acc {
		l := math32.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
		if l == 0 {
			mesh.Vertices[i].Normal = [3]float32{0, 1, 0}
			continue
		}
		mesh.Vertices[i].Normal = [3]float32{n[0] / l, n[1] / l, n[2] / l}
	}
}
