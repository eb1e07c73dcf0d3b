package model

import (
	_ "embed"
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-rig/common"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct for mesh pipelines.
// Matches GPUVertex layout exactly (32 bytes).
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPULineVertexSource is the WGSL LineVertexInput struct. Matches LineVertex (28 bytes).
//
//go:embed assets/line_vertex.wgsl
var GPULineVertexSource string

// GPUModelUniformSource is the WGSL ModelUniform struct. Matches GPUModelUniform (112 bytes).
//
//go:embed assets/model_uniform.wgsl
var GPUModelUniformSource string

// GPUVertex is the GPU-aligned representation of a single mesh vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 32 bytes, no padding required.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 32)
	g.put(buf)
	return buf
}

func (g *GPUVertex) put(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.TexCoord[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.TexCoord[1]))
}

// MarshalVertices packs vertices back to back for a vertex buffer upload.
func MarshalVertices(vertices []Vertex) []byte {
	buf := make([]byte, 32*len(vertices))
	for i, v := range vertices {
		g := GPUVertex{Position: v.Position, Normal: v.Normal, TexCoord: v.TexCoord}
		g.put(buf[i*32 : (i+1)*32])
	}
	return buf
}

func appendFloats(buf []byte, vs ...float32) []byte {
	for _, v := range vs {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

// MarshalIndices packs uint32 indices little-endian for an index buffer upload.
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, 4*len(indices))
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// GPUModelUniform is the per-draw uniform shared by the lit, identifier and line pipelines.
// Each pass reads only the fields it needs.
// Size: 112 bytes.
type GPUModelUniform struct {
	Model     common.Mat4 // offset  0: local to world (lit, line) or local to view (identifier)
	Tint      [4]float32  // offset 64: rgb tint, a = mix amount
	PickColor [4]float32  // offset 80: identifier color, normalized
	BaseColor [4]float32  // offset 96: untextured surface color
}

// Size returns the size of the GPUModelUniform struct in bytes.
func (g *GPUModelUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniform for GPU upload.
//
// Returns:
//   - []byte: 112-byte buffer
func (g *GPUModelUniform) Marshal() []byte {
	buf := make([]byte, 0, g.Size())
	buf = appendFloats(buf, g.Model[:]...)
	buf = appendFloats(buf, g.Tint[:]...)
	buf = appendFloats(buf, g.PickColor[:]...)
	buf = appendFloats(buf, g.BaseColor[:]...)
	return buf
}
