package common

import (
	"unsafe"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Vec3 is a three component float32 vector. It is a value type; every operation returns a new vector.
type Vec3 = mgl32.Vec3

// Vec4 is a four component float32 vector, used for clip-space positions and RGBA colors.
type Vec4 = mgl32.Vec4

// Mat4 is a 4x4 float32 matrix stored in column-major order (OpenGL/WebGPU convention).
// Element 12, 13 and 14 hold the translation column.
type Mat4 = mgl32.Mat4

// Identity returns the 4x4 identity matrix.
func Identity() Mat4 {
	return mgl32.Ident4()
}

// Translate returns a translation matrix for the given offset.
func Translate(v Vec3) Mat4 {
	return mgl32.Translate3D(v[0], v[1], v[2])
}

// RotateX returns a rotation of angle radians about the X axis.
func RotateX(angle float32) Mat4 {
	return mgl32.HomogRotate3DX(angle)
}

// RotateY returns a rotation of angle radians about the Y axis.
func RotateY(angle float32) Mat4 {
	return mgl32.HomogRotate3DY(angle)
}

// RotateZ returns a rotation of angle radians about the Z axis.
func RotateZ(angle float32) Mat4 {
	return mgl32.HomogRotate3DZ(angle)
}

// Compose builds a local transform from a translation and an Euler rotation.
// The result is T * Rx * Ry * Rz, so the Z rotation is applied to a point first and the translation last.
//
// Parameters:
//   - translation: offset applied after rotation
//   - rotation: Euler angles in radians, applied X then Y then Z when read left to right
//
// Returns:
//   - Mat4: the composed column-major matrix
func Compose(translation, rotation Vec3) Mat4 {
	return Translate(translation).
		Mul4(RotateX(rotation[0])).
		Mul4(RotateY(rotation[1])).
		Mul4(RotateZ(rotation[2]))
}

// Mul4 multiplies two 4x4 matrices. Result: a * b.
func Mul4(a, b Mat4) Mat4 {
	return a.Mul4(b)
}

// Perspective creates a perspective projection matrix compatible with WebGPU clip space [0, 1].
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Mat4: the projection matrix
func Perspective(fovY, aspect, near, far float32) Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	out := Identity()

	out[0] = f / aspect
	out[5] = f
	out[10] = far / (near - far)
	out[11] = -1.0
	out[14] = (near * far) / (near - far)
	out[15] = 0.0
	return out
}

// Invert4 computes the inverse of a 4x4 matrix. If the matrix is singular the identity is
// returned together with false.
//
// Parameters:
//   - m: source matrix
//
// Returns:
//   - Mat4: the inverse, or identity when m is singular
//   - bool: true if the matrix was successfully inverted, false if singular
func Invert4(m Mat4) (Mat4, bool) {
	// mgl32's Inv returns the zero matrix for a zero determinant, so check first.
	if m.Det() == 0 {
		return Identity(), false
	}
	return m.Inv(), true
}

// LookAt creates a view matrix that positions and orients the camera.
// The resulting matrix transforms world coordinates to view/camera space.
//
// Parameters:
//   - eye: camera position in world space
//   - center: target point the camera looks at
//   - up: up vector defining camera orientation (typically 0,1,0)
//
// Returns:
//   - Mat4: the view matrix
func LookAt(eye, center, up Vec3) Mat4 {
	z := eye.Sub(center)
	if l := z.Len(); l > 0 {
		z = z.Mul(1 / l)
	}

	x := up.Cross(z)
	if l := x.Len(); l > 0 {
		x = x.Mul(1 / l)
	}

	y := z.Cross(x)

	var out Mat4
	out[0], out[4], out[8], out[12] = x[0], x[1], x[2], -x.Dot(eye)
	out[1], out[5], out[9], out[13] = y[0], y[1], y[2], -y.Dot(eye)
	out[2], out[6], out[10], out[14] = z[0], z[1], z[2], -z.Dot(eye)
	out[3], out[7], out[11], out[15] = 0, 0, 0, 1
	return out
}

// Position returns the translation column (elements 12-14) of a transform.
func Position(m Mat4) Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// Lerp3 linearly interpolates each component of a and b by u.
func Lerp3(a, b Vec3, u float32) Vec3 {
	return Vec3{
		a[0] + (b[0]-a[0])*u,
		a[1] + (b[1]-a[1])*u,
		a[2] + (b[2]-a[2])*u,
	}
}

// ProjectToScreen transforms a world-space point through view and projection and maps it
// to pixel coordinates with the origin at the top-left corner of the viewport.
//
// Parameters:
//   - view: world to camera transform
//   - proj: camera to clip transform
//   - p: the world-space point
//   - width, height: viewport size in pixels
//
// Returns:
//   - float32: screen x in pixels
//   - float32: screen y in pixels
//   - bool: false when the point is at or behind the camera plane
func ProjectToScreen(view, proj Mat4, p Vec3, width, height float32) (float32, float32, bool) {
	clip := proj.Mul4(view).Mul4x1(p.Vec4(1))
	if clip[3] <= 0 {
		return 0, 0, false
	}
	ndcX := clip[0] / clip[3]
	ndcY := clip[1] / clip[3]
	sx := (ndcX + 1) * 0.5 * width
	sy := (1 - ndcY) * 0.5 * height
	return sx, sy, true
}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	totalBytes := int(size) * len(data)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), totalBytes)
}

// StructToBytes reinterprets a pointer to a struct as a raw byte slice using unsafe.
// The returned slice has length equal to the struct's size in memory.
//
// Parameters:
//   - v: pointer to the struct to reinterpret
//
// Returns:
//   - []byte: byte slice view of the struct's memory
func StructToBytes[T any](v *T) []byte {
	size := unsafe.Sizeof(*v)
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), int(size))
}
