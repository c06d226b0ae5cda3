package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/xlab/linmath"
)

// Plane is a world space half-space. Points with DistanceToPoint >= 0 are
// inside.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// Frustum plane order used by every plane array in this package.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// ClipConvention selects the clip space depth range of a projection matrix.
type ClipConvention int

const (
	// ClipNegOneToOne is the OpenGL convention (-w <= z <= w), used by
	// mgl32.Perspective and mgl32.Ortho.
	ClipNegOneToOne ClipConvention = iota
	// ClipZeroToOne is the Vulkan/D3D convention (0 <= z <= w).
	ClipZeroToOne
)

func (c ClipConvention) String() string {
	switch c {
	case ClipNegOneToOne:
		return "opengl"
	case ClipZeroToOne:
		return "vulkan"
	}
	return "unknown"
}

// nearDepth is the NDC depth of the near plane.
func (c ClipConvention) nearDepth() float64 {
	if c == ClipZeroToOne {
		return 0
	}
	return -1
}

func PlaneFromVec4(v mgl32.Vec4) Plane {
	return Plane{Normal: v.Vec3(), Distance: v.W()}
}

func (p Plane) Vec4() mgl32.Vec4 {
	return p.Normal.Vec4(p.Distance)
}

func (p Plane) DistanceToPoint(point mgl32.Vec3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

// normalizedPlane scales (a,b,c,d) to a unit normal. A degenerate normal,
// which is what the far plane of an infinite projection reduces to, yields a
// plane every point is inside of.
func normalizedPlane(v mgl64.Vec4) (mgl64.Vec4, bool) {
	length := v.Vec3().Len()
	if length < planeNormalEpsilon || math.IsNaN(length) || math.IsInf(length, 0) {
		return mgl64.Vec4{0, 0, 0, 1}, false
	}
	return v.Mul(1.0 / length), true
}

func toPlane(v mgl64.Vec4) Plane {
	return Plane{
		Normal:   mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])},
		Distance: float32(v[3]),
	}
}

func mat32To64(m mgl32.Mat4) mgl64.Mat4 {
	var out mgl64.Mat4
	for i := range m {
		out[i] = float64(m[i])
	}
	return out
}

func mat64To32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := range m {
		out[i] = float32(m[i])
	}
	return out
}

// invert returns the inverse of m, or false when m is singular. The
// determinant is compared against the product of the row lengths so the test
// does not depend on the scale of the matrix.
func invert(m mgl64.Mat4) (mgl64.Mat4, bool) {
	for _, e := range m {
		if math.IsNaN(e) || math.IsInf(e, 0) {
			return mgl64.Mat4{}, false
		}
	}
	scale := 1.0
	for row := 0; row < 4; row++ {
		scale *= m.Row(row).Len()
	}
	det := m.Det()
	if scale == 0 || math.Abs(det) <= invertEpsilon*scale {
		return mgl64.Mat4{}, false
	}
	return m.Inv(), true
}

// MatFromLinmath converts a linmath matrix, as handed over by Vulkan-side
// code, into mgl32 layout. Both are column-major.
func MatFromLinmath(m linmath.Mat4x4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i*4+j] = m[i][j]
		}
	}
	return out
}

func MatToLinmath(m mgl32.Mat4) linmath.Mat4x4 {
	var out linmath.Mat4x4
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out[i][j] = m[i*4+j]
		}
	}
	return out
}
