package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	invertEpsilon      = 1e-12
	planeNormalEpsilon = 1e-12
	// Corners whose w falls below this fraction of the largest corner w are
	// treated as lying at infinity.
	cornerWFloor = 1e-9
	// Relative padding applied to the frustum bounding sphere so float32
	// rounding of the corners never shrinks it.
	spherePadding = 1e-5
)

// Frustum is the world space culling volume of a view.
type Frustum struct {
	Planes  [6]Plane
	Corners BoundBox
	Sphere  BoundSphere
	// Unbounded is set when the projection has an infinite far plane. The far
	// corners are then only placeholders far along their rays and Sphere has
	// an infinite radius.
	Unbounded bool
}

// ndcCorners lists the x/y of the near and far faces: left-bottom,
// right-bottom, right-top, left-top.
var ndcCorners = [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

// DeriveFrustum computes planes, corners and bounding sphere of the volume
// seen through proj*view.
func DeriveFrustum(view, proj mgl32.Mat4, conv ClipConvention) (Frustum, error) {
	persmat := mat32To64(proj).Mul4(mat32To64(view))
	inv, ok := invert(persmat)
	if !ok {
		return Frustum{}, ErrInvalidProjection
	}

	corners, centroid, unbounded := unprojectCorners(inv, conv)

	f := Frustum{
		Planes:    extractPlanes(persmat, conv, centroid),
		Corners:   corners,
		Sphere:    BoundingSphereFromCorners(corners),
		Unbounded: unbounded,
	}
	if unbounded {
		f.Sphere.Radius = float32(math.Inf(1))
	}
	return f, nil
}

// DerivePlanes returns the six normalized world space planes in
// PlaneLeft..PlaneFar order.
func DerivePlanes(view, proj mgl32.Mat4, conv ClipConvention) ([6]Plane, error) {
	f, err := DeriveFrustum(view, proj, conv)
	return f.Planes, err
}

// DeriveCorners returns the eight world space corners: indices 0-3 are the
// near face and 4-7 the far face, each ordered left-bottom, right-bottom,
// right-top, left-top.
func DeriveCorners(view, proj mgl32.Mat4, conv ClipConvention) (BoundBox, error) {
	f, err := DeriveFrustum(view, proj, conv)
	return f.Corners, err
}

// BoundingSphereFromCorners returns a sphere centered on the corner centroid
// that encloses all corners. It is not minimal.
func BoundingSphereFromCorners(corners BoundBox) BoundSphere {
	var center mgl64.Vec3
	for _, c := range corners {
		center = center.Add(vec32To64(c))
	}
	center = center.Mul(1.0 / float64(len(corners)))

	var maxDistSq float64
	for _, c := range corners {
		if d := vec32To64(c).Sub(center).LenSqr(); d > maxDistSq {
			maxDistSq = d
		}
	}
	radius := math.Sqrt(maxDistSq)
	radius += radius * spherePadding

	return BoundSphere{
		Center: mgl32.Vec3{float32(center[0]), float32(center[1]), float32(center[2])},
		Radius: float32(radius),
	}
}

func unprojectCorners(inv mgl64.Mat4, conv ClipConvention) (BoundBox, mgl64.Vec3, bool) {
	var homogeneous [8]mgl64.Vec4
	var maxW float64
	for i := range homogeneous {
		xy := ndcCorners[i%4]
		z := conv.nearDepth()
		if i >= 4 {
			z = 1
		}
		homogeneous[i] = inv.Mul4x1(mgl64.Vec4{xy[0], xy[1], z, 1})
		if w := math.Abs(homogeneous[i][3]); w > maxW {
			maxW = w
		}
	}

	// The near face is never at infinity, its w carries the sign every
	// clamped corner has to share to stay in front of the camera.
	nearSign := homogeneous[0][3]
	floor := maxW * cornerWFloor

	var corners BoundBox
	var centroid mgl64.Vec3
	unbounded := false
	for i, h := range homogeneous {
		w := h[3]
		if math.Abs(w) < floor {
			w = math.Copysign(floor, nearSign)
			unbounded = true
		}
		p := h.Vec3().Mul(1.0 / w)
		centroid = centroid.Add(p)
		corners[i] = mgl32.Vec3{float32(p[0]), float32(p[1]), float32(p[2])}
	}
	return corners, centroid.Mul(1.0 / 8), unbounded
}

// extractPlanes applies the Gribb-Hartmann row combinations to persmat. The
// centroid of the frustum fixes the orientation, so a projection scaled by a
// negative factor still produces inward facing planes.
func extractPlanes(m mgl64.Mat4, conv ClipConvention, centroid mgl64.Vec3) [6]Plane {
	r0, r1, r2, r3 := m.Row(0), m.Row(1), m.Row(2), m.Row(3)

	near := r3.Add(r2)
	if conv == ClipZeroToOne {
		near = r2
	}

	raw := [6]mgl64.Vec4{
		PlaneLeft:   r3.Add(r0),
		PlaneRight:  r3.Sub(r0),
		PlaneBottom: r3.Add(r1),
		PlaneTop:    r3.Sub(r1),
		PlaneNear:   near,
		PlaneFar:    r3.Sub(r2),
	}

	var planes [6]Plane
	for i, v := range raw {
		n, ok := normalizedPlane(v)
		if ok && n.Vec3().Dot(centroid)+n[3] < 0 {
			n = n.Mul(-1)
		}
		planes[i] = toPlane(n)
	}
	return planes
}

func vec32To64(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}
