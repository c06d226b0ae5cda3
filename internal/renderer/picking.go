package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in 3D space
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// ScreenRay returns the world space ray through a window position of the
// view, starting on the near plane. It uses the view's own matrices, so a
// sub-view picks through what it draws.
func (v *View) ScreenRay(screenX, screenY float32, width, height int) Ray {
	x := 2*screenX/float32(width) - 1
	y := 1 - 2*screenY/float32(height)

	inv := v.mats.persInv
	near := inv.Mul4x1(mgl32.Vec4{x, y, float32(v.convention.nearDepth()), 1})
	far := inv.Mul4x1(mgl32.Vec4{x, y, 1, 1})

	// far.W() is zero for an infinite projection; the homogeneous difference
	// still gives the direction.
	dir := far.Vec3().Mul(near.W()).Sub(near.Vec3().Mul(far.W()))
	if near.W()*far.W() < 0 {
		dir = dir.Mul(-1)
	}
	return Ray{
		Origin:    near.Vec3().Mul(1 / near.W()),
		Direction: dir.Normalize(),
	}
}

// RayIntersectSphere tests if a ray intersects a sphere
// Returns: (intersected, distance, intersection point)
func RayIntersectSphere(ray Ray, sphereCenter mgl32.Vec3, radius float32) (bool, float32, mgl32.Vec3) {
	oc := ray.Origin.Sub(sphereCenter)

	a := ray.Direction.Dot(ray.Direction)
	b := 2.0 * oc.Dot(ray.Direction)
	c := oc.Dot(oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return false, 0, mgl32.Vec3{}
	}

	sqrtDisc := float32(math.Sqrt(float64(discriminant)))
	t1 := (-b - sqrtDisc) / (2 * a)
	t2 := (-b + sqrtDisc) / (2 * a)

	// Closest intersection in front of the origin. t1 <= t2.
	var t float32
	switch {
	case t1 > 0:
		t = t1
	case t2 > 0:
		t = t2
	default:
		return false, 0, mgl32.Vec3{}
	}

	return true, t, ray.Origin.Add(ray.Direction.Mul(t))
}

// RayIntersectModel tests the ray against the bounding sphere of a model.
func RayIntersectModel(ray Ray, model *Model) (bool, float32, mgl32.Vec3) {
	return RayIntersectSphere(ray, model.BoundingSphereCenter, model.BoundingSphereRadius)
}

// PickModel returns the model closest along ray among those that may be
// visible from v, or nil. Models must be refreshed.
func PickModel(v *View, ray Ray, models []*Model) (*Model, float32) {
	var picked *Model
	closest := float32(math.Inf(1))
	for _, model := range models {
		if !model.Cull(v) {
			continue
		}
		if hit, t, _ := RayIntersectModel(ray, model); hit && t < closest {
			picked, closest = model, t
		}
	}
	return picked, closest
}
