package renderer

import "github.com/go-gl/mathgl/mgl32"

type BoundSphere struct {
	Center mgl32.Vec3
	Radius float32
}

// BoundBox is an arbitrary (possibly oriented) box given by its 8 corners.
type BoundBox [8]mgl32.Vec3

// NewBoundBox expands an axis aligned min/max pair. Bit 0 of the corner
// index selects max x, bit 1 max y, bit 2 max z.
func NewBoundBox(min, max mgl32.Vec3) BoundBox {
	var box BoundBox
	for i := range box {
		c := min
		if i&1 != 0 {
			c[0] = max[0]
		}
		if i&2 != 0 {
			c[1] = max[1]
		}
		if i&4 != 0 {
			c[2] = max[2]
		}
		box[i] = c
	}
	return box
}

// Transform returns the box with every corner moved by m.
func (b BoundBox) Transform(m mgl32.Mat4) BoundBox {
	var out BoundBox
	for i, c := range b {
		out[i] = m.Mul4x1(c.Vec4(1)).Vec3()
	}
	return out
}

// IntersectsSphere reports whether the sphere is not fully outside the
// frustum. The bounding sphere rejects far away spheres before the planes
// are looked at.
func (f *Frustum) IntersectsSphere(center mgl32.Vec3, radius float32) bool {
	if center.Sub(f.Sphere.Center).Len() > f.Sphere.Radius+radius {
		return false
	}
	return spherePlanesTest(f.Planes[:], center, radius)
}

// IntersectsBox rejects the box only when all its corners are outside a
// single plane. Boxes straddling two planes near a frustum edge pass.
func (f *Frustum) IntersectsBox(box *BoundBox) bool {
	return boxPlanesTest(f.Planes[:], box)
}

// IntersectsPlane reports whether any part of the frustum lies on the
// positive side of plane. An unbounded frustum also reaches every plane one
// of its far edges points towards.
func (f *Frustum) IntersectsPlane(plane Plane) bool {
	for _, c := range f.Corners {
		if !(plane.DistanceToPoint(c) < 0) {
			return true
		}
	}
	if f.Unbounded {
		for i := 0; i < 4; i++ {
			ray := f.Corners[i+4].Sub(f.Corners[i])
			if !(plane.Normal.Dot(ray) <= 0) {
				return true
			}
		}
	}
	return false
}

// Comparisons are written so that NaN never rejects.
func spherePlanesTest(planes []Plane, center mgl32.Vec3, radius float32) bool {
	for _, plane := range planes {
		if plane.DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

func boxPlanesTest(planes []Plane, box *BoundBox) bool {
	for _, plane := range planes {
		outside := 0
		for _, c := range box {
			if plane.DistanceToPoint(c) < 0 {
				outside++
			}
		}
		if outside == len(box) {
			return false
		}
	}
	return true
}

// SphereTest returns true if the sphere may be visible from the view.
func (v *View) SphereTest(sphere BoundSphere) bool {
	src := v.cullingSource()
	if src == nil {
		return true
	}
	if !src.frustum.IntersectsSphere(sphere.Center, sphere.Radius) {
		return false
	}
	return spherePlanesTest(v.clipPlanes, sphere.Center, sphere.Radius)
}

// BoxTest returns true if the box may be visible from the view.
func (v *View) BoxTest(box *BoundBox) bool {
	src := v.cullingSource()
	if src == nil {
		return true
	}
	if !src.frustum.IntersectsBox(box) {
		return false
	}
	return boxPlanesTest(v.clipPlanes, box)
}

// PlaneTest returns true if the culling frustum is inside or intersects
// the given plane.
func (v *View) PlaneTest(plane Plane) bool {
	src := v.cullingSource()
	if src == nil {
		return true
	}
	return src.frustum.IntersectsPlane(plane)
}

// MinMaxTest tests the object space box [min, max] placed in the world by
// objectToWorld.
func (v *View) MinMaxTest(objectToWorld mgl32.Mat4, min, max mgl32.Vec3) bool {
	box := NewBoundBox(min, max).Transform(objectToWorld)
	return v.BoxTest(&box)
}
