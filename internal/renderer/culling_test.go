package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func orthoView(t *testing.T) *View {
	return newTestView(t, mgl32.Ident4(), mgl32.Ortho(-10, 10, -10, 10, 0, 100))
}

func TestOrthographicCulling(t *testing.T) {
	v := orthoView(t)

	require.True(t, v.SphereTest(BoundSphere{Center: mgl32.Vec3{0, 0, 0}, Radius: 5}))
	require.False(t, v.SphereTest(BoundSphere{Center: mgl32.Vec3{1000, 0, 0}, Radius: 1}))
	require.False(t, v.SphereTest(BoundSphere{Center: mgl32.Vec3{0, 0, 20}, Radius: 1}))

	full := NewBoundBox(mgl32.Vec3{-10, -10, -100}, mgl32.Vec3{10, 10, 0})
	require.True(t, v.BoxTest(&full))
	require.True(t, v.MinMaxTest(mgl32.Ident4(), mgl32.Vec3{-10, -10, -100}, mgl32.Vec3{10, 10, 0}))
}

func TestSphereTestTouchingPlane(t *testing.T) {
	v := orthoView(t)

	require.True(t, v.SphereTest(BoundSphere{Center: mgl32.Vec3{10.5, 0, -50}, Radius: 1}))
	require.False(t, v.SphereTest(BoundSphere{Center: mgl32.Vec3{11.5, 0, -50}, Radius: 1}))
}

func TestSphereTestMonotonicInRadius(t *testing.T) {
	viewMat := mgl32.LookAtV(mgl32.Vec3{2, 3, 4}, mgl32.Vec3{0, 0, -20}, mgl32.Vec3{0, 1, 0})
	v := newTestView(t, viewMat, perspective(60))

	radii := []float32{8, 4, 2, 1, 0.5, 0}
	for x := float32(-60); x <= 60; x += 7.5 {
		for z := float32(-120); z <= 20; z += 7.5 {
			center := mgl32.Vec3{x, x / 3, z}
			culled := false
			for _, r := range radii {
				visible := v.SphereTest(BoundSphere{Center: center, Radius: r})
				require.False(t, culled && visible, "center %v radius %f visible after a larger radius was culled", center, r)
				culled = culled || !visible
			}
		}
	}
}

func TestBoxTestMonotonicInSize(t *testing.T) {
	viewMat := mgl32.LookAtV(mgl32.Vec3{2, 3, 4}, mgl32.Vec3{0, 0, -20}, mgl32.Vec3{0, 1, 0})
	v := newTestView(t, viewMat, perspective(60))

	for x := float32(-60); x <= 60; x += 7.5 {
		for z := float32(-120); z <= 20; z += 7.5 {
			center := mgl32.Vec3{x, 0, z}
			half := mgl32.Vec3{2, 2, 2}
			small := NewBoundBox(center.Sub(half), center.Add(half))
			large := NewBoundBox(center.Sub(half.Mul(2)), center.Add(half.Mul(2)))
			if v.BoxTest(&small) {
				require.True(t, v.BoxTest(&large), "box around %v", center)
			}
		}
	}
}

func TestPlaneTest(t *testing.T) {
	v := orthoView(t)

	// The frustum spans z in [-100, 0] and x, y in [-10, 10].
	require.True(t, v.PlaneTest(Plane{Normal: mgl32.Vec3{0, 0, 1}, Distance: 50}))
	require.True(t, v.PlaneTest(Plane{Normal: mgl32.Vec3{1, 0, 0}, Distance: -5}))
	require.False(t, v.PlaneTest(Plane{Normal: mgl32.Vec3{0, 0, 1}, Distance: -10}))
	require.False(t, v.PlaneTest(Plane{Normal: mgl32.Vec3{0, -1, 0}, Distance: -20}))
}

func TestPlaneTestInfiniteFar(t *testing.T) {
	v := newTestView(t, mgl32.Ident4(), infinitePerspective(60, 0.1))

	// Beyond the far corner placeholders, still inside the volume.
	require.True(t, v.PlaneTest(Plane{Normal: mgl32.Vec3{0, 0, -1}, Distance: -1e10}))
	require.True(t, v.PlaneTest(Plane{Normal: mgl32.Vec3{1, 0, -1}.Normalize(), Distance: -1e10}))

	// Behind the camera and beside the volume the answer stays false.
	require.False(t, v.PlaneTest(Plane{Normal: mgl32.Vec3{0, 0, 1}, Distance: -1}))
	require.False(t, v.PlaneTest(Plane{Normal: mgl32.Vec3{1, 0, 1}.Normalize(), Distance: -1e10}))
}

func TestMinMaxTest(t *testing.T) {
	v := orthoView(t)
	min, max := mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}

	require.True(t, v.MinMaxTest(mgl32.Translate3D(0, 0, -50), min, max))
	require.False(t, v.MinMaxTest(mgl32.Translate3D(50, 0, -50), min, max))

	// Scaled up, the same box reaches into the frustum.
	toWorld := mgl32.Translate3D(15, 0, -50).Mul4(mgl32.Scale3D(6, 1, 1))
	require.True(t, v.MinMaxTest(toWorld, min, max))

	rotated := mgl32.Translate3D(12, 0, -50).Mul4(mgl32.HomogRotate3DY(mgl32.DegToRad(45)))
	require.True(t, v.MinMaxTest(rotated, mgl32.Vec3{-3, -1, -0.1}, mgl32.Vec3{3, 1, 0.1}))
}

func TestNaNNeverCulls(t *testing.T) {
	v := orthoView(t)
	nan := float32(math.NaN())

	require.True(t, v.SphereTest(BoundSphere{Center: mgl32.Vec3{nan, 0, 0}, Radius: 1}))
	require.True(t, v.SphereTest(BoundSphere{Center: mgl32.Vec3{1000, 0, 0}, Radius: nan}))

	box := NewBoundBox(mgl32.Vec3{nan, nan, nan}, mgl32.Vec3{nan, nan, nan})
	require.True(t, v.BoxTest(&box))

	toWorld := mgl32.Translate3D(1000, 0, 0)
	toWorld[0] = nan
	require.True(t, v.MinMaxTest(toWorld, mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1}))
}

func TestNewBoundBoxCornerOrder(t *testing.T) {
	box := NewBoundBox(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 2, 3})

	require.Equal(t, mgl32.Vec3{0, 0, 0}, box[0])
	require.Equal(t, mgl32.Vec3{1, 0, 0}, box[1])
	require.Equal(t, mgl32.Vec3{0, 2, 0}, box[2])
	require.Equal(t, mgl32.Vec3{0, 0, 3}, box[4])
	require.Equal(t, mgl32.Vec3{1, 2, 3}, box[7])
}
