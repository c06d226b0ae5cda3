package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestCreateBoxModelBounds(t *testing.T) {
	model := CreateBoxModel("box", mgl32.Vec3{-1, -2, -3}, mgl32.Vec3{1, 2, 3})

	require.False(t, model.IsDirty)
	require.Equal(t, mgl32.Vec3{-1, -2, -3}, model.LocalMin)
	require.Equal(t, mgl32.Vec3{1, 2, 3}, model.LocalMax)
	require.Equal(t, mgl32.Vec3{0, 0, 0}, model.BoundingSphereCenter)
	require.InDelta(t, math.Sqrt(14), model.BoundingSphereRadius, 1e-4)
}

func TestModelRefreshAfterTransform(t *testing.T) {
	model := CreateBoxModel("box", mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})

	model.SetPosition(5, 6, 7)
	model.SetScale(2, 1, 1)
	require.True(t, model.IsDirty)

	model.Refresh()

	require.False(t, model.IsDirty)
	require.InDeltaSlice(t, []float32{5, 6, 7}, model.BoundingSphereCenter[:], 1e-5)
	// The stretched box corners (±2, ±1, ±1) bound tighter than the
	// stretched sphere.
	require.InDelta(t, math.Sqrt(6), model.BoundingSphereRadius, 1e-4)
	require.Equal(t, float32(5), model.X())
	require.Equal(t, float32(6), model.Y())
	require.Equal(t, float32(7), model.Z())
}

func TestModelCull(t *testing.T) {
	v := orthoView(t)
	model := CreateBoxModel("box", mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})

	model.SetPosition(0, 0, -50)
	// Stale bounds are never culled.
	require.True(t, model.Cull(v))
	model.Refresh()
	require.True(t, model.Cull(v))

	model.SetPosition(50, 0, -50)
	model.Refresh()
	require.False(t, model.Cull(v))

	model.Rotate(0, 45, 0)
	require.True(t, model.Cull(v))
}

func TestModelWithoutVerticesIsNotCulled(t *testing.T) {
	v := orthoView(t)
	model := CreateModel("empty", nil)
	model.SetPosition(1000, 0, 0)
	model.Refresh()

	require.True(t, model.Cull(v))
}

func TestInstancedModelBounds(t *testing.T) {
	v := orthoView(t)
	model := CreateBoxModel("trees", mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	model.SetInstanceCount(2)
	model.SetInstancePosition(0, mgl32.Vec3{100, 0, -50})
	model.SetInstancePosition(1, mgl32.Vec3{140, 0, -50})
	model.SetInstancePosition(5, mgl32.Vec3{0, 0, -50})
	model.Refresh()

	require.Equal(t, 2, model.InstanceCount)
	require.InDeltaSlice(t, []float32{120, 0, -50}, model.BoundingSphereCenter[:], 1e-4)
	require.InDelta(t, 20+math.Sqrt(3), model.BoundingSphereRadius, 1e-3)
	require.False(t, model.Cull(v))

	model.SetInstancePosition(1, mgl32.Vec3{0, 0, -50})
	model.Refresh()
	require.True(t, model.Cull(v))
}

func TestInstancedModelSheared(t *testing.T) {
	v := orthoView(t)

	// A diagonal segment rotated onto the x axis by its instance, then
	// stretched by the model scale: the combined matrix is sheared.
	model := CreateModel("beam", []mgl32.Vec3{{0.7071068, -0.7071068, 0}, {-0.7071068, 0.7071068, 0}})
	model.SetScale(10, 1, 1)
	model.SetPosition(-18, 0, -50)
	model.SetInstanceCount(1)
	model.SetInstanceMatrix(0, mgl32.HomogRotate3DZ(mgl32.DegToRad(45)))
	model.Refresh()

	world := model.ModelMatrix.Mul4(model.InstanceModelMatrices[0])
	end := world.Mul4x1(mgl32.Vec4{0.7071068, -0.7071068, 0, 1}).Vec3()
	require.InDeltaSlice(t, []float32{-8, 0, -50}, end[:], 1e-4)
	require.GreaterOrEqual(t, model.BoundingSphereRadius, end.Sub(model.BoundingSphereCenter).Len())

	require.True(t, model.Cull(v))
}

func TestModelRadiusCoversRotatedScale(t *testing.T) {
	model := CreateBoxModel("box", mgl32.Vec3{-1, -1, -1}, mgl32.Vec3{1, 1, 1})
	model.SetInstanceCount(1)
	model.SetScale(5, 1, 1)
	model.SetInstanceMatrix(0, mgl32.HomogRotate3DZ(mgl32.DegToRad(30)))
	model.Refresh()

	world := model.ModelMatrix.Mul4(model.InstanceModelMatrices[0])
	for i, c := range NewBoundBox(model.LocalMin, model.LocalMax) {
		p := world.Mul4x1(c.Vec4(1)).Vec3()
		require.LessOrEqual(t, p.Sub(model.BoundingSphereCenter).Len(), model.BoundingSphereRadius, "corner %d", i)
	}
}
