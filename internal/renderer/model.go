package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Model is a drawable object as seen by culling: a transform plus the
// bounds derived from its vertices.
type Model struct {
	// HOT DATA - Read by culling every frame
	ModelMatrix           mgl32.Mat4   // Transformation matrix
	BoundingSphereCenter  mgl32.Vec3   // World space bounding sphere
	BoundingSphereRadius  float32      // World space bounding sphere
	LocalMin              mgl32.Vec3   // Object space bounding box
	LocalMax              mgl32.Vec3   // Object space bounding box
	IsInstanced           bool         // Instanced rendering flag
	InstanceModelMatrices []mgl32.Mat4 // Per instance transforms, applied after ModelMatrix

	// MEDIUM DATA - Changed by game logic
	Position mgl32.Vec3 // Position in world space
	Scale    mgl32.Vec3 // Scale factors
	Rotation mgl32.Quat // Rotation quaternion
	IsDirty  bool       // Bounds need recalculation

	// COLD DATA
	Id            int
	Name          string
	Vertices      []float32 // Vertex position data, 3 floats per vertex
	InstanceCount int

	localCenter mgl32.Vec3
	localRadius float32
	boundsValid bool
}

func (m *Model) X() float32 {
	return m.Position[0]
}

func (m *Model) Y() float32 {
	return m.Position[1]
}

func (m *Model) Z() float32 {
	return m.Position[2]
}

func (m *Model) Rotate(angleX, angleY, angleZ float32) {
	if m.Rotation == (mgl32.Quat{}) {
		m.Rotation = mgl32.QuatIdent()
	}
	rotationX := mgl32.QuatRotate(mgl32.DegToRad(angleX), mgl32.Vec3{1, 0, 0})
	rotationY := mgl32.QuatRotate(mgl32.DegToRad(angleY), mgl32.Vec3{0, 1, 0})
	rotationZ := mgl32.QuatRotate(mgl32.DegToRad(angleZ), mgl32.Vec3{0, 0, 1})
	m.Rotation = m.Rotation.Mul(rotationX).Mul(rotationY).Mul(rotationZ)
	m.updateModelMatrix()
}

// SetPosition sets the position of the model
func (m *Model) SetPosition(x, y, z float32) {
	m.Position = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
}

func (m *Model) SetScale(x, y, z float32) {
	m.Scale = mgl32.Vec3{x, y, z}
	m.updateModelMatrix()
}

func (m *Model) updateModelMatrix() {
	// ModelMatrix = translation * rotation * scale
	scaleMatrix := mgl32.Scale3D(m.Scale[0], m.Scale[1], m.Scale[2])
	rotationMatrix := m.Rotation.Mat4()
	translationMatrix := mgl32.Translate3D(m.Position[0], m.Position[1], m.Position[2])
	m.ModelMatrix = translationMatrix.Mul4(rotationMatrix).Mul4(scaleMatrix)
	m.IsDirty = true
}

// Refresh recalculates the bounds of a dirty model. It must not run while
// the model is being culled.
func (m *Model) Refresh() {
	if !m.IsDirty && m.boundsValid {
		return
	}
	m.CalculateLocalBounds()
	m.CalculateBoundingSphere()
	m.IsDirty = false
	m.boundsValid = true
}

// CalculateLocalBounds computes the object space box and sphere of the
// vertex data.
func (m *Model) CalculateLocalBounds() {
	numVertices := len(m.Vertices) / 3
	if numVertices == 0 {
		m.LocalMin, m.LocalMax = mgl32.Vec3{}, mgl32.Vec3{}
		m.localCenter, m.localRadius = mgl32.Vec3{}, 0
		return
	}

	min := mgl32.Vec3{m.Vertices[0], m.Vertices[1], m.Vertices[2]}
	max := min
	for i := 1; i < numVertices; i++ {
		for axis := 0; axis < 3; axis++ {
			value := m.Vertices[i*3+axis]
			if value < min[axis] {
				min[axis] = value
			}
			if value > max[axis] {
				max[axis] = value
			}
		}
	}
	m.LocalMin, m.LocalMax = min, max

	m.localCenter = min.Add(max).Mul(0.5)
	var maxDistanceSq float32
	for i := 0; i < numVertices; i++ {
		vertex := mgl32.Vec3{m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]}
		if d := vertex.Sub(m.localCenter).LenSqr(); d > maxDistanceSq {
			maxDistanceSq = d
		}
	}
	m.localRadius = float32(math.Sqrt(float64(maxDistanceSq)))
}

// CalculateBoundingSphere places the local sphere in the world. For
// instanced models the sphere encloses every instance.
func (m *Model) CalculateBoundingSphere() {
	if m.IsInstanced && len(m.InstanceModelMatrices) > 0 {
		centers := make([]mgl32.Vec3, len(m.InstanceModelMatrices))
		radii := make([]float32, len(m.InstanceModelMatrices))
		var center mgl32.Vec3
		for i, instance := range m.InstanceModelMatrices {
			world := m.ModelMatrix.Mul4(instance)
			centers[i] = world.Mul4x1(m.localCenter.Vec4(1)).Vec3()
			radii[i] = m.worldRadius(world, centers[i])
			center = center.Add(centers[i])
		}
		center = center.Mul(1.0 / float32(len(centers)))

		var radius float32
		for i, c := range centers {
			if r := c.Sub(center).Len() + radii[i]; r > radius {
				radius = r
			}
		}
		m.BoundingSphereCenter = center
		m.BoundingSphereRadius = radius
		return
	}

	m.BoundingSphereCenter = m.ModelMatrix.Mul4x1(m.localCenter.Vec4(1)).Vec3()
	m.BoundingSphereRadius = m.worldRadius(m.ModelMatrix, m.BoundingSphereCenter)
}

// Cull reports whether the model may be visible from v. Non-instanced
// models are tested with their transformed box, instanced ones with the
// sphere enclosing all instances. Stale bounds always pass.
func (m *Model) Cull(v *View) bool {
	if len(m.Vertices) < 3 || m.IsDirty || !m.boundsValid {
		return true
	}
	if m.IsInstanced && len(m.InstanceModelMatrices) > 0 {
		return v.SphereTest(BoundSphere{Center: m.BoundingSphereCenter, Radius: m.BoundingSphereRadius})
	}
	return v.MinMaxTest(m.ModelMatrix, m.LocalMin, m.LocalMax)
}

func (m *Model) SetInstanceCount(count int) {
	m.IsInstanced = count > 0
	m.InstanceCount = count
	m.InstanceModelMatrices = make([]mgl32.Mat4, count)
	for i := range m.InstanceModelMatrices {
		m.InstanceModelMatrices[i] = mgl32.Ident4()
	}
	m.IsDirty = true
}

// SetInstanceMatrix sets the full transform of one instance.
func (m *Model) SetInstanceMatrix(index int, matrix mgl32.Mat4) {
	if index >= 0 && index < len(m.InstanceModelMatrices) {
		m.InstanceModelMatrices[index] = matrix
		m.IsDirty = true
	}
}

func (m *Model) SetInstancePosition(index int, position mgl32.Vec3) {
	if index >= 0 && index < len(m.InstanceModelMatrices) {
		m.InstanceModelMatrices[index] = mgl32.Translate3D(position.X(), position.Y(), position.Z())
		m.IsDirty = true
	}
}

func CreateModel(name string, vertices []mgl32.Vec3) *Model {
	m := &Model{
		Name:     name,
		Position: mgl32.Vec3{0, 0, 0},
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1.0, 1.0, 1.0},
		Vertices: flattenVertices(vertices),
	}
	m.updateModelMatrix()
	m.Refresh()
	return m
}

// CreateBoxModel builds a model from the 8 corners of an axis aligned box.
func CreateBoxModel(name string, min, max mgl32.Vec3) *Model {
	box := NewBoundBox(min, max)
	return CreateModel(name, box[:])
}

// Helper to flatten Vec3 array
func flattenVertices(vertices []mgl32.Vec3) []float32 {
	flat := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		flat = append(flat, v.X(), v.Y(), v.Z())
	}
	return flat
}

// worldRadius bounds the geometry placed by world around center, the
// transformed local center. Both candidates overestimate for any linear
// part, sheared or not: the farthest transformed corner of the local box,
// and the local radius stretched by the Frobenius norm of the upper 3x3.
func (m *Model) worldRadius(world mgl32.Mat4, center mgl32.Vec3) float32 {
	var boxRadius float32
	for _, c := range NewBoundBox(m.LocalMin, m.LocalMax) {
		if d := world.Mul4x1(c.Vec4(1)).Vec3().Sub(center).Len(); d > boxRadius {
			boxRadius = d
		}
	}
	r := min(boxRadius, m.localRadius*frobeniusNorm3(world))
	return r + r*spherePadding
}

func frobeniusNorm3(m mgl32.Mat4) float32 {
	var sum float32
	for col := 0; col < 3; col++ {
		sum += m.Col(col).Vec3().LenSqr()
	}
	return float32(math.Sqrt(float64(sum)))
}
