// camera.go
package renderer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/linmath"
)

type Camera struct {
	// HOT DATA - Read every frame to build the view
	Position   mgl32.Vec3 // Camera position in world space
	Front      mgl32.Vec3 // Forward direction vector
	Up         mgl32.Vec3 // Up direction vector
	Right      mgl32.Vec3 // Right direction vector
	Projection mgl32.Mat4 // Projection matrix
	Pitch      float32    // Pitch angle (vertical rotation)
	Yaw        float32    // Yaw angle (horizontal rotation)

	// COLD DATA - Configuration
	WorldUp      mgl32.Vec3 // World up vector (usually (0,1,0))
	Fov          float32    // Field of view in degrees
	Near         float32    // Near clipping plane
	Far          float32    // Far clipping plane
	AspectRatio  float32    // Width / height
	Orthographic bool       // Use an orthographic projection
	OrthoHeight  float32    // Half height of the orthographic volume
	Convention   ClipConvention

	// Identification
	Name     string
	IsActive bool
}

func NewDefaultCamera(height int32, width int32) *Camera {
	camera := Camera{
		Position:    mgl32.Vec3{1, 0, 100},
		Front:       mgl32.Vec3{0, 0, -1},
		Up:          mgl32.Vec3{0, 1, 0},
		WorldUp:     mgl32.Vec3{0, 1, 0},
		Pitch:       0.0,
		Yaw:         -90.0,
		Fov:         45.0,
		Near:        0.1,
		Far:         10000.0,
		AspectRatio: float32(width) / float32(height),
		OrthoHeight: 10,
	}
	camera.updateCameraVectors()
	camera.UpdateProjection()
	return &camera
}

// depthZeroToOne remaps clip depth from [-w,w] to [0,w].
var depthZeroToOne = mgl32.Mat4{
	1, 0, 0, 0,
	0, 1, 0, 0,
	0, 0, 0.5, 0,
	0, 0, 0.5, 1,
}

func (c *Camera) UpdateProjection() {
	if c.Orthographic {
		halfW := c.OrthoHeight * c.AspectRatio
		c.Projection = mgl32.Ortho(-halfW, halfW, -c.OrthoHeight, c.OrthoHeight, c.Near, c.Far)
	} else {
		c.Projection = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.AspectRatio, c.Near, c.Far)
	}
	if c.Convention == ClipZeroToOne {
		c.Projection = depthZeroToOne.Mul4(c.Projection)
	}
}

func (c *Camera) SetConvention(conv ClipConvention) {
	c.Convention = conv
	c.UpdateProjection()
}

// Setter methods that automatically update projection
func (c *Camera) SetNear(near float32) {
	c.Near = near
	c.UpdateProjection()
}

func (c *Camera) SetFar(far float32) {
	c.Far = far
	c.UpdateProjection()
}

func (c *Camera) SetFov(fov float32) {
	c.Fov = fov
	c.UpdateProjection()
}

func (c *Camera) SetAspectRatio(aspectRatio float32) {
	c.AspectRatio = aspectRatio
	c.UpdateProjection()
}

func (c *Camera) SetOrthographic(halfHeight float32) {
	c.Orthographic = true
	c.OrthoHeight = halfHeight
	c.UpdateProjection()
}

func (c *Camera) SetPerspective() {
	c.Orthographic = false
	c.UpdateProjection()
}

func (c *Camera) GetViewProjection() mgl32.Mat4 {
	return c.Projection.Mul4(c.GetViewMatrix())
}

func (c *Camera) GetViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Position.Add(c.Front), c.Up)
}

func (c *Camera) GetProjectionMatrix() mgl32.Mat4 {
	return c.Projection
}

// ViewProjectionLinmath hands the view projection to Vulkan-side code.
func (c *Camera) ViewProjectionLinmath() linmath.Mat4x4 {
	return MatToLinmath(c.GetViewProjection())
}

// NewView creates a view that draws and culls with this camera.
func (c *Camera) NewView() (*View, error) {
	return NewViewWithConvention(c.Convention, c.GetViewMatrix(), c.Projection, nil)
}

// UpdateView refreshes a view created by NewView after the camera moved.
func (c *Camera) UpdateView(v *View) error {
	return v.Update(c.GetViewMatrix(), c.Projection, nil)
}

func (c *Camera) LookAt(target mgl32.Vec3) {
	offset := target.Sub(c.Position)
	if offset.Len() == 0 {
		return
	}
	direction := offset.Normalize()
	c.Yaw = mgl32.RadToDeg(float32(math.Atan2(float64(direction.Z()), float64(direction.X()))))
	c.Pitch = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(direction.Y(), -1, 1)))))
	c.updateCameraVectors()
}

// Rotate adds yaw and pitch in degrees, keeping pitch away from the poles.
func (c *Camera) Rotate(yawOffset, pitchOffset float32) {
	c.Yaw += yawOffset
	c.Pitch = mgl32.Clamp(c.Pitch+pitchOffset, -89.0, 89.0)
	c.updateCameraVectors()
}

func (c *Camera) updateCameraVectors() {
	yawRad := mgl32.DegToRad(c.Yaw)
	pitchRad := mgl32.DegToRad(c.Pitch)

	front := mgl32.Vec3{
		float32(math.Cos(float64(yawRad)) * math.Cos(float64(pitchRad))),
		float32(math.Sin(float64(pitchRad))),
		float32(math.Sin(float64(yawRad)) * math.Cos(float64(pitchRad))),
	}

	c.Front = front.Normalize()
	c.Right = c.Front.Cross(c.WorldUp).Normalize()
	c.Up = c.Right.Cross(c.Front).Normalize()
}
