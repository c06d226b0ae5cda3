package renderer

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewDefaultCamera(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	if cam == nil {
		t.Fatal("NewDefaultCamera returned nil")
	}

	if cam.Position == (mgl32.Vec3{0, 0, 0}) {
		t.Error("Camera position should not be at origin")
	}

	if cam.Near <= 0 || cam.Far <= cam.Near {
		t.Errorf("Expected 0 < near < far, got near=%f far=%f", cam.Near, cam.Far)
	}

	if cam.Convention != ClipNegOneToOne {
		t.Errorf("Expected OpenGL convention, got %v", cam.Convention)
	}
}

func TestCameraGetViewMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 5}
	cam.Front = mgl32.Vec3{0, 0, -1}
	cam.Up = mgl32.Vec3{0, 1, 0}

	view := cam.GetViewMatrix()

	if view.At(3, 3) != 1.0 {
		t.Error("View matrix should be valid (w component = 1)")
	}
}

func TestCameraGetProjectionMatrix(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	proj := cam.GetProjectionMatrix()

	if proj.At(3, 3) != 0.0 {
		t.Error("Perspective projection should have w=0 at (3,3)")
	}

	cam.SetOrthographic(5)
	if cam.GetProjectionMatrix().At(3, 3) != 1.0 {
		t.Error("Orthographic projection should have w=1 at (3,3)")
	}
}

func TestCameraGetViewProjection(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	vp := cam.GetViewProjection()

	zero := mgl32.Mat4{}
	if vp == zero {
		t.Error("ViewProjection should not be zero matrix")
	}

	if MatFromLinmath(cam.ViewProjectionLinmath()) != vp {
		t.Error("Linmath view projection should match the mgl32 one")
	}
}

func TestCameraUpdateVectors(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Yaw = -90
	cam.Pitch = 0

	cam.updateCameraVectors()

	frontLen := cam.Front.Len()
	if math.Abs(float64(frontLen)-1.0) > 0.01 {
		t.Errorf("Front vector should be normalized, length=%f", frontLen)
	}

	if !cam.Right.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-5) {
		t.Errorf("Expected right (1,0,0), got %v", cam.Right)
	}

	if !cam.Up.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Errorf("Expected up (0,1,0), got %v", cam.Up)
	}
}

func TestCameraLookAt(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{0, 0, 0}

	cam.LookAt(mgl32.Vec3{10, 10, 0})

	want := mgl32.Vec3{1, 1, 0}.Normalize()
	if !cam.Front.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("Expected front %v, got %v", want, cam.Front)
	}
}

func TestCameraLookAtOwnPosition(t *testing.T) {
	cam := NewDefaultCamera(800, 600)
	cam.Position = mgl32.Vec3{3, 4, 5}
	front, yaw, pitch := cam.Front, cam.Yaw, cam.Pitch

	cam.LookAt(cam.Position)

	if cam.Front != front || cam.Yaw != yaw || cam.Pitch != pitch {
		t.Errorf("Expected orientation to be kept, got front %v yaw %f pitch %f", cam.Front, cam.Yaw, cam.Pitch)
	}

	view, err := cam.NewView()
	if err != nil {
		t.Fatalf("NewView failed: %v", err)
	}
	if !view.SphereTest(BoundSphere{Center: cam.Position.Add(cam.Front.Mul(10)), Radius: 1}) {
		t.Errorf("Expected a point ahead of the camera to be visible")
	}
}

func TestCameraRotateClampsPitch(t *testing.T) {
	cam := NewDefaultCamera(800, 600)

	cam.Rotate(0, 200)

	if cam.Pitch != 89 {
		t.Errorf("Expected pitch clamped to 89, got %f", cam.Pitch)
	}
}

func TestCameraView(t *testing.T) {
	for _, conv := range []ClipConvention{ClipNegOneToOne, ClipZeroToOne} {
		cam := NewDefaultCamera(600, 800)
		cam.SetFar(100)
		cam.SetConvention(conv)

		view, err := cam.NewView()
		if err != nil {
			t.Fatalf("%v: NewView failed: %v", conv, err)
		}

		if view.Convention() != conv {
			t.Errorf("%v: view has convention %v", conv, view.Convention())
		}

		if !view.IsPerspective() {
			t.Errorf("%v: camera view should be perspective", conv)
		}

		if d := view.NearDistance(); math.Abs(float64(d+cam.Near)) > 1e-4 {
			t.Errorf("%v: expected near distance %f, got %f", conv, -cam.Near, d)
		}

		if d := view.FarDistance(); math.Abs(float64(d+cam.Far)) > 0.1 {
			t.Errorf("%v: expected far distance %f, got %f", conv, -cam.Far, d)
		}

		ahead := cam.Position.Add(cam.Front.Mul(50))
		if !view.SphereTest(BoundSphere{Center: ahead, Radius: 1}) {
			t.Errorf("%v: sphere in front of the camera should be visible", conv)
		}

		behind := cam.Position.Sub(cam.Front.Mul(50))
		if view.SphereTest(BoundSphere{Center: behind, Radius: 1}) {
			t.Errorf("%v: sphere behind the camera should be culled", conv)
		}

		cam.Rotate(180, 0)
		if err := cam.UpdateView(view); err != nil {
			t.Fatalf("%v: UpdateView failed: %v", conv, err)
		}
		if !view.SphereTest(BoundSphere{Center: behind, Radius: 1}) {
			t.Errorf("%v: sphere should be visible after turning around", conv)
		}
	}
}
