package camera

import (
	gomath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/sceneview/pkg/math"
)

func TestPositionOnAxes(t *testing.T) {
	tests := []struct {
		name  string
		theta float32
		phi   float32
		want  math.Vec3
	}{
		{"front", 0, 0, math.Vec3{Z: 5}},
		{"right", gomath.Pi / 2, 0, math.Vec3{X: 5}},
		{"above", gomath.Pi / 2, gomath.Pi / 2, math.Vec3{Y: 5}},
		{"behind", gomath.Pi, 0, math.Vec3{Z: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewOrbitCamera()
			c.Distance = 5
			c.Theta = tt.theta
			c.Phi = tt.phi
			if got := c.Position(); !got.ApproxEqual(tt.want, 1e-5) {
				t.Errorf("Position() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPositionFollowsLook(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 2
	c.LookAt(math.Vec3{X: 1, Y: 2, Z: 3})
	if got := c.Position(); got != (math.Vec3{X: 1, Y: 2, Z: 5}) {
		t.Errorf("Position() = %v", got)
	}
}

func TestZoomClamps(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 3
	c.Zoom(-1.5)
	if c.Distance != 1.5 {
		t.Errorf("Distance = %v, want 1.5", c.Distance)
	}
	c.Zoom(-10)
	if c.Distance != MinDistance {
		t.Errorf("Distance = %v, want clamp at %v", c.Distance, MinDistance)
	}
}

func TestOrbitScales(t *testing.T) {
	c := NewOrbitCamera()
	c.Orbit(100, -200)
	if gomath.Abs(float64(c.Theta)-0.1) > 1e-6 || gomath.Abs(float64(c.Phi)+0.2) > 1e-6 {
		t.Errorf("Theta, Phi = %v, %v", c.Theta, c.Phi)
	}
}

func TestPanMovesInViewPlane(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 4
	c.Pan(1000, 500)
	// eye on +Z: right is +X, up is +Y
	want := math.Vec3{X: 1, Y: 0.5}
	if !c.Look.ApproxEqual(want, 1e-5) {
		t.Errorf("Look = %v, want %v", c.Look, want)
	}
}

func TestViewMatrixMatchesMathGL(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 3
	c.Theta = 0.4
	c.Phi = 0.3
	c.LookAt(math.Vec3{X: 1, Y: -1, Z: 0.5})

	eye := c.Position()
	want := mgl32.LookAtV(
		mgl32.Vec3{eye.X, eye.Y, eye.Z},
		mgl32.Vec3{c.Look.X, c.Look.Y, c.Look.Z},
		mgl32.Vec3{0, 1, 0})
	got := c.ViewMatrix()
	for i := range got {
		if d := got[i] - want[i]; d > 1e-4 || d < -1e-4 {
			t.Fatalf("view[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFitToMeshAndProjection(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToMesh(math.Vec3{X: 1}, 2)
	if c.Look != (math.Vec3{X: 1}) {
		t.Errorf("Look = %v", c.Look)
	}
	if gomath.Abs(float64(c.Distance-3.01)) > 1e-6 {
		t.Errorf("Distance = %v, want 3.01", c.Distance)
	}

	far := c.Near + c.Distance + 2
	want := mgl32.Perspective(mgl32.DegToRad(DefaultFOV), 1.5, c.Near, far)
	got := c.Projection(1.5, 2)
	for i := range got {
		if d := got[i] - want[i]; d > 1e-3 || d < -1e-3 {
			t.Fatalf("proj[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestForward(t *testing.T) {
	c := NewOrbitCamera()
	c.Distance = 10
	if got := c.Forward(); !got.ApproxEqual(math.Vec3{Z: -1}, 1e-6) {
		t.Errorf("Forward() = %v", got)
	}
}
