package math

import (
	"math"
	"testing"
)

func TestNewTransformIsIdentity(t *testing.T) {
	tr := NewTransform()
	if !tr.IsIdentity() {
		t.Errorf("NewTransform() = %+v, want identity", tr)
	}
	p := Vec3{1, 2, 3}
	if got := tr.ApplyPoint(p); got != p {
		t.Errorf("identity ApplyPoint(%v) = %v", p, got)
	}
}

func TestTransformAccumulatesAdditively(t *testing.T) {
	tr := NewTransform()
	tr.Translate(Vec3{1, 0, 0})
	tr.Translate(Vec3{0, 2, 0})
	tr.ScaleBy(Vec3{1, 0, 0})
	tr.ScaleBy(Vec3{1, 0.5, 0})

	if want := (Vec3{1, 2, 0}); tr.Translation != want {
		t.Errorf("Translation = %v, want %v", tr.Translation, want)
	}
	// scale is summed, not multiplied: 1 + 1 + 1 = 3
	if want := (Vec3{3, 1.5, 1}); tr.Scaling != want {
		t.Errorf("Scaling = %v, want %v", tr.Scaling, want)
	}
}

func TestTransformApplyOrder(t *testing.T) {
	tr := NewTransform()
	tr.Translate(Vec3{1, 0, 0})
	tr.ScaleBy(Vec3{1, 0, 0}) // scale (2,1,1)
	tr.Rotate(float32(math.Pi/2), Vec3{0, 0, 1})

	// (0,0,0) + T = (1,0,0); * S = (2,0,0); R = (0,2,0)
	got := tr.ApplyPoint(Vec3{})
	if !got.ApproxEqual(Vec3{0, 2, 0}, 1e-5) {
		t.Errorf("ApplyPoint = %v, want (0, 2, 0)", got)
	}
}

func TestRotateThenInverseRestores(t *testing.T) {
	tr := NewTransform()
	tr.Rotate(0.3, Vec3{1, 0, 0})
	before := tr.Rotation

	axis := Vec3{1, 2, 2}.Normalize()
	tr.Rotate(1.1, axis)
	tr.Rotate(-1.1, axis)

	if !tr.Rotation.ApproxEqual(before, 1e-5) {
		t.Errorf("rotation after +θ/-θ = %v, want %v", tr.Rotation, before)
	}
}

func TestRotateComposesInLocalFrame(t *testing.T) {
	tr := NewTransform()
	tr.Rotate(float32(math.Pi/2), Vec3{0, 0, 1})
	tr.Rotate(float32(math.Pi/2), Vec3{1, 0, 0})

	// R = Rz * Rx: Rx first sends (0,1,0) to (0,0,1); Rz keeps it.
	got := tr.ApplyPoint(Vec3{0, 1, 0})
	if !got.ApproxEqual(Vec3{0, 0, 1}, 1e-5) {
		t.Errorf("local-frame composition: got %v, want (0, 0, 1)", got)
	}
}

func TestApplyNormalNonUniformScale(t *testing.T) {
	tr := NewTransform()
	tr.ScaleBy(Vec3{1, 0, 0}) // (2,1,1)

	// Plane x + y = 1 has normal (1,1,0); scaling x by 2 gives plane x/2 + y = 1,
	// whose normal is (0.5,1,0).
	got := tr.ApplyNormal(Vec3{1, 1, 0})
	if !got.ApproxEqual(Vec3{0.5, 1, 0}, 1e-6) {
		t.Errorf("ApplyNormal = %v, want (0.5, 1, 0)", got)
	}
}

func TestReset(t *testing.T) {
	tr := NewTransform()
	tr.Translate(Vec3{1, 2, 3})
	tr.ScaleBy(Vec3{1, 1, 1})
	tr.Rotate(1, Vec3{0, 1, 0})
	tr.Reset()
	if !tr.IsIdentity() {
		t.Errorf("after Reset = %+v, want identity", tr)
	}
}
