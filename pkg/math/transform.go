package math

// Transform is an incremental translate/scale/rotate state.
//
// Points map as R * ((p + T) * S): translation is added before the
// componentwise scale and rotation is applied last.
type Transform struct {
	Translation Vec3 `yaml:"translation"`
	Scaling     Vec3 `yaml:"scaling"`
	Rotation    Mat3 `yaml:"rotation,flow"`
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{
		Scaling:  Vec3One,
		Rotation: Identity3(),
	}
}

// Translate adds d to the translation.
func (t *Transform) Translate(d Vec3) {
	t.Translation = t.Translation.Add(d)
}

// ScaleBy adds d to the scale factors. Scaling accumulates additively.
func (t *Transform) ScaleBy(d Vec3) {
	t.Scaling = t.Scaling.Add(d)
}

// Rotate composes a rotation of angle radians about a unit axis onto the
// accumulated rotation. The existing rotation is the left factor, so each step
// is relative to the current orientation.
func (t *Transform) Rotate(angle float32, axis Vec3) {
	t.Rotation = t.Rotation.Mul(AxisAngle(axis, angle))
}

// Reset restores the identity state.
func (t *Transform) Reset() {
	*t = NewTransform()
}

// IsIdentity reports whether t is exactly the identity transform.
func (t Transform) IsIdentity() bool {
	return t.Translation == Vec3{} && t.Scaling == Vec3One && t.Rotation == Identity3()
}

// ApplyPoint maps p through the transform.
func (t Transform) ApplyPoint(p Vec3) Vec3 {
	return t.Rotation.MulVec3(p.Add(t.Translation).Mul(t.Scaling))
}

// ApplyNormal maps a surface normal through the inverse transpose of the
// linear part (R * S^-1). The result is not normalized.
func (t Transform) ApplyNormal(n Vec3) Vec3 {
	return t.Rotation.MulVec3(n.Div(t.Scaling))
}
