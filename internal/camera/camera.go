// Package camera provides the orbit camera used to frame a model.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/sceneview/pkg/math"
)

// Default settings.
const (
	DefaultFOV        = 45.0 // degrees
	DefaultNear       = 0.01
	DefaultOrbitSpeed = 0.001
	DefaultPanSpeed   = 0.001
	MinDistance       = 1.0
)

// OrbitCamera orbits a look point on a sphere.
//
// The eye sits at Look + Distance*(cos(Phi)sin(Theta), sin(Phi)sin(Theta), cos(Theta)).
// Theta = Phi = 0 puts the eye on +Z looking down -Z.
type OrbitCamera struct {
	Look     math.Vec3
	Up       math.Vec3
	Distance float32
	Theta    float32 // radians
	Phi      float32 // radians

	FOV  float32 // vertical field of view, degrees
	Near float32

	// Radians (orbit) or world units (pan) per input unit.
	OrbitSpeed float32
	PanSpeed   float32
}

// NewOrbitCamera creates a camera at the origin with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Up:         math.Vec3{Y: 1},
		FOV:        DefaultFOV,
		Near:       DefaultNear,
		OrbitSpeed: DefaultOrbitSpeed,
		PanSpeed:   DefaultPanSpeed,
	}
}

// Position returns the eye position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sinT, cosT := math32.Sincos(c.Theta)
	sinP, cosP := math32.Sincos(c.Phi)
	return c.Look.Add(math.Vec3{
		X: c.Distance * cosP * sinT,
		Y: c.Distance * sinP * sinT,
		Z: c.Distance * cosT,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Look, c.Up)
}

// Projection returns a perspective matrix whose far plane just encloses a
// model of the given extent at the current distance.
func (c *OrbitCamera) Projection(aspect, maxDelta float32) math.Mat4 {
	far := c.Near + c.Distance + maxDelta
	return math.Perspective(c.FOV*math32.Pi/180, aspect, c.Near, far)
}

// Zoom moves the eye along the view direction. Distance never drops below
// MinDistance.
func (c *OrbitCamera) Zoom(delta float32) {
	c.Distance += delta
	if c.Distance < MinDistance {
		c.Distance = MinDistance
	}
}

// Orbit rotates the eye around the look point.
func (c *OrbitCamera) Orbit(dx, dy float32) {
	c.Theta += dx * c.OrbitSpeed
	c.Phi += dy * c.OrbitSpeed
}

// Pan moves the look point along the current view right and up vectors.
func (c *OrbitCamera) Pan(dx, dy float32) {
	right, up := c.Basis()
	c.Look = c.Look.
		Add(right.Scale(dx * c.PanSpeed)).
		Add(up.Scale(dy * c.PanSpeed))
}

// Basis returns the unit right and up vectors of the current view.
func (c *OrbitCamera) Basis() (right, up math.Vec3) {
	view := c.ViewMatrix()
	r0, r1 := view.Row(0), view.Row(1)
	right = math.Vec3{X: r0[0], Y: r0[1], Z: r0[2]}.Normalize()
	up = math.Vec3{X: r1[0], Y: r1[1], Z: r1[2]}.Normalize()
	return right, up
}

// Forward returns the unit vector from the eye to the look point.
func (c *OrbitCamera) Forward() math.Vec3 {
	return c.Look.Sub(c.Position()).Normalize()
}

// LookAt sets the point the camera orbits.
func (c *OrbitCamera) LookAt(p math.Vec3) {
	c.Look = p
}

// FitToMesh centers on origin and backs off far enough to see a model whose
// largest axis span is maxDelta. The angles are left alone.
func (c *OrbitCamera) FitToMesh(origin math.Vec3, maxDelta float32) {
	c.Look = origin
	c.Distance = 0.01 + 1.5*maxDelta
}
