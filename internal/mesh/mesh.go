// Package mesh provides an indexed polygon surface with derived normals,
// a running bounding box and its own incremental transform.
package mesh

import (
	"errors"
	"fmt"

	"github.com/jinzhu/copier"

	"github.com/Faultbox/sceneview/pkg/math"
)

// Mesh errors.
var (
	ErrTooFewIndices   = errors.New("face needs at least 3 vertex indices")
	ErrIndexOutOfRange = errors.New("face vertex index out of range")
)

// Vertex is a mesh vertex.
type Vertex struct {
	Position math.Vec3
	// NormalSum is the unnormalized sum of the normals of every triangle
	// incident on this vertex. It is normalized only on read.
	NormalSum math.Vec3
}

// Face is an ordered polygon of vertex indices.
type Face struct {
	Indices []int
	// Normals holds one normal per fan wedge: a single normalized normal for a
	// triangle, or len(Indices)-2 unnormalized wedge normals for a polygon.
	Normals []math.Vec3
}

// IsTriangle reports whether the face has exactly three vertices.
func (f Face) IsTriangle() bool {
	return len(f.Indices) == 3
}

// Wedges returns the number of fan triangles in the face.
func (f Face) Wedges() int {
	return len(f.Indices) - 2
}

// Bounds holds the axis-aligned bounding box of the mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Mesh is a polygon surface. Vertices and faces are append-only.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Faces     []Face
	Bounds    Bounds
	Transform math.Transform
}

// New creates an empty mesh with an identity transform.
func New(name string) *Mesh {
	return &Mesh{
		Name:      name,
		Transform: math.NewTransform(),
	}
}

// AddVertex appends a vertex with a zero normal accumulator and grows the
// bounding box. Returns the new vertex index.
func (m *Mesh) AddVertex(p math.Vec3) int {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{Min: p, Max: p}
	} else {
		updateBounds(&m.Bounds, p)
	}
	m.Vertices = append(m.Vertices, Vertex{Position: p})
	return len(m.Vertices) - 1
}

// AddFace appends a face over existing vertices.
//
// A triangle gets one normalized normal, which is also added to the
// accumulator of each of its three vertices. A polygon is fanned from its
// first vertex; each wedge stores its own unnormalized normal and vertex
// accumulators are left untouched.
func (m *Mesh) AddFace(indices ...int) error {
	if len(indices) < 3 {
		return fmt.Errorf("%w: got %d", ErrTooFewIndices, len(indices))
	}
	for _, idx := range indices {
		if idx < 0 || idx >= len(m.Vertices) {
			return fmt.Errorf("%w: %d (have %d vertices)", ErrIndexOutOfRange, idx, len(m.Vertices))
		}
	}

	face := Face{Indices: append([]int(nil), indices...)}
	pivot := m.Vertices[indices[0]].Position

	if len(indices) == 3 {
		a := m.Vertices[indices[1]].Position.Sub(pivot)
		b := m.Vertices[indices[2]].Position.Sub(pivot)
		n := a.Cross(b).Normalize()
		face.Normals = []math.Vec3{n}
		for _, idx := range indices {
			v := &m.Vertices[idx]
			v.NormalSum = v.NormalSum.Add(n)
		}
	} else {
		face.Normals = make([]math.Vec3, 0, len(indices)-2)
		for k := 2; k < len(indices); k++ {
			prev := m.Vertices[indices[k-1]].Position.Sub(pivot)
			curr := m.Vertices[indices[k]].Position.Sub(pivot)
			face.Normals = append(face.Normals, prev.Cross(curr))
		}
	}

	m.Faces = append(m.Faces, face)
	return nil
}

// Origin returns the center of the bounding box.
func (m *Mesh) Origin() math.Vec3 {
	if len(m.Vertices) == 0 {
		return math.Vec3{}
	}
	return math.Vec3{
		X: (m.Bounds.Min.X + m.Bounds.Max.X) / 2,
		Y: (m.Bounds.Min.Y + m.Bounds.Max.Y) / 2,
		Z: (m.Bounds.Min.Z + m.Bounds.Max.Z) / 2,
	}
}

// MaxDelta returns the largest axis span of the bounding box.
func (m *Mesh) MaxDelta() float32 {
	if len(m.Vertices) == 0 {
		return 0
	}
	d := m.Bounds.Max.Sub(m.Bounds.Min)
	maxSpan := d.X
	if d.Y > maxSpan {
		maxSpan = d.Y
	}
	if d.Z > maxSpan {
		maxSpan = d.Z
	}
	return maxSpan
}

// Translate adds d to the mesh translation.
func (m *Mesh) Translate(d math.Vec3) {
	m.Transform.Translate(d)
}

// Scale adds d to the mesh scale factors.
func (m *Mesh) Scale(d math.Vec3) {
	m.Transform.ScaleBy(d)
}

// Rotate composes a rotation of angle radians about a unit axis.
func (m *Mesh) Rotate(angle float32, axis math.Vec3) {
	m.Transform.Rotate(angle, axis)
}

// Identity resets the mesh transform.
func (m *Mesh) Identity() {
	m.Transform.Reset()
}

// WorldPosition returns vertex i with the mesh transform applied.
func (m *Mesh) WorldPosition(i int) math.Vec3 {
	return m.Transform.ApplyPoint(m.Vertices[i].Position)
}

// VertexNormal returns the normalized accumulator of vertex i.
func (m *Mesh) VertexNormal(i int) math.Vec3 {
	return m.Vertices[i].NormalSum.Normalize()
}

// FaceNormal returns the normalized normal of wedge w of face f.
func (m *Mesh) FaceNormal(f, w int) math.Vec3 {
	return m.Faces[f].Normals[w].Normalize()
}

// FaceCenter returns the centroid of the first wedge of face f in model space.
func (m *Mesh) FaceCenter(f int) math.Vec3 {
	ids := m.Faces[f].Indices
	var c math.Vec3
	for _, idx := range ids[:3] {
		c = c.Add(m.Vertices[idx].Position)
	}
	return c.Scale(1.0 / 3.0)
}

// Triangles calls fn for every fan wedge of every face, in insertion order.
func (m *Mesh) Triangles(fn func(face, wedge int, tri [3]int)) {
	for fi, f := range m.Faces {
		for k := 2; k < len(f.Indices); k++ {
			fn(fi, k-2, [3]int{f.Indices[0], f.Indices[k-1], f.Indices[k]})
		}
	}
}

// Clone returns a deep copy that shares no storage with m.
func (m *Mesh) Clone() (*Mesh, error) {
	dup := &Mesh{}
	if err := copier.CopyWithOption(dup, m, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("cloning mesh %q: %w", m.Name, err)
	}
	return dup, nil
}

// Stats summarizes a mesh.
type Stats struct {
	Vertices  int
	Faces     int
	Triangles int
	Bounds    Bounds
	Origin    math.Vec3
	MaxDelta  float32
}

// Stats returns counts and extents of the mesh.
func (m *Mesh) Stats() Stats {
	s := Stats{
		Vertices: len(m.Vertices),
		Faces:    len(m.Faces),
		Bounds:   m.Bounds,
		Origin:   m.Origin(),
		MaxDelta: m.MaxDelta(),
	}
	for _, f := range m.Faces {
		s.Triangles += f.Wedges()
	}
	return s
}

// updateBounds grows b to contain p. Min and max are tested independently.
func updateBounds(b *Bounds, p math.Vec3) {
	if p.X < b.Min.X {
		b.Min.X = p.X
	}
	if p.Y < b.Min.Y {
		b.Min.Y = p.Y
	}
	if p.Z < b.Min.Z {
		b.Min.Z = p.Z
	}
	if p.X > b.Max.X {
		b.Max.X = p.X
	}
	if p.Y > b.Max.Y {
		b.Max.Y = p.Y
	}
	if p.Z > b.Max.Z {
		b.Max.Z = p.Z
	}
}
