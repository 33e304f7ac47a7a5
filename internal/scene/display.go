package scene

import (
	"github.com/Faultbox/sceneview/internal/mesh"
	"github.com/Faultbox/sceneview/pkg/math"
)

// ResolvedFace is one fan wedge in view space.
type ResolvedFace struct {
	Positions [3]math.Vec3
	// Normals are the normalized per-vertex normals. Vertices that only
	// belong to polygon faces have no accumulated normal and carry NaN.
	Normals    [3]math.Vec3
	FaceNormal math.Vec3
	// Center is the wedge centroid, where face normal lines start.
	Center math.Vec3
}

// Batch is the drawable output for one Object with loaded geometry.
type Batch struct {
	Node              NodeID
	Name              string
	Mode              RenderMode
	ShowFaceNormals   bool
	ShowVertexNormals bool
	Faces             []ResolvedFace
}

// Renderer draws batches produced by Display.
type Renderer interface {
	DrawBatch(b Batch)
}

// AxesDrawer is implemented by renderers that draw a gizmo for each
// Transform node: origin and the tips of its unit axes in view space.
type AxesDrawer interface {
	DrawAxes(origin, x, y, z math.Vec3)
}

// frame is a stack of transforms from outermost to innermost.
type frame []math.Transform

func (f frame) point(p math.Vec3) math.Vec3 {
	for i := len(f) - 1; i >= 0; i-- {
		p = f[i].ApplyPoint(p)
	}
	return p
}

func (f frame) normal(n math.Vec3) math.Vec3 {
	for i := len(f) - 1; i >= 0; i-- {
		n = f[i].ApplyNormal(n)
	}
	return n
}

// ViewFrame returns the transforms of the camera anchor's ancestors from the
// root down. It is empty when the anchor has been deleted.
func (g *Graph) ViewFrame() []math.Transform {
	if g.camera == NoNode {
		return nil
	}
	var f []math.Transform
	for id := g.nodes[g.camera].Parent(); id != NoNode; id = g.nodes[id].Parent() {
		if t, ok := g.nodes[id].(*TransformNode); ok {
			f = append([]math.Transform{t.Transform}, f...)
		}
	}
	return f
}

// Display walks the tree and hands every Object with loaded geometry to r.
// The subtree holding the camera anchor is skipped. Display does not modify
// the graph.
func (g *Graph) Display(r Renderer) {
	axes, _ := r.(AxesDrawer)
	f := frame(g.ViewFrame())

	root := g.nodes[g.root]
	if obj, ok := root.(*ObjectNode); ok {
		g.emitObject(r, obj, f)
	}
	list, _ := children(root)
	for _, c := range *list {
		if g.contains(c, g.camera) {
			continue
		}
		g.display(r, axes, c, f)
	}
}

func (g *Graph) display(r Renderer, axes AxesDrawer, id NodeID, f frame) {
	switch n := g.nodes[id].(type) {
	case *TransformNode:
		f = append(f[:len(f):len(f)], n.Transform)
		if axes != nil {
			o := f.point(math.Vec3{})
			axes.DrawAxes(o,
				f.point(math.Vec3{X: 1}),
				f.point(math.Vec3{Y: 1}),
				f.point(math.Vec3{Z: 1}))
		}
		for _, c := range n.children {
			g.display(r, axes, c, f)
		}
	case *ObjectNode:
		g.emitObject(r, n, f)
		for _, c := range n.children {
			g.display(r, axes, c, f)
		}
	case *GeometryNode, *AttributeNode, *LightNode, *CameraNode:
		// drawn through their owning Object, or not drawn at all
	}
}

func (g *Graph) emitObject(r Renderer, obj *ObjectNode, f frame) {
	if obj.geometry == NoNode {
		return
	}
	geom := g.nodes[obj.geometry].(*GeometryNode)
	if geom.Mesh == nil {
		return
	}
	b := Batch{Node: obj.id, Name: obj.name, Mode: ModeLit}
	if obj.attribute != NoNode {
		attr := g.nodes[obj.attribute].(*AttributeNode)
		b.Mode = attr.Mode
		b.ShowFaceNormals = attr.ShowFaceNormals
		b.ShowVertexNormals = attr.ShowVertexNormals
	}
	b.Faces = ResolveMesh(geom.Mesh, f)
	r.DrawBatch(b)
}

// ResolveMesh maps every wedge of m into the frame given by stack, outermost
// first. The mesh transform is applied before the stack.
func ResolveMesh(m *mesh.Mesh, stack []math.Transform) []ResolvedFace {
	f := frame(stack)
	faces := make([]ResolvedFace, 0, len(m.Faces))
	m.Triangles(func(fi, w int, tri [3]int) {
		var rf ResolvedFace
		for k, idx := range tri {
			rf.Positions[k] = f.point(m.WorldPosition(idx))
			n := m.Transform.ApplyNormal(m.Vertices[idx].NormalSum)
			rf.Normals[k] = f.normal(n).Normalize()
		}
		rf.FaceNormal = f.normal(m.Transform.ApplyNormal(m.Faces[fi].Normals[w])).Normalize()
		rf.Center = rf.Positions[0].Add(rf.Positions[1]).Add(rf.Positions[2]).Scale(1.0 / 3.0)
		faces = append(faces, rf)
	})
	return faces
}
