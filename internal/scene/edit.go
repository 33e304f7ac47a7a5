package scene

import "github.com/Faultbox/sceneview/pkg/math"

// EditSession is a detached copy of the transform under the cursor. A
// front end mutates the copy freely and commits it with ApplyEdit; nothing
// in the graph changes until then.
type EditSession struct {
	Node      NodeID
	Kind      Kind
	Transform math.Transform

	// node pins the session to the node it was taken from; ids are reused
	// after a delete.
	node Node
}

// BeginEdit snapshots the transform the cursor edits.
func (g *Graph) BeginEdit() (EditSession, error) {
	t, err := g.Transform()
	if err != nil {
		return EditSession{}, err
	}
	n := g.CurrentNode()
	return EditSession{Node: n.ID(), Kind: n.Kind(), Transform: *t, node: n}, nil
}

// ApplyEdit writes the session's transform back to its node. The node must
// be the one the session was taken from, not a later node that reused its
// id; Geometry sessions also need a loaded mesh.
func (g *Graph) ApplyEdit(s EditSession) error {
	n := g.Node(s.Node)
	if n == nil || n != s.node || n.Kind() != s.Kind {
		return ErrStaleEditSession
	}
	switch n := n.(type) {
	case *TransformNode:
		n.Transform = s.Transform
	case *GeometryNode:
		if n.Mesh == nil {
			return ErrStaleEditSession
		}
		n.Mesh.Transform = s.Transform
	default:
		return ErrStaleEditSession
	}
	return nil
}

// Translate adds d to the transform under the cursor.
func (g *Graph) Translate(d math.Vec3) error {
	t, err := g.Transform()
	if err != nil {
		return err
	}
	t.Translate(d)
	return nil
}

// Scale adds d to the scale factors under the cursor.
func (g *Graph) Scale(d math.Vec3) error {
	t, err := g.Transform()
	if err != nil {
		return err
	}
	t.ScaleBy(d)
	return nil
}

// Rotate composes a rotation of angle radians about axis onto the transform
// under the cursor.
func (g *Graph) Rotate(angle float32, axis math.Vec3) error {
	t, err := g.Transform()
	if err != nil {
		return err
	}
	t.Rotate(angle, axis)
	return nil
}

// Reset restores the identity transform under the cursor.
func (g *Graph) Reset() error {
	t, err := g.Transform()
	if err != nil {
		return err
	}
	t.Reset()
	return nil
}
