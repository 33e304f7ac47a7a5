package scene

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/pkg/formats"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Structural edit errors.
var (
	ErrNotParentNode    = errors.New("cannot add or delete children on node types other than Object or Transform")
	ErrNotObjectNode    = errors.New("geometry and attribute nodes can only belong to an Object node")
	ErrGeometryExists   = errors.New("cannot add multiple geometry nodes to one object")
	ErrAttributeExists  = errors.New("cannot add multiple attribute nodes to one object")
	ErrUnsupportedKind  = errors.New("node kind cannot be added as a child")
	ErrNoTransform      = errors.New("current node has no transform")
	ErrNoGeometry       = errors.New("current node has no geometry")
	ErrStaleEditSession = errors.New("edit session no longer matches its node")
)

// Graph owns every node in an arena and tracks one current-node cursor.
// It is not safe for concurrent use.
type Graph struct {
	nodes   []Node // nil entries are free slots
	free    []NodeID
	root    NodeID
	current NodeID
	camera  NodeID
	serial  [len(kindNames)]int
	log     *zap.Logger
}

// NewEmpty returns a graph holding only the root Object node.
func NewEmpty() *Graph {
	g := &Graph{camera: NoNode, log: logger.Named("scene")}
	g.root = g.insert(newNode(KindObject, "Root"), NoNode)
	g.current = g.root
	return g
}

// New returns the default scene: the root Object with a "Cam Transform"
// holding the camera anchor one unit back along Z, and an empty "Transform".
func New() *Graph {
	g := NewEmpty()

	camXform := g.insert(newNode(KindTransform, "Cam Transform"), g.root)
	g.attach(g.root, camXform)
	g.nodes[camXform].(*TransformNode).Transform.Translation.Z = -1

	g.camera = g.insert(newNode(KindCamera, "Camera"), camXform)
	g.attach(camXform, g.camera)

	xform := g.insert(newNode(KindTransform, "Transform"), g.root)
	g.attach(g.root, xform)
	return g
}

// Root returns the root handle.
func (g *Graph) Root() NodeID { return g.root }

// Camera returns the camera anchor, or NoNode when it has been deleted.
func (g *Graph) Camera() NodeID { return g.camera }

// Current returns the cursor.
func (g *Graph) Current() NodeID { return g.current }

// CurrentNode returns the node under the cursor.
func (g *Graph) CurrentNode() Node { return g.nodes[g.current] }

// Node returns the node for id, or nil if id is not live.
func (g *Graph) Node(id NodeID) Node {
	if id < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id]
}

// Children returns a copy of the generic child list of id.
func (g *Graph) Children(id NodeID) []NodeID {
	n := g.Node(id)
	if n == nil {
		return nil
	}
	list, ok := children(n)
	if !ok {
		return nil
	}
	return append([]NodeID(nil), (*list)...)
}

// Len returns the number of live nodes.
func (g *Graph) Len() int {
	return len(g.nodes) - len(g.free)
}

// Path returns the names from the root down to the cursor.
func (g *Graph) Path() []string {
	var names []string
	for id := g.current; id != NoNode; id = g.nodes[id].Parent() {
		names = append([]string{g.nodes[id].Name()}, names...)
	}
	return names
}

// SelectChild moves the cursor to child idx of the current node. It does
// nothing when the current node has no child list or idx is out of range.
func (g *Graph) SelectChild(idx int) NodeID {
	list, ok := children(g.nodes[g.current])
	if !ok || idx < 0 || idx >= len(*list) {
		return g.current
	}
	g.current = (*list)[idx]
	return g.current
}

// SelectParent moves the cursor to its parent. It does nothing at the root.
func (g *Graph) SelectParent() NodeID {
	if p := g.nodes[g.current].Parent(); p != NoNode {
		g.current = p
	}
	return g.current
}

// SelectSlot moves the cursor into the Geometry or Attribute slot of the
// current Object. It reports whether the cursor moved.
func (g *Graph) SelectSlot(kind Kind) bool {
	obj, ok := g.nodes[g.current].(*ObjectNode)
	if !ok {
		return false
	}
	var id NodeID
	switch kind {
	case KindGeometry:
		id = obj.geometry
	case KindAttribute:
		id = obj.attribute
	default:
		return false
	}
	if id == NoNode {
		return false
	}
	g.current = id
	return true
}

// Select moves the cursor to any live node.
func (g *Graph) Select(id NodeID) bool {
	if g.Node(id) == nil {
		return false
	}
	g.current = id
	return true
}

// AddChild adds a new node of kind under the current node with a generated
// name. See AddNamedChild.
func (g *Graph) AddChild(kind Kind) (NodeID, error) {
	return g.AddNamedChild(kind, "")
}

// AddNamedChild adds a new node of kind under the current node.
//
// Transform, Object and Light nodes are appended to the child list of a
// current Transform or Object. Geometry and Attribute nodes fill the
// matching empty slot of a current Object. Nothing is mutated on error.
func (g *Graph) AddNamedChild(kind Kind, name string) (NodeID, error) {
	cur := g.nodes[g.current]
	list, ok := children(cur)
	if !ok {
		return g.reject(kind, ErrNotParentNode)
	}

	switch kind {
	case KindTransform, KindObject, KindLight:
		id := g.insert(newNode(kind, g.nameFor(kind, name)), g.current)
		*list = append(*list, id)
		g.logAdd(id)
		return id, nil
	case KindGeometry, KindAttribute:
		obj, ok := cur.(*ObjectNode)
		if !ok {
			return g.reject(kind, ErrNotObjectNode)
		}
		slot := &obj.geometry
		if kind == KindAttribute {
			slot = &obj.attribute
		}
		if *slot != NoNode {
			if kind == KindGeometry {
				return g.reject(kind, ErrGeometryExists)
			}
			return g.reject(kind, ErrAttributeExists)
		}
		id := g.insert(newNode(kind, g.nameFor(kind, name)), g.current)
		*slot = id
		g.logAdd(id)
		return id, nil
	case KindCamera:
		return g.reject(kind, ErrUnsupportedKind)
	default:
		return g.reject(kind, fmt.Errorf("%w: %v", ErrUnsupportedKind, kind))
	}
}

// DeleteChild removes child idx of the current node and destroys its
// subtree. Out-of-range indices are ignored. It reports whether a node was
// removed.
func (g *Graph) DeleteChild(idx int) (bool, error) {
	list, ok := children(g.nodes[g.current])
	if !ok {
		return false, ErrNotParentNode
	}
	if idx < 0 || idx >= len(*list) {
		return false, nil
	}
	id := (*list)[idx]
	*list = append((*list)[:idx], (*list)[idx+1:]...)
	g.destroy(id)
	return true, nil
}

// DeleteGeometry empties the geometry slot of the current Object.
// It reports whether the slot held a node.
func (g *Graph) DeleteGeometry() (bool, error) {
	return g.deleteSlot(KindGeometry)
}

// DeleteAttribute empties the attribute slot of the current Object.
// It reports whether the slot held a node.
func (g *Graph) DeleteAttribute() (bool, error) {
	return g.deleteSlot(KindAttribute)
}

func (g *Graph) deleteSlot(kind Kind) (bool, error) {
	obj, ok := g.nodes[g.current].(*ObjectNode)
	if !ok {
		return false, ErrNotObjectNode
	}
	slot := &obj.geometry
	if kind == KindAttribute {
		slot = &obj.attribute
	}
	if *slot == NoNode {
		return false, nil
	}
	id := *slot
	*slot = NoNode
	g.destroy(id)
	return true, nil
}

// Transform returns the transform the cursor edits: a Transform node's own
// transform, or the mesh transform of a loaded Geometry node.
func (g *Graph) Transform() (*math.Transform, error) {
	switch n := g.nodes[g.current].(type) {
	case *TransformNode:
		return &n.Transform, nil
	case *GeometryNode:
		if n.Mesh == nil {
			return nil, ErrNoGeometry
		}
		return &n.Mesh.Transform, nil
	case *ObjectNode, *AttributeNode, *LightNode, *CameraNode:
		return nil, ErrNoTransform
	default:
		return nil, ErrNoTransform
	}
}

// Geometry returns the Geometry node the cursor refers to: the current node
// itself, or the geometry slot of a current Object.
func (g *Graph) Geometry() (*GeometryNode, error) {
	switch n := g.nodes[g.current].(type) {
	case *GeometryNode:
		return n, nil
	case *ObjectNode:
		if n.geometry == NoNode {
			return nil, ErrNoGeometry
		}
		return g.nodes[n.geometry].(*GeometryNode), nil
	default:
		return nil, ErrNoGeometry
	}
}

// Attribute returns the Attribute node the cursor refers to: the current
// node itself, or the attribute slot of a current Object.
func (g *Graph) Attribute() (*AttributeNode, bool) {
	switch n := g.nodes[g.current].(type) {
	case *AttributeNode:
		return n, true
	case *ObjectNode:
		if n.attribute == NoNode {
			return nil, false
		}
		return g.nodes[n.attribute].(*AttributeNode), true
	default:
		return nil, false
	}
}

// LoadModel loads a mesh file into the geometry under the cursor. A current
// Object without geometry gets a new Geometry slot once the file has parsed,
// so a failed load leaves the graph unchanged.
func (g *Graph) LoadModel(path string) (formats.OBJStats, error) {
	if obj, ok := g.nodes[g.current].(*ObjectNode); ok && obj.geometry == NoNode {
		m, stats, err := loadMesh(path)
		if err != nil {
			return stats, err
		}
		id, err := g.AddChild(KindGeometry)
		if err != nil {
			return stats, err
		}
		g.nodes[id].(*GeometryNode).setLoaded(m, path, stats)
		return stats, nil
	}
	geom, err := g.Geometry()
	if err != nil {
		return formats.OBJStats{}, err
	}
	return geom.LoadModel(path)
}

// Walk visits every node depth-first, slots before children. depth is 0 for
// the root. Returning false from fn skips that node's subtree.
func (g *Graph) Walk(fn func(n Node, depth int) bool) {
	g.walk(g.root, 0, fn)
}

func (g *Graph) walk(id NodeID, depth int, fn func(n Node, depth int) bool) {
	n := g.nodes[id]
	if !fn(n, depth) {
		return
	}
	if obj, ok := n.(*ObjectNode); ok {
		if obj.geometry != NoNode {
			g.walk(obj.geometry, depth+1, fn)
		}
		if obj.attribute != NoNode {
			g.walk(obj.attribute, depth+1, fn)
		}
	}
	if list, ok := children(n); ok {
		for _, c := range *list {
			g.walk(c, depth+1, fn)
		}
	}
}

// FindByName returns the first node named name in walk order.
func (g *Graph) FindByName(name string) (NodeID, bool) {
	found := NoNode
	g.Walk(func(n Node, _ int) bool {
		if found != NoNode {
			return false
		}
		if n.Name() == name {
			found = n.ID()
			return false
		}
		return true
	})
	return found, found != NoNode
}

// insert stores n in a free slot and links it to parent.
func (g *Graph) insert(n Node, parent NodeID) NodeID {
	var id NodeID
	if k := len(g.free); k > 0 {
		id = g.free[k-1]
		g.free = g.free[:k-1]
		g.nodes[id] = n
	} else {
		id = NodeID(len(g.nodes))
		g.nodes = append(g.nodes, n)
	}
	b := n.base()
	b.id = id
	b.parent = parent
	return id
}

// attach appends child to the generic list of parent.
func (g *Graph) attach(parent, child NodeID) {
	list, _ := children(g.nodes[parent])
	*list = append(*list, child)
}

// destroy frees id and its whole subtree. The caller has already unlinked
// id from its parent.
func (g *Graph) destroy(id NodeID) {
	parent := g.nodes[id].Parent()
	if g.contains(id, g.current) {
		g.current = parent
	}
	if g.contains(id, g.camera) {
		g.camera = NoNode
	}
	g.free = g.release(id, g.free)
	g.log.Debug("subtree deleted", zap.Int("node", int(id)), zap.Int("live", g.Len()))
}

func (g *Graph) release(id NodeID, free []NodeID) []NodeID {
	n := g.nodes[id]
	if obj, ok := n.(*ObjectNode); ok {
		if obj.geometry != NoNode {
			free = g.release(obj.geometry, free)
		}
		if obj.attribute != NoNode {
			free = g.release(obj.attribute, free)
		}
	}
	if list, ok := children(n); ok {
		for _, c := range *list {
			free = g.release(c, free)
		}
	}
	g.nodes[id] = nil
	return append(free, id)
}

// contains reports whether target lies in the subtree rooted at id.
func (g *Graph) contains(id, target NodeID) bool {
	for t := target; t != NoNode; t = g.nodes[t].Parent() {
		if t == id {
			return true
		}
	}
	return false
}

func (g *Graph) nameFor(kind Kind, name string) string {
	if name != "" {
		return name
	}
	g.serial[kind]++
	return fmt.Sprintf("%s %d", kind, g.serial[kind])
}

func (g *Graph) reject(kind Kind, err error) (NodeID, error) {
	cur := g.nodes[g.current]
	g.log.Debug("add child rejected",
		zap.Stringer("kind", kind),
		zap.String("current", cur.Name()),
		zap.Stringer("current_kind", cur.Kind()),
		zap.Error(err))
	return NoNode, err
}

func (g *Graph) logAdd(id NodeID) {
	n := g.nodes[id]
	g.log.Debug("node added",
		zap.String("name", n.Name()),
		zap.Stringer("kind", n.Kind()),
		zap.String("parent", g.nodes[n.Parent()].Name()))
}
