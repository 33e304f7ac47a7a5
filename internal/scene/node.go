// Package scene provides the scene graph: an arena of typed nodes with a
// traversal cursor, type-constrained edits and a render traversal.
package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/mesh"
	"github.com/Faultbox/sceneview/pkg/formats"
	"github.com/Faultbox/sceneview/pkg/math"
)

// NodeID is a stable handle to a node in a Graph.
type NodeID int

// NoNode is the absent handle (the root's parent, an empty slot).
const NoNode NodeID = -1

// Kind identifies a node variant.
type Kind int

const (
	KindObject Kind = iota
	KindTransform
	KindGeometry
	KindAttribute
	KindLight
	KindCamera
)

var kindNames = [...]string{"Object", "Transform", "Geometry", "Attribute", "Light", "Camera"}

// String returns the kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts a kind name, case-insensitive, or a short alias.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "object", "obj":
		return KindObject, nil
	case "transform", "xform":
		return KindTransform, nil
	case "geometry", "geom":
		return KindGeometry, nil
	case "attribute", "attr":
		return KindAttribute, nil
	case "light":
		return KindLight, nil
	case "camera", "cam":
		return KindCamera, nil
	}
	return 0, fmt.Errorf("unknown node kind %q", s)
}

// RenderMode selects how a renderer draws geometry.
type RenderMode int

const (
	ModePoints RenderMode = iota
	ModeWireframe
	ModeSolid
	ModeLit
)

// String returns a human-readable render mode name.
func (m RenderMode) String() string {
	switch m {
	case ModePoints:
		return "points"
	case ModeWireframe:
		return "wireframe"
	case ModeSolid:
		return "solid"
	case ModeLit:
		return "lit"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// ParseRenderMode accepts the names returned by RenderMode.String plus
// "point" and "wire".
func ParseRenderMode(s string) (RenderMode, error) {
	switch strings.ToLower(s) {
	case "points", "point":
		return ModePoints, nil
	case "wireframe", "wire":
		return ModeWireframe, nil
	case "solid":
		return ModeSolid, nil
	case "lit":
		return ModeLit, nil
	}
	return 0, fmt.Errorf("unknown render mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m RenderMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *RenderMode) UnmarshalText(text []byte) error {
	mode, err := ParseRenderMode(string(text))
	if err != nil {
		return err
	}
	*m = mode
	return nil
}

// Node is one of *TransformNode, *ObjectNode, *GeometryNode,
// *AttributeNode, *LightNode or *CameraNode. The set is closed.
type Node interface {
	ID() NodeID
	Name() string
	Parent() NodeID
	Kind() Kind
	base() *nodeBase
}

type nodeBase struct {
	id     NodeID
	name   string
	parent NodeID
}

func (b *nodeBase) ID() NodeID      { return b.id }
func (b *nodeBase) Name() string    { return b.name }
func (b *nodeBase) Parent() NodeID  { return b.parent }
func (b *nodeBase) base() *nodeBase { return b }

// TransformNode applies a transform to its subtree.
type TransformNode struct {
	nodeBase
	Transform math.Transform
	children  []NodeID
}

// Kind returns KindTransform.
func (n *TransformNode) Kind() Kind { return KindTransform }

// Reset restores the identity transform.
func (n *TransformNode) Reset() { n.Transform.Reset() }

// ObjectNode groups children and holds optional Geometry and Attribute slots.
type ObjectNode struct {
	nodeBase
	children  []NodeID
	geometry  NodeID
	attribute NodeID
}

// Kind returns KindObject.
func (n *ObjectNode) Kind() Kind { return KindObject }

// Geometry returns the geometry slot, or NoNode.
func (n *ObjectNode) Geometry() NodeID { return n.geometry }

// Attribute returns the attribute slot, or NoNode.
func (n *ObjectNode) Attribute() NodeID { return n.attribute }

// GeometryNode owns at most one mesh.
type GeometryNode struct {
	nodeBase
	Mesh *mesh.Mesh
	// Path is the file the mesh was loaded from, empty for built meshes.
	Path string
}

// Kind returns KindGeometry.
func (n *GeometryNode) Kind() Kind { return KindGeometry }

// LoadModel parses the mesh file at path and replaces the current mesh with
// it. On failure the previous mesh is kept.
func (n *GeometryNode) LoadModel(path string) (formats.OBJStats, error) {
	m, stats, err := loadMesh(path)
	if err != nil {
		return stats, err
	}
	n.setLoaded(m, path, stats)
	return stats, nil
}

func loadMesh(path string) (*mesh.Mesh, formats.OBJStats, error) {
	m := mesh.New(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	stats, err := formats.LoadOBJ(path, m)
	if err != nil {
		return nil, stats, err
	}
	return m, stats, nil
}

func (n *GeometryNode) setLoaded(m *mesh.Mesh, path string, stats formats.OBJStats) {
	n.Mesh = m
	n.Path = path

	logger.Named("scene").Debug("model loaded",
		zap.String("node", n.name),
		zap.String("path", path),
		zap.Int("vertices", stats.Vertices),
		zap.Int("faces", stats.Faces),
		zap.Int("skipped_lines", stats.SkippedLines),
		zap.Int("rejected_faces", stats.RejectedFaces))
}

// SetMesh replaces the mesh with one built in memory.
func (n *GeometryNode) SetMesh(m *mesh.Mesh) {
	n.Mesh = m
	n.Path = ""
}

// AttributeNode holds display settings for the sibling Geometry.
type AttributeNode struct {
	nodeBase
	Mode              RenderMode
	ShowFaceNormals   bool
	ShowVertexNormals bool
}

// Kind returns KindAttribute.
func (n *AttributeNode) Kind() Kind { return KindAttribute }

// LightNode is a fixed light source.
type LightNode struct {
	nodeBase
}

// Kind returns KindLight.
func (n *LightNode) Kind() Kind { return KindLight }

// CameraNode marks the view anchor: its ancestors' transforms form the view.
type CameraNode struct {
	nodeBase
}

// Kind returns KindCamera.
func (n *CameraNode) Kind() Kind { return KindCamera }

// children returns the generic child list of a parent node.
func children(n Node) (*[]NodeID, bool) {
	switch n := n.(type) {
	case *TransformNode:
		return &n.children, true
	case *ObjectNode:
		return &n.children, true
	case *GeometryNode, *AttributeNode, *LightNode, *CameraNode:
		return nil, false
	default:
		panic(fmt.Sprintf("scene: unexpected node type %T", n))
	}
}

// newNode constructs a detached node of the given kind.
func newNode(kind Kind, name string) Node {
	b := nodeBase{id: NoNode, name: name, parent: NoNode}
	switch kind {
	case KindObject:
		return &ObjectNode{nodeBase: b, geometry: NoNode, attribute: NoNode}
	case KindTransform:
		return &TransformNode{nodeBase: b, Transform: math.NewTransform()}
	case KindGeometry:
		return &GeometryNode{nodeBase: b}
	case KindAttribute:
		return &AttributeNode{nodeBase: b, Mode: ModeLit}
	case KindLight:
		return &LightNode{nodeBase: b}
	case KindCamera:
		return &CameraNode{nodeBase: b}
	default:
		panic(fmt.Sprintf("scene: unexpected node kind %v", kind))
	}
}
