package scene

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/sceneview/pkg/math"
)

// Document is the YAML form of a scene.
type Document struct {
	Version int     `yaml:"version"`
	Root    NodeDoc `yaml:"root"`
}

// NodeDoc is one serialized node. Fields that do not apply to Kind are empty.
type NodeDoc struct {
	Kind      string          `yaml:"kind"`
	Name      string          `yaml:"name"`
	Transform *math.Transform `yaml:"transform,omitempty"`
	Model     string          `yaml:"model,omitempty"`
	// Mesh transform of a loaded geometry.
	MeshTransform     *math.Transform `yaml:"mesh_transform,omitempty"`
	Mode              *RenderMode     `yaml:"mode,omitempty"`
	ShowFaceNormals   bool            `yaml:"show_face_normals,omitempty"`
	ShowVertexNormals bool            `yaml:"show_vertex_normals,omitempty"`
	Geometry          *NodeDoc        `yaml:"geometry,omitempty"`
	Attribute         *NodeDoc        `yaml:"attribute,omitempty"`
	Children          []NodeDoc       `yaml:"children,omitempty"`
}

const documentVersion = 1

// Export returns the YAML document for the whole tree.
func (g *Graph) Export() Document {
	return Document{Version: documentVersion, Root: g.export(g.root)}
}

func (g *Graph) export(id NodeID) NodeDoc {
	n := g.nodes[id]
	doc := NodeDoc{Kind: n.Kind().String(), Name: n.Name()}
	switch n := n.(type) {
	case *TransformNode:
		t := n.Transform
		doc.Transform = &t
		doc.Children = g.exportList(n.children)
	case *ObjectNode:
		if n.geometry != NoNode {
			d := g.export(n.geometry)
			doc.Geometry = &d
		}
		if n.attribute != NoNode {
			d := g.export(n.attribute)
			doc.Attribute = &d
		}
		doc.Children = g.exportList(n.children)
	case *GeometryNode:
		doc.Model = n.Path
		if n.Mesh != nil && !n.Mesh.Transform.IsIdentity() {
			t := n.Mesh.Transform
			doc.MeshTransform = &t
		}
	case *AttributeNode:
		mode := n.Mode
		doc.Mode = &mode
		doc.ShowFaceNormals = n.ShowFaceNormals
		doc.ShowVertexNormals = n.ShowVertexNormals
	case *LightNode, *CameraNode:
	}
	return doc
}

func (g *Graph) exportList(ids []NodeID) []NodeDoc {
	if len(ids) == 0 {
		return nil
	}
	docs := make([]NodeDoc, len(ids))
	for i, c := range ids {
		docs[i] = g.export(c)
	}
	return docs
}

// SaveYAML writes the scene to path, creating parent directories.
func (g *Graph) SaveYAML(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating scene directory: %w", err)
	}
	data, err := yaml.Marshal(g.Export())
	if err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing scene: %w", err)
	}
	return nil
}

// LoadYAML reads a scene written by SaveYAML. Model paths are loaded again;
// a model that fails to load leaves its Geometry node empty and is logged.
func LoadYAML(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing scene %s: %w", path, err)
	}
	return Import(doc)
}

// Import builds a graph from a document. The root must be an Object.
func Import(doc Document) (*Graph, error) {
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported scene version %d", doc.Version)
	}
	kind, err := ParseKind(doc.Root.Kind)
	if err != nil {
		return nil, err
	}
	if kind != KindObject {
		return nil, fmt.Errorf("scene root must be an Object, got %s", kind)
	}

	g := NewEmpty()
	g.nodes[g.root].base().name = doc.Root.Name
	if err := g.importInto(g.root, doc.Root); err != nil {
		return nil, err
	}
	g.current = g.root
	return g, nil
}

// importInto fills the already created node id from d and recurses.
func (g *Graph) importInto(id NodeID, d NodeDoc) error {
	switch n := g.nodes[id].(type) {
	case *TransformNode:
		if d.Transform != nil {
			n.Transform = *d.Transform
		}
	case *GeometryNode:
		if d.Model != "" {
			if _, err := n.LoadModel(d.Model); err != nil {
				g.log.Warn("scene model not loaded", zap.String("path", d.Model), zap.Error(err))
			} else if d.MeshTransform != nil {
				n.Mesh.Transform = *d.MeshTransform
			}
		}
	case *AttributeNode:
		if d.Mode != nil {
			n.Mode = *d.Mode
		}
		n.ShowFaceNormals = d.ShowFaceNormals
		n.ShowVertexNormals = d.ShowVertexNormals
	case *CameraNode:
		g.camera = id
	case *ObjectNode, *LightNode:
	}

	var subs []NodeDoc
	if d.Geometry != nil {
		subs = append(subs, *d.Geometry)
	}
	if d.Attribute != nil {
		subs = append(subs, *d.Attribute)
	}
	subs = append(subs, d.Children...)

	for _, sd := range subs {
		kind, err := ParseKind(sd.Kind)
		if err != nil {
			return fmt.Errorf("node %q: %w", sd.Name, err)
		}
		child, err := g.importChild(id, kind, sd.Name)
		if err != nil {
			return fmt.Errorf("node %q under %q: %w", sd.Name, d.Name, err)
		}
		if err := g.importInto(child, sd); err != nil {
			return err
		}
	}
	return nil
}

// importChild attaches a node to parent. Cameras bypass AddChild, which
// refuses them.
func (g *Graph) importChild(parent NodeID, kind Kind, name string) (NodeID, error) {
	if kind == KindCamera {
		if _, ok := children(g.nodes[parent]); !ok {
			return NoNode, ErrNotParentNode
		}
		id := g.insert(newNode(KindCamera, name), parent)
		g.attach(parent, id)
		return id, nil
	}
	g.current = parent
	return g.AddNamedChild(kind, name)
}
