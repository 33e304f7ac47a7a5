package console

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/scene"
)

func cmdTree(c *Console, args []string) error {
	g := c.graph
	g.Walk(func(n scene.Node, depth int) bool {
		marker := " "
		if n.ID() == g.Current() {
			marker = "*"
		}
		c.printf("%s %s%s %q%s\n", marker, strings.Repeat("  ", depth), n.Kind(), n.Name(), describe(n))
		return true
	})
	return nil
}

func describe(n scene.Node) string {
	switch n := n.(type) {
	case *scene.GeometryNode:
		if n.Mesh == nil {
			return " (empty)"
		}
		s := n.Mesh.Stats()
		return fmt.Sprintf(" (%d vertices, %d faces)", s.Vertices, s.Faces)
	case *scene.AttributeNode:
		return fmt.Sprintf(" (%s)", n.Mode)
	case *scene.TransformNode:
		if n.Transform.IsIdentity() {
			return ""
		}
		return " (edited)"
	}
	return ""
}

func cmdPath(c *Console, args []string) error {
	g := c.graph
	c.printf("%s\n", strings.Join(g.Path(), " / "))
	for i, id := range g.Children(g.Current()) {
		n := g.Node(id)
		c.printf("  [%d] %s %q\n", i, n.Kind(), n.Name())
	}
	return nil
}

func cmdChild(c *Console, args []string) error {
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: child <index>", ErrUsage)
	}
	before := c.graph.Current()
	if c.graph.SelectChild(idx) == before {
		c.printf("no child %d\n", idx)
		return nil
	}
	return cmdPath(c, nil)
}

func cmdParent(c *Console, args []string) error {
	c.graph.SelectParent()
	return cmdPath(c, nil)
}

func cmdSlot(c *Console, args []string) error {
	kind, err := scene.ParseKind(args[0])
	if err != nil {
		return err
	}
	if !c.graph.SelectSlot(kind) {
		c.printf("no %s slot here\n", strings.ToLower(kind.String()))
		return nil
	}
	return cmdPath(c, nil)
}

func cmdFind(c *Console, args []string) error {
	id, ok := c.graph.FindByName(args[0])
	if !ok {
		c.printf("no node named %q\n", args[0])
		return nil
	}
	c.graph.Select(id)
	return cmdPath(c, nil)
}

func cmdAdd(c *Console, args []string) error {
	kind, err := scene.ParseKind(args[0])
	if err != nil {
		return err
	}
	var name string
	if len(args) > 1 {
		name = strings.Join(args[1:], " ")
	}
	id, err := c.graph.AddNamedChild(kind, name)
	if err != nil {
		return err
	}
	c.printf("added %s %q\n", kind, c.graph.Node(id).Name())
	return nil
}

func cmdDel(c *Console, args []string) error {
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: del <index>", ErrUsage)
	}
	ok, err := c.graph.DeleteChild(idx)
	if err != nil {
		return err
	}
	if !ok {
		c.printf("no child %d\n", idx)
	}
	return nil
}

func cmdDeleteGeometry(c *Console, args []string) error {
	ok, err := c.graph.DeleteGeometry()
	if err != nil {
		return err
	}
	if !ok {
		c.printf("no geometry to delete\n")
	}
	return nil
}

func cmdDeleteAttribute(c *Console, args []string) error {
	ok, err := c.graph.DeleteAttribute()
	if err != nil {
		return err
	}
	if !ok {
		c.printf("no attribute to delete\n")
	}
	return nil
}

func cmdLoad(c *Console, args []string) error {
	path := args[0]
	if c.target == TargetViewer {
		stats, err := c.viewer.LoadModel(path)
		if err != nil {
			return err
		}
		c.printf("viewer: %d vertices, %d faces (%d models)\n", stats.Vertices, stats.Faces, c.viewer.Len())
		c.follow(path)
		return nil
	}
	stats, err := c.graph.LoadModel(path)
	if err != nil {
		return err
	}
	c.printf("loaded %s: %d vertices, %d faces", filepath.Base(path), stats.Vertices, stats.Faces)
	if stats.SkippedLines > 0 || stats.RejectedFaces > 0 {
		c.printf(" (%d lines skipped, %d faces rejected)", stats.SkippedLines, stats.RejectedFaces)
	}
	c.printf("\n")
	c.follow(path)
	return nil
}

func cmdReload(c *Console, args []string) error {
	n, err := c.Reload(args[0])
	if err != nil {
		return err
	}
	c.printf("reloaded %d geometry nodes\n", n)
	return nil
}

// Reload reloads every Geometry node whose mesh came from path. The cursor
// does not move. Nodes whose reload fails keep their mesh; the first error
// is returned after all nodes were tried.
func (c *Console) Reload(path string) (int, error) {
	want := absPath(path)
	var targets []*scene.GeometryNode
	c.graph.Walk(func(n scene.Node, depth int) bool {
		if geom, ok := n.(*scene.GeometryNode); ok && geom.Path != "" && absPath(geom.Path) == want {
			targets = append(targets, geom)
		}
		return true
	})

	var firstErr error
	reloaded := 0
	for _, geom := range targets {
		// keep the edited placement across reloads
		keep := geom.Mesh
		if _, err := geom.LoadModel(geom.Path); err != nil {
			c.log.Warn("reload failed", zap.String("node", geom.Name()), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if keep != nil {
			geom.Mesh.Transform = keep.Transform
		}
		reloaded++
	}
	return reloaded, firstErr
}

func (c *Console) follow(path string) {
	if c.watcher == nil {
		return
	}
	if err := c.watcher.Add(path); err != nil {
		c.log.Warn("cannot watch model", zap.String("path", path), zap.Error(err))
	}
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

func cmdSave(c *Console, args []string) error {
	if err := c.graph.SaveYAML(args[0]); err != nil {
		return err
	}
	c.printf("saved %s\n", args[0])
	return nil
}

func cmdOpen(c *Console, args []string) error {
	g, err := scene.LoadYAML(args[0])
	if err != nil {
		return err
	}
	c.graph = g
	g.Walk(func(n scene.Node, depth int) bool {
		if geom, ok := n.(*scene.GeometryNode); ok && geom.Path != "" {
			c.follow(geom.Path)
		}
		return true
	})
	c.printf("opened %s (%d nodes)\n", args[0], g.Len())
	return nil
}
