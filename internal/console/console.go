// Package console is a line-oriented command interpreter over a scene graph
// and a model viewer.
package console

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/raster"
	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/internal/snapshot"
	"github.com/Faultbox/sceneview/internal/viewer"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Console errors.
var (
	ErrQuit           = errors.New("quit")
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("usage")
	ErrNoAttribute    = errors.New("current node has no attribute")
)

// Target selects what editing commands act on.
type Target int

const (
	TargetScene Target = iota
	TargetViewer
)

func (t Target) String() string {
	if t == TargetViewer {
		return "viewer"
	}
	return "scene"
}

// PathWatcher is told about every model file the console loads.
type PathWatcher interface {
	Add(path string) error
}

// Options configures a Console.
type Options struct {
	Raster  raster.Options
	Capture *snapshot.Capture

	// The scene is viewed from Eye looking at the origin.
	Eye       math.Vec3
	FOV       float32 // degrees
	Near, Far float32
}

// DefaultOptions matches the fixed scene camera: one unit back on Z with a
// 45 degree lens.
func DefaultOptions() Options {
	return Options{
		Raster:  raster.DefaultOptions(),
		Capture: snapshot.NewCapture("snapshots", "sceneview", snapshot.FormatPNG),
		Eye:     math.Vec3{Z: 1},
		FOV:     45,
		Near:    0.1,
		Far:     200,
	}
}

type command struct {
	usage string
	help  string
	min   int // minimum argument count
	run   func(c *Console, args []string) error
}

// Console executes commands against a scene graph and a model viewer.
// It is not safe for concurrent use.
type Console struct {
	graph   *scene.Graph
	viewer  *viewer.ModelViewer
	target  Target
	opts    Options
	watcher PathWatcher
	out     io.Writer
	log     *zap.Logger
}

// New creates a console writing replies to out.
func New(g *scene.Graph, v *viewer.ModelViewer, opts Options, out io.Writer) *Console {
	if opts.Capture == nil {
		opts.Capture = DefaultOptions().Capture
	}
	return &Console{
		graph:  g,
		viewer: v,
		opts:   opts,
		out:    out,
		log:    logger.Named("console"),
	}
}

// Graph returns the scene being edited. It changes after "open".
func (c *Console) Graph() *scene.Graph { return c.graph }

// Viewer returns the model viewer.
func (c *Console) Viewer() *viewer.ModelViewer { return c.viewer }

// Target returns what editing commands act on.
func (c *Console) Target() Target { return c.target }

// SetWatcher registers w to follow every loaded model file.
func (c *Console) SetWatcher(w PathWatcher) { c.watcher = w }

// Exec runs one command line. Blank lines and lines starting with # do
// nothing. ErrQuit is returned for quit and exit.
func (c *Console) Exec(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	args, err := shellwords.Parse(line)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil
	}
	name := strings.ToLower(args[0])
	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	if len(args)-1 < cmd.min {
		return fmt.Errorf("%w: %s %s", ErrUsage, name, cmd.usage)
	}
	c.log.Debug("exec", zap.Strings("args", args))
	return cmd.run(c, args[1:])
}

func (c *Console) printf(format string, a ...any) {
	fmt.Fprintf(c.out, format, a...)
}

func cmdHelp(c *Console, args []string) error {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cmd := commands[name]
		c.printf("  %-10s %-28s %s\n", name, cmd.usage, cmd.help)
	}
	return nil
}

func cmdQuit(c *Console, args []string) error {
	return ErrQuit
}

func cmdUse(c *Console, args []string) error {
	switch strings.ToLower(args[0]) {
	case "scene":
		c.target = TargetScene
	case "viewer", "view":
		c.target = TargetViewer
	default:
		return fmt.Errorf("%w: use scene|viewer", ErrUsage)
	}
	c.printf("editing %s\n", c.target)
	return nil
}

func cmdLog(c *Console, args []string) error {
	if len(args) > 0 {
		logger.SetLevel(args[0])
	}
	c.printf("log level %s\n", logger.Level())
	return nil
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":       {"", "list commands", 0, cmdHelp},
		"quit":       {"", "leave the console", 0, cmdQuit},
		"exit":       {"", "leave the console", 0, cmdQuit},
		"use":        {"scene|viewer", "choose what edits act on", 1, cmdUse},
		"log":        {"[level]", "show or set the log level", 0, cmdLog},
		"tree":       {"", "print the scene graph", 0, cmdTree},
		"path":       {"", "print the cursor path", 0, cmdPath},
		"child":      {"<index>", "move to a child", 1, cmdChild},
		"parent":     {"", "move to the parent", 0, cmdParent},
		"slot":       {"geometry|attribute", "move into an Object slot", 1, cmdSlot},
		"find":       {"<name>", "move to the first node named name", 1, cmdFind},
		"add":        {"<kind> [name]", "add a node under the cursor", 1, cmdAdd},
		"del":        {"<index>", "delete a child subtree", 1, cmdDel},
		"deletegeom": {"", "empty the geometry slot", 0, cmdDeleteGeometry},
		"deleteattr": {"", "empty the attribute slot", 0, cmdDeleteAttribute},
		"load":       {"<file>", "load a mesh file", 1, cmdLoad},
		"reload":     {"<file>", "reload every geometry using file", 1, cmdReload},
		"translate":  {"<x> <y> <z>", "add to the translation", 3, cmdTranslate},
		"scale":      {"<x> <y> <z>", "add to the scale factors", 3, cmdScale},
		"rotate":     {"<deg> <x> <y> <z>", "rotate about an axis", 4, cmdRotate},
		"reset":      {"", "restore the identity transform", 0, cmdReset},
		"set":        {"translation|scale|rotation ...", "replace one transform part", 1, cmdSet},
		"show":       {"", "print the transform being edited", 0, cmdShow},
		"mode":       {"points|wireframe|solid|lit", "set the render mode", 1, cmdMode},
		"normals":    {"face|vertex on|off", "toggle normal lines", 2, cmdNormals},
		"render":     {"[file]", "render a frame to an image", 0, cmdRender},
		"save":       {"<file>", "write the scene as YAML", 1, cmdSave},
		"open":       {"<file>", "replace the scene from YAML", 1, cmdOpen},
		"pop":        {"", "drop the viewer's top model", 0, cmdPop},
		"dup":        {"", "push a copy of the viewer's top model", 0, cmdDup},
		"orbit":      {"<dx> <dy>", "orbit the viewer camera", 2, cmdOrbit},
		"zoom":       {"<delta>", "move the viewer camera in or out", 1, cmdZoom},
		"pan":        {"<dx> <dy>", "pan the viewer camera", 2, cmdPan},
		"camcoords":  {"on|off", "read viewer edits in camera axes", 1, cmdCamCoords},
	}
}
