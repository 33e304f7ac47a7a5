// Package main is the entry point for the sceneview console.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/camera"
	"github.com/Faultbox/sceneview/internal/config"
	"github.com/Faultbox/sceneview/internal/console"
	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/internal/snapshot"
	"github.com/Faultbox/sceneview/internal/viewer"
	"github.com/Faultbox/sceneview/internal/watch"
)

const prompt = "sceneview> "

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== sceneview ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("sceneview error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("sceneview closed normally")
}

func run(cfg *config.Config) error {
	g, err := loadScene(cfg)
	if err != nil {
		return err
	}

	cam := camera.NewOrbitCamera()
	cam.FOV = cfg.Camera.FOVDegrees
	cam.Near = cfg.Camera.Near
	cam.OrbitSpeed = cfg.Camera.OrbitSpeed
	cam.PanSpeed = cfg.Camera.PanSpeed
	v := viewer.New(cam)
	mode, _ := cfg.Mode() // checked by config.Load
	v.SetMode(mode)
	v.ShowFaceNormals(cfg.Viewer.ShowFaceNormals)
	v.ShowVertexNormals(cfg.Viewer.ShowVertexNormals)

	opts := console.DefaultOptions()
	opts.Raster.Width = cfg.Viewer.Width
	opts.Raster.Height = cfg.Viewer.Height
	opts.Raster.Supersample = cfg.Output.Supersample
	bg := cfg.Viewer.Background
	opts.Raster.Background = color.RGBA{bg[0], bg[1], bg[2], 255}
	format, _ := cfg.Format()
	opts.Capture = snapshot.NewCapture(cfg.Output.Dir, cfg.Output.Prefix, format)

	con := console.New(g, v, opts, os.Stdout)

	var changes <-chan string
	if cfg.Model.Watch {
		w, err := watch.New(watch.DefaultDebounce)
		if err != nil {
			return err
		}
		defer w.Close()
		con.SetWatcher(w)
		changes = w.Changes()
		g.Walk(func(n scene.Node, depth int) bool {
			if geom, ok := n.(*scene.GeometryNode); ok && geom.Path != "" {
				if err := w.Add(geom.Path); err != nil {
					logger.Warn("cannot watch model", zap.String("path", geom.Path), zap.Error(err))
				}
			}
			return true
		})
	}

	// positional arguments are command scripts run before the prompt
	for _, script := range config.Args() {
		if err := runScript(con, script); err != nil {
			if errors.Is(err, console.ErrQuit) {
				return nil
			}
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return loop(ctx, con, os.Stdin, changes)
}

// loadScene builds the startup scene: a saved scene, or the default scene
// with the configured model in the root Object.
func loadScene(cfg *config.Config) (*scene.Graph, error) {
	if cfg.Model.Scene != "" {
		return scene.LoadYAML(cfg.Model.Scene)
	}
	g := scene.New()
	if cfg.Model.Path == "" {
		return g, nil
	}
	if _, err := g.LoadModel(cfg.Model.Path); err != nil {
		return nil, err
	}
	if _, err := g.AddChild(scene.KindAttribute); err != nil {
		return nil, err
	}
	attr, _ := g.Attribute()
	attr.Mode, _ = cfg.Mode()
	attr.ShowFaceNormals = cfg.Viewer.ShowFaceNormals
	attr.ShowVertexNormals = cfg.Viewer.ShowVertexNormals
	return g, nil
}

func runScript(con *console.Console, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		if err := con.Exec(scanner.Text()); err != nil {
			if errors.Is(err, console.ErrQuit) {
				return err
			}
			return fmt.Errorf("%s:%d: %w", path, line, err)
		}
	}
	return scanner.Err()
}

// loop reads commands from in and applies model reloads between them.
func loop(ctx context.Context, con *console.Console, in io.Reader, changes <-chan string) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	fmt.Print(prompt)
	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case path := <-changes:
			n, err := con.Reload(path)
			if err != nil {
				logger.Warn("reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			logger.Info("model reloaded", zap.String("path", path), zap.Int("nodes", n))
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			err := con.Exec(line)
			if errors.Is(err, console.ErrQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
			}
			fmt.Print(prompt)
		}
	}
}
