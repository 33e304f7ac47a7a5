// meshinfo prints statistics for mesh files and optionally renders them.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/raster"
	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/internal/snapshot"
	"github.com/Faultbox/sceneview/internal/viewer"
)

func main() {
	fs := flag.NewFlagSet("meshinfo", flag.ExitOnError)
	out := fs.String("o", "", "Render the model to this image (.png, .webp, .tga)")
	mode := fs.String("mode", "lit", "Render mode: points, wireframe, solid, lit")
	width := fs.Int("width", 800, "Image width")
	height := fs.Int("height", 600, "Image height")
	ss := fs.Int("ss", 2, "Supersampling factor")
	normals := fs.Bool("normals", false, "Draw face normals")
	verbose := fs.Bool("v", false, "Verbose logging")
	fs.Usage = printUsage
	fs.Parse(os.Args[1:])

	if fs.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	renderMode, err := scene.ParseRenderMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	v := viewer.New(nil)
	v.SetMode(renderMode)
	v.ShowFaceNormals(*normals)

	failed := false
	for _, path := range fs.Args() {
		if err := inspect(v, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed = true
		}
	}

	if *out != "" && v.Len() > 0 {
		opts := raster.DefaultOptions()
		opts.Width, opts.Height, opts.Supersample = *width, *height, *ss
		if err := render(v, opts, *out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if failed {
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshinfo - mesh file statistics

Usage:
  meshinfo [options] <file.obj> [more.obj ...]

Options:
  -o <image>     Render the last model to an image
  -mode <mode>   points, wireframe, solid or lit (default lit)
  -width, -height, -ss
                 Image size and supersampling
  -normals       Draw face normals
  -v             Verbose logging

Examples:
  meshinfo bunny.obj
  meshinfo -o bunny.webp -mode wire bunny.obj`)
}

func inspect(v *viewer.ModelViewer, path string) error {
	stats, err := v.LoadModel(path)
	if err != nil {
		return err
	}
	s := v.Top().Stats()

	fmt.Printf("%s\n", path)
	fmt.Printf("  Vertices:   %d\n", s.Vertices)
	fmt.Printf("  Faces:      %d (%d triangles)\n", s.Faces, s.Triangles)
	fmt.Printf("  Bounds:     (%g, %g, %g) - (%g, %g, %g)\n",
		s.Bounds.Min.X, s.Bounds.Min.Y, s.Bounds.Min.Z,
		s.Bounds.Max.X, s.Bounds.Max.Y, s.Bounds.Max.Z)
	fmt.Printf("  Origin:     (%g, %g, %g)\n", s.Origin.X, s.Origin.Y, s.Origin.Z)
	fmt.Printf("  Max extent: %g\n", s.MaxDelta)
	if stats.SkippedLines > 0 || stats.RejectedFaces > 0 {
		fmt.Printf("  Skipped:    %d lines, %d faces rejected\n", stats.SkippedLines, stats.RejectedFaces)
	}
	return nil
}

func render(v *viewer.ModelViewer, opts raster.Options, path string) error {
	canvas := raster.New(opts)
	view, proj, _ := v.Matrices(canvas.Aspect())
	canvas.SetCamera(view, proj)
	v.Render(canvas)

	if err := snapshot.SaveAs(path, canvas.Image()); err != nil {
		return err
	}
	stats := canvas.Stats()
	logger.Debug("rendered",
		zap.String("path", path),
		zap.Int("triangles", stats.Triangles),
		zap.Int("dropped", stats.Dropped))
	fmt.Printf("Wrote %s\n", path)
	return nil
}
