package console

import (
	"image"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/sceneview/internal/raster"
	"github.com/Faultbox/sceneview/internal/snapshot"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Render draws the current target into a new image.
func (c *Console) Render() (*image.RGBA, raster.Stats) {
	canvas := raster.New(c.opts.Raster)
	if c.target == TargetViewer {
		if view, proj, ok := c.viewer.Matrices(canvas.Aspect()); ok {
			canvas.SetCamera(view, proj)
			c.viewer.Render(canvas)
		}
	} else {
		view := math.LookAt(c.opts.Eye, math.Vec3{}, math.Vec3{Y: 1})
		proj := math.Perspective(c.opts.FOV*math32.Pi/180, canvas.Aspect(), c.opts.Near, c.opts.Far)
		canvas.SetCamera(view, proj)
		c.graph.Display(canvas)
	}
	return canvas.Image(), canvas.Stats()
}

func cmdRender(c *Console, args []string) error {
	img, stats := c.Render()

	var path string
	if len(args) > 0 {
		path = args[0]
		if err := snapshot.SaveAs(path, img); err != nil {
			return err
		}
	} else {
		p, err := c.opts.Capture.Save(img)
		if err != nil {
			return err
		}
		path = p
	}
	c.log.Info("frame rendered",
		zap.String("path", path),
		zap.Int("batches", stats.Batches),
		zap.Int("triangles", stats.Triangles),
		zap.Int("dropped", stats.Dropped))
	c.printf("wrote %s (%d batches, %d triangles)\n", path, stats.Batches, stats.Triangles)
	return nil
}
