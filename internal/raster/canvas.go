// Package raster is a headless software renderer for scene batches.
//
// Positions arrive in world space; the canvas applies its view and
// projection matrices, then rasterizes with a depth buffer into an RGBA
// image. Rendering happens at Supersample times the output size and is
// filtered down when the image is read.
package raster

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/sceneview/internal/logger"
	"github.com/Faultbox/sceneview/internal/scene"
	"github.com/Faultbox/sceneview/pkg/math"
)

// Draw colors.
var (
	ColorPoints        = color.RGBA{255, 0, 0, 255}
	ColorWire          = color.RGBA{0, 255, 0, 255}
	ColorSurface       = color.RGBA{153, 153, 153, 255}
	ColorVertexNormals = color.RGBA{0, 255, 255, 255}
	ColorFaceNormals   = color.RGBA{255, 0, 255, 255}
	ColorAxisX         = color.RGBA{255, 64, 64, 255}
	ColorAxisY         = color.RGBA{64, 255, 64, 255}
	ColorAxisZ         = color.RGBA{64, 64, 255, 255}
)

const (
	ambient   = 0.2
	lineBias  = 1e-4
	minClipW  = 1e-5
	pointSize = 3
)

// Options configures a Canvas.
type Options struct {
	Width       int
	Height      int
	Supersample int
	Background  color.RGBA
	// NormalLength is the world-space length of normal lines.
	NormalLength float32
}

// DefaultOptions returns an 800x600 canvas with 2x supersampling.
func DefaultOptions() Options {
	return Options{
		Width:        800,
		Height:       600,
		Supersample:  2,
		Background:   color.RGBA{0, 0, 0, 255},
		NormalLength: 1,
	}
}

// Stats counts what the canvas drew since the last Clear.
type Stats struct {
	Batches   int
	Triangles int
	Dropped   int // triangles behind the eye or degenerate on screen
	Lines     int
	Points    int
}

// Canvas implements scene.Renderer and scene.AxesDrawer.
type Canvas struct {
	opts     Options
	fb       *FrameBuffer
	view     math.Mat4
	viewProj math.Mat4
	stats    Stats
	log      *zap.Logger
}

// New creates a canvas with an identity camera.
func New(opts Options) *Canvas {
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	if opts.Width < 1 {
		opts.Width = 1
	}
	if opts.Height < 1 {
		opts.Height = 1
	}
	s := opts.Supersample
	return &Canvas{
		opts:     opts,
		fb:       NewFrameBuffer(opts.Width*s, opts.Height*s, opts.Background),
		view:     math.Identity(),
		viewProj: math.Identity(),
		log:      logger.Named("raster"),
	}
}

// Aspect returns width / height of the output image.
func (c *Canvas) Aspect() float32 {
	return float32(c.opts.Width) / float32(c.opts.Height)
}

// SetCamera sets the view and projection matrices for subsequent draws.
func (c *Canvas) SetCamera(view, proj math.Mat4) {
	c.view = view
	c.viewProj = proj.Mul(view)
}

// Clear resets color, depth and stats.
func (c *Canvas) Clear() {
	c.fb.Clear(c.opts.Background)
	c.stats = Stats{}
}

// Stats returns draw counters since the last Clear.
func (c *Canvas) Stats() Stats { return c.stats }

// FrameBuffer exposes the full-resolution target.
func (c *Canvas) FrameBuffer() *FrameBuffer { return c.fb }

// Image returns the output image at the configured size.
func (c *Canvas) Image() *image.RGBA {
	if c.opts.Supersample == 1 {
		dup := image.NewRGBA(c.fb.Color.Bounds())
		copy(dup.Pix, c.fb.Color.Pix)
		return dup
	}
	dst := image.NewRGBA(image.Rect(0, 0, c.opts.Width, c.opts.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), c.fb.Color, c.fb.Color.Bounds(), draw.Src, nil)
	return dst
}

// DrawBatch renders one batch in its mode, then any requested normals.
func (c *Canvas) DrawBatch(b scene.Batch) {
	c.stats.Batches++
	for i := range b.Faces {
		f := &b.Faces[i]
		switch b.Mode {
		case scene.ModePoints:
			for _, p := range f.Positions {
				c.drawPoint(p, ColorPoints)
			}
		case scene.ModeWireframe:
			c.drawLine(f.Positions[0], f.Positions[1], ColorWire)
			c.drawLine(f.Positions[1], f.Positions[2], ColorWire)
			c.drawLine(f.Positions[2], f.Positions[0], ColorWire)
		case scene.ModeSolid:
			c.fillTriangle(f.Positions, [3]color.RGBA{ColorSurface, ColorSurface, ColorSurface})
		case scene.ModeLit:
			c.fillTriangle(f.Positions, c.shade(f))
		}
	}

	n := c.opts.NormalLength
	for i := range b.Faces {
		f := &b.Faces[i]
		if b.ShowVertexNormals {
			for k, p := range f.Positions {
				if f.Normals[k].IsFinite() {
					c.drawLine(p, p.Add(f.Normals[k].Scale(n)), ColorVertexNormals)
				}
			}
		}
		if b.ShowFaceNormals && f.FaceNormal.IsFinite() {
			c.drawLine(f.Center, f.Center.Add(f.FaceNormal.Scale(n)), ColorFaceNormals)
		}
	}
	c.log.Debug("batch drawn", zap.String("name", b.Name), zap.Stringer("mode", b.Mode), zap.Int("faces", len(b.Faces)))
}

// DrawAxes draws a transform gizmo.
func (c *Canvas) DrawAxes(origin, x, y, z math.Vec3) {
	c.drawLine(origin, x, ColorAxisX)
	c.drawLine(origin, y, ColorAxisY)
	c.drawLine(origin, z, ColorAxisZ)
}

// shade lights each vertex with a headlight along the eye's +Z. Vertices
// without an accumulated normal use the face normal.
func (c *Canvas) shade(f *scene.ResolvedFace) [3]color.RGBA {
	var out [3]color.RGBA
	for k := range out {
		n := f.Normals[k]
		if !n.IsFinite() {
			n = f.FaceNormal
		}
		d := c.view.TransformDirection(n).Normalize().Z
		if !(d > 0) {
			d = 0
		}
		i := ambient + d
		out[k] = color.RGBA{
			R: clamp255(float32(ColorSurface.R) * i),
			G: clamp255(float32(ColorSurface.G) * i),
			B: clamp255(float32(ColorSurface.B) * i),
			A: 255,
		}
	}
	return out
}

// vertex is a projected point: pixel coordinates and NDC depth.
type vertex struct {
	x, y, z float32
}

func (c *Canvas) project(p math.Vec3) (vertex, bool) {
	clip := c.viewProj.MulVec4(math.Vec4{p.X, p.Y, p.Z, 1})
	w := clip[3]
	if w < minClipW {
		return vertex{}, false
	}
	nx, ny, nz := clip[0]/w, clip[1]/w, clip[2]/w
	return vertex{
		x: (nx + 1) * 0.5 * float32(c.fb.Width),
		y: (1 - ny) * 0.5 * float32(c.fb.Height),
		z: nz,
	}, true
}

func (c *Canvas) drawPoint(p math.Vec3, col color.RGBA) {
	v, ok := c.project(p)
	if !ok {
		return
	}
	c.stats.Points++
	half := pointSize * c.opts.Supersample / 2
	cx, cy := int(math32.Floor(v.x)), int(math32.Floor(v.y))
	for y := cy - half; y <= cy+half; y++ {
		for x := cx - half; x <= cx+half; x++ {
			c.fb.plot(x, y, v.z, col, lineBias)
		}
	}
}
