package raster

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
)

// FrameBuffer holds the render target and its depth buffer.
type FrameBuffer struct {
	Width  int
	Height int
	Color  *image.RGBA
	Depth  []float32 // NDC z per pixel, +Inf when empty
}

// NewFrameBuffer allocates a w x h target cleared to bg.
func NewFrameBuffer(w, h int, bg color.RGBA) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  w,
		Height: h,
		Color:  image.NewRGBA(image.Rect(0, 0, w, h)),
		Depth:  make([]float32, w*h),
	}
	fb.Clear(bg)
	return fb
}

// Clear fills the color buffer with bg and resets depth.
func (fb *FrameBuffer) Clear(bg color.RGBA) {
	pix := fb.Color.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = bg.R
		pix[i+1] = bg.G
		pix[i+2] = bg.B
		pix[i+3] = bg.A
	}
	inf := math32.Inf(1)
	for i := range fb.Depth {
		fb.Depth[i] = inf
	}
}

// plot writes c at (x, y) if z passes the depth test. bias lets lines win
// against the surface they lie on.
func (fb *FrameBuffer) plot(x, y int, z float32, c color.RGBA, bias float32) bool {
	if x < 0 || y < 0 || x >= fb.Width || y >= fb.Height || z < -1 || z > 1 {
		return false
	}
	i := y*fb.Width + x
	if z-bias >= fb.Depth[i] {
		return false
	}
	fb.Depth[i] = z
	o := i * 4
	fb.Color.Pix[o] = c.R
	fb.Color.Pix[o+1] = c.G
	fb.Color.Pix[o+2] = c.B
	fb.Color.Pix[o+3] = c.A
	return true
}

// Covered counts pixels whose depth has been written.
func (fb *FrameBuffer) Covered() int {
	n := 0
	for _, z := range fb.Depth {
		if !math32.IsInf(z, 1) {
			n++
		}
	}
	return n
}

func clamp255(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
