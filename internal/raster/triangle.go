package raster

import (
	"image/color"

	"github.com/chewxy/math32"

	"github.com/Faultbox/sceneview/pkg/math"
)

// fillTriangle rasterizes a triangle with per-vertex colors interpolated
// across it. Both windings are drawn.
func (c *Canvas) fillTriangle(p [3]math.Vec3, cols [3]color.RGBA) {
	var v [3]vertex
	for i := range p {
		pv, ok := c.project(p[i])
		if !ok {
			c.stats.Dropped++
			return
		}
		v[i] = pv
	}

	det := (v[1].y-v[2].y)*(v[0].x-v[2].x) + (v[2].x-v[1].x)*(v[0].y-v[2].y)
	if det > -1e-8 && det < 1e-8 {
		c.stats.Dropped++
		return
	}
	invDet := 1 / det
	c.stats.Triangles++

	fb := c.fb
	minX := clampInt(int(math32.Floor(min3(v[0].x, v[1].x, v[2].x))), 0, fb.Width-1)
	maxX := clampInt(int(math32.Ceil(max3(v[0].x, v[1].x, v[2].x))), 0, fb.Width-1)
	minY := clampInt(int(math32.Floor(min3(v[0].y, v[1].y, v[2].y))), 0, fb.Height-1)
	maxY := clampInt(int(math32.Ceil(max3(v[0].y, v[1].y, v[2].y))), 0, fb.Height-1)

	dy12 := v[1].y - v[2].y
	dx21 := v[2].x - v[1].x
	dy20 := v[2].y - v[0].y
	dx02 := v[0].x - v[2].x

	for sy := minY; sy <= maxY; sy++ {
		py := float32(sy) + 0.5 - v[2].y
		for sx := minX; sx <= maxX; sx++ {
			px := float32(sx) + 0.5 - v[2].x
			w0 := (dy12*px + dx21*py) * invDet
			w1 := (dy20*px + dx02*py) * invDet
			w2 := 1 - w0 - w1
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			z := w0*v[0].z + w1*v[1].z + w2*v[2].z
			col := color.RGBA{
				R: clamp255(w0*float32(cols[0].R) + w1*float32(cols[1].R) + w2*float32(cols[2].R)),
				G: clamp255(w0*float32(cols[0].G) + w1*float32(cols[1].G) + w2*float32(cols[2].G)),
				B: clamp255(w0*float32(cols[0].B) + w1*float32(cols[1].B) + w2*float32(cols[2].B)),
				A: 255,
			}
			fb.plot(sx, sy, z, col, 0)
		}
	}
}

// drawLine draws a depth-tested segment between two world points.
func (c *Canvas) drawLine(a, b math.Vec3, col color.RGBA) {
	va, ok := c.project(a)
	if !ok {
		return
	}
	vb, ok := c.project(b)
	if !ok {
		return
	}
	c.stats.Lines++

	dx, dy := vb.x-va.x, vb.y-va.y
	steps := int(math32.Ceil(math32.Max(math32.Abs(dx), math32.Abs(dy))))
	if steps == 0 {
		c.fb.plot(int(va.x), int(va.y), va.z, col, lineBias)
		return
	}
	// segments reaching far off screen are cut short
	limit := 4 * (c.fb.Width + c.fb.Height)
	if steps > limit {
		steps = limit
	}
	inv := 1 / float32(steps)
	for i := 0; i <= steps; i++ {
		t := float32(i) * inv
		x := va.x + dx*t
		y := va.y + dy*t
		z := va.z + (vb.z-va.z)*t
		c.fb.plot(int(math32.Floor(x)), int(math32.Floor(y)), z, col, lineBias)
	}
}

func min3(a, b, c float32) float32 {
	return math32.Min(a, math32.Min(b, c))
}

func max3(a, b, c float32) float32 {
	return math32.Max(a, math32.Max(b, c))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
