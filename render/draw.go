// Package render rasterizes simulation frames and encodes them as an animated GIF.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"
	"gonum.org/v1/gonum/spatial/r2"
)

const circleSegments = 64

// canvas draws anti-aliased shapes on an RGBA image.
type canvas struct {
	dst *image.RGBA
	z   *vector.Rasterizer
}

func newCanvas(width, height int, background color.Color) *canvas {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)
	return &canvas{dst: dst, z: vector.NewRasterizer(width, height)}
}

// fill draws the accumulated path in color c and resets the rasterizer.
func (c *canvas) fill(col color.Color) {
	c.z.Draw(c.dst, c.dst.Bounds(), image.NewUniform(col), image.Point{})
	b := c.dst.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
}

// polygon adds a closed polygon of n vertices around center.
func (c *canvas) polygon(center r2.Vec, radius float64, clockwise bool) {
	dir := 1.0
	if clockwise {
		dir = -1
	}
	for i := 0; i <= circleSegments; i++ {
		θ := dir * 2 * math.Pi * float64(i) / circleSegments
		s, co := math.Sincos(θ)
		x, y := float32(center.X+radius*co), float32(center.Y+radius*s)
		if i == 0 {
			c.z.MoveTo(x, y)
		} else {
			c.z.LineTo(x, y)
		}
	}
	c.z.ClosePath()
}

// disc draws a filled circle.
func (c *canvas) disc(center r2.Vec, radius float64, col color.Color) {
	c.polygon(center, radius, false)
	c.fill(col)
}

// ring draws the outline of a circle.
func (c *canvas) ring(center r2.Vec, radius, width float64, col color.Color) {
	c.polygon(center, radius+width/2, false)
	c.polygon(center, math.Max(radius-width/2, 0), true)
	c.fill(col)
}

// segment adds a segment of the provided width to the path.
func (c *canvas) segment(a, b r2.Vec, width float64) {
	d := r2.Sub(b, a)
	n := r2.Norm(d)
	if n == 0 {
		return
	}
	// Half width normal.
	w := r2.Scale(width/(2*n), r2.Vec{X: -d.Y, Y: d.X})
	p1, p2 := r2.Add(a, w), r2.Add(b, w)
	p3, p4 := r2.Sub(b, w), r2.Sub(a, w)
	c.z.MoveTo(float32(p1.X), float32(p1.Y))
	c.z.LineTo(float32(p2.X), float32(p2.Y))
	c.z.LineTo(float32(p3.X), float32(p3.Y))
	c.z.LineTo(float32(p4.X), float32(p4.Y))
	c.z.ClosePath()
}

// line draws a single segment.
func (c *canvas) line(a, b r2.Vec, width float64, col color.Color) {
	c.segment(a, b, width)
	c.fill(col)
}

// polyline draws connected segments. Points closer than half a pixel to the previous
// drawn point are skipped.
// All the segments share the same orientation, so overlaps saturate instead of cancelling out.
func (c *canvas) polyline(pts []r2.Vec, width float64, col color.Color) {
	if len(pts) < 2 {
		return
	}
	prev := pts[0]
	for _, p := range pts[1:] {
		if r2.Norm(r2.Sub(p, prev)) < 0.5 {
			continue
		}
		c.segment(prev, p, width)
		prev = p
	}
	c.fill(col)
}
