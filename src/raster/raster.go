// Package raster draws into a negotiated frame buffer: pixels, Bresenham
// lines, rectangles, function plots and 8x8 bitmap text.  Nothing here is
// synchronized, there is one thread drawing.
package raster

import (
	"math"

	"github.com/juju/errors"

	"glimmer/src/hardware/videocore"
	"glimmer/src/lib/trust"
)

// ErrNotNegotiated is returned for a descriptor that did not come from a
// successful negotiation.
var ErrNotNegotiated = errors.New("raster: frame buffer not negotiated")

// WordMapper gives access to count 32 bit words of physical memory at addr.
// mmio.Physical and mmio.Memory both are one.
type WordMapper interface {
	Words(addr uintptr, count int) []uint32
}

// Rasterizer is the drawing surface over the frame buffer.  Coordinates are
// pixels with 0,0 the top left.  The draw methods do not check bounds: the
// caller keeps 0 <= x < pitch and 0 <= y < rows.  DrawFunction is the
// exception since a function plot routinely leaves the screen.
type Rasterizer struct {
	s *Surface
}

// New maps the frame buffer described by d.  Only 32 bit pixels are supported.
func New(d videocore.FrameBufferDescriptor, mem WordMapper) (*Rasterizer, error) {
	if !d.Valid() {
		return nil, errors.Trace(ErrNotNegotiated)
	}
	if d.Depth != 32 {
		return nil, errors.NotSupportedf("%d bits per pixel", d.Depth)
	}
	pix := mem.Words(uintptr(d.Base), int(d.PitchPixels*d.Rows))
	s, err := NewSurface(pix, int(d.PitchPixels), int(d.Rows), int(d.Width), int(d.Height), d.PixelOrder)
	if err != nil {
		return nil, errors.Trace(err)
	}
	trust.Debugf("raster: mapped %d words at %#x", len(pix), d.Base)
	return &Rasterizer{s: s}, nil
}

// NewWithSurface draws on s, which need not be a frame buffer.
func NewWithSurface(s *Surface) *Rasterizer {
	return &Rasterizer{s: s}
}

func (r *Rasterizer) Surface() *Surface {
	return r.s
}

// RGB packs a color for this frame buffer's pixel order.
func (r *Rasterizer) RGB(red, green, blue uint8) Color {
	return RGB(r.s.order, red, green, blue)
}

func (r *Rasterizer) DrawPixel(x, y int, c Color) {
	r.s.SetUnchecked(x, y, c)
}

// Clear fills the whole buffer, off screen padding included.
func (r *Rasterizer) Clear(c Color) {
	r.s.Fill(c)
}

// DrawLine is Bresenham's line with a fast path for vertical lines.  The
// endpoints are swapped so the loop always runs upwards on the major axis,
// which also makes a line and its reverse the same set of pixels.
func (r *Rasterizer) DrawLine(x1, y1, x2, y2 int, c Color) {
	if x1 == x2 {
		if y1 > y2 {
			y1, y2 = y2, y1
		}
		for y := y1; y <= y2; y++ {
			r.DrawPixel(x1, y, c)
		}
		return
	}
	if abs(y2-y1) < abs(x2-x1) {
		if x1 > x2 {
			r.lineLow(x2, y2, x1, y1, c)
		} else {
			r.lineLow(x1, y1, x2, y2, c)
		}
		return
	}
	if y1 > y2 {
		r.lineHigh(x2, y2, x1, y1, c)
	} else {
		r.lineHigh(x1, y1, x2, y2, c)
	}
}

// shallow lines, x1 < x2
func (r *Rasterizer) lineLow(x1, y1, x2, y2 int, c Color) {
	dx := x2 - x1
	dy := y2 - y1
	yi := 1
	if dy < 0 {
		yi = -1
		dy = -dy
	}
	d := 2*dy - dx
	y := y1
	for x := x1; x <= x2; x++ {
		r.DrawPixel(x, y, c)
		if d > 0 {
			y += yi
			d += 2 * (dy - dx)
		} else {
			d += 2 * dy
		}
	}
}

// steep lines, y1 < y2
func (r *Rasterizer) lineHigh(x1, y1, x2, y2 int, c Color) {
	dx := x2 - x1
	dy := y2 - y1
	xi := 1
	if dx < 0 {
		xi = -1
		dx = -dx
	}
	d := 2*dx - dy
	x := x1
	for y := y1; y <= y2; y++ {
		r.DrawPixel(x, y, c)
		if d > 0 {
			x += xi
			d += 2 * (dx - dy)
		} else {
			d += 2 * dx
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// DrawRect outlines the rectangle with corners (x1,y1) and (x2,y2).
func (r *Rasterizer) DrawRect(x1, y1, x2, y2 int, c Color) {
	r.DrawLine(x1, y1, x2, y1, c)
	r.DrawLine(x2, y1, x2, y2, c)
	r.DrawLine(x2, y2, x1, y2, c)
	r.DrawLine(x1, y2, x1, y1, c)
}

// FillRect fills the rectangle, both corners included, one horizontal line
// per row.
func (r *Rasterizer) FillRect(x1, y1, x2, y2 int, c Color) {
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		r.DrawLine(x1, y, x2, y, c)
	}
}

// DrawText draws s one byte at a time starting at (x,y).  A newline moves down
// 8*scale pixels and back to x.
func (r *Rasterizer) DrawText(s string, x, y, scale int, c Color) {
	if scale < 1 {
		scale = 1
	}
	col := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			y += 8 * scale
			col = 0
			continue
		}
		r.DrawGlyph(x+col*8*scale, y, GlyphFor(s[i]), scale, c)
		col++
	}
}

// DrawGlyph draws each set bit of g as a scale by scale square.  Clear bits are
// left alone.
func (r *Rasterizer) DrawGlyph(x, y int, g Glyph, scale int, c Color) {
	if scale < 1 {
		scale = 1
	}
	for row, bits := range g {
		for bit := 0; bit < 8; bit++ {
			if bits&(1<<bit) == 0 {
				continue
			}
			r.FillRect(x+bit*scale, y+row*scale, x+(bit+1)*scale-1, y+(row+1)*scale-1, c)
		}
	}
}

// DrawFunction plots y = f(x) + yOff at x + xOff for every x across the pitch.
// Points that land off the surface are skipped.
func (r *Rasterizer) DrawFunction(f func(x int) float64, xOff, yOff int, c Color) {
	for x := 0; x < r.s.pitch; x++ {
		y := f(x) + float64(yOff)
		if !(y >= 0 && y < float64(r.s.rows)) {
			continue
		}
		r.s.SetPixel(x+xOff, int(y), c)
	}
}

// Polar converts a radius and an angle in radians to x,y offsets, for laying
// things out around a point.
func Polar(radius, theta float64) (float64, float64) {
	return radius * math.Cos(theta), radius * math.Sin(theta)
}
