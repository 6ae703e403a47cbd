package raster

import (
	"image"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Compose lets fn draw with gg, anti-aliased shapes and all, on a transparent
// canvas the size of the visible area and blends the result over the frame
// buffer.
func (r *Rasterizer) Compose(fn func(dc *gg.Context)) {
	dc := gg.NewContext(r.s.width, r.s.height)
	fn(dc)
	r.Blit(dc.Image(), image.Point{})
}

// Blit draws src over the surface with its top left corner at at.
func (r *Rasterizer) Blit(src image.Image, at image.Point) {
	b := src.Bounds()
	dr := image.Rectangle{Min: at, Max: at.Add(b.Size())}
	draw.Draw(r.s, dr, src, b.Min, draw.Over)
}

// BlitScaled stretches src over dr with bilinear filtering.
func (r *Rasterizer) BlitScaled(src image.Image, dr image.Rectangle) {
	draw.BiLinear.Scale(r.s, dr, src, src.Bounds(), draw.Over, nil)
}
