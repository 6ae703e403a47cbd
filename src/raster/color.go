package raster

import (
	"image/color"

	"glimmer/src/hardware/videocore"
)

// Color is a 32 bit pixel exactly as it is stored in the frame buffer.  What
// the bytes mean depends on the pixel order that was negotiated.
type Color uint32

// These are 0x00RRGGBB, right for the default BGR order.
const (
	Black        Color = 0x00000000
	White        Color = 0x00FFFFFF
	Red          Color = 0x00FF0000
	Green        Color = 0x0000FF00
	Blue         Color = 0x000000FF
	Orange       Color = 0x00FFA500
	Yellow       Color = 0x00FFFF00
	MidnightBlue Color = 0x00191970
)

// RGB packs a color for the given pixel order.
func RGB(order videocore.PixelOrder, r, g, b uint8) Color {
	if order == videocore.PixelOrderRGB {
		return Color(uint32(b)<<16 | uint32(g)<<8 | uint32(r))
	}
	return Color(uint32(r)<<16 | uint32(g)<<8 | uint32(b))
}

// Components undoes RGB.
func (c Color) Components(order videocore.PixelOrder) (r, g, b uint8) {
	hi, mid, lo := uint8(c>>16), uint8(c>>8), uint8(c)
	if order == videocore.PixelOrderRGB {
		return lo, mid, hi
	}
	return hi, mid, lo
}

func fromColor(order videocore.PixelOrder, c color.Color) Color {
	r, g, b, _ := c.RGBA()
	return RGB(order, uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

func (c Color) toRGBA(order videocore.PixelOrder) color.RGBA {
	r, g, b := c.Components(order)
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
