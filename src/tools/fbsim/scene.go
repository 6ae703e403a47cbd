package fbsim

import (
	"fmt"
	"math"

	"github.com/fogleman/gg"

	"glimmer/src/hardware/videocore"
	"glimmer/src/raster"
)

// Info is what the scene prints in its corner.
type Info struct {
	Descriptor  videocore.FrameBufferDescriptor
	Temperature uint32 // millidegrees, zero when unknown
}

// DrawScene is the demo picture: a frame, some lines, a sine wave, a fan of
// spokes and some text.  It only needs 320x240 to fit.
func DrawScene(r *raster.Rasterizer, info Info) {
	s := r.Surface()
	w, h := s.Width(), s.Height()
	r.Clear(raster.MidnightBlue)

	r.DrawRect(0, 0, w-1, h-1, raster.White)
	r.FillRect(10, 10, 110, 60, raster.Red)
	r.FillRect(120, 10, 220, 60, r.RGB(0, 0xff, 0))
	r.FillRect(230, 10, 310, 60, r.RGB(0, 0, 0xff))
	r.DrawLine(10, 70, w-11, 70, raster.Yellow)
	r.DrawLine(10, h-11, w-11, 80, raster.Orange)

	mid := h / 2
	r.DrawFunction(func(x int) float64 {
		return 40 * math.Sin(float64(x)/40)
	}, 0, mid, raster.Yellow)

	cx, cy := w-80, h-80
	for i := 0; i < 12; i++ {
		dx, dy := raster.Polar(60, float64(i)*math.Pi/6)
		r.DrawLine(cx, cy, cx+int(dx), cy+int(dy), raster.White)
	}

	r.DrawText("glimmer\nframe buffer", 16, 90, 2, raster.White)
	r.DrawText(clip(info.Descriptor.String(), (w-32)/8), 16, h-40, 1, raster.White)
	if info.Temperature != 0 {
		r.DrawText(fmt.Sprintf("soc %d.%03d C", info.Temperature/1000, info.Temperature%1000), 16, h-28, 1, raster.Orange)
	}

	r.Compose(func(dc *gg.Context) {
		dc.SetRGBA(1, 1, 1, 0.8)
		dc.SetLineWidth(3)
		dc.DrawCircle(float64(cx), float64(cy), 64)
		dc.Stroke()
	})
}

// clip keeps text from running off the right edge, DrawText does not check.
func clip(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
