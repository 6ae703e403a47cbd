package raster

import (
	"image"
	"image/color"
	"sync/atomic"

	"github.com/juju/errors"

	"glimmer/src/hardware/videocore"
)

// Surface is a 32 bit pixel store laid out like the frame buffer: rows of
// pitch pixels, of which the first width are visible.  The pixel words usually
// alias frame buffer memory so every store is an atomic word write that the
// compiler cannot drop or merge.
//
// Surface also implements draw.Image over the visible area.
type Surface struct {
	pix    []uint32
	pitch  int
	rows   int
	width  int
	height int
	order  videocore.PixelOrder
}

// NewSurface wraps pix, which must hold at least pitch*rows words.
func NewSurface(pix []uint32, pitch, rows, width, height int, order videocore.PixelOrder) (*Surface, error) {
	if pitch <= 0 || rows <= 0 {
		return nil, errors.NotValidf("surface %d pixels by %d rows", pitch, rows)
	}
	if len(pix) < pitch*rows {
		return nil, errors.NotValidf("%d pixel words for %dx%d", len(pix), pitch, rows)
	}
	if width <= 0 || width > pitch {
		width = pitch
	}
	if height <= 0 || height > rows {
		height = rows
	}
	return &Surface{pix: pix[:pitch*rows], pitch: pitch, rows: rows, width: width, height: height, order: order}, nil
}

func (s *Surface) Pitch() int                  { return s.pitch }
func (s *Surface) Rows() int                   { return s.rows }
func (s *Surface) Width() int                  { return s.width }
func (s *Surface) Height() int                 { return s.height }
func (s *Surface) Order() videocore.PixelOrder { return s.order }

// SetUnchecked stores c at offset x + y*pitch.  The caller promises
// 0 <= x < pitch and 0 <= y < rows; nothing is checked past what the slice
// does.
func (s *Surface) SetUnchecked(x, y int, c Color) {
	atomic.StoreUint32(&s.pix[x+y*s.pitch], uint32(c))
}

// AtUnchecked is the load to go with SetUnchecked.
func (s *Surface) AtUnchecked(x, y int) Color {
	return Color(atomic.LoadUint32(&s.pix[x+y*s.pitch]))
}

func (s *Surface) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.pitch && y < s.rows
}

// SetPixel stores c if (x,y) is on the surface and reports whether it did.
func (s *Surface) SetPixel(x, y int, c Color) bool {
	if !s.inside(x, y) {
		return false
	}
	s.SetUnchecked(x, y, c)
	return true
}

// Pixel is the checked load.
func (s *Surface) Pixel(x, y int) (Color, bool) {
	if !s.inside(x, y) {
		return 0, false
	}
	return s.AtUnchecked(x, y), true
}

// Fill stores c in every word, padding included.
func (s *Surface) Fill(c Color) {
	for i := range s.pix {
		atomic.StoreUint32(&s.pix[i], uint32(c))
	}
}

// ScrollUp moves the visible rows up by n and fills the n rows uncovered at
// the bottom with c.
func (s *Surface) ScrollUp(n int, c Color) {
	if n <= 0 {
		return
	}
	if n > s.height {
		n = s.height
	}
	for y := 0; y < s.height-n; y++ {
		for x := 0; x < s.width; x++ {
			s.SetUnchecked(x, y, s.AtUnchecked(x, y+n))
		}
	}
	for y := s.height - n; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			s.SetUnchecked(x, y, c)
		}
	}
}

func (s *Surface) ColorModel() color.Model {
	return color.RGBAModel
}

func (s *Surface) Bounds() image.Rectangle {
	return image.Rect(0, 0, s.width, s.height)
}

func (s *Surface) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}.In(s.Bounds())) {
		return color.RGBA{}
	}
	return s.AtUnchecked(x, y).toRGBA(s.order)
}

func (s *Surface) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(s.Bounds())) {
		return
	}
	s.SetUnchecked(x, y, fromColor(s.order, c))
}

// Snapshot copies the visible area out, for encoders that want an
// *image.RGBA.
func (s *Surface) Snapshot() *image.RGBA {
	img := image.NewRGBA(s.Bounds())
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			img.SetRGBA(x, y, s.AtUnchecked(x, y).toRGBA(s.order))
		}
	}
	return img
}

// SubRows returns a surface sharing rows y to y+n-1 of s.  Drawing on it lands
// in s; it is how a console gets a strip of the screen to itself.
func (s *Surface) SubRows(y, n int) *Surface {
	if y < 0 {
		y = 0
	}
	if y+n > s.rows {
		n = s.rows - y
	}
	h := n
	if y+h > s.height {
		h = s.height - y
	}
	return &Surface{pix: s.pix[y*s.pitch : (y+n)*s.pitch], pitch: s.pitch, rows: n, width: s.width, height: h, order: s.order}
}
