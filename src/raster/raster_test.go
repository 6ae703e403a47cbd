package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/fogleman/gg"
	"github.com/juju/errors"

	"glimmer/src/hardware/mmio"
	"glimmer/src/hardware/videocore"
)

func newTestRasterizer(t *testing.T, pitch, rows int) *Rasterizer {
	t.Helper()
	s, err := NewSurface(make([]uint32, pitch*rows), pitch, rows, pitch, rows, videocore.PixelOrderBGR)
	if err != nil {
		t.Fatalf("unable to make surface: %v", err)
	}
	return NewWithSurface(s)
}

func countColor(s *Surface, c Color) int {
	n := 0
	for y := 0; y < s.Rows(); y++ {
		for x := 0; x < s.Pitch(); x++ {
			if s.AtUnchecked(x, y) == c {
				n++
			}
		}
	}
	return n
}

func TestPixelRoundTrip(t *testing.T) {
	r := newTestRasterizer(t, 37, 23)
	for y := 0; y < 23; y++ {
		for x := 0; x < 37; x++ {
			c := Color(uint32(x)<<8 | uint32(y) | 0x00010000)
			r.DrawPixel(x, y, c)
			if got := r.Surface().AtUnchecked(x, y); got != c {
				t.Fatalf("(%d,%d): wrote %#x read %#x", x, y, c, got)
			}
		}
	}
}

func TestCheckedAccessors(t *testing.T) {
	r := newTestRasterizer(t, 10, 10)
	s := r.Surface()
	for _, p := range []image.Point{{-1, 0}, {0, -1}, {10, 0}, {0, 10}} {
		if s.SetPixel(p.X, p.Y, Red) {
			t.Errorf("%v should be off the surface", p)
		}
		if _, ok := s.Pixel(p.X, p.Y); ok {
			t.Errorf("%v should not be readable", p)
		}
	}
	if !s.SetPixel(9, 9, Red) {
		t.Errorf("9,9 should be settable")
	}
	if c, ok := s.Pixel(9, 9); !ok || c != Red {
		t.Errorf("expected red at 9,9 got %#x", c)
	}
}

func TestDegenerateLineIsOnePixel(t *testing.T) {
	r := newTestRasterizer(t, 20, 20)
	r.DrawLine(5, 7, 5, 7, White)
	if n := countColor(r.Surface(), White); n != 1 {
		t.Errorf("expected 1 pixel got %d", n)
	}
	if r.Surface().AtUnchecked(5, 7) != White {
		t.Errorf("wrong pixel drawn")
	}
}

var lineEnds = [][4]int{
	{0, 0, 19, 0},
	{0, 0, 0, 19},
	{0, 19, 0, 0},
	{2, 3, 17, 9},
	{2, 9, 17, 3},
	{3, 2, 9, 17},
	{9, 2, 3, 17},
	{0, 0, 19, 19},
	{19, 0, 0, 19},
	{1, 1, 18, 2},
	{4, 18, 5, 0},
	{10, 10, 0, 13},
}

func TestLineIsSymmetric(t *testing.T) {
	for _, e := range lineEnds {
		a := newTestRasterizer(t, 20, 20)
		b := newTestRasterizer(t, 20, 20)
		a.DrawLine(e[0], e[1], e[2], e[3], White)
		b.DrawLine(e[2], e[3], e[0], e[1], White)
		for i := range a.s.pix {
			if a.s.pix[i] != b.s.pix[i] {
				t.Errorf("line %v differs from its reverse at pixel %d,%d", e, i%20, i/20)
				break
			}
		}
	}
}

func TestLineCoverage(t *testing.T) {
	for _, e := range lineEnds {
		r := newTestRasterizer(t, 20, 20)
		r.DrawLine(e[0], e[1], e[2], e[3], White)
		dx, dy := abs(e[2]-e[0]), abs(e[3]-e[1])
		want := dx + 1
		if dy > dx {
			want = dy + 1
		}
		if n := countColor(r.Surface(), White); n != want {
			t.Errorf("line %v: expected %d pixels got %d", e, want, n)
		}
		if r.Surface().AtUnchecked(e[0], e[1]) != White || r.Surface().AtUnchecked(e[2], e[3]) != White {
			t.Errorf("line %v: endpoints not drawn", e)
		}
	}
}

func TestSteepLineIsContinuous(t *testing.T) {
	r := newTestRasterizer(t, 20, 20)
	r.DrawLine(3, 0, 8, 19, White)
	prev := -1
	for y := 0; y < 20; y++ {
		found := -1
		for x := 0; x < 20; x++ {
			if r.Surface().AtUnchecked(x, y) == White {
				found = x
			}
		}
		if found < 0 {
			t.Fatalf("row %d has no pixel", y)
		}
		if prev >= 0 && (found < prev || found-prev > 1) {
			t.Errorf("row %d jumps from x=%d to x=%d", y, prev, found)
		}
		prev = found
	}
}

func TestFillRectCount(t *testing.T) {
	for _, e := range [][4]int{
		{2, 3, 9, 7},
		{2, 7, 9, 3},
		{9, 7, 2, 3},
		{4, 4, 4, 4},
		{0, 5, 15, 5},
		{6, 0, 6, 15},
	} {
		r := newTestRasterizer(t, 16, 16)
		r.FillRect(e[0], e[1], e[2], e[3], Orange)
		want := (abs(e[2]-e[0]) + 1) * (abs(e[3]-e[1]) + 1)
		if n := countColor(r.Surface(), Orange); n != want {
			t.Errorf("rect %v: expected %d pixels got %d", e, want, n)
		}
	}
}

func TestDrawRectOutline(t *testing.T) {
	r := newTestRasterizer(t, 16, 16)
	r.DrawRect(2, 2, 7, 5, Yellow)
	// perimeter of a 6x4 box
	if n := countColor(r.Surface(), Yellow); n != 16 {
		t.Errorf("expected 16 pixels got %d", n)
	}
	if r.Surface().AtUnchecked(4, 3) == Yellow {
		t.Errorf("outline should not fill")
	}
}

func TestGlyphScale(t *testing.T) {
	r := newTestRasterizer(t, 64, 64)
	var g Glyph
	g[0] = 0x01 // leftmost pixel of the top row
	g[2] = 0x80 // rightmost pixel of the third row
	r.DrawGlyph(10, 10, g, 3, Green)
	if n := countColor(r.Surface(), Green); n != 18 {
		t.Errorf("expected two 3x3 squares (18 pixels) got %d", n)
	}
	if r.Surface().AtUnchecked(10, 10) != Green || r.Surface().AtUnchecked(12, 12) != Green {
		t.Errorf("first square misplaced")
	}
	if r.Surface().AtUnchecked(13, 10) == Green {
		t.Errorf("first square too wide")
	}
	if r.Surface().AtUnchecked(10+21, 10+6) != Green || r.Surface().AtUnchecked(10+23, 10+8) != Green {
		t.Errorf("second square misplaced")
	}
}

func TestTextNewlineAndHighBytes(t *testing.T) {
	r := newTestRasterizer(t, 64, 64)
	r.DrawText("\xff\x80", 0, 0, 1, White)
	if n := countColor(r.Surface(), White); n != 0 {
		t.Errorf("bytes past ascii should be blank, got %d pixels", n)
	}

	a := newTestRasterizer(t, 64, 64)
	a.DrawText("A\nA", 4, 0, 2, White)
	b := newTestRasterizer(t, 64, 64)
	b.DrawGlyph(4, 0, Font8x8['A'], 2, White)
	b.DrawGlyph(4, 16, Font8x8['A'], 2, White)
	for i := range a.s.pix {
		if a.s.pix[i] != b.s.pix[i] {
			t.Fatalf("newline should move down 16 pixels and back to x=4, differs at %d,%d", i%64, i/64)
		}
	}

	c := newTestRasterizer(t, 64, 64)
	c.DrawText("AB", 0, 0, 1, White)
	d := newTestRasterizer(t, 64, 64)
	d.DrawGlyph(8, 0, Font8x8['B'], 1, White)
	for y := 0; y < 8; y++ {
		for x := 8; x < 16; x++ {
			if c.s.AtUnchecked(x, y) != d.s.AtUnchecked(x, y) {
				t.Fatalf("second character should start at x=8")
			}
		}
	}
}

func TestDrawFunctionSkipsOffSurface(t *testing.T) {
	r := newTestRasterizer(t, 32, 16)
	r.DrawFunction(func(x int) float64 { return float64(x) - 8 }, 0, 0, Red)
	// x-8 is on the surface for x in 8..23
	if n := countColor(r.Surface(), Red); n != 16 {
		t.Errorf("expected 16 points got %d", n)
	}
	if r.Surface().AtUnchecked(8, 0) != Red || r.Surface().AtUnchecked(23, 15) != Red {
		t.Errorf("plot misplaced")
	}
}

func TestClear(t *testing.T) {
	r := newTestRasterizer(t, 8, 8)
	r.DrawPixel(1, 1, Red)
	r.Clear(MidnightBlue)
	if n := countColor(r.Surface(), MidnightBlue); n != 64 {
		t.Errorf("expected every pixel cleared, got %d", n)
	}
}

func TestColorOrder(t *testing.T) {
	if c := RGB(videocore.PixelOrderBGR, 0xff, 0xa5, 0); c != Orange {
		t.Errorf("expected orange %#x got %#x", Orange, c)
	}
	if c := RGB(videocore.PixelOrderRGB, 0xff, 0, 0); c != Blue {
		t.Errorf("red in rgb order should be stored as %#x, got %#x", Blue, c)
	}
	r, g, b := Color(0x00123456).Components(videocore.PixelOrderRGB)
	if r != 0x56 || g != 0x34 || b != 0x12 {
		t.Errorf("unexpected components %x %x %x", r, g, b)
	}
}

func TestImageInterop(t *testing.T) {
	s, err := NewSurface(make([]uint32, 16*4), 16, 4, 10, 4, videocore.PixelOrderRGB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Bounds() != image.Rect(0, 0, 10, 4) {
		t.Errorf("bounds should be the visible area, got %v", s.Bounds())
	}
	s.Set(1, 1, color.RGBA{R: 0xff, A: 0xff})
	if s.AtUnchecked(1, 1) != 0x000000ff {
		t.Errorf("red in rgb order should be stored low, got %#x", s.AtUnchecked(1, 1))
	}
	s.Set(12, 1, color.White)
	if s.AtUnchecked(12, 1) != 0 {
		t.Errorf("Set should stay inside the visible area")
	}
	if got := s.Snapshot().RGBAAt(1, 1); got != (color.RGBA{R: 0xff, A: 0xff}) {
		t.Errorf("snapshot got %v", got)
	}
}

func TestCompose(t *testing.T) {
	r := newTestRasterizer(t, 32, 32)
	r.Compose(func(dc *gg.Context) {
		dc.SetRGB(0, 0, 1)
		dc.DrawRectangle(4, 4, 8, 8)
		dc.Fill()
	})
	if c := r.Surface().AtUnchecked(8, 8); c != Blue {
		t.Errorf("expected blue inside the rectangle, got %#x", c)
	}
	if c := r.Surface().AtUnchecked(20, 20); c != Black {
		t.Errorf("transparent areas should leave the buffer alone, got %#x", c)
	}
}

func TestNewNeedsNegotiatedDescriptor(t *testing.T) {
	mem := mmio.NewMemory(1 << 20)
	if _, err := New(videocore.FrameBufferDescriptor{}, mem); errors.Cause(err) != ErrNotNegotiated {
		t.Errorf("expected ErrNotNegotiated got %v", err)
	}
	d := videocore.FrameBufferDescriptor{
		Depth: 16, PitchBytes: 128, PitchPixels: 64, Rows: 32,
		Base: 0x10000, Size: 128 * 32, Width: 64, Height: 32,
	}
	if _, err := New(d, mem); !errors.IsNotSupported(err) {
		t.Errorf("expected 16 bpp to be unsupported, got %v", err)
	}
	d.Depth, d.PitchBytes, d.Size = 32, 256, 256*32
	r, err := New(d, mem)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r.DrawPixel(3, 2, Red)
	if got := mem.Read32(0x10000 + 4*(3+2*64)); got != uint32(Red) {
		t.Errorf("pixel should land in frame buffer memory, got %#x", got)
	}
}

func TestSubRowsShareStorage(t *testing.T) {
	r := newTestRasterizer(t, 16, 16)
	strip := r.Surface().SubRows(12, 8)
	if strip.Rows() != 4 || strip.Height() != 4 {
		t.Errorf("strip should be clipped to 4 rows, got %d/%d", strip.Rows(), strip.Height())
	}
	NewWithSurface(strip).DrawPixel(2, 1, Green)
	if r.Surface().AtUnchecked(2, 13) != Green {
		t.Errorf("drawing on the strip should land in the parent")
	}
}
