package raster

import (
	"fmt"

	"glimmer/src/lib/trust"
)

// NewConsoleLogger puts a text console on the frame buffer and returns a
// logger that writes to it.
func NewConsoleLogger(r *Rasterizer) *trust.Logger {
	return trust.NewLogger(NewFBConsole(r, White, Black, 1))
}

// FBConsole is a dumb terminal on the frame buffer: no wrapping, characters
// past the right edge are dropped, and it scrolls a whole text line at a time
// when the cursor runs off the bottom.
type FBConsole struct {
	r        *Rasterizer
	fg, bg   Color
	scale    int
	currentX int
	currentY int
	maxX     int
	maxY     int
}

// NewFBConsole allows you to put a console on any rasterizer, but it's not
// probably what you want.  NewConsoleLogger is probably better.
func NewFBConsole(r *Rasterizer, fg, bg Color, scale int) *FBConsole {
	if scale < 1 {
		scale = 1
	}
	s := r.Surface()
	return &FBConsole{r: r, fg: fg, bg: bg, scale: scale,
		maxX: s.Width() / (8 * scale),
		maxY: s.Height() / (8 * scale),
	}
}

// Cursor is the column and line the next character goes to.
func (f *FBConsole) Cursor() (int, int) {
	return f.currentX, f.currentY
}

func (f *FBConsole) cell() int {
	return 8 * f.scale
}

// Write displays p on screen, it never fails.
func (f *FBConsole) Write(p []byte) (int, error) {
	for _, c := range p {
		switch c {
		case '\r':
			//ignored
		case '\n':
			for clr := f.currentX; clr < f.maxX; clr++ {
				f.blank(clr)
			}
			f.currentX = 0
			f.incrementY()
		default:
			if f.currentX < f.maxX { //don't bother drawing stuff too far right
				f.blank(f.currentX)
				f.r.DrawGlyph(f.currentX*f.cell(), f.currentY*f.cell(), GlyphFor(c), f.scale, f.fg)
			}
			f.currentX++
		}
	}
	return len(p), nil
}

func (f *FBConsole) blank(col int) {
	x, y := col*f.cell(), f.currentY*f.cell()
	f.r.FillRect(x, y, x+f.cell()-1, y+f.cell()-1, f.bg)
}

func (f *FBConsole) Printf(format string, params ...interface{}) {
	fmt.Fprintf(f, format, params...)
}

func (f *FBConsole) incrementY() {
	f.currentY++
	if f.currentY == f.maxY {
		f.r.Surface().ScrollUp(f.cell(), f.bg)
		f.currentY--
	}
}
