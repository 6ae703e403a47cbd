package raster

import (
	"fmt"
	"testing"
)

func TestConsoleWritesGlyphs(t *testing.T) {
	r := newTestRasterizer(t, 32, 16)
	con := NewFBConsole(r, White, Black, 1)
	fmt.Fprint(con, "A")
	want := newTestRasterizer(t, 32, 16)
	want.DrawGlyph(0, 0, Font8x8['A'], 1, White)
	for i := range r.s.pix {
		if r.s.pix[i] != want.s.pix[i] {
			t.Fatalf("console output differs at %d,%d", i%32, i/32)
		}
	}
	if x, y := con.Cursor(); x != 1 || y != 0 {
		t.Errorf("expected cursor at 1,0 got %d,%d", x, y)
	}
}

func TestConsoleScrolls(t *testing.T) {
	r := newTestRasterizer(t, 32, 16)
	con := NewFBConsole(r, White, Black, 1)
	con.Printf("A\nB\n")
	if x, y := con.Cursor(); x != 0 || y != 1 {
		t.Errorf("expected cursor at 0,1 got %d,%d", x, y)
	}
	// "A" scrolled off the top, "B" now on the first line and the last
	// line blank
	want := newTestRasterizer(t, 32, 16)
	want.DrawGlyph(0, 0, Font8x8['B'], 1, White)
	for i := range r.s.pix {
		if r.s.pix[i] != want.s.pix[i] {
			t.Fatalf("scrolled output differs at %d,%d", i%32, i/32)
		}
	}
}

func TestConsoleDropsPastRightEdge(t *testing.T) {
	r := newTestRasterizer(t, 16, 8)
	con := NewFBConsole(r, White, Black, 1)
	con.Write([]byte("ABCD\r"))
	want := newTestRasterizer(t, 16, 8)
	want.DrawText("AB", 0, 0, 1, White)
	for i := range r.s.pix {
		if r.s.pix[i] != want.s.pix[i] {
			t.Fatalf("expected only two characters, differs at %d,%d", i%16, i/16)
		}
	}
}

func TestConsoleLogger(t *testing.T) {
	r := newTestRasterizer(t, 64, 64)
	log := NewConsoleLogger(r)
	log.Errorf("x")
	if countColor(r.Surface(), White) == 0 {
		t.Errorf("expected the log line on screen")
	}
}
