package fbsim

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"

	"glimmer/src/hardware/rpi"
	"glimmer/src/hardware/videocore"
	"glimmer/src/raster"
)

func newDisplay(t *testing.T, w, h uint32) (*Machine, *raster.Rasterizer, videocore.FrameBufferDescriptor) {
	t.Helper()
	m, err := NewMachine(rpi.Pi3, 0, time.Second)
	if err != nil {
		t.Fatalf("unable to make machine: %v", err)
	}
	cfg := videocore.DefaultDisplayConfig()
	cfg.Width, cfg.Height = w, h
	r, d, err := m.Display(cfg)
	if err != nil {
		t.Fatalf("unable to negotiate: %v", err)
	}
	return m, r, d
}

func TestSceneAndExport(t *testing.T) {
	m, r, d := newDisplay(t, 320, 240)
	temp, err := videocore.ReadSoCTemperature(m.Client)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	DrawScene(r, Info{Descriptor: d, Temperature: temp})
	if c := r.Surface().AtUnchecked(50, 30); c != raster.Red {
		t.Errorf("expected red box, got %#x", c)
	}

	dir := t.TempDir()
	pngPath := filepath.Join(dir, "out.png")
	if err := Export(r.Surface(), pngPath); err != nil {
		t.Fatalf("png export: %v", err)
	}
	fp, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer fp.Close()
	img, err := png.Decode(fp)
	if err != nil {
		t.Fatalf("png decode: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Errorf("unexpected png size %v", img.Bounds())
	}
	if r8, g8, b8, _ := img.At(50, 30).RGBA(); r8>>8 != 0xff || g8 != 0 || b8 != 0 {
		t.Errorf("expected red in the png, got %x %x %x", r8, g8, b8)
	}

	bmpPath := filepath.Join(dir, "out.bmp")
	if err := Export(r.Surface(), bmpPath); err != nil {
		t.Fatalf("bmp export: %v", err)
	}
	bp, err := os.Open(bmpPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer bp.Close()
	if _, err := bmp.Decode(bp); err != nil {
		t.Errorf("bmp decode: %v", err)
	}

	if err := Export(r.Surface(), filepath.Join(dir, "out.gif")); err == nil {
		t.Errorf("expected gif to be refused")
	}
}

func TestMachineOnPi4(t *testing.T) {
	m, err := NewMachine(rpi.Pi4, 0, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, d, err := m.Display(videocore.DefaultDisplayConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.PitchPixels != 1920 || d.Rows != 1080 {
		t.Errorf("unexpected geometry %s", d)
	}
}
