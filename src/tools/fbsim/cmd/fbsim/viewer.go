package main

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"glimmer/src/hardware/videocore"
	"glimmer/src/lib/trust"
	"glimmer/src/raster"
	"glimmer/src/tools/fbsim"
)

// viewer shows the simulated frame buffer in a window.  Every couple of
// seconds it asks the firmware for the temperature again and prints it on a
// console line at the bottom, like a board that logs to its screen would.
type viewer struct {
	m       *fbsim.Machine
	r       *raster.Rasterizer
	console *raster.FBConsole
	pixels  []byte
	last    time.Time
}

func view(m *fbsim.Machine, r *raster.Rasterizer, info fbsim.Info) error {
	s := r.Surface()
	// the console gets a two line strip above the bottom border
	strip := raster.NewWithSurface(s.SubRows(s.Height()-20, 16))
	v := &viewer{m: m, r: r, pixels: make([]byte, 4*s.Width()*s.Height())}
	v.console = raster.NewFBConsole(strip, raster.White, raster.MidnightBlue, 1)
	ebiten.SetWindowSize(s.Width()/2, s.Height()/2)
	ebiten.SetWindowTitle(fmt.Sprintf("fbsim %s", info.Descriptor))
	ebiten.SetWindowResizable(true)
	return ebiten.RunGame(v)
}

func (v *viewer) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) || ebiten.IsKeyPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	if time.Since(v.last) < 2*time.Second {
		return nil
	}
	v.last = time.Now()
	v.m.Firmware.Temperature += 250
	temp, err := videocore.ReadSoCTemperature(v.m.Client)
	if err != nil {
		trust.Warnf("temperature: %v", err)
		return nil
	}
	v.console.Printf("%s soc %d.%03d C\n", v.last.Format("15:04:05"), temp/1000, temp%1000)
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	img := v.r.Surface().Snapshot()
	copy(v.pixels, img.Pix)
	screen.WritePixels(v.pixels)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	s := v.r.Surface()
	return s.Width(), s.Height()
}
