// Package fbsim runs the frame buffer stack against simulated memory and the
// simulated VideoCore firmware, so drawing code can be looked at on a host.
package fbsim

import (
	"time"

	"github.com/juju/errors"

	"glimmer/src/hardware/mmio"
	"glimmer/src/hardware/rpi"
	"glimmer/src/hardware/videocore"
	"glimmer/src/hardware/videocore/vcsim"
	"glimmer/src/lib/trust"
	"glimmer/src/raster"
)

// DefaultRAM is enough for a 1920x1200 32 bit frame buffer above the 1MB mark.
const DefaultRAM = 16 << 20

// scratch is where the property command buffer goes, the same place the
// kernel's stack used to start.
const scratch = 0x8000

// Machine is a simulated board with the property interface open.
type Machine struct {
	Model    rpi.Model
	Mem      *mmio.Memory
	Firmware *vcsim.Firmware
	Client   *videocore.Client
}

func NewMachine(model rpi.Model, ram int, timeout time.Duration) (*Machine, error) {
	if ram <= 0 {
		ram = DefaultRAM
	}
	mem := mmio.NewMemory(ram)
	fw := vcsim.New(mem, model)
	c, err := videocore.Open(mem, model, videocore.MailboxOptions{Timeout: timeout, Scratch: scratch})
	if err != nil {
		return nil, errors.Trace(err)
	}
	return &Machine{Model: model, Mem: mem, Firmware: fw, Client: c}, nil
}

// Display negotiates cfg and maps the result.
func (m *Machine) Display(cfg videocore.DisplayConfig) (*raster.Rasterizer, videocore.FrameBufferDescriptor, error) {
	cfg.Model = m.Model
	d, err := videocore.Negotiate(m.Client, cfg)
	if err != nil {
		return nil, d, errors.Trace(err)
	}
	r, err := raster.New(d, m.Mem)
	if err != nil {
		return nil, d, errors.Trace(err)
	}
	trust.Statsf("fbsim", "%d property requests, timer at %dus", m.Firmware.Requests, m.Firmware.Now)
	return r, d, nil
}
