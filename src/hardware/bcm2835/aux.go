package bcm2835

import (
	"glimmer/src/hardware/mmio"
)

// aux register offsets, we only need the ones to push bytes out the mini uart.
// Configuring the uart (gpio alt functions, baud) is done by the boot code.
const (
	AuxEnables           = 0x04
	MiniUARTData         = 0x40 //8 bits wide
	MiniUARTLineStatus   = 0x54 //readonly
	MiniUARTExtraControl = 0x60
)

// mini uart: peripheral enable
const PeripheralMiniUART = 1 << 0

// mini uart: extra control bitfields
const ReceiveEnable = 1 << 0
const TransmitEnable = 1 << 1

// mini uart: line status register bitfields
const ReceivedDataAvailable = 1 << 0
const ReceivedDataOverrun = 1 << 1
const TransmitFIFOSpaceAvailable = 1 << 5
const TransmitterIdle = 1 << 6

// MiniUART is the diagnostic text channel.  It is an io.Writer so it can be
// handed to trust.SetOutput.
type MiniUART struct {
	bus  mmio.Bus
	base uintptr
}

func NewMiniUART(bus mmio.Bus, base uintptr) *MiniUART {
	return &MiniUART{bus: bus, base: base}
}

// Enabled is false until the boot code has turned the mini uart transmitter on.
func (u *MiniUART) Enabled() bool {
	return mmio.HasBits(u.bus, u.base+AuxEnables, PeripheralMiniUART) &&
		mmio.HasBits(u.bus, u.base+MiniUARTExtraControl, TransmitEnable)
}

func (u *MiniUART) WriteByte(b byte) error {
	for !mmio.HasBits(u.bus, u.base+MiniUARTLineStatus, TransmitFIFOSpaceAvailable) {
	}
	u.bus.Write32(u.base+MiniUARTData, uint32(b))
	return nil
}

// Write sends p, turning \n into \r\n for the terminal on the other end.
func (u *MiniUART) Write(p []byte) (int, error) {
	for _, b := range p {
		if b == '\n' {
			_ = u.WriteByte('\r')
		}
		_ = u.WriteByte(b)
	}
	return len(p), nil
}
