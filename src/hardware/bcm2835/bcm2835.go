package bcm2835

import (
	"glimmer/src/hardware/mmio"
	"glimmer/src/hardware/rpi"
)

// Offsets of the peripherals we use from the start of the peripheral window.
const (
	SysTimerOffset = 0x00003000
	MailboxOffset  = 0x0000B880
	GPIOOffset     = 0x00200000
	AuxOffset      = 0x00215000
)

// Peripherals is the set of register blocks reachable through one bus.  It is
// the thing to pass around; there are no globals pointing at hardware.
type Peripherals struct {
	Bus      mmio.Bus
	Base     uintptr
	SysTimer *SysTimer
	MiniUART *MiniUART
	GPIO     *GPIO
}

func NewPeripherals(bus mmio.Bus, model rpi.Model) *Peripherals {
	base := model.MemoryMappedIO()
	return &Peripherals{
		Bus:      bus,
		Base:     base,
		SysTimer: NewSysTimer(bus, base+SysTimerOffset),
		MiniUART: NewMiniUART(bus, base+AuxOffset),
		GPIO:     NewGPIO(bus, base+GPIOOffset),
	}
}

// Mailbox is the address of the VideoCore mailbox registers.
func (p *Peripherals) Mailbox() uintptr {
	return p.Base + MailboxOffset
}
