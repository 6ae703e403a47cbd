package bcm2835

import (
	"github.com/juju/errors"

	"glimmer/src/hardware/mmio"
)

// GPIO register offsets from the start of the gpio block
const (
	GPIOFuncSelect0        = 0x00 //0x00,04,08,0C,10, and 14
	GPIOOutputSet0         = 0x1C
	GPIOOutputClear0       = 0x28
	GPIOLevel0             = 0x34
	GPIOPullUpDownEnable   = 0x94
	GPIOPullUpDownEnClock0 = 0x98
)

type GPIOMode uint32 //3 bits wide
const GPIOInput GPIOMode = 0
const GPIOOutput GPIOMode = 1
const GPIOAltFunc5 GPIOMode = 2
const GPIOAltFunc4 GPIOMode = 3
const GPIOAltFunc0 GPIOMode = 4
const GPIOAltFunc1 GPIOMode = 5
const GPIOAltFunc2 GPIOMode = 6
const GPIOAltFunc3 GPIOMode = 7

// GPIOPins is the number of pins on the bcm2835 family.
const GPIOPins = 54

// ActivityLED is the pin of the green ACT led on the boards that wire it to
// the SoC directly.
const ActivityLED = 47

type GPIO struct {
	bus  mmio.Bus
	base uintptr
}

func NewGPIO(bus mmio.Bus, base uintptr) *GPIO {
	return &GPIO{bus: bus, base: base}
}

func checkPin(pin uint8) error {
	if pin >= GPIOPins {
		return errors.NotValidf("gpio pin %d", pin)
	}
	return nil
}

// Setup sets the function of pin, 3 bits each and ten pins to a register.
func (g *GPIO) Setup(pin uint8, mode GPIOMode) error {
	if err := checkPin(pin); err != nil {
		return err
	}
	addr := g.base + GPIOFuncSelect0 + uintptr(pin/10)*4
	shift := (pin % 10) * 3
	current := g.bus.Read32(addr)
	current &^= 7 << shift
	g.bus.Write32(addr, current|uint32(mode)<<shift)
	return nil
}

// High and Low write the set and clear registers, which only act on the bits
// that are one, so there is no read-modify-write.
func (g *GPIO) High(pin uint8) error {
	if err := checkPin(pin); err != nil {
		return err
	}
	g.bus.Write32(g.base+GPIOOutputSet0+uintptr(pin/32)*4, 1<<(pin%32))
	return nil
}

func (g *GPIO) Low(pin uint8) error {
	if err := checkPin(pin); err != nil {
		return err
	}
	g.bus.Write32(g.base+GPIOOutputClear0+uintptr(pin/32)*4, 1<<(pin%32))
	return nil
}

// Level is the current state of the pin.
func (g *GPIO) Level(pin uint8) bool {
	if checkPin(pin) != nil {
		return false
	}
	return g.bus.Read32(g.base+GPIOLevel0+uintptr(pin/32)*4)&(1<<(pin%32)) != 0
}
