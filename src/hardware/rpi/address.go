package rpi

import (
	"github.com/juju/errors"
)

// ErrAddressTranslation is returned when a bus address does not land in RAM
// once the alias bits are removed.
var ErrAddressTranslation = errors.New("rpi: bus address outside of ram")

// The VideoCore sees RAM four times, the top two bits of a bus address pick
// the cache behaviour of the alias:
//  0x0 L1 and L2 cached
//  0x4 L2 cache coherent
//  0x8 L2 cached only
//  0xC uncached
const (
	BusAliasMask     = uint32(0xC0000000)
	BusAliasCached   = uint32(0x00000000)
	BusAliasCoherent = uint32(0x40000000)
	BusAliasL2Only   = uint32(0x80000000)
	BusAliasUncached = uint32(0xC0000000)
)

// BusToPhysical strips the alias selector, 0x3FFFFFFF mask.
func BusToPhysical(bus uint32) uint32 {
	return bus &^ BusAliasMask
}

// PhysicalToBus puts alias on top of a physical address.  The physical address
// must not already use the alias bits.
func PhysicalToBus(phys uint32, alias uint32) (uint32, error) {
	if phys&BusAliasMask != 0 {
		return 0, errors.Annotatef(ErrAddressTranslation, "physical %#x collides with the alias bits", phys)
	}
	return phys | (alias & BusAliasMask), nil
}

// TranslateRegion converts a bus region handed out by the firmware to a CPU
// physical address, checking that [phys, phys+size) is ordinary RAM for the
// given model.
func (m Model) TranslateRegion(bus uint32, size uint32) (uint32, error) {
	phys := BusToPhysical(bus)
	if phys == 0 {
		return 0, errors.Annotatef(ErrAddressTranslation, "bus address %#x is null", bus)
	}
	if uint64(phys)+uint64(size) > uint64(m.RAMCeiling()) {
		return 0, errors.Annotatef(ErrAddressTranslation, "bus %#x (+%#x) ends past %#x on %s",
			bus, size, m.RAMCeiling(), m)
	}
	return phys, nil
}
