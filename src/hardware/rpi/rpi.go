package rpi

import (
	"github.com/juju/errors"
)

//This file is for things that differ between the *models* of Raspberry Pi.
//Only the rpi3 used to be supported; the peripheral window moved on
//every model so it is a value now, not a constant.

type Model int

const (
	Pi1 Model = iota + 1
	Pi2
	Pi3
	Pi4
)

// Pi3 is what we run on unless told otherwise (also what qemu -M raspi3b is).
const DefaultModel = Pi3

func (m Model) String() string {
	switch m {
	case Pi1:
		return "rpi1"
	case Pi2:
		return "rpi2"
	case Pi3:
		return "rpi3"
	case Pi4:
		return "rpi4"
	}
	return "unknown"
}

// ParseModel accepts the names produced by String, plus the bare digit.
func ParseModel(s string) (Model, error) {
	for _, m := range []Model{Pi1, Pi2, Pi3, Pi4} {
		if s == m.String() || s == m.String()[3:] {
			return m, nil
		}
	}
	return 0, errors.NotValidf("raspberry pi model %q", s)
}

// MemoryMappedIO is the ARM physical address of the peripheral window.
func (m Model) MemoryMappedIO() uintptr {
	switch m {
	case Pi1:
		return 0x20000000
	case Pi4:
		return 0xFE000000
	}
	return 0x3F000000
}

// RAMCeiling is the first physical address that is not ordinary RAM as seen
// by the VideoCore: everything the firmware hands us has to be below it.
func (m Model) RAMCeiling() uint32 {
	if m == Pi4 {
		return 0x40000000
	}
	return uint32(m.MemoryMappedIO())
}
