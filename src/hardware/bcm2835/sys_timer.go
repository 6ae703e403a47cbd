package bcm2835

import (
	"glimmer/src/hardware/mmio"
)

// system timer register offsets
const (
	SysTimerControlStatus       = 0x00
	SysTimerFreeRunningLower32  = 0x04
	SysTimerFreeRunningHigher32 = 0x08
	SysTimerCompare1            = 0x10
	SysTimerCompare3            = 0x18
)

const SystemTimerMatch3 = 1 << 3
const SystemTimerMatch1 = 1 << 1

// SysTimer is the 1MHz free running counter.  It is the clock for the mailbox
// timeouts and the busy wait delay.
type SysTimer struct {
	bus  mmio.Bus
	base uintptr
}

func NewSysTimer(bus mmio.Bus, base uintptr) *SysTimer {
	return &SysTimer{bus: bus, base: base}
}

// Micros returns the 64 bit counter.  The two halves are read high, low, high
// and retried if the low half wrapped in between.
func (s *SysTimer) Micros() uint64 {
	for {
		hi := s.bus.Read32(s.base + SysTimerFreeRunningHigher32)
		lo := s.bus.Read32(s.base + SysTimerFreeRunningLower32)
		if s.bus.Read32(s.base+SysTimerFreeRunningHigher32) == hi {
			return uint64(hi)<<32 | uint64(lo)
		}
	}
}

// WaitMicros busy waits for at least n microseconds.
func (s *SysTimer) WaitMicros(n uint64) {
	start := s.Micros()
	for s.Micros()-start < n {
	}
}
