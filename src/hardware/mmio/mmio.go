// Package mmio is the single access token for memory mapped peripherals and
// for memory shared with the VideoCore.  Everything that touches hardware
// takes a Bus, so the same drivers run on the board (Physical) and against
// simulated hardware (Memory).
package mmio

import (
	"sync/atomic"
	"unsafe"
)

// Bus reads and writes 32 bit words at physical addresses.  Implementations
// must not merge, reorder or drop accesses.
type Bus interface {
	Read32(addr uintptr) uint32
	Write32(addr uintptr, v uint32)
}

// Physical is the Bus for real hardware: addresses are dereferenced directly.
// Only meaningful on the board (or under an identity mapped MMU).
type Physical struct{}

//go:nosplit
func (Physical) Read32(addr uintptr) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(addr)))
}

//go:nosplit
func (Physical) Write32(addr uintptr, v uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(addr)), v)
}

// Words returns count words of physical memory starting at addr as a slice.
// The slice aliases the memory, it is not a copy.
func (Physical) Words(addr uintptr, count int) []uint32 {
	return unsafe.Slice((*uint32)(unsafe.Pointer(addr)), count)
}

// SetBits does a read/modify/write of the register at addr.
func SetBits(b Bus, addr uintptr, bits uint32) {
	b.Write32(addr, b.Read32(addr)|bits)
}

// ClearBits does a read/modify/write of the register at addr.
func ClearBits(b Bus, addr uintptr, bits uint32) {
	b.Write32(addr, b.Read32(addr)&^bits)
}

// HasBits is true if all of bits are set in the register at addr.
func HasBits(b Bus, addr uintptr, bits uint32) bool {
	return b.Read32(addr)&bits == bits
}
