package mmio

import (
	"fmt"
	"sync/atomic"
)

// Register is a simulated peripheral register.  Either func may be nil: a nil
// Read returns the last written value and a nil Write just stores.
type Register struct {
	Read  func() uint32
	Write func(v uint32)

	value uint32
}

// Memory is a simulated physical address space: a flat RAM arena starting at
// address zero plus a set of registers at arbitrary addresses.  Register
// addresses take priority over RAM.
type Memory struct {
	ram  []uint32
	regs map[uintptr]*Register
}

// NewMemory returns a simulated address space with size bytes of RAM.
func NewMemory(size int) *Memory {
	return &Memory{
		ram:  make([]uint32, (size+3)/4),
		regs: make(map[uintptr]*Register),
	}
}

// Map installs r at addr, replacing anything there.
func (m *Memory) Map(addr uintptr, r *Register) {
	m.regs[addr] = r
}

// Size is the number of bytes of RAM.
func (m *Memory) Size() int {
	return len(m.ram) * 4
}

func (m *Memory) ramIndex(addr uintptr) int {
	if addr&3 != 0 {
		panic(fmt.Sprintf("mmio: unaligned word access at %#x", addr))
	}
	i := int(addr / 4)
	if i >= len(m.ram) {
		panic(fmt.Sprintf("mmio: access at %#x is outside simulated memory (%#x bytes)", addr, m.Size()))
	}
	return i
}

func (m *Memory) Read32(addr uintptr) uint32 {
	if r, ok := m.regs[addr]; ok {
		if r.Read != nil {
			return r.Read()
		}
		return r.value
	}
	return atomic.LoadUint32(&m.ram[m.ramIndex(addr)])
}

func (m *Memory) Write32(addr uintptr, v uint32) {
	if r, ok := m.regs[addr]; ok {
		r.value = v
		if r.Write != nil {
			r.Write(v)
		}
		return
	}
	atomic.StoreUint32(&m.ram[m.ramIndex(addr)], v)
}

// Words returns count words of RAM starting at addr.  Like Physical.Words the
// result aliases the memory.
func (m *Memory) Words(addr uintptr, count int) []uint32 {
	i := m.ramIndex(addr)
	if i+count > len(m.ram) {
		panic(fmt.Sprintf("mmio: %d words at %#x overrun simulated memory", count, addr))
	}
	return m.ram[i : i+count : i+count]
}
