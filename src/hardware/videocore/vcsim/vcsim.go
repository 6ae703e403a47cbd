// Package vcsim is a VideoCore firmware that lives in simulated memory.  It
// answers the property channel of the mailbox well enough to negotiate a frame
// buffer and read the sensors, so the rest of the stack can run off the board.
package vcsim

import (
	"glimmer/src/hardware/bcm2835"
	"glimmer/src/hardware/mmio"
	"glimmer/src/hardware/rpi"
	"glimmer/src/hardware/videocore"
	"glimmer/src/lib/trust"
)

// Firmware is the simulated VideoCore.  The exported fields can be changed
// between exchanges to shape the answers.
type Firmware struct {
	// Stall makes the mailbox look full and never answer.
	Stall bool
	// FailTags are answered with the error code and left unprocessed.
	FailTags map[uint32]bool
	// ForceDepth, when non zero, is the depth the firmware claims it set.
	ForceDepth uint32
	// IgnorePixelOrder makes the set pixel order tag report the current
	// order instead of the requested one.
	IgnorePixelOrder bool

	Temperature      uint32
	MaxTemperature   uint32
	BoardRevision    uint32
	FirmwareRevision uint32
	// FrameBufferAt is where allocations start, as a physical address.
	FrameBufferAt uint32
	// Alias is put on the top of addresses handed back, like the real
	// firmware does with 0xC0000000.
	Alias uint32
	// PitchPadding is added to every row, in bytes.
	PitchPadding uint32
	// VCMemorySize is reported as the VideoCore's share after the ARM's.
	VCMemorySize uint32

	// Requests counts command buffers processed.
	Requests int
	// Now is the simulated system timer, it moves on by one microsecond
	// every time its low half is read.
	Now uint64

	mem     *mmio.Memory
	base    uintptr
	pending []uint32

	width, height   uint32
	vwidth, vheight uint32
	depth           uint32
	order           uint32
}

// New installs the firmware's mailbox on mem at the address model uses.
func New(mem *mmio.Memory, model rpi.Model) *Firmware {
	f := &Firmware{
		FailTags:         map[uint32]bool{},
		Temperature:      47234,
		MaxTemperature:   85000,
		BoardRevision:    0xa02082,
		FirmwareRevision: 0x5f4bb2a1,
		FrameBufferAt:    0x00100000,
		Alias:            rpi.BusAliasUncached,
		VCMemorySize:     0x04000000,
		mem:              mem,
		base:             bcm2835.NewPeripherals(mem, model).Mailbox(),
		width:            1024,
		height:           768,
		vwidth:           1024,
		vheight:          768,
		depth:            16,
	}
	mem.Map(f.base+videocore.MailboxRead, &mmio.Register{Read: f.read})
	mem.Map(f.base+videocore.MailboxStatus, &mmio.Register{Read: f.status})
	mem.Map(f.base+videocore.MailboxWrite, &mmio.Register{Write: f.write})
	timer := model.MemoryMappedIO() + bcm2835.SysTimerOffset
	mem.Map(timer+bcm2835.SysTimerFreeRunningLower32, &mmio.Register{Read: func() uint32 {
		f.Now++
		return uint32(f.Now)
	}})
	mem.Map(timer+bcm2835.SysTimerFreeRunningHigher32, &mmio.Register{Read: func() uint32 {
		return uint32(f.Now >> 32)
	}})
	return f
}

// Base is the address of the mailbox registers.
func (f *Firmware) Base() uintptr {
	return f.base
}

// Inject queues a word on the read side as if another channel had sent it.
func (f *Firmware) Inject(ch uint8, word uint32) {
	f.pending = append(f.pending, (word&^0xf)|uint32(ch&0xf))
}

// Pending is the number of words waiting to be read.
func (f *Firmware) Pending() int {
	return len(f.pending)
}

// PhysicalSize is the display size last set.
func (f *Firmware) PhysicalSize() (uint32, uint32) {
	return f.width, f.height
}

func (f *Firmware) status() uint32 {
	if f.Stall {
		return videocore.MailboxFull | videocore.MailboxEmpty
	}
	if len(f.pending) == 0 {
		return videocore.MailboxEmpty
	}
	return 0
}

func (f *Firmware) read() uint32 {
	if len(f.pending) == 0 {
		return 0
	}
	v := f.pending[0]
	f.pending = f.pending[1:]
	return v
}

func (f *Firmware) write(v uint32) {
	if f.Stall {
		return
	}
	if v&0xf == videocore.PropertyChannel {
		f.process(uintptr(rpi.BusToPhysical(v &^ 0xf)))
	}
	f.pending = append(f.pending, v)
}

func (f *Firmware) word(addr uintptr, i int) uint32 {
	return f.mem.Read32(addr + uintptr(4*i))
}

func (f *Firmware) setWord(addr uintptr, i int, v uint32) {
	f.mem.Write32(addr+uintptr(4*i), v)
}

// process walks the command buffer at addr and answers every tag it knows.
func (f *Firmware) process(addr uintptr) {
	f.Requests++
	size := int(f.word(addr, 0))
	words := size / 4
	code := uint32(videocore.MailboxResponse)
	for i := 2; i < words; {
		id := f.word(addr, i)
		if id == videocore.MailboxTagLast {
			break
		}
		capBytes := f.word(addr, i+1)
		value := addr + uintptr(4*(i+3))
		if f.FailTags[id] {
			code = videocore.MailboxResponseError
		} else if resp, ok := f.answer(id, value); ok {
			for j, r := range resp {
				if uint32(4*j) >= capBytes {
					break
				}
				f.setWord(value, j, r)
			}
			f.setWord(addr, i+2, videocore.MailboxResponse|uint32(4*len(resp)))
		} else {
			trust.Debugf("vcsim: tag %#08x not understood", id)
		}
		i += 3 + int(capBytes/4)
	}
	f.setWord(addr, 1, code)
}

func (f *Firmware) pitch() uint32 {
	return f.vwidth*(f.depth/8) + f.PitchPadding
}

func (f *Firmware) answer(id uint32, value uintptr) ([]uint32, bool) {
	arg := func(i int) uint32 { return f.word(value, i) }
	switch id {
	case videocore.MailboxTagFirmwareVersion:
		return []uint32{f.FirmwareRevision}, true
	case videocore.MailboxTagBoardRevision:
		return []uint32{f.BoardRevision}, true
	case videocore.MailboxTagGetARMMemory:
		return []uint32{0, uint32(f.mem.Size())}, true
	case videocore.MailboxTagGetVCMemory:
		return []uint32{uint32(f.mem.Size()), f.VCMemorySize}, true
	case videocore.MailboxTagGetTemperature:
		return []uint32{arg(0), f.Temperature}, true
	case videocore.MailboxTagGetMaxTemperature:
		return []uint32{arg(0), f.MaxTemperature}, true
	case videocore.MailboxTagGetPhysicalWidthHeight:
		return []uint32{f.width, f.height}, true
	case videocore.MailboxTagSetPhysicalWidthHeight:
		f.width, f.height = arg(0), arg(1)
		return []uint32{f.width, f.height}, true
	case videocore.MailboxTagSetVirtualWidthHeight:
		f.vwidth, f.vheight = arg(0), arg(1)
		return []uint32{f.vwidth, f.vheight}, true
	case videocore.MailboxTagSetDepth:
		f.depth = arg(0)
		if f.ForceDepth != 0 {
			f.depth = f.ForceDepth
		}
		return []uint32{f.depth}, true
	case videocore.MailboxTagSetPixelOrder:
		if !f.IgnorePixelOrder {
			f.order = arg(0)
		}
		return []uint32{f.order}, true
	case videocore.MailboxTagSetVirtualOffset:
		return []uint32{arg(0), arg(1)}, true
	case videocore.MailboxTagAllocateBuffer:
		return f.allocate(arg(0)), true
	case videocore.MailboxTagGetPitch:
		return []uint32{f.pitch()}, true
	}
	return nil, false
}

// allocate hands out the frame buffer, or 0,0 if it does not fit.
func (f *Firmware) allocate(alignment uint32) []uint32 {
	base := f.FrameBufferAt
	if alignment > 1 {
		base = (base + alignment - 1) &^ (alignment - 1)
	}
	size := f.pitch() * f.vheight
	if size == 0 || uint64(base)+uint64(size) > uint64(f.mem.Size()) {
		trust.Warnf("vcsim: cannot allocate %d bytes at %#x", size, base)
		return []uint32{0, 0}
	}
	return []uint32{base | (f.Alias & rpi.BusAliasMask), size}
}
