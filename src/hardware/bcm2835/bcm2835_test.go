package bcm2835

import (
	"testing"

	"glimmer/src/hardware/mmio"
	"glimmer/src/hardware/rpi"
)

func TestMiniUARTWrite(t *testing.T) {
	mem := mmio.NewMemory(16)
	p := NewPeripherals(mem, rpi.Pi3)
	base := p.Base + AuxOffset

	var sent []byte
	busy := 2
	mem.Map(base+MiniUARTLineStatus, &mmio.Register{Read: func() uint32 {
		if busy > 0 {
			busy--
			return 0
		}
		return TransmitFIFOSpaceAvailable | TransmitterIdle
	}})
	mem.Map(base+MiniUARTData, &mmio.Register{Write: func(v uint32) { sent = append(sent, byte(v)) }})
	mem.Map(base+AuxEnables, &mmio.Register{})
	mem.Map(base+MiniUARTExtraControl, &mmio.Register{})

	if p.MiniUART.Enabled() {
		t.Errorf("uart should not be enabled before the boot code sets it up")
	}
	mmio.SetBits(mem, base+AuxEnables, PeripheralMiniUART)
	mmio.SetBits(mem, base+MiniUARTExtraControl, TransmitEnable|ReceiveEnable)
	if !p.MiniUART.Enabled() {
		t.Errorf("uart should be enabled")
	}

	n, err := p.MiniUART.Write([]byte("ok\n"))
	if err != nil || n != 3 {
		t.Errorf("Write returned %d, %v", n, err)
	}
	if string(sent) != "ok\r\n" {
		t.Errorf("expected ok\\r\\n on the wire but got %q", sent)
	}
	if busy != 0 {
		t.Errorf("writer did not wait for fifo space")
	}
}

func TestSysTimerHandlesWrap(t *testing.T) {
	mem := mmio.NewMemory(16)
	base := rpi.Pi3.MemoryMappedIO() + SysTimerOffset
	his := []uint32{1, 2, 2, 2}
	los := []uint32{0xFFFFFFFF, 0x10}
	mem.Map(base+SysTimerFreeRunningHigher32, &mmio.Register{Read: func() uint32 {
		v := his[0]
		his = his[1:]
		return v
	}})
	mem.Map(base+SysTimerFreeRunningLower32, &mmio.Register{Read: func() uint32 {
		v := los[0]
		los = los[1:]
		return v
	}})
	timer := NewSysTimer(mem, base)
	if got := timer.Micros(); got != 2<<32|0x10 {
		t.Errorf("expected the retried value %#x but got %#x", uint64(2<<32|0x10), got)
	}
}

func TestWaitMicros(t *testing.T) {
	mem := mmio.NewMemory(16)
	base := uintptr(0x3F003000)
	now := uint32(100)
	mem.Map(base+SysTimerFreeRunningHigher32, &mmio.Register{})
	mem.Map(base+SysTimerFreeRunningLower32, &mmio.Register{Read: func() uint32 {
		now += 10
		return now
	}})
	timer := NewSysTimer(mem, base)
	timer.WaitMicros(50)
	if now < 160 {
		t.Errorf("returned too early, clock only at %d", now)
	}
}

func TestGPIOActivityLED(t *testing.T) {
	mem := mmio.NewMemory(16)
	p := NewPeripherals(mem, rpi.Pi3)
	base := p.Base + GPIOOffset
	sel4 := &mmio.Register{}
	mem.Map(base+GPIOFuncSelect0+0x10, sel4)
	var set, clr []uint32
	mem.Map(base+GPIOOutputSet0+4, &mmio.Register{Write: func(v uint32) { set = append(set, v) }})
	mem.Map(base+GPIOOutputClear0+4, &mmio.Register{Write: func(v uint32) { clr = append(clr, v) }})
	mem.Map(base+GPIOLevel0+4, &mmio.Register{Read: func() uint32 { return 1 << 15 }})

	mem.Write32(base+GPIOFuncSelect0+0x10, 0x3f)
	if err := p.GPIO.Setup(ActivityLED, GPIOOutput); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := mem.Read32(base + GPIOFuncSelect0 + 0x10); got != 0x3f|1<<21 {
		t.Errorf("expected only pin 47's bits to change, got %#x", got)
	}
	p.GPIO.High(ActivityLED)
	p.GPIO.Low(ActivityLED)
	if len(set) != 1 || set[0] != 1<<15 || len(clr) != 1 || clr[0] != 1<<15 {
		t.Errorf("unexpected set %x clear %x", set, clr)
	}
	if !p.GPIO.Level(ActivityLED) || p.GPIO.Level(46) {
		t.Errorf("level register misread")
	}
	if err := p.GPIO.Setup(54, GPIOOutput); err == nil {
		t.Errorf("pin 54 should be refused")
	}
}
