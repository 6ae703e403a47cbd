package main

import (
	"math"

	"glimmer/src/hardware/bcm2835"
	"glimmer/src/hardware/mmio"
	"glimmer/src/hardware/rpi"
	"glimmer/src/hardware/videocore"
	"glimmer/src/lib/trust"
	"glimmer/src/raster"
)

func main() {
	var bus mmio.Physical
	p := bcm2835.NewPeripherals(bus, rpi.DefaultModel)
	trust.SetOutput(p.MiniUART)
	trust.Exit = func(int) {
		for {
			p.SysTimer.WaitMicros(1000000)
		}
	}
	// let the clocks settle before talking to the firmware
	p.SysTimer.WaitMicros(50000)
	trust.Infof("kernel logging to mini UART (serial)")

	client, err := videocore.Open(bus, rpi.DefaultModel, videocore.MailboxOptions{})
	if err != nil {
		trust.Fatalf(1, "can't open the mailbox: %v", err)
	}
	info, err := videocore.Negotiate(client, videocore.DefaultDisplayConfig())
	if err != nil {
		trust.Fatalf(1, "giving up, no frame buffer: %v", err)
	}
	r, err := raster.New(info, bus)
	if err != nil {
		trust.Fatalf(1, "can't draw on %s: %v", info, err)
	}
	r.Clear(raster.Black)
	r.FillRect(100, 100, 400, 300, raster.Red)
	r.DrawRect(90, 90, 410, 310, raster.White)
	r.DrawLine(0, 0, int(info.Width)-1, int(info.Height)-1, raster.Green)
	r.DrawLine(int(info.Width)-1, 0, 0, int(info.Height)-1, raster.Blue)
	r.DrawFunction(func(x int) float64 {
		return 100 * math.Sin(float64(x)/100)
	}, 0, int(info.Height)/2, raster.Orange)
	r.DrawText("Hello World!\nfrom the frame buffer", 500, 100, 4, raster.Yellow)

	// the rest of the screen is a log
	logger := raster.NewConsoleLogger(raster.NewWithSurface(r.Surface().SubRows(int(info.Height)/2+128, int(info.Height)/2-128)))
	if rev, err := videocore.BoardRevision(client); err == nil {
		logger.Infof("board revision   : %08x", rev)
	}
	if v, err := videocore.FirmwareVersion(client); err == nil {
		logger.Infof("firmware version : %08x", v)
	}
	if base, size, err := videocore.GetARMMemoryAndBase(client); err == nil {
		logger.Infof("ARM Memory       : 0x%x bytes @ 0x%x", size, base)
	}
	if base, size, err := videocore.GetVCMemoryAndBase(client); err == nil {
		logger.Infof("VidCore IV Memory: 0x%x bytes @ 0x%x", size, base)
	}
	if err := p.GPIO.Setup(bcm2835.ActivityLED, bcm2835.GPIOOutput); err != nil {
		trust.Warnf("no activity led: %v", err)
	}
	led := false
	for {
		if led {
			p.GPIO.Low(bcm2835.ActivityLED)
		} else {
			p.GPIO.High(bcm2835.ActivityLED)
		}
		led = !led
		temp, err := videocore.ReadSoCTemperature(client)
		if err != nil {
			trust.Warnf("can't read the temperature: %v", err)
		} else {
			logger.Infof("soc temperature  : %d.%03d C", temp/1000, temp%1000)
		}
		p.SysTimer.WaitMicros(5000000)
	}
}
