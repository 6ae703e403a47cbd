package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"glimmer/src/hardware/rpi"
	"glimmer/src/hardware/videocore"
	"glimmer/src/lib/trust"
	"glimmer/src/tools/fbsim"
)

var modelFlag = flag.String("model", rpi.DefaultModel.String(), "board to simulate: rpi1, rpi2, rpi3 or rpi4")
var widthFlag = flag.Uint("w", 1920, "display width")
var heightFlag = flag.Uint("h", 1080, "display height")
var orderFlag = flag.String("order", "bgr", "pixel order to ask for: bgr or rgb")
var outFlag = flag.String("o", "fb.png", "image to write, .png or .bmp")
var viewFlag = flag.Bool("view", false, "open a window on the frame buffer instead of writing an image")
var timeoutFlag = flag.Duration("timeout", time.Second, "mailbox timeout, 0 waits forever")
var vcioFlag = flag.String("vcio", "", "ask a real board's firmware through this vcio device instead of simulating")
var verbose = flag.Int("v", 0, "verbosity level: 0 terse (default), 1 debug info")

func usage() {
	fmt.Fprintf(os.Stderr, "usage: fbsim [flags]\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.Parse()
	if flag.NArg() != 0 {
		usage()
	}
	if *verbose > 0 {
		// error implies everything below it, debug included
		trust.SetLevel(trust.ErrorMask)
	}
	if *vcioFlag != "" {
		if err := board(*vcioFlag); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}
	model, err := rpi.ParseModel(*modelFlag)
	if err != nil {
		log.Fatalf("%v", err)
	}
	order, err := videocore.ParsePixelOrder(*orderFlag)
	if err != nil {
		log.Fatalf("%v", err)
	}

	m, err := fbsim.NewMachine(model, 0, *timeoutFlag)
	if err != nil {
		log.Fatalf("unable to start simulated %s: %v", model, err)
	}
	cfg := videocore.DefaultDisplayConfig()
	cfg.Width, cfg.Height = uint32(*widthFlag), uint32(*heightFlag)
	cfg.PixelOrder = order
	r, d, err := m.Display(cfg)
	if err != nil {
		log.Fatalf("unable to set up the frame buffer: %v", err)
	}
	info := fbsim.Info{Descriptor: d}
	if temp, err := videocore.ReadSoCTemperature(m.Client); err != nil {
		trust.Warnf("no temperature: %v", err)
	} else {
		info.Temperature = temp
	}
	fbsim.DrawScene(r, info)

	if *viewFlag {
		if err := view(m, r, info); err != nil {
			log.Fatalf("viewer: %v", err)
		}
		return
	}
	if err := fbsim.Export(r.Surface(), *outFlag); err != nil {
		log.Fatalf("%v", err)
	}
	trust.Infof("wrote %s (%s)", *outFlag, d)
}

// board prints what the firmware of the Pi we are running on says about
// itself.  The frame buffer is left alone, Linux owns it.
func board(path string) error {
	v, err := videocore.OpenVcio(path)
	if err != nil {
		return err
	}
	defer v.Close()
	c := videocore.NewClient(v)
	rev, err := videocore.BoardRevision(c)
	if err != nil {
		return err
	}
	fw, err := videocore.FirmwareVersion(c)
	if err != nil {
		return err
	}
	w, h, err := videocore.PhysicalDisplaySize(c)
	if err != nil {
		return err
	}
	fmt.Printf("board revision   : %08x\n", rev)
	fmt.Printf("firmware version : %08x\n", fw)
	fmt.Printf("display          : %dx%d\n", w, h)
	if temp, err := videocore.ReadSoCTemperature(c); err != nil {
		trust.Warnf("no temperature: %v", err)
	} else if limit, err := videocore.ReadMaxTemperature(c); err == nil {
		fmt.Printf("soc temperature  : %d.%03d C (limit %d C)\n", temp/1000, temp%1000, limit/1000)
	}
	return nil
}
