package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tty "github.com/mattn/go-tty"
	"golang.org/x/term"

	"glimmer/src/tools/serialmon"
)

var helpFlag = flag.Bool("h", false, "get usage info")
var colorFlag = flag.Bool("color", true, "color log levels when stdout is a terminal")
var forwardFlag = flag.Bool("i", false, "forward keystrokes on stdin to the board")
var lineMax = flag.Int("max", 512, "longest line kept, the rest is dropped")

func usage() {
	fmt.Fprintf(os.Stderr, "usage: serialmon [flags] /dev/ttyUSB0\n")
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.Parse()
	if *helpFlag || flag.NArg() != 1 {
		usage()
	}
	ttyObj, err := tty.OpenDevice(flag.Arg(0))
	if err != nil {
		log.Fatalf("unable to open %s: %v", flag.Arg(0), err)
	}
	defer ttyObj.Close()
	restore := ttyObj.MustRaw()
	defer restore()

	if *forwardFlag {
		go forward(ttyObj)
	}

	color := *colorFlag && term.IsTerminal(int(os.Stdout.Fd()))
	lines := serialmon.NewLineReader(ttyObj.Input(), *lineMax)
	for {
		line, err := lines.ReadLine()
		if color {
			line = serialmon.Colorize(line)
		}
		if line != "" || err == nil {
			fmt.Println(line)
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Fatalf("read failed: %v", err)
		}
	}
}

// forward copies stdin to the board a byte at a time.  Stdin is put in raw
// mode so nothing is echoed twice.
func forward(t *tty.TTY) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		io.Copy(t.Output(), os.Stdin)
		return
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		log.Printf("stdin stays cooked: %v", err)
		io.Copy(t.Output(), os.Stdin)
		return
	}
	defer term.Restore(fd, old)
	buf := make([]byte, 1)
	for {
		if _, err := os.Stdin.Read(buf); err != nil {
			return
		}
		if buf[0] == 0x1d { // ctrl-]
			term.Restore(fd, old)
			os.Exit(0)
		}
		t.Output().Write(buf)
	}
}
