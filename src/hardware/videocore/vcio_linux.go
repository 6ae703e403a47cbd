//go:build linux

package videocore

import (
	"unsafe"

	"github.com/juju/errors"
	"golang.org/x/sys/unix"
)

// DefaultVcioPath is the character device the raspberry pi kernel exposes for
// the property interface.
const DefaultVcioPath = "/dev/vcio"

// _IOWR('d', 0, char *)
var vcioPropertyRequest = uintptr(0xc0000000 | uintptr(unsafe.Sizeof(uintptr(0)))<<16 | 'd'<<8 | 0)

// Vcio is an Exchanger for Linux on a Pi: the kernel driver owns the mailbox
// and we hand it the command buffer with an ioctl.
type Vcio struct {
	fd int
}

func OpenVcio(path string) (*Vcio, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, errors.Annotatef(err, "open %s", path)
	}
	return &Vcio{fd: fd}, nil
}

func (v *Vcio) Close() error {
	if v.fd < 0 {
		return nil
	}
	err := unix.Close(v.fd)
	v.fd = -1
	return err
}

func (v *Vcio) Exchange(b *CommandBuffer) error {
	words := b.Words()
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(v.fd), vcioPropertyRequest, uintptr(unsafe.Pointer(&words[0])))
	if errno != 0 {
		return errors.Annotate(errno, "vcio property ioctl")
	}
	return nil
}
