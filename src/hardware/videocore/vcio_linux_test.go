//go:build linux

package videocore

import (
	"path/filepath"
	"testing"
	"unsafe"
)

func TestVcioRequestNumber(t *testing.T) {
	want := uintptr(0xc0046400)
	if unsafe.Sizeof(uintptr(0)) == 8 {
		want = 0xc0086400
	}
	if vcioPropertyRequest != want {
		t.Errorf("expected ioctl %#x got %#x", want, vcioPropertyRequest)
	}
}

func TestOpenVcioMissingDevice(t *testing.T) {
	if _, err := OpenVcio(filepath.Join(t.TempDir(), "vcio")); err == nil {
		t.Errorf("expected an error for a missing device")
	}
}
