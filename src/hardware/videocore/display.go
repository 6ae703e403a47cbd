package videocore

import (
	"fmt"

	"github.com/juju/errors"

	"glimmer/src/hardware/rpi"
	"glimmer/src/lib/trust"
)

// PixelOrder is the value of the set pixel order tag.  The firmware documents
// 0 as BGR and 1 as RGB; with BGR a pixel word reads 0x00RRGGBB.
type PixelOrder uint32

const (
	PixelOrderBGR PixelOrder = 0
	PixelOrderRGB PixelOrder = 1
)

func (p PixelOrder) String() string {
	switch p {
	case PixelOrderBGR:
		return "bgr"
	case PixelOrderRGB:
		return "rgb"
	}
	return fmt.Sprintf("order(%d)", uint32(p))
}

// ParsePixelOrder accepts "rgb" or "bgr".
func ParsePixelOrder(s string) (PixelOrder, error) {
	switch s {
	case "bgr":
		return PixelOrderBGR, nil
	case "rgb":
		return PixelOrderRGB, nil
	}
	return 0, errors.NotValidf("pixel order %q", s)
}

// DisplayConfig is what we ask the firmware for.
type DisplayConfig struct {
	Width  uint32
	Height uint32
	// VirtualWidth and VirtualHeight default to Width and Height when zero.
	VirtualWidth  uint32
	VirtualHeight uint32
	Depth         uint32
	PixelOrder    PixelOrder
	// Alignment of the allocated buffer in bytes.
	Alignment uint32
	// Model decides which addresses are RAM, zero means rpi.DefaultModel.
	Model rpi.Model
}

func DefaultDisplayConfig() DisplayConfig {
	return DisplayConfig{
		Width:      1920,
		Height:     1080,
		Depth:      32,
		PixelOrder: PixelOrderBGR,
		Alignment:  4096,
		Model:      rpi.DefaultModel,
	}
}

func (c DisplayConfig) withDefaults() DisplayConfig {
	if c.VirtualWidth == 0 {
		c.VirtualWidth = c.Width
	}
	if c.VirtualHeight == 0 {
		c.VirtualHeight = c.Height
	}
	if c.Model == 0 {
		c.Model = rpi.DefaultModel
	}
	return c
}

func (c DisplayConfig) validate() error {
	if c.Width == 0 || c.Height == 0 {
		return errors.NotValidf("display size %dx%d", c.Width, c.Height)
	}
	if c.VirtualWidth < c.Width || c.VirtualHeight < c.Height {
		return errors.NotValidf("virtual size %dx%d smaller than physical %dx%d",
			c.VirtualWidth, c.VirtualHeight, c.Width, c.Height)
	}
	switch c.Depth {
	case 8, 16, 24, 32:
	default:
		return errors.NotValidf("depth %d", c.Depth)
	}
	if c.PixelOrder != PixelOrderBGR && c.PixelOrder != PixelOrderRGB {
		return errors.NotValidf("pixel order %d", uint32(c.PixelOrder))
	}
	if c.Alignment&(c.Alignment-1) != 0 {
		return errors.NotValidf("alignment %d", c.Alignment)
	}
	return nil
}

// FrameBufferDescriptor is the frame buffer the firmware gave us.  It is
// created once by Negotiate and never changes; the firmware keeps the memory
// until power off.
type FrameBufferDescriptor struct {
	Depth         uint32 // bits per pixel
	PitchBytes    uint32
	PitchPixels   uint32
	Rows          uint32
	Base          uint32 // ARM physical address
	Size          uint32 // bytes
	Width         uint32 // visible pixels
	Height        uint32
	VirtualWidth  uint32
	VirtualHeight uint32
	PixelOrder    PixelOrder
}

// Valid is false for the zero descriptor, which is what a failed negotiation
// leaves behind.
func (d FrameBufferDescriptor) Valid() bool {
	return d.Base != 0 && d.Size != 0 && d.PitchBytes != 0 && d.Depth != 0 && d.Rows != 0
}

func (d FrameBufferDescriptor) String() string {
	return fmt.Sprintf("%dx%d@%dbpp %s pitch=%d rows=%d base=%#x size=%#x",
		d.Width, d.Height, d.Depth, d.PixelOrder, d.PitchBytes, d.Rows, d.Base, d.Size)
}

// index of each tag in the negotiation buffer
const (
	negPhysical = iota
	negVirtual
	negDepth
	negOrder
	negOffset
	negAllocate
	negPitch
)

// Negotiate sets the display mode and allocates the frame buffer in one
// exchange.  The tag order matters, the depth has to be set before the
// allocation means anything.  There is no fallback: any failure returns the
// zero descriptor.
func Negotiate(c *Client, cfg DisplayConfig) (FrameBufferDescriptor, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return FrameBufferDescriptor{}, errors.Trace(err)
	}
	b, err := NewCommandBuffer(
		WordRequest(MailboxTagSetPhysicalWidthHeight, 2, cfg.Width, cfg.Height),
		WordRequest(MailboxTagSetVirtualWidthHeight, 2, cfg.VirtualWidth, cfg.VirtualHeight),
		WordRequest(MailboxTagSetDepth, 1, cfg.Depth),
		WordRequest(MailboxTagSetPixelOrder, 1, uint32(cfg.PixelOrder)),
		WordRequest(MailboxTagSetVirtualOffset, 2, 0, 0),
		WordRequest(MailboxTagAllocateBuffer, 2, cfg.Alignment),
		WordRequest(MailboxTagGetPitch, 1),
	)
	if err != nil {
		return FrameBufferDescriptor{}, errors.Trace(err)
	}
	if err := c.Do(b); err != nil {
		trust.Errorf("unable to send commands to mailbox for framebuffer setup: %v", err)
		return FrameBufferDescriptor{}, errors.Annotate(err, "display negotiation")
	}

	phys := b.Tag(negPhysical).Value()
	virt := b.Tag(negVirtual).Value()
	depth := b.Tag(negDepth).Value()[0]
	order := PixelOrder(b.Tag(negOrder).Value()[0])
	alloc := b.Tag(negAllocate).Value()
	pitch := b.Tag(negPitch).Value()[0]

	if depth != cfg.Depth {
		return FrameBufferDescriptor{}, errors.Annotatef(ErrPropertyFailure, "asked for depth %d, got %d", cfg.Depth, depth)
	}
	if alloc[0] == 0 || alloc[1] == 0 {
		return FrameBufferDescriptor{}, errors.Annotatef(ErrPropertyFailure, "no frame buffer allocated (%#x, %d bytes)", alloc[0], alloc[1])
	}
	if pitch == 0 {
		return FrameBufferDescriptor{}, errors.Annotate(ErrPropertyFailure, "pitch is zero")
	}
	if order != cfg.PixelOrder {
		trust.Warnf("videocore: asked for pixel order %s, firmware says %s", cfg.PixelOrder, order)
	}
	base, err := cfg.Model.TranslateRegion(alloc[0], alloc[1])
	if err != nil {
		return FrameBufferDescriptor{}, errors.Trace(err)
	}

	d := FrameBufferDescriptor{
		Depth:         depth,
		PitchBytes:    pitch,
		PitchPixels:   pitch / (depth / 8),
		Rows:          alloc[1] / pitch,
		Base:          base,
		Size:          alloc[1],
		Width:         phys[0],
		Height:        phys[1],
		VirtualWidth:  virt[0],
		VirtualHeight: virt[1],
		PixelOrder:    order,
	}
	trust.Infof("videocore: frame buffer %s", d)
	return d, nil
}
