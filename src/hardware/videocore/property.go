package videocore

import (
	"sync"
	"time"
	"unsafe"

	"github.com/juju/errors"

	"glimmer/src/hardware/bcm2835"
	"glimmer/src/hardware/mmio"
	"glimmer/src/hardware/rpi"
	"glimmer/src/lib/trust"
)

// ErrPropertyFailure is returned when the firmware did not answer a command
// buffer with the success code: it rejected the buffer or could not service a
// tag in it.
var ErrPropertyFailure = errors.New("videocore: property request failed")

// Exchanger hands a command buffer to the firmware and puts the answer back
// in the same buffer.
type Exchanger interface {
	Exchange(b *CommandBuffer) error
}

// MailboxExchanger is the bare metal Exchanger.  The buffer is copied to a
// scratch area the VideoCore can see, its bus address is posted on the
// property channel and the words are copied back once it answers.
type MailboxExchanger struct {
	mbox    *Mailbox
	bus     mmio.Bus
	scratch uintptr
	alias   uint32
}

// NewMailboxExchanger checks the scratch area can be posted to the mailbox:
// 16 byte aligned and clear of the alias bits once the alias is applied.
func NewMailboxExchanger(mbox *Mailbox, bus mmio.Bus, scratch uintptr, alias uint32) (*MailboxExchanger, error) {
	if scratch&0xf != 0 {
		return nil, errors.Annotatef(ErrUnaligned, "scratch area %#x", scratch)
	}
	if uint64(scratch) > uint64(^rpi.BusAliasMask) {
		return nil, errors.Annotatef(rpi.ErrAddressTranslation, "scratch area %#x does not fit in a bus address", scratch)
	}
	return &MailboxExchanger{mbox: mbox, bus: bus, scratch: scratch, alias: alias}, nil
}

func (x *MailboxExchanger) Exchange(b *CommandBuffer) error {
	words := b.Words()
	for i, w := range words {
		x.bus.Write32(x.scratch+uintptr(4*i), w)
	}
	addr, err := rpi.PhysicalToBus(uint32(x.scratch), x.alias)
	if err != nil {
		return errors.Trace(err)
	}
	// the answer is in the buffer, the word that comes back only tells us
	// the firmware is done with it
	if _, err := x.mbox.Exchange(PropertyChannel, addr); err != nil {
		return errors.Trace(err)
	}
	for i := range words {
		words[i] = x.bus.Read32(x.scratch + uintptr(4*i))
	}
	return nil
}

// this has to be 16 byte aligned to be sent to the mailbox interface, the
// extra words let staticScratch move up to the next boundary.
var scratchArea [MaxCommandWords + 4]uint32

func staticScratch() uintptr {
	ptr := uintptr(unsafe.Pointer(&scratchArea[0]))
	return (ptr + 15) &^ 15
}

// Client is the property interface.  Only one exchange is ever in flight: the
// mailbox has no way to match answers to requests beyond the channel.
type Client struct {
	mu sync.Mutex
	ex Exchanger
}

func NewClient(ex Exchanger) *Client {
	return &Client{ex: ex}
}

// MailboxOptions configures Open.
type MailboxOptions struct {
	// Base of the mailbox registers, zero means the model's default.
	Base uintptr
	// Timeout for one exchange, zero waits forever.
	Timeout time.Duration
	// BusAlias is put on the command buffer address, zero on every model
	// we have tried.
	BusAlias uint32
	// Scratch is the physical address of the shared command buffer, zero
	// uses a static buffer in the kernel image.
	Scratch uintptr
	// Clock for the timeout, zero uses the system timer.
	Clock Clock
}

// Open builds a Client that talks to the firmware through the mailbox
// registers on bus.
func Open(bus mmio.Bus, model rpi.Model, opts MailboxOptions) (*Client, error) {
	p := bcm2835.NewPeripherals(bus, model)
	base := opts.Base
	if base == 0 {
		base = p.Mailbox()
	}
	clock := opts.Clock
	if clock == nil {
		clock = p.SysTimer
	}
	mbox, err := NewMailbox(bus, base, clock, opts.Timeout)
	if err != nil {
		return nil, errors.Trace(err)
	}
	scratch := opts.Scratch
	if scratch == 0 {
		scratch = staticScratch()
	}
	ex, err := NewMailboxExchanger(mbox, bus, scratch, opts.BusAlias)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return NewClient(ex), nil
}

// Do runs a multi tag command buffer.  On success the tag values in b hold
// the firmware's answers.
func (c *Client) Do(b *CommandBuffer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ex.Exchange(b); err != nil {
		return errors.Trace(err)
	}
	if !b.Succeeded() {
		return errors.Annotatef(ErrPropertyFailure, "response code %#08x", b.Code())
	}
	for i := 0; i < b.NumTags(); i++ {
		t := b.Tag(i)
		if !t.IsResponse() {
			trust.Debugf("videocore: tag %#08x was not answered", t.ID())
		} else if t.ResponseLen() > t.Capacity() {
			trust.Warnf("videocore: tag %#08x answer truncated, wanted %d bytes has %d", t.ID(), t.ResponseLen(), t.Capacity())
		}
	}
	return nil
}

// Execute sends a single tag and returns the first responseLen bytes of its
// value buffer.
func (c *Client) Execute(tagID uint32, request []byte, responseLen int) ([]byte, error) {
	b, err := NewCommandBuffer(TagRequest{ID: tagID, Request: request, ResponseLen: responseLen})
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := c.Do(b); err != nil {
		return nil, errors.Annotatef(err, "tag %#08x", tagID)
	}
	return b.Tag(0).Bytes(responseLen), nil
}

// Call is Execute for tags whose values are all 32 bit words.
func (c *Client) Call(tagID uint32, responseWords int, args ...uint32) ([]uint32, error) {
	b, err := NewCommandBuffer(WordRequest(tagID, responseWords, args...))
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := c.Do(b); err != nil {
		return nil, errors.Annotatef(err, "tag %#08x", tagID)
	}
	out := make([]uint32, responseWords)
	copy(out, b.Tag(0).Value())
	return out, nil
}
