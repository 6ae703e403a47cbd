package videocore

import (
	"time"

	"github.com/juju/errors"

	"glimmer/src/hardware/mmio"
	"glimmer/src/lib/trust"
)

// mailbox register offsets from the mailbox base.  Mailbox 0 is what the
// VideoCore writes to us, mailbox 1 (at +0x20) is what we write to it.  The
// status register of mailbox 0 is used for both directions.
const (
	MailboxRead   = 0x00
	MailboxStatus = 0x18
	MailboxWrite  = 0x20
)

const MailboxFull = 0x80000000
const MailboxEmpty = 0x40000000

var (
	// ErrTransportTimeout is returned when the VideoCore did not take or
	// answer a message before the configured timeout.
	ErrTransportTimeout = errors.New("videocore: mailbox timed out")
	// ErrUnaligned is returned for a message address that would clobber the
	// channel bits.
	ErrUnaligned = errors.New("videocore: mailbox address not 16 byte aligned")
)

// Clock is a free running microsecond counter, the bcm2835 system timer on
// the board.
type Clock interface {
	Micros() uint64
}

type exchangeState int

const (
	stateSending exchangeState = iota
	stateWaitingResponse
	stateDone
	stateTimedOut
)

func (s exchangeState) String() string {
	switch s {
	case stateSending:
		return "sending"
	case stateWaitingResponse:
		return "waiting for response"
	case stateDone:
		return "done"
	case stateTimedOut:
		return "timed out"
	}
	return "unknown"
}

// Mailbox is the raw transport: one word out, one word back, with the channel
// in the low 4 bits.  Uses of a Mailbox are NOT multithread safe, Client
// serializes them.
type Mailbox struct {
	bus     mmio.Bus
	base    uintptr
	clock   Clock
	timeout time.Duration

	// Polls counts status register reads, for Statsf.
	Polls uint64
}

// NewMailbox returns the transport for the mailbox registers at base.  A zero
// timeout means wait forever, which is what the hardware handshake expects; a
// timeout needs a clock.
func NewMailbox(bus mmio.Bus, base uintptr, clock Clock, timeout time.Duration) (*Mailbox, error) {
	if timeout > 0 && clock == nil {
		return nil, errors.NotValidf("mailbox timeout %v without a clock", timeout)
	}
	return &Mailbox{bus: bus, base: base, clock: clock, timeout: timeout}, nil
}

func checkChannel(ch uint8) error {
	if ch > 0xf {
		return errors.NotValidf("mailbox channel %d", ch)
	}
	return nil
}

// Send blocks until the outgoing fifo has room and writes addr|ch.
func (m *Mailbox) Send(ch uint8, addr uint32) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	if addr&0xf != 0 {
		return errors.Annotatef(ErrUnaligned, "address %#x", addr)
	}
	_, err := m.run(stateSending, ch, addr, true)
	return err
}

// Receive blocks until a word for ch arrives and returns it without the
// channel bits.  Words for other channels are dropped.
func (m *Mailbox) Receive(ch uint8) (uint32, error) {
	if err := checkChannel(ch); err != nil {
		return 0, err
	}
	return m.run(stateWaitingResponse, ch, 0, false)
}

// Exchange is Send followed by Receive under a single timeout.
func (m *Mailbox) Exchange(ch uint8, addr uint32) (uint32, error) {
	if err := checkChannel(ch); err != nil {
		return 0, err
	}
	if addr&0xf != 0 {
		return 0, errors.Annotatef(ErrUnaligned, "address %#x", addr)
	}
	return m.run(stateSending, ch, addr, false)
}

func (m *Mailbox) status() uint32 {
	m.Polls++
	return m.bus.Read32(m.base + MailboxStatus)
}

// run drives the sending -> waiting -> done/timed out machine.  Every trip
// around the loop that makes no progress checks the deadline.
func (m *Mailbox) run(state exchangeState, ch uint8, addr uint32, sendOnly bool) (uint32, error) {
	var start uint64
	limit := uint64(m.timeout / time.Microsecond)
	if limit > 0 {
		start = m.clock.Micros()
	}
	var result uint32
	for {
		switch state {
		case stateSending:
			if m.status()&MailboxFull == 0 {
				m.bus.Write32(m.base+MailboxWrite, (addr&^0xf)|uint32(ch&0xf))
				if sendOnly {
					return 0, nil
				}
				state = stateWaitingResponse
				continue
			}
		case stateWaitingResponse:
			if m.status()&MailboxEmpty == 0 {
				data := m.bus.Read32(m.base + MailboxRead)
				if uint8(data&0xf) == ch {
					result = data &^ 0xf
					state = stateDone
					continue
				}
				trust.Debugf("mailbox: dropped %#08x, it was for channel %d not %d", data&^0xf, data&0xf, ch)
			}
		case stateDone:
			return result, nil
		case stateTimedOut:
			return 0, errors.Annotatef(ErrTransportTimeout, "channel %d after %v", ch, m.timeout)
		}
		if limit > 0 && m.clock.Micros()-start >= limit {
			trust.Warnf("mailbox: channel %d gave up while %s", ch, state)
			state = stateTimedOut
		}
	}
}
