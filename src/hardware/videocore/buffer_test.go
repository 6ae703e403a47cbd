package videocore

import (
	"testing"

	"github.com/juju/errors"
)

func TestSingleTagBufferLayout(t *testing.T) {
	b, err := NewCommandBuffer(TagRequest{ID: MailboxTagGetTemperature, Request: []byte{0, 0, 0, 0}, ResponseLen: 8})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Size() != 32 {
		t.Errorf("expected 32 byte buffer, got %d", b.Size())
	}
	want := []uint32{32, 0, MailboxTagGetTemperature, 8, 4, 0, 0, 0}
	got := b.Words()
	if len(got) != len(want) {
		t.Fatalf("expected %d words, got %d: %x", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("word %d: expected %#x got %#x", i, want[i], got[i])
		}
	}
}

func TestCapacityIsRoundedMax(t *testing.T) {
	for _, c := range []struct {
		req, resp, want int
	}{
		{0, 4, 4},
		{8, 4, 8},
		{5, 0, 8},
		{0, 6, 8},
		{0, 0, 0},
	} {
		r := TagRequest{ID: 1, Request: make([]byte, c.req), ResponseLen: c.resp}
		if r.capacity() != c.want {
			t.Errorf("req %d resp %d: expected capacity %d got %d", c.req, c.resp, c.want, r.capacity())
		}
	}
}

func TestNegotiationFitsInBuffer(t *testing.T) {
	b, err := NewCommandBuffer(
		WordRequest(MailboxTagSetPhysicalWidthHeight, 2, 1920, 1080),
		WordRequest(MailboxTagSetVirtualWidthHeight, 2, 1920, 1080),
		WordRequest(MailboxTagSetDepth, 1, 32),
		WordRequest(MailboxTagSetPixelOrder, 1, 0),
		WordRequest(MailboxTagSetVirtualOffset, 2, 0, 0),
		WordRequest(MailboxTagAllocateBuffer, 2, 4096),
		WordRequest(MailboxTagGetPitch, 1),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Size() != 35*4 {
		t.Errorf("expected 35 words, got %d bytes", b.Size())
	}
	if b.NumTags() != 7 {
		t.Errorf("expected 7 tags got %d", b.NumTags())
	}
	alloc := b.Tag(5)
	if alloc.ID() != MailboxTagAllocateBuffer || alloc.Capacity() != 8 || alloc.Value()[0] != 4096 || alloc.Value()[1] != 0 {
		t.Errorf("allocate tag laid out wrong: %x", []uint32(alloc))
	}
	if b.Words()[len(b.Words())-1] != MailboxTagLast {
		t.Errorf("missing end tag")
	}
}

func TestBufferTooLarge(t *testing.T) {
	_, err := NewCommandBuffer(TagRequest{ID: 1, ResponseLen: 4 * MaxCommandWords})
	if errors.Cause(err) != ErrBufferTooLarge {
		t.Errorf("expected ErrBufferTooLarge, got %v", err)
	}
}

// cannedExchanger answers like the firmware would, with a fixed code and
// value for the first tag.
type cannedExchanger struct {
	code  uint32
	value []uint32
	calls int
}

func (c *cannedExchanger) Exchange(b *CommandBuffer) error {
	c.calls++
	words := b.Words()
	words[1] = c.code
	if c.code == MailboxResponse {
		tag := b.Tag(0)
		copy(tag.Value(), c.value)
		tag[2] = MailboxResponse | uint32(4*len(c.value))
	}
	return nil
}

func TestExecuteReturnsResponseBytes(t *testing.T) {
	ex := &cannedExchanger{code: MailboxResponse, value: []uint32{0, 51234}}
	c := NewClient(ex)
	resp, err := c.Execute(MailboxTagGetTemperature, []byte{0, 0, 0, 0}, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp) != 8 || resp[4] != 0x22 || resp[5] != 0xc8 {
		t.Errorf("unexpected response bytes %x", resp)
	}
	temp, err := ReadSoCTemperature(c)
	if err != nil || temp != 51234 {
		t.Errorf("expected 51234, got %d (%v)", temp, err)
	}
}

func TestPartialResponseIsFailure(t *testing.T) {
	for _, code := range []uint32{MailboxResponseError, MailboxRequest, 0x12345678} {
		c := NewClient(&cannedExchanger{code: code})
		_, err := c.Execute(MailboxTagGetTemperature, []byte{0, 0, 0, 0}, 8)
		if errors.Cause(err) != ErrPropertyFailure {
			t.Errorf("code %#x: expected ErrPropertyFailure, got %v", code, err)
		}
	}
}
