package videocore

import (
	"encoding/binary"

	"github.com/juju/errors"
)

// MaxCommandWords is the capacity of a command buffer, enough for the seven
// tag display negotiation (35 words).
const MaxCommandWords = 36

// headerWords is size + request/response code; each tag adds three more
// (id, capacity, request/response length) before its value buffer.
const headerWords = 2
const tagHeaderWords = 3

// ErrBufferTooLarge means the tags do not fit in MaxCommandWords.
var ErrBufferTooLarge = errors.New("videocore: command buffer too large")

// TagRequest is one property tag to put in a command buffer.  The value buffer
// is shared by the request and the response, so it is sized by whichever of
// Request and ResponseLen is larger.
type TagRequest struct {
	ID          uint32
	Request     []byte
	ResponseLen int
}

// WordRequest builds a TagRequest from 32 bit arguments.
func WordRequest(id uint32, responseWords int, args ...uint32) TagRequest {
	req := make([]byte, 4*len(args))
	for i, a := range args {
		binary.LittleEndian.PutUint32(req[4*i:], a)
	}
	return TagRequest{ID: id, Request: req, ResponseLen: 4 * responseWords}
}

// capacity is the value buffer size in bytes, max(request,response) rounded
// up to a word.
func (t TagRequest) capacity() int {
	n := len(t.Request)
	if t.ResponseLen > n {
		n = t.ResponseLen
	}
	return (n + 3) &^ 3
}

// CommandBuffer is the property interface message.  Word 0 is the size in
// bytes, word 1 the request/response code, then the tags back to back and a
// zero end tag.  Request payloads are overwritten in place by the firmware.
type CommandBuffer struct {
	words [MaxCommandWords]uint32
	used  int
	tags  []int
}

// NewCommandBuffer lays out the given tags.  The payload area of each tag
// past its request bytes is zeroed.
func NewCommandBuffer(reqs ...TagRequest) (*CommandBuffer, error) {
	b := &CommandBuffer{tags: make([]int, 0, len(reqs))}
	w := headerWords
	for _, r := range reqs {
		capWords := r.capacity() / 4
		if w+tagHeaderWords+capWords+1 > MaxCommandWords {
			return nil, errors.Annotatef(ErrBufferTooLarge, "tag %#08x needs %d value words at word %d", r.ID, capWords, w)
		}
		b.tags = append(b.tags, w)
		b.words[w] = r.ID
		b.words[w+1] = uint32(4 * capWords)
		b.words[w+2] = uint32(len(r.Request))
		var padded [4 * MaxCommandWords]byte
		copy(padded[:], r.Request)
		for i := 0; i < capWords; i++ {
			b.words[w+tagHeaderWords+i] = binary.LittleEndian.Uint32(padded[4*i:])
		}
		w += tagHeaderWords + capWords
	}
	b.words[w] = MailboxTagLast
	w++
	b.used = w
	b.words[0] = uint32(4 * w)
	b.words[1] = MailboxRequest
	return b, nil
}

// Size is word 0, the total size in bytes.
func (b *CommandBuffer) Size() uint32 {
	return b.words[0]
}

// Code is word 1, zero before the exchange and the firmware's answer after.
func (b *CommandBuffer) Code() uint32 {
	return b.words[1]
}

// Succeeded is true only for the plain success code; 0x80000001 (partial
// response) is a failure.
func (b *CommandBuffer) Succeeded() bool {
	return b.words[1] == MailboxResponse
}

// Words is the live part of the buffer.  Exchangers copy it to the shared
// memory and back; it aliases the buffer.
func (b *CommandBuffer) Words() []uint32 {
	return b.words[:b.used]
}

func (b *CommandBuffer) NumTags() int {
	return len(b.tags)
}

// Tag returns a view of the i'th tag.
func (b *CommandBuffer) Tag(i int) Tag {
	start := b.tags[i]
	capWords := int(b.words[start+1] / 4)
	return Tag(b.words[start : start+tagHeaderWords+capWords])
}

// Tag is a view into a command buffer: id, capacity, length word, value words.
type Tag []uint32

func (t Tag) ID() uint32 {
	return t[0]
}

// Capacity is the size of the value buffer in bytes.
func (t Tag) Capacity() int {
	return int(t[1])
}

// IsResponse is true once the firmware has processed the tag.
func (t Tag) IsResponse() bool {
	return t[2]&MailboxResponse != 0
}

// ResponseLen is the number of bytes the firmware wanted to write.  It can be
// more than Capacity, in which case the value was truncated.
func (t Tag) ResponseLen() int {
	if !t.IsResponse() {
		return 0
	}
	return int(t[2] &^ MailboxResponse)
}

// Value is the value buffer, as words.
func (t Tag) Value() []uint32 {
	return t[tagHeaderWords:]
}

// Bytes returns the first n bytes of the value buffer, n is clipped to the
// capacity.
func (t Tag) Bytes(n int) []byte {
	if n > t.Capacity() {
		n = t.Capacity()
	}
	out := make([]byte, 4*len(t.Value()))
	for i, v := range t.Value() {
		binary.LittleEndian.PutUint32(out[4*i:], v)
	}
	return out[:n]
}
