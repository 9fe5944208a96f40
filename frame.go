package fix

import (
	"bytes"
)

// checksumMarker starts the trailer field that terminates every message.
var checksumMarker = []byte(TagCheckSum + "=")

// Reassembler extracts complete delimited messages from a byte stream
// delivered in arbitrary-sized chunks. It owns the accumulation buffer of
// not-yet-framed input; callers feed raw chunks as they arrive.
//
// A Reassembler is not safe for concurrent use; each receive loop owns one.
type Reassembler struct {
	buf []byte
}

// NewReassembler returns an empty Reassembler.
func NewReassembler() *Reassembler {
	return &Reassembler{}
}

// Feed appends chunk to the accumulation buffer and attempts to extract one
// complete message: the span from the buffer start through the delimiter that
// terminates the first checksum field. The remainder stays buffered for the
// next call. When no complete message is present yet, Feed reports false and
// retains the buffer verbatim.
//
// At most one message is extracted per call; when a single chunk carries
// several messages the rest surface on subsequent calls.
//
// The trailer is located by a plain substring search for "10=", so a body
// value legitimately containing that literal before the true trailer causes
// early truncation. Known limitation of this framing scheme.
func (r *Reassembler) Feed(chunk []byte) ([]byte, bool) {
	r.buf = append(r.buf, chunk...)

	start := bytes.Index(r.buf, checksumMarker)
	if start < 0 {
		return nil, false
	}
	offset := bytes.IndexByte(r.buf[start:], SOH)
	if offset < 0 {
		return nil, false
	}

	end := start + offset + 1 // include the delimiter
	frame := make([]byte, end)
	copy(frame, r.buf[:end])
	r.buf = append(r.buf[:0], r.buf[end:]...)
	return frame, true
}

// Pending returns the number of buffered bytes not yet framed.
func (r *Reassembler) Pending() int {
	return len(r.buf)
}
