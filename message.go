package fix

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Errors returned by Codec.Decode.
var (
	// ErrMalformedMessage is returned when a message does not end with the
	// field delimiter.
	ErrMalformedMessage = errors.New("malformed message: missing trailing delimiter")
	// ErrChecksumMissing is returned when a message carries no checksum field.
	ErrChecksumMissing = errors.New("checksum field missing")
	// ErrInvalidChecksum is returned when the received checksum does not match
	// the recomputed one.
	ErrInvalidChecksum = errors.New("invalid checksum")
)

// Message is one protocol message split into its three partitions.
// Header holds the identifying fields (tags 8, 9, 35, 49, 56, 34, 52 plus any
// optional header fields the caller sets), Body holds the application fields,
// and Trailer holds the checksum. Header and Body key sets are disjoint.
//
// BodyLength (9) and CheckSum (10) are always recomputed during encoding;
// values supplied by the caller are ignored.
type Message struct {
	Header  map[string]string
	Body    map[string]string
	Trailer map[string]string
}

// NewMessage returns an empty message with all three partitions allocated.
func NewMessage() *Message {
	return &Message{
		Header:  make(map[string]string),
		Body:    make(map[string]string),
		Trailer: make(map[string]string),
	}
}

// MsgType returns the message type (tag 35), or the empty string.
func (m *Message) MsgType() string {
	return m.Header[TagMsgType]
}

// SeqNum returns the sequence number (tag 34), or the empty string.
func (m *Message) SeqNum() string {
	return m.Header[TagMsgSeqNum]
}

// String renders the message partitions with tags in numeric order.
// For logging only; the wire form comes from Codec.Encode.
func (m *Message) String() string {
	var b strings.Builder
	b.WriteString("header{")
	writeSorted(&b, m.Header)
	b.WriteString("} body{")
	writeSorted(&b, m.Body)
	b.WriteString("} trailer{")
	writeSorted(&b, m.Trailer)
	b.WriteString("}")
	return b.String()
}

func writeSorted(b *strings.Builder, fields map[string]string) {
	for i, tag := range sortedTags(fields) {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(b, "%s=%s", tag, fields[tag])
	}
}

// Codec encodes and decodes complete messages. It owns the clock used to
// populate SendingTime when the caller leaves it unset.
type Codec struct {
	clock Clock
}

// NewCodec returns a Codec using the given clock.
func NewCodec(clock Clock) *Codec {
	return &Codec{clock: clock}
}

// Encode serializes a message for transmission.
//
// BeginString defaults to DefaultBeginString and SendingTime to clock.Now()
// when absent. Body fields are serialized in numeric tag order; the header
// starts with the seven mandatory fields in fixed order, followed by any
// remaining header fields in numeric tag order. BodyLength covers every field
// after the BodyLength delimiter up to the checksum field, delimiters
// included. The checksum is the mod-256 byte sum of header plus body,
// formatted as three decimal digits, and becomes the sole trailer field.
func (c *Codec) Encode(m *Message) string {
	if _, ok := m.Header[TagBeginString]; !ok {
		m.Header[TagBeginString] = DefaultBeginString
	}
	if _, ok := m.Header[TagSendingTime]; !ok {
		m.Header[TagSendingTime] = c.clock.Now()
	}

	var body strings.Builder
	for _, tag := range sortedTags(m.Body) {
		writeField(&body, tag, m.Body[tag])
	}

	// Header fields counted by BodyLength: everything except tags 8 and 9,
	// mandatory fields first.
	var rest strings.Builder
	for _, tag := range mandatoryHeaderTags[2:] {
		if value, ok := m.Header[tag]; ok {
			writeField(&rest, tag, value)
		}
	}
	for _, tag := range sortedTags(m.Header) {
		if _, mandatory := HeaderPosition(tag); mandatory {
			continue
		}
		writeField(&rest, tag, m.Header[tag])
	}

	m.Header[TagBodyLength] = strconv.Itoa(rest.Len() + body.Len())

	var header strings.Builder
	writeField(&header, TagBeginString, m.Header[TagBeginString])
	writeField(&header, TagBodyLength, m.Header[TagBodyLength])
	header.WriteString(rest.String())

	payload := header.String() + body.String()
	sum := checksum(payload)
	m.Trailer = map[string]string{TagCheckSum: sum}

	var trailer strings.Builder
	writeField(&trailer, TagCheckSum, sum)
	return payload + trailer.String()
}

// Decode parses a serialized message and validates its checksum.
//
// The input must end with the field delimiter. Each token is split on the
// first '='; the mandatory header tags and BodyLength go to the header, the
// checksum to the trailer, everything else to the body. Duplicate tags
// resolve last-write-wins. The checksum is recomputed over the exact
// serialized prefix preceding the checksum field and compared to the received
// value; parsing stops after the checksum field. On any failure no message is
// returned.
func (c *Codec) Decode(raw string) (*Message, error) {
	if len(raw) == 0 || raw[len(raw)-1] != SOH {
		return nil, ErrMalformedMessage
	}

	m := NewMessage()
	var prefix strings.Builder // checksum input: every field before tag 10

	for _, token := range strings.Split(raw[:len(raw)-1], string(SOH)) {
		if token == "" {
			continue
		}

		tag, value, err := parseField(token)
		if err != nil {
			return nil, err
		}

		if tag == TagCheckSum {
			computed := checksum(prefix.String())
			if value != computed {
				return nil, errors.Wrapf(ErrInvalidChecksum, "received %s, computed %s", value, computed)
			}
			m.Trailer[tag] = value
			return m, nil
		}

		prefix.WriteString(token)
		prefix.WriteByte(SOH)

		switch Classify(tag) {
		case SectionHeader:
			m.Header[tag] = value
		default:
			m.Body[tag] = value
		}
	}

	return nil, ErrChecksumMissing
}

// checksum formats the mod-256 byte sum of s as three decimal digits.
func checksum(s string) string {
	var sum uint32
	for i := 0; i < len(s); i++ {
		sum += uint32(s[i])
	}
	return fmt.Sprintf("%03d", sum%256)
}

// sortedTags returns the map keys in numeric order; non-numeric tags sort
// after numeric ones, lexicographically.
func sortedTags(fields map[string]string) []string {
	tags := make([]string, 0, len(fields))
	for tag := range fields {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		a, errA := strconv.Atoi(tags[i])
		b, errB := strconv.Atoi(tags[j])
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return tags[i] < tags[j]
		}
	})
	return tags
}
