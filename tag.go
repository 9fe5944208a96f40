package fix

import (
	"strings"

	"github.com/pkg/errors"
)

// SOH is the control byte terminating every serialized field.
const SOH byte = 0x01

// DefaultBeginString is used when the caller does not set tag 8 explicitly.
const DefaultBeginString = "FIX.4.4"

// Well-known tags. The first seven are the mandatory header fields and are
// always serialized first, in this order.
const (
	TagBeginString  = "8"
	TagBodyLength   = "9"
	TagMsgType      = "35"
	TagSenderCompID = "49"
	TagTargetCompID = "56"
	TagMsgSeqNum    = "34"
	TagSendingTime  = "52"
	TagCheckSum     = "10"
)

// Common MsgType (tag 35) values.
const (
	MsgTypeHeartbeat       = "0"
	MsgTypeTestRequest     = "1"
	MsgTypeResendRequest   = "2"
	MsgTypeReject          = "3"
	MsgTypeSequenceReset   = "4"
	MsgTypeLogout          = "5"
	MsgTypeExecutionReport = "8"
	MsgTypeLogon           = "A"
	MsgTypeNews            = "B"
	MsgTypeOrderSingle     = "D"
)

// ErrMalformedField is returned when a serialized field has no '=' separator.
var ErrMalformedField = errors.New("malformed field: missing '=' separator")

// Section identifies which partition of a message a tag belongs to.
type Section int

const (
	// SectionHeader holds the routing and identity metadata.
	SectionHeader Section = iota
	// SectionBody holds the application payload fields.
	SectionBody
	// SectionTrailer holds the integrity fields (checksum only).
	SectionTrailer
)

// mandatoryHeaderTags lists the required header fields in their fixed
// serialization order.
var mandatoryHeaderTags = [...]string{
	TagBeginString,
	TagBodyLength,
	TagMsgType,
	TagSenderCompID,
	TagTargetCompID,
	TagMsgSeqNum,
	TagSendingTime,
}

// fieldNames maps the known tags to their protocol names, for logging.
var fieldNames = map[string]string{
	TagBeginString:  "BeginString",
	TagBodyLength:   "BodyLength",
	TagMsgType:      "MsgType",
	TagSenderCompID: "SenderCompID",
	TagTargetCompID: "TargetCompID",
	TagMsgSeqNum:    "MsgSeqNum",
	TagSendingTime:  "SendingTime",
	TagCheckSum:     "CheckSum",
	"43":            "PossDupFlag",
	"50":            "SenderSubID",
	"55":            "Symbol",
	"57":            "TargetSubID",
	"98":            "EncryptMethod",
	"108":           "HeartBtInt",
	"116":           "OnBehalfOfSubID",
	"122":           "OrigSendingTime",
	"142":           "SenderLocationID",
}

// Classify reports the message partition a tag belongs to: the seven
// mandatory header tags go to the header, the checksum tag to the trailer,
// and everything else to the body.
func Classify(tag string) Section {
	if tag == TagCheckSum {
		return SectionTrailer
	}
	if _, ok := HeaderPosition(tag); ok {
		return SectionHeader
	}
	return SectionBody
}

// HeaderPosition returns the fixed serialization index of a mandatory header
// tag, and whether the tag is one of the seven mandatory header fields.
func HeaderPosition(tag string) (int, bool) {
	for i, t := range mandatoryHeaderTags {
		if t == tag {
			return i, true
		}
	}
	return 0, false
}

// FieldName returns the protocol name of a known tag, or the tag itself.
func FieldName(tag string) string {
	if name, ok := fieldNames[tag]; ok {
		return name
	}
	return tag
}

// writeField appends one serialized field: tag, '=', value, delimiter.
func writeField(b *strings.Builder, tag, value string) {
	b.WriteString(tag)
	b.WriteByte('=')
	b.WriteString(value)
	b.WriteByte(SOH)
}

// parseField splits one delimiter-separated token on the first '='.
func parseField(token string) (tag, value string, err error) {
	i := strings.IndexByte(token, '=')
	if i < 0 {
		return "", "", errors.Wrapf(ErrMalformedField, "token %q", token)
	}
	return token[:i], token[i+1:], nil
}
