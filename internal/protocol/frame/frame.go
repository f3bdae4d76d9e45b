package frame

import (
	"encoding/binary"
	"errors"

	"github.com/danmuck/wsjtxmon/internal/protocol/wire"
)

const (
	// Magic opens every datagram.
	Magic uint32 = 0xADBCCBDA
	// HeaderLen is magic, schema and type, each a big-endian u32.
	HeaderLen = 12
)

var (
	ErrShortHeader  = errors.New("frame: short header")
	ErrInvalidMagic = errors.New("frame: invalid magic")
)

// Header is the fixed datagram header.
type Header struct {
	Magic  uint32
	Schema uint32
	Type   uint32
}

// New returns a header carrying Magic.
func New(schema, typ uint32) Header {
	return Header{Magic: Magic, Schema: schema, Type: typ}
}

func EncodeHeader(h Header) []byte {
	return AppendHeader(make([]byte, 0, HeaderLen), h)
}

func AppendHeader(dst []byte, h Header) []byte {
	dst = binary.BigEndian.AppendUint32(dst, h.Magic)
	dst = binary.BigEndian.AppendUint32(dst, h.Schema)
	dst = binary.BigEndian.AppendUint32(dst, h.Type)
	return dst
}

// DecodeHeader reads the first HeaderLen bytes of b. Trailing bytes are
// the message body and are ignored here.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) < HeaderLen {
		return Header{}, ErrShortHeader
	}
	r := wire.NewReader(b[:HeaderLen], binary.BigEndian)
	magic, _ := r.Uint32()
	if magic != Magic {
		return Header{Magic: magic}, ErrInvalidMagic
	}
	schema, _ := r.Uint32()
	typ, _ := r.Uint32()
	return Header{Magic: magic, Schema: schema, Type: typ}, nil
}

// Valid reports whether b starts with a well-formed header.
func Valid(b []byte) bool {
	_, err := DecodeHeader(b)
	return err == nil
}
