// Package wire holds the fixed-width and length-prefixed field primitives
// shared by the frame, message and colour codecs.
package wire

import (
	"encoding/binary"
	"errors"
	"math"
)

// NullFieldLen marks an absent utf8 field on the wire.
const NullFieldLen uint32 = 0xFFFFFFFF

// FieldLenSize is the width of the utf8 length prefix.
const FieldLenSize = 4

var (
	ErrBufferTooShort = errors.New("wire: buffer too short")
	ErrFieldTooLarge  = errors.New("wire: field too large")
)

func need(buf []byte, n int) error {
	if len(buf) < n {
		return ErrBufferTooShort
	}
	return nil
}

func DecodeUint8(buf []byte) (uint8, error) {
	if err := need(buf, 1); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func DecodeUint16(buf []byte, order binary.ByteOrder) (uint16, error) {
	if err := need(buf, 2); err != nil {
		return 0, err
	}
	return order.Uint16(buf), nil
}

func DecodeUint32(buf []byte, order binary.ByteOrder) (uint32, error) {
	if err := need(buf, 4); err != nil {
		return 0, err
	}
	return order.Uint32(buf), nil
}

func DecodeInt32(buf []byte, order binary.ByteOrder) (int32, error) {
	v, err := DecodeUint32(buf, order)
	return int32(v), err
}

func DecodeUint64(buf []byte, order binary.ByteOrder) (uint64, error) {
	if err := need(buf, 8); err != nil {
		return 0, err
	}
	return order.Uint64(buf), nil
}

func DecodeFloat64(buf []byte, order binary.ByteOrder) (float64, error) {
	v, err := DecodeUint64(buf, order)
	return math.Float64frombits(v), err
}

func EncodeUint8(v uint8) []byte {
	return []byte{v}
}

func EncodeUint16(v uint16, order binary.ByteOrder) []byte {
	buf := make([]byte, 2)
	order.PutUint16(buf, v)
	return buf
}

func EncodeUint32(v uint32, order binary.ByteOrder) []byte {
	buf := make([]byte, 4)
	order.PutUint32(buf, v)
	return buf
}

func EncodeInt32(v int32, order binary.ByteOrder) []byte {
	return EncodeUint32(uint32(v), order)
}

func EncodeUint64(v uint64, order binary.ByteOrder) []byte {
	buf := make([]byte, 8)
	order.PutUint64(buf, v)
	return buf
}

func EncodeFloat64(v float64, order binary.ByteOrder) []byte {
	return EncodeUint64(math.Float64bits(v), order)
}

// MaskUint8 truncates v to its low byte.
func MaskUint8(v int) uint8 {
	return uint8(v & 0xFF)
}

// MaskUint16 truncates v to its low two bytes.
func MaskUint16(v int) uint16 {
	return uint16(v & 0xFFFF)
}

// DecodeField reads one big-endian length-prefixed utf8 field.
// The null sentinel consumes only the prefix and yields "".
func DecodeField(buf []byte) (int, string, error) {
	n, err := DecodeUint32(buf, binary.BigEndian)
	if err != nil {
		return 0, "", err
	}
	if n == NullFieldLen {
		return FieldLenSize, "", nil
	}
	if uint64(n) > uint64(len(buf)-FieldLenSize) {
		return 0, "", ErrBufferTooShort
	}
	end := FieldLenSize + int(n)
	return end, string(buf[FieldLenSize:end]), nil
}

// EncodeField writes s as a length-prefixed utf8 field.
// Empty strings are written with length 0, not the null sentinel.
func EncodeField(s string) ([]byte, error) {
	if err := checkFieldLen(len(s)); err != nil {
		return nil, err
	}
	buf := make([]byte, FieldLenSize+len(s))
	binary.BigEndian.PutUint32(buf, uint32(len(s)))
	copy(buf[FieldLenSize:], s)
	return buf, nil
}

func checkFieldLen(n int) error {
	if uint64(n) >= uint64(NullFieldLen) {
		return ErrFieldTooLarge
	}
	return nil
}
