package wire

import (
	"encoding/binary"
	"math"
)

// Writer appends fields to a growing buffer. The first failing Field call
// is remembered and returned by Bytes.
type Writer struct {
	buf   []byte
	order binary.AppendByteOrder
	err   error
}

func NewWriter(order binary.AppendByteOrder, capacity int) *Writer {
	return &Writer{buf: make([]byte, 0, capacity), order: order}
}

func (w *Writer) Uint8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

func (w *Writer) Bool(v bool) *Writer {
	if v {
		return w.Uint8(1)
	}
	return w.Uint8(0)
}

func (w *Writer) Uint16(v uint16) *Writer {
	w.buf = w.order.AppendUint16(w.buf, v)
	return w
}

func (w *Writer) Uint32(v uint32) *Writer {
	w.buf = w.order.AppendUint32(w.buf, v)
	return w
}

func (w *Writer) Int32(v int32) *Writer {
	return w.Uint32(uint32(v))
}

func (w *Writer) Uint64(v uint64) *Writer {
	w.buf = w.order.AppendUint64(w.buf, v)
	return w
}

func (w *Writer) Float64(v float64) *Writer {
	return w.Uint64(math.Float64bits(v))
}

// Raw appends b verbatim.
func (w *Writer) Raw(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// Field appends a big-endian length-prefixed utf8 field.
func (w *Writer) Field(s string) *Writer {
	if err := checkFieldLen(len(s)); err != nil {
		if w.err == nil {
			w.err = err
		}
		return w
	}
	w.buf = binary.BigEndian.AppendUint32(w.buf, uint32(len(s)))
	w.buf = append(w.buf, s...)
	return w
}

// NullField appends the null-string sentinel.
func (w *Writer) NullField() *Writer {
	w.buf = binary.BigEndian.AppendUint32(w.buf, NullFieldLen)
	return w
}

func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) Bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return w.buf, nil
}
