package wire

import "encoding/binary"

// Reader walks a buffer front to back. Every read either consumes exactly
// its width or fails with ErrBufferTooShort and leaves the cursor in place.
type Reader struct {
	buf   []byte
	off   int
	order binary.ByteOrder
}

func NewReader(buf []byte, order binary.ByteOrder) *Reader {
	return &Reader{buf: buf, order: order}
}

func (r *Reader) Offset() int {
	return r.off
}

func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// Since returns the raw bytes consumed between start and the cursor.
func (r *Reader) Since(start int) []byte {
	if start < 0 || start > r.off {
		return nil
	}
	out := make([]byte, r.off-start)
	copy(out, r.buf[start:r.off])
	return out
}

func (r *Reader) rest() []byte {
	return r.buf[r.off:]
}

func (r *Reader) Uint8() (uint8, error) {
	v, err := DecodeUint8(r.rest())
	if err != nil {
		return 0, err
	}
	r.off++
	return v, nil
}

func (r *Reader) Bool() (bool, error) {
	v, err := r.Uint8()
	return v != 0, err
}

func (r *Reader) Uint16() (uint16, error) {
	v, err := DecodeUint16(r.rest(), r.order)
	if err != nil {
		return 0, err
	}
	r.off += 2
	return v, nil
}

func (r *Reader) Uint32() (uint32, error) {
	v, err := DecodeUint32(r.rest(), r.order)
	if err != nil {
		return 0, err
	}
	r.off += 4
	return v, nil
}

func (r *Reader) Int32() (int32, error) {
	v, err := DecodeInt32(r.rest(), r.order)
	if err != nil {
		return 0, err
	}
	r.off += 4
	return v, nil
}

func (r *Reader) Uint64() (uint64, error) {
	v, err := DecodeUint64(r.rest(), r.order)
	if err != nil {
		return 0, err
	}
	r.off += 8
	return v, nil
}

func (r *Reader) Float64() (float64, error) {
	v, err := DecodeFloat64(r.rest(), r.order)
	if err != nil {
		return 0, err
	}
	r.off += 8
	return v, nil
}

// Field reads a utf8 field. Length prefixes are always big-endian.
func (r *Reader) Field() (string, error) {
	n, s, err := DecodeField(r.rest())
	if err != nil {
		return "", err
	}
	r.off += n
	return s, nil
}
