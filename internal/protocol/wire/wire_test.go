package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/danmuck/wsjtxmon/internal/testutil/testlog"
)

var orders = []binary.ByteOrder{binary.BigEndian, binary.LittleEndian}

func TestUint8RoundTripBoundaries(t *testing.T) {
	testlog.Start(t)
	for _, v := range []uint8{0, 1, 0x7F, math.MaxUint8} {
		got, err := DecodeUint8(EncodeUint8(v))
		if err != nil || got != v {
			t.Fatalf("u8 %d: got=%d err=%v", v, got, err)
		}
	}
}

func TestUint16RoundTripBoundaries(t *testing.T) {
	testlog.Start(t)
	for _, order := range orders {
		for _, v := range []uint16{0, 1, 0x1234, math.MaxUint16} {
			got, err := DecodeUint16(EncodeUint16(v, order), order)
			if err != nil || got != v {
				t.Fatalf("u16 %s %d: got=%d err=%v", order, v, got, err)
			}
		}
	}
}

func TestUint32RoundTripBoundaries(t *testing.T) {
	testlog.Start(t)
	for _, order := range orders {
		for _, v := range []uint32{0, 1, 0xADBCCBDA, math.MaxUint32} {
			got, err := DecodeUint32(EncodeUint32(v, order), order)
			if err != nil || got != v {
				t.Fatalf("u32 %s %d: got=%d err=%v", order, v, got, err)
			}
		}
	}
}

func TestInt32RoundTripBoundaries(t *testing.T) {
	testlog.Start(t)
	for _, order := range orders {
		for _, v := range []int32{0, -1, -24, math.MinInt32, math.MaxInt32} {
			got, err := DecodeInt32(EncodeInt32(v, order), order)
			if err != nil || got != v {
				t.Fatalf("i32 %s %d: got=%d err=%v", order, v, got, err)
			}
		}
	}
}

func TestUint64RoundTripBoundaries(t *testing.T) {
	testlog.Start(t)
	for _, order := range orders {
		for _, v := range []uint64{0, 1, 14074000, math.MaxUint64} {
			got, err := DecodeUint64(EncodeUint64(v, order), order)
			if err != nil || got != v {
				t.Fatalf("u64 %s %d: got=%d err=%v", order, v, got, err)
			}
		}
	}
}

func TestFloat64RoundTripBoundaries(t *testing.T) {
	testlog.Start(t)
	for _, order := range orders {
		for _, v := range []float64{0, -0.5, 0.1, math.MaxFloat64, -math.MaxFloat64, math.SmallestNonzeroFloat64} {
			got, err := DecodeFloat64(EncodeFloat64(v, order), order)
			if err != nil || got != v {
				t.Fatalf("f64 %s %v: got=%v err=%v", order, v, got, err)
			}
		}
	}
}

func TestByteOrderIsExplicit(t *testing.T) {
	testlog.Start(t)
	if !bytes.Equal(EncodeUint16(0x00FF, binary.LittleEndian), []byte{0xFF, 0x00}) {
		t.Fatalf("little endian layout mismatch")
	}
	if !bytes.Equal(EncodeUint32(0xADBCCBDA, binary.BigEndian), []byte{0xAD, 0xBC, 0xCB, 0xDA}) {
		t.Fatalf("big endian layout mismatch")
	}
}

func TestDecodeShortBuffers(t *testing.T) {
	testlog.Start(t)
	if _, err := DecodeUint8(nil); !errors.Is(err, ErrBufferTooShort) {
		t.Fatalf("u8: expected ErrBufferTooShort, got %v", err)
	}
	if _, err := DecodeUint16([]byte{1}, binary.BigEndian); !errors.Is(err, ErrBufferTooShort) {
		t.Fatalf("u16: expected ErrBufferTooShort, got %v", err)
	}
	if _, err := DecodeInt32([]byte{1, 2, 3}, binary.BigEndian); !errors.Is(err, ErrBufferTooShort) {
		t.Fatalf("i32: expected ErrBufferTooShort, got %v", err)
	}
	if _, err := DecodeFloat64(make([]byte, 7), binary.BigEndian); !errors.Is(err, ErrBufferTooShort) {
		t.Fatalf("f64: expected ErrBufferTooShort, got %v", err)
	}
}

func TestMaskToWidth(t *testing.T) {
	testlog.Start(t)
	if got := MaskUint8(0x1FF); got != 0xFF {
		t.Fatalf("mask u8 got=%#x", got)
	}
	if got := MaskUint16(0x12345); got != 0x2345 {
		t.Fatalf("mask u16 got=%#x", got)
	}
}

func TestFieldRoundTrip(t *testing.T) {
	testlog.Start(t)
	for _, s := range []string{"", "ASCII", "Grüße 73 ÄÖÜ ☺"} {
		enc, err := EncodeField(s)
		if err != nil {
			t.Fatalf("encode %q: %v", s, err)
		}
		n, got, err := DecodeField(enc)
		if err != nil {
			t.Fatalf("decode %q: %v", s, err)
		}
		if got != s || n != len(enc) {
			t.Fatalf("round trip %q: got=%q consumed=%d want=%d", s, got, n, len(enc))
		}
	}
}

func TestEncodeEmptyFieldIsNotNullSentinel(t *testing.T) {
	testlog.Start(t)
	enc, err := EncodeField("")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(enc, []byte{0, 0, 0, 0}) {
		t.Fatalf("unexpected empty encoding: % x", enc)
	}
}

func TestDecodeNullField(t *testing.T) {
	testlog.Start(t)
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF, 'j', 'u', 'n', 'k'}
	n, s, err := DecodeField(buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != 4 || s != "" {
		t.Fatalf("null field: consumed=%d s=%q", n, s)
	}
}

func TestDecodeFieldTruncated(t *testing.T) {
	testlog.Start(t)
	// declares 5 bytes, carries 2
	buf := []byte{0, 0, 0, 5, 'a', 'b'}
	if _, _, err := DecodeField(buf); !errors.Is(err, ErrBufferTooShort) {
		t.Fatalf("expected ErrBufferTooShort, got %v", err)
	}
	if _, _, err := DecodeField([]byte{0, 0}); !errors.Is(err, ErrBufferTooShort) {
		t.Fatalf("expected ErrBufferTooShort for short prefix, got %v", err)
	}
}

func TestCheckFieldLenRejectsSentinelSizes(t *testing.T) {
	testlog.Start(t)
	if err := checkFieldLen(int(NullFieldLen)); !errors.Is(err, ErrFieldTooLarge) {
		t.Fatalf("expected ErrFieldTooLarge, got %v", err)
	}
	if err := checkFieldLen(int(NullFieldLen) - 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestReaderSequenceAndSpan(t *testing.T) {
	testlog.Start(t)
	w := NewWriter(binary.BigEndian, 32)
	w.Uint8(1).Uint32(45000000).Int32(-7).Field("FT8").NullField().Float64(0.25)
	buf, err := w.Bytes()
	if err != nil {
		t.Fatalf("writer: %v", err)
	}

	r := NewReader(buf, binary.BigEndian)
	if v, err := r.Bool(); err != nil || !v {
		t.Fatalf("bool: %v %v", v, err)
	}
	start := r.Offset()
	if v, err := r.Uint32(); err != nil || v != 45000000 {
		t.Fatalf("u32: %v %v", v, err)
	}
	if !bytes.Equal(r.Since(start), buf[1:5]) {
		t.Fatalf("span mismatch: % x", r.Since(start))
	}
	if v, err := r.Int32(); err != nil || v != -7 {
		t.Fatalf("i32: %v %v", v, err)
	}
	if v, err := r.Field(); err != nil || v != "FT8" {
		t.Fatalf("field: %q %v", v, err)
	}
	if v, err := r.Field(); err != nil || v != "" {
		t.Fatalf("null field: %q %v", v, err)
	}
	if v, err := r.Float64(); err != nil || v != 0.25 {
		t.Fatalf("f64: %v %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("remaining=%d", r.Remaining())
	}
	if _, err := r.Uint8(); !errors.Is(err, ErrBufferTooShort) {
		t.Fatalf("expected ErrBufferTooShort at end, got %v", err)
	}
}

func TestReaderFailureKeepsCursor(t *testing.T) {
	testlog.Start(t)
	r := NewReader([]byte{0, 0, 0, 9, 'x'}, binary.BigEndian)
	if _, err := r.Field(); !errors.Is(err, ErrBufferTooShort) {
		t.Fatalf("expected ErrBufferTooShort, got %v", err)
	}
	if r.Offset() != 0 {
		t.Fatalf("cursor moved to %d", r.Offset())
	}
}
