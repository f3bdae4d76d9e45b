package frame

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/wsjtxmon/internal/testutil/testlog"
)

func TestHeaderRoundTrip(t *testing.T) {
	testlog.Start(t)
	in := New(3, 2)
	buf := EncodeHeader(in)
	if len(buf) != HeaderLen {
		t.Fatalf("header len=%d", len(buf))
	}
	if !bytes.Equal(buf[:4], []byte{0xAD, 0xBC, 0xCB, 0xDA}) {
		t.Fatalf("magic bytes: % x", buf[:4])
	}
	out, err := DecodeHeader(append(buf, 0xEE, 0xEE))
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	if out != in {
		t.Fatalf("header mismatch: got=%+v want=%+v", out, in)
	}
}

func TestDecodeHeaderShort(t *testing.T) {
	testlog.Start(t)
	_, err := DecodeHeader([]byte{0xAD, 0xBC, 0xCB, 0xDA, 0, 0, 0, 3})
	if !errors.Is(err, ErrShortHeader) {
		t.Fatalf("expected ErrShortHeader, got %v", err)
	}
}

func TestDecodeHeaderBadMagic(t *testing.T) {
	testlog.Start(t)
	for _, magic := range []uint32{0, 0xDACBBCAD, Magic + 1} {
		buf := EncodeHeader(Header{Magic: magic, Schema: 2, Type: 1})
		_, err := DecodeHeader(buf)
		if !errors.Is(err, ErrInvalidMagic) {
			t.Fatalf("magic %#x: expected ErrInvalidMagic, got %v", magic, err)
		}
		if Valid(buf) {
			t.Fatalf("magic %#x reported valid", magic)
		}
	}
}

func TestAppendHeaderKeepsPrefix(t *testing.T) {
	testlog.Start(t)
	buf := AppendHeader([]byte{1, 2}, New(2, 13))
	if len(buf) != 2+HeaderLen || buf[0] != 1 || buf[1] != 2 {
		t.Fatalf("prefix lost: % x", buf)
	}
	if _, err := DecodeHeader(buf[2:]); err != nil {
		t.Fatalf("decode appended header: %v", err)
	}
}
