package qcolor

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/wsjtxmon/internal/protocol/wire"
	"github.com/danmuck/wsjtxmon/internal/testutil/testlog"
)

func TestEncodeYellowAndBlack(t *testing.T) {
	testlog.Start(t)
	yellow := []byte{0x01, 0xFF, 0x00, 0xFF, 0x00, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00}
	black := []byte{0x01, 0xFF, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	if got := FromName(Yellow).Encode(); !bytes.Equal(got, yellow) {
		t.Fatalf("yellow: got % x want % x", got, yellow)
	}
	if got := FromName(Black).Encode(); !bytes.Equal(got, black) {
		t.Fatalf("black: got % x want % x", got, black)
	}
}

func TestInvalidSentinelRoundTrip(t *testing.T) {
	testlog.Start(t)
	enc := FromName(InvalidName).Encode()
	if len(enc) != EncodedLen {
		t.Fatalf("encoded len=%d", len(enc))
	}
	c, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if c.Spec != SpecInvalid {
		t.Fatalf("spec=%s", c.Spec)
	}
	for _, ch := range []uint16{c.Alpha, c.Red, c.Green, c.Blue} {
		if ch != InvalidChannel {
			t.Fatalf("channel=%#x want %#x", ch, InvalidChannel)
		}
	}
	if c.Pad != 0 {
		t.Fatalf("pad=%d", c.Pad)
	}
}

func TestPresetTable(t *testing.T) {
	testlog.Start(t)
	cases := map[Name]uint32{
		DarkGray:   0x808080FF,
		Gray:       0xA0A0A4FF,
		LightGray:  0xC0C0C0FF,
		DarkYellow: 0x808000FF,
		Orange:     0xFFA500FF,
		DarkViolet: 0x9400D3FF,
		Cyan:       0x00FFFFFF,
	}
	for n, want := range cases {
		if got := FromName(n).RGBA(); got != want {
			t.Fatalf("%s: got=%#08x want=%#08x", n, got, want)
		}
	}
}

func TestTransparentForcesAlpha(t *testing.T) {
	testlog.Start(t)
	c := FromNameAlpha(Transparent, 0x7F)
	if c.Alpha != 0 || c.Red != 0 || c.Green != 0 || c.Blue != 0 {
		t.Fatalf("transparent: %+v", c)
	}
	if got := FromNameAlpha(Red, 0x7F).Alpha; got != 0x7F {
		t.Fatalf("alpha=%#x", got)
	}
}

func TestDecodeTruncatedKeepsPartialFields(t *testing.T) {
	testlog.Start(t)
	enc := FromName(Orange).Encode()
	// spec + alpha + red + half of green
	c, err := Decode(enc[:6])
	if !errors.Is(err, wire.ErrBufferTooShort) {
		t.Fatalf("expected ErrBufferTooShort, got %v", err)
	}
	if c.Spec != SpecRGB || c.Alpha != 0xFF || c.Red != 0xFF {
		t.Fatalf("partial fields lost: %+v", c)
	}
	if c.Green != 0 {
		t.Fatalf("green decoded from half a field: %#x", c.Green)
	}
	if _, err := Decode(nil); !errors.Is(err, wire.ErrBufferTooShort) {
		t.Fatalf("expected ErrBufferTooShort on empty input, got %v", err)
	}
}

func TestJoinSplit(t *testing.T) {
	testlog.Start(t)
	v := Join(1, 2, 3, 4)
	if v != 0x01020304 {
		t.Fatalf("join=%#08x", v)
	}
	r, g, b, a := Split(v)
	if r != 1 || g != 2 || b != 3 || a != 4 {
		t.Fatalf("split=%d %d %d %d", r, g, b, a)
	}
}

func TestWithPackedValueWins(t *testing.T) {
	testlog.Start(t)
	red := uint8(9)
	packed := Join(5, 6, 7, 8)
	c := FromName(InvalidName).With(Override{Red: &red, RGBA: &packed})
	if c.Spec != SpecRGB || c.Pad != 0 {
		t.Fatalf("spec/pad not forced: %+v", c)
	}
	if c.RGBA() != packed {
		t.Fatalf("rgba=%#08x want %#08x", c.RGBA(), packed)
	}
}

func TestWithChannelsKeepsUnset(t *testing.T) {
	testlog.Start(t)
	blue := uint8(0x11)
	c := FromName(Yellow).With(Override{Blue: &blue})
	if c.RGBA() != 0xFFFF11FF {
		t.Fatalf("rgba=%#08x", c.RGBA())
	}
}

func TestParseName(t *testing.T) {
	testlog.Start(t)
	cases := map[string]Name{
		"yellow":      Yellow,
		"Dark-Violet": DarkViolet,
		"dark_violet": DarkViolet,
		"darkviolet":  DarkViolet,
		"light gray":  LightGray,
		"none":        InvalidName,
		"INVALID":     InvalidName,
	}
	for raw, want := range cases {
		got, err := ParseName(raw)
		if err != nil || got != want {
			t.Fatalf("%q: got=%s err=%v", raw, got, err)
		}
	}
	if _, err := ParseName("chartreuse"); !errors.Is(err, ErrUnknownName) {
		t.Fatalf("expected ErrUnknownName, got %v", err)
	}
}

func TestNamesListsEveryPreset(t *testing.T) {
	testlog.Start(t)
	names := Names()
	if len(names) != 21 {
		t.Fatalf("names=%d", len(names))
	}
	if names[0] != "black" || names[len(names)-1] != "invalid" {
		t.Fatalf("order: %v", names)
	}
}
