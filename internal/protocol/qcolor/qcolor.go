// Package qcolor serializes the Qt QColor stream embedded in outbound
// highlight requests. Unlike the surrounding frame, the stream is
// little-endian.
package qcolor

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/danmuck/wsjtxmon/internal/protocol/wire"
)

// EncodedLen is the spec byte plus five u16 channels.
const EncodedLen = 11

// InvalidChannel fills every channel of an invalid colour.
const InvalidChannel uint16 = 0xFFFF

var order = binary.LittleEndian

// Spec is the Qt colour specification tag.
type Spec uint8

const (
	SpecInvalid Spec = iota
	SpecRGB
	SpecHSV
	SpecCMYK
	SpecHSL
	SpecExtendedRGB
)

func (s Spec) String() string {
	switch s {
	case SpecInvalid:
		return "invalid"
	case SpecRGB:
		return "rgb"
	case SpecHSV:
		return "hsv"
	case SpecCMYK:
		return "cmyk"
	case SpecHSL:
		return "hsl"
	case SpecExtendedRGB:
		return "extended-rgb"
	default:
		return fmt.Sprintf("spec(%d)", uint8(s))
	}
}

// Color is one serialized QColor. Channels are 16 bits wide on the wire;
// RGB colours only use the low byte.
type Color struct {
	Spec  Spec
	Alpha uint16
	Red   uint16
	Green uint16
	Blue  uint16
	Pad   uint16
}

// Invalid is the colour that cancels highlighting on the peer.
func Invalid() Color {
	return Color{
		Spec:  SpecInvalid,
		Alpha: InvalidChannel,
		Red:   InvalidChannel,
		Green: InvalidChannel,
		Blue:  InvalidChannel,
	}
}

func (c Color) IsInvalid() bool {
	return c.Spec == SpecInvalid
}

// RGBA packs the low bytes of the channels as red<<24|green<<16|blue<<8|alpha.
func (c Color) RGBA() uint32 {
	return Join(uint8(c.Red), uint8(c.Green), uint8(c.Blue), uint8(c.Alpha))
}

func (c Color) String() string {
	if c.IsInvalid() {
		return "invalid"
	}
	return fmt.Sprintf("#%08X", c.RGBA())
}

// Encode returns the 11-byte wire form of c.
func (c Color) Encode() []byte {
	return c.Append(make([]byte, 0, EncodedLen))
}

// Append writes the wire form of c to dst.
func (c Color) Append(dst []byte) []byte {
	w := wire.NewWriter(order, EncodedLen)
	w.Uint8(uint8(c.Spec)).
		Uint16(c.Alpha).
		Uint16(c.Red).
		Uint16(c.Green).
		Uint16(c.Blue).
		Uint16(c.Pad)
	out, _ := w.Bytes()
	return append(dst, out...)
}

// Decode reads one colour from the front of buf. Fields are read in wire
// order; on truncated input the fields read so far are kept and
// wire.ErrBufferTooShort is returned.
func Decode(buf []byte) (Color, error) {
	var c Color
	r := wire.NewReader(buf, order)
	spec, err := r.Uint8()
	if err != nil {
		return c, err
	}
	c.Spec = Spec(spec)
	for _, ch := range []*uint16{&c.Alpha, &c.Red, &c.Green, &c.Blue, &c.Pad} {
		v, err := r.Uint16()
		if err != nil {
			return c, err
		}
		*ch = v
	}
	return c, nil
}

// Join packs four channels into a 32-bit RGBA value.
func Join(red, green, blue, alpha uint8) uint32 {
	return uint32(red)<<24 | uint32(green)<<16 | uint32(blue)<<8 | uint32(alpha)
}

// Split unpacks a 32-bit RGBA value.
func Split(rgba uint32) (red, green, blue, alpha uint8) {
	return uint8(rgba >> 24), uint8(rgba >> 16), uint8(rgba >> 8), uint8(rgba)
}

// FromRGBA builds an RGB colour from a packed value.
func FromRGBA(rgba uint32) Color {
	r, g, b, a := Split(rgba)
	return Color{Spec: SpecRGB, Alpha: uint16(a), Red: uint16(r), Green: uint16(g), Blue: uint16(b)}
}

// Override selects channels to replace. Nil fields keep the current value.
// RGBA, when set, replaces all four channels and the others are ignored.
type Override struct {
	Red   *uint8
	Green *uint8
	Blue  *uint8
	Alpha *uint8
	RGBA  *uint32
}

// With applies o to c. The result is always an RGB colour with zero pad.
func (c Color) With(o Override) Color {
	if o.RGBA != nil {
		return FromRGBA(*o.RGBA)
	}
	out := c
	out.Spec = SpecRGB
	out.Pad = 0
	if o.Alpha != nil {
		out.Alpha = uint16(*o.Alpha)
	}
	if o.Red != nil {
		out.Red = uint16(*o.Red)
	}
	if o.Green != nil {
		out.Green = uint16(*o.Green)
	}
	if o.Blue != nil {
		out.Blue = uint16(*o.Blue)
	}
	return out
}

var ErrUnknownName = errors.New("qcolor: unknown colour name")
