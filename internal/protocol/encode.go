package protocol

import (
	"strings"

	"github.com/danmuck/wsjtxmon/internal/protocol/qcolor"
	"github.com/danmuck/wsjtxmon/internal/protocol/wire"
)

// noChange is the quint32 value Configure reads as "leave as is".
const noChange uint32 = 0xFFFFFFFF

// Command is an outbound message body. The codec writes the header and its
// own id; the command writes the rest.
type Command interface {
	Type() MessageType
	appendBody(w *wire.Writer)
}

// Encode frames cmd under schema.
func (c Codec) Encode(schema uint32, cmd Command) ([]byte, error) {
	w := c.command(schema, cmd.Type(), 64)
	cmd.appendBody(w)
	return w.Bytes()
}

// HighlightCall asks the peer to colour a callsign. Invalid colours
// remove an earlier highlight.
type HighlightCall struct {
	Call           string
	Background     qcolor.Color
	Foreground     qcolor.Color
	LastPeriodOnly bool
}

func (HighlightCall) Type() MessageType { return TypeHighlightCall }

func (h HighlightCall) appendBody(w *wire.Writer) {
	w.Field(h.Call).
		Raw(h.Background.Encode()).
		Raw(h.Foreground.Encode()).
		Bool(h.LastPeriodOnly)
}

// EncodeHighlight frames h under schema. The callsign must not be empty.
func (c Codec) EncodeHighlight(schema uint32, h HighlightCall) ([]byte, error) {
	if strings.TrimSpace(h.Call) == "" {
		return nil, ErrEmptyCall
	}
	return c.Encode(schema, h)
}

// HighlightOptions picks highlight colours by preset name or packed RGBA.
// Zero names fall back to yellow on black; a packed value beats its name.
type HighlightOptions struct {
	Call           string
	Background     qcolor.Name
	Foreground     qcolor.Name
	BackgroundRGBA *uint32
	ForegroundRGBA *uint32
	AllPeriods     bool
}

func (o HighlightOptions) Resolve() HighlightCall {
	return HighlightCall{
		Call:           o.Call,
		Background:     resolveColor(o.Background, qcolor.Yellow, o.BackgroundRGBA),
		Foreground:     resolveColor(o.Foreground, qcolor.Black, o.ForegroundRGBA),
		LastPeriodOnly: !o.AllPeriods,
	}
}

func resolveColor(name, fallback qcolor.Name, rgba *uint32) qcolor.Color {
	if name == 0 {
		name = fallback
	}
	c := qcolor.FromName(name)
	if rgba != nil {
		c = c.With(qcolor.Override{RGBA: rgba})
	}
	return c
}

// ClearHighlight builds a request that removes any highlight on call.
func ClearHighlight(call string) HighlightCall {
	return HighlightCall{
		Call:           call,
		Background:     qcolor.Invalid(),
		Foreground:     qcolor.Invalid(),
		LastPeriodOnly: true,
	}
}

// Clear windows: 0 band activity, 1 rx frequency, 2 both.
func (m Clear) appendBody(w *wire.Writer) {
	var window uint8
	if m.Window != nil {
		window = *m.Window
	}
	w.Uint8(window)
}

// Replay asks the peer to resend its band activity decodes.
type Replay struct{}

func (Replay) Type() MessageType       { return TypeReplay }
func (Replay) appendBody(*wire.Writer) {}

type HaltTx struct {
	AutoTxOnly bool
}

func (HaltTx) Type() MessageType { return TypeHaltTx }

func (m HaltTx) appendBody(w *wire.Writer) {
	w.Bool(m.AutoTxOnly)
}

type FreeText struct {
	Text string
	Send bool
}

func (FreeText) Type() MessageType { return TypeFreeText }

func (m FreeText) appendBody(w *wire.Writer) {
	w.Field(m.Text).Bool(m.Send)
}

type Location struct {
	Grid string
}

func (Location) Type() MessageType { return TypeLocation }

func (m Location) appendBody(w *wire.Writer) {
	w.Field(m.Grid)
}

type SwitchConfig struct {
	Name string
}

func (SwitchConfig) Type() MessageType { return TypeSwitchConfig }

func (m SwitchConfig) appendBody(w *wire.Writer) {
	w.Field(m.Name)
}

// Configure changes peer settings. Empty strings and nil numbers are left
// unchanged by the peer.
type Configure struct {
	Mode             string
	FreqTolerance    *uint32
	SubMode          string
	FastMode         bool
	TRPeriod         *uint32
	RxDF             *uint32
	DXCall           string
	DXGrid           string
	GenerateMessages bool
}

func (Configure) Type() MessageType { return TypeConfigure }

func (m Configure) appendBody(w *wire.Writer) {
	w.Field(m.Mode).
		Uint32(orNoChange(m.FreqTolerance)).
		Field(m.SubMode).
		Bool(m.FastMode).
		Uint32(orNoChange(m.TRPeriod)).
		Uint32(orNoChange(m.RxDF)).
		Field(m.DXCall).
		Field(m.DXGrid).
		Bool(m.GenerateMessages)
}

func orNoChange(v *uint32) uint32 {
	if v == nil {
		return noChange
	}
	return *v
}
