package protocol

import (
	"encoding/binary"

	"github.com/danmuck/wsjtxmon/internal/protocol/frame"
	"github.com/danmuck/wsjtxmon/internal/protocol/wire"
)

// DefaultClientID is the id this side writes into every outbound datagram.
const DefaultClientID = "WSJTXMON"

// TimeSpecOffset is the QDateTime timespec that carries a UTC offset.
const TimeSpecOffset uint8 = 2

// Codec decodes inbound datagrams and encodes outbound ones under ID.
// The zero value encodes with an empty id; use NewCodec.
type Codec struct {
	ID string
}

func NewCodec(id string) Codec {
	if id == "" {
		id = DefaultClientID
	}
	return Codec{ID: id}
}

// Result is the outcome of decoding one datagram. Reply is set only for
// Decode messages. Schema is the inbound schema and must be threaded into
// any command sent back to the same peer.
type Result struct {
	Message Message
	Reply   []byte
	Schema  uint32
}

// Parse decodes datagram with the default client id.
func Parse(datagram []byte) (Result, error) {
	return NewCodec("").Decode(datagram)
}

// Decode validates the frame and dispatches the body to its parser.
// A bad header yields HeaderInvalid and an unknown type yields Unsupported;
// neither is an error. A truncated body returns a *DecodeError with the
// schema still set on the result.
func (c Codec) Decode(datagram []byte) (Result, error) {
	h, err := frame.DecodeHeader(datagram)
	if err != nil {
		return Result{Message: HeaderInvalid{}}, nil
	}
	res := Result{Schema: h.Schema}
	typ := MessageType(h.Type)
	parse, ok := parsers[typ]
	if !ok {
		res.Message = Unsupported{Code: h.Type}
		return res, nil
	}

	p := &parser{r: wire.NewReader(datagram[frame.HeaderLen:], binary.BigEndian), typ: typ}
	msg, echo := parse(p)
	if p.err != nil {
		return res, p.err
	}
	res.Message = msg
	if echo != nil {
		reply, err := c.buildReply(h.Schema, echo)
		if err != nil {
			return res, err
		}
		res.Reply = reply
	}
	return res, nil
}

// bodyParser returns the message and, for replyable messages, the raw
// span to echo back.
type bodyParser func(p *parser) (Message, []byte)

var parsers = map[MessageType]bodyParser{
	TypeHeartbeat:  parseHeartbeat,
	TypeStatus:     parseStatus,
	TypeDecode:     parseDecode,
	TypeClear:      parseClear,
	TypeQsoLogged:  parseQsoLogged,
	TypeClose:      parseClose,
	TypeWsprDecode: parseWsprDecode,
	TypeAdifLogged: parseAdifLogged,
}

// Supported reports whether inbound datagrams of type t are parsed.
func Supported(t MessageType) bool {
	_, ok := parsers[t]
	return ok
}

// parser reads fields in order. After the first failure every read
// returns a zero value and err names the failing field.
type parser struct {
	r   *wire.Reader
	typ MessageType
	err error
}

func (p *parser) fail(field string, err error) {
	if p.err == nil {
		p.err = &DecodeError{Type: p.typ, Field: field, Err: err}
	}
}

func (p *parser) u8(field string) uint8 {
	if p.err != nil {
		return 0
	}
	v, err := p.r.Uint8()
	if err != nil {
		p.fail(field, err)
	}
	return v
}

func (p *parser) flag(field string) bool {
	return p.u8(field) != 0
}

func (p *parser) u32(field string) uint32 {
	if p.err != nil {
		return 0
	}
	v, err := p.r.Uint32()
	if err != nil {
		p.fail(field, err)
	}
	return v
}

func (p *parser) i32(field string) int32 {
	if p.err != nil {
		return 0
	}
	v, err := p.r.Int32()
	if err != nil {
		p.fail(field, err)
	}
	return v
}

func (p *parser) u64(field string) uint64 {
	if p.err != nil {
		return 0
	}
	v, err := p.r.Uint64()
	if err != nil {
		p.fail(field, err)
	}
	return v
}

func (p *parser) f64(field string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := p.r.Float64()
	if err != nil {
		p.fail(field, err)
	}
	return v
}

func (p *parser) str(field string) string {
	if p.err != nil {
		return ""
	}
	v, err := p.r.Field()
	if err != nil {
		p.fail(field, err)
	}
	return v
}

func (p *parser) more() bool {
	return p.err == nil && p.r.Remaining() > 0
}

func (p *parser) dateTime(prefix string) DateTime {
	dt := DateTime{
		JulianDay: p.u64(prefix + "_date"),
		MsOfDay:   p.u32(prefix + "_time"),
		Spec:      p.u8(prefix + "_timespec"),
	}
	if dt.Spec == TimeSpecOffset {
		off := p.i32(prefix + "_offset")
		if p.err == nil {
			dt.Offset = &off
		}
	}
	return dt
}

func parseHeartbeat(p *parser) (Message, []byte) {
	return Heartbeat{
		ID:        p.str("id"),
		MaxSchema: p.u32("max_schema"),
		Version:   p.str("version"),
		Revision:  p.str("revision"),
	}, nil
}

func parseStatus(p *parser) (Message, []byte) {
	m := Status{
		ID:           p.str("id"),
		DialFreq:     p.u64("dial_freq"),
		Mode:         p.str("mode"),
		DXCall:       p.str("dx_call"),
		Report:       p.str("report"),
		TxMode:       p.str("tx_mode"),
		TxEnabled:    p.flag("tx_enabled"),
		Transmitting: p.flag("transmitting"),
		Decoding:     p.flag("decoding"),
		RxDF:         p.u32("rx_df"),
		TxDF:         p.u32("tx_df"),
		DECall:       p.str("de_call"),
		DEGrid:       p.str("de_grid"),
		DXGrid:       p.str("dx_grid"),
		TxWatchdog:   p.flag("tx_watchdog"),
		SubMode:      p.str("sub_mode"),
	}
	if m.SubMode == "" {
		m.SubMode = "."
	}
	m.FastMode = p.flag("fast_mode")
	m.SpecialOpMode = p.u8("special_op_mode")
	m.FreqTolerance = p.u32("freq_tolerance")
	m.TRPeriod = p.u32("tr_period")
	m.ConfigName = p.str("config_name")
	if p.more() {
		m.TxMessage = p.str("tx_message")
	}
	return m, nil
}

func parseDecode(p *parser) (Message, []byte) {
	m := Decode{
		ID:  p.str("id"),
		New: p.flag("new"),
	}
	start := p.r.Offset()
	m.Time = p.u32("time")
	m.SNR = p.i32("snr")
	m.DeltaTime = p.f64("delta_time")
	m.DeltaFreq = p.u32("delta_freq")
	m.Mode = p.str("mode")
	m.Text = p.str("message")
	m.LowConfidence = p.flag("low_confidence")
	echo := p.r.Since(start)
	m.OffAir = p.flag("off_air")
	if p.err != nil {
		return nil, nil
	}
	return m, echo
}

func parseClear(p *parser) (Message, []byte) {
	m := Clear{ID: p.str("id")}
	if p.more() {
		w := p.u8("window")
		m.Window = &w
	}
	return m, nil
}

func parseQsoLogged(p *parser) (Message, []byte) {
	return QsoLogged{
		ID:           p.str("id"),
		Off:          p.dateTime("off"),
		DXCall:       p.str("dx_call"),
		DXGrid:       p.str("dx_grid"),
		DialFreq:     p.u64("dial_freq"),
		Mode:         p.str("mode"),
		ReportSent:   p.str("report_sent"),
		ReportRecv:   p.str("report_recv"),
		TxPower:      p.str("tx_power"),
		Comments:     p.str("comments"),
		Name:         p.str("name"),
		On:           p.dateTime("on"),
		OperatorCall: p.str("operator_call"),
		MyCall:       p.str("my_call"),
		MyGrid:       p.str("my_grid"),
		ExchangeSent: p.str("exchange_sent"),
		ExchangeRecv: p.str("exchange_recv"),
	}, nil
}

func parseClose(p *parser) (Message, []byte) {
	return Close{ID: p.str("id")}, nil
}

func parseWsprDecode(p *parser) (Message, []byte) {
	return WsprDecode{
		ID:        p.str("id"),
		New:       p.flag("new"),
		Time:      p.u32("time"),
		SNR:       p.i32("snr"),
		DeltaTime: p.f64("delta_time"),
		Freq:      p.u64("freq"),
		Drift:     p.i32("drift"),
		Callsign:  p.str("callsign"),
		Grid:      p.str("grid"),
		Power:     p.i32("power"),
		OffAir:    p.flag("off_air"),
	}, nil
}

func parseAdifLogged(p *parser) (Message, []byte) {
	return AdifLogged{
		ID:     p.str("id"),
		Record: p.str("adif"),
	}, nil
}
