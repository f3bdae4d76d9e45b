package protocol

import "fmt"

// MessageType is the type code carried in the frame header. Codes from
// TypeHeaderInvalid up are local only and never appear on the wire.
type MessageType uint32

const (
	TypeHeartbeat     MessageType = 0
	TypeStatus        MessageType = 1
	TypeDecode        MessageType = 2
	TypeClear         MessageType = 3
	TypeReply         MessageType = 4
	TypeQsoLogged     MessageType = 5
	TypeClose         MessageType = 6
	TypeReplay        MessageType = 7
	TypeHaltTx        MessageType = 8
	TypeFreeText      MessageType = 9
	TypeWsprDecode    MessageType = 10
	TypeLocation      MessageType = 11
	TypeAdifLogged    MessageType = 12
	TypeHighlightCall MessageType = 13
	TypeSwitchConfig  MessageType = 14
	TypeConfigure     MessageType = 15

	TypeHeaderInvalid MessageType = 96
	TypeSocketError   MessageType = 97
	TypeTimeout       MessageType = 98
	TypeNone          MessageType = 99
	// TypeUnsupported is reported for wire codes with no parser; the raw
	// code stays in Unsupported.Code.
	TypeUnsupported MessageType = 100
)

var typeNames = map[MessageType]string{
	TypeHeartbeat:     "heartbeat",
	TypeStatus:        "status",
	TypeDecode:        "decode",
	TypeClear:         "clear",
	TypeReply:         "reply",
	TypeQsoLogged:     "qso_logged",
	TypeClose:         "close",
	TypeReplay:        "replay",
	TypeHaltTx:        "halt_tx",
	TypeFreeText:      "free_text",
	TypeWsprDecode:    "wspr_decode",
	TypeLocation:      "location",
	TypeAdifLogged:    "adif_logged",
	TypeHighlightCall: "highlight_call",
	TypeSwitchConfig:  "switch_config",
	TypeConfigure:     "configure",
	TypeHeaderInvalid: "header_invalid",
	TypeSocketError:   "socket_error",
	TypeTimeout:       "timeout",
	TypeNone:          "none",
	TypeUnsupported:   "unsupported",
}

func (t MessageType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint32(t))
}

// Local reports whether t is one of the codes never sent on the wire.
func (t MessageType) Local() bool {
	return t >= TypeHeaderInvalid
}

// Message is one decoded datagram or a local receive outcome.
type Message interface {
	Type() MessageType
}

type Heartbeat struct {
	ID        string `json:"id"`
	MaxSchema uint32 `json:"max_schema"`
	Version   string `json:"version"`
	Revision  string `json:"revision"`
}

type Status struct {
	ID            string `json:"id"`
	DialFreq      uint64 `json:"dial_freq"`
	Mode          string `json:"mode"`
	DXCall        string `json:"dx_call"`
	Report        string `json:"report"`
	TxMode        string `json:"tx_mode"`
	TxEnabled     bool   `json:"tx_enabled"`
	Transmitting  bool   `json:"transmitting"`
	Decoding      bool   `json:"decoding"`
	RxDF          uint32 `json:"rx_df"`
	TxDF          uint32 `json:"tx_df"`
	DECall        string `json:"de_call"`
	DEGrid        string `json:"de_grid"`
	DXGrid        string `json:"dx_grid"`
	TxWatchdog    bool   `json:"tx_watchdog"`
	SubMode       string `json:"submode"`
	FastMode      bool   `json:"fast_mode"`
	SpecialOpMode uint8  `json:"special_op_mode"`
	FreqTolerance uint32 `json:"freq_tolerance"`
	TRPeriod      uint32 `json:"tr_period"`
	ConfigName    string `json:"config_name"`
	// TxMessage is only sent by newer peers.
	TxMessage string `json:"tx_message"`
}

type Decode struct {
	ID string `json:"id"`
	// New is false for decodes replayed from the band activity window.
	New bool `json:"new"`
	// Time is milliseconds since midnight UTC.
	Time          uint32  `json:"time"`
	SNR           int32   `json:"snr"`
	DeltaTime     float64 `json:"delta_time"`
	DeltaFreq     uint32  `json:"delta_freq"`
	Mode          string  `json:"mode"`
	Text          string  `json:"text"`
	LowConfidence bool    `json:"low_confidence"`
	OffAir        bool    `json:"off_air"`
}

// Clear asks for decode windows to be cleared. Inbound, it reports that
// the peer cleared its own windows; Window is nil when the peer omitted it.
type Clear struct {
	ID     string `json:"id"`
	Window *uint8 `json:"window,omitempty"`
}

// DateTime is a serialized QDateTime. Offset is set only when Spec is
// TimeSpecOffset.
type DateTime struct {
	JulianDay uint64 `json:"julian_day"`
	MsOfDay   uint32 `json:"ms_of_day"`
	Spec      uint8  `json:"timespec"`
	Offset    *int32 `json:"offset,omitempty"`
}

type QsoLogged struct {
	ID           string   `json:"id"`
	Off          DateTime `json:"off"`
	DXCall       string   `json:"dx_call"`
	DXGrid       string   `json:"dx_grid"`
	DialFreq     uint64   `json:"dial_freq"`
	Mode         string   `json:"mode"`
	ReportSent   string   `json:"report_sent"`
	ReportRecv   string   `json:"report_recv"`
	TxPower      string   `json:"tx_power"`
	Comments     string   `json:"comments"`
	Name         string   `json:"name"`
	On           DateTime `json:"on"`
	OperatorCall string   `json:"operator_call"`
	MyCall       string   `json:"my_call"`
	MyGrid       string   `json:"my_grid"`
	ExchangeSent string   `json:"exchange_sent"`
	ExchangeRecv string   `json:"exchange_recv"`
}

type Close struct {
	ID string `json:"id"`
}

type WsprDecode struct {
	ID        string  `json:"id"`
	New       bool    `json:"new"`
	Time      uint32  `json:"time"`
	SNR       int32   `json:"snr"`
	DeltaTime float64 `json:"delta_time"`
	Freq      uint64  `json:"freq"`
	Drift     int32   `json:"drift"`
	Callsign  string  `json:"callsign"`
	Grid      string  `json:"grid"`
	Power     int32   `json:"power"`
	OffAir    bool    `json:"off_air"`
}

type AdifLogged struct {
	ID     string `json:"id"`
	Record string `json:"record"`
}

// Unsupported carries a type code with no parser.
type Unsupported struct {
	Code uint32 `json:"code"`
}

// HeaderInvalid is a datagram that is too short or has the wrong magic.
type HeaderInvalid struct{}

// Timeout is produced by the transport when no datagram arrived in time.
type Timeout struct{}

// SocketError is produced by the transport when a receive failed.
type SocketError struct {
	Err error `json:"-"`
}

func (Heartbeat) Type() MessageType     { return TypeHeartbeat }
func (Status) Type() MessageType        { return TypeStatus }
func (Decode) Type() MessageType        { return TypeDecode }
func (Clear) Type() MessageType         { return TypeClear }
func (QsoLogged) Type() MessageType     { return TypeQsoLogged }
func (Close) Type() MessageType         { return TypeClose }
func (WsprDecode) Type() MessageType    { return TypeWsprDecode }
func (AdifLogged) Type() MessageType    { return TypeAdifLogged }
func (Unsupported) Type() MessageType   { return TypeUnsupported }
func (HeaderInvalid) Type() MessageType { return TypeHeaderInvalid }
func (Timeout) Type() MessageType       { return TypeTimeout }
func (SocketError) Type() MessageType   { return TypeSocketError }

// MessageID returns the peer id carried by m, or "" for local variants.
func MessageID(m Message) string {
	switch v := m.(type) {
	case Heartbeat:
		return v.ID
	case Status:
		return v.ID
	case Decode:
		return v.ID
	case Clear:
		return v.ID
	case QsoLogged:
		return v.ID
	case Close:
		return v.ID
	case WsprDecode:
		return v.ID
	case AdifLogged:
		return v.ID
	default:
		return ""
	}
}
