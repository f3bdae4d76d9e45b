package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/wsjtxmon/internal/monitor"
	"github.com/danmuck/wsjtxmon/internal/protocol"
)

// printer writes one line per event, either as text columns or JSON.
type printer struct {
	out  io.Writer
	json bool
}

type jsonLine struct {
	Type    string `json:"type"`
	Peer    string `json:"peer,omitempty"`
	Schema  uint32 `json:"schema"`
	Message any    `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (p printer) event(ev monitor.Event) error {
	if p.json {
		line := jsonLine{Schema: ev.Schema}
		if ev.Peer.Addr != nil {
			line.Peer = ev.Peer.Addr.String()
		}
		if ev.Message != nil {
			line.Type = ev.Message.Type().String()
			line.Message = ev.Message
		}
		if ev.Err != nil {
			line.Type = "error"
			line.Error = ev.Err.Error()
		}
		data, err := json.Marshal(line)
		if err != nil {
			// One unencodable message must not end the stream.
			data, err = json.Marshal(jsonLine{
				Type:   "error",
				Peer:   line.Peer,
				Schema: line.Schema,
				Error:  fmt.Sprintf("encode %s: %v", line.Type, err),
			})
			if err != nil {
				return err
			}
		}
		_, err = fmt.Fprintln(p.out, string(data))
		return err
	}
	if ev.Err != nil {
		_, err := fmt.Fprintf(p.out, "%-14s %v\n", "error", ev.Err)
		return err
	}
	_, err := fmt.Fprintln(p.out, formatMessage(ev.Message))
	return err
}

// formatMessage renders m as a single console line.
func formatMessage(m protocol.Message) string {
	if m == nil {
		return ""
	}
	label := fmt.Sprintf("%-14s", m.Type().String())
	switch v := m.(type) {
	case protocol.Heartbeat:
		return fmt.Sprintf("%s %s max_schema=%d version=%s revision=%s", label, v.ID, v.MaxSchema, v.Version, v.Revision)
	case protocol.Status:
		parts := []string{
			fmt.Sprintf("%s %s", label, v.ID),
			fmt.Sprintf("dial=%d", v.DialFreq),
			fmt.Sprintf("mode=%s", v.Mode),
			fmt.Sprintf("dx=%s", v.DXCall),
			fmt.Sprintf("de=%s/%s", v.DECall, v.DEGrid),
			fmt.Sprintf("rx_df=%d tx_df=%d", v.RxDF, v.TxDF),
		}
		if v.Transmitting {
			parts = append(parts, "tx")
		}
		if v.Decoding {
			parts = append(parts, "decoding")
		}
		if v.TxMessage != "" {
			parts = append(parts, fmt.Sprintf("tx_message=%q", v.TxMessage))
		}
		return strings.Join(parts, " ")
	case protocol.Decode:
		marker := " "
		if v.New {
			marker = "*"
		}
		return fmt.Sprintf("%s %s %s %s %s %s %s %s",
			label, marker, v.TimeString(), v.SNRString(), v.DeltaTimeString(), v.DeltaFreqString(), v.Mode, v.Text)
	case protocol.Clear:
		if v.Window == nil {
			return fmt.Sprintf("%s %s", label, v.ID)
		}
		return fmt.Sprintf("%s %s window=%d", label, v.ID, *v.Window)
	case protocol.QsoLogged:
		return fmt.Sprintf("%s %s %s %s %s %d %s sent=%s rcvd=%s off=%s %s",
			label, v.ID, v.DXCall, v.DXGrid, v.Mode, v.DialFreq, v.Name, v.ReportSent, v.ReportRecv,
			v.Off.DateString(), v.Off.TimeString())
	case protocol.Close:
		return fmt.Sprintf("%s %s", label, v.ID)
	case protocol.WsprDecode:
		return fmt.Sprintf("%s %s %s %s %s %s %s %s %d",
			label, v.ID, v.TimeString(), v.SNRString(), v.DeltaTimeString(), v.FreqString(), v.Callsign, v.Grid, v.Power)
	case protocol.AdifLogged:
		return fmt.Sprintf("%s %s %s", label, v.ID, strings.TrimSpace(v.Record))
	case protocol.Unsupported:
		return fmt.Sprintf("%s code=%d", label, v.Code)
	case protocol.SocketError:
		return fmt.Sprintf("%s %v", label, v.Err)
	default:
		return strings.TrimSpace(label)
	}
}
