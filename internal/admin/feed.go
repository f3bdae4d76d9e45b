package admin

import (
	"time"

	"github.com/danmuck/wsjtxmon/internal/decodes"
	"github.com/danmuck/wsjtxmon/internal/monitor"
	"github.com/danmuck/wsjtxmon/internal/observability"
	"github.com/danmuck/wsjtxmon/internal/protocol"
)

// FeedEvent is the JSON shape pushed to websocket clients.
type FeedEvent struct {
	Type     string    `json:"type"`
	Peer     string    `json:"peer,omitempty"`
	Schema   uint32    `json:"schema"`
	At       time.Time `json:"at"`
	RecordID string    `json:"record_id,omitempty"`
	Message  any       `json:"message,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// Observe records decodes on the board, clears it when the peer clears
// its band activity and pushes the event to the feed. Timeouts are not
// forwarded.
func (s *Server) Observe(ev monitor.Event) {
	fe := FeedEvent{Schema: ev.Schema, At: ev.At}
	if ev.Peer.Addr != nil {
		fe.Peer = ev.Peer.Addr.String()
	}
	if ev.Err != nil {
		fe.Type = "error"
		fe.Error = ev.Err.Error()
		s.hub.Broadcast(fe)
		return
	}

	switch m := ev.Message.(type) {
	case nil, protocol.Timeout:
		return
	case protocol.SocketError:
		fe.Error = m.Err.Error()
	case protocol.Decode:
		rec := decodes.NewRecord(m, ev.Reply, ev.Schema, ev.Peer.Addr, ev.At)
		s.board.Add(rec)
		observability.SetDecodesStored(s.board.Len())
		fe.RecordID = rec.ID
		fe.Message = m
	case protocol.Clear:
		if m.Window == nil || *m.Window != 1 {
			s.board.Clear()
			observability.SetDecodesStored(0)
		}
		fe.Message = m
	default:
		fe.Message = m
	}
	fe.Type = ev.Message.Type().String()
	s.hub.Broadcast(fe)
}
