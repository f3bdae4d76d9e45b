package monitor

import (
	"github.com/danmuck/wsjtxmon/internal/observability"
	"github.com/danmuck/wsjtxmon/internal/protocol"
)

func (m *Monitor) send(peer Peer, kind string, datagram []byte) error {
	if peer.Addr == nil {
		observability.RecordSend(kind, false)
		return ErrNoPeer
	}
	_, err := m.conn.WriteToUDP(datagram, peer.Addr)
	observability.RecordSend(kind, err == nil)
	if err != nil {
		m.logger.Warn().Err(err).Str("kind", kind).Str("peer", peer.String()).Msg("udp_send_failed")
		return err
	}
	m.logger.Debug().Str("kind", kind).Str("peer", peer.String()).Int("bytes", len(datagram)).Msg("udp_sent")
	return nil
}

// SendHighlight frames h with the peer's schema and sends it.
func (m *Monitor) SendHighlight(peer Peer, h protocol.HighlightCall) error {
	datagram, err := m.codec.EncodeHighlight(peer.Schema, h)
	if err != nil {
		return err
	}
	return m.send(peer, "highlight", datagram)
}

// SendReply sends reply bytes taken from an earlier decode as they are.
func (m *Monitor) SendReply(peer Peer, reply []byte) error {
	datagram, err := protocol.EncodeReply(reply)
	if err != nil {
		return err
	}
	return m.send(peer, "reply", datagram)
}

// SendCommand frames cmd with the peer's schema and sends it.
func (m *Monitor) SendCommand(peer Peer, cmd protocol.Command) error {
	datagram, err := m.codec.Encode(peer.Schema, cmd)
	if err != nil {
		return err
	}
	return m.send(peer, cmd.Type().String(), datagram)
}
