// Package monitor is the UDP transport around the protocol codec. It
// receives datagrams from the peer application, decodes them and sends
// commands back to whichever address a datagram came from.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/danmuck/wsjtxmon/internal/config"
	"github.com/danmuck/wsjtxmon/internal/observability"
	"github.com/danmuck/wsjtxmon/internal/protocol"
	"github.com/danmuck/wsjtxmon/internal/protocol/wire"
	"github.com/rs/zerolog"
)

// pollInterval bounds each blocking read so context cancellation is seen.
const pollInterval = 250 * time.Millisecond

var (
	ErrNoPeer = errors.New("monitor: no peer seen yet")
	ErrClosed = errors.New("monitor: closed")
)

// Peer is where a datagram came from and the schema it used. Commands for
// that peer must be framed with the same schema.
type Peer struct {
	Addr   *net.UDPAddr
	Schema uint32
}

func (p Peer) String() string {
	if p.Addr == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s schema=%d", p.Addr, p.Schema)
}

// Event is one receive outcome. Err is set when the datagram arrived but
// its body failed to decode; the loop keeps going in that case.
type Event struct {
	protocol.Result
	Peer Peer
	At   time.Time
	Size int
	Err  error
}

type Monitor struct {
	conn    *net.UDPConn
	codec   protocol.Codec
	timeout time.Duration
	buf     []byte
	logger  zerolog.Logger

	mu   sync.RWMutex
	last Peer
	seen bool
}

// Listen binds cfg's address. The socket stays open until Close.
func Listen(cfg config.UDPConfig, codec protocol.Codec, logger zerolog.Logger) (*Monitor, error) {
	addr, err := net.ResolveUDPAddr("udp", cfg.Address())
	if err != nil {
		return nil, fmt.Errorf("resolve udp address: %w", err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen udp: %w", err)
	}
	size := cfg.BufferSize
	if size <= 0 {
		size = 2048
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 16 * time.Second
	}
	m := &Monitor{
		conn:    conn,
		codec:   codec,
		timeout: timeout,
		buf:     make([]byte, size),
		logger:  logger,
	}
	logger.Info().
		Str("addr", conn.LocalAddr().String()).
		Dur("timeout", timeout).
		Int("buffer_size", size).
		Msg("udp_listen")
	return m, nil
}

func (m *Monitor) LocalAddr() *net.UDPAddr {
	return m.conn.LocalAddr().(*net.UDPAddr)
}

func (m *Monitor) Close() error {
	return m.conn.Close()
}

// LastPeer returns the most recent sender of a well-formed datagram.
func (m *Monitor) LastPeer() (Peer, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last, m.seen
}

// Next blocks for one datagram. With nothing received within the read
// timeout it returns a Timeout event. A socket failure returns a
// SocketError event together with the error.
func (m *Monitor) Next(ctx context.Context) (Event, error) {
	deadline := time.Now().Add(m.timeout)
	for {
		if err := ctx.Err(); err != nil {
			return Event{}, err
		}
		step := time.Now().Add(pollInterval)
		if step.After(deadline) {
			step = deadline
		}
		if err := m.conn.SetReadDeadline(step); err != nil {
			return m.socketError(err)
		}

		n, addr, err := m.conn.ReadFromUDP(m.buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				if time.Now().Before(deadline) {
					continue
				}
				observability.RecordTimeout()
				return Event{Result: protocol.Result{Message: protocol.Timeout{}}, At: time.Now()}, nil
			}
			return m.socketError(err)
		}
		return m.handle(m.buf[:n], addr), nil
	}
}

func (m *Monitor) socketError(err error) (Event, error) {
	if errors.Is(err, net.ErrClosed) {
		err = ErrClosed
	}
	observability.RecordDecodeError("socket")
	m.logger.Error().Err(err).Msg("udp_receive_failed")
	return Event{Result: protocol.Result{Message: protocol.SocketError{Err: err}}, At: time.Now()}, err
}

func (m *Monitor) handle(datagram []byte, addr *net.UDPAddr) Event {
	ev := Event{At: time.Now(), Size: len(datagram)}
	res, err := m.codec.Decode(datagram)
	ev.Result = res
	ev.Peer = Peer{Addr: addr, Schema: res.Schema}

	if err != nil {
		ev.Err = err
		reason := "malformed"
		if errors.Is(err, wire.ErrBufferTooShort) {
			reason = "buffer_too_short"
		}
		observability.RecordDecodeError(reason)
		m.logger.Warn().Err(err).Str("peer", addr.String()).Int("bytes", len(datagram)).Msg("udp_decode_failed")
		return ev
	}

	typ := res.Message.Type()
	observability.RecordDatagram(typ.String(), len(datagram))
	if _, ok := res.Message.(protocol.HeaderInvalid); ok {
		m.logger.Debug().Str("peer", addr.String()).Int("bytes", len(datagram)).Msg("udp_header_invalid")
		return ev
	}
	if u, ok := res.Message.(protocol.Unsupported); ok {
		m.logger.Debug().Uint32("code", u.Code).Str("peer", addr.String()).Msg("udp_unsupported_type")
	}

	m.mu.Lock()
	m.last = ev.Peer
	m.seen = true
	m.mu.Unlock()

	m.logger.Trace().
		Str("type", typ.String()).
		Str("peer", addr.String()).
		Uint32("schema", res.Schema).
		Int("bytes", len(datagram)).
		Msg("udp_datagram")
	return ev
}

// Handler consumes events from Run. Returning an error stops the loop.
type Handler func(Event) error

// Run feeds events to h until the peer sends Close, ctx ends, the socket
// fails or h returns an error. Close from the peer is not an error.
func (m *Monitor) Run(ctx context.Context, h Handler) error {
	for {
		ev, err := m.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := h(ev); err != nil {
			return err
		}
		if _, ok := ev.Message.(protocol.Close); ok {
			m.logger.Info().Str("peer", ev.Peer.String()).Msg("peer_closed")
			return nil
		}
	}
}
