package protocol

import (
	"encoding/binary"

	"github.com/danmuck/wsjtxmon/internal/protocol/frame"
	"github.com/danmuck/wsjtxmon/internal/protocol/wire"
)

// replyModifiers is the trailing keyboard modifier byte. Always 0.
const replyModifiers uint8 = 0

// buildReply frames echo under the inbound schema. echo is the raw span of
// a Decode body from time through low_confidence, copied without
// re-encoding so the peer matches it bit for bit. off_air is not part of
// the span.
func (c Codec) buildReply(schema uint32, echo []byte) ([]byte, error) {
	w := c.command(schema, TypeReply, len(echo)+1)
	w.Raw(echo).Uint8(replyModifiers)
	return w.Bytes()
}

// EncodeReply validates reply bytes produced by Decode and returns a copy
// ready to send.
func EncodeReply(reply []byte) ([]byte, error) {
	if len(reply) == 0 {
		return nil, ErrEmptyReply
	}
	h, err := frame.DecodeHeader(reply)
	if err != nil || MessageType(h.Type) != TypeReply {
		return nil, ErrNotReply
	}
	out := make([]byte, len(reply))
	copy(out, reply)
	return out, nil
}

// command starts an outbound datagram: header then the codec id.
func (c Codec) command(schema uint32, typ MessageType, bodyHint int) *wire.Writer {
	w := wire.NewWriter(binary.BigEndian, frame.HeaderLen+wire.FieldLenSize+len(c.ID)+bodyHint)
	w.Raw(frame.EncodeHeader(frame.New(schema, uint32(typ))))
	w.Field(c.ID)
	return w
}
