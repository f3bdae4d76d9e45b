package protocol

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyReply = errors.New("protocol: empty reply")
	ErrNotReply   = errors.New("protocol: not a reply datagram")
	ErrEmptyCall  = errors.New("protocol: empty callsign")
)

// DecodeError reports the field a body parser failed on.
type DecodeError struct {
	Type  MessageType
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("protocol: decode %s.%s: %v", e.Type, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
