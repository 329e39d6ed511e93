package transport

import (
	"context"
	"errors"
	"fmt"

	"github.com/boot85/idb/internal/protocol"
)

// ErrConnection marks a failed dial or stream open.
var ErrConnection = errors.New("connection failed")

// ErrProtocol marks malformed framing or an abnormally terminated stream.
var ErrProtocol = errors.New("protocol fault")

// RemoteFault is a structured fault message received from the peer.
type RemoteFault struct {
	Code    protocol.ErrorCode
	Message string
}

func (e *RemoteFault) Error() string {
	return fmt.Sprintf("remote fault %s: %s", e.Code, e.Message)
}

// AsFault converts a received fault message into a RemoteFault error.
// Any other message returns nil.
func AsFault(msg protocol.Message) error {
	if fault, ok := msg.(*protocol.Error); ok {
		return &RemoteFault{Code: fault.Code, Message: fault.Message}
	}
	return nil
}

type Conn interface {
	OpenStream(ctx context.Context) (Stream, error)
	RemoteAddr() string
	Close() error
}

// ServerConn is the accept side of a connection.
type ServerConn interface {
	Conn
	AcceptStream(ctx context.Context) (Stream, error)
}

// Stream is one bidirectional message stream. Messages arrive from Recv
// verbatim, fault messages included; callers decide how to surface them.
type Stream interface {
	Send(msg protocol.Message) error
	// Recv returns io.EOF after the peer signals end-of-input.
	Recv() (protocol.Message, error)
	// CloseSend signals end-of-input while keeping the receive side open.
	CloseSend() error
	// Close aborts both directions. Safe to call after CloseSend.
	Close() error
}
