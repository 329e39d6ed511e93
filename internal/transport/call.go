package transport

import (
	"context"
	"fmt"
	"io"

	"github.com/boot85/idb/internal/protocol"
)

// Call performs one request/response exchange on a fresh stream.
// Cancelling ctx aborts the stream; the stream is released on every
// exit path.
func Call(ctx context.Context, conn Conn, req protocol.Message) (protocol.Message, error) {
	stream, err := conn.OpenStream(ctx)
	if err != nil {
		return nil, err
	}
	defer stream.Close()
	stop := context.AfterFunc(ctx, func() { _ = stream.Close() })
	defer stop()

	if err := stream.Send(req); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}

	res, err := stream.Recv()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("%w: stream closed before response", ErrProtocol)
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	if fault := AsFault(res); fault != nil {
		return nil, fault
	}
	return res, nil
}
