package client

import (
	"context"
	"fmt"
	"io"

	"github.com/boot85/idb/internal/archive"
	"github.com/boot85/idb/internal/protocol"
	"github.com/boot85/idb/internal/transport"
)

// uploadMedia pushes media files over a single companion stream. A
// local companion shares the filesystem, so paths are sent as-is; a
// remote one receives the files as a chunked tar archive.
func (c *Client) uploadMedia(ctx context.Context, paths []string) error {
	conn, err := c.mgr.companion(ctx)
	if err != nil {
		return err
	}

	stream, err := conn.OpenStream(ctx)
	if err != nil {
		return uploadErr(err)
	}
	defer stream.Close()
	stop := context.AfterFunc(ctx, func() { stream.Close() })
	defer stop()

	if err := stream.Send(&protocol.MediaOpen{}); err != nil {
		return uploadErr(err)
	}

	if c.mgr.direct.IsLocal {
		err = sendFilePaths(stream, paths)
	} else {
		err = sendArchive(ctx, stream, paths)
	}
	if err != nil {
		return uploadErr(err)
	}

	if err := stream.CloseSend(); err != nil {
		return uploadErr(err)
	}
	res, err := stream.Recv()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err == io.EOF {
			return uploadErr(fmt.Errorf("%w: stream closed before ack", transport.ErrProtocol))
		}
		return uploadErr(err)
	}
	if err := transport.AsFault(res); err != nil {
		return uploadErr(err)
	}
	if _, ok := res.(*protocol.Ack); !ok {
		return uploadErr(fmt.Errorf("%w: unexpected response %T", transport.ErrProtocol, res))
	}
	return nil
}

func sendFilePaths(stream transport.Stream, paths []string) error {
	for _, path := range paths {
		if err := stream.Send(&protocol.MediaFile{Path: path}); err != nil {
			return err
		}
	}
	return nil
}

func sendArchive(ctx context.Context, stream transport.Stream, paths []string) error {
	// The chunk producer runs until its context ends; cancel it on
	// every exit so an aborted send does not strand it mid-archive.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var seq uint32
	for res := range archive.Stream(ctx, paths, true) {
		if res.Err != nil {
			return res.Err
		}
		if err := stream.Send(&protocol.MediaChunk{Seq: seq, Data: res.Data}); err != nil {
			return err
		}
		seq++
	}
	return ctx.Err()
}

func uploadErr(err error) error {
	return fmt.Errorf("%w: %w", ErrUploadFailed, err)
}
