package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/quic-go/quic-go"

	"github.com/boot85/idb/internal/protocol"
)

// Dial opens a connection to a daemon or companion peer.
func Dial(ctx context.Context, addr string) (Conn, error) {
	tlsConf, err := clientTLSConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: tls setup: %v", ErrConnection, err)
	}
	conn, err := quic.DialAddr(ctx, addr, tlsConf, defaultQUICConfig())
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrConnection, addr, err)
	}
	return &quicConn{conn: conn}, nil
}

type Listener struct {
	ln *quic.Listener
}

func Listen(addr string) (*Listener, error) {
	tlsConf, err := serverTLSConfig()
	if err != nil {
		return nil, err
	}
	ln, err := quic.ListenAddr(addr, tlsConf, defaultQUICConfig())
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return &Listener{ln: ln}, nil
}

func (l *Listener) Addr() net.Addr {
	return l.ln.Addr()
}

func (l *Listener) Accept(ctx context.Context) (ServerConn, error) {
	conn, err := l.ln.Accept(ctx)
	if err != nil {
		return nil, err
	}
	return &quicConn{conn: conn}, nil
}

func (l *Listener) Close() error {
	return l.ln.Close()
}

type quicConn struct {
	conn *quic.Conn
}

func (c *quicConn) OpenStream(ctx context.Context) (Stream, error) {
	stream, err := c.conn.OpenStreamSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: open stream: %v", ErrConnection, err)
	}
	return newQUICStream(stream), nil
}

func (c *quicConn) AcceptStream(ctx context.Context) (Stream, error) {
	stream, err := c.conn.AcceptStream(ctx)
	if err != nil {
		return nil, err
	}
	return newQUICStream(stream), nil
}

func (c *quicConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func (c *quicConn) Close() error {
	return c.conn.CloseWithError(0, "")
}

type quicStream struct {
	stream *quic.Stream
	codec  *protocol.Codec
}

func newQUICStream(stream *quic.Stream) *quicStream {
	return &quicStream{stream: stream, codec: protocol.NewCodec(stream)}
}

func (s *quicStream) Send(msg protocol.Message) error {
	if err := s.codec.Encode(msg); err != nil {
		return fmt.Errorf("%w: send %s: %v", ErrProtocol, msg.Type(), err)
	}
	return nil
}

func (s *quicStream) Recv() (protocol.Message, error) {
	msg, err := s.codec.Decode()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		var serr *quic.StreamError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("%w: stream terminated: %v", ErrProtocol, serr)
		}
		return nil, fmt.Errorf("%w: recv: %v", ErrProtocol, err)
	}
	return msg, nil
}

func (s *quicStream) CloseSend() error {
	return s.stream.Close()
}

func (s *quicStream) Close() error {
	s.stream.CancelRead(0)
	s.stream.CancelWrite(0)
	return nil
}
