package daemon

import (
	"context"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/boot85/idb/internal/companion"
	"github.com/boot85/idb/internal/protocol"
	"github.com/boot85/idb/internal/transport"
)

// PeerResolver picks the companion endpoint the daemon forwards to.
type PeerResolver interface {
	Resolve(udid string) (companion.Info, error)
}

// Server is the daemon process: it answers liveness pings itself and
// relays every other stream to the registered companion.
type Server struct {
	addr     string
	resolver PeerResolver
	logger   *logrus.Logger
	dial     func(ctx context.Context, addr string) (transport.Conn, error)

	mu       sync.Mutex
	upstream transport.Conn
}

func NewServer(addr string, resolver PeerResolver, logger *logrus.Logger) *Server {
	return &Server{
		addr:     addr,
		resolver: resolver,
		logger:   logger,
		dial:     transport.Dial,
	}
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := transport.Listen(s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve drains ln until ctx is cancelled; it owns the listener.
func (s *Server) Serve(ctx context.Context, ln *transport.Listener) error {
	defer ln.Close()
	s.logger.Infof("Daemon listening on %s", ln.Addr())

	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		s.logger.Debugf("Accepted connection from %s", conn.RemoteAddr())
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn transport.ServerConn) {
	defer conn.Close()
	for {
		stream, err := conn.AcceptStream(ctx)
		if err != nil {
			return
		}
		go s.handleStream(ctx, stream)
	}
}

func (s *Server) handleStream(ctx context.Context, stream transport.Stream) {
	defer stream.Close()

	first, err := stream.Recv()
	if err != nil {
		return
	}

	if _, ok := first.(*protocol.Ping); ok {
		_ = stream.Send(&protocol.Pong{})
		_ = stream.CloseSend()
		return
	}

	up, err := s.companion(ctx)
	if err != nil {
		s.logger.Warnf("No companion to relay to: %v", err)
		s.reject(stream, protocol.ErrPeerNotFound, err.Error())
		return
	}

	upStream, err := up.OpenStream(ctx)
	if err != nil {
		// The cached conn may have died underneath us; drop it so the
		// next stream redials.
		s.dropUpstream(up)
		s.logger.Warnf("Opening companion stream failed: %v", err)
		s.reject(stream, protocol.ErrInternal, err.Error())
		return
	}
	defer upStream.Close()

	s.logger.Debugf("Relaying %s stream to %s", first.Type(), up.RemoteAddr())
	if err := upStream.Send(first); err != nil {
		s.reject(stream, protocol.ErrInternal, err.Error())
		return
	}

	// Forward the rest of the client's input while responses flow back.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			msg, err := stream.Recv()
			if err != nil {
				if err == io.EOF {
					_ = upStream.CloseSend()
				} else {
					_ = upStream.Close()
				}
				return
			}
			if err := upStream.Send(msg); err != nil {
				return
			}
		}
	}()

	for {
		msg, err := upStream.Recv()
		if err != nil {
			break
		}
		if err := stream.Send(msg); err != nil {
			break
		}
	}
	_ = stream.CloseSend()
	<-done
}

func (s *Server) reject(stream transport.Stream, code protocol.ErrorCode, msg string) {
	_ = stream.Send(&protocol.Error{Code: code, Message: msg})
	_ = stream.CloseSend()
}

// companion returns the lazily dialed upstream connection.
func (s *Server) companion(ctx context.Context) (transport.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.upstream != nil {
		return s.upstream, nil
	}

	info, err := s.resolver.Resolve("")
	if err != nil {
		return nil, err
	}
	conn, err := s.dial(ctx, info.Addr())
	if err != nil {
		return nil, err
	}
	s.logger.Infof("Connected to %s", info)
	s.upstream = conn
	return conn, nil
}

func (s *Server) dropUpstream(conn transport.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upstream == conn {
		_ = s.upstream.Close()
		s.upstream = nil
	}
}

var _ PeerResolver = (*companion.Resolver)(nil)
