package daemon

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/boot85/idb/internal/companion"
	"github.com/boot85/idb/internal/protocol"
	"github.com/boot85/idb/internal/transport"
)

type staticResolver struct {
	info companion.Info
	err  error
}

func (r *staticResolver) Resolve(string) (companion.Info, error) {
	return r.info, r.err
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// startCompanion serves a minimal companion: answers app lists and
// acks media uploads.
func startCompanion(t *testing.T, ctx context.Context) companion.Info {
	t.Helper()

	ln, err := transport.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("companion listen failed: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept(ctx)
			if err != nil {
				return
			}
			go func(conn transport.ServerConn) {
				defer conn.Close()
				for {
					stream, err := conn.AcceptStream(ctx)
					if err != nil {
						return
					}
					go serveCompanionStream(stream)
				}
			}(conn)
		}
	}()

	host, port := splitAddr(t, ln.Addr().String())
	return companion.Info{Host: host, Port: port, IsLocal: true}
}

func serveCompanionStream(stream transport.Stream) {
	defer stream.Close()
	first, err := stream.Recv()
	if err != nil {
		return
	}
	switch first.(type) {
	case *protocol.AppListReq:
		_ = stream.Send(&protocol.AppListRes{Apps: []protocol.AppInfo{{BundleID: "com.example.app", Name: "Example"}}})
	case *protocol.MediaOpen:
		for {
			if _, err := stream.Recv(); err != nil {
				break
			}
		}
		_ = stream.Send(&protocol.Ack{})
	default:
		_ = stream.Send(&protocol.Error{Code: protocol.ErrInvalidMsg, Message: "unexpected request"})
	}
	_ = stream.CloseSend()
}

func startRelay(t *testing.T, ctx context.Context, resolver PeerResolver) string {
	t.Helper()

	ln, err := transport.Listen("127.0.0.1:0")
	if err != nil {
		t.Fatalf("relay listen failed: %v", err)
	}
	addr := ln.Addr().String()

	srv := NewServer(addr, resolver, quietLogger())
	go func() { _ = srv.Serve(ctx, ln) }()
	return addr
}

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("bad addr %s: %v", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("bad port in %s: %v", addr, err)
	}
	return host, port
}

func TestServerAnswersPing(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	addr := startRelay(t, ctx, &staticResolver{err: companion.ErrNotFound})

	conn, err := transport.Dial(ctx, addr)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	res, err := transport.Call(ctx, conn, &protocol.Ping{})
	if err != nil {
		t.Fatalf("ping failed: %v", err)
	}
	if _, ok := res.(*protocol.Pong); !ok {
		t.Errorf("expected *Pong, got %T", res)
	}
}

func TestServerRelaysCalls(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info := startCompanion(t, ctx)
	addr := startRelay(t, ctx, &staticResolver{info: info})

	conn, err := transport.Dial(ctx, addr)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	res, err := transport.Call(ctx, conn, &protocol.AppListReq{})
	if err != nil {
		t.Fatalf("relayed call failed: %v", err)
	}
	apps, ok := res.(*protocol.AppListRes)
	if !ok {
		t.Fatalf("expected *AppListRes, got %T", res)
	}
	if len(apps.Apps) != 1 || apps.Apps[0].BundleID != "com.example.app" {
		t.Errorf("unexpected apps %+v", apps.Apps)
	}

	// A second call must reuse the cached upstream connection.
	if _, err := transport.Call(ctx, conn, &protocol.AppListReq{}); err != nil {
		t.Fatalf("second relayed call failed: %v", err)
	}
}

func TestServerRelaysMediaStream(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	info := startCompanion(t, ctx)
	addr := startRelay(t, ctx, &staticResolver{info: info})

	conn, err := transport.Dial(ctx, addr)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	stream, err := conn.OpenStream(ctx)
	if err != nil {
		t.Fatalf("OpenStream failed: %v", err)
	}
	defer stream.Close()

	if err := stream.Send(&protocol.MediaOpen{}); err != nil {
		t.Fatalf("Send MediaOpen failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := stream.Send(&protocol.MediaFile{Path: "/tmp/pic.png"}); err != nil {
			t.Fatalf("Send item %d failed: %v", i, err)
		}
	}
	if err := stream.CloseSend(); err != nil {
		t.Fatalf("CloseSend failed: %v", err)
	}

	msg, err := stream.Recv()
	if err != nil {
		t.Fatalf("Recv ack failed: %v", err)
	}
	if _, ok := msg.(*protocol.Ack); !ok {
		t.Fatalf("expected *Ack, got %T", msg)
	}
	if _, err := stream.Recv(); err != io.EOF {
		t.Errorf("expected io.EOF after ack, got %v", err)
	}
}

func TestServerNoCompanionRegistered(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	addr := startRelay(t, ctx, &staticResolver{err: companion.ErrNotFound})

	conn, err := transport.Dial(ctx, addr)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()

	_, err = transport.Call(ctx, conn, &protocol.AppListReq{})
	var fault *transport.RemoteFault
	if !errors.As(err, &fault) {
		t.Fatalf("expected *RemoteFault, got %v", err)
	}
	if fault.Code != protocol.ErrPeerNotFound {
		t.Errorf("expected ErrPeerNotFound, got %v", fault.Code)
	}
}
