package client

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/boot85/idb/internal/companion"
	"github.com/boot85/idb/internal/transport"
)

// Spawner brings the daemon up before the first dial.
type Spawner interface {
	StartIfNeeded(ctx context.Context, forceRestart bool) error
}

// DialFunc opens a transport connection to addr.
type DialFunc func(ctx context.Context, addr string) (transport.Conn, error)

// connManager hands out the daemon and companion connections. Each slot
// is established at most once; concurrent first callers share a single
// spawn-and-dial attempt and all receive the same handle or the same
// error.
type connManager struct {
	daemonAddr   string
	spawner      Spawner
	forceRestart bool
	direct       companion.Info
	hasDirect    bool
	dial         DialFunc

	group singleflight.Group

	mu            sync.Mutex
	daemonConn    transport.Conn
	companionConn transport.Conn
}

func newConnManager(daemonAddr string, spawner Spawner, forceRestart bool, dial DialFunc) *connManager {
	if dial == nil {
		dial = transport.Dial
	}
	return &connManager{
		daemonAddr:   daemonAddr,
		spawner:      spawner,
		forceRestart: forceRestart,
		dial:         dial,
	}
}

func (m *connManager) setDirect(info companion.Info) {
	m.direct = info
	m.hasDirect = true
}

// daemon returns the shared daemon connection, spawning the daemon and
// dialing it on first use.
func (m *connManager) daemon(ctx context.Context) (transport.Conn, error) {
	m.mu.Lock()
	if m.daemonConn != nil {
		conn := m.daemonConn
		m.mu.Unlock()
		return conn, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do("daemon", func() (interface{}, error) {
		m.mu.Lock()
		if m.daemonConn != nil {
			conn := m.daemonConn
			m.mu.Unlock()
			return conn, nil
		}
		m.mu.Unlock()

		if m.spawner != nil {
			if err := m.spawner.StartIfNeeded(ctx, m.forceRestart); err != nil {
				return nil, err
			}
		}
		conn, err := m.dial(ctx, m.daemonAddr)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.daemonConn = conn
		m.mu.Unlock()
		return conn, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(transport.Conn), nil
}

// companion returns the shared direct companion connection. A facade
// built without a resolvable companion fails here, not at construction.
func (m *connManager) companion(ctx context.Context) (transport.Conn, error) {
	if !m.hasDirect {
		return nil, fmt.Errorf("no companion for target: %w", companion.ErrNotFound)
	}

	m.mu.Lock()
	if m.companionConn != nil {
		conn := m.companionConn
		m.mu.Unlock()
		return conn, nil
	}
	m.mu.Unlock()

	v, err, _ := m.group.Do("companion", func() (interface{}, error) {
		m.mu.Lock()
		if m.companionConn != nil {
			conn := m.companionConn
			m.mu.Unlock()
			return conn, nil
		}
		m.mu.Unlock()

		conn, err := m.dial(ctx, m.direct.Addr())
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.companionConn = conn
		m.mu.Unlock()
		return conn, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(transport.Conn), nil
}

func (m *connManager) close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var firstErr error
	if m.daemonConn != nil {
		if err := m.daemonConn.Close(); err != nil {
			firstErr = err
		}
		m.daemonConn = nil
	}
	if m.companionConn != nil {
		if err := m.companionConn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		m.companionConn = nil
	}
	return firstErr
}
