// Package daemon spawns, tracks, and runs the background daemon that
// brokers client calls to a companion.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/boot85/idb/internal/protocol"
	"github.com/boot85/idb/internal/transport"
)

// ErrUnavailable reports that the daemon process could not be started
// or never became reachable.
var ErrUnavailable = errors.New("daemon unavailable")

const (
	probeTimeout  = 500 * time.Millisecond
	readyInterval = 200 * time.Millisecond
	readyTimeout  = 5 * time.Second
)

// Spawner brings up the daemon process on demand. It never retries a
// failed spawn; that policy belongs to the caller.
type Spawner struct {
	host    string
	port    int
	pidFile *PidFile
	logger  *logrus.Logger
}

func NewSpawner(host string, port int, pidFile *PidFile, logger *logrus.Logger) *Spawner {
	return &Spawner{host: host, port: port, pidFile: pidFile, logger: logger}
}

// StartIfNeeded makes sure a daemon answers on the configured address,
// spawning one when nothing does. With forceRestart all known daemon
// processes die first, so a fresh one always comes up.
func (s *Spawner) StartIfNeeded(ctx context.Context, forceRestart bool) error {
	if forceRestart {
		if err := s.pidFile.KillAll(); err != nil {
			s.logger.Warnf("Failed to kill running daemons: %v", err)
		}
	} else if s.ready(ctx) {
		return nil
	}

	if err := s.spawn(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := s.waitReady(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *Spawner) addr() string {
	return net.JoinHostPort(s.host, strconv.Itoa(s.port))
}

// ready probes the daemon with a ping over a throwaway connection.
func (s *Spawner) ready(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	conn, err := transport.Dial(probeCtx, s.addr())
	if err != nil {
		return false
	}
	defer conn.Close()

	res, err := transport.Call(probeCtx, conn, &protocol.Ping{})
	if err != nil {
		return false
	}
	_, ok := res.(*protocol.Pong)
	return ok
}

// spawnArgs carries the full listen address to the child; the child
// must come up exactly where ready() probes.
func (s *Spawner) spawnArgs() []string {
	return []string{"daemon", "--daemon-host", s.host, "--port", strconv.Itoa(s.port)}
}

func (s *Spawner) spawn() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	cmd := exec.Command(exe, s.spawnArgs()...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		return err
	}
	s.logger.Infof("Spawned daemon pid %d on %s", cmd.Process.Pid, s.addr())

	if err := s.pidFile.Save(cmd.Process.Pid); err != nil {
		s.logger.Warnf("Failed to save daemon pid: %v", err)
	}
	// Reap the child when it exits so it never lingers as a zombie.
	go func() { _ = cmd.Wait() }()
	return nil
}

func (s *Spawner) waitReady(ctx context.Context) error {
	deadline := time.Now().Add(readyTimeout)
	for {
		if s.ready(ctx) {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("daemon not reachable on %s after %s", s.addr(), readyTimeout)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readyInterval):
		}
	}
}
