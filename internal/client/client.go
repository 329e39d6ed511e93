package client

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/boot85/idb/internal/companion"
	"github.com/boot85/idb/internal/protocol"
)

// Resolver picks the companion a facade talks to.
type Resolver interface {
	Resolve(udid string) (companion.Info, error)
}

// Options configures a Client. Host and Port address the daemon;
// TargetUDID selects a registered companion for direct routes.
type Options struct {
	Host               string
	Port               int
	TargetUDID         string
	ForceRestartDaemon bool
	Logger             *logrus.Logger

	// Spawner, Resolver and Dial default to the real implementations
	// and exist as seams for tests.
	Spawner  Spawner
	Resolver Resolver
	Dial     DialFunc
}

// Client is the facade over the daemon and its companions. Construction
// never fails: companion resolution errors are logged and surface later
// on the calls that need a companion.
type Client struct {
	logger *logrus.Logger
	mgr    *connManager
	calls  callTable
	names  []string
}

func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port))
	c := &Client{
		logger: logger,
		mgr:    newConnManager(addr, opts.Spawner, opts.ForceRestartDaemon, opts.Dial),
	}

	if opts.Resolver != nil {
		info, err := opts.Resolver.Resolve(opts.TargetUDID)
		if err != nil {
			logger.Warnf("companion resolution failed: %v", err)
		} else {
			c.mgr.setDirect(info)
			logger.Debugf("resolved companion %s", info)
		}
	}

	for _, d := range descriptors {
		d.install(c)
		c.names = append(c.names, d.name)
	}
	return c
}

// Operations lists the names of all installed calls.
func (c *Client) Operations() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// ListApps returns the applications installed on the target.
func (c *Client) ListApps(ctx context.Context) ([]protocol.AppInfo, error) {
	return c.calls.listApps(ctx)
}

// Describe returns accessibility information, at point when given,
// otherwise for the whole screen. The payload is an opaque JSON string.
func (c *Client) Describe(ctx context.Context, point *protocol.Point) (string, error) {
	return c.calls.describe(ctx, point)
}

// Approve grants the named permissions to a bundle. Permission names
// are validated before anything is sent.
func (c *Client) Approve(ctx context.Context, bundleID string, permissions []string) error {
	return c.calls.approve(ctx, bundleID, permissions)
}

// AddMedia uploads media files to the target's library.
func (c *Client) AddMedia(ctx context.Context, paths []string) error {
	return c.calls.addMedia(ctx, paths)
}

func (c *Client) Close() error {
	return c.mgr.close()
}

func parsePermissions(names []string) ([]protocol.Permission, error) {
	perms := make([]protocol.Permission, 0, len(names))
	for _, name := range names {
		p, ok := permissionsByName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCapability, name)
		}
		perms = append(perms, p)
	}
	return perms, nil
}

var permissionsByName = map[string]protocol.Permission{
	"photos":   protocol.PermPhotos,
	"camera":   protocol.PermCamera,
	"contacts": protocol.PermContacts,
}
