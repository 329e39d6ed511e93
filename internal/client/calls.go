package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/boot85/idb/internal/protocol"
	"github.com/boot85/idb/internal/transport"
)

// callTable holds the bound handler for every operation the facade
// exposes. Adding an operation means adding a field here and a
// descriptor below; nothing else changes.
type callTable struct {
	listApps func(ctx context.Context) ([]protocol.AppInfo, error)
	describe func(ctx context.Context, point *protocol.Point) (string, error)
	approve  func(ctx context.Context, bundleID string, permissions []string) error
	addMedia func(ctx context.Context, paths []string) error
}

type descriptor struct {
	name    string
	install func(c *Client)
}

// descriptors is walked once per Client; each install binds a typed
// handler against the daemon or companion connection and wraps it with
// the error boundary.
var descriptors = []descriptor{
	{name: "list_apps", install: func(c *Client) {
		c.calls.listApps = func(ctx context.Context) ([]protocol.AppInfo, error) {
			c.begin("list_apps")
			res, err := c.callDaemon(ctx, &protocol.AppListReq{})
			if err != nil {
				return nil, c.boundary("list_apps", err)
			}
			list, ok := res.(*protocol.AppListRes)
			if !ok {
				return nil, c.boundary("list_apps", unexpectedResponse(res))
			}
			return list.Apps, nil
		}
	}},
	{name: "describe", install: func(c *Client) {
		c.calls.describe = func(ctx context.Context, point *protocol.Point) (string, error) {
			c.begin("describe")
			res, err := c.callDaemon(ctx, &protocol.DescribeReq{Point: point})
			if err != nil {
				return "", c.boundary("describe", err)
			}
			desc, ok := res.(*protocol.DescribeRes)
			if !ok {
				return "", c.boundary("describe", unexpectedResponse(res))
			}
			return desc.JSON, nil
		}
	}},
	{name: "approve", install: func(c *Client) {
		c.calls.approve = func(ctx context.Context, bundleID string, permissions []string) error {
			c.begin("approve")
			perms, err := parsePermissions(permissions)
			if err != nil {
				return c.boundary("approve", err)
			}
			res, err := c.callDaemon(ctx, &protocol.ApproveReq{BundleID: bundleID, Permissions: perms})
			if err != nil {
				return c.boundary("approve", err)
			}
			if _, ok := res.(*protocol.Ack); !ok {
				return c.boundary("approve", unexpectedResponse(res))
			}
			return nil
		}
	}},
	{name: "add_media", install: func(c *Client) {
		c.calls.addMedia = func(ctx context.Context, paths []string) error {
			c.begin("add_media")
			if err := c.uploadMedia(ctx, paths); err != nil {
				return c.boundary("add_media", err)
			}
			return nil
		}
	}},
}

func (c *Client) callDaemon(ctx context.Context, req protocol.Message) (protocol.Message, error) {
	conn, err := c.mgr.daemon(ctx)
	if err != nil {
		return nil, err
	}
	return transport.Call(ctx, conn, req)
}

func (c *Client) begin(op string) {
	c.logger.Debugf("invoking %s", op)
}

// boundary logs the failed operation and translates transport errors
// into the facade's error kinds. Errors it does not recognize pass
// through unchanged.
func (c *Client) boundary(op string, err error) error {
	c.logger.Debugf("%s failed: %v", op, err)

	// Domain errors already carry their kind; only annotate them.
	if errors.Is(err, ErrUploadFailed) || errors.Is(err, ErrUnknownCapability) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var fault *transport.RemoteFault
	if errors.As(err, &fault) {
		return fmt.Errorf("%s: %w: %s", op, ErrTransportFault, fault.Message)
	}
	if errors.Is(err, transport.ErrProtocol) {
		return fmt.Errorf("%s: %w: %v", op, ErrProtocolFault, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func unexpectedResponse(msg protocol.Message) error {
	return fmt.Errorf("%w: unexpected response %T", transport.ErrProtocol, msg)
}
